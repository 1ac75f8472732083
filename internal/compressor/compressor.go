// Package compressor produces the final ordered, deduplicated Slice from
// an ExpandedIr, applying the three deterministic sort orders spec.md
// §4.7 requires.
package compressor

import (
	"sort"

	"github.com/oiegrant/context-slice/internal/expansion"
	"github.com/oiegrant/context-slice/internal/merger"
	"github.com/oiegrant/context-slice/internal/types"
)

// Compress implements spec.md §4.7. adapterVersion and language populate
// ScenarioMeta; TimestampUTC/TimestampUnix are left zero-valued here — the
// packager stamps them at write time, since determinism (testable
// property 4) explicitly exempts metadata.json's timestamps.
func Compress(e *expansion.ExpandedIr, m *merger.MergedIr, scenario types.Scenario, adapterVersion, language string, runtimeCaptured bool) *types.Slice {
	ordered := orderedSymbols(e, m)

	return &types.Slice{
		OrderedSymbols:      ordered,
		Edges:               orderedEdges(e),
		RelevantFilePaths:   relevantFilePaths(ordered, m),
		RelevantConfigReads: relevantConfigReads(e, m),
		ScenarioMeta: types.ScenarioMeta{
			ScenarioName:    scenario.Name,
			AdapterVersion:  adapterVersion,
			Language:        language,
			RuntimeCaptured: runtimeCaptured,
		},
	}
}

// orderedSymbols sorts by (file path ascending, line_start ascending, id
// ascending) — this is what orders the slice architecturally rather than
// by traversal order.
func orderedSymbols(e *expansion.ExpandedIr, m *merger.MergedIr) []types.SymbolID {
	symbols := make([]*types.Symbol, 0, len(e.Symbols))
	for _, s := range e.Symbols {
		symbols = append(symbols, s)
	}

	pathOf := func(s *types.Symbol) string {
		if f, ok := m.Files[s.FileID]; ok {
			return f.Path
		}
		return string(s.FileID)
	}

	sort.Slice(symbols, func(i, j int) bool {
		pi, pj := pathOf(symbols[i]), pathOf(symbols[j])
		if pi != pj {
			return pi < pj
		}
		if symbols[i].LineStart != symbols[j].LineStart {
			return symbols[i].LineStart < symbols[j].LineStart
		}
		return symbols[i].ID < symbols[j].ID
	})

	ids := make([]types.SymbolID, len(symbols))
	for i, s := range symbols {
		ids[i] = s.ID
	}
	return ids
}

// orderedEdges sorts the expanded edge set by (caller, callee) ascending so
// call_graph.json's edges list is as deterministic as ordered_symbols —
// every edge here connects two symbols already present in ordered_symbols
// by construction of expansion.Expand.
func orderedEdges(e *expansion.ExpandedIr) []types.CallEdge {
	edges := make([]types.CallEdge, len(e.Edges))
	copy(edges, e.Edges)
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Caller != edges[j].Caller {
			return edges[i].Caller < edges[j].Caller
		}
		return edges[i].Callee < edges[j].Callee
	})
	return edges
}

// relevantFilePaths returns the distinct file paths of ordered, sorted
// ascending — spec.md's testable property 3.
func relevantFilePaths(ordered []types.SymbolID, m *merger.MergedIr) []string {
	seen := make(map[string]struct{})
	for _, id := range ordered {
		s, ok := m.Symbols[id]
		if !ok {
			continue
		}
		f, ok := m.Files[s.FileID]
		if !ok {
			continue
		}
		seen[f.Path] = struct{}{}
	}

	paths := make([]string, 0, len(seen))
	for p := range seen {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// relevantConfigReads returns config reads whose symbol survived
// expansion, sorted by (symbol_id, config_key).
func relevantConfigReads(e *expansion.ExpandedIr, m *merger.MergedIr) []types.ConfigRead {
	reads := make([]types.ConfigRead, 0, len(m.ConfigReads))
	for _, cr := range m.ConfigReads {
		if _, in := e.Symbols[cr.SymbolID]; in {
			reads = append(reads, cr)
		}
	}
	sort.Slice(reads, func(i, j int) bool {
		if reads[i].SymbolID != reads[j].SymbolID {
			return reads[i].SymbolID < reads[j].SymbolID
		}
		return reads[i].ConfigKey < reads[j].ConfigKey
	})
	return reads
}
