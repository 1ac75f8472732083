// Package merger joins a ValidatedIr with a RuntimeTrace into a MergedIr:
// symbols deduplicated, edges deduplicated and annotated with observation
// status, config reads unioned. The validator has already rejected
// duplicate static symbol ids and dangling file references, so Merge
// treats its static symbol input as already-unique — the first-wins dedup
// below is a defensive invariant, never a path exercised on
// validator-passed input. Call edges get no such pass from the validator
// (duplicate (caller, callee) pairs are a legal producer quirk, not a
// schema violation), so Merge dedups them itself per spec.md §3.
package merger

import (
	"sort"

	"github.com/oiegrant/context-slice/internal/diag"
	"github.com/oiegrant/context-slice/internal/types"
	"github.com/oiegrant/context-slice/internal/validator"
)

// MergedIr is the unified IR the graph builder consumes: a deduplicated
// symbol set, annotated edges, and unioned config reads.
type MergedIr struct {
	Scenario    types.Scenario
	Files       map[types.FileID]*types.File
	Symbols     map[types.SymbolID]*types.Symbol
	Edges       []types.CallEdge
	ConfigReads []types.ConfigRead

	// ObservedCounts is each matched symbol's runtime call count, needed
	// by the hot-path traversal's step 1. Runtime-only symbols never
	// appear here — they're discarded per the rule above.
	ObservedCounts map[types.SymbolID]int
}

// Merge implements the rules of spec.md §4.3.
func Merge(v *validator.ValidatedIr, rt *types.RuntimeTrace) (*MergedIr, []validator.Warning) {
	if rt == nil {
		rt = &types.RuntimeTrace{}
	}
	var warnings []validator.Warning

	symbols := make(map[types.SymbolID]*types.Symbol, len(v.SymbolByID))
	for id, s := range v.SymbolByID {
		if _, dup := symbols[id]; dup {
			continue // first wins; unreachable for validator-passed input.
		}
		symbols[id] = s
	}

	observedCounts := make(map[types.SymbolID]int, len(rt.ObservedSymbols))
	for _, obs := range rt.ObservedSymbols {
		if _, ok := symbols[obs.SymbolID]; !ok {
			diag.Printf("merger: discarding runtime-only symbol %s (count=%d)", obs.SymbolID, obs.CallCount)
			continue
		}
		observedCounts[obs.SymbolID] = obs.CallCount
	}

	runtimeEdgeCounts := make(map[types.EdgeKey]int, len(rt.ObservedEdges))
	for _, e := range rt.ObservedEdges {
		runtimeEdgeCounts[types.EdgeKey{Caller: e.Caller, Callee: e.Callee}] = e.CallCount
	}

	// Dedup duplicate (caller, callee) pairs within the static edge list
	// itself before annotation: flags OR together, latest occurrence wins
	// for call_count (spec.md §3). staticOrder preserves first-occurrence
	// position so the rest of the pipeline sees a deterministic order.
	staticEdges := make(map[types.EdgeKey]types.CallEdge, len(v.IrRoot.CallEdges))
	staticOrder := make([]types.EdgeKey, 0, len(v.IrRoot.CallEdges))
	for _, e := range v.IrRoot.CallEdges {
		key := e.Key()
		if existing, dup := staticEdges[key]; dup {
			e.IsStatic = existing.IsStatic || e.IsStatic
			e.RuntimeObserved = existing.RuntimeObserved || e.RuntimeObserved
		} else {
			staticOrder = append(staticOrder, key)
		}
		staticEdges[key] = e
	}

	seenStaticEdges := make(map[types.EdgeKey]struct{}, len(staticOrder))
	merged := make([]types.CallEdge, 0, len(staticOrder)+len(rt.ObservedEdges))
	for _, key := range staticOrder {
		e := staticEdges[key]
		seenStaticEdges[key] = struct{}{}
		if count, observed := runtimeEdgeCounts[key]; observed {
			e.RuntimeObserved = true
			e.CallCount = count
		} else {
			e.RuntimeObserved = false
			e.CallCount = 0
		}
		merged = append(merged, e)
	}

	// Runtime-only edges: add them when both endpoints exist as static
	// symbols; drop them with a warning otherwise. A pair repeated in the
	// trace is added once, carrying its latest count.
	for _, obs := range rt.ObservedEdges {
		key := types.EdgeKey{Caller: obs.Caller, Callee: obs.Callee}
		if _, alreadyStatic := seenStaticEdges[key]; alreadyStatic {
			continue
		}
		_, callerOK := symbols[obs.Caller]
		_, calleeOK := symbols[obs.Callee]
		if !callerOK || !calleeOK {
			warnings = append(warnings, validator.Warning{
				Stage:   "merger",
				Message: "dropping runtime-only edge " + string(obs.Caller) + "->" + string(obs.Callee) + ": unknown endpoint",
			})
			continue
		}
		seenStaticEdges[key] = struct{}{}
		merged = append(merged, types.CallEdge{
			Caller:          obs.Caller,
			Callee:          obs.Callee,
			IsStatic:        false,
			RuntimeObserved: true,
			CallCount:       runtimeEdgeCounts[key],
		})
	}

	// Final filter: both endpoints must survive in the deduplicated
	// symbol set (always true here since symbols carries every static
	// symbol unchanged, but kept as an explicit invariant check).
	finalEdges := merged[:0:0]
	for _, e := range merged {
		if _, ok := symbols[e.Caller]; !ok {
			continue
		}
		if _, ok := symbols[e.Callee]; !ok {
			continue
		}
		finalEdges = append(finalEdges, e)
	}

	configReads := unionConfigReads(v.IrRoot.ConfigReads, rt.ConfigReads)

	return &MergedIr{
		Scenario:       v.IrRoot.Scenario,
		Files:          v.FileByID,
		Symbols:        symbols,
		Edges:          finalEdges,
		ConfigReads:    configReads,
		ObservedCounts: observedCounts,
	}, warnings
}

// unionConfigReads dedups by (symbol_id, config_key), preferring runtime
// values when both a static and a runtime record exist for the same key.
func unionConfigReads(static, runtime []types.ConfigRead) []types.ConfigRead {
	byKey := make(map[[2]string]types.ConfigRead, len(static)+len(runtime))

	for _, cr := range static {
		byKey[cr.DedupKey()] = cr
	}
	for _, cr := range runtime {
		byKey[cr.DedupKey()] = cr // runtime overwrites static on collision
	}

	out := make([]types.ConfigRead, 0, len(byKey))
	for _, cr := range byKey {
		out = append(out, cr)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SymbolID != out[j].SymbolID {
			return out[i].SymbolID < out[j].SymbolID
		}
		return out[i].ConfigKey < out[j].ConfigKey
	})
	return out
}
