// Package expansion augments the hot set with design-relevant neighbors:
// declaring containers, members of hot interfaces invoked on the hot path,
// symbols co-located in the same files, and config readers. The
// closure is computed in one non-transitive pass — the teacher's
// context-manifest expander (internal/mcp/context_manifest_expander.go)
// applies its directive set the same way, rather than re-expanding
// iteratively to a fixpoint.
package expansion

import (
	"github.com/oiegrant/context-slice/internal/merger"
	"github.com/oiegrant/context-slice/internal/types"
)

// ExpandedIr is the closed set of symbols and edges the compressor orders
// into a Slice.
type ExpandedIr struct {
	Symbols map[types.SymbolID]*types.Symbol
	Edges   []types.CallEdge
}

// Expand implements spec.md §4.6.
func Expand(m *merger.MergedIr, g *types.Graph, hot []types.SymbolID) *ExpandedIr {
	hotSet := make(map[types.SymbolID]struct{}, len(hot))
	expanded := make(map[types.SymbolID]*types.Symbol, len(hot))
	for _, id := range hot {
		hotSet[id] = struct{}{}
		if s, ok := m.Symbols[id]; ok {
			expanded[id] = s
		}
	}

	addContainers(m, expanded)
	addInterfaceImplementors(m, g, hotSet, expanded)
	addCoLocatedMembers(m, expanded)
	addConfigReaders(m, expanded)

	edges := make([]types.CallEdge, 0)
	for _, e := range m.Edges {
		_, callerIn := expanded[e.Caller]
		_, calleeIn := expanded[e.Callee]
		if callerIn && calleeIn {
			edges = append(edges, e)
		}
	}

	return &ExpandedIr{Symbols: expanded, Edges: edges}
}

// addContainers: for every hot symbol with a Container, include the
// container symbol.
func addContainers(m *merger.MergedIr, set map[types.SymbolID]*types.Symbol) {
	for _, s := range snapshot(set) {
		if s.Container == nil {
			continue
		}
		if container, ok := m.Symbols[*s.Container]; ok {
			set[container.ID] = container
		}
	}
}

// addInterfaceImplementors: for every hot interface symbol, include every
// symbol whose Container is that interface and that also appears as the
// callee of an edge whose caller is hot. The IR records no implements
// relation, so members of classes that implement the interface are not
// recognized here.
func addInterfaceImplementors(m *merger.MergedIr, g *types.Graph, hot map[types.SymbolID]struct{}, set map[types.SymbolID]*types.Symbol) {
	interfaces := make(map[types.SymbolID]struct{})
	for id := range hot {
		if s, ok := m.Symbols[id]; ok && s.Kind == types.SymbolKindInterface {
			interfaces[id] = struct{}{}
		}
	}
	if len(interfaces) == 0 {
		return
	}

	isHotEdgeCallee := func(calleeID types.SymbolID) bool {
		for _, callerID := range g.InEdges[calleeID] {
			if _, callerHot := hot[callerID]; callerHot {
				return true
			}
		}
		return false
	}

	for _, s := range m.Symbols {
		if s.Container == nil {
			continue
		}
		if _, implementsHotInterface := interfaces[*s.Container]; !implementsHotInterface {
			continue
		}
		if !isHotEdgeCallee(s.ID) {
			continue
		}
		set[s.ID] = s
		if container, ok := m.Symbols[*s.Container]; ok {
			set[container.ID] = container
		}
	}
}

// addCoLocatedMembers: for every file touched by a symbol already in set,
// include every class/interface/constructor symbol declared in that file.
// Methods are deliberately excluded — the slice stays focused.
func addCoLocatedMembers(m *merger.MergedIr, set map[types.SymbolID]*types.Symbol) {
	touchedFiles := make(map[types.FileID]struct{})
	for _, s := range snapshot(set) {
		touchedFiles[s.FileID] = struct{}{}
	}

	for _, s := range m.Symbols {
		if _, touched := touchedFiles[s.FileID]; !touched {
			continue
		}
		switch s.Kind {
		case types.SymbolKindClass, types.SymbolKindInterface, types.SymbolKindConstructor:
			set[s.ID] = s
		}
	}
}

// addConfigReaders: include every symbol referenced by a ConfigRead.
func addConfigReaders(m *merger.MergedIr, set map[types.SymbolID]*types.Symbol) {
	for _, cr := range m.ConfigReads {
		if s, ok := m.Symbols[cr.SymbolID]; ok {
			set[s.ID] = s
		}
	}
}

func snapshot(set map[types.SymbolID]*types.Symbol) []*types.Symbol {
	out := make([]*types.Symbol, 0, len(set))
	for _, s := range set {
		out = append(out, s)
	}
	return out
}
