// Package graph constructs the directed multigraph of symbols the
// traversal and expansion stages operate over. The builder never mutates
// its MergedIr input; it only reads from it.
package graph

import (
	"github.com/oiegrant/context-slice/internal/merger"
	"github.com/oiegrant/context-slice/internal/types"
)

// Build constructs a Graph over m in O(N + E): every symbol becomes a
// node, every edge is inserted into OutEdges[caller] and mirrored into
// InEdges[callee], and FileMap is populated from each symbol's FileID.
func Build(m *merger.MergedIr) *types.Graph {
	intern := newTable(len(m.Symbols))
	for id := range m.Symbols {
		intern.intern(id)
	}

	g := types.NewGraph()
	for id, sym := range m.Symbols {
		g.Nodes[id] = struct{}{}
		g.FileMap[id] = sym.FileID
	}
	for id, count := range m.ObservedCounts {
		g.ObservedSymbolCounts[id] = count
	}

	for _, e := range m.Edges {
		if _, ok := intern.lookup(e.Caller); !ok {
			continue
		}
		if _, ok := intern.lookup(e.Callee); !ok {
			continue
		}
		g.OutEdges[e.Caller] = append(g.OutEdges[e.Caller], e)
		g.InEdges[e.Callee] = append(g.InEdges[e.Callee], e.Caller)
	}

	return g
}
