package traversal

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oiegrant/context-slice/internal/types"
)

func chain(n int) *types.Graph {
	g := types.NewGraph()
	for i := 0; i < n; i++ {
		id := types.SymbolID(rune('A' + i))
		g.Nodes[id] = struct{}{}
	}
	for i := 0; i < n-1; i++ {
		caller := types.SymbolID(rune('A' + i))
		callee := types.SymbolID(rune('A' + i + 1))
		g.OutEdges[caller] = append(g.OutEdges[caller], types.CallEdge{Caller: caller, Callee: callee})
	}
	return g
}

func TestHotSet_FallbackWhenNoRuntimeData(t *testing.T) {
	g := chain(3) // A -> B -> C, no runtime observation
	hot := HotSet(g, types.Scenario{EntryPoints: []types.SymbolID{"A"}})
	assert.ElementsMatch(t, []types.SymbolID{"A", "B", "C"}, hot)
}

func TestHotSet_OnlyRuntimeObservedEdgesFollowedWhenDataExists(t *testing.T) {
	g := chain(3)
	g.OutEdges["A"][0].RuntimeObserved = true
	g.OutEdges["A"][0].CallCount = 1
	// B->C stays unobserved.
	hot := HotSet(g, types.Scenario{EntryPoints: []types.SymbolID{"A"}})
	assert.ElementsMatch(t, []types.SymbolID{"A", "B"}, hot)
}

func TestHotSet_EntryPointsFirstThenSortedAscending(t *testing.T) {
	g := chain(3)
	g.OutEdges["A"][0].RuntimeObserved = true
	g.OutEdges["A"][0].CallCount = 1
	g.OutEdges["B"][0].RuntimeObserved = true
	g.OutEdges["B"][0].CallCount = 1
	order := HotSet(g, types.Scenario{EntryPoints: []types.SymbolID{"B", "A"}})
	assert.Equal(t, []types.SymbolID{"B", "A", "C"}, order)
}

func TestHotSet_CyclicGraphTerminates(t *testing.T) {
	g := types.NewGraph()
	g.Nodes["A"] = struct{}{}
	g.Nodes["B"] = struct{}{}
	g.OutEdges["A"] = []types.CallEdge{{Caller: "A", Callee: "B"}}
	g.OutEdges["B"] = []types.CallEdge{{Caller: "B", Callee: "A"}}
	hot := HotSet(g, types.Scenario{EntryPoints: []types.SymbolID{"A"}})
	assert.ElementsMatch(t, []types.SymbolID{"A", "B"}, hot)
}
