package merger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oiegrant/context-slice/internal/types"
	"github.com/oiegrant/context-slice/internal/validator"
)

func validatedAB(t *testing.T) *validator.ValidatedIr {
	t.Helper()
	root := &types.IrRoot{
		IrVersion:      "0.1",
		Language:       "java",
		RepoRoot:       "/repo",
		AdapterVersion: "1.0.0",
		Scenario:       types.Scenario{Name: "s", EntryPoints: []types.SymbolID{"java::A"}},
		Files:          []types.File{{ID: "f01", Path: "A.java", Language: "java"}},
		Symbols: []types.Symbol{
			{ID: "java::A", Kind: types.SymbolKindClass, FileID: "f01", LineStart: 1, LineEnd: 2, Annotations: []string{}},
			{ID: "java::B", Kind: types.SymbolKindClass, FileID: "f01", LineStart: 3, LineEnd: 4, Annotations: []string{}},
		},
		CallEdges: []types.CallEdge{{Caller: "java::A", Callee: "java::B", IsStatic: true}},
	}
	v, warnings, err := validator.Validate(root)
	require.NoError(t, err)
	require.Empty(t, warnings)
	return v
}

func TestMerge_E1_StaticEdgeUnobserved(t *testing.T) {
	v := validatedAB(t)
	m, _ := Merge(v, &types.RuntimeTrace{})
	require.Len(t, m.Edges, 1)
	assert.False(t, m.Edges[0].RuntimeObserved)
	assert.Equal(t, 0, m.Edges[0].CallCount)
}

func TestMerge_E2_StaticEdgeObserved(t *testing.T) {
	v := validatedAB(t)
	rt := &types.RuntimeTrace{
		ObservedEdges:   []types.ObservedEdge{{Caller: "java::A", Callee: "java::B", CallCount: 3}},
		ObservedSymbols: []types.ObservedSymbol{{SymbolID: "java::A", CallCount: 3}, {SymbolID: "java::B", CallCount: 3}},
	}
	m, _ := Merge(v, rt)
	require.Len(t, m.Edges, 1)
	assert.True(t, m.Edges[0].RuntimeObserved)
	assert.Equal(t, 3, m.Edges[0].CallCount)
}

func TestMerge_E4_RuntimeConfigRead(t *testing.T) {
	v := validatedAB(t)
	rt := &types.RuntimeTrace{
		ConfigReads: []types.ConfigRead{{SymbolID: "java::A", ConfigKey: "order.payment.provider", ResolvedValue: "stripe"}},
	}
	m, _ := Merge(v, rt)
	require.Len(t, m.ConfigReads, 1)
	assert.Equal(t, "stripe", m.ConfigReads[0].ResolvedValue)
}

func TestMerge_E5_RuntimeEdgeWithUnknownEndpointDropped(t *testing.T) {
	v := validatedAB(t)
	rt := &types.RuntimeTrace{
		ObservedEdges: []types.ObservedEdge{{Caller: "java::A", Callee: "java::UNKNOWN", CallCount: 1}},
	}
	m, warnings := Merge(v, rt)
	assert.Len(t, warnings, 1)
	for _, e := range m.Edges {
		assert.NotEqual(t, types.SymbolID("java::UNKNOWN"), e.Callee)
	}
}

func TestMerge_RuntimeOnlySymbolNotPromoted(t *testing.T) {
	v := validatedAB(t)
	rt := &types.RuntimeTrace{
		ObservedSymbols: []types.ObservedSymbol{{SymbolID: "java::GHOST", CallCount: 9}},
	}
	m, _ := Merge(v, rt)
	_, exists := m.Symbols["java::GHOST"]
	assert.False(t, exists)
}

func TestMerge_ConfigReadUnionPrefersRuntimeOnCollision(t *testing.T) {
	v := validatedAB(t)
	v.IrRoot.ConfigReads = []types.ConfigRead{{SymbolID: "java::A", ConfigKey: "k", ResolvedValue: "static-value"}}
	rt := &types.RuntimeTrace{
		ConfigReads: []types.ConfigRead{{SymbolID: "java::A", ConfigKey: "k", ResolvedValue: "runtime-value"}},
	}
	m, _ := Merge(v, rt)
	require.Len(t, m.ConfigReads, 1)
	assert.Equal(t, "runtime-value", m.ConfigReads[0].ResolvedValue)
}

func TestMerge_DuplicateStaticEdgesCollapseLatestWins(t *testing.T) {
	v := validatedAB(t)
	v.IrRoot.CallEdges = []types.CallEdge{
		{Caller: "java::A", Callee: "java::B", IsStatic: true, CallCount: 1},
		{Caller: "java::A", Callee: "java::B", IsStatic: true, CallCount: 2},
	}
	m, _ := Merge(v, &types.RuntimeTrace{})
	require.Len(t, m.Edges, 1)
	assert.True(t, m.Edges[0].IsStatic)
	assert.False(t, m.Edges[0].RuntimeObserved)
	assert.Equal(t, 0, m.Edges[0].CallCount) // unobserved at runtime, so annotated to zero
}

func TestMerge_RuntimeOnlyEdgeAddedWhenBothEndpointsStatic(t *testing.T) {
	v := validatedAB(t)
	rt := &types.RuntimeTrace{
		ObservedEdges: []types.ObservedEdge{{Caller: "java::B", Callee: "java::A", CallCount: 2}},
	}
	m, _ := Merge(v, rt)
	found := false
	for _, e := range m.Edges {
		if e.Caller == "java::B" && e.Callee == "java::A" {
			found = true
			assert.False(t, e.IsStatic)
			assert.True(t, e.RuntimeObserved)
			assert.Equal(t, 2, e.CallCount)
		}
	}
	assert.True(t, found)
}
