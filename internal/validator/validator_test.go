package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oiegrant/context-slice/internal/types"
)

func baseRoot() *types.IrRoot {
	return &types.IrRoot{
		IrVersion:      "0.1",
		Language:       "java",
		RepoRoot:       "/repo",
		AdapterVersion: "1.0.0",
		Scenario: types.Scenario{
			Name:        "s",
			EntryPoints: []types.SymbolID{"java::A"},
		},
		Files: []types.File{{ID: "f01", Path: "A.java", Language: "java"}},
		Symbols: []types.Symbol{
			{ID: "java::A", Kind: types.SymbolKindClass, Name: "A", Language: "java", FileID: "f01", LineStart: 1, LineEnd: 2, Annotations: []string{}},
			{ID: "java::B", Kind: types.SymbolKindClass, Name: "B", Language: "java", FileID: "f01", LineStart: 3, LineEnd: 4, Annotations: []string{}},
		},
		CallEdges: []types.CallEdge{{Caller: "java::A", Callee: "java::B"}},
	}
}

func TestValidate_SchemaVersionMismatchIsFatal(t *testing.T) {
	root := baseRoot()
	root.IrVersion = "0.2"
	_, _, err := Validate(root)
	require.Error(t, err)
}

func TestValidate_DuplicateSymbolIdIsFatal(t *testing.T) {
	root := baseRoot()
	root.Symbols = append(root.Symbols, types.Symbol{ID: "java::A", Kind: types.SymbolKindMethod, FileID: "f01", LineStart: 1, LineEnd: 1})
	_, _, err := Validate(root)
	require.Error(t, err)
}

func TestValidate_UnknownFileIdIsFatal(t *testing.T) {
	root := baseRoot()
	root.Symbols[0].FileID = "f99"
	_, _, err := Validate(root)
	require.Error(t, err)
}

func TestValidate_LineEndBeforeLineStartIsFatal(t *testing.T) {
	root := baseRoot()
	root.Symbols[0].LineEnd = 0
	root.Symbols[0].LineStart = 5
	_, _, err := Validate(root)
	require.Error(t, err)
}

func TestValidate_UnknownEdgeEndpointIsFilteredWithWarning(t *testing.T) {
	root := baseRoot()
	root.CallEdges = append(root.CallEdges, types.CallEdge{Caller: "java::A", Callee: "java::UNKNOWN"})
	v, warnings, err := Validate(root)
	require.NoError(t, err)
	assert.Len(t, warnings, 1)
	assert.Len(t, v.IrRoot.CallEdges, 1, "only the valid edge survives")
}

func TestValidate_ValidInputProducesLookupIndices(t *testing.T) {
	root := baseRoot()
	v, warnings, err := Validate(root)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Len(t, v.SymbolByID, 2)
	assert.Len(t, v.FileByID, 1)
}
