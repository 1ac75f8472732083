// Package validator enforces static_ir.json's schema version, referential
// integrity, and uniqueness invariants, producing a ValidatedIr with
// populated fast-lookup indices for the merger.
package validator

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/oiegrant/context-slice/internal/diag"
	"github.com/oiegrant/context-slice/internal/types"
)

const expectedIrVersion = "0.1"

// ValidatedIr is the Validator's output once schema and referential checks
// have passed: the original fields, plus lookup indices the merger and
// graph builder use instead of re-scanning slices.
type ValidatedIr struct {
	IrRoot *types.IrRoot

	SymbolByID map[types.SymbolID]*types.Symbol
	FileByID   map[types.FileID]*types.File
}

// Warning is a single recoverable finding accumulated during validation.
type Warning struct {
	Stage   string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("[%s] %s", w.Stage, w.Message)
}

// Validate runs the ordered checks from spec.md §4.2, stopping at the
// first fatal failure. The only lenient rule is rule 5: call edges with
// unknown endpoints are filtered out with a warning rather than rejected,
// because the static analyzer may legitimately emit edges into library
// symbols this IR doesn't describe.
func Validate(root *types.IrRoot) (*ValidatedIr, []Warning, error) {
	var warnings []Warning

	if root.IrVersion != expectedIrVersion {
		return nil, nil, diag.Fatal("validator", "schema version mismatch: expected %q, got %q", expectedIrVersion, root.IrVersion)
	}

	if err := validateDocumentShape(root); err != nil {
		return nil, nil, diag.Fatal("validator", "malformed IR document: %v", err)
	}

	fileByID := make(map[types.FileID]*types.File, len(root.Files))
	for i := range root.Files {
		f := &root.Files[i]
		fileByID[f.ID] = f
	}

	symbolByID := make(map[types.SymbolID]*types.Symbol, len(root.Symbols))
	for i := range root.Symbols {
		s := &root.Symbols[i]

		if _, ok := fileByID[s.FileID]; !ok {
			return nil, nil, diag.Fatal("validator", "symbol %q references unknown file_id %q", s.ID, s.FileID)
		}

		if _, dup := symbolByID[s.ID]; dup {
			return nil, nil, diag.Fatal("validator", "duplicate symbol id %q", s.ID)
		}
		symbolByID[s.ID] = s

		if s.LineEnd < s.LineStart {
			return nil, nil, diag.Fatal("validator", "symbol %q has line_end (%d) < line_start (%d)", s.ID, s.LineEnd, s.LineStart)
		}
	}

	filteredEdges := root.CallEdges[:0:0]
	for _, e := range root.CallEdges {
		_, callerOK := symbolByID[e.Caller]
		_, calleeOK := symbolByID[e.Callee]
		if !callerOK || !calleeOK {
			warnings = append(warnings, Warning{
				Stage:   "validator",
				Message: fmt.Sprintf("dropping call edge %s->%s: unknown endpoint", e.Caller, e.Callee),
			})
			continue
		}
		filteredEdges = append(filteredEdges, e)
	}
	root.CallEdges = filteredEdges

	return &ValidatedIr{
		IrRoot:     root,
		SymbolByID: symbolByID,
		FileByID:   fileByID,
	}, warnings, nil
}

// validateDocumentShape re-derives a generic map from the already-parsed
// IrRoot and runs it through the compiled JSON schema. Because the map is
// re-encoded from typed Go fields, a source file whose values have the
// wrong JSON type (e.g. a string where an array belongs) has already been
// rejected by the loader's decode and never reaches this check.
func validateDocumentShape(root *types.IrRoot) error {
	data, err := json.Marshal(root)
	if err != nil {
		return fmt.Errorf("re-encoding IR for shape check: %w", err)
	}
	var document map[string]any
	if err := json.Unmarshal(data, &document); err != nil {
		return fmt.Errorf("decoding IR for shape check: %w", err)
	}
	return validateShape(document)
}

// SortedFileIDs returns the keys of a file index in ascending order, for
// callers that need deterministic iteration.
func SortedFileIDs(v *ValidatedIr) []types.FileID {
	ids := make([]types.FileID, 0, len(v.FileByID))
	for id := range v.FileByID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
