package validator

import (
	"github.com/google/jsonschema-go/jsonschema"
)

// irSchema mirrors the top-level shape of static_ir.json (spec.md §3/§6).
// It is compiled once at package init and used to reject a malformed
// document's shape before the field-by-field checks in Validate run,
// the same literal-schema-then-validate pattern the teacher uses for its
// MCP tool input schemas (internal/mcp/server.go's registerTools),
// repurposed here from tool-call parameters to an IR document.
var irSchema = &jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"ir_version":      {Type: "string"},
		"language":        {Type: "string"},
		"repo_root":       {Type: "string"},
		"adapter_version": {Type: "string"},
		"scenario": {
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"name":         {Type: "string"},
				"entry_points": {Types: []string{"array", "null"}, Items: &jsonschema.Schema{Type: "string"}},
				"run_args":     {Types: []string{"array", "null"}, Items: &jsonschema.Schema{Type: "string"}},
				"config_files": {Types: []string{"array", "null"}, Items: &jsonschema.Schema{Type: "string"}},
			},
			Required: []string{"name"},
		},
		// Arrays accept null: the document is re-encoded from Go structs,
		// where an absent or empty list is a nil slice.
		"files":        {Types: []string{"array", "null"}},
		"symbols":      {Types: []string{"array", "null"}},
		"call_edges":   {Types: []string{"array", "null"}},
		"config_reads": {Types: []string{"array", "null"}},
		"runtime":      {Type: "object"},
	},
	Required: []string{"ir_version", "language", "repo_root", "adapter_version", "scenario", "files", "symbols"},
}

var resolvedIrSchema *jsonschema.Resolved

func init() {
	resolved, err := irSchema.Resolve(nil)
	if err != nil {
		// A hand-authored literal schema failing to resolve is a bug in
		// this package, not a runtime condition callers can handle.
		panic("validator: static IR schema failed to resolve: " + err.Error())
	}
	resolvedIrSchema = resolved
}

// validateShape rejects a document whose top-level shape doesn't match
// static_ir.json before the validator's ordered field checks run.
func validateShape(document map[string]any) error {
	return resolvedIrSchema.Validate(document)
}
