package types

// PromptHint is a compact, in-memory companion to a Slice, shaped after
// the teacher's ContextManifest: symbol references plus line ranges, no
// source text. It is not one of the five canonical packaged files — the
// pipeline returns it alongside the packaged Slice purely so the prompt
// assembler (out of scope) can concatenate without re-reading
// call_graph.json from disk.
type PromptHint struct {
	ScenarioName string      `json:"scenario_name,omitempty"`
	Refs         []PromptRef `json:"refs"`
	Stats        PromptStats `json:"stats,omitempty"`
}

// PromptRef mirrors one ordered symbol from a Slice. Role is always left
// empty here: inferring agent-facing semantic roles ("modify", "contract")
// belongs to the prompt assembler, not this pipeline.
type PromptRef struct {
	File string     `json:"f"`
	Sym  SymbolID   `json:"s"`
	L    *LineRange `json:"l,omitempty"`
	Role string     `json:"role,omitempty"`
}

// LineRange specifies a 1-indexed, inclusive line range.
type LineRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// PromptStats summarizes a PromptHint for display purposes.
type PromptStats struct {
	RefCount  int `json:"ref_count"`
	FileCount int `json:"file_count"`
}
