// Package pipeline runs the linear state machine spec.md §4/§9 describes:
// Loaded → Validated → Merged → Graph → Hot → Expanded → Sliced → Packed.
// Each stage's result is held in a local variable and set to nil once no
// later stage reads it. The merged IR stays live until compression, since
// expansion and compression both read it, so while expansion runs the
// merged IR, graph, hot set and expanded set are all held at once.
package pipeline

import (
	"time"

	"github.com/oiegrant/context-slice/internal/compressor"
	"github.com/oiegrant/context-slice/internal/config"
	"github.com/oiegrant/context-slice/internal/diag"
	"github.com/oiegrant/context-slice/internal/expansion"
	"github.com/oiegrant/context-slice/internal/graph"
	"github.com/oiegrant/context-slice/internal/loader"
	"github.com/oiegrant/context-slice/internal/merger"
	"github.com/oiegrant/context-slice/internal/packager"
	"github.com/oiegrant/context-slice/internal/traversal"
	"github.com/oiegrant/context-slice/internal/types"
	"github.com/oiegrant/context-slice/internal/validator"
)

// Result is everything Run hands back to the CLI: the packaged Slice,
// an in-memory PromptHint companion (the prompt subcommand does not use
// it; it reads the packaged markdown files from disk), and every
// recoverable warning collected across stages.
type Result struct {
	Slice      *types.Slice
	PromptHint *types.PromptHint
	Warnings   []validator.Warning
}

// traced logs a stage's wall-clock duration when verbose tracing is on.
func traced(name string, fn func()) {
	start := time.Now()
	fn()
	diag.Printf("stage %s completed in %s", name, time.Since(start))
}

// Run drives the pipeline end to end against staticPath/runtimePath,
// writing the packaged slice under outDir. cfg is accepted for parity
// with the CLI's configuration-loading contract; the core pipeline reads
// none of its fields directly — transforms.depth_limit and
// transforms.max_collection_elements govern the (out-of-scope) static
// analyzer's value simplification, not this pipeline's traversal depth
// caps, which spec.md §4.5 fixes at 32/8 regardless of configuration.
func Run(cfg *config.Config, staticPath, runtimePath, outDir string) (*Result, error) {
	_ = cfg
	var warnings []validator.Warning

	root, runtimeTrace, err := loader.Load(staticPath, runtimePath)
	if err != nil {
		return nil, err
	}

	var validated *validator.ValidatedIr
	traced("validate", func() {
		validated, warnings, err = validator.Validate(root)
	})
	if err != nil {
		return nil, err
	}
	root = nil // drop the previous stage's output

	adapterVersion := validated.IrRoot.AdapterVersion
	language := validated.IrRoot.Language

	var merged *merger.MergedIr
	traced("merge", func() {
		var mergeWarnings []validator.Warning
		merged, mergeWarnings = merger.Merge(validated, runtimeTrace)
		warnings = append(warnings, mergeWarnings...)
	})
	validated = nil
	runtimeTrace = nil

	var g *types.Graph
	traced("graph", func() {
		g = graph.Build(merged)
	})

	runtimeCaptured := len(merged.ObservedCounts) > 0

	var hot []types.SymbolID
	traced("hot", func() {
		hot = traversal.HotSet(g, merged.Scenario)
		if len(hot) == 0 {
			warnings = append(warnings, validator.Warning{Stage: "hot", Message: "empty hot set even after fallback traversal"})
		}
	})

	var expanded *expansion.ExpandedIr
	traced("expand", func() {
		expanded = expansion.Expand(merged, g, hot)
	})
	g = nil

	locations := symbolLocations(expanded, merged)

	var slice *types.Slice
	traced("compress", func() {
		slice = compressor.Compress(expanded, merged, merged.Scenario, adapterVersion, language, runtimeCaptured)
	})
	expanded = nil

	traced("package", func() {
		err = packager.Write(outDir, slice, locations)
	})
	if err != nil {
		return nil, err
	}

	hint := buildPromptHint(slice, locations)
	return &Result{Slice: slice, PromptHint: hint, Warnings: warnings}, nil
}

func symbolLocations(e *expansion.ExpandedIr, m *merger.MergedIr) map[types.SymbolID]packager.SymbolLocation {
	locations := make(map[types.SymbolID]packager.SymbolLocation, len(e.Symbols))
	for id, s := range e.Symbols {
		path := string(s.FileID)
		if f, ok := m.Files[s.FileID]; ok {
			path = f.Path
		}
		locations[id] = packager.SymbolLocation{Path: path, LineStart: s.LineStart}
	}
	return locations
}

func buildPromptHint(slice *types.Slice, locations map[types.SymbolID]packager.SymbolLocation) *types.PromptHint {
	refs := make([]types.PromptRef, 0, len(slice.OrderedSymbols))
	files := make(map[string]struct{})
	for _, id := range slice.OrderedSymbols {
		loc := locations[id]
		files[loc.Path] = struct{}{}
		refs = append(refs, types.PromptRef{
			File: loc.Path,
			Sym:  id,
			L:    &types.LineRange{Start: loc.LineStart, End: loc.LineStart},
		})
	}
	return &types.PromptHint{
		ScenarioName: slice.ScenarioMeta.ScenarioName,
		Refs:         refs,
		Stats: types.PromptStats{
			RefCount:  len(refs),
			FileCount: len(files),
		},
	}
}
