// Package loader reads the two JSON documents the pipeline consumes:
// static_ir.json (required) and runtime_trace.json (optional). It owns no
// state beyond the call stack of Load, and returns owned Go values — no
// borrowed slices into the source bytes survive past this stage.
package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/oiegrant/context-slice/internal/diag"
	"github.com/oiegrant/context-slice/internal/types"
)

// Load reads staticPath into an IrRoot and, if present, runtimePath into a
// RuntimeTrace. A missing or unreadable runtime trace is not an error: the
// returned *types.RuntimeTrace is nil and the merger substitutes an empty
// one. Malformed JSON or an I/O failure on the static IR is fatal.
func Load(staticPath, runtimePath string) (*types.IrRoot, *types.RuntimeTrace, error) {
	root, err := loadStatic(staticPath)
	if err != nil {
		return nil, nil, err
	}

	trace, err := loadRuntime(runtimePath)
	if err != nil {
		// Recoverable: absent/unreadable runtime trace falls back to an
		// empty one at the merger, not a pipeline failure.
		diag.Warn("loader", "runtime trace unavailable at %s: %v", runtimePath, err)
		return root, nil, nil
	}
	return root, trace, nil
}

func loadStatic(path string) (*types.IrRoot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, diag.Fatal("loader", "reading static IR %s: %v", path, err)
	}

	var root types.IrRoot
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, diag.Fatal("loader", "parsing static IR %s: %v", path, err)
	}
	return &root, nil
}

func loadRuntime(path string) (*types.RuntimeTrace, error) {
	if path == "" {
		return nil, errors.New("no runtime trace path configured")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading runtime trace %s: %w", path, err)
	}

	var trace types.RuntimeTrace
	if err := json.Unmarshal(data, &trace); err != nil {
		return nil, fmt.Errorf("parsing runtime trace %s: %w", path, err)
	}
	return &trace, nil
}
