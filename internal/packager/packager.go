// Package packager writes the slice's five canonical output files under
// the .context-slice/ directory. Every write is atomic per file (write to
// a temp path, then rename), the same pattern the teacher's
// saveManifestToFile uses for its context manifests — adapted here from a
// single-file save to five coordinated writes sharing one atomic helper.
package packager

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/oiegrant/context-slice/internal/types"
)

// SymbolLocation is the file path and starting line the architecture.md
// renderer needs per ordered symbol. Slice itself (spec.md §3) carries
// only symbol ids, file paths, and config reads — not the per-symbol
// file+line pairing §6's architecture.md format requires — so the
// pipeline passes this lookup alongside the Slice.
type SymbolLocation struct {
	Path      string
	LineStart int
}

// Write renders slice into call_graph.json, architecture.md,
// config_usage.md, relevant_files.txt, and metadata.json under dir,
// creating dir if needed. It stamps ScenarioMeta's timestamp fields and
// content hash immediately before writing metadata.json — the only
// non-deterministic part of an otherwise pure-function packaging step.
func Write(dir string, slice *types.Slice, locations map[types.SymbolID]SymbolLocation) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating slice directory %s: %w", dir, err)
	}

	callGraph, err := json.MarshalIndent(slice, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling call_graph.json: %w", err)
	}
	if err := atomicWrite(filepath.Join(dir, "call_graph.json"), callGraph); err != nil {
		return err
	}

	if err := atomicWrite(filepath.Join(dir, "architecture.md"), []byte(renderArchitecture(slice, locations))); err != nil {
		return err
	}

	if err := atomicWrite(filepath.Join(dir, "config_usage.md"), []byte(renderConfigUsage(slice))); err != nil {
		return err
	}

	if err := atomicWrite(filepath.Join(dir, "relevant_files.txt"), []byte(renderRelevantFiles(slice))); err != nil {
		return err
	}

	meta := slice.ScenarioMeta
	now := time.Now().UTC()
	meta.TimestampUTC = now.Format(time.RFC3339)
	meta.TimestampUnix = now.Unix()
	meta.ContentHash = fmt.Sprintf("%016x", xxhash.Sum64(callGraph))

	metaJSON, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling metadata.json: %w", err)
	}
	if err := atomicWrite(filepath.Join(dir, "metadata.json"), metaJSON); err != nil {
		return err
	}

	return nil
}

// atomicWrite writes data to path via a temp file and rename, cleaning up
// the temp file on failure.
func atomicWrite(path string, data []byte) error {
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return fmt.Errorf("writing temp file for %s: %w", path, err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("renaming temp file into %s: %w", path, err)
	}
	return nil
}

func renderArchitecture(slice *types.Slice, locations map[types.SymbolID]SymbolLocation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Architecture: %s\n\n", slice.ScenarioMeta.ScenarioName)
	b.WriteString("## Call Path\n\n")
	for _, sym := range slice.OrderedSymbols {
		if loc, ok := locations[sym]; ok {
			fmt.Fprintf(&b, "- `%s` (%s:%d)\n", sym, loc.Path, loc.LineStart)
		} else {
			fmt.Fprintf(&b, "- `%s`\n", sym)
		}
	}
	b.WriteString("\n## Source Files\n\n")
	for _, path := range slice.RelevantFilePaths {
		fmt.Fprintf(&b, "- %s\n", path)
	}
	return b.String()
}

func renderConfigUsage(slice *types.Slice) string {
	var b strings.Builder
	b.WriteString("# Configuration Reads\n\n")
	b.WriteString("| Symbol | Key | Value | Source |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, cr := range slice.RelevantConfigReads {
		source := cr.SourceFile
		if source == "" {
			source = "-"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", cr.SymbolID, cr.ConfigKey, cr.ResolvedValue, source)
	}
	return b.String()
}

func renderRelevantFiles(slice *types.Slice) string {
	paths := append([]string(nil), slice.RelevantFilePaths...)
	sort.Strings(paths)
	return strings.Join(paths, "\n") + "\n"
}
