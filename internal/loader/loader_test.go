package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalStaticIr = `{
  "ir_version": "0.1",
  "language": "java",
  "repo_root": "/repo",
  "adapter_version": "1.0.0",
  "scenario": {"name": "s", "entry_points": ["java::A"], "run_args": [], "config_files": []},
  "files": [{"id": "f01", "path": "A.java", "language": "java"}],
  "symbols": [{"id": "java::A", "kind": "class", "name": "A", "language": "java", "file_id": "f01", "line_start": 1, "line_end": 2, "annotations": [], "is_entry_point": true, "is_framework": false, "is_generated": false}],
  "call_edges": [],
  "config_reads": [],
  "runtime": {"observed_symbols": [], "observed_edges": [], "config_reads": []}
}`

func TestLoad_MissingRuntimeTraceIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	staticPath := filepath.Join(dir, "static_ir.json")
	require.NoError(t, os.WriteFile(staticPath, []byte(minimalStaticIr), 0o644))

	root, trace, err := Load(staticPath, filepath.Join(dir, "runtime_trace.json"))
	require.NoError(t, err)
	assert.Nil(t, trace)
	assert.Equal(t, "0.1", root.IrVersion)
}

func TestLoad_MalformedStaticIrIsFatal(t *testing.T) {
	dir := t.TempDir()
	staticPath := filepath.Join(dir, "static_ir.json")
	require.NoError(t, os.WriteFile(staticPath, []byte("{not json"), 0o644))

	_, _, err := Load(staticPath, "")
	require.Error(t, err)
}

func TestLoad_MissingStaticIrIsFatal(t *testing.T) {
	dir := t.TempDir()
	_, _, err := Load(filepath.Join(dir, "nope.json"), "")
	require.Error(t, err)
}

func TestLoad_PresentRuntimeTraceIsParsed(t *testing.T) {
	dir := t.TempDir()
	staticPath := filepath.Join(dir, "static_ir.json")
	require.NoError(t, os.WriteFile(staticPath, []byte(minimalStaticIr), 0o644))
	runtimePath := filepath.Join(dir, "runtime_trace.json")
	require.NoError(t, os.WriteFile(runtimePath, []byte(`{
		"observed_symbols": [{"symbol_id": "java::A", "call_count": 3}],
		"observed_edges": [],
		"config_reads": []
	}`), 0o644))

	_, trace, err := Load(staticPath, runtimePath)
	require.NoError(t, err)
	require.NotNil(t, trace)
	assert.Len(t, trace.ObservedSymbols, 1)
}
