package packager

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oiegrant/context-slice/internal/types"
)

func sampleSlice() *types.Slice {
	return &types.Slice{
		OrderedSymbols:    []types.SymbolID{"java::A"},
		RelevantFilePaths: []string{"A.java"},
		RelevantConfigReads: []types.ConfigRead{
			{SymbolID: "java::A", ConfigKey: "k", ResolvedValue: "v"},
		},
		ScenarioMeta: types.ScenarioMeta{ScenarioName: "checkout", RuntimeCaptured: true},
	}
}

func TestWrite_ProducesAllFiveFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "slice")
	require.NoError(t, Write(dir, sampleSlice(), nil))

	for _, name := range []string{"call_graph.json", "architecture.md", "config_usage.md", "relevant_files.txt", "metadata.json"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, "expected %s to exist", name)
	}
}

func TestWrite_ArchitectureIncludesLocationWhenProvided(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "slice")
	locations := map[types.SymbolID]SymbolLocation{"java::A": {Path: "A.java", LineStart: 10}}
	require.NoError(t, Write(dir, sampleSlice(), locations))

	data, err := os.ReadFile(filepath.Join(dir, "architecture.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "A.java:10")
}

func TestWrite_MetadataCarriesTimestampAndHash(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "slice")
	require.NoError(t, Write(dir, sampleSlice(), nil))

	data, err := os.ReadFile(filepath.Join(dir, "metadata.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "timestamp_utc")
	assert.Contains(t, string(data), "content_hash")
}

func TestWrite_IdempotentDirectoryCreation(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "slice")
	require.NoError(t, Write(dir, sampleSlice(), nil))
	require.NoError(t, Write(dir, sampleSlice(), nil), "second run over same directory should not fail")
}
