package types

// ScenarioMeta is the metadata.json payload: a scenario's identity plus the
// timestamp and runtime-capture status of the run that produced the slice.
type ScenarioMeta struct {
	ScenarioName    string `json:"scenario_name"`
	AdapterVersion  string `json:"adapter_version"`
	Language        string `json:"language"`
	TimestampUTC    string `json:"timestamp_utc"`
	TimestampUnix   int64  `json:"timestamp_unix"`
	RuntimeCaptured bool   `json:"runtime_captured"`

	// ContentHash is an addition beyond the wire contract: an xxhash
	// digest of the canonicalized call_graph.json bytes, giving
	// determinism checks a single comparable scalar instead of a full
	// file diff. Computed by the packager, never by the compressor.
	ContentHash string `json:"content_hash,omitempty"`
}

// Slice is the compressed, ordered projection of the merged IR that the
// packager serializes to disk.
type Slice struct {
	OrderedSymbols      []SymbolID   `json:"ordered_symbols"`
	Edges               []CallEdge   `json:"edges"`
	RelevantFilePaths   []string     `json:"relevant_file_paths"`
	RelevantConfigReads []ConfigRead `json:"relevant_config_reads"`
	ScenarioMeta        ScenarioMeta `json:"scenario_meta"`
}
