// Package config loads context-slice.json, the optional per-project
// configuration file read from the project root (the working directory
// unless the CLI's --root says otherwise). The loader follows the same
// posture as the teacher's cascading config load: search for a file, fall
// back to hard-coded defaults when it is absent, and ignore keys it doesn't
// recognize so older config files still load under newer builds.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const fileName = "context-slice.json"

// Transforms mirrors the transforms block of context-slice.json and of
// manifest.json (the orchestrator → analyzer contract, §6). DepthLimit and
// MaxCollectionElements describe how aggressively the (out-of-scope) static
// analyzer simplifies captured runtime values; the core pipeline itself
// doesn't consume them directly, but the config loader is the reference
// implementation of the contract both the record adapter and the
// downstream analyzer rely on.
type Transforms struct {
	DepthLimit            int `json:"depth_limit" yaml:"depth_limit"`
	MaxCollectionElements int `json:"max_collection_elements" yaml:"max_collection_elements"`
}

// Config is the parsed, defaulted shape of context-slice.json.
type Config struct {
	Transforms Transforms `json:"transforms" yaml:"transforms"`
}

// Default returns the configuration used when no context-slice.json is
// present, or when a present file omits a field.
func Default() *Config {
	return &Config{
		Transforms: Transforms{
			DepthLimit:            2,
			MaxCollectionElements: 3,
		},
	}
}

// Load searches rootDir for context-slice.json and merges it over the
// defaults. A missing file is not an error — it's the expected case for a
// project that hasn't customized transforms.
func Load(rootDir string) (*Config, error) {
	path := filepath.Join(rootDir, fileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the bounds configValidateCommand-style: reject negative
// values outright, warn (don't fail) on values so large they suggest a
// typo rather than an intentional override.
func (c *Config) Validate() (warnings []string, err error) {
	if c.Transforms.DepthLimit < 0 {
		return nil, fmt.Errorf("transforms.depth_limit must be >= 0, got %d", c.Transforms.DepthLimit)
	}
	if c.Transforms.MaxCollectionElements < 0 {
		return nil, fmt.Errorf("transforms.max_collection_elements must be >= 0, got %d", c.Transforms.MaxCollectionElements)
	}
	if c.Transforms.DepthLimit > 32 {
		warnings = append(warnings, fmt.Sprintf("transforms.depth_limit=%d is unusually deep; traversal caps at 32 regardless", c.Transforms.DepthLimit))
	}
	if c.Transforms.MaxCollectionElements > 1000 {
		warnings = append(warnings, fmt.Sprintf("transforms.max_collection_elements=%d is unusually large", c.Transforms.MaxCollectionElements))
	}
	return warnings, nil
}

// Dump renders the config as YAML. JSON is the canonical on-disk format;
// this is a debug/display convenience only, and no CLI command calls it.
func (c *Config) Dump() (string, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("rendering config as yaml: %w", err)
	}
	return string(out), nil
}
