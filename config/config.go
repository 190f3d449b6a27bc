// Package config loads the sageql YAML configuration: where to introspect,
// where schema snapshots live, and how the compressor and lookup index
// behave.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/ibrunner/sageql/compress"
	"github.com/ibrunner/sageql/lookup"
)

// DefaultFilenames are searched, in order, when no explicit config path is
// given.
var DefaultFilenames = []string{".sageql.yml", "sageql.yml", "sageql.yaml"}

type Config struct {
	Endpoint    *EndpointConfig `yaml:"endpoint,omitempty"`
	SnapshotDir string          `yaml:"snapshotDir,omitempty"`
	Compress    CompressConfig  `yaml:"compress,omitempty"`
	Lookup      LookupConfig    `yaml:"lookup,omitempty"`
}

// EndpointConfig are the allowed options for the 'endpoint' config
type EndpointConfig struct {
	URL     string            `yaml:"url"`
	Headers map[string]string `yaml:"headers,omitempty"`
}

// CompressConfig mirrors compress.Options with pointer fields so an unset
// key keeps its default rather than reading as false.
type CompressConfig struct {
	RemoveDescriptions            *bool `yaml:"removeDescriptions,omitempty"`
	PreserveEssentialDescriptions *bool `yaml:"preserveEssentialDescriptions,omitempty"`
	RemoveDeprecated              *bool `yaml:"removeDeprecated,omitempty"`
}

// Options resolves the config against the compressor defaults.
func (c CompressConfig) Options() compress.Options {
	opts := compress.DefaultOptions()
	if c.RemoveDescriptions != nil {
		opts.RemoveDescriptions = *c.RemoveDescriptions
	}
	if c.PreserveEssentialDescriptions != nil {
		opts.PreserveEssentialDescriptions = *c.PreserveEssentialDescriptions
	}
	if c.RemoveDeprecated != nil {
		opts.RemoveDeprecated = *c.RemoveDeprecated
	}

	return opts
}

type LookupConfig struct {
	SearchLimit int              `yaml:"searchLimit,omitempty"`
	Patterns    []lookup.Pattern `yaml:"patterns,omitempty"`
}

// Load reads and parses a config file. Environment variables referenced as
// ${VAR} are expanded before parsing, so secrets can stay out of the file.
func Load(filename string) (*Config, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("unable to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(content))), &cfg); err != nil {
		return nil, fmt.Errorf("unable to parse config: %w", err)
	}

	if cfg.Endpoint != nil && cfg.Endpoint.URL == "" {
		return nil, fmt.Errorf("endpoint specified without a url in %s", filename)
	}
	if cfg.SnapshotDir == "" {
		cfg.SnapshotDir = "schemas"
	}
	for _, pattern := range cfg.Lookup.Patterns {
		if pattern.Name == "" {
			return nil, fmt.Errorf("lookup pattern without a name in %s", filename)
		}
	}

	return &cfg, nil
}
