// YAML config loader with CUE validation integration
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied after unmarshalling.
const (
	DefaultAPIBaseURL       = "https://data.aoe2companion.com"
	DefaultTimezone         = "America/Argentina/Buenos_Aires"
	DefaultStateFile        = "mostrecentmatch.json"
	DefaultFetchParallelism = 4
	DefaultRequestTimeout   = 10 * time.Second
)

// Player identifies one tracked player by display name and aoe2companion
// profile ID.
type Player struct {
	Name      string `yaml:"name"`
	ProfileID int64  `yaml:"profile_id"`
}

// WatchConfig is the root configuration for the watcher.
type WatchConfig struct {
	APIBaseURL       string   `yaml:"api_base_url"`
	Timezone         string   `yaml:"timezone"`
	StateFile        string   `yaml:"state_file"`
	FetchParallelism int      `yaml:"fetch_parallelism"`
	RequestTimeout   string   `yaml:"request_timeout"`
	Players          []Player `yaml:"players"`

	requestTimeout time.Duration
	location       *time.Location
}

// Load loads YAML config, validates it against a CUE schema when a schema
// path is given, applies defaults, and runs semantic validation.
func Load(configPath, cueSchemaPath string) (*WatchConfig, error) {
	if cueSchemaPath != "" {
		if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	var cfg WatchConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}
	return &cfg, nil
}

func (c *WatchConfig) applyDefaults() {
	if c.APIBaseURL == "" {
		c.APIBaseURL = DefaultAPIBaseURL
	}
	if c.Timezone == "" {
		c.Timezone = DefaultTimezone
	}
	if c.StateFile == "" {
		c.StateFile = DefaultStateFile
	}
	if c.FetchParallelism == 0 {
		c.FetchParallelism = DefaultFetchParallelism
	}
}

// Timeout returns the parsed per-request timeout. Valid after Validate.
func (c *WatchConfig) Timeout() time.Duration {
	if c.requestTimeout == 0 {
		return DefaultRequestTimeout
	}
	return c.requestTimeout
}

// Location returns the configured timezone. Valid after Validate.
func (c *WatchConfig) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}
