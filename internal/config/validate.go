// CUE schema validation and semantic checks
package config

import (
	"fmt"
	"os"
	"time"

	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/encoding/yaml"
)

// ValidateWithCue validates a YAML configuration file using a CUE schema file.
func ValidateWithCue(configFile, cueFile string) error {
	ctx := cuecontext.New()

	yamlBytes, err := os.ReadFile(configFile)
	if err != nil {
		return fmt.Errorf("cannot read YAML config: %w", err)
	}
	configFileAST, err := yaml.Extract(configFile, yamlBytes)
	if err != nil {
		return fmt.Errorf("cannot parse YAML config: %w", err)
	}
	configVal := ctx.BuildFile(configFileAST)

	schemaBytes, err := os.ReadFile(cueFile)
	if err != nil {
		return fmt.Errorf("cannot read CUE schema: %w", err)
	}
	schemaVal := ctx.CompileBytes(schemaBytes)

	// Merge values with schema
	final := configVal.Unify(schemaVal)
	if final.Err() != nil {
		return fmt.Errorf("schema unify failed: %w", final.Err())
	}

	if err := final.Validate(); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// Validate runs semantic checks the schema cannot express and resolves
// the timezone and timeout fields.
func (c *WatchConfig) Validate() error {
	if len(c.Players) == 0 {
		return fmt.Errorf("at least one player must be configured")
	}
	seen := make(map[string]struct{}, len(c.Players))
	for i, p := range c.Players {
		if p.Name == "" {
			return fmt.Errorf("player %d has an empty name", i)
		}
		if p.ProfileID <= 0 {
			return fmt.Errorf("player %q has invalid profile_id %d", p.Name, p.ProfileID)
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("duplicate player name %q", p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	if c.FetchParallelism < 1 {
		return fmt.Errorf("fetch_parallelism must be at least 1, got %d", c.FetchParallelism)
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("unknown timezone %q: %w", c.Timezone, err)
	}
	c.location = loc

	if c.RequestTimeout == "" {
		c.requestTimeout = DefaultRequestTimeout
		return nil
	}
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil {
		return fmt.Errorf("invalid request_timeout %q: %w", c.RequestTimeout, err)
	}
	if d <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", d)
	}
	c.requestTimeout = d
	return nil
}
