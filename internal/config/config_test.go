package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const validYAML = `
api_base_url: https://example.test
timezone: UTC
state_file: state.json
fetch_parallelism: 2
request_timeout: 5s
players:
  - name: Carpincho
    profile_id: 6446904
  - name: Nanox
    profile_id: 439001
`

const validCue = `
api_base_url?: string
timezone?: string
state_file?: string
fetch_parallelism?: int & >=1
request_timeout?: string
players: [...{
	name: string
	profile_id: int & >0
}]
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadValid(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "watch.yaml", validYAML)
	cuePath := writeFile(t, dir, "watch.cue", validCue)

	cfg, err := Load(cfgPath, cuePath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Players) != 2 || cfg.Players[0].Name != "Carpincho" {
		t.Fatalf("unexpected players: %+v", cfg.Players)
	}
	if cfg.Timeout() != 5*time.Second {
		t.Fatalf("unexpected timeout %s", cfg.Timeout())
	}
	if cfg.Location() != time.UTC {
		t.Fatalf("unexpected location %v", cfg.Location())
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "watch.yaml", "players:\n  - name: p1\n    profile_id: 1\n")
	cfg, err := Load(cfgPath, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != DefaultAPIBaseURL {
		t.Fatalf("expected default base url, got %s", cfg.APIBaseURL)
	}
	if cfg.StateFile != DefaultStateFile {
		t.Fatalf("expected default state file, got %s", cfg.StateFile)
	}
	if cfg.FetchParallelism != DefaultFetchParallelism {
		t.Fatalf("expected default parallelism, got %d", cfg.FetchParallelism)
	}
	if cfg.Timeout() != DefaultRequestTimeout {
		t.Fatalf("expected default timeout, got %s", cfg.Timeout())
	}
	if cfg.Location().String() != DefaultTimezone {
		t.Fatalf("expected default timezone, got %s", cfg.Location())
	}
}

func TestValidateWithCueAcceptsValidConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "watch.yaml", validYAML)
	cuePath := writeFile(t, dir, "watch.cue", validCue)
	if err := ValidateWithCue(cfgPath, cuePath); err != nil {
		t.Fatalf("ValidateWithCue: %v", err)
	}
}

func TestValidateWithCueRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "watch.yaml", "players: [unterminated")
	cuePath := writeFile(t, dir, "watch.cue", validCue)
	if err := ValidateWithCue(cfgPath, cuePath); err == nil {
		t.Fatalf("expected error for malformed YAML")
	}
}

func TestLoadCueRejectsBadProfileID(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "watch.yaml", "players:\n  - name: p1\n    profile_id: -5\n")
	cuePath := writeFile(t, dir, "watch.cue", validCue)
	if _, err := Load(cfgPath, cuePath); err == nil {
		t.Fatalf("expected CUE validation failure for negative profile_id")
	}
}

func TestValidateSemantics(t *testing.T) {
	cases := []struct {
		name string
		cfg  WatchConfig
	}{
		{"no players", WatchConfig{FetchParallelism: 1, Timezone: "UTC"}},
		{"empty name", WatchConfig{FetchParallelism: 1, Timezone: "UTC", Players: []Player{{Name: "", ProfileID: 1}}}},
		{"duplicate name", WatchConfig{FetchParallelism: 1, Timezone: "UTC", Players: []Player{{Name: "p", ProfileID: 1}, {Name: "p", ProfileID: 2}}}},
		{"bad timezone", WatchConfig{FetchParallelism: 1, Timezone: "Mars/Olympus", Players: []Player{{Name: "p", ProfileID: 1}}}},
		{"bad timeout", WatchConfig{FetchParallelism: 1, Timezone: "UTC", RequestTimeout: "soon", Players: []Player{{Name: "p", ProfileID: 1}}}},
		{"negative parallelism", WatchConfig{FetchParallelism: -1, Timezone: "UTC", Players: []Player{{Name: "p", ProfileID: 1}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
