package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")

	cfg, _, exists, err := Load(missing)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Error("exists = true for missing file")
	}
	if cfg.Matching.ConfidenceThresholds.High != 0.85 {
		t.Errorf("high threshold = %v, want default 0.85", cfg.Matching.ConfidenceThresholds.High)
	}
	if cfg.Matching.FuzzyMatching.NameThreshold != 0.85 {
		t.Errorf("name threshold = %v, want default 0.85", cfg.Matching.FuzzyMatching.NameThreshold)
	}
	if cfg.Matching.AddressMatching.MinScore != 0.80 {
		t.Errorf("address min score = %v, want default 0.80", cfg.Matching.AddressMatching.MinScore)
	}
	if cfg.ShiftCare.BaseURL != defaultShiftCareBaseURL {
		t.Errorf("shiftcare base url = %q", cfg.ShiftCare.BaseURL)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
[logging]
format = "json"
level = "debug"

[matching.confidence_thresholds]
high = 0.9
medium = 0.7
low = 0.5

[matching.fuzzy_matching]
name_threshold = 0.8

[matching.address_matching]
min_score = 0.75
`)

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Errorf("exists=%v resolved=%q", exists, resolved)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if cfg.Matching.ConfidenceThresholds.High != 0.9 {
		t.Errorf("high = %v", cfg.Matching.ConfidenceThresholds.High)
	}
	if cfg.Matching.AddressMatching.MinScore != 0.75 {
		t.Errorf("min score = %v", cfg.Matching.AddressMatching.MinScore)
	}
}

func TestLoadExpandsTilde(t *testing.T) {
	path := writeConfig(t, `
[paths]
client_registry = "~/registry.json"
`)

	cfg, _, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if strings.HasPrefix(cfg.Paths.ClientRegistry, "~") {
		t.Errorf("tilde not expanded: %q", cfg.Paths.ClientRegistry)
	}
	if !filepath.IsAbs(cfg.Paths.ClientRegistry) {
		t.Errorf("registry path not absolute: %q", cfg.Paths.ClientRegistry)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{"bad log format", "[logging]\nformat = \"xml\"\n"},
		{"bad log level", "[logging]\nlevel = \"verbose\"\n"},
		{"threshold out of range", "[matching.confidence_thresholds]\nhigh = 1.5\n"},
		{"unordered thresholds", "[matching.confidence_thresholds]\nhigh = 0.5\nmedium = 0.8\nlow = 0.2\n"},
		{"negative workers", "[matching]\nworkers = -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.contents)
			if _, _, _, err := Load(path); err == nil {
				t.Error("Load succeeded, want validation error")
			}
		})
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(raw), "[matching.confidence_thresholds]") {
		t.Error("sample config missing matching section")
	}
}
