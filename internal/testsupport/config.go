package testsupport

import (
	"path/filepath"
	"testing"

	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.ReportsDir = filepath.Join(base, "reports")
	cfg.Paths.ClientRegistry = filepath.Join(base, "client_registry.json")

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithRegistryPath overrides the client registry location on the test config.
func WithRegistryPath(path string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Paths.ClientRegistry = path
	}
}

// WithWorkers fixes the batch worker count on the test config.
func WithWorkers(workers int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Matching.Workers = workers
	}
}
