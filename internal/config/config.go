package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and registry file configuration.
type Paths struct {
	DataDir        string `toml:"data_dir"`
	LogDir         string `toml:"log_dir"`
	ReportsDir     string `toml:"reports_dir"`
	ClientRegistry string `toml:"client_registry"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// ConfidenceThresholds are the confidence band boundaries.
type ConfidenceThresholds struct {
	High   float64 `toml:"high"`
	Medium float64 `toml:"medium"`
	Low    float64 `toml:"low"`
}

// FuzzyMatching contains the fuzzy name matching settings.
type FuzzyMatching struct {
	NameThreshold float64 `toml:"name_threshold"`
}

// AddressMatching contains the address search settings.
type AddressMatching struct {
	MinScore float64 `toml:"min_score"`
}

// Matching groups the tunable matcher knobs.
type Matching struct {
	ConfidenceThresholds ConfidenceThresholds `toml:"confidence_thresholds"`
	FuzzyMatching        FuzzyMatching        `toml:"fuzzy_matching"`
	AddressMatching      AddressMatching      `toml:"address_matching"`
	// Workers bounds the batch resolution pool; 0 means one per CPU.
	Workers int `toml:"workers"`
}

// Data lists the file-based transaction sources for a full run.
type Data struct {
	BankCSV          string `toml:"bank_csv"`
	StripeCSV        string `toml:"stripe_csv"`
	PaperReceiptsCSV string `toml:"paper_receipts_csv"`
}

// ShiftCare contains connection settings for the ShiftCare invoice API.
// Credentials are account-scoped and resolved from environment variables
// (SHIFTCARE_<ACCOUNT>_API_KEY / SHIFTCARE_<ACCOUNT>_ACCOUNT_ID).
type ShiftCare struct {
	BaseURL          string `toml:"base_url"`
	TimeoutSeconds   int    `toml:"timeout_seconds"`
	PageSize         int    `toml:"page_size"`
	RateLimitSeconds int    `toml:"rate_limit_seconds"`
}

// Config encapsulates all configuration values for chsp-mapper.
//
// Sections by subsystem:
//   - Paths: data/log/report directories and the client registry file
//   - Logging: log format and level
//   - Matching: confidence thresholds, fuzzy name and address knobs
//   - Data: CSV source locations for reconcile runs
//   - ShiftCare: invoice API connection settings
type Config struct {
	Paths     Paths     `toml:"paths"`
	Logging   Logging   `toml:"logging"`
	Matching  Matching  `toml:"matching"`
	Data      Data      `toml:"data"`
	ShiftCare ShiftCare `toml:"shiftcare"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/chsp-mapper/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. A missing file is not
// an error; defaults apply.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("chsp-mapper.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	for _, field := range []*string{
		&c.Paths.DataDir,
		&c.Paths.LogDir,
		&c.Paths.ReportsDir,
		&c.Paths.ClientRegistry,
		&c.Data.BankCSV,
		&c.Data.StripeCSV,
		&c.Data.PaperReceiptsCSV,
	} {
		trimmed := strings.TrimSpace(*field)
		if trimmed == "" {
			*field = ""
			continue
		}
		expanded, err := expandPath(trimmed)
		if err != nil {
			return err
		}
		*field = expanded
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}

	c.ShiftCare.BaseURL = strings.TrimRight(strings.TrimSpace(c.ShiftCare.BaseURL), "/")
	if c.ShiftCare.BaseURL == "" {
		c.ShiftCare.BaseURL = defaultShiftCareBaseURL
	}
	if c.ShiftCare.TimeoutSeconds <= 0 {
		c.ShiftCare.TimeoutSeconds = defaultShiftCareTimeout
	}
	if c.ShiftCare.PageSize <= 0 {
		c.ShiftCare.PageSize = defaultShiftCarePageSize
	}
	if c.ShiftCare.RateLimitSeconds < 0 {
		c.ShiftCare.RateLimitSeconds = defaultShiftCareRateLimit
	}

	return nil
}

// EnsureDirectories creates the directories a reconciliation run writes to.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir, c.Paths.ReportsDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
