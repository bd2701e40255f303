package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validatePaths(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateMatching() error {
	thresholds := c.Matching.ConfidenceThresholds
	for name, value := range map[string]float64{
		"matching.confidence_thresholds.high":   thresholds.High,
		"matching.confidence_thresholds.medium": thresholds.Medium,
		"matching.confidence_thresholds.low":    thresholds.Low,
		"matching.fuzzy_matching.name_threshold": c.Matching.FuzzyMatching.NameThreshold,
		"matching.address_matching.min_score":    c.Matching.AddressMatching.MinScore,
	} {
		if value < 0 || value > 1 {
			return fmt.Errorf("%s must be between 0 and 1", name)
		}
	}
	if thresholds.High < thresholds.Medium || thresholds.Medium < thresholds.Low {
		return errors.New("matching.confidence_thresholds must be ordered high >= medium >= low")
	}
	if c.Matching.Workers < 0 {
		return errors.New("matching.workers must not be negative")
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.ClientRegistry) == "" {
		return errors.New("paths.client_registry must be set")
	}
	return nil
}
