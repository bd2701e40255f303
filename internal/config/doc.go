// Package config loads, normalizes, and validates chsp-mapper
// configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and centralizes every knob the CLI needs:
// data and report directories, the client registry location, matching
// thresholds, data-source paths, and ShiftCare API settings.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
