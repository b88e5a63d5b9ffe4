// Package config defines the configuration structures for the reaction
// feasibility service.  No I/O or parsing logic lives here — only plain data
// types and validation.
package config

import (
	"fmt"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// RateLimitRPS and RateLimitBurst control the per-client token bucket.
	// A negative RateLimitRPS disables rate limiting.
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// ModelConfig holds the classifier construction parameters.  These mirror the
// arguments of feasibility.NewClassifier and select which trained artifact is
// loaded from disk.
type ModelConfig struct {
	// ModelsDir is the root directory containing the main/ and spare/
	// artifact subdirectories.
	ModelsDir string `mapstructure:"models_dir"`

	// Type selects the artifact family: "main" or "spare".
	Type string `mapstructure:"type"`

	// FingerprintType names the species fingerprint scheme: "ecfp4",
	// "ecfp6", "maccs" or "atom_pair".
	FingerprintType string `mapstructure:"fingerprint_type"`

	// NumBits is the per-species fingerprint width.
	NumBits int `mapstructure:"num_bits"`

	// MaxSpecies is the per-side species capacity used by the positional
	// cofactor-positioning policies.
	MaxSpecies int `mapstructure:"max_species"`

	// CofactorPositioning selects how cofactors and substrates are arranged
	// in the reaction feature vector: "by_ascending_MW", "by_descending_MW",
	// "add_concat" or "add_subtract".
	CofactorPositioning string `mapstructure:"cofactor_positioning"`

	// CofactorsFile is the path to the CSV file enumerating cofactor SMILES.
	CofactorsFile string `mapstructure:"cofactors_file"`
}

// BatchConfig holds batch-prediction execution parameters.
type BatchConfig struct {
	// Concurrency is the number of worker goroutines used by PredictBatch.
	Concurrency int `mapstructure:"concurrency"`
}

// LogConfig holds structured-logging parameters.  The cmd entry points map
// this onto logging.LogConfig at startup.
type LogConfig struct {
	Level            string   `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format           string   `mapstructure:"format"` // "json" | "console"
	OutputPaths      []string `mapstructure:"output_paths"`
	ErrorOutputPaths []string `mapstructure:"error_output_paths"`
}

// MetricsConfig holds Prometheus exposition parameters.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure for the service.  Every component
// reads its settings from the relevant sub-struct.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Model   ModelConfig   `mapstructure:"model"`
	Batch   BatchConfig   `mapstructure:"batch"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

var validFingerprintTypes = map[string]bool{
	"ecfp4":     true,
	"ecfp6":     true,
	"maccs":     true,
	"atom_pair": true,
}

var validPositionings = map[string]bool{
	"by_ascending_MW":  true,
	"by_descending_MW": true,
	"add_concat":       true,
	"add_subtract":     true,
}

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered; callers should treat any error as
// fatal and refuse to start the application.
func (c *Config) Validate() error {
	// Server
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}

	// Model
	if c.Model.ModelsDir == "" {
		return fmt.Errorf("config: model.models_dir is required")
	}
	switch c.Model.Type {
	case "main", "spare":
	default:
		return fmt.Errorf("config: model.type %q is invalid; expected main|spare", c.Model.Type)
	}
	if !validFingerprintTypes[c.Model.FingerprintType] {
		return fmt.Errorf("config: model.fingerprint_type %q is invalid; expected ecfp4|ecfp6|maccs|atom_pair", c.Model.FingerprintType)
	}
	if c.Model.NumBits < 1 {
		return fmt.Errorf("config: model.num_bits must be ≥ 1, got %d", c.Model.NumBits)
	}
	if c.Model.MaxSpecies < 1 {
		return fmt.Errorf("config: model.max_species must be ≥ 1, got %d", c.Model.MaxSpecies)
	}
	if !validPositionings[c.Model.CofactorPositioning] {
		return fmt.Errorf("config: model.cofactor_positioning %q is invalid; expected by_ascending_MW|by_descending_MW|add_concat|add_subtract", c.Model.CofactorPositioning)
	}
	if c.Model.CofactorsFile == "" {
		return fmt.Errorf("config: model.cofactors_file is required")
	}

	// Batch
	if c.Batch.Concurrency < 1 {
		return fmt.Errorf("config: batch.concurrency must be ≥ 1, got %d", c.Batch.Concurrency)
	}

	// Log
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}
