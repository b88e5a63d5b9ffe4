// Configuration loading: YAML file plus RXNFEAS_* environment overrides,
// defaults, validation, and optional hot reload.
package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix for all service settings.
const envPrefix = "RXNFEAS"

// newViper builds a pre-configured Viper instance: YAML file type, RXNFEAS_
// env prefix, automatic env binding, and a key replacer mapping "." → "_" so
// that nested keys like "model.models_dir" resolve to RXNFEAS_MODEL_MODELS_DIR.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	registerKeys(v)
	return v
}

// registerKeys declares every configuration key to viper with its default
// value.  Automatic env binding only applies to keys viper knows about, so
// without this step RXNFEAS_* overrides for keys absent from the config file
// would be silently ignored.
func registerKeys(v *viper.Viper) {
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.mode", DefaultServerMode)
	v.SetDefault("server.read_timeout", DefaultReadTimeout)
	v.SetDefault("server.write_timeout", DefaultWriteTimeout)
	v.SetDefault("server.max_body_size", DefaultMaxBodySize)
	v.SetDefault("server.shutdown_timeout", DefaultShutdownTimeout)
	v.SetDefault("server.rate_limit_rps", DefaultRateLimitRPS)
	v.SetDefault("server.rate_limit_burst", DefaultRateLimitBurst)

	v.SetDefault("model.models_dir", DefaultModelsDir)
	v.SetDefault("model.type", DefaultModelType)
	v.SetDefault("model.fingerprint_type", DefaultFingerprintType)
	v.SetDefault("model.num_bits", DefaultNumBits)
	v.SetDefault("model.max_species", DefaultMaxSpecies)
	v.SetDefault("model.cofactor_positioning", DefaultCofactorPositioning)
	v.SetDefault("model.cofactors_file", DefaultCofactorsFile)

	v.SetDefault("batch.concurrency", DefaultBatchConcurrency)

	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", DefaultMetricsNamespace)
}

// Load reads the YAML file at configPath, merges any RXNFEAS_* environment
// variable overrides, applies defaults for unset fields, and validates the
// result.  It returns a fully-populated *Config or a descriptive error.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from RXNFEAS_* environment variables,
// with no config file required.  This is the preferred loading strategy for
// containerised deployments.
//
// Naming convention:
//
//	RXNFEAS_<SECTION>_<FIELD>   e.g.  RXNFEAS_SERVER_PORT, RXNFEAS_MODEL_TYPE
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

// unmarshalAndFinalize unmarshals viper state into a Config, applies defaults,
// and validates the result.
func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath for changes and invokes onChange with the newly
// parsed Config whenever the file is modified on disk.  It is intended for
// hot-reloading non-critical settings such as log level; callers decide which
// subset of changes is safe to apply at runtime — the loaded model is not.
//
// Watch is non-blocking; it starts a background goroutine managed by viper.
// If the changed file fails to parse or validate, onChange is not called.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)

	// Initial read — errors are ignored here; callers should call Load first.
	_ = v.ReadInConfig()

	v.WatchConfig()
	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			// The changed file produced an invalid config; skip the callback
			// so the application never observes a broken state.
			return
		}
		onChange(cfg)
	})
}

// MustLoad is a convenience wrapper around Load that panics on any error.
// It is intended for use in main() where a config-load failure is always fatal.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}
