package config

import "time"

// Default values applied by ApplyDefaults for any field left unset by the
// configuration file and environment.  The model defaults reproduce the
// canonical classifier: main model family, ecfp4 fingerprints of 2048 bits,
// four species per side, descending-MW cofactor positioning.
const (
	DefaultServerPort      = 8080
	DefaultServerMode      = "release"
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultMaxBodySize     = 4 << 20 // 4 MiB
	DefaultShutdownTimeout = 10 * time.Second
	DefaultRateLimitRPS    = 50.0
	DefaultRateLimitBurst  = 100

	DefaultModelsDir           = "models"
	DefaultModelType           = "main"
	DefaultFingerprintType     = "ecfp4"
	DefaultNumBits             = 2048
	DefaultMaxSpecies          = 4
	DefaultCofactorPositioning = "by_descending_MW"
	DefaultCofactorsFile       = "data/all_cofactors.csv"

	DefaultBatchConcurrency = 4

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMetricsNamespace = "rxnfeas"
)

// ApplyDefaults fills in every zero-valued field of cfg with its default.
// It never overwrites values that were set explicitly.
func ApplyDefaults(cfg *Config) {
	// Server
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.MaxBodySize == 0 {
		cfg.Server.MaxBodySize = DefaultMaxBodySize
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.RateLimitRPS == 0 {
		cfg.Server.RateLimitRPS = DefaultRateLimitRPS
	}
	if cfg.Server.RateLimitBurst == 0 {
		cfg.Server.RateLimitBurst = DefaultRateLimitBurst
	}

	// Model
	if cfg.Model.ModelsDir == "" {
		cfg.Model.ModelsDir = DefaultModelsDir
	}
	if cfg.Model.Type == "" {
		cfg.Model.Type = DefaultModelType
	}
	if cfg.Model.FingerprintType == "" {
		cfg.Model.FingerprintType = DefaultFingerprintType
	}
	if cfg.Model.NumBits == 0 {
		cfg.Model.NumBits = DefaultNumBits
	}
	if cfg.Model.MaxSpecies == 0 {
		cfg.Model.MaxSpecies = DefaultMaxSpecies
	}
	if cfg.Model.CofactorPositioning == "" {
		cfg.Model.CofactorPositioning = DefaultCofactorPositioning
	}
	if cfg.Model.CofactorsFile == "" {
		cfg.Model.CofactorsFile = DefaultCofactorsFile
	}

	// Batch
	if cfg.Batch.Concurrency == 0 {
		cfg.Batch.Concurrency = DefaultBatchConcurrency
	}

	// Log
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if len(cfg.Log.OutputPaths) == 0 {
		cfg.Log.OutputPaths = []string{"stdout"}
	}
	if len(cfg.Log.ErrorOutputPaths) == 0 {
		cfg.Log.ErrorOutputPaths = []string{"stderr"}
	}

	// Metrics
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
}
