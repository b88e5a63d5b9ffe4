// Package cli implements the rxnfeas command tree.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/RxnFeasibility/internal/config"
	"github.com/turtacn/RxnFeasibility/internal/infrastructure/monitoring/logging"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// cliContextKey is the context key for CLIContext.
type cliContextKey struct{}

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath   string
	LogLevel     string
	OutputFormat string
	Verbose      bool

	// Model overrides applied on top of the loaded configuration.
	ModelsDir           string
	ModelType           string
	FingerprintType     string
	CofactorPositioning string
	CofactorsFile       string
}

// CLIContext carries initialized dependencies through the command tree.
type CLIContext struct {
	Config *config.Config
	Logger logging.Logger

	// ConfigPath is the file the configuration was loaded from, empty when
	// only environment variables and defaults were used.
	ConfigPath   string
	OutputFormat string
	Verbose      bool
}

// NewRootCommand creates the root cobra command with all global flags and
// subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "rxnfeas",
		Short: "Enzymatic reaction feasibility classifier",
		Long: "rxnfeas scores enzymatic reaction strings with gradient-boosted models\n" +
			"trained on cofactor-aware reaction fingerprints, labeling each reaction\n" +
			"feasible or infeasible against a calibrated decision threshold.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: ./rxnfeas.yaml)")
	pf.StringVar(&opts.LogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVarP(&opts.OutputFormat, "output", "o", "text", "output format (text, json)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable verbose output")
	pf.StringVar(&opts.ModelsDir, "models-dir", "", "override the model artifact directory")
	pf.StringVar(&opts.ModelType, "model", "", "override the model family (main, spare)")
	pf.StringVar(&opts.FingerprintType, "fingerprint", "", "override the fingerprint type")
	pf.StringVar(&opts.CofactorPositioning, "positioning", "", "override the cofactor positioning policy")
	pf.StringVar(&opts.CofactorsFile, "cofactors", "", "override the cofactor reference CSV")

	cmd.AddCommand(
		NewPredictCmd(),
		NewBatchCmd(),
		NewCofactorsCmd(),
		NewServeCmd(),
	)

	return cmd
}

// persistentPreRun loads configuration, builds the logger, and stores the
// CLIContext on the command context.
func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	cfg, configPath, err := initConfig(opts)
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}
	applyOverrides(cfg, opts)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := initLogger(opts)
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}

	cliCtx := &CLIContext{
		Config:       cfg,
		Logger:       logger,
		ConfigPath:   configPath,
		OutputFormat: opts.OutputFormat,
		Verbose:      opts.Verbose,
	}
	cmd.SetContext(context.WithValue(cmd.Context(), cliContextKey{}, cliCtx))
	return nil
}

// initConfig loads configuration with priority: flags > env > file > defaults.
// It also returns the config file path actually used, if any.
func initConfig(opts *RootOptions) (*config.Config, string, error) {
	if opts.ConfigPath != "" {
		cfg, err := config.Load(opts.ConfigPath)
		return cfg, opts.ConfigPath, err
	}

	searchPaths := []string{"./rxnfeas.yaml"}
	if homeDir, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(homeDir, ".rxnfeas", "config.yaml"))
	}
	searchPaths = append(searchPaths, "/etc/rxnfeas/config.yaml")

	for _, p := range searchPaths {
		if _, statErr := os.Stat(p); statErr == nil {
			cfg, err := config.Load(p)
			return cfg, p, err
		}
	}

	cfg, err := config.LoadFromEnv()
	return cfg, "", err
}

// applyOverrides copies non-empty flag values into the loaded configuration.
func applyOverrides(cfg *config.Config, opts *RootOptions) {
	if opts.ModelsDir != "" {
		cfg.Model.ModelsDir = opts.ModelsDir
	}
	if opts.ModelType != "" {
		cfg.Model.Type = opts.ModelType
	}
	if opts.FingerprintType != "" {
		cfg.Model.FingerprintType = opts.FingerprintType
	}
	if opts.CofactorPositioning != "" {
		cfg.Model.CofactorPositioning = opts.CofactorPositioning
	}
	if opts.CofactorsFile != "" {
		cfg.Model.CofactorsFile = opts.CofactorsFile
	}
}

// initLogger creates a logger configured for CLI usage, writing to stderr so
// predictions on stdout stay machine-readable.
func initLogger(opts *RootOptions) (logging.Logger, error) {
	level := strings.ToLower(opts.LogLevel)
	if opts.Verbose {
		level = "debug"
	}
	return logging.NewLogger(logging.LogConfig{
		Level:            level,
		Format:           "console",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	})
}

// GetCLIContext extracts the CLIContext stored by persistentPreRun.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, fmt.Errorf("command context is not initialized")
	}
	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, fmt.Errorf("CLI context is not initialized")
	}
	return cliCtx, nil
}

// printJSON renders v as indented JSON on the command's stdout.
func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Execute runs the root command and returns its exit code.
func Execute() int {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
