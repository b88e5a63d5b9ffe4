package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/turtacn/RxnFeasibility/internal/config"
	"github.com/turtacn/RxnFeasibility/internal/infrastructure/monitoring/logging"
	prom "github.com/turtacn/RxnFeasibility/internal/infrastructure/monitoring/prometheus"
	httpapi "github.com/turtacn/RxnFeasibility/internal/interfaces/http"
	"github.com/turtacn/RxnFeasibility/internal/interfaces/http/handlers"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the prediction HTTP API",
		Long: "Load the configured model once and serve predictions over HTTP until\n" +
			"interrupted. SIGINT and SIGTERM trigger a graceful drain.",
		Example: `  rxnfeas serve
  rxnfeas serve --port 9090 --model spare`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			cfg := cliCtx.Config
			if port > 0 {
				cfg.Server.Port = port
			}
			logger := cliCtx.Logger

			var (
				collector prom.MetricsCollector = prom.NewNopCollector()
				metrics                         = prom.NewNopAppMetrics()
			)
			if cfg.Metrics.Enabled {
				collector, err = prom.NewMetricsCollector(prom.CollectorConfig{
					Namespace: cfg.Metrics.Namespace,
				}, logger)
				if err != nil {
					return err
				}
				metrics = prom.NewAppMetrics(collector)
			}

			clf, err := newClassifierWithMetrics(cliCtx, metrics)
			if err != nil {
				return err
			}

			health := handlers.NewHealthHandler(Version)
			health.SetReady(true)

			// Model and server settings are fixed at startup; a changed
			// config file is surfaced in the logs, not applied.
			if cliCtx.ConfigPath != "" {
				config.Watch(cliCtx.ConfigPath, func(updated *config.Config) {
					logger.Warn("configuration file changed, restart to apply",
						logging.String("path", cliCtx.ConfigPath),
						logging.String("model_type", updated.Model.Type),
					)
				})
			}

			srv := httpapi.NewServer(cfg.Server, httpapi.RouterDeps{
				Predictor: clf,
				Logger:    logger,
				Metrics:   metrics,
				Collector: collector,
				Health:    health,
			})

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logger.Info("shutdown signal received", logging.String("signal", sig.String()))
				health.SetReady(false)
				if err := srv.Stop(context.Background()); err != nil {
					return err
				}
				return <-errCh
			}
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides configuration)")
	return cmd
}
