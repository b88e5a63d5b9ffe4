// Command apiserver runs the reaction feasibility prediction API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/turtacn/RxnFeasibility/internal/config"
	"github.com/turtacn/RxnFeasibility/internal/feasibility"
	"github.com/turtacn/RxnFeasibility/internal/infrastructure/monitoring/logging"
	prom "github.com/turtacn/RxnFeasibility/internal/infrastructure/monitoring/prometheus"
	httpapi "github.com/turtacn/RxnFeasibility/internal/interfaces/http"
	"github.com/turtacn/RxnFeasibility/internal/interfaces/http/handlers"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	port := flag.Int("port", 0, "listen port (overrides configuration)")
	flag.Parse()

	if err := run(*configPath, *port); err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, port int) error {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Server.Port = port
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:            cfg.Log.Level,
		Format:           cfg.Log.Format,
		OutputPaths:      cfg.Log.OutputPaths,
		ErrorOutputPaths: cfg.Log.ErrorOutputPaths,
	})
	if err != nil {
		return err
	}
	logging.SetDefault(logger)

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

	params := feasibility.ParamsFromConfig(cfg.Model, cfg.Batch)
	clf, err := feasibility.NewClassifier(params, logger, metrics)
	if err != nil {
		return err
	}

	health := handlers.NewHealthHandler(version)
	health.SetReady(true)

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
}
