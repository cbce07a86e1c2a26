package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/censusstack/income-explorer/internal/api"
	"github.com/censusstack/income-explorer/internal/config"
	"github.com/censusstack/income-explorer/internal/dataset"
	"github.com/censusstack/income-explorer/internal/engine"
	"github.com/censusstack/income-explorer/internal/metrics"
	"github.com/censusstack/income-explorer/internal/services"
	"github.com/censusstack/income-explorer/internal/session"
	"github.com/censusstack/income-explorer/internal/utils"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("path", configPath), slog.Any("error", err))
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Logging.Level, cfg.Logging.JSON)
	logger.Info("starting income-explorer", slog.String("address", cfg.Server.Address))

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		logger.Error("failed to register metrics", slog.Any("error", err))
		os.Exit(1)
	}

	ds, err := dataset.Load(cfg.Dataset.Path, cfg.Dataset.Delim())
	if err != nil {
		logger.Error("failed to load dataset", slog.String("path", cfg.Dataset.Path), slog.Any("error", err))
		os.Exit(1)
	}
	dropped := ds.Dropped()
	logger.Info("dataset loaded",
		slog.String("path", cfg.Dataset.Path),
		slog.Int("rows", ds.Len()),
		slog.Int("dropped_unknown_workclass", dropped.UnknownWorkclass),
		slog.Int("dropped_unknown_occupation", dropped.UnknownOccupation),
		slog.Int("dropped_malformed", dropped.Malformed))

	presets, err := engine.NewPresetBook(cfg.Presets.Path, logger)
	if err != nil {
		logger.Error("failed to load preset pack", slog.Any("error", err))
		os.Exit(1)
	}

	sessions := session.NewManager(ds, metrics.EngineObserver{}, cfg.Sessions.TTL,
		cfg.Sessions.MaxSessions, logger, metrics.SetActiveSessions)

	explorer := services.NewExplorerService(logger, ds, sessions, presets)

	handler := api.NewHandler(explorer, logger)
	server, err := api.NewServer(cfg.Server, handler.Routes())
	if err != nil {
		logger.Error("failed to create HTTP server", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go sessions.Run(ctx, cfg.Sessions.SweepInterval)

	var metricsServer *http.Server
	if cfg.Server.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{
			Addr:         cfg.Server.MetricsAddress,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 15 * time.Second,
		}
		go func() {
			logger.Info("metrics server listening", slog.String("address", cfg.Server.MetricsAddress))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server exited", slog.Any("error", err))
				stop()
			}
		}()
	}

	go func() {
		logger.Info("api server listening", slog.String("address", server.Address()))
		if serveErr := server.Start(); serveErr != nil {
			logger.Error("api server exited", slog.Any("error", serveErr))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()
	server.Shutdown(shutdownCtx)

	if metricsServer != nil {
		metricsCtx, cancelMetrics := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(metricsCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server shutdown", slog.Any("error", err))
		}
		cancelMetrics()
	}

	// Give remaining goroutines time to finish logging
	time.Sleep(100 * time.Millisecond)
	logger.Info("income-explorer stopped")
}
