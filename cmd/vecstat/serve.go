package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sanspareilsmyn/vecstat/internal/config"
	"github.com/sanspareilsmyn/vecstat/internal/logging"
	"github.com/sanspareilsmyn/vecstat/internal/pipeline"
)

const shutdownTimeout = 5 * time.Second

var configFile string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the streaming feature monitor",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("load configuration from %s: %w", configFile, err)
		}
		logger, err := logging.NewLogger(cfg.Log)
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()

		logger.Info("Configuration loaded",
			zap.String("path", configFile),
			zap.String("log_level", cfg.Log.Level),
			zap.Int("features", len(cfg.Features)),
		)
		return serve(cmd.Context(), cfg, logger)
	},
}

func init() {
	serveCmd.Flags().StringVar(&configFile, "config", "configs/config.dev.yaml", "path to the configuration file")
	rootCmd.AddCommand(serveCmd)
}

func serve(parent context.Context, cfg *config.Config, logger *zap.Logger) error {
	pipe, err := pipeline.New(cfg, logger)
	if err != nil {
		return err
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Info("Serving metrics", zap.String("addr", cfg.Metrics.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", zap.Error(err))
			stop()
		}
	}()

	runErr := pipe.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Metrics server shutdown", zap.Error(err))
	}

	if runErr != nil {
		logger.Error("Pipeline stopped with error", zap.Error(runErr))
		return runErr
	}
	logger.Info("Pipeline shut down gracefully.")
	return nil
}
