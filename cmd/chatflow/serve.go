package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/adapters/rest"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/app/editor"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/config"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/infrastructure/logging"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/infrastructure/metrics"
)

func newServeCmd() *cobra.Command {
	var origins []string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve editor sessions over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, origins)
		},
	}
	cmd.Flags().StringSliceVar(&origins, "allowed-origin", nil, "origin allowed by CORS (repeatable)")
	return cmd
}

func runServe(ctx context.Context, origins []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	repo, closeRepo, err := openRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeRepo(); err != nil {
			logger.Warn("Failed to close flow store", zap.Error(err))
		}
	}()

	collector := metrics.NewCollector("chatflow")
	sessions := editor.NewManager(sessionConfig(cfg, repo, collector, logger))
	router := rest.NewRouter(rest.Options{
		Sessions:       sessions,
		Flows:          repo,
		Metrics:        collector,
		Logger:         logger,
		AllowedOrigins: origins,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting chatflow server", zap.String("addr", cfg.Server.Addr), zap.String("version", Version))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down chatflow server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
