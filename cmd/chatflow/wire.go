package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/adapters/repository/memory"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/adapters/repository/sqlite"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/app/editor"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/config"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/infrastructure/metrics"
)

// openRepository builds the flow repository selected by the configuration.
// The returned close function is never nil. A nil repository means saves are
// only reported, not stored.
func openRepository(ctx context.Context, cfg *config.Config, logger *zap.Logger) (editor.FlowRepository, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Storage.Backend {
	case config.StoreNone:
		logger.Info("Flow persistence disabled")
		return nil, noop, nil
	case config.StoreSQLite:
		s, err := cfg.Serializer()
		if err != nil {
			return nil, noop, err
		}
		repo, err := sqlite.Open(ctx, cfg.Storage.SQLiteDSN, s)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("Using sqlite flow store", zap.String("dsn", cfg.Storage.SQLiteDSN), zap.String("format", s.Format()))
		return repo, repo.Close, nil
	case config.StoreMemory:
		logger.Info("Using in-memory flow store")
		return memory.NewFlowRepository(), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown store %q", cfg.Storage.Backend)
	}
}

// sessionConfig returns the per-session configuration shared by all sessions
func sessionConfig(cfg *config.Config, repo editor.FlowRepository, m *metrics.Collector, logger *zap.Logger) func() editor.Config {
	return func() editor.Config {
		return editor.Config{
			NoticeTTL:   cfg.Editor.NoticeTTL,
			Policy:      cfg.ConnectionPolicy(),
			CheckCycles: cfg.Editor.CheckCycles,
			Sink:        repo,
			Logger:      logger,
			Metrics:     m,
		}
	}
}
