package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/app/editor"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/app/replay"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/config"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/infrastructure/logging"
)

func newReplayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "replay <script.yaml>",
		Short: "Replay a scripted editor session and print the outcome as JSON",
		Long: `Replay a YAML list of editor events against a fresh session.

Each event has an "event" field: drop, move, connect, click, canvas, back,
edit, remove_node, remove_edge or save. Example:

  - event: drop
  - event: drop
  - event: connect
    source: node_1
    target: node_2
  - event: save`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, err := replay.LoadFile(args[0])
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.App.Environment, cfg.App.LogLevel)
			if err != nil {
				return err
			}
			// zap writes to stderr, stdout carries the report
			defer func() { _ = logger.Sync() }()

			repo, closeRepo, err := openRepository(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer closeRepo()

			session := editor.New(sessionConfig(cfg, repo, nil, logger)())
			report, err := replay.Run(cmd.Context(), session, steps)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
			return nil
		},
	}
}
