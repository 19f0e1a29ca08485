// Package main provides the chatflow CLI: the HTTP editor host and a replay
// tool for scripted editor sessions.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set during build
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "chatflow",
		Short:         "Chatflow - chatbot flow builder",
		Long:          `Chatflow hosts chatbot flow editor sessions over HTTP and replays scripted editor sessions.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newVersionCmd(), newServeCmd(), newReplayCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Chatflow %s (commit: %s, built: %s)\n", Version, Commit, BuildTime)
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
