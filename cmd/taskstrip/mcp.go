package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/1broseidon/taskstrip/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol integration",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve taskbar tools over MCP on stdio",
	Long: `Serve MCP tools that query and control a running taskstrip daemon.

Tools: taskbar_status, taskbar_enable, taskbar_disable, taskbar_reconcile,
taskbar_monitors.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		// stdout carries the protocol; keep logs on stderr.
		setupLogger(os.Stderr, "warning")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return mcp.NewServer(nil).Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.AddCommand(mcpServeCmd)
}
