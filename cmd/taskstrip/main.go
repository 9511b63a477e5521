// Package main provides the taskstrip daemon and its control CLI.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/1broseidon/taskstrip/internal/config"
	"github.com/1broseidon/taskstrip/internal/daemon"
)

// Build-time variables (set via ldflags)
var (
	version = "dev"
	commit  = "unknown"
)

var globalOpts struct {
	verbose    bool
	configPath string
}

var rootCmd = &cobra.Command{
	Use:   "taskstrip",
	Short: "Per-display taskbar strips for X11 desktops",
	Long: `taskstrip keeps a thin taskbar strip along the bottom of every connected
display, listing the windows that live on that display.

Run "taskstrip daemon" from your session startup; the other commands talk
to the running daemon over its IPC socket.`,
	Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/taskstrip/config.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// resolveConfigPath returns --config or the standard location.
func resolveConfigPath() (string, error) {
	if globalOpts.configPath != "" {
		return globalOpts.configPath, nil
	}
	return config.DefaultConfigPath()
}

// loadConfig loads the configuration named by --config.
func loadConfig() (*config.LoadResult, string, error) {
	path, err := resolveConfigPath()
	if err != nil {
		return nil, "", err
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return nil, path, err
	}
	return res, path, nil
}

// setupLogger installs the process-wide text logger on w.
func setupLogger(w io.Writer, level string) (*slog.Logger, *slog.LevelVar) {
	logger, lv := daemon.NewLogger(w, level)
	if globalOpts.verbose {
		lv.Set(slog.LevelDebug)
	}
	slog.SetDefault(logger)
	return logger, lv
}
