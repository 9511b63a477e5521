package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/1broseidon/taskstrip/internal/ipc"
)

var statusOpts struct {
	json bool
}

var monitorsOpts struct {
	json bool
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon and strip status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		st, err := ipc.NewClient().GetStatus()
		if err != nil {
			return err
		}
		return printStatus(cmd.OutOrStdout(), st, statusOpts.json)
	},
}

var enableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Show a strip on every display",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		st, err := ipc.NewClient().Enable()
		if err != nil {
			return err
		}
		return printStatus(cmd.OutOrStdout(), st, false)
	},
}

var disableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Remove every strip",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		st, err := ipc.NewClient().Disable()
		if err != nil {
			return err
		}
		return printStatus(cmd.OutOrStdout(), st, false)
	},
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Re-read displays and reposition strips now",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		st, err := ipc.NewClient().Reconcile()
		if err != nil {
			return err
		}
		return printStatus(cmd.OutOrStdout(), st, false)
	},
}

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Ask the daemon to reload its config",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		data, err := ipc.NewClient().Reload()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), formatReload(data))
		return nil
	},
}

var monitorsCmd = &cobra.Command{
	Use:   "monitors",
	Short: "List displays as the daemon sees them",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		data, err := ipc.NewClient().GetMonitors()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if monitorsOpts.json {
			return writeJSON(out, data)
		}
		fmt.Fprint(out, renderMonitors(data, isTerminal(out)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd, enableCmd, disableCmd, reconcileCmd, reloadCmd, monitorsCmd)

	statusCmd.Flags().BoolVar(&statusOpts.json, "json", false, "Print status as JSON")
	monitorsCmd.Flags().BoolVar(&monitorsOpts.json, "json", false, "Print monitors as JSON")
}

func printStatus(w io.Writer, st *ipc.StatusData, asJSON bool) error {
	if asJSON {
		return writeJSON(w, st)
	}
	fmt.Fprint(w, renderStatus(st, isTerminal(w)))
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
