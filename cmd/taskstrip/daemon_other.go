//go:build !linux

package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the taskbar daemon (Linux/X11 only)",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		return fmt.Errorf("the taskstrip daemon requires X11 on Linux (running on %s)", runtime.GOOS)
	},
}

func init() {
	rootCmd.AddCommand(daemonCmd)
}
