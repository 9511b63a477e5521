package mcp

import "github.com/1broseidon/taskstrip/internal/ipc"

// StatusInput is the input for taskbar_status. It takes no arguments.
type StatusInput struct{}

// ToggleInput is the input for taskbar_enable and taskbar_disable.
type ToggleInput struct{}

// ReconcileInput is the input for taskbar_reconcile.
type ReconcileInput struct{}

// MonitorsInput is the input for taskbar_monitors.
type MonitorsInput struct{}

// StatusOutput mirrors the daemon status.
type StatusOutput struct {
	Enabled    bool          `json:"enabled"`
	Appearance string        `json:"appearance"`
	Height     int           `json:"height"`
	Passes     uint64        `json:"passes"`
	LastEvent  string        `json:"last_event,omitempty"`
	Strips     []StripStatus `json:"strips"`
}

// StripStatus describes one strip.
type StripStatus struct {
	Display    string `json:"display"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Appearance string `json:"appearance"`
	Visible    bool   `json:"visible"`
	Items      int    `json:"items"`
}

// MonitorsOutput lists the connected displays.
type MonitorsOutput struct {
	Monitors []ipc.MonitorInfo `json:"monitors"`
}
