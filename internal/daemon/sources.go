package daemon

import (
	"log/slog"

	"github.com/1broseidon/taskstrip/internal/taskbar"
	"github.com/1broseidon/taskstrip/internal/theme"
	"github.com/1broseidon/taskstrip/internal/x11"
)

// EventForChange maps an X11 notification to the taskbar event it calls for.
func EventForChange(change x11.Change) (taskbar.Event, bool) {
	switch change {
	case x11.ChangeTopology:
		return taskbar.Event{Kind: taskbar.TopologyChanged, Source: "x11"}, true
	case x11.ChangeWindows:
		return taskbar.Event{Kind: taskbar.WindowsChanged, Source: "x11"}, true
	default:
		return taskbar.Event{}, false
	}
}

// X11Forwarder returns a watcher callback that submits mapped events.
func X11Forwarder(submit Submitter) func(x11.Change) {
	return func(change x11.Change) {
		if ev, ok := EventForChange(change); ok {
			submit.Submit(ev)
		}
	}
}

// ColorSchemeFollower returns a portal callback that records the system
// preference and asks for an appearance refresh only when the effective
// appearance actually changed.
func ColorSchemeFollower(provider *theme.Provider, submit Submitter, logger *slog.Logger) func(theme.ColorScheme) {
	if logger == nil {
		logger = slog.Default()
	}
	return func(scheme theme.ColorScheme) {
		if !provider.SetSystem(scheme) {
			logger.Debug("color scheme changed without effect", "scheme", scheme.String())
			return
		}
		logger.Info("system color scheme changed", "scheme", scheme.String(), "appearance", string(provider.Appearance()))
		submit.Submit(taskbar.Event{Kind: taskbar.AppearanceChanged, Source: "portal"})
	}
}
