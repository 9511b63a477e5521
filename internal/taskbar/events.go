package taskbar

import (
	"fmt"

	"github.com/1broseidon/taskstrip/internal/platform"
)

// EventKind enumerates what can ask the manager to do work.
type EventKind int

const (
	// TopologyChanged: displays were added, removed or resized, or the work
	// area moved.
	TopologyChanged EventKind = iota + 1
	// WindowsChanged: a window appeared, vanished, or changed display/title.
	WindowsChanged
	// AppearanceChanged: the global light/dark mode flipped.
	AppearanceChanged
	// SettingChanged: the configured strip height (or other config) changed.
	SettingChanged
	EnableRequested
	DisableRequested
	// ToggleRequested flips enabled, judged when the event is dispatched.
	ToggleRequested
)

var eventKindNames = map[EventKind]string{
	TopologyChanged:   "topology-changed",
	WindowsChanged:    "windows-changed",
	AppearanceChanged: "appearance-changed",
	SettingChanged:    "setting-changed",
	EnableRequested:   "enable-requested",
	DisableRequested:  "disable-requested",
	ToggleRequested:   "toggle-requested",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// Coalescable reports whether a queued event of this kind makes a second
// one redundant. Refresh kinds recompute from ground truth; enable and
// disable are ordered commands and never merge, and neither do toggles.
func (k EventKind) Coalescable() bool {
	switch k {
	case TopologyChanged, WindowsChanged, AppearanceChanged, SettingChanged:
		return true
	default:
		return false
	}
}

// Event is a request for the manager, tagged with where it came from.
type Event struct {
	Kind   EventKind
	Source string
}

// Dispatch routes one event to the matching manager operation.
func (m *Manager) Dispatch(ev Event) {
	switch ev.Kind {
	case TopologyChanged, SettingChanged:
		m.ReconcileDisplays()
	case WindowsChanged:
		m.RefreshContents()
	case AppearanceChanged:
		m.RefreshAppearance()
	case EnableRequested:
		m.Enable()
	case DisableRequested:
		m.Disable()
	case ToggleRequested:
		if m.enabled {
			m.Disable()
		} else {
			m.Enable()
		}
	default:
		m.logger.Warn("ignoring unknown event", "kind", ev.Kind.String(), "source", ev.Source)
	}
}

// SurfaceStatus describes one surface for status reporting.
type SurfaceStatus struct {
	Display    platform.DisplayID  `json:"display"`
	X          int                 `json:"x"`
	Y          int                 `json:"y"`
	Width      int                 `json:"width"`
	Height     int                 `json:"height"`
	Appearance platform.Appearance `json:"appearance"`
	Visible    bool                `json:"visible"`
	Items      int                 `json:"items"`
}

// Status is a point-in-time snapshot of the manager.
type Status struct {
	Enabled  bool            `json:"enabled"`
	Surfaces []SurfaceStatus `json:"surfaces"`
}

// Status snapshots the manager state. Like every other method it must be
// called from the owning goroutine; Loop publishes a copy for other readers.
func (m *Manager) Status() Status {
	st := Status{Enabled: m.enabled, Surfaces: []SurfaceStatus{}}
	for _, s := range m.Surfaces() {
		p := s.Placement()
		st.Surfaces = append(st.Surfaces, SurfaceStatus{
			Display:    s.Display(),
			X:          p.X,
			Y:          p.Y,
			Width:      p.Width,
			Height:     p.Height,
			Appearance: s.Appearance(),
			Visible:    s.Visible(),
			Items:      len(s.contents),
		})
	}
	return st
}
