package taskbar

import (
	"log/slog"
	"sort"

	"github.com/1broseidon/taskstrip/internal/platform"
)

// Settings supplies the configured strip height. It is read on every
// reposition so a changed setting applies on the next pass.
type Settings interface {
	TaskbarHeight() int
}

// Options are the collaborators a Manager needs.
type Options struct {
	Displays platform.DisplayProvider
	Windows  platform.WindowProvider
	Theme    platform.ThemeProvider
	Strips   platform.StripFactory
	Settings Settings
	Logger   *slog.Logger
}

// Manager keeps exactly one Surface per live display while enabled.
//
// A Manager is not safe for concurrent use; Loop is its single owner.
type Manager struct {
	displays platform.DisplayProvider
	windows  platform.WindowProvider
	theme    platform.ThemeProvider
	strips   platform.StripFactory
	settings Settings
	logger   *slog.Logger

	enabled  bool
	surfaces map[platform.DisplayID]*Surface
}

// NewManager creates a disabled manager.
func NewManager(opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		displays: opts.Displays,
		windows:  opts.Windows,
		theme:    opts.Theme,
		strips:   opts.Strips,
		settings: opts.Settings,
		logger:   logger,
		surfaces: make(map[platform.DisplayID]*Surface),
	}
}

func (m *Manager) Enabled() bool { return m.enabled }

// Surface returns the surface for a display, if one exists.
func (m *Manager) Surface(id platform.DisplayID) (*Surface, bool) {
	s, ok := m.surfaces[id]
	return s, ok
}

// Surfaces returns the current surfaces ordered by display ID.
func (m *Manager) Surfaces() []*Surface {
	out := make([]*Surface, 0, len(m.surfaces))
	for _, s := range m.surfaces {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Display() < out[j].Display() })
	return out
}

// Enable creates a surface on every live display and fills them.
func (m *Manager) Enable() {
	if m.enabled {
		return
	}
	m.enabled = true
	m.logger.Info("taskbar enabled")
	m.syncDisplays()
	m.RefreshContents()
}

// Disable hides and destroys every surface.
func (m *Manager) Disable() {
	if !m.enabled {
		return
	}
	for id, s := range m.surfaces {
		s.Hide()
		s.Destroy()
		delete(m.surfaces, id)
	}
	m.enabled = false
	m.logger.Info("taskbar disabled")
}

// ReconcileDisplays brings the surface set in line with the live displays:
// stale surfaces are destroyed, survivors repositioned in place and new
// displays get a fresh surface. Contents are refreshed last.
func (m *Manager) ReconcileDisplays() {
	if !m.enabled {
		return
	}
	m.syncDisplays()
	m.RefreshContents()
}

func (m *Manager) syncDisplays() {
	live, ok := m.liveDisplays()
	if !ok {
		return
	}

	current := make(map[platform.DisplayID]struct{}, len(live))
	for _, d := range live {
		current[d.ID] = struct{}{}
	}
	for id, s := range m.surfaces {
		if _, ok := current[id]; ok {
			continue
		}
		s.Destroy()
		delete(m.surfaces, id)
		m.logger.Info("surface removed", "display", id)
	}

	height := m.settings.TaskbarHeight()
	for _, d := range live {
		if s, ok := m.surfaces[d.ID]; ok {
			s.Reposition(d, height)
			continue
		}
		m.createSurface(d, height)
	}
}

// liveDisplays returns the displays that produced a usable descriptor. The
// second result is false when enumeration itself failed; the pass is then
// abandoned and the existing surfaces are left for the next one.
func (m *Manager) liveDisplays() ([]platform.Display, bool) {
	displays, err := m.displays.Displays()
	if err != nil {
		m.logger.Warn("display enumeration failed", "error", err)
		return nil, false
	}

	live := make([]platform.Display, 0, len(displays))
	seen := make(map[platform.DisplayID]struct{}, len(displays))
	for _, d := range displays {
		if d.ID == "" || d.Usable.Empty() {
			m.logger.Debug("skipping display without usable area", "display", d.ID)
			continue
		}
		if _, dup := seen[d.ID]; dup {
			m.logger.Warn("duplicate display id", "display", d.ID)
			continue
		}
		seen[d.ID] = struct{}{}
		live = append(live, d)
	}
	return live, true
}

func (m *Manager) createSurface(d platform.Display, height int) {
	strip, err := m.strips.NewStrip(d.ID)
	if err != nil {
		m.logger.Warn("failed to create strip", "display", d.ID, "error", err)
		return
	}
	s := NewSurface(d.ID, strip)
	s.Reposition(d, height)
	s.SetAppearance(m.theme.Appearance())
	s.Show()
	m.surfaces[d.ID] = s
	m.logger.Info("surface created", "display", d.ID, "placement", s.Placement())
}

// RefreshContents takes one window snapshot and hands every surface the
// windows on its display, in snapshot order. Surfaces whose display has no
// windows get an empty list.
func (m *Manager) RefreshContents() {
	if !m.enabled {
		return
	}
	windows, err := m.windows.Windows()
	if err != nil {
		m.logger.Warn("window enumeration failed", "error", err)
		return
	}

	byDisplay := make(map[platform.DisplayID][]platform.Window, len(m.surfaces))
	seen := make(map[platform.WindowID]struct{}, len(windows))
	for _, w := range windows {
		if !w.ShowToUser {
			continue
		}
		if _, dup := seen[w.ID]; dup {
			continue
		}
		seen[w.ID] = struct{}{}
		byDisplay[w.DisplayID] = append(byDisplay[w.DisplayID], w)
	}

	for id, s := range m.surfaces {
		s.SetContents(byDisplay[id])
	}
}

// RefreshAppearance restyles every surface with the current theme.
func (m *Manager) RefreshAppearance() {
	if len(m.surfaces) == 0 {
		return
	}
	mode := m.theme.Appearance()
	for _, s := range m.surfaces {
		s.SetAppearance(mode)
	}
}
