package config

import "sync"

// Store holds the effective configuration shared by the daemon's components.
// Readers always see a complete Config; Replace swaps it atomically.
type Store struct {
	mu  sync.RWMutex
	cfg *Config
}

// NewStore creates a store seeded with cfg (defaults when nil).
func NewStore(cfg *Config) *Store {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Store{cfg: cfg}
}

// Get returns a copy of the current configuration.
func (s *Store) Get() *Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := *s.cfg
	return &cp
}

// Replace installs cfg and returns the previous configuration.
func (s *Store) Replace(cfg *Config) *Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.cfg
	s.cfg = cfg
	return prev
}

// TaskbarHeight returns the configured strip height, clamped to 24-64.
func (s *Store) TaskbarHeight() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ClampHeight(s.cfg.Taskbar.Height)
}

// SetTaskbarHeight updates the strip height in memory (clamped).
func (s *Store) SetTaskbarHeight(h int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *s.cfg
	cp.Taskbar.Height = ClampHeight(h)
	s.cfg = &cp
}

func (s *Store) ItemHeight() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ClampItemHeight(s.cfg.Taskbar.ItemHeight)
}

func (s *Store) IconSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ClampIconSize(s.cfg.Taskbar.IconSize)
}

func (s *Store) Font() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Taskbar.Font
}

func (s *Store) AppearanceMode() AppearanceMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Appearance
}

// Change describes which parts of the configuration differ between two loads.
type Change struct {
	Geometry   bool // strip height
	Rendering  bool // item height, icon size, font
	Appearance bool
	Enabled    bool
}

// Any reports whether anything the daemon reacts to changed.
func (c Change) Any() bool {
	return c.Geometry || c.Rendering || c.Appearance || c.Enabled
}

// Diff compares two configurations.
func Diff(prev, next *Config) Change {
	if prev == nil || next == nil {
		return Change{Geometry: true, Rendering: true, Appearance: true, Enabled: prev != next}
	}
	return Change{
		Geometry: prev.Taskbar.Height != next.Taskbar.Height,
		Rendering: prev.Taskbar.ItemHeight != next.Taskbar.ItemHeight ||
			prev.Taskbar.IconSize != next.Taskbar.IconSize ||
			prev.Taskbar.Font != next.Taskbar.Font,
		Appearance: prev.Appearance != next.Appearance,
		Enabled:    prev.Enabled != next.Enabled,
	}
}
