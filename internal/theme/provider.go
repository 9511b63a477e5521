package theme

import (
	"sync/atomic"

	"github.com/1broseidon/taskstrip/internal/config"
	"github.com/1broseidon/taskstrip/internal/platform"
)

// Provider resolves the effective appearance from the configured override and
// the last color scheme reported by the desktop.
type Provider struct {
	mode   func() config.AppearanceMode
	system atomic.Uint32
}

// NewProvider creates a provider reading the override from mode on every call.
// A nil mode behaves as "auto".
func NewProvider(mode func() config.AppearanceMode) *Provider {
	if mode == nil {
		mode = func() config.AppearanceMode { return config.AppearanceAuto }
	}
	return &Provider{mode: mode}
}

// Appearance returns the mode strips should use right now.
func (p *Provider) Appearance() platform.Appearance {
	return Resolve(p.mode(), p.System())
}

// System returns the last color scheme recorded with SetSystem.
func (p *Provider) System() ColorScheme {
	return ColorScheme(p.system.Load())
}

// SetSystem records the desktop preference and reports whether the effective
// appearance changed as a result.
func (p *Provider) SetSystem(scheme ColorScheme) bool {
	before := p.Appearance()
	p.system.Store(uint32(scheme))
	return p.Appearance() != before
}

// Resolve combines an override with the desktop preference. Auto follows the
// desktop and falls back to light when it expresses no preference.
func Resolve(mode config.AppearanceMode, system ColorScheme) platform.Appearance {
	switch mode {
	case config.AppearanceLight:
		return platform.AppearanceLight
	case config.AppearanceDark:
		return platform.AppearanceDark
	}
	if system == ColorSchemeDark {
		return platform.AppearanceDark
	}
	return platform.AppearanceLight
}
