package config

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig applies raw over the defaults.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.Enabled != nil {
		cfg.Enabled = *raw.Enabled
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(*raw.LogLevel))
		if cfg.LogLevel == "warn" {
			cfg.LogLevel = "warning"
		}
	}
	if tb := raw.Taskbar; tb != nil {
		if tb.Height != nil {
			cfg.Taskbar.Height = *tb.Height
		}
		if tb.ItemHeight != nil {
			cfg.Taskbar.ItemHeight = *tb.ItemHeight
		}
		if tb.IconSize != nil {
			cfg.Taskbar.IconSize = *tb.IconSize
		}
		if tb.Font != nil {
			cfg.Taskbar.Font = strings.TrimSpace(*tb.Font)
		}
	}
	if raw.Appearance != nil {
		cfg.Appearance = AppearanceMode(strings.ToLower(strings.TrimSpace(string(*raw.Appearance))))
	}
	if raw.ToggleHotkey != nil {
		cfg.ToggleHotkey = strings.TrimSpace(*raw.ToggleHotkey)
	}
	if raw.ReconcileInterval != nil {
		cfg.ReconcileInterval = *raw.ReconcileInterval
	}
	if raw.Display != nil {
		cfg.Display = strings.TrimSpace(*raw.Display)
	}

	return cfg, nil
}
