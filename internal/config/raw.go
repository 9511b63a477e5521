package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList is the include key: one file name or a list of them.
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawTaskbar struct {
	Height     *int    `yaml:"height"`
	ItemHeight *int    `yaml:"item_height"`
	IconSize   *int    `yaml:"icon_size"`
	Font       *string `yaml:"font"`
}

// RawConfig mirrors Config with every field optional so that files can be
// layered over defaults and over each other.
type RawConfig struct {
	Include           IncludeList     `yaml:"include"`
	Enabled           *bool           `yaml:"enabled"`
	LogLevel          *string         `yaml:"log_level"`
	Taskbar           *RawTaskbar     `yaml:"taskbar"`
	Appearance        *AppearanceMode `yaml:"appearance"`
	ToggleHotkey      *string         `yaml:"toggle_hotkey"`
	ReconcileInterval *int            `yaml:"reconcile_interval"`
	Display           *string         `yaml:"display"`
}

// merge returns r with every field set in other applied on top.
func (r RawConfig) merge(other RawConfig) RawConfig {
	out := r
	out.Include = nil

	if other.Enabled != nil {
		out.Enabled = other.Enabled
	}
	if other.LogLevel != nil {
		out.LogLevel = other.LogLevel
	}
	if other.Taskbar != nil {
		tb := RawTaskbar{}
		if out.Taskbar != nil {
			tb = *out.Taskbar
		}
		if other.Taskbar.Height != nil {
			tb.Height = other.Taskbar.Height
		}
		if other.Taskbar.ItemHeight != nil {
			tb.ItemHeight = other.Taskbar.ItemHeight
		}
		if other.Taskbar.IconSize != nil {
			tb.IconSize = other.Taskbar.IconSize
		}
		if other.Taskbar.Font != nil {
			tb.Font = other.Taskbar.Font
		}
		out.Taskbar = &tb
	}
	if other.Appearance != nil {
		out.Appearance = other.Appearance
	}
	if other.ToggleHotkey != nil {
		out.ToggleHotkey = other.ToggleHotkey
	}
	if other.ReconcileInterval != nil {
		out.ReconcileInterval = other.ReconcileInterval
	}
	if other.Display != nil {
		out.Display = other.Display
	}
	return out
}
