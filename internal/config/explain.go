package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths:
//
//	enabled
//	log_level
//	appearance
//	toggle_hotkey
//	reconcile_interval
//	display
//	taskbar.height
//	taskbar.item_height
//	taskbar.icon_size
//	taskbar.font
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.Split(path, ".")
	if parts[0] == "taskbar" {
		if len(parts) != 2 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		switch parts[1] {
		case "height":
			return cfg.Taskbar.Height, nil
		case "item_height":
			return cfg.Taskbar.ItemHeight, nil
		case "icon_size":
			return cfg.Taskbar.IconSize, nil
		case "font":
			return cfg.Taskbar.Font, nil
		}
		return nil, fmt.Errorf("unknown path: %s", path)
	}

	if len(parts) != 1 {
		return nil, fmt.Errorf("unknown path: %s", path)
	}
	switch parts[0] {
	case "enabled":
		return cfg.Enabled, nil
	case "log_level":
		return cfg.LogLevel, nil
	case "appearance":
		return string(cfg.Appearance), nil
	case "toggle_hotkey":
		return cfg.ToggleHotkey, nil
	case "reconcile_interval":
		return cfg.ReconcileInterval, nil
	case "display":
		return cfg.Display, nil
	}
	return nil, fmt.Errorf("unknown path: %s", path)
}
