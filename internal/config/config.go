package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Bounds for the taskbar sliders.
const (
	MinTaskbarHeight = 24
	MaxTaskbarHeight = 64
	MinItemHeight    = 18
	MaxItemHeight    = 48
	MinIconSize      = 12
	MaxIconSize      = 32

	DefaultTaskbarHeight     = 40
	DefaultItemHeight        = 32
	DefaultIconSize          = 16
	DefaultReconcileInterval = 30
)

// AppearanceMode selects how the strip colors are chosen.
type AppearanceMode string

const (
	AppearanceAuto  AppearanceMode = "auto"  // Follow the desktop portal color-scheme.
	AppearanceLight AppearanceMode = "light" // Always light.
	AppearanceDark  AppearanceMode = "dark"  // Always dark.
)

// TaskbarConfig holds the strip geometry and item sizing.
type TaskbarConfig struct {
	Height     int    `yaml:"height"`      // Strip height in pixels (24-64)
	ItemHeight int    `yaml:"item_height"` // Item height in pixels (18-48), rendering only
	IconSize   int    `yaml:"icon_size"`   // Icon size in pixels (12-32), rendering only
	Font       string `yaml:"font"`        // X core font used for item labels
}

// Config holds the application configuration.
type Config struct {
	Enabled           bool           `yaml:"enabled"`
	LogLevel          string         `yaml:"log_level"`
	Taskbar           TaskbarConfig  `yaml:"taskbar"`
	Appearance        AppearanceMode `yaml:"appearance"`
	ToggleHotkey      string         `yaml:"toggle_hotkey,omitempty"`
	ReconcileInterval int            `yaml:"reconcile_interval"` // Seconds; 0 disables the periodic pass
	Display           string         `yaml:"display,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:  true,
		LogLevel: "info",
		Taskbar: TaskbarConfig{
			Height:     DefaultTaskbarHeight,
			ItemHeight: DefaultItemHeight,
			IconSize:   DefaultIconSize,
			Font:       "fixed",
		},
		Appearance:        AppearanceAuto,
		ToggleHotkey:      "Mod4-Mod1-b", // Super+Alt+B for "bar"
		ReconcileInterval: DefaultReconcileInterval,
	}
}

// Save writes the configuration to the standard location.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo validates and writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	if c.Taskbar.Height < MinTaskbarHeight || c.Taskbar.Height > MaxTaskbarHeight {
		return &ValidationError{Path: "taskbar.height", Err: fmt.Errorf("height must be between %d and %d", MinTaskbarHeight, MaxTaskbarHeight)}
	}
	if c.Taskbar.ItemHeight < MinItemHeight || c.Taskbar.ItemHeight > MaxItemHeight {
		return &ValidationError{Path: "taskbar.item_height", Err: fmt.Errorf("item_height must be between %d and %d", MinItemHeight, MaxItemHeight)}
	}
	if c.Taskbar.IconSize < MinIconSize || c.Taskbar.IconSize > MaxIconSize {
		return &ValidationError{Path: "taskbar.icon_size", Err: fmt.Errorf("icon_size must be between %d and %d", MinIconSize, MaxIconSize)}
	}
	if strings.TrimSpace(c.Taskbar.Font) == "" {
		return &ValidationError{Path: "taskbar.font", Err: fmt.Errorf("font must not be empty")}
	}
	switch c.Appearance {
	case AppearanceAuto, AppearanceLight, AppearanceDark:
	default:
		return &ValidationError{Path: "appearance", Err: fmt.Errorf("appearance must be one of: auto, light, dark")}
	}
	if c.ReconcileInterval < 0 {
		return &ValidationError{Path: "reconcile_interval", Err: fmt.Errorf("reconcile_interval must be >= 0")}
	}
	return nil
}

// ClampHeight bounds a strip height to the supported range.
func ClampHeight(h int) int {
	return clamp(h, MinTaskbarHeight, MaxTaskbarHeight)
}

// ClampItemHeight bounds an item height to the supported range.
func ClampItemHeight(h int) int {
	return clamp(h, MinItemHeight, MaxItemHeight)
}

// ClampIconSize bounds an icon size to the supported range.
func ClampIconSize(s int) int {
	return clamp(s, MinIconSize, MaxIconSize)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
