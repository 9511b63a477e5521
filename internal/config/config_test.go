package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.Enabled)
	assert.Equal(t, DefaultTaskbarHeight, cfg.Taskbar.Height)
	assert.Equal(t, AppearanceAuto, cfg.Appearance)
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), res.Config)
	assert.Empty(t, res.Files)
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "# empty\n")

	res, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultTaskbarHeight, res.Config.Taskbar.Height)
	assert.Len(t, res.Files, 1)
}

func TestLoadFromPath_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", strings.Join([]string{
		"enabled: false",
		"log_level: WARN",
		"appearance: Dark",
		"taskbar:",
		"  height: 64",
		"  icon_size: 20",
		"reconcile_interval: 0",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	require.NoError(t, err)
	cfg := res.Config
	assert.False(t, cfg.Enabled)
	assert.Equal(t, "warning", cfg.LogLevel)
	assert.Equal(t, AppearanceDark, cfg.Appearance)
	assert.Equal(t, 64, cfg.Taskbar.Height)
	assert.Equal(t, 20, cfg.Taskbar.IconSize)
	assert.Equal(t, DefaultItemHeight, cfg.Taskbar.ItemHeight)
	assert.Equal(t, 0, cfg.ReconcileInterval)
}

func TestLoadFromPath_UnknownFieldRejected(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "taskbar:\n  hieght: 30\n")

	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hieght")
}

func TestLoadFromPath_ValidationErrorCarriesSource(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "enabled: true\ntaskbar:\n  height: 80\n")

	_, err := LoadFromPath(path)
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "taskbar.height", verr.Path)
	assert.Equal(t, SourceFile, verr.Source.Kind)
	assert.Equal(t, 3, verr.Source.Line)
	assert.Contains(t, err.Error(), "config.yaml:3:")
}

func TestLoadFromPath_IncludesAreOverriddenByIncludingFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "base.yaml", "taskbar:\n  height: 30\n  item_height: 20\n")
	path := writeConfig(t, dir, "config.yaml", "include: base.yaml\ntaskbar:\n  height: 50\n")

	res, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, 50, res.Config.Taskbar.Height)
	assert.Equal(t, 20, res.Config.Taskbar.ItemHeight)
	assert.Len(t, res.Files, 2)
}

func TestLoadFromPath_IncludeCycleDetected(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "a.yaml", "include: b.yaml\n")
	writeConfig(t, dir, "b.yaml", "include: a.yaml\n")

	_, err := LoadFromPath(filepath.Join(dir, "a.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "include cycle")
}

func TestLoadFromPath_IncludeDirectoryRejected(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "conf.d"), 0o755))
	path := writeConfig(t, dir, "config.yaml", "include: conf.d\n")

	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestLoadFromPath_MissingIncludeFails(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "config.yaml", "include: [gone.yaml]\n")

	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gone.yaml")
}

func TestLoadFromPath_LaterIncludeWinsAndSourcesFollowWriter(t *testing.T) {
	dir := t.TempDir()
	first := writeConfig(t, dir, "first.yaml", "taskbar:\n  height: 30\n  font: mono\n")
	second := writeConfig(t, dir, "second.yaml", "taskbar:\n  height: 36\n")
	path := writeConfig(t, dir, "config.yaml", "include:\n  - first.yaml\n  - second.yaml\n")

	res, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, 36, res.Config.Taskbar.Height)
	assert.Equal(t, "mono", res.Config.Taskbar.Font)
	assert.Equal(t, []string{first, second, path}, res.Files)
	assert.Equal(t, second, res.Sources["taskbar.height"].File)
	assert.Equal(t, first, res.Sources["taskbar.font"].File)
	_, ok := res.Sources["include"]
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"height too small", func(c *Config) { c.Taskbar.Height = 23 }, "taskbar.height"},
		{"height too large", func(c *Config) { c.Taskbar.Height = 65 }, "taskbar.height"},
		{"item height", func(c *Config) { c.Taskbar.ItemHeight = 49 }, "taskbar.item_height"},
		{"icon size", func(c *Config) { c.Taskbar.IconSize = 8 }, "taskbar.icon_size"},
		{"font", func(c *Config) { c.Taskbar.Font = " " }, "taskbar.font"},
		{"appearance", func(c *Config) { c.Appearance = "sepia" }, "appearance"},
		{"log level", func(c *Config) { c.LogLevel = "trace" }, "log_level"},
		{"interval", func(c *Config) { c.ReconcileInterval = -1 }, "reconcile_interval"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.path, verr.Path)
		})
	}
}

func TestClampHeight(t *testing.T) {
	assert.Equal(t, 24, ClampHeight(0))
	assert.Equal(t, 40, ClampHeight(40))
	assert.Equal(t, 64, ClampHeight(200))
	assert.Equal(t, 18, ClampItemHeight(1))
	assert.Equal(t, 32, ClampIconSize(99))
}

func TestSaveTo_RoundTripsThroughLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Taskbar.Height = 28
	cfg.Appearance = AppearanceLight
	require.NoError(t, cfg.SaveTo(path))

	res, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, res.Config)
}

func TestStore_ReadsAreClampedAndReplaceable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Taskbar.Height = 500
	store := NewStore(cfg)
	assert.Equal(t, MaxTaskbarHeight, store.TaskbarHeight())

	next := DefaultConfig()
	next.Taskbar.Height = 24
	prev := store.Replace(next)
	assert.Equal(t, 500, prev.Taskbar.Height)
	assert.Equal(t, 24, store.TaskbarHeight())

	store.SetTaskbarHeight(10)
	assert.Equal(t, 24, store.TaskbarHeight())
	assert.Equal(t, 24, next.Taskbar.Height, "SetTaskbarHeight must not mutate a replaced config")
}

func TestDiff(t *testing.T) {
	a := DefaultConfig()
	b := DefaultConfig()
	assert.False(t, Diff(a, b).Any())

	b.Taskbar.Height = 60
	b.Appearance = AppearanceDark
	change := Diff(a, b)
	assert.True(t, change.Geometry)
	assert.True(t, change.Appearance)
	assert.False(t, change.Rendering)
	assert.False(t, change.Enabled)

	c := DefaultConfig()
	c.Enabled = false
	c.Taskbar.IconSize = 30
	change = Diff(a, c)
	assert.True(t, change.Enabled)
	assert.True(t, change.Rendering)
}

func TestWatcher_InvokesCallbackOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "config.yaml", "enabled: true\n")

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)
	changed := make(chan struct{}, 8)
	w.SetChangeCallback(func() { changed <- struct{}{} })
	require.NoError(t, w.Start())
	t.Cleanup(func() { _ = w.Stop() })

	writeConfig(t, dir, "other.yaml", "ignored: true\n")
	writeConfig(t, dir, "config.yaml", "enabled: false\n")

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("expected change callback after config write")
	}
}

func TestExplain_ReportsFileAndDefaultSources(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "config.yaml", "taskbar:\n  height: 48\n")

	res, err := LoadFromPath(path)
	require.NoError(t, err)

	value, src, err := Explain(res, "taskbar.height")
	require.NoError(t, err)
	assert.Equal(t, 48, value)
	assert.Equal(t, SourceFile, src.Kind)
	assert.Equal(t, 2, src.Line)

	value, src, err = Explain(res, "appearance")
	require.NoError(t, err)
	assert.Equal(t, "auto", value)
	assert.Equal(t, SourceDefault, src.Kind)

	_, _, err = Explain(res, "taskbar.height.extra")
	assert.Error(t, err)
	_, _, err = Explain(res, "layouts")
	assert.Error(t, err)
}
