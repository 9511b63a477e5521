package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/taskstrip/internal/config"
	"github.com/1broseidon/taskstrip/internal/ipc"
	"github.com/1broseidon/taskstrip/internal/taskbar"
)

func TestRenderStatusPlain(t *testing.T) {
	out := renderStatus(&ipc.StatusData{
		Enabled:       true,
		Appearance:    "dark",
		Height:        40,
		Passes:        12,
		LastEvent:     "windows-changed",
		UptimeSeconds: 3725,
		Surfaces: []taskbar.SurfaceStatus{
			{Display: "HDMI-1", X: 0, Y: 1040, Width: 1920, Height: 40, Appearance: "dark", Visible: true, Items: 4},
		},
	}, false)

	assert.Contains(t, out, "enabled")
	assert.Contains(t, out, "40px")
	assert.Contains(t, out, "1h02m05s")
	assert.Contains(t, out, "windows-changed")
	assert.Contains(t, out, "HDMI-1")
	assert.Contains(t, out, "1920x40+0+1040")
	assert.NotContains(t, out, "\x1b[")
}

func TestRenderStatusWithoutStrips(t *testing.T) {
	out := renderStatus(&ipc.StatusData{}, false)
	assert.Contains(t, out, "disabled")
	assert.Contains(t, out, "no strips")
}

func TestRenderMonitors(t *testing.T) {
	out := renderMonitors(&ipc.MonitorsData{Monitors: []ipc.MonitorInfo{
		{ID: "DP-1", Width: 2560, Height: 1440, Usable: ipc.Rect{Y: 30, Width: 2560, Height: 1410}, Strip: true},
	}}, false)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "2560x1440+0+0")
	assert.Contains(t, lines[1], "2560x1410+0+30")
	assert.True(t, strings.HasSuffix(lines[1], "yes"))

	assert.Contains(t, renderMonitors(&ipc.MonitorsData{}, false), "no monitors")
}

func TestFormatReload(t *testing.T) {
	assert.Equal(t, "config reloaded: no changes", formatReload(&ipc.ReloadData{}))
	assert.Equal(t, "config reloaded: geometry, appearance", formatReload(&ipc.ReloadData{Geometry: true, Appearance: true}))
}

func TestFormatUptime(t *testing.T) {
	assert.Equal(t, "9s", formatUptime(9))
	assert.Equal(t, "2m05s", formatUptime(125))
	assert.Equal(t, "1h00m00s", formatUptime(3600))
}

func TestFormatSource(t *testing.T) {
	assert.Equal(t, "default", formatSource(config.Source{Kind: config.SourceDefault}))
	assert.Equal(t, "file:/c.yaml:3:9", formatSource(config.Source{Kind: config.SourceFile, File: "/c.yaml", Line: 3, Column: 9}))
	assert.Equal(t, "file:/c.yaml", formatSource(config.Source{Kind: config.SourceFile, File: "/c.yaml"}))
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("taskbar:\n  height: 52\n"), 0644))

	run := func(args ...string) (string, error) {
		var buf bytes.Buffer
		rootCmd.SetOut(&buf)
		rootCmd.SetErr(&buf)
		rootCmd.SetArgs(append([]string{"--config", path}, args...))
		err := rootCmd.Execute()
		return buf.String(), err
	}
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		globalOpts.configPath = ""
		configPrintOpts.defaults = false
	})

	out, err := run("config", "validate")
	require.NoError(t, err)
	assert.Equal(t, "config: ok\n", out)

	out, err = run("config", "print")
	require.NoError(t, err)
	assert.Contains(t, out, "height: 52")

	out, err = run("config", "explain", "taskbar.height")
	require.NoError(t, err)
	assert.Contains(t, out, "source: file:"+path+":2:11")
	assert.Contains(t, out, "52")

	require.NoError(t, os.WriteFile(path, []byte("taskbar:\n  height: 99\n"), 0644))
	_, err = run("config", "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "taskbar.height")
}
