package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/taskstrip/internal/config"
	"github.com/1broseidon/taskstrip/internal/platform"
	"github.com/1broseidon/taskstrip/internal/taskbar"
)

type fakeLoop struct {
	mu        sync.Mutex
	status    taskbar.LoopStatus
	submitted []taskbar.EventKind
	err       error
}

func (f *fakeLoop) SubmitWait(_ context.Context, ev taskbar.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.submitted = append(f.submitted, ev.Kind)
	f.status.Passes++
	f.status.LastEvent = ev.Kind.String()
	switch ev.Kind {
	case taskbar.EnableRequested:
		f.status.Enabled = true
		f.status.Surfaces = []taskbar.SurfaceStatus{{Display: "HDMI-1", X: 0, Y: 1040, Width: 1920, Height: 40, Visible: true}}
	case taskbar.DisableRequested:
		f.status.Enabled = false
		f.status.Surfaces = nil
	}
	return nil
}

func (f *fakeLoop) Status() taskbar.LoopStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

type fakeDisplays struct {
	displays []platform.Display
	err      error
}

func (f fakeDisplays) Displays() ([]platform.Display, error) { return f.displays, f.err }

type fakeTheme platform.Appearance

func (f fakeTheme) Appearance() platform.Appearance { return platform.Appearance(f) }

type fakeSettings int

func (f fakeSettings) TaskbarHeight() int { return int(f) }

type fakeReloader struct {
	change config.Change
	err    error
	calls  int
}

func (f *fakeReloader) Reload(string) (config.Change, error) {
	f.calls++
	return f.change, f.err
}

func newTestServer(t *testing.T, loop *fakeLoop) (*Server, *fakeReloader) {
	t.Helper()
	reloader := &fakeReloader{change: config.Change{Geometry: true}}
	srv, err := NewServer(ServerOptions{
		Loop: loop,
		Displays: fakeDisplays{displays: []platform.Display{
			{ID: "HDMI-1", Name: "HDMI-1", Bounds: platform.Rect{Width: 1920, Height: 1080}, Usable: platform.Rect{Width: 1920, Height: 1080}},
			{ID: "DP-2", Name: "DP-2", Bounds: platform.Rect{X: 1920, Width: 2560, Height: 1440}, Usable: platform.Rect{X: 1920, Y: 30, Width: 2560, Height: 1410}},
		}},
		Theme:      fakeTheme(platform.AppearanceDark),
		Settings:   fakeSettings(40),
		Reloader:   reloader,
		SocketPath: filepath.Join(t.TempDir(), "unused.sock"),
	})
	require.NoError(t, err)
	return srv, reloader
}

func decode[T any](t *testing.T, resp *Response) T {
	t.Helper()
	require.Equal(t, "OK", resp.Status, resp.Error)
	var out T
	require.NoError(t, json.Unmarshal(resp.Data, &out))
	return out
}

func TestHandleStatus(t *testing.T) {
	srv, _ := newTestServer(t, &fakeLoop{})

	st := decode[StatusData](t, srv.handleCommand(&Request{Command: CommandStatus}))
	assert.True(t, st.DaemonRunning)
	assert.False(t, st.Enabled)
	assert.Equal(t, "dark", st.Appearance)
	assert.Equal(t, 40, st.Height)
	assert.NotNil(t, st.Surfaces)
	assert.Empty(t, st.Surfaces)
}

func TestHandleEnableDisableWaitForPass(t *testing.T) {
	loop := &fakeLoop{}
	srv, _ := newTestServer(t, loop)

	st := decode[StatusData](t, srv.handleCommand(&Request{Command: CommandEnable}))
	assert.True(t, st.Enabled)
	require.Len(t, st.Surfaces, 1)
	assert.Equal(t, platform.DisplayID("HDMI-1"), st.Surfaces[0].Display)

	st = decode[StatusData](t, srv.handleCommand(&Request{Command: CommandDisable}))
	assert.False(t, st.Enabled)
	assert.Empty(t, st.Surfaces)

	st = decode[StatusData](t, srv.handleCommand(&Request{Command: CommandReconcile}))
	assert.Equal(t, uint64(3), st.Passes)
	assert.Equal(t, "topology-changed", st.LastEvent)

	assert.Equal(t, []taskbar.EventKind{taskbar.EnableRequested, taskbar.DisableRequested, taskbar.TopologyChanged}, loop.submitted)
}

func TestHandleRequestReportsLoopErrors(t *testing.T) {
	srv, _ := newTestServer(t, &fakeLoop{err: taskbar.ErrLoopStopped})

	resp := srv.handleCommand(&Request{Command: CommandEnable})
	assert.Equal(t, "ERROR", resp.Status)
	assert.Contains(t, resp.Error, "taskbar loop stopped")
}

func TestHandleReload(t *testing.T) {
	srv, reloader := newTestServer(t, &fakeLoop{})

	data := decode[ReloadData](t, srv.handleCommand(&Request{Command: CommandReload}))
	assert.True(t, data.Geometry)
	assert.False(t, data.Appearance)
	assert.Equal(t, 1, reloader.calls)

	reloader.err = errors.New("taskbar.height: out of range")
	resp := srv.handleCommand(&Request{Command: CommandReload})
	assert.Equal(t, "ERROR", resp.Status)
	assert.Contains(t, resp.Error, "out of range")
}

func TestHandleGetMonitorsMarksCoveredDisplays(t *testing.T) {
	loop := &fakeLoop{}
	srv, _ := newTestServer(t, loop)
	srv.handleCommand(&Request{Command: CommandEnable})

	data := decode[MonitorsData](t, srv.handleCommand(&Request{Command: CommandGetMonitors}))
	require.Len(t, data.Monitors, 2)
	assert.Equal(t, "HDMI-1", data.Monitors[0].ID)
	assert.True(t, data.Monitors[0].Strip)
	assert.False(t, data.Monitors[1].Strip)
	assert.Equal(t, Rect{X: 1920, Y: 30, Width: 2560, Height: 1410}, data.Monitors[1].Usable)
}

func TestHandleGetMonitorsError(t *testing.T) {
	srv, err := NewServer(ServerOptions{
		Loop:       &fakeLoop{},
		Displays:   fakeDisplays{err: errors.New("randr gone")},
		SocketPath: "unused",
	})
	require.NoError(t, err)

	resp := srv.handleCommand(&Request{Command: CommandGetMonitors})
	assert.Equal(t, "ERROR", resp.Status)
	assert.Contains(t, resp.Error, "randr gone")
}

func TestHandleUnknownCommand(t *testing.T) {
	srv, _ := newTestServer(t, &fakeLoop{})

	resp := srv.handleCommand(&Request{Command: "TILE"})
	assert.Equal(t, "ERROR", resp.Status)
	assert.Contains(t, resp.Error, "Unknown command")
}

func TestClientServerRoundTrip(t *testing.T) {
	dir, err := os.MkdirTemp("", "tsipc")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	socket := filepath.Join(dir, "s.sock")

	loop := &fakeLoop{}
	srv, err := NewServer(ServerOptions{Loop: loop, Settings: fakeSettings(32), SocketPath: socket})
	require.NoError(t, err)
	require.NoError(t, srv.Start())
	t.Cleanup(srv.Stop)

	client := NewClientWithSocket(socket)
	require.NoError(t, client.Ping())

	st, err := client.Enable()
	require.NoError(t, err)
	assert.True(t, st.Enabled)
	assert.Equal(t, 32, st.Height)

	_, err = client.Reload()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "daemon error: reload is not available")
}

func TestClientWithoutDaemon(t *testing.T) {
	client := NewClientWithSocket(filepath.Join(t.TempDir(), "missing.sock"))
	err := client.Ping()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is the daemon running?")
}

func TestClientReportsUnresolvableSocket(t *testing.T) {
	client := NewClientWithSocket("")
	client.pathErr = errors.New("no runtime dir")

	_, err := client.GetStatus()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no runtime dir")
}
