//go:build linux

package platform

import (
	"fmt"
	"sync"

	"github.com/1broseidon/taskstrip/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// LinuxOptions configure how strips render.
type LinuxOptions struct {
	// Metrics supplies item sizing on every redraw.
	Metrics func() x11.StripMetrics
	// Style maps an appearance to strip colors.
	Style func(Appearance) x11.StripStyle
}

// LinuxBackend wraps an existing X11 connection behind the provider and strip
// factory interfaces.
type LinuxBackend struct {
	conn *x11.Connection
	opts LinuxOptions

	mu    sync.Mutex
	owned map[xproto.Window]bool
}

var (
	_ DisplayProvider = (*LinuxBackend)(nil)
	_ WindowProvider  = (*LinuxBackend)(nil)
	_ StripFactory    = (*LinuxBackend)(nil)
)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection, opts LinuxOptions) *LinuxBackend {
	if opts.Style == nil {
		opts.Style = func(Appearance) x11.StripStyle { return x11.StripStyle{} }
	}
	return &LinuxBackend{
		conn:  conn,
		opts:  opts,
		owned: make(map[xproto.Window]bool),
	}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh X11 connection.
func NewLinuxBackendFromDisplay(display string, opts LinuxOptions) (*LinuxBackend, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return NewLinuxBackend(conn, opts), nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// EventLoop starts the X11 event loop (blocking).
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// QuitEventLoop asks a running EventLoop to return.
func (b *LinuxBackend) QuitEventLoop() {
	if b != nil && b.conn != nil {
		b.conn.Quit()
	}
}

// Connection exposes the X11 connection for event watching.
func (b *LinuxBackend) Connection() *x11.Connection {
	return b.conn
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// Displays returns all active displays in RandR CRTC order, with their
// usable area computed from dock struts or the EWMH work area.
func (b *LinuxBackend) Displays() ([]Display, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	monitors, err := conn.GetMonitors()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, Display{
			ID:     DisplayID(m.Name),
			Name:   m.Name,
			Bounds: rectFromArea(m.Area()),
			Usable: rectFromArea(conn.UsableArea(m)),
		})
	}
	return displays, nil
}

// Windows returns every managed client in client-list order, tagged with the
// display holding its centre. Clients on no display are omitted.
func (b *LinuxBackend) Windows() ([]Window, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	monitors, err := conn.GetMonitors()
	if err != nil {
		return nil, err
	}
	clients, err := conn.ClientList()
	if err != nil {
		return nil, err
	}

	currentDesktop := -1
	if desktop, err := conn.GetCurrentDesktop(); err == nil {
		currentDesktop = desktop
	}

	windows := make([]Window, 0, len(clients))
	for _, windowID := range clients {
		if b.isOwned(windowID) {
			continue
		}
		client := conn.DescribeClient(windowID)
		if !client.HasArea {
			continue
		}
		mon, ok := x11.MonitorAt(monitors, client.Area)
		if !ok {
			continue
		}
		windows = append(windows, Window{
			ID:         WindowID(windowID),
			DisplayID:  DisplayID(mon.Name),
			AppID:      client.Class,
			Title:      client.Title,
			ShowToUser: client.Listed(currentDesktop),
		})
	}
	return windows, nil
}

// NewStrip creates an override-redirect strip window for display.
func (b *LinuxBackend) NewStrip(display DisplayID) (Strip, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	strip, err := conn.NewStrip(b.opts.Style(AppearanceLight), b.opts.Metrics)
	if err != nil {
		return nil, fmt.Errorf("strip for %s: %w", display, err)
	}

	b.mu.Lock()
	b.owned[strip.Window()] = true
	b.mu.Unlock()

	return &linuxStrip{backend: b, strip: strip, window: strip.Window()}, nil
}

func (b *LinuxBackend) isOwned(windowID xproto.Window) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.owned[windowID]
}

func (b *LinuxBackend) release(windowID xproto.Window) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.owned, windowID)
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

// linuxStrip adapts an x11.Strip to the Strip interface.
type linuxStrip struct {
	backend *LinuxBackend
	strip   *x11.Strip
	window  xproto.Window
}

func (s *linuxStrip) MoveResize(bounds Rect) {
	s.strip.MoveResize(bounds.X, bounds.Y, bounds.Width, bounds.Height)
}

func (s *linuxStrip) Show() { s.strip.Map() }
func (s *linuxStrip) Hide() { s.strip.Unmap() }

func (s *linuxStrip) SetAppearance(mode Appearance) {
	s.strip.SetStyle(s.backend.opts.Style(mode))
}

func (s *linuxStrip) SetItems(items []Window) {
	labels := make([]string, 0, len(items))
	for _, w := range items {
		labels = append(labels, itemLabel(w))
	}
	s.strip.SetLabels(labels)
}

func (s *linuxStrip) Destroy() {
	s.strip.Destroy()
	s.backend.release(s.window)
}

func rectFromArea(a x11.Area) Rect {
	return Rect{X: a.X, Y: a.Y, Width: a.Width, Height: a.Height}
}
