package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// StickyDesktop marks a window that is visible on every desktop.
const StickyDesktop = -1

// Client is a snapshot of one managed top-level window.
type Client struct {
	ID          xproto.Window
	Title       string
	Class       string
	Desktop     int
	Normal      bool
	SkipTaskbar bool
	Area        Area
	HasArea     bool
}

// Listed reports whether a taskbar on currentDesktop should show the client.
// currentDesktop < 0 means the desktop is unknown and no desktop filtering
// applies.
func (c Client) Listed(currentDesktop int) bool {
	if !c.Normal || c.SkipTaskbar {
		return false
	}
	if currentDesktop >= 0 && c.Desktop != StickyDesktop && c.Desktop != currentDesktop {
		return false
	}
	return true
}

// ClientList returns the managed windows in _NET_CLIENT_LIST order.
func (c *Connection) ClientList() ([]xproto.Window, error) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to get client list: %w", err)
	}
	return clients, nil
}

// DescribeClient gathers what the taskbar needs to know about windowID.
// Property lookups that fail leave their field at its zero value.
func (c *Connection) DescribeClient(windowID xproto.Window) Client {
	client := Client{
		ID:      windowID,
		Title:   c.WindowTitle(windowID),
		Class:   c.WindowClass(windowID),
		Desktop: StickyDesktop,
		Normal:  c.IsNormalWindow(windowID),
	}
	if desktop, err := c.GetWindowDesktop(windowID); err == nil {
		client.Desktop = desktop
	}
	if states, err := ewmh.WmStateGet(c.XUtil, windowID); err == nil {
		for _, state := range states {
			if state == "_NET_WM_STATE_SKIP_TASKBAR" {
				client.SkipTaskbar = true
			}
		}
	}
	if area, err := c.WindowArea(windowID); err == nil {
		client.Area = area
		client.HasArea = true
	}
	return client
}

// WindowArea returns the window rectangle in root coordinates.
func (c *Connection) WindowArea(windowID xproto.Window) (Area, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return Area{}, err
	}

	translate, err := xproto.TranslateCoordinates(
		c.XUtil.Conn(),
		windowID,
		c.Root,
		0, 0,
	).Reply()
	if err != nil {
		return Area{}, err
	}

	return Area{
		X:      int(translate.DstX),
		Y:      int(translate.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}, nil
}

// WindowTitle prefers _NET_WM_NAME and falls back to WM_NAME.
func (c *Connection) WindowTitle(windowID xproto.Window) string {
	title, err := ewmh.WmNameGet(c.XUtil, windowID)
	if err == nil {
		title = strings.TrimSpace(title)
		if title != "" {
			return title
		}
	}

	title, err = icccm.WmNameGet(c.XUtil, windowID)
	if err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}

// WindowClass returns the WM_CLASS class part, used as the application ID.
func (c *Connection) WindowClass(windowID xproto.Window) string {
	wmClass, err := icccm.WmClassGet(c.XUtil, windowID)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(wmClass.Class)
}

// IsNormalWindow checks if a window is a normal application window
func (c *Connection) IsNormalWindow(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		// If we can't determine type, assume it's normal
		return true
	}
	return isNormalType(types)
}

func isNormalType(types []string) bool {
	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_NORMAL", "_NET_WM_WINDOW_TYPE_DIALOG":
			return true
		case "_NET_WM_WINDOW_TYPE_DESKTOP",
			"_NET_WM_WINDOW_TYPE_DOCK",
			"_NET_WM_WINDOW_TYPE_SPLASH",
			"_NET_WM_WINDOW_TYPE_NOTIFICATION",
			"_NET_WM_WINDOW_TYPE_TOOLBAR",
			"_NET_WM_WINDOW_TYPE_MENU",
			"_NET_WM_WINDOW_TYPE_UTILITY":
			return false
		}
	}

	// If no specific type is set, assume it's normal
	return len(types) == 0
}
