package platform

// DisplayID identifies a physical display. It is stable while the display
// stays connected; a reconnected display may or may not get the same ID.
type DisplayID string

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates (origin top-left).
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Empty reports whether the rect has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether the point lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Intersect returns the overlap of r and o (empty when disjoint).
func (r Rect) Intersect(o Rect) Rect {
	x1 := max(r.X, o.X)
	y1 := max(r.Y, o.Y)
	x2 := min(r.X+r.Width, o.X+o.Width)
	y2 := min(r.Y+r.Height, o.Y+o.Height)
	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Display describes a physical display and its usable work area.
type Display struct {
	ID     DisplayID
	Name   string
	Bounds Rect
	Usable Rect
}

// Window is a snapshot of one top-level window as seen by the taskbar.
type Window struct {
	ID        WindowID
	DisplayID DisplayID
	AppID     string
	Title     string
	// ShowToUser is the already-resolved "should the user see this" flag.
	ShowToUser bool
}

// Appearance is the global light/dark mode.
type Appearance string

const (
	AppearanceLight Appearance = "light"
	AppearanceDark  Appearance = "dark"
)

// DisplayProvider enumerates live displays.
type DisplayProvider interface {
	Displays() ([]Display, error)
}

// WindowProvider enumerates candidate taskbar windows.
type WindowProvider interface {
	Windows() ([]Window, error)
}

// ThemeProvider reports the current appearance.
type ThemeProvider interface {
	Appearance() Appearance
}

// Strip is the placement and drawing primitive behind one overlay surface.
// Calls are fire-and-forget requests to the window system.
type Strip interface {
	MoveResize(bounds Rect)
	Show()
	Hide()
	SetAppearance(mode Appearance)
	SetItems(items []Window)
	Destroy()
}

// StripFactory allocates strips.
type StripFactory interface {
	NewStrip(display DisplayID) (Strip, error)
}
