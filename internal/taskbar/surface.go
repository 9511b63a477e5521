package taskbar

import (
	"github.com/1broseidon/taskstrip/internal/config"
	"github.com/1broseidon/taskstrip/internal/platform"
)

// Placement is a strip rectangle anchored at its bottom edge. Y is the bottom
// edge of the display's visible area in screen coordinates; the strip covers
// rows [Y-Height, Y). Changing Height therefore leaves X, Y and Width alone.
type Placement struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Bounds converts the placement to a top-left origin rect.
func (p Placement) Bounds() platform.Rect {
	return platform.Rect{X: p.X, Y: p.Y - p.Height, Width: p.Width, Height: p.Height}
}

// PlacementFor pins a strip of the given height to the bottom of d's usable area.
func PlacementFor(d platform.Display, height int) Placement {
	return Placement{
		X:      d.Usable.X,
		Y:      d.Usable.Y + d.Usable.Height,
		Width:  d.Usable.Width,
		Height: config.ClampHeight(height),
	}
}

// Surface is the overlay strip for one display. It starts hidden and
// unplaced; callers Reposition then Show it.
type Surface struct {
	display    platform.DisplayID
	strip      platform.Strip
	placement  Placement
	placed     bool
	appearance platform.Appearance
	contents   []platform.Window
	visible    bool
	destroyed  bool
}

// NewSurface wraps strip as the surface owned by display.
func NewSurface(display platform.DisplayID, strip platform.Strip) *Surface {
	return &Surface{
		display: display,
		strip:   strip,
	}
}

// Display returns the display this surface belongs to.
func (s *Surface) Display() platform.DisplayID { return s.display }

// Placement returns the last applied placement; zero until Reposition.
func (s *Surface) Placement() Placement { return s.placement }

// Appearance returns the mode the strip is currently drawn in.
func (s *Surface) Appearance() platform.Appearance { return s.appearance }

// Visible reports whether the strip is mapped.
func (s *Surface) Visible() bool { return s.visible }

// Destroyed reports whether Destroy has released the strip.
func (s *Surface) Destroyed() bool { return s.destroyed }

// Contents returns a copy of the current content list.
func (s *Surface) Contents() []platform.Window {
	out := make([]platform.Window, len(s.contents))
	copy(out, s.contents)
	return out
}

// Reposition pins the surface to the bottom of d's usable area. An unchanged
// placement issues no window-system request.
func (s *Surface) Reposition(d platform.Display, height int) {
	if s.destroyed {
		return
	}
	next := PlacementFor(d, height)
	if s.placed && next == s.placement {
		return
	}
	s.placement = next
	s.placed = true
	s.strip.MoveResize(next.Bounds())
}

// Show maps the strip. It is a no-op when already visible or destroyed.
func (s *Surface) Show() {
	if s.destroyed || s.visible {
		return
	}
	s.strip.Show()
	s.visible = true
}

// Hide unmaps the strip. It is a no-op when already hidden or destroyed.
func (s *Surface) Hide() {
	if s.destroyed || !s.visible {
		return
	}
	s.strip.Hide()
	s.visible = false
}

// Destroy hides the surface if needed and releases the strip. The surface
// must not be used afterwards.
func (s *Surface) Destroy() {
	if s.destroyed {
		return
	}
	s.Hide()
	s.strip.Destroy()
	s.strip = nil
	s.contents = nil
	s.destroyed = true
}

// SetAppearance restyles the strip; geometry and contents are untouched.
func (s *Surface) SetAppearance(mode platform.Appearance) {
	if s.destroyed || mode == s.appearance {
		return
	}
	s.appearance = mode
	s.strip.SetAppearance(mode)
}

// SetContents replaces the content list wholesale, keeping the given order.
func (s *Surface) SetContents(windows []platform.Window) {
	if s.destroyed {
		return
	}
	s.contents = make([]platform.Window, len(windows))
	copy(s.contents, windows)
	s.strip.SetItems(s.Contents())
}
