package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Monitor represents a physical display. Name is the RandR output name
// (e.g. "DP-1") and doubles as the display identity.
type Monitor struct {
	Index  int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

// Area is a rectangle in root window coordinates.
type Area struct {
	X      int
	Y      int
	Width  int
	Height int
}

func (m Monitor) Area() Area {
	return Area{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height}
}

func (a Area) contains(x, y int) bool {
	return x >= a.X && x < a.X+a.Width && y >= a.Y && y < a.Y+a.Height
}

func (a Area) intersect(b Area) Area {
	x1 := max(a.X, b.X)
	y1 := max(a.Y, b.Y)
	x2 := min(a.X+a.Width, b.X+b.Width)
	y2 := min(a.Y+a.Height, b.Y+b.Height)
	if x2 <= x1 || y2 <= y1 {
		return Area{}
	}
	return Area{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// GetMonitors retrieves all active monitors using XRandR
func (c *Connection) GetMonitors() ([]Monitor, error) {
	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	seen := make(map[string]bool)

	// Query each CRTC for active monitors
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		// The output name is the display identity. A positional stand-in
		// would hand the strip to another monitor once the CRTCs reorder.
		outputName, ok := outputNameOf(randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply())
		if !ok {
			continue
		}

		// Mirrored outputs share a CRTC; a name we already have is a clone.
		if seen[outputName] {
			continue
		}
		seen[outputName] = true

		monitors = append(monitors, Monitor{
			Index:  i,
			Name:   outputName,
			X:      int(crtcInfo.X),
			Y:      int(crtcInfo.Y),
			Width:  int(crtcInfo.Width),
			Height: int(crtcInfo.Height),
		})
	}

	return monitors, nil
}

// outputNameOf extracts the RandR output name, reporting false when the
// output could not be queried or has no name.
func outputNameOf(info *randr.GetOutputInfoReply, err error) (string, bool) {
	if err != nil || info == nil || len(info.Name) == 0 {
		return "", false
	}
	return string(info.Name), true
}

// UsableArea returns the part of monitor not reserved by docks and panels.
// Dock struts are preferred; the EWMH work area of the current desktop is the
// fallback, and the full monitor the last resort.
func (c *Connection) UsableArea(monitor Monitor) Area {
	area := monitor.Area()

	if usable, ok := c.applyDockStruts(area); ok {
		return usable
	}

	workArea, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(workArea) == 0 {
		return area
	}
	desktopIndex := 0
	if currentDesktop, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil {
		if int(currentDesktop) < len(workArea) {
			desktopIndex = int(currentDesktop)
		}
	}
	wa := workArea[desktopIndex]
	isect := area.intersect(Area{X: int(wa.X), Y: int(wa.Y), Width: int(wa.Width), Height: int(wa.Height)})
	if isect.Width == 0 || isect.Height == 0 {
		return area
	}
	return isect
}

type dockStruts struct {
	left   int
	right  int
	top    int
	bottom int
}

func (s dockStruts) empty() bool {
	return s.left == 0 && s.right == 0 && s.top == 0 && s.bottom == 0
}

func (c *Connection) applyDockStruts(area Area) (Area, bool) {
	rootGeom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return area, false
	}
	rootWidth := int(rootGeom.Width)
	rootHeight := int(rootGeom.Height)

	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return area, false
	}

	var partials []ewmh.WmStrutPartial
	for _, windowID := range clients {
		if !c.isDock(windowID) {
			continue
		}
		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, windowID); err == nil {
			partials = append(partials, *sp)
			continue
		}
		// Some docks only set _NET_WM_STRUT (no partial ranges).
		if s, err := ewmh.WmStrutGet(c.XUtil, windowID); err == nil {
			partials = append(partials, fullStrut(s, rootWidth, rootHeight))
		}
	}

	return shrinkByStruts(area, rootWidth, rootHeight, partials)
}

func (c *Connection) isDock(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		return false
	}
	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_DOCK" {
			return true
		}
	}
	return false
}

func fullStrut(s *ewmh.WmStrut, rootWidth, rootHeight int) ewmh.WmStrutPartial {
	return ewmh.WmStrutPartial{
		Left:         s.Left,
		Right:        s.Right,
		Top:          s.Top,
		Bottom:       s.Bottom,
		LeftStartY:   0,
		LeftEndY:     uint(rootHeight - 1),
		RightStartY:  0,
		RightEndY:    uint(rootHeight - 1),
		TopStartX:    0,
		TopEndX:      uint(rootWidth - 1),
		BottomStartX: 0,
		BottomEndX:   uint(rootWidth - 1),
	}
}

// shrinkByStruts removes every strut overlapping area from its edges. It
// reports false when no strut touches the area.
func shrinkByStruts(area Area, rootWidth, rootHeight int, partials []ewmh.WmStrutPartial) (Area, bool) {
	var acc dockStruts
	for i := range partials {
		updateStruts(area, rootWidth, rootHeight, &partials[i], &acc)
	}
	if acc.empty() {
		return area, false
	}

	area.X += acc.left
	area.Y += acc.top
	area.Width -= acc.left + acc.right
	area.Height -= acc.top + acc.bottom

	if area.Width < 1 {
		area.Width = 1
	}
	if area.Height < 1 {
		area.Height = 1
	}
	return area, true
}

func updateStruts(mon Area, rootWidth, rootHeight int, sp *ewmh.WmStrutPartial, acc *dockStruts) {
	// Top strut: y=[0,Top), x=[TopStartX,TopEndX]
	if sp.Top > 0 {
		r := Area{X: int(sp.TopStartX), Y: 0, Width: int(sp.TopEndX) + 1 - int(sp.TopStartX), Height: int(sp.Top)}
		acc.top = max(acc.top, mon.intersect(r).Height)
	}

	// Bottom strut: y=[rootHeight-Bottom,rootHeight), x=[BottomStartX,BottomEndX]
	if sp.Bottom > 0 {
		r := Area{X: int(sp.BottomStartX), Y: rootHeight - int(sp.Bottom), Width: int(sp.BottomEndX) + 1 - int(sp.BottomStartX), Height: int(sp.Bottom)}
		acc.bottom = max(acc.bottom, mon.intersect(r).Height)
	}

	// Left strut: x=[0,Left), y=[LeftStartY,LeftEndY]
	if sp.Left > 0 {
		r := Area{X: 0, Y: int(sp.LeftStartY), Width: int(sp.Left), Height: int(sp.LeftEndY) + 1 - int(sp.LeftStartY)}
		acc.left = max(acc.left, mon.intersect(r).Width)
	}

	// Right strut: x=[rootWidth-Right,rootWidth), y=[RightStartY,RightEndY]
	if sp.Right > 0 {
		r := Area{X: rootWidth - int(sp.Right), Y: int(sp.RightStartY), Width: int(sp.Right), Height: int(sp.RightEndY) + 1 - int(sp.RightStartY)}
		acc.right = max(acc.right, mon.intersect(r).Width)
	}
}

// MonitorAt returns the monitor containing (x, y), falling back to the one
// with the largest overlap with area. ok is false when none overlaps.
func MonitorAt(monitors []Monitor, area Area) (Monitor, bool) {
	cx := area.X + area.Width/2
	cy := area.Y + area.Height/2
	for _, mon := range monitors {
		if mon.Area().contains(cx, cy) {
			return mon, true
		}
	}

	best := -1
	bestOverlap := 0
	for i, mon := range monitors {
		isect := mon.Area().intersect(area)
		if overlap := isect.Width * isect.Height; overlap > bestOverlap {
			best = i
			bestOverlap = overlap
		}
	}
	if best < 0 {
		return Monitor{}, false
	}
	return monitors[best], true
}
