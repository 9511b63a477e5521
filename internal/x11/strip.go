package x11

import (
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
)

const (
	stripPaddingX  = 6
	itemGap        = 4
	itemPaddingX   = 6
	itemMaxWidth   = 220
	itemMinWidth   = 48
	fontCharWidth  = 7
	fontBaselineUp = 4
)

var fallbackFonts = []string{"fixed", "9x15", "8x13", "6x13"}

// StripStyle holds the pixel values a strip paints with.
type StripStyle struct {
	Background uint32
	Item       uint32
	Text       uint32
	Icon       uint32
}

// StripMetrics are the rendering sizes, read on every redraw.
type StripMetrics struct {
	ItemHeight int
	IconSize   int
	Font       string
}

// itemBox is one item cell in strip-local coordinates.
type itemBox struct {
	X, Y, Width, Height int
}

// layoutItems lays n cells left to right, vertically centred, shrinking the
// cells to fit and dropping the ones that still don't.
func layoutItems(stripWidth, stripHeight, itemHeight, n int) []itemBox {
	if n == 0 || stripWidth <= 2*stripPaddingX {
		return nil
	}
	itemHeight = min(itemHeight, stripHeight)
	avail := stripWidth - 2*stripPaddingX
	width := min(itemMaxWidth, (avail-(n-1)*itemGap)/n)
	if width < itemMinWidth {
		width = itemMinWidth
		n = min(n, (avail+itemGap)/(itemMinWidth+itemGap))
	}

	y := (stripHeight - itemHeight) / 2
	boxes := make([]itemBox, 0, n)
	for i := 0; i < n; i++ {
		boxes = append(boxes, itemBox{
			X:      stripPaddingX + i*(width+itemGap),
			Y:      y,
			Width:  width,
			Height: itemHeight,
		})
	}
	return boxes
}

// fitLabel truncates label to the given number of glyphs, marking the cut,
// and replaces anything the core X font protocol cannot draw.
func fitLabel(label string, maxChars int) string {
	if maxChars <= 0 {
		return ""
	}
	out := make([]byte, 0, len(label))
	for _, r := range label {
		if r < 0x20 || r > 0x7e {
			r = '?'
		}
		out = append(out, byte(r))
	}
	if len(out) <= maxChars {
		return string(out)
	}
	if maxChars <= 2 {
		return string(out[:maxChars])
	}
	return string(out[:maxChars-2]) + ".."
}

// Strip is an override-redirect window pinned along a screen edge that draws
// a row of labelled items. Methods may be called from any goroutine; expose
// redraws arrive on the X event loop.
type Strip struct {
	xu *xgbutil.XUtil

	mu       sync.Mutex
	window   xproto.Window
	gc       xproto.Gcontext
	font     xproto.Font
	fontName string
	width    int
	height   int
	mapped   bool
	style    StripStyle
	labels   []string
	metrics  func() StripMetrics
}

// NewStrip creates an unmapped strip window. metrics is consulted on every
// redraw so sizing changes apply without recreating the window.
func (c *Connection) NewStrip(style StripStyle, metrics func() StripMetrics) (*Strip, error) {
	conn := c.XUtil.Conn()
	screen := c.XUtil.Screen()

	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return nil, err
	}

	// Value list order follows the bit positions of the mask (low to high).
	err = xproto.CreateWindowChecked(
		conn,
		screen.RootDepth,
		wid,
		c.Root,
		0, 0,
		1, 1,
		0,
		xproto.WindowClassInputOutput,
		screen.RootVisual,
		xproto.CwBackPixel|xproto.CwOverrideRedirect|xproto.CwEventMask,
		[]uint32{style.Background, 1, xproto.EventMaskExposure},
	).Check()
	if err != nil {
		return nil, fmt.Errorf("create strip window: %w", err)
	}

	s := &Strip{
		xu:      c.XUtil,
		window:  wid,
		width:   1,
		height:  1,
		style:   style,
		metrics: metrics,
	}
	s.fontName = s.currentMetrics().Font
	if err := s.openFont(s.fontName); err != nil {
		xproto.DestroyWindow(conn, wid)
		return nil, err
	}

	xevent.ExposeFun(func(_ *xgbutil.XUtil, ev xevent.ExposeEvent) {
		if ev.Count == 0 {
			s.Redraw()
		}
	}).Connect(c.XUtil, wid)

	return s, nil
}

// Window returns the X window backing the strip.
func (s *Strip) Window() xproto.Window {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.window
}

func (s *Strip) currentMetrics() StripMetrics {
	m := StripMetrics{ItemHeight: 32, IconSize: 16, Font: "fixed"}
	if s.metrics != nil {
		m = s.metrics()
	}
	return m
}

// openFont opens name (or the first fallback that exists) and points the GC at it.
func (s *Strip) openFont(name string) error {
	conn := s.xu.Conn()

	font, err := xproto.NewFontId(conn)
	if err != nil {
		return err
	}
	opened := ""
	for _, candidate := range append([]string{name}, fallbackFonts...) {
		if candidate == "" {
			continue
		}
		if xproto.OpenFontChecked(conn, font, uint16(len(candidate)), candidate).Check() == nil {
			opened = candidate
			break
		}
	}
	if opened == "" {
		return fmt.Errorf("no usable core font (tried %q and fallbacks)", name)
	}

	if s.gc == 0 {
		gc, err := xproto.NewGcontextId(conn)
		if err != nil {
			xproto.CloseFont(conn, font)
			return err
		}
		err = xproto.CreateGCChecked(
			conn,
			gc,
			xproto.Drawable(s.window),
			xproto.GcForeground|xproto.GcBackground|xproto.GcFont|xproto.GcGraphicsExposures,
			[]uint32{s.style.Text, s.style.Item, uint32(font), 0},
		).Check()
		if err != nil {
			xproto.CloseFont(conn, font)
			return fmt.Errorf("create strip gc: %w", err)
		}
		s.gc = gc
	} else {
		xproto.ChangeGC(conn, s.gc, xproto.GcFont, []uint32{uint32(font)})
		xproto.CloseFont(conn, s.font)
	}

	s.font = font
	return nil
}

// MoveResize places the strip and keeps it above other windows.
func (s *Strip) MoveResize(x, y, width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.window == 0 {
		return
	}

	width = max(width, 1)
	height = max(height, 1)
	xproto.ConfigureWindow(
		s.xu.Conn(),
		s.window,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight|xproto.ConfigWindowStackMode,
		[]uint32{
			uint32(x),
			uint32(y),
			uint32(width),
			uint32(height),
			xproto.StackModeAbove, // Keep on top
		},
	)
	s.width = width
	s.height = height
	s.redrawLocked()
}

func (s *Strip) Map() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.window == 0 || s.mapped {
		return
	}
	xproto.MapWindow(s.xu.Conn(), s.window)
	s.mapped = true
}

func (s *Strip) Unmap() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.window == 0 || !s.mapped {
		return
	}
	xproto.UnmapWindow(s.xu.Conn(), s.window)
	s.mapped = false
}

// SetStyle repaints the strip with new colors.
func (s *Strip) SetStyle(style StripStyle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.window == 0 {
		return
	}
	s.style = style
	xproto.ChangeWindowAttributes(s.xu.Conn(), s.window, xproto.CwBackPixel, []uint32{style.Background})
	s.redrawLocked()
}

// SetLabels replaces the item labels and repaints.
func (s *Strip) SetLabels(labels []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.window == 0 {
		return
	}
	s.labels = append(s.labels[:0], labels...)
	s.redrawLocked()
}

// Redraw repaints the whole strip.
func (s *Strip) Redraw() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.redrawLocked()
}

func (s *Strip) redrawLocked() {
	if s.window == 0 {
		return
	}
	conn := s.xu.Conn()
	m := s.currentMetrics()
	if m.Font != s.fontName {
		// A font that fails to open keeps the previous one and is not retried.
		_ = s.openFont(m.Font)
		s.fontName = m.Font
	}

	xproto.ClearArea(conn, false, s.window, 0, 0, 0, 0)

	boxes := layoutItems(s.width, s.height, m.ItemHeight, len(s.labels))
	drawable := xproto.Drawable(s.window)
	for i, box := range boxes {
		xproto.ChangeGC(conn, s.gc, xproto.GcForeground, []uint32{s.style.Item})
		xproto.PolyFillRectangle(conn, drawable, s.gc, []xproto.Rectangle{{
			X: int16(box.X), Y: int16(box.Y), Width: uint16(box.Width), Height: uint16(box.Height),
		}})

		icon := min(m.IconSize, box.Height)
		iconX := box.X + itemPaddingX
		xproto.ChangeGC(conn, s.gc, xproto.GcForeground, []uint32{s.style.Icon})
		xproto.PolyFillRectangle(conn, drawable, s.gc, []xproto.Rectangle{{
			X: int16(iconX), Y: int16(box.Y + (box.Height-icon)/2), Width: uint16(icon), Height: uint16(icon),
		}})

		textX := iconX + icon + itemPaddingX
		label := fitLabel(s.labels[i], (box.X+box.Width-itemPaddingX-textX)/fontCharWidth)
		if label == "" {
			continue
		}
		xproto.ChangeGC(conn, s.gc, xproto.GcForeground|xproto.GcBackground, []uint32{s.style.Text, s.style.Item})
		xproto.ImageText8(
			conn,
			byte(len(label)),
			drawable,
			s.gc,
			int16(textX),
			int16(box.Y+box.Height/2+fontBaselineUp),
			label,
		)
	}
}

// Destroy releases the window, GC and font. The strip is inert afterwards.
func (s *Strip) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.window == 0 {
		return
	}
	conn := s.xu.Conn()

	xevent.Detach(s.xu, s.window)
	if s.gc != 0 {
		xproto.FreeGC(conn, s.gc)
	}
	if s.font != 0 {
		xproto.CloseFont(conn, s.font)
	}
	xproto.DestroyWindow(conn, s.window)

	s.window = 0
	s.gc = 0
	s.font = 0
	s.mapped = false
}
