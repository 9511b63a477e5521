package taskbar

import (
	"errors"
	"fmt"

	"github.com/1broseidon/taskstrip/internal/platform"
)

type recordingStrip struct {
	display   platform.DisplayID
	calls     []string
	bounds    platform.Rect
	mapped    bool
	destroyed bool
	mode      platform.Appearance
	items     []platform.Window
}

func (s *recordingStrip) MoveResize(b platform.Rect) {
	s.calls = append(s.calls, fmt.Sprintf("move %d,%d %dx%d", b.X, b.Y, b.Width, b.Height))
	s.bounds = b
}

func (s *recordingStrip) Show() {
	s.calls = append(s.calls, "show")
	s.mapped = true
}

func (s *recordingStrip) Hide() {
	s.calls = append(s.calls, "hide")
	s.mapped = false
}

func (s *recordingStrip) SetAppearance(mode platform.Appearance) {
	s.calls = append(s.calls, "appearance "+string(mode))
	s.mode = mode
}

func (s *recordingStrip) SetItems(items []platform.Window) {
	s.calls = append(s.calls, fmt.Sprintf("items %d", len(items)))
	s.items = items
}

func (s *recordingStrip) Destroy() {
	s.calls = append(s.calls, "destroy")
	s.destroyed = true
}

func (s *recordingStrip) count(call string) int {
	n := 0
	for _, c := range s.calls {
		if c == call {
			n++
		}
	}
	return n
}

type fakeStrips struct {
	created []*recordingStrip
	fail    map[platform.DisplayID]bool
}

func (f *fakeStrips) NewStrip(display platform.DisplayID) (platform.Strip, error) {
	if f.fail[display] {
		return nil, errors.New("no window for you")
	}
	s := &recordingStrip{display: display}
	f.created = append(f.created, s)
	return s, nil
}

func (f *fakeStrips) live() []*recordingStrip {
	var out []*recordingStrip
	for _, s := range f.created {
		if !s.destroyed {
			out = append(out, s)
		}
	}
	return out
}

type fakeDisplays struct {
	displays []platform.Display
	err      error
}

func (f *fakeDisplays) Displays() ([]platform.Display, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]platform.Display, len(f.displays))
	copy(out, f.displays)
	return out, nil
}

type fakeWindows struct {
	windows []platform.Window
	err     error
	calls   int
}

func (f *fakeWindows) Windows() ([]platform.Window, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.windows, nil
}

type fakeTheme struct {
	mode platform.Appearance
}

func (f *fakeTheme) Appearance() platform.Appearance { return f.mode }

type fakeSettings struct {
	height int
}

func (f *fakeSettings) TaskbarHeight() int { return f.height }

func display(id string, x, y, w, h int) platform.Display {
	r := platform.Rect{X: x, Y: y, Width: w, Height: h}
	return platform.Display{ID: platform.DisplayID(id), Name: id, Bounds: r, Usable: r}
}

type harness struct {
	displays *fakeDisplays
	windows  *fakeWindows
	theme    *fakeTheme
	strips   *fakeStrips
	settings *fakeSettings
	manager  *Manager
}

func newHarness(displays ...platform.Display) *harness {
	h := &harness{
		displays: &fakeDisplays{displays: displays},
		windows:  &fakeWindows{},
		theme:    &fakeTheme{mode: platform.AppearanceLight},
		strips:   &fakeStrips{},
		settings: &fakeSettings{height: 40},
	}
	h.manager = NewManager(Options{
		Displays: h.displays,
		Windows:  h.windows,
		Theme:    h.theme,
		Strips:   h.strips,
		Settings: h.settings,
	})
	return h
}

func (h *harness) displayIDs() []platform.DisplayID {
	var ids []platform.DisplayID
	for _, s := range h.manager.Surfaces() {
		ids = append(ids, s.Display())
	}
	return ids
}
