package taskbar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/taskstrip/internal/platform"
)

func TestPlacementForPinsToBottomOfUsableArea(t *testing.T) {
	d := platform.Display{
		ID:     "DP-1",
		Bounds: platform.Rect{X: 1920, Y: 0, Width: 2560, Height: 1440},
		Usable: platform.Rect{X: 1920, Y: 30, Width: 2560, Height: 1380},
	}
	p := PlacementFor(d, 40)

	assert.Equal(t, Placement{X: 1920, Y: 1410, Width: 2560, Height: 40}, p)
	assert.Equal(t, platform.Rect{X: 1920, Y: 1370, Width: 2560, Height: 40}, p.Bounds())
}

func TestPlacementForClampsHeight(t *testing.T) {
	d := display("A", 0, 0, 800, 600)
	assert.Equal(t, 24, PlacementFor(d, 3).Height)
	assert.Equal(t, 64, PlacementFor(d, 300).Height)
}

func TestSurfaceStartsHiddenWithoutRequests(t *testing.T) {
	strip := &recordingStrip{}
	s := NewSurface("A", strip)

	assert.False(t, s.Visible())
	assert.Equal(t, platform.DisplayID("A"), s.Display())
	assert.Empty(t, strip.calls)
}

func TestSurfaceRepositionIsIdempotent(t *testing.T) {
	strip := &recordingStrip{}
	s := NewSurface("A", strip)
	d := display("A", 0, 0, 1920, 1080)

	s.Reposition(d, 40)
	s.Reposition(d, 40)
	s.Reposition(d, 40)

	assert.Equal(t, []string{"move 0,1040 1920x40"}, strip.calls)
}

func TestSurfaceRepositionMovesOnce(t *testing.T) {
	strip := &recordingStrip{}
	s := NewSurface("A", strip)

	s.Reposition(display("A", 0, 0, 1920, 1080), 40)
	s.Reposition(display("A", 0, 0, 1280, 720), 40)

	require.Len(t, strip.calls, 2)
	assert.Equal(t, "move 0,680 1280x40", strip.calls[1])
}

func TestSurfaceShowHideAreIdempotent(t *testing.T) {
	strip := &recordingStrip{}
	s := NewSurface("A", strip)

	s.Show()
	s.Show()
	assert.True(t, s.Visible())
	s.Hide()
	s.Hide()
	assert.False(t, s.Visible())

	assert.Equal(t, []string{"show", "hide"}, strip.calls)
}

func TestSurfaceDestroyHidesFirstAndIsFinal(t *testing.T) {
	strip := &recordingStrip{}
	s := NewSurface("A", strip)
	s.Show()

	s.Destroy()
	s.Destroy()
	s.Show()
	s.Reposition(display("A", 0, 0, 100, 100), 30)
	s.SetContents([]platform.Window{{ID: 1}})
	s.SetAppearance(platform.AppearanceDark)

	assert.True(t, s.Destroyed())
	assert.False(t, s.Visible())
	assert.Equal(t, []string{"show", "hide", "destroy"}, strip.calls)
}

func TestSurfaceDestroyWhileHiddenSkipsHide(t *testing.T) {
	strip := &recordingStrip{}
	s := NewSurface("A", strip)

	s.Destroy()

	assert.Equal(t, []string{"destroy"}, strip.calls)
}

func TestSurfaceSetAppearanceLeavesGeometryAndContents(t *testing.T) {
	strip := &recordingStrip{}
	s := NewSurface("A", strip)
	s.Reposition(display("A", 0, 0, 800, 600), 32)
	s.SetContents([]platform.Window{{ID: 7, Title: "term"}})
	before := s.Placement()

	s.SetAppearance(platform.AppearanceDark)
	s.SetAppearance(platform.AppearanceDark)

	assert.Equal(t, platform.AppearanceDark, s.Appearance())
	assert.Equal(t, before, s.Placement())
	assert.Len(t, s.Contents(), 1)
	assert.Equal(t, 1, strip.count("appearance dark"))
}

func TestSurfaceSetContentsReplacesWholesaleInOrder(t *testing.T) {
	strip := &recordingStrip{}
	s := NewSurface("A", strip)

	s.SetContents([]platform.Window{{ID: 1}, {ID: 2}, {ID: 3}})
	in := []platform.Window{{ID: 9}, {ID: 4}}
	s.SetContents(in)
	in[0].ID = 100

	got := s.Contents()
	require.Len(t, got, 2)
	assert.Equal(t, platform.WindowID(9), got[0].ID)
	assert.Equal(t, platform.WindowID(4), got[1].ID)

	s.SetContents(nil)
	assert.Empty(t, s.Contents())
	assert.Equal(t, "items 0", strip.calls[len(strip.calls)-1])
}
