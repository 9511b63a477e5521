package theme

import "github.com/1broseidon/taskstrip/internal/platform"

// Palette holds 0xRRGGBB pixel values for one appearance.
type Palette struct {
	Background uint32
	Item       uint32
	Text       uint32
	Icon       uint32
}

var (
	LightPalette = Palette{
		Background: 0xeceff4,
		Item:       0xd8dee9,
		Text:       0x2e3440,
		Icon:       0x5e81ac,
	}
	DarkPalette = Palette{
		Background: 0x1f2933,
		Item:       0x323f4b,
		Text:       0xf5f7fa,
		Icon:       0x3498db,
	}
)

// PaletteFor returns the palette for mode; anything unknown is light.
func PaletteFor(mode platform.Appearance) Palette {
	if mode == platform.AppearanceDark {
		return DarkPalette
	}
	return LightPalette
}
