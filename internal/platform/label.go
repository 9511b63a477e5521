package platform

import "fmt"

// itemLabel is the text shown for a window: its title, else its application
// ID, else its raw ID.
func itemLabel(w Window) string {
	switch {
	case w.Title != "":
		return w.Title
	case w.AppID != "":
		return w.AppID
	default:
		return fmt.Sprintf("0x%x", uint32(w.ID))
	}
}
