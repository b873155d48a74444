package window

import (
	"strings"
	"unicode"

	"github.com/Garsondee/carrot-field/internal/layout"
)

const (
	borderWidth = 24  // gap between the window edge and the field
	barHeight   = 132 // control bar above the field
	statusH     = 20  // status line below the field
	buttonSize  = 56
	popupW      = 360
	popupH      = 150
	replaySize  = 44
)

// Screen is the window geometry derived from the field size.
type Screen struct {
	Width, Height int
	Field         layout.Rect // field area in window pixels
	Button        layout.Rect // start/stop toggle
	Popup         layout.Rect
	Replay        layout.Rect // button inside the popup
}

// NewScreen lays the window out around a field of fieldW × fieldH pixels.
func NewScreen(fieldW, fieldH int) Screen {
	w := borderWidth + fieldW + borderWidth
	h := barHeight + fieldH + statusH + borderWidth
	s := Screen{
		Width:  w,
		Height: h,
		Field:  layout.Rect{X: borderWidth, Y: barHeight, W: fieldW, H: fieldH},
		Button: layout.Rect{X: w/2 - buttonSize/2, Y: 12, W: buttonSize, H: buttonSize},
		Popup:  layout.Rect{X: w/2 - popupW/2, Y: h/2 - popupH/2, W: popupW, H: popupH},
	}
	s.Replay = layout.Rect{
		X: s.Popup.X + popupW/2 - replaySize/2,
		Y: s.Popup.Y + popupH - replaySize - 16,
		W: replaySize,
		H: replaySize,
	}
	return s
}

// ToField converts a window position to field coordinates.
func (s Screen) ToField(x, y int) (layout.Point, bool) {
	p := layout.Point{X: x, Y: y}
	if !s.Field.Contains(p) {
		return layout.Point{}, false
	}
	return layout.Point{X: x - s.Field.X, Y: y - s.Field.Y}, true
}

// printable drops glyphs the bitmap font cannot draw (the banner emoji)
// and trims the leftover space.
func printable(s string) string {
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII || !unicode.IsPrint(r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}
