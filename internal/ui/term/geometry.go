package term

import (
	"errors"
	"fmt"

	"github.com/Garsondee/carrot-field/internal/layout"
)

// ErrScreenTooSmall is returned when the terminal cannot hold the field.
var ErrScreenTooSmall = errors.New("terminal too small")

const (
	minWidth  = 30
	minHeight = 10
	fieldTop  = 4 // rows above the field: help, bar, gap, border
)

// ItemSize is one emoji glyph: two cells wide, one row high.
var ItemSize = layout.Size{W: 2, H: 1}

// Geometry places the bar, field and popup in screen cells.
type Geometry struct {
	Width, Height int
	Button        layout.Rect
	Timer         layout.Point
	Score         layout.Point
	Field         layout.Rect // inside the border
	Popup         layout.Rect
	Replay        layout.Rect
	Status        int // row of the status line
}

// NewGeometry lays out a w × h cell screen.
func NewGeometry(w, h int) (Geometry, error) {
	if w < minWidth || h < minHeight {
		return Geometry{}, fmt.Errorf("%w: %dx%d, need %dx%d", ErrScreenTooSmall, w, h, minWidth, minHeight)
	}
	g := Geometry{
		Width:  w,
		Height: h,
		Button: layout.Rect{X: w/2 - 3, Y: 1, W: 6, H: 1},
		Timer:  layout.Point{X: w/2 + 5, Y: 1},
		Score:  layout.Point{X: w/2 - 14, Y: 1},
		Field:  layout.Rect{X: 1, Y: fieldTop, W: w - 2, H: h - fieldTop - 2},
		Status: h - 1,
	}
	g.Popup = layout.Rect{X: w/2 - 13, Y: g.Field.Y + g.Field.H/2 - 2, W: 26, H: 5}
	g.Replay = layout.Rect{X: w/2 - 3, Y: g.Popup.Y + 3, W: 6, H: 1}
	return g, nil
}

// ToField converts a screen cell to field coordinates.
func (g Geometry) ToField(x, y int) (layout.Point, bool) {
	p := layout.Point{X: x, Y: y}
	if !g.Field.Contains(p) {
		return layout.Point{}, false
	}
	return layout.Point{X: x - g.Field.X, Y: y - g.Field.Y}, true
}
