package window

import (
	"testing"

	"github.com/Garsondee/carrot-field/internal/layout"
)

func TestNewScreen_FieldInsideWindow(t *testing.T) {
	s := NewScreen(800, 300)
	win := layout.Rect{W: s.Width, H: s.Height}
	for name, r := range map[string]layout.Rect{
		"field":  s.Field,
		"button": s.Button,
		"popup":  s.Popup,
		"replay": s.Replay,
	} {
		if !r.Inside(win) {
			t.Errorf("%s %+v not inside window %+v", name, r, win)
		}
	}
	if !s.Replay.Inside(s.Popup) {
		t.Errorf("replay button %+v escapes popup %+v", s.Replay, s.Popup)
	}
	if s.Button.Overlaps(s.Field) {
		t.Error("control bar button overlaps the field")
	}
}

func TestToField(t *testing.T) {
	s := NewScreen(200, 100)
	p, ok := s.ToField(s.Field.X, s.Field.Y)
	if !ok || p != (layout.Point{}) {
		t.Fatalf("field origin mapped to %+v ok=%v", p, ok)
	}
	p, ok = s.ToField(s.Field.X+199, s.Field.Y+99)
	if !ok || p != (layout.Point{X: 199, Y: 99}) {
		t.Fatalf("far corner mapped to %+v ok=%v", p, ok)
	}
	if _, ok := s.ToField(s.Field.X+200, s.Field.Y); ok {
		t.Error("click past the right edge should miss the field")
	}
	if _, ok := s.ToField(0, 0); ok {
		t.Error("click in the border should miss the field")
	}
}

func TestPrintable(t *testing.T) {
	cases := map[string]string{
		"YOU WON 🎉":  "YOU WON",
		"YOU LOST 💩": "YOU LOST",
		"REPLAY❓":    "REPLAY",
		"0:07":       "0:07",
	}
	for in, want := range cases {
		if got := printable(in); got != want {
			t.Errorf("printable(%q) = %q, want %q", in, got, want)
		}
	}
}
