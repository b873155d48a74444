package layout

import "math/rand"

// DefaultAttempts is the placement retry budget used when none is given.
const DefaultAttempts = 64

// Point is a position in field units (pixels for the window, cells for the terminal).
type Point struct {
	X, Y int
}

// Size is an item footprint.
type Size struct {
	W, H int
}

// Rect is an axis-aligned rectangle covering [X, X+W) × [Y, Y+H).
type Rect struct {
	X, Y, W, H int
}

// RectAt returns the rect of an item of size s whose top-left corner is p.
func RectAt(p Point, s Size) Rect {
	return Rect{X: p.X, Y: p.Y, W: s.W, H: s.H}
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Overlaps reports whether r and o share any area. Touching edges do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Inside reports whether r lies entirely within outer.
func (r Rect) Inside(outer Rect) bool {
	return r.X >= outer.X && r.Y >= outer.Y &&
		r.X+r.W <= outer.X+outer.W && r.Y+r.H <= outer.Y+outer.H
}

// Placer picks random non-overlapping positions for field items.
// Not safe for concurrent use; the rng is owned by the placer.
type Placer struct {
	rng      *rand.Rand
	attempts int
}

// NewPlacer returns a placer drawing from rng. attempts <= 0 selects DefaultAttempts.
func NewPlacer(rng *rand.Rand, attempts int) *Placer {
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	return &Placer{rng: rng, attempts: attempts}
}

// Place returns a top-left corner for an item of the given size inside bounds.
// Candidates that overlap any of existing are rejected and retried. Once the
// attempt budget is spent the last candidate is returned with ok=false and
// may overlap.
func (pl *Placer) Place(bounds Rect, size Size, existing []Rect) (p Point, ok bool) {
	for i := 0; i < pl.attempts; i++ {
		p = Point{
			X: bounds.X + pl.span(bounds.W-size.W),
			Y: bounds.Y + pl.span(bounds.H-size.H),
		}
		if !overlapsAny(RectAt(p, size), existing) {
			return p, true
		}
	}
	return p, false
}

// span returns a uniform offset in [0, n]; axes too small for the item pin to 0.
func (pl *Placer) span(n int) int {
	if n <= 0 {
		return 0
	}
	return pl.rng.Intn(n + 1)
}

func overlapsAny(r Rect, rs []Rect) bool {
	for _, o := range rs {
		if r.Overlaps(o) {
			return true
		}
	}
	return false
}
