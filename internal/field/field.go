package field

import "github.com/Garsondee/carrot-field/internal/layout"

// Kind distinguishes scoring items from losing ones.
type Kind int

const (
	Carrot Kind = iota
	Bug
)

func (k Kind) String() string {
	switch k {
	case Carrot:
		return "carrot"
	case Bug:
		return "bug"
	default:
		return "unknown"
	}
}

// Item is a single clickable entity on the field.
type Item struct {
	ID   int
	Kind Kind
	Pos  layout.Point // top-left corner
}

// ClickListener is told which item was hit. Carrots are already removed when it runs.
type ClickListener func(kind Kind, id int)

// Field owns the placement of carrots and bugs. It has no reference to the
// game; hits are reported through the registered ClickListener.
type Field struct {
	bounds   layout.Rect
	itemSize layout.Size
	carrots  int
	bugs     int
	placer   *layout.Placer

	items    []Item
	nextID   int
	overlaps int // items placed after the retry budget ran out, last Init
	onClick  ClickListener
}

// New returns an empty field. Call Init to populate it.
func New(bounds layout.Rect, itemSize layout.Size, carrots, bugs int, placer *layout.Placer) *Field {
	return &Field{
		bounds:   bounds,
		itemSize: itemSize,
		carrots:  carrots,
		bugs:     bugs,
		placer:   placer,
	}
}

// Init discards all items and lays out a fresh set: carrots first, then bugs.
func (f *Field) Init() {
	f.items = f.items[:0]
	f.nextID = 0
	f.overlaps = 0
	placed := make([]layout.Rect, 0, f.carrots+f.bugs)
	f.addItems(Carrot, f.carrots, &placed)
	f.addItems(Bug, f.bugs, &placed)
}

func (f *Field) addItems(kind Kind, count int, placed *[]layout.Rect) {
	for i := 0; i < count; i++ {
		p, ok := f.placer.Place(f.bounds, f.itemSize, *placed)
		if !ok {
			f.overlaps++
		}
		*placed = append(*placed, layout.RectAt(p, f.itemSize))
		f.items = append(f.items, Item{ID: f.nextID, Kind: kind, Pos: p})
		f.nextID++
	}
}

// SetClickListener registers the single hit callback, replacing any previous one.
func (f *Field) SetClickListener(fn ClickListener) {
	f.onClick = fn
}

// Click dispatches a raw click at p. The topmost item under p wins.
// Carrots are removed before the listener runs; bugs stay in place.
// Returns false when nothing was hit.
func (f *Field) Click(p layout.Point) bool {
	idx := f.hit(p)
	if idx < 0 {
		return false
	}
	it := f.items[idx]
	if it.Kind == Carrot {
		f.items = append(f.items[:idx], f.items[idx+1:]...)
	}
	if f.onClick != nil {
		f.onClick(it.Kind, it.ID)
	}
	return true
}

func (f *Field) hit(p layout.Point) int {
	for i := len(f.items) - 1; i >= 0; i-- {
		if layout.RectAt(f.items[i].Pos, f.itemSize).Contains(p) {
			return i
		}
	}
	return -1
}

// Items returns a copy of the current items in placement order.
func (f *Field) Items() []Item {
	out := make([]Item, len(f.items))
	copy(out, f.items)
	return out
}

// Count returns the number of items of the given kind still on the field.
func (f *Field) Count(kind Kind) int {
	n := 0
	for _, it := range f.items {
		if it.Kind == kind {
			n++
		}
	}
	return n
}

// Overlaps reports how many items of the last Init were placed after the
// retry budget ran out.
func (f *Field) Overlaps() int { return f.overlaps }

func (f *Field) Bounds() layout.Rect { return f.bounds }

// SetBounds moves the field to r and clears it. Items appear again on the
// next Init.
func (f *Field) SetBounds(r layout.Rect) {
	f.bounds = r
	f.items = f.items[:0]
}

func (f *Field) ItemSize() layout.Size { return f.itemSize }

// ItemRect returns the clickable area of it.
func (f *Field) ItemRect(it Item) layout.Rect {
	return layout.RectAt(it.Pos, f.itemSize)
}
