// Package placement positions the dropdown panel relative to the text
// area. Units are whatever the caller measures in: pixels for
// DefaultMetrics, terminal cells for CellMetrics.
package placement

// Rect is an anchor bounding box
type Rect struct {
	Top    int
	Left   int
	Width  int
	Height int
}

// Bottom is the first unit below the rect
func (r Rect) Bottom() int { return r.Top + r.Height }

// Size is the viewport size
type Size struct {
	Width  int
	Height int
}

// Metrics are the layout constants of the panel
type Metrics struct {
	Gap         int // between anchor and panel
	MaxHeight   int
	MinHeight   int // below this much room under the anchor, try above
	Margin      int // kept free on both horizontal edges
	Width       int
	EdgeReserve int // subtracted from the room above and below
}

// DefaultMetrics are the pixel values of the dropdown panel
var DefaultMetrics = Metrics{
	Gap:         4,
	MaxHeight:   320,
	MinHeight:   120,
	Margin:      16,
	Width:       256,
	EdgeReserve: 32,
}

// CellMetrics are the terminal rendition of DefaultMetrics
var CellMetrics = Metrics{
	Gap:         0,
	MaxHeight:   12,
	MinHeight:   4,
	Margin:      1,
	Width:       64,
	EdgeReserve: 1,
}

// Placement is where the panel goes
type Placement struct {
	Top       int
	Left      int
	MaxHeight int
	Above     bool
}

// Resolve places a panel of m.Width next to anchor inside viewport.
// contentHeight is the measured panel height, 0 when not yet known; it
// only matters when the panel flips above the anchor.
func Resolve(anchor Rect, viewport Size, contentHeight int, m Metrics) Placement {
	left := anchor.Left
	if left+m.Width > viewport.Width-m.Margin {
		left = viewport.Width - m.Width - m.Margin
	}
	if left < m.Margin {
		left = m.Margin
	}

	below := viewport.Height - anchor.Bottom() - m.EdgeReserve
	above := anchor.Top - m.EdgeReserve

	if below < m.MinHeight && above > below {
		maxHeight := capHeight(above, m)

		h := contentHeight
		if h <= 0 {
			h = m.MinHeight
		}
		if h > maxHeight {
			h = maxHeight
		}

		top := anchor.Top - h - m.Gap
		if top < 0 {
			top = 0
		}
		return Placement{Top: top, Left: left, MaxHeight: maxHeight, Above: true}
	}

	return Placement{
		Top:       anchor.Bottom() + m.Gap,
		Left:      left,
		MaxHeight: capHeight(below, m),
	}
}

// capHeight is min(MaxHeight, max(space, MinHeight))
func capHeight(space int, m Metrics) int {
	if space < m.MinHeight {
		space = m.MinHeight
	}
	if space > m.MaxHeight {
		space = m.MaxHeight
	}
	return space
}
