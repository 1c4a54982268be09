package placement

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve_Pixels(t *testing.T) {
	viewport := Size{Width: 1024, Height: 768}

	tests := []struct {
		name          string
		anchor        Rect
		viewport      Size
		contentHeight int
		want          Placement
	}{
		{
			name:   "room below",
			anchor: Rect{Top: 100, Left: 40, Width: 400, Height: 80},
			want:   Placement{Top: 184, Left: 40, MaxHeight: 320},
		},
		{
			name:   "limited room below still above the floor",
			anchor: Rect{Top: 400, Left: 40, Width: 400, Height: 80},
			want:   Placement{Top: 484, Left: 40, MaxHeight: 256},
		},
		{
			name:          "flip above with measured height",
			anchor:        Rect{Top: 600, Left: 40, Width: 400, Height: 80},
			contentHeight: 200,
			want:          Placement{Top: 396, Left: 40, MaxHeight: 320, Above: true},
		},
		{
			name:   "flip above with unknown height",
			anchor: Rect{Top: 600, Left: 40, Width: 400, Height: 80},
			want:   Placement{Top: 476, Left: 40, MaxHeight: 320, Above: true},
		},
		{
			name:          "flip above caps height to room above",
			anchor:        Rect{Top: 232, Left: 40, Width: 400, Height: 500},
			contentHeight: 300,
			want:          Placement{Top: 28, Left: 40, MaxHeight: 200, Above: true},
		},
		{
			name:   "no flip when above is smaller",
			anchor: Rect{Top: 50, Left: 40, Width: 400, Height: 650},
			want:   Placement{Top: 704, Left: 40, MaxHeight: 120},
		},
		{
			name:   "clamped to right margin",
			anchor: Rect{Top: 100, Left: 900, Width: 100, Height: 20},
			want:   Placement{Top: 124, Left: 752, MaxHeight: 320},
		},
		{
			name:     "clamped to left margin on narrow viewport",
			anchor:   Rect{Top: 10, Left: 0, Width: 100, Height: 20},
			viewport: Size{Width: 200, Height: 768},
			want:     Placement{Top: 34, Left: 16, MaxHeight: 320},
		},
		{
			name:          "flip clamps top at zero",
			anchor:        Rect{Top: 100, Left: 40, Width: 100, Height: 640},
			contentHeight: 320,
			want:          Placement{Top: 0, Left: 40, MaxHeight: 120, Above: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vp := tt.viewport
			if vp == (Size{}) {
				vp = viewport
			}
			assert.Equal(t, tt.want, Resolve(tt.anchor, vp, tt.contentHeight, DefaultMetrics))
		})
	}
}

func TestResolve_Cells(t *testing.T) {
	anchor := Rect{Top: 2, Left: 0, Width: 80, Height: 5}

	got := Resolve(anchor, Size{Width: 80, Height: 24}, 0, CellMetrics)
	assert.Equal(t, Placement{Top: 7, Left: 1, MaxHeight: 12}, got)

	// short terminal, text area near the bottom
	anchor = Rect{Top: 14, Left: 0, Width: 80, Height: 5}
	got = Resolve(anchor, Size{Width: 80, Height: 20}, 6, CellMetrics)
	assert.Equal(t, Placement{Top: 8, Left: 1, MaxHeight: 12, Above: true}, got)
}
