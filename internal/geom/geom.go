// Package geom holds the rectangle math shared by the layout engine and the
// display backends. All coordinates are global layout coordinates.
package geom

// Rect describes a rectangular region in layout coordinates.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Right returns the x coordinate one past the right edge.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the y coordinate one past the bottom edge.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether the point lies inside r. The right and bottom
// edges are exclusive.
func (r Rect) Contains(x, y float64) bool {
	if r.Empty() {
		return false
	}
	return x >= float64(r.X) && x < float64(r.Right()) &&
		y >= float64(r.Y) && y < float64(r.Bottom())
}

// Intersect returns the overlapping region of r and o, or the zero Rect when
// they do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	x1 := max(r.X, o.X)
	y1 := max(r.Y, o.Y)
	x2 := min(r.Right(), o.Right())
	y2 := min(r.Bottom(), o.Bottom())
	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Intersects reports whether r and o share any area.
func (r Rect) Intersects(o Rect) bool {
	return !r.Intersect(o).Empty()
}

// Union returns the smallest rectangle containing both r and o. Empty
// rectangles are ignored.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x1 := min(r.X, o.X)
	y1 := min(r.Y, o.Y)
	x2 := max(r.Right(), o.Right())
	y2 := max(r.Bottom(), o.Bottom())
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Center returns the center point of r.
func (r Rect) Center() (float64, float64) {
	return float64(r.X) + float64(r.Width)/2, float64(r.Y) + float64(r.Height)/2
}

// ApplyBounds keeps a client box of border width bw reachable inside bbox.
// Width and height are forced to at least 1. A box starting at or beyond the
// right (bottom) edge is pulled back so that it ends there, and a box lying
// entirely left of (above) bbox is moved to its left (top) edge.
func ApplyBounds(r Rect, bw int, bbox Rect) Rect {
	r.Width = max(1, r.Width)
	r.Height = max(1, r.Height)

	if r.X >= bbox.Right() {
		r.X = bbox.Right() - r.Width
	}
	if r.Y >= bbox.Bottom() {
		r.Y = bbox.Bottom() - r.Height
	}
	if r.X+r.Width+2*bw <= bbox.X {
		r.X = bbox.X
	}
	if r.Y+r.Height+2*bw <= bbox.Y {
		r.Y = bbox.Y
	}
	return r
}
