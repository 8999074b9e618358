// Package layout computes client rectangles for the arranging layouts. It is
// pure math over geom.Rect; fullscreen, floating and visibility filtering
// belong to the caller.
package layout

import (
	"fmt"

	"github.com/1broseidon/tagtile/internal/geom"
)

// Kind selects the arrange algorithm of a layout.
type Kind string

const (
	KindTile     Kind = "tile"
	KindMonocle  Kind = "monocle"
	KindFloating Kind = "floating"
)

// ParseKind validates a layout kind name.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindTile, KindMonocle, KindFloating:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unknown layout kind %q (want tile, monocle or floating)", s)
	}
}

// Layout is a named arrange strategy. Symbol is what status bars show.
type Layout struct {
	Symbol string `json:"symbol" yaml:"symbol"`
	Kind   Kind   `json:"kind" yaml:"kind"`
}

// Arranges reports whether the layout positions clients itself. Floating
// layouts leave geometry alone.
func (l Layout) Arranges() bool {
	return l.Kind == KindTile || l.Kind == KindMonocle
}

// Gaps holds the outer (screen edge) and inner (between clients) gaps, each
// split into horizontal and vertical components.
type Gaps struct {
	OuterH int `json:"outer_h"`
	OuterV int `json:"outer_v"`
	InnerH int `json:"inner_h"`
	InnerV int `json:"inner_v"`
}

// Clamp returns g with negative components set to zero.
func (g Gaps) Clamp() Gaps {
	return Gaps{
		OuterH: max(g.OuterH, 0),
		OuterV: max(g.OuterV, 0),
		InnerH: max(g.InnerH, 0),
		InnerV: max(g.InnerV, 0),
	}
}

// TileParams configures a master/stack tiling pass.
type TileParams struct {
	MFact     float64
	NMaster   int
	Gaps      Gaps
	Enabled   bool // gaps enabled globally
	SmartGaps bool // drop outer gaps for a single client
}

// Tile returns n rectangles inside area: the first min(n, NMaster) stacked in
// the master column, the rest in the stack column to its right. Heights are
// split evenly among the remaining rows, so the last row of each column
// absorbs the rounding remainder.
func Tile(area geom.Rect, n int, p TileParams) []geom.Rect {
	if n <= 0 {
		return nil
	}

	oe, ie := 0, 0
	if p.Enabled {
		oe, ie = 1, 1
	}
	if p.SmartGaps && n == 1 {
		oe = 0
	}
	g := p.Gaps
	nmaster := max(p.NMaster, 0)

	var mw int
	if n > nmaster {
		if nmaster > 0 {
			mw = int(float64(area.Width+g.InnerV*ie) * p.MFact)
		}
	} else {
		mw = area.Width - 2*g.OuterV*oe + g.InnerV*ie
	}

	out := make([]geom.Rect, 0, n)
	my := g.OuterH * oe
	ty := g.OuterH * oe
	for i := 0; i < n; i++ {
		if i < nmaster {
			r := min(n, nmaster) - i
			h := rowHeight(area.Height-my-g.OuterH*oe-g.InnerH*ie*(r-1), r)
			out = append(out, geom.Rect{
				X:      area.X + g.OuterV*oe,
				Y:      area.Y + my,
				Width:  mw - g.InnerV*ie,
				Height: h,
			})
			my += h + g.InnerH*ie
			continue
		}
		r := n - i
		h := rowHeight(area.Height-ty-g.OuterH*oe-g.InnerH*ie*(r-1), r)
		out = append(out, geom.Rect{
			X:      area.X + mw + g.OuterV*oe,
			Y:      area.Y + ty,
			Width:  area.Width - mw - 2*g.OuterV*oe,
			Height: h,
		})
		ty += h + g.InnerH*ie
	}
	return out
}

// rowHeight divides space among r rows. Heights below one pixel are raised
// to one, matching the clamp applied to every client box.
func rowHeight(space, r int) int {
	return max(space/r, 1)
}

// Monocle returns n copies of area.
func Monocle(area geom.Rect, n int) []geom.Rect {
	if n <= 0 {
		return nil
	}
	out := make([]geom.Rect, n)
	for i := range out {
		out[i] = area
	}
	return out
}
