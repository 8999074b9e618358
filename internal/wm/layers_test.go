package wm

import (
	"slices"
	"testing"

	"github.com/1broseidon/tagtile/internal/geom"
	"github.com/1broseidon/tagtile/internal/platform"
)

func topBar(height int) platform.LayerState {
	return platform.LayerState{
		Anchor:        platform.AnchorTop | platform.AnchorLeft | platform.AnchorRight,
		ExclusiveZone: height,
		DesiredHeight: height,
	}
}

func TestLayerExclusiveZone(t *testing.T) {
	s, fb := newTestState(t, nil)
	m := addOutput(t, s, 1, "A", 1000, 800)
	c := mapClient(t, s, 1, "one")

	s.Dispatch(platform.LayerCreated{Layer: 7, Band: platform.BandTop, Namespace: "bar", State: topBar(30)})
	s.Dispatch(platform.LayerCommitted{Layer: 7, Band: platform.BandTop, State: topBar(30)})
	s.Dispatch(platform.LayerMapped{Layer: 7})

	if want := (geom.Rect{X: 0, Y: 0, Width: 1000, Height: 30}); fb.layerBoxes[7] != want {
		t.Fatalf("layer box = %+v, want %+v", fb.layerBoxes[7], want)
	}
	if want := (geom.Rect{X: 0, Y: 30, Width: 1000, Height: 770}); m.W != want || c.Geom != want {
		t.Fatalf("work area %+v, client %+v, want %+v", m.W, c.Geom, want)
	}
	if m.M.Height != 800 {
		t.Fatalf("full box changed: %+v", m.M)
	}

	s.Dispatch(platform.LayerDestroyed{Layer: 7})
	if m.W != m.M || c.Geom != m.M {
		t.Fatalf("after destroy: work area %+v, client %+v", m.W, c.Geom)
	}
	if s.Layer(7) != nil || len(m.Layers[platform.BandTop]) != 0 {
		t.Fatalf("layer 7 still tracked")
	}
}

func TestLayerPlacement(t *testing.T) {
	bounds := geom.Rect{X: 100, Y: 50, Width: 1000, Height: 800}
	tests := []struct {
		name string
		st   platform.LayerState
		want geom.Rect
	}{
		{
			name: "centered",
			st:   platform.LayerState{DesiredWidth: 200, DesiredHeight: 100},
			want: geom.Rect{X: 500, Y: 400, Width: 200, Height: 100},
		},
		{
			name: "bottom right with margins",
			st: platform.LayerState{
				Anchor:       platform.AnchorBottom | platform.AnchorRight,
				DesiredWidth: 200, DesiredHeight: 100,
				Margin: platform.Margin{Right: 10, Bottom: 20},
			},
			want: geom.Rect{X: 890, Y: 730, Width: 200, Height: 100},
		},
		{
			name: "stretched vertically",
			st: platform.LayerState{
				Anchor:       platform.AnchorTop | platform.AnchorBottom | platform.AnchorLeft,
				DesiredWidth: 40,
				Margin:       platform.Margin{Top: 5, Bottom: 5, Left: 3},
			},
			want: geom.Rect{X: 103, Y: 55, Width: 40, Height: 790},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := layerBox(tt.st, bounds)
			if !ok {
				t.Fatalf("layerBox rejected %+v", tt.st)
			}
			if got != tt.want {
				t.Fatalf("layerBox = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestApplyExclusiveEdges(t *testing.T) {
	full := geom.Rect{Width: 1000, Height: 800}
	tests := []struct {
		name string
		st   platform.LayerState
		want geom.Rect
	}{
		{"bottom", platform.LayerState{Anchor: platform.AnchorBottom, ExclusiveZone: 20}, geom.Rect{Width: 1000, Height: 780}},
		{"left triplet", platform.LayerState{Anchor: platform.AnchorLeft | platform.AnchorTop | platform.AnchorBottom, ExclusiveZone: 50, Margin: platform.Margin{Left: 5}}, geom.Rect{X: 55, Width: 945, Height: 800}},
		{"right", platform.LayerState{Anchor: platform.AnchorRight, ExclusiveZone: 30}, geom.Rect{Width: 970, Height: 800}},
		{"corner reserves nothing", platform.LayerState{Anchor: platform.AnchorTop | platform.AnchorLeft, ExclusiveZone: 30}, full},
		{"zero zone", platform.LayerState{Anchor: platform.AnchorTop}, full},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := full
			applyExclusive(&got, tt.st)
			if got != tt.want {
				t.Fatalf("usable = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLayerNegativeSizeIsClosed(t *testing.T) {
	s, fb := newTestState(t, nil)
	addOutput(t, s, 1, "A", 1000, 800)

	s.Dispatch(platform.LayerCreated{Layer: 3, Band: platform.BandTop, State: topBar(20)})
	bad := platform.LayerState{
		Anchor:        platform.AnchorLeft | platform.AnchorRight,
		DesiredHeight: 10,
		Margin:        platform.Margin{Left: 600, Right: 600},
	}
	s.Dispatch(platform.LayerCreated{Layer: 8, Band: platform.BandBottom, State: bad})

	if !slices.Contains(fb.closedLayers, 8) {
		t.Fatalf("layer with negative width was not closed: %v", fb.closedLayers)
	}
	if _, ok := fb.layerBoxes[3]; !ok {
		t.Fatalf("sibling layer was not arranged")
	}
}

func TestExclusiveZoneMinusOneIgnoresReservations(t *testing.T) {
	s, fb := newTestState(t, nil)
	addOutput(t, s, 1, "A", 1000, 800)
	s.Dispatch(platform.LayerCreated{Layer: 1, Band: platform.BandTop})
	s.Dispatch(platform.LayerCommitted{Layer: 1, Band: platform.BandTop, State: topBar(30)})

	wall := platform.LayerState{Anchor: platform.AnchorTop | platform.AnchorBottom | platform.AnchorLeft | platform.AnchorRight, ExclusiveZone: -1}
	s.Dispatch(platform.LayerCreated{Layer: 2, Band: platform.BandBackground})
	s.Dispatch(platform.LayerCommitted{Layer: 2, Band: platform.BandBackground, State: wall})
	if want := (geom.Rect{Width: 1000, Height: 800}); fb.layerBoxes[2] != want {
		t.Fatalf("wallpaper box = %+v, want %+v", fb.layerBoxes[2], want)
	}

	s.Dispatch(platform.LayerCreated{Layer: 3, Band: platform.BandBackground})
	wall.ExclusiveZone = 0
	s.Dispatch(platform.LayerCommitted{Layer: 3, Band: platform.BandBackground, State: wall})
	if want := (geom.Rect{Y: 30, Width: 1000, Height: 770}); fb.layerBoxes[3] != want {
		t.Fatalf("non-exclusive box = %+v, want %+v", fb.layerBoxes[3], want)
	}
}

func TestInteractiveLayerTakesKeyboard(t *testing.T) {
	s, fb := newTestState(t, nil)
	addOutput(t, s, 1, "A", 1000, 800)
	mapClient(t, s, 1, "one")

	menu := platform.LayerState{KeyboardInteractive: true, DesiredWidth: 200, DesiredHeight: 100}
	s.Dispatch(platform.LayerCreated{Layer: 9, Band: platform.BandOverlay, State: menu})
	s.Dispatch(platform.LayerMapped{Layer: 9})
	s.Dispatch(platform.LayerCommitted{Layer: 9, Band: platform.BandOverlay, State: menu})
	if fb.focusedLayer != 9 {
		t.Fatalf("focused layer = %d, want 9", fb.focusedLayer)
	}

	calls := fb.focusCalls
	c2 := mapClient(t, s, 2, "two")
	if fb.focusCalls != calls || fb.activated[2] {
		t.Fatalf("client took keyboard focus from an interactive layer")
	}
	if s.selClient() != c2 {
		t.Fatalf("new client should still be the selected client")
	}

	s.Dispatch(platform.LayerUnmapped{Layer: 9})
	if fb.focused != 2 || !fb.activated[2] {
		t.Fatalf("focus after unmap = %d activated=%v", fb.focused, fb.activated[2])
	}
}

func TestLayerBandChange(t *testing.T) {
	s, _ := newTestState(t, nil)
	m := addOutput(t, s, 1, "A", 1000, 800)
	s.Dispatch(platform.LayerCreated{Layer: 4, Band: platform.BandBottom})
	s.Dispatch(platform.LayerCommitted{Layer: 4, Band: platform.BandOverlay})
	if len(m.Layers[platform.BandBottom]) != 0 || !slices.Contains(m.Layers[platform.BandOverlay], 4) {
		t.Fatalf("layers = %v", m.Layers)
	}
	if s.Layer(4).Band != platform.BandOverlay {
		t.Fatalf("band = %v", s.Layer(4).Band)
	}
}
