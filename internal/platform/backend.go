// Package platform is the boundary between the window manager core and the
// display system. The core consumes Events and drives a Backend.
package platform

import (
	"github.com/1broseidon/tagtile/internal/bindings"
	"github.com/1broseidon/tagtile/internal/geom"
)

// SurfaceID identifies a client surface. Zero is never a valid surface.
type SurfaceID uint32

// OutputID identifies a physical output. Zero is never a valid output.
type OutputID uint32

// LayerID identifies a layer surface. Zero is never a valid layer.
type LayerID uint32

// Band is the stacking band of a layer surface.
type Band int

const (
	BandBackground Band = iota
	BandBottom
	BandTop
	BandOverlay
	NumBands
)

func (b Band) String() string {
	switch b {
	case BandBackground:
		return "background"
	case BandBottom:
		return "bottom"
	case BandTop:
		return "top"
	case BandOverlay:
		return "overlay"
	default:
		return "unknown"
	}
}

// Anchor is a set of edges a layer surface is attached to.
type Anchor uint8

const (
	AnchorTop Anchor = 1 << iota
	AnchorBottom
	AnchorLeft
	AnchorRight
)

// Margin is the per-edge offset of an anchored layer surface.
type Margin struct {
	Top    int
	Right  int
	Bottom int
	Left   int
}

// LayerState is what a layer surface last committed.
type LayerState struct {
	Anchor              Anchor
	ExclusiveZone       int
	Margin              Margin
	DesiredWidth        int
	DesiredHeight       int
	KeyboardInteractive bool
}

// Target names what the pointer is over: a client surface, a layer, or
// nothing when both are zero.
type Target struct {
	Surface SurfaceID
	Layer   LayerID
}

// FrameEntry is one client in a presented frame.
type FrameEntry struct {
	Surface SurfaceID
	Output  OutputID
	Geom    geom.Rect
	BW      int
	Visible bool
	Focused bool
	// Pending is set while a configure has not been acknowledged.
	// Renderers skip pending entries.
	Pending bool
}

// LayerEntry is one mapped layer surface in a presented frame.
type LayerEntry struct {
	Layer  LayerID
	Output OutputID
	Band   Band
	Geom   geom.Rect
}

// Frame is the scene after an event was handled. Entries run back to front
// in stacking order, the order they are painted in.
type Frame struct {
	Entries []FrameEntry
	Layers  []LayerEntry
}

// Backend is implemented by a display platform.
type Backend interface {
	// Configure asks the client to take box, border included, and returns
	// the serial its acknowledgement will carry. Zero means no ack will come.
	Configure(s SurfaceID, box geom.Rect, bw int) uint32
	SetActivated(s SurfaceID, activated bool)
	SetFullscreen(s SurfaceID, fullscreen bool)
	Close(s SurfaceID)

	FocusSurface(s SurfaceID)
	FocusLayer(l LayerID)
	ClearFocus()
	// PointerFocus enters t at surface-local coordinates sx, sy.
	PointerFocus(t Target, sx, sy float64)

	ConfigureLayer(l LayerID, box geom.Rect)
	CloseLayer(l LayerID)

	PlaceOutput(o OutputID, x, y int) error
	WarpPointer(x, y float64)
	SetCursor(name string)

	Present(f Frame)
	Spawn(argv []string) error
	Quit()
}

// Grabber is implemented by backends that must be told which combos to
// intercept before the core sees them.
type Grabber interface {
	Grab(t *bindings.Table) error
}
