package platform

import (
	"github.com/1broseidon/tagtile/internal/bindings"
	"github.com/1broseidon/tagtile/internal/geom"
)

// Event is a notification from the display platform.
type Event interface {
	isEvent()
}

// SurfaceCreated announces a new client surface. It has no geometry yet.
type SurfaceCreated struct {
	Surface SurfaceID
}

// SurfaceMapped makes a surface ready to be shown. Natural is the size the
// client asked for, border excluded.
type SurfaceMapped struct {
	Surface  SurfaceID
	AppID    string
	Title    string
	Natural  geom.Rect
	Floating bool // the window type asks to float (dialog, splash, ...)
}

type SurfaceUnmapped struct {
	Surface SurfaceID
}

// SurfaceCommitted acknowledges configures up to Serial.
type SurfaceCommitted struct {
	Surface SurfaceID
	Serial  uint32
}

type SurfaceDestroyed struct {
	Surface SurfaceID
}

// FullscreenRequested toggles the fullscreen state of Surface.
type FullscreenRequested struct {
	Surface SurfaceID
}

type SurfaceRetitled struct {
	Surface SurfaceID
	AppID   string
	Title   string
}

// OutputAdded announces an output whose preferred mode is Width x Height,
// currently placed at X, Y.
type OutputAdded struct {
	Output OutputID
	Name   string
	X, Y   int
	Width  int
	Height int
}

type OutputRemoved struct {
	Output OutputID
}

// OutputBox is the placement of one output in global coordinates.
type OutputBox struct {
	Output OutputID
	Box    geom.Rect
}

// OutputLayoutChanged reports the current placement of every output.
type OutputLayoutChanged struct {
	Outputs []OutputBox
}

// Key carries every keysym the pressed key produces under the current
// keymap state.
type Key struct {
	Syms    []string
	Mods    bindings.Modifier
	Pressed bool
}

// PointerMotion moves the cursor to X, Y when Absolute, else by DX, DY.
type PointerMotion struct {
	Absolute bool
	X, Y     float64
	DX, DY   float64
	Time     uint32
}

type PointerButton struct {
	Button  uint32
	Pressed bool
	Mods    bindings.Modifier
	Time    uint32
}

type PointerAxis struct {
	Vertical bool
	Delta    float64
	Time     uint32
}

// LayerCreated announces a layer surface. Output zero means the selected
// monitor.
type LayerCreated struct {
	Layer     LayerID
	Output    OutputID
	Band      Band
	Namespace string
	State     LayerState
}

type LayerCommitted struct {
	Layer LayerID
	Band  Band
	State LayerState
}

type LayerMapped struct {
	Layer LayerID
}

type LayerUnmapped struct {
	Layer LayerID
}

type LayerDestroyed struct {
	Layer LayerID
}

func (SurfaceCreated) isEvent()      {}
func (SurfaceMapped) isEvent()       {}
func (SurfaceUnmapped) isEvent()     {}
func (SurfaceCommitted) isEvent()    {}
func (SurfaceDestroyed) isEvent()    {}
func (FullscreenRequested) isEvent() {}
func (SurfaceRetitled) isEvent()     {}
func (OutputAdded) isEvent()         {}
func (OutputRemoved) isEvent()       {}
func (OutputLayoutChanged) isEvent() {}
func (Key) isEvent()                 {}
func (PointerMotion) isEvent()       {}
func (PointerButton) isEvent()       {}
func (PointerAxis) isEvent()         {}
func (LayerCreated) isEvent()        {}
func (LayerCommitted) isEvent()      {}
func (LayerMapped) isEvent()         {}
func (LayerUnmapped) isEvent()       {}
func (LayerDestroyed) isEvent()      {}
