package wm

import (
	"fmt"

	"github.com/1broseidon/tagtile/internal/platform"
)

// Dispatch applies one platform event. It reports whether the core consumed
// the event; unconsumed key and button events belong to the focused client.
func (s *State) Dispatch(ev platform.Event) bool {
	switch ev := ev.(type) {
	case platform.SurfaceCreated:
		s.surfaceCreated(ev.Surface)
	case platform.SurfaceMapped:
		s.surfaceMapped(ev)
	case platform.SurfaceUnmapped:
		s.surfaceUnmapped(ev.Surface)
	case platform.SurfaceCommitted:
		s.surfaceCommitted(ev)
	case platform.SurfaceDestroyed:
		s.surfaceDestroyed(ev.Surface)
	case platform.FullscreenRequested:
		s.fullscreenRequested(ev.Surface)
	case platform.SurfaceRetitled:
		s.surfaceRetitled(ev)

	case platform.OutputAdded:
		s.addMonitor(ev)
	case platform.OutputRemoved:
		s.removeMonitor(ev.Output)
	case platform.OutputLayoutChanged:
		s.setOutputBoxes(ev.Outputs)

	case platform.Key:
		return s.key(ev)
	case platform.PointerMotion:
		return s.motion(ev)
	case platform.PointerButton:
		return s.button(ev)
	case platform.PointerAxis:
		return false

	case platform.LayerCreated:
		s.layerCreated(ev)
	case platform.LayerCommitted:
		s.layerCommitted(ev)
	case platform.LayerMapped:
		s.layerMapped(ev.Layer)
	case platform.LayerUnmapped:
		s.layerUnmapped(ev.Layer)
	case platform.LayerDestroyed:
		s.layerDestroyed(ev.Layer)

	default:
		s.log.Debug("ignoring unknown event", "type", fmt.Sprintf("%T", ev))
		return false
	}
	return true
}

// Event aliases platform.Event for callers that only import wm.
type Event = platform.Event
