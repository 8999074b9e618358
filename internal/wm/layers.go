package wm

import (
	"slices"

	"github.com/1broseidon/tagtile/internal/geom"
	"github.com/1broseidon/tagtile/internal/platform"
)

// LayerSurface is a shell-layer surface such as a bar, a launcher or a
// wallpaper.
type LayerSurface struct {
	ID        platform.LayerID
	Mon       platform.OutputID
	Band      platform.Band
	Namespace string
	State     platform.LayerState
	Mapped    bool
	Geom      geom.Rect
}

const (
	bothHoriz = platform.AnchorLeft | platform.AnchorRight
	bothVert  = platform.AnchorTop | platform.AnchorBottom
)

// Exclusive passes run top-most band first.
var bandsTopDown = [...]platform.Band{
	platform.BandOverlay,
	platform.BandTop,
	platform.BandBottom,
	platform.BandBackground,
}

// arrangeLayers places the layer surfaces of m, shrinks m.W by their
// exclusive zones and hands keyboard focus to the first interactive layer
// above the clients.
func (s *State) arrangeLayers(m *Monitor) {
	usable := m.M
	for _, b := range bandsTopDown {
		s.arrangeBand(m, b, &usable, true)
	}
	if usable != m.W {
		m.W = usable
		s.arrange(m)
	}
	for _, b := range bandsTopDown {
		s.arrangeBand(m, b, &usable, false)
	}

	for _, b := range [...]platform.Band{platform.BandOverlay, platform.BandTop} {
		ids := m.Layers[b]
		for i := len(ids) - 1; i >= 0; i-- {
			l := s.layers[ids[i]]
			if l != nil && l.Mapped && l.State.KeyboardInteractive {
				s.kbdLayer = l.ID
				s.backend.FocusLayer(l.ID)
				return
			}
		}
	}
}

func (s *State) arrangeBand(m *Monitor, band platform.Band, usable *geom.Rect, exclusive bool) {
	for _, id := range slices.Clone(m.Layers[band]) {
		l := s.layers[id]
		if l == nil {
			continue
		}
		st := l.State
		if exclusive != (st.ExclusiveZone > 0) {
			continue
		}
		bounds := *usable
		if st.ExclusiveZone == -1 {
			bounds = m.M
		}
		box, ok := layerBox(st, bounds)
		if !ok {
			s.log.Debug("closing layer surface with negative size", "layer", id, "namespace", l.Namespace)
			s.backend.CloseLayer(id)
			continue
		}
		l.Geom = box
		applyExclusive(usable, st)
		s.backend.ConfigureLayer(id, box)
	}
}

// layerBox positions a layer surface inside bounds. It reports false when
// the margins leave a negative size.
func layerBox(st platform.LayerState, bounds geom.Rect) (geom.Rect, bool) {
	box := geom.Rect{Width: st.DesiredWidth, Height: st.DesiredHeight}

	switch {
	case st.Anchor&bothHoriz != 0 && box.Width == 0:
		box.X, box.Width = bounds.X, bounds.Width
	case st.Anchor&platform.AnchorLeft != 0:
		box.X = bounds.X
	case st.Anchor&platform.AnchorRight != 0:
		box.X = bounds.X + bounds.Width - box.Width
	default:
		box.X = bounds.X + bounds.Width/2 - box.Width/2
	}
	switch {
	case st.Anchor&bothVert != 0 && box.Height == 0:
		box.Y, box.Height = bounds.Y, bounds.Height
	case st.Anchor&platform.AnchorTop != 0:
		box.Y = bounds.Y
	case st.Anchor&platform.AnchorBottom != 0:
		box.Y = bounds.Y + bounds.Height - box.Height
	default:
		box.Y = bounds.Y + bounds.Height/2 - box.Height/2
	}

	mg := st.Margin
	switch {
	case st.Anchor&bothHoriz == bothHoriz:
		box.X += mg.Left
		box.Width -= mg.Left + mg.Right
	case st.Anchor&platform.AnchorLeft != 0:
		box.X += mg.Left
	case st.Anchor&platform.AnchorRight != 0:
		box.X -= mg.Right
	}
	switch {
	case st.Anchor&bothVert == bothVert:
		box.Y += mg.Top
		box.Height -= mg.Top + mg.Bottom
	case st.Anchor&platform.AnchorTop != 0:
		box.Y += mg.Top
	case st.Anchor&platform.AnchorBottom != 0:
		box.Y -= mg.Bottom
	}
	return box, box.Width >= 0 && box.Height >= 0
}

// applyExclusive subtracts the exclusive zone of a surface anchored to one
// edge, or to one edge and both of its neighbours, from usable.
func applyExclusive(usable *geom.Rect, st platform.LayerState) {
	if st.ExclusiveZone <= 0 {
		return
	}
	edges := [...]struct {
		single, triplet platform.Anchor
		margin          int
		apply           func(int)
	}{
		{platform.AnchorTop, bothHoriz | platform.AnchorTop, st.Margin.Top,
			func(d int) { usable.Y += d; usable.Height -= d }},
		{platform.AnchorBottom, bothHoriz | platform.AnchorBottom, st.Margin.Bottom,
			func(d int) { usable.Height -= d }},
		{platform.AnchorLeft, bothVert | platform.AnchorLeft, st.Margin.Left,
			func(d int) { usable.X += d; usable.Width -= d }},
		{platform.AnchorRight, bothVert | platform.AnchorRight, st.Margin.Right,
			func(d int) { usable.Width -= d }},
	}
	for _, e := range edges {
		if st.Anchor != e.single && st.Anchor != e.triplet {
			continue
		}
		if d := st.ExclusiveZone + e.margin; d > 0 {
			e.apply(d)
			break
		}
	}
}

// shouldFocusClients is false while a mapped keyboard-interactive layer sits
// above the clients of m.
func (s *State) shouldFocusClients(m *Monitor) bool {
	if m == nil {
		return true
	}
	for _, b := range [...]platform.Band{platform.BandOverlay, platform.BandTop} {
		for _, id := range m.Layers[b] {
			if l := s.layers[id]; l != nil && l.Mapped && l.State.KeyboardInteractive {
				return false
			}
		}
	}
	return true
}

func (s *State) layerCreated(ev platform.LayerCreated) {
	if _, ok := s.layers[ev.Layer]; ok {
		return
	}
	m := s.monitor(ev.Output)
	if m == nil {
		m = s.selmon
	}
	if m == nil {
		s.log.Warn("layer surface without a monitor", "layer", ev.Layer, "namespace", ev.Namespace)
		s.backend.CloseLayer(ev.Layer)
		return
	}
	band := min(max(ev.Band, platform.BandBackground), platform.BandOverlay)
	l := &LayerSurface{ID: ev.Layer, Mon: m.Output, Band: band, Namespace: ev.Namespace}
	s.layers[l.ID] = l
	m.Layers[band] = slices.Insert(m.Layers[band], 0, l.ID)

	// Arrange with the requested state; it becomes current on first commit.
	l.State = ev.State
	s.arrangeLayers(m)
	l.State = platform.LayerState{}
}

func (s *State) layerCommitted(ev platform.LayerCommitted) {
	l := s.layers[ev.Layer]
	if l == nil {
		return
	}
	m := s.monitor(l.Mon)
	if m == nil {
		return
	}
	l.State = ev.State
	s.arrangeLayers(m)

	band := min(max(ev.Band, platform.BandBackground), platform.BandOverlay)
	if band != l.Band {
		m.Layers[l.Band] = slices.DeleteFunc(m.Layers[l.Band], func(id platform.LayerID) bool { return id == l.ID })
		m.Layers[band] = slices.Insert(m.Layers[band], 0, l.ID)
		l.Band = band
	}
}

func (s *State) layerMapped(id platform.LayerID) {
	l := s.layers[id]
	if l == nil {
		return
	}
	l.Mapped = true
	s.motionNotify()
}

func (s *State) layerUnmapped(id platform.LayerID) {
	l := s.layers[id]
	if l == nil || !l.Mapped {
		return
	}
	l.Mapped = false
	if s.kbdLayer == id {
		s.kbdLayer = 0
		s.focusClient(nil, s.selClient(), true)
	}
	s.motionNotify()
}

func (s *State) layerDestroyed(id platform.LayerID) {
	l := s.layers[id]
	if l == nil {
		return
	}
	if l.Mapped {
		s.layerUnmapped(id)
	}
	delete(s.layers, id)
	if s.pointer.Layer == id {
		s.pointer = platform.Target{}
	}
	m := s.monitor(l.Mon)
	if m == nil {
		return
	}
	m.Layers[l.Band] = slices.DeleteFunc(m.Layers[l.Band], func(x platform.LayerID) bool { return x == id })
	s.arrangeLayers(m)
}
