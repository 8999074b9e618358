package wm

import (
	"github.com/1broseidon/tagtile/internal/geom"
	"github.com/1broseidon/tagtile/internal/layout"
	"github.com/1broseidon/tagtile/internal/platform"
	"github.com/1broseidon/tagtile/internal/tagset"
)

// visibleOn reports whether c is on m and shares a tag with m's active set.
func (s *State) visibleOn(c *Client, m *Monitor) bool {
	if m == nil {
		return false
	}
	return tagset.Visible(c.Mon, m.Output, c.Tags, m.Tags())
}

// visible is visibleOn against the client's own monitor.
func (s *State) visible(c *Client) bool {
	return s.visibleOn(c, s.monitor(c.Mon))
}

// resize sets c's box and asks the client to take it. Interactive resizes
// are bounded by the whole layout, others by the client's work area.
func (s *State) resize(c *Client, g geom.Rect, interact bool) {
	bbox := s.sgeom
	if m := s.monitor(c.Mon); !interact && m != nil {
		bbox = m.W
	}
	c.Geom = geom.ApplyBounds(g, c.BW, bbox)
	c.Resize = s.backend.Configure(c.Surface, c.Geom, c.BW)
}

// arrange lays out the visible clients of m with its active layout, then
// applies the border policy to them.
func (s *State) arrange(m *Monitor) {
	m.Fullscreen = 0
	lt := s.layoutOf(m)

	m.tiled = 0
	for c := range s.clients.VisibleClients(m) {
		if !c.Floating {
			m.tiled++
		}
	}

	switch lt.Kind {
	case layout.KindTile:
		s.tile(m)
	case layout.KindMonocle:
		s.monocle(m)
	default:
		for c := range s.clients.VisibleClients(m) {
			if c.Fullscreen {
				m.Fullscreen = c.Handle
				s.resize(c, m.M, false)
				break
			}
		}
	}
	m.Borders = !((lt.Arranges() && m.tiled <= 1) || lt.Kind == layout.KindMonocle)
	for c := range s.clients.VisibleClients(m) {
		if bw := s.borderWidth(c); bw != c.BW {
			c.BW = bw
			s.resize(c, c.Geom, false)
		}
	}
}

func (s *State) tile(m *Monitor) {
	if m.tiled == 0 {
		return
	}
	rects := layout.Tile(m.W, m.tiled, layout.TileParams{
		MFact:     m.MFact,
		NMaster:   m.NMaster,
		Gaps:      m.Gaps,
		Enabled:   s.gapsOn,
		SmartGaps: s.cfg.Gaps.Smart,
	})
	i := 0
	for c := range s.clients.VisibleClients(m) {
		if c.Fullscreen {
			m.Fullscreen = c.Handle
			s.resize(c, m.M, false)
			return
		}
		if c.Floating || i >= len(rects) {
			continue
		}
		s.resize(c, rects[i], false)
		i++
	}
}

func (s *State) monocle(m *Monitor) {
	for c := range s.clients.VisibleClients(m) {
		if c.Fullscreen {
			m.Fullscreen = c.Handle
			s.resize(c, m.M, false)
			return
		}
		if !c.Floating {
			s.resize(c, m.W, false)
		}
	}
}

// borderWidth is the border c should carry under its monitor's policy.
func (s *State) borderWidth(c *Client) int {
	m := s.monitor(c.Mon)
	if c.Fullscreen || m == nil {
		return 0
	}
	if c.Floating || m.Borders {
		return s.cfg.BorderPx
	}
	return 0
}

// Frame returns the scene. Entries run back to front. A monitor with a
// fullscreen client shows only that client and hides its bottom band.
func (s *State) Frame() platform.Frame {
	var f platform.Frame
	sel := s.selClient()
	for c := range s.clients.StackBackward() {
		if !c.Mapped {
			continue
		}
		m := s.monitor(c.Mon)
		shown := s.visibleOn(c, m) && (m.Fullscreen == 0 || m.Fullscreen == c.Handle)
		f.Entries = append(f.Entries, platform.FrameEntry{
			Surface: c.Surface,
			Output:  c.Mon,
			Geom:    c.Geom,
			BW:      c.BW,
			Visible: shown,
			Focused: sel != nil && sel.Handle == c.Handle,
			Pending: c.Resize != 0,
		})
	}
	for _, m := range s.mons {
		for band := platform.BandBackground; band < platform.NumBands; band++ {
			if band == platform.BandBottom && m.Fullscreen != 0 {
				continue
			}
			for _, id := range m.Layers[band] {
				l := s.layers[id]
				if l == nil || !l.Mapped {
					continue
				}
				f.Layers = append(f.Layers, platform.LayerEntry{Layer: id, Output: m.Output, Band: band, Geom: l.Geom})
			}
		}
	}
	return f
}

// Present hands the current frame to the backend.
func (s *State) Present() {
	s.backend.Present(s.Frame())
}
