package wm

import (
	"github.com/1broseidon/tagtile/internal/geom"
	"github.com/1broseidon/tagtile/internal/platform"
	"github.com/1broseidon/tagtile/internal/tagset"
)

// surfaceCreated starts tracking a surface. A new window drops any
// fullscreen client on the selected monitor so it can be seen.
func (s *State) surfaceCreated(id platform.SurfaceID) *Client {
	if c := s.clients.BySurface(id); c != nil {
		return c
	}
	s.quitAllFullscreen(s.selmon)
	c := s.clients.Create(id)
	c.BW = s.cfg.BorderPx
	return c
}

func (s *State) surfaceMapped(ev platform.SurfaceMapped) {
	c := s.clients.BySurface(ev.Surface)
	if c == nil {
		c = s.surfaceCreated(ev.Surface)
	}
	if c.Mapped {
		return
	}
	c.AppID, c.Title = ev.AppID, ev.Title
	c.Mapped = true
	s.clients.Link(c.Handle)

	c.Geom = ev.Natural
	c.Geom.Width += 2 * c.BW
	c.Geom.Height += 2 * c.BW
	s.log.Debug("client mapped", "surface", ev.Surface, "app_id", c.AppID, "title", c.Title)
	s.applyRules(c, ev.Floating)
}

func (s *State) surfaceUnmapped(id platform.SurfaceID) {
	c := s.clients.BySurface(id)
	if c == nil || !c.Mapped {
		return
	}
	c.Mapped = false
	if s.cursor.grab == c.Handle {
		s.cursor.mode = 0
		s.cursor.grab = 0
	}
	if s.pointer.Surface == id {
		s.pointer = platform.Target{}
	}
	// A withdrawn window loses its fullscreen state; it asks again on remap.
	if c.Fullscreen {
		c.Fullscreen = false
		c.BW = s.cfg.BorderPx
		c.Geom = c.Prev
		if m := s.monitor(c.Mon); m != nil && m.Fullscreen == c.Handle {
			m.Fullscreen = 0
		}
		s.backend.SetFullscreen(c.Surface, false)
	}
	s.clients.Tiling.Remove(c.Handle)
	s.setMon(c, nil, 0)
	s.clients.Focus.Remove(c.Handle)
	s.clients.Stack.Remove(c.Handle)
	s.log.Debug("client unmapped", "surface", id, "app_id", c.AppID)
}

func (s *State) surfaceCommitted(ev platform.SurfaceCommitted) {
	c := s.clients.BySurface(ev.Surface)
	if c != nil && c.Resize != 0 && c.Resize <= ev.Serial {
		c.Resize = 0
	}
}

func (s *State) surfaceDestroyed(id platform.SurfaceID) {
	c := s.clients.BySurface(id)
	if c == nil {
		return
	}
	if c.Mapped {
		s.surfaceUnmapped(id)
	}
	s.clients.Free(c.Handle)
}

func (s *State) surfaceRetitled(ev platform.SurfaceRetitled) {
	if c := s.clients.BySurface(ev.Surface); c != nil {
		c.AppID, c.Title = ev.AppID, ev.Title
	}
}

func (s *State) fullscreenRequested(id platform.SurfaceID) {
	c := s.clients.BySurface(id)
	if c == nil || !c.Mapped {
		return
	}
	s.setFullscreen(c, !c.Fullscreen)
}

// setMon moves c to m. Zero newtags adopts m's active tagset. A nil m
// detaches the client.
func (s *State) setMon(c *Client, m *Monitor, newtags tagset.Mask) {
	var id platform.OutputID
	if m != nil {
		id = m.Output
	}
	if c.Mon == id {
		return
	}
	oldmon := s.monitor(c.Mon)
	oldsel := s.selClient()
	c.Mon = id

	if oldmon != nil {
		s.arrange(oldmon)
	}
	if m != nil {
		c.Geom = geom.ApplyBounds(c.Geom, c.BW, m.M)
		c.Tags = newtags & s.tagMask
		if c.Tags == 0 {
			c.Tags = m.Tags()
		}
		s.arrange(m)
	}
	s.focusClient(oldsel, s.focusTop(s.selmon), true)
}

func (s *State) setFloating(c *Client, floating bool) {
	if c.Floating == floating {
		return
	}
	c.Floating = floating
	if m := s.monitor(c.Mon); m != nil {
		s.arrange(m)
	}
}

// setFullscreen covers the monitor with c, or puts c back at the box it had
// before.
func (s *State) setFullscreen(c *Client, fullscreen bool) {
	c.Fullscreen = fullscreen
	c.BW = s.cfg.BorderPx
	if fullscreen {
		c.BW = 0
	}
	s.backend.SetFullscreen(c.Surface, fullscreen)

	m := s.monitor(c.Mon)
	if fullscreen {
		c.Prev = c.Geom
		if m != nil {
			s.resize(c, m.M, false)
			m.Fullscreen = c.Handle
		}
	} else {
		s.resize(c, c.Prev, false)
		if m != nil {
			m.Fullscreen = 0
		}
	}
	if m != nil {
		s.arrange(m)
	}
}

func (s *State) quitAllFullscreen(m *Monitor) {
	if m == nil {
		return
	}
	for c := range s.clients.VisibleClients(m) {
		if c.Fullscreen {
			s.setFullscreen(c, false)
		}
	}
}
