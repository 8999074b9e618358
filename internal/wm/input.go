package wm

import (
	"github.com/1broseidon/tagtile/internal/bindings"
	"github.com/1broseidon/tagtile/internal/geom"
	"github.com/1broseidon/tagtile/internal/platform"
)

// Cursor image names.
const (
	cursorDefault = "left_ptr"
	cursorMove    = "fleur"
	cursorResize  = "bottom_right_corner"
)

// key runs every binding matching one of the pressed syms. It reports
// whether any did; unhandled keys belong to the focused client.
func (s *State) key(ev platform.Key) bool {
	if !ev.Pressed {
		return false
	}
	handled := false
	for _, sym := range ev.Syms {
		for _, k := range s.table.MatchKeys(ev.Mods, sym) {
			if err := s.Run(k.Command, k.Arg); err != nil {
				s.log.Warn("key binding failed", "key", sym, "command", k.Command, "error", err)
			}
			handled = true
		}
	}
	return handled
}

func (s *State) button(ev platform.PointerButton) bool {
	if ev.Pressed {
		if c := s.clientAt(s.cursor.x, s.cursor.y); c != nil {
			s.focusClient(s.selClient(), c, true)
		}
		if b, ok := s.table.MatchButton(ev.Mods, ev.Button); ok {
			if err := s.Run(b.Command, b.Arg); err != nil {
				s.log.Warn("button binding failed", "button", ev.Button, "command", b.Command, "error", err)
			}
			return true
		}
		return false
	}

	if s.cursor.mode == bindings.ModeNone {
		return false
	}
	s.backend.SetCursor(cursorDefault)
	s.cursor.mode = bindings.ModeNone
	if m := s.monitorAt(s.cursor.x, s.cursor.y); m != nil {
		s.selmon = m
	}
	if c := s.clients.Get(s.cursor.grab); c != nil && c.Mapped {
		s.setMon(c, s.selmon, 0)
	}
	s.cursor.grab = 0
	return true
}

// motion moves the cursor, clamped to the output layout.
func (s *State) motion(ev platform.PointerMotion) bool {
	x, y := s.cursor.x+ev.DX, s.cursor.y+ev.DY
	if ev.Absolute {
		x, y = ev.X, ev.Y
	}
	if !s.sgeom.Empty() {
		x = min(max(x, float64(s.sgeom.X)), float64(s.sgeom.Right()-1))
		y = min(max(y, float64(s.sgeom.Y)), float64(s.sgeom.Bottom()-1))
	}
	s.cursor.x, s.cursor.y = x, y
	return s.motionNotify()
}

// motionNotify applies an interactive grab or updates pointer focus for the
// current cursor position. It reports whether a grab consumed the motion.
func (s *State) motionNotify() bool {
	if s.cfg.SloppyFocus {
		if m := s.monitorAt(s.cursor.x, s.cursor.y); m != nil {
			s.selmon = m
		}
	}

	if g := s.clients.Get(s.cursor.grab); g != nil {
		switch s.cursor.mode {
		case bindings.ModeMove:
			s.resize(g, geom.Rect{
				X:      int(s.cursor.x - s.cursor.grabX),
				Y:      int(s.cursor.y - s.cursor.grabY),
				Width:  g.Geom.Width,
				Height: g.Geom.Height,
			}, true)
			return true
		case bindings.ModeResize:
			s.resize(g, geom.Rect{
				X:      g.Geom.X,
				Y:      g.Geom.Y,
				Width:  int(s.cursor.x) - g.Geom.X,
				Height: int(s.cursor.y) - g.Geom.Y,
			}, true)
			return true
		}
	}

	var (
		target platform.Target
		c      *Client
		sx, sy float64
	)
	cx, cy := s.cursor.x, s.cursor.y
	if l := s.layerAt(platform.BandOverlay, cx, cy); l != nil {
		target, sx, sy = platform.Target{Layer: l.ID}, cx-float64(l.Geom.X), cy-float64(l.Geom.Y)
	} else if l := s.layerAt(platform.BandTop, cx, cy); l != nil {
		target, sx, sy = platform.Target{Layer: l.ID}, cx-float64(l.Geom.X), cy-float64(l.Geom.Y)
	} else if c = s.clientAt(cx, cy); c != nil {
		target = platform.Target{Surface: c.Surface}
		sx, sy = cx-float64(c.Geom.X+c.BW), cy-float64(c.Geom.Y+c.BW)
	} else if l := s.layerAt(platform.BandBottom, cx, cy); l != nil {
		target, sx, sy = platform.Target{Layer: l.ID}, cx-float64(l.Geom.X), cy-float64(l.Geom.Y)
	} else if l := s.layerAt(platform.BandBackground, cx, cy); l != nil {
		target, sx, sy = platform.Target{Layer: l.ID}, cx-float64(l.Geom.X), cy-float64(l.Geom.Y)
	}

	// Over nothing, or over a client border.
	if target == (platform.Target{}) || (c != nil && !inner(c).Contains(cx, cy)) {
		s.backend.SetCursor(cursorDefault)
	}
	s.pointerFocus(c, target, sx, sy)
	return false
}

func inner(c *Client) geom.Rect {
	return geom.Rect{X: c.Geom.X + c.BW, Y: c.Geom.Y + c.BW, Width: c.Geom.Width - 2*c.BW, Height: c.Geom.Height - 2*c.BW}
}

func (s *State) pointerFocus(c *Client, target platform.Target, sx, sy float64) {
	if target == (platform.Target{}) {
		if s.pointer != target {
			s.pointer = target
			s.backend.PointerFocus(target, 0, 0)
		}
		return
	}
	entered := target != s.pointer
	s.pointer = target
	s.backend.PointerFocus(target, sx, sy)
	if entered && c != nil && s.cfg.SloppyFocus {
		s.focusClient(s.selClient(), c, false)
	}
}

// moveResize grabs the client under the cursor, floats it and starts an
// interactive move or resize.
func (s *State) moveResize(mode bindings.Mode) {
	c := s.clientAt(s.cursor.x, s.cursor.y)
	if c == nil || mode == bindings.ModeNone {
		return
	}
	s.cursor.grab = c.Handle
	s.setFloating(c, true)
	s.cursor.mode = mode
	switch mode {
	case bindings.ModeMove:
		s.cursor.grabX = s.cursor.x - float64(c.Geom.X)
		s.cursor.grabY = s.cursor.y - float64(c.Geom.Y)
		s.backend.SetCursor(cursorMove)
	case bindings.ModeResize:
		s.cursor.x = float64(c.Geom.Right())
		s.cursor.y = float64(c.Geom.Bottom())
		s.backend.WarpPointer(s.cursor.x, s.cursor.y)
		s.backend.SetCursor(cursorResize)
	}
}

// clientAt is the top-most visible client whose box, borders included,
// contains x, y.
func (s *State) clientAt(x, y float64) *Client {
	for c := range s.clients.StackOrder() {
		if s.visible(c) && c.Geom.Contains(x, y) {
			return c
		}
	}
	return nil
}

// layerAt searches the band of the selected monitor, oldest surface first.
func (s *State) layerAt(band platform.Band, x, y float64) *LayerSurface {
	if s.selmon == nil {
		return nil
	}
	ids := s.selmon.Layers[band]
	for i := len(ids) - 1; i >= 0; i-- {
		l := s.layers[ids[i]]
		if l != nil && l.Mapped && l.Geom.Contains(x, y) {
			return l
		}
	}
	return nil
}
