package wm

import "slices"

// selClient is the most recently focused client if it is visible on the
// selected monitor.
func (s *State) selClient() *Client {
	c := s.clients.Get(s.clients.Focus.Front())
	if c == nil || !s.visibleOn(c, s.selmon) {
		return nil
	}
	return c
}

// focusTop is the most recently focused client visible on m.
func (s *State) focusTop(m *Monitor) *Client {
	for c := range s.clients.VisibleByFocus(m) {
		return c
	}
	return nil
}

// focusClient moves keyboard focus from old to c, raising c first when lift
// is set. A nil c clears focus. While a keyboard-interactive layer covers
// c's monitor, c still becomes the most recent focus but is neither entered
// nor activated.
func (s *State) focusClient(old, c *Client, lift bool) {
	if c != nil && lift {
		s.clients.Stack.MoveFront(c.Handle)
	}
	if c == old {
		return
	}
	if old != nil {
		s.backend.SetActivated(old.Surface, false)
	}
	if c == nil {
		s.kbdLayer = 0
		s.backend.ClearFocus()
		return
	}

	m := s.monitor(c.Mon)
	intercepted := !s.shouldFocusClients(m)
	if !intercepted {
		s.kbdLayer = 0
		s.backend.FocusSurface(c.Surface)
	}
	s.clients.Focus.MoveFront(c.Handle)
	if m != nil {
		s.selmon = m
	}
	if !intercepted {
		s.backend.SetActivated(c.Surface, true)
	}
}

// focusStack focuses the next (dir > 0) or previous visible client in tiling
// order, wrapping around.
func (s *State) focusStack(dir int) {
	sel := s.selClient()
	if sel == nil {
		return
	}
	hs := s.clients.Tiling.Handles()
	i := slices.Index(hs, sel.Handle)
	n := len(hs)
	step := 1
	if dir <= 0 {
		step = -1
	}
	next := sel
	for k := 1; k < n; k++ {
		c := s.clients.Get(hs[((i+k*step)%n+n)%n])
		if c != nil && s.visibleOn(c, s.selmon) {
			next = c
			break
		}
	}
	s.focusClient(sel, next, true)
}

// focusMon selects the neighbouring monitor and carries the cursor along.
func (s *State) focusMon(dir int) {
	prev := s.selmon
	if prev == nil {
		return
	}
	sel := s.selClient()
	s.selmon = s.dirToMon(dir)
	s.focusClient(sel, s.focusTop(s.selmon), true)
	s.cursor.x += float64(s.selmon.M.X - prev.M.X)
	s.backend.WarpPointer(s.cursor.x, s.cursor.y)
}

// zoom swaps the selected tiled client with the tiling master.
func (s *State) zoom() {
	sel := s.selClient()
	if sel == nil || sel.Floating || !s.layoutOf(s.selmon).Arranges() {
		return
	}
	oldsel := sel
	var found *Client
	for c := range s.clients.VisibleClients(s.selmon) {
		if c.Floating {
			continue
		}
		if c != sel {
			found = c
			break
		}
		sel = nil
	}
	if found == nil {
		return
	}
	if sel == nil {
		sel = found
	}
	s.clients.Tiling.MoveFront(sel.Handle)
	s.focusClient(oldsel, sel, true)
	s.arrange(s.selmon)
}
