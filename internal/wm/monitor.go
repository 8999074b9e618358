package wm

import (
	"slices"
	"strings"

	"github.com/1broseidon/tagtile/internal/geom"
	"github.com/1broseidon/tagtile/internal/layout"
	"github.com/1broseidon/tagtile/internal/platform"
	"github.com/1broseidon/tagtile/internal/tagset"
)

// Monitor is the per-output state.
type Monitor struct {
	Output platform.OutputID
	Name   string

	// M is the full output box, W the part left for clients once layer
	// exclusive zones are subtracted.
	M geom.Rect
	W geom.Rect

	Tagset    [2]tagset.Mask
	SelTags   int
	Layouts   [2]int
	SelLayout int
	MFact     float64
	NMaster   int
	Gaps      layout.Gaps
	// Position is the index of the monitor rule that matched, or -1.
	Position int

	// Fullscreen is the client covering the monitor after the last arrange.
	Fullscreen Handle
	// Borders is false when a tiling layout shows at most one client, or
	// the layout is monocle.
	Borders bool

	// Layers holds layer ids per band, newest first.
	Layers [platform.NumBands][]platform.LayerID

	box   geom.Rect
	tiled int
}

// Tags returns the active tagset.
func (m *Monitor) Tags() tagset.Mask {
	return m.Tagset[m.SelTags]
}

// LayoutIndex is the index of the active layout.
func (m *Monitor) LayoutIndex() int {
	return m.Layouts[m.SelLayout]
}

func (s *State) monitor(id platform.OutputID) *Monitor {
	if id == 0 {
		return nil
	}
	for _, m := range s.mons {
		if m.Output == id {
			return m
		}
	}
	return nil
}

func (s *State) layoutOf(m *Monitor) layout.Layout {
	i := m.LayoutIndex()
	if i < 0 || i >= len(s.cfg.Layouts) {
		return s.cfg.Layouts[0]
	}
	return s.cfg.Layouts[i]
}

// addMonitor creates monitor state for a new output, seeds it from the first
// matching monitor rule and places it in the horizontal output row.
func (s *State) addMonitor(ev platform.OutputAdded) {
	if s.monitor(ev.Output) != nil {
		return
	}
	m := &Monitor{
		Output:   ev.Output,
		Name:     ev.Name,
		Tagset:   [2]tagset.Mask{1, 1},
		MFact:    0.55,
		NMaster:  1,
		Gaps:     s.cfg.Gaps.Gaps(),
		Position: -1,
		Borders:  true,
		box:      geom.Rect{X: ev.X, Y: ev.Y, Width: ev.Width, Height: ev.Height},
	}
	for i, r := range s.cfg.MonitorRules {
		if strings.Contains(ev.Name, r.Name) {
			m.MFact = r.MFact
			m.NMaster = r.NMaster
			l := s.cfg.MonitorLayout(r)
			m.Layouts = [2]int{l, l}
			m.Position = i
			break
		}
	}

	at, x := 0, 0
	for i, mi := range s.mons {
		if m.Position > mi.Position {
			at, x = i+1, mi.box.Right()
		}
	}
	s.mons = slices.Insert(s.mons, at, m)
	s.log.Info("monitor added", "output", m.Name, "position", m.Position, "index", at, "x", x)

	s.placeOutput(m, x, 0)
	moved := make(map[platform.OutputID]int)
	for _, mi := range s.mons[at+1:] {
		old := mi.box.X
		s.placeOutput(mi, mi.box.X+m.box.Width, 0)
		if dx := mi.box.X - old; dx != 0 {
			moved[mi.Output] = dx
		}
	}

	if s.selmon == nil {
		s.selmon = m
	}
	s.updateMons()

	// Keep floating clients on the monitors that moved in place relative
	// to their monitor.
	for c := range s.clients.Clients() {
		if dx, ok := moved[c.Mon]; ok && c.Floating {
			g := c.Geom
			g.X += dx
			s.resize(c, g, false)
		}
	}
	for c := range s.clients.Clients() {
		if c.Mapped && c.Mon == 0 {
			s.setMon(c, m, c.Tags)
		}
	}
}

func (s *State) placeOutput(m *Monitor, x, y int) {
	if err := s.backend.PlaceOutput(m.Output, x, y); err != nil {
		s.log.Warn("output placement rejected", "output", m.Name, "x", x, "y", y, "error", err)
		return
	}
	m.box.X, m.box.Y = x, y
}

// removeMonitor drops an output. Its clients move to the first remaining
// monitor, and floating clients right of the removed width shift left.
func (s *State) removeMonitor(id platform.OutputID) {
	i := slices.IndexFunc(s.mons, func(m *Monitor) bool { return m.Output == id })
	if i < 0 {
		return
	}
	m := s.mons[i]
	s.mons = slices.Delete(s.mons, i, i+1)
	if s.selmon == m {
		s.selmon = nil
		if len(s.mons) > 0 {
			s.selmon = s.mons[0]
		}
	}
	s.log.Info("monitor removed", "output", m.Name)
	s.updateMons()

	if len(s.mons) == 0 {
		for c := range s.clients.Clients() {
			if c.Mon == m.Output {
				c.Mon = 0
			}
		}
		return
	}
	newmon := s.mons[0]
	for c := range s.clients.Clients() {
		if c.Floating && c.Geom.X > m.M.Width {
			g := c.Geom
			g.X -= m.W.Width
			s.resize(c, g, false)
		}
		if c.Mon == m.Output {
			s.setMon(c, newmon, c.Tags)
		}
	}
}

// setOutputBoxes records placement changes made outside the core.
func (s *State) setOutputBoxes(boxes []platform.OutputBox) {
	for _, b := range boxes {
		if m := s.monitor(b.Output); m != nil {
			m.box = b.Box
		}
	}
	s.updateMons()
}

// updateMons recomputes the layout bounding box and every monitor's areas.
func (s *State) updateMons() {
	s.sgeom = geom.Rect{}
	for _, m := range s.mons {
		s.sgeom = s.sgeom.Union(m.box)
	}
	for _, m := range s.mons {
		m.M, m.W = m.box, m.box
		s.arrangeLayers(m)
		s.arrange(m)
	}
}

// monitorAt returns the monitor whose box contains x, y, or nil.
func (s *State) monitorAt(x, y float64) *Monitor {
	for _, m := range s.mons {
		if m.M.Contains(x, y) {
			return m
		}
	}
	return nil
}

// dirToMon steps dir monitors from the selected one, wrapping around.
func (s *State) dirToMon(dir int) *Monitor {
	n := len(s.mons)
	if n == 0 || s.selmon == nil {
		return s.selmon
	}
	i := slices.Index(s.mons, s.selmon)
	step := 1
	if dir < 0 {
		step = -1
	}
	return s.mons[((i+step)%n+n)%n]
}
