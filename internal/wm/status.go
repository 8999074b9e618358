package wm

import (
	"fmt"
	"strings"

	"github.com/1broseidon/tagtile/internal/geom"
	"github.com/1broseidon/tagtile/internal/layout"
	"github.com/1broseidon/tagtile/internal/tagset"
)

// Snapshot is a copy of the observable state, safe to hand to other
// goroutines.
type Snapshot struct {
	Monitors        []MonitorStatus `json:"monitors"`
	Clients         []ClientStatus  `json:"clients"`
	SelectedMonitor string          `json:"selected_monitor"`
	Focused         uint32          `json:"focused,omitempty"`
	GapsEnabled     bool            `json:"gaps_enabled"`
	Tags            []string        `json:"tags"`
}

// MonitorStatus describes one monitor.
type MonitorStatus struct {
	Output     uint32      `json:"output"`
	Name       string      `json:"name"`
	Geometry   geom.Rect   `json:"geometry"`
	WorkArea   geom.Rect   `json:"work_area"`
	Tags       uint32      `json:"tags"`
	Occupied   uint32      `json:"occupied"`
	Layout     string      `json:"layout"`
	MFact      float64     `json:"mfact"`
	NMaster    int         `json:"nmaster"`
	Gaps       layout.Gaps `json:"gaps"`
	Selected   bool        `json:"selected"`
	Fullscreen uint32      `json:"fullscreen,omitempty"`
	Clients    int         `json:"clients"`
}

// ClientStatus describes one mapped client.
type ClientStatus struct {
	Surface    uint32    `json:"surface"`
	AppID      string    `json:"app_id"`
	Title      string    `json:"title"`
	Monitor    string    `json:"monitor"`
	Tags       uint32    `json:"tags"`
	Geometry   geom.Rect `json:"geometry"`
	Floating   bool      `json:"floating"`
	Fullscreen bool      `json:"fullscreen"`
	Focused    bool      `json:"focused"`
	Visible    bool      `json:"visible"`
}

// Snapshot captures the current state. Clients are listed in tiling order.
func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		GapsEnabled: s.gapsOn,
		Tags:        append([]string(nil), s.cfg.Tags...),
	}
	sel := s.selClient()
	if sel != nil {
		snap.Focused = uint32(sel.Surface)
	}
	if s.selmon != nil {
		snap.SelectedMonitor = s.selmon.Name
	}

	occupied := make(map[*Monitor]tagset.Mask)
	counts := make(map[*Monitor]int)
	for c := range s.clients.Clients() {
		m := s.monitor(c.Mon)
		occupied[m] |= c.Tags
		counts[m]++
		name := ""
		if m != nil {
			name = m.Name
		}
		snap.Clients = append(snap.Clients, ClientStatus{
			Surface:    uint32(c.Surface),
			AppID:      c.AppID,
			Title:      c.Title,
			Monitor:    name,
			Tags:       uint32(c.Tags),
			Geometry:   c.Geom,
			Floating:   c.Floating,
			Fullscreen: c.Fullscreen,
			Focused:    c == sel,
			Visible:    s.visibleOn(c, m),
		})
	}

	for _, m := range s.mons {
		ms := MonitorStatus{
			Output:   uint32(m.Output),
			Name:     m.Name,
			Geometry: m.M,
			WorkArea: m.W,
			Tags:     uint32(m.Tags()),
			Occupied: uint32(occupied[m]),
			Layout:   s.layoutOf(m).Symbol,
			MFact:    m.MFact,
			NMaster:  m.NMaster,
			Gaps:     m.Gaps,
			Selected: m == s.selmon,
			Clients:  counts[m],
		}
		if c := s.clients.Get(m.Fullscreen); c != nil {
			ms.Fullscreen = uint32(c.Surface)
		}
		snap.Monitors = append(snap.Monitors, ms)
	}
	return snap
}

// Monitor finds a monitor by name.
func (s Snapshot) Monitor(name string) (MonitorStatus, bool) {
	for _, m := range s.Monitors {
		if m.Name == name {
			return m, true
		}
	}
	return MonitorStatus{}, false
}

// FocusedClient returns the focused client, if any.
func (s Snapshot) FocusedClient() (ClientStatus, bool) {
	for _, c := range s.Clients {
		if c.Focused {
			return c, true
		}
	}
	return ClientStatus{}, false
}

// FormatStatusLine renders a bar-style line per monitor: active tags in
// brackets, occupied tags plain, empty tags hidden, then the layout symbol
// and the focused title on the selected monitor.
//
//	DP-1 [1] 2 []= vim
func FormatStatusLine(s Snapshot) string {
	var b strings.Builder
	focused, hasFocus := s.FocusedClient()
	for i, m := range s.Monitors {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(m.Name)
		for t, name := range s.Tags {
			bit := uint32(tagset.Bit(t))
			switch {
			case m.Tags&bit != 0:
				fmt.Fprintf(&b, " [%s]", name)
			case m.Occupied&bit != 0:
				fmt.Fprintf(&b, " %s", name)
			}
		}
		fmt.Fprintf(&b, " %s", m.Layout)
		if m.Selected && hasFocus {
			fmt.Fprintf(&b, " %s", focused.Title)
		}
	}
	return b.String()
}
