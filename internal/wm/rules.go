package wm

import (
	"strings"

	"github.com/1broseidon/tagtile/internal/geom"
	"github.com/1broseidon/tagtile/internal/tagset"
)

// broken stands in for a missing app id or title when matching rules.
const broken = "broken"

// applyRules sets the floating state, tags, monitor and, for floating
// clients, the initial box of a newly mapped client. Every matching rule
// contributes its tags; floating, monitor and geometry come from the last
// match.
func (s *State) applyRules(c *Client, floatHint bool) {
	appID, title := c.AppID, c.Title
	if appID == "" {
		appID = broken
	}
	if title == "" {
		title = broken
	}

	c.Floating = floatHint
	mon := s.selmon
	var tags tagset.Mask
	for _, r := range s.cfg.Rules {
		if r.Title != "" && !strings.Contains(title, r.Title) {
			continue
		}
		if r.AppID != "" && !strings.Contains(appID, r.AppID) {
			continue
		}
		c.Floating = r.Floating
		tags |= r.Mask() & s.tagMask
		if r.Monitor >= 0 && r.Monitor < len(s.mons) {
			mon = s.mons[r.Monitor]
		}
		if c.Floating && mon != nil {
			s.resize(c, ruleBox(c.Geom, r.X, r.Y, r.Width, r.Height, mon.W), true)
		}
	}
	s.log.Debug("rules applied", "app_id", c.AppID, "title", c.Title, "floating", c.Floating, "tags", uint32(tags))
	s.setMon(c, mon, tags)
}

// ruleBox is the floating box a rule asks for. Zero sizes keep the current
// size and zero offsets center the box in the work area.
func ruleBox(cur geom.Rect, x, y, w, h int, area geom.Rect) geom.Rect {
	box := cur
	if w != 0 {
		box.Width = w
	}
	if h != 0 {
		box.Height = h
	}
	if x != 0 {
		box.X = area.X + x
	} else {
		box.X = area.X + area.Width/2 - box.Width/2
	}
	if y != 0 {
		box.Y = area.Y + y
	} else {
		box.Y = area.Y + area.Height/2 - box.Height/2
	}
	return box
}
