package wm

import (
	"fmt"

	"github.com/1broseidon/tagtile/internal/bindings"
	"github.com/1broseidon/tagtile/internal/layout"
	"github.com/1broseidon/tagtile/internal/tagset"
)

// Run executes cmd against the selected monitor and client. Commands that
// do not apply in the current state are silently ignored.
func (s *State) Run(cmd bindings.Command, arg bindings.Arg) error {
	s.log.Debug("command", "name", cmd)
	if cmd == bindings.CmdQuit {
		s.quit()
		return nil
	}
	if cmd == bindings.CmdSpawn {
		return s.spawn(arg.Argv)
	}
	if s.selmon == nil {
		return nil
	}
	switch cmd {
	case bindings.CmdView:
		s.view(arg.Tags)
	case bindings.CmdToggleView:
		s.toggleView(arg.Tags)
	case bindings.CmdTag:
		s.tag(arg.Tags)
	case bindings.CmdToggleTag:
		s.toggleTag(arg.Tags)
	case bindings.CmdFocusStack:
		s.focusStack(arg.I)
	case bindings.CmdIncNMaster:
		s.selmon.NMaster = max(s.selmon.NMaster+arg.I, 0)
		s.arrange(s.selmon)
	case bindings.CmdSetMFact:
		s.setMFact(arg.F)
	case bindings.CmdZoom:
		s.zoom()
	case bindings.CmdSetLayout:
		s.setLayout(arg.Layout)
	case bindings.CmdToggleFloating:
		if sel := s.selClient(); sel != nil {
			s.setFloating(sel, !sel.Floating)
		}
	case bindings.CmdToggleFullscreen:
		if sel := s.selClient(); sel != nil {
			s.setFullscreen(sel, !sel.Fullscreen)
		}
	case bindings.CmdMoveResize:
		s.moveResize(arg.Mode)
	case bindings.CmdFocusMon:
		s.focusMon(arg.I)
	case bindings.CmdTagMon:
		if sel := s.selClient(); sel != nil {
			s.setMon(sel, s.dirToMon(arg.I), 0)
		}
	case bindings.CmdKillClient:
		if sel := s.selClient(); sel != nil {
			s.backend.Close(sel.Surface)
		}
	case bindings.CmdShiftView:
		s.shiftView(arg.I)
	case bindings.CmdIncrGaps:
		s.incrGaps(arg.I, arg.I, arg.I, arg.I)
	case bindings.CmdIncrIGaps:
		s.incrGaps(0, 0, arg.I, arg.I)
	case bindings.CmdIncrOGaps:
		s.incrGaps(arg.I, arg.I, 0, 0)
	case bindings.CmdIncrOHGaps:
		s.incrGaps(arg.I, 0, 0, 0)
	case bindings.CmdIncrOVGaps:
		s.incrGaps(0, arg.I, 0, 0)
	case bindings.CmdIncrIHGaps:
		s.incrGaps(0, 0, arg.I, 0)
	case bindings.CmdIncrIVGaps:
		s.incrGaps(0, 0, 0, arg.I)
	case bindings.CmdToggleGaps:
		s.gapsOn = !s.gapsOn
		s.arrange(s.selmon)
	case bindings.CmdDefaultGaps:
		s.setGaps(s.cfg.Gaps.Gaps())
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

// Exec parses a command name and a loosely typed argument, then runs it.
func (s *State) Exec(name string, raw any) error {
	cmd, err := bindings.ParseCommand(name)
	if err != nil {
		return err
	}
	arg, err := bindings.ParseArg(cmd, raw, s.cfg.ArgEnv())
	if err != nil {
		return fmt.Errorf("%s: %w", cmd, err)
	}
	return s.Run(cmd, arg)
}

// view shows mask on the selected monitor. A zero mask flips back to the
// previous tagset.
func (s *State) view(mask tagset.Mask) {
	m := s.selmon
	mask &= s.tagMask
	if mask == m.Tags() {
		return
	}
	sel := s.selClient()
	m.SelTags ^= 1
	if mask != 0 {
		m.Tagset[m.SelTags] = mask
	}
	s.focusClient(sel, s.focusTop(m), true)
	s.arrange(m)
}

func (s *State) toggleView(mask tagset.Mask) {
	m := s.selmon
	next := m.Tags() ^ (mask & s.tagMask)
	if next == 0 {
		return
	}
	sel := s.selClient()
	m.Tagset[m.SelTags] = next
	s.focusClient(sel, s.focusTop(m), true)
	s.arrange(m)
}

func (s *State) tag(mask tagset.Mask) {
	sel := s.selClient()
	mask &= s.tagMask
	if sel == nil || mask == 0 {
		return
	}
	sel.Tags = mask
	s.focusClient(sel, s.focusTop(s.selmon), true)
	s.arrange(s.selmon)
}

func (s *State) toggleTag(mask tagset.Mask) {
	sel := s.selClient()
	if sel == nil {
		return
	}
	next := sel.Tags ^ (mask & s.tagMask)
	if next == 0 {
		return
	}
	sel.Tags = next
	s.focusClient(sel, s.focusTop(s.selmon), true)
	s.arrange(s.selmon)
}

// setMFact adds f to the master factor, or sets it to f-1 when f >= 1.
// Results outside [0.1, 0.9] are rejected.
func (s *State) setMFact(f float64) {
	m := s.selmon
	if !s.layoutOf(m).Arranges() {
		return
	}
	if f < 1 {
		f += m.MFact
	} else {
		f--
	}
	if f < 0.1 || f > 0.9 {
		return
	}
	m.MFact = f
	s.arrange(m)
}

// setLayout flips to the other layout slot, or installs layout i in it and
// unfloats every client.
func (s *State) setLayout(i int) {
	m := s.selmon
	if i < 0 || i >= len(s.cfg.Layouts) {
		i = bindings.NoLayout
	}
	if i == bindings.NoLayout || i != m.LayoutIndex() {
		m.SelLayout ^= 1
	}
	if i != bindings.NoLayout {
		for c := range s.clients.Clients() {
			s.setFloating(c, false)
		}
		m.Layouts[m.SelLayout] = i
	}
	s.arrange(m)
}

// shiftView rotates the active tagset by i, repeating the step until some
// client carries one of the resulting tags.
func (s *State) shiftView(i int) {
	n := len(s.cfg.Tags)
	cur := s.selmon.Tags()
	shift := i
	for count := 0; count <= n; count++ {
		next := tagset.Shift(cur, shift, n)
		for c := range s.clients.Clients() {
			if next&c.Tags != 0 {
				s.view(next)
				return
			}
		}
		shift += i
	}
}

func (s *State) incrGaps(oh, ov, ih, iv int) {
	g := s.selmon.Gaps
	s.setGaps(layout.Gaps{
		OuterH: g.OuterH + oh,
		OuterV: g.OuterV + ov,
		InnerH: g.InnerH + ih,
		InnerV: g.InnerV + iv,
	})
}

// setGaps installs g on the selected monitor, negative values clamped to 0.
func (s *State) setGaps(g layout.Gaps) {
	s.selmon.Gaps = g.Clamp()
	s.arrange(s.selmon)
}

func (s *State) spawn(argv []string) error {
	if len(argv) == 0 {
		return nil
	}
	if err := s.backend.Spawn(argv); err != nil {
		s.log.Warn("spawn failed", "argv", argv, "error", err)
		return fmt.Errorf("spawn %s: %w", argv[0], err)
	}
	return nil
}

func (s *State) quit() {
	if s.quitting {
		return
	}
	s.quitting = true
	s.log.Info("quit requested")
	s.backend.Quit()
}
