package x11

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xinerama"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/1broseidon/tagtile/internal/geom"
	"github.com/1broseidon/tagtile/internal/platform"
)

// errFixedLayout is returned when outputs cannot be moved, as with
// xinerama-only servers.
var errFixedLayout = errors.New("x11: output layout is fixed by the server")

// Output is one enabled monitor.
type Output struct {
	ID   platform.OutputID
	Name string
	Box  geom.Rect

	crtc randr.Crtc
}

// Outputs lists the enabled outputs. RandR is preferred; servers without it
// fall back to xinerama screens, then to the root window.
func (c *Connection) Outputs() ([]Output, error) {
	if c.randr {
		outs, err := c.randrOutputs()
		if err == nil && len(outs) > 0 {
			return outs, nil
		}
	}
	return c.xineramaOutputs()
}

func (c *Connection) randrOutputs() ([]Output, error) {
	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var outputs []Output
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Monitor%d", i)
		if info, err := randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(info.Name)
		}
		outputs = append(outputs, Output{
			ID:   platform.OutputID(crtcInfo.Outputs[0]),
			Name: name,
			Box: geom.Rect{
				X:      int(crtcInfo.X),
				Y:      int(crtcInfo.Y),
				Width:  int(crtcInfo.Width),
				Height: int(crtcInfo.Height),
			},
			crtc: crtc,
		})
	}
	return outputs, nil
}

func (c *Connection) xineramaOutputs() ([]Output, error) {
	if c.xinerama {
		xine, err := xinerama.QueryScreens(c.XUtil.Conn()).Reply()
		if err == nil && len(xine.ScreenInfo) > 0 {
			outputs := make([]Output, len(xine.ScreenInfo))
			for i, si := range xine.ScreenInfo {
				outputs[i] = Output{
					ID:   platform.OutputID(i + 1),
					Name: fmt.Sprintf("Screen%d", i),
					Box:  geom.Rect{X: int(si.XOrg), Y: int(si.YOrg), Width: int(si.Width), Height: int(si.Height)},
				}
			}
			return outputs, nil
		}
	}
	return []Output{{
		ID:   1,
		Name: "Screen0",
		Box:  geom.Rect{Width: int(c.Screen.WidthInPixels), Height: int(c.Screen.HeightInPixels)},
	}}, nil
}

// PlaceOutput moves the CRTC driving out to x, y, keeping its mode.
func (c *Connection) PlaceOutput(out Output, x, y int) error {
	if out.crtc == 0 {
		if out.Box.X == x && out.Box.Y == y {
			return nil
		}
		return errFixedLayout
	}
	conn := c.XUtil.Conn()
	resources, err := randr.GetScreenResources(conn, c.Root).Reply()
	if err != nil {
		return fmt.Errorf("failed to get screen resources: %w", err)
	}
	info, err := randr.GetCrtcInfo(conn, out.crtc, resources.ConfigTimestamp).Reply()
	if err != nil {
		return fmt.Errorf("failed to get crtc info: %w", err)
	}
	if int(info.X) == x && int(info.Y) == y {
		return nil
	}
	reply, err := randr.SetCrtcConfig(conn, out.crtc, xproto.TimeCurrentTime, resources.ConfigTimestamp,
		int16(x), int16(y), info.Mode, info.Rotation, info.Outputs).Reply()
	if err != nil {
		return fmt.Errorf("failed to place %s: %w", out.Name, err)
	}
	if reply.Status != randr.SetConfigSuccess {
		return fmt.Errorf("failed to place %s: status %d", out.Name, reply.Status)
	}
	return nil
}

// dockState turns the struts of a dock window into a layer surface state.
// A strut along an edge anchors the dock to that edge and both adjacent
// ones, and reserves the strut size. Docks without struts keep their size
// and reserve nothing.
func dockState(sp *ewmh.WmStrutPartial, box geom.Rect) platform.LayerState {
	st := platform.LayerState{DesiredWidth: box.Width, DesiredHeight: box.Height}
	if sp == nil {
		st.Anchor = platform.AnchorTop
		return st
	}
	switch {
	case sp.Top > 0:
		st.Anchor = platform.AnchorTop | platform.AnchorLeft | platform.AnchorRight
		st.ExclusiveZone = int(sp.Top)
		st.DesiredWidth = 0
	case sp.Bottom > 0:
		st.Anchor = platform.AnchorBottom | platform.AnchorLeft | platform.AnchorRight
		st.ExclusiveZone = int(sp.Bottom)
		st.DesiredWidth = 0
	case sp.Left > 0:
		st.Anchor = platform.AnchorLeft | platform.AnchorTop | platform.AnchorBottom
		st.ExclusiveZone = int(sp.Left)
		st.DesiredHeight = 0
	case sp.Right > 0:
		st.Anchor = platform.AnchorRight | platform.AnchorTop | platform.AnchorBottom
		st.ExclusiveZone = int(sp.Right)
		st.DesiredHeight = 0
	default:
		st.Anchor = platform.AnchorTop
	}
	return st
}

// strutPartial reads _NET_WM_STRUT_PARTIAL, falling back to _NET_WM_STRUT.
func (c *Connection) strutPartial(win xproto.Window) *ewmh.WmStrutPartial {
	if sp, err := ewmh.WmStrutPartialGet(c.XUtil, win); err == nil {
		return sp
	}
	// Some docks only set _NET_WM_STRUT (no partial ranges).
	if s, err := ewmh.WmStrutGet(c.XUtil, win); err == nil {
		return &ewmh.WmStrutPartial{Left: s.Left, Right: s.Right, Top: s.Top, Bottom: s.Bottom}
	}
	return nil
}

// outputAt returns the output containing the centre of box, or zero.
func outputAt(outputs []Output, box geom.Rect) platform.OutputID {
	cx, cy := box.Center()
	for _, o := range outputs {
		if o.Box.Contains(cx, cy) {
			return o.ID
		}
	}
	return 0
}
