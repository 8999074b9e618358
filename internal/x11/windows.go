package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"

	"github.com/1broseidon/tagtile/internal/geom"
	"github.com/1broseidon/tagtile/internal/platform"
)

// kind is how a top-level window is managed.
type kind int

const (
	kindNormal kind = iota
	kindFloating
	kindDock
	kindDesktop
	kindNotification
)

// classify maps EWMH window types to a kind. Transient windows float.
func classify(types []string, transient bool) kind {
	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_DOCK":
			return kindDock
		case "_NET_WM_WINDOW_TYPE_DESKTOP":
			return kindDesktop
		case "_NET_WM_WINDOW_TYPE_NOTIFICATION":
			return kindNotification
		case "_NET_WM_WINDOW_TYPE_DIALOG",
			"_NET_WM_WINDOW_TYPE_SPLASH",
			"_NET_WM_WINDOW_TYPE_TOOLBAR",
			"_NET_WM_WINDOW_TYPE_UTILITY":
			return kindFloating
		}
	}
	if transient {
		return kindFloating
	}
	return kindNormal
}

// band is the layer band a layer kind lives in.
func (k kind) band() platform.Band {
	switch k {
	case kindDesktop:
		return platform.BandBackground
	case kindNotification:
		return platform.BandOverlay
	default:
		return platform.BandTop
	}
}

func (k kind) layer() bool {
	return k == kindDock || k == kindDesktop || k == kindNotification
}

// window is what the backend remembers about a managed window.
type window struct {
	id   xproto.Window
	kind kind

	deleteWindow bool
	takeFocus    bool

	// want is the last geometry asked for by the core, border included.
	want geom.Rect
	bw   int
	// applied is what the X server was last told; hidden windows sit
	// off screen.
	applied   geom.Rect
	appliedBW int
	hidden    bool

	border     uint32
	fullscreen bool
}

// windowInfo reads the properties used to manage win.
type windowInfo struct {
	appID    string
	title    string
	geometry geom.Rect
	kind     kind

	deleteWindow bool
	takeFocus    bool
	fullscreen   bool
}

func (c *Connection) readWindow(win xproto.Window) windowInfo {
	var info windowInfo
	if g, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(win)).Reply(); err == nil {
		info.geometry = geom.Rect{X: int(g.X), Y: int(g.Y), Width: int(g.Width), Height: int(g.Height)}
	}
	if class, err := icccm.WmClassGet(c.XUtil, win); err == nil {
		info.appID = class.Class
	}
	info.title = c.title(win)

	types, _ := ewmh.WmWindowTypeGet(c.XUtil, win)
	transient := false
	if parent, err := icccm.WmTransientForGet(c.XUtil, win); err == nil && parent != 0 {
		transient = true
	}
	info.kind = classify(types, transient)

	if protocols, err := icccm.WmProtocolsGet(c.XUtil, win); err == nil {
		for _, p := range protocols {
			switch p {
			case "WM_DELETE_WINDOW":
				info.deleteWindow = true
			case "WM_TAKE_FOCUS":
				info.takeFocus = true
			}
		}
	}
	if states, err := ewmh.WmStateGet(c.XUtil, win); err == nil {
		for _, s := range states {
			if s == "_NET_WM_STATE_FULLSCREEN" {
				info.fullscreen = true
			}
		}
	}
	return info
}

// title prefers the EWMH name and falls back to WM_NAME.
func (c *Connection) title(win xproto.Window) string {
	if name, err := ewmh.WmNameGet(c.XUtil, win); err == nil && name != "" {
		return name
	}
	if name, err := icccm.WmNameGet(c.XUtil, win); err == nil && name != "" {
		return name
	}
	return broken
}

// broken names windows whose title cannot be read.
const broken = "broken"

// moveResize applies box, border included, and tells the client about it
// with a synthetic ConfigureNotify as ICCCM requires.
func (c *Connection) moveResize(win xproto.Window, box geom.Rect, bw int) {
	w := max(1, box.Width-2*bw)
	h := max(1, box.Height-2*bw)
	conn := c.XUtil.Conn()
	xproto.ConfigureWindow(conn, win,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight|xproto.ConfigWindowBorderWidth,
		[]uint32{uint32(int32(box.X)), uint32(int32(box.Y)), uint32(w), uint32(h), uint32(bw)})
	c.notifyConfigure(win, box.X, box.Y, w, h, bw)
}

func (c *Connection) notifyConfigure(win xproto.Window, x, y, w, h, bw int) {
	cne := xproto.ConfigureNotifyEvent{
		Event:       win,
		Window:      win,
		X:           int16(x),
		Y:           int16(y),
		Width:       uint16(w),
		Height:      uint16(h),
		BorderWidth: uint16(bw),
	}
	xproto.SendEvent(c.XUtil.Conn(), false, win, xproto.EventMaskStructureNotify, string(cne.Bytes()))
}

// sendProtocol delivers a WM_PROTOCOLS client message such as
// WM_DELETE_WINDOW.
func (c *Connection) sendProtocol(win xproto.Window, protocol string, t xproto.Timestamp) error {
	wmProtocols, err := c.Atom("WM_PROTOCOLS")
	if err != nil {
		return err
	}
	atom, err := c.Atom(protocol)
	if err != nil {
		return err
	}
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: win,
		Type:   wmProtocols,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{uint32(atom), uint32(t), 0, 0, 0}),
	}
	return xproto.SendEventChecked(c.XUtil.Conn(), false, win, xproto.EventMaskNoEvent, string(ev.Bytes())).Check()
}

// closeWindow asks win to close, or kills its client when it does not
// speak WM_DELETE_WINDOW.
func (c *Connection) closeWindow(w *window) error {
	if w.deleteWindow {
		return c.sendProtocol(w.id, "WM_DELETE_WINDOW", xproto.TimeCurrentTime)
	}
	return xproto.KillClientChecked(c.XUtil.Conn(), uint32(w.id)).Check()
}

// passConfigure grants a configure request from a window that is not
// managed, unchanged.
func (c *Connection) passConfigure(e xproto.ConfigureRequestEvent) {
	mask, values := uint16(0), []uint32(nil)
	if e.ValueMask&xproto.ConfigWindowX != 0 {
		mask |= xproto.ConfigWindowX
		values = append(values, uint32(int32(e.X)))
	}
	if e.ValueMask&xproto.ConfigWindowY != 0 {
		mask |= xproto.ConfigWindowY
		values = append(values, uint32(int32(e.Y)))
	}
	if e.ValueMask&xproto.ConfigWindowWidth != 0 {
		mask |= xproto.ConfigWindowWidth
		values = append(values, uint32(e.Width))
	}
	if e.ValueMask&xproto.ConfigWindowHeight != 0 {
		mask |= xproto.ConfigWindowHeight
		values = append(values, uint32(e.Height))
	}
	if e.ValueMask&xproto.ConfigWindowBorderWidth != 0 {
		mask |= xproto.ConfigWindowBorderWidth
		values = append(values, uint32(e.BorderWidth))
	}
	if e.ValueMask&xproto.ConfigWindowSibling != 0 {
		mask |= xproto.ConfigWindowSibling
		values = append(values, uint32(e.Sibling))
	}
	if e.ValueMask&xproto.ConfigWindowStackMode != 0 {
		mask |= xproto.ConfigWindowStackMode
		values = append(values, uint32(e.StackMode))
	}
	xproto.ConfigureWindow(c.XUtil.Conn(), e.Window, mask, values)
}
