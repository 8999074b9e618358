package x11

import (
	"fmt"
	"log/slog"
	"os/exec"
	"slices"
	"sync"
	"syscall"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/geom"
	"github.com/1broseidon/tagtile/internal/platform"
)

// Cursor font glyphs from cursorfont.h.
var cursorGlyphs = map[string]uint16{
	"left_ptr":            68,
	"fleur":               52,
	"bottom_right_corner": 14,
}

// Backend drives an X server as its window manager. It implements
// platform.Backend for the core and turns X events into platform events.
type Backend struct {
	conn *Connection
	log  *slog.Logger

	events chan platform.Event
	// done is the Done channel of the context Run was given.
	done     <-chan struct{}
	quit     chan struct{}
	quitOnce sync.Once
	lockMask uint16
	support  xproto.Window

	mu         sync.Mutex
	windows    map[xproto.Window]*window
	outputs    []Output
	cursors    map[string]xproto.Cursor
	stack      []xproto.Window
	clientList []xproto.Window
	border     uint32
	focus      uint32
}

// NewBackend takes over window management on conn. It fails when another
// window manager is running.
func NewBackend(conn *Connection, colors config.Colors, logger *slog.Logger) (*Backend, error) {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Backend{
		conn:    conn,
		log:     logger,
		events:  make(chan platform.Event, 256),
		quit:    make(chan struct{}),
		windows: make(map[xproto.Window]*window),
		cursors: make(map[string]xproto.Cursor),
	}
	if err := conn.BecomeWM(); err != nil {
		return nil, err
	}
	conn.initExtensions()
	if err := conn.internAtoms("WM_PROTOCOLS", "WM_DELETE_WINDOW", "WM_TAKE_FOCUS",
		"_NET_WM_NAME", "_NET_WM_STATE", "_NET_WM_STATE_FULLSCREEN"); err != nil {
		return nil, err
	}
	b.lockMask = configureIgnoreMods(conn.XUtil)
	if err := b.SetColors(colors); err != nil {
		return nil, err
	}
	if err := b.initCursors(); err != nil {
		return nil, err
	}
	if err := b.initEWMH(); err != nil {
		return nil, err
	}
	b.SetCursor("left_ptr")
	return b, nil
}

// Events delivers translated platform events. It is closed when Run
// returns.
func (b *Backend) Events() <-chan platform.Event {
	return b.events
}

// SetColors updates the root background and border pixels.
func (b *Backend) SetColors(colors config.Colors) error {
	root, err := config.ParseColor(colors.Root)
	if err != nil {
		return err
	}
	border, err := config.ParseColor(colors.Border)
	if err != nil {
		return err
	}
	focus, err := config.ParseColor(colors.Focus)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.border, b.focus = border.Pixel(), focus.Pixel()
	b.mu.Unlock()

	conn := b.conn.XUtil.Conn()
	xproto.ChangeWindowAttributes(conn, b.conn.Root, xproto.CwBackPixel, []uint32{root.Pixel()})
	xproto.ClearArea(conn, false, b.conn.Root, 0, 0, 0, 0)
	return nil
}

func (b *Backend) initCursors() error {
	conn := b.conn.XUtil.Conn()
	font, err := xproto.NewFontId(conn)
	if err != nil {
		return err
	}
	if err := xproto.OpenFontChecked(conn, font, uint16(len("cursor")), "cursor").Check(); err != nil {
		return fmt.Errorf("open cursor font: %w", err)
	}
	defer xproto.CloseFont(conn, font)

	for name, glyph := range cursorGlyphs {
		cur, err := xproto.NewCursorId(conn)
		if err != nil {
			return err
		}
		if err := xproto.CreateGlyphCursorChecked(conn, cur, font, font, glyph, glyph+1,
			0, 0, 0, 0xffff, 0xffff, 0xffff).Check(); err != nil {
			return fmt.Errorf("create cursor %s: %w", name, err)
		}
		b.cursors[name] = cur
	}
	return nil
}

// initEWMH creates the supporting check window and advertises what the
// window manager understands.
func (b *Backend) initEWMH() error {
	xu := b.conn.XUtil
	conn := xu.Conn()
	win, err := xproto.NewWindowId(conn)
	if err != nil {
		return err
	}
	if err := xproto.CreateWindowChecked(conn, 0, win, b.conn.Root, -1, -1, 1, 1, 0,
		xproto.WindowClassInputOnly, 0, xproto.CwOverrideRedirect, []uint32{1}).Check(); err != nil {
		return fmt.Errorf("create check window: %w", err)
	}
	b.support = win
	if err := ewmh.SupportingWmCheckSet(xu, b.conn.Root, win); err != nil {
		return err
	}
	if err := ewmh.SupportingWmCheckSet(xu, win, win); err != nil {
		return err
	}
	if err := ewmh.WmNameSet(xu, win, "tagtile"); err != nil {
		return err
	}
	return ewmh.SupportedSet(xu, []string{
		"_NET_SUPPORTED",
		"_NET_SUPPORTING_WM_CHECK",
		"_NET_WM_NAME",
		"_NET_WM_STATE",
		"_NET_WM_STATE_FULLSCREEN",
		"_NET_WM_WINDOW_TYPE",
		"_NET_WM_WINDOW_TYPE_DOCK",
		"_NET_WM_WINDOW_TYPE_DESKTOP",
		"_NET_WM_WINDOW_TYPE_DIALOG",
		"_NET_WM_WINDOW_TYPE_NOTIFICATION",
		"_NET_WM_STRUT",
		"_NET_WM_STRUT_PARTIAL",
		"_NET_ACTIVE_WINDOW",
		"_NET_CLIENT_LIST",
	})
}

func (b *Backend) lookup(id uint32) *window {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.windows[xproto.Window(id)]
}

// Configure records box for the next Present. X applies geometry
// synchronously, so no acknowledgement is awaited.
func (b *Backend) Configure(s platform.SurfaceID, box geom.Rect, bw int) uint32 {
	if w := b.lookup(uint32(s)); w != nil {
		b.mu.Lock()
		w.want, w.bw = box, bw
		b.mu.Unlock()
	}
	return 0
}

func (b *Backend) SetActivated(s platform.SurfaceID, activated bool) {
	w := b.lookup(uint32(s))
	if w == nil {
		return
	}
	b.mu.Lock()
	pixel := b.border
	if activated {
		pixel = b.focus
	}
	changed := w.border != pixel
	w.border = pixel
	b.mu.Unlock()
	if changed {
		xproto.ChangeWindowAttributes(b.conn.XUtil.Conn(), w.id, xproto.CwBorderPixel, []uint32{pixel})
	}
}

func (b *Backend) SetFullscreen(s platform.SurfaceID, fullscreen bool) {
	w := b.lookup(uint32(s))
	if w == nil {
		return
	}
	b.mu.Lock()
	w.fullscreen = fullscreen
	b.mu.Unlock()
	states := []string{}
	if fullscreen {
		states = append(states, "_NET_WM_STATE_FULLSCREEN")
	}
	if err := ewmh.WmStateSet(b.conn.XUtil, w.id, states); err != nil {
		b.log.Warn("set fullscreen state failed", "window", w.id, "error", err)
	}
}

func (b *Backend) Close(s platform.SurfaceID) {
	if w := b.lookup(uint32(s)); w != nil {
		if err := b.conn.closeWindow(w); err != nil {
			b.log.Warn("close window failed", "window", w.id, "error", err)
		}
	}
}

func (b *Backend) FocusSurface(s platform.SurfaceID) {
	w := b.lookup(uint32(s))
	if w == nil {
		return
	}
	xproto.SetInputFocus(b.conn.XUtil.Conn(), xproto.InputFocusPointerRoot, w.id, xproto.TimeCurrentTime)
	if w.takeFocus {
		if err := b.conn.sendProtocol(w.id, "WM_TAKE_FOCUS", xproto.TimeCurrentTime); err != nil {
			b.log.Debug("WM_TAKE_FOCUS failed", "window", w.id, "error", err)
		}
	}
	if err := ewmh.ActiveWindowSet(b.conn.XUtil, w.id); err != nil {
		b.log.Debug("set active window failed", "error", err)
	}
}

func (b *Backend) FocusLayer(l platform.LayerID) {
	if w := b.lookup(uint32(l)); w != nil {
		xproto.SetInputFocus(b.conn.XUtil.Conn(), xproto.InputFocusPointerRoot, w.id, xproto.TimeCurrentTime)
	}
}

func (b *Backend) ClearFocus() {
	xproto.SetInputFocus(b.conn.XUtil.Conn(), xproto.InputFocusPointerRoot, b.conn.Root, xproto.TimeCurrentTime)
	if err := ewmh.ActiveWindowSet(b.conn.XUtil, 0); err != nil {
		b.log.Debug("clear active window failed", "error", err)
	}
}

// PointerFocus is a no-op: the X server routes pointer events to the
// window under the cursor itself.
func (b *Backend) PointerFocus(platform.Target, float64, float64) {}

func (b *Backend) ConfigureLayer(l platform.LayerID, box geom.Rect) {
	w := b.lookup(uint32(l))
	if w == nil {
		return
	}
	b.mu.Lock()
	w.want = box
	same := w.applied == box
	w.applied = box
	b.mu.Unlock()
	if !same {
		b.conn.moveResize(w.id, box, 0)
	}
}

func (b *Backend) CloseLayer(l platform.LayerID) {
	if w := b.lookup(uint32(l)); w != nil {
		if err := b.conn.closeWindow(w); err != nil {
			b.log.Warn("close layer failed", "window", w.id, "error", err)
		}
	}
}

func (b *Backend) PlaceOutput(o platform.OutputID, x, y int) error {
	b.mu.Lock()
	i := slices.IndexFunc(b.outputs, func(out Output) bool { return out.ID == o })
	if i < 0 {
		b.mu.Unlock()
		return fmt.Errorf("unknown output %d", o)
	}
	out := b.outputs[i]
	b.mu.Unlock()

	if err := b.conn.PlaceOutput(out, x, y); err != nil {
		return err
	}
	b.mu.Lock()
	if i := slices.IndexFunc(b.outputs, func(out Output) bool { return out.ID == o }); i >= 0 {
		b.outputs[i].Box.X, b.outputs[i].Box.Y = x, y
	}
	b.mu.Unlock()
	return nil
}

func (b *Backend) WarpPointer(x, y float64) {
	xproto.WarpPointer(b.conn.XUtil.Conn(), xproto.WindowNone, b.conn.Root, 0, 0, 0, 0, int16(x), int16(y))
}

// SetCursor sets the root cursor and, during a pointer grab, the grab
// cursor.
func (b *Backend) SetCursor(name string) {
	b.mu.Lock()
	cur, ok := b.cursors[name]
	b.mu.Unlock()
	if !ok {
		return
	}
	conn := b.conn.XUtil.Conn()
	xproto.ChangeWindowAttributes(conn, b.conn.Root, xproto.CwCursor, []uint32{uint32(cur)})
	xproto.ChangeActivePointerGrab(conn, cur, xproto.TimeCurrentTime,
		xproto.EventMaskButtonPress|xproto.EventMaskButtonRelease|xproto.EventMaskPointerMotion)
}

// Present shows the visible clients at their configured geometry, parks
// hidden ones off screen, and restacks layers around the clients.
func (b *Backend) Present(f platform.Frame) {
	conn := b.conn.XUtil.Conn()
	b.mu.Lock()
	defer b.mu.Unlock()

	var above, below, clients []xproto.Window
	for _, l := range f.Layers {
		win := xproto.Window(l.Layer)
		if b.windows[win] == nil {
			continue
		}
		if l.Band >= platform.BandTop {
			above = append(above, win)
		} else {
			below = append(below, win)
		}
	}
	for _, e := range f.Entries {
		w := b.windows[xproto.Window(e.Surface)]
		if w == nil {
			continue
		}
		clients = append(clients, w.id)
		if e.Visible && !e.Pending {
			if w.hidden || w.applied != e.Geom || w.appliedBW != e.BW {
				b.conn.moveResize(w.id, e.Geom, e.BW)
				w.applied, w.appliedBW, w.hidden = e.Geom, e.BW, false
			}
			continue
		}
		if !e.Visible && !w.hidden {
			hide := e.Geom
			hide.X = -2 * max(1, e.Geom.Width)
			b.conn.moveResize(w.id, hide, e.BW)
			w.applied, w.appliedBW, w.hidden = hide, e.BW, true
		}
	}

	// The frame runs back to front; the restack below goes front to back.
	front := slices.Clone(clients)
	slices.Reverse(front)
	slices.Reverse(above)
	slices.Reverse(below)
	stack := slices.Concat(above, front, below)
	if !slices.Equal(stack, b.stack) {
		for i, win := range stack {
			if i == 0 {
				xproto.ConfigureWindow(conn, win, xproto.ConfigWindowStackMode, []uint32{xproto.StackModeAbove})
				continue
			}
			xproto.ConfigureWindow(conn, win, xproto.ConfigWindowSibling|xproto.ConfigWindowStackMode,
				[]uint32{uint32(stack[i-1]), xproto.StackModeBelow})
		}
		b.stack = stack
	}
	if !slices.Equal(clients, b.clientList) {
		if err := ewmh.ClientListSet(b.conn.XUtil, clients); err != nil {
			b.log.Debug("set client list failed", "error", err)
		}
		b.clientList = clients
	}
}

// Spawn starts argv in its own session.
func (b *Backend) Spawn(argv []string) error {
	if len(argv) == 0 {
		return fmt.Errorf("empty command")
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait()
	return nil
}

// Quit makes Run return.
func (b *Backend) Quit() {
	b.quitOnce.Do(func() { close(b.quit) })
}
