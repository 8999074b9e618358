package x11

import (
	"context"
	"fmt"
	"slices"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"

	"github.com/1broseidon/tagtile/internal/platform"
)

type xEventOrError struct {
	event xgb.Event
	error xgb.Error
}

// Run announces the current outputs and windows, then translates X events
// until ctx is done, Quit is called or the connection drops. Events is
// closed on return.
func (b *Backend) Run(ctx context.Context) error {
	defer close(b.events)
	b.done = ctx.Done()

	if err := b.rescanOutputs(); err != nil {
		return err
	}
	if err := b.scanWindows(); err != nil {
		return err
	}

	done := make(chan struct{})
	defer close(done)
	eeChan := make(chan xEventOrError)
	go func() {
		for {
			e, err := b.conn.XUtil.Conn().WaitForEvent()
			if e == nil && err == nil {
				close(eeChan)
				return
			}
			select {
			case eeChan <- xEventOrError{e, err}:
			case <-done:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-b.quit:
			return nil
		case ee, ok := <-eeChan:
			if !ok {
				return fmt.Errorf("x11: connection closed")
			}
			if ee.error != nil {
				b.log.Debug("X error", "error", ee.error)
				continue
			}
			b.handle(ee.event)
		}
	}
}

// emit hands ev to the core. It gives up once Run's context is done or Quit
// was called, so a full buffer cannot wedge the event goroutine.
func (b *Backend) emit(ev platform.Event) {
	select {
	case b.events <- ev:
	case <-b.quit:
	case <-b.done:
	}
}

func (b *Backend) handle(ev xgb.Event) {
	switch e := ev.(type) {
	case xproto.MapRequestEvent:
		b.manage(e.Window, true)
	case xproto.UnmapNotifyEvent:
		b.unmapped(e.Window)
	case xproto.DestroyNotifyEvent:
		b.destroyed(e.Window)
	case xproto.ConfigureRequestEvent:
		b.configureRequest(e)
	case xproto.PropertyNotifyEvent:
		b.propertyChanged(e)
	case xproto.ClientMessageEvent:
		b.clientMessage(e)
	case xproto.KeyPressEvent:
		b.emit(platform.Key{Syms: keySyms(b.conn.XUtil, e.State, e.Detail), Mods: modifiers(e.State, b.lockMask), Pressed: true})
	case xproto.KeyReleaseEvent:
		b.emit(platform.Key{Syms: keySyms(b.conn.XUtil, e.State, e.Detail), Mods: modifiers(e.State, b.lockMask)})
	case xproto.ButtonPressEvent:
		b.emit(platform.PointerMotion{Absolute: true, X: float64(e.RootX), Y: float64(e.RootY), Time: uint32(e.Time)})
		b.emit(platform.PointerButton{Button: uint32(e.Detail), Pressed: true, Mods: modifiers(e.State, b.lockMask), Time: uint32(e.Time)})
		if e.Event != b.conn.Root {
			// Click-to-focus grab on a client: let the click through.
			xproto.AllowEvents(b.conn.XUtil.Conn(), xproto.AllowReplayPointer, e.Time)
		}
	case xproto.ButtonReleaseEvent:
		b.emit(platform.PointerButton{Button: uint32(e.Detail), Mods: modifiers(e.State, b.lockMask), Time: uint32(e.Time)})
	case xproto.MotionNotifyEvent:
		b.emit(platform.PointerMotion{Absolute: true, X: float64(e.RootX), Y: float64(e.RootY), Time: uint32(e.Time)})
	case xproto.EnterNotifyEvent:
		if e.Mode != xproto.NotifyModeNormal || e.Detail == xproto.NotifyDetailInferior {
			return
		}
		b.emit(platform.PointerMotion{Absolute: true, X: float64(e.RootX), Y: float64(e.RootY), Time: uint32(e.Time)})
	case randr.ScreenChangeNotifyEvent:
		if err := b.rescanOutputs(); err != nil {
			b.log.Warn("output rescan failed", "error", err)
		}
	case xproto.MappingNotifyEvent:
		b.log.Debug("keyboard mapping changed")
	default:
		b.log.Debug("unhandled X event", "event", fmt.Sprintf("%T", ev))
	}
}

// scanWindows manages windows mapped before the window manager started.
func (b *Backend) scanWindows() error {
	tree, err := xproto.QueryTree(b.conn.XUtil.Conn(), b.conn.Root).Reply()
	if err != nil {
		return fmt.Errorf("query window tree: %w", err)
	}
	for _, win := range tree.Children {
		if win == b.support {
			continue
		}
		attrs, err := xproto.GetWindowAttributes(b.conn.XUtil.Conn(), win).Reply()
		if err != nil || attrs.OverrideRedirect || attrs.MapState != xproto.MapStateViewable {
			continue
		}
		b.manage(win, false)
	}
	return nil
}

// manage starts managing win as a client or, for docks, desktops and
// notifications, as a layer surface.
func (b *Backend) manage(win xproto.Window, mapRequest bool) {
	conn := b.conn.XUtil.Conn()
	attrs, err := xproto.GetWindowAttributes(conn, win).Reply()
	if err != nil {
		return
	}
	if attrs.OverrideRedirect {
		if mapRequest {
			xproto.MapWindow(conn, win)
		}
		return
	}

	info := b.conn.readWindow(win)
	b.mu.Lock()
	w, known := b.windows[win]
	if !known {
		w = &window{id: win, kind: info.kind, deleteWindow: info.deleteWindow, takeFocus: info.takeFocus}
		b.windows[win] = w
	}
	outputs := slices.Clone(b.outputs)
	b.mu.Unlock()

	if w.kind.layer() {
		b.manageLayer(w, info, outputs, !known)
		if mapRequest {
			xproto.MapWindow(conn, win)
		}
		b.emit(platform.LayerMapped{Layer: platform.LayerID(win)})
		return
	}

	if !known {
		xproto.ChangeWindowAttributes(conn, win, xproto.CwEventMask,
			[]uint32{xproto.EventMaskEnterWindow | xproto.EventMaskPropertyChange})
		xproto.GrabButton(conn, false, win, xproto.EventMaskButtonPress,
			xproto.GrabModeSync, xproto.GrabModeAsync, xproto.WindowNone, xproto.CursorNone,
			xproto.ButtonIndexAny, xproto.ModMaskAny)
		b.emit(platform.SurfaceCreated{Surface: platform.SurfaceID(win)})
	}
	if err := icccm.WmStateSet(b.conn.XUtil, win, &icccm.WmState{State: icccm.StateNormal}); err != nil {
		b.log.Debug("set WM_STATE failed", "window", win, "error", err)
	}
	if mapRequest {
		xproto.MapWindow(conn, win)
	}
	b.emit(platform.SurfaceMapped{
		Surface:  platform.SurfaceID(win),
		AppID:    info.appID,
		Title:    info.title,
		Natural:  info.geometry,
		Floating: info.kind == kindFloating,
	})
	b.mu.Lock()
	current := w.fullscreen
	b.mu.Unlock()
	if mapFullscreen(info.fullscreen, current) {
		b.emit(platform.FullscreenRequested{Surface: platform.SurfaceID(win)})
	}
}

func (b *Backend) manageLayer(w *window, info windowInfo, outputs []Output, created bool) {
	var st platform.LayerState
	switch w.kind {
	case kindDock:
		st = dockState(b.conn.strutPartial(w.id), info.geometry)
	case kindDesktop:
		st = platform.LayerState{
			Anchor:        platform.AnchorTop | platform.AnchorBottom | platform.AnchorLeft | platform.AnchorRight,
			ExclusiveZone: -1,
		}
	case kindNotification:
		st = platform.LayerState{
			Anchor:        platform.AnchorTop | platform.AnchorRight,
			DesiredWidth:  info.geometry.Width,
			DesiredHeight: info.geometry.Height,
		}
	}
	id := platform.LayerID(w.id)
	if created {
		b.emit(platform.LayerCreated{
			Layer:     id,
			Output:    outputAt(outputs, info.geometry),
			Band:      w.kind.band(),
			Namespace: info.appID,
			State:     st,
		})
	}
	b.emit(platform.LayerCommitted{Layer: id, Band: w.kind.band(), State: st})
}

func (b *Backend) unmapped(win xproto.Window) {
	w := b.lookup(uint32(win))
	if w == nil {
		return
	}
	if w.kind.layer() {
		b.emit(platform.LayerUnmapped{Layer: platform.LayerID(win)})
		return
	}
	// Withdrawn windows drop _NET_WM_STATE; a remap starts from windowed.
	b.mu.Lock()
	wasFullscreen := w.fullscreen
	w.fullscreen = false
	b.mu.Unlock()
	if wasFullscreen {
		if err := ewmh.WmStateSet(b.conn.XUtil, win, []string{}); err != nil {
			b.log.Debug("clear _NET_WM_STATE failed", "window", win, "error", err)
		}
	}
	b.emit(platform.SurfaceUnmapped{Surface: platform.SurfaceID(win)})
}

func (b *Backend) destroyed(win xproto.Window) {
	b.mu.Lock()
	w := b.windows[win]
	delete(b.windows, win)
	b.mu.Unlock()
	if w == nil {
		return
	}
	if w.kind.layer() {
		b.emit(platform.LayerDestroyed{Layer: platform.LayerID(win)})
		return
	}
	b.emit(platform.SurfaceDestroyed{Surface: platform.SurfaceID(win)})
}

// configureRequest answers managed clients with their current geometry and
// grants everything else.
func (b *Backend) configureRequest(e xproto.ConfigureRequestEvent) {
	w := b.lookup(uint32(e.Window))
	if w == nil || w.kind.layer() {
		b.conn.passConfigure(e)
		return
	}
	b.mu.Lock()
	box, bw := w.applied, w.appliedBW
	b.mu.Unlock()
	if box.Empty() {
		b.conn.passConfigure(e)
		return
	}
	b.conn.notifyConfigure(w.id, box.X, box.Y, max(1, box.Width-2*bw), max(1, box.Height-2*bw), bw)
}

func (b *Backend) propertyChanged(e xproto.PropertyNotifyEvent) {
	w := b.lookup(uint32(e.Window))
	if w == nil || w.kind.layer() {
		return
	}
	netName, _ := b.conn.Atom("_NET_WM_NAME")
	if e.Atom != xproto.AtomWmName && e.Atom != netName {
		return
	}
	info := b.conn.readWindow(e.Window)
	b.emit(platform.SurfaceRetitled{Surface: platform.SurfaceID(e.Window), AppID: info.appID, Title: info.title})
}

// _NET_WM_STATE actions.
const (
	stateRemove = 0
	stateAdd    = 1
	stateToggle = 2
)

func (b *Backend) clientMessage(e xproto.ClientMessageEvent) {
	w := b.lookup(uint32(e.Window))
	if w == nil || w.kind.layer() || e.Format != 32 {
		return
	}
	netState, _ := b.conn.Atom("_NET_WM_STATE")
	fullscreen, _ := b.conn.Atom("_NET_WM_STATE_FULLSCREEN")
	if e.Type != netState {
		return
	}
	data := e.Data.Data32
	if xproto.Atom(data[1]) != fullscreen && xproto.Atom(data[2]) != fullscreen {
		return
	}
	b.mu.Lock()
	current := w.fullscreen
	b.mu.Unlock()
	if wantFullscreen(data[0], current) != current {
		b.emit(platform.FullscreenRequested{Surface: platform.SurfaceID(e.Window)})
	}
}

// mapFullscreen reports whether a window mapping with _NET_WM_STATE_FULLSCREEN
// set needs a request. Requests toggle, so a window already fullscreen on
// our side gets none.
func mapFullscreen(requested, current bool) bool {
	return requested && wantFullscreen(stateAdd, current) != current
}

func wantFullscreen(action uint32, current bool) bool {
	switch action {
	case stateRemove:
		return false
	case stateAdd:
		return true
	case stateToggle:
		return !current
	}
	return current
}

// rescanOutputs diffs the server's outputs against the known ones and
// announces the changes.
func (b *Backend) rescanOutputs() error {
	outputs, err := b.conn.Outputs()
	if err != nil {
		return err
	}
	b.mu.Lock()
	old := b.outputs
	b.outputs = outputs
	b.mu.Unlock()

	for _, o := range old {
		if !slices.ContainsFunc(outputs, func(n Output) bool { return n.ID == o.ID }) {
			b.log.Info("output removed", "output", o.Name)
			b.emit(platform.OutputRemoved{Output: o.ID})
		}
	}
	moved := false
	for _, o := range outputs {
		i := slices.IndexFunc(old, func(p Output) bool { return p.ID == o.ID })
		if i < 0 {
			b.log.Info("output added", "output", o.Name, "box", o.Box)
			b.emit(platform.OutputAdded{Output: o.ID, Name: o.Name, X: o.Box.X, Y: o.Box.Y, Width: o.Box.Width, Height: o.Box.Height})
			continue
		}
		if old[i].Box != o.Box {
			moved = true
		}
	}
	if !moved {
		return nil
	}
	boxes := make([]platform.OutputBox, len(outputs))
	for i, o := range outputs {
		boxes[i] = platform.OutputBox{Output: o.ID, Box: o.Box}
	}
	b.emit(platform.OutputLayoutChanged{Outputs: boxes})
	return nil
}
