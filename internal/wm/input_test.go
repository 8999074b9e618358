package wm

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/tagtile/internal/bindings"
	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/geom"
	"github.com/1broseidon/tagtile/internal/platform"
)

func TestKeyDispatch(t *testing.T) {
	s, fb := newTestState(t, nil)
	addOutput(t, s, 1, "A", 1000, 800)

	tests := []struct {
		name    string
		ev      platform.Key
		handled bool
	}{
		{"bound with caps lock", platform.Key{Syms: []string{"Return"}, Mods: bindings.ModLogo | bindings.ModLock, Pressed: true}, true},
		{"release", platform.Key{Syms: []string{"Return"}, Mods: bindings.ModLogo}, false},
		{"unbound", platform.Key{Syms: []string{"Return"}, Mods: bindings.ModControl, Pressed: true}, false},
		{"second sym matches", platform.Key{Syms: []string{"x", "2"}, Mods: bindings.ModLogo, Pressed: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Dispatch(tt.ev); got != tt.handled {
				t.Fatalf("Dispatch = %v, want %v", got, tt.handled)
			}
		})
	}
	if diff := cmp.Diff([][]string{{config.DefaultTerminal}}, fb.spawned); diff != "" {
		t.Fatalf("spawned mismatch (-want +got):\n%s", diff)
	}
	if s.selmon.Tags() != 0b10 {
		t.Fatalf("MOD-2 should view tag 2, tags = %b", s.selmon.Tags())
	}
}

func TestAllMatchingKeysRun(t *testing.T) {
	s, fb := newTestState(t, func(cfg *config.Config) {
		cfg.Keys = []config.KeyBinding{
			{Key: "MOD-a", Command: "spawn", Arg: "one"},
			{Key: "MOD-a", Command: "spawn", Arg: "two"},
		}
	})
	addOutput(t, s, 1, "A", 1000, 800)
	s.Dispatch(platform.Key{Syms: []string{"a"}, Mods: bindings.ModLogo, Pressed: true})
	if len(fb.spawned) != 2 {
		t.Fatalf("spawned = %v, want both bindings", fb.spawned)
	}
}

func TestSloppyFocusFollowsPointer(t *testing.T) {
	s, fb := newTestState(t, nil)
	addOutput(t, s, 1, "A", 1000, 800)
	mapClient(t, s, 1, "one")
	mapClient(t, s, 2, "two")

	// Client 1 sits in the stack column.
	s.Dispatch(platform.PointerMotion{Absolute: true, X: 800, Y: 600})
	if sel := s.selClient(); sel == nil || sel.Surface != 1 {
		t.Fatalf("sloppy focus picked %v", sel)
	}
	if fb.pointer != (platform.Target{Surface: 1}) {
		t.Fatalf("pointer target = %+v", fb.pointer)
	}
	// Entering without sloppy focus raises nothing.
	if s.clients.Stack.Front() == s.clients.BySurface(1).Handle {
		t.Fatalf("sloppy focus should not raise")
	}
}

func TestClickToFocus(t *testing.T) {
	s, _ := newTestState(t, func(cfg *config.Config) { cfg.SloppyFocus = false })
	addOutput(t, s, 1, "A", 1000, 800)
	mapClient(t, s, 1, "one")
	mapClient(t, s, 2, "two")

	s.Dispatch(platform.PointerMotion{Absolute: true, X: 800, Y: 600})
	if s.selClient().Surface != 2 {
		t.Fatalf("focus moved without sloppy focus")
	}
	if handled := s.Dispatch(platform.PointerButton{Button: bindings.ButtonLeft, Pressed: true}); handled {
		t.Fatalf("plain click should reach the client")
	}
	if s.selClient().Surface != 1 || s.clients.Stack.Front() != s.clients.BySurface(1).Handle {
		t.Fatalf("click should focus and raise client 1")
	}
}

func TestInteractiveMove(t *testing.T) {
	s, fb := newTestState(t, nil)
	addOutput(t, s, 1, "A", 1000, 800)
	c := mapClient(t, s, 1, "one")

	s.Dispatch(platform.PointerMotion{Absolute: true, X: 600, Y: 100})
	if !s.Dispatch(platform.PointerButton{Button: bindings.ButtonLeft, Pressed: true, Mods: bindings.ModLogo}) {
		t.Fatalf("MOD-left should be handled")
	}
	if !c.Floating || fb.cursor != "fleur" {
		t.Fatalf("move grab: floating=%v cursor=%q", c.Floating, fb.cursor)
	}

	if !s.Dispatch(platform.PointerMotion{Absolute: true, X: 650, Y: 150}) {
		t.Fatalf("motion during a grab should be consumed")
	}
	if want := (geom.Rect{X: 50, Y: 50, Width: 1000, Height: 800}); c.Geom != want {
		t.Fatalf("moved geometry = %+v, want %+v", c.Geom, want)
	}

	if !s.Dispatch(platform.PointerButton{Button: bindings.ButtonLeft}) {
		t.Fatalf("release ending a grab should be handled")
	}
	if s.cursor.mode != bindings.ModeNone || fb.cursor != "left_ptr" {
		t.Fatalf("grab not released: mode=%v cursor=%q", s.cursor.mode, fb.cursor)
	}
	if s.Dispatch(platform.PointerButton{Button: bindings.ButtonLeft}) {
		t.Fatalf("plain release should reach the client")
	}
}

func TestInteractiveResize(t *testing.T) {
	s, fb := newTestState(t, nil)
	addOutput(t, s, 1, "A", 1000, 800)
	c := mapClient(t, s, 1, "one")

	s.Dispatch(platform.PointerMotion{Absolute: true, X: 500, Y: 400})
	s.Dispatch(platform.PointerButton{Button: bindings.ButtonRight, Pressed: true, Mods: bindings.ModLogo})
	if fb.cursor != "bottom_right_corner" || len(fb.warps) == 0 {
		t.Fatalf("resize grab: cursor=%q warps=%v", fb.cursor, fb.warps)
	}
	if x, y := s.Cursor(); x != float64(c.Geom.Right()) || y != float64(c.Geom.Bottom()) {
		t.Fatalf("cursor at %v,%v, want bottom-right corner", x, y)
	}

	s.Dispatch(platform.PointerMotion{Absolute: true, X: 300, Y: 200})
	if want := (geom.Rect{Width: 300, Height: 200}); c.Geom != want {
		t.Fatalf("resized geometry = %+v, want %+v", c.Geom, want)
	}
}

func TestCursorClampedToLayout(t *testing.T) {
	s, _ := newTestState(t, nil)
	addOutput(t, s, 1, "A", 1000, 800)
	s.Dispatch(platform.PointerMotion{DX: 5000, DY: -30})
	if x, y := s.Cursor(); x != 999 || y != 0 {
		t.Fatalf("cursor = %v,%v, want 999,0", x, y)
	}
}

func TestUnmapRemovesFromAllOrders(t *testing.T) {
	s, fb := newTestState(t, nil)
	addOutput(t, s, 1, "A", 1000, 800)
	for i := 1; i <= 3; i++ {
		mapClient(t, s, platform.SurfaceID(i), "c")
	}
	h := s.clients.BySurface(3).Handle

	s.Dispatch(platform.SurfaceUnmapped{Surface: 3})
	for name, o := range map[string]*Order{"tiling": &s.clients.Tiling, "focus": &s.clients.Focus, "stack": &s.clients.Stack} {
		if o.Contains(h) || o.Len() != 2 {
			t.Fatalf("%s order = %v after unmap", name, o.Handles())
		}
	}
	if sel := s.selClient(); sel == nil || sel.Surface != 2 || fb.focused != 2 {
		t.Fatalf("focus after unmap = %v (backend %d)", sel, fb.focused)
	}

	s.Dispatch(platform.SurfaceDestroyed{Surface: 3})
	if s.clients.BySurface(3) != nil || s.clients.Len() != 2 {
		t.Fatalf("destroyed client still registered")
	}
}
