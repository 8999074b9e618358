package daemon

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/geom"
	"github.com/1broseidon/tagtile/internal/platform"
	"github.com/1broseidon/tagtile/internal/wm"
)

// nopBackend accepts every request and remembers the last colors.
type nopBackend struct {
	colors atomic.Value
}

func (*nopBackend) Configure(platform.SurfaceID, geom.Rect, int) uint32 { return 0 }
func (*nopBackend) SetActivated(platform.SurfaceID, bool)               {}
func (*nopBackend) SetFullscreen(platform.SurfaceID, bool)              {}
func (*nopBackend) Close(platform.SurfaceID)                            {}
func (*nopBackend) FocusSurface(platform.SurfaceID)                     {}
func (*nopBackend) FocusLayer(platform.LayerID)                         {}
func (*nopBackend) ClearFocus()                                         {}
func (*nopBackend) PointerFocus(platform.Target, float64, float64)      {}
func (*nopBackend) ConfigureLayer(platform.LayerID, geom.Rect)          {}
func (*nopBackend) CloseLayer(platform.LayerID)                         {}
func (*nopBackend) PlaceOutput(platform.OutputID, int, int) error       { return nil }
func (*nopBackend) WarpPointer(float64, float64)                        {}
func (*nopBackend) SetCursor(string)                                    {}
func (*nopBackend) Present(platform.Frame)                              {}
func (*nopBackend) Spawn([]string) error                                { return nil }
func (*nopBackend) Quit()                                               {}

func (b *nopBackend) SetColors(c config.Colors) error {
	b.colors.Store(c)
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startController(t *testing.T, path string) (*Controller, *nopBackend) {
	t.Helper()
	backend := &nopBackend{}
	state, err := wm.New(wm.Options{Backend: backend, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("wm.New: %v", err)
	}
	loop := wm.NewLoop(state, make(chan wm.Event), quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		loop.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return NewController(loop, path, backend, quietLogger()), backend
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

const reloadedConfig = `
tags: ["web", "code", "3", "4", "5", "6", "7", "8", "9"]
colors:
  focus: "#00ff00"
`

func TestControllerReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	ctrl, backend := startController(t, path)
	ctx := context.Background()

	writeFile(t, path, reloadedConfig)
	if err := ctrl.Reload(ctx); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	snap, err := ctrl.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	want := []string{"web", "code", "3", "4", "5", "6", "7", "8", "9"}
	if diff := cmp.Diff(want, snap.Tags); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}
	colors, _ := backend.colors.Load().(config.Colors)
	if colors.Focus != "#00ff00" {
		t.Fatalf("focus color = %q, want #00ff00", colors.Focus)
	}

	writeFile(t, path, "no_such_key: 1\n")
	if err := ctrl.Reload(ctx); err == nil {
		t.Fatalf("Reload accepted an unknown key")
	}
	snap, _ = ctrl.Snapshot(ctx)
	if diff := cmp.Diff(want, snap.Tags); diff != "" {
		t.Fatalf("failed reload changed tags (-want +got):\n%s", diff)
	}
}

func TestControllerExec(t *testing.T) {
	ctrl, _ := startController(t, filepath.Join(t.TempDir(), "config.yaml"))
	ctx := context.Background()

	before, _ := ctrl.Snapshot(ctx)
	if err := ctrl.Exec(ctx, "togglegaps", nil); err != nil {
		t.Fatalf("Exec togglegaps: %v", err)
	}
	after, _ := ctrl.Snapshot(ctx)
	if after.GapsEnabled == before.GapsEnabled {
		t.Fatalf("togglegaps did not flip gaps (still %v)", after.GapsEnabled)
	}

	if err := ctrl.Exec(ctx, "no-such-command", nil); err == nil {
		t.Fatalf("Exec accepted an unknown command")
	}
}

func TestWatchConfigDebounces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "tags: [\"1\"]\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reloads := make(chan struct{}, 8)
	go WatchConfig(ctx, quietLogger(), path, func() { reloads <- struct{}{} })

	deadline := time.After(3 * time.Second)
	tick := time.NewTicker(600 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case <-reloads:
			return
		case <-tick.C:
			writeFile(t, path, reloadedConfig)
		case <-deadline:
			t.Fatalf("no reload after writing %s", path)
		}
	}
}
