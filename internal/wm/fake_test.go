package wm

import (
	"io"
	"log/slog"
	"testing"

	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/geom"
	"github.com/1broseidon/tagtile/internal/platform"
)

// fakeBackend records what the core asked the platform to do.
type fakeBackend struct {
	configured map[platform.SurfaceID]geom.Rect
	activated  map[platform.SurfaceID]bool
	fullscreen map[platform.SurfaceID]bool
	layerBoxes map[platform.LayerID]geom.Rect
	placed     map[platform.OutputID][2]int

	focused      platform.SurfaceID
	focusCalls   int
	focusedLayer platform.LayerID
	pointer      platform.Target
	closed       []platform.SurfaceID
	closedLayers []platform.LayerID
	cursor       string
	warps        [][2]float64
	spawned      [][]string
	frames       int
	last         platform.Frame
	quit         bool

	// serials makes Configure hand out increasing serials.
	serials bool
	serial  uint32
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		configured: make(map[platform.SurfaceID]geom.Rect),
		activated:  make(map[platform.SurfaceID]bool),
		fullscreen: make(map[platform.SurfaceID]bool),
		layerBoxes: make(map[platform.LayerID]geom.Rect),
		placed:     make(map[platform.OutputID][2]int),
	}
}

func (f *fakeBackend) Configure(s platform.SurfaceID, box geom.Rect, bw int) uint32 {
	f.configured[s] = box
	if !f.serials {
		return 0
	}
	f.serial++
	return f.serial
}

func (f *fakeBackend) SetActivated(s platform.SurfaceID, a bool) { f.activated[s] = a }
func (f *fakeBackend) SetFullscreen(s platform.SurfaceID, fs bool) { f.fullscreen[s] = fs }
func (f *fakeBackend) Close(s platform.SurfaceID)                 { f.closed = append(f.closed, s) }

func (f *fakeBackend) FocusSurface(s platform.SurfaceID) {
	f.focused = s
	f.focusedLayer = 0
	f.focusCalls++
}

func (f *fakeBackend) FocusLayer(l platform.LayerID) {
	f.focusedLayer = l
	f.focused = 0
}

func (f *fakeBackend) ClearFocus() {
	f.focused = 0
	f.focusedLayer = 0
}

func (f *fakeBackend) PointerFocus(t platform.Target, sx, sy float64) { f.pointer = t }

func (f *fakeBackend) ConfigureLayer(l platform.LayerID, box geom.Rect) { f.layerBoxes[l] = box }
func (f *fakeBackend) CloseLayer(l platform.LayerID)                    { f.closedLayers = append(f.closedLayers, l) }

func (f *fakeBackend) PlaceOutput(o platform.OutputID, x, y int) error {
	f.placed[o] = [2]int{x, y}
	return nil
}

func (f *fakeBackend) WarpPointer(x, y float64) { f.warps = append(f.warps, [2]float64{x, y}) }
func (f *fakeBackend) SetCursor(name string)    { f.cursor = name }

func (f *fakeBackend) Present(fr platform.Frame) {
	f.frames++
	f.last = fr
}

func (f *fakeBackend) Spawn(argv []string) error {
	f.spawned = append(f.spawned, argv)
	return nil
}

func (f *fakeBackend) Quit() { f.quit = true }

// newTestState builds a State with gaps disabled so geometry is easy to
// reason about. mutate may adjust the configuration first.
func newTestState(t *testing.T, mutate func(*config.Config)) (*State, *fakeBackend) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Gaps.Enabled = false
	if mutate != nil {
		mutate(cfg)
	}
	fb := newFakeBackend()
	s, err := New(Options{
		Backend: fb,
		Config:  cfg,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return s, fb
}

func addOutput(t *testing.T, s *State, id platform.OutputID, name string, w, h int) *Monitor {
	t.Helper()
	s.Dispatch(platform.OutputAdded{Output: id, Name: name, Width: w, Height: h})
	m := s.monitor(id)
	if m == nil {
		t.Fatalf("monitor %q not created", name)
	}
	return m
}

func mapClient(t *testing.T, s *State, id platform.SurfaceID, appID string) *Client {
	t.Helper()
	s.Dispatch(platform.SurfaceCreated{Surface: id})
	s.Dispatch(platform.SurfaceMapped{
		Surface: id,
		AppID:   appID,
		Title:   appID,
		Natural: geom.Rect{Width: 100, Height: 100},
	})
	c := s.clients.BySurface(id)
	if c == nil || !c.Mapped {
		t.Fatalf("client %d not mapped", id)
	}
	return c
}
