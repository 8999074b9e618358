package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"nhooyr.io/websocket"

	"github.com/1broseidon/tagtile/internal/geom"
	"github.com/1broseidon/tagtile/internal/wm"
)

type fakeController struct {
	mu    sync.Mutex
	snap  wm.Snapshot
	ran   []commandRequest
	snaps chan wm.Snapshot
}

func (f *fakeController) Snapshot(context.Context) (wm.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap, nil
}

func (f *fakeController) Exec(_ context.Context, command string, arg any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if command == "bogus" {
		return errors.New(`unknown command "bogus"`)
	}
	f.ran = append(f.ran, commandRequest{Command: command, Arg: arg})
	return nil
}

func (f *fakeController) Subscribe() (<-chan wm.Snapshot, func()) {
	return f.snaps, func() {}
}

func newTestServer(t *testing.T) (*fakeController, *httptest.Server) {
	t.Helper()
	ctrl := &fakeController{
		snap: wm.Snapshot{
			Monitors: []wm.MonitorStatus{{
				Output:   1,
				Name:     "DP-1",
				Geometry: geom.Rect{Width: 1920, Height: 1080},
				Tags:     1,
				Layout:   "[]=",
				Selected: true,
			}},
			Clients: []wm.ClientStatus{{
				Surface: 3,
				AppID:   "foot",
				Monitor: "DP-1",
				Tags:    1,
				Visible: true,
			}},
			SelectedMonitor: "DP-1",
		},
		snaps: make(chan wm.Snapshot, 1),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(NewServer(ctrl, logger).Handler())
	t.Cleanup(srv.Close)
	return ctrl, srv
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestGetRoutes(t *testing.T) {
	ctrl, srv := newTestServer(t)

	var snap wm.Snapshot
	if code := getJSON(t, srv.URL+"/api/status", &snap); code != http.StatusOK {
		t.Fatalf("status code = %d", code)
	}
	if diff := cmp.Diff(ctrl.snap, snap); diff != "" {
		t.Fatalf("status mismatch (-want +got):\n%s", diff)
	}

	var clients struct {
		Items []wm.ClientStatus `json:"items"`
	}
	getJSON(t, srv.URL+"/api/clients", &clients)
	if diff := cmp.Diff(ctrl.snap.Clients, clients.Items); diff != "" {
		t.Fatalf("clients mismatch (-want +got):\n%s", diff)
	}

	var monitor struct {
		Item wm.MonitorStatus `json:"item"`
	}
	if code := getJSON(t, srv.URL+"/api/monitors/DP-1", &monitor); code != http.StatusOK {
		t.Fatalf("monitor code = %d", code)
	}
	if monitor.Item.Layout != "[]=" {
		t.Fatalf("monitor layout = %q", monitor.Item.Layout)
	}
	if code := getJSON(t, srv.URL+"/api/monitors/VGA-9", nil); code != http.StatusNotFound {
		t.Fatalf("missing monitor code = %d, want 404", code)
	}
	if code := getJSON(t, srv.URL+"/nope", nil); code != http.StatusNotFound {
		t.Fatalf("unknown path code = %d, want 404", code)
	}
}

func TestPostCommand(t *testing.T) {
	ctrl, srv := newTestServer(t)

	tests := []struct {
		body string
		want int
	}{
		{`{"command":"view","arg":"all"}`, http.StatusOK},
		{`{"command":"bogus"}`, http.StatusBadRequest},
		{`{"arg":1}`, http.StatusUnprocessableEntity},
		{`not json`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		resp, err := http.Post(srv.URL+"/api/commands", "application/json", strings.NewReader(tt.body))
		if err != nil {
			t.Fatalf("POST %s: %v", tt.body, err)
		}
		resp.Body.Close()
		if resp.StatusCode != tt.want {
			t.Fatalf("POST %s: code = %d, want %d", tt.body, resp.StatusCode, tt.want)
		}
	}

	want := []commandRequest{{Command: "view", Arg: "all"}}
	if diff := cmp.Diff(want, ctrl.ran); diff != "" {
		t.Fatalf("commands mismatch (-want +got):\n%s", diff)
	}
}

func TestEventsStream(t *testing.T) {
	ctrl, srv := newTestServer(t)
	ctrl.snaps <- ctrl.snap

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/events"
	c, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer c.Close(websocket.StatusNormalClosure, "")

	typ, data, err := c.Read(ctx)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if typ != websocket.MessageText {
		t.Fatalf("message type = %v", typ)
	}
	var got wm.Snapshot
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.SelectedMonitor != "DP-1" || len(got.Clients) != 1 {
		t.Fatalf("snapshot = %+v", got)
	}

	close(ctrl.snaps)
	if _, _, err := c.Read(ctx); websocket.CloseStatus(err) != websocket.StatusNormalClosure {
		t.Fatalf("after close: err = %v, want normal closure", err)
	}
}
