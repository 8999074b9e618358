package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/tagtile/internal/geom"
	"github.com/1broseidon/tagtile/internal/ipc"
	"github.com/1broseidon/tagtile/internal/wm"
)

type fakeDaemon struct {
	ran []string
}

func (f *fakeDaemon) GetStatus() (*ipc.StatusData, error) { return &ipc.StatusData{}, nil }
func (f *fakeDaemon) Run(command string, _ any) error {
	f.ran = append(f.ran, command)
	return nil
}
func (f *fakeDaemon) Reload() error { return nil }

func testStatus() *ipc.StatusData {
	return &ipc.StatusData{Snapshot: wm.Snapshot{
		Monitors: []wm.MonitorStatus{{
			Name:     "DP-1",
			Geometry: geom.Rect{Width: 1920, Height: 1080},
			WorkArea: geom.Rect{Y: 30, Width: 1920, Height: 1050},
			Tags:     1,
			Occupied: 3,
			Layout:   "[]=",
			MFact:    0.55,
			NMaster:  1,
			Selected: true,
			Clients:  2,
		}},
		Clients: []wm.ClientStatus{
			{Surface: 1, AppID: "foot", Title: "shell", Monitor: "DP-1", Tags: 1, Focused: true, Visible: true},
			{Surface: 2, AppID: "mpv", Title: "film", Monitor: "DP-1", Tags: 2, Floating: true},
		},
		SelectedMonitor: "DP-1",
		Tags:            []string{"1", "2", "3"},
	}}
}

func sized(t *testing.T, m model) model {
	t.Helper()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(model)
}

func TestStatusUpdatesView(t *testing.T) {
	m := sized(t, newModel(&fakeDaemon{}))
	if v := m.View(); !strings.Contains(v, "daemon not running") {
		t.Fatalf("view before status lacks disconnected marker:\n%s", v)
	}

	next, cmd := m.Update(statusMsg{status: testStatus()})
	m = next.(model)
	if cmd == nil {
		t.Fatalf("status update scheduled no follow-up poll")
	}
	if !m.connected {
		t.Fatalf("connected = false after a status")
	}
	v := m.View()
	for _, want := range []string{"daemon connected", "selected:DP-1", "DP-1", "[]=", "1920x1050+0+30"} {
		if !strings.Contains(v, want) {
			t.Fatalf("monitor view lacks %q:\n%s", want, v)
		}
	}

	next, _ = m.Update(statusMsg{err: errors.New("connection refused")})
	if next.(model).connected {
		t.Fatalf("connected = true after a failed status")
	}
}

func TestTabSwitchShowsClients(t *testing.T) {
	m := sized(t, newModel(&fakeDaemon{}))
	next, _ := m.Update(statusMsg{status: testStatus()})
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}})
	m = next.(model)
	if m.activeTab != TabClients {
		t.Fatalf("activeTab = %v, want Clients", m.activeTab)
	}
	if v := m.View(); !strings.Contains(v, "shell") || !strings.Contains(v, "film") {
		t.Fatalf("clients view lacks titles:\n%s", v)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if next.(model).activeTab != TabMonitors {
		t.Fatalf("tab did not wrap to Monitors")
	}
}

func TestCommandFormOpensAndCancels(t *testing.T) {
	m := sized(t, newModel(&fakeDaemon{}))
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	m = next.(model)
	if m.form == nil {
		t.Fatalf("c did not open the command form")
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if next.(model).form != nil {
		t.Fatalf("esc did not close the command form")
	}
}

func TestCommandFormRequest(t *testing.T) {
	f := newCommandForm(80)
	f.command = "setmfact"
	f.arg = "0.05"
	cmd, arg := f.request()
	if cmd != "setmfact" || arg != 0.05 {
		t.Fatalf("request() = %q, %v", cmd, arg)
	}
}

func TestRunReportsNotice(t *testing.T) {
	d := &fakeDaemon{}
	m := newModel(d)
	msg := m.run("zoom", nil)()
	if got := msg.(noticeMsg); got != "ran zoom" {
		t.Fatalf("notice = %q", got)
	}
	if len(d.ran) != 1 || d.ran[0] != "zoom" {
		t.Fatalf("ran = %v", d.ran)
	}
}

func TestClientItemDescription(t *testing.T) {
	it := clientItem{c: wm.ClientStatus{
		AppID:    "mpv",
		Monitor:  "DP-1",
		Tags:     2,
		Floating: true,
		Geometry: geom.Rect{X: 10, Y: 20, Width: 300, Height: 200},
	}}
	if want := "mpv on DP-1  tags 0x2  floating  300x200+10+20"; it.Description() != want {
		t.Fatalf("Description() = %q, want %q", it.Description(), want)
	}
	if it.FilterValue() != "mpv " {
		t.Fatalf("FilterValue() = %q", it.FilterValue())
	}
}
