package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/tagtile/internal/ipc"
	"github.com/1broseidon/tagtile/internal/wm"
)

type fakeDaemon struct {
	snap    wm.Snapshot
	ran     []string
	reloads int
	runErr  error
}

func (f *fakeDaemon) GetStatus() (*ipc.StatusData, error) {
	return &ipc.StatusData{Snapshot: f.snap, UptimeSeconds: 42, DaemonRunning: true}, nil
}

func (f *fakeDaemon) ListClients() (*ipc.ClientsData, error) {
	return &ipc.ClientsData{Clients: f.snap.Clients}, nil
}

func (f *fakeDaemon) Run(command string, _ any) error {
	if f.runErr != nil {
		return f.runErr
	}
	f.ran = append(f.ran, command)
	return nil
}

func (f *fakeDaemon) Reload() error {
	f.reloads++
	return nil
}

func testDaemon() *fakeDaemon {
	return &fakeDaemon{snap: wm.Snapshot{
		Monitors: []wm.MonitorStatus{
			{Name: "DP-1", Tags: 1, Occupied: 3, Layout: "[]=", Selected: true},
			{Name: "HDMI-A-1", Tags: 1, Layout: "[M]"},
		},
		Clients: []wm.ClientStatus{
			{Surface: 1, Title: "vim", Monitor: "DP-1", Tags: 1, Focused: true, Visible: true},
			{Surface: 2, Title: "mail", Monitor: "DP-1", Tags: 2},
			{Surface: 3, Title: "music", Monitor: "HDMI-A-1", Tags: 1, Visible: true},
		},
		SelectedMonitor: "DP-1",
		Tags:            []string{"1", "2", "3"},
	}}
}

func TestGetStatus(t *testing.T) {
	d := testDaemon()
	s := NewServer(d)

	_, out, err := s.handleGetStatus(context.Background(), nil, GetStatusInput{})
	if err != nil {
		t.Fatalf("get_status: %v", err)
	}
	if want := "DP-1 [1] 2 []= vim\nHDMI-A-1 [1] [M]"; out.StatusLine != want {
		t.Fatalf("status line = %q, want %q", out.StatusLine, want)
	}
	if out.Focused == nil || out.Focused.Surface != 1 {
		t.Fatalf("focused = %+v, want surface 1", out.Focused)
	}
	if out.UptimeSeconds != 42 {
		t.Fatalf("uptime = %d", out.UptimeSeconds)
	}
}

func TestListClientsFilters(t *testing.T) {
	s := NewServer(testDaemon())

	tests := []struct {
		name string
		in   ListClientsInput
		want []uint32
	}{
		{"all", ListClientsInput{}, []uint32{1, 2, 3}},
		{"monitor", ListClientsInput{Monitor: "DP-1"}, []uint32{1, 2}},
		{"visible", ListClientsInput{VisibleOnly: true}, []uint32{1, 3}},
		{"monitor and visible", ListClientsInput{Monitor: "DP-1", VisibleOnly: true}, []uint32{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := s.handleListClients(context.Background(), nil, tt.in)
			if err != nil {
				t.Fatalf("list_clients: %v", err)
			}
			var got []uint32
			for _, c := range out.Clients {
				got = append(got, c.Surface)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("surfaces mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRunCommandAndReload(t *testing.T) {
	d := testDaemon()
	s := NewServer(d)
	ctx := context.Background()

	if _, _, err := s.handleRunCommand(ctx, nil, RunCommandInput{}); err == nil {
		t.Fatalf("run_command accepted an empty command")
	}
	_, out, err := s.handleRunCommand(ctx, nil, RunCommandInput{Command: "zoom"})
	if err != nil {
		t.Fatalf("run_command: %v", err)
	}
	if out.StatusLine == "" {
		t.Fatalf("run_command returned no status line")
	}
	if diff := cmp.Diff([]string{"zoom"}, d.ran); diff != "" {
		t.Fatalf("commands mismatch (-want +got):\n%s", diff)
	}

	d.runErr = errors.New("daemon error: unknown command")
	if _, _, err := s.handleRunCommand(ctx, nil, RunCommandInput{Command: "bogus"}); err == nil {
		t.Fatalf("run_command swallowed the daemon error")
	}

	res, _, err := s.handleReloadConfig(ctx, nil, ReloadConfigInput{})
	if err != nil {
		t.Fatalf("reload_config: %v", err)
	}
	if d.reloads != 1 || len(res.Content) != 1 {
		t.Fatalf("reloads = %d, content = %v", d.reloads, res.Content)
	}
}
