package wm

import (
	"testing"

	"github.com/1broseidon/tagtile/internal/bindings"
)

func TestFormatStatusLine(t *testing.T) {
	s, _ := newTestState(t, nil)
	addOutput(t, s, 1, "DP-1", 1000, 800)
	mapClient(t, s, 1, "three")
	_ = s.Run(bindings.CmdTag, bindings.Arg{Tags: 0b100})
	mapClient(t, s, 2, "one")

	if got, want := FormatStatusLine(s.Snapshot()), "DP-1 [1] 3 []= one"; got != want {
		t.Fatalf("FormatStatusLine() = %q, want %q", got, want)
	}

	_ = s.Run(bindings.CmdSetLayout, bindings.Arg{Layout: 2})
	addOutput(t, s, 2, "HDMI-A-1", 800, 600)
	if got, want := FormatStatusLine(s.Snapshot()), "DP-1 [1] 3 [M] one\nHDMI-A-1 [1] []="; got != want {
		t.Fatalf("FormatStatusLine() = %q, want %q", got, want)
	}
}

func TestSnapshotClients(t *testing.T) {
	s, _ := newTestState(t, nil)
	addOutput(t, s, 1, "A", 1000, 800)
	mapClient(t, s, 1, "one")
	mapClient(t, s, 2, "two")

	snap := s.Snapshot()
	if len(snap.Clients) != 2 || snap.Focused != 2 || snap.SelectedMonitor != "A" {
		t.Fatalf("snapshot = %+v", snap)
	}
	fc, ok := snap.FocusedClient()
	if !ok || fc.AppID != "two" || fc.Monitor != "A" || !fc.Visible {
		t.Fatalf("focused client = %+v", fc)
	}
	if m, _ := snap.Monitor("A"); m.Clients != 2 || m.Occupied != 1 || m.Layout != "[]=" {
		t.Fatalf("monitor status = %+v", m)
	}
}
