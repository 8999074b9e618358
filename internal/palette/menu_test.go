package palette

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/wm"
)

func testSnapshot() wm.Snapshot {
	return wm.Snapshot{
		Tags:            []string{"1", "2", "3"},
		SelectedMonitor: "DP-1",
		GapsEnabled:     true,
		Monitors: []wm.MonitorStatus{
			{Name: "DP-1", Tags: 1 << 1, Layout: "[M]", Selected: true},
			{Name: "HDMI-A-1", Tags: 1, Layout: "[]="},
		},
		Clients: []wm.ClientStatus{
			{Surface: 7, AppID: "foot", Monitor: "DP-1", Tags: 1<<1 | 1<<2, Focused: true},
		},
	}
}

func active(items []Item) []string {
	var out []string
	for _, it := range items {
		if it.IsActive {
			out = append(out, it.Label)
		}
	}
	return out
}

func TestBuildMarksCurrentState(t *testing.T) {
	items := Build(testSnapshot(), config.BuiltinLayouts())

	want := []string{"view 2", "move to 2", "move to 3", "[M] monocle", "toggle gaps"}
	if diff := cmp.Diff(want, active(items)); diff != "" {
		t.Fatalf("active rows mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildWithoutFocusOrSecondMonitor(t *testing.T) {
	snap := testSnapshot()
	snap.Clients = nil
	snap.Monitors = snap.Monitors[:1]

	for _, it := range Build(snap, config.BuiltinLayouts()) {
		switch it.Command {
		case "tag", "zoom", "killclient", "tagmon", "focusmon":
			t.Fatalf("unexpected item %+v", it)
		}
	}
}

func TestBuildTagArgsAreOneBased(t *testing.T) {
	items := Build(testSnapshot(), config.BuiltinLayouts())
	for _, it := range items {
		if it.Label == "view 3" {
			if diff := cmp.Diff([]int{3}, it.Arg); diff != "" {
				t.Fatalf("view 3 arg mismatch (-want +got):\n%s", diff)
			}
			return
		}
	}
	t.Fatal("view 3 not found")
}

type pickBackend struct {
	label string
	err   error
}

func (b pickBackend) Show(_ string, items []Item) (Item, error) {
	if b.err != nil {
		return Item{}, b.err
	}
	for _, it := range items {
		if it.Label == b.label {
			return it, nil
		}
	}
	return Item{}, errors.New("not found")
}

type recordRunner struct {
	command string
	arg     any
}

func (r *recordRunner) Run(command string, arg any) error {
	r.command, r.arg = command, arg
	return nil
}

func TestShowRunsSelection(t *testing.T) {
	items := Build(testSnapshot(), config.BuiltinLayouts())

	var r recordRunner
	if err := Show(pickBackend{label: "[]= tile"}, &r, items); err != nil {
		t.Fatal(err)
	}
	if r.command != "setlayout" || r.arg != "[]=" {
		t.Fatalf("ran %q %v", r.command, r.arg)
	}

	r = recordRunner{}
	if err := Show(pickBackend{err: ErrCancelled}, &r, items); err != nil {
		t.Fatalf("cancel returned %v", err)
	}
	if r.command != "" {
		t.Fatalf("cancelled menu ran %q", r.command)
	}

	if err := Show(pickBackend{label: "View"}, &r, items); err == nil {
		t.Fatal("header selection should fail")
	}
}
