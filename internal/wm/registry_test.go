package wm

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/tagtile/internal/platform"
	"github.com/1broseidon/tagtile/internal/tagset"
)

func TestOrder(t *testing.T) {
	var o Order
	for _, h := range []Handle{1, 2, 3} {
		o.PushFront(h)
	}
	if diff := cmp.Diff([]Handle{3, 2, 1}, o.Handles()); diff != "" {
		t.Fatalf("after push (-want +got):\n%s", diff)
	}

	o.MoveFront(1)
	o.MoveFront(9)
	if diff := cmp.Diff([]Handle{1, 3, 2}, o.Handles()); diff != "" {
		t.Fatalf("after move (-want +got):\n%s", diff)
	}
	if got := slices.Collect(o.Backward()); !slices.Equal(got, []Handle{2, 3, 1}) {
		t.Fatalf("Backward() = %v", got)
	}

	if !o.Remove(3) || o.Remove(3) {
		t.Fatalf("Remove should report presence once")
	}
	if o.Front() != 1 || o.Len() != 2 || o.Contains(3) {
		t.Fatalf("order = %v", o.Handles())
	}

	var empty Order
	if empty.Front() != 0 {
		t.Fatalf("empty Front() = %d", empty.Front())
	}
}

func TestRegistryLifecycle(t *testing.T) {
	r := NewRegistry()
	a := r.Create(10)
	b := r.Create(20)
	if again := r.Create(10); again != a {
		t.Fatalf("Create on a known surface should return the existing record")
	}
	if a.Handle == 0 || a.Handle == b.Handle {
		t.Fatalf("handles %d, %d", a.Handle, b.Handle)
	}

	r.Link(a.Handle)
	r.Link(b.Handle)
	var surfaces []uint32
	for c := range r.Clients() {
		surfaces = append(surfaces, uint32(c.Surface))
	}
	if !slices.Equal(surfaces, []uint32{20, 10}) {
		t.Fatalf("tiling order = %v", surfaces)
	}

	r.Free(b.Handle)
	if r.Get(b.Handle) != nil || r.BySurface(20) != nil || r.Len() != 1 {
		t.Fatalf("freed client still reachable")
	}
	for _, o := range []*Order{&r.Tiling, &r.Focus, &r.Stack} {
		if o.Contains(b.Handle) {
			t.Fatalf("freed handle still ordered: %v", o.Handles())
		}
	}
	if r.Get(0) != nil {
		t.Fatalf("null handle resolved")
	}
}

func TestRegistryVisible(t *testing.T) {
	r := NewRegistry()
	m := &Monitor{Output: 1, Tagset: [2]tagset.Mask{0b01, 0b01}}
	var cs []*Client
	for _, surface := range []platform.SurfaceID{10, 20, 30} {
		c := r.Create(surface)
		c.Mon, c.Tags = 1, 0b01
		r.Link(c.Handle)
		cs = append(cs, c)
	}
	cs[1].Tags = 0b10
	cs[2].Mon = 2

	visible := r.Visible(m)
	// The filter reads tags while ranging, not when the sequence is made.
	cs[1].Tags = 0b11
	if diff := cmp.Diff([]Handle{cs[1].Handle, cs[0].Handle}, slices.Collect(visible)); diff != "" {
		t.Fatalf("Visible (-want +got):\n%s", diff)
	}

	m.Tagset[0] = 0b10
	if diff := cmp.Diff([]Handle{cs[1].Handle}, slices.Collect(visible)); diff != "" {
		t.Fatalf("Visible after view (-want +got):\n%s", diff)
	}

	for range visible {
		break
	}
	if got := len(slices.Collect(visible)); got != 1 {
		t.Fatalf("restarted Visible yielded %d handles, want 1", got)
	}
	if got := slices.Collect(r.Visible(nil)); len(got) != 0 {
		t.Fatalf("Visible(nil) = %v", got)
	}

	focused := slices.Collect(r.VisibleByFocus(m))
	if len(focused) != 1 || focused[0] != cs[1] {
		t.Fatalf("VisibleByFocus = %v", focused)
	}
}
