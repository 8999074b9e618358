package wm

import (
	"iter"
	"slices"

	"github.com/1broseidon/tagtile/internal/geom"
	"github.com/1broseidon/tagtile/internal/platform"
	"github.com/1broseidon/tagtile/internal/tagset"
)

// Handle is a stable client identifier. Zero is the null handle.
type Handle uint32

// Client is one managed application window.
type Client struct {
	Handle  Handle
	Surface platform.SurfaceID
	AppID   string
	Title   string

	// Geom is layout-relative and includes the border.
	Geom geom.Rect
	// Prev is the geometry saved when entering fullscreen.
	Prev geom.Rect
	Tags tagset.Mask
	Mon  platform.OutputID
	BW   int

	Floating   bool
	Fullscreen bool
	Mapped     bool

	// Resize is the configure serial the client has not acknowledged yet.
	Resize uint32
}

// Order is one ordering over client handles, front first.
type Order struct {
	items []Handle
}

// PushFront inserts h at the front. h must not already be present.
func (o *Order) PushFront(h Handle) {
	o.items = slices.Insert(o.items, 0, h)
}

// Remove unlinks h. It reports whether h was present.
func (o *Order) Remove(h Handle) bool {
	i := slices.Index(o.items, h)
	if i < 0 {
		return false
	}
	o.items = slices.Delete(o.items, i, i+1)
	return true
}

// MoveFront moves h to the front if present.
func (o *Order) MoveFront(h Handle) {
	if o.Remove(h) {
		o.PushFront(h)
	}
}

// Front returns the first handle or zero.
func (o *Order) Front() Handle {
	if len(o.items) == 0 {
		return 0
	}
	return o.items[0]
}

func (o *Order) Len() int { return len(o.items) }

func (o *Order) Contains(h Handle) bool { return slices.Contains(o.items, h) }

// All yields handles front to back.
func (o *Order) All() iter.Seq[Handle] {
	return func(yield func(Handle) bool) {
		for _, h := range slices.Clone(o.items) {
			if !yield(h) {
				return
			}
		}
	}
}

// Backward yields handles back to front.
func (o *Order) Backward() iter.Seq[Handle] {
	return func(yield func(Handle) bool) {
		items := slices.Clone(o.items)
		for i := len(items) - 1; i >= 0; i-- {
			if !yield(items[i]) {
				return
			}
		}
	}
}

// Handles returns a copy of the ordering.
func (o *Order) Handles() []Handle {
	return slices.Clone(o.items)
}

// Registry owns client records and the three orderings over them: tiling
// (creation and zoom order), focus (most recently focused first) and stack
// (front to back).
type Registry struct {
	clients   map[Handle]*Client
	bySurface map[platform.SurfaceID]Handle
	next      Handle

	Tiling Order
	Focus  Order
	Stack  Order
}

func NewRegistry() *Registry {
	return &Registry{
		clients:   make(map[Handle]*Client),
		bySurface: make(map[platform.SurfaceID]Handle),
	}
}

// Create allocates a record for surface. It returns the existing record if
// the surface is already known.
func (r *Registry) Create(surface platform.SurfaceID) *Client {
	if h, ok := r.bySurface[surface]; ok {
		return r.clients[h]
	}
	r.next++
	c := &Client{Handle: r.next, Surface: surface}
	r.clients[c.Handle] = c
	r.bySurface[surface] = c.Handle
	return c
}

// Get returns the client for h, or nil.
func (r *Registry) Get(h Handle) *Client {
	if h == 0 {
		return nil
	}
	return r.clients[h]
}

// BySurface returns the client owning surface, or nil.
func (r *Registry) BySurface(surface platform.SurfaceID) *Client {
	h, ok := r.bySurface[surface]
	if !ok {
		return nil
	}
	return r.clients[h]
}

// Link inserts h at the front of all three orderings.
func (r *Registry) Link(h Handle) {
	r.Tiling.PushFront(h)
	r.Focus.PushFront(h)
	r.Stack.PushFront(h)
}

// Free drops the record. The client must already be unlinked.
func (r *Registry) Free(h Handle) {
	c := r.clients[h]
	if c == nil {
		return
	}
	r.Tiling.Remove(h)
	r.Focus.Remove(h)
	r.Stack.Remove(h)
	delete(r.bySurface, c.Surface)
	delete(r.clients, h)
}

// Len returns the number of records, mapped or not.
func (r *Registry) Len() int { return len(r.clients) }

// Clients yields mapped clients in tiling order.
func (r *Registry) Clients() iter.Seq[*Client] {
	return r.seq(r.Tiling.All())
}

// FocusOrder yields mapped clients most recently focused first.
func (r *Registry) FocusOrder() iter.Seq[*Client] {
	return r.seq(r.Focus.All())
}

// StackOrder yields mapped clients front to back.
func (r *Registry) StackOrder() iter.Seq[*Client] {
	return r.seq(r.Stack.All())
}

// StackBackward yields mapped clients back to front, the order they are
// painted in.
func (r *Registry) StackBackward() iter.Seq[*Client] {
	return r.seq(r.Stack.Backward())
}

// Visible yields the tiling order filtered to clients visible on m. The
// filter runs as the sequence is consumed, against the tags current at
// that moment, and ranging again starts over. A nil m yields nothing.
func (r *Registry) Visible(m *Monitor) iter.Seq[Handle] {
	return r.visible(r.Tiling.All(), m)
}

// VisibleClients is Visible resolved to client records.
func (r *Registry) VisibleClients(m *Monitor) iter.Seq[*Client] {
	return r.seq(r.Visible(m))
}

// VisibleByFocus yields clients visible on m, most recently focused first.
func (r *Registry) VisibleByFocus(m *Monitor) iter.Seq[*Client] {
	return r.seq(r.visible(r.Focus.All(), m))
}

func (r *Registry) visible(hs iter.Seq[Handle], m *Monitor) iter.Seq[Handle] {
	return func(yield func(Handle) bool) {
		if m == nil {
			return
		}
		for h := range hs {
			c := r.clients[h]
			if c == nil || !tagset.Visible(c.Mon, m.Output, c.Tags, m.Tags()) {
				continue
			}
			if !yield(h) {
				return
			}
		}
	}
}

func (r *Registry) seq(hs iter.Seq[Handle]) iter.Seq[*Client] {
	return func(yield func(*Client) bool) {
		for h := range hs {
			c := r.clients[h]
			if c == nil {
				continue
			}
			if !yield(c) {
				return
			}
		}
	}
}
