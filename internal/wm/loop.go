package wm

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// ErrStopped is returned by Do once the loop has exited.
var ErrStopped = errors.New("wm: loop stopped")

// Loop owns a State and feeds it platform events and calls from other
// goroutines, one at a time. After each step it presents a frame and
// publishes a snapshot to subscribers.
type Loop struct {
	state  *State
	events <-chan Event
	calls  chan func(*State)
	done   chan struct{}
	log    *slog.Logger

	mu     sync.Mutex
	subs   map[int]chan Snapshot
	nextID int
}

// NewLoop wires state to an event source.
func NewLoop(state *State, events <-chan Event, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = state.log
	}
	return &Loop{
		state:  state,
		events: events,
		calls:  make(chan func(*State)),
		done:   make(chan struct{}),
		log:    logger,
		subs:   make(map[int]chan Snapshot),
	}
}

// Run processes events until ctx is done, the event channel closes or the
// quit command runs.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	defer l.closeSubs()

	l.state.Present()
	l.publish()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-l.events:
			if !ok {
				l.log.Info("event source closed")
				return nil
			}
			l.state.Dispatch(ev)
		case fn := <-l.calls:
			fn(l.state)
		}
		l.state.Present()
		l.publish()
		if l.state.Quitting() {
			return nil
		}
	}
}

// Do runs fn on the loop goroutine and waits for it to finish. ctx bounds
// only the wait for the loop to pick fn up; once queued, fn always runs to
// completion before Do returns.
func (l *Loop) Do(ctx context.Context, fn func(*State)) error {
	finished := make(chan struct{})
	call := func(s *State) {
		defer close(finished)
		fn(s)
	}
	select {
	case l.calls <- call:
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	<-finished
	return nil
}

// Snapshot fetches the current state through the loop.
func (l *Loop) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := l.Do(ctx, func(s *State) { snap = s.Snapshot() })
	return snap, err
}

// Subscribe returns a channel receiving a snapshot after every step. Slow
// subscribers miss intermediate snapshots. The returned func unsubscribes.
func (l *Loop) Subscribe() (<-chan Snapshot, func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := l.nextID
	l.nextID++
	ch := make(chan Snapshot, 1)
	if l.subs == nil {
		close(ch)
		return ch, func() {}
	}
	l.subs[id] = ch
	return ch, func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if c, ok := l.subs[id]; ok {
			delete(l.subs, id)
			close(c)
		}
	}
}

func (l *Loop) publish() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.subs) == 0 {
		return
	}
	snap := l.state.Snapshot()
	for _, ch := range l.subs {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}

func (l *Loop) closeSubs() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id, ch := range l.subs {
		delete(l.subs, id)
		close(ch)
	}
	l.subs = nil
}
