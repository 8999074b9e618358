package wm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/1broseidon/tagtile/internal/platform"
)

func startLoop(t *testing.T, s *State) (*Loop, chan Event, context.CancelFunc, chan error) {
	t.Helper()
	events := make(chan Event)
	l := NewLoop(s, events, nil)
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- l.Run(ctx) }()
	return l, events, cancel, errc
}

func waitRun(t *testing.T, errc chan error) error {
	t.Helper()
	select {
	case err := <-errc:
		return err
	case <-time.After(2 * time.Second):
		t.Fatalf("loop did not stop")
		return nil
	}
}

func TestLoopDispatchesAndPublishes(t *testing.T) {
	s, fb := newTestState(t, nil)
	events := make(chan Event)
	l := NewLoop(s, events, nil)
	updates, unsubscribe := l.Subscribe()
	defer unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- l.Run(ctx) }()

	events <- platform.OutputAdded{Output: 1, Name: "DP-1", Width: 1000, Height: 800}

	bg := context.Background()
	if err := l.Do(bg, func(s *State) {
		if err := s.Exec("view", 2); err != nil {
			t.Errorf("Exec(view) error: %v", err)
		}
	}); err != nil {
		t.Fatalf("Do() error: %v", err)
	}

	snap, err := l.Snapshot(bg)
	if err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}
	m, ok := snap.Monitor("DP-1")
	if !ok || m.Tags != 0b10 || !m.Selected {
		t.Fatalf("snapshot monitor = %+v (found %v)", m, ok)
	}
	// Only the newest snapshot is kept for a slow subscriber.
	select {
	case latest := <-updates:
		if len(latest.Monitors) != 1 || latest.Monitors[0].Tags != 0b10 {
			t.Fatalf("latest published snapshot = %+v", latest)
		}
	default:
		t.Fatalf("no snapshot published")
	}

	cancel()
	if err := waitRun(t, errc); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() = %v, want context.Canceled", err)
	}
	if fb.frames < 4 {
		t.Fatalf("frames presented = %d, want one per step", fb.frames)
	}
	if _, ok := <-updates; ok {
		t.Fatalf("subscription should be closed after Run returns")
	}
	if err := l.Do(bg, func(*State) {}); !errors.Is(err, ErrStopped) {
		t.Fatalf("Do() after stop = %v, want ErrStopped", err)
	}
}

func TestLoopStopsOnQuit(t *testing.T) {
	s, fb := newTestState(t, nil)
	l, _, cancel, errc := startLoop(t, s)
	defer cancel()

	if err := l.Do(context.Background(), func(s *State) { _ = s.Exec("quit", nil) }); err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	if err := waitRun(t, errc); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}
	if !fb.quit {
		t.Fatalf("backend was not asked to quit")
	}
}

func TestLoopStopsWhenEventsClose(t *testing.T) {
	s, _ := newTestState(t, nil)
	_, events, cancel, errc := startLoop(t, s)
	defer cancel()
	close(events)
	if err := waitRun(t, errc); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}
}

func TestDoHonoursContext(t *testing.T) {
	s, _ := newTestState(t, nil)
	l := NewLoop(s, make(chan Event), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Do(ctx, func(*State) {}); !errors.Is(err, context.Canceled) {
		t.Fatalf("Do() without a running loop = %v, want context.Canceled", err)
	}
}

func TestDoWaitsForQueuedCall(t *testing.T) {
	s, _ := newTestState(t, nil)
	l, _, cancel, errc := startLoop(t, s)
	defer func() {
		cancel()
		waitRun(t, errc)
	}()

	ctx, cancelCall := context.WithCancel(context.Background())
	ran := false
	err := l.Do(ctx, func(*State) {
		cancelCall()
		time.Sleep(20 * time.Millisecond)
		ran = true
	})
	if err != nil {
		t.Fatalf("Do() = %v, want nil once the call was queued", err)
	}
	if !ran {
		t.Fatalf("Do() returned before the call finished")
	}
}
