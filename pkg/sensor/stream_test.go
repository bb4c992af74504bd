package sensor

import (
	"sync"
	"testing"
	"time"
)

func recv[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		if !ok {
			t.Fatal("channel closed")
		}
		return v
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for value")
	}
	var zero T
	return zero
}

func TestStreamReplaysLatestToLateSubscriber(t *testing.T) {
	s := NewStream[int](4)
	s.Publish(1)
	s.Publish(2)

	ch, cancel := s.Subscribe()
	defer cancel()

	if got := recv(t, ch); got != 2 {
		t.Errorf("first value = %d, want 2 (latest)", got)
	}

	s.Publish(3)
	if got := recv(t, ch); got != 3 {
		t.Errorf("live value = %d, want 3", got)
	}
}

func TestStreamNoReplayBeforeFirstPublish(t *testing.T) {
	s := NewStream[int](4)
	ch, cancel := s.Subscribe()
	defer cancel()

	select {
	case v := <-ch:
		t.Fatalf("unexpected value %d before any publish", v)
	default:
	}

	if _, ok := s.Latest(); ok {
		t.Error("Latest() ok = true before publish")
	}
}

func TestStreamPreservesOrder(t *testing.T) {
	s := NewStream[int](100)
	ch, cancel := s.Subscribe()
	defer cancel()

	for i := 0; i < 50; i++ {
		s.Publish(i)
	}
	for i := 0; i < 50; i++ {
		if got := recv(t, ch); got != i {
			t.Fatalf("value %d = %d, out of order", i, got)
		}
	}
}

func TestStreamDropsOldestWhenFull(t *testing.T) {
	s := NewStream[int](2)
	ch, cancel := s.Subscribe()
	defer cancel()

	s.Publish(1)
	s.Publish(2)
	s.Publish(3) // evicts 1

	if got := recv(t, ch); got != 2 {
		t.Errorf("first = %d, want 2", got)
	}
	if got := recv(t, ch); got != 3 {
		t.Errorf("second = %d, want 3", got)
	}
}

func TestStreamCountsDropsPerSubscriber(t *testing.T) {
	s := NewStream[int](1)

	var totals []uint64
	slow, cancelSlow := s.SubscribeDrops(func(total uint64) { totals = append(totals, total) })
	defer cancelSlow()
	fast, cancelFast := s.Subscribe()
	defer cancelFast()

	s.Publish(1)
	if got := recv(t, fast); got != 1 {
		t.Fatalf("fast = %d, want 1", got)
	}
	s.Publish(2) // evicts 1 for slow
	if got := recv(t, fast); got != 2 {
		t.Fatalf("fast = %d, want 2", got)
	}
	s.Publish(3) // evicts 2 for slow

	if got := recv(t, slow); got != 3 {
		t.Errorf("slow = %d, want 3", got)
	}
	if len(totals) != 2 || totals[0] != 1 || totals[1] != 2 {
		t.Errorf("drop callbacks = %v, want [1 2]", totals)
	}
	if got := s.Dropped(); got != 2 {
		t.Errorf("Dropped() = %d, want 2", got)
	}
}

func TestStreamCancelClosesAndIsIdempotent(t *testing.T) {
	s := NewStream[int](1)
	ch, cancel := s.Subscribe()

	if s.Subscribers() != 1 {
		t.Fatalf("Subscribers() = %d, want 1", s.Subscribers())
	}

	cancel()
	cancel()

	if _, ok := <-ch; ok {
		t.Error("channel still open after cancel")
	}
	if s.Subscribers() != 0 {
		t.Errorf("Subscribers() = %d after cancel, want 0", s.Subscribers())
	}

	// Publishing after cancel must not panic on the closed channel.
	s.Publish(7)
}

func TestStreamConcurrentPublishAndCancel(t *testing.T) {
	s := NewStream[int](1)
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch, cancel := s.Subscribe()
			for j := 0; j < 10; j++ {
				select {
				case <-ch:
				default:
				}
			}
			cancel()
		}()
	}
	for i := 0; i < 1000; i++ {
		s.Publish(i)
	}
	wg.Wait()

	if s.Subscribers() != 0 {
		t.Errorf("Subscribers() = %d, want 0", s.Subscribers())
	}
}
