package sensor

import "sync"

// DefaultStreamBuffer is the per-subscriber buffer used when none is given.
const DefaultStreamBuffer = 16

// Stream is a push-style broadcaster with replay-of-1 semantics: a new
// subscriber first receives the most recent value, then live values in
// publish order.
//
// Publish never blocks. When a subscriber falls more than its buffer behind,
// the oldest undelivered value is dropped and counted.
type Stream[T any] struct {
	mu        sync.Mutex
	buffer    int
	latest    T
	hasLatest bool
	subs      map[uint64]*subscriber[T]
	nextID    uint64
	dropped   uint64
}

type subscriber[T any] struct {
	ch     chan T
	onDrop func(total uint64)
	drops  uint64
}

// NewStream creates a stream with the given per-subscriber buffer.
func NewStream[T any](buffer int) *Stream[T] {
	if buffer <= 0 {
		buffer = DefaultStreamBuffer
	}
	return &Stream[T]{
		buffer: buffer,
		subs:   make(map[uint64]*subscriber[T]),
	}
}

// Publish records v as the latest value and delivers it to all subscribers.
func (s *Stream[T]) Publish(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.latest = v
	s.hasLatest = true
	for _, sub := range s.subs {
		if !deliver(sub.ch, v) {
			continue
		}
		s.dropped++
		sub.drops++
		if sub.onDrop != nil {
			sub.onDrop(sub.drops)
		}
	}
}

// Subscribe registers a subscriber. The returned cancel function is
// idempotent; it unregisters the subscriber and closes the channel.
func (s *Stream[T]) Subscribe() (<-chan T, func()) {
	return s.SubscribeDrops(nil)
}

// SubscribeDrops is Subscribe with a callback run whenever a value is
// dropped for this subscriber. It receives the subscriber's drop count and
// runs under the stream lock, so it must not call back into the stream.
func (s *Stream[T]) SubscribeDrops(onDrop func(total uint64)) (<-chan T, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++

	ch := make(chan T, s.buffer)
	if s.hasLatest {
		ch <- s.latest
	}
	s.subs[id] = &subscriber[T]{ch: ch, onDrop: onDrop}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// Latest returns the most recent value, if any has been published.
func (s *Stream[T]) Latest() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest, s.hasLatest
}

// Dropped returns how many values were dropped across all subscribers.
func (s *Stream[T]) Dropped() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Subscribers returns the number of live subscriptions.
func (s *Stream[T]) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// deliver sends v without blocking, evicting the oldest queued value when
// the channel is full. It reports whether a value was evicted. Callers hold
// the stream lock, so they are the only sender.
func deliver[T any](ch chan T, v T) (dropped bool) {
	for {
		select {
		case ch <- v:
			return dropped
		default:
		}
		select {
		case <-ch:
			dropped = true
		default:
		}
	}
}

var (
	_ Source[Fix]     = (*Stream[Fix])(nil)
	_ DropSource[Fix] = (*Stream[Fix])(nil)
)
