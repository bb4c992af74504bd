package store

import (
	"context"
	"sync"

	"github.com/tagwatch/tagwatch-go/pkg/sensor"
	"github.com/tagwatch/tagwatch-go/pkg/subscription"
)

// hub fans snapshots out to watchers. Good lists go through a replay-of-1
// stream, so new watchers start from the last good list and slow watchers
// skip straight to the latest one. Reload errors only reach live watchers
// and never replace a pending list.
type hub struct {
	lists *sensor.Stream[sequenced]

	done chan struct{}

	mu       sync.Mutex
	seq      uint64
	closed   bool
	watchers map[int]chan sequenced
	next     int
}

// sequenced orders lists and errors published on separate paths.
type sequenced struct {
	Snapshot
	seq uint64
}

func newHub() *hub {
	return &hub{
		lists:    sensor.NewStream[sequenced](1),
		done:     make(chan struct{}),
		watchers: make(map[int]chan sequenced),
	}
}

func (h *hub) publish(subs []subscription.Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.seq++
	h.lists.Publish(sequenced{Snapshot: Snapshot{Subscriptions: subscription.CloneAll(subs)}, seq: h.seq})
}

// publishErr tells live watchers that a reload failed. Each watcher keeps
// only the newest error.
func (h *hub) publishErr(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.seq++
	for _, errs := range h.watchers {
		select {
		case <-errs:
		default:
		}
		errs <- sequenced{Snapshot: Snapshot{Err: err}, seq: h.seq}
	}
}

func (h *hub) watch(ctx context.Context) (<-chan Snapshot, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrClosed
	}

	lists, cancel := h.lists.Subscribe()
	errs := make(chan sequenced, 1)
	id := h.next
	h.next++
	h.watchers[id] = errs

	out := make(chan Snapshot)
	go h.forward(ctx, id, lists, cancel, errs, out)
	return out, nil
}

// forward merges lists and errors for one watcher in publish order. A
// newer list supersedes a pending error and an error older than the last
// list is dropped, so a pending list is never lost.
func (h *hub) forward(ctx context.Context, id int, lists <-chan sequenced, cancel func(), errs <-chan sequenced, out chan<- Snapshot) {
	defer close(out)
	defer func() {
		h.mu.Lock()
		delete(h.watchers, id)
		h.mu.Unlock()
		cancel()
	}()

	var list, fail *sequenced
	var listSeq uint64
	for {
		var send chan<- Snapshot
		var next Snapshot
		switch {
		case list != nil:
			send, next = out, list.Snapshot
		case fail != nil:
			send, next = out, fail.Snapshot
		}

		select {
		case <-ctx.Done():
			return
		case <-h.done:
			return
		case l, ok := <-lists:
			if !ok {
				return
			}
			list, listSeq = &l, l.seq
			if fail != nil && fail.seq < l.seq {
				fail = nil
			}
		case e := <-errs:
			if e.seq > listSeq {
				fail = &e
			}
		case send <- next:
			if list != nil {
				list = nil
			} else {
				fail = nil
			}
		}
	}
}

func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	close(h.done)
}
