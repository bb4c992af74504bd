package notify

import "sync"

// Recorder keeps the most recent notifications in memory. The console uses
// it to show a tail without reading the journal back.
type Recorder struct {
	mu    sync.Mutex
	limit int
	items []Notification
	total int
	wake  chan struct{}
}

// NewRecorder keeps at most limit notifications (0 keeps everything).
func NewRecorder(limit int) *Recorder {
	return &Recorder{
		limit: limit,
		wake:  make(chan struct{}),
	}
}

// Notify records n.
func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = append(r.items, n)
	if r.limit > 0 && len(r.items) > r.limit {
		r.items = r.items[len(r.items)-r.limit:]
	}
	r.total++

	close(r.wake)
	r.wake = make(chan struct{})
}

// All returns a copy of the recorded notifications, oldest first.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Notification, len(r.items))
	copy(out, r.items)
	return out
}

// Total returns how many notifications were ever recorded.
func (r *Recorder) Total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.total
}

// Changed returns a channel that is closed on the next Notify.
func (r *Recorder) Changed() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.wake
}

var _ Notifier = (*Recorder)(nil)
