package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/tagwatch/tagwatch-go/pkg/subscription"
)

// MemoryStore keeps the catalogue in memory.
type MemoryStore struct {
	mu            sync.Mutex
	closed        bool
	places        map[string]subscription.Place
	subscriptions map[string]subscription.Subscription

	// save is called with the next state before a write is committed. A
	// failing save aborts the write.
	save func(*State) error
	now  func() time.Time
	hub  *hub
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	s := newMemory(nil)
	s.hub.publish(nil)
	return s
}

func newMemory(state *State) *MemoryStore {
	s := &MemoryStore{
		places:        make(map[string]subscription.Place),
		subscriptions: make(map[string]subscription.Subscription),
		now:           time.Now,
		hub:           newHub(),
	}
	if state != nil {
		for _, p := range state.Places {
			s.places[p.ID] = p
		}
		for _, sub := range state.Subscriptions {
			sub.Place = nil
			s.subscriptions[sub.ID] = sub
		}
	}
	return s
}

// SetClock overrides the clock used for CreatedAt. Intended for tests.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Watch implements Store.
func (s *MemoryStore) Watch(ctx context.Context) (<-chan Snapshot, error) {
	return s.hub.watch(ctx)
}

// Insert implements Store.
func (s *MemoryStore) Insert(ctx context.Context, sub subscription.Subscription) (subscription.Subscription, error) {
	out, err := s.InsertMany(ctx, []subscription.Subscription{sub})
	if err != nil {
		return subscription.Subscription{}, err
	}
	return out[0], nil
}

// InsertMany implements Store.
func (s *MemoryStore) InsertMany(_ context.Context, subs []subscription.Subscription) ([]subscription.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	places, current := s.copyMaps()
	out := make([]subscription.Subscription, 0, len(subs))
	for _, sub := range subs {
		prepared, err := prepare(sub, s.now)
		if err != nil {
			return nil, err
		}
		if _, exists := current[prepared.ID]; exists {
			return nil, fmt.Errorf("%w: subscription %s", ErrExists, prepared.ID)
		}
		if prepared.Place != nil {
			places[prepared.Place.ID] = *prepared.Place
		}
		stored := prepared.Clone()
		stored.Place = nil
		current[stored.ID] = stored
		out = append(out, prepared)
	}

	if err := s.commit(places, current); err != nil {
		return nil, err
	}
	for i := range out {
		out[i] = s.resolve(out[i])
	}
	return out, nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if _, ok := s.subscriptions[id]; !ok {
		return fmt.Errorf("%w: subscription %s", ErrNotFound, id)
	}

	places, current := s.copyMaps()
	delete(current, id)
	return s.commit(places, current)
}

// GetByID implements Store.
func (s *MemoryStore) GetByID(_ context.Context, id string) (subscription.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return subscription.Subscription{}, ErrClosed
	}
	sub, ok := s.subscriptions[id]
	if !ok {
		return subscription.Subscription{}, fmt.Errorf("%w: subscription %s", ErrNotFound, id)
	}
	return s.resolve(sub), nil
}

// List implements Store.
func (s *MemoryStore) List(_ context.Context) ([]subscription.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	return s.list(), nil
}

// PutPlace implements Store.
func (s *MemoryStore) PutPlace(_ context.Context, place subscription.Place) (subscription.Place, error) {
	place, err := preparePlace(place)
	if err != nil {
		return subscription.Place{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return subscription.Place{}, ErrClosed
	}

	places, current := s.copyMaps()
	places[place.ID] = place
	if err := s.commit(places, current); err != nil {
		return subscription.Place{}, err
	}
	return place, nil
}

// GetPlace implements Store.
func (s *MemoryStore) GetPlace(_ context.Context, id string) (subscription.Place, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return subscription.Place{}, ErrClosed
	}
	p, ok := s.places[id]
	if !ok {
		return subscription.Place{}, fmt.Errorf("%w: place %s", ErrNotFound, id)
	}
	return p, nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.hub.close()
	return nil
}

func (s *MemoryStore) copyMaps() (map[string]subscription.Place, map[string]subscription.Subscription) {
	places := make(map[string]subscription.Place, len(s.places))
	for k, v := range s.places {
		places[k] = v
	}
	subs := make(map[string]subscription.Subscription, len(s.subscriptions))
	for k, v := range s.subscriptions {
		subs[k] = v
	}
	return places, subs
}

// commit persists the next state, swaps it in and notifies watchers.
// Callers hold s.mu.
func (s *MemoryStore) commit(places map[string]subscription.Place, subs map[string]subscription.Subscription) error {
	if s.save != nil {
		if err := s.save(stateOf(places, subs)); err != nil {
			return fmt.Errorf("store: save: %w", err)
		}
	}
	s.places = places
	s.subscriptions = subs
	s.hub.publish(s.list())
	return nil
}

func (s *MemoryStore) resolve(sub subscription.Subscription) subscription.Subscription {
	sub = sub.Clone()
	sub.Place = nil
	if p, ok := s.places[sub.PlaceTagID]; ok {
		sub.Place = &p
	}
	return sub
}

func (s *MemoryStore) list() []subscription.Subscription {
	out := make([]subscription.Subscription, 0, len(s.subscriptions))
	for _, sub := range s.subscriptions {
		out = append(out, s.resolve(sub))
	}
	sortSubscriptions(out)
	return out
}

func sortSubscriptions(subs []subscription.Subscription) {
	sort.Slice(subs, func(i, j int) bool {
		if !subs[i].CreatedAt.Equal(subs[j].CreatedAt) {
			return subs[i].CreatedAt.Before(subs[j].CreatedAt)
		}
		return subs[i].ID < subs[j].ID
	})
}

var _ Store = (*MemoryStore)(nil)
