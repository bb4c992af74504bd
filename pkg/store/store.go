package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tagwatch/tagwatch-go/pkg/subscription"
)

var (
	// ErrNotFound is returned when a subscription or place does not exist.
	ErrNotFound = errors.New("store: not found")

	// ErrExists is returned when inserting a subscription whose ID is taken.
	ErrExists = errors.New("store: already exists")

	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("store: closed")

	// ErrUnknownDriver is returned by Open for an unsupported driver name.
	ErrUnknownDriver = errors.New("store: unknown driver")
)

// Snapshot is the complete subscription list at one point in time. Err is
// set instead when the store failed to reload.
type Snapshot struct {
	Subscriptions []subscription.Subscription
	Err           error
}

// Store is the persistent subscription catalogue.
//
// Returned subscriptions carry their resolved Place, or nil when the place
// tag does not match a stored place.
type Store interface {
	// Watch returns a channel that immediately yields the current list and
	// then a new list after every write. The channel is closed when ctx is
	// done or the store is closed. Slow watchers only see the latest list.
	Watch(ctx context.Context) (<-chan Snapshot, error)

	// Insert stores sub, assigning an ID and CreatedAt when unset. A
	// non-nil sub.Place is stored as well.
	Insert(ctx context.Context, sub subscription.Subscription) (subscription.Subscription, error)

	// InsertMany inserts all subs atomically.
	InsertMany(ctx context.Context, subs []subscription.Subscription) ([]subscription.Subscription, error)

	// Delete removes the subscription with id.
	Delete(ctx context.Context, id string) error

	// GetByID returns one subscription.
	GetByID(ctx context.Context, id string) (subscription.Subscription, error)

	// List returns all subscriptions ordered by creation time.
	List(ctx context.Context) ([]subscription.Subscription, error)

	// PutPlace inserts or replaces a place, assigning an ID when unset.
	PutPlace(ctx context.Context, place subscription.Place) (subscription.Place, error)

	// GetPlace returns one place.
	GetPlace(ctx context.Context, id string) (subscription.Place, error)

	// Close releases resources and closes all watch channels.
	Close() error
}

// Driver names a storage backend.
type Driver string

// Supported drivers.
const (
	DriverMemory Driver = "memory"
	DriverFile   Driver = "file"
	DriverSQLite Driver = "sqlite"
)

// ParseDriver parses a driver name, case-insensitively.
func ParseDriver(s string) (Driver, error) {
	switch d := Driver(strings.ToLower(s)); d {
	case DriverMemory, DriverFile, DriverSQLite:
		return d, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDriver, s)
	}
}

// Open opens the backend named by driver. Path is ignored for memory.
func Open(driver Driver, path string) (Store, error) {
	switch driver {
	case DriverMemory, "":
		return NewMemoryStore(), nil
	case DriverFile:
		return OpenFileStore(path)
	case DriverSQLite:
		return OpenSQLiteStore(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

// prepare validates sub and fills the generated fields.
func prepare(sub subscription.Subscription, now func() time.Time) (subscription.Subscription, error) {
	if err := sub.Validate(); err != nil {
		return sub, err
	}
	sub = sub.Clone()
	if sub.ID == "" {
		sub.ID = subscription.NewID()
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = now()
	}
	if sub.Place != nil {
		if sub.Place.ID == "" {
			sub.Place.ID = sub.PlaceTagID
		}
		if sub.Place.ID != sub.PlaceTagID {
			return sub, fmt.Errorf("%w: place id %q does not match place tag %q",
				subscription.ErrInvalidPlace, sub.Place.ID, sub.PlaceTagID)
		}
		if err := sub.Place.Validate(); err != nil {
			return sub, err
		}
	}
	return sub, nil
}

func preparePlace(p subscription.Place) (subscription.Place, error) {
	if p.ID == "" {
		p.ID = subscription.NewID()
	}
	return p, p.Validate()
}
