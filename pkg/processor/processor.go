package processor

import (
	"log/slog"
	"time"

	"github.com/tagwatch/tagwatch-go/pkg/notify"
	"github.com/tagwatch/tagwatch-go/pkg/sensor"
	"github.com/tagwatch/tagwatch-go/pkg/subscription"
)

// DefaultDebounce is the minimum time between two committed transitions.
const DefaultDebounce = 10 * time.Second

// Processor evaluates sensor data for one subscription.
type Processor interface {
	// StartProcessing subscribes to the needed streams. Calling it on a
	// running processor does nothing.
	StartProcessing()

	// StopProcessing cancels the stream subscriptions. When it returns, the
	// processor emits no further side effects. Calling it on a stopped
	// processor does nothing.
	StopProcessing()
}

// State is the lifecycle state of a processor.
type State uint8

const (
	// StateStopped is the initial state.
	StateStopped State = iota

	// StateRunning means the processor is consuming its streams.
	StateRunning
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "STOPPED"
	case StateRunning:
		return "RUNNING"
	default:
		return "UNKNOWN"
	}
}

// Env carries the collaborators processors are built with.
type Env struct {
	// Locations is the location fix stream.
	Locations sensor.Source[sensor.Fix]

	// Notifier receives committed transitions.
	Notifier notify.Notifier

	// Logger for soft failures. Nil discards.
	Logger *slog.Logger

	// Debounce overrides DefaultDebounce when positive.
	Debounce time.Duration

	// Clock returns the current time. Nil uses time.Now.
	Clock func() time.Time
}

func (e Env) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.Logger
}

func (e Env) now() time.Time {
	if e.Clock == nil {
		return time.Now()
	}
	return e.Clock()
}

func (e Env) debounce() time.Duration {
	if e.Debounce <= 0 {
		return DefaultDebounce
	}
	return e.Debounce
}

func (e Env) notifier() notify.Notifier {
	if e.Notifier == nil {
		return notify.Noop{}
	}
	return e.Notifier
}

// New returns the processor for sub. It never fails: anything that cannot
// be evaluated gets a Noop.
func New(sub subscription.Subscription, env Env) Processor {
	log := env.logger().With("subscription_id", sub.ID, "event_kind", string(sub.EventKind))

	switch sub.EventKind {
	case subscription.EventGeofenceEntry, subscription.EventGeofenceExit:
		if sub.Place == nil {
			log.Warn("geofence place not found, using noop processor", "place_tag_id", sub.PlaceTagID)
			return NewNoop(sub.ID)
		}
		if err := sub.Place.Validate(); err != nil {
			log.Warn("invalid geofence, using noop processor", "error", err)
			return NewNoop(sub.ID)
		}
		if env.Locations == nil {
			log.Warn("no location stream, using noop processor")
			return NewNoop(sub.ID)
		}
		return NewGeofence(sub, env)

	case subscription.EventBLEDisconnectTrack, subscription.EventBLENearbyTrack:
		log.Debug("BLE tracking not implemented, using noop processor")
		return NewNoop(sub.ID)

	default:
		log.Debug("unknown event kind, using noop processor")
		return NewNoop(sub.ID)
	}
}
