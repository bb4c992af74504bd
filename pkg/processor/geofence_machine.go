package processor

import (
	"time"

	"github.com/tagwatch/tagwatch-go/pkg/geo"
	"github.com/tagwatch/tagwatch-go/pkg/notify"
	"github.com/tagwatch/tagwatch-go/pkg/sensor"
)

// Zone is the subject's position relative to a geofence.
type Zone uint8

const (
	// ZoneOut is outside the fence.
	ZoneOut Zone = iota

	// ZoneIn is inside the fence.
	ZoneIn
)

// String returns the zone name.
func (z Zone) String() string {
	if z == ZoneIn {
		return "IN"
	}
	return "OUT"
}

// GeofenceState is the mutable state of a geofence machine.
type GeofenceState struct {
	CurrentZone      Zone
	LastTransitionAt time.Time
}

// Fence is a circular geofence.
type Fence struct {
	Name         string
	Center       geo.Point
	RadiusMeters float64
}

// Evaluation describes what one fix did to the machine.
type Evaluation struct {
	// Distance from the fence center in metres.
	Distance float64

	// Inside is distance <= radius.
	Inside bool

	// Candidate is set when the fix disagrees with the current zone.
	Candidate bool

	// Committed is set when the candidate passed the debounce test.
	Committed bool

	// Transition is the committed direction, valid when Committed.
	Transition notify.Transition
}

// GeofenceMachine is the debounced IN/OUT state machine. It is not safe for
// concurrent use.
type GeofenceMachine struct {
	fence    Fence
	debounce time.Duration
	state    GeofenceState
}

// NewGeofenceMachine creates a machine in ZoneOut whose last transition is createdAt.
func NewGeofenceMachine(fence Fence, debounce time.Duration, createdAt time.Time) *GeofenceMachine {
	return &GeofenceMachine{
		fence:    fence,
		debounce: debounce,
		state: GeofenceState{
			CurrentZone:      ZoneOut,
			LastTransitionAt: createdAt,
		},
	}
}

// Observe feeds one fix into the machine. The fix timestamp is the
// machine's notion of now.
func (m *GeofenceMachine) Observe(fix sensor.Fix) Evaluation {
	ev := Evaluation{Distance: geo.Distance(fix.Point, m.fence.Center)}
	ev.Inside = ev.Distance <= m.fence.RadiusMeters

	var target Zone
	switch {
	case m.state.CurrentZone == ZoneIn && !ev.Inside:
		target = ZoneOut
		ev.Transition = notify.TransitionExited
	case m.state.CurrentZone == ZoneOut && ev.Inside:
		target = ZoneIn
		ev.Transition = notify.TransitionEntered
	default:
		return ev
	}
	ev.Candidate = true

	if fix.Timestamp.Sub(m.state.LastTransitionAt) <= m.debounce {
		ev.Transition = 0
		return ev
	}

	m.state.CurrentZone = target
	m.state.LastTransitionAt = fix.Timestamp
	ev.Committed = true
	return ev
}

// State returns the current state.
func (m *GeofenceMachine) State() GeofenceState {
	return m.state
}

// Fence returns the fence being evaluated.
func (m *GeofenceMachine) Fence() Fence {
	return m.fence
}
