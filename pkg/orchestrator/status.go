package orchestrator

import (
	"time"

	"github.com/tagwatch/tagwatch-go/pkg/processor"
	"github.com/tagwatch/tagwatch-go/pkg/sensor"
	"github.com/tagwatch/tagwatch-go/pkg/subscription"
)

// ProcessorStatus describes one live processor.
type ProcessorStatus struct {
	SubscriptionID string
	EventKind      subscription.EventKind

	// Variant is "geofence" or "noop".
	Variant string
	State   processor.State

	// Zone is set for geofence processors.
	Zone *processor.GeofenceState

	// DroppedFixes counts location fixes lost because the processor fell
	// behind its stream.
	DroppedFixes uint64
}

// Status is an immutable view of the orchestrator for display.
type Status struct {
	Running       bool
	Subscriptions []subscription.Subscription
	Processors    []ProcessorStatus

	// RequiredSensors is the union of demand across active subscriptions.
	RequiredSensors sensor.KindSet

	// ActiveSensors is what the supervisor actually started.
	ActiveSensors sensor.KindSet

	Rebuilds    int
	LastRebuild time.Time
}

func describe(sub subscription.Subscription, p processor.Processor) ProcessorStatus {
	ps := ProcessorStatus{
		SubscriptionID: sub.ID,
		EventKind:      sub.EventKind,
	}
	switch v := p.(type) {
	case *processor.Geofence:
		ps.Variant = "geofence"
		ps.State = v.State()
		zone := v.Zone()
		ps.Zone = &zone
		ps.DroppedFixes = v.Dropped()
	default:
		ps.Variant = "noop"
		ps.State = processor.StateRunning
	}
	return ps
}
