package processor

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/tagwatch/tagwatch-go/pkg/notify"
	"github.com/tagwatch/tagwatch-go/pkg/sensor"
	"github.com/tagwatch/tagwatch-go/pkg/subscription"
)

// Geofence runs a GeofenceMachine off the location stream and notifies on
// every committed transition.
type Geofence struct {
	sub       subscription.Subscription
	locations sensor.Source[sensor.Fix]
	notifier  notify.Notifier
	logger    *slog.Logger

	// lifecycle
	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
	cancel  func()

	// machine is only mutated by the run goroutine; stateMu lets
	// observers read it.
	stateMu sync.Mutex
	machine *GeofenceMachine
	fixes   int
	faults  int

	// dropped counts fixes the stream evicted because this processor fell
	// behind.
	dropped atomic.Uint64
}

// NewGeofence creates a geofence processor for sub.
//
// It panics if sub does not map to exactly the LOCATION sensor or has no
// resolved place: both are programming errors that New rules out.
func NewGeofence(sub subscription.Subscription, env Env) *Geofence {
	if req := subscription.RequiredSensors(sub.EventKind); req != sensor.NewKindSet(sensor.KindLocation) {
		panic(fmt.Sprintf("processor: geofence processor for %q requires exactly LOCATION, got %s", sub.EventKind, req))
	}
	if sub.Place == nil {
		panic(fmt.Sprintf("processor: geofence processor for subscription %s has no place", sub.ID))
	}

	fence := Fence{
		Name:         sub.Place.Name,
		Center:       sub.Place.Center,
		RadiusMeters: sub.Place.RadiusMeters,
	}
	return &Geofence{
		sub:       sub.Clone(),
		locations: env.Locations,
		notifier:  env.notifier(),
		logger:    env.logger().With("subscription_id", sub.ID, "place", fence.Name),
		machine:   NewGeofenceMachine(fence, env.debounce(), env.now()),
	}
}

// StartProcessing subscribes to the location stream on a new goroutine.
func (g *Geofence) StartProcessing() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.running {
		return
	}

	var fixes <-chan sensor.Fix
	var cancel func()
	if ds, ok := g.locations.(sensor.DropSource[sensor.Fix]); ok {
		fixes, cancel = ds.SubscribeDrops(g.onDrop)
	} else {
		fixes, cancel = g.locations.Subscribe()
	}
	g.stop = make(chan struct{})
	g.done = make(chan struct{})
	g.cancel = cancel
	g.running = true

	go g.run(fixes, g.stop, g.done)
	g.logger.Debug("geofence processor started")
}

// StopProcessing cancels the stream subscription and waits for the
// processing goroutine to exit.
func (g *Geofence) StopProcessing() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.running {
		return
	}

	close(g.stop)
	g.cancel()
	<-g.done

	g.running = false
	g.cancel = nil
	g.logger.Debug("geofence processor stopped")
}

// State returns the lifecycle state.
func (g *Geofence) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running {
		return StateRunning
	}
	return StateStopped
}

// Zone returns the machine state.
func (g *Geofence) Zone() GeofenceState {
	g.stateMu.Lock()
	defer g.stateMu.Unlock()
	return g.machine.State()
}

// Stats returns how many fixes were processed and how many panicked.
func (g *Geofence) Stats() (fixes, faults int) {
	g.stateMu.Lock()
	defer g.stateMu.Unlock()
	return g.fixes, g.faults
}

// Dropped returns how many fixes the stream dropped for this processor.
func (g *Geofence) Dropped() uint64 {
	return g.dropped.Load()
}

// onDrop runs under the stream lock.
func (g *Geofence) onDrop(total uint64) {
	g.dropped.Add(1)
	g.logger.Warn("location fix dropped, processor fell behind", "dropped_total", total)
}

func (g *Geofence) run(fixes <-chan sensor.Fix, stop, done chan struct{}) {
	defer close(done)

	for {
		select {
		case <-stop:
			return
		case fix, ok := <-fixes:
			if !ok {
				return
			}
			select {
			case <-stop:
				return
			default:
			}
			g.handle(fix)
		}
	}
}

// handle evaluates one fix. A panic is contained to this fix.
func (g *Geofence) handle(fix sensor.Fix) {
	defer func() {
		if r := recover(); r != nil {
			g.stateMu.Lock()
			g.faults++
			g.stateMu.Unlock()
			g.logger.Error("geofence fix processing panicked", "panic", fmt.Sprint(r))
		}
	}()

	ev := g.observe(fix)

	if ev.Candidate && !ev.Committed {
		g.logger.Debug("geofence transition debounced", "inside", ev.Inside, "distance_m", ev.Distance)
		return
	}
	if !ev.Committed {
		return
	}

	g.logger.Info("geofence transition committed", "transition", ev.Transition.String(), "distance_m", ev.Distance)
	g.notifier.Notify(notify.NewTransition(
		g.sub.ID, g.sub.PlaceTagID, g.machine.Fence().Name, ev.Transition, fix.Timestamp, ev.Distance,
	))
}

// observe feeds fix to the machine. The lock is released even if the
// machine panics, so the recover in handle can take it again.
func (g *Geofence) observe(fix sensor.Fix) Evaluation {
	g.stateMu.Lock()
	defer g.stateMu.Unlock()

	ev := g.machine.Observe(fix)
	g.fixes++
	return ev
}

var _ Processor = (*Geofence)(nil)
