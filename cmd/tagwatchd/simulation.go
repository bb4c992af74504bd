package main

import (
	"context"
	"sync"
	"time"

	"github.com/tagwatch/tagwatch-go/pkg/geo"
	"github.com/tagwatch/tagwatch-go/pkg/sensor"
)

// simAccuracy is the reported accuracy of simulated fixes in metres.
const simAccuracy = 5

// simulatedProvider is a LocationProvider that walks a closed route through
// the configured waypoints. Fixes can also be injected by hand, which is
// all it does when no waypoints are configured.
type simulatedProvider struct {
	waypoints []geo.Point
	interval  time.Duration
	speed     float64
	now       func() time.Time

	mu      sync.Mutex
	emit    func(sensor.Fix)
	cancel  context.CancelFunc
	done    chan struct{}
	travel  float64
	running bool
}

func newSimulatedProvider(waypoints []geo.Point, interval time.Duration, speed float64) *simulatedProvider {
	return &simulatedProvider{
		waypoints: waypoints,
		interval:  interval,
		speed:     speed,
		now:       time.Now,
	}
}

// Start begins delivering fixes to emit.
func (p *simulatedProvider) Start(ctx context.Context, emit func(sensor.Fix)) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return nil
	}
	p.emit = emit
	p.running = true

	if len(p.waypoints) == 0 || p.interval <= 0 {
		return nil
	}

	// The walk outlives the Start call; only Stop ends it.
	walkCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	p.cancel = cancel
	p.done = make(chan struct{})
	go p.walk(walkCtx, p.done)
	return nil
}

// Stop halts delivery.
func (p *simulatedProvider) Stop() error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = false
	p.emit = nil
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	return nil
}

// Inject delivers a fix at pt. It reports false when the provider is not
// running.
func (p *simulatedProvider) Inject(pt geo.Point) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running || p.emit == nil {
		return false
	}
	p.emit(sensor.Fix{Point: pt, AccuracyMeters: simAccuracy, Timestamp: p.now()})
	return true
}

func (p *simulatedProvider) walk(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.step(0)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.step(p.speed * p.interval.Seconds())
		}
	}
}

// step advances the walk by meters and emits the resulting position.
func (p *simulatedProvider) step(meters float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running || p.emit == nil {
		return
	}
	p.travel += meters
	p.emit(sensor.Fix{
		Point:          routePosition(p.waypoints, p.travel),
		AccuracyMeters: simAccuracy,
		Timestamp:      p.now(),
	})
}

// routePosition returns the point reached after travelling the given
// distance along the closed route through waypoints.
func routePosition(waypoints []geo.Point, travel float64) geo.Point {
	if len(waypoints) == 1 {
		return waypoints[0]
	}

	var loop float64
	for i := range waypoints {
		loop += geo.Distance(waypoints[i], waypoints[(i+1)%len(waypoints)])
	}
	if loop == 0 {
		return waypoints[0]
	}

	remaining := travel - loop*float64(int(travel/loop))
	for i := range waypoints {
		a, b := waypoints[i], waypoints[(i+1)%len(waypoints)]
		leg := geo.Distance(a, b)
		if remaining <= leg {
			if leg == 0 {
				return a
			}
			f := remaining / leg
			return geo.Point{
				Latitude:  a.Latitude + (b.Latitude-a.Latitude)*f,
				Longitude: a.Longitude + (b.Longitude-a.Longitude)*f,
			}
		}
		remaining -= leg
	}
	return waypoints[0]
}

var _ sensor.LocationProvider = (*simulatedProvider)(nil)
