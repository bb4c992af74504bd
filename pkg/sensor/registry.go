package sensor

import (
	"fmt"
	"sync"
)

// Lookup resolves a kind to its sensor.
type Lookup interface {
	SensorFor(kind Kind) (Sensor, error)
}

// Registry maps kinds to sensor implementations.
type Registry struct {
	mu      sync.RWMutex
	sensors map[Kind]Sensor
}

// NewRegistry creates a registry holding the given sensors.
func NewRegistry(sensors ...Sensor) *Registry {
	r := &Registry{sensors: make(map[Kind]Sensor)}
	for _, s := range sensors {
		r.Register(s)
	}
	return r
}

// Register adds or replaces the sensor for s.Kind().
func (r *Registry) Register(s Sensor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sensors[s.Kind()] = s
}

// SensorFor returns the sensor for kind, or ErrNotImplemented.
func (r *Registry) SensorFor(kind Kind) (Sensor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sensors[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotImplemented, kind)
	}
	return s, nil
}

// Implemented returns the kinds that have a registered sensor.
func (r *Registry) Implemented() KindSet {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var set KindSet
	for k := range r.sensors {
		set = set.Add(k)
	}
	return set
}

var _ Lookup = (*Registry)(nil)
