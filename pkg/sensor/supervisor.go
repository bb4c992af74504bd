package sensor

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// Supervisor owns the set of running sensors.
type Supervisor struct {
	mu     sync.Mutex
	lookup Lookup
	active KindSet
	logger *slog.Logger

	// Lifetime counters for status output.
	starts int
	stops  int
}

// NewSupervisor creates a supervisor that resolves sensors through lookup.
func NewSupervisor(lookup Lookup, logger *slog.Logger) *Supervisor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Supervisor{
		lookup: lookup,
		logger: logger,
	}
}

// Reconcile stops every active sensor not in required and starts every
// required sensor not yet active. It returns the resulting active set.
//
// Kinds that cannot be started are logged and left out of the active set.
func (s *Supervisor) Reconcile(ctx context.Context, required KindSet) KindSet {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, kind := range s.active.Difference(required).Kinds() {
		s.stopLocked(kind)
	}

	for _, kind := range required.Difference(s.active).Kinds() {
		s.startLocked(ctx, kind)
	}

	s.logger.Debug("sensors reconciled", "required", required.String(), "active", s.active.String())
	return s.active
}

// Shutdown stops every active sensor.
func (s *Supervisor) Shutdown(ctx context.Context) {
	s.Reconcile(ctx, 0)
}

// Active returns the kinds currently started.
func (s *Supervisor) Active() KindSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Counters returns how many start and stop calls have been issued.
func (s *Supervisor) Counters() (starts, stops int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.starts, s.stops
}

func (s *Supervisor) startLocked(ctx context.Context, kind Kind) {
	sen, err := s.lookup.SensorFor(kind)
	if err != nil {
		if errors.Is(err, ErrNotImplemented) {
			s.logger.Warn("sensor kind not implemented, skipping", "sensor", kind.String())
		} else {
			s.logger.Warn("sensor lookup failed", "sensor", kind.String(), "error", err)
		}
		return
	}

	s.starts++
	if err := sen.Start(ctx); err != nil {
		if errors.Is(err, ErrPermissionDenied) {
			s.logger.Warn("sensor permission denied, not started", "sensor", kind.String())
		} else {
			s.logger.Warn("sensor start failed", "sensor", kind.String(), "error", err)
		}
		return
	}
	s.active = s.active.Add(kind)
	s.logger.Info("sensor started", "sensor", kind.String())
}

func (s *Supervisor) stopLocked(kind Kind) {
	s.active = s.active.Remove(kind)

	sen, err := s.lookup.SensorFor(kind)
	if err != nil {
		s.logger.Warn("sensor lookup failed on stop", "sensor", kind.String(), "error", err)
		return
	}

	s.stops++
	if err := sen.Stop(); err != nil {
		s.logger.Warn("sensor stop failed", "sensor", kind.String(), "error", err)
		return
	}
	s.logger.Info("sensor stopped", "sensor", kind.String())
}
