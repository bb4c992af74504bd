package sensor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// LocationProvider is the driver boundary for position fixes (the fused
// location provider on a phone, a GPS daemon, or a simulator).
type LocationProvider interface {
	// Start begins delivering fixes to emit. Errors wrapping
	// ErrPermissionDenied mean the OS refused access.
	Start(ctx context.Context, emit func(Fix)) error

	// Stop halts delivery.
	Stop() error
}

// LocationSensor adapts a LocationProvider into a Sensor and publishes its
// fixes on a replay-of-1 stream.
type LocationSensor struct {
	mu       sync.Mutex
	provider LocationProvider
	fixes    *Stream[Fix]
	running  bool
	logger   *slog.Logger
}

// NewLocationSensor creates a location sensor around provider. buffer is the
// per-subscriber stream buffer (0 uses DefaultStreamBuffer).
func NewLocationSensor(provider LocationProvider, buffer int, logger *slog.Logger) *LocationSensor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &LocationSensor{
		provider: provider,
		fixes:    NewStream[Fix](buffer),
		logger:   logger,
	}
}

// Kind returns KindLocation.
func (s *LocationSensor) Kind() Kind {
	return KindLocation
}

// Start starts the provider unless it is already running.
func (s *LocationSensor) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}
	if err := s.provider.Start(ctx, s.fixes.Publish); err != nil {
		return fmt.Errorf("start location provider: %w", err)
	}
	s.running = true
	s.logger.Debug("location sensor started")
	return nil
}

// Stop stops the provider if it is running. On error the sensor is still
// considered running.
func (s *LocationSensor) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	// A provider that failed to stop may still be delivering, so it stays
	// running and a later Stop retries.
	if err := s.provider.Stop(); err != nil {
		return fmt.Errorf("stop location provider: %w", err)
	}
	s.running = false
	s.logger.Debug("location sensor stopped")
	return nil
}

// Running reports whether the provider is started.
func (s *LocationSensor) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Fixes returns the fix stream. It exists whether or not the sensor runs,
// so processors can subscribe before the Supervisor starts it.
func (s *LocationSensor) Fixes() *Stream[Fix] {
	return s.fixes
}

var _ Sensor = (*LocationSensor)(nil)
