package sensor

import (
	"context"
	"errors"
	"time"

	"github.com/tagwatch/tagwatch-go/pkg/geo"
)

// Sensor errors.
var (
	// ErrNotImplemented is returned for sensor kinds with no backing implementation.
	ErrNotImplemented = errors.New("sensor not implemented")

	// ErrPermissionDenied is returned by drivers when the OS refused access.
	ErrPermissionDenied = errors.New("sensor permission denied")
)

// Sensor is a physical capability the Supervisor can start and stop.
// Start on a running sensor and Stop on a stopped one must be no-ops.
type Sensor interface {
	// Kind returns the capability this sensor provides.
	Kind() Kind

	// Start begins producing readings.
	Start(ctx context.Context) error

	// Stop halts the sensor.
	Stop() error
}

// Fix is a single position reading.
type Fix struct {
	// Point is the reported position.
	Point geo.Point

	// AccuracyMeters is the reported horizontal accuracy, zero if unknown.
	AccuracyMeters float64

	// Timestamp is when the fix was taken.
	Timestamp time.Time
}

// Source is the read side of a Stream.
type Source[T any] interface {
	// Subscribe returns a channel of values and a function that cancels the
	// subscription and closes the channel.
	Subscribe() (<-chan T, func())
}

// DropSource is a Source that reports values it drops for a slow subscriber.
type DropSource[T any] interface {
	Source[T]

	// SubscribeDrops is Subscribe with a callback receiving the
	// subscriber's running drop count.
	SubscribeDrops(onDrop func(total uint64)) (<-chan T, func())
}
