package sensor_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tagwatch/tagwatch-go/pkg/geo"
	"github.com/tagwatch/tagwatch-go/pkg/sensor"
	"github.com/tagwatch/tagwatch-go/pkg/sensor/mocks"
)

func TestLocationSensorStartIsIdempotent(t *testing.T) {
	provider := mocks.NewMockLocationProvider(t)
	provider.EXPECT().Start(mock.Anything, mock.Anything).Return(nil).Once()
	provider.EXPECT().Stop().Return(nil).Once()

	s := sensor.NewLocationSensor(provider, 0, nil)
	ctx := context.Background()

	require.NoError(t, s.Start(ctx))
	require.NoError(t, s.Start(ctx))
	assert.True(t, s.Running())

	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop())
	assert.False(t, s.Running())
}

func TestLocationSensorStopWithoutStart(t *testing.T) {
	provider := mocks.NewMockLocationProvider(t)

	s := sensor.NewLocationSensor(provider, 0, nil)
	require.NoError(t, s.Stop())
	assert.Equal(t, sensor.KindLocation, s.Kind())
}

func TestLocationSensorPermissionDenied(t *testing.T) {
	provider := mocks.NewMockLocationProvider(t)
	provider.EXPECT().Start(mock.Anything, mock.Anything).Return(sensor.ErrPermissionDenied).Once()

	s := sensor.NewLocationSensor(provider, 0, nil)
	err := s.Start(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, sensor.ErrPermissionDenied))
	assert.False(t, s.Running())
}

func TestLocationSensorFailedStopKeepsRunning(t *testing.T) {
	provider := mocks.NewMockLocationProvider(t)
	provider.EXPECT().Start(mock.Anything, mock.Anything).Return(nil).Once()
	provider.EXPECT().Stop().Return(errors.New("gps busy")).Once()
	provider.EXPECT().Stop().Return(nil).Once()

	s := sensor.NewLocationSensor(provider, 0, nil)
	ctx := context.Background()
	require.NoError(t, s.Start(ctx))

	require.Error(t, s.Stop())
	assert.True(t, s.Running())

	// The provider is still live, so Start must not start it again.
	require.NoError(t, s.Start(ctx))

	require.NoError(t, s.Stop())
	assert.False(t, s.Running())
}

func TestLocationSensorPublishesProviderFixes(t *testing.T) {
	var emit func(sensor.Fix)
	provider := mocks.NewMockLocationProvider(t)
	provider.EXPECT().Start(mock.Anything, mock.Anything).
		Run(func(_ context.Context, e func(sensor.Fix)) { emit = e }).
		Return(nil).Once()

	s := sensor.NewLocationSensor(provider, 4, nil)
	require.NoError(t, s.Start(context.Background()))
	require.NotNil(t, emit)

	fix := sensor.Fix{Point: geo.Point{Latitude: 1, Longitude: 2}, Timestamp: time.Unix(100, 0)}
	emit(fix)

	ch, cancel := s.Fixes().Subscribe()
	defer cancel()

	select {
	case got := <-ch:
		assert.Equal(t, fix, got)
	case <-time.After(time.Second):
		t.Fatal("late subscriber did not receive replayed fix")
	}
}

func TestRegistrySensorFor(t *testing.T) {
	loc := sensor.NewLocationSensor(mocks.NewMockLocationProvider(t), 0, nil)
	reg := sensor.NewRegistry(loc)

	got, err := reg.SensorFor(sensor.KindLocation)
	require.NoError(t, err)
	assert.Same(t, loc, got)

	for _, k := range []sensor.Kind{sensor.KindBLE, sensor.KindWiFi} {
		_, err := reg.SensorFor(k)
		assert.ErrorIs(t, err, sensor.ErrNotImplemented, "kind %s", k)
	}
	assert.Equal(t, sensor.NewKindSet(sensor.KindLocation), reg.Implemented())
}
