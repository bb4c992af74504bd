package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagwatch/tagwatch-go/pkg/config"
	"github.com/tagwatch/tagwatch-go/pkg/geo"
	"github.com/tagwatch/tagwatch-go/pkg/store"
	"github.com/tagwatch/tagwatch-go/pkg/subscription"
)

func seedConfig() config.SeedConfig {
	return config.SeedConfig{
		Places: []subscription.Place{{
			ID:           "office",
			Name:         "Office",
			Center:       geo.Point{Latitude: 12.9716, Longitude: 77.5946},
			RadiusMeters: 50,
		}},
		Subscriptions: []config.SeedSubscription{
			{EventKind: "geofence_entry", PlaceTagID: "office"},
			{EventKind: "GEOFENCE_EXIT", PlaceTagID: "office", Type: "app"},
		},
	}
}

func TestSeedEmptyStore(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	defer st.Close()

	require.NoError(t, seed(ctx, st, seedConfig()))

	subs, err := st.List(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	types := map[subscription.EventKind]subscription.Type{}
	for _, s := range subs {
		require.NotNil(t, s.Place)
		assert.Equal(t, "Office", s.Place.Name)
		assert.True(t, s.IsActive)
		types[s.EventKind] = s.Type
	}
	assert.Equal(t, map[subscription.EventKind]subscription.Type{
		subscription.EventGeofenceEntry: subscription.TypeUser,
		subscription.EventGeofenceExit:  subscription.TypeApp,
	}, types)
}

func TestSeedSkipsPopulatedStore(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	defer st.Close()

	require.NoError(t, seed(ctx, st, seedConfig()))
	require.NoError(t, seed(ctx, st, seedConfig()))

	subs, err := st.List(ctx)
	require.NoError(t, err)
	assert.Len(t, subs, 2)
}

func TestSeedRejectsBadSubscription(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	defer st.Close()

	cfg := seedConfig()
	cfg.Subscriptions = append(cfg.Subscriptions, config.SeedSubscription{Type: "robot", EventKind: "GEOFENCE_ENTRY"})

	assert.Error(t, seed(ctx, st, cfg))
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tagwatchd.yaml")
	require.NoError(t, os.WriteFile(path, []byte("debounce: 30s\nlog:\n  level: warn\n"), 0o600))

	t.Run("FileOnly", func(t *testing.T) {
		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		opts := options{configFile: path}
		fs.DurationVar(&opts.debounce, "debounce", 0, "")
		require.NoError(t, fs.Parse(nil))

		cfg, err := loadConfig(fs, opts)
		require.NoError(t, err)
		assert.Equal(t, 30*time.Second, cfg.Debounce)
		assert.Equal(t, "warn", cfg.Log.Level)
	})

	t.Run("FlagWins", func(t *testing.T) {
		opts := options{configFile: path}
		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		fs.DurationVar(&opts.debounce, "debounce", 0, "")
		fs.StringVar(&opts.logLevel, "log-level", "", "")
		require.NoError(t, fs.Parse([]string{"--debounce=2s", "--log-level=debug"}))

		cfg, err := loadConfig(fs, opts)
		require.NoError(t, err)
		assert.Equal(t, 2*time.Second, cfg.Debounce)
		assert.Equal(t, "debug", cfg.Log.Level)
	})

	t.Run("InvalidFlag", func(t *testing.T) {
		opts := options{configFile: path}
		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		fs.StringVar(&opts.logLevel, "log-level", "", "")
		require.NoError(t, fs.Parse([]string{"--log-level=loud"}))

		_, err := loadConfig(fs, opts)
		assert.ErrorIs(t, err, config.ErrInvalid)
	})
}
