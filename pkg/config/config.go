package config

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tagwatch/tagwatch-go/pkg/geo"
	"github.com/tagwatch/tagwatch-go/pkg/store"
	"github.com/tagwatch/tagwatch-go/pkg/subscription"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Config is the tagwatchd configuration.
type Config struct {
	// Debounce is the minimum time between committed geofence transitions.
	Debounce time.Duration `yaml:"debounce"`

	Log        LogConfig        `yaml:"log"`
	Store      StoreConfig      `yaml:"store"`
	Journal    JournalConfig    `yaml:"journal"`
	Stream     StreamConfig     `yaml:"stream"`
	Simulation SimulationConfig `yaml:"simulation"`
	Seed       SeedConfig       `yaml:"seed"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level"`

	// Format is text or json.
	Format string `yaml:"format"`
}

// StoreConfig selects the subscription store backend.
type StoreConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

// JournalConfig enables the CBOR notification journal when Path is set.
type JournalConfig struct {
	Path string `yaml:"path"`
}

// StreamConfig tunes sensor streams.
type StreamConfig struct {
	// Buffer is the per-subscriber fix buffer.
	Buffer int `yaml:"buffer"`
}

// SimulationConfig drives the simulated location provider.
type SimulationConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Interval  time.Duration `yaml:"interval"`
	SpeedMPS  float64       `yaml:"speed_mps"`
	Waypoints []geo.Point   `yaml:"waypoints"`
}

// SeedConfig lists places and subscriptions inserted into an empty store.
type SeedConfig struct {
	Places        []subscription.Place `yaml:"places"`
	Subscriptions []SeedSubscription   `yaml:"subscriptions"`
}

// SeedSubscription is the YAML form of a subscription.
type SeedSubscription struct {
	ID         string     `yaml:"id"`
	Type       string     `yaml:"type"`
	EventKind  string     `yaml:"event_kind"`
	PlaceTagID string     `yaml:"place_tag_id"`
	Active     *bool      `yaml:"active"`
	ExpiresAt  *time.Time `yaml:"expires_at"`
}

// Subscription converts the seed entry. Type defaults to USER and Active
// defaults to true.
func (s SeedSubscription) Subscription() (subscription.Subscription, error) {
	typ := subscription.TypeUser
	if s.Type != "" {
		t, err := subscription.ParseType(strings.ToUpper(s.Type))
		if err != nil {
			return subscription.Subscription{}, err
		}
		typ = t
	}
	active := true
	if s.Active != nil {
		active = *s.Active
	}
	sub := subscription.Subscription{
		ID:         s.ID,
		Type:       typ,
		EventKind:  subscription.EventKind(strings.ToUpper(s.EventKind)),
		PlaceTagID: s.PlaceTagID,
		IsActive:   active,
		ExpiresAt:  s.ExpiresAt,
	}
	return sub, sub.Validate()
}

// Default returns the embedded defaults.
func Default() Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultsYAML, &cfg); err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load reads path on top of the defaults and validates the result. An
// empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := Parse(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Parse decodes YAML into cfg, keeping values for absent keys.
func Parse(data []byte, cfg *Config) error {
	return yaml.Unmarshal(data, cfg)
}

// Validate checks the configuration.
func (c Config) Validate() error {
	var errs []error

	if c.Debounce < 0 {
		errs = append(errs, fmt.Errorf("%w: debounce must not be negative", ErrInvalid))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("%w: log format %q (must be text or json)", ErrInvalid, c.Log.Format))
	}

	driver, err := store.ParseDriver(c.Store.Driver)
	if err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalid, err))
	} else if driver != store.DriverMemory && c.Store.Path == "" {
		errs = append(errs, fmt.Errorf("%w: store driver %s needs a path", ErrInvalid, driver))
	}

	if c.Stream.Buffer < 0 {
		errs = append(errs, fmt.Errorf("%w: stream buffer must not be negative", ErrInvalid))
	}

	if c.Simulation.Enabled {
		if c.Simulation.Interval <= 0 {
			errs = append(errs, fmt.Errorf("%w: simulation interval must be positive", ErrInvalid))
		}
		if len(c.Simulation.Waypoints) == 0 {
			errs = append(errs, fmt.Errorf("%w: simulation needs at least one waypoint", ErrInvalid))
		}
	}
	for i, p := range c.Simulation.Waypoints {
		if !p.Valid() {
			errs = append(errs, fmt.Errorf("%w: waypoint %d %s out of range", ErrInvalid, i, p))
		}
	}

	for _, p := range c.Seed.Places {
		if err := p.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%w: seed place: %w", ErrInvalid, err))
		}
	}
	for i, s := range c.Seed.Subscriptions {
		if _, err := s.Subscription(); err != nil {
			errs = append(errs, fmt.Errorf("%w: seed subscription %d: %w", ErrInvalid, i, err))
		}
	}

	return errors.Join(errs...)
}

// StoreDriver returns the parsed store driver.
func (c Config) StoreDriver() store.Driver {
	d, err := store.ParseDriver(c.Store.Driver)
	if err != nil {
		return store.DriverMemory
	}
	return d
}

// ParseLevel parses a log level name.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: log level %q (must be debug, info, warn or error)", ErrInvalid, s)
	}
}
