package subscription

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tagwatch/tagwatch-go/pkg/geo"
	"github.com/tagwatch/tagwatch-go/pkg/sensor"
)

// Validation errors.
var (
	ErrMissingEventKind = errors.New("subscription event kind is required")
	ErrMissingPlaceTag  = errors.New("subscription place tag is required")
	ErrInvalidType      = errors.New("invalid subscription type")
	ErrInvalidPlace     = errors.New("invalid place")
)

// Type identifies who registered a subscription.
type Type uint8

const (
	// TypeApp marks a subscription registered by a third-party app.
	TypeApp Type = iota + 1

	// TypeUser marks a subscription registered by the user.
	TypeUser
)

// String returns the type name.
func (t Type) String() string {
	switch t {
	case TypeApp:
		return "APP"
	case TypeUser:
		return "USER"
	default:
		return "UNKNOWN"
	}
}

// ParseType parses "APP" or "USER" (case-sensitive).
func ParseType(s string) (Type, error) {
	switch s {
	case "APP":
		return TypeApp, nil
	case "USER":
		return TypeUser, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidType, s)
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(b []byte) error {
	v, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// EventKind is the trigger a subscription waits for. It is a string so that
// kinds written by newer app versions survive a round trip through the store.
type EventKind string

// Known event kinds.
const (
	EventGeofenceEntry      EventKind = "GEOFENCE_ENTRY"
	EventGeofenceExit       EventKind = "GEOFENCE_EXIT"
	EventBLEDisconnectTrack EventKind = "BLE_DISCONNECT_TRACK"
	EventBLENearbyTrack     EventKind = "BLE_NEARBY_TRACK"
)

// KnownEventKinds lists every event kind this build understands.
func KnownEventKinds() []EventKind {
	return []EventKind{
		EventGeofenceEntry,
		EventGeofenceExit,
		EventBLEDisconnectTrack,
		EventBLENearbyTrack,
	}
}

// Known reports whether k is one of KnownEventKinds.
func (k EventKind) Known() bool {
	switch k {
	case EventGeofenceEntry, EventGeofenceExit, EventBLEDisconnectTrack, EventBLENearbyTrack:
		return true
	}
	return false
}

// IsGeofence reports whether k is evaluated against a circular geofence.
func (k EventKind) IsGeofence() bool {
	return k == EventGeofenceEntry || k == EventGeofenceExit
}

// RequiredSensors maps an event kind to the sensor kinds it needs.
// Unknown kinds need nothing.
func RequiredSensors(k EventKind) sensor.KindSet {
	switch k {
	case EventGeofenceEntry, EventGeofenceExit:
		return sensor.NewKindSet(sensor.KindLocation)
	case EventBLEDisconnectTrack, EventBLENearbyTrack:
		return sensor.NewKindSet(sensor.KindBLE)
	default:
		return 0
	}
}

// Place is a tagged place or asset a subscription refers to.
type Place struct {
	// ID is the place tag identifier referenced by Subscription.PlaceTagID.
	ID string `json:"id" yaml:"id"`

	// Name is shown in notifications.
	Name string `json:"name" yaml:"name"`

	// Center of the geofence.
	Center geo.Point `json:"center" yaml:"center"`

	// RadiusMeters of the geofence.
	RadiusMeters float64 `json:"radius_m" yaml:"radius_m"`

	// AssetAddress is the BLE address of a tracked asset, if any.
	AssetAddress string `json:"asset_address,omitempty" yaml:"asset_address,omitempty"`
}

// Validate checks that the place describes a usable geofence.
func (p Place) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidPlace)
	}
	if !p.Center.Valid() {
		return fmt.Errorf("%w: center %s out of range", ErrInvalidPlace, p.Center)
	}
	if p.RadiusMeters <= 0 {
		return fmt.Errorf("%w: radius must be positive, got %v", ErrInvalidPlace, p.RadiusMeters)
	}
	return nil
}

// Subscription is a point-in-time copy of a persisted subscription.
type Subscription struct {
	// ID is the stable unique identifier.
	ID string `json:"id"`

	// Type records who registered the subscription.
	Type Type `json:"type"`

	// EventKind is the trigger to watch for.
	EventKind EventKind `json:"event_kind"`

	// PlaceTagID references the tagged place or asset.
	PlaceTagID string `json:"place_tag_id"`

	// Place is the resolved place row, nil when the store could not find it.
	Place *Place `json:"place,omitempty"`

	// CreatedAt is when the subscription was stored.
	CreatedAt time.Time `json:"created_at"`

	// IsActive can be cleared to pause a subscription without deleting it.
	IsActive bool `json:"is_active"`

	// ExpiresAt optionally bounds the subscription lifetime.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// NewID returns a fresh subscription or place identifier.
func NewID() string {
	return uuid.NewString()
}

// ActiveAt reports whether the subscription takes part in orchestration at now.
func (s Subscription) ActiveAt(now time.Time) bool {
	if !s.IsActive {
		return false
	}
	return s.ExpiresAt == nil || now.Before(*s.ExpiresAt)
}

// RequiredSensors returns the sensor kinds needed to evaluate s.
func (s Subscription) RequiredSensors() sensor.KindSet {
	return RequiredSensors(s.EventKind)
}

// Validate checks the fields a store requires before insert.
func (s Subscription) Validate() error {
	if s.EventKind == "" {
		return ErrMissingEventKind
	}
	if s.PlaceTagID == "" {
		return ErrMissingPlaceTag
	}
	if s.Type != TypeApp && s.Type != TypeUser {
		return fmt.Errorf("%w: %d", ErrInvalidType, s.Type)
	}
	return nil
}

// Clone returns a deep copy so callers can hand out snapshots safely.
func (s Subscription) Clone() Subscription {
	c := s
	if s.Place != nil {
		p := *s.Place
		c.Place = &p
	}
	if s.ExpiresAt != nil {
		e := *s.ExpiresAt
		c.ExpiresAt = &e
	}
	return c
}

// CloneAll deep-copies a list of subscriptions.
func CloneAll(subs []Subscription) []Subscription {
	out := make([]Subscription, len(subs))
	for i, s := range subs {
		out[i] = s.Clone()
	}
	return out
}

// RequiredSensorsAll returns the union of sensor demand across subs.
func RequiredSensorsAll(subs []Subscription) sensor.KindSet {
	var set sensor.KindSet
	for _, s := range subs {
		set = set.Union(s.RequiredSensors())
	}
	return set
}
