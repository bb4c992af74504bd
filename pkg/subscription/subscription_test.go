package subscription

import (
	"errors"
	"testing"
	"time"

	"github.com/tagwatch/tagwatch-go/pkg/geo"
	"github.com/tagwatch/tagwatch-go/pkg/sensor"
)

func TestRequiredSensors(t *testing.T) {
	tests := []struct {
		kind EventKind
		want sensor.KindSet
	}{
		{EventGeofenceEntry, sensor.NewKindSet(sensor.KindLocation)},
		{EventGeofenceExit, sensor.NewKindSet(sensor.KindLocation)},
		{EventBLEDisconnectTrack, sensor.NewKindSet(sensor.KindBLE)},
		{EventBLENearbyTrack, sensor.NewKindSet(sensor.KindBLE)},
		{EventKind("WIFI_ARRIVAL"), 0},
		{EventKind(""), 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if got := RequiredSensors(tt.kind); got != tt.want {
				t.Errorf("RequiredSensors(%q) = %s, want %s", tt.kind, got, tt.want)
			}
		})
	}
}

func TestRequiredSensorsAll(t *testing.T) {
	subs := []Subscription{
		{EventKind: EventGeofenceEntry},
		{EventKind: EventGeofenceExit},
		{EventKind: EventBLENearbyTrack},
		{EventKind: "FUTURE"},
	}
	want := sensor.NewKindSet(sensor.KindLocation, sensor.KindBLE)
	if got := RequiredSensorsAll(subs); got != want {
		t.Errorf("RequiredSensorsAll() = %s, want %s", got, want)
	}
	if got := RequiredSensorsAll(nil); !got.Empty() {
		t.Errorf("RequiredSensorsAll(nil) = %s, want empty", got)
	}
}

func TestKnownEventKinds(t *testing.T) {
	for _, k := range KnownEventKinds() {
		if !k.Known() {
			t.Errorf("%q.Known() = false", k)
		}
	}
	if EventKind("FUTURE").Known() {
		t.Error("FUTURE.Known() = true")
	}
	if !EventGeofenceExit.IsGeofence() || EventBLENearbyTrack.IsGeofence() {
		t.Error("IsGeofence() mismatch")
	}
}

func TestActiveAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	tests := []struct {
		name string
		sub  Subscription
		want bool
	}{
		{"ActiveNoExpiry", Subscription{IsActive: true}, true},
		{"Inactive", Subscription{IsActive: false}, false},
		{"Expired", Subscription{IsActive: true, ExpiresAt: &past}, false},
		{"ExpiresExactlyNow", Subscription{IsActive: true, ExpiresAt: &now}, false},
		{"NotYetExpired", Subscription{IsActive: true, ExpiresAt: &future}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sub.ActiveAt(now); got != tt.want {
				t.Errorf("ActiveAt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	valid := Subscription{Type: TypeUser, EventKind: EventGeofenceEntry, PlaceTagID: "home"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	noKind := valid
	noKind.EventKind = ""
	if err := noKind.Validate(); !errors.Is(err, ErrMissingEventKind) {
		t.Errorf("Validate() = %v, want ErrMissingEventKind", err)
	}

	noPlace := valid
	noPlace.PlaceTagID = ""
	if err := noPlace.Validate(); !errors.Is(err, ErrMissingPlaceTag) {
		t.Errorf("Validate() = %v, want ErrMissingPlaceTag", err)
	}

	badType := valid
	badType.Type = 0
	if err := badType.Validate(); !errors.Is(err, ErrInvalidType) {
		t.Errorf("Validate() = %v, want ErrInvalidType", err)
	}
}

func TestPlaceValidate(t *testing.T) {
	ok := Place{ID: "p1", Center: geo.Point{Latitude: 12.9716, Longitude: 77.5946}, RadiusMeters: 50}
	if err := ok.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	zeroRadius := ok
	zeroRadius.RadiusMeters = 0
	if err := zeroRadius.Validate(); !errors.Is(err, ErrInvalidPlace) {
		t.Errorf("Validate() = %v, want ErrInvalidPlace", err)
	}

	badCenter := ok
	badCenter.Center.Latitude = 120
	if err := badCenter.Validate(); !errors.Is(err, ErrInvalidPlace) {
		t.Errorf("Validate() = %v, want ErrInvalidPlace", err)
	}
}

func TestTypeText(t *testing.T) {
	for _, typ := range []Type{TypeApp, TypeUser} {
		b, err := typ.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText() error = %v", err)
		}
		var got Type
		if err := got.UnmarshalText(b); err != nil {
			t.Fatalf("UnmarshalText(%q) error = %v", b, err)
		}
		if got != typ {
			t.Errorf("round trip = %v, want %v", got, typ)
		}
	}
	if _, err := ParseType("ROBOT"); !errors.Is(err, ErrInvalidType) {
		t.Errorf("ParseType(ROBOT) = %v, want ErrInvalidType", err)
	}
}

func TestCloneIsDeep(t *testing.T) {
	exp := time.Now()
	orig := Subscription{
		ID:        "s1",
		Place:     &Place{ID: "p1", Name: "Home"},
		ExpiresAt: &exp,
	}

	c := orig.Clone()
	c.Place.Name = "Office"
	*c.ExpiresAt = exp.Add(time.Hour)

	if orig.Place.Name != "Home" {
		t.Error("Clone shares Place with original")
	}
	if !orig.ExpiresAt.Equal(exp) {
		t.Error("Clone shares ExpiresAt with original")
	}
}
