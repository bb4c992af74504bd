package notify

import (
	"testing"
	"time"
)

func TestEncodeDecodeNotification(t *testing.T) {
	at := time.Date(2026, 5, 4, 9, 30, 0, 123456789, time.UTC)
	n := NewTransition("sub-1", "place-1", "Office", TransitionEntered, at, 12.5)

	data, err := Encode(n)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if !got.Timestamp.Equal(at) {
		t.Errorf("Timestamp = %v, want %v (nanosecond precision)", got.Timestamp, at)
	}
	if got.SubscriptionID != "sub-1" || got.PlaceID != "place-1" || got.PlaceName != "Office" {
		t.Errorf("identifiers = %+v", got)
	}
	if got.Transition != TransitionEntered {
		t.Errorf("Transition = %v, want ENTERED", got.Transition)
	}
	if got.DistanceMeters != 12.5 {
		t.Errorf("DistanceMeters = %v, want 12.5", got.DistanceMeters)
	}
}

func TestEncodeUsesIntegerKeys(t *testing.T) {
	data, err := Encode(Notification{SubscriptionID: "x"})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	// 0xa0-0xb7 is a small map; first key must be an unsigned integer (major type 0).
	if data[0]&0xe0 != 0xa0 {
		t.Fatalf("expected map header, got 0x%02x", data[0])
	}
	if data[1]&0xe0 != 0x00 {
		t.Errorf("first key major type = %d, want 0 (uint)", data[1]>>5)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte{0xff, 0x00}); err == nil {
		t.Error("Decode(garbage) succeeded")
	}
}

func TestNewTransitionMessages(t *testing.T) {
	tests := []struct {
		transition Transition
		title      string
		message    string
	}{
		{TransitionEntered, "Entered geofence", "entered geofence Home"},
		{TransitionExited, "Exited geofence", "exited geofence Home"},
	}

	for _, tt := range tests {
		t.Run(tt.transition.String(), func(t *testing.T) {
			n := NewTransition("s", "p", "Home", tt.transition, time.Now(), 0)
			if n.Title != tt.title {
				t.Errorf("Title = %q, want %q", n.Title, tt.title)
			}
			if n.Message != tt.message {
				t.Errorf("Message = %q, want %q", n.Message, tt.message)
			}
		})
	}
}
