package notify

import (
	"fmt"
	"time"
)

// Transition is the direction of a committed geofence transition.
type Transition uint8

const (
	// TransitionEntered means the subject moved from OUT to IN.
	TransitionEntered Transition = 1

	// TransitionExited means the subject moved from IN to OUT.
	TransitionExited Transition = 2
)

// String returns the transition name.
func (t Transition) String() string {
	switch t {
	case TransitionEntered:
		return "ENTERED"
	case TransitionExited:
		return "EXITED"
	default:
		return "UNKNOWN"
	}
}

// Title returns the user-facing notification title for t.
func (t Transition) Title() string {
	switch t {
	case TransitionEntered:
		return "Entered geofence"
	case TransitionExited:
		return "Exited geofence"
	default:
		return "Geofence update"
	}
}

// Notification is a single user-visible notification.
// CBOR encoding uses integer keys for compactness.
type Notification struct {
	// Timestamp of the fix that committed the transition.
	Timestamp time.Time `cbor:"1,keyasint"`

	// SubscriptionID identifies the subscription that fired.
	SubscriptionID string `cbor:"2,keyasint"`

	// PlaceID is the geofence place tag.
	PlaceID string `cbor:"3,keyasint,omitempty"`

	// PlaceName is the display name of the geofence.
	PlaceName string `cbor:"4,keyasint,omitempty"`

	// Transition is the committed direction.
	Transition Transition `cbor:"5,keyasint"`

	// Title is the notification title.
	Title string `cbor:"6,keyasint"`

	// Message is the notification body.
	Message string `cbor:"7,keyasint"`

	// DistanceMeters from the geofence center at commit time.
	DistanceMeters float64 `cbor:"8,keyasint,omitempty"`
}

// NewTransition builds the notification for a committed transition.
func NewTransition(subscriptionID, placeID, placeName string, t Transition, at time.Time, distance float64) Notification {
	var msg string
	switch t {
	case TransitionEntered:
		msg = fmt.Sprintf("entered geofence %s", placeName)
	case TransitionExited:
		msg = fmt.Sprintf("exited geofence %s", placeName)
	default:
		msg = fmt.Sprintf("geofence %s changed", placeName)
	}
	return Notification{
		Timestamp:      at,
		SubscriptionID: subscriptionID,
		PlaceID:        placeID,
		PlaceName:      placeName,
		Transition:     t,
		Title:          t.Title(),
		Message:        msg,
		DistanceMeters: distance,
	}
}
