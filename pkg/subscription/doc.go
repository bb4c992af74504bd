// Package subscription defines the data model for proximity subscriptions.
//
// A subscription is a persisted request to be notified of one event kind
// (geofence entry or exit, BLE asset tracking, ...) tied to a tagged place
// or asset. Subscriptions are owned by the store; the orchestrator only
// holds read-only, point-in-time copies of them.
//
// # Sensor Demand
//
// Each event kind maps to the set of sensor kinds that must be running to
// evaluate it:
//
//   - GEOFENCE_ENTRY, GEOFENCE_EXIT: LOCATION
//   - BLE_DISCONNECT_TRACK, BLE_NEARBY_TRACK: BLE
//   - unknown kinds: none
//
// The mapping is pure; it is recomputed whenever the active set changes and
// is never persisted.
//
// # Activity
//
// A subscription takes part in orchestration only while IsActive is set and
// its optional expiry lies in the future. See [Subscription.ActiveAt].
package subscription
