// Package sensor implements the physical-sensor side of tagwatch.
//
// A [Sensor] is a capability that can be started and stopped. Sensors that
// produce data publish it on a [Stream], a broadcaster that always redelivers
// its most recent value to a new subscriber before live values. A processor
// that subscribes after the location sensor is already running therefore
// gets a fix immediately instead of waiting for the next one.
//
// # Supervision
//
// The [Supervisor] is the only component allowed to start or stop sensors.
// [Supervisor.Reconcile] diffs the requested [KindSet] against the active
// set, stops what is no longer needed and starts what is missing.
// Reconciling with an unchanged set performs no start or stop calls.
//
// Kinds without a backing implementation (BLE and WIFI in this build) fail
// lookup with [ErrNotImplemented]. A sensor whose driver reports
// [ErrPermissionDenied] is treated as not started. Both are soft failures:
// they are logged, the kind stays out of the active set and the remaining
// kinds are still reconciled. Nothing is retried automatically; the next
// Reconcile call tries again.
package sensor
