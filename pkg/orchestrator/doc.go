// Package orchestrator keeps one event processor per active subscription
// and keeps the sensor supervisor's demand in line with them.
//
// The orchestrator watches the store for full subscription lists. Every
// list triggers a complete rebuild: all processors are stopped, one new
// processor is created and started per active subscription, and the union
// of their sensor demand is reconciled. Rebuilds, removals and shutdown are
// serialised on a single goroutine, which is the only writer of the
// processor map. Other goroutines read immutable Status snapshots.
package orchestrator
