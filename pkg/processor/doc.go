// Package processor implements per-subscription event processors.
//
// Every live subscription gets exactly one [Processor]. A processor is
// either STOPPED or RUNNING; [Processor.StartProcessing] and
// [Processor.StopProcessing] move between the two and are no-ops when the
// processor is already in the target state.
//
// [New] is the dispatch table from event kind to processor. It is total:
// kinds without an implementation (BLE tracking, kinds from newer app
// versions) get a [Noop] processor.
//
// # Geofence Processing
//
// [Geofence] subscribes to the location stream and feeds each fix into a
// [GeofenceMachine]. The machine tracks IN/OUT and only commits a transition
// when more than the debounce window has passed since the last committed
// one. Candidate transitions inside the window are dropped, so a subject
// oscillating across the boundary never flips the recorded zone faster than
// once per window.
//
// The machine starts OUT with its last transition set to construction time.
// A subject that is already inside the fence when the processor is built is
// therefore only reported after the first window has elapsed; an entry fix
// arriving earlier is dropped. This cold-start false negative is known and
// deliberate.
package processor
