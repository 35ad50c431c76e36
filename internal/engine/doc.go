// Package engine implements the call-sheet schedule engine.
//
// The engine owns the Schedule aggregate and is the only component that
// mutates it: UI callbacks become thin calls into the operations API,
// and every other consumer (views, persistence) reads immutable
// snapshots.
//
// ARCHITECTURE:
//
// Atomic Operations:
// Every operation computes on a private clone of the current schedule,
// runs the full invariant check, recomputes the conflict set, and only
// then publishes the result as a new snapshot. A rejected operation
// leaves the published snapshot bit-for-bit identical to its prior
// value. There is never a visible half-applied edit.
//
// Operation Flow:
// 1. Clone the current schedule
// 2. Apply the structural edit (reorder, retime, insert, ...)
// 3. Cascade downstream start times if the edit retimes and cascade is on
// 4. Validate all invariants (fail-fast on violation)
// 5. Recompute the conflict set over the full schedule
// 6. Stamp the next revision and swap the snapshot
//
// Cascading shifts only the edited entry's own track, skips locked
// entries without resetting the delta, and never touches shared
// (banner) entries. A cascade that would push any start past end of day
// rejects the whole edit.
//
// Conflicts are advisory. The detector re-runs after every mutation so
// the conflict set on a snapshot is never stale, but an overlapping
// schedule is still a legal schedule: a production may deliberately
// double-book a moment.
//
// The engine is single-threaded by design: operations are triggered by
// discrete user actions on one goroutine, run to completion in memory,
// and never suspend mid-mutation. Multi-user reconciliation is an
// external collaborator's problem, not this package's.
package engine
