package engine

import (
	"fmt"

	"github.com/roach88/slate/internal/clock"
	"github.com/roach88/slate/internal/schedule"
)

// Snapshot is one fully-consistent state of a shoot day: the schedule,
// the conflict set computed from it, and the logical revision that
// produced it. Snapshots are immutable; consumers must not mutate the
// schedule they carry.
type Snapshot struct {
	Schedule  *schedule.Schedule `json:"schedule"`
	Conflicts []Conflict         `json:"conflicts"`
	Rev       int64              `json:"rev"`
}

// ConflictsFor returns the conflicts involving the given entry.
func (s Snapshot) ConflictsFor(entryID string) []Conflict {
	var out []Conflict
	for _, c := range s.Conflicts {
		if c.Involves(entryID) {
			out = append(out, c)
		}
	}
	return out
}

// HasConflict reports whether the entry participates in any conflict.
func (s Snapshot) HasConflict(entryID string) bool {
	for _, c := range s.Conflicts {
		if c.Involves(entryID) {
			return true
		}
	}
	return false
}

// Engine owns the current schedule snapshot and applies operations to
// it. All mutation goes through the operation methods; Snapshot()
// returns the latest consistent state for views and persistence.
//
// Engine is not safe for concurrent use. Operations are expected to run
// on a single goroutine, triggered by discrete user actions; this
// mirrors a UI main loop and keeps evaluation deterministic.
type Engine struct {
	snap Snapshot
	rev  *clock.Rev
}

// New creates an engine over an initial schedule, typically loaded from
// a persistence collaborator. The schedule is validated and its
// conflict set computed before the engine accepts it.
func New(initial *schedule.Schedule) (*Engine, error) {
	return NewAt(initial, 0)
}

// NewAt creates an engine resuming at a known revision, used when the
// schedule was loaded from a store that tracks revisions.
func NewAt(initial *schedule.Schedule, rev int64) (*Engine, error) {
	if initial == nil {
		return nil, fmt.Errorf("engine: nil schedule")
	}
	if violations := schedule.Validate(initial); len(violations) > 0 {
		return nil, NewInvariantError(violations)
	}
	s := initial.Clone()
	return &Engine{
		snap: Snapshot{
			Schedule:  s,
			Conflicts: DetectConflicts(s),
			Rev:       rev,
		},
		rev: clock.NewRevAt(rev),
	}, nil
}

// Snapshot returns the current consistent state.
func (e *Engine) Snapshot() Snapshot {
	return e.snap
}

// apply runs one atomic operation: clone, mutate, validate, recompute
// conflicts, publish. On any error the published snapshot is untouched.
//
// The mutation callback receives the clone and may return an OpError to
// reject the edit. A validation failure after a successful mutation is
// an engine bug and surfaces as InvariantViolation.
func (e *Engine) apply(mutate func(*schedule.Schedule) error) (Snapshot, error) {
	next := e.snap.Schedule.Clone()
	if err := mutate(next); err != nil {
		return e.snap, err
	}
	if violations := schedule.Validate(next); len(violations) > 0 {
		return e.snap, NewInvariantError(violations)
	}
	e.snap = Snapshot{
		Schedule:  next,
		Conflicts: DetectConflicts(next),
		Rev:       e.rev.Next(),
	}
	return e.snap, nil
}
