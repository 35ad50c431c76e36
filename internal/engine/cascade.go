package engine

import (
	"github.com/roach88/slate/internal/clock"
	"github.com/roach88/slate/internal/schedule"
)

// cascade shifts every entry after the edited one in its track by delta
// minutes, mutating s in place. The caller is responsible for working
// on a clone and for honoring Settings.CascadeEnabled.
//
// Rules:
//   - Only the edited entry's own track shifts; cascade never crosses
//     tracks and never touches shared (banner) entries.
//   - "After" means later in the track's order sequence, not later in
//     clock time: an out-of-chronological-order entry still shifts.
//   - Locked entries keep their start time but do not stop the cascade:
//     entries after a locked entry still shift by the full delta. A lock
//     is a visual pin, not a barrier.
//
// If any shift would move a start outside the day, or make an entry run
// past midnight, cascade returns ScheduleOverflow and s must be
// discarded. The edited entry's own bounds are the caller's problem;
// cascade only guards the downstream shifts.
func cascade(s *schedule.Schedule, edited schedule.Entry, delta int) error {
	if delta == 0 || edited.Shared() {
		return nil
	}

	for i := range s.Entries {
		e := &s.Entries[i]
		if e.Shared() || e.TrackID != edited.TrackID {
			continue
		}
		if e.Order <= edited.Order || e.Locked {
			continue
		}
		shifted, err := clock.Add(e.Start, delta)
		if err != nil {
			return NewOverflowError(e.ID, int(e.Start)+delta)
		}
		if int(shifted)+e.Duration > clock.MinutesPerDay {
			return NewOverflowError(e.ID, int(shifted)+e.Duration)
		}
		e.Start = shifted
	}
	return nil
}
