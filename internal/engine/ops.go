package engine

import (
	"github.com/google/uuid"

	"github.com/roach88/slate/internal/clock"
	"github.com/roach88/slate/internal/schedule"
)

// AtStart is the sentinel for Insert's afterEntryID meaning "insert at
// the head of the track".
const AtStart = ""

// ReorderWithinTrack moves an entry to a new position in its track's
// order sequence and renumbers the track densely. newIndex is clamped
// to the valid range, matching drag-and-drop behavior where a drop past
// the end lands on the last slot.
//
// Reordering changes sequence, not time: start times are untouched and
// no cascade runs even when cascade is enabled. A user may deliberately
// keep entries out of chronological order.
//
// For a shared entry anchored to trackID, this repositions its anchor
// order without renumbering the track's own entries.
func (e *Engine) ReorderWithinTrack(trackID, entryID string, newIndex int) (Snapshot, error) {
	return e.apply(func(s *schedule.Schedule) error {
		entry, ok := s.EntryByID(entryID)
		if !ok {
			return NewEntryNotFoundError(entryID)
		}

		if entry.Shared() {
			if entry.AnchorTrackID != trackID {
				return NewEntryNotFoundError(entryID)
			}
			n := len(s.TrackEntries(trackID))
			setOrder(s, entryID, clamp(newIndex, 0, n))
			return nil
		}

		if entry.TrackID != trackID {
			return NewEntryNotFoundError(entryID)
		}

		seq := s.TrackEntries(trackID)
		seq = removeByID(seq, entryID)
		idx := clamp(newIndex, 0, len(seq))
		seq = insertAt(seq, idx, entry)
		renumber(s, seq)
		return nil
	})
}

// MoveToTrack reassigns an entry to another track at the given position.
// The source track and the target track are both renumbered densely.
// Start time and duration are preserved verbatim; the conflict set is
// recomputed afterward since the new track may introduce or resolve
// overlaps.
//
// Moving a shared entry re-anchors it to the target track. This is also
// the repair path for a banner orphaned by track deletion.
func (e *Engine) MoveToTrack(entryID, targetTrackID string, newIndex int) (Snapshot, error) {
	return e.apply(func(s *schedule.Schedule) error {
		entry, ok := s.EntryByID(entryID)
		if !ok {
			return NewEntryNotFoundError(entryID)
		}
		if _, ok := s.TrackByID(targetTrackID); !ok {
			return NewTrackNotFoundError(targetTrackID)
		}

		if entry.Shared() {
			n := len(s.TrackEntries(targetTrackID))
			setAnchor(s, entryID, targetTrackID, clamp(newIndex, 0, n))
			return nil
		}

		// Remove from source, renumber the remainder.
		source := removeByID(s.TrackEntries(entry.TrackID), entryID)
		renumber(s, source)

		// Insert into target at the clamped index, renumber.
		entry.TrackID = targetTrackID
		setTrack(s, entryID, targetTrackID)
		target := removeByID(s.TrackEntries(targetTrackID), entryID)
		target = insertAt(target, clamp(newIndex, 0, len(target)), entry)
		renumber(s, target)
		return nil
	})
}

// Insert adds a new entry to a track after the entry named by
// afterEntryID, or at the head of the track when afterEntryID is
// AtStart. Subsequent entries shift down by one order slot. An empty
// entry id is minted automatically.
//
// Inserting into SharedTrackID creates a banner: the entry's anchor
// track must name an existing track, and afterEntryID positions the
// banner within that track's sequence.
//
// Insert never cascades; the new entry occupies whatever window its
// start and duration describe, and any resulting overlap is surfaced by
// the conflict set.
func (e *Engine) Insert(entry schedule.Entry, trackID, afterEntryID string) (Snapshot, error) {
	return e.apply(func(s *schedule.Schedule) error {
		if entry.ID == "" {
			entry.ID = uuid.NewString()
		}
		if _, exists := s.EntryByID(entry.ID); exists {
			return NewOutOfRangeError(entry.ID, "entry id already in use")
		}
		if entry.Duration < 0 {
			return NewOutOfRangeError(entry.ID, "duration must be >= 0")
		}
		if !entry.Start.Valid() {
			return NewOutOfRangeError(entry.ID, "start time outside the schedule day")
		}
		if entry.End() > clock.MinutesPerDay {
			return NewOverflowError(entry.ID, entry.End())
		}

		if trackID == schedule.SharedTrackID {
			entry.TrackID = schedule.SharedTrackID
			anchor := entry.AnchorTrackID
			if _, ok := s.TrackByID(anchor); !ok {
				return NewTrackNotFoundError(anchor)
			}
			entry.Order = 0
			if afterEntryID != AtStart {
				after, ok := s.EntryByID(afterEntryID)
				switch {
				case !ok:
					return NewEntryNotFoundError(afterEntryID)
				case after.Shared() && after.AnchorTrackID != anchor:
					return NewEntryNotFoundError(afterEntryID)
				case !after.Shared() && after.TrackID != anchor:
					return NewEntryNotFoundError(afterEntryID)
				}
				entry.Order = after.Order + 1
			}
			s.Entries = append(s.Entries, entry)
			return nil
		}

		if _, ok := s.TrackByID(trackID); !ok {
			return NewTrackNotFoundError(trackID)
		}
		entry.TrackID = trackID
		entry.AnchorTrackID = ""

		seq := s.TrackEntries(trackID)
		idx := 0
		if afterEntryID != AtStart {
			pos := indexByID(seq, afterEntryID)
			if pos < 0 {
				return NewEntryNotFoundError(afterEntryID)
			}
			idx = pos + 1
		}
		seq = insertAt(seq, idx, entry)
		s.Entries = append(s.Entries, entry)
		renumber(s, seq)
		return nil
	})
}

// Remove deletes an entry and densely renumbers the remainder of its
// track. The time gap left behind is intentional: closing it is a
// separate, explicit ripple action owned by the UI, so no cascade runs.
func (e *Engine) Remove(entryID string) (Snapshot, error) {
	return e.apply(func(s *schedule.Schedule) error {
		entry, ok := s.EntryByID(entryID)
		if !ok {
			return NewEntryNotFoundError(entryID)
		}

		kept := s.Entries[:0:0]
		for _, x := range s.Entries {
			if x.ID != entryID {
				kept = append(kept, x)
			}
		}
		s.Entries = kept

		if !entry.Shared() {
			renumber(s, s.TrackEntries(entry.TrackID))
		}
		return nil
	})
}

// Retime sets an entry's start time directly, then cascades downstream
// entries in the same track when cascade is enabled. The delta applied
// downstream equals the change in the entry's end time, which for a
// pure retime is the change in its start.
//
// A locked entry may be retimed directly; the lock only shields it from
// cascade-induced shifts.
func (e *Engine) Retime(entryID string, newStart clock.Minute) (Snapshot, error) {
	return e.apply(func(s *schedule.Schedule) error {
		entry, ok := s.EntryByID(entryID)
		if !ok {
			return NewEntryNotFoundError(entryID)
		}
		if !newStart.Valid() {
			return NewOutOfRangeError(entryID, "start time outside the schedule day")
		}
		if int(newStart)+entry.Duration > clock.MinutesPerDay {
			return NewOverflowError(entryID, int(newStart)+entry.Duration)
		}

		delta := int(newStart) - int(entry.Start)
		setStart(s, entryID, newStart)
		entry.Start = newStart

		if s.Settings.CascadeEnabled {
			return cascade(s, entry, delta)
		}
		return nil
	})
}

// Resize sets an entry's duration, then cascades downstream entries in
// the same track when cascade is enabled. With cascade disabled only
// the entry itself changes; any overlap that creates is surfaced by the
// conflict set, not blocked.
func (e *Engine) Resize(entryID string, newDuration int) (Snapshot, error) {
	return e.apply(func(s *schedule.Schedule) error {
		entry, ok := s.EntryByID(entryID)
		if !ok {
			return NewEntryNotFoundError(entryID)
		}
		if newDuration < 0 {
			return NewOutOfRangeError(entryID, "duration must be >= 0")
		}
		if int(entry.Start)+newDuration > clock.MinutesPerDay {
			return NewOverflowError(entryID, int(entry.Start)+newDuration)
		}

		delta := newDuration - entry.Duration
		setDuration(s, entryID, newDuration)
		entry.Duration = newDuration

		if s.Settings.CascadeEnabled {
			return cascade(s, entry, delta)
		}
		return nil
	})
}

// SetLocked pins or unpins an entry against cascade-induced shifts.
func (e *Engine) SetLocked(entryID string, locked bool) (Snapshot, error) {
	return e.apply(func(s *schedule.Schedule) error {
		if _, ok := s.EntryByID(entryID); !ok {
			return NewEntryNotFoundError(entryID)
		}
		for i := range s.Entries {
			if s.Entries[i].ID == entryID {
				s.Entries[i].Locked = locked
			}
		}
		return nil
	})
}

// SetCascadeEnabled toggles automatic downstream shifting. Toggling has
// no retroactive effect on already-applied edits.
func (e *Engine) SetCascadeEnabled(enabled bool) (Snapshot, error) {
	return e.apply(func(s *schedule.Schedule) error {
		s.Settings.CascadeEnabled = enabled
		return nil
	})
}

// SetShowDurations toggles the display-only duration flag. The engine
// stores it with the schedule but never acts on it.
func (e *Engine) SetShowDurations(show bool) (Snapshot, error) {
	return e.apply(func(s *schedule.Schedule) error {
		s.Settings.ShowDurations = show
		return nil
	})
}

// AddTrack registers a new parallel lane. Track management belongs to
// the surrounding application; the engine only guards the invariants.
func (e *Engine) AddTrack(t schedule.Track) (Snapshot, error) {
	return e.apply(func(s *schedule.Schedule) error {
		if t.ID == "" || t.ID == schedule.SharedTrackID {
			return &OpError{Code: ErrCodeOutOfRange, TrackID: t.ID, Message: "track id is required and must not be reserved"}
		}
		if _, exists := s.TrackByID(t.ID); exists {
			return &OpError{Code: ErrCodeOutOfRange, TrackID: t.ID, Message: "track id already in use"}
		}
		// New tracks always land after every existing track.
		t.Order = 0
		for _, existing := range s.Tracks {
			if existing.Order >= t.Order {
				t.Order = existing.Order + 1
			}
		}
		s.Tracks = append(s.Tracks, t)
		return nil
	})
}

// RemoveTrack deletes an empty track. A track still carrying entries or
// anchored banners cannot be removed: its entries would be orphaned,
// and orphans must be reassigned or removed explicitly, never silently
// dropped. The rejection carries the would-be orphans as violations.
func (e *Engine) RemoveTrack(trackID string) (Snapshot, error) {
	return e.apply(func(s *schedule.Schedule) error {
		if _, ok := s.TrackByID(trackID); !ok {
			return NewTrackNotFoundError(trackID)
		}

		kept := s.Tracks[:0:0]
		for _, t := range s.Tracks {
			if t.ID != trackID {
				kept = append(kept, t)
			}
		}
		s.Tracks = kept

		// Surface orphans as a rejection rather than publishing them.
		if violations := schedule.Validate(s); len(violations) > 0 {
			return NewInvariantError(violations)
		}
		return nil
	})
}

// Internal helpers below operate on the cloned schedule inside apply;
// none of them validate, the post-condition check covers that.

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func indexByID(entries []schedule.Entry, id string) int {
	for i, e := range entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func removeByID(entries []schedule.Entry, id string) []schedule.Entry {
	out := entries[:0:0]
	for _, e := range entries {
		if e.ID != id {
			out = append(out, e)
		}
	}
	return out
}

func insertAt(entries []schedule.Entry, idx int, e schedule.Entry) []schedule.Entry {
	out := make([]schedule.Entry, 0, len(entries)+1)
	out = append(out, entries[:idx]...)
	out = append(out, e)
	out = append(out, entries[idx:]...)
	return out
}

// renumber writes dense 0..n-1 orders back into the schedule following
// the given sequence.
func renumber(s *schedule.Schedule, seq []schedule.Entry) {
	for pos, e := range seq {
		setOrder(s, e.ID, pos)
	}
}

func setOrder(s *schedule.Schedule, id string, order int) {
	for i := range s.Entries {
		if s.Entries[i].ID == id {
			s.Entries[i].Order = order
		}
	}
}

func setTrack(s *schedule.Schedule, id, trackID string) {
	for i := range s.Entries {
		if s.Entries[i].ID == id {
			s.Entries[i].TrackID = trackID
		}
	}
}

func setAnchor(s *schedule.Schedule, id, anchorTrackID string, order int) {
	for i := range s.Entries {
		if s.Entries[i].ID == id {
			s.Entries[i].AnchorTrackID = anchorTrackID
			s.Entries[i].Order = order
		}
	}
}

func setStart(s *schedule.Schedule, id string, start clock.Minute) {
	for i := range s.Entries {
		if s.Entries[i].ID == id {
			s.Entries[i].Start = start
		}
	}
}

func setDuration(s *schedule.Schedule, id string, d int) {
	for i := range s.Entries {
		if s.Entries[i].ID == id {
			s.Entries[i].Duration = d
		}
	}
}
