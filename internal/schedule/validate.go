package schedule

import (
	"fmt"

	"github.com/roach88/slate/internal/clock"
)

// Validation error codes (V100-V199)
const (
	// Entry-level errors (V100-V109)
	ErrEntryIDEmpty       = "V100" // entry id is required
	ErrEntryIDDuplicate   = "V101" // entry id appears more than once
	ErrInvalidKind        = "V102" // unknown entry kind
	ErrNegativeDuration   = "V103" // duration must be >= 0
	ErrStartOutOfRange    = "V104" // start outside 0..1439
	ErrSpansMidnight      = "V105" // entry interval crosses end of day
	ErrOrphanedEntry      = "V106" // entry references a missing track
	ErrOrphanedAnchor     = "V107" // shared entry anchor track missing
	ErrSharedWithoutAnchor = "V108" // shared entry has no anchor track
	ErrAnchorOnLocalEntry = "V109" // non-shared entry carries an anchor

	// Track-level errors (V110-V119)
	ErrTrackIDEmpty     = "V110" // track id is required
	ErrTrackIDReserved  = "V111" // track id "shared" is reserved
	ErrTrackIDDuplicate = "V112" // track id appears more than once
	ErrOrderNotDense    = "V113" // track order values not dense 0..n-1
)

// Violation describes one invariant breach found by Validate.
type Violation struct {
	Code    string `json:"code"`
	EntryID string `json:"entry_id,omitempty"`
	TrackID string `json:"track_id,omitempty"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (v Violation) Error() string {
	switch {
	case v.EntryID != "":
		return fmt.Sprintf("[%s] entry %s: %s", v.Code, v.EntryID, v.Message)
	case v.TrackID != "":
		return fmt.Sprintf("[%s] track %s: %s", v.Code, v.TrackID, v.Message)
	default:
		return fmt.Sprintf("[%s] %s", v.Code, v.Message)
	}
}

// Validate checks every structural invariant of the schedule and returns
// all violations found (it does not fail fast; the caller decides).
//
// Every mutating operation runs Validate as a post-condition: a mutation
// that would violate an invariant is rejected in its entirety, so a
// non-empty result on a published schedule indicates an engine bug.
func Validate(s *Schedule) []Violation {
	var out []Violation

	trackIDs := make(map[string]bool, len(s.Tracks))
	for _, t := range s.Tracks {
		if t.ID == "" {
			out = append(out, Violation{Code: ErrTrackIDEmpty, Message: "track id is required"})
			continue
		}
		if t.ID == SharedTrackID {
			out = append(out, Violation{Code: ErrTrackIDReserved, TrackID: t.ID,
				Message: fmt.Sprintf("track id %q is reserved for cross-track entries", SharedTrackID)})
		}
		if trackIDs[t.ID] {
			out = append(out, Violation{Code: ErrTrackIDDuplicate, TrackID: t.ID, Message: "duplicate track id"})
		}
		trackIDs[t.ID] = true
	}

	entryIDs := make(map[string]bool, len(s.Entries))
	for _, e := range s.Entries {
		if e.ID == "" {
			out = append(out, Violation{Code: ErrEntryIDEmpty, Message: "entry id is required"})
			continue
		}
		if entryIDs[e.ID] {
			out = append(out, Violation{Code: ErrEntryIDDuplicate, EntryID: e.ID, Message: "duplicate entry id"})
		}
		entryIDs[e.ID] = true

		if !ValidKinds[e.Kind] {
			out = append(out, Violation{Code: ErrInvalidKind, EntryID: e.ID,
				Message: fmt.Sprintf("unknown kind %q", e.Kind)})
		}
		if e.Duration < 0 {
			out = append(out, Violation{Code: ErrNegativeDuration, EntryID: e.ID,
				Message: fmt.Sprintf("duration %d is negative", e.Duration)})
		}
		if !e.Start.Valid() {
			out = append(out, Violation{Code: ErrStartOutOfRange, EntryID: e.ID,
				Message: fmt.Sprintf("start %d outside 0..%d", int(e.Start), int(clock.EndOfDay))})
		} else if e.End() > clock.MinutesPerDay {
			// Spanning midnight is out of scope: an entry must end by 24:00.
			out = append(out, Violation{Code: ErrSpansMidnight, EntryID: e.ID,
				Message: fmt.Sprintf("entry ends at minute %d, past end of day", e.End())})
		}

		if e.Shared() {
			if e.AnchorTrackID == "" {
				out = append(out, Violation{Code: ErrSharedWithoutAnchor, EntryID: e.ID,
					Message: "shared entry requires an anchor track"})
			} else if !trackIDs[e.AnchorTrackID] {
				// A deleted anchor track orphans the banner; it must be
				// reassigned or removed, never silently dropped.
				out = append(out, Violation{Code: ErrOrphanedAnchor, EntryID: e.ID,
					Message: fmt.Sprintf("anchor track %q does not exist", e.AnchorTrackID)})
			}
		} else {
			if e.AnchorTrackID != "" {
				out = append(out, Violation{Code: ErrAnchorOnLocalEntry, EntryID: e.ID,
					Message: "anchor track is only meaningful on shared entries"})
			}
			if !trackIDs[e.TrackID] {
				out = append(out, Violation{Code: ErrOrphanedEntry, EntryID: e.ID,
					Message: fmt.Sprintf("track %q does not exist", e.TrackID)})
			}
		}
	}

	// Density: per track, non-shared orders form exactly 0..n-1.
	for _, t := range s.Tracks {
		entries := s.TrackEntries(t.ID)
		seen := make(map[int]bool, len(entries))
		dense := true
		for _, e := range entries {
			if e.Order < 0 || e.Order >= len(entries) || seen[e.Order] {
				dense = false
				break
			}
			seen[e.Order] = true
		}
		if !dense {
			out = append(out, Violation{Code: ErrOrderNotDense, TrackID: t.ID,
				Message: fmt.Sprintf("order values are not a dense 0..%d sequence", len(entries)-1)})
		}
	}

	return out
}
