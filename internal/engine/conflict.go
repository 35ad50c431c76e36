package engine

import (
	"sort"

	"github.com/roach88/slate/internal/clock"
	"github.com/roach88/slate/internal/schedule"
)

// Conflict is an unordered pair of entries whose intervals overlap on
// the same track. The pair is normalized so A < B lexicographically,
// making conflict sets directly comparable.
type Conflict struct {
	A string `json:"a"`
	B string `json:"b"`
}

func newConflict(a, b string) Conflict {
	if b < a {
		a, b = b, a
	}
	return Conflict{A: a, B: b}
}

// Involves reports whether the conflict touches the given entry.
func (c Conflict) Involves(entryID string) bool {
	return c.A == entryID || c.B == entryID
}

// DetectConflicts compares every pair of non-shared entries within each
// track under half-open interval semantics and returns the overlapping
// pairs, sorted by (A, B) for determinism.
//
// Shared (banner) entries never participate: they are display markers,
// not resource-occupying events, and are excluded even against each
// other. No entry kind is otherwise exempt; a move occupying the same
// window as a shot is a real conflict.
//
// Complexity is O(n²) per track. Shoot days rarely exceed a few hundred
// entries per track, so a sweep line is not worth its bookkeeping.
//
// The detector is pure: it never mutates the schedule, and it always
// runs over the full schedule regardless of any view-level track focus.
func DetectConflicts(s *schedule.Schedule) []Conflict {
	var out []Conflict
	for _, t := range s.Tracks {
		entries := s.TrackEntries(t.ID)
		for i := 0; i < len(entries); i++ {
			for j := i + 1; j < len(entries); j++ {
				a, b := entries[i], entries[j]
				if clock.Overlap(a.Start, a.Duration, b.Start, b.Duration) {
					out = append(out, newConflict(a.ID, b.ID))
				}
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}
