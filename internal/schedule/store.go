package schedule

import (
	"iter"
	"sort"
)

// EntryByID returns the entry with the given id.
// The second return is false if no such entry exists.
func (s *Schedule) EntryByID(id string) (Entry, bool) {
	for _, e := range s.Entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// TrackByID returns the track with the given id.
func (s *Schedule) TrackByID(id string) (Track, bool) {
	for _, t := range s.Tracks {
		if t.ID == id {
			return t, true
		}
	}
	return Track{}, false
}

// TrackEntries returns the non-shared entries assigned to the given
// track, sorted by Order ascending. The returned slice is freshly
// allocated; mutating it does not touch the schedule.
func (s *Schedule) TrackEntries(trackID string) []Entry {
	var out []Entry
	for _, e := range s.Entries {
		if !e.Shared() && e.TrackID == trackID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// SharedEntries returns all shared (banner) entries anchored to the
// given track, sorted by anchor Order then start time then id.
func (s *Schedule) SharedEntries(anchorTrackID string) []Entry {
	var out []Entry
	for _, e := range s.Entries {
		if e.Shared() && e.AnchorTrackID == anchorTrackID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.ID < b.ID
	})
	return out
}

// EntriesForTrack returns the display sequence for one track: the
// track's own entries by Order ascending, with shared entries anchored
// to this track interleaved at their anchor position. A shared entry
// with anchor Order k appears immediately before the local entry whose
// Order is k; anchor positions at or past the end of the track follow
// the last local entry.
//
// The sequence is lazy and restartable: ranging over it twice yields the
// same entries, and nothing is mutated. The iteration order is computed
// from the schedule value at each restart.
func (s *Schedule) EntriesForTrack(trackID string) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		local := s.TrackEntries(trackID)
		shared := s.SharedEntries(trackID)

		si := 0
		for _, e := range local {
			for si < len(shared) && shared[si].Order <= e.Order {
				if !yield(shared[si]) {
					return
				}
				si++
			}
			if !yield(e) {
				return
			}
		}
		for ; si < len(shared); si++ {
			if !yield(shared[si]) {
				return
			}
		}
	}
}

// TracksInOrder returns the track set sorted by Track.Order then id.
func (s *Schedule) TracksInOrder() []Track {
	out := make([]Track, len(s.Tracks))
	copy(out, s.Tracks)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out
}
