package views

import (
	"sort"

	"github.com/roach88/slate/internal/engine"
	"github.com/roach88/slate/internal/schedule"
)

// DayStream renders the single chronologically merged sequence across
// all tracks, used for linear read-through call sheets. Output is
// sorted non-decreasing by start time; ties break by track order, then
// entry order, then id, so repeated calls on the same snapshot are
// byte-identical.
//
// DayStream ignores track focus: a linear call sheet always covers the
// whole day.
func DayStream(snap engine.Snapshot) []Item {
	s := snap.Schedule

	trackOrder := make(map[string]int, len(s.Tracks))
	for i, t := range s.TracksInOrder() {
		trackOrder[t.ID] = i
	}
	// A shared entry sorts with its anchor track's lane.
	laneFor := func(e schedule.Entry) int {
		if e.Shared() {
			return trackOrder[e.AnchorTrackID]
		}
		return trackOrder[e.TrackID]
	}

	entries := make([]schedule.Entry, len(s.Entries))
	copy(entries, s.Entries)
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if laneFor(a) != laneFor(b) {
			return laneFor(a) < laneFor(b)
		}
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.ID < b.ID
	})

	out := make([]Item, 0, len(entries))
	for _, e := range entries {
		out = append(out, renderItem(snap, e))
	}
	return out
}
