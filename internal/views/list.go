package views

import (
	"sort"

	"github.com/roach88/slate/internal/engine"
	"github.com/roach88/slate/internal/schedule"
)

// TrackSection is one track's rendered sequence in the List view:
// the track's own entries by order with anchored banners interleaved.
type TrackSection struct {
	TrackID   string `json:"track_id"`
	TrackName string `json:"track_name"`
	Items     []Item `json:"items"`
}

// List renders the sequential read-down view: one section per focused
// track, entries in order-sequence position with formatted times and
// conflict flags.
func List(snap engine.Snapshot, focus string) []TrackSection {
	var out []TrackSection
	for _, t := range focusedTracks(snap.Schedule, focus) {
		section := TrackSection{TrackID: t.ID, TrackName: t.Name}
		for e := range snap.Schedule.EntriesForTrack(t.ID) {
			section.Items = append(section.Items, renderItem(snap, e))
		}
		out = append(out, section)
	}
	return out
}

// ByTrackView partitions the same data into side-by-side lanes. Shared
// entries carry across all lanes, so they render once in Banners rather
// than being duplicated per lane.
type ByTrackView struct {
	Lanes   []TrackSection `json:"lanes"`
	Banners []Item         `json:"banners"`
}

// ByTrack renders per-track lanes for side-by-side comparison.
func ByTrack(snap engine.Snapshot, focus string) ByTrackView {
	var v ByTrackView
	for _, t := range focusedTracks(snap.Schedule, focus) {
		lane := TrackSection{TrackID: t.ID, TrackName: t.Name}
		for _, e := range snap.Schedule.TrackEntries(t.ID) {
			lane.Items = append(lane.Items, renderItem(snap, e))
		}
		v.Lanes = append(v.Lanes, lane)
	}
	for _, e := range allSharedByTime(snap.Schedule) {
		v.Banners = append(v.Banners, renderItem(snap, e))
	}
	return v
}

// allSharedByTime returns every shared entry sorted by start time, then
// anchor order, then id.
func allSharedByTime(s *schedule.Schedule) []schedule.Entry {
	var out []schedule.Entry
	for _, t := range s.TracksInOrder() {
		out = append(out, s.SharedEntries(t.ID)...)
	}
	// SharedEntries groups by anchor; re-sort the union chronologically.
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.ID < b.ID
	})
	return out
}
