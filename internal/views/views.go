// Package views projects engine snapshots into the shapes the renderers
// consume: List, ByTrack, Timeline and DayStream.
//
// Every projection is a pure function of one Snapshot value: no
// mutation, no caching, no hidden state. Calling a projection twice on
// the same snapshot yields identical output. Conflict flags come from
// the snapshot's conflict set, which the engine recomputes after every
// mutation, so a projection can never show stale conflicts.
package views

import (
	"fmt"

	"github.com/roach88/slate/internal/clock"
	"github.com/roach88/slate/internal/engine"
	"github.com/roach88/slate/internal/schedule"
)

// FocusAll renders every track. Any other focus value narrows List,
// ByTrack and Timeline to the single named track. Focus is a view-level
// filter only: the entry store and conflict detector always operate
// over the full schedule.
const FocusAll = "all"

// Item is one rendered schedule entry.
type Item struct {
	ID      string        `json:"id"`
	Kind    schedule.Kind `json:"kind"`
	TrackID string        `json:"track_id"`
	Order   int           `json:"order"`

	// Start24 and Start12 are the formatted start time; End24 is the
	// formatted exclusive end. Formatting is a projection, never stored.
	Start24 string `json:"start_24"`
	Start12 string `json:"start_12"`
	End24   string `json:"end_24"`

	// Duration is the minute count; DurationLabel is only populated
	// when the schedule's show-durations setting is on.
	Duration      int    `json:"duration"`
	DurationLabel string `json:"duration_label,omitempty"`

	Locked   bool `json:"locked"`
	Shared   bool `json:"shared"`
	Conflict bool `json:"conflict"`

	Payload map[string]string `json:"payload,omitempty"`
}

func renderItem(snap engine.Snapshot, e schedule.Entry) Item {
	it := Item{
		ID:       e.ID,
		Kind:     e.Kind,
		TrackID:  e.TrackID,
		Order:    e.Order,
		Start24:  clock.Format24h(e.Start),
		Start12:  clock.Format12h(e.Start),
		End24:    formatEnd(e.End()),
		Duration: e.Duration,
		Locked:   e.Locked,
		Shared:   e.Shared(),
		Conflict: snap.HasConflict(e.ID),
		Payload:  e.Payload,
	}
	if snap.Schedule.Settings.ShowDurations {
		it.DurationLabel = durationLabel(e.Duration)
	}
	return it
}

// formatEnd renders an exclusive end bound. 1440 is a legal bound for an
// entry that runs to the end of the day and renders as "24:00".
func formatEnd(end int) string {
	if end >= clock.MinutesPerDay {
		return "24:00"
	}
	return clock.Format24h(clock.Minute(end))
}

func durationLabel(minutes int) string {
	h := minutes / 60
	m := minutes % 60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dm", h, m)
	}
}

// focusedTracks returns the tracks a projection should render, in track
// order. An unknown focus id yields an empty result rather than an
// error: the filter is advisory display state, not an operation.
func focusedTracks(s *schedule.Schedule, focus string) []schedule.Track {
	all := s.TracksInOrder()
	if focus == FocusAll || focus == "" {
		return all
	}
	for _, t := range all {
		if t.ID == focus {
			return []schedule.Track{t}
		}
	}
	return nil
}
