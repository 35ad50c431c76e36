package views

import (
	"github.com/roach88/slate/internal/engine"
)

// Scale converts minutes into display units for the Timeline view.
// MinutesPerUnit is caller-supplied (e.g., 15 minutes per grid row).
type Scale struct {
	MinutesPerUnit float64
}

// Box is one entry's geometry on the timeline: a lane index plus a
// position and extent in scale units. Purely geometric; all scheduling
// decisions happened upstream.
type Box struct {
	EntryID string `json:"entry_id"`
	// Lane is the index of the entry's track among the focused tracks.
	// Shared entries span all lanes and carry Lane -1.
	Lane     int     `json:"lane"`
	Top      float64 `json:"top"`
	Extent   float64 `json:"extent"`
	Conflict bool    `json:"conflict"`
	Shared   bool    `json:"shared"`
}

// Timeline maps every focused entry to a Box. Zero-duration entries get
// zero extent; the renderer decides how to draw markers. A non-positive
// MinutesPerUnit defaults to 1 so the projection stays total.
func Timeline(snap engine.Snapshot, focus string, scale Scale) []Box {
	mpu := scale.MinutesPerUnit
	if mpu <= 0 {
		mpu = 1
	}

	tracks := focusedTracks(snap.Schedule, focus)
	laneOf := make(map[string]int, len(tracks))
	for i, t := range tracks {
		laneOf[t.ID] = i
	}

	var out []Box
	for _, t := range tracks {
		for _, e := range snap.Schedule.TrackEntries(t.ID) {
			out = append(out, Box{
				EntryID:  e.ID,
				Lane:     laneOf[e.TrackID],
				Top:      float64(e.Start) / mpu,
				Extent:   float64(e.Duration) / mpu,
				Conflict: snap.HasConflict(e.ID),
			})
		}
	}

	// Shared entries render once, spanning the full lane set.
	for _, e := range allSharedByTime(snap.Schedule) {
		if focus != FocusAll && focus != "" && e.AnchorTrackID != focus {
			continue
		}
		out = append(out, Box{
			EntryID: e.ID,
			Lane:    -1,
			Top:     float64(e.Start) / mpu,
			Extent:  float64(e.Duration) / mpu,
			Shared:  true,
		})
	}
	return out
}
