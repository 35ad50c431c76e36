// Package schedule defines the call-sheet schedule data model and the
// entry store: the ordered collection of timed activities distributed
// across parallel tracks, with the structural invariants every mutation
// must preserve.
//
// The aggregate root is Schedule. It is mutated exclusively through the
// operations in the engine package; views and the store only ever read it.
package schedule

import "github.com/roach88/slate/internal/clock"

// SharedTrackID is the sentinel track id for cross-track (banner) entries.
// A shared entry applies to all tracks; it has no track-local ordering
// and is excluded from per-track conflict checks.
const SharedTrackID = "shared"

// Kind identifies the variant of a schedule entry.
type Kind string

const (
	// KindShot is a camera setup or shot.
	KindShot Kind = "shot"
	// KindBanner is a cross-track display marker (e.g., "LUNCH").
	KindBanner Kind = "banner"
	// KindMove is a company move between locations.
	KindMove Kind = "move"
	// KindBreak is a scheduled break.
	KindBreak Kind = "break"
	// KindCustom is an application-defined activity.
	KindCustom Kind = "custom"
)

// ValidKinds defines the allowed entry kinds.
var ValidKinds = map[Kind]bool{
	KindShot:   true,
	KindBanner: true,
	KindMove:   true,
	KindBreak:  true,
	KindCustom: true,
}

// Track is a parallel lane of activity, e.g., a second camera unit.
//
// Tracks are created and removed by the surrounding application; the
// engine treats the track set as read-mostly input referenced by id.
type Track struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Order int    `json:"order" yaml:"order"`
}

// Entry is one schedulable activity on the call sheet.
type Entry struct {
	// ID is opaque and stable across edits.
	ID string `json:"id" yaml:"id"`

	// Kind selects the entry variant.
	Kind Kind `json:"kind" yaml:"kind"`

	// TrackID is either SharedTrackID or a specific track id.
	TrackID string `json:"track_id" yaml:"track_id"`

	// Start is the canonical start time, minute resolution.
	Start clock.Minute `json:"start" yaml:"start"`

	// Duration is the length in minutes. Zero is permitted for
	// zero-duration markers such as banners.
	Duration int `json:"duration" yaml:"duration"`

	// Order positions the entry within its track's sequence. This is
	// insertion order, not time order: a user may deliberately schedule
	// entries out of chronological order (e.g., an unplanned delay).
	//
	// For a shared entry, Order is the anchor position within
	// AnchorTrackID's sequence, used only for display interleaving; it
	// does not participate in that track's density invariant.
	Order int `json:"order" yaml:"order"`

	// AnchorTrackID names the track a shared entry is positioned
	// against. Empty for non-shared entries.
	AnchorTrackID string `json:"anchor_track_id,omitempty" yaml:"anchor_track_id,omitempty"`

	// Locked exempts the entry from cascade-induced time shifts.
	// Locked entries pin their start time but do not block the cascade
	// from reaching entries after them.
	Locked bool `json:"locked" yaml:"locked"`

	// Payload carries kind-specific fields (shot reference, banner
	// text). Opaque to the engine.
	Payload map[string]string `json:"payload,omitempty" yaml:"payload,omitempty"`
}

// Shared reports whether the entry is a cross-track (banner) entry.
func (e Entry) Shared() bool {
	return e.TrackID == SharedTrackID
}

// End returns the minute the entry's interval ends (exclusive).
// May equal clock.MinutesPerDay for an entry ending exactly at midnight's
// boundary; it is an int, not a clock.Minute, because the end bound is
// exclusive and 1440 is a legal bound but not a legal start.
func (e Entry) End() int {
	return int(e.Start) + e.Duration
}

// Settings holds the per-schedule toggles read by the engine and UI.
//
// CascadeEnabled controls whether duration/time edits shift downstream
// entries. ShowDurations is display-only and never engine-enforced.
// Settings persist with the schedule, not in any side channel.
type Settings struct {
	CascadeEnabled bool `json:"cascade_enabled" yaml:"cascade_enabled"`
	ShowDurations  bool `json:"show_durations" yaml:"show_durations"`
}

// Schedule is the aggregate root for one shoot day.
type Schedule struct {
	Tracks   []Track  `json:"tracks" yaml:"tracks"`
	Entries  []Entry  `json:"entries" yaml:"entries"`
	Settings Settings `json:"settings" yaml:"settings"`
}

// Clone returns a deep copy of the schedule.
//
// Operations compute on a clone and only publish it after validation, so
// a rejected edit leaves the prior schedule untouched.
func (s *Schedule) Clone() *Schedule {
	c := &Schedule{
		Tracks:   make([]Track, len(s.Tracks)),
		Entries:  make([]Entry, len(s.Entries)),
		Settings: s.Settings,
	}
	copy(c.Tracks, s.Tracks)
	for i, e := range s.Entries {
		if e.Payload != nil {
			p := make(map[string]string, len(e.Payload))
			for k, v := range e.Payload {
				p[k] = v
			}
			e.Payload = p
		}
		c.Entries[i] = e
	}
	return c
}
