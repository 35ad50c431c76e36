package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/slate/internal/clock"
)

// twoTrackSchedule builds a small fixture:
//
//	main: shot-1 (09:00, 60) order 0, shot-2 (10:00, 30) order 1
//	b-cam: shot-3 (09:30, 45) order 0
//	shared: lunch banner anchored to main at order 1
func twoTrackSchedule() *Schedule {
	return &Schedule{
		Tracks: []Track{
			{ID: "main", Name: "Main Unit", Order: 0},
			{ID: "b-cam", Name: "B Camera", Order: 1},
		},
		Entries: []Entry{
			{ID: "shot-2", Kind: KindShot, TrackID: "main", Start: 600, Duration: 30, Order: 1},
			{ID: "shot-1", Kind: KindShot, TrackID: "main", Start: 540, Duration: 60, Order: 0},
			{ID: "shot-3", Kind: KindShot, TrackID: "b-cam", Start: 570, Duration: 45, Order: 0},
			{ID: "lunch", Kind: KindBanner, TrackID: SharedTrackID, AnchorTrackID: "main",
				Start: 720, Duration: 0, Order: 1, Payload: map[string]string{"text": "LUNCH"}},
		},
		Settings: Settings{CascadeEnabled: true},
	}
}

func collect(seq func(func(Entry) bool)) []string {
	var ids []string
	for e := range seq {
		ids = append(ids, e.ID)
	}
	return ids
}

// =============================================================================
// EntryByID / TrackByID Tests
// =============================================================================

func TestSchedule_EntryByID_Found(t *testing.T) {
	s := twoTrackSchedule()
	e, ok := s.EntryByID("shot-2")
	require.True(t, ok)
	assert.Equal(t, clock.Minute(600), e.Start)
}

func TestSchedule_EntryByID_Missing(t *testing.T) {
	s := twoTrackSchedule()
	_, ok := s.EntryByID("nope")
	assert.False(t, ok)
}

func TestSchedule_TrackByID(t *testing.T) {
	s := twoTrackSchedule()
	tr, ok := s.TrackByID("b-cam")
	require.True(t, ok)
	assert.Equal(t, "B Camera", tr.Name)

	_, ok = s.TrackByID("c-cam")
	assert.False(t, ok)
}

// =============================================================================
// EntriesForTrack Tests
// =============================================================================

func TestSchedule_EntriesForTrack_SortedByOrder(t *testing.T) {
	s := twoTrackSchedule()
	// Backing slice stores shot-2 before shot-1; iteration must be by order.
	ids := collect(s.EntriesForTrack("b-cam"))
	assert.Equal(t, []string{"shot-3"}, ids)
}

func TestSchedule_EntriesForTrack_InterleavesSharedAtAnchor(t *testing.T) {
	s := twoTrackSchedule()
	// The lunch banner anchors to main at order 1: it renders between
	// shot-1 (order 0) and shot-2 (order 1).
	ids := collect(s.EntriesForTrack("main"))
	assert.Equal(t, []string{"shot-1", "lunch", "shot-2"}, ids)
}

func TestSchedule_EntriesForTrack_SharedPastEndTrails(t *testing.T) {
	s := twoTrackSchedule()
	for i := range s.Entries {
		if s.Entries[i].ID == "lunch" {
			s.Entries[i].Order = 99
		}
	}
	ids := collect(s.EntriesForTrack("main"))
	assert.Equal(t, []string{"shot-1", "shot-2", "lunch"}, ids)
}

func TestSchedule_EntriesForTrack_SharedNotOnOtherTracks(t *testing.T) {
	s := twoTrackSchedule()
	ids := collect(s.EntriesForTrack("b-cam"))
	assert.NotContains(t, ids, "lunch")
}

func TestSchedule_EntriesForTrack_Restartable(t *testing.T) {
	s := twoTrackSchedule()
	seq := s.EntriesForTrack("main")
	first := collect(seq)
	second := collect(seq)
	assert.Equal(t, first, second, "ranging twice must yield identical sequences")
}

func TestSchedule_EntriesForTrack_EarlyStop(t *testing.T) {
	s := twoTrackSchedule()
	var got []string
	for e := range s.EntriesForTrack("main") {
		got = append(got, e.ID)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"shot-1", "lunch"}, got)
}

// =============================================================================
// Clone Tests
// =============================================================================

func TestSchedule_Clone_Independent(t *testing.T) {
	s := twoTrackSchedule()
	c := s.Clone()

	c.Entries[0].Start = 0
	c.Tracks[0].Name = "changed"
	for i := range c.Entries {
		if c.Entries[i].ID == "lunch" {
			c.Entries[i].Payload["text"] = "DINNER"
		}
	}

	e, _ := s.EntryByID("shot-2")
	assert.Equal(t, clock.Minute(600), e.Start)
	tr, _ := s.TrackByID("main")
	assert.Equal(t, "Main Unit", tr.Name)
	lunch, _ := s.EntryByID("lunch")
	assert.Equal(t, "LUNCH", lunch.Payload["text"])
}

// =============================================================================
// TracksInOrder Tests
// =============================================================================

func TestSchedule_TracksInOrder(t *testing.T) {
	s := &Schedule{Tracks: []Track{
		{ID: "z", Order: 1},
		{ID: "a", Order: 1},
		{ID: "m", Order: 0},
	}}
	got := s.TracksInOrder()
	require.Len(t, got, 3)
	assert.Equal(t, "m", got[0].ID)
	assert.Equal(t, "a", got[1].ID) // ties broken by id
	assert.Equal(t, "z", got[2].ID)
}
