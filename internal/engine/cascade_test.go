package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/slate/internal/clock"
	"github.com/roach88/slate/internal/schedule"
)

// threeShotSchedule builds the canonical cascade fixture on one track:
//
//	A (09:00, 60) -> B (10:00, 30) -> C (10:30, 15)
func threeShotSchedule(cascadeOn bool) *schedule.Schedule {
	return &schedule.Schedule{
		Tracks: []schedule.Track{{ID: "main", Name: "Main Unit", Order: 0}},
		Entries: []schedule.Entry{
			{ID: "A", Kind: schedule.KindShot, TrackID: "main", Start: 540, Duration: 60, Order: 0},
			{ID: "B", Kind: schedule.KindShot, TrackID: "main", Start: 600, Duration: 30, Order: 1},
			{ID: "C", Kind: schedule.KindShot, TrackID: "main", Start: 630, Duration: 15, Order: 2},
		},
		Settings: schedule.Settings{CascadeEnabled: cascadeOn},
	}
}

func mustEngine(t *testing.T, s *schedule.Schedule) *Engine {
	t.Helper()
	e, err := New(s)
	require.NoError(t, err)
	return e
}

func startOf(t *testing.T, snap Snapshot, id string) clock.Minute {
	t.Helper()
	e, ok := snap.Schedule.EntryByID(id)
	require.True(t, ok, "entry %s must exist", id)
	return e.Start
}

// =============================================================================
// Cascade Correctness
// =============================================================================

func TestEngine_Resize_CascadeShiftsDownstream(t *testing.T) {
	e := mustEngine(t, threeShotSchedule(true))

	// Resizing A to 90 minutes pushes B to 10:30 and C to 11:00.
	snap, err := e.Resize("A", 90)
	require.NoError(t, err)

	assert.Equal(t, clock.Minute(10*60+30), startOf(t, snap, "B"))
	assert.Equal(t, clock.Minute(11*60), startOf(t, snap, "C"))
	a, _ := snap.Schedule.EntryByID("A")
	assert.Equal(t, 90, a.Duration)
	// Durations downstream are preserved.
	b, _ := snap.Schedule.EntryByID("B")
	c, _ := snap.Schedule.EntryByID("C")
	assert.Equal(t, 30, b.Duration)
	assert.Equal(t, 15, c.Duration)
}

func TestEngine_Resize_ShrinkPullsDownstreamEarlier(t *testing.T) {
	e := mustEngine(t, threeShotSchedule(true))

	snap, err := e.Resize("A", 30)
	require.NoError(t, err)

	assert.Equal(t, clock.Minute(9*60+30), startOf(t, snap, "B"))
	assert.Equal(t, clock.Minute(10*60), startOf(t, snap, "C"))
}

func TestEngine_Retime_CascadeUsesEndDelta(t *testing.T) {
	e := mustEngine(t, threeShotSchedule(true))

	// Retiming A from 09:00 to 09:20 shifts B and C by +20.
	snap, err := e.Retime("A", clock.Minute(9*60+20))
	require.NoError(t, err)

	assert.Equal(t, clock.Minute(10*60+20), startOf(t, snap, "B"))
	assert.Equal(t, clock.Minute(10*60+50), startOf(t, snap, "C"))
}

func TestEngine_Cascade_OrderSequenceNotClockOrder(t *testing.T) {
	// C is deliberately scheduled before B in clock time but after it in
	// order. Cascade walks order, so both shift.
	s := threeShotSchedule(true)
	s.Entries[2].Start = 480 // C at 08:00, order still 2

	e := mustEngine(t, s)
	snap, err := e.Resize("A", 90)
	require.NoError(t, err)

	assert.Equal(t, clock.Minute(10*60+30), startOf(t, snap, "B"))
	assert.Equal(t, clock.Minute(8*60+30), startOf(t, snap, "C"))
}

func TestEngine_Cascade_DoesNotCrossTracks(t *testing.T) {
	s := threeShotSchedule(true)
	s.Tracks = append(s.Tracks, schedule.Track{ID: "b-cam", Name: "B Camera", Order: 1})
	s.Entries = append(s.Entries, schedule.Entry{
		ID: "X", Kind: schedule.KindShot, TrackID: "b-cam", Start: 600, Duration: 30, Order: 0,
	})

	e := mustEngine(t, s)
	snap, err := e.Resize("A", 120)
	require.NoError(t, err)

	assert.Equal(t, clock.Minute(600), startOf(t, snap, "X"), "other tracks never shift")
}

func TestEngine_Cascade_SharedEntriesNeverShift(t *testing.T) {
	s := threeShotSchedule(true)
	s.Entries = append(s.Entries, schedule.Entry{
		ID: "lunch", Kind: schedule.KindBanner, TrackID: schedule.SharedTrackID,
		AnchorTrackID: "main", Start: 720, Duration: 0, Order: 1,
	})

	e := mustEngine(t, s)
	snap, err := e.Resize("A", 120)
	require.NoError(t, err)

	assert.Equal(t, clock.Minute(720), startOf(t, snap, "lunch"),
		"banners stay at their authored time")
}

func TestEngine_Cascade_UpstreamEntriesUntouched(t *testing.T) {
	e := mustEngine(t, threeShotSchedule(true))

	snap, err := e.Resize("B", 60)
	require.NoError(t, err)

	assert.Equal(t, clock.Minute(540), startOf(t, snap, "A"))
	assert.Equal(t, clock.Minute(11*60), startOf(t, snap, "C"))
}

// =============================================================================
// Cascade-Disabled Isolation
// =============================================================================

func TestEngine_Resize_CascadeDisabled_OnlyTargetChanges(t *testing.T) {
	e := mustEngine(t, threeShotSchedule(false))

	snap, err := e.Resize("A", 90)
	require.NoError(t, err)

	assert.Equal(t, clock.Minute(600), startOf(t, snap, "B"))
	assert.Equal(t, clock.Minute(630), startOf(t, snap, "C"))

	// A now ends exactly at B's start (10:30): half-open intervals mean
	// no conflict at the shared boundary.
	assert.Empty(t, snap.Conflicts)
}

func TestEngine_Resize_CascadeDisabled_OverlapSurfacesAsConflict(t *testing.T) {
	e := mustEngine(t, threeShotSchedule(false))

	// A grows to 95 minutes: it now ends 10:35, overlapping B's
	// 10:00-10:30 window.
	snap, err := e.Resize("A", 95)
	require.NoError(t, err, "conflicts are advisory, the edit still applies")

	require.NotEmpty(t, snap.Conflicts)
	assert.Contains(t, snap.Conflicts, Conflict{A: "A", B: "B"})
}

// =============================================================================
// Locked Entry Pinning
// =============================================================================

func TestEngine_Cascade_LockedEntryPinned(t *testing.T) {
	s := threeShotSchedule(true)
	s.Entries[1].Locked = true // B

	e := mustEngine(t, s)
	snap, err := e.Resize("A", 90)
	require.NoError(t, err)

	// B keeps its start; C still shifts by the full +30 delta. A lock
	// pins, it does not reset the delta for later entries.
	assert.Equal(t, clock.Minute(10*60), startOf(t, snap, "B"))
	assert.Equal(t, clock.Minute(11*60), startOf(t, snap, "C"))
}

func TestEngine_Retime_LockedEntryDirectEditAllowed(t *testing.T) {
	s := threeShotSchedule(true)
	s.Entries[0].Locked = true // A

	e := mustEngine(t, s)
	snap, err := e.Retime("A", clock.Minute(8*60))
	require.NoError(t, err)

	// The lock shields against cascade shifts, not explicit edits.
	assert.Equal(t, clock.Minute(8*60), startOf(t, snap, "A"))
	assert.Equal(t, clock.Minute(9*60), startOf(t, snap, "B"))
}

// =============================================================================
// Overflow Rejection
// =============================================================================

func TestEngine_Resize_OverflowRejectsWholeCascade(t *testing.T) {
	s := &schedule.Schedule{
		Tracks: []schedule.Track{{ID: "main", Order: 0}},
		Entries: []schedule.Entry{
			{ID: "A", Kind: schedule.KindShot, TrackID: "main", Start: 1380, Duration: 30, Order: 0}, // 23:00, ends 23:30
			{ID: "B", Kind: schedule.KindShot, TrackID: "main", Start: 1410, Duration: 20, Order: 1}, // 23:30, ends 23:50
		},
		Settings: schedule.Settings{CascadeEnabled: true},
	}
	e := mustEngine(t, s)

	before, err := schedule.Hash(e.Snapshot().Schedule)
	require.NoError(t, err)
	beforeRev := e.Snapshot().Rev

	// +20 delta would push B's end to 00:10 next day.
	_, err = e.Resize("A", 50)
	require.Error(t, err)
	assert.True(t, IsOverflow(err), "expected SCHEDULE_OVERFLOW, got %v", err)

	// The schedule is bit-for-bit identical to its pre-operation value.
	after, err := schedule.Hash(e.Snapshot().Schedule)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, beforeRev, e.Snapshot().Rev, "rejected ops do not advance the revision")
}

func TestEngine_Retime_EditedEntryPastMidnightRejected(t *testing.T) {
	e := mustEngine(t, threeShotSchedule(true))

	_, err := e.Retime("A", clock.Minute(1435))
	require.Error(t, err)
	assert.True(t, IsOverflow(err))
}

func TestEngine_Resize_LockedEntrySkippedByOverflowCheckToo(t *testing.T) {
	// A locked entry is not shifted, so it cannot overflow; only the
	// entries that actually move are bounds-checked.
	s := &schedule.Schedule{
		Tracks: []schedule.Track{{ID: "main", Order: 0}},
		Entries: []schedule.Entry{
			{ID: "A", Kind: schedule.KindShot, TrackID: "main", Start: 1380, Duration: 30, Order: 0},
			{ID: "B", Kind: schedule.KindShot, TrackID: "main", Start: 1420, Duration: 19, Order: 1, Locked: true},
		},
		Settings: schedule.Settings{CascadeEnabled: true},
	}
	e := mustEngine(t, s)

	snap, err := e.Resize("A", 40)
	require.NoError(t, err)
	assert.Equal(t, clock.Minute(1420), startOf(t, snap, "B"))
}
