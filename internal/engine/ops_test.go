package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/slate/internal/clock"
	"github.com/roach88/slate/internal/schedule"
)

func orderedIDs(s *schedule.Schedule, trackID string) []string {
	var ids []string
	for _, e := range s.TrackEntries(trackID) {
		ids = append(ids, e.ID)
	}
	return ids
}

func assertDense(t *testing.T, s *schedule.Schedule) {
	t.Helper()
	assert.Empty(t, schedule.Validate(s), "schedule must satisfy all invariants")
}

// =============================================================================
// ReorderWithinTrack Tests
// =============================================================================

func TestEngine_ReorderWithinTrack_MovesAndRenumbers(t *testing.T) {
	e := mustEngine(t, threeShotSchedule(true))

	snap, err := e.ReorderWithinTrack("main", "C", 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"C", "A", "B"}, orderedIDs(snap.Schedule, "main"))
	assertDense(t, snap.Schedule)
}

func TestEngine_ReorderWithinTrack_DoesNotRetime(t *testing.T) {
	// Reordering changes sequence, not time, even with cascade enabled.
	e := mustEngine(t, threeShotSchedule(true))

	snap, err := e.ReorderWithinTrack("C", "C", 0)
	require.Error(t, err) // wrong track id

	snap, err = e.ReorderWithinTrack("main", "C", 0)
	require.NoError(t, err)

	assert.Equal(t, clock.Minute(630), startOf(t, snap, "C"))
	assert.Equal(t, clock.Minute(540), startOf(t, snap, "A"))
	assert.Equal(t, clock.Minute(600), startOf(t, snap, "B"))
}

func TestEngine_ReorderWithinTrack_IndexClamped(t *testing.T) {
	e := mustEngine(t, threeShotSchedule(true))

	snap, err := e.ReorderWithinTrack("main", "A", 99)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C", "A"}, orderedIDs(snap.Schedule, "main"))

	snap, err = e.ReorderWithinTrack("main", "A", -5)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, orderedIDs(snap.Schedule, "main"))
}

func TestEngine_ReorderWithinTrack_EntryNotFound(t *testing.T) {
	e := mustEngine(t, threeShotSchedule(true))
	_, err := e.ReorderWithinTrack("main", "ghost", 0)
	assert.True(t, IsNotFound(err))
}

func TestEngine_ReorderWithinTrack_SharedAnchorRepositioned(t *testing.T) {
	s := threeShotSchedule(true)
	s.Entries = append(s.Entries, schedule.Entry{
		ID: "lunch", Kind: schedule.KindBanner, TrackID: schedule.SharedTrackID,
		AnchorTrackID: "main", Start: 720, Duration: 0, Order: 1,
	})
	e := mustEngine(t, s)

	snap, err := e.ReorderWithinTrack("main", "lunch", 3)
	require.NoError(t, err)

	lunch, _ := snap.Schedule.EntryByID("lunch")
	assert.Equal(t, 3, lunch.Order)
	// Local entries keep their dense ordering untouched.
	assert.Equal(t, []string{"A", "B", "C"}, orderedIDs(snap.Schedule, "main"))
}

// =============================================================================
// MoveToTrack Tests
// =============================================================================

func TestEngine_MoveToTrack_PreservesTimeAndRenumbersBoth(t *testing.T) {
	s := threeShotSchedule(true)
	s.Tracks = append(s.Tracks, schedule.Track{ID: "b-cam", Name: "B Camera", Order: 1})
	s.Entries = append(s.Entries, schedule.Entry{
		ID: "X", Kind: schedule.KindShot, TrackID: "b-cam", Start: 615, Duration: 30, Order: 0,
	})
	e := mustEngine(t, s)

	snap, err := e.MoveToTrack("B", "b-cam", 0)
	require.NoError(t, err)

	// Start and duration are preserved verbatim.
	b, _ := snap.Schedule.EntryByID("B")
	assert.Equal(t, clock.Minute(600), b.Start)
	assert.Equal(t, 30, b.Duration)
	assert.Equal(t, "b-cam", b.TrackID)

	// Both tracks renumbered densely.
	assert.Equal(t, []string{"A", "C"}, orderedIDs(snap.Schedule, "main"))
	assert.Equal(t, []string{"B", "X"}, orderedIDs(snap.Schedule, "b-cam"))
	assertDense(t, snap.Schedule)

	// The move lands B (10:00-10:30) on top of X (10:15-10:45): a new
	// conflict appears that did not exist on the source track.
	assert.Contains(t, snap.Conflicts, Conflict{A: "B", B: "X"})
}

func TestEngine_MoveToTrack_CanResolveConflict(t *testing.T) {
	s := threeShotSchedule(true)
	s.Tracks = append(s.Tracks, schedule.Track{ID: "b-cam", Order: 1})
	s.Entries[0].Duration = 90 // A ends 10:30, overlapping B but not C
	e := mustEngine(t, s)
	require.NotEmpty(t, e.Snapshot().Conflicts)

	snap, err := e.MoveToTrack("B", "b-cam", 0)
	require.NoError(t, err)
	assert.Empty(t, snap.Conflicts, "moving B away clears the overlap")
}

func TestEngine_MoveToTrack_TargetMissing(t *testing.T) {
	e := mustEngine(t, threeShotSchedule(true))
	_, err := e.MoveToTrack("B", "ghost-track", 0)
	assert.True(t, IsNotFound(err))

	// The shared pseudo-track is not a movable target either.
	_, err = e.MoveToTrack("B", schedule.SharedTrackID, 0)
	assert.True(t, IsNotFound(err))
}

func TestEngine_MoveToTrack_ReanchorsBanner(t *testing.T) {
	s := threeShotSchedule(true)
	s.Tracks = append(s.Tracks, schedule.Track{ID: "b-cam", Order: 1})
	s.Entries = append(s.Entries, schedule.Entry{
		ID: "lunch", Kind: schedule.KindBanner, TrackID: schedule.SharedTrackID,
		AnchorTrackID: "main", Start: 720, Duration: 0, Order: 1,
	})
	e := mustEngine(t, s)

	snap, err := e.MoveToTrack("lunch", "b-cam", 0)
	require.NoError(t, err)

	lunch, _ := snap.Schedule.EntryByID("lunch")
	assert.Equal(t, schedule.SharedTrackID, lunch.TrackID)
	assert.Equal(t, "b-cam", lunch.AnchorTrackID)
	assert.Equal(t, 0, lunch.Order)
}

// =============================================================================
// Insert Tests
// =============================================================================

func TestEngine_Insert_AfterEntry(t *testing.T) {
	e := mustEngine(t, threeShotSchedule(true))

	snap, err := e.Insert(schedule.Entry{
		ID: "D", Kind: schedule.KindShot, Start: 700, Duration: 20,
	}, "main", "A")
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "D", "B", "C"}, orderedIDs(snap.Schedule, "main"))
	assertDense(t, snap.Schedule)
}

func TestEngine_Insert_AtStart(t *testing.T) {
	e := mustEngine(t, threeShotSchedule(true))

	snap, err := e.Insert(schedule.Entry{
		ID: "crew-call", Kind: schedule.KindCustom, Start: 480, Duration: 30,
	}, "main", AtStart)
	require.NoError(t, err)

	assert.Equal(t, []string{"crew-call", "A", "B", "C"}, orderedIDs(snap.Schedule, "main"))
}

func TestEngine_Insert_MintsID(t *testing.T) {
	e := mustEngine(t, threeShotSchedule(true))

	snap, err := e.Insert(schedule.Entry{
		Kind: schedule.KindBreak, Start: 660, Duration: 15,
	}, "main", "C")
	require.NoError(t, err)

	seq := snap.Schedule.TrackEntries("main")
	require.Len(t, seq, 4)
	minted := seq[3]
	assert.NotEmpty(t, minted.ID)
	assert.Equal(t, schedule.KindBreak, minted.Kind)
}

func TestEngine_Insert_DuplicateIDRejected(t *testing.T) {
	e := mustEngine(t, threeShotSchedule(true))
	_, err := e.Insert(schedule.Entry{ID: "A", Kind: schedule.KindShot, Start: 700}, "main", AtStart)
	assert.True(t, IsOutOfRange(err))
}

func TestEngine_Insert_SharedBanner(t *testing.T) {
	e := mustEngine(t, threeShotSchedule(true))

	snap, err := e.Insert(schedule.Entry{
		ID: "lunch", Kind: schedule.KindBanner, AnchorTrackID: "main",
		Start: 720, Duration: 0,
		Payload: map[string]string{"text": "LUNCH"},
	}, schedule.SharedTrackID, "A")
	require.NoError(t, err)

	lunch, ok := snap.Schedule.EntryByID("lunch")
	require.True(t, ok)
	assert.True(t, lunch.Shared())
	assert.Equal(t, 1, lunch.Order, "anchored immediately after A")

	var ids []string
	for x := range snap.Schedule.EntriesForTrack("main") {
		ids = append(ids, x.ID)
	}
	assert.Equal(t, []string{"A", "lunch", "B", "C"}, ids)
}

func TestEngine_Insert_SharedBannerMissingAnchor(t *testing.T) {
	e := mustEngine(t, threeShotSchedule(true))
	_, err := e.Insert(schedule.Entry{
		ID: "lunch", Kind: schedule.KindBanner, Start: 720,
	}, schedule.SharedTrackID, AtStart)
	assert.True(t, IsNotFound(err))
}

func TestEngine_Insert_PastMidnightRejected(t *testing.T) {
	e := mustEngine(t, threeShotSchedule(true))
	_, err := e.Insert(schedule.Entry{
		ID: "late", Kind: schedule.KindShot, Start: 1430, Duration: 30,
	}, "main", AtStart)
	assert.True(t, IsOverflow(err))
}

// =============================================================================
// Remove Tests
// =============================================================================

func TestEngine_Remove_RenumbersRemainder(t *testing.T) {
	e := mustEngine(t, threeShotSchedule(true))

	snap, err := e.Remove("B")
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "C"}, orderedIDs(snap.Schedule, "main"))
	assertDense(t, snap.Schedule)
}

func TestEngine_Remove_DoesNotCascade(t *testing.T) {
	// The gap left by a removal is intentional; closing it is a separate
	// explicit ripple action, not engine policy.
	e := mustEngine(t, threeShotSchedule(true))

	snap, err := e.Remove("B")
	require.NoError(t, err)
	assert.Equal(t, clock.Minute(630), startOf(t, snap, "C"))
}

func TestEngine_Remove_NotFound(t *testing.T) {
	e := mustEngine(t, threeShotSchedule(true))
	_, err := e.Remove("ghost")
	assert.True(t, IsNotFound(err))
}

func TestEngine_Remove_SharedBanner(t *testing.T) {
	s := threeShotSchedule(true)
	s.Entries = append(s.Entries, schedule.Entry{
		ID: "lunch", Kind: schedule.KindBanner, TrackID: schedule.SharedTrackID,
		AnchorTrackID: "main", Start: 720, Duration: 0, Order: 1,
	})
	e := mustEngine(t, s)

	snap, err := e.Remove("lunch")
	require.NoError(t, err)
	_, ok := snap.Schedule.EntryByID("lunch")
	assert.False(t, ok)
	assert.Equal(t, []string{"A", "B", "C"}, orderedIDs(snap.Schedule, "main"))
}

// =============================================================================
// Settings / Lock / Track Operations
// =============================================================================

func TestEngine_SetCascadeEnabled_NotRetroactive(t *testing.T) {
	e := mustEngine(t, threeShotSchedule(false))

	// Edit while cascade is off leaves B in place...
	_, err := e.Resize("A", 90)
	require.NoError(t, err)

	// ...and enabling cascade afterward does not retime anything.
	snap, err := e.SetCascadeEnabled(true)
	require.NoError(t, err)
	assert.Equal(t, clock.Minute(600), startOf(t, snap, "B"))
	assert.True(t, snap.Schedule.Settings.CascadeEnabled)
}

func TestEngine_SetShowDurations(t *testing.T) {
	e := mustEngine(t, threeShotSchedule(true))
	snap, err := e.SetShowDurations(true)
	require.NoError(t, err)
	assert.True(t, snap.Schedule.Settings.ShowDurations)
}

func TestEngine_SetLocked(t *testing.T) {
	e := mustEngine(t, threeShotSchedule(true))

	_, err := e.SetLocked("B", true)
	require.NoError(t, err)

	snap, err := e.Resize("A", 90)
	require.NoError(t, err)
	assert.Equal(t, clock.Minute(600), startOf(t, snap, "B"))
}

func TestEngine_AddTrack_And_RemoveTrack(t *testing.T) {
	e := mustEngine(t, threeShotSchedule(true))

	snap, err := e.AddTrack(schedule.Track{ID: "b-cam", Name: "B Camera"})
	require.NoError(t, err)
	added, ok := snap.Schedule.TrackByID("b-cam")
	assert.True(t, ok)
	assert.Equal(t, 1, added.Order) // new tracks land after existing ones

	snap, err = e.RemoveTrack("b-cam")
	require.NoError(t, err)
	_, ok = snap.Schedule.TrackByID("b-cam")
	assert.False(t, ok)
}

func TestEngine_RemoveTrack_RejectsOrphaning(t *testing.T) {
	e := mustEngine(t, threeShotSchedule(true))

	// main still carries A, B, C: removal would orphan them.
	_, err := e.RemoveTrack("main")
	require.Error(t, err)
	assert.True(t, IsInvariantViolation(err))

	// Nothing was dropped.
	assert.Len(t, e.Snapshot().Schedule.Entries, 3)
	_, ok := e.Snapshot().Schedule.TrackByID("main")
	assert.True(t, ok)
}

func TestEngine_AddTrack_DuplicateRejected(t *testing.T) {
	e := mustEngine(t, threeShotSchedule(true))
	_, err := e.AddTrack(schedule.Track{ID: "main"})
	assert.True(t, IsOutOfRange(err))
}

// =============================================================================
// Atomicity / Density Across Operation Sequences
// =============================================================================

func TestEngine_OperationSequence_KeepsDensity(t *testing.T) {
	s := threeShotSchedule(true)
	s.Tracks = append(s.Tracks, schedule.Track{ID: "b-cam", Order: 1})
	e := mustEngine(t, s)

	_, err := e.Insert(schedule.Entry{ID: "D", Kind: schedule.KindShot, Start: 700, Duration: 20}, "main", "C")
	require.NoError(t, err)
	_, err = e.MoveToTrack("B", "b-cam", 0)
	require.NoError(t, err)
	_, err = e.ReorderWithinTrack("main", "D", 0)
	require.NoError(t, err)
	_, err = e.Remove("A")
	require.NoError(t, err)
	snap, err := e.MoveToTrack("B", "main", 1)
	require.NoError(t, err)

	assertDense(t, snap.Schedule)
	assert.Equal(t, []string{"D", "B", "C"}, orderedIDs(snap.Schedule, "main"))
	assert.Empty(t, orderedIDs(snap.Schedule, "b-cam"))
}

func TestEngine_FailedOp_LeavesSnapshotUntouched(t *testing.T) {
	e := mustEngine(t, threeShotSchedule(true))
	before, err := schedule.Hash(e.Snapshot().Schedule)
	require.NoError(t, err)

	_, opErr := e.Retime("ghost", 600)
	require.Error(t, opErr)

	after, err := schedule.Hash(e.Snapshot().Schedule)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestEngine_Rev_AdvancesPerAppliedOp(t *testing.T) {
	e := mustEngine(t, threeShotSchedule(true))
	assert.Equal(t, int64(0), e.Snapshot().Rev)

	snap, err := e.Resize("A", 61)
	require.NoError(t, err)
	assert.Equal(t, int64(1), snap.Rev)

	snap, err = e.Retime("A", 545)
	require.NoError(t, err)
	assert.Equal(t, int64(2), snap.Rev)
}
