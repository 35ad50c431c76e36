package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/roach88/slate/internal/clock"
	"github.com/roach88/slate/internal/schedule"
)

// LoadSnapshot reads the stored schedule and its revision. A freshly
// created database yields an empty schedule at revision 0.
func (s *Store) LoadSnapshot(ctx context.Context) (*schedule.Schedule, int64, error) {
	sched := &schedule.Schedule{}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, ord FROM tracks ORDER BY ord ASC, id COLLATE BINARY ASC`)
	if err != nil {
		return nil, 0, fmt.Errorf("load snapshot: tracks: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var t schedule.Track
		if err := rows.Scan(&t.ID, &t.Name, &t.Order); err != nil {
			return nil, 0, fmt.Errorf("load snapshot: scan track: %w", err)
		}
		sched.Tracks = append(sched.Tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("load snapshot: tracks: %w", err)
	}

	erows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, track_id, start, duration, ord, anchor_track_id, locked, payload
		FROM entries
		ORDER BY track_id COLLATE BINARY ASC, ord ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, 0, fmt.Errorf("load snapshot: entries: %w", err)
	}
	defer erows.Close()
	for erows.Next() {
		e, err := scanEntry(erows)
		if err != nil {
			return nil, 0, fmt.Errorf("load snapshot: %w", err)
		}
		sched.Entries = append(sched.Entries, e)
	}
	if err := erows.Err(); err != nil {
		return nil, 0, fmt.Errorf("load snapshot: entries: %w", err)
	}

	var cascade, durations int
	err = s.db.QueryRowContext(ctx,
		`SELECT cascade_enabled, show_durations FROM settings WHERE id = 1`,
	).Scan(&cascade, &durations)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, 0, fmt.Errorf("load snapshot: settings: %w", err)
	}
	sched.Settings.CascadeEnabled = cascade != 0
	sched.Settings.ShowDurations = durations != 0

	rev, err := s.Rev(ctx)
	if err != nil {
		return nil, 0, err
	}
	return sched, rev, nil
}

// Rev returns the stored logical revision, 0 if none was saved yet.
func (s *Store) Rev(ctx context.Context) (int64, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM meta WHERE key = 'rev'`).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read rev: %w", err)
	}
	rev, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("read rev: bad value %q: %w", value, err)
	}
	return rev, nil
}

// ScheduleHash returns the stored content hash, empty if none saved.
func (s *Store) ScheduleHash(ctx context.Context) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM meta WHERE key = 'schedule_hash'`).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read schedule hash: %w", err)
	}
	return value, nil
}

func scanEntry(rows *sql.Rows) (schedule.Entry, error) {
	var (
		e       schedule.Entry
		kind    string
		start   int
		locked  int
		payload string
	)
	if err := rows.Scan(&e.ID, &kind, &e.TrackID, &start, &e.Duration,
		&e.Order, &e.AnchorTrackID, &locked, &payload); err != nil {
		return e, fmt.Errorf("scan entry: %w", err)
	}
	e.Kind = schedule.Kind(kind)
	e.Start = clock.Minute(start)
	e.Locked = locked != 0
	if payload != "" && payload != "{}" {
		if err := json.Unmarshal([]byte(payload), &e.Payload); err != nil {
			return e, fmt.Errorf("entry %s: bad payload: %w", e.ID, err)
		}
	}
	return e, nil
}
