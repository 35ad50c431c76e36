package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/roach88/slate/internal/schedule"
)

// SaveSnapshot atomically replaces the stored schedule with the given
// one and records the operation that produced it in the op log.
//
// opName and args describe the applied operation for audit purposes;
// args must be JSON-marshalable. The op log insert is idempotent on
// rev, so re-saving the same revision (e.g., after a retried write)
// does not duplicate history.
func (s *Store) SaveSnapshot(ctx context.Context, sched *schedule.Schedule, rev int64, opName string, args any) error {
	hash, err := schedule.Hash(sched)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	argsJSON, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("save snapshot: marshal args: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tracks`); err != nil {
		return fmt.Errorf("save snapshot: clear tracks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return fmt.Errorf("save snapshot: clear entries: %w", err)
	}

	for _, t := range sched.Tracks {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tracks (id, name, ord) VALUES (?, ?, ?)`,
			t.ID, t.Name, t.Order,
		); err != nil {
			return fmt.Errorf("save snapshot: track %s: %w", t.ID, err)
		}
	}

	for _, e := range sched.Entries {
		payload, err := marshalPayload(e.Payload)
		if err != nil {
			return fmt.Errorf("save snapshot: entry %s: %w", e.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO entries
			(id, kind, track_id, start, duration, ord, anchor_track_id, locked, payload)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			e.ID, string(e.Kind), e.TrackID, int(e.Start), e.Duration,
			e.Order, e.AnchorTrackID, boolToInt(e.Locked), payload,
		); err != nil {
			return fmt.Errorf("save snapshot: entry %s: %w", e.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO settings (id, cascade_enabled, show_durations) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET cascade_enabled=excluded.cascade_enabled, show_durations=excluded.show_durations
	`, boolToInt(sched.Settings.CascadeEnabled), boolToInt(sched.Settings.ShowDurations)); err != nil {
		return fmt.Errorf("save snapshot: settings: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO meta (key, value) VALUES ('rev', ?), ('schedule_hash', ?)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value
	`, fmt.Sprintf("%d", rev), hash); err != nil {
		return fmt.Errorf("save snapshot: meta: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO ops (rev, name, args, schedule_hash) VALUES (?, ?, ?, ?)
		ON CONFLICT(rev) DO NOTHING
	`, rev, opName, string(argsJSON), hash); err != nil {
		return fmt.Errorf("save snapshot: op log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save snapshot: commit: %w", err)
	}
	return nil
}

func marshalPayload(p map[string]string) (string, error) {
	if len(p) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
