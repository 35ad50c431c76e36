package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// OpRecord is one entry of the append-only operation log.
type OpRecord struct {
	// Rev is the logical revision the operation produced.
	Rev int64 `json:"rev"`
	// Name is the operation name (e.g., "resize", "move_to_track").
	Name string `json:"name"`
	// Args is the operation's argument payload as recorded.
	Args json.RawMessage `json:"args"`
	// ScheduleHash is the content hash of the schedule after the op.
	ScheduleHash string `json:"schedule_hash"`
}

// ReadOps returns the operation log starting after the given revision,
// ordered by revision ascending. Pass 0 to read the full history.
//
// Walking the log alongside stored hashes lets an auditor verify that
// each recorded operation produced exactly the state it claims.
func (s *Store) ReadOps(ctx context.Context, afterRev int64) ([]OpRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT rev, name, args, schedule_hash
		FROM ops
		WHERE rev > ?
		ORDER BY rev ASC
	`, afterRev)
	if err != nil {
		return nil, fmt.Errorf("read ops: %w", err)
	}
	defer rows.Close()

	var out []OpRecord
	for rows.Next() {
		var (
			rec  OpRecord
			args string
		)
		if err := rows.Scan(&rec.Rev, &rec.Name, &args, &rec.ScheduleHash); err != nil {
			return nil, fmt.Errorf("read ops: scan: %w", err)
		}
		rec.Args = json.RawMessage(args)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read ops: %w", err)
	}
	return out, nil
}

// LastOp returns the most recent op record, or false if the log is
// empty.
func (s *Store) LastOp(ctx context.Context) (OpRecord, bool, error) {
	ops, err := s.ReadOps(ctx, 0)
	if err != nil || len(ops) == 0 {
		return OpRecord{}, false, err
	}
	return ops[len(ops)-1], true, nil
}
