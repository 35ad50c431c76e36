package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/slate/internal/clock"
	"github.com/roach88/slate/internal/engine"
	"github.com/roach88/slate/internal/schedule"
	"github.com/roach88/slate/internal/store"
)

// Operation names accepted by the apply command.
var validOps = []string{
	"retime", "resize", "reorder", "move", "insert", "remove",
	"lock", "unlock", "set-cascade", "set-durations",
	"add-track", "remove-track",
}

// applyOptions collects the per-operation flags for apply.
type applyOptions struct {
	Entry    string
	Track    string
	Index    int
	Start    string
	Duration int
	After    string
	Anchor   string
	ID       string
	Kind     string
	Name     string
	Locked   bool
	Enabled  bool
	Payload  []string

	DBPath string
	DryRun bool
}

// ApplyResult holds the outcome of a successful apply.
type ApplyResult struct {
	Op        string            `json:"op"`
	Rev       int64             `json:"rev"`
	Conflicts []engine.Conflict `json:"conflicts,omitempty"`
}

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	applyOpts := &applyOptions{}

	cmd := &cobra.Command{
		Use:   "apply <document> <op>",
		Short: "Apply one edit operation to a schedule document",
		Long: `Apply a single engine operation to a YAML schedule document and write
the result back. The edit is atomic: a rejected operation leaves the
document untouched.

Operations:
  retime        --entry --start            move an entry to a new start time
  resize        --entry --duration         change an entry's duration
  reorder       --entry --track --index    reposition within its track
  move          --entry --track --index    move to another track
  insert        --track --kind --start --duration [--id --after --locked --payload k=v]
                (banners: --track shared --anchor <track> [--after])
  remove        --entry                    delete an entry
  lock, unlock  --entry                    pin or unpin an entry
  set-cascade   --enabled                  toggle cascade retiming
  set-durations --enabled                  toggle duration display
  add-track     --track [--name]           append a track
  remove-track  --track                    remove an empty track

With --db, the resulting snapshot and the operation record are also
persisted to a SQLite database for history and replay.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(rootOpts, applyOpts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&applyOpts.Entry, "entry", "", "entry id")
	cmd.Flags().StringVar(&applyOpts.Track, "track", "", "track id")
	cmd.Flags().IntVar(&applyOpts.Index, "index", 0, "target position within the track")
	cmd.Flags().StringVar(&applyOpts.Start, "start", "", "start time (HH:MM, 24-hour)")
	cmd.Flags().IntVar(&applyOpts.Duration, "duration", 0, "duration in minutes")
	cmd.Flags().StringVar(&applyOpts.After, "after", "", "entry id to insert after (omit for start of track)")
	cmd.Flags().StringVar(&applyOpts.Anchor, "anchor", "", "anchor track for a shared banner insert")
	cmd.Flags().StringVar(&applyOpts.ID, "id", "", "id for an inserted entry (generated when omitted)")
	cmd.Flags().StringVar(&applyOpts.Kind, "kind", "", "entry kind (shot|banner|move|break|custom)")
	cmd.Flags().StringVar(&applyOpts.Name, "name", "", "display name for an added track")
	cmd.Flags().BoolVar(&applyOpts.Locked, "locked", false, "insert the entry locked")
	cmd.Flags().BoolVar(&applyOpts.Enabled, "enabled", false, "value for set-cascade / set-durations")
	cmd.Flags().StringArrayVar(&applyOpts.Payload, "payload", nil, "payload field as key=value (repeatable)")
	cmd.Flags().StringVar(&applyOpts.DBPath, "db", "", "SQLite database to persist the snapshot and op log")
	cmd.Flags().BoolVar(&applyOpts.DryRun, "dry-run", false, "apply in memory only, do not write the document")

	return cmd
}

func runApply(opts *RootOptions, applyOpts *applyOptions, path, op string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	ctx := context.Background()

	sched, err := LoadSchedule(path)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
			return NewExitError(ExitCommandError, loadErr.Error())
		}
		_ = formatter.Error(ErrCodeInvalid, err.Error(), nil)
		return NewExitError(ExitCommandError, err.Error())
	}

	// When persisting, the revision counter resumes from the database
	// so the op log stays strictly increasing across invocations.
	var db *store.Store
	var rev int64
	if applyOpts.DBPath != "" {
		db, err = store.Open(applyOpts.DBPath)
		if err != nil {
			_ = formatter.Error("DB_ERROR", err.Error(), nil)
			return NewExitError(ExitCommandError, err.Error())
		}
		defer db.Close()
		rev, err = db.Rev(ctx)
		if err != nil {
			_ = formatter.Error("DB_ERROR", err.Error(), nil)
			return NewExitError(ExitCommandError, err.Error())
		}
	}

	eng, err := engine.NewAt(sched, rev)
	if err != nil {
		_ = formatter.Error(ErrCodeInvalid, err.Error(), nil)
		return NewExitError(ExitCommandError, err.Error())
	}

	snap, args, err := dispatchOp(eng, op, applyOpts)
	if err != nil {
		var opErr *engine.OpError
		if errors.As(err, &opErr) {
			_ = formatter.Error(string(opErr.Code), opErr.Message, opErr.Violations)
			return NewExitError(ExitFailure, opErr.Error())
		}
		_ = formatter.Error("BAD_OP", err.Error(), nil)
		return NewExitError(ExitCommandError, err.Error())
	}

	if !applyOpts.DryRun {
		if err := WriteSchedule(path, snap.Schedule); err != nil {
			_ = formatter.Error("WRITE_ERROR", err.Error(), nil)
			return NewExitError(ExitCommandError, err.Error())
		}
		formatter.VerboseLog("Wrote %s", path)
	}
	if db != nil && !applyOpts.DryRun {
		if err := db.SaveSnapshot(ctx, snap.Schedule, snap.Rev, op, args); err != nil {
			_ = formatter.Error("DB_ERROR", err.Error(), nil)
			return NewExitError(ExitCommandError, err.Error())
		}
		formatter.VerboseLog("Persisted rev %d to %s", snap.Rev, applyOpts.DBPath)
	}

	result := ApplyResult{Op: op, Rev: snap.Rev, Conflicts: snap.Conflicts}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ Applied %s (rev %d, %d conflict(s))\n", op, snap.Rev, len(snap.Conflicts))
	for _, c := range snap.Conflicts {
		fmt.Fprintf(formatter.Writer, "  ⚠ %s ↔ %s\n", c.A, c.B)
	}
	return nil
}

// dispatchOp runs one named operation against the engine and returns
// the new snapshot plus the argument payload recorded in the op log.
func dispatchOp(eng *engine.Engine, op string, o *applyOptions) (engine.Snapshot, map[string]any, error) {
	switch op {
	case "retime":
		start, err := clock.Parse24h(o.Start)
		if err != nil {
			return engine.Snapshot{}, nil, fmt.Errorf("--start: %w", err)
		}
		snap, err := eng.Retime(o.Entry, start)
		return snap, map[string]any{"entry": o.Entry, "start": o.Start}, err
	case "resize":
		snap, err := eng.Resize(o.Entry, o.Duration)
		return snap, map[string]any{"entry": o.Entry, "duration": o.Duration}, err
	case "reorder":
		snap, err := eng.ReorderWithinTrack(o.Track, o.Entry, o.Index)
		return snap, map[string]any{"entry": o.Entry, "track": o.Track, "index": o.Index}, err
	case "move":
		snap, err := eng.MoveToTrack(o.Entry, o.Track, o.Index)
		return snap, map[string]any{"entry": o.Entry, "track": o.Track, "index": o.Index}, err
	case "insert":
		start, err := clock.Parse24h(o.Start)
		if err != nil {
			return engine.Snapshot{}, nil, fmt.Errorf("--start: %w", err)
		}
		payload, err := parsePayload(o.Payload)
		if err != nil {
			return engine.Snapshot{}, nil, err
		}
		entry := schedule.Entry{
			ID:            o.ID,
			Kind:          schedule.Kind(o.Kind),
			Start:         start,
			Duration:      o.Duration,
			Locked:        o.Locked,
			AnchorTrackID: o.Anchor,
			Payload:       payload,
		}
		snap, err := eng.Insert(entry, o.Track, o.After)
		return snap, map[string]any{
			"track": o.Track, "kind": o.Kind, "start": o.Start,
			"duration": o.Duration, "after": o.After, "anchor": o.Anchor,
		}, err
	case "remove":
		snap, err := eng.Remove(o.Entry)
		return snap, map[string]any{"entry": o.Entry}, err
	case "lock":
		snap, err := eng.SetLocked(o.Entry, true)
		return snap, map[string]any{"entry": o.Entry, "locked": true}, err
	case "unlock":
		snap, err := eng.SetLocked(o.Entry, false)
		return snap, map[string]any{"entry": o.Entry, "locked": false}, err
	case "set-cascade":
		snap, err := eng.SetCascadeEnabled(o.Enabled)
		return snap, map[string]any{"enabled": o.Enabled}, err
	case "set-durations":
		snap, err := eng.SetShowDurations(o.Enabled)
		return snap, map[string]any{"enabled": o.Enabled}, err
	case "add-track":
		snap, err := eng.AddTrack(schedule.Track{ID: o.Track, Name: o.Name})
		return snap, map[string]any{"track": o.Track, "name": o.Name}, err
	case "remove-track":
		snap, err := eng.RemoveTrack(o.Track)
		return snap, map[string]any{"track": o.Track}, err
	default:
		return engine.Snapshot{}, nil, fmt.Errorf("unknown operation %q: must be one of %v", op, validOps)
	}
}

func parsePayload(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	payload := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("--payload %q: expected key=value", p)
		}
		payload[k] = v
	}
	return payload, nil
}
