package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/slate/internal/store"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		dbPath   string
		afterRev int64
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the persisted operation log",
		Long: `Show the append-only operation log from a SQLite database written by
apply --db. Each record carries the revision, the operation name, its
arguments and the schedule content hash after the edit.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(rootOpts, dbPath, afterRev, cmd)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path")
	cmd.Flags().Int64Var(&afterRev, "after", 0, "only show operations after this revision")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *RootOptions, dbPath string, afterRev int64, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	ctx := context.Background()

	db, err := store.Open(dbPath)
	if err != nil {
		_ = formatter.Error("DB_ERROR", err.Error(), nil)
		return NewExitError(ExitCommandError, err.Error())
	}
	defer db.Close()

	ops, err := db.ReadOps(ctx, afterRev)
	if err != nil {
		_ = formatter.Error("DB_ERROR", err.Error(), nil)
		return NewExitError(ExitCommandError, err.Error())
	}

	if formatter.Format == "json" {
		return formatter.Success(ops)
	}

	if len(ops) == 0 {
		fmt.Fprintln(formatter.Writer, "No operations recorded")
		return nil
	}
	for _, op := range ops {
		fmt.Fprintf(formatter.Writer, "rev %-5d %-14s %s\n", op.Rev, op.Name, op.Args)
	}
	return nil
}
