package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/slate/internal/engine"
)

// ConflictReport holds the conflict listing for a document.
type ConflictReport struct {
	Clean     bool              `json:"clean"`
	Conflicts []engine.Conflict `json:"conflicts,omitempty"`
}

// NewConflictsCommand creates the conflicts command.
func NewConflictsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "conflicts <document>",
		Short: "List overlap conflicts in a schedule document",
		Long: `Detect and list same-track time overlaps in a schedule document.

Conflicts are advisory: they never block an edit, but the exit code
reflects whether any were found so scripts can gate on a clean day.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConflicts(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runConflicts(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	eng, err := loadEngine(formatter, path)
	if err != nil {
		return err
	}
	snap := eng.Snapshot()

	report := ConflictReport{
		Clean:     len(snap.Conflicts) == 0,
		Conflicts: snap.Conflicts,
	}

	if formatter.Format == "json" {
		if err := formatter.Success(report); err != nil {
			return err
		}
	} else if report.Clean {
		fmt.Fprintln(formatter.Writer, "✓ No conflicts")
	} else {
		fmt.Fprintf(formatter.Writer, "✗ %d conflict(s)\n", len(snap.Conflicts))
		for _, c := range snap.Conflicts {
			fmt.Fprintf(formatter.Writer, "  %s ↔ %s\n", c.A, c.B)
		}
	}

	if !report.Clean {
		return NewExitError(ExitFailure, fmt.Sprintf("%d conflict(s) found", len(snap.Conflicts)))
	}
	return nil
}
