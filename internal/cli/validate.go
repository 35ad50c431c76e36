package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/slate/internal/schedule"
)

// ValidationResult holds document validation results.
type ValidationResult struct {
	Valid      bool                 `json:"valid"`
	Tracks     int                  `json:"tracks,omitempty"`
	Entries    int                  `json:"entries,omitempty"`
	Violations []schedule.Violation `json:"violations,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <document>",
		Short: "Validate a schedule document",
		Long: `Validate a YAML schedule document against the document schema and the
schedule invariants without applying any operation.

Checks structure (schema), time formats, track references, anchor
references and per-track order density.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	formatter.VerboseLog("Validating %s", path)

	sched, err := LoadSchedule(path)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
			// Structural problems (missing file, bad YAML, schema failures)
			// are command errors; invariant failures are validation failures.
			code := ExitCommandError
			if loadErr.Code == ErrCodeInvalid {
				code = ExitFailure
			}
			return NewExitError(code, loadErr.Error())
		}
		_ = formatter.Error(ErrCodeInvalid, err.Error(), nil)
		return NewExitError(ExitCommandError, err.Error())
	}

	result := ValidationResult{
		Valid:   true,
		Tracks:  len(sched.Tracks),
		Entries: len(sched.Entries),
	}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Document valid (%d track(s), %d entr(ies))\n", result.Tracks, result.Entries)
	return nil
}
