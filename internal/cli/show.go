package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/slate/internal/engine"
	"github.com/roach88/slate/internal/views"
)

// Valid view names for the show command.
var validViews = []string{"list", "bytrack", "timeline", "daystream"}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		view  string
		focus string
		scale float64
	)

	cmd := &cobra.Command{
		Use:   "show <document>",
		Short: "Render a schedule view",
		Long: `Render a read-only projection of a schedule document.

Views:
  list       sequential read-down view, banners interleaved per track
  bytrack    per-track lanes side by side, banners listed once
  timeline   proportional geometry boxes for visual layout
  daystream  every entry across all tracks in time order`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(rootOpts, args[0], view, focus, scale, cmd)
		},
	}

	cmd.Flags().StringVar(&view, "view", "list", "view to render (list|bytrack|timeline|daystream)")
	cmd.Flags().StringVar(&focus, "focus", views.FocusAll, "track to focus, or \"all\"")
	cmd.Flags().Float64Var(&scale, "scale", 1, "timeline minutes per layout unit")

	return cmd
}

func runShow(opts *RootOptions, path, view, focus string, scale float64, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	eng, err := loadEngine(formatter, path)
	if err != nil {
		return err
	}
	snap := eng.Snapshot()
	formatter.VerboseLog("Loaded %s at rev %d (%d conflict(s))", path, snap.Rev, len(snap.Conflicts))

	switch view {
	case "list":
		sections := views.List(snap, focus)
		return formatter.SuccessText(renderSections(sections), sections)
	case "bytrack":
		v := views.ByTrack(snap, focus)
		var b strings.Builder
		b.WriteString(renderSections(v.Lanes))
		if len(v.Banners) > 0 {
			b.WriteString("banners\n")
			for _, it := range v.Banners {
				b.WriteString(renderItem(it))
			}
		}
		return formatter.SuccessText(b.String(), v)
	case "timeline":
		boxes := views.Timeline(snap, focus, views.Scale{MinutesPerUnit: scale})
		var b strings.Builder
		for _, box := range boxes {
			lane := fmt.Sprintf("%d", box.Lane)
			if box.Shared {
				lane = "*"
			}
			b.WriteString(fmt.Sprintf("%-20s lane=%s top=%.2f extent=%.2f%s\n",
				box.EntryID, lane, box.Top, box.Extent, conflictTag(box.Conflict)))
		}
		return formatter.SuccessText(b.String(), boxes)
	case "daystream":
		items := views.DayStream(snap)
		var b strings.Builder
		for _, it := range items {
			b.WriteString(renderItem(it))
		}
		return formatter.SuccessText(b.String(), items)
	default:
		_ = formatter.Error("BAD_VIEW", fmt.Sprintf("unknown view %q: must be one of %v", view, validViews), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("unknown view %q", view))
	}
}

// loadEngine loads a schedule document and wraps it in an engine,
// translating load failures into formatted command errors. Shared by
// show, apply and conflicts.
func loadEngine(formatter *OutputFormatter, path string) (*engine.Engine, error) {
	sched, err := LoadSchedule(path)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
			return nil, NewExitError(ExitCommandError, loadErr.Error())
		}
		_ = formatter.Error(ErrCodeInvalid, err.Error(), nil)
		return nil, NewExitError(ExitCommandError, err.Error())
	}

	eng, err := engine.New(sched)
	if err != nil {
		_ = formatter.Error(ErrCodeInvalid, err.Error(), nil)
		return nil, NewExitError(ExitCommandError, err.Error())
	}
	return eng, nil
}

func renderSections(sections []views.TrackSection) string {
	var b strings.Builder
	for _, sec := range sections {
		name := sec.TrackName
		if name == "" {
			name = sec.TrackID
		}
		b.WriteString(fmt.Sprintf("%s\n", name))
		for _, it := range sec.Items {
			b.WriteString(renderItem(it))
		}
	}
	return b.String()
}

func renderItem(it views.Item) string {
	var flags []string
	if it.Locked {
		flags = append(flags, "locked")
	}
	if it.Shared {
		flags = append(flags, "shared")
	}
	suffix := ""
	if len(flags) > 0 {
		suffix = " [" + strings.Join(flags, ",") + "]"
	}
	label := ""
	if it.DurationLabel != "" {
		label = " (" + it.DurationLabel + ")"
	}
	return fmt.Sprintf("  %s–%s  %-20s%s%s%s\n",
		it.Start24, it.End24, it.ID, label, suffix, conflictTag(it.Conflict))
}

func conflictTag(conflict bool) string {
	if conflict {
		return "  ⚠ conflict"
	}
	return ""
}
