package cli

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/roach88/slate/internal/clock"
	"github.com/roach88/slate/internal/schedule"
)

//go:embed schema.cue
var schemaCUE string

// Error codes for document loading.
const (
	ErrCodeNotFound  = "DOC_NOT_FOUND"
	ErrCodeBadYAML   = "DOC_BAD_YAML"
	ErrCodeBadSchema = "DOC_BAD_SCHEMA"
	ErrCodeBadTime   = "DOC_BAD_TIME"
	ErrCodeInvalid   = "DOC_INVALID"
)

// LoadError represents an error that occurred during document loading.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// document is the on-disk YAML shape of a schedule. Track order and
// entry order are positional: the listing sequence is the sequence.
// Only shared (banner) entries carry an explicit anchor index.
type document struct {
	Tracks   []docTrack  `yaml:"tracks"`
	Entries  []docEntry  `yaml:"entries"`
	Settings docSettings `yaml:"settings"`
}

type docTrack struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name,omitempty"`
}

type docEntry struct {
	ID          string            `yaml:"id,omitempty"`
	Kind        string            `yaml:"kind"`
	Track       string            `yaml:"track"`
	Start       string            `yaml:"start"`
	Duration    int               `yaml:"duration"`
	Locked      bool              `yaml:"locked,omitempty"`
	AnchorTrack string            `yaml:"anchor_track,omitempty"`
	AnchorIndex int               `yaml:"anchor_index,omitempty"`
	Payload     map[string]string `yaml:"payload,omitempty"`
}

type docSettings struct {
	CascadeEnabled bool `yaml:"cascade_enabled"`
	ShowDurations  bool `yaml:"show_durations"`
}

// LoadSchedule reads, schema-checks and converts a schedule document.
// The document is validated against the embedded CUE schema before
// conversion, and the converted schedule is run through the full
// invariant check before it is returned.
func LoadSchedule(path string) (*schedule.Schedule, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("schedule document not found: %s", path)}
		}
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error reading %s: %v", path, err)}
	}

	if err := checkSchema(raw); err != nil {
		return nil, err
	}

	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, &LoadError{Code: ErrCodeBadYAML, Message: fmt.Sprintf("parsing %s: %v", path, err)}
	}

	sched, err := doc.toSchedule()
	if err != nil {
		return nil, err
	}
	if violations := schedule.Validate(sched); len(violations) > 0 {
		return nil, &LoadError{Code: ErrCodeInvalid, Message: violationSummary(violations)}
	}
	return sched, nil
}

// checkSchema validates the raw YAML against the embedded CUE schema.
func checkSchema(raw []byte) error {
	var generic any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return &LoadError{Code: ErrCodeBadYAML, Message: err.Error()}
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		return &LoadError{Code: ErrCodeBadSchema, Message: fmt.Sprintf("internal schema error: %v", err)}
	}
	docSchema := schema.LookupPath(cue.ParsePath("#Document"))
	if err := docSchema.Err(); err != nil {
		return &LoadError{Code: ErrCodeBadSchema, Message: fmt.Sprintf("internal schema error: %v", err)}
	}

	value := ctx.Encode(generic)
	if err := value.Err(); err != nil {
		return &LoadError{Code: ErrCodeBadYAML, Message: err.Error()}
	}

	unified := docSchema.Unify(value)
	if err := unified.Validate(cue.Concrete(true), cue.Final()); err != nil {
		var msgs []string
		for _, e := range cueerrors.Errors(err) {
			msgs = append(msgs, e.Error())
		}
		return &LoadError{Code: ErrCodeBadSchema, Message: strings.Join(msgs, "; ")}
	}
	return nil
}

func (d *document) toSchedule() (*schedule.Schedule, error) {
	s := &schedule.Schedule{
		Settings: schedule.Settings{
			CascadeEnabled: d.Settings.CascadeEnabled,
			ShowDurations:  d.Settings.ShowDurations,
		},
	}

	for i, t := range d.Tracks {
		s.Tracks = append(s.Tracks, schedule.Track{ID: t.ID, Name: t.Name, Order: i})
	}

	// Listing position within a track is its order.
	perTrack := make(map[string]int, len(d.Tracks))
	for i, e := range d.Entries {
		start, err := clock.Parse24h(e.Start)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeBadTime, Message: fmt.Sprintf("entries[%d]: %v", i, err)}
		}
		entry := schedule.Entry{
			ID:       e.ID,
			Kind:     schedule.Kind(e.Kind),
			TrackID:  e.Track,
			Start:    start,
			Duration: e.Duration,
			Locked:   e.Locked,
			Payload:  e.Payload,
		}
		if entry.Shared() {
			entry.AnchorTrackID = e.AnchorTrack
			entry.Order = e.AnchorIndex
		} else {
			entry.Order = perTrack[e.Track]
			perTrack[e.Track]++
		}
		s.Entries = append(s.Entries, entry)
	}
	return s, nil
}

// WriteSchedule renders a schedule back into document form and writes
// it to path. Entries are emitted per track in order sequence, so the
// positional ordering survives a load/save round trip.
func WriteSchedule(path string, s *schedule.Schedule) error {
	data, err := MarshalDocument(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// MarshalDocument converts a schedule into its YAML document bytes.
func MarshalDocument(s *schedule.Schedule) ([]byte, error) {
	var doc document
	doc.Settings = docSettings{
		CascadeEnabled: s.Settings.CascadeEnabled,
		ShowDurations:  s.Settings.ShowDurations,
	}

	tracks := s.TracksInOrder()
	for _, t := range tracks {
		doc.Tracks = append(doc.Tracks, docTrack{ID: t.ID, Name: t.Name})
	}

	for _, t := range tracks {
		for _, e := range s.TrackEntries(t.ID) {
			doc.Entries = append(doc.Entries, docEntry{
				ID:       e.ID,
				Kind:     string(e.Kind),
				Track:    e.TrackID,
				Start:    clock.Format24h(e.Start),
				Duration: e.Duration,
				Locked:   e.Locked,
				Payload:  e.Payload,
			})
		}
	}
	for _, t := range tracks {
		for _, e := range s.SharedEntries(t.ID) {
			doc.Entries = append(doc.Entries, docEntry{
				ID:          e.ID,
				Kind:        string(e.Kind),
				Track:       e.TrackID,
				Start:       clock.Format24h(e.Start),
				Duration:    e.Duration,
				Locked:      e.Locked,
				AnchorTrack: e.AnchorTrackID,
				AnchorIndex: e.Order,
				Payload:     e.Payload,
			})
		}
	}

	return yaml.Marshal(&doc)
}

func violationSummary(vs []schedule.Violation) string {
	msgs := make([]string, 0, len(vs))
	for _, v := range vs {
		msgs = append(msgs, v.Error())
	}
	return strings.Join(msgs, "; ")
}
