package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/slate/internal/schedule"
)

// OpError represents a failed schedule operation.
//
// Expected failure modes are returned as values, never panicked:
//   - NotFound: the operation referenced a missing entry or track
//   - ScheduleOverflow: a cascade or edit would push time past end of day
//   - OutOfRange: a supplied time or duration is outside the valid range
//   - InvariantViolation: the post-condition check failed; this indicates
//     an engine bug and callers should treat it as fatal
//
// OpError includes structured fields for diagnostics and recovery.
type OpError struct {
	// Code identifies the error category.
	Code OpErrorCode

	// Message is a human-readable description.
	Message string

	// EntryID identifies the entry involved, if any.
	EntryID string

	// TrackID identifies the track involved, if any.
	TrackID string

	// Violations carries the invariant breaches for
	// ErrCodeInvariantViolation.
	Violations []schedule.Violation
}

// OpErrorCode categorizes operation errors.
type OpErrorCode string

const (
	// ErrCodeNotFound indicates a referenced entry or track does not exist.
	ErrCodeNotFound OpErrorCode = "NOT_FOUND"

	// ErrCodeScheduleOverflow indicates an edit or cascade would push an
	// entry past the end of the day.
	ErrCodeScheduleOverflow OpErrorCode = "SCHEDULE_OVERFLOW"

	// ErrCodeOutOfRange indicates a supplied time or duration is invalid.
	ErrCodeOutOfRange OpErrorCode = "OUT_OF_RANGE"

	// ErrCodeInvariantViolation indicates the post-mutation invariant
	// check failed. This should never happen in a correct engine.
	ErrCodeInvariantViolation OpErrorCode = "INVARIANT_VIOLATION"
)

// Error implements the error interface.
func (e *OpError) Error() string {
	switch {
	case e.EntryID != "" && e.TrackID != "":
		return fmt.Sprintf("%s: %s (entry=%s, track=%s)", e.Code, e.Message, e.EntryID, e.TrackID)
	case e.EntryID != "":
		return fmt.Sprintf("%s: %s (entry=%s)", e.Code, e.Message, e.EntryID)
	case e.TrackID != "":
		return fmt.Sprintf("%s: %s (track=%s)", e.Code, e.Message, e.TrackID)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// IsNotFound returns true if the error is a missing entry/track error.
// Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	var oe *OpError
	return errors.As(err, &oe) && oe.Code == ErrCodeNotFound
}

// IsOverflow returns true if the error is a schedule overflow.
func IsOverflow(err error) bool {
	var oe *OpError
	return errors.As(err, &oe) && oe.Code == ErrCodeScheduleOverflow
}

// IsOutOfRange returns true if the error is an out-of-range time or
// duration.
func IsOutOfRange(err error) bool {
	var oe *OpError
	return errors.As(err, &oe) && oe.Code == ErrCodeOutOfRange
}

// IsInvariantViolation returns true if the error is a failed
// post-condition check.
func IsInvariantViolation(err error) bool {
	var oe *OpError
	return errors.As(err, &oe) && oe.Code == ErrCodeInvariantViolation
}

// NewEntryNotFoundError creates an OpError for a missing entry.
func NewEntryNotFoundError(entryID string) *OpError {
	return &OpError{
		Code:    ErrCodeNotFound,
		Message: "entry does not exist",
		EntryID: entryID,
	}
}

// NewTrackNotFoundError creates an OpError for a missing track.
func NewTrackNotFoundError(trackID string) *OpError {
	return &OpError{
		Code:    ErrCodeNotFound,
		Message: "track does not exist",
		TrackID: trackID,
	}
}

// NewOverflowError creates an OpError for a shift past end of day.
func NewOverflowError(entryID string, wouldEnd int) *OpError {
	return &OpError{
		Code:    ErrCodeScheduleOverflow,
		Message: fmt.Sprintf("shift would push entry past end of day (minute %d)", wouldEnd),
		EntryID: entryID,
	}
}

// NewOutOfRangeError creates an OpError for an invalid supplied value.
func NewOutOfRangeError(entryID, message string) *OpError {
	return &OpError{
		Code:    ErrCodeOutOfRange,
		Message: message,
		EntryID: entryID,
	}
}

// NewInvariantError creates an OpError wrapping post-condition failures.
func NewInvariantError(violations []schedule.Violation) *OpError {
	return &OpError{
		Code:       ErrCodeInvariantViolation,
		Message:    fmt.Sprintf("operation would leave schedule invalid (%d violations)", len(violations)),
		Violations: violations,
	}
}
