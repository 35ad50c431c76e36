// Package clock implements the canonical time model for the schedule engine.
//
// All scheduling arithmetic operates on whole minutes since midnight.
// There is exactly ONE time representation in the system: Minute. Formatted
// strings ("9:00 AM", "14:30") are produced on demand by views and the CLI
// and are never stored, so display and canonical time cannot drift.
//
// A schedule day never spans midnight. Arithmetic that would leave the
// valid range [0, 1439] fails with OutOfRangeError instead of wrapping.
package clock

import "fmt"

// Minute is a time of day expressed as minutes since midnight.
// Valid values are 0 (00:00) through EndOfDay (23:59).
type Minute int

// EndOfDay is the last schedulable minute of a day (23:59).
const EndOfDay Minute = 1439

// MinutesPerDay is the number of minutes in a schedule day.
const MinutesPerDay = 1440

// OutOfRangeError reports time arithmetic that would leave the valid
// minute-of-day range. Spanning midnight is deliberately unsupported;
// callers reject the edit rather than wrapping.
type OutOfRangeError struct {
	// Base is the starting minute of the failed computation.
	Base Minute
	// Delta is the signed minute offset that was applied.
	Delta int
}

// Error implements the error interface.
func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("time out of range: %d%+d is outside 0..%d", int(e.Base), e.Delta, int(EndOfDay))
}

// Valid reports whether m is a representable minute of day.
func (m Minute) Valid() bool {
	return m >= 0 && m <= EndOfDay
}

// Add offsets m by delta minutes. Delta may be negative.
//
// Returns OutOfRangeError if the result would fall outside [0, EndOfDay].
// Add never wraps around midnight: 23:50 + 20 is an error, not 00:10.
func Add(m Minute, delta int) (Minute, error) {
	r := Minute(int(m) + delta)
	if !r.Valid() {
		return 0, &OutOfRangeError{Base: m, Delta: delta}
	}
	return r, nil
}

// Overlap reports whether the half-open intervals [aStart, aStart+aDur)
// and [bStart, bStart+bDur) intersect.
//
// Half-open semantics mean an entry ending at 10:30 never overlaps one
// starting at 10:30. The one deliberate exception: two zero-duration
// entries at the same instant DO overlap, since both represent a real,
// simultaneous event rather than an empty interval.
func Overlap(aStart Minute, aDur int, bStart Minute, bDur int) bool {
	if aDur == 0 && bDur == 0 {
		return aStart == bStart
	}
	// A zero-duration interval [t, t) still occupies the instant t for
	// overlap purposes against a non-empty interval.
	aEnd := int(aStart) + aDur
	bEnd := int(bStart) + bDur
	if aDur == 0 {
		return int(bStart) <= int(aStart) && int(aStart) < bEnd
	}
	if bDur == 0 {
		return int(aStart) <= int(bStart) && int(bStart) < aEnd
	}
	return int(aStart) < bEnd && int(bStart) < aEnd
}

// Format24h renders m as "HH:MM" (zero-padded 24-hour clock).
func Format24h(m Minute) string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

// Format12h renders m as "H:MM AM" / "H:MM PM".
// Midnight is "12:00 AM" and noon is "12:00 PM".
func Format12h(m Minute) string {
	h := int(m) / 60
	mm := int(m) % 60
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", h12, mm, suffix)
}

// Parse24h parses "HH:MM" or "H:MM" into a Minute.
// Used by document loaders; the engine itself only sees Minute values.
func Parse24h(s string) (Minute, error) {
	var h, mm int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &mm); err != nil {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	if h < 0 || h > 23 || mm < 0 || mm > 59 {
		return 0, fmt.Errorf("invalid time %q: hour 0-23, minute 0-59", s)
	}
	return Minute(h*60 + mm), nil
}
