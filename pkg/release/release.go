// Package release resolves user-chosen calendar dates, wall-clock times and
// named timezones into absolute UTC release instants for timelock creation.
package release

import (
	"errors"
	"fmt"
	"time"
)

// MinFutureOffset is the minimum distance between "now" and a release instant.
// Anything nearer is clamped forward so the lock is never created in the past
// by the time the user has confirmed the transaction.
const MinFutureOffset = 30 * time.Minute

// AdjustedNote is attached to a resolution whose instant was clamped forward.
const AdjustedNote = "adjusted automatically"

// ErrInvalidDateTime is returned when date or time components are malformed.
var ErrInvalidDateTime = errors.New("invalid date or time")

// Resolution is the outcome of resolving a release time selection.
type Resolution struct {
	ReleaseTimestamp int64  `json:"release_timestamp"`
	AutoAdjusted     bool   `json:"auto_adjusted"`
	Note             string `json:"note,omitempty"`
}

// ResolveReleaseTimestamp interprets datePart (YYYY-MM-DD) at hour:minute as
// wall-clock time in the named timezone and converts it to UTC epoch seconds.
// An empty timezone name defaults to UTC. Instants at or before
// now+MinFutureOffset are clamped to now+MinFutureOffset and flagged.
func ResolveReleaseTimestamp(datePart string, hour, minute int, timezoneName string, now func() time.Time) (Resolution, error) {
	if hour < 0 || hour > 23 {
		return Resolution{}, fmt.Errorf("%w: hour %d out of range", ErrInvalidDateTime, hour)
	}
	if minute < 0 || minute > 59 {
		return Resolution{}, fmt.Errorf("%w: minute %d out of range", ErrInvalidDateTime, minute)
	}

	day, err := time.Parse("2006-01-02", datePart)
	if err != nil {
		return Resolution{}, fmt.Errorf("%w: %q is not a valid date", ErrInvalidDateTime, datePart)
	}

	loc := time.UTC
	if timezoneName != "" {
		loc, err = time.LoadLocation(timezoneName)
		if err != nil {
			return Resolution{}, fmt.Errorf("%w: unknown timezone %q", ErrInvalidDateTime, timezoneName)
		}
	}

	instant := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, loc)
	return clamp(instant, now), nil
}

// ResolveOffset resolves a relative selection (e.g. +30min, +1 day) to an
// absolute instant. Non-positive offsets resolve to the clamped minimum.
func ResolveOffset(offset time.Duration, now func() time.Time) Resolution {
	return clamp(now().Add(offset), now)
}

func clamp(instant time.Time, now func() time.Time) Resolution {
	earliest := now().Add(MinFutureOffset)
	if !instant.After(earliest) {
		return Resolution{
			ReleaseTimestamp: earliest.Unix(),
			AutoAdjusted:     true,
			Note:             AdjustedNote,
		}
	}
	return Resolution{ReleaseTimestamp: instant.Unix()}
}

// To12Hour converts a 24-hour value to its 12-hour clock representation.
// Out-of-range input is clamped into [0,23]; there is no failure mode.
func To12Hour(hour int) (hour12 int, ampm string) {
	if hour < 0 {
		hour = 0
	}
	if hour > 23 {
		hour = 23
	}
	ampm = "AM"
	if hour >= 12 {
		ampm = "PM"
	}
	hour12 = hour % 12
	if hour12 == 0 {
		hour12 = 12
	}
	return hour12, ampm
}

// To24Hour converts a 12-hour clock value back to its 24-hour representation.
// It is the inverse of To12Hour for every hour in [0,23].
func To24Hour(hour12 int, ampm string) int {
	if hour12 < 1 {
		hour12 = 1
	}
	if hour12 > 12 {
		hour12 = 12
	}
	if ampm == "PM" {
		if hour12 == 12 {
			return 12
		}
		return hour12 + 12
	}
	if hour12 == 12 {
		return 0
	}
	return hour12
}
