// Package booking holds the pure reservation logic shared by handlers and
// repositories: half-open time intervals, the daily slot grid and the
// booking status state machine.  Nothing in this package touches the
// database or the network.
package booking

import (
	"errors"
	"time"
)

// ErrInvalidInterval is returned when an interval's end does not come
// strictly after its start.
var ErrInvalidInterval = errors.New("interval end must be after start")

// Interval is a half-open time range [Start, End).  All intervals in the
// system are expressed in UTC.
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval builds an Interval after normalizing both instants to UTC.
// It rejects ranges where end is not strictly after start.
func NewInterval(start, end time.Time) (Interval, error) {
	if !end.After(start) {
		return Interval{}, ErrInvalidInterval
	}
	return Interval{Start: start.UTC(), End: end.UTC()}, nil
}

// Overlaps reports whether two half-open intervals share at least one
// instant: [s1,e1) and [s2,e2) overlap iff s1 < e2 && s2 < e1.  Touching
// boundaries (e1 == s2) do not overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// ConflictsWith reports whether the candidate interval overlaps any of the
// existing intervals.  It is the conflict test used before accepting a new
// booking for a space.
func ConflictsWith(existing []Interval, candidate Interval) bool {
	for _, iv := range existing {
		if candidate.Overlaps(iv) {
			return true
		}
	}
	return false
}
