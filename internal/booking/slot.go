package booking

import "time"

// The bookable part of a day is fixed: twelve one-hour slots between
// 09:00 and 21:00.  Slot boundaries are computed in UTC so that every
// process generates the same grid for the same calendar date.
const (
	OpeningHour  = 9
	ClosingHour  = 21
	SlotDuration = time.Hour
	SlotsPerDay  = ClosingHour - OpeningHour
)

// Slot is one candidate reservation window within a day.  Available is
// filled in by MarkAvailability; DaySlots always emits it as true.
type Slot struct {
	Start     time.Time
	End       time.Time
	Available bool
}

// DaySlots returns the canonical slot grid for the calendar date that
// contains day (interpreted in UTC).  The result is always SlotsPerDay
// contiguous one-hour slots starting at 09:00 UTC.  The function is pure;
// bookings never change its shape.
func DaySlots(day time.Time) []Slot {
	d := day.UTC()
	midnight := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	slots := make([]Slot, 0, SlotsPerDay)
	for hour := OpeningHour; hour < ClosingHour; hour++ {
		start := midnight.Add(time.Duration(hour) * time.Hour)
		slots = append(slots, Slot{
			Start:     start,
			End:       start.Add(SlotDuration),
			Available: true,
		})
	}
	return slots
}

// DayWindow returns the [midnight, midnight+24h) UTC window of the
// calendar date containing day.  Callers use it to fetch bookings that
// could overlap any slot of that date, including bookings that merely
// cross the day boundary.
func DayWindow(day time.Time) Interval {
	d := day.UTC()
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return Interval{Start: start, End: start.Add(24 * time.Hour)}
}

// MarkAvailability flags each slot as unavailable when it overlaps any of
// the busy intervals.  The overlap predicate, not day containment, decides:
// a booking spilling over midnight still blocks the slots it covers.
func MarkAvailability(slots []Slot, busy []Interval) []Slot {
	out := make([]Slot, len(slots))
	for i, s := range slots {
		s.Available = !ConflictsWith(busy, Interval{Start: s.Start, End: s.End})
		out[i] = s
	}
	return out
}
