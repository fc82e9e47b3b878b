package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaySlots(t *testing.T) {
	day := time.Date(2025, time.March, 10, 15, 42, 7, 0, time.UTC)
	slots := DaySlots(day)

	require.Len(t, slots, SlotsPerDay)
	require.Len(t, slots, 12)

	first := time.Date(2025, time.March, 10, OpeningHour, 0, 0, 0, time.UTC)
	assert.True(t, slots[0].Start.Equal(first))
	assert.True(t, slots[len(slots)-1].End.Equal(
		time.Date(2025, time.March, 10, ClosingHour, 0, 0, 0, time.UTC)))

	for i, s := range slots {
		assert.Equal(t, SlotDuration, s.End.Sub(s.Start), "slot %d must be one hour", i)
		assert.True(t, s.Available, "slot %d starts out available", i)
		if i > 0 {
			assert.True(t, s.Start.Equal(slots[i-1].End), "slots must be contiguous")
		}
	}
}

func TestDaySlotsDeterministic(t *testing.T) {
	// Any instant within the same UTC date yields the same grid.
	morning := DaySlots(time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC))
	night := DaySlots(time.Date(2025, time.July, 1, 23, 59, 59, 0, time.UTC))
	assert.Equal(t, morning, night)

	// Non-UTC input is interpreted by its UTC date.
	loc := time.FixedZone("UTC-5", -5*3600)
	local := DaySlots(time.Date(2025, time.June, 30, 20, 0, 0, 0, loc)) // 01:00 July 1 UTC
	assert.Equal(t, morning, local)
}

func TestDayWindow(t *testing.T) {
	w := DayWindow(time.Date(2025, time.March, 10, 13, 0, 0, 0, time.UTC))
	assert.True(t, w.Start.Equal(time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)))
	assert.True(t, w.End.Equal(time.Date(2025, time.March, 11, 0, 0, 0, 0, time.UTC)))
}

func TestMarkAvailability(t *testing.T) {
	day := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	slots := DaySlots(day)

	// One confirmed booking [10:00,12:00) blocks exactly the 10:00 and
	// 11:00 slots.
	busy := []Interval{{
		Start: day.Add(10 * time.Hour),
		End:   day.Add(12 * time.Hour),
	}}
	marked := MarkAvailability(slots, busy)

	require.Len(t, marked, 12)
	for _, s := range marked {
		switch s.Start.Hour() {
		case 10, 11:
			assert.False(t, s.Available, "slot at %s should be blocked", s.Start)
		default:
			assert.True(t, s.Available, "slot at %s should be free", s.Start)
		}
	}
}

func TestMarkAvailabilityCrossMidnight(t *testing.T) {
	day := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	slots := DaySlots(day)

	// A booking that started the previous evening and runs into this day
	// must still block the slots it covers.
	busy := []Interval{{
		Start: day.Add(-2 * time.Hour),        // 22:00 the day before
		End:   day.Add(10*time.Hour + 30*time.Minute), // 10:30 today
	}}
	marked := MarkAvailability(slots, busy)

	assert.False(t, marked[0].Available)  // 09:00
	assert.False(t, marked[1].Available)  // 10:00, partially covered
	assert.True(t, marked[2].Available)   // 11:00
}

func TestMarkAvailabilityNoBookings(t *testing.T) {
	marked := MarkAvailability(DaySlots(time.Now()), nil)
	for _, s := range marked {
		assert.True(t, s.Available)
	}
}
