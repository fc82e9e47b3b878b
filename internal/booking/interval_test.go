package booking

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(t *testing.T, hour, min int) time.Time {
	t.Helper()
	return time.Date(2025, time.March, 10, hour, min, 0, 0, time.UTC)
}

func TestNewInterval(t *testing.T) {
	start := at(t, 10, 0)

	t.Run("valid range", func(t *testing.T) {
		iv, err := NewInterval(start, start.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, start, iv.Start)
		assert.Equal(t, start.Add(time.Hour), iv.End)
	})

	t.Run("end equal to start rejected", func(t *testing.T) {
		_, err := NewInterval(start, start)
		assert.ErrorIs(t, err, ErrInvalidInterval)
	})

	t.Run("end before start rejected", func(t *testing.T) {
		_, err := NewInterval(start, start.Add(-time.Minute))
		assert.ErrorIs(t, err, ErrInvalidInterval)
	})

	t.Run("normalizes to UTC", func(t *testing.T) {
		loc := time.FixedZone("UTC+3", 3*3600)
		iv, err := NewInterval(start.In(loc), start.Add(time.Hour).In(loc))
		require.NoError(t, err)
		assert.Equal(t, time.UTC, iv.Start.Location())
		assert.True(t, iv.Start.Equal(start))
	})
}

func TestIntervalOverlaps(t *testing.T) {
	base := Interval{Start: at(t, 10, 0), End: at(t, 12, 0)}

	tests := []struct {
		name string
		iv   Interval
		want bool
	}{
		{"identical", Interval{at(t, 10, 0), at(t, 12, 0)}, true},
		{"contained", Interval{at(t, 10, 30), at(t, 11, 30)}, true},
		{"containing", Interval{at(t, 9, 0), at(t, 13, 0)}, true},
		{"overlap at front", Interval{at(t, 9, 0), at(t, 10, 30)}, true},
		{"overlap at back", Interval{at(t, 11, 0), at(t, 13, 0)}, true},
		{"touching end is not overlap", Interval{at(t, 12, 0), at(t, 13, 0)}, false},
		{"touching start is not overlap", Interval{at(t, 9, 0), at(t, 10, 0)}, false},
		{"fully before", Interval{at(t, 7, 0), at(t, 8, 0)}, false},
		{"fully after", Interval{at(t, 13, 0), at(t, 14, 0)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Overlaps(tt.iv))
			assert.Equal(t, tt.want, tt.iv.Overlaps(base), "overlap must be symmetric")
		})
	}
}

// Scenario from the booking flow: desk-1 holds a confirmed [10:00,12:00).
// A request for [11:00,13:00) conflicts; [12:00,13:00) does not.
func TestConflictsWith(t *testing.T) {
	confirmed := []Interval{{Start: at(t, 10, 0), End: at(t, 12, 0)}}

	assert.True(t, ConflictsWith(confirmed, Interval{Start: at(t, 11, 0), End: at(t, 13, 0)}))
	assert.False(t, ConflictsWith(confirmed, Interval{Start: at(t, 12, 0), End: at(t, 13, 0)}))
	assert.False(t, ConflictsWith(nil, Interval{Start: at(t, 11, 0), End: at(t, 13, 0)}))
}

// Property check for the no-overlap invariant: feed random intervals
// through the sequential accept-if-no-conflict rule and verify that no
// accepted pair overlaps.
func TestConflictsWithProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	day := at(t, 0, 0)

	for round := 0; round < 50; round++ {
		var accepted []Interval
		for i := 0; i < 40; i++ {
			start := day.Add(time.Duration(rng.Intn(23)) * time.Hour)
			end := start.Add(time.Duration(1+rng.Intn(4)) * time.Hour)
			cand := Interval{Start: start, End: end}
			if !ConflictsWith(accepted, cand) {
				accepted = append(accepted, cand)
			}
		}
		for i := range accepted {
			for j := i + 1; j < len(accepted); j++ {
				require.False(t, accepted[i].Overlaps(accepted[j]),
					"accepted intervals %v and %v overlap", accepted[i], accepted[j])
			}
		}
	}
}
