package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestISOWeekday(t *testing.T) {
	// 2024-01-01 is a Monday.
	for i, expected := range []int{1, 2, 3, 4, 5, 6, 7} {
		day := time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, expected, ISOWeekday(day))
	}
}

func TestStartOfDay(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 2024-01-02 03:30 UTC is still 2024-01-01 in New York.
	at := time.Date(2024, 1, 2, 3, 30, 0, 0, time.UTC)
	day := StartOfDay(at, loc)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, loc), day)
}

func TestStartOfWeek(t *testing.T) {
	tests := []struct {
		name     string
		at       time.Time
		firstDay int
		expected time.Time
	}{
		{
			name:     "Monday-aligned week from a Thursday",
			at:       time.Date(2024, 1, 4, 15, 0, 0, 0, time.UTC),
			firstDay: 1,
			expected: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "Sunday-aligned week from a Thursday",
			at:       time.Date(2024, 1, 4, 15, 0, 0, 0, time.UTC),
			firstDay: 7,
			expected: time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "first day of week maps to itself",
			at:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			firstDay: 1,
			expected: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StartOfWeek(tt.at, tt.firstDay, time.UTC))
		})
	}
}

func TestInZoneKeepingLocal(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	at := time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)
	moved := InZoneKeepingLocal(at, ny)

	// Wall clock preserved, instant shifted by the zone offset.
	assert.Equal(t, 10, moved.Hour())
	assert.Equal(t, 30, moved.Minute())
	assert.Equal(t, ny, moved.Location())
	assert.Equal(t, 4*time.Hour, moved.Sub(at))
}

func TestLastDay(t *testing.T) {
	// Ending exactly at midnight does not spill into the next day.
	end := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), LastDay(end, time.UTC))

	end = time.Date(2024, 1, 2, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), LastDay(end, time.UTC))
}

func TestResolveLocation(t *testing.T) {
	loc, err := ResolveLocation("")
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	loc, err = ResolveLocation("local")
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	loc, err = ResolveLocation("Europe/Berlin")
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())

	_, err = ResolveLocation("Not/AZone")
	assert.Error(t, err)
}
