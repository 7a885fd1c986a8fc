package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calgrid/calgrid/event"
)

func newTestEngine() *Engine {
	return NewEngineWithConfig(DisabledCacheConfig)
}

func weeklySource() event.Source {
	return event.Source{
		ID:         "meet",
		Title:      "Weekly sync",
		Start:      event.DateTime{DateTime: "2024-01-01T09:00:00Z"},
		End:        event.DateTime{DateTime: "2024-01-01T10:00:00Z"},
		Recurrence: "FREQ=WEEKLY;BYDAY=MO,WE",
	}
}

func TestExpandOccurrences_NonRecurring(t *testing.T) {
	engine := newTestEngine()

	src := event.Source{
		ID:    "solo",
		Start: event.DateTime{DateTime: "2024-01-01T09:00:00Z"},
		End:   event.DateTime{DateTime: "2024-01-01T10:00:00Z"},
	}

	tests := []struct {
		name        string
		windowStart time.Time
		windowEnd   time.Time
		expected    int
	}{
		{
			name:        "intersecting window",
			windowStart: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			windowEnd:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			expected:    1,
		},
		{
			name:        "window starting at event end",
			windowStart: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
			windowEnd:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			expected:    0,
		},
		{
			name:        "window before event",
			windowStart: time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC),
			windowEnd:   time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
			expected:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			occurrences, err := engine.ExpandOccurrences(src, tt.windowStart, tt.windowEnd, time.UTC)
			require.NoError(t, err)
			assert.Len(t, occurrences, tt.expected)
			if tt.expected == 1 {
				assert.Equal(t, InstanceID("solo", occurrences[0].Start), occurrences[0].InstanceID)
				assert.Nil(t, occurrences[0].Parent)
			}
		})
	}
}

func TestExpandOccurrences_WeeklyRoundTrip(t *testing.T) {
	engine := newTestEngine()

	// dtstart on a Monday, 14-day window: 2 Mondays + 2 Wednesdays.
	windowStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	occurrences, err := engine.ExpandOccurrences(weeklySource(), windowStart, windowEnd, time.UTC)
	require.NoError(t, err)
	require.Len(t, occurrences, 4)

	expected := []time.Time{
		time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC),
	}
	for i, occ := range occurrences {
		assert.True(t, occ.Start.Equal(expected[i]), "occurrence %d start", i)
		// Template duration preserved on every occurrence.
		assert.Equal(t, time.Hour, occ.Duration())
		assert.Equal(t, i == 0, occ.First, "occurrence %d first flag", i)
		require.NotNil(t, occ.Parent)
		assert.Contains(t, occ.Parent.ExcludeDates, occ.Start.UTC().Format(time.RFC3339))
	}
}

func TestExpandOccurrences_ExclusionRemovesExactlyOne(t *testing.T) {
	engine := newTestEngine()

	src := weeklySource()
	src.ExcludeDates = []string{"2024-01-03T09:00:00Z"}

	windowStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	occurrences, err := engine.ExpandOccurrences(src, windowStart, windowEnd, time.UTC)
	require.NoError(t, err)
	require.Len(t, occurrences, 3)

	excluded := time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC)
	for _, occ := range occurrences {
		assert.False(t, occ.Start.Equal(excluded))
	}
}

func TestExpandOccurrences_InstanceIDStable(t *testing.T) {
	engine := newTestEngine()

	windowStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	first, err := engine.ExpandOccurrences(weeklySource(), windowStart, windowEnd, time.UTC)
	require.NoError(t, err)
	second, err := engine.ExpandOccurrences(weeklySource(), windowStart, windowEnd, time.UTC)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].InstanceID, second[i].InstanceID)
	}
}

func TestExpandOccurrences_InvalidRule(t *testing.T) {
	engine := newTestEngine()

	src := weeklySource()
	src.Recurrence = "FREQ=BOGUS"

	_, err := engine.ExpandOccurrences(src,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		time.UTC)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "meet", parseErr.EventID)
}

func TestExpandOccurrences_ZoneAnchoring(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	engine := newTestEngine()

	// Daily 09:00 New York wall time; the expansion must stay at 09:00
	// local across occurrences.
	src := event.Source{
		ID:         "local-standup",
		Start:      event.DateTime{DateTime: "2024-01-01T09:00:00-05:00", TimeZone: "America/New_York"},
		End:        event.DateTime{DateTime: "2024-01-01T09:30:00-05:00", TimeZone: "America/New_York"},
		Recurrence: "FREQ=DAILY;COUNT=3",
	}

	occurrences, err := engine.ExpandOccurrences(src,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		time.UTC)
	require.NoError(t, err)
	require.Len(t, occurrences, 3)

	for _, occ := range occurrences {
		local := occ.Start.In(ny)
		assert.Equal(t, 9, local.Hour())
		assert.Equal(t, 0, local.Minute())
		assert.Equal(t, 30*time.Minute, occ.Duration())
	}
}

func TestExpandOccurrences_CachedResultsMatch(t *testing.T) {
	engine := NewEngineWithConfig(EngineConfig{
		CacheEnabled: true,
		CacheConfig:  DefaultCacheConfig,
	})
	defer engine.Close()

	windowStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	first, err := engine.ExpandOccurrences(weeklySource(), windowStart, windowEnd, time.UTC)
	require.NoError(t, err)
	second, err := engine.ExpandOccurrences(weeklySource(), windowStart, windowEnd, time.UTC)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
