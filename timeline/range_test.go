package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareRange_SingleDay(t *testing.T) {
	min := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) // Monday
	max := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC) // Sunday

	result, err := PrepareRange(min, max, 1, nil, time.UTC, true)
	require.NoError(t, err)

	assert.Len(t, result.VisibleDates, 7)
	assert.Equal(t, 7, result.PageCount)
	assert.Zero(t, result.LeadingTrimDays)
	assert.Zero(t, result.TrailingTrimDays)
	assert.Equal(t, min.UnixMilli(), result.VisibleDates[0])
	assert.Equal(t, max.UnixMilli(), result.VisibleDates[6])

	for i, unix := range result.VisibleDates {
		assert.Equal(t, i, result.IndexByDate[unix])
	}
}

func TestPrepareRange_MultiDayAlignsWeeks(t *testing.T) {
	min := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC) // Wednesday
	max := time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC) // Tuesday

	result, err := PrepareRange(min, max, 1, nil, time.UTC, false)
	require.NoError(t, err)

	// Expanded outward to Mon Jan 1 .. Sun Jan 14.
	assert.Len(t, result.VisibleDates, 14)
	assert.Equal(t, 2, result.PageCount)
	assert.Equal(t, 2, result.LeadingTrimDays)
	assert.Equal(t, 5, result.TrailingTrimDays)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli(), result.VisibleDates[0])
	assert.Equal(t, min.UnixMilli(), result.OriginalMinUnix)
	assert.Equal(t, max.UnixMilli(), result.OriginalMaxUnix)
}

func TestPrepareRange_HiddenWeekdays(t *testing.T) {
	min := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	max := time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC)

	result, err := PrepareRange(min, max, 1, []int{6, 7}, time.UTC, false)
	require.NoError(t, err)

	// Two full weeks minus the weekends.
	assert.Len(t, result.VisibleDates, 10)
	// Hidden days still consume calendar positions for week alignment.
	assert.Equal(t, 2, result.PageCount)

	for _, unix := range result.VisibleDates {
		wd := ISOWeekday(time.UnixMilli(unix).In(time.UTC))
		assert.Less(t, wd, 6)
	}
}

func TestPrepareRange_SingleDayHiddenPages(t *testing.T) {
	min := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	max := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)

	result, err := PrepareRange(min, max, 1, []int{6, 7}, time.UTC, true)
	require.NoError(t, err)

	// In single-day mode every visible day is its own page.
	assert.Len(t, result.VisibleDates, 5)
	assert.Equal(t, 5, result.PageCount)
}

func TestPrepareRange_Errors(t *testing.T) {
	min := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	max := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := PrepareRange(min, max, 1, nil, time.UTC, true)
	assert.Error(t, err)

	_, err = PrepareRange(max, min, 0, nil, time.UTC, true)
	assert.Error(t, err)

	// Same calendar day is a valid one-day range.
	result, err := PrepareRange(min, min.Add(5*time.Hour), 1, nil, time.UTC, true)
	require.NoError(t, err)
	assert.Len(t, result.VisibleDates, 1)
}
