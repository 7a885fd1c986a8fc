package timeline

import (
	"fmt"
	"time"
)

const daysPerWeek = 7

// RangeResult is the navigable calendar range produced by PrepareRange.
type RangeResult struct {
	// VisibleDates holds the start-of-day instant of every visible day, in
	// epoch milliseconds in the prepared zone, ascending.
	VisibleDates []int64

	// IndexByDate maps a day-start instant back to its position in
	// VisibleDates.
	IndexByDate map[int64]int

	// PageCount is the number of navigable pages: one per visible day in
	// single-day mode, one per aligned week otherwise.
	PageCount int

	// OriginalMinUnix and OriginalMaxUnix are the normalized input bounds.
	OriginalMinUnix int64
	OriginalMaxUnix int64

	// LeadingTrimDays and TrailingTrimDays count the week-alignment padding
	// days that fall outside the original bounds.
	LeadingTrimDays  int
	TrailingTrimDays int
}

// PrepareRange builds the ordered array of visible calendar days between
// minDate and maxDate. Hidden weekdays (ISO numbering, Monday=1) are skipped
// from the visible array but still occupy calendar positions for week
// alignment. In multi-day mode the range is expanded outward to full
// firstDay-aligned weeks.
func PrepareRange(minDate, maxDate time.Time, firstDay int, hideWeekDays []int, loc *time.Location, singleDay bool) (RangeResult, error) {
	if loc == nil {
		loc = time.Local
	}
	if firstDay < 1 || firstDay > 7 {
		return RangeResult{}, fmt.Errorf("first day %d out of range 1..7", firstDay)
	}

	min := StartOfDay(minDate, loc)
	max := StartOfDay(maxDate, loc)
	if min.After(max) {
		return RangeResult{}, fmt.Errorf("min date %s after max date %s", min.Format(time.DateOnly), max.Format(time.DateOnly))
	}

	hidden := hiddenSet(hideWeekDays)

	result := RangeResult{
		IndexByDate:     make(map[int64]int),
		OriginalMinUnix: min.UnixMilli(),
		OriginalMaxUnix: max.UnixMilli(),
	}

	from, to := min, max
	if !singleDay {
		from = StartOfWeek(min, firstDay, loc)
		to = StartOfWeek(max, firstDay, loc).AddDate(0, 0, daysPerWeek-1)
	}

	totalDays := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		totalDays++
		if d.Before(min) {
			result.LeadingTrimDays++
		} else if d.After(max) {
			result.TrailingTrimDays++
		}
		if hidden[ISOWeekday(d)] {
			continue
		}
		unix := d.UnixMilli()
		result.IndexByDate[unix] = len(result.VisibleDates)
		result.VisibleDates = append(result.VisibleDates, unix)
	}

	if singleDay {
		result.PageCount = len(result.VisibleDates)
	} else {
		result.PageCount = totalDays / daysPerWeek
	}

	return result, nil
}

func hiddenSet(hideWeekDays []int) map[int]bool {
	hidden := make(map[int]bool, len(hideWeekDays))
	for _, wd := range hideWeekDays {
		if wd >= 1 && wd <= 7 {
			hidden[wd] = true
		}
	}
	return hidden
}
