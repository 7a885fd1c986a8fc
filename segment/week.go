package segment

import (
	"fmt"
	"time"

	"github.com/calgrid/calgrid/recurrence"
	"github.com/calgrid/calgrid/timeline"
)

// SliceByWeek splits an all-day occurrence into one slice per firstDay-
// aligned calendar week it touches in loc. EndUnix is clipped to the week
// boundary; a slice whose every day is hidden is dropped.
func SliceByWeek(occ recurrence.Occurrence, loc *time.Location, firstDay int, hideWeekDays []int) []Week {
	if loc == nil {
		loc = time.Local
	}
	hidden := make(map[int]bool, len(hideWeekDays))
	for _, wd := range hideWeekDays {
		hidden[wd] = true
	}

	startDay := timeline.StartOfDay(occ.Start, loc)
	endDay := timeline.LastDay(occ.End, loc)
	if endDay.Before(startDay) {
		endDay = startDay
	}

	firstWeek := timeline.StartOfWeek(startDay, firstDay, loc)
	lastWeek := timeline.StartOfWeek(endDay, firstDay, loc)
	multiWeek := lastWeek.After(firstWeek)

	var segments []Week
	for week := firstWeek; !week.After(lastWeek); week = week.AddDate(0, 0, 7) {
		weekLastDay := week.AddDate(0, 0, 6)

		segStart := startDay
		if segStart.Before(week) {
			segStart = week
		}
		segEnd := endDay
		if segEnd.After(weekLastDay) {
			segEnd = weekLastDay
		}

		visible := 0
		for d := segStart; !d.After(segEnd); d = d.AddDate(0, 0, 1) {
			if !hidden[timeline.ISOWeekday(d)] {
				visible++
			}
		}
		if visible == 0 {
			continue
		}

		id := occ.InstanceID
		if multiWeek {
			id = fmt.Sprintf("%s_%d", occ.InstanceID, week.UnixMilli())
		}

		segments = append(segments, Week{
			ID:              id,
			Occurrence:      occ,
			WeekStartUnix:   week.UnixMilli(),
			StartUnix:       segStart.UnixMilli(),
			EndUnix:         segEnd.UnixMilli(),
			VisibleDuration: visible,
		})
	}
	return segments
}
