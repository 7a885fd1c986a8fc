package segment

import (
	"fmt"
	"time"

	"github.com/calgrid/calgrid/recurrence"
	"github.com/calgrid/calgrid/timeline"
)

// SliceByDay splits a timed occurrence into one slice per calendar day it
// touches in loc. Slices shorter than minMinutes are stretched to exactly
// minMinutes; bucket keys are unaffected by the stretch.
func SliceByDay(occ recurrence.Occurrence, loc *time.Location, minMinutes int) []Day {
	if loc == nil {
		loc = time.Local
	}
	if minMinutes < 1 {
		minMinutes = 1
	}

	start := occ.Start.In(loc)
	end := occ.End.In(loc)
	if !end.After(start) {
		end = start.Add(time.Duration(minMinutes) * time.Minute)
	}

	firstDay := timeline.StartOfDay(start, loc)
	lastDay := timeline.LastDay(end, loc)
	if lastDay.Before(firstDay) {
		lastDay = firstDay
	}
	multiDay := lastDay.After(firstDay)

	var segments []Day
	for day := firstDay; !day.After(lastDay); day = day.AddDate(0, 0, 1) {
		nextDay := day.AddDate(0, 0, 1)

		segStart := day
		startMinutes := 0
		if day.Equal(firstDay) {
			segStart = start
			startMinutes = timeline.MinuteOfDay(start, loc)
		}
		segEnd := end
		if nextDay.Before(end) {
			segEnd = nextDay
		}

		duration := int(segEnd.Sub(segStart) / time.Minute)
		if duration < minMinutes {
			duration = minMinutes
		}
		if duration > minutesPerDay {
			duration = minutesPerDay
		}

		id := occ.InstanceID
		if multiDay {
			id = fmt.Sprintf("%s_%d", occ.InstanceID, day.UnixMilli())
		}

		segments = append(segments, Day{
			ID:              id,
			Occurrence:      occ,
			StartUnix:       day.UnixMilli(),
			StartMinutes:    startMinutes,
			DurationMinutes: duration,
		})
	}
	return segments
}
