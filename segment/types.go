// Package segment splits concrete occurrences into per-day slices (timed
// events) and per-week slices (all-day banner events).
package segment

import (
	"github.com/calgrid/calgrid/recurrence"
)

const minutesPerDay = 24 * 60

// Day is one calendar-day slice of a timed occurrence.
type Day struct {
	// ID is the occurrence's instance ID, suffixed with the day-start
	// instant when the occurrence spans more than one day.
	ID string

	Occurrence recurrence.Occurrence

	// StartUnix is the slice's day-start instant in epoch milliseconds; it
	// is the bucket key and is never affected by the duration floor.
	StartUnix int64

	// StartMinutes is the minute of the local day where the slice begins
	// (0-1439); zero when the occurrence started on an earlier day.
	StartMinutes int

	// DurationMinutes is the visible length of the slice, floored to the
	// configured legibility minimum.
	DurationMinutes int
}

// IntervalStart returns the slice's displayed start instant in epoch
// milliseconds.
func (d Day) IntervalStart() int64 {
	return d.StartUnix + int64(d.StartMinutes)*60_000
}

// IntervalEnd returns the slice's displayed end instant in epoch
// milliseconds. It reflects the duration floor, matching what packing and
// rendering operate on.
func (d Day) IntervalEnd() int64 {
	return d.IntervalStart() + int64(d.DurationMinutes)*60_000
}

// Title returns the source title, used for deterministic ordering.
func (d Day) Title() string { return d.Occurrence.Source.Title }

// ResourceID returns the source's resource lane assignment.
func (d Day) ResourceID() string { return d.Occurrence.Source.ResourceID }

// Week is one calendar-week slice of an all-day occurrence.
type Week struct {
	// ID is the occurrence's instance ID, suffixed with the week-start
	// instant when the occurrence spans more than one week.
	ID string

	Occurrence recurrence.Occurrence

	// WeekStartUnix is the bucket key: the aligned week's first day-start
	// instant in epoch milliseconds.
	WeekStartUnix int64

	// StartUnix and EndUnix are the day-start instants of the first and
	// last day the slice covers, clipped to the week.
	StartUnix int64
	EndUnix   int64

	// VisibleDuration counts the non-hidden days the slice spans. Slices
	// covering only hidden days are dropped before reaching callers.
	VisibleDuration int
}

// Title returns the source title, used for deterministic ordering.
func (w Week) Title() string { return w.Occurrence.Source.Title }

// ResourceID returns the source's resource lane assignment.
func (w Week) ResourceID() string { return w.Occurrence.Source.ResourceID }
