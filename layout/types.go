// Package layout assigns deterministic geometry to the segments bucketed
// into one day (timed events) or one week (banner events).
package layout

import (
	"github.com/calgrid/calgrid/segment"
)

// Mode selects the overlap-resolution strategy for timed events.
type Mode string

const (
	// ModeNoOverlap packs events into discrete columns so every event is
	// fully visible. Suits sparse day-view calendars.
	ModeNoOverlap Mode = "no-overlap"

	// ModeOverlap cascades overlapping events with fractional widths,
	// trading full visibility for fewer thin columns. Suits dense
	// calendars.
	ModeOverlap Mode = "overlap"
)

// PackedDay wraps a day segment with its geometric assignment. Which fields
// are meaningful depends on the mode the bucket was packed with.
type PackedDay struct {
	segment.Day

	// No-overlap mode.
	ColumnIndex  int
	ColumnSpan   int
	TotalColumns int

	// Overlap mode, both in 0-100.
	WidthPercent   float64
	XOffsetPercent float64

	// ResourceIndex identifies the resource lane the segment was packed in
	// when lanes are active, zero otherwise.
	ResourceIndex int
}

// PackedBanner wraps a week segment with its banner-row assignment, relative
// to the week's visible-day index table.
type PackedBanner struct {
	segment.Week

	RowIndex      int
	StartDayIndex int
	ColumnSpan    int

	ResourceIndex int
}
