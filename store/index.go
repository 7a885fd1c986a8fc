package store

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/calgrid/calgrid/config"
	"github.com/calgrid/calgrid/event"
	"github.com/calgrid/calgrid/layout"
	"github.com/calgrid/calgrid/recurrence"
	"github.com/calgrid/calgrid/segment"
	"github.com/calgrid/calgrid/timeline"
)

// Index is the queryable engine output: packed layouts bucketed by
// start-of-day and start-of-week instants, in epoch milliseconds in the
// configured zone. Renderers depend on these keys bit-exactly.
type Index struct {
	RegularByDay map[int64][]layout.PackedDay
	AllDayByWeek map[int64][]layout.PackedBanner
	AllDayByDay  map[int64][]layout.PackedBanner

	// CountByDay and CountByWeek tally banner segments for the caller's
	// "+N more" overflow affordance.
	CountByDay  map[int64]int
	CountByWeek map[int64]int

	WindowStart time.Time
	WindowEnd   time.Time

	loc *time.Location
}

// EventsAt returns the timed layouts active at the given instant.
func (ix *Index) EventsAt(at time.Time) []layout.PackedDay {
	day := timeline.StartOfDay(at, ix.loc).UnixMilli()
	atMillis := at.UnixMilli()

	var active []layout.PackedDay
	for _, packed := range ix.RegularByDay[day] {
		if packed.IntervalStart() <= atMillis && atMillis < packed.IntervalEnd() {
			active = append(active, packed)
		}
	}
	return active
}

// BuildEventIndex runs the full pipeline over one window: filter, expand,
// slice, bucket and pack. Per-event failures are reported on the returned
// joined error while the remaining events still build; an invalid window or
// configuration fails the whole build.
func BuildEventIndex(events []event.Source, windowStart, windowEnd time.Time, opts config.Options) (*Index, error) {
	engine := recurrence.NewEngineWithConfig(recurrence.DisabledCacheConfig)
	return buildIndex(events, windowStart, windowEnd, opts, engine, slog.Default())
}

func buildIndex(events []event.Source, windowStart, windowEnd time.Time, opts config.Options, engine *recurrence.Engine, logger *slog.Logger) (*Index, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	loc, err := opts.Location()
	if err != nil {
		return nil, err
	}
	if !windowEnd.After(windowStart) {
		return nil, fmt.Errorf("window end %s not after window start %s", windowEnd, windowStart)
	}

	ix := &Index{
		RegularByDay: make(map[int64][]layout.PackedDay),
		AllDayByWeek: make(map[int64][]layout.PackedBanner),
		AllDayByDay:  make(map[int64][]layout.PackedBanner),
		CountByDay:   make(map[int64]int),
		CountByWeek:  make(map[int64]int),
		WindowStart:  windowStart,
		WindowEnd:    windowEnd,
		loc:          loc,
	}

	daySegments := make(map[int64][]segment.Day)
	weekSegments := make(map[int64][]segment.Week)
	var eventErrs []error

	for _, src := range events {
		classified := Classify(src, loc, opts)
		if classified.IsError() {
			logger.Warn("skipping invalid event", "event", src.ID, "error", classified.Error())
			continue
		}
		c := classified.MustGet()

		occurrences, err := engine.ExpandOccurrences(c.Source, windowStart, windowEnd, loc)
		if err != nil {
			var parseErr *recurrence.ParseError
			if errors.As(err, &parseErr) {
				eventErrs = append(eventErrs, err)
				logger.Warn("skipping event with invalid recurrence", "event", src.ID, "error", err)
				continue
			}
			logger.Warn("skipping unexpandable event", "event", src.ID, "error", err)
			continue
		}

		for _, occ := range occurrences {
			if c.AllDay {
				for _, w := range segment.SliceByWeek(occ, loc, opts.FirstDay, opts.HideWeekDays) {
					weekSegments[w.WeekStartUnix] = append(weekSegments[w.WeekStartUnix], w)
				}
			} else {
				for _, d := range segment.SliceByDay(occ, loc, opts.MinRegularEventMinutes) {
					daySegments[d.StartUnix] = append(daySegments[d.StartUnix], d)
				}
			}
		}
	}

	for day, segs := range daySegments {
		ix.RegularByDay[day] = layout.PackDays(segs, opts.OverlapType, opts.MinStartDifference)
	}

	hidden := make(map[int]bool, len(opts.HideWeekDays))
	for _, wd := range opts.HideWeekDays {
		hidden[wd] = true
	}

	for week, segs := range weekSegments {
		packed := layout.PackBanners(segs, loc, opts.HideWeekDays)
		ix.AllDayByWeek[week] = packed
		ix.CountByWeek[week] = len(packed)

		for _, banner := range packed {
			start := time.UnixMilli(banner.StartUnix).In(loc)
			for d := start; d.UnixMilli() <= banner.EndUnix; d = d.AddDate(0, 0, 1) {
				if hidden[timeline.ISOWeekday(d)] {
					continue
				}
				day := d.UnixMilli()
				ix.AllDayByDay[day] = append(ix.AllDayByDay[day], banner)
				ix.CountByDay[day]++
			}
		}
	}

	return ix, errors.Join(eventErrs...)
}
