// Package recurrence expands possibly-recurring event sources into concrete
// occurrences intersecting a query window.
package recurrence

import (
	"time"

	"github.com/teambition/rrule-go"

	"github.com/calgrid/calgrid/event"
	"github.com/calgrid/calgrid/timeline"
)

// Engine performs recurrence expansion. The zero-config engine is stateless;
// with caching enabled it memoizes expansion results per (source, window).
type Engine struct {
	cache *Cache
}

// NewEngine creates an engine with the default configuration.
func NewEngine() *Engine {
	return NewEngineWithConfig(DefaultEngineConfig)
}

// ExpandOccurrences returns the concrete occurrences of src whose [start,end)
// intersects [windowStart, windowEnd). Recurring sources are expanded with
// their rule anchored at the source's own declared start zone; loc anchors
// endpoints that declare no zone of their own.
func (e *Engine) ExpandOccurrences(src event.Source, windowStart, windowEnd time.Time, loc *time.Location) ([]Occurrence, error) {
	if loc == nil {
		loc = time.Local
	}

	start, err := src.Start.Resolve(loc)
	if err != nil {
		return nil, err
	}
	end, err := src.ResolveEnd(loc)
	if err != nil {
		return nil, err
	}
	allDay := src.Start.IsAllDay()

	if !src.IsRecurring() {
		if !overlaps(start, end, windowStart, windowEnd) {
			return nil, nil
		}
		return []Occurrence{{
			InstanceID: InstanceID(src.ID, start),
			Source:     src,
			Start:      start,
			End:        end,
			AllDay:     allDay,
		}}, nil
	}

	if e.cache != nil {
		if cached, ok := e.cache.Get(src, windowStart, windowEnd, loc); ok {
			return cached, nil
		}
	}

	occurrences, err := e.expandRecurring(src, start, end, allDay, windowStart, windowEnd, loc)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		e.cache.Set(src, windowStart, windowEnd, loc, occurrences)
	}
	return occurrences, nil
}

func (e *Engine) expandRecurring(src event.Source, start, end time.Time, allDay bool, windowStart, windowEnd time.Time, loc *time.Location) ([]Occurrence, error) {
	opt, err := rrule.StrToROption(src.Recurrence)
	if err != nil {
		return nil, &ParseError{EventID: src.ID, Rule: src.Recurrence, Err: err}
	}

	// The rule is anchored at the template start in the event's own zone, so
	// generated wall-clock times land in that zone directly.
	zone := src.Start.Location(loc)
	dtstart := start.In(zone)
	opt.Dtstart = dtstart

	rule, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, &ParseError{EventID: src.ID, Rule: src.Recurrence, Err: err}
	}

	set := rrule.Set{}
	set.RRule(rule)
	for _, raw := range src.ExcludeDates {
		ex, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, &event.Error{Kind: event.ErrBadValue, EventID: src.ID, Message: "invalid exclusion date", Err: err}
		}
		set.ExDate(ex.In(zone))
	}

	// The first-ever instance is looked up from the rule's own start, not
	// the windowed result, and ignores exclusions.
	firstEver := rule.After(dtstart, true)

	duration := end.Sub(start)
	// Window boundaries are inclusive for recurrence queries.
	starts := set.Between(windowStart.In(zone), windowEnd.In(zone), true)

	occurrences := make([]Occurrence, 0, len(starts))
	for _, t := range starts {
		occStart := timeline.InZoneKeepingLocal(t, zone)
		occEnd := occStart.Add(duration)

		parent := src
		parent.ExcludeDates = append(append([]string(nil), src.ExcludeDates...), occStart.UTC().Format(time.RFC3339))

		occurrences = append(occurrences, Occurrence{
			InstanceID: InstanceID(src.ID, occStart),
			Source:     src,
			Start:      occStart,
			End:        occEnd,
			AllDay:     allDay,
			First:      !firstEver.IsZero() && occStart.Equal(firstEver),
			Parent:     &parent,
		})
	}
	return occurrences, nil
}

// overlaps reports whether [aStart, aEnd) intersects [bStart, bEnd).
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
