package store

import (
	"time"

	"github.com/samber/mo"

	"github.com/calgrid/calgrid/config"
	"github.com/calgrid/calgrid/event"
)

// Classified is a validated event routed to the timed or all-day path.
type Classified struct {
	Source event.Source
	AllDay bool
}

// FilterEvents validates and classifies every candidate, keyed by event ID.
// A failed event carries its validation error instead of a classification;
// one bad event never aborts the whole rebuild.
func FilterEvents(events []event.Source, loc *time.Location, opts config.Options) map[string]mo.Result[Classified] {
	results := make(map[string]mo.Result[Classified], len(events))
	for _, src := range events {
		results[src.ID] = Classify(src, loc, opts)
	}
	return results
}

// Classify validates one event's shape and decides its rendering path:
// date-only events are always banners; timed events become banners when
// they run 24h or more and UseAllDayEvent is set.
func Classify(src event.Source, loc *time.Location, opts config.Options) mo.Result[Classified] {
	if err := src.Validate(loc); err != nil {
		return mo.Err[Classified](err)
	}

	if src.Start.IsAllDay() {
		return mo.Ok(Classified{Source: src, AllDay: true})
	}

	allDay := false
	if opts.UseAllDayEvent {
		start, err := src.Start.Resolve(loc)
		if err != nil {
			return mo.Err[Classified](err)
		}
		end, err := src.ResolveEnd(loc)
		if err != nil {
			return mo.Err[Classified](err)
		}
		allDay = end.Sub(start) >= 24*time.Hour
	}
	return mo.Ok(Classified{Source: src, AllDay: allDay})
}
