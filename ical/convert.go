// Package ical converts parsed iCalendar data into engine event records.
package ical

import (
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"github.com/calgrid/calgrid/event"
)

const defaultTimedDuration = 30 * time.Minute

// FromCalendar converts every VEVENT of a parsed calendar into an engine
// event source. Components without a parseable start are skipped and
// reported on the returned error; the rest still convert.
func FromCalendar(cal *ical.Calendar, loc *time.Location) ([]event.Source, error) {
	if loc == nil {
		loc = time.Local
	}

	var sources []event.Source
	var errs []string
	for _, comp := range cal.Events() {
		src, err := fromComponent(comp.Component, loc)
		if err != nil {
			errs = append(errs, err.Error())
			continue
		}
		sources = append(sources, src)
	}

	if len(errs) > 0 {
		return sources, fmt.Errorf("skipped %d component(s): %s", len(errs), strings.Join(errs, "; "))
	}
	return sources, nil
}

func fromComponent(comp *ical.Component, loc *time.Location) (event.Source, error) {
	src := event.Source{Meta: make(map[string]any)}

	if uidProp := comp.Props.Get(ical.PropUID); uidProp != nil && uidProp.Value != "" {
		src.ID = uidProp.Value
	} else {
		src.ID = uuid.New().String()
	}

	if summaryProp := comp.Props.Get(ical.PropSummary); summaryProp != nil {
		src.Title = summaryProp.Value
	}

	startProp := comp.Props.Get(ical.PropDateTimeStart)
	if startProp == nil {
		return event.Source{}, fmt.Errorf("event %s: no DTSTART", src.ID)
	}
	start, err := convertEndpoint(startProp, loc)
	if err != nil {
		return event.Source{}, fmt.Errorf("event %s: DTSTART: %w", src.ID, err)
	}
	src.Start = start

	end, err := convertEnd(comp, src.Start, loc)
	if err != nil {
		return event.Source{}, fmt.Errorf("event %s: DTEND: %w", src.ID, err)
	}
	src.End = end

	if rruleProp := comp.Props.Get(ical.PropRecurrenceRule); rruleProp != nil && rruleProp.Value != "" {
		src.Recurrence = rruleProp.Value
	}

	for _, exdateProp := range comp.Props.Values(ical.PropExceptionDates) {
		src.ExcludeDates = append(src.ExcludeDates, parseExceptionDates(exdateProp, loc)...)
	}

	for _, name := range []string{ical.PropDescription, ical.PropLocation, ical.PropStatus} {
		if prop := comp.Props.Get(name); prop != nil && prop.Value != "" {
			src.Meta[strings.ToLower(name)] = prop.Value
		}
	}

	return src, nil
}

// convertEndpoint maps a DTSTART/DTEND property to the engine's endpoint
// shape, keeping date values as calendar dates and carrying the TZID
// through as the declared zone.
func convertEndpoint(prop *ical.Prop, loc *time.Location) (event.DateTime, error) {
	value := strings.TrimSpace(prop.Value)

	if isDateValue(prop) {
		t, err := time.Parse("20060102", value)
		if err != nil {
			return event.DateTime{}, fmt.Errorf("invalid date %q: %w", value, err)
		}
		return event.DateTime{Date: t.Format(time.DateOnly)}, nil
	}

	if strings.HasSuffix(value, "Z") {
		t, err := time.Parse("20060102T150405Z", value)
		if err != nil {
			return event.DateTime{}, fmt.Errorf("invalid UTC date-time %q: %w", value, err)
		}
		return event.DateTime{DateTime: t.UTC().Format(time.RFC3339)}, nil
	}

	zone := loc
	tzid := prop.Params.Get(ical.ParamTimezoneID)
	if tzid != "" {
		if named, err := time.LoadLocation(tzid); err == nil {
			zone = named
		} else {
			tzid = ""
		}
	}
	t, err := time.ParseInLocation("20060102T150405", value, zone)
	if err != nil {
		return event.DateTime{}, fmt.Errorf("invalid date-time %q: %w", value, err)
	}
	return event.DateTime{DateTime: t.Format(time.RFC3339), TimeZone: tzid}, nil
}

func convertEnd(comp *ical.Component, start event.DateTime, loc *time.Location) (event.DateTime, error) {
	if endProp := comp.Props.Get(ical.PropDateTimeEnd); endProp != nil {
		end, err := convertEndpoint(endProp, loc)
		if err != nil {
			return event.DateTime{}, err
		}
		// The schema's all-day end date is inclusive; iCalendar's is
		// exclusive.
		if end.IsAllDay() {
			t, err := time.Parse(time.DateOnly, end.Date)
			if err != nil {
				return event.DateTime{}, err
			}
			end.Date = t.AddDate(0, 0, -1).Format(time.DateOnly)
		}
		return end, nil
	}

	if start.IsAllDay() {
		return event.DateTime{Date: start.Date}, nil
	}

	duration := defaultTimedDuration
	if durationProp := comp.Props.Get(ical.PropDuration); durationProp != nil {
		if d, err := durationProp.Duration(); err == nil && d > 0 {
			duration = d
		}
	}
	startTime, err := start.Resolve(loc)
	if err != nil {
		return event.DateTime{}, err
	}
	return event.DateTime{
		DateTime: startTime.Add(duration).Format(time.RFC3339),
		TimeZone: start.TimeZone,
	}, nil
}

// parseExceptionDates expands one EXDATE property, possibly holding a
// comma-separated list, into RFC 3339 instants.
func parseExceptionDates(prop ical.Prop, loc *time.Location) []string {
	zone := loc
	if tzid := prop.Params.Get(ical.ParamTimezoneID); tzid != "" {
		if named, err := time.LoadLocation(tzid); err == nil {
			zone = named
		}
	}

	var exdates []string
	for _, raw := range strings.Split(prop.Value, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		var t time.Time
		var err error
		switch {
		case strings.HasSuffix(raw, "Z"):
			t, err = time.Parse("20060102T150405Z", raw)
		case isDateValue(&prop) || len(raw) == 8:
			t, err = time.ParseInLocation("20060102", raw, zone)
		default:
			t, err = time.ParseInLocation("20060102T150405", raw, zone)
		}
		if err != nil {
			continue
		}
		exdates = append(exdates, t.Format(time.RFC3339))
	}
	return exdates
}

func isDateValue(prop *ical.Prop) bool {
	if valueParam := prop.Params.Get(ical.ParamValue); strings.EqualFold(valueParam, "DATE") {
		return true
	}
	return len(strings.TrimSpace(prop.Value)) == 8
}
