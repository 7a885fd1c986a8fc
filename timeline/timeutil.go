package timeline

import (
	"fmt"
	"strings"
	"time"
)

// ISOWeekday returns the ISO-8601 weekday of t: Monday=1 .. Sunday=7.
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

// StartOfWeek returns midnight of the first day of the firstDay-aligned week
// containing t. firstDay is an ISO weekday (Monday=1 .. Sunday=7).
func StartOfWeek(t time.Time, firstDay int, loc *time.Location) time.Time {
	day := StartOfDay(t, loc)
	shift := (ISOWeekday(day) - firstDay + 7) % 7
	return day.AddDate(0, 0, -shift)
}

// InZoneKeepingLocal reinterprets t's wall-clock fields in loc without
// shifting them. This changes the absolute instant; it is NOT the same as
// t.In(loc), which preserves the instant and shifts the clock.
func InZoneKeepingLocal(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}

// MinuteOfDay returns the wall-clock minute of day of t in loc (0-1439).
func MinuteOfDay(t time.Time, loc *time.Location) int {
	lt := t.In(loc)
	return lt.Hour()*60 + lt.Minute()
}

// LastDay returns midnight of the last calendar day covered by the half-open
// interval ending at end. An event ending exactly at midnight does not spill
// into the next day.
func LastDay(end time.Time, loc *time.Location) time.Time {
	day := StartOfDay(end, loc)
	if end.In(loc).Equal(day) {
		day = day.AddDate(0, 0, -1)
	}
	return day
}

// ResolveLocation maps an IANA zone name to a location. Empty string and
// "local" resolve to the process-local zone.
func ResolveLocation(name string) (*time.Location, error) {
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("resolve time zone %q: %w", name, err)
	}
	return loc, nil
}
