// Package event defines the host-owned calendar event records consumed by
// the engine.
package event

import (
	"fmt"
	"time"

	"github.com/calgrid/calgrid/timeline"
)

// ErrorKind classifies event validation failures.
type ErrorKind string

const (
	ErrMissingTime    ErrorKind = "missing_time"
	ErrMixedTime      ErrorKind = "mixed_time"
	ErrEndBeforeStart ErrorKind = "end_before_start"
	ErrBadValue       ErrorKind = "bad_value"
)

// Error represents a per-event validation error.
type Error struct {
	Kind    ErrorKind
	EventID string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("event %s: %s: %s: %v", e.EventID, e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("event %s: %s: %s", e.EventID, e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// DateTime is one endpoint of an event: either an all-day calendar date or
// an instant with an optional IANA zone. Exactly one of Date and DateTime
// must be set.
type DateTime struct {
	// Date is a calendar date "2006-01-02" for all-day events.
	Date string

	// DateTime is an RFC 3339 instant for timed events.
	DateTime string

	// TimeZone optionally names the IANA zone the endpoint is anchored to.
	TimeZone string
}

// IsAllDay reports whether the endpoint is a calendar date.
func (dt DateTime) IsAllDay() bool { return dt.Date != "" }

// IsZero reports whether neither form is set.
func (dt DateTime) IsZero() bool { return dt.Date == "" && dt.DateTime == "" }

// Location resolves the endpoint's declared zone, falling back to fallback
// when none is declared or the name is unknown.
func (dt DateTime) Location(fallback *time.Location) *time.Location {
	if dt.TimeZone == "" {
		return fallback
	}
	loc, err := time.LoadLocation(dt.TimeZone)
	if err != nil {
		return fallback
	}
	return loc
}

// Resolve converts the endpoint to an absolute instant. All-day dates
// resolve to local midnight in fallback; timed endpoints are expressed in
// their declared zone when one is set.
func (dt DateTime) Resolve(fallback *time.Location) (time.Time, error) {
	switch {
	case dt.Date != "":
		t, err := time.ParseInLocation(time.DateOnly, dt.Date, fallback)
		if err != nil {
			return time.Time{}, &Error{Kind: ErrBadValue, Message: "invalid date", Err: err}
		}
		return t, nil
	case dt.DateTime != "":
		t, err := time.Parse(time.RFC3339, dt.DateTime)
		if err != nil {
			return time.Time{}, &Error{Kind: ErrBadValue, Message: "invalid date-time", Err: err}
		}
		return t.In(dt.Location(fallback)), nil
	default:
		return time.Time{}, &Error{Kind: ErrMissingTime, Message: "neither date nor dateTime set"}
	}
}

// Source is one host-owned event record. The engine never mutates it.
type Source struct {
	ID    string
	Title string

	Start DateTime
	End   DateTime

	// Recurrence is an RFC 5545 RRULE body, e.g. "FREQ=WEEKLY;BYDAY=MO,WE".
	Recurrence string

	// ExcludeDates lists RFC 3339 instants whose occurrences are skipped.
	ExcludeDates []string

	// ResourceID assigns the event to a resource lane.
	ResourceID string

	// Meta carries host styling and metadata through the engine untouched.
	Meta map[string]any
}

// IsRecurring reports whether the source declares a recurrence rule.
func (s Source) IsRecurring() bool { return s.Recurrence != "" }

// Validate checks the structural invariants of the record: both endpoints
// present and of the same kind, and end after start for non-recurring
// events. All-day end dates are inclusive, so an all-day event may start and
// end on the same date.
func (s Source) Validate(loc *time.Location) error {
	if s.Start.IsZero() || s.End.IsZero() {
		return &Error{Kind: ErrMissingTime, EventID: s.ID, Message: "start and end must both carry a date or dateTime"}
	}
	if s.Start.IsAllDay() != s.End.IsAllDay() {
		return &Error{Kind: ErrMixedTime, EventID: s.ID, Message: "start and end must both be dates or both be dateTimes"}
	}
	start, err := s.Start.Resolve(loc)
	if err != nil {
		return tagged(err, s.ID)
	}
	end, err := s.ResolveEnd(loc)
	if err != nil {
		return tagged(err, s.ID)
	}
	if !s.IsRecurring() && !end.After(start) {
		return &Error{Kind: ErrEndBeforeStart, EventID: s.ID, Message: "end is not after start"}
	}
	return nil
}

// ResolveEnd resolves the end endpoint as an exclusive instant. All-day end
// dates are inclusive in the input schema, so a date end resolves to
// midnight of the following day.
func (s Source) ResolveEnd(loc *time.Location) (time.Time, error) {
	end, err := s.End.Resolve(loc)
	if err != nil {
		return time.Time{}, err
	}
	if s.End.IsAllDay() {
		end = timeline.StartOfDay(end, loc).AddDate(0, 0, 1)
	}
	return end, nil
}

func tagged(err error, id string) error {
	if e, ok := err.(*Error); ok && e.EventID == "" {
		e.EventID = id
	}
	return err
}
