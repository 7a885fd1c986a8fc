package recurrence

import (
	"fmt"
	"time"

	"github.com/calgrid/calgrid/event"
)

// Occurrence is one concrete materialized instance of an event source,
// either the source itself or a single recurrence expansion result.
type Occurrence struct {
	// InstanceID is stable across recomputations for the same inputs; list
	// diffing in the rendering layer depends on it.
	InstanceID string

	Source event.Source

	Start time.Time
	End   time.Time

	AllDay bool

	// First marks the series' first-ever occurrence, determined against the
	// rule's own start rather than the queried window.
	First bool

	// Parent is the reconstructed series source with this instance added to
	// its exclusion set; editing a single instance amounts to publishing the
	// parent plus a standalone event. Nil for non-recurring occurrences.
	Parent *event.Source
}

// Duration returns the occurrence's elapsed time.
func (o Occurrence) Duration() time.Duration { return o.End.Sub(o.Start) }

// InstanceID derives the stable per-instance identity of an occurrence from
// its source ID and UTC start instant.
func InstanceID(sourceID string, start time.Time) string {
	return fmt.Sprintf("%s_%d", sourceID, start.UTC().UnixMilli())
}

// ParseError reports an unparseable recurrence rule. Malformed recurrence is
// a caller bug and is surfaced rather than silently dropped.
type ParseError struct {
	EventID string
	Rule    string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("event %s: invalid recurrence rule %q: %v", e.EventID, e.Rule, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
