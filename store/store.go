// Package store orchestrates the engine over a sliding window around the
// visible date and exposes the bucketed layout maps to the rendering layer.
package store

import (
	"log/slog"
	"sync"
	"time"

	"github.com/calgrid/calgrid/config"
	"github.com/calgrid/calgrid/event"
	"github.com/calgrid/calgrid/layout"
	"github.com/calgrid/calgrid/recurrence"
	"github.com/calgrid/calgrid/timeline"
)

// Store holds the last-built index for one calendar session. It is an
// explicit owned instance; callers pass it by handle, there is no global.
// Rebuilds are synchronous and expected to be serialized by the single
// owning session; a newer rebuild simply supersedes an older one's output.
type Store struct {
	mu sync.RWMutex

	opts   config.Options
	engine *recurrence.Engine
	logger *slog.Logger

	events      []event.Source
	anchor      time.Time
	builtAnchor time.Time
	index       *Index

	listeners    map[int]func()
	nextListener int
}

// Option configures a Store.
type Option func(*Store)

// WithLogger routes the store's diagnostics to the given logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithEngine substitutes the recurrence engine, e.g. to share one cache
// across stores or disable caching in tests.
func WithEngine(engine *recurrence.Engine) Option {
	return func(s *Store) { s.engine = engine }
}

// New creates a store with the given options and an empty index.
func New(opts config.Options, storeOpts ...Option) (*Store, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if _, err := opts.Location(); err != nil {
		return nil, err
	}

	s := &Store{
		opts:      opts,
		anchor:    time.Now(),
		listeners: make(map[int]func()),
	}
	for _, o := range storeOpts {
		o(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.engine == nil {
		s.engine = recurrence.NewEngine()
	}
	return s, nil
}

// Close releases the store's engine resources.
func (s *Store) Close() { s.engine.Close() }

// SetEvents replaces the event list and rebuilds the index.
func (s *Store) SetEvents(events []event.Source) {
	s.mu.Lock()
	s.events = events
	s.rebuildLocked()
	s.mu.Unlock()
	s.notify()
}

// SetVisibleDate moves the visible anchor date. The index rebuilds only
// when the anchor drifts a full page or more from the last-built anchor.
func (s *Store) SetVisibleDate(anchor time.Time) {
	s.mu.Lock()
	s.anchor = anchor
	rebuilt := false
	if s.index == nil || s.anchorDrift(anchor) >= s.opts.OffsetDays {
		s.rebuildLocked()
		rebuilt = true
	}
	s.mu.Unlock()
	if rebuilt {
		s.notify()
	}
}

// Subscribe registers a rebuild listener and returns its cancel function.
// Listeners are expected to re-read the snapshot when notified.
func (s *Store) Subscribe(listener func()) (cancel func()) {
	s.mu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = listener
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Snapshot returns the last-built index, or nil before the first rebuild.
func (s *Store) Snapshot() *Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// EventsAt returns the timed layouts active at the given instant.
func (s *Store) EventsAt(at time.Time) []layout.PackedDay {
	ix := s.Snapshot()
	if ix == nil {
		return nil
	}
	return ix.EventsAt(at)
}

func (s *Store) anchorDrift(anchor time.Time) int {
	loc, _ := s.opts.Location()
	prev := s.builtAnchor.In(loc)
	next := anchor.In(loc)

	// Calendar-day distance. DST makes some local days 23 or 25 hours
	// long, so the dates are differenced on a fixed-length axis instead
	// of dividing elapsed hours.
	py, pm, pd := prev.Date()
	ny, nm, nd := next.Date()
	elapsed := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC).
		Sub(time.Date(py, pm, pd, 0, 0, 0, 0, time.UTC))

	days := int(elapsed.Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days
}

// rebuildLocked recomputes the window from the current anchor and replaces
// the whole index. No intermediate state is observable.
func (s *Store) rebuildLocked() {
	loc, _ := s.opts.Location()
	anchor := timeline.StartOfDay(s.anchor, loc)
	span := s.opts.PagesPerSide * s.opts.OffsetDays
	windowStart := anchor.AddDate(0, 0, -span)
	windowEnd := anchor.AddDate(0, 0, span)

	index, err := buildIndex(s.events, windowStart, windowEnd, s.opts, s.engine, s.logger)
	if index == nil {
		s.logger.Error("index rebuild failed", "error", err)
		return
	}
	if err != nil {
		// Per-event recurrence errors; the index still covers every other
		// event.
		s.logger.Warn("index rebuilt with event errors", "error", err)
	}
	s.index = index
	s.builtAnchor = anchor
}

func (s *Store) notify() {
	s.mu.RLock()
	listeners := make([]func(), 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.RUnlock()

	for _, l := range listeners {
		l()
	}
}
