// Package config holds the engine's recognized options and their loading.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/calgrid/calgrid/layout"
	"github.com/calgrid/calgrid/timeline"
)

// Options is the engine configuration recognized by the store and the
// packers.
type Options struct {
	// FirstDay is the ISO weekday that starts a week, Monday=1 .. Sunday=7.
	FirstDay int

	// HideWeekDays lists ISO weekdays removed from the visible range.
	HideWeekDays []int

	// TimeZone names the IANA zone of the calendar grid. Empty or "local"
	// means the process-local zone.
	TimeZone string

	// OverlapType selects the timed-event packing strategy.
	OverlapType layout.Mode

	// MinStartDifference is the overlap-mode row-join threshold in minutes.
	MinStartDifference int

	// MinRegularEventMinutes is the legibility floor for timed segments.
	MinRegularEventMinutes int

	// PagesPerSide is how many pages the sliding window extends on each
	// side of the visible anchor date.
	PagesPerSide int

	// OffsetDays is the length of one page in days.
	OffsetDays int

	// UseAllDayEvent routes timed events of 24h or more to the banner path.
	UseAllDayEvent bool
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		FirstDay:               1,
		OverlapType:            layout.ModeNoOverlap,
		MinStartDifference:     30,
		MinRegularEventMinutes: 1,
		PagesPerSide:           2,
		OffsetDays:             7,
		UseAllDayEvent:         true,
	}
}

// Validate checks option ranges that cannot be clamped silently.
func (o Options) Validate() error {
	if o.FirstDay < 1 || o.FirstDay > 7 {
		return fmt.Errorf("first day %d out of range 1..7", o.FirstDay)
	}
	for _, wd := range o.HideWeekDays {
		if wd < 1 || wd > 7 {
			return fmt.Errorf("hidden weekday %d out of range 1..7", wd)
		}
	}
	switch o.OverlapType {
	case layout.ModeNoOverlap, layout.ModeOverlap:
	default:
		return fmt.Errorf("unknown overlap type %q", o.OverlapType)
	}
	return nil
}

// Location resolves the configured zone.
func (o Options) Location() (*time.Location, error) {
	return timeline.ResolveLocation(o.TimeZone)
}

// Load reads options from CALGRID_-prefixed environment variables, applying
// defaults and clamping out-of-range numeric values. Programmatic
// construction remains the primary path; Load serves embedding processes.
func Load() (Options, error) {
	defaults := DefaultOptions()

	v := viper.New()
	v.SetEnvPrefix("CALGRID")
	v.AutomaticEnv()

	_ = v.BindEnv("first_day", "CALGRID_FIRST_DAY")
	_ = v.BindEnv("hide_week_days", "CALGRID_HIDE_WEEK_DAYS")
	_ = v.BindEnv("time_zone", "CALGRID_TIME_ZONE")
	_ = v.BindEnv("overlap_type", "CALGRID_OVERLAP_TYPE")
	_ = v.BindEnv("min_start_difference", "CALGRID_MIN_START_DIFFERENCE")
	_ = v.BindEnv("min_regular_event_minutes", "CALGRID_MIN_REGULAR_EVENT_MINUTES")
	_ = v.BindEnv("pages_per_side", "CALGRID_PAGES_PER_SIDE")
	_ = v.BindEnv("offset_days", "CALGRID_OFFSET_DAYS")
	_ = v.BindEnv("use_all_day_event", "CALGRID_USE_ALL_DAY_EVENT")

	v.SetDefault("first_day", defaults.FirstDay)
	v.SetDefault("hide_week_days", []int{})
	v.SetDefault("time_zone", defaults.TimeZone)
	v.SetDefault("overlap_type", string(defaults.OverlapType))
	v.SetDefault("min_start_difference", defaults.MinStartDifference)
	v.SetDefault("min_regular_event_minutes", defaults.MinRegularEventMinutes)
	v.SetDefault("pages_per_side", defaults.PagesPerSide)
	v.SetDefault("offset_days", defaults.OffsetDays)
	v.SetDefault("use_all_day_event", defaults.UseAllDayEvent)

	opts := Options{
		FirstDay:               v.GetInt("first_day"),
		HideWeekDays:           v.GetIntSlice("hide_week_days"),
		TimeZone:               v.GetString("time_zone"),
		OverlapType:            layout.Mode(v.GetString("overlap_type")),
		MinStartDifference:     v.GetInt("min_start_difference"),
		MinRegularEventMinutes: v.GetInt("min_regular_event_minutes"),
		PagesPerSide:           v.GetInt("pages_per_side"),
		OffsetDays:             v.GetInt("offset_days"),
		UseAllDayEvent:         v.GetBool("use_all_day_event"),
	}

	if opts.MinStartDifference < 1 {
		opts.MinStartDifference = defaults.MinStartDifference
	}
	if opts.MinRegularEventMinutes < 1 {
		opts.MinRegularEventMinutes = defaults.MinRegularEventMinutes
	}
	if opts.PagesPerSide < 1 {
		opts.PagesPerSide = defaults.PagesPerSide
	}
	if opts.OffsetDays < 1 {
		opts.OffsetDays = defaults.OffsetDays
	}

	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	if _, err := opts.Location(); err != nil {
		return Options{}, err
	}
	return opts, nil
}
