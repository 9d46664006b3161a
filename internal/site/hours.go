package site

import (
	"fmt"
	"time"

	"github.com/Breyner794/barber-shop/internal/pkg/clock"
)

// Validate checks weekday range, open < close and duplicate entries.
func (h OperatingHours) Validate() error {
	seen := make(map[time.Weekday]bool, len(h.Weekly))
	for _, d := range h.Weekly {
		if d.Weekday < time.Sunday || d.Weekday > time.Saturday {
			return ErrInvalidHours.WithField("hours.weekly.weekday")
		}
		if seen[d.Weekday] {
			return ErrInvalidHours.WithField(fmt.Sprintf("hours.weekly[%d]", d.Weekday))
		}
		seen[d.Weekday] = true
		if d.Open >= d.Close || d.Close > clock.EndOfDay {
			return ErrInvalidHours.WithField(fmt.Sprintf("hours.weekly[%d]", d.Weekday))
		}
	}

	dates := make(map[clock.Date]bool, len(h.Overrides))
	for _, o := range h.Overrides {
		if o.Date.IsZero() || dates[o.Date] {
			return ErrInvalidHours.WithField("hours.overrides.date")
		}
		dates[o.Date] = true
		if !o.Closed && (o.Open >= o.Close || o.Close > clock.EndOfDay) {
			return ErrInvalidHours.WithField("hours.overrides[" + o.Date.String() + "]")
		}
	}
	return nil
}

// WindowFor returns the opening window on date in loc. An override for the
// date wins over the weekly rule.
func (h OperatingHours) WindowFor(date clock.Date, loc *time.Location) (Window, bool) {
	for _, o := range h.Overrides {
		if o.Date != date {
			continue
		}
		if o.Closed {
			return Window{}, false
		}
		return Window{Open: o.Open.On(date, loc), Close: o.Close.On(date, loc)}, true
	}

	wd := date.Weekday()
	for _, d := range h.Weekly {
		if d.Weekday == wd {
			return Window{Open: d.Open.On(date, loc), Close: d.Close.On(date, loc)}, true
		}
	}
	return Window{}, false
}

// Location resolves the site's timezone, falling back when unset or unknown.
func (s *Site) Location(fallback *time.Location) *time.Location {
	if s.Timezone != "" {
		if loc, err := time.LoadLocation(s.Timezone); err == nil {
			return loc
		}
	}
	if fallback == nil {
		return time.UTC
	}
	return fallback
}

// WindowOn is WindowFor evaluated in the site's own timezone.
func (s *Site) WindowOn(date clock.Date, fallback *time.Location) (Window, bool) {
	return s.Hours.WindowFor(date, s.Location(fallback))
}
