// Package availability computes the bookable slots of a barber for a service
// on a date, given the site's hours and the barber's active reservations.
package availability

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Breyner794/barber-shop/internal/barber"
	"github.com/Breyner794/barber-shop/internal/catalog"
	"github.com/Breyner794/barber-shop/internal/offering"
	"github.com/Breyner794/barber-shop/internal/pkg/apperror"
	"github.com/Breyner794/barber-shop/internal/pkg/clock"
	"github.com/Breyner794/barber-shop/internal/site"
)

const MaxDays = 31

var (
	ErrDateInPast     = apperror.New(http.StatusBadRequest, apperror.KindInvalidInput, "date is before today").WithField("date")
	ErrInvalidService = apperror.New(http.StatusBadRequest, apperror.KindInvalidInput, "service has no bookable duration").WithField("service")
	ErrInvalidDays    = apperror.New(http.StatusBadRequest, apperror.KindInvalidInput, "days must be between 1 and 31").WithField("days")
)

// Slot is a bookable start for a resource.
type Slot struct {
	ResourceID string
	Start      time.Time
	End        time.Time
}

// Day summarises the free slots on one date.
type Day struct {
	Date  clock.Date
	Slots int
}

// BookedSource lists the intervals held by active reservations of a resource
// that intersect [from, to).
type BookedSource interface {
	ActiveIntervals(ctx context.Context, resourceID string, from, to time.Time) ([]Interval, error)
}

// Config tunes an Engine.
type Config struct {
	Granularity     time.Duration  // step between candidate starts
	DefaultLocation *time.Location // for sites without a timezone
}

type Engine struct {
	catalog     catalog.Store
	booked      BookedSource
	granularity time.Duration
	defaultLoc  *time.Location
}

func NewEngine(store catalog.Store, booked BookedSource, cfg Config) *Engine {
	if cfg.Granularity <= 0 {
		cfg.Granularity = 30 * time.Minute
	}
	if cfg.DefaultLocation == nil {
		cfg.DefaultLocation = time.UTC
	}
	return &Engine{
		catalog:     store,
		booked:      booked,
		granularity: cfg.Granularity,
		defaultLoc:  cfg.DefaultLocation,
	}
}

// Compute returns the free slots of resourceID for serviceID on date, in
// start order. An inactive or unassigned resource and a closed site both
// yield an empty result. Unknown resource or service ids return NotFound.
func (e *Engine) Compute(ctx context.Context, resourceID string, date clock.Date, serviceID string, now time.Time) ([]Slot, error) {
	t, err := e.resolve(ctx, resourceID, serviceID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return []Slot{}, nil
	}
	return e.compute(ctx, t, date, now)
}

// Days counts free slots for n consecutive dates starting at from and returns
// the dates that have at least one. A zero from means today at the site.
func (e *Engine) Days(ctx context.Context, resourceID, serviceID string, from clock.Date, n int, now time.Time) ([]Day, error) {
	if n < 1 || n > MaxDays {
		return nil, ErrInvalidDays
	}

	t, err := e.resolve(ctx, resourceID, serviceID)
	if err != nil {
		return nil, err
	}

	days := []Day{}
	if t == nil {
		return days, nil
	}
	if from.IsZero() {
		from = clock.DateOf(now.In(t.site.Location(e.defaultLoc)))
	}
	for i := 0; i < n; i++ {
		d := from.AddDays(i)
		slots, err := e.compute(ctx, t, d, now)
		if err != nil {
			return nil, err
		}
		if len(slots) > 0 {
			days = append(days, Day{Date: d, Slots: len(slots)})
		}
	}
	return days, nil
}

// target is a resolved (resource, service, site) triple.
type target struct {
	resource *barber.Barber
	service  *offering.Offering
	site     *site.Site
}

// resolve loads the catalog entities. It returns nil without error when the
// resource cannot be booked at all.
func (e *Engine) resolve(ctx context.Context, resourceID, serviceID string) (*target, error) {
	res, err := e.catalog.GetResource(ctx, resourceID)
	if err != nil {
		return nil, err
	}

	svc, err := e.catalog.GetService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if svc.DurationMinutes <= 0 {
		return nil, ErrInvalidService
	}

	if !res.Bookable() || !svc.Active {
		return nil, nil
	}

	st, err := e.catalog.GetSite(ctx, res.SiteID)
	if err != nil {
		if errors.Is(err, site.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &target{resource: res, service: svc, site: st}, nil
}

func (e *Engine) compute(ctx context.Context, t *target, date clock.Date, now time.Time) ([]Slot, error) {
	loc := t.site.Location(e.defaultLoc)
	today := clock.DateOf(now.In(loc))
	if date.Before(today) {
		return nil, ErrDateInPast
	}

	window, open := t.site.WindowOn(date, e.defaultLoc)
	if !open {
		return []Slot{}, nil
	}

	busy, err := e.booked.ActiveIntervals(ctx, t.resource.ID, window.Open, window.Close)
	if err != nil {
		return nil, err
	}

	// Only today can have starts in the past
	var notBefore time.Time
	if date == today {
		notBefore = now
	}

	ivs := Candidates(window, t.service.Duration(), e.granularity, busy, notBefore)
	slots := make([]Slot, len(ivs))
	for i, iv := range ivs {
		slots[i] = Slot{ResourceID: t.resource.ID, Start: iv.Start, End: iv.End}
	}
	return slots, nil
}
