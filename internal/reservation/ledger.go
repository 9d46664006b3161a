// Package reservation is the booking ledger: the authoritative reservation
// store, which refuses overlapping active reservations for a barber and owns
// the reservation lifecycle.
package reservation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Breyner794/barber-shop/internal/availability"
	"github.com/Breyner794/barber-shop/internal/barber"
	"github.com/Breyner794/barber-shop/internal/catalog"
	"github.com/Breyner794/barber-shop/internal/offering"
	"github.com/Breyner794/barber-shop/internal/pkg/clock"
	"github.com/Breyner794/barber-shop/internal/site"
)

const maxLockAttempts = 3

// errStale aborts an atomic section whose lock set no longer matches the row.
var errStale = errors.New("reservation moved while acquiring locks")

// Options configures a Ledger. Zero values select defaults.
type Options struct {
	Clock           clock.Clock
	DefaultLocation *time.Location
	WriteTimeout    time.Duration
	Observer        Observer
	Logger          *slog.Logger
}

type Ledger struct {
	repo         Repository
	catalog      catalog.Store
	clock        clock.Clock
	defaultLoc   *time.Location
	writeTimeout time.Duration
	observer     Observer
	logger       *slog.Logger
}

func NewLedger(repo Repository, store catalog.Store, opts Options) *Ledger {
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	if opts.DefaultLocation == nil {
		opts.DefaultLocation = time.UTC
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 5 * time.Second
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Ledger{
		repo:         repo,
		catalog:      store,
		clock:        opts.Clock,
		defaultLoc:   opts.DefaultLocation,
		writeTimeout: opts.WriteTimeout,
		observer:     opts.Observer,
		logger:       opts.Logger,
	}
}

// detach keeps a write running after the caller goes away, bounded by the
// write timeout.
func (l *Ledger) detach(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), l.writeTimeout)
}

// planned is a draft resolved against the catalog.
type planned struct {
	siteID   string
	interval availability.Interval
}

// plan resolves the draft's references and checks that its interval fits the
// site's hours, has not started yet and is free on the barber's calendar.
// cur is the reservation being edited, nil on create. Keeping cur's barber and
// interval skips the start-in-past check.
func (l *Ledger) plan(ctx context.Context, tx Tx, d Draft, cur *Reservation, now time.Time) (*planned, error) {
	st, err := l.catalog.GetSite(ctx, d.SiteID)
	if err != nil {
		if errors.Is(err, site.ErrNotFound) {
			return nil, ErrInvalidReference.WithField("site_id")
		}
		return nil, err
	}

	res, err := l.catalog.GetResource(ctx, d.ResourceID)
	if err != nil {
		if errors.Is(err, barber.ErrNotFound) {
			return nil, ErrInvalidReference.WithField("resource_id")
		}
		return nil, err
	}
	if res.SiteID != st.ID {
		return nil, ErrResourceNotAtSite
	}
	if !res.Active {
		return nil, ErrResourceInactive
	}

	svc, err := l.catalog.GetService(ctx, d.ServiceID)
	if err != nil {
		if errors.Is(err, offering.ErrNotFound) {
			return nil, ErrInvalidReference.WithField("service_id")
		}
		return nil, err
	}
	if !svc.Active || svc.DurationMinutes <= 0 {
		return nil, ErrServiceInactive
	}

	start := d.Start.On(d.Date, st.Location(l.defaultLoc))
	iv := availability.Interval{Start: start, End: start.Add(svc.Duration())}

	window, open := st.WindowOn(d.Date, l.defaultLoc)
	if !open || !iv.Within(window) {
		return nil, ErrOutsideHours
	}
	excludeID := ""
	unmoved := false
	if cur != nil {
		excludeID = cur.ID
		unmoved = cur.ResourceID == res.ID && iv.Start.Equal(cur.StartTime) && iv.End.Equal(cur.EndTime)
	}
	if iv.Start.Before(now) && !unmoved {
		return nil, ErrStartInPast
	}

	existing, err := tx.ActiveOverlapping(ctx, res.ID, iv.Start, iv.End, excludeID)
	if err != nil {
		return nil, err
	}
	busy := make([]availability.Interval, len(existing))
	for i, r := range existing {
		busy[i] = r.Interval()
	}
	if availability.Conflicts(iv, busy) {
		return nil, ErrSlotConflict
	}

	return &planned{siteID: st.ID, interval: iv}, nil
}

func (l *Ledger) apply(r *Reservation, d Draft, p *planned) {
	r.Customer = d.Customer
	r.ServiceID = d.ServiceID
	r.SiteID = p.siteID
	r.ResourceID = d.ResourceID
	r.Date = d.Date
	r.Hour = d.Start
	r.StartTime = p.interval.Start.UTC()
	r.EndTime = p.interval.End.UTC()
}

func (l *Ledger) rejected(op string, d Draft, err error) {
	if errors.Is(err, ErrSlotConflict) {
		l.observer.Conflict(d.ResourceID)
		l.logger.Info("slot conflict",
			slog.String("op", op),
			slog.String("resource_id", d.ResourceID),
			slog.String("date", d.Date.String()),
			slog.String("hour", d.Start.String()))
	}
}

// Create inserts a pending reservation for the draft.
func (l *Ledger) Create(ctx context.Context, d Draft) (*Reservation, error) {
	ctx, cancel := l.detach(ctx)
	defer cancel()

	now := l.clock.Now()
	r := &Reservation{
		ID:        uuid.NewString(),
		State:     StatePending,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}

	err := l.repo.Atomic(ctx, []string{resourceKey(d.ResourceID)}, func(ctx context.Context, tx Tx) error {
		p, err := l.plan(ctx, tx, d, nil, now)
		if err != nil {
			return err
		}
		l.apply(r, d, p)
		return tx.Create(ctx, r)
	})
	if err != nil {
		l.rejected("create", d, err)
		return nil, err
	}

	l.observer.Created(r)
	l.logger.Info("reservation created",
		slog.String("id", r.ID),
		slog.String("resource_id", r.ResourceID),
		slog.Time("start", r.StartTime))
	return r, nil
}

// Update replaces every caller-supplied field of the reservation and checks
// the result as Create would, ignoring the reservation's own slot. The state
// is kept. Completed and cancelled reservations cannot be edited.
func (l *Ledger) Update(ctx context.Context, id string, d Draft) (*Reservation, error) {
	ctx, cancel := l.detach(ctx)
	defer cancel()

	now := l.clock.Now()
	for attempt := 0; attempt < maxLockAttempts; attempt++ {
		cur, err := l.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		keys := []string{reservationKey(id), resourceKey(cur.ResourceID), resourceKey(d.ResourceID)}
		var updated *Reservation
		err = l.repo.Atomic(ctx, keys, func(ctx context.Context, tx Tx) error {
			r, err := tx.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if r.ResourceID != cur.ResourceID {
				return errStale
			}
			if r.State.Terminal() {
				return ErrNotEditable
			}

			p, err := l.plan(ctx, tx, d, r, now)
			if err != nil {
				return err
			}
			l.apply(r, d, p)
			r.UpdatedAt = now.UTC()
			if err := tx.Update(ctx, r); err != nil {
				return err
			}
			updated = r
			return nil
		})
		if errors.Is(err, errStale) {
			continue
		}
		if err != nil {
			l.rejected("update", d, err)
			return nil, err
		}

		l.logger.Info("reservation updated",
			slog.String("id", id),
			slog.String("resource_id", updated.ResourceID),
			slog.Time("start", updated.StartTime))
		return updated, nil
	}

	l.logger.Warn("reservation update gave up", slog.String("id", id))
	return nil, ErrUnavailable
}

// Transition moves the reservation to next along the lifecycle.
func (l *Ledger) Transition(ctx context.Context, id string, next State) (*Reservation, error) {
	ctx, cancel := l.detach(ctx)
	defer cancel()

	var from State
	var updated *Reservation
	err := l.repo.Atomic(ctx, []string{reservationKey(id)}, func(ctx context.Context, tx Tx) error {
		r, err := tx.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !r.State.CanTransitionTo(next) {
			return ErrInvalidTransition
		}
		from = r.State
		r.State = next
		r.UpdatedAt = l.clock.Now().UTC()
		if err := tx.Update(ctx, r); err != nil {
			return err
		}
		updated = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.observer.Transitioned(from, next)
	l.logger.Info("reservation state changed",
		slog.String("id", id),
		slog.String("from", string(from)),
		slog.String("to", string(next)))
	return updated, nil
}

// Remove deletes the reservation whatever its state.
func (l *Ledger) Remove(ctx context.Context, id string) error {
	ctx, cancel := l.detach(ctx)
	defer cancel()

	err := l.repo.Atomic(ctx, []string{reservationKey(id)}, func(ctx context.Context, tx Tx) error {
		return tx.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	l.observer.Removed()
	l.logger.Info("reservation removed", slog.String("id", id))
	return nil
}

func (l *Ledger) Get(ctx context.Context, id string) (*Reservation, error) {
	return l.repo.GetByID(ctx, id)
}

func (l *Ledger) List(ctx context.Context, filter Filter) ([]*Reservation, int, error) {
	return l.repo.List(ctx, filter)
}

// ListByResource returns the reservations of a barber, in any state, that
// intersect [from, to).
func (l *Ledger) ListByResource(ctx context.Context, resourceID string, from, to time.Time) ([]*Reservation, error) {
	return l.repo.ListByResource(ctx, resourceID, from, to, false)
}

// ActiveIntervals implements availability.BookedSource.
func (l *Ledger) ActiveIntervals(ctx context.Context, resourceID string, from, to time.Time) ([]availability.Interval, error) {
	items, err := l.repo.ListByResource(ctx, resourceID, from, to, true)
	if err != nil {
		return nil, err
	}
	out := make([]availability.Interval, len(items))
	for i, r := range items {
		out[i] = r.Interval()
	}
	return out, nil
}
