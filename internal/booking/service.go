// Package booking is the entry point for customers and the admin panel: it
// validates input and delegates to the availability engine and the ledger.
package booking

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Breyner794/barber-shop/internal/availability"
	"github.com/Breyner794/barber-shop/internal/pkg/clock"
	"github.com/Breyner794/barber-shop/internal/reservation"
)

// Engine computes availability.
type Engine interface {
	Compute(ctx context.Context, resourceID string, date clock.Date, serviceID string, now time.Time) ([]availability.Slot, error)
	Days(ctx context.Context, resourceID, serviceID string, from clock.Date, n int, now time.Time) ([]availability.Day, error)
}

// Ledger stores reservations.
type Ledger interface {
	Create(ctx context.Context, d reservation.Draft) (*reservation.Reservation, error)
	Update(ctx context.Context, id string, d reservation.Draft) (*reservation.Reservation, error)
	Transition(ctx context.Context, id string, next reservation.State) (*reservation.Reservation, error)
	Remove(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*reservation.Reservation, error)
	List(ctx context.Context, filter reservation.Filter) ([]*reservation.Reservation, int, error)
}

type Service interface {
	GetAvailability(ctx context.Context, q AvailabilityQuery) ([]availability.Slot, error)
	GetAvailableDays(ctx context.Context, q DaysQuery) ([]availability.Day, error)
	Book(ctx context.Context, req BookRequest) (*reservation.Reservation, error)
	Get(ctx context.Context, id string) (*reservation.Reservation, error)
	List(ctx context.Context, filter reservation.Filter) ([]*reservation.Reservation, int, error)
	Update(ctx context.Context, id string, req BookRequest) (*reservation.Reservation, error)
	ChangeState(ctx context.Context, id string, state string) (*reservation.Reservation, error)
	Cancel(ctx context.Context, id string) (*reservation.Reservation, error)
	Remove(ctx context.Context, id string) error
}

type service struct {
	engine   Engine
	ledger   Ledger
	clock    clock.Clock
	validate *validator.Validate
}

func NewService(engine Engine, ledger Ledger, clk clock.Clock) Service {
	if clk == nil {
		clk = clock.System{}
	}
	return &service{
		engine:   engine,
		ledger:   ledger,
		clock:    clk,
		validate: newValidator(),
	}
}

func (s *service) GetAvailability(ctx context.Context, q AvailabilityQuery) ([]availability.Slot, error) {
	if q.ResourceID == "" {
		return nil, invalidInput("resource", "resource is required")
	}
	if q.ServiceID == "" {
		return nil, invalidInput("service", "service is required")
	}
	date, err := clock.ParseDate(q.Date)
	if err != nil {
		return nil, invalidInput("date", "date must be formatted YYYY-MM-DD")
	}

	return s.engine.Compute(ctx, q.ResourceID, date, q.ServiceID, s.clock.Now())
}

func (s *service) GetAvailableDays(ctx context.Context, q DaysQuery) ([]availability.Day, error) {
	if q.ResourceID == "" {
		return nil, invalidInput("resource", "resource is required")
	}
	if q.ServiceID == "" {
		return nil, invalidInput("service", "service is required")
	}

	var from clock.Date
	if q.From != "" {
		d, err := clock.ParseDate(q.From)
		if err != nil {
			return nil, invalidInput("from", "from must be formatted YYYY-MM-DD")
		}
		from = d
	}

	n := q.Days
	if n == 0 {
		n = defaultDays
	}
	return s.engine.Days(ctx, q.ResourceID, q.ServiceID, from, n, s.clock.Now())
}

// draft validates the form and converts it for the ledger.
func (s *service) draft(req BookRequest) (reservation.Draft, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Email = strings.TrimSpace(req.Email)

	if err := s.validate.Struct(req); err != nil {
		return reservation.Draft{}, validationError(err)
	}

	date, err := clock.ParseDate(req.Date)
	if err != nil {
		return reservation.Draft{}, invalidField("date", "date must be formatted YYYY-MM-DD")
	}
	start, err := clock.ParseTimeOfDay(req.Hour)
	if err != nil {
		return reservation.Draft{}, invalidField("hour", "hour must be formatted HH:MM")
	}

	return reservation.Draft{
		Customer: reservation.Customer{
			Name:  req.Name,
			Phone: req.Phone,
			Email: req.Email,
			Notes: strings.TrimSpace(req.Notes),
		},
		ServiceID:  req.ServiceID,
		SiteID:     req.SiteID,
		ResourceID: req.ResourceID,
		Date:       date,
		Start:      start,
	}, nil
}

func (s *service) Book(ctx context.Context, req BookRequest) (*reservation.Reservation, error) {
	d, err := s.draft(req)
	if err != nil {
		return nil, err
	}
	return s.ledger.Create(ctx, d)
}

func (s *service) Get(ctx context.Context, id string) (*reservation.Reservation, error) {
	return s.ledger.Get(ctx, id)
}

func (s *service) List(ctx context.Context, filter reservation.Filter) ([]*reservation.Reservation, int, error) {
	return s.ledger.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req BookRequest) (*reservation.Reservation, error) {
	d, err := s.draft(req)
	if err != nil {
		return nil, err
	}
	return s.ledger.Update(ctx, id, d)
}

func (s *service) ChangeState(ctx context.Context, id string, state string) (*reservation.Reservation, error) {
	next, err := reservation.ParseState(state)
	if err != nil {
		return nil, err
	}
	return s.ledger.Transition(ctx, id, next)
}

func (s *service) Cancel(ctx context.Context, id string) (*reservation.Reservation, error) {
	return s.ChangeState(ctx, id, string(reservation.StateCancelled))
}

func (s *service) Remove(ctx context.Context, id string) error {
	return s.ledger.Remove(ctx, id)
}
