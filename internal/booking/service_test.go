package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Breyner794/barber-shop/internal/availability"
	"github.com/Breyner794/barber-shop/internal/pkg/apperror"
	"github.com/Breyner794/barber-shop/internal/pkg/clock"
	"github.com/Breyner794/barber-shop/internal/reservation"
)

type fakeEngine struct {
	compute func(ctx context.Context, resourceID string, date clock.Date, serviceID string, now time.Time) ([]availability.Slot, error)
	days    func(ctx context.Context, resourceID, serviceID string, from clock.Date, n int, now time.Time) ([]availability.Day, error)
}

func (f *fakeEngine) Compute(ctx context.Context, resourceID string, date clock.Date, serviceID string, now time.Time) ([]availability.Slot, error) {
	return f.compute(ctx, resourceID, date, serviceID, now)
}

func (f *fakeEngine) Days(ctx context.Context, resourceID, serviceID string, from clock.Date, n int, now time.Time) ([]availability.Day, error) {
	return f.days(ctx, resourceID, serviceID, from, n, now)
}

type fakeLedger struct {
	create     func(ctx context.Context, d reservation.Draft) (*reservation.Reservation, error)
	update     func(ctx context.Context, id string, d reservation.Draft) (*reservation.Reservation, error)
	transition func(ctx context.Context, id string, next reservation.State) (*reservation.Reservation, error)
}

func (f *fakeLedger) Create(ctx context.Context, d reservation.Draft) (*reservation.Reservation, error) {
	return f.create(ctx, d)
}

func (f *fakeLedger) Update(ctx context.Context, id string, d reservation.Draft) (*reservation.Reservation, error) {
	return f.update(ctx, id, d)
}

func (f *fakeLedger) Transition(ctx context.Context, id string, next reservation.State) (*reservation.Reservation, error) {
	return f.transition(ctx, id, next)
}

func (f *fakeLedger) Remove(ctx context.Context, id string) error { return nil }

func (f *fakeLedger) Get(ctx context.Context, id string) (*reservation.Reservation, error) {
	return nil, reservation.ErrNotFound
}

func (f *fakeLedger) List(ctx context.Context, filter reservation.Filter) ([]*reservation.Reservation, int, error) {
	return nil, 0, nil
}

var now = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

func validRequest() BookRequest {
	return BookRequest{
		Name:       "  Juan Perez ",
		Phone:      "+573001234567",
		Email:      "juan@example.com",
		Date:       "2025-06-02",
		Hour:       "10:00",
		ServiceID:  "svc",
		SiteID:     "site",
		ResourceID: "carlos",
	}
}

func fieldOf(t *testing.T, err error) (apperror.Kind, string) {
	t.Helper()
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	return appErr.Kind, appErr.Field
}

func TestBookValidation(t *testing.T) {
	called := false
	ledger := &fakeLedger{create: func(context.Context, reservation.Draft) (*reservation.Reservation, error) {
		called = true
		return &reservation.Reservation{}, nil
	}}
	svc := NewService(&fakeEngine{}, ledger, clock.Fixed(now))

	tests := []struct {
		name   string
		mutate func(r *BookRequest)
		field  string
	}{
		{"missing name", func(r *BookRequest) { r.Name = "   " }, "name"},
		{"missing phone", func(r *BookRequest) { r.Phone = "" }, "phone"},
		{"phone with letters", func(r *BookRequest) { r.Phone = "300-123-4567" }, "phone"},
		{"phone too short", func(r *BookRequest) { r.Phone = "1234567" }, "phone"},
		{"phone too long", func(r *BookRequest) { r.Phone = "1234567890123456" }, "phone"},
		{"bad email", func(r *BookRequest) { r.Email = "juan@" }, "email"},
		{"missing date", func(r *BookRequest) { r.Date = "" }, "date"},
		{"bad date", func(r *BookRequest) { r.Date = "02/06/2025" }, "date"},
		{"bad hour", func(r *BookRequest) { r.Hour = "25:00" }, "hour"},
		{"single digit hour", func(r *BookRequest) { r.Hour = "9:00" }, "hour"},
		{"missing service", func(r *BookRequest) { r.ServiceID = "" }, "service_id"},
		{"missing site", func(r *BookRequest) { r.SiteID = "" }, "site_id"},
		{"missing barber", func(r *BookRequest) { r.ResourceID = "" }, "resource_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			_, err := svc.Book(context.Background(), req)
			require.Error(t, err)
			kind, field := fieldOf(t, err)
			assert.Equal(t, apperror.KindValidation, kind)
			assert.Equal(t, tt.field, field)
		})
	}
	assert.False(t, called, "invalid forms never reach the ledger")
}

func TestBookPassesDraft(t *testing.T) {
	var got reservation.Draft
	ledger := &fakeLedger{create: func(_ context.Context, d reservation.Draft) (*reservation.Reservation, error) {
		got = d
		return &reservation.Reservation{ID: "r1", State: reservation.StatePending}, nil
	}}
	svc := NewService(&fakeEngine{}, ledger, clock.Fixed(now))

	req := validRequest()
	req.Email = ""
	req.Phone = "3001234567"
	r, err := svc.Book(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "r1", r.ID)

	assert.Equal(t, reservation.Draft{
		Customer:   reservation.Customer{Name: "Juan Perez", Phone: "3001234567"},
		ServiceID:  "svc",
		SiteID:     "site",
		ResourceID: "carlos",
		Date:       clock.Date{Year: 2025, Month: time.June, Day: 2},
		Start:      10 * 60,
	}, got)
}

func TestBookSurfacesLedgerErrors(t *testing.T) {
	ledger := &fakeLedger{create: func(context.Context, reservation.Draft) (*reservation.Reservation, error) {
		return nil, reservation.ErrSlotConflict
	}}
	svc := NewService(&fakeEngine{}, ledger, clock.Fixed(now))

	_, err := svc.Book(context.Background(), validRequest())
	assert.ErrorIs(t, err, reservation.ErrSlotConflict)
}

func TestUpdateValidates(t *testing.T) {
	ledger := &fakeLedger{update: func(_ context.Context, id string, d reservation.Draft) (*reservation.Reservation, error) {
		return &reservation.Reservation{ID: id}, nil
	}}
	svc := NewService(&fakeEngine{}, ledger, clock.Fixed(now))

	req := validRequest()
	req.Phone = "abc"
	_, err := svc.Update(context.Background(), "r1", req)
	_, field := fieldOf(t, err)
	assert.Equal(t, "phone", field)

	r, err := svc.Update(context.Background(), "r1", validRequest())
	require.NoError(t, err)
	assert.Equal(t, "r1", r.ID)
}

func TestGetAvailability(t *testing.T) {
	var gotDate clock.Date
	var gotNow time.Time
	engine := &fakeEngine{compute: func(_ context.Context, resourceID string, date clock.Date, serviceID string, n time.Time) ([]availability.Slot, error) {
		gotDate, gotNow = date, n
		return []availability.Slot{{ResourceID: resourceID}}, nil
	}}
	svc := NewService(engine, &fakeLedger{}, clock.Fixed(now))

	slots, err := svc.GetAvailability(context.Background(), AvailabilityQuery{ResourceID: "carlos", ServiceID: "svc", Date: "2025-06-02"})
	require.NoError(t, err)
	assert.Len(t, slots, 1)
	assert.Equal(t, clock.Date{Year: 2025, Month: time.June, Day: 2}, gotDate)
	assert.Equal(t, now, gotNow)

	tests := []struct {
		q     AvailabilityQuery
		field string
	}{
		{AvailabilityQuery{ServiceID: "svc", Date: "2025-06-02"}, "resource"},
		{AvailabilityQuery{ResourceID: "carlos", Date: "2025-06-02"}, "service"},
		{AvailabilityQuery{ResourceID: "carlos", ServiceID: "svc", Date: "tomorrow"}, "date"},
	}
	for _, tt := range tests {
		_, err := svc.GetAvailability(context.Background(), tt.q)
		kind, field := fieldOf(t, err)
		assert.Equal(t, apperror.KindInvalidInput, kind)
		assert.Equal(t, tt.field, field)
	}
}

func TestGetAvailableDaysDefaults(t *testing.T) {
	var gotFrom clock.Date
	var gotN int
	engine := &fakeEngine{days: func(_ context.Context, _, _ string, from clock.Date, n int, _ time.Time) ([]availability.Day, error) {
		gotFrom, gotN = from, n
		return []availability.Day{}, nil
	}}
	svc := NewService(engine, &fakeLedger{}, clock.Fixed(now))

	_, err := svc.GetAvailableDays(context.Background(), DaysQuery{ResourceID: "carlos", ServiceID: "svc"})
	require.NoError(t, err)
	assert.True(t, gotFrom.IsZero())
	assert.Equal(t, 7, gotN)

	_, err = svc.GetAvailableDays(context.Background(), DaysQuery{ResourceID: "carlos", ServiceID: "svc", From: "2025-06-10", Days: 3})
	require.NoError(t, err)
	assert.Equal(t, clock.Date{Year: 2025, Month: time.June, Day: 10}, gotFrom)
	assert.Equal(t, 3, gotN)

	_, err = svc.GetAvailableDays(context.Background(), DaysQuery{ResourceID: "carlos", ServiceID: "svc", From: "10-06-2025"})
	kind, field := fieldOf(t, err)
	assert.Equal(t, apperror.KindInvalidInput, kind)
	assert.Equal(t, "from", field)
}

func TestChangeState(t *testing.T) {
	var got reservation.State
	ledger := &fakeLedger{transition: func(_ context.Context, id string, next reservation.State) (*reservation.Reservation, error) {
		got = next
		return &reservation.Reservation{ID: id, State: next}, nil
	}}
	svc := NewService(&fakeEngine{}, ledger, clock.Fixed(now))

	_, err := svc.ChangeState(context.Background(), "r1", "confirmed")
	require.NoError(t, err)
	assert.Equal(t, reservation.StateConfirmed, got)

	_, err = svc.Cancel(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, reservation.StateCancelled, got)

	_, err = svc.ChangeState(context.Background(), "r1", "archived")
	kind, field := fieldOf(t, err)
	assert.Equal(t, apperror.KindValidation, kind)
	assert.Equal(t, "state", field)
}
