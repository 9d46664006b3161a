package http

import (
	"time"

	"github.com/Breyner794/barber-shop/internal/availability"
	"github.com/Breyner794/barber-shop/internal/booking"
	"github.com/Breyner794/barber-shop/internal/pkg/clock"
	"github.com/Breyner794/barber-shop/internal/pkg/request"
	"github.com/Breyner794/barber-shop/internal/reservation"
)

type AvailabilityRequest struct {
	Resource string `form:"resource"`
	Service  string `form:"service"`
	Date     string `form:"date"`
}

type AvailableDaysRequest struct {
	Resource string `form:"resource"`
	Service  string `form:"service"`
	From     string `form:"from"`
	Days     int    `form:"days"`
}

type SlotResponse struct {
	Start time.Time       `json:"start"`
	End   time.Time       `json:"end"`
	Hour  clock.TimeOfDay `json:"hour"` // start, site local
}

type AvailabilityResponse struct {
	Resource string         `json:"resource"`
	Service  string         `json:"service"`
	Date     string         `json:"date"`
	Slots    []SlotResponse `json:"slots"`
}

func NewAvailabilityResponse(req AvailabilityRequest, slots []availability.Slot) AvailabilityResponse {
	items := make([]SlotResponse, len(slots))
	for i, s := range slots {
		items[i] = SlotResponse{Start: s.Start, End: s.End, Hour: clock.TimeOfDayOf(s.Start)}
	}
	return AvailabilityResponse{
		Resource: req.Resource,
		Service:  req.Service,
		Date:     req.Date,
		Slots:    items,
	}
}

type DayResponse struct {
	Date  clock.Date `json:"date"`
	Slots int        `json:"slots"`
}

// ListReservationsRequest defines query parameters for listing reservations.
type ListReservationsRequest struct {
	request.ListParams
	State         []string   `form:"state" binding:"omitempty,dive,oneof=pending confirmed completed cancelled"`
	ResourceID    string     `form:"resource_id" binding:"omitempty,uuid"`
	SiteID        string     `form:"site_id" binding:"omitempty,uuid"`
	ServiceID     string     `form:"service_id" binding:"omitempty,uuid"`
	StartTimeFrom *time.Time `form:"start_time_from" time_format:"2006-01-02T15:04:05Z07:00"`
	StartTimeTo   *time.Time `form:"start_time_to" time_format:"2006-01-02T15:04:05Z07:00"`
}

// Valid reports whether the time range is ordered.
func (r *ListReservationsRequest) Valid() bool {
	return r.StartTimeFrom == nil || r.StartTimeTo == nil || !r.StartTimeFrom.After(*r.StartTimeTo)
}

func (r *ListReservationsRequest) Filter() reservation.Filter {
	states := make([]reservation.State, len(r.State))
	for i, s := range r.State {
		states[i] = reservation.State(s)
	}
	return reservation.Filter{
		ResourceID: r.ResourceID,
		SiteID:     r.SiteID,
		ServiceID:  r.ServiceID,
		States:     states,
		From:       r.StartTimeFrom,
		To:         r.StartTimeTo,
		Page:       r.Page,
		PageSize:   r.PageSize,
	}
}

// ReservationRequest is the reservation form.
type ReservationRequest = booking.BookRequest

type ChangeStateRequest struct {
	State string `json:"state" binding:"required"`
}

type CustomerResponse struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
	Notes string `json:"notes,omitempty"`
}

type ReservationResponse struct {
	ID         string            `json:"id"`
	Customer   CustomerResponse  `json:"customer"`
	ServiceID  string            `json:"service_id"`
	SiteID     string            `json:"site_id"`
	ResourceID string            `json:"resource_id"`
	Date       clock.Date        `json:"date"`
	Hour       clock.TimeOfDay   `json:"hour"`
	StartTime  time.Time         `json:"start_time"`
	EndTime    time.Time         `json:"end_time"`
	State      reservation.State `json:"state"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

func NewReservationResponse(r *reservation.Reservation) ReservationResponse {
	return ReservationResponse{
		ID: r.ID,
		Customer: CustomerResponse{
			Name:  r.Customer.Name,
			Phone: r.Customer.Phone,
			Email: r.Customer.Email,
			Notes: r.Customer.Notes,
		},
		ServiceID:  r.ServiceID,
		SiteID:     r.SiteID,
		ResourceID: r.ResourceID,
		Date:       r.Date,
		Hour:       r.Hour,
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
		State:      r.State,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}
