package reservation

import (
	"net/http"
	"time"

	"github.com/Breyner794/barber-shop/internal/availability"
	"github.com/Breyner794/barber-shop/internal/pkg/apperror"
	"github.com/Breyner794/barber-shop/internal/pkg/clock"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, apperror.KindNotFound, "reservation not found")
	ErrSlotConflict      = apperror.New(http.StatusConflict, apperror.KindSlotConflict, "time slot is already booked")
	ErrInvalidReference  = apperror.New(http.StatusUnprocessableEntity, apperror.KindInvalidReference, "referenced entity does not exist")
	ErrResourceNotAtSite = apperror.New(http.StatusUnprocessableEntity, apperror.KindInvalidReference, "barber does not work at this site").WithField("resource_id")
	ErrResourceInactive  = apperror.New(http.StatusUnprocessableEntity, apperror.KindInvalidReference, "barber is not taking reservations").WithField("resource_id")
	ErrServiceInactive   = apperror.New(http.StatusUnprocessableEntity, apperror.KindInvalidReference, "service is not offered").WithField("service_id")
	ErrInvalidTransition = apperror.New(http.StatusConflict, apperror.KindInvalidTransition, "state transition not allowed").WithField("state")
	ErrNotEditable       = apperror.New(http.StatusConflict, apperror.KindInvalidTransition, "completed or cancelled reservations cannot be edited").WithField("state")
	ErrOutsideHours      = apperror.New(http.StatusBadRequest, apperror.KindValidation, "requested time is outside the site's opening hours").WithField("hour")
	ErrStartInPast       = apperror.New(http.StatusBadRequest, apperror.KindValidation, "requested time has already passed").WithField("hour")
	ErrUnavailable       = apperror.New(http.StatusServiceUnavailable, apperror.KindUnavailable, "reservation store temporarily unavailable")
)

// State is the lifecycle position of a reservation.
type State string

const (
	StatePending   State = "pending"
	StateConfirmed State = "confirmed"
	StateCompleted State = "completed"
	StateCancelled State = "cancelled"
)

// States lists every state in lifecycle order.
var States = []State{StatePending, StateConfirmed, StateCompleted, StateCancelled}

var transitions = map[State][]State{
	StatePending:   {StateConfirmed, StateCancelled},
	StateConfirmed: {StateCompleted, StateCancelled},
}

// ParseState validates s.
func ParseState(s string) (State, error) {
	for _, st := range States {
		if string(st) == s {
			return st, nil
		}
	}
	return "", apperror.New(http.StatusBadRequest, apperror.KindValidation, "unknown state "+s).WithField("state")
}

// Active reports whether the state holds its time slot.
func (s State) Active() bool {
	return s == StatePending || s == StateConfirmed
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return len(transitions[s]) == 0
}

// CanTransitionTo reports whether s -> next is an edge of the lifecycle.
func (s State) CanTransitionTo(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Customer is the person the reservation is for. Email and Notes are optional.
type Customer struct {
	Name  string
	Phone string
	Email string
	Notes string
}

type Reservation struct {
	ID         string
	Customer   Customer
	ServiceID  string
	SiteID     string
	ResourceID string
	Date       clock.Date      // in the site's timezone
	Hour       clock.TimeOfDay // start, in the site's timezone
	StartTime  time.Time
	EndTime    time.Time
	State      State
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Interval is the slot held by the reservation.
func (r *Reservation) Interval() availability.Interval {
	return availability.Interval{Start: r.StartTime, End: r.EndTime}
}

// Draft is the caller-supplied part of a reservation. The end time follows
// from the service duration.
type Draft struct {
	Customer   Customer
	ServiceID  string
	SiteID     string
	ResourceID string
	Date       clock.Date
	Start      clock.TimeOfDay
}

// Filter defines parameters for listing reservations.
type Filter struct {
	ResourceID string
	SiteID     string
	ServiceID  string
	States     []State
	From       *time.Time // start_time >= From
	To         *time.Time // start_time < To
	Page       int
	PageSize   int
}
