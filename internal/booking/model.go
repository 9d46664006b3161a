package booking

import (
	"net/http"

	"github.com/Breyner794/barber-shop/internal/pkg/apperror"
)

const defaultDays = 7

func invalidInput(field, message string) *apperror.AppError {
	return apperror.New(http.StatusBadRequest, apperror.KindInvalidInput, message).WithField(field)
}

func invalidField(field, message string) *apperror.AppError {
	return apperror.New(http.StatusBadRequest, apperror.KindValidation, message).WithField(field)
}

// AvailabilityQuery selects the slots of one barber for one service on a
// date formatted YYYY-MM-DD.
type AvailabilityQuery struct {
	ResourceID string
	ServiceID  string
	Date       string
}

// DaysQuery selects the dates with free slots in the Days dates starting at
// From. An empty From means today; zero Days means a week.
type DaysQuery struct {
	ResourceID string
	ServiceID  string
	From       string
	Days       int
}

// BookRequest is the customer-facing reservation form. It is used both to
// book and to edit a reservation.
type BookRequest struct {
	Name       string `json:"name" validate:"required,max=100"`
	Phone      string `json:"phone" validate:"required,phone"`
	Email      string `json:"email" validate:"omitempty,email"`
	Notes      string `json:"notes" validate:"max=500"`
	Date       string `json:"date" validate:"required,datetime=2006-01-02"`
	Hour       string `json:"hour" validate:"required,datetime=15:04"`
	ServiceID  string `json:"service_id" validate:"required"`
	SiteID     string `json:"site_id" validate:"required"`
	ResourceID string `json:"resource_id" validate:"required"`
}
