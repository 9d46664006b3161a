package offering

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Breyner794/barber-shop/internal/pkg/apperror"
)

var (
	ErrNotFound        = apperror.New(http.StatusNotFound, apperror.KindNotFound, "service not found")
	ErrTitleRequired   = apperror.New(http.StatusBadRequest, apperror.KindValidation, "title is required").WithField("title")
	ErrInvalidDuration = apperror.New(http.StatusBadRequest, apperror.KindValidation, "duration must be a positive number of minutes").WithField("duration_minutes")
	ErrInvalidPrice    = apperror.New(http.StatusBadRequest, apperror.KindValidation, "price must not be negative").WithField("price")
	ErrInUse           = apperror.New(http.StatusConflict, apperror.KindConflict, "service is referenced by reservations")
)

// Offering is a bookable service such as a haircut. Its duration fixes the
// length of every reservation made for it.
type Offering struct {
	ID              string
	Title           string
	DurationMinutes int
	Price           decimal.Decimal
	Includes        []string
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (o *Offering) Duration() time.Duration {
	return time.Duration(o.DurationMinutes) * time.Minute
}

// Filter defines parameters for listing offerings.
type Filter struct {
	Active   *bool
	Page     int
	PageSize int
}
