package site

import (
	"net/http"
	"time"

	"github.com/Breyner794/barber-shop/internal/pkg/apperror"
	"github.com/Breyner794/barber-shop/internal/pkg/clock"
)

var (
	ErrNotFound        = apperror.New(http.StatusNotFound, apperror.KindNotFound, "site not found")
	ErrNameRequired    = apperror.New(http.StatusBadRequest, apperror.KindValidation, "name is required").WithField("name")
	ErrInvalidHours    = apperror.New(http.StatusBadRequest, apperror.KindValidation, "invalid operating hours")
	ErrInvalidTimezone = apperror.New(http.StatusBadRequest, apperror.KindValidation, "unknown timezone").WithField("timezone")
	ErrInUse           = apperror.New(http.StatusConflict, apperror.KindConflict, "site still has barbers or reservations")
)

// Site is a physical barbershop branch.
type Site struct {
	ID        string
	Name      string
	Address   string
	Phone     string
	Timezone  string // IANA name, empty uses the deployment default
	Hours     OperatingHours
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DayHours opens the site on a weekday between Open and Close.
type DayHours struct {
	Weekday time.Weekday    `json:"weekday"`
	Open    clock.TimeOfDay `json:"open"`
	Close   clock.TimeOfDay `json:"close"`
}

// DateOverride replaces the weekly rule for a single date, e.g. a holiday.
type DateOverride struct {
	Date   clock.Date      `json:"date"`
	Closed bool            `json:"closed"`
	Open   clock.TimeOfDay `json:"open,omitempty"`
	Close  clock.TimeOfDay `json:"close,omitempty"`
}

// OperatingHours is a weekly rule plus per-date overrides.
// A weekday missing from Weekly means the site is closed that day.
type OperatingHours struct {
	Weekly    []DayHours     `json:"weekly"`
	Overrides []DateOverride `json:"overrides,omitempty"`
}

// Window is the open interval of a site on one date.
type Window struct {
	Open  time.Time
	Close time.Time
}

// SiteFilter defines parameters for listing sites.
type SiteFilter struct {
	Keyword  string // Search in Name or Address
	Page     int
	PageSize int
}
