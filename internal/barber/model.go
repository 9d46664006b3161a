package barber

import (
	"net/http"
	"time"

	"github.com/Breyner794/barber-shop/internal/pkg/apperror"
)

var (
	ErrNotFound    = apperror.New(http.StatusNotFound, apperror.KindNotFound, "barber not found")
	ErrEmptyName   = apperror.New(http.StatusBadRequest, apperror.KindValidation, "name cannot be empty").WithField("name")
	ErrInvalidSite = apperror.New(http.StatusUnprocessableEntity, apperror.KindInvalidReference, "site does not exist").WithField("site_id")
	ErrInUse       = apperror.New(http.StatusConflict, apperror.KindConflict, "barber still has reservations")
)

// Barber is the bookable resource. A barber works at most at one site.
type Barber struct {
	ID          string
	Name        string
	SiteID      string // empty when unassigned
	Active      bool
	PhotoFileID *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Bookable reports whether the barber can receive reservations at all.
func (b *Barber) Bookable() bool {
	return b.Active && b.SiteID != ""
}

// Filter defines parameters for listing barbers.
type Filter struct {
	SiteID   string
	Active   *bool
	Name     string
	Page     int
	PageSize int
}
