package http

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Breyner794/barber-shop/internal/offering"
	"github.com/Breyner794/barber-shop/internal/pkg/request"
)

type ListOfferingsRequest struct {
	request.ListParams
	Active *bool `form:"active"`
}

// Price accepts both JSON numbers and strings, e.g. 25000 or "25000.50".
type CreateOfferingRequest struct {
	Title           string          `json:"title" binding:"required"`
	DurationMinutes int             `json:"duration_minutes" binding:"required,min=1"`
	Price           decimal.Decimal `json:"price"`
	Includes        []string        `json:"includes"`
	Active          *bool           `json:"active"`
}

type UpdateOfferingRequest struct {
	Title           *string          `json:"title"`
	DurationMinutes *int             `json:"duration_minutes" binding:"omitempty,min=1"`
	Price           *decimal.Decimal `json:"price"`
	Includes        *[]string        `json:"includes"`
	Active          *bool            `json:"active"`
}

type OfferingResponse struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	DurationMinutes int             `json:"duration_minutes"`
	Price           decimal.Decimal `json:"price"`
	Includes        []string        `json:"includes"`
	Active          bool            `json:"active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func NewOfferingResponse(o *offering.Offering) OfferingResponse {
	includes := o.Includes
	if includes == nil {
		includes = []string{}
	}
	return OfferingResponse{
		ID:              o.ID,
		Title:           o.Title,
		DurationMinutes: o.DurationMinutes,
		Price:           o.Price,
		Includes:        includes,
		Active:          o.Active,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}
