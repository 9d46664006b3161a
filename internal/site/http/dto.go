package http

import (
	"fmt"
	"time"

	"github.com/Breyner794/barber-shop/internal/pkg/clock"
	"github.com/Breyner794/barber-shop/internal/pkg/request"
	"github.com/Breyner794/barber-shop/internal/site"
)

// ListSitesRequest defines query parameters for listing sites.
type ListSitesRequest struct {
	request.ListParams
	Q string `form:"q"`
}

type DayHoursBody struct {
	Weekday int    `json:"weekday" binding:"min=0,max=6"`
	Open    string `json:"open" binding:"required"`
	Close   string `json:"close" binding:"required"`
}

type DateOverrideBody struct {
	Date   string `json:"date" binding:"required"`
	Closed bool   `json:"closed"`
	Open   string `json:"open"`
	Close  string `json:"close"`
}

type HoursBody struct {
	Weekly    []DayHoursBody     `json:"weekly" binding:"dive"`
	Overrides []DateOverrideBody `json:"overrides" binding:"dive"`
}

// ToDomain parses the wire format. The returned string names the offending field.
func (b *HoursBody) ToDomain() (site.OperatingHours, string, error) {
	var h site.OperatingHours
	for i, d := range b.Weekly {
		open, err := clock.ParseTimeOfDay(d.Open)
		if err != nil {
			return h, fmt.Sprintf("hours.weekly[%d].open", i), err
		}
		closeAt, err := clock.ParseTimeOfDay(d.Close)
		if err != nil {
			return h, fmt.Sprintf("hours.weekly[%d].close", i), err
		}
		h.Weekly = append(h.Weekly, site.DayHours{Weekday: time.Weekday(d.Weekday), Open: open, Close: closeAt})
	}

	for i, o := range b.Overrides {
		date, err := clock.ParseDate(o.Date)
		if err != nil {
			return h, fmt.Sprintf("hours.overrides[%d].date", i), err
		}
		ov := site.DateOverride{Date: date, Closed: o.Closed}
		if !o.Closed {
			if ov.Open, err = clock.ParseTimeOfDay(o.Open); err != nil {
				return h, fmt.Sprintf("hours.overrides[%d].open", i), err
			}
			if ov.Close, err = clock.ParseTimeOfDay(o.Close); err != nil {
				return h, fmt.Sprintf("hours.overrides[%d].close", i), err
			}
		}
		h.Overrides = append(h.Overrides, ov)
	}
	return h, "", nil
}

type CreateSiteRequest struct {
	Name     string    `json:"name" binding:"required"`
	Address  string    `json:"address"`
	Phone    string    `json:"phone"`
	Timezone string    `json:"timezone"`
	Hours    HoursBody `json:"hours"`
}

type UpdateSiteRequest struct {
	Name     *string    `json:"name"`
	Address  *string    `json:"address"`
	Phone    *string    `json:"phone"`
	Timezone *string    `json:"timezone"`
	Hours    *HoursBody `json:"hours"`
}

type SiteResponse struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Address   string              `json:"address"`
	Phone     string              `json:"phone"`
	Timezone  string              `json:"timezone,omitempty"`
	Hours     site.OperatingHours `json:"hours"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

func NewSiteResponse(s *site.Site) SiteResponse {
	hours := s.Hours
	if hours.Weekly == nil {
		hours.Weekly = []site.DayHours{}
	}
	return SiteResponse{
		ID:        s.ID,
		Name:      s.Name,
		Address:   s.Address,
		Phone:     s.Phone,
		Timezone:  s.Timezone,
		Hours:     hours,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// SiteTag is the short form embedded in other responses.
type SiteTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
