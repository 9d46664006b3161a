package http

import (
	"time"

	"github.com/Breyner794/barber-shop/internal/barber"
	"github.com/Breyner794/barber-shop/internal/file"
	"github.com/Breyner794/barber-shop/internal/pkg/request"
)

type ListBarbersRequest struct {
	request.ListParams
	SiteID string `form:"site_id" binding:"omitempty,uuid"`
	Active *bool  `form:"active"`
	Name   string `form:"name"`
}

type CreateBarberRequest struct {
	Name   string `json:"name" binding:"required"`
	SiteID string `json:"site_id" binding:"omitempty,uuid"`
	Active *bool  `json:"active"`
}

type UpdateBarberRequest struct {
	Name   *string `json:"name"`
	SiteID *string `json:"site_id"`
	Active *bool   `json:"active"`
}

type BarberResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	SiteID       *string   `json:"site_id"`
	Active       bool      `json:"active"`
	PhotoURL     *string   `json:"photo_url"`
	ThumbnailURL *string   `json:"thumbnail_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewBarberResponse(b *barber.Barber) BarberResponse {
	resp := BarberResponse{
		ID:        b.ID,
		Name:      b.Name,
		Active:    b.Active,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
	if b.SiteID != "" {
		siteID := b.SiteID
		resp.SiteID = &siteID
	}
	if b.PhotoFileID != nil {
		photo := file.FileURL(*b.PhotoFileID)
		thumb := file.ThumbnailURL(*b.PhotoFileID)
		resp.PhotoURL = &photo
		resp.ThumbnailURL = &thumb
	}
	return resp
}
