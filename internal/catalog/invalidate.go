package catalog

import (
	"context"

	"github.com/Breyner794/barber-shop/internal/barber"
	"github.com/Breyner794/barber-shop/internal/offering"
	"github.com/Breyner794/barber-shop/internal/site"
)

// Invalidator drops cached catalog entries after administrative writes.
type Invalidator interface {
	InvalidateSite(ctx context.Context, id string)
	InvalidateBarber(ctx context.Context, id string, siteIDs ...string)
	InvalidateOffering(ctx context.Context, id string)
}

type invalidatingSites struct {
	site.Service
	inv Invalidator
}

// WithSiteInvalidation wraps svc so that writes evict cached sites.
func WithSiteInvalidation(svc site.Service, inv Invalidator) site.Service {
	return &invalidatingSites{Service: svc, inv: inv}
}

func (s *invalidatingSites) Update(ctx context.Context, id string, req site.UpdateSiteRequest) (*site.Site, error) {
	st, err := s.Service.Update(ctx, id, req)
	if err == nil {
		s.inv.InvalidateSite(ctx, id)
	}
	return st, err
}

func (s *invalidatingSites) Delete(ctx context.Context, id string) error {
	err := s.Service.Delete(ctx, id)
	if err == nil {
		s.inv.InvalidateSite(ctx, id)
	}
	return err
}

type invalidatingBarbers struct {
	barber.Service
	inv Invalidator
}

// WithBarberInvalidation wraps svc so that writes evict cached barbers and
// the per-site barber lists they appear in.
func WithBarberInvalidation(svc barber.Service, inv Invalidator) barber.Service {
	return &invalidatingBarbers{Service: svc, inv: inv}
}

func (s *invalidatingBarbers) Create(ctx context.Context, req barber.CreateRequest) (*barber.Barber, error) {
	b, err := s.Service.Create(ctx, req)
	if err == nil {
		s.inv.InvalidateBarber(ctx, b.ID, b.SiteID)
	}
	return b, err
}

func (s *invalidatingBarbers) Update(ctx context.Context, id string, req barber.UpdateRequest) (*barber.Barber, error) {
	var oldSite string
	if prev, err := s.Service.GetByID(ctx, id); err == nil {
		oldSite = prev.SiteID
	}
	b, err := s.Service.Update(ctx, id, req)
	if err == nil {
		s.inv.InvalidateBarber(ctx, id, oldSite, b.SiteID)
	}
	return b, err
}

func (s *invalidatingBarbers) SetPhoto(ctx context.Context, id string, fileID string) error {
	err := s.Service.SetPhoto(ctx, id, fileID)
	if err == nil {
		var siteID string
		if b, err := s.Service.GetByID(ctx, id); err == nil {
			siteID = b.SiteID
		}
		s.inv.InvalidateBarber(ctx, id, siteID)
	}
	return err
}

func (s *invalidatingBarbers) Delete(ctx context.Context, id string) error {
	var siteID string
	if prev, err := s.Service.GetByID(ctx, id); err == nil {
		siteID = prev.SiteID
	}
	err := s.Service.Delete(ctx, id)
	if err == nil {
		s.inv.InvalidateBarber(ctx, id, siteID)
	}
	return err
}

type invalidatingOfferings struct {
	offering.Service
	inv Invalidator
}

// WithOfferingInvalidation wraps svc so that writes evict cached services.
func WithOfferingInvalidation(svc offering.Service, inv Invalidator) offering.Service {
	return &invalidatingOfferings{Service: svc, inv: inv}
}

func (s *invalidatingOfferings) Update(ctx context.Context, id string, req offering.UpdateRequest) (*offering.Offering, error) {
	o, err := s.Service.Update(ctx, id, req)
	if err == nil {
		s.inv.InvalidateOffering(ctx, id)
	}
	return o, err
}

func (s *invalidatingOfferings) Delete(ctx context.Context, id string) error {
	err := s.Service.Delete(ctx, id)
	if err == nil {
		s.inv.InvalidateOffering(ctx, id)
	}
	return err
}
