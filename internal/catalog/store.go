// Package catalog is the read side of the site, barber and service
// directory used by availability and booking.
package catalog

import (
	"context"

	"github.com/Breyner794/barber-shop/internal/barber"
	"github.com/Breyner794/barber-shop/internal/offering"
	"github.com/Breyner794/barber-shop/internal/site"
)

// Store resolves catalog entities by id. Unknown ids return the owning
// package's ErrNotFound.
type Store interface {
	GetSite(ctx context.Context, id string) (*site.Site, error)
	GetResource(ctx context.Context, id string) (*barber.Barber, error)
	ListResourcesBySite(ctx context.Context, siteID string) ([]*barber.Barber, error)
	GetService(ctx context.Context, id string) (*offering.Offering, error)
}

type serviceStore struct {
	sites     site.Service
	barbers   barber.Service
	offerings offering.Service
}

// NewStore composes the catalog services into a Store.
func NewStore(sites site.Service, barbers barber.Service, offerings offering.Service) Store {
	return &serviceStore{sites: sites, barbers: barbers, offerings: offerings}
}

func (s *serviceStore) GetSite(ctx context.Context, id string) (*site.Site, error) {
	return s.sites.GetByID(ctx, id)
}

func (s *serviceStore) GetResource(ctx context.Context, id string) (*barber.Barber, error) {
	return s.barbers.GetByID(ctx, id)
}

func (s *serviceStore) ListResourcesBySite(ctx context.Context, siteID string) ([]*barber.Barber, error) {
	return s.barbers.ListBySite(ctx, siteID)
}

func (s *serviceStore) GetService(ctx context.Context, id string) (*offering.Offering, error) {
	return s.offerings.GetByID(ctx, id)
}
