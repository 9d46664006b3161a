package barber

import (
	"context"
	"errors"
	"strings"

	"github.com/Breyner794/barber-shop/internal/site"
)

type CreateRequest struct {
	Name   string
	SiteID string
	Active bool
}

// UpdateRequest carries a partial update. An empty SiteID unassigns the barber.
type UpdateRequest struct {
	Name   *string
	SiteID *string
	Active *bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Barber, error)
	GetByID(ctx context.Context, id string) (*Barber, error)
	List(ctx context.Context, filter Filter) ([]*Barber, int, error)
	ListBySite(ctx context.Context, siteID string) ([]*Barber, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Barber, error)
	SetPhoto(ctx context.Context, id string, fileID string) error
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo        Repository
	siteService site.Service
}

func NewService(repo Repository, siteService site.Service) Service {
	return &service{
		repo:        repo,
		siteService: siteService,
	}
}

func (s *service) checkSite(ctx context.Context, siteID string) error {
	if siteID == "" {
		return nil
	}
	if _, err := s.siteService.GetByID(ctx, siteID); err != nil {
		if errors.Is(err, site.ErrNotFound) {
			return ErrInvalidSite
		}
		return err
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Barber, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrEmptyName
	}

	// Validation: Check if Site exists
	if err := s.checkSite(ctx, req.SiteID); err != nil {
		return nil, err
	}

	b := &Barber{
		Name:   name,
		SiteID: req.SiteID,
		Active: req.Active,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Barber, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Barber, int, error) {
	return s.repo.List(ctx, filter)
}

// ListBySite returns every barber assigned to the site, active or not.
func (s *service) ListBySite(ctx context.Context, siteID string) ([]*Barber, error) {
	if _, err := s.siteService.GetByID(ctx, siteID); err != nil {
		return nil, err
	}
	return s.repo.ListBySite(ctx, siteID)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Barber, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrEmptyName
		}
		b.Name = name
	}
	if req.SiteID != nil {
		if err := s.checkSite(ctx, *req.SiteID); err != nil {
			return nil, err
		}
		b.SiteID = *req.SiteID
	}
	if req.Active != nil {
		b.Active = *req.Active
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) SetPhoto(ctx context.Context, id string, fileID string) error {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	b.PhotoFileID = &fileID
	return s.repo.Update(ctx, b)
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
