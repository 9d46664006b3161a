package site

import (
	"context"
	"strings"
	"time"
)

// CreateSiteRequest carries data to create a site.
type CreateSiteRequest struct {
	Name     string
	Address  string
	Phone    string
	Timezone string
	Hours    OperatingHours
}

// UpdateSiteRequest carries data for partial updates.
type UpdateSiteRequest struct {
	Name     *string
	Address  *string
	Phone    *string
	Timezone *string
	Hours    *OperatingHours
}

type Service interface {
	Create(ctx context.Context, req CreateSiteRequest) (*Site, error)
	GetByID(ctx context.Context, id string) (*Site, error)
	List(ctx context.Context, filter SiteFilter) ([]*Site, int, error)
	Update(ctx context.Context, id string, req UpdateSiteRequest) (*Site, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// validateSite checks the logical rules for a Site struct.
func validateSite(s *Site) error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrNameRequired
	}
	if s.Timezone != "" {
		if _, err := time.LoadLocation(s.Timezone); err != nil {
			return ErrInvalidTimezone
		}
	}
	return s.Hours.Validate()
}

func (s *service) Create(ctx context.Context, req CreateSiteRequest) (*Site, error) {
	st := &Site{
		Name:     strings.TrimSpace(req.Name),
		Address:  req.Address,
		Phone:    req.Phone,
		Timezone: req.Timezone,
		Hours:    req.Hours,
	}

	if err := validateSite(st); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Site, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter SiteFilter) ([]*Site, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateSiteRequest) (*Site, error) {
	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Apply non-nil fields
	if req.Name != nil {
		st.Name = strings.TrimSpace(*req.Name)
	}
	if req.Address != nil {
		st.Address = *req.Address
	}
	if req.Phone != nil {
		st.Phone = *req.Phone
	}
	if req.Timezone != nil {
		st.Timezone = *req.Timezone
	}
	if req.Hours != nil {
		st.Hours = *req.Hours
	}

	if err := validateSite(st); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
