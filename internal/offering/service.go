package offering

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

type CreateRequest struct {
	Title           string
	DurationMinutes int
	Price           decimal.Decimal
	Includes        []string
	Active          bool
}

type UpdateRequest struct {
	Title           *string
	DurationMinutes *int
	Price           *decimal.Decimal
	Includes        *[]string
	Active          *bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Offering, error)
	GetByID(ctx context.Context, id string) (*Offering, error)
	List(ctx context.Context, filter Filter) ([]*Offering, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Offering, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func validate(o *Offering) error {
	if o.Title == "" {
		return ErrTitleRequired
	}
	if o.DurationMinutes <= 0 {
		return ErrInvalidDuration
	}
	if o.Price.IsNegative() {
		return ErrInvalidPrice
	}
	return nil
}

func cleanIncludes(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Offering, error) {
	o := &Offering{
		Title:           strings.TrimSpace(req.Title),
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		Includes:        cleanIncludes(req.Includes),
		Active:          req.Active,
	}
	if err := validate(o); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Offering, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Offering, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Offering, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		o.Title = strings.TrimSpace(*req.Title)
	}
	if req.DurationMinutes != nil {
		o.DurationMinutes = *req.DurationMinutes
	}
	if req.Price != nil {
		o.Price = *req.Price
	}
	if req.Includes != nil {
		o.Includes = cleanIncludes(*req.Includes)
	}
	if req.Active != nil {
		o.Active = *req.Active
	}
	if err := validate(o); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
