package site

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Breyner794/barber-shop/internal/pkg/request"
)

type memoryRepository struct {
	mu    sync.RWMutex
	sites map[string]*Site
}

// NewMemoryRepository returns a Repository kept in process memory.
func NewMemoryRepository() Repository {
	return &memoryRepository{sites: make(map[string]*Site)}
}

func clone(s *Site) *Site {
	cp := *s
	cp.Hours.Weekly = slices.Clone(s.Hours.Weekly)
	cp.Hours.Overrides = slices.Clone(s.Hours.Overrides)
	return &cp
}

func (r *memoryRepository) Create(ctx context.Context, s *Site) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	s.ID = uuid.NewString()
	s.CreatedAt = now
	s.UpdatedAt = now
	r.sites[s.ID] = clone(s)
	return nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id string) (*Site, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sites[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(s), nil
}

func (r *memoryRepository) List(ctx context.Context, filter SiteFilter) ([]*Site, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kw := strings.ToLower(filter.Keyword)
	var matched []*Site
	for _, s := range r.sites {
		if kw != "" && !strings.Contains(strings.ToLower(s.Name), kw) && !strings.Contains(strings.ToLower(s.Address), kw) {
			continue
		}
		matched = append(matched, clone(s))
	}
	slices.SortFunc(matched, func(a, b *Site) int { return strings.Compare(a.Name, b.Name) })

	return request.Paginate(matched, filter.Page, filter.PageSize), len(matched), nil
}

func (r *memoryRepository) Update(ctx context.Context, s *Site) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sites[s.ID]; !ok {
		return ErrNotFound
	}
	s.UpdatedAt = time.Now().UTC()
	r.sites[s.ID] = clone(s)
	return nil
}

func (r *memoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sites[id]; !ok {
		return ErrNotFound
	}
	delete(r.sites, id)
	return nil
}
