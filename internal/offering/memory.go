package offering

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
	mu        sync.RWMutex
	offerings map[string]*Offering
}

// NewMemoryRepository returns a Repository kept in process memory.
func NewMemoryRepository() Repository {
	return &memoryRepository{offerings: make(map[string]*Offering)}
}

func clone(o *Offering) *Offering {
	cp := *o
	cp.Includes = slices.Clone(o.Includes)
	return &cp
}

func (r *memoryRepository) Create(ctx context.Context, o *Offering) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	o.ID = uuid.NewString()
	o.CreatedAt = now
	o.UpdatedAt = now
	r.offerings[o.ID] = clone(o)
	return nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id string) (*Offering, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.offerings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(o), nil
}

func (r *memoryRepository) List(ctx context.Context, filter Filter) ([]*Offering, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*Offering
	for _, o := range r.offerings {
		if filter.Active != nil && o.Active != *filter.Active {
			continue
		}
		matched = append(matched, clone(o))
	}
	slices.SortFunc(matched, func(a, b *Offering) int { return strings.Compare(a.Title, b.Title) })

	return request.Paginate(matched, filter.Page, filter.PageSize), len(matched), nil
}

func (r *memoryRepository) Update(ctx context.Context, o *Offering) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.offerings[o.ID]; !ok {
		return ErrNotFound
	}
	o.UpdatedAt = time.Now().UTC()
	r.offerings[o.ID] = clone(o)
	return nil
}

func (r *memoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.offerings[id]; !ok {
		return ErrNotFound
	}
	delete(r.offerings, id)
	return nil
}
