package barber

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
	mu      sync.RWMutex
	barbers map[string]*Barber
}

// NewMemoryRepository returns a Repository kept in process memory.
func NewMemoryRepository() Repository {
	return &memoryRepository{barbers: make(map[string]*Barber)}
}

func clone(b *Barber) *Barber {
	cp := *b
	if b.PhotoFileID != nil {
		id := *b.PhotoFileID
		cp.PhotoFileID = &id
	}
	return &cp
}

func byName(a, b *Barber) int {
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

func (r *memoryRepository) Create(ctx context.Context, b *Barber) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	b.ID = uuid.NewString()
	b.CreatedAt = now
	b.UpdatedAt = now
	r.barbers[b.ID] = clone(b)
	return nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id string) (*Barber, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.barbers[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(b), nil
}

func (r *memoryRepository) List(ctx context.Context, filter Filter) ([]*Barber, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name := strings.ToLower(filter.Name)
	var matched []*Barber
	for _, b := range r.barbers {
		if filter.SiteID != "" && b.SiteID != filter.SiteID {
			continue
		}
		if filter.Active != nil && b.Active != *filter.Active {
			continue
		}
		if name != "" && !strings.Contains(strings.ToLower(b.Name), name) {
			continue
		}
		matched = append(matched, clone(b))
	}
	slices.SortFunc(matched, byName)

	return request.Paginate(matched, filter.Page, filter.PageSize), len(matched), nil
}

func (r *memoryRepository) ListBySite(ctx context.Context, siteID string) ([]*Barber, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Barber
	for _, b := range r.barbers {
		if b.SiteID == siteID {
			out = append(out, clone(b))
		}
	}
	slices.SortFunc(out, byName)
	return out, nil
}

func (r *memoryRepository) Update(ctx context.Context, b *Barber) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.barbers[b.ID]; !ok {
		return ErrNotFound
	}
	b.UpdatedAt = time.Now().UTC()
	r.barbers[b.ID] = clone(b)
	return nil
}

func (r *memoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.barbers[id]; !ok {
		return ErrNotFound
	}
	delete(r.barbers, id)
	return nil
}
