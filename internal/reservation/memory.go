package reservation

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Breyner794/barber-shop/internal/pkg/keylock"
	"github.com/Breyner794/barber-shop/internal/pkg/request"
)

type memoryRepository struct {
	locks *keylock.Locker

	mu    sync.RWMutex
	items map[string]Reservation
}

// NewMemoryRepository returns a Repository kept in process memory. Atomic
// sections are serialized with per-key mutexes.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		locks: keylock.New(),
		items: make(map[string]Reservation),
	}
}

func byStart(a, b *Reservation) int {
	if c := a.StartTime.Compare(b.StartTime); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

func (m *memoryRepository) GetByID(ctx context.Context, id string) (*Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (m *memoryRepository) matches(r *Reservation, f Filter) bool {
	if f.ResourceID != "" && r.ResourceID != f.ResourceID {
		return false
	}
	if f.SiteID != "" && r.SiteID != f.SiteID {
		return false
	}
	if f.ServiceID != "" && r.ServiceID != f.ServiceID {
		return false
	}
	if len(f.States) > 0 && !slices.Contains(f.States, r.State) {
		return false
	}
	if f.From != nil && r.StartTime.Before(*f.From) {
		return false
	}
	if f.To != nil && !r.StartTime.Before(*f.To) {
		return false
	}
	return true
}

func (m *memoryRepository) List(ctx context.Context, filter Filter) ([]*Reservation, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []*Reservation
	for _, r := range m.items {
		if m.matches(&r, filter) {
			matched = append(matched, &r)
		}
	}
	slices.SortFunc(matched, byStart)

	return request.Paginate(matched, filter.Page, filter.PageSize), len(matched), nil
}

func (m *memoryRepository) overlapping(resourceID string, from, to time.Time, activeOnly bool, excludeID string) []*Reservation {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Reservation
	for _, r := range m.items {
		if r.ResourceID != resourceID || r.ID == excludeID {
			continue
		}
		if activeOnly && !r.State.Active() {
			continue
		}
		if r.StartTime.Before(to) && r.EndTime.After(from) {
			out = append(out, &r)
		}
	}
	slices.SortFunc(out, byStart)
	return out
}

func (m *memoryRepository) ListByResource(ctx context.Context, resourceID string, from, to time.Time, activeOnly bool) ([]*Reservation, error) {
	return m.overlapping(resourceID, from, to, activeOnly, ""), nil
}

func (m *memoryRepository) Atomic(ctx context.Context, keys []string, fn func(ctx context.Context, tx Tx) error) error {
	unlock := m.locks.Lock(keys...)
	defer unlock()
	return fn(ctx, memoryTx{m})
}

// memoryTx applies writes immediately. Callers perform every check before
// their single write, so there is nothing to roll back.
type memoryTx struct {
	m *memoryRepository
}

func (t memoryTx) GetByID(ctx context.Context, id string) (*Reservation, error) {
	return t.m.GetByID(ctx, id)
}

func (t memoryTx) ActiveOverlapping(ctx context.Context, resourceID string, from, to time.Time, excludeID string) ([]*Reservation, error) {
	return t.m.overlapping(resourceID, from, to, true, excludeID), nil
}

func (t memoryTx) Create(ctx context.Context, r *Reservation) error {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	t.m.items[r.ID] = *r
	return nil
}

func (t memoryTx) Update(ctx context.Context, r *Reservation) error {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	if _, ok := t.m.items[r.ID]; !ok {
		return ErrNotFound
	}
	t.m.items[r.ID] = *r
	return nil
}

func (t memoryTx) Delete(ctx context.Context, id string) error {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	if _, ok := t.m.items[id]; !ok {
		return ErrNotFound
	}
	delete(t.m.items, id)
	return nil
}
