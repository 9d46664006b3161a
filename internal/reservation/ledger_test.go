package reservation

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Breyner794/barber-shop/internal/availability"
	"github.com/Breyner794/barber-shop/internal/barber"
	"github.com/Breyner794/barber-shop/internal/catalog"
	"github.com/Breyner794/barber-shop/internal/offering"
	"github.com/Breyner794/barber-shop/internal/pkg/apperror"
	"github.com/Breyner794/barber-shop/internal/pkg/clock"
	"github.com/Breyner794/barber-shop/internal/site"
)

var (
	monday = clock.Date{Year: 2025, Month: time.June, Day: 2}
	sunday = clock.Date{Year: 2025, Month: time.June, Day: 1}
)

type recordingObserver struct {
	mu          sync.Mutex
	created     int
	conflicts   int
	transitions []State
	removed     int
}

func (o *recordingObserver) Created(*Reservation) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.created++
}

func (o *recordingObserver) Conflict(string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.conflicts++
}

func (o *recordingObserver) Transitioned(_, to State) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.transitions = append(o.transitions, to)
}

func (o *recordingObserver) Removed() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.removed++
}

type fixture struct {
	ledger   *Ledger
	store    catalog.Store
	observer *recordingObserver
	loc      *time.Location

	compartir string
	centro    string
	carlos    string
	andres    string // works at Centro
	inactive  string
	corte     string
	barba     string // 45 minutes
	retired   string // inactive service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	loc, err := time.LoadLocation("America/Bogota")
	require.NoError(t, err)

	sites := site.NewService(site.NewMemoryRepository())
	barbers := barber.NewService(barber.NewMemoryRepository(), sites)
	offerings := offering.NewService(offering.NewMemoryRepository())

	var weekly []site.DayHours
	for wd := time.Monday; wd <= time.Saturday; wd++ {
		weekly = append(weekly, site.DayHours{Weekday: wd, Open: 9 * 60, Close: 19 * 60})
	}
	hours := site.OperatingHours{Weekly: weekly}

	compartir, err := sites.Create(ctx, site.CreateSiteRequest{Name: "Compartir", Timezone: "America/Bogota", Hours: hours})
	require.NoError(t, err)
	centro, err := sites.Create(ctx, site.CreateSiteRequest{Name: "Centro", Timezone: "America/Bogota", Hours: hours})
	require.NoError(t, err)

	carlos, err := barbers.Create(ctx, barber.CreateRequest{Name: "Carlos", SiteID: compartir.ID, Active: true})
	require.NoError(t, err)
	andres, err := barbers.Create(ctx, barber.CreateRequest{Name: "Andres", SiteID: centro.ID, Active: true})
	require.NoError(t, err)
	inactive, err := barbers.Create(ctx, barber.CreateRequest{Name: "Luis", SiteID: compartir.ID})
	require.NoError(t, err)

	corte, err := offerings.Create(ctx, offering.CreateRequest{Title: "Corte", DurationMinutes: 30, Active: true})
	require.NoError(t, err)
	barba, err := offerings.Create(ctx, offering.CreateRequest{Title: "Barba", DurationMinutes: 45, Active: true})
	require.NoError(t, err)
	retired, err := offerings.Create(ctx, offering.CreateRequest{Title: "Tinte", DurationMinutes: 60})
	require.NoError(t, err)

	store := catalog.NewStore(sites, barbers, offerings)
	obs := &recordingObserver{}
	ledger := NewLedger(NewMemoryRepository(), store, Options{
		Clock:    clock.Fixed(time.Date(2025, time.June, 1, 12, 0, 0, 0, loc)),
		Observer: obs,
	})

	return &fixture{
		ledger:    ledger,
		store:     store,
		observer:  obs,
		loc:       loc,
		compartir: compartir.ID,
		centro:    centro.ID,
		carlos:    carlos.ID,
		andres:    andres.ID,
		inactive:  inactive.ID,
		corte:     corte.ID,
		barba:     barba.ID,
		retired:   retired.ID,
	}
}

func hour(t *testing.T, s string) clock.TimeOfDay {
	t.Helper()
	tod, err := clock.ParseTimeOfDay(s)
	require.NoError(t, err)
	return tod
}

func (f *fixture) draft(t *testing.T, at string) Draft {
	return Draft{
		Customer:   Customer{Name: "Juan", Phone: "3001234567"},
		ServiceID:  f.corte,
		SiteID:     f.compartir,
		ResourceID: f.carlos,
		Date:       monday,
		Start:      hour(t, at),
	}
}

func TestCreateRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d := f.draft(t, "10:00")
	d.Customer.Email = "juan@example.com"
	created, err := f.ledger.Create(ctx, d)
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, StatePending, created.State)
	assert.Equal(t, time.Date(2025, time.June, 2, 10, 0, 0, 0, f.loc).UTC(), created.StartTime)
	assert.Equal(t, time.Date(2025, time.June, 2, 10, 30, 0, 0, f.loc).UTC(), created.EndTime)

	got, err := f.ledger.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Equal(t, 1, f.observer.created)
}

func TestCompartirScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	engine := availability.NewEngine(f.store, f.ledger, availability.Config{})
	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, f.loc)

	slots, err := engine.Compute(ctx, f.carlos, monday, f.corte, now)
	require.NoError(t, err)
	assert.Len(t, slots, 20)

	_, err = f.ledger.Create(ctx, f.draft(t, "10:00"))
	require.NoError(t, err)

	slots, err = engine.Compute(ctx, f.carlos, monday, f.corte, now)
	require.NoError(t, err)
	assert.Len(t, slots, 19)
	ten := time.Date(2025, time.June, 2, 10, 0, 0, 0, f.loc)
	for _, s := range slots {
		assert.False(t, s.Start.Equal(ten), "10:00 must be gone")
	}

	_, err = f.ledger.Create(ctx, f.draft(t, "10:00"))
	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.Equal(t, 1, f.observer.conflicts)
}

func TestQuotedSlotsAreBookable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	engine := availability.NewEngine(f.store, f.ledger, availability.Config{Granularity: 15 * time.Minute})
	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, f.loc)

	_, err := f.ledger.Create(ctx, f.draft(t, "12:00"))
	require.NoError(t, err)

	slots, err := engine.Compute(ctx, f.carlos, monday, f.barba, now)
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	for _, s := range []availability.Slot{slots[0], slots[len(slots)-1]} {
		d := f.draft(t, "09:00")
		d.ServiceID = f.barba
		d.Start = clock.TimeOfDayOf(s.Start.In(f.loc))
		r, err := f.ledger.Create(ctx, d)
		require.NoError(t, err)
		assert.True(t, s.End.Equal(r.EndTime))
	}
}

func TestOverlapBoundaries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ledger.Create(ctx, f.draft(t, "10:00"))
	require.NoError(t, err)

	_, err = f.ledger.Create(ctx, f.draft(t, "10:15"))
	assert.ErrorIs(t, err, ErrSlotConflict)

	_, err = f.ledger.Create(ctx, f.draft(t, "09:45"))
	assert.ErrorIs(t, err, ErrSlotConflict)

	_, err = f.ledger.Create(ctx, f.draft(t, "10:30"))
	assert.NoError(t, err, "touching intervals do not overlap")

	_, err = f.ledger.Create(ctx, f.draft(t, "09:30"))
	assert.NoError(t, err, "touching intervals do not overlap")

	other := f.draft(t, "10:00")
	other.SiteID = f.centro
	other.ResourceID = f.andres
	_, err = f.ledger.Create(ctx, other)
	assert.NoError(t, err, "other barbers are independent")
}

func TestCreateRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(d *Draft)
		kind   apperror.Kind
		field  string
		target error
	}{
		{"unknown site", func(d *Draft) { d.SiteID = "missing" }, apperror.KindInvalidReference, "site_id", ErrInvalidReference},
		{"unknown barber", func(d *Draft) { d.ResourceID = "missing" }, apperror.KindInvalidReference, "resource_id", ErrInvalidReference},
		{"unknown service", func(d *Draft) { d.ServiceID = "missing" }, apperror.KindInvalidReference, "service_id", ErrInvalidReference},
		{"barber at another site", func(d *Draft) { d.ResourceID = f.andres }, apperror.KindInvalidReference, "resource_id", ErrResourceNotAtSite},
		{"inactive barber", func(d *Draft) { d.ResourceID = f.inactive }, apperror.KindInvalidReference, "resource_id", ErrResourceInactive},
		{"inactive service", func(d *Draft) { d.ServiceID = f.retired }, apperror.KindInvalidReference, "service_id", ErrServiceInactive},
		{"before opening", func(d *Draft) { d.Start = 8*60 + 30 }, apperror.KindValidation, "hour", ErrOutsideHours},
		{"runs past closing", func(d *Draft) { d.Start = 18*60 + 45 }, apperror.KindValidation, "hour", ErrOutsideHours},
		{"closed day", func(d *Draft) { d.Date = monday.AddDays(6) }, apperror.KindValidation, "hour", ErrOutsideHours},
		{"already started", func(d *Draft) { d.Date = sunday.AddDays(-1) }, apperror.KindValidation, "hour", ErrStartInPast},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := f.draft(t, "10:00")
			tt.mutate(&d)

			_, err := f.ledger.Create(ctx, d)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)

			var appErr *apperror.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tt.kind, appErr.Kind)
			assert.Equal(t, tt.field, appErr.Field)
		})
	}

	items, total, err := f.ledger.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, total)
}

func TestLastSlotOfDayFits(t *testing.T) {
	f := newFixture(t)

	_, err := f.ledger.Create(context.Background(), f.draft(t, "18:30"))
	assert.NoError(t, err)
}

// drive moves a fresh reservation into state s along allowed edges.
func drive(t *testing.T, l *Ledger, id string, s State) {
	t.Helper()
	ctx := context.Background()
	var path []State
	switch s {
	case StateConfirmed:
		path = []State{StateConfirmed}
	case StateCompleted:
		path = []State{StateConfirmed, StateCompleted}
	case StateCancelled:
		path = []State{StateCancelled}
	}
	for _, next := range path {
		_, err := l.Transition(ctx, id, next)
		require.NoError(t, err)
	}
}

func TestStateMachineClosure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	allowed := map[[2]State]bool{
		{StatePending, StateConfirmed}:   true,
		{StatePending, StateCancelled}:   true,
		{StateConfirmed, StateCompleted}: true,
		{StateConfirmed, StateCancelled}: true,
	}

	slot := 9 * 60
	succeeded := 0
	for _, from := range States {
		for _, to := range States {
			d := f.draft(t, "09:00")
			d.Start = clock.TimeOfDay(slot)
			slot += 30

			r, err := f.ledger.Create(ctx, d)
			require.NoError(t, err)
			drive(t, f.ledger, r.ID, from)

			got, err := f.ledger.Transition(ctx, r.ID, to)
			if allowed[[2]State{from, to}] {
				require.NoError(t, err, "%s -> %s", from, to)
				assert.Equal(t, to, got.State)
				succeeded++
				continue
			}
			assert.ErrorIs(t, err, ErrInvalidTransition, "%s -> %s", from, to)
			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperror.KindInvalidTransition, appErr.Kind)

			unchanged, err := f.ledger.Get(ctx, r.ID)
			require.NoError(t, err)
			assert.Equal(t, from, unchanged.State)
		}
	}
	assert.Equal(t, 4, succeeded)
}

func TestTransitionUnknown(t *testing.T) {
	f := newFixture(t)

	_, err := f.ledger.Transition(context.Background(), "missing", StateConfirmed)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancelledFreesSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	r, err := f.ledger.Create(ctx, f.draft(t, "10:00"))
	require.NoError(t, err)
	_, err = f.ledger.Transition(ctx, r.ID, StateCancelled)
	require.NoError(t, err)

	from := time.Date(2025, time.June, 2, 0, 0, 0, 0, f.loc)
	busy, err := f.ledger.ActiveIntervals(ctx, f.carlos, from, from.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, busy)

	all, err := f.ledger.ListByResource(ctx, f.carlos, from, from.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Len(t, all, 1, "cancelled reservations stay listed")

	_, err = f.ledger.Create(ctx, f.draft(t, "10:00"))
	assert.NoError(t, err)
	assert.Equal(t, []State{StateCancelled}, f.observer.transitions)
}

func TestUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	r, err := f.ledger.Create(ctx, f.draft(t, "10:00"))
	require.NoError(t, err)
	blocker, err := f.ledger.Create(ctx, f.draft(t, "11:00"))
	require.NoError(t, err)

	t.Run("overlapping its own slot", func(t *testing.T) {
		d := f.draft(t, "10:15")
		updated, err := f.ledger.Update(ctx, r.ID, d)
		require.NoError(t, err)
		assert.Equal(t, StatePending, updated.State)
		assert.Equal(t, time.Date(2025, time.June, 2, 10, 45, 0, 0, f.loc).UTC(), updated.EndTime)
	})

	t.Run("onto another reservation", func(t *testing.T) {
		_, err := f.ledger.Update(ctx, r.ID, f.draft(t, "10:45"))
		assert.ErrorIs(t, err, ErrSlotConflict)

		kept, err := f.ledger.Get(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, time.June, 2, 10, 15, 0, 0, f.loc).UTC(), kept.StartTime)
	})

	t.Run("to another site and barber", func(t *testing.T) {
		d := f.draft(t, "11:00")
		d.SiteID = f.centro
		d.ResourceID = f.andres
		d.Customer.Name = "Pedro"
		updated, err := f.ledger.Update(ctx, r.ID, d)
		require.NoError(t, err)
		assert.Equal(t, f.andres, updated.ResourceID)
		assert.Equal(t, f.centro, updated.SiteID)
		assert.Equal(t, "Pedro", updated.Customer.Name)

		_, err = f.ledger.Create(ctx, f.draft(t, "10:15"))
		assert.NoError(t, err, "old slot is free again")
	})

	t.Run("barber not at site", func(t *testing.T) {
		d := f.draft(t, "15:00")
		d.ResourceID = f.andres
		_, err := f.ledger.Update(ctx, r.ID, d)
		assert.ErrorIs(t, err, ErrResourceNotAtSite)
	})

	t.Run("terminal reservation", func(t *testing.T) {
		_, err := f.ledger.Transition(ctx, blocker.ID, StateCancelled)
		require.NoError(t, err)
		_, err = f.ledger.Update(ctx, blocker.ID, f.draft(t, "16:00"))
		assert.ErrorIs(t, err, ErrNotEditable)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := f.ledger.Update(ctx, "missing", f.draft(t, "16:00"))
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestUpdateAfterStart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	repo := NewMemoryRepository()
	before := NewLedger(repo, f.store, Options{Clock: clock.Fixed(time.Date(2025, time.June, 1, 12, 0, 0, 0, f.loc))})
	during := NewLedger(repo, f.store, Options{Clock: clock.Fixed(time.Date(2025, time.June, 2, 10, 10, 0, 0, f.loc))})

	r, err := before.Create(ctx, f.draft(t, "10:00"))
	require.NoError(t, err)

	t.Run("contact change keeps the slot", func(t *testing.T) {
		d := f.draft(t, "10:00")
		d.Customer.Phone = "3109876543"
		d.Customer.Notes = "llega tarde"
		updated, err := during.Update(ctx, r.ID, d)
		require.NoError(t, err)
		assert.Equal(t, "3109876543", updated.Customer.Phone)
		assert.Equal(t, r.StartTime, updated.StartTime)
	})

	t.Run("moving into the past", func(t *testing.T) {
		_, err := during.Update(ctx, r.ID, f.draft(t, "09:30"))
		assert.ErrorIs(t, err, ErrStartInPast)
	})

	t.Run("changing the service moves the interval", func(t *testing.T) {
		d := f.draft(t, "10:00")
		d.ServiceID = f.barba
		_, err := during.Update(ctx, r.ID, d)
		assert.ErrorIs(t, err, ErrStartInPast)
	})

	t.Run("moving forward", func(t *testing.T) {
		updated, err := during.Update(ctx, r.ID, f.draft(t, "10:30"))
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, time.June, 2, 10, 30, 0, 0, f.loc).UTC(), updated.StartTime)
	})
}

func TestRemove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	r, err := f.ledger.Create(ctx, f.draft(t, "10:00"))
	require.NoError(t, err)
	drive(t, f.ledger, r.ID, StateCompleted)

	require.NoError(t, f.ledger.Remove(ctx, r.ID))

	_, err = f.ledger.Get(ctx, r.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.ledger.Remove(ctx, r.ID), ErrNotFound)
	assert.Equal(t, 1, f.observer.removed)
}

func TestWritesSurviveCallerCancellation(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, err := f.ledger.Create(ctx, f.draft(t, "10:00"))
	require.NoError(t, err)

	_, err = f.ledger.Get(context.Background(), r.ID)
	assert.NoError(t, err)
}

func TestList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, at := range []string{"12:00", "10:00", "11:00"} {
		_, err := f.ledger.Create(ctx, f.draft(t, at))
		require.NoError(t, err)
	}
	other := f.draft(t, "10:00")
	other.SiteID = f.centro
	other.ResourceID = f.andres
	o, err := f.ledger.Create(ctx, other)
	require.NoError(t, err)
	_, err = f.ledger.Transition(ctx, o.ID, StateConfirmed)
	require.NoError(t, err)

	items, total, err := f.ledger.List(ctx, Filter{ResourceID: f.carlos, Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, items, 2)
	assert.True(t, items[0].StartTime.Before(items[1].StartTime))

	items, total, err = f.ledger.List(ctx, Filter{States: []State{StateConfirmed}})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, o.ID, items[0].ID)

	from := time.Date(2025, time.June, 2, 10, 30, 0, 0, f.loc)
	to := time.Date(2025, time.June, 2, 12, 0, 0, 0, f.loc)
	_, total, err = f.ledger.List(ctx, Filter{SiteID: f.compartir, From: &from, To: &to})
	require.NoError(t, err)
	assert.Equal(t, 1, total, "only 11:00 starts inside [10:30, 12:00)")
}

func TestConcurrentCreateSameSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const n = 20
	d := f.draft(t, "10:00")
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.ledger.Create(ctx, d)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, ErrSlotConflict)
	}
	assert.Equal(t, 1, ok)
}

func assertNoActiveOverlap(t *testing.T, f *fixture) {
	t.Helper()
	items, _, err := f.ledger.List(context.Background(), Filter{PageSize: 10000})
	require.NoError(t, err)

	for i, a := range items {
		if !a.State.Active() {
			continue
		}
		for _, b := range items[i+1:] {
			if !b.State.Active() || a.ResourceID != b.ResourceID {
				continue
			}
			assert.False(t, a.Interval().Overlaps(b.Interval()),
				"%s [%s, %s) overlaps %s [%s, %s)", a.ID, a.StartTime, a.EndTime, b.ID, b.StartTime, b.EndTime)
		}
	}
}

func TestNoDoubleBookingProperty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rng := rand.New(rand.NewPCG(7, 42))

	barbers := []struct{ site, barber string }{{f.compartir, f.carlos}, {f.centro, f.andres}}
	services := []string{f.corte, f.barba}
	expected := []error{ErrSlotConflict, ErrOutsideHours, ErrInvalidTransition, ErrNotEditable, ErrUnavailable}

	randomDraft := func() Draft {
		b := barbers[rng.IntN(len(barbers))]
		return Draft{
			Customer:   Customer{Name: "Cliente", Phone: "3001234567"},
			ServiceID:  services[rng.IntN(len(services))],
			SiteID:     b.site,
			ResourceID: b.barber,
			Date:       monday.AddDays(rng.IntN(2)),
			Start:      clock.TimeOfDay(9*60 + 5*rng.IntN(120)),
		}
	}

	var ids []string
	var wg sync.WaitGroup
	var mu sync.Mutex
	for worker := 0; worker < 4; worker++ {
		drafts := make([]Draft, 150)
		ops := make([]int, 150)
		for i := range drafts {
			drafts[i] = randomDraft()
			ops[i] = rng.IntN(10)
		}
		states := []State{StateConfirmed, StateCancelled, StateCompleted}
		picks := make([]int, 150)
		for i := range picks {
			picks[i] = rng.IntN(1 << 20)
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			for i, d := range drafts {
				mu.Lock()
				var target string
				if len(ids) > 0 {
					target = ids[picks[i]%len(ids)]
				}
				mu.Unlock()

				var err error
				switch {
				case ops[i] < 6 || target == "":
					var r *Reservation
					r, err = f.ledger.Create(ctx, d)
					if err == nil {
						mu.Lock()
						ids = append(ids, r.ID)
						mu.Unlock()
					}
				case ops[i] < 8:
					_, err = f.ledger.Transition(ctx, target, states[picks[i]%len(states)])
				default:
					_, err = f.ledger.Update(ctx, target, d)
				}
				if err == nil {
					continue
				}

				matched := false
				for _, want := range expected {
					if errors.Is(err, want) {
						matched = true
					}
				}
				assert.True(t, matched, "unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	require.NotEmpty(t, ids)
	assertNoActiveOverlap(t, f)
}
