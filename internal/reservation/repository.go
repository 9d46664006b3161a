package reservation

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Breyner794/barber-shop/internal/db"
	"github.com/Breyner794/barber-shop/internal/pkg/clock"
)

// Repository is the reservation store. Atomic runs fn with every key in keys
// held exclusively, so callers that share a key are serialized.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Reservation, error)
	List(ctx context.Context, filter Filter) ([]*Reservation, int, error)
	// ListByResource returns reservations of the resource intersecting [from, to).
	ListByResource(ctx context.Context, resourceID string, from, to time.Time, activeOnly bool) ([]*Reservation, error)
	Atomic(ctx context.Context, keys []string, fn func(ctx context.Context, tx Tx) error) error
}

// Tx is the view of the store inside Atomic.
type Tx interface {
	GetByID(ctx context.Context, id string) (*Reservation, error)
	// ActiveOverlapping returns active reservations of the resource
	// intersecting [from, to), ignoring excludeID.
	ActiveOverlapping(ctx context.Context, resourceID string, from, to time.Time, excludeID string) ([]*Reservation, error)
	Create(ctx context.Context, r *Reservation) error
	Update(ctx context.Context, r *Reservation) error
	Delete(ctx context.Context, id string) error
}

func resourceKey(id string) string    { return "resource:" + id }
func reservationKey(id string) string { return "reservation:" + id }

func activeStates() []string {
	return []string{string(StatePending), string(StateConfirmed)}
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

// translate maps database failures onto the reservation error kinds.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case db.HasCode(err, pgerrcode.ExclusionViolation):
		return ErrSlotConflict
	case db.IsForeignKeyViolation(err):
		return ErrInvalidReference
	case db.IsTransient(err), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return err
}

var reservationColumns = []string{
	"id", "customer_name", "customer_phone", "customer_email", "notes",
	"service_id", "site_id", "resource_id", "date", "hour", "start_time", "end_time",
	"state", "created_at", "updated_at",
}

func scanReservation(row pgx.Row, extra ...any) (*Reservation, error) {
	var r Reservation
	var date time.Time
	var hour int
	var state string
	dest := append([]any{
		&r.ID, &r.Customer.Name, &r.Customer.Phone, &r.Customer.Email, &r.Customer.Notes,
		&r.ServiceID, &r.SiteID, &r.ResourceID, &date, &hour, &r.StartTime, &r.EndTime,
		&state, &r.CreatedAt, &r.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	r.Date = clock.DateOf(date)
	r.Hour = clock.TimeOfDay(hour)
	r.State = State(state)
	return &r, nil
}

func collect(rows pgx.Rows, extra ...any) ([]*Reservation, error) {
	defer rows.Close()
	var out []*Reservation
	for rows.Next() {
		r, err := scanReservation(rows, extra...)
		if err != nil {
			return nil, fmt.Errorf("scan reservation failed: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func getByID(ctx context.Context, q querier, id string, forUpdate bool) (*Reservation, error) {
	if uuid.Validate(id) != nil {
		return nil, ErrNotFound
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(reservationColumns...).
		From("public.reservations").
		Where(squirrel.Eq{"id": id})
	if forUpdate {
		query = query.Suffix("FOR UPDATE")
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get reservation query failed: %w", err)
	}

	r, err := scanReservation(q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, translate(fmt.Errorf("get reservation failed: %w", err))
	}
	return r, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Reservation, error) {
	return getByID(ctx, r.pool, id, false)
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Reservation, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(append(reservationColumns, "count(*) OVER() as total_count")...).
		From("public.reservations")

	// Dynamic Filtering
	if filter.ResourceID != "" {
		query = query.Where(squirrel.Eq{"resource_id": filter.ResourceID})
	}
	if filter.SiteID != "" {
		query = query.Where(squirrel.Eq{"site_id": filter.SiteID})
	}
	if filter.ServiceID != "" {
		query = query.Where(squirrel.Eq{"service_id": filter.ServiceID})
	}
	if len(filter.States) > 0 {
		states := make([]string, len(filter.States))
		for i, s := range filter.States {
			states[i] = string(s)
		}
		query = query.Where(squirrel.Eq{"state": states})
	}
	if filter.From != nil {
		query = query.Where(squirrel.GtOrEq{"start_time": *filter.From})
	}
	if filter.To != nil {
		query = query.Where(squirrel.Lt{"start_time": *filter.To})
	}

	query = query.OrderBy("start_time ASC", "id ASC")

	// Pagination
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list reservations query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, translate(fmt.Errorf("list reservations failed: %w", err))
	}

	var total int
	items, err := collect(rows, &total)
	if err != nil {
		return nil, 0, translate(err)
	}
	return items, total, nil
}

func overlapping(resourceID string, from, to time.Time, activeOnly bool, excludeID string) squirrel.SelectBuilder {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(reservationColumns...).
		From("public.reservations").
		Where(squirrel.Eq{"resource_id": resourceID}).
		Where(squirrel.Lt{"start_time": to}).
		Where(squirrel.Gt{"end_time": from})
	if activeOnly {
		query = query.Where(squirrel.Eq{"state": activeStates()})
	}
	if excludeID != "" {
		query = query.Where(squirrel.NotEq{"id": excludeID})
	}
	return query.OrderBy("start_time ASC")
}

func (r *pgxRepository) ListByResource(ctx context.Context, resourceID string, from, to time.Time, activeOnly bool) ([]*Reservation, error) {
	if uuid.Validate(resourceID) != nil {
		return nil, nil
	}

	sql, args, err := overlapping(resourceID, from, to, activeOnly, "").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list resource reservations query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, translate(fmt.Errorf("list resource reservations failed: %w", err))
	}
	items, err := collect(rows)
	return items, translate(err)
}

// Atomic runs fn in a transaction holding a transaction scoped advisory lock
// per key. Keys are locked in sorted order.
func (r *pgxRepository) Atomic(ctx context.Context, keys []string, fn func(ctx context.Context, tx Tx) error) (err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return translate(fmt.Errorf("begin transaction failed: %w", err))
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	sorted := slices.Clone(keys)
	slices.Sort(sorted)
	for _, k := range slices.Compact(sorted) {
		if _, err = tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", k); err != nil {
			return translate(fmt.Errorf("acquire lock %s failed: %w", k, err))
		}
	}

	if err = fn(ctx, &pgxTx{q: tx}); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return translate(fmt.Errorf("commit failed: %w", err))
	}
	return nil
}

type pgxTx struct {
	q querier
}

func (t *pgxTx) GetByID(ctx context.Context, id string) (*Reservation, error) {
	return getByID(ctx, t.q, id, true)
}

func (t *pgxTx) ActiveOverlapping(ctx context.Context, resourceID string, from, to time.Time, excludeID string) ([]*Reservation, error) {
	sql, args, err := overlapping(resourceID, from, to, true, excludeID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build overlap query failed: %w", err)
	}

	rows, err := t.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, translate(fmt.Errorf("overlap query failed: %w", err))
	}
	items, err := collect(rows)
	return items, translate(err)
}

func (t *pgxTx) Create(ctx context.Context, r *Reservation) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.reservations").
		Columns(reservationColumns...).
		Values(
			r.ID, r.Customer.Name, r.Customer.Phone, r.Customer.Email, r.Customer.Notes,
			r.ServiceID, r.SiteID, r.ResourceID, r.Date.In(time.UTC), int(r.Hour), r.StartTime, r.EndTime,
			string(r.State), r.CreatedAt, r.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build create reservation query failed: %w", err)
	}

	if _, err := t.q.Exec(ctx, query, args...); err != nil {
		return translate(fmt.Errorf("create reservation failed: %w", err))
	}
	return nil
}

func (t *pgxTx) Update(ctx context.Context, r *Reservation) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.reservations").
		Set("customer_name", r.Customer.Name).
		Set("customer_phone", r.Customer.Phone).
		Set("customer_email", r.Customer.Email).
		Set("notes", r.Customer.Notes).
		Set("service_id", r.ServiceID).
		Set("site_id", r.SiteID).
		Set("resource_id", r.ResourceID).
		Set("date", r.Date.In(time.UTC)).
		Set("hour", int(r.Hour)).
		Set("start_time", r.StartTime).
		Set("end_time", r.EndTime).
		Set("state", string(r.State)).
		Set("updated_at", r.UpdatedAt).
		Where(squirrel.Eq{"id": r.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update reservation query failed: %w", err)
	}

	ct, err := t.q.Exec(ctx, query, args...)
	if err != nil {
		return translate(fmt.Errorf("update reservation failed: %w", err))
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *pgxTx) Delete(ctx context.Context, id string) error {
	if uuid.Validate(id) != nil {
		return ErrNotFound
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.reservations").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete reservation query failed: %w", err)
	}

	ct, err := t.q.Exec(ctx, query, args...)
	if err != nil {
		return translate(fmt.Errorf("delete reservation failed: %w", err))
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
