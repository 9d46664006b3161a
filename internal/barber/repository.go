package barber

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Breyner794/barber-shop/internal/db"
)

type Repository interface {
	Create(ctx context.Context, b *Barber) error
	GetByID(ctx context.Context, id string) (*Barber, error)
	List(ctx context.Context, filter Filter) ([]*Barber, int, error)
	ListBySite(ctx context.Context, siteID string) ([]*Barber, error)
	Update(ctx context.Context, b *Barber) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var barberColumns = []string{"id", "name", "site_id", "active", "photo_file_id", "created_at", "updated_at"}

func scanBarber(row pgx.Row, extra ...any) (*Barber, error) {
	var b Barber
	var siteID *string
	dest := append([]any{&b.ID, &b.Name, &siteID, &b.Active, &b.PhotoFileID, &b.CreatedAt, &b.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if siteID != nil {
		b.SiteID = *siteID
	}
	return &b, nil
}

// nullable maps the empty string to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func (r *pgxRepository) Create(ctx context.Context, b *Barber) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.barbers").
		Columns("name", "site_id", "active", "photo_file_id").
		Values(b.Name, nullable(b.SiteID), b.Active, b.PhotoFileID).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create barber query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if db.IsForeignKeyViolation(err) {
			return ErrInvalidSite
		}
		return fmt.Errorf("create barber failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Barber, error) {
	if uuid.Validate(id) != nil {
		return nil, ErrNotFound
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(barberColumns...).
		From("public.barbers").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get barber query failed: %w", err)
	}

	b, err := scanBarber(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get barber failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Barber, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(append(barberColumns, "count(*) OVER() as total_count")...).
		From("public.barbers")

	// Dynamic Filtering
	if filter.SiteID != "" {
		query = query.Where(squirrel.Eq{"site_id": filter.SiteID})
	}
	if filter.Active != nil {
		query = query.Where(squirrel.Eq{"active": *filter.Active})
	}
	if filter.Name != "" {
		query = query.Where(squirrel.ILike{"name": "%" + filter.Name + "%"})
	}

	query = query.OrderBy("name ASC")

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
		return nil, 0, fmt.Errorf("build list barbers query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list barbers failed: %w", err)
	}
	defer rows.Close()

	var barbers []*Barber
	var total int
	for rows.Next() {
		b, err := scanBarber(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan barber failed: %w", err)
		}
		barbers = append(barbers, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list barbers failed: %w", err)
	}
	return barbers, total, nil
}

func (r *pgxRepository) ListBySite(ctx context.Context, siteID string) ([]*Barber, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(barberColumns...).
		From("public.barbers").
		Where(squirrel.Eq{"site_id": siteID}).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list site barbers query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list site barbers failed: %w", err)
	}
	defer rows.Close()

	var barbers []*Barber
	for rows.Next() {
		b, err := scanBarber(rows)
		if err != nil {
			return nil, fmt.Errorf("scan barber failed: %w", err)
		}
		barbers = append(barbers, b)
	}
	return barbers, rows.Err()
}

func (r *pgxRepository) Update(ctx context.Context, b *Barber) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.barbers").
		Set("name", b.Name).
		Set("site_id", nullable(b.SiteID)).
		Set("active", b.Active).
		Set("photo_file_id", b.PhotoFileID).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": b.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update barber query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if db.IsForeignKeyViolation(err) {
			return ErrInvalidSite
		}
		return fmt.Errorf("update barber failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.barbers").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete barber query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return ErrInUse
		}
		return fmt.Errorf("delete barber failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
