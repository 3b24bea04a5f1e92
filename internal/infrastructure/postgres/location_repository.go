package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

const locationColumns = `id, code, name, capacity, current_capacity_used, is_main, is_active, created_at, updated_at`

// LocationRepo implementación del puerto LocationRepository sobre la tabla stocks.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

func scanLocation(row rowScanner) (*entity.Location, error) {
	var l entity.Location
	err := row.Scan(&l.ID, &l.Code, &l.Name, &l.Capacity, &l.CurrentCapacityUsed,
		&l.IsMain, &l.IsActive, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LocationRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Location, error) {
	l, err := scanLocation(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLocationNotFound
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return l, nil
}

// Create persiste una ubicación; el código es único.
func (r *LocationRepo) Create(ctx context.Context, l *entity.Location) error {
	query := `INSERT INTO stocks (` + locationColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query, l.ID, l.Code, l.Name, l.Capacity, l.CurrentCapacityUsed,
		l.IsMain, l.IsActive, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	return r.getOne(ctx, `SELECT `+locationColumns+` FROM stocks WHERE id = $1`, id)
}

func (r *LocationRepo) GetForUpdate(ctx context.Context, id string) (*entity.Location, error) {
	return r.getOne(ctx, `SELECT `+locationColumns+` FROM stocks WHERE id = $1 FOR UPDATE`, id)
}

func (r *LocationRepo) GetByCode(ctx context.Context, code string) (*entity.Location, error) {
	return r.getOne(ctx, `SELECT `+locationColumns+` FROM stocks WHERE code = $1`, code)
}

func (r *LocationRepo) GetMain(ctx context.Context) (*entity.Location, error) {
	return r.getOne(ctx, `SELECT `+locationColumns+` FROM stocks WHERE is_main LIMIT 1`)
}

func (r *LocationRepo) Update(ctx context.Context, l *entity.Location) error {
	query := `
		UPDATE stocks SET code = $2, name = $3, capacity = $4, current_capacity_used = $5,
			is_main = $6, is_active = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, l.ID, l.Code, l.Name, l.Capacity, l.CurrentCapacityUsed,
		l.IsMain, l.IsActive, l.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLocationNotFound
	}
	return nil
}

func (r *LocationRepo) AdjustCapacityUsed(ctx context.Context, id string, delta int64) error {
	query := `UPDATE stocks SET current_capacity_used = current_capacity_used + $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, delta)
	if err != nil {
		return fmt.Errorf("adjust capacity used: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLocationNotFound
	}
	return nil
}

func (r *LocationRepo) ClearMain(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `UPDATE stocks SET is_main = FALSE WHERE is_main`); err != nil {
		return fmt.Errorf("clear main location: %w", err)
	}
	return nil
}

func (r *LocationRepo) List(ctx context.Context) ([]*entity.Location, error) {
	rows, err := r.q.Query(ctx, `SELECT `+locationColumns+` FROM stocks ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

func (r *LocationRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM stocks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLocationNotFound
	}
	return nil
}
