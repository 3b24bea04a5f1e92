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

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, movement_type, from_stock_id, to_stock_id, product_id, quantity, unit_cost, total_value,
	reference_type, reference_id, reference_number, reversal_of, movement_date, notes, created_by, created_at`

// StockMovementRepo ledger de movimientos sobre PostgreSQL. Solo INSERT y SELECT.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

func scanMovement(row rowScanner) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var refType, refID, refNumber, notes, createdBy *string
	err := row.Scan(&m.ID, &m.MovementType, &m.FromStockID, &m.ToStockID, &m.ProductID, &m.Quantity,
		&m.UnitCost, &m.TotalValue, &refType, &refID, &refNumber, &m.ReversalOf,
		&m.MovementDate, &notes, &createdBy, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	m.ReferenceType = deref(refType)
	m.ReferenceID = deref(refID)
	m.ReferenceNumber = deref(refNumber)
	m.Notes = deref(notes)
	m.CreatedBy = deref(createdBy)
	return &m, nil
}

func collectMovements(rows pgx.Rows) ([]*entity.StockMovement, error) {
	defer rows.Close()
	list := []*entity.StockMovement{}
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// Create persiste un movimiento. Un segundo reverso del mismo movimiento choca con el índice único de reversal_of.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.MovementType, m.FromStockID, m.ToStockID, m.ProductID, m.Quantity,
		m.UnitCost, m.TotalValue, nullable(m.ReferenceType), nullable(m.ReferenceID), nullable(m.ReferenceNumber),
		m.ReversalOf, m.MovementDate, nullable(m.Notes), nullable(m.CreatedBy), m.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			if m.ReversalOf != nil {
				return domain.ErrAlreadyReversed
			}
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

func (r *StockMovementRepo) GetByID(ctx context.Context, id string) (*entity.StockMovement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, `SELECT `+movementColumns+` FROM stock_movements WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMovementNotFound
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// List aplica los filtros no vacíos; más reciente primero.
func (r *StockMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, int, error) {
	where := ` WHERE TRUE`
	var args []any
	pos := 1
	add := func(column, value string) {
		if value == "" {
			return
		}
		where += fmt.Sprintf(" AND %s = $%d", column, pos)
		args = append(args, value)
		pos++
	}
	add("movement_type", f.MovementType)
	add("from_stock_id", f.FromStockID)
	add("to_stock_id", f.ToStockID)
	add("product_id", f.ProductID)
	add("reference_type", f.ReferenceType)
	add("reference_id", f.ReferenceID)

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM stock_movements`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movements: %w", err)
	}

	query := `SELECT ` + movementColumns + ` FROM stock_movements` + where +
		fmt.Sprintf(" ORDER BY movement_date DESC, created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limitArg(f.Limit), offsetArg(f.Offset))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list movements: %w", err)
	}
	list, err := collectMovements(rows)
	return list, total, err
}

func (r *StockMovementRepo) ListByReference(ctx context.Context, referenceType, referenceID string) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements
		WHERE reference_type = $1 AND reference_id = $2 ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, referenceType, referenceID)
	if err != nil {
		return nil, fmt.Errorf("list movements by reference: %w", err)
	}
	return collectMovements(rows)
}

func (r *StockMovementRepo) IsReversed(ctx context.Context, movementID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM stock_movements WHERE reversal_of = $1)`, movementID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("is reversed: %w", err)
	}
	return exists, nil
}

func (r *StockMovementRepo) Fold(ctx context.Context, productID, stockID string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN to_stock_id = $2 THEN quantity ELSE 0 END), 0)
			- COALESCE(SUM(CASE WHEN from_stock_id = $2 THEN quantity ELSE 0 END), 0)
		FROM stock_movements
		WHERE product_id = $1 AND (to_stock_id = $2 OR from_stock_id = $2)`
	var qty int64
	if err := r.q.QueryRow(ctx, query, productID, stockID).Scan(&qty); err != nil {
		return 0, fmt.Errorf("fold movements: %w", err)
	}
	return qty, nil
}

func (r *StockMovementRepo) FoldAll(ctx context.Context) ([]entity.StockBalance, error) {
	query := `
		SELECT product_id, stock_id, SUM(delta)::BIGINT
		FROM (
			SELECT product_id, to_stock_id AS stock_id, quantity AS delta
			FROM stock_movements WHERE to_stock_id IS NOT NULL
			UNION ALL
			SELECT product_id, from_stock_id AS stock_id, -quantity AS delta
			FROM stock_movements WHERE from_stock_id IS NOT NULL
		) AS deltas
		GROUP BY product_id, stock_id
		ORDER BY product_id, stock_id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("fold all movements: %w", err)
	}
	defer rows.Close()
	var out []entity.StockBalance
	for rows.Next() {
		var b entity.StockBalance
		if err := rows.Scan(&b.ProductID, &b.StockID, &b.Quantity); err != nil {
			return nil, fmt.Errorf("scan fold: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
