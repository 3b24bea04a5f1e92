package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.StockBalanceRepository = (*StockBalanceRepo)(nil)

// StockBalanceRepo saldo materializado (stock_balances) por producto y ubicación.
type StockBalanceRepo struct {
	q Querier
}

// NewStockBalanceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockBalanceRepository(q Querier) *StockBalanceRepo {
	return &StockBalanceRepo{q: q}
}

func (r *StockBalanceRepo) Get(ctx context.Context, productID, stockID string) (*entity.StockBalance, error) {
	query := `SELECT product_id, stock_id, quantity, updated_at FROM stock_balances WHERE product_id = $1 AND stock_id = $2`
	var b entity.StockBalance
	err := r.q.QueryRow(ctx, query, productID, stockID).Scan(&b.ProductID, &b.StockID, &b.Quantity, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockBalance{ProductID: productID, StockID: stockID}, nil
		}
		return nil, fmt.Errorf("get stock balance: %w", err)
	}
	return &b, nil
}

// GetForUpdate crea la fila en 0 si falta y luego la bloquea; así dos tx concurrentes
// sobre un par nuevo se serializan igual que sobre uno existente.
func (r *StockBalanceRepo) GetForUpdate(ctx context.Context, productID, stockID string) (*entity.StockBalance, error) {
	insert := `
		INSERT INTO stock_balances (product_id, stock_id, quantity, updated_at)
		VALUES ($1, $2, 0, now())
		ON CONFLICT (product_id, stock_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, productID, stockID); err != nil {
		return nil, fmt.Errorf("ensure stock balance: %w", err)
	}
	query := `
		SELECT product_id, stock_id, quantity, updated_at FROM stock_balances
		WHERE product_id = $1 AND stock_id = $2 FOR UPDATE`
	var b entity.StockBalance
	if err := r.q.QueryRow(ctx, query, productID, stockID).Scan(&b.ProductID, &b.StockID, &b.Quantity, &b.UpdatedAt); err != nil {
		return nil, fmt.Errorf("lock stock balance: %w", err)
	}
	return &b, nil
}

func (r *StockBalanceRepo) Upsert(ctx context.Context, b *entity.StockBalance) error {
	query := `
		INSERT INTO stock_balances (product_id, stock_id, quantity, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (product_id, stock_id) DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = EXCLUDED.updated_at`
	if _, err := r.q.Exec(ctx, query, b.ProductID, b.StockID, b.Quantity, b.UpdatedAt); err != nil {
		return fmt.Errorf("upsert stock balance: %w", err)
	}
	return nil
}

func (r *StockBalanceRepo) list(ctx context.Context, where string, args ...any) ([]entity.StockBalance, error) {
	query := `SELECT product_id, stock_id, quantity, updated_at FROM stock_balances` + where + ` ORDER BY product_id, stock_id`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock balances: %w", err)
	}
	defer rows.Close()
	var out []entity.StockBalance
	for rows.Next() {
		var b entity.StockBalance
		if err := rows.Scan(&b.ProductID, &b.StockID, &b.Quantity, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock balance: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *StockBalanceRepo) ListByProduct(ctx context.Context, productID string) ([]entity.StockBalance, error) {
	return r.list(ctx, ` WHERE product_id = $1`, productID)
}

func (r *StockBalanceRepo) ListByStock(ctx context.Context, stockID string) ([]entity.StockBalance, error) {
	return r.list(ctx, ` WHERE stock_id = $1`, stockID)
}

func (r *StockBalanceRepo) ListAll(ctx context.Context) ([]entity.StockBalance, error) {
	return r.list(ctx, "")
}
