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

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, sku, barcode, name, price, cost, current_stock, stock_id, min_stock, unit, units_per_box, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row rowScanner) (*entity.Product, error) {
	var p entity.Product
	var sku, barcode *string
	err := row.Scan(&p.ID, &sku, &barcode, &p.Name, &p.Price, &p.Cost, &p.CurrentStock,
		&p.StockID, &p.MinStock, &p.Unit, &p.UnitsPerBox, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.SKU = deref(sku)
	p.Barcode = deref(barcode)
	return &p, nil
}

func (r *ProductRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Create persiste un nuevo producto. SKU y código de barras vacíos se guardan como NULL
// para que los índices únicos solo apliquen cuando existen.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		p.ID, nullable(p.SKU), nullable(p.Barcode), p.Name, p.Price, p.Cost, p.CurrentStock,
		p.StockID, p.MinStock, p.Unit, p.UnitsPerBox, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
}

func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE sku = $1`, sku)
}

func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET sku = $2, barcode = $3, name = $4, price = $5, cost = $6, current_stock = $7,
			stock_id = $8, min_stock = $9, unit = $10, units_per_box = $11, updated_at = $12
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		p.ID, nullable(p.SKU), nullable(p.Barcode), p.Name, p.Price, p.Cost, p.CurrentStock,
		p.StockID, p.MinStock, p.Unit, p.UnitsPerBox, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// List devuelve la página pedida ordenada por nombre y el total sin paginar.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	where := ` WHERE TRUE`
	var args []any
	pos := 1
	if f.StockID != "" {
		where += fmt.Sprintf(" AND stock_id = $%d", pos)
		args = append(args, f.StockID)
		pos++
	}
	if f.Search != "" {
		where += fmt.Sprintf(" AND (name ILIKE $%d OR sku ILIKE $%d OR barcode ILIKE $%d)", pos, pos, pos)
		args = append(args, "%"+f.Search+"%")
		pos++
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := `SELECT ` + productColumns + ` FROM products` + where +
		fmt.Sprintf(" ORDER BY name, id LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limitArg(f.Limit), offsetArg(f.Offset))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	list := []*entity.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

func (r *ProductRepo) CountByStock(ctx context.Context, stockID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE stock_id = $1`, stockID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products by stock: %w", err)
	}
	return n, nil
}
