package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ProductFilter filtros del listado de productos.
type ProductFilter struct {
	StockID string // solo productos asignados a esta ubicación
	Search  string // coincide con nombre, SKU o código de barras
	Limit   int
	Offset  int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID/GetForUpdate devuelven domain.ErrProductNotFound si no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	// Update persiste todos los campos, incluidos stock_id, current_stock y cost (los fija el ledger).
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, int, error)
	// CountByStock cuenta los productos asignados a una ubicación.
	CountByStock(ctx context.Context, stockID string) (int, error)
}
