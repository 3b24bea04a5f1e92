package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. El stock se carga con movimientos.
type CreateProductRequest struct {
	SKU         string          `json:"sku" validate:"max=100"`
	Barcode     string          `json:"barcode" validate:"max=100"`
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
	MinStock    int64           `json:"min_stock" validate:"gte=0"`
	Unit        string          `json:"unit" validate:"max=20"`
	UnitsPerBox int64           `json:"units_per_box" validate:"gte=0"`
}

// UpdateProductRequest entrada para actualizar un producto (sin Cost, Stock ni ubicación).
type UpdateProductRequest struct {
	SKU         *string          `json:"sku" validate:"omitempty,max=100"`
	Barcode     *string          `json:"barcode" validate:"omitempty,max=100"`
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
	MinStock    *int64           `json:"min_stock" validate:"omitempty,gte=0"`
	Unit        *string          `json:"unit" validate:"omitempty,max=20"`
	UnitsPerBox *int64           `json:"units_per_box" validate:"omitempty,gte=0"`
}

// ProductListRequest filtros de GET /api/products.
type ProductListRequest struct {
	StockID string `query:"stock_id"`
	Search  string `query:"search"`
	Page    int    `query:"page" validate:"omitempty,min=1"`
	Limit   int    `query:"limit" validate:"omitempty,min=1,max=100"`
}

// PageRequest extrae la paginación normalizada.
func (r ProductListRequest) PageRequest() PageRequest {
	p := PageRequest{Page: r.Page, Limit: r.Limit}
	p.DefaultPage()
	return p
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Barcode      string          `json:"barcode"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Cost         decimal.Decimal `json:"cost"`
	CurrentStock int64           `json:"current_stock"`
	StockID      *string         `json:"stock_id"`
	MinStock     int64           `json:"min_stock"`
	Unit         string          `json:"unit"`
	UnitsPerBox  int64           `json:"units_per_box"`
	BelowMinimum bool            `json:"below_minimum"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductDetailResponse producto con sus saldos por ubicación.
type ProductDetailResponse struct {
	ProductResponse
	Balances []StockBalanceResponse `json:"balances"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items      []ProductResponse `json:"items"`
	Pagination Pagination        `json:"pagination"`
}
