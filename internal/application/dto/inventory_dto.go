package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordMovementRequest body para POST /api/stock-movements.
type RecordMovementRequest struct {
	MovementType    string           `json:"movement_type" validate:"required,oneof=purchase sale adjustment return transfer initial"`
	FromStockID     *string          `json:"from_stock_id,omitempty"`
	ToStockID       *string          `json:"to_stock_id,omitempty"`
	ProductID       string           `json:"product_id" validate:"required"`
	Quantity        int64            `json:"quantity" validate:"required,gt=0"`
	UnitCost        *decimal.Decimal `json:"unit_cost,omitempty" validate:"omitempty,gte=0"`
	ReferenceType   string           `json:"reference_type,omitempty" validate:"omitempty,oneof=sale purchase return adjustment manual"`
	ReferenceID     string           `json:"reference_id,omitempty"`
	ReferenceNumber string           `json:"reference_number,omitempty" validate:"max=100"`
	MovementDate    *time.Time       `json:"movement_date,omitempty"`
	Notes           string           `json:"notes,omitempty" validate:"max=500"`
	AllowNegative   bool             `json:"allow_negative,omitempty"`
}

// ReverseMovementRequest body para POST /api/stock-movements/:id/reverse.
type ReverseMovementRequest struct {
	Notes string `json:"notes" validate:"max=500"`
}

// MovementFilterRequest filtros de GET /api/stock-movements.
type MovementFilterRequest struct {
	MovementType  string `query:"movement_type" validate:"omitempty,oneof=purchase sale adjustment return transfer initial"`
	FromStockID   string `query:"from_stock_id"`
	ToStockID     string `query:"to_stock_id"`
	ProductID     string `query:"product_id"`
	ReferenceType string `query:"reference_type"`
	ReferenceID   string `query:"reference_id"`
	Page          int    `query:"page" validate:"omitempty,min=1"`
	Limit         int    `query:"limit" validate:"omitempty,min=1,max=100"`
}

// PageRequest extrae la paginación normalizada.
func (f MovementFilterRequest) PageRequest() PageRequest {
	p := PageRequest{Page: f.Page, Limit: f.Limit}
	p.DefaultPage()
	return p
}

// MovementResponse salida de un movimiento del ledger.
type MovementResponse struct {
	ID              string          `json:"id"`
	MovementType    string          `json:"movement_type"`
	FromStockID     *string         `json:"from_stock_id"`
	ToStockID       *string         `json:"to_stock_id"`
	ProductID       string          `json:"product_id"`
	Quantity        int64           `json:"quantity"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	TotalValue      decimal.Decimal `json:"total_value"`
	ReferenceType   string          `json:"reference_type"`
	ReferenceID     string          `json:"reference_id"`
	ReferenceNumber string          `json:"reference_number"`
	ReversalOf      *string         `json:"reversal_of,omitempty"`
	MovementDate    time.Time       `json:"movement_date"`
	Notes           string          `json:"notes"`
	CreatedBy       string          `json:"created_by"`
	CreatedAt       time.Time       `json:"created_at"`
}

// StockBalanceResponse saldo de un producto en una ubicación.
type StockBalanceResponse struct {
	ProductID string `json:"product_id"`
	StockID   string `json:"stock_id"`
	Quantity  int64  `json:"quantity"`
}

// RecordMovementResponse data de POST /api/stock-movements.
type RecordMovementResponse struct {
	ID             string                 `json:"id"`
	Movement       MovementResponse       `json:"movement"`
	UpdatedStocks  []StockBalanceResponse `json:"updatedStocks"`
	UpdatedProduct *ProductResponse       `json:"updatedProduct"`
}

// CurrentStockResponse data de GET /api/stock-movements/current.
type CurrentStockResponse struct {
	ProductID string `json:"product_id"`
	StockID   string `json:"stock_id"`
	Quantity  int64  `json:"quantity"`
}

// BalanceDriftDTO diferencia entre el saldo materializado y el fold del ledger.
type BalanceDriftDTO struct {
	ProductID    string `json:"product_id"`
	StockID      string `json:"stock_id"`
	Materialized int64  `json:"materialized"`
	Derived      int64  `json:"derived"`
}

// LowStockItemDTO producto por debajo de su stock mínimo con sugerencia de reposición.
type LowStockItemDTO struct {
	ProductID          string          `json:"product_id"`
	SKU                string          `json:"sku"`
	ProductName        string          `json:"product_name"`
	StockID            *string         `json:"stock_id"`
	CurrentStock       int64           `json:"current_stock"`
	MinStock           int64           `json:"min_stock"`
	SuggestedOrderQty  int64           `json:"suggested_order_qty"`  // hasta MinStock * 1.5, redondeado a cajas
	UnitCost           decimal.Decimal `json:"unit_cost"`            // costo promedio ponderado
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * UnitCost
}
