package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del inventario (multi-ubicación).
// CurrentStock es una caché del saldo en la ubicación asignada (StockID); la copia autoritativa
// vive en el ledger de movimientos y se puede recalcular en cualquier momento.
type Product struct {
	ID           string
	SKU          string // único cuando existe
	Barcode      string // único cuando existe
	Name         string
	Price        decimal.Decimal // precio de venta
	Cost         decimal.Decimal // costo promedio ponderado (inicia en 0)
	CurrentStock int64
	StockID      *string // ubicación que hoy tiene el producto; la fijan los movimientos
	MinStock     int64
	Unit         string
	UnitsPerBox  int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AssignedStock devuelve el ID de la ubicación asignada o "" si no tiene.
func (p *Product) AssignedStock() string {
	if p.StockID == nil {
		return ""
	}
	return *p.StockID
}

// BelowMinimum indica si el stock cacheado está bajo el mínimo configurado.
func (p *Product) BelowMinimum() bool { return p.MinStock > 0 && p.CurrentStock < p.MinStock }
