package entity

import "time"

// StockBalance es el saldo materializado de un producto en una ubicación.
// Se actualiza en la misma transacción que cada movimiento y debe ser igual al fold del ledger.
type StockBalance struct {
	ProductID string
	StockID   string
	Quantity  int64
	UpdatedAt time.Time
}
