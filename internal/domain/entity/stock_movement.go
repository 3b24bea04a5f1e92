package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del ledger.
const (
	MovementTypePurchase   = "purchase"
	MovementTypeSale       = "sale"
	MovementTypeAdjustment = "adjustment"
	MovementTypeReturn     = "return"
	MovementTypeTransfer   = "transfer"
	MovementTypeInitial    = "initial"
)

// Tipos de referencia hacia el documento que originó el movimiento.
const (
	ReferenceTypeSale       = "sale"
	ReferenceTypePurchase   = "purchase"
	ReferenceTypeReturn     = "return"
	ReferenceTypeAdjustment = "adjustment"
	ReferenceTypeManual     = "manual"
)

// IsValidMovementType indica si t es un tipo de movimiento conocido.
func IsValidMovementType(t string) bool {
	switch t {
	case MovementTypePurchase, MovementTypeSale, MovementTypeAdjustment,
		MovementTypeReturn, MovementTypeTransfer, MovementTypeInitial:
		return true
	}
	return false
}

// StockMovement es un registro inmutable del ledger. Quantity siempre es positiva;
// la dirección la dan FromStockID (se descuenta) y ToStockID (se suma).
type StockMovement struct {
	ID              string
	MovementType    string
	FromStockID     *string
	ToStockID       *string
	ProductID       string
	Quantity        int64
	UnitCost        decimal.Decimal
	TotalValue      decimal.Decimal
	ReferenceType   string
	ReferenceID     string
	ReferenceNumber string
	ReversalOf      *string // ID del movimiento que este revierte
	MovementDate    time.Time
	Notes           string
	CreatedBy       string
	CreatedAt       time.Time
}

// From devuelve la ubicación origen o "".
func (m *StockMovement) From() string {
	if m.FromStockID == nil {
		return ""
	}
	return *m.FromStockID
}

// To devuelve la ubicación destino o "".
func (m *StockMovement) To() string {
	if m.ToStockID == nil {
		return ""
	}
	return *m.ToStockID
}
