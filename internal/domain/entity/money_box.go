package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direcciones de un movimiento de caja.
const (
	CashDirectionIn  = "in"
	CashDirectionOut = "out"
)

// MoneyBox es una caja registradora o caja de dinero.
type MoneyBox struct {
	ID        string
	Name      string
	Balance   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CashTransaction es un movimiento inmutable de caja (Amount siempre positivo).
type CashTransaction struct {
	ID            string
	MoneyBoxID    string
	Direction     string
	Amount        decimal.Decimal
	ReferenceType string
	ReferenceID   string
	Notes         string
	CreatedBy     string
	CreatedAt     time.Time
}

// Signed devuelve el monto con signo según la dirección.
func (t *CashTransaction) Signed() decimal.Decimal {
	if t.Direction == CashDirectionOut {
		return t.Amount.Neg()
	}
	return t.Amount
}
