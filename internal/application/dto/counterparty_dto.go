package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCounterpartyRequest entrada para crear un cliente o proveedor.
type CreateCounterpartyRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=200"`
	Phone string `json:"phone" validate:"max=30"`
}

// CustomerResponse salida de un cliente.
type CustomerResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Phone     string          `json:"phone"`
	Debt      decimal.Decimal `json:"debt"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// SupplierResponse salida de un proveedor.
type SupplierResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Phone     string          `json:"phone"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CreateMoneyBoxRequest entrada para crear una caja.
type CreateMoneyBoxRequest struct {
	Name           string          `json:"name" validate:"required,min=1,max=100"`
	OpeningBalance decimal.Decimal `json:"opening_balance" validate:"gte=0"`
}

// MoneyBoxResponse salida de una caja.
type MoneyBoxResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CashTransactionResponse salida de un movimiento de caja.
type CashTransactionResponse struct {
	ID            string          `json:"id"`
	MoneyBoxID    string          `json:"money_box_id"`
	Direction     string          `json:"direction"`
	Amount        decimal.Decimal `json:"amount"`
	ReferenceType string          `json:"reference_type"`
	ReferenceID   string          `json:"reference_id"`
	Notes         string          `json:"notes"`
	CreatedBy     string          `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
}
