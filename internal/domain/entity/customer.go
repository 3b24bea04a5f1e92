package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer representa un cliente; Debt crece con ventas a crédito y baja con pagos y devoluciones.
type Customer struct {
	ID        string
	Name      string
	Phone     string
	Debt      decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Supplier representa un proveedor; Balance es lo que se le adeuda.
type Supplier struct {
	ID        string
	Name      string
	Phone     string
	Balance   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
