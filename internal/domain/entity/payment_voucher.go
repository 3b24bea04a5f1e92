package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentVoucher es el comprobante de un pago aplicado a una factura (solo inserción).
type PaymentVoucher struct {
	ID            string
	BillID        string
	BillKind      BillKind
	BillNumber    string
	Amount        decimal.Decimal
	PaymentMethod string
	CreatedBy     string
	CreatedAt     time.Time
}
