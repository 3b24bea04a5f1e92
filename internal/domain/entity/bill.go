package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillKind distingue las tres variantes de factura que comparten la misma forma.
type BillKind string

const (
	BillKindSale     BillKind = "sale"
	BillKindPurchase BillKind = "purchase"
	BillKindReturn   BillKind = "return"
)

// Valid indica si el tipo de factura es conocido.
func (k BillKind) Valid() bool {
	return k == BillKindSale || k == BillKindPurchase || k == BillKindReturn
}

// Estados de pago.
const (
	PaymentStatusPaid    = "paid"
	PaymentStatusPartial = "partial"
	PaymentStatusUnpaid  = "unpaid"
)

// Estados de la factura.
const (
	BillStatusCompleted         = "completed"
	BillStatusPending           = "pending"
	BillStatusCancelled         = "cancelled"
	BillStatusReturned          = "returned"
	BillStatusPartiallyReturned = "partially_returned"
)

// Tipos de descuento de cabecera.
const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

// Bill es la cabecera de una venta, compra o devolución.
// CounterpartyID apunta a un cliente (ventas) o a un proveedor (compras); una devolución hereda
// la contraparte y el tipo (OriginalKind) de la factura original.
type Bill struct {
	ID              string
	Kind            BillKind
	Number          string // invoice_number / return_number (único)
	CounterpartyID  string
	OriginalBillID  *string
	OriginalKind    BillKind
	StockID         string
	Date            time.Time
	DueDate         *time.Time
	Discount        decimal.Decimal
	DiscountType    string
	TaxRate         decimal.Decimal
	Subtotal        decimal.Decimal
	DiscountAmount  decimal.Decimal
	TaxAmount       decimal.Decimal
	NetAmount       decimal.Decimal
	PaidAmount      decimal.Decimal
	RemainingAmount decimal.Decimal
	PaymentMethod   string
	PaymentStatus   string
	Status          string
	MoneyBoxID      *string
	Notes           string
	CreatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Items           []*BillItem
}

// BillItem es una línea de la factura.
type BillItem struct {
	ID              string
	BillID          string
	ProductID       string
	StockID         string
	Quantity        int64
	Price           decimal.Decimal
	DiscountPercent decimal.Decimal
	TaxPercent      decimal.Decimal
	Total           decimal.Decimal
	OriginalItemID  *string // solo en devoluciones: línea de la factura original
}

// EffectiveKind devuelve el tipo que gobierna la contraparte: el de la original para devoluciones.
func (b *Bill) EffectiveKind() BillKind {
	if b.Kind == BillKindReturn {
		return b.OriginalKind
	}
	return b.Kind
}
