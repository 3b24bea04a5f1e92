package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillDataRequest cabecera de una factura de venta, compra o devolución.
// Ventas usan customer_id, compras supplier_id; devoluciones original_bill_id + original_kind.
type BillDataRequest struct {
	Number         string          `json:"number,omitempty" validate:"max=50"`
	CustomerID     string          `json:"customer_id,omitempty"`
	SupplierID     string          `json:"supplier_id,omitempty"`
	OriginalBillID string          `json:"original_bill_id,omitempty"`
	OriginalKind   string          `json:"original_kind,omitempty" validate:"omitempty,oneof=sale purchase"`
	StockID        *string         `json:"stock_id,omitempty"`
	Date           *time.Time      `json:"date,omitempty"`
	DueDate        *time.Time      `json:"due_date,omitempty"`
	Discount       decimal.Decimal `json:"discount" validate:"gte=0"`
	DiscountType   string          `json:"discount_type,omitempty" validate:"omitempty,oneof=percentage fixed"`
	TaxRate        decimal.Decimal `json:"tax_rate" validate:"gte=0"`
	PaidAmount     decimal.Decimal `json:"paid_amount" validate:"gte=0"`
	PaymentMethod  string          `json:"payment_method,omitempty" validate:"max=30"`
	Notes          string          `json:"notes,omitempty" validate:"max=500"`
	CreateVoucher  bool            `json:"create_voucher,omitempty"`
}

// BillItemRequest línea de la factura. En devoluciones original_item_id apunta a la línea original.
type BillItemRequest struct {
	ProductID       string          `json:"product_id" validate:"required"`
	StockID         *string         `json:"stock_id,omitempty"`
	Quantity        int64           `json:"quantity" validate:"required,gt=0"`
	Price           decimal.Decimal `json:"price" validate:"gte=0"`
	DiscountPercent decimal.Decimal `json:"discount_percent" validate:"gte=0,lte=100"`
	TaxPercent      decimal.Decimal `json:"tax_percent" validate:"gte=0"`
	OriginalItemID  *string         `json:"original_item_id,omitempty"`
}

// CreateBillRequest body de POST /api/bills/sale|purchase|return.
type CreateBillRequest struct {
	BillData   BillDataRequest   `json:"billData"`
	Items      []BillItemRequest `json:"items" validate:"required,min=1,dive"`
	MoneyBoxID *string           `json:"moneyBoxId,omitempty"`
}

// UpdatePaymentRequest body de PUT /api/bills/:kind/:id/payment.
type UpdatePaymentRequest struct {
	PaidAmount    decimal.Decimal `json:"paid_amount" validate:"gte=0"`
	PaymentMethod string          `json:"payment_method,omitempty" validate:"max=30"`
	CreateVoucher bool            `json:"create_voucher,omitempty"`
	MoneyBoxID    *string         `json:"moneyBoxId,omitempty"`
}

// BillItemResponse salida de una línea.
type BillItemResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	StockID         string          `json:"stock_id"`
	Quantity        int64           `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	TaxPercent      decimal.Decimal `json:"tax_percent"`
	Total           decimal.Decimal `json:"total"`
	OriginalItemID  *string         `json:"original_item_id,omitempty"`
}

// BillResponse salida de una factura.
type BillResponse struct {
	ID              string                   `json:"id"`
	Kind            string                   `json:"kind"`
	Number          string                   `json:"number"`
	CounterpartyID  string                   `json:"counterparty_id"`
	OriginalBillID  *string                  `json:"original_bill_id,omitempty"`
	OriginalKind    string                   `json:"original_kind,omitempty"`
	StockID         string                   `json:"stock_id"`
	Date            time.Time                `json:"date"`
	DueDate         *time.Time               `json:"due_date,omitempty"`
	Discount        decimal.Decimal          `json:"discount"`
	DiscountType    string                   `json:"discount_type"`
	TaxRate         decimal.Decimal          `json:"tax_rate"`
	Subtotal        decimal.Decimal          `json:"subtotal"`
	DiscountAmount  decimal.Decimal          `json:"discount_amount"`
	TaxAmount       decimal.Decimal          `json:"tax_amount"`
	NetAmount       decimal.Decimal          `json:"net_amount"`
	PaidAmount      decimal.Decimal          `json:"paid_amount"`
	RemainingAmount decimal.Decimal          `json:"remaining_amount"`
	PaymentMethod   string                   `json:"payment_method"`
	PaymentStatus   string                   `json:"payment_status"`
	Status          string                   `json:"status"`
	MoneyBoxID      *string                  `json:"money_box_id,omitempty"`
	Notes           string                   `json:"notes"`
	CreatedBy       string                   `json:"created_by"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
	Items           []BillItemResponse       `json:"items"`
	Vouchers        []PaymentVoucherResponse `json:"vouchers,omitempty"`
}

// BillListRequest filtros de GET /api/bills/:kind.
type BillListRequest struct {
	CounterpartyID string `query:"counterparty_id"`
	Page           int    `query:"page" validate:"omitempty,min=1"`
	Limit          int    `query:"limit" validate:"omitempty,min=1,max=100"`
}

// PageRequest extrae la paginación normalizada.
func (r BillListRequest) PageRequest() PageRequest {
	p := PageRequest{Page: r.Page, Limit: r.Limit}
	p.DefaultPage()
	return p
}

// PaymentVoucherResponse salida de un comprobante de pago.
type PaymentVoucherResponse struct {
	ID            string          `json:"id"`
	BillID        string          `json:"bill_id"`
	BillKind      string          `json:"bill_kind"`
	BillNumber    string          `json:"bill_number"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	CreatedBy     string          `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
}
