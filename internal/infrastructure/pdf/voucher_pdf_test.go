package pdf_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/pdf"
)

func voucher() *entity.PaymentVoucher {
	return &entity.PaymentVoucher{
		ID:            "3f1c2a9e-8d7b-4c1a-9e2f-0a1b2c3d4e5f",
		BillID:        "bill-1",
		BillKind:      entity.BillKindSale,
		BillNumber:    "S-000001",
		Amount:        decimal.RequireFromString("60"),
		PaymentMethod: "cash",
		CreatedAt:     time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC),
	}
}

func TestRenderVoucher_GeneraPDF(t *testing.T) {
	r := pdf.NewMarotoVoucherRenderer("Stock Ledger", language.Spanish)
	bill := &entity.Bill{
		ID: "bill-1", Kind: entity.BillKindSale, Number: "S-000001",
		Date:            time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		NetAmount:       decimal.NewFromInt(100),
		PaidAmount:      decimal.NewFromInt(100),
		RemainingAmount: decimal.Zero,
		PaymentStatus:   entity.PaymentStatusPaid,
	}

	out, err := r.RenderVoucher(voucher(), bill)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderVoucher_SinFactura(t *testing.T) {
	r := pdf.NewMarotoVoucherRenderer("Stock Ledger", language.Spanish)
	out, err := r.RenderVoucher(voucher(), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestFormatMoney_DosDecimales(t *testing.T) {
	en := pdf.NewMarotoVoucherRenderer("x", language.English)
	assert.Equal(t, "$1,234,567.50", en.FormatMoney(decimal.RequireFromString("1234567.5")))
	assert.Equal(t, "$0.00", en.FormatMoney(decimal.Zero))

	es := pdf.NewMarotoVoucherRenderer("x", language.Spanish)
	assert.Contains(t, es.FormatMoney(decimal.RequireFromString("1234567.5")), "567,50")
}
