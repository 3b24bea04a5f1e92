package ports

import "github.com/jhoicas/stock-ledger/internal/domain/entity"

// VoucherPDFRenderer genera el PDF de un comprobante de pago.
type VoucherPDFRenderer interface {
	RenderVoucher(voucher *entity.PaymentVoucher, bill *entity.Bill) ([]byte, error)
}
