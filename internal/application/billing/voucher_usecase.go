package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/ports"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// issueVoucher emite un comprobante de pago (solo inserción) por el monto aplicado.
func issueVoucher(ctx context.Context, repos repository.Repos, bill *entity.Bill, amount decimal.Decimal, method, userID string, now time.Time) (*entity.PaymentVoucher, error) {
	v := &entity.PaymentVoucher{
		ID:            uuid.New().String(),
		BillID:        bill.ID,
		BillKind:      bill.Kind,
		BillNumber:    bill.Number,
		Amount:        amount,
		PaymentMethod: method,
		CreatedBy:     userID,
		CreatedAt:     now,
	}
	if err := repos.Vouchers.Create(ctx, v); err != nil {
		return nil, fmt.Errorf("crear comprobante: %w", err)
	}
	return v, nil
}

// VoucherUseCase consulta comprobantes de pago y genera su PDF.
type VoucherUseCase struct {
	voucherRepo repository.PaymentVoucherRepository
	billRepo    repository.BillRepository
	renderer    ports.VoucherPDFRenderer
}

// NewVoucherUseCase construye el caso de uso inyectando todas sus dependencias.
func NewVoucherUseCase(
	voucherRepo repository.PaymentVoucherRepository,
	billRepo repository.BillRepository,
	renderer ports.VoucherPDFRenderer,
) *VoucherUseCase {
	return &VoucherUseCase{
		voucherRepo: voucherRepo,
		billRepo:    billRepo,
		renderer:    renderer,
	}
}

// Get devuelve un comprobante.
func (uc *VoucherUseCase) Get(ctx context.Context, id string) (*dto.PaymentVoucherResponse, error) {
	v, err := uc.voucherRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.ToVoucherResponse(v)
	return &resp, nil
}

// ListByBill lista los comprobantes emitidos para una factura.
func (uc *VoucherUseCase) ListByBill(ctx context.Context, billID string) ([]dto.PaymentVoucherResponse, error) {
	if _, err := uc.billRepo.GetByID(ctx, billID); err != nil {
		return nil, err
	}
	list, err := uc.voucherRepo.ListByBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PaymentVoucherResponse, 0, len(list))
	for _, v := range list {
		out = append(out, dto.ToVoucherResponse(v))
	}
	return out, nil
}

// DownloadVoucherPDF carga el comprobante y su factura y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)   si todo sale bien.
//   - domain.ErrVoucherNotFound   si el comprobante no existe.
//
// Si la factura fue eliminada el comprobante se genera igual, sin los saldos de la factura.
func (uc *VoucherUseCase) DownloadVoucherPDF(ctx context.Context, id string) (pdfBytes []byte, filename string, err error) {
	// ── 1. Cargar comprobante ─────────────────────────────────────────────────
	v, err := uc.voucherRepo.GetByID(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener comprobante: %w", err)
	}

	// ── 2. Cargar factura ─────────────────────────────────────────────────────
	bill, err := uc.billRepo.GetByID(ctx, v.BillID)
	if err != nil && !errors.Is(err, domain.ErrBillNotFound) {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}

	// ── 3. Generar PDF ────────────────────────────────────────────────────────
	pdfBytes, err = uc.renderer.RenderVoucher(v, bill)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	short := v.ID
	if len(short) > 8 {
		short = short[:8]
	}
	filename = fmt.Sprintf("comprobante_%s_%s.pdf", v.BillNumber, short)
	return pdfBytes, filename, nil
}
