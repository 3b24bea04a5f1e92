package billing

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/billing"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// UpdatePaymentStatus fija el nuevo monto pagado de una factura. Recalcula saldo y estado de pago
// sin tocar líneas ni movimientos, y aplica a la contraparte y a la caja solo la diferencia
// contra el monto pagado anterior (leído con la fila bloqueada).
func (o *Orchestrator) UpdatePaymentStatus(ctx context.Context, userID string, kind entity.BillKind, billID string, in dto.UpdatePaymentRequest) (*dto.BillResponse, error) {
	if in.PaidAmount.IsNegative() {
		return nil, domain.NewValidationError("paid_amount", "el monto pagado no puede ser negativo")
	}

	var out createdBill
	err := o.txRunner.Run(ctx, func(repos repository.Repos) error {
		now := o.now()
		bill, err := loadBill(ctx, repos.Bills, kind, billID, true)
		if err != nil {
			return err
		}
		if bill.Status == entity.BillStatusCancelled {
			return domain.ErrBillCancelled
		}
		if err := billing.ValidatePaid(bill.NetAmount, in.PaidAmount); err != nil {
			return err
		}
		policy, ok := billing.PolicyForBill(bill)
		if !ok {
			return domain.NewValidationError("kind", "tipo de factura desconocido")
		}

		delta := in.PaidAmount.Sub(bill.PaidAmount)
		counterparty := counterpartyFor(policy.Counterparty, repos)
		if err := counterparty.Lock(ctx, bill.CounterpartyID); err != nil {
			return err
		}
		// Pagar más reduce el saldo pendiente: la contraparte se mueve en −delta.
		if err := counterparty.Adjust(ctx, bill.CounterpartyID, delta.Neg().Mul(counterpartySign(bill))); err != nil {
			return err
		}

		boxID := bill.MoneyBoxID
		if in.MoneyBoxID != nil && *in.MoneyBoxID != "" {
			id := *in.MoneyBoxID
			boxID = &id
		}
		if boxID != nil && !delta.IsZero() {
			cash := newCashRegister(repos, o.now)
			if err := cash.Lock(ctx, *boxID); err != nil {
				return err
			}
			direction := policy.CashDirection
			if delta.IsNegative() {
				direction = billing.CashReversal(direction)
			}
			if err := cash.Record(ctx, CashEntry{
				MoneyBoxID:    *boxID,
				Direction:     direction,
				Amount:        delta.Abs(),
				ReferenceType: string(bill.Kind),
				ReferenceID:   bill.ID,
				Notes:         "Pago factura " + bill.Number,
				UserID:        userID,
			}); err != nil {
				return err
			}
			bill.MoneyBoxID = boxID
		}

		bill.PaidAmount = in.PaidAmount
		bill.RemainingAmount = billing.Remaining(bill.NetAmount, in.PaidAmount)
		bill.PaymentStatus = billing.PaymentStatus(bill.NetAmount, in.PaidAmount)
		if in.PaymentMethod != "" {
			bill.PaymentMethod = in.PaymentMethod
		}
		bill.UpdatedAt = now
		if err := repos.Bills.Update(ctx, bill); err != nil {
			return err
		}

		out.bill = bill
		if in.CreateVoucher && delta.IsPositive() {
			v, err := issueVoucher(ctx, repos, bill, delta, bill.PaymentMethod, userID, now)
			if err != nil {
				return err
			}
			out.voucher = v
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	o.invalidator.Invalidate(ctx, paymentOp(out.bill))

	resp := dto.ToBillResponse(out.bill)
	if out.voucher != nil {
		resp.Vouchers = []dto.PaymentVoucherResponse{dto.ToVoucherResponse(out.voucher)}
	}
	return &resp, nil
}
