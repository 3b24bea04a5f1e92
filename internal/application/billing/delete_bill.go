package billing

import (
	"context"
	"sort"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/billing"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// DeleteBill elimina una factura. Se rechaza si alguna devolución la referencia.
// Los movimientos no se borran: se insertan sus reversas. Se deshacen los efectos vigentes
// sobre la contraparte y la caja y, si es una devolución, se recalcula el estado de la original.
func (o *Orchestrator) DeleteBill(ctx context.Context, userID string, kind entity.BillKind, billID string) error {
	var deleted *entity.Bill
	err := o.txRunner.Run(ctx, func(repos repository.Repos) error {
		now := o.now()
		bill, err := loadBill(ctx, repos.Bills, kind, billID, true)
		if err != nil {
			return err
		}
		returns, err := repos.Bills.ListReturns(ctx, bill.ID)
		if err != nil {
			return err
		}
		if len(returns) > 0 {
			return domain.ErrBillHasReturns
		}
		policy, ok := billing.PolicyForBill(bill)
		if !ok {
			return domain.NewValidationError("kind", "tipo de factura desconocido")
		}

		var original *entity.Bill
		if bill.OriginalBillID != nil {
			original, err = repos.Bills.GetForUpdate(ctx, *bill.OriginalBillID)
			if err != nil {
				return err
			}
		}

		if _, err := o.ledger.ReverseReferenceInTx(ctx, repos, policy.ReferenceType, bill.ID,
			"Eliminación de la factura "+bill.Number, userID); err != nil {
			return err
		}

		counterparty := counterpartyFor(policy.Counterparty, repos)
		if err := counterparty.Lock(ctx, bill.CounterpartyID); err != nil {
			return err
		}
		if err := counterparty.Adjust(ctx, bill.CounterpartyID, bill.RemainingAmount.Mul(counterpartySign(bill)).Neg()); err != nil {
			return err
		}
		if err := undoCash(ctx, repos, newCashRegister(repos, o.now), bill, userID); err != nil {
			return err
		}

		if err := repos.Bills.Delete(ctx, bill.ID); err != nil {
			return err
		}
		if original != nil {
			if err := refreshReturnStatus(ctx, repos, original, now); err != nil {
				return err
			}
		}
		deleted = bill
		return nil
	})
	if err != nil {
		return err
	}
	o.invalidator.Invalidate(ctx, deleteOp(deleted))
	return nil
}

// undoCash compensa, caja por caja, las transacciones registradas para la factura.
// El pago pudo repartirse entre varias cajas o hacerse en parte fuera de ellas.
func undoCash(ctx context.Context, repos repository.Repos, cash CashRegister, bill *entity.Bill, userID string) error {
	recorded, err := repos.MoneyBoxes.ListByReference(ctx, string(bill.Kind), bill.ID)
	if err != nil {
		return err
	}
	net := make(map[string]decimal.Decimal)
	for _, t := range recorded {
		net[t.MoneyBoxID] = net[t.MoneyBoxID].Add(t.Signed())
	}
	boxIDs := make([]string, 0, len(net))
	for id, amount := range net {
		if !amount.IsZero() {
			boxIDs = append(boxIDs, id)
		}
	}
	sort.Strings(boxIDs)

	for _, id := range boxIDs {
		if err := cash.Lock(ctx, id); err != nil {
			return err
		}
		direction := entity.CashDirectionOut
		if net[id].IsNegative() {
			direction = entity.CashDirectionIn
		}
		if err := cash.Record(ctx, CashEntry{
			MoneyBoxID:    id,
			Direction:     direction,
			Amount:        net[id].Abs(),
			ReferenceType: string(bill.Kind),
			ReferenceID:   bill.ID,
			Notes:         "Eliminación de la factura " + bill.Number,
			UserID:        userID,
		}); err != nil {
			return err
		}
	}
	return nil
}
