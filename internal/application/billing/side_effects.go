package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/billing"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// CounterpartyLedger saldo acumulado de la contraparte de una factura (deuda del cliente o
// saldo adeudado al proveedor), ligado a la transacción en curso.
type CounterpartyLedger interface {
	// Lock bloquea la fila de la contraparte; ErrCounterpartyNotFound si no existe.
	Lock(ctx context.Context, id string) error
	// Adjust suma delta (con signo) al saldo.
	Adjust(ctx context.Context, id string, delta decimal.Decimal) error
}

// CashRegister registra el dinero cobrado o pagado en una caja, ligado a la transacción en curso.
type CashRegister interface {
	Lock(ctx context.Context, moneyBoxID string) error
	Record(ctx context.Context, entry CashEntry) error
}

// CashEntry movimiento de caja asociado a una factura.
type CashEntry struct {
	MoneyBoxID    string
	Direction     string
	Amount        decimal.Decimal
	ReferenceType string
	ReferenceID   string
	Notes         string
	UserID        string
}

// counterpartyFor devuelve el adaptador según la contraparte de la política.
func counterpartyFor(c billing.Counterparty, repos repository.Repos) CounterpartyLedger {
	if c == billing.CounterpartySupplier {
		return supplierLedger{repo: repos.Suppliers}
	}
	return customerLedger{repo: repos.Customers}
}

type customerLedger struct {
	repo repository.CustomerRepository
}

func (l customerLedger) Lock(ctx context.Context, id string) error {
	_, err := l.repo.GetForUpdate(ctx, id)
	return err
}

func (l customerLedger) Adjust(ctx context.Context, id string, delta decimal.Decimal) error {
	if delta.IsZero() {
		return nil
	}
	return l.repo.AdjustDebt(ctx, id, delta)
}

type supplierLedger struct {
	repo repository.SupplierRepository
}

func (l supplierLedger) Lock(ctx context.Context, id string) error {
	_, err := l.repo.GetForUpdate(ctx, id)
	return err
}

func (l supplierLedger) Adjust(ctx context.Context, id string, delta decimal.Decimal) error {
	if delta.IsZero() {
		return nil
	}
	return l.repo.AdjustBalance(ctx, id, delta)
}

// moneyBoxRegister implementa CashRegister sobre el repositorio de cajas.
type moneyBoxRegister struct {
	repo repository.MoneyBoxRepository
	now  func() time.Time
}

func newCashRegister(repos repository.Repos, now func() time.Time) CashRegister {
	return moneyBoxRegister{repo: repos.MoneyBoxes, now: now}
}

func (r moneyBoxRegister) Lock(ctx context.Context, moneyBoxID string) error {
	_, err := r.repo.GetForUpdate(ctx, moneyBoxID)
	return err
}

// Record inserta la transacción y ajusta el saldo de la caja. Montos no positivos se ignoran.
func (r moneyBoxRegister) Record(ctx context.Context, e CashEntry) error {
	if !e.Amount.IsPositive() {
		return nil
	}
	tx := &entity.CashTransaction{
		ID:            uuid.New().String(),
		MoneyBoxID:    e.MoneyBoxID,
		Direction:     e.Direction,
		Amount:        e.Amount,
		ReferenceType: e.ReferenceType,
		ReferenceID:   e.ReferenceID,
		Notes:         e.Notes,
		CreatedBy:     e.UserID,
		CreatedAt:     r.now(),
	}
	if err := r.repo.CreateTransaction(ctx, tx); err != nil {
		return err
	}
	return r.repo.AdjustBalance(ctx, e.MoneyBoxID, tx.Signed())
}

// counterpartySign +1 si la factura aumenta el saldo de la contraparte (venta/compra),
// −1 si lo disminuye (devolución).
func counterpartySign(b *entity.Bill) decimal.Decimal {
	if b.Kind == entity.BillKindReturn {
		return decimal.NewFromInt(-1)
	}
	return decimal.NewFromInt(1)
}
