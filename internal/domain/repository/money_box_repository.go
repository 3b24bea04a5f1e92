package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// MoneyBoxRepository define el puerto para cajas y su libro de transacciones.
// GetByID/GetForUpdate devuelven domain.ErrMoneyBoxNotFound si no existe.
type MoneyBoxRepository interface {
	Create(ctx context.Context, box *entity.MoneyBox) error
	GetByID(ctx context.Context, id string) (*entity.MoneyBox, error)
	GetForUpdate(ctx context.Context, id string) (*entity.MoneyBox, error)
	AdjustBalance(ctx context.Context, id string, delta decimal.Decimal) error
	List(ctx context.Context) ([]*entity.MoneyBox, error)
	CreateTransaction(ctx context.Context, tx *entity.CashTransaction) error
	ListTransactions(ctx context.Context, moneyBoxID string, limit, offset int) ([]*entity.CashTransaction, int, error)
	// ListByReference devuelve las transacciones de todas las cajas ligadas a un documento, en orden de registro.
	ListByReference(ctx context.Context, referenceType, referenceID string) ([]*entity.CashTransaction, error)
}

// PaymentVoucherRepository define el puerto para comprobantes de pago (solo inserción).
type PaymentVoucherRepository interface {
	Create(ctx context.Context, voucher *entity.PaymentVoucher) error
	// GetByID devuelve domain.ErrVoucherNotFound si no existe.
	GetByID(ctx context.Context, id string) (*entity.PaymentVoucher, error)
	ListByBill(ctx context.Context, billID string) ([]*entity.PaymentVoucher, error)
}
