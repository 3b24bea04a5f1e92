package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CustomerRepository define el puerto de persistencia para clientes.
// GetByID/GetForUpdate devuelven domain.ErrCounterpartyNotFound si no existe.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Customer, error)
	// AdjustDebt suma delta (con signo) a la deuda del cliente.
	AdjustDebt(ctx context.Context, id string, delta decimal.Decimal) error
	List(ctx context.Context, limit, offset int) ([]*entity.Customer, int, error)
}

// SupplierRepository define el puerto de persistencia para proveedores.
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Supplier, error)
	// AdjustBalance suma delta (con signo) al saldo adeudado al proveedor.
	AdjustBalance(ctx context.Context, id string, delta decimal.Decimal) error
	List(ctx context.Context, limit, offset int) ([]*entity.Supplier, int, error)
}
