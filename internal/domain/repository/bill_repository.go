package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// BillFilter filtros del listado de facturas.
type BillFilter struct {
	Kind           entity.BillKind
	CounterpartyID string
	Limit          int
	Offset         int
}

// BillRepository define el puerto de persistencia para facturas de venta, compra y devolución.
// GetByID/GetForUpdate devuelven domain.ErrBillNotFound si no existe e incluyen las líneas.
type BillRepository interface {
	Create(ctx context.Context, bill *entity.Bill) error
	CreateItem(ctx context.Context, item *entity.BillItem) error
	GetByID(ctx context.Context, id string) (*entity.Bill, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Bill, error)
	// Update actualiza montos y estados de la cabecera.
	Update(ctx context.Context, bill *entity.Bill) error
	// Delete elimina cabecera y líneas.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter BillFilter) ([]*entity.Bill, int, error)
	// ListReturns devuelve las devoluciones que referencian a la factura original.
	ListReturns(ctx context.Context, originalBillID string) ([]*entity.Bill, error)
	// ReturnedQuantities suma lo ya devuelto por línea original (original_item_id → cantidad).
	ReturnedQuantities(ctx context.Context, originalBillID string) (map[string]int64, error)
	// NextNumber devuelve el siguiente consecutivo para el tipo de factura.
	NextNumber(ctx context.Context, kind entity.BillKind) (int64, error)
}
