package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/invalidation"
	"github.com/jhoicas/stock-ledger/internal/application/ports"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// Orchestrator coordina ventas, compras y devoluciones: cabecera, líneas, movimientos de
// inventario, saldo de la contraparte, caja y comprobantes en una sola transacción.
// La caché se invalida una sola vez tras el Commit y nunca si la operación falla.
type Orchestrator struct {
	txRunner    ports.TxRunner
	repos       repository.Repos
	ledger      StockLedger
	invalidator invalidation.Invalidator
	now         func() time.Time
}

// NewOrchestrator construye el orquestador inyectando todas sus dependencias.
func NewOrchestrator(
	txRunner ports.TxRunner,
	repos repository.Repos,
	ledger StockLedger,
	invalidator invalidation.Invalidator,
) *Orchestrator {
	return &Orchestrator{
		txRunner:    txRunner,
		repos:       repos,
		ledger:      ledger,
		invalidator: invalidator,
		now:         time.Now,
	}
}

// ParseKind valida el tipo de factura recibido en la ruta.
func ParseKind(s string) (entity.BillKind, error) {
	k := entity.BillKind(s)
	if !k.Valid() {
		return "", domain.NewValidationError("kind", "tipo de factura desconocido: "+s)
	}
	return k, nil
}

// createOp, paymentOp y deleteOp fijan la operación de invalidación de cada llamada.
func createOp(b *entity.Bill) invalidation.Operation {
	switch {
	case b.Kind == entity.BillKindSale:
		return invalidation.OpCreateSale
	case b.Kind == entity.BillKindPurchase:
		return invalidation.OpCreatePurchase
	case b.OriginalKind == entity.BillKindPurchase:
		return invalidation.OpCreatePurchaseReturn
	default:
		return invalidation.OpCreateSaleReturn
	}
}

func paymentOp(b *entity.Bill) invalidation.Operation {
	switch {
	case b.Kind == entity.BillKindSale:
		return invalidation.OpUpdateSalePayment
	case b.Kind == entity.BillKindPurchase:
		return invalidation.OpUpdatePurchasePayment
	case b.OriginalKind == entity.BillKindPurchase:
		return invalidation.OpUpdatePurchaseReturnPayment
	default:
		return invalidation.OpUpdateSaleReturnPayment
	}
}

func deleteOp(b *entity.Bill) invalidation.Operation {
	switch {
	case b.Kind == entity.BillKindSale:
		return invalidation.OpDeleteSale
	case b.Kind == entity.BillKindPurchase:
		return invalidation.OpDeletePurchase
	case b.OriginalKind == entity.BillKindPurchase:
		return invalidation.OpDeletePurchaseReturn
	default:
		return invalidation.OpDeleteSaleReturn
	}
}

// loadBill obtiene la factura (bloqueada si forUpdate) y verifica que sea del tipo de la ruta.
func loadBill(ctx context.Context, bills repository.BillRepository, kind entity.BillKind, id string, forUpdate bool) (*entity.Bill, error) {
	var (
		b   *entity.Bill
		err error
	)
	if forUpdate {
		b, err = bills.GetForUpdate(ctx, id)
	} else {
		b, err = bills.GetByID(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	if kind != "" && b.Kind != kind {
		return nil, fmt.Errorf("%w: la factura %s no es de tipo %s", domain.ErrBillNotFound, id, kind)
	}
	return b, nil
}

// GetBill devuelve la factura con sus líneas y comprobantes.
func (o *Orchestrator) GetBill(ctx context.Context, kind entity.BillKind, id string) (*dto.BillResponse, error) {
	b, err := loadBill(ctx, o.repos.Bills, kind, id, false)
	if err != nil {
		return nil, err
	}
	vouchers, err := o.repos.Vouchers.ListByBill(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToBillResponse(b)
	for _, v := range vouchers {
		resp.Vouchers = append(resp.Vouchers, dto.ToVoucherResponse(v))
	}
	return &resp, nil
}

// ListBills lista facturas de un tipo, más recientes primero.
func (o *Orchestrator) ListBills(ctx context.Context, kind entity.BillKind, in dto.BillListRequest) ([]dto.BillResponse, dto.Pagination, error) {
	page := in.PageRequest()
	list, total, err := o.repos.Bills.List(ctx, repository.BillFilter{
		Kind:           kind,
		CounterpartyID: in.CounterpartyID,
		Limit:          page.Limit,
		Offset:         page.Offset(),
	})
	if err != nil {
		return nil, dto.Pagination{}, err
	}
	out := make([]dto.BillResponse, 0, len(list))
	for _, b := range list {
		out = append(out, dto.ToBillResponse(b))
	}
	return out, dto.NewPagination(page, total), nil
}
