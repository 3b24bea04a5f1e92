package billing

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// StockLedger interfaz para integrar facturación con el ledger de inventario.
// Ambos métodos usan los repositorios del caller (misma transacción); si retornan error
// (ej: ErrInsufficientStock) el caller debe hacer rollback.
type StockLedger interface {
	RecordMovementInTx(ctx context.Context, repos repository.Repos, in inventory.MovementInput) (*inventory.MovementResult, error)
	ReverseReferenceInTx(ctx context.Context, repos repository.Repos, referenceType, referenceID, notes, userID string) (int, error)
}

var _ StockLedger = (*inventory.LedgerUseCase)(nil)
