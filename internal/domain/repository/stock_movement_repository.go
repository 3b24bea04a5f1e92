package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// MovementFilter filtros del historial de movimientos. Campos vacíos no filtran.
type MovementFilter struct {
	MovementType  string
	FromStockID   string
	ToStockID     string
	ProductID     string
	ReferenceType string
	ReferenceID   string
	Limit         int
	Offset        int
}

// StockMovementRepository define el puerto del ledger de movimientos. Es solo-inserción:
// no existen Update ni Delete.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	// GetByID devuelve domain.ErrMovementNotFound si no existe.
	GetByID(ctx context.Context, id string) (*entity.StockMovement, error)
	// List devuelve la página pedida (más reciente primero) y el total sin paginar.
	List(ctx context.Context, filter MovementFilter) ([]*entity.StockMovement, int, error)
	// ListByReference devuelve los movimientos originados por un documento, en orden de inserción.
	ListByReference(ctx context.Context, referenceType, referenceID string) ([]*entity.StockMovement, error)
	// IsReversed indica si ya existe un movimiento con reversal_of = movementID.
	IsReversed(ctx context.Context, movementID string) (bool, error)
	// Fold calcula Σ(to = ubicación) − Σ(from = ubicación) para un producto.
	Fold(ctx context.Context, productID, stockID string) (int64, error)
	// FoldAll calcula el fold para cada par (producto, ubicación) con movimientos.
	FoldAll(ctx context.Context) ([]entity.StockBalance, error)
}
