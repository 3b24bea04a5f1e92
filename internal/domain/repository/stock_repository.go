package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// StockBalanceRepository define el puerto para el saldo materializado por producto+ubicación.
// Usado dentro de transacciones para garantizar consistencia con el ledger.
// Get y GetForUpdate devuelven saldo 0 (sin error) cuando el par no tiene fila.
type StockBalanceRepository interface {
	Get(ctx context.Context, productID, stockID string) (*entity.StockBalance, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE); la crea en 0 si no existe para poder bloquearla.
	GetForUpdate(ctx context.Context, productID, stockID string) (*entity.StockBalance, error)
	Upsert(ctx context.Context, balance *entity.StockBalance) error
	ListByProduct(ctx context.Context, productID string) ([]entity.StockBalance, error)
	ListByStock(ctx context.Context, stockID string) ([]entity.StockBalance, error)
	ListAll(ctx context.Context) ([]entity.StockBalance, error)
}
