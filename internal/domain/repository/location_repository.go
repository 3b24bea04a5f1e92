package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// LocationRepository define el puerto de persistencia para ubicaciones de inventario (DIP).
// GetByID/GetForUpdate devuelven domain.ErrLocationNotFound si no existe.
type LocationRepository interface {
	Create(ctx context.Context, location *entity.Location) error
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) para validar capacidad dentro de la tx.
	GetForUpdate(ctx context.Context, id string) (*entity.Location, error)
	GetByCode(ctx context.Context, code string) (*entity.Location, error)
	// GetMain devuelve la ubicación principal o domain.ErrLocationNotFound si no hay.
	GetMain(ctx context.Context) (*entity.Location, error)
	Update(ctx context.Context, location *entity.Location) error
	// AdjustCapacityUsed suma delta (con signo) a current_capacity_used.
	AdjustCapacityUsed(ctx context.Context, id string, delta int64) error
	// ClearMain quita la marca de principal a todas las ubicaciones.
	ClearMain(ctx context.Context) error
	List(ctx context.Context) ([]*entity.Location, error)
	Delete(ctx context.Context, id string) error
}
