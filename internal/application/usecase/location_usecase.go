package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/invalidation"
	"github.com/jhoicas/stock-ledger/internal/application/ports"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// LocationUseCase casos de uso CRUD para ubicaciones ("stocks"). La ocupación se maneja vía movimientos.
type LocationUseCase struct {
	txRunner    ports.TxRunner
	repos       repository.Repos
	invalidator invalidation.Invalidator
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(txRunner ports.TxRunner, repos repository.Repos, invalidator invalidation.Invalidator) *LocationUseCase {
	return &LocationUseCase{txRunner: txRunner, repos: repos, invalidator: invalidator}
}

// Create crea una nueva ubicación. El código es único; si es la primera o viene is_main,
// queda como principal (solo una principal a la vez).
func (uc *LocationUseCase) Create(ctx context.Context, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	code := strings.TrimSpace(in.Code)
	name := strings.TrimSpace(in.Name)
	vErr := &domain.ValidationError{}
	if code == "" {
		vErr.Add("code", "el código es obligatorio")
	}
	if name == "" {
		vErr.Add("name", "el nombre es obligatorio")
	}
	if in.Capacity < 0 {
		vErr.Add("capacity", "la capacidad no puede ser negativa")
	}
	if !vErr.Empty() {
		return nil, vErr
	}

	now := time.Now()
	loc := &entity.Location{
		ID:        uuid.New().String(),
		Code:      code,
		Name:      name,
		Capacity:  in.Capacity,
		IsMain:    in.IsMain,
		IsActive:  in.IsActive == nil || *in.IsActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		if _, err := repos.Locations.GetByCode(ctx, code); err == nil {
			return domain.ErrDuplicate
		} else if !errors.Is(err, domain.ErrLocationNotFound) {
			return err
		}
		if _, err := repos.Locations.GetMain(ctx); errors.Is(err, domain.ErrLocationNotFound) {
			loc.IsMain = true
		} else if err != nil {
			return err
		}
		if loc.IsMain {
			if err := repos.Locations.ClearMain(ctx); err != nil {
				return err
			}
		}
		return repos.Locations.Create(ctx, loc)
	})
	if err != nil {
		return nil, err
	}
	uc.invalidator.Invalidate(ctx, invalidation.OpLocationChanged)
	resp := dto.ToLocationResponse(loc)
	return &resp, nil
}

// GetByID obtiene una ubicación por ID.
func (uc *LocationUseCase) GetByID(ctx context.Context, id string) (*dto.LocationResponse, error) {
	loc, err := uc.repos.Locations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.ToLocationResponse(loc)
	return &resp, nil
}

// Update actualiza código, nombre, capacidad o estado. La capacidad no puede quedar por debajo
// de la ocupación actual.
func (uc *LocationUseCase) Update(ctx context.Context, id string, in dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	var loc *entity.Location
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		var err error
		loc, err = repos.Locations.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if in.Code != nil {
			code := strings.TrimSpace(*in.Code)
			if code == "" {
				return domain.NewValidationError("code", "el código es obligatorio")
			}
			if other, err := repos.Locations.GetByCode(ctx, code); err == nil && other.ID != loc.ID {
				return domain.ErrDuplicate
			}
			loc.Code = code
		}
		if in.Name != nil {
			loc.Name = strings.TrimSpace(*in.Name)
		}
		if in.Capacity != nil {
			if *in.Capacity < 0 {
				return domain.NewValidationError("capacity", "la capacidad no puede ser negativa")
			}
			if *in.Capacity > 0 && *in.Capacity < loc.CurrentCapacityUsed {
				return domain.NewValidationError("capacity", "la capacidad es menor que la ocupación actual")
			}
			loc.Capacity = *in.Capacity
		}
		if in.IsActive != nil {
			if !*in.IsActive && loc.IsMain {
				return domain.NewValidationError("is_active", "la ubicación principal no se puede desactivar")
			}
			loc.IsActive = *in.IsActive
		}
		loc.UpdatedAt = time.Now()
		return repos.Locations.Update(ctx, loc)
	})
	if err != nil {
		return nil, err
	}
	uc.invalidator.Invalidate(ctx, invalidation.OpLocationChanged)
	resp := dto.ToLocationResponse(loc)
	return &resp, nil
}

// SetMain marca la ubicación como principal y desmarca las demás en la misma transacción.
func (uc *LocationUseCase) SetMain(ctx context.Context, id string) (*dto.LocationResponse, error) {
	var loc *entity.Location
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		var err error
		loc, err = repos.Locations.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !loc.IsActive {
			return domain.ErrLocationInactive
		}
		if err := repos.Locations.ClearMain(ctx); err != nil {
			return err
		}
		loc.IsMain = true
		loc.UpdatedAt = time.Now()
		return repos.Locations.Update(ctx, loc)
	})
	if err != nil {
		return nil, err
	}
	uc.invalidator.Invalidate(ctx, invalidation.OpLocationChanged)
	resp := dto.ToLocationResponse(loc)
	return &resp, nil
}

// Delete elimina una ubicación. Se rechaza si es la principal o si algún producto está
// asignado o tiene saldo en ella; el historial de movimientos se conserva.
func (uc *LocationUseCase) Delete(ctx context.Context, id string) error {
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		loc, err := repos.Locations.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if loc.IsMain {
			return domain.ErrMainLocation
		}
		assigned, err := repos.Products.CountByStock(ctx, id)
		if err != nil {
			return err
		}
		if assigned > 0 {
			return domain.ErrLocationInUse
		}
		balances, err := repos.Balances.ListByStock(ctx, id)
		if err != nil {
			return err
		}
		for _, b := range balances {
			if b.Quantity != 0 {
				return domain.ErrLocationInUse
			}
		}
		return repos.Locations.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.invalidator.Invalidate(ctx, invalidation.OpLocationChanged)
	return nil
}
