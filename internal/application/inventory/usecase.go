package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/application/invalidation"
	"github.com/jhoicas/stock-ledger/internal/application/ports"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// LedgerUseCase registra movimientos de inventario de forma transaccional sobre el ledger
// solo-inserción, con bloqueo de filas (SELECT FOR UPDATE) y Commit/Rollback por operación.
// El saldo por ubicación se materializa en la misma transacción y siempre es igual al fold.
type LedgerUseCase struct {
	txRunner      ports.TxRunner
	repos         repository.Repos
	invalidator   invalidation.Invalidator
	allowNegative bool
	now           func() time.Time
}

// NewLedgerUseCase construye el caso de uso. allowNegative es el override global de stock negativo.
func NewLedgerUseCase(
	txRunner ports.TxRunner,
	repos repository.Repos,
	invalidator invalidation.Invalidator,
	allowNegative bool,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:      txRunner,
		repos:         repos,
		invalidator:   invalidator,
		allowNegative: allowNegative,
		now:           time.Now,
	}
}

// MovementInput entrada para registrar un movimiento.
// UnitCost nil = costo promedio actual del producto.
type MovementInput struct {
	MovementType    string
	FromStockID     string
	ToStockID       string
	ProductID       string
	Quantity        int64
	UnitCost        *decimal.Decimal
	ReferenceType   string
	ReferenceID     string
	ReferenceNumber string
	MovementDate    time.Time
	Notes           string
	UserID          string
	// AllowNegative permite descontar por debajo de cero en esta llamada.
	AllowNegative bool
}

// MovementResult movimiento creado con los saldos y el producto resultantes.
type MovementResult struct {
	Movement      *entity.StockMovement
	UpdatedStocks []entity.StockBalance
	Product       *entity.Product
}

// applyOptions variantes internas del registro (reversas).
type applyOptions struct {
	reversalOf   string
	skipCapacity bool
	skipActive   bool
}

// RecordMovement inicia una transacción, registra el movimiento y, tras el Commit, invalida la caché.
func (uc *LedgerUseCase) RecordMovement(ctx context.Context, in MovementInput) (*MovementResult, error) {
	var res *MovementResult
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		var err error
		res, err = uc.RecordMovementInTx(ctx, repos, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.invalidator.Invalidate(ctx, invalidation.OpRecordMovement)
	return res, nil
}

// RecordMovementInTx registra el movimiento usando los repositorios del caller (misma transacción).
// Si retorna error (ej: ErrInsufficientStock), el caller debe hacer rollback.
func (uc *LedgerUseCase) RecordMovementInTx(ctx context.Context, repos repository.Repos, in MovementInput) (*MovementResult, error) {
	return uc.apply(ctx, repos, in, applyOptions{})
}

func (uc *LedgerUseCase) apply(ctx context.Context, repos repository.Repos, in MovementInput, opts applyOptions) (*MovementResult, error) {
	if !entity.IsValidMovementType(in.MovementType) {
		return nil, domain.NewValidationError("movement_type", "tipo de movimiento desconocido")
	}
	if in.ProductID == "" {
		return nil, domain.NewValidationError("product_id", "el producto es obligatorio")
	}
	eff, err := inventory.PlanMovement(in.MovementType, in.FromStockID, in.ToStockID, in.Quantity)
	if err != nil {
		return nil, err
	}

	product, err := repos.Products.GetForUpdate(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}

	// Bloquear ubicaciones y saldos siempre en el mismo orden (por ID) para evitar deadlocks.
	deltas := append([]inventory.Delta(nil), eff.Deltas...)
	sort.Slice(deltas, func(i, j int) bool { return deltas[i].StockID < deltas[j].StockID })

	locations := make(map[string]*entity.Location, len(deltas))
	for _, d := range deltas {
		loc, err := repos.Locations.GetForUpdate(ctx, d.StockID)
		if err != nil {
			return nil, err
		}
		if !loc.IsActive && !opts.skipActive {
			return nil, fmt.Errorf("%w: %s", domain.ErrLocationInactive, loc.Code)
		}
		locations[d.StockID] = loc
	}

	balances := make(map[string]*entity.StockBalance, len(deltas))
	for _, d := range deltas {
		bal, err := repos.Balances.GetForUpdate(ctx, in.ProductID, d.StockID)
		if err != nil {
			return nil, err
		}
		balances[d.StockID] = bal
	}

	allowNegative := uc.allowNegative || in.AllowNegative
	for _, d := range deltas {
		bal := balances[d.StockID]
		if d.Amount < 0 && !allowNegative && bal.Quantity < -d.Amount {
			return nil, &domain.InsufficientStockError{
				ProductID:  in.ProductID,
				LocationID: d.StockID,
				Available:  bal.Quantity,
				Requested:  -d.Amount,
			}
		}
		if d.Amount > 0 && eff.CheckCapacity && !opts.skipCapacity {
			loc := locations[d.StockID]
			if loc.HasCapacityLimit() && loc.CurrentCapacityUsed+d.Amount > loc.Capacity {
				return nil, &domain.CapacityExceededError{
					LocationID: d.StockID,
					Capacity:   loc.Capacity,
					Used:       loc.CurrentCapacityUsed,
					Requested:  d.Amount,
				}
			}
		}
	}

	now := uc.now()
	unitCost := product.Cost
	if in.UnitCost != nil {
		if in.UnitCost.IsNegative() {
			return nil, domain.NewValidationError("unit_cost", "el costo unitario no puede ser negativo")
		}
		unitCost = *in.UnitCost
	}

	// Compras: costo promedio ponderado sobre el stock total del producto antes de la entrada.
	if in.MovementType == entity.MovementTypePurchase && in.UnitCost != nil && opts.reversalOf == "" {
		all, err := repos.Balances.ListByProduct(ctx, in.ProductID)
		if err != nil {
			return nil, err
		}
		var onHand int64
		for _, b := range all {
			onHand += b.Quantity
		}
		product.Cost = inventory.CostCalculator(onHand, product.Cost, in.Quantity, unitCost)
	}

	updated := make([]entity.StockBalance, 0, len(deltas))
	for _, d := range deltas {
		bal := balances[d.StockID]
		bal.Quantity += d.Amount
		bal.UpdatedAt = now
		if err := repos.Balances.Upsert(ctx, bal); err != nil {
			return nil, err
		}
		if err := repos.Locations.AdjustCapacityUsed(ctx, d.StockID, d.Amount); err != nil {
			return nil, err
		}
		updated = append(updated, *bal)
	}

	if eff.AssignStock != "" && (!eff.AssignOnlyIfUnassigned || product.StockID == nil) {
		assigned := eff.AssignStock
		product.StockID = &assigned
	}
	product.CurrentStock, err = uc.balanceAt(ctx, repos, product.ID, product.AssignedStock(), balances)
	if err != nil {
		return nil, err
	}
	product.UpdatedAt = now
	if err := repos.Products.Update(ctx, product); err != nil {
		return nil, err
	}

	date := in.MovementDate
	if date.IsZero() {
		date = now
	}
	mov := &entity.StockMovement{
		ID:              uuid.New().String(),
		MovementType:    in.MovementType,
		FromStockID:     optional(in.FromStockID),
		ToStockID:       optional(in.ToStockID),
		ProductID:       in.ProductID,
		Quantity:        in.Quantity,
		UnitCost:        unitCost,
		TotalValue:      unitCost.Mul(decimal.NewFromInt(in.Quantity)).Round(2),
		ReferenceType:   in.ReferenceType,
		ReferenceID:     in.ReferenceID,
		ReferenceNumber: in.ReferenceNumber,
		ReversalOf:      optional(opts.reversalOf),
		MovementDate:    date,
		Notes:           in.Notes,
		CreatedBy:       in.UserID,
		CreatedAt:       now,
	}
	if mov.ReferenceType == "" {
		mov.ReferenceType = entity.ReferenceTypeManual
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return &MovementResult{Movement: mov, UpdatedStocks: updated, Product: product}, nil
}

// balanceAt devuelve el saldo en stockID, usando los saldos ya bloqueados si están a mano.
func (uc *LedgerUseCase) balanceAt(ctx context.Context, repos repository.Repos, productID, stockID string, locked map[string]*entity.StockBalance) (int64, error) {
	if stockID == "" {
		return 0, nil
	}
	if b, ok := locked[stockID]; ok {
		return b.Quantity, nil
	}
	b, err := repos.Balances.Get(ctx, productID, stockID)
	if err != nil {
		return 0, err
	}
	return b.Quantity, nil
}

// Reverse inserta el movimiento compensatorio de movementID y, tras el Commit, invalida la caché.
func (uc *LedgerUseCase) Reverse(ctx context.Context, movementID, notes, userID string) (*MovementResult, error) {
	var res *MovementResult
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		var err error
		res, err = uc.ReverseInTx(ctx, repos, movementID, notes, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.invalidator.Invalidate(ctx, invalidation.OpReverseMovement)
	return res, nil
}

// ReverseInTx inserta un movimiento con origen y destino intercambiados, reference_type=adjustment,
// reference_id y reversal_of apuntando al original. El original nunca se modifica y solo
// puede revertirse una vez (ErrAlreadyReversed).
func (uc *LedgerUseCase) ReverseInTx(ctx context.Context, repos repository.Repos, movementID, notes, userID string) (*MovementResult, error) {
	orig, err := repos.Movements.GetByID(ctx, movementID)
	if err != nil {
		return nil, err
	}
	if orig.ReversalOf != nil {
		return nil, fmt.Errorf("%w: un movimiento de reversa no se puede revertir", domain.ErrConflict)
	}
	reversed, err := repos.Movements.IsReversed(ctx, movementID)
	if err != nil {
		return nil, err
	}
	if reversed {
		return nil, domain.ErrAlreadyReversed
	}

	movementType := entity.MovementTypeAdjustment
	if orig.From() != "" && orig.To() != "" {
		movementType = entity.MovementTypeTransfer
	}
	if notes == "" {
		notes = "Reversa del movimiento " + orig.ID
	}
	unitCost := orig.UnitCost
	in := MovementInput{
		MovementType:    movementType,
		FromStockID:     orig.To(),
		ToStockID:       orig.From(),
		ProductID:       orig.ProductID,
		Quantity:        orig.Quantity,
		UnitCost:        &unitCost,
		ReferenceType:   entity.ReferenceTypeAdjustment,
		ReferenceID:     orig.ID,
		ReferenceNumber: orig.ReferenceNumber,
		Notes:           notes,
		UserID:          userID,
	}
	return uc.apply(ctx, repos, in, applyOptions{reversalOf: orig.ID, skipCapacity: true, skipActive: true})
}

// ReverseReferenceInTx revierte todos los movimientos aún no revertidos de un documento.
func (uc *LedgerUseCase) ReverseReferenceInTx(ctx context.Context, repos repository.Repos, referenceType, referenceID, notes, userID string) (int, error) {
	movs, err := repos.Movements.ListByReference(ctx, referenceType, referenceID)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, m := range movs {
		reversed, err := repos.Movements.IsReversed(ctx, m.ID)
		if err != nil {
			return n, err
		}
		if reversed {
			continue
		}
		if _, err := uc.ReverseInTx(ctx, repos, m.ID, notes, userID); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// CurrentStock devuelve el saldo materializado. locationID vacío = ubicación asignada del producto.
func (uc *LedgerUseCase) CurrentStock(ctx context.Context, productID, locationID string) (int64, error) {
	loc, err := uc.resolveLocation(ctx, productID, locationID)
	if err != nil || loc == "" {
		return 0, err
	}
	b, err := uc.repos.Balances.Get(ctx, productID, loc)
	if err != nil {
		return 0, err
	}
	return b.Quantity, nil
}

// DerivedStock recalcula el saldo desde el ledger: Σ(to = ubicación) − Σ(from = ubicación).
func (uc *LedgerUseCase) DerivedStock(ctx context.Context, productID, locationID string) (int64, error) {
	loc, err := uc.resolveLocation(ctx, productID, locationID)
	if err != nil || loc == "" {
		return 0, err
	}
	return uc.repos.Movements.Fold(ctx, productID, loc)
}

func (uc *LedgerUseCase) resolveLocation(ctx context.Context, productID, locationID string) (string, error) {
	product, err := uc.repos.Products.GetByID(ctx, productID)
	if err != nil {
		return "", err
	}
	if locationID == "" {
		return product.AssignedStock(), nil
	}
	if _, err := uc.repos.Locations.GetByID(ctx, locationID); err != nil {
		return "", err
	}
	return locationID, nil
}

// GetMovement obtiene un movimiento por ID.
func (uc *LedgerUseCase) GetMovement(ctx context.Context, id string) (*entity.StockMovement, error) {
	return uc.repos.Movements.GetByID(ctx, id)
}

// ListMovements lista el historial filtrado (más reciente primero) con el total sin paginar.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, filter repository.MovementFilter) ([]*entity.StockMovement, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	return uc.repos.Movements.List(ctx, filter)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
