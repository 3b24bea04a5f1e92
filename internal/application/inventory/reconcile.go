package inventory

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/application/invalidation"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// BalanceDrift saldo materializado distinto del fold del ledger.
type BalanceDrift struct {
	ProductID    string
	StockID      string
	Materialized int64
	Derived      int64
}

// ProductDrift current_stock cacheado distinto del saldo en la ubicación asignada.
type ProductDrift struct {
	ProductID string
	StockID   string
	Cached    int64
	Derived   int64
}

// CapacityDrift current_capacity_used distinto de la suma de saldos de la ubicación.
type CapacityDrift struct {
	StockID string
	Cached  int64
	Derived int64
}

// ReconcileReport resultado de comparar las cachés contra el ledger.
type ReconcileReport struct {
	Pairs          int
	BalanceDrifts  []BalanceDrift
	ProductDrifts  []ProductDrift
	CapacityDrifts []CapacityDrift
	Repaired       bool
}

// HasDrift indica si se encontró alguna diferencia.
func (r *ReconcileReport) HasDrift() bool {
	return len(r.BalanceDrifts)+len(r.ProductDrifts)+len(r.CapacityDrifts) > 0
}

// Reconcile recalcula el fold de todo el ledger y lo compara con los saldos materializados,
// Product.current_stock y Location.current_capacity_used. Con repair=true reescribe las cachés
// desde el fold en la misma transacción.
func (uc *LedgerUseCase) Reconcile(ctx context.Context, repair bool) (*ReconcileReport, error) {
	report := &ReconcileReport{}
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		derived, err := repos.Movements.FoldAll(ctx)
		if err != nil {
			return err
		}
		materialized, err := repos.Balances.ListAll(ctx)
		if err != nil {
			return err
		}

		type key struct{ product, stock string }
		fold := make(map[key]int64, len(derived))
		byStock := make(map[string]int64)
		for _, b := range derived {
			fold[key{b.ProductID, b.StockID}] = b.Quantity
			byStock[b.StockID] += b.Quantity
		}
		seen := make(map[key]bool, len(materialized))
		for _, b := range materialized {
			k := key{b.ProductID, b.StockID}
			seen[k] = true
			if d := fold[k]; d != b.Quantity {
				report.BalanceDrifts = append(report.BalanceDrifts, BalanceDrift{b.ProductID, b.StockID, b.Quantity, d})
			}
		}
		for _, b := range derived {
			if !seen[key{b.ProductID, b.StockID}] && b.Quantity != 0 {
				report.BalanceDrifts = append(report.BalanceDrifts, BalanceDrift{b.ProductID, b.StockID, 0, b.Quantity})
			}
		}
		report.Pairs = len(fold)

		products, _, err := repos.Products.List(ctx, repository.ProductFilter{})
		if err != nil {
			return err
		}
		for _, p := range products {
			var d int64
			if s := p.AssignedStock(); s != "" {
				d = fold[key{p.ID, s}]
			}
			if d != p.CurrentStock {
				report.ProductDrifts = append(report.ProductDrifts, ProductDrift{p.ID, p.AssignedStock(), p.CurrentStock, d})
			}
		}

		locations, err := repos.Locations.List(ctx)
		if err != nil {
			return err
		}
		for _, l := range locations {
			if d := byStock[l.ID]; d != l.CurrentCapacityUsed {
				report.CapacityDrifts = append(report.CapacityDrifts, CapacityDrift{l.ID, l.CurrentCapacityUsed, d})
			}
		}

		if !repair || !report.HasDrift() {
			return nil
		}
		now := uc.now()
		for _, d := range report.BalanceDrifts {
			if err := repos.Balances.Upsert(ctx, &entity.StockBalance{
				ProductID: d.ProductID, StockID: d.StockID, Quantity: d.Derived, UpdatedAt: now,
			}); err != nil {
				return err
			}
		}
		productsByID := make(map[string]*entity.Product, len(products))
		for _, p := range products {
			productsByID[p.ID] = p
		}
		for _, d := range report.ProductDrifts {
			p := productsByID[d.ProductID]
			p.CurrentStock = d.Derived
			p.UpdatedAt = now
			if err := repos.Products.Update(ctx, p); err != nil {
				return err
			}
		}
		for _, d := range report.CapacityDrifts {
			if err := repos.Locations.AdjustCapacityUsed(ctx, d.StockID, d.Derived-d.Cached); err != nil {
				return err
			}
		}
		report.Repaired = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if report.Repaired {
		uc.invalidator.Invalidate(ctx, invalidation.OpRecordMovement)
	}
	return report, nil
}
