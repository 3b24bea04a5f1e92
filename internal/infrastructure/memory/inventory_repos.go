package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var (
	_ repository.LocationRepository      = (*LocationRepo)(nil)
	_ repository.ProductRepository       = (*ProductRepo)(nil)
	_ repository.StockMovementRepository = (*MovementRepo)(nil)
	_ repository.StockBalanceRepository  = (*BalanceRepo)(nil)
)

// ── Ubicaciones ──────────────────────────────────────────────────────────────

// LocationRepo ubicaciones en memoria.
type LocationRepo struct{ h handle }

func (r *LocationRepo) Create(_ context.Context, l *entity.Location) error {
	return r.h.write(func(st *state) error {
		for _, cur := range st.locations {
			if cur.Code == l.Code {
				return domain.ErrDuplicate
			}
		}
		st.locations[l.ID] = *l
		return nil
	})
}

func (r *LocationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	var out *entity.Location
	err := r.h.read(func(st *state) error {
		l, ok := st.locations[id]
		if !ok {
			return domain.ErrLocationNotFound
		}
		out = &l
		return nil
	})
	return out, err
}

func (r *LocationRepo) GetForUpdate(ctx context.Context, id string) (*entity.Location, error) {
	return r.GetByID(ctx, id)
}

func (r *LocationRepo) GetByCode(_ context.Context, code string) (*entity.Location, error) {
	var out *entity.Location
	err := r.h.read(func(st *state) error {
		for _, l := range st.locations {
			if l.Code == code {
				l := l
				out = &l
				return nil
			}
		}
		return domain.ErrLocationNotFound
	})
	return out, err
}

func (r *LocationRepo) GetMain(_ context.Context) (*entity.Location, error) {
	var out *entity.Location
	err := r.h.read(func(st *state) error {
		for _, l := range st.locations {
			if l.IsMain {
				l := l
				out = &l
				return nil
			}
		}
		return domain.ErrLocationNotFound
	})
	return out, err
}

func (r *LocationRepo) Update(_ context.Context, l *entity.Location) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.locations[l.ID]; !ok {
			return domain.ErrLocationNotFound
		}
		for id, cur := range st.locations {
			if id != l.ID && cur.Code == l.Code {
				return domain.ErrDuplicate
			}
		}
		st.locations[l.ID] = *l
		return nil
	})
}

func (r *LocationRepo) AdjustCapacityUsed(_ context.Context, id string, delta int64) error {
	return r.h.write(func(st *state) error {
		l, ok := st.locations[id]
		if !ok {
			return domain.ErrLocationNotFound
		}
		l.CurrentCapacityUsed += delta
		l.UpdatedAt = time.Now()
		st.locations[id] = l
		return nil
	})
}

func (r *LocationRepo) ClearMain(_ context.Context) error {
	return r.h.write(func(st *state) error {
		for id, l := range st.locations {
			if l.IsMain {
				l.IsMain = false
				st.locations[id] = l
			}
		}
		return nil
	})
}

func (r *LocationRepo) List(_ context.Context) ([]*entity.Location, error) {
	var out []*entity.Location
	err := r.h.read(func(st *state) error {
		for _, l := range st.locations {
			l := l
			out = append(out, &l)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, err
}

func (r *LocationRepo) Delete(_ context.Context, id string) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.locations[id]; !ok {
			return domain.ErrLocationNotFound
		}
		delete(st.locations, id)
		return nil
	})
}

// ── Productos ────────────────────────────────────────────────────────────────

// ProductRepo productos en memoria.
type ProductRepo struct{ h handle }

func productConflict(st *state, p *entity.Product) bool {
	for id, cur := range st.products {
		if id == p.ID {
			continue
		}
		if p.SKU != "" && cur.SKU == p.SKU {
			return true
		}
		if p.Barcode != "" && cur.Barcode == p.Barcode {
			return true
		}
	}
	return false
}

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.products[p.ID]; ok || productConflict(st, p) {
			return domain.ErrDuplicate
		}
		st.products[p.ID] = *p
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.h.read(func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return domain.ErrProductNotFound
		}
		out = &p
		return nil
	})
	return out, err
}

func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	var out *entity.Product
	err := r.h.read(func(st *state) error {
		for _, p := range st.products {
			if sku != "" && p.SKU == sku {
				p := p
				out = &p
				return nil
			}
		}
		return domain.ErrProductNotFound
	})
	return out, err
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.products[p.ID]; !ok {
			return domain.ErrProductNotFound
		}
		if productConflict(st, p) {
			return domain.ErrDuplicate
		}
		st.products[p.ID] = *p
		return nil
	})
}

func (r *ProductRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	var all []*entity.Product
	search := strings.ToLower(f.Search)
	err := r.h.read(func(st *state) error {
		for _, p := range st.products {
			if f.StockID != "" && p.AssignedStock() != f.StockID {
				continue
			}
			if search != "" &&
				!strings.Contains(strings.ToLower(p.Name), search) &&
				!strings.Contains(strings.ToLower(p.SKU), search) &&
				!strings.Contains(strings.ToLower(p.Barcode), search) {
				continue
			}
			p := p
			all = append(all, &p)
		}
		return nil
	})
	sort.Slice(all, func(i, j int) bool {
		if all[i].Name != all[j].Name {
			return all[i].Name < all[j].Name
		}
		return all[i].ID < all[j].ID
	})
	return page(all, f.Limit, f.Offset), len(all), err
}

func (r *ProductRepo) CountByStock(_ context.Context, stockID string) (int, error) {
	n := 0
	err := r.h.read(func(st *state) error {
		for _, p := range st.products {
			if p.AssignedStock() == stockID {
				n++
			}
		}
		return nil
	})
	return n, err
}

// ── Movimientos ──────────────────────────────────────────────────────────────

// MovementRepo ledger de movimientos en memoria (solo inserción).
type MovementRepo struct{ h handle }

func (r *MovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	return r.h.write(func(st *state) error {
		for i := range st.movements {
			if st.movements[i].ID == m.ID {
				return domain.ErrDuplicate
			}
		}
		st.movements = append(st.movements, *m)
		return nil
	})
}

func (r *MovementRepo) GetByID(_ context.Context, id string) (*entity.StockMovement, error) {
	var out *entity.StockMovement
	err := r.h.read(func(st *state) error {
		for i := range st.movements {
			if st.movements[i].ID == id {
				m := st.movements[i]
				out = &m
				return nil
			}
		}
		return domain.ErrMovementNotFound
	})
	return out, err
}

func matchMovement(m *entity.StockMovement, f repository.MovementFilter) bool {
	switch {
	case f.MovementType != "" && m.MovementType != f.MovementType,
		f.FromStockID != "" && m.From() != f.FromStockID,
		f.ToStockID != "" && m.To() != f.ToStockID,
		f.ProductID != "" && m.ProductID != f.ProductID,
		f.ReferenceType != "" && m.ReferenceType != f.ReferenceType,
		f.ReferenceID != "" && m.ReferenceID != f.ReferenceID:
		return false
	}
	return true
}

func (r *MovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.StockMovement, int, error) {
	var all []*entity.StockMovement
	err := r.h.read(func(st *state) error {
		for i := len(st.movements) - 1; i >= 0; i-- {
			m := st.movements[i]
			if matchMovement(&m, f) {
				all = append(all, &m)
			}
		}
		return nil
	})
	sort.SliceStable(all, func(i, j int) bool { return all[i].MovementDate.After(all[j].MovementDate) })
	return page(all, f.Limit, f.Offset), len(all), err
}

func (r *MovementRepo) ListByReference(_ context.Context, referenceType, referenceID string) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	err := r.h.read(func(st *state) error {
		for i := range st.movements {
			m := st.movements[i]
			if m.ReferenceType == referenceType && m.ReferenceID == referenceID {
				out = append(out, &m)
			}
		}
		return nil
	})
	return out, err
}

func (r *MovementRepo) IsReversed(_ context.Context, movementID string) (bool, error) {
	found := false
	err := r.h.read(func(st *state) error {
		for i := range st.movements {
			if rev := st.movements[i].ReversalOf; rev != nil && *rev == movementID {
				found = true
				return nil
			}
		}
		return nil
	})
	return found, err
}

func (r *MovementRepo) Fold(_ context.Context, productID, stockID string) (int64, error) {
	var total int64
	err := r.h.read(func(st *state) error {
		for i := range st.movements {
			m := &st.movements[i]
			if m.ProductID != productID {
				continue
			}
			if m.To() == stockID {
				total += m.Quantity
			}
			if m.From() == stockID {
				total -= m.Quantity
			}
		}
		return nil
	})
	return total, err
}

func (r *MovementRepo) FoldAll(_ context.Context) ([]entity.StockBalance, error) {
	sums := make(map[balanceKey]int64)
	err := r.h.read(func(st *state) error {
		for i := range st.movements {
			m := &st.movements[i]
			if to := m.To(); to != "" {
				sums[balanceKey{m.ProductID, to}] += m.Quantity
			}
			if from := m.From(); from != "" {
				sums[balanceKey{m.ProductID, from}] -= m.Quantity
			}
		}
		return nil
	})
	return sortedBalances(sums), err
}

func sortedBalances(sums map[balanceKey]int64) []entity.StockBalance {
	out := make([]entity.StockBalance, 0, len(sums))
	for k, q := range sums {
		out = append(out, entity.StockBalance{ProductID: k.productID, StockID: k.stockID, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductID != out[j].ProductID {
			return out[i].ProductID < out[j].ProductID
		}
		return out[i].StockID < out[j].StockID
	})
	return out
}

// ── Saldos ───────────────────────────────────────────────────────────────────

// BalanceRepo saldos materializados en memoria.
type BalanceRepo struct{ h handle }

func (r *BalanceRepo) Get(_ context.Context, productID, stockID string) (*entity.StockBalance, error) {
	var out entity.StockBalance
	err := r.h.read(func(st *state) error {
		b, ok := st.balances[balanceKey{productID, stockID}]
		if !ok {
			b = entity.StockBalance{ProductID: productID, StockID: stockID}
		}
		out = b
		return nil
	})
	return &out, err
}

func (r *BalanceRepo) GetForUpdate(ctx context.Context, productID, stockID string) (*entity.StockBalance, error) {
	return r.Get(ctx, productID, stockID)
}

func (r *BalanceRepo) Upsert(_ context.Context, b *entity.StockBalance) error {
	return r.h.write(func(st *state) error {
		st.balances[balanceKey{b.ProductID, b.StockID}] = *b
		return nil
	})
}

func (r *BalanceRepo) list(match func(entity.StockBalance) bool) ([]entity.StockBalance, error) {
	var out []entity.StockBalance
	err := r.h.read(func(st *state) error {
		for _, b := range st.balances {
			if match(b) {
				out = append(out, b)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductID != out[j].ProductID {
			return out[i].ProductID < out[j].ProductID
		}
		return out[i].StockID < out[j].StockID
	})
	return out, err
}

func (r *BalanceRepo) ListByProduct(_ context.Context, productID string) ([]entity.StockBalance, error) {
	return r.list(func(b entity.StockBalance) bool { return b.ProductID == productID })
}

func (r *BalanceRepo) ListByStock(_ context.Context, stockID string) ([]entity.StockBalance, error) {
	return r.list(func(b entity.StockBalance) bool { return b.StockID == stockID })
}

func (r *BalanceRepo) ListAll(_ context.Context) ([]entity.StockBalance, error) {
	return r.list(func(entity.StockBalance) bool { return true })
}
