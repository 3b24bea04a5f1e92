package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var (
	_ repository.BillRepository           = (*BillRepo)(nil)
	_ repository.CustomerRepository       = (*CustomerRepo)(nil)
	_ repository.SupplierRepository       = (*SupplierRepo)(nil)
	_ repository.MoneyBoxRepository       = (*MoneyBoxRepo)(nil)
	_ repository.PaymentVoucherRepository = (*VoucherRepo)(nil)
)

// ── Facturas ─────────────────────────────────────────────────────────────────

// BillRepo facturas en memoria; las líneas se guardan aparte por factura.
type BillRepo struct{ h handle }

func withItems(st *state, b entity.Bill) *entity.Bill {
	b.Items = nil
	for _, it := range st.items[b.ID] {
		it := it
		b.Items = append(b.Items, &it)
	}
	return &b
}

func (r *BillRepo) Create(_ context.Context, b *entity.Bill) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.bills[b.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, cur := range st.bills {
			if cur.Kind == b.Kind && cur.Number == b.Number {
				return domain.ErrDuplicate
			}
		}
		header := *b
		header.Items = nil
		st.bills[b.ID] = header
		return nil
	})
}

func (r *BillRepo) CreateItem(_ context.Context, it *entity.BillItem) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.bills[it.BillID]; !ok {
			return domain.ErrBillNotFound
		}
		st.items[it.BillID] = append(st.items[it.BillID], *it)
		return nil
	})
}

func (r *BillRepo) GetByID(_ context.Context, id string) (*entity.Bill, error) {
	var out *entity.Bill
	err := r.h.read(func(st *state) error {
		b, ok := st.bills[id]
		if !ok {
			return domain.ErrBillNotFound
		}
		out = withItems(st, b)
		return nil
	})
	return out, err
}

func (r *BillRepo) GetForUpdate(ctx context.Context, id string) (*entity.Bill, error) {
	return r.GetByID(ctx, id)
}

func (r *BillRepo) Update(_ context.Context, b *entity.Bill) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.bills[b.ID]; !ok {
			return domain.ErrBillNotFound
		}
		header := *b
		header.Items = nil
		st.bills[b.ID] = header
		return nil
	})
}

func (r *BillRepo) Delete(_ context.Context, id string) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.bills[id]; !ok {
			return domain.ErrBillNotFound
		}
		delete(st.bills, id)
		delete(st.items, id)
		return nil
	})
}

func (r *BillRepo) List(_ context.Context, f repository.BillFilter) ([]*entity.Bill, int, error) {
	var all []*entity.Bill
	err := r.h.read(func(st *state) error {
		for _, b := range st.bills {
			if f.Kind != "" && b.Kind != f.Kind {
				continue
			}
			if f.CounterpartyID != "" && b.CounterpartyID != f.CounterpartyID {
				continue
			}
			all = append(all, withItems(st, b))
		}
		return nil
	})
	sort.Slice(all, func(i, j int) bool {
		if !all[i].Date.Equal(all[j].Date) {
			return all[i].Date.After(all[j].Date)
		}
		return all[i].Number > all[j].Number
	})
	return page(all, f.Limit, f.Offset), len(all), err
}

func (r *BillRepo) ListReturns(_ context.Context, originalBillID string) ([]*entity.Bill, error) {
	var out []*entity.Bill
	err := r.h.read(func(st *state) error {
		for _, b := range st.bills {
			if b.Kind == entity.BillKindReturn && b.OriginalBillID != nil && *b.OriginalBillID == originalBillID {
				out = append(out, withItems(st, b))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, err
}

func (r *BillRepo) ReturnedQuantities(_ context.Context, originalBillID string) (map[string]int64, error) {
	out := make(map[string]int64)
	err := r.h.read(func(st *state) error {
		for id, b := range st.bills {
			if b.Kind != entity.BillKindReturn || b.OriginalBillID == nil || *b.OriginalBillID != originalBillID {
				continue
			}
			for _, it := range st.items[id] {
				if it.OriginalItemID != nil {
					out[*it.OriginalItemID] += it.Quantity
				}
			}
		}
		return nil
	})
	return out, err
}

func (r *BillRepo) NextNumber(_ context.Context, kind entity.BillKind) (int64, error) {
	var n int64
	err := r.h.write(func(st *state) error {
		st.seq[kind]++
		n = st.seq[kind]
		return nil
	})
	return n, err
}

// ── Clientes y proveedores ───────────────────────────────────────────────────

// CustomerRepo clientes en memoria.
type CustomerRepo struct{ h handle }

func (r *CustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.customers[c.ID]; ok {
			return domain.ErrDuplicate
		}
		st.customers[c.ID] = *c
		return nil
	})
}

func (r *CustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	var out *entity.Customer
	err := r.h.read(func(st *state) error {
		c, ok := st.customers[id]
		if !ok {
			return domain.ErrCounterpartyNotFound
		}
		out = &c
		return nil
	})
	return out, err
}

func (r *CustomerRepo) GetForUpdate(ctx context.Context, id string) (*entity.Customer, error) {
	return r.GetByID(ctx, id)
}

func (r *CustomerRepo) AdjustDebt(_ context.Context, id string, delta decimal.Decimal) error {
	return r.h.write(func(st *state) error {
		c, ok := st.customers[id]
		if !ok {
			return domain.ErrCounterpartyNotFound
		}
		c.Debt = c.Debt.Add(delta)
		c.UpdatedAt = time.Now()
		st.customers[id] = c
		return nil
	})
}

func (r *CustomerRepo) List(_ context.Context, limit, offset int) ([]*entity.Customer, int, error) {
	var all []*entity.Customer
	err := r.h.read(func(st *state) error {
		for _, c := range st.customers {
			c := c
			all = append(all, &c)
		}
		return nil
	})
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return page(all, limit, offset), len(all), err
}

// SupplierRepo proveedores en memoria.
type SupplierRepo struct{ h handle }

func (r *SupplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.suppliers[s.ID]; ok {
			return domain.ErrDuplicate
		}
		st.suppliers[s.ID] = *s
		return nil
	})
}

func (r *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	var out *entity.Supplier
	err := r.h.read(func(st *state) error {
		s, ok := st.suppliers[id]
		if !ok {
			return domain.ErrCounterpartyNotFound
		}
		out = &s
		return nil
	})
	return out, err
}

func (r *SupplierRepo) GetForUpdate(ctx context.Context, id string) (*entity.Supplier, error) {
	return r.GetByID(ctx, id)
}

func (r *SupplierRepo) AdjustBalance(_ context.Context, id string, delta decimal.Decimal) error {
	return r.h.write(func(st *state) error {
		s, ok := st.suppliers[id]
		if !ok {
			return domain.ErrCounterpartyNotFound
		}
		s.Balance = s.Balance.Add(delta)
		s.UpdatedAt = time.Now()
		st.suppliers[id] = s
		return nil
	})
}

func (r *SupplierRepo) List(_ context.Context, limit, offset int) ([]*entity.Supplier, int, error) {
	var all []*entity.Supplier
	err := r.h.read(func(st *state) error {
		for _, s := range st.suppliers {
			s := s
			all = append(all, &s)
		}
		return nil
	})
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return page(all, limit, offset), len(all), err
}

// ── Cajas y comprobantes ─────────────────────────────────────────────────────

// MoneyBoxRepo cajas y transacciones de caja en memoria.
type MoneyBoxRepo struct{ h handle }

func (r *MoneyBoxRepo) Create(_ context.Context, b *entity.MoneyBox) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.boxes[b.ID]; ok {
			return domain.ErrDuplicate
		}
		st.boxes[b.ID] = *b
		return nil
	})
}

func (r *MoneyBoxRepo) GetByID(_ context.Context, id string) (*entity.MoneyBox, error) {
	var out *entity.MoneyBox
	err := r.h.read(func(st *state) error {
		b, ok := st.boxes[id]
		if !ok {
			return domain.ErrMoneyBoxNotFound
		}
		out = &b
		return nil
	})
	return out, err
}

func (r *MoneyBoxRepo) GetForUpdate(ctx context.Context, id string) (*entity.MoneyBox, error) {
	return r.GetByID(ctx, id)
}

func (r *MoneyBoxRepo) AdjustBalance(_ context.Context, id string, delta decimal.Decimal) error {
	return r.h.write(func(st *state) error {
		b, ok := st.boxes[id]
		if !ok {
			return domain.ErrMoneyBoxNotFound
		}
		b.Balance = b.Balance.Add(delta)
		b.UpdatedAt = time.Now()
		st.boxes[id] = b
		return nil
	})
}

func (r *MoneyBoxRepo) List(_ context.Context) ([]*entity.MoneyBox, error) {
	var out []*entity.MoneyBox
	err := r.h.read(func(st *state) error {
		for _, b := range st.boxes {
			b := b
			out = append(out, &b)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func (r *MoneyBoxRepo) CreateTransaction(_ context.Context, t *entity.CashTransaction) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.boxes[t.MoneyBoxID]; !ok {
			return domain.ErrMoneyBoxNotFound
		}
		st.cashTx = append(st.cashTx, *t)
		return nil
	})
}

func (r *MoneyBoxRepo) ListTransactions(_ context.Context, moneyBoxID string, limit, offset int) ([]*entity.CashTransaction, int, error) {
	var all []*entity.CashTransaction
	err := r.h.read(func(st *state) error {
		for i := len(st.cashTx) - 1; i >= 0; i-- {
			t := st.cashTx[i]
			if t.MoneyBoxID == moneyBoxID {
				all = append(all, &t)
			}
		}
		return nil
	})
	return page(all, limit, offset), len(all), err
}

func (r *MoneyBoxRepo) ListByReference(_ context.Context, referenceType, referenceID string) ([]*entity.CashTransaction, error) {
	var out []*entity.CashTransaction
	err := r.h.read(func(st *state) error {
		for _, t := range st.cashTx {
			if t.ReferenceType == referenceType && t.ReferenceID == referenceID {
				out = append(out, &t)
			}
		}
		return nil
	})
	return out, err
}

// VoucherRepo comprobantes de pago en memoria.
type VoucherRepo struct{ h handle }

func (r *VoucherRepo) Create(_ context.Context, v *entity.PaymentVoucher) error {
	return r.h.write(func(st *state) error {
		st.vouchers = append(st.vouchers, *v)
		return nil
	})
}

func (r *VoucherRepo) GetByID(_ context.Context, id string) (*entity.PaymentVoucher, error) {
	var out *entity.PaymentVoucher
	err := r.h.read(func(st *state) error {
		for i := range st.vouchers {
			if st.vouchers[i].ID == id {
				v := st.vouchers[i]
				out = &v
				return nil
			}
		}
		return domain.ErrVoucherNotFound
	})
	return out, err
}

func (r *VoucherRepo) ListByBill(_ context.Context, billID string) ([]*entity.PaymentVoucher, error) {
	var out []*entity.PaymentVoucher
	err := r.h.read(func(st *state) error {
		for i := range st.vouchers {
			if st.vouchers[i].BillID == billID {
				v := st.vouchers[i]
				out = append(out, &v)
			}
		}
		return nil
	})
	return out, err
}
