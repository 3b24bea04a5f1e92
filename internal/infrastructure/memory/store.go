package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/stock-ledger/internal/application/ports"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ ports.TxRunner = (*Store)(nil)

type balanceKey struct{ productID, stockID string }

// state es una foto completa de los datos; cada transacción trabaja sobre una copia.
type state struct {
	locations map[string]entity.Location
	products  map[string]entity.Product
	movements []entity.StockMovement
	balances  map[balanceKey]entity.StockBalance
	bills     map[string]entity.Bill
	items     map[string][]entity.BillItem
	customers map[string]entity.Customer
	suppliers map[string]entity.Supplier
	boxes     map[string]entity.MoneyBox
	cashTx    []entity.CashTransaction
	vouchers  []entity.PaymentVoucher
	seq       map[entity.BillKind]int64
}

func newState() *state {
	return &state{
		locations: make(map[string]entity.Location),
		products:  make(map[string]entity.Product),
		balances:  make(map[balanceKey]entity.StockBalance),
		bills:     make(map[string]entity.Bill),
		items:     make(map[string][]entity.BillItem),
		customers: make(map[string]entity.Customer),
		suppliers: make(map[string]entity.Supplier),
		boxes:     make(map[string]entity.MoneyBox),
		seq:       make(map[entity.BillKind]int64),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.locations {
		c.locations[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	c.movements = append([]entity.StockMovement(nil), s.movements...)
	for k, v := range s.balances {
		c.balances[k] = v
	}
	for k, v := range s.bills {
		c.bills[k] = v
	}
	for k, v := range s.items {
		c.items[k] = append([]entity.BillItem(nil), v...)
	}
	for k, v := range s.customers {
		c.customers[k] = v
	}
	for k, v := range s.suppliers {
		c.suppliers[k] = v
	}
	for k, v := range s.boxes {
		c.boxes[k] = v
	}
	c.cashTx = append([]entity.CashTransaction(nil), s.cashTx...)
	c.vouchers = append([]entity.PaymentVoucher(nil), s.vouchers...)
	for k, v := range s.seq {
		c.seq[k] = v
	}
	return c
}

// Store es el almacenamiento en memoria (STORAGE_DRIVER=memory y tests).
// Las transacciones se serializan y trabajan sobre una copia del estado confirmado:
// si fn falla la copia se descarta (rollback completo); si no, reemplaza al estado confirmado.
// Las lecturas fuera de transacción solo ven estado confirmado.
type Store struct {
	txMu  sync.Mutex
	mu    sync.RWMutex
	state *state
}

// NewStore construye un almacenamiento vacío.
func NewStore() *Store {
	return &Store{state: newState()}
}

// Repos devuelve repositorios sobre el estado confirmado (cada escritura es atómica por sí sola).
func (s *Store) Repos() repository.Repos {
	return newRepos(handle{store: s})
}

// Run ejecuta fn en una transacción aislada.
func (s *Store) Run(ctx context.Context, fn func(repos repository.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	work := s.state.clone()
	s.mu.RUnlock()

	if err := fn(newRepos(handle{st: work})); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.state = work
	s.mu.Unlock()
	return nil
}

// handle resuelve el estado sobre el que opera un repositorio: la copia de la tx o el confirmado.
type handle struct {
	store *Store
	st    *state
}

func (h handle) read(fn func(st *state) error) error {
	if h.store == nil {
		return fn(h.st)
	}
	h.store.mu.RLock()
	defer h.store.mu.RUnlock()
	return fn(h.store.state)
}

func (h handle) write(fn func(st *state) error) error {
	if h.store == nil {
		return fn(h.st)
	}
	h.store.txMu.Lock()
	defer h.store.txMu.Unlock()
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	return fn(h.store.state)
}

func newRepos(h handle) repository.Repos {
	return repository.Repos{
		Locations:  &LocationRepo{h: h},
		Products:   &ProductRepo{h: h},
		Movements:  &MovementRepo{h: h},
		Balances:   &BalanceRepo{h: h},
		Bills:      &BillRepo{h: h},
		Customers:  &CustomerRepo{h: h},
		Suppliers:  &SupplierRepo{h: h},
		MoneyBoxes: &MoneyBoxRepo{h: h},
		Vouchers:   &VoucherRepo{h: h},
	}
}

// page aplica limit/offset; limit <= 0 devuelve todo desde offset.
func page[T any](list []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
