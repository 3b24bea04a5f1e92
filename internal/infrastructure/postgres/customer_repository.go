package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var (
	_ repository.CustomerRepository = (*CustomerRepo)(nil)
	_ repository.SupplierRepository = (*SupplierRepo)(nil)
)

// CustomerRepo clientes sobre PostgreSQL.
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

func scanCustomer(row rowScanner) (*entity.Customer, error) {
	var c entity.Customer
	var phone *string
	if err := row.Scan(&c.ID, &c.Name, &phone, &c.Debt, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Phone = deref(phone)
	return &c, nil
}

func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	query := `INSERT INTO customers (id, name, phone, debt, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.q.Exec(ctx, query, c.ID, c.Name, nullable(c.Phone), c.Debt, c.CreatedAt, c.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func (r *CustomerRepo) get(ctx context.Context, query, id string) (*entity.Customer, error) {
	c, err := scanCustomer(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCounterpartyNotFound
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	return r.get(ctx, `SELECT id, name, phone, debt, created_at, updated_at FROM customers WHERE id = $1`, id)
}

func (r *CustomerRepo) GetForUpdate(ctx context.Context, id string) (*entity.Customer, error) {
	return r.get(ctx, `SELECT id, name, phone, debt, created_at, updated_at FROM customers WHERE id = $1 FOR UPDATE`, id)
}

func (r *CustomerRepo) AdjustDebt(ctx context.Context, id string, delta decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `UPDATE customers SET debt = debt + $2, updated_at = now() WHERE id = $1`, id, delta)
	if err != nil {
		return fmt.Errorf("adjust customer debt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCounterpartyNotFound
	}
	return nil
}

func (r *CustomerRepo) List(ctx context.Context, limit, offset int) ([]*entity.Customer, int, error) {
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM customers`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}
	rows, err := r.q.Query(ctx, `SELECT id, name, phone, debt, created_at, updated_at FROM customers
		ORDER BY name, id LIMIT $1 OFFSET $2`, limitArg(limit), offsetArg(offset))
	if err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	list := []*entity.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, c)
	}
	return list, total, rows.Err()
}

// SupplierRepo proveedores sobre PostgreSQL.
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

func scanSupplier(row rowScanner) (*entity.Supplier, error) {
	var s entity.Supplier
	var phone *string
	if err := row.Scan(&s.ID, &s.Name, &phone, &s.Balance, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.Phone = deref(phone)
	return &s, nil
}

func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	query := `INSERT INTO suppliers (id, name, phone, balance, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.q.Exec(ctx, query, s.ID, s.Name, nullable(s.Phone), s.Balance, s.CreatedAt, s.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

func (r *SupplierRepo) get(ctx context.Context, query, id string) (*entity.Supplier, error) {
	s, err := scanSupplier(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCounterpartyNotFound
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return s, nil
}

func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	return r.get(ctx, `SELECT id, name, phone, balance, created_at, updated_at FROM suppliers WHERE id = $1`, id)
}

func (r *SupplierRepo) GetForUpdate(ctx context.Context, id string) (*entity.Supplier, error) {
	return r.get(ctx, `SELECT id, name, phone, balance, created_at, updated_at FROM suppliers WHERE id = $1 FOR UPDATE`, id)
}

func (r *SupplierRepo) AdjustBalance(ctx context.Context, id string, delta decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `UPDATE suppliers SET balance = balance + $2, updated_at = now() WHERE id = $1`, id, delta)
	if err != nil {
		return fmt.Errorf("adjust supplier balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCounterpartyNotFound
	}
	return nil
}

func (r *SupplierRepo) List(ctx context.Context, limit, offset int) ([]*entity.Supplier, int, error) {
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM suppliers`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count suppliers: %w", err)
	}
	rows, err := r.q.Query(ctx, `SELECT id, name, phone, balance, created_at, updated_at FROM suppliers
		ORDER BY name, id LIMIT $1 OFFSET $2`, limitArg(limit), offsetArg(offset))
	if err != nil {
		return nil, 0, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()
	list := []*entity.Supplier{}
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan supplier: %w", err)
		}
		list = append(list, s)
	}
	return list, total, rows.Err()
}
