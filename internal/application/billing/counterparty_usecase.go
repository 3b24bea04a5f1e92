package billing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/invalidation"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// CounterpartyUseCase casos de uso para clientes y proveedores.
// Los saldos (deuda / saldo adeudado) solo los modifica el orquestador de facturas.
type CounterpartyUseCase struct {
	customerRepo repository.CustomerRepository
	supplierRepo repository.SupplierRepository
	invalidator  invalidation.Invalidator
}

// NewCounterpartyUseCase construye el caso de uso.
func NewCounterpartyUseCase(
	customerRepo repository.CustomerRepository,
	supplierRepo repository.SupplierRepository,
	invalidator invalidation.Invalidator,
) *CounterpartyUseCase {
	return &CounterpartyUseCase{customerRepo: customerRepo, supplierRepo: supplierRepo, invalidator: invalidator}
}

// CreateCustomer crea un nuevo cliente con deuda cero.
func (uc *CounterpartyUseCase) CreateCustomer(ctx context.Context, in dto.CreateCounterpartyRequest) (*dto.CustomerResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "el nombre es obligatorio")
	}
	now := time.Now()
	c := &entity.Customer{
		ID:        uuid.New().String(),
		Name:      name,
		Phone:     in.Phone,
		Debt:      decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.customerRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	uc.invalidator.Invalidate(ctx, invalidation.OpCustomerChanged)
	resp := toCustomerResponse(c)
	return &resp, nil
}

// GetCustomer obtiene un cliente.
func (uc *CounterpartyUseCase) GetCustomer(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	c, err := uc.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toCustomerResponse(c)
	return &resp, nil
}

// ListCustomers lista clientes paginados.
func (uc *CounterpartyUseCase) ListCustomers(ctx context.Context, page dto.PageRequest) ([]dto.CustomerResponse, dto.Pagination, error) {
	page.DefaultPage()
	list, total, err := uc.customerRepo.List(ctx, page.Limit, page.Offset())
	if err != nil {
		return nil, dto.Pagination{}, err
	}
	out := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCustomerResponse(c))
	}
	return out, dto.NewPagination(page, total), nil
}

// CreateSupplier crea un nuevo proveedor con saldo cero.
func (uc *CounterpartyUseCase) CreateSupplier(ctx context.Context, in dto.CreateCounterpartyRequest) (*dto.SupplierResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "el nombre es obligatorio")
	}
	now := time.Now()
	s := &entity.Supplier{
		ID:        uuid.New().String(),
		Name:      name,
		Phone:     in.Phone,
		Balance:   decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.supplierRepo.Create(ctx, s); err != nil {
		return nil, err
	}
	uc.invalidator.Invalidate(ctx, invalidation.OpSupplierChanged)
	resp := toSupplierResponse(s)
	return &resp, nil
}

// GetSupplier obtiene un proveedor.
func (uc *CounterpartyUseCase) GetSupplier(ctx context.Context, id string) (*dto.SupplierResponse, error) {
	s, err := uc.supplierRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toSupplierResponse(s)
	return &resp, nil
}

// ListSuppliers lista proveedores paginados.
func (uc *CounterpartyUseCase) ListSuppliers(ctx context.Context, page dto.PageRequest) ([]dto.SupplierResponse, dto.Pagination, error) {
	page.DefaultPage()
	list, total, err := uc.supplierRepo.List(ctx, page.Limit, page.Offset())
	if err != nil {
		return nil, dto.Pagination{}, err
	}
	out := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSupplierResponse(s))
	}
	return out, dto.NewPagination(page, total), nil
}

func toCustomerResponse(c *entity.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Debt:      c.Debt,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toSupplierResponse(s *entity.Supplier) dto.SupplierResponse {
	return dto.SupplierResponse{
		ID:        s.ID,
		Name:      s.Name,
		Phone:     s.Phone,
		Balance:   s.Balance,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
