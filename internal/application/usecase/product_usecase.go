package usecase

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

// ProductUseCase casos de uso CRUD para productos. Cost, Stock y ubicación se manejan vía movimientos.
type ProductUseCase struct {
	repo        repository.ProductRepository
	invalidator invalidation.Invalidator
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, invalidator invalidation.Invalidator) *ProductUseCase {
	return &ProductUseCase{repo: repo, invalidator: invalidator}
}

// Create crea un nuevo producto. Cost inicia en 0 y el stock en 0 sin ubicación asignada.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "el nombre es obligatorio")
	}
	if in.Price.IsNegative() {
		return nil, domain.NewValidationError("price", "el precio no puede ser negativo")
	}
	if in.Unit == "" {
		in.Unit = "unit"
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		SKU:         strings.TrimSpace(in.SKU),
		Barcode:     strings.TrimSpace(in.Barcode),
		Name:        name,
		Price:       in.Price,
		Cost:        decimal.Zero,
		MinStock:    in.MinStock,
		Unit:        in.Unit,
		UnitsPerBox: in.UnitsPerBox,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	uc.invalidator.Invalidate(ctx, invalidation.OpProductChanged)
	resp := dto.ToProductResponse(product)
	return &resp, nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.ToProductResponse(product)
	return &resp, nil
}

// Update actualiza un producto. No permite modificar Cost, Stock ni ubicación.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.SKU != nil {
		product.SKU = strings.TrimSpace(*in.SKU)
	}
	if in.Barcode != nil {
		product.Barcode = strings.TrimSpace(*in.Barcode)
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.NewValidationError("name", "el nombre es obligatorio")
		}
		product.Name = name
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.NewValidationError("price", "el precio no puede ser negativo")
		}
		product.Price = *in.Price
	}
	if in.MinStock != nil {
		product.MinStock = *in.MinStock
	}
	if in.Unit != nil {
		product.Unit = *in.Unit
	}
	if in.UnitsPerBox != nil {
		product.UnitsPerBox = *in.UnitsPerBox
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	uc.invalidator.Invalidate(ctx, invalidation.OpProductChanged)
	resp := dto.ToProductResponse(product)
	return &resp, nil
}

// List lista productos con filtros y paginación.
func (uc *ProductUseCase) List(ctx context.Context, in dto.ProductListRequest) (*dto.ProductListResponse, error) {
	page := in.PageRequest()
	list, total, err := uc.repo.List(ctx, repository.ProductFilter{
		StockID: in.StockID,
		Search:  in.Search,
		Limit:   page.Limit,
		Offset:  page.Offset(),
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, dto.ToProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items:      items,
		Pagination: dto.NewPagination(page, total),
	}, nil
}
