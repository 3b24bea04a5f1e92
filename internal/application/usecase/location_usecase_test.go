package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/invalidation"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
)

type countingInvalidator struct {
	ops []invalidation.Operation
}

func (c *countingInvalidator) Invalidate(_ context.Context, op invalidation.Operation) {
	c.ops = append(c.ops, op)
}

func boolPtr(b bool) *bool { return &b }
func intPtr(v int64) *int64 { return &v }
func strPtr(s string) *string { return &s }

// ──────────────────────────────────────────────────────────────────────────────
// Ubicaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestLocationUseCase_PrimeraUbicacionEsPrincipal(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	inv := &countingInvalidator{}
	uc := usecase.NewLocationUseCase(store, store.Repos(), inv)

	first, err := uc.Create(ctx, dto.CreateLocationRequest{Code: "A", Name: "Bodega"})
	require.NoError(t, err)
	assert.True(t, first.IsMain)
	assert.True(t, first.IsActive)

	second, err := uc.Create(ctx, dto.CreateLocationRequest{Code: "B", Name: "Tienda"})
	require.NoError(t, err)
	assert.False(t, second.IsMain)

	_, err = uc.Create(ctx, dto.CreateLocationRequest{Code: "A", Name: "Otra"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.SetMain(ctx, second.ID)
	require.NoError(t, err)
	main, err := store.Repos().Locations.GetMain(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, main.ID)
	got, err := uc.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, got.IsMain, "solo una principal a la vez")

	assert.Len(t, inv.ops, 3)
	for _, op := range inv.ops {
		assert.Equal(t, invalidation.OpLocationChanged, op)
	}
}

func TestLocationUseCase_Update(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := usecase.NewLocationUseCase(store, store.Repos(), invalidation.Nop{})
	main, err := uc.Create(ctx, dto.CreateLocationRequest{Code: "A", Name: "Bodega"})
	require.NoError(t, err)
	other, err := uc.Create(ctx, dto.CreateLocationRequest{Code: "B", Name: "Tienda"})
	require.NoError(t, err)

	updated, err := uc.Update(ctx, other.ID, dto.UpdateLocationRequest{Name: strPtr("Tienda norte"), Capacity: intPtr(100)})
	require.NoError(t, err)
	assert.Equal(t, "Tienda norte", updated.Name)
	assert.Equal(t, int64(100), updated.Capacity)

	_, err = uc.Update(ctx, other.ID, dto.UpdateLocationRequest{Code: strPtr("A")})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Update(ctx, main.ID, dto.UpdateLocationRequest{IsActive: boolPtr(false)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.SetMain(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrLocationNotFound)
}

func TestLocationUseCase_DeleteRestricciones(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repos()
	uc := usecase.NewLocationUseCase(store, repos, invalidation.Nop{})
	main, err := uc.Create(ctx, dto.CreateLocationRequest{Code: "A", Name: "Bodega"})
	require.NoError(t, err)
	shop, err := uc.Create(ctx, dto.CreateLocationRequest{Code: "B", Name: "Tienda"})
	require.NoError(t, err)
	empty, err := uc.Create(ctx, dto.CreateLocationRequest{Code: "C", Name: "Vacía"})
	require.NoError(t, err)

	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p1", Name: "Arroz", Price: decimal.NewFromInt(1)}))
	ledger := inventory.NewLedgerUseCase(store, repos, invalidation.Nop{}, false)
	_, err = ledger.RecordMovement(ctx, inventory.MovementInput{
		MovementType: entity.MovementTypeInitial, ToStockID: shop.ID, ProductID: "p1", Quantity: 3,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, uc.Delete(ctx, main.ID), domain.ErrMainLocation)
	assert.ErrorIs(t, uc.Delete(ctx, shop.ID), domain.ErrLocationInUse)
	require.NoError(t, uc.Delete(ctx, empty.ID))

	_, err = uc.GetByID(ctx, empty.ID)
	assert.ErrorIs(t, err, domain.ErrLocationNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

func TestProductUseCase_CrudYUnicidad(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repos()
	inv := &countingInvalidator{}
	uc := usecase.NewProductUseCase(repos.Products, inv)

	p, err := uc.Create(ctx, dto.CreateProductRequest{SKU: "SKU-1", Name: "Arroz", Price: decimal.NewFromInt(12)})
	require.NoError(t, err)
	assert.True(t, p.Cost.IsZero())
	assert.Zero(t, p.CurrentStock)
	assert.Nil(t, p.StockID)

	_, err = uc.Create(ctx, dto.CreateProductRequest{SKU: "SKU-1", Name: "Duplicado"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, dto.CreateProductRequest{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	price := decimal.NewFromInt(15)
	updated, err := uc.Update(ctx, p.ID, dto.UpdateProductRequest{Price: &price, MinStock: intPtr(5)})
	require.NoError(t, err)
	assert.True(t, price.Equal(updated.Price))
	assert.Equal(t, int64(5), updated.MinStock)

	_, err = uc.Create(ctx, dto.CreateProductRequest{SKU: "SKU-2", Name: "Frijol"})
	require.NoError(t, err)
	list, err := uc.List(ctx, dto.ProductListRequest{Search: "frij"})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Frijol", list.Items[0].Name)
	assert.Equal(t, 1, list.Pagination.Total)

	_, err = uc.GetByID(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Equal(t, []invalidation.Operation{
		invalidation.OpProductChanged, invalidation.OpProductChanged, invalidation.OpProductChanged,
	}, inv.ops)
}
