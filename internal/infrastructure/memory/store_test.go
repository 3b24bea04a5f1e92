package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
)

func TestStore_CommitPublicaCambios(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()

	err := s.Run(ctx, func(r repository.Repos) error {
		return r.Locations.Create(ctx, &entity.Location{ID: "A", Code: "A", Name: "Bodega", IsActive: true})
	})
	require.NoError(t, err)

	loc, err := s.Repos().Locations.GetByID(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, "Bodega", loc.Name)
}

func TestStore_ErrorHaceRollbackCompleto(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	boom := errors.New("falla a mitad de la transacción")

	err := s.Run(ctx, func(r repository.Repos) error {
		require.NoError(t, r.Locations.Create(ctx, &entity.Location{ID: "A", Code: "A"}))
		require.NoError(t, r.Movements.Create(ctx, &entity.StockMovement{ID: "m1", ProductID: "p", Quantity: 1}))
		require.NoError(t, r.Balances.Upsert(ctx, &entity.StockBalance{ProductID: "p", StockID: "A", Quantity: 1}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.Repos().Locations.GetByID(ctx, "A")
	assert.ErrorIs(t, err, domain.ErrLocationNotFound)
	list, total, err := s.Repos().Movements.List(ctx, repository.MovementFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, total)
	bal, err := s.Repos().Balances.Get(ctx, "p", "A")
	require.NoError(t, err)
	assert.Zero(t, bal.Quantity)
}

func TestStore_LecturasFueraDeTxNoVenEstadoSinConfirmar(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	_ = s.Run(ctx, func(r repository.Repos) error {
		require.NoError(t, r.Locations.Create(ctx, &entity.Location{ID: "A", Code: "A"}))
		_, err := s.Repos().Locations.GetByID(ctx, "A")
		assert.ErrorIs(t, err, domain.ErrLocationNotFound)
		return nil
	})
	_, err := s.Repos().Locations.GetByID(ctx, "A")
	assert.NoError(t, err)
}

func TestStore_UnicidadDeCodigoYSKU(t *testing.T) {
	ctx := context.Background()
	r := memory.NewStore().Repos()
	require.NoError(t, r.Locations.Create(ctx, &entity.Location{ID: "A", Code: "MAIN"}))
	assert.ErrorIs(t, r.Locations.Create(ctx, &entity.Location{ID: "B", Code: "MAIN"}), domain.ErrDuplicate)

	require.NoError(t, r.Products.Create(ctx, &entity.Product{ID: "p1", SKU: "SKU-1"}))
	require.NoError(t, r.Products.Create(ctx, &entity.Product{ID: "p2"}), "SKU vacío no colisiona")
	require.NoError(t, r.Products.Create(ctx, &entity.Product{ID: "p3"}))
	assert.ErrorIs(t, r.Products.Create(ctx, &entity.Product{ID: "p4", SKU: "SKU-1"}), domain.ErrDuplicate)
}

func TestMovementRepo_FoldYReversa(t *testing.T) {
	ctx := context.Background()
	r := memory.NewStore().Repos()
	a, b := "A", "B"
	now := time.Now()
	require.NoError(t, r.Movements.Create(ctx, &entity.StockMovement{ID: "m1", ProductID: "p", ToStockID: &a, Quantity: 50, MovementDate: now}))
	require.NoError(t, r.Movements.Create(ctx, &entity.StockMovement{ID: "m2", ProductID: "p", FromStockID: &a, ToStockID: &b, Quantity: 20, MovementDate: now.Add(time.Second)}))
	orig := "m2"
	require.NoError(t, r.Movements.Create(ctx, &entity.StockMovement{ID: "m3", ProductID: "p", FromStockID: &b, ToStockID: &a, Quantity: 20, ReversalOf: &orig, MovementDate: now.Add(2 * time.Second)}))

	q, err := r.Movements.Fold(ctx, "p", "A")
	require.NoError(t, err)
	assert.Equal(t, int64(50), q)

	all, err := r.Movements.FoldAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []entity.StockBalance{{ProductID: "p", StockID: "A", Quantity: 50}, {ProductID: "p", StockID: "B", Quantity: 0}}, all)

	rev, err := r.Movements.IsReversed(ctx, "m2")
	require.NoError(t, err)
	assert.True(t, rev)
	rev, _ = r.Movements.IsReversed(ctx, "m1")
	assert.False(t, rev)

	page, total, err := r.Movements.List(ctx, repository.MovementFilter{ProductID: "p", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 2)
	assert.Equal(t, "m3", page[0].ID, "más reciente primero")
}
