//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/jhoicas/stock-ledger/internal/application/billing"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/invalidation"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger/pkg/config"
)

// Ejecutar con: go test -tags integration ./internal/infrastructure/postgres/...

// ── Helpers ──────────────────────────────────────────────────────────────────

func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("stock_ledger_test"),
		tcPostgres.WithUsername("ledger"),
		tcPostgres.WithPassword("ledger"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	url, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: url, MaxConns: 10, MinConns: 1})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.Migrate(ctx, pool))
	// Una segunda corrida no debe reaplicar nada.
	require.NoError(t, postgres.Migrate(ctx, pool))
	return pool
}

type pgFixture struct {
	repos  repository.Repos
	ledger *inventory.LedgerUseCase
	orch   *billing.Orchestrator
}

func newPGFixture(t *testing.T) *pgFixture {
	t.Helper()
	ctx := context.Background()
	pool := startPostgres(t)
	repos := postgres.NewRepos(pool)
	runner := postgres.NewTxRunner(pool)
	now := time.Now().UTC()

	require.NoError(t, repos.Locations.Create(ctx, &entity.Location{ID: "loc-main", Code: "MAIN", Name: "Bodega", IsMain: true, IsActive: true, CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, repos.Locations.Create(ctx, &entity.Location{ID: "loc-shop", Code: "SHOP", Name: "Tienda", Capacity: 100, IsActive: true, CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "prod-1", SKU: "SKU-1", Name: "Arroz", Price: decimal.NewFromInt(10), Unit: "unit", CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, repos.Customers.Create(ctx, &entity.Customer{ID: "cust-1", Name: "Ana", CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, repos.MoneyBoxes.Create(ctx, &entity.MoneyBox{ID: "box-1", Name: "Caja", CreatedAt: now, UpdatedAt: now}))

	ledger := inventory.NewLedgerUseCase(runner, repos, invalidation.Nop{}, false)
	return &pgFixture{
		repos:  repos,
		ledger: ledger,
		orch:   billing.NewOrchestrator(runner, repos, ledger, invalidation.Nop{}),
	}
}

func (f *pgFixture) record(ctx context.Context, typ, from, to string, qty int64) error {
	_, err := f.ledger.RecordMovement(ctx, inventory.MovementInput{
		MovementType: typ, FromStockID: from, ToStockID: to, ProductID: "prod-1", Quantity: qty, UserID: "u1",
	})
	return err
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestPostgres_LedgerYSaldoMaterializado(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()

	require.NoError(t, f.record(ctx, entity.MovementTypeInitial, "", "loc-main", 50))
	require.NoError(t, f.record(ctx, entity.MovementTypeTransfer, "loc-main", "loc-shop", 20))

	err := f.record(ctx, entity.MovementTypeSale, "loc-main", "", 35)
	var insufficient *domain.InsufficientStockError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, int64(30), insufficient.Available)

	require.NoError(t, f.record(ctx, entity.MovementTypeSale, "loc-main", "", 25))

	for loc, want := range map[string]int64{"loc-main": 5, "loc-shop": 20} {
		got, err := f.ledger.CurrentStock(ctx, "prod-1", loc)
		require.NoError(t, err)
		derived, err := f.ledger.DerivedStock(ctx, "prod-1", loc)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, got, derived)
	}

	shop, err := f.repos.Locations.GetByID(ctx, "loc-shop")
	require.NoError(t, err)
	assert.Equal(t, int64(20), shop.CurrentCapacityUsed)

	report, err := f.ledger.Reconcile(ctx, false)
	require.NoError(t, err)
	assert.False(t, report.HasDrift())
}

func TestPostgres_ReversaUnicaPorMovimiento(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()

	res, err := f.ledger.RecordMovement(ctx, inventory.MovementInput{
		MovementType: entity.MovementTypeInitial, ToStockID: "loc-main", ProductID: "prod-1", Quantity: 10,
	})
	require.NoError(t, err)

	_, err = f.ledger.Reverse(ctx, res.Movement.ID, "error de digitación", "u1")
	require.NoError(t, err)
	_, err = f.ledger.Reverse(ctx, res.Movement.ID, "otra vez", "u1")
	assert.ErrorIs(t, err, domain.ErrAlreadyReversed)

	qty, err := f.ledger.CurrentStock(ctx, "prod-1", "loc-main")
	require.NoError(t, err)
	assert.Equal(t, int64(0), qty)
}

// Ventas concurrentes sobre el mismo par no pueden sobregirar el saldo: el FOR UPDATE las serializa.
func TestPostgres_VentasConcurrentesNoSobregiran(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()
	require.NoError(t, f.record(ctx, entity.MovementTypeInitial, "", "loc-main", 10))

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok, rejected := 0, 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := f.record(ctx, entity.MovementTypeSale, "loc-main", "", 3)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInsufficientStock):
				rejected++
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, ok)
	assert.Equal(t, 5, rejected)
	qty, err := f.ledger.CurrentStock(ctx, "prod-1", "loc-main")
	require.NoError(t, err)
	assert.Equal(t, int64(1), qty)
}

func TestPostgres_FacturasConLineasCruzadasNoSeBloquean(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()
	now := time.Now().UTC()
	require.NoError(t, f.repos.Products.Create(ctx, &entity.Product{ID: "prod-2", SKU: "SKU-2", Name: "Aceite", Price: decimal.NewFromInt(20), Unit: "unit", CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, f.repos.Customers.Create(ctx, &entity.Customer{ID: "cust-2", Name: "Luis", CreatedAt: now, UpdatedAt: now}))
	for _, product := range []string{"prod-1", "prod-2"} {
		_, err := f.ledger.RecordMovement(ctx, inventory.MovementInput{
			MovementType: entity.MovementTypeInitial, ToStockID: "loc-main", ProductID: product, Quantity: 100, UserID: "u1",
		})
		require.NoError(t, err)
	}

	item := func(product string) dto.BillItemRequest {
		return dto.BillItemRequest{ProductID: product, Quantity: 1, Price: decimal.NewFromInt(10)}
	}
	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		req := dto.CreateBillRequest{
			BillData: dto.BillDataRequest{CustomerID: "cust-1"},
			Items:    []dto.BillItemRequest{item("prod-1"), item("prod-2")},
		}
		if i%2 == 1 {
			req.BillData.CustomerID = "cust-2"
			req.Items = []dto.BillItemRequest{item("prod-2"), item("prod-1")}
		}
		wg.Add(1)
		go func(req dto.CreateBillRequest) {
			defer wg.Done()
			_, err := f.orch.CreateSaleBill(ctx, "u1", req)
			errs <- err
		}(req)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	for _, product := range []string{"prod-1", "prod-2"} {
		qty, err := f.ledger.CurrentStock(ctx, product, "loc-main")
		require.NoError(t, err)
		assert.Equal(t, int64(80), qty, product)
	}
}

func TestPostgres_FacturaDevolucionYEliminacion(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()
	require.NoError(t, f.record(ctx, entity.MovementTypeInitial, "", "loc-main", 50))

	box := "box-1"
	sale, err := f.orch.CreateSaleBill(ctx, "u1", dto.CreateBillRequest{
		BillData:   dto.BillDataRequest{CustomerID: "cust-1", PaidAmount: decimal.NewFromInt(40)},
		Items:      []dto.BillItemRequest{{ProductID: "prod-1", Quantity: 10, Price: decimal.NewFromInt(10)}},
		MoneyBoxID: &box,
	})
	require.NoError(t, err)
	assert.Equal(t, "S-000001", sale.Number)
	assert.Equal(t, entity.PaymentStatusPartial, sale.PaymentStatus)

	cust, err := f.repos.Customers.GetByID(ctx, "cust-1")
	require.NoError(t, err)
	assert.True(t, cust.Debt.Equal(decimal.NewFromInt(60)))

	ret, err := f.orch.CreateReturnBill(ctx, "u1", dto.CreateBillRequest{
		BillData: dto.BillDataRequest{OriginalBillID: sale.ID, OriginalKind: "sale"},
		Items:    []dto.BillItemRequest{{ProductID: "prod-1", Quantity: 4, OriginalItemID: &sale.Items[0].ID}},
	})
	require.NoError(t, err)
	assert.Equal(t, "R-000001", ret.Number)

	returned, err := f.repos.Bills.ReturnedQuantities(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), returned[sale.Items[0].ID])

	original, err := f.repos.Bills.GetByID(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BillStatusPartiallyReturned, original.Status)

	assert.ErrorIs(t, f.orch.DeleteBill(ctx, "u1", entity.BillKindSale, sale.ID), domain.ErrBillHasReturns)
	require.NoError(t, f.orch.DeleteBill(ctx, "u1", entity.BillKindReturn, ret.ID))
	require.NoError(t, f.orch.DeleteBill(ctx, "u1", entity.BillKindSale, sale.ID))

	qty, err := f.ledger.CurrentStock(ctx, "prod-1", "loc-main")
	require.NoError(t, err)
	assert.Equal(t, int64(50), qty)

	cust, err = f.repos.Customers.GetByID(ctx, "cust-1")
	require.NoError(t, err)
	assert.True(t, cust.Debt.IsZero())

	mb, err := f.repos.MoneyBoxes.GetByID(ctx, "box-1")
	require.NoError(t, err)
	assert.True(t, mb.Balance.IsZero())

	report, err := f.ledger.Reconcile(ctx, false)
	require.NoError(t, err)
	assert.False(t, report.HasDrift())
}

// Un fallo a mitad de la factura no consume el consecutivo ni deja filas.
func TestPostgres_RollbackDeFactura(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()
	require.NoError(t, f.record(ctx, entity.MovementTypeInitial, "", "loc-main", 5))

	_, err := f.orch.CreateSaleBill(ctx, "u1", dto.CreateBillRequest{
		BillData: dto.BillDataRequest{CustomerID: "cust-1"},
		Items:    []dto.BillItemRequest{{ProductID: "prod-1", Quantity: 6, Price: decimal.NewFromInt(10)}},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, total, err := f.repos.Bills.List(ctx, repository.BillFilter{Kind: entity.BillKindSale})
	require.NoError(t, err)
	assert.Zero(t, total)

	n, err := f.repos.Bills.NextNumber(ctx, entity.BillKindSale)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
