package billing_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/billing"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/invalidation"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type recordingInvalidator struct {
	mu  sync.Mutex
	ops []invalidation.Operation
}

func (r *recordingInvalidator) Invalidate(_ context.Context, op invalidation.Operation) {
	r.mu.Lock()
	r.ops = append(r.ops, op)
	r.mu.Unlock()
}

const (
	locMain  = "loc-main"
	locShop  = "loc-shop"
	prodRice = "prod-rice"
	prodOil  = "prod-oil"
	customer = "cust-1"
	supplier = "supp-1"
	box      = "box-1"
)

type fixture struct {
	repos  repository.Repos
	ledger *inventory.LedgerUseCase
	orch   *billing.Orchestrator
	inv    *recordingInvalidator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repos()
	require.NoError(t, repos.Locations.Create(ctx, &entity.Location{ID: locMain, Code: "MAIN", Name: "Bodega", IsMain: true, IsActive: true}))
	require.NoError(t, repos.Locations.Create(ctx, &entity.Location{ID: locShop, Code: "SHOP", Name: "Tienda", IsActive: true}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: prodRice, SKU: "RICE", Name: "Arroz", Price: decimal.NewFromInt(10)}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: prodOil, SKU: "OIL", Name: "Aceite", Price: decimal.NewFromInt(25)}))
	require.NoError(t, repos.Customers.Create(ctx, &entity.Customer{ID: customer, Name: "Cliente"}))
	require.NoError(t, repos.Suppliers.Create(ctx, &entity.Supplier{ID: supplier, Name: "Proveedor"}))
	require.NoError(t, repos.MoneyBoxes.Create(ctx, &entity.MoneyBox{ID: box, Name: "Caja 1"}))

	ledger := inventory.NewLedgerUseCase(store, repos, invalidation.Nop{}, false)
	_, err := ledger.RecordMovement(ctx, inventory.MovementInput{
		MovementType: entity.MovementTypeInitial, ToStockID: locMain, ProductID: prodRice, Quantity: 50,
	})
	require.NoError(t, err)

	inv := &recordingInvalidator{}
	return &fixture{
		repos:  repos,
		ledger: ledger,
		orch:   billing.NewOrchestrator(store, repos, ledger, inv),
		inv:    inv,
	}
}

func ptr(s string) *string { return &s }

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func saleRequest(paid int64, items ...dto.BillItemRequest) dto.CreateBillRequest {
	return dto.CreateBillRequest{
		BillData:   dto.BillDataRequest{CustomerID: customer, PaidAmount: dec(paid)},
		Items:      items,
		MoneyBoxID: ptr(box),
	}
}

func line(product string, qty, price int64) dto.BillItemRequest {
	return dto.BillItemRequest{ProductID: product, Quantity: qty, Price: dec(price)}
}

func (f *fixture) stock(t *testing.T, product, loc string) int64 {
	t.Helper()
	q, err := f.ledger.CurrentStock(context.Background(), product, loc)
	require.NoError(t, err)
	d, err := f.ledger.DerivedStock(context.Background(), product, loc)
	require.NoError(t, err)
	require.Equal(t, d, q)
	return q
}

func (f *fixture) debt(t *testing.T) decimal.Decimal {
	t.Helper()
	c, err := f.repos.Customers.GetByID(context.Background(), customer)
	require.NoError(t, err)
	return c.Debt
}

func (f *fixture) cash(t *testing.T) decimal.Decimal {
	t.Helper()
	b, err := f.repos.MoneyBoxes.GetByID(context.Background(), box)
	require.NoError(t, err)
	return b.Balance
}

func (f *fixture) movementCount(t *testing.T) int {
	t.Helper()
	_, total, err := f.repos.Movements.List(context.Background(), repository.MovementFilter{})
	require.NoError(t, err)
	return total
}

func assertDec(t *testing.T, want int64, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "%s: esperado %d, obtenido %s", msg, want, got.String())
}

// ──────────────────────────────────────────────────────────────────────────────
// Venta con pago parcial y actualización del pago
// ──────────────────────────────────────────────────────────────────────────────

func TestOrchestrator_VentaParcialYPagoPorDiferencia(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	bill, err := f.orch.CreateSaleBill(ctx, "u1", saleRequest(40, line(prodRice, 10, 10)))
	require.NoError(t, err)
	assert.Equal(t, "S-000001", bill.Number)
	assertDec(t, 100, bill.NetAmount, "neto")
	assertDec(t, 60, bill.RemainingAmount, "saldo")
	assert.Equal(t, entity.PaymentStatusPartial, bill.PaymentStatus)
	assert.Equal(t, locMain, bill.Items[0].StockID, "sin ubicación explícita usa la asignada al producto")

	assert.Equal(t, int64(40), f.stock(t, prodRice, locMain))
	assertDec(t, 60, f.debt(t), "deuda tras la venta")
	assertDec(t, 40, f.cash(t), "caja tras la venta")

	movs, err := f.repos.Movements.ListByReference(ctx, entity.ReferenceTypeSale, bill.ID)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeSale, movs[0].MovementType)
	assert.Equal(t, bill.Number, movs[0].ReferenceNumber)

	updated, err := f.orch.UpdatePaymentStatus(ctx, "u1", entity.BillKindSale, bill.ID, dto.UpdatePaymentRequest{
		PaidAmount: dec(100), CreateVoucher: true,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPaid, updated.PaymentStatus)
	assertDec(t, 0, updated.RemainingAmount, "saldo pagado")
	require.Len(t, updated.Vouchers, 1)
	assertDec(t, 60, updated.Vouchers[0].Amount, "el comprobante es por la diferencia")

	assertDec(t, 0, f.debt(t), "deuda tras el pago")
	assertDec(t, 100, f.cash(t), "la caja recibe solo +60")
	assert.Equal(t, int64(40), f.stock(t, prodRice, locMain), "el pago no mueve inventario")

	// Bajar el pago devuelve la diferencia.
	_, err = f.orch.UpdatePaymentStatus(ctx, "u1", entity.BillKindSale, bill.ID, dto.UpdatePaymentRequest{PaidAmount: dec(50)})
	require.NoError(t, err)
	assertDec(t, 50, f.debt(t), "deuda tras bajar el pago")
	assertDec(t, 50, f.cash(t), "caja tras bajar el pago")

	assert.Equal(t, []invalidation.Operation{
		invalidation.OpCreateSale,
		invalidation.OpUpdateSalePayment,
		invalidation.OpUpdateSalePayment,
	}, f.inv.ops)

	_, err = f.orch.UpdatePaymentStatus(ctx, "u1", entity.BillKindSale, bill.ID, dto.UpdatePaymentRequest{PaidAmount: dec(101)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "no se puede pagar más que el neto")
	_, err = f.orch.UpdatePaymentStatus(ctx, "u1", entity.BillKindPurchase, bill.ID, dto.UpdatePaymentRequest{PaidAmount: dec(10)})
	assert.ErrorIs(t, err, domain.ErrBillNotFound, "el tipo de la ruta debe coincidir")
}

// ──────────────────────────────────────────────────────────────────────────────
// Atomicidad: un fallo en cualquier línea revierte todo
// ──────────────────────────────────────────────────────────────────────────────

func TestOrchestrator_StockInsuficienteRevierteTodo(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	before := f.movementCount(t)

	_, err := f.orch.CreateSaleBill(ctx, "u1", saleRequest(30,
		line(prodRice, 10, 10),
		line(prodRice, 100, 10),
	))
	var insufficient *domain.InsufficientStockError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, int64(40), insufficient.Available, "la segunda línea ve lo descontado por la primera")

	_, total, err := f.repos.Bills.List(ctx, repository.BillFilter{})
	require.NoError(t, err)
	assert.Zero(t, total, "ni cabecera ni líneas quedan persistidas")
	assert.Equal(t, before, f.movementCount(t))
	assert.Equal(t, int64(50), f.stock(t, prodRice, locMain))
	assertDec(t, 0, f.debt(t), "deuda intacta")
	assertDec(t, 0, f.cash(t), "caja intacta")
	assert.Empty(t, f.inv.ops, "sin invalidaciones cuando la operación falla")

	// El consecutivo tampoco se consume.
	bill, err := f.orch.CreateSaleBill(ctx, "u1", saleRequest(0, line(prodRice, 1, 10)))
	require.NoError(t, err)
	assert.Equal(t, "S-000001", bill.Number)
}

func TestOrchestrator_Validaciones(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.orch.CreateSaleBill(ctx, "u1", dto.CreateBillRequest{BillData: dto.BillDataRequest{CustomerID: customer}})
	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Contains(t, vErr.Fields, "items")

	_, err = f.orch.CreateSaleBill(ctx, "u1", dto.CreateBillRequest{Items: []dto.BillItemRequest{line(prodRice, 1, 10)}})
	require.True(t, errors.As(err, &vErr))
	assert.Contains(t, vErr.Fields, "customer_id")

	_, err = f.orch.CreateSaleBill(ctx, "u1", saleRequest(0, line(prodRice, 0, 10)))
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	req := saleRequest(0, line(prodRice, 1, 10))
	req.BillData.CustomerID = "no-existe"
	_, err = f.orch.CreateSaleBill(ctx, "u1", req)
	assert.ErrorIs(t, err, domain.ErrCounterpartyNotFound)

	_, err = f.orch.CreateSaleBill(ctx, "u1", saleRequest(11, line(prodRice, 1, 10)))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "pagado mayor que el neto")

	_, err = f.orch.CreateSaleBill(ctx, "u1", saleRequest(0, line("no-existe", 1, 10)))
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	assert.Empty(t, f.inv.ops)
	assert.Equal(t, int64(50), f.stock(t, prodRice, locMain))
}

// ──────────────────────────────────────────────────────────────────────────────
// Totales con descuento e impuesto de cabecera
// ──────────────────────────────────────────────────────────────────────────────

func TestOrchestrator_TotalesDeCabecera(t *testing.T) {
	f := newFixture(t)
	req := saleRequest(0, dto.BillItemRequest{
		ProductID: prodRice, Quantity: 10, Price: dec(10), DiscountPercent: dec(10),
	})
	req.BillData.Discount = dec(10)
	req.BillData.DiscountType = entity.DiscountTypeFixed
	req.BillData.TaxRate = dec(19)

	bill, err := f.orch.CreateSaleBill(context.Background(), "u1", req)
	require.NoError(t, err)
	// 100 − 10% = 90; −10 fijo = 80; +19% = 95.20
	assertDec(t, 100, bill.Subtotal, "subtotal")
	assertDec(t, 20, bill.DiscountAmount, "descuentos")
	assert.True(t, decimal.RequireFromString("95.20").Equal(bill.NetAmount), bill.NetAmount.String())
	assert.True(t, decimal.RequireFromString("95.20").Equal(f.debt(t)))
	assert.Equal(t, entity.PaymentStatusUnpaid, bill.PaymentStatus)
}

// ──────────────────────────────────────────────────────────────────────────────
// Compras
// ──────────────────────────────────────────────────────────────────────────────

func TestOrchestrator_CompraIngresaYAumentaSaldoDelProveedor(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	bill, err := f.orch.CreatePurchaseBill(ctx, "u1", dto.CreateBillRequest{
		BillData:   dto.BillDataRequest{SupplierID: supplier, StockID: ptr(locShop), PaidAmount: dec(50)},
		Items:      []dto.BillItemRequest{line(prodOil, 20, 15)},
		MoneyBoxID: ptr(box),
	})
	require.NoError(t, err)
	assert.Equal(t, "P-000001", bill.Number)
	assert.Equal(t, locShop, bill.Items[0].StockID, "la ubicación de cabecera aplica a las líneas")

	assert.Equal(t, int64(20), f.stock(t, prodOil, locShop))
	p, err := f.repos.Products.GetByID(ctx, prodOil)
	require.NoError(t, err)
	assert.Equal(t, locShop, p.AssignedStock(), "la primera compra asigna la ubicación")
	assertDec(t, 15, p.Cost, "costo promedio")

	s, err := f.repos.Suppliers.GetByID(ctx, supplier)
	require.NoError(t, err)
	assertDec(t, 250, s.Balance, "saldo adeudado al proveedor")
	assertDec(t, -50, f.cash(t), "la compra paga desde la caja")
	assert.Equal(t, []invalidation.Operation{invalidation.OpCreatePurchase}, f.inv.ops)
}

func TestOrchestrator_SinUbicacionUsaLaPrincipal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	bill, err := f.orch.CreatePurchaseBill(ctx, "u1", dto.CreateBillRequest{
		BillData: dto.BillDataRequest{SupplierID: supplier},
		Items:    []dto.BillItemRequest{line(prodOil, 5, 10)},
	})
	require.NoError(t, err)
	assert.Equal(t, locMain, bill.Items[0].StockID)
	assert.Equal(t, int64(5), f.stock(t, prodOil, locMain))
}

// ──────────────────────────────────────────────────────────────────────────────
// Devoluciones
// ──────────────────────────────────────────────────────────────────────────────

func returnRequest(original string, items ...dto.BillItemRequest) dto.CreateBillRequest {
	return dto.CreateBillRequest{
		BillData: dto.BillDataRequest{OriginalBillID: original},
		Items:    items,
	}
}

func TestOrchestrator_DevolucionParcialYTotal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sale, err := f.orch.CreateSaleBill(ctx, "u1", saleRequest(0, line(prodRice, 10, 10)))
	require.NoError(t, err)
	assertDec(t, 100, f.debt(t), "deuda tras la venta")

	ret, err := f.orch.CreateReturnBill(ctx, "u1", returnRequest(sale.ID, dto.BillItemRequest{ProductID: prodRice, Quantity: 4}))
	require.NoError(t, err)
	assert.Equal(t, "R-000001", ret.Number)
	assert.Equal(t, string(entity.BillKindSale), ret.OriginalKind)
	assertDec(t, 40, ret.NetAmount, "la devolución hereda el precio original")
	require.NotNil(t, ret.Items[0].OriginalItemID)
	assert.Equal(t, sale.Items[0].ID, *ret.Items[0].OriginalItemID)

	assert.Equal(t, int64(44), f.stock(t, prodRice, locMain), "reingresa a la ubicación de la línea original")
	assertDec(t, 60, f.debt(t), "la devolución reduce la deuda")

	orig, err := f.orch.GetBill(ctx, entity.BillKindSale, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BillStatusPartiallyReturned, orig.Status)

	_, err = f.orch.CreateReturnBill(ctx, "u1", returnRequest(sale.ID, dto.BillItemRequest{ProductID: prodRice, Quantity: 7}))
	var exceeds *domain.ReturnExceedsError
	require.True(t, errors.As(err, &exceeds))
	assert.Equal(t, int64(10), exceeds.Original)
	assert.Equal(t, int64(4), exceeds.AlreadyReturned)
	assert.Equal(t, int64(7), exceeds.Requested)

	_, err = f.orch.CreateReturnBill(ctx, "u1", returnRequest(sale.ID, dto.BillItemRequest{
		ProductID: prodRice, Quantity: 6, OriginalItemID: ptr(sale.Items[0].ID),
	}))
	require.NoError(t, err)
	orig, err = f.orch.GetBill(ctx, entity.BillKindSale, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BillStatusReturned, orig.Status)
	assert.Equal(t, int64(50), f.stock(t, prodRice, locMain))
	assertDec(t, 0, f.debt(t), "deuda saldada por devoluciones")

	assert.Equal(t, []invalidation.Operation{
		invalidation.OpCreateSale,
		invalidation.OpCreateSaleReturn,
		invalidation.OpCreateSaleReturn,
	}, f.inv.ops)
}

func TestOrchestrator_DevolucionDeCompraConReembolso(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	purchase, err := f.orch.CreatePurchaseBill(ctx, "u1", dto.CreateBillRequest{
		BillData: dto.BillDataRequest{SupplierID: supplier},
		Items:    []dto.BillItemRequest{line(prodRice, 10, 8)},
	})
	require.NoError(t, err)

	req := returnRequest(purchase.ID, dto.BillItemRequest{ProductID: prodRice, Quantity: 5})
	req.BillData.PaidAmount = dec(40)
	req.MoneyBoxID = ptr(box)
	ret, err := f.orch.CreateReturnBill(ctx, "u1", req)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPaid, ret.PaymentStatus)

	assert.Equal(t, int64(55), f.stock(t, prodRice, locMain), "la devolución de compra descuenta")
	assertDec(t, 40, f.cash(t), "el proveedor reembolsa a la caja")
	s, err := f.repos.Suppliers.GetByID(ctx, supplier)
	require.NoError(t, err)
	assertDec(t, 80, s.Balance, "el reembolso pagado no reduce el saldo pendiente")
	assert.Equal(t, invalidation.OpCreatePurchaseReturn, f.inv.ops[len(f.inv.ops)-1])
}

// ──────────────────────────────────────────────────────────────────────────────
// Eliminación
// ──────────────────────────────────────────────────────────────────────────────

func TestOrchestrator_EliminarFacturaCompensaMovimientos(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sale, err := f.orch.CreateSaleBill(ctx, "u1", saleRequest(30, line(prodRice, 10, 10)))
	require.NoError(t, err)
	ret, err := f.orch.CreateReturnBill(ctx, "u1", returnRequest(sale.ID, dto.BillItemRequest{ProductID: prodRice, Quantity: 2}))
	require.NoError(t, err)

	err = f.orch.DeleteBill(ctx, "u1", entity.BillKindSale, sale.ID)
	assert.ErrorIs(t, err, domain.ErrBillHasReturns)

	require.NoError(t, f.orch.DeleteBill(ctx, "u1", entity.BillKindReturn, ret.ID))
	orig, err := f.orch.GetBill(ctx, entity.BillKindSale, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BillStatusCompleted, orig.Status, "sin devoluciones vuelve a completed")
	assert.Equal(t, int64(40), f.stock(t, prodRice, locMain))

	movementsBefore := f.movementCount(t)
	require.NoError(t, f.orch.DeleteBill(ctx, "u1", entity.BillKindSale, sale.ID))

	_, err = f.orch.GetBill(ctx, entity.BillKindSale, sale.ID)
	assert.ErrorIs(t, err, domain.ErrBillNotFound)
	assert.Equal(t, int64(50), f.stock(t, prodRice, locMain))
	assert.Equal(t, movementsBefore+1, f.movementCount(t), "se inserta la reversa, nada se borra")
	assertDec(t, 0, f.debt(t), "deuda deshecha")
	assertDec(t, 0, f.cash(t), "caja deshecha")
	assert.Equal(t, invalidation.OpDeleteSale, f.inv.ops[len(f.inv.ops)-1])
}

func TestOrchestrator_ListBillsPorTipo(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	for i := 0; i < 3; i++ {
		_, err := f.orch.CreateSaleBill(ctx, "u1", saleRequest(0, line(prodRice, 1, 10)))
		require.NoError(t, err)
	}
	list, page, err := f.orch.ListBills(ctx, entity.BillKindSale, dto.BillListRequest{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.Pages)

	list, _, err = f.orch.ListBills(ctx, entity.BillKindPurchase, dto.BillListRequest{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestOrchestrator_EliminarFacturaDeshaceLaCajaRealmenteUsada(t *testing.T) {
	ctx := context.Background()

	t.Run("pago inicial fuera de caja", func(t *testing.T) {
		f := newFixture(t)
		req := saleRequest(40, line(prodRice, 10, 10))
		req.MoneyBoxID = nil
		bill, err := f.orch.CreateSaleBill(ctx, "u1", req)
		require.NoError(t, err)
		assertDec(t, 0, f.cash(t), "sin caja no se registra efectivo")

		_, err = f.orch.UpdatePaymentStatus(ctx, "u1", entity.BillKindSale, bill.ID, dto.UpdatePaymentRequest{
			PaidAmount: dec(100), MoneyBoxID: ptr(box),
		})
		require.NoError(t, err)
		assertDec(t, 60, f.cash(t), "la caja recibe solo la diferencia")

		require.NoError(t, f.orch.DeleteBill(ctx, "u1", entity.BillKindSale, bill.ID))
		assertDec(t, 0, f.cash(t), "se deshace lo que entró a la caja, no el total pagado")
		assertDec(t, 0, f.debt(t), "deuda deshecha")
	})

	t.Run("pago repartido entre dos cajas", func(t *testing.T) {
		f := newFixture(t)
		const other = "box-2"
		require.NoError(t, f.repos.MoneyBoxes.Create(ctx, &entity.MoneyBox{ID: other, Name: "Caja 2"}))

		bill, err := f.orch.CreateSaleBill(ctx, "u1", saleRequest(40, line(prodRice, 10, 10)))
		require.NoError(t, err)
		_, err = f.orch.UpdatePaymentStatus(ctx, "u1", entity.BillKindSale, bill.ID, dto.UpdatePaymentRequest{
			PaidAmount: dec(100), MoneyBoxID: ptr(other),
		})
		require.NoError(t, err)
		b2, err := f.repos.MoneyBoxes.GetByID(ctx, other)
		require.NoError(t, err)
		assertDec(t, 40, f.cash(t), "caja 1 tras el pago")
		assertDec(t, 60, b2.Balance, "caja 2 tras el pago")

		require.NoError(t, f.orch.DeleteBill(ctx, "u1", entity.BillKindSale, bill.ID))
		b2, err = f.repos.MoneyBoxes.GetByID(ctx, other)
		require.NoError(t, err)
		assertDec(t, 0, f.cash(t), "caja 1 deshecha")
		assertDec(t, 0, b2.Balance, "caja 2 deshecha")

		txs, err := f.repos.MoneyBoxes.ListByReference(ctx, string(entity.BillKindSale), bill.ID)
		require.NoError(t, err)
		assert.Len(t, txs, 4, "la eliminación agrega una compensación por caja")
	})
}

func TestOrchestrator_EscenarioTrasladoYVentaPorFactura(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.orch.CreatePurchaseBill(ctx, "u1", dto.CreateBillRequest{
		BillData: dto.BillDataRequest{SupplierID: supplier, StockID: ptr(locMain)},
		Items:    []dto.BillItemRequest{line(prodOil, 50, 15)},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(50), f.stock(t, prodOil, locMain))

	_, err = f.ledger.RecordMovement(ctx, inventory.MovementInput{
		MovementType: entity.MovementTypeTransfer, FromStockID: locMain, ToStockID: locShop, ProductID: prodOil, Quantity: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(30), f.stock(t, prodOil, locMain))
	assert.Equal(t, int64(20), f.stock(t, prodOil, locShop))
	p, err := f.repos.Products.GetByID(ctx, prodOil)
	require.NoError(t, err)
	assert.Equal(t, locShop, p.AssignedStock(), "el traslado reasigna el producto")

	sale := func(qty int64) dto.CreateBillRequest {
		return dto.CreateBillRequest{
			BillData: dto.BillDataRequest{CustomerID: customer, StockID: ptr(locMain)},
			Items:    []dto.BillItemRequest{line(prodOil, qty, 25)},
		}
	}

	_, err = f.orch.CreateSaleBill(ctx, "u1", sale(35))
	var insufficient *domain.InsufficientStockError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, locMain, insufficient.LocationID)
	assert.Equal(t, int64(30), insufficient.Available)
	list, _, err := f.orch.ListBills(ctx, entity.BillKindSale, dto.BillListRequest{})
	require.NoError(t, err)
	assert.Empty(t, list, "la venta rechazada no deja factura")

	bill, err := f.orch.CreateSaleBill(ctx, "u1", sale(25))
	require.NoError(t, err)
	assert.Equal(t, locMain, bill.Items[0].StockID, "la ubicación explícita prevalece sobre la asignada")
	assert.Equal(t, int64(5), f.stock(t, prodOil, locMain))
	assert.Equal(t, int64(20), f.stock(t, prodOil, locShop))
}

func TestOrchestrator_MovimientosEnOrdenDeProductoYUbicacion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.ledger.RecordMovement(ctx, inventory.MovementInput{
		MovementType: entity.MovementTypeInitial, ToStockID: locMain, ProductID: prodOil, Quantity: 10,
	})
	require.NoError(t, err)

	bill, err := f.orch.CreateSaleBill(ctx, "u1", saleRequest(0, line(prodRice, 2, 10), line(prodOil, 1, 25)))
	require.NoError(t, err)
	require.Len(t, bill.Items, 2)
	assert.Equal(t, prodRice, bill.Items[0].ProductID, "las líneas conservan el orden de la factura")

	movs, err := f.repos.Movements.ListByReference(ctx, entity.ReferenceTypeSale, bill.ID)
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Equal(t, prodOil, movs[0].ProductID)
	assert.Equal(t, prodRice, movs[1].ProductID)
}

func TestOrchestrator_PrecioCeroSinPrecioDelProducto(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.repos.Products.Create(ctx, &entity.Product{ID: "prod-free", SKU: "FREE", Name: "Sin precio"}))
	_, err := f.ledger.RecordMovement(ctx, inventory.MovementInput{
		MovementType: entity.MovementTypeInitial, ToStockID: locMain, ProductID: "prod-free", Quantity: 5,
	})
	require.NoError(t, err)
	movements := f.movementCount(t)

	_, err = f.orch.CreateSaleBill(ctx, "u1", saleRequest(0, line(prodRice, 1, 10), line("prod-free", 1, 0)))
	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Contains(t, vErr.Fields, "items[1].price")
	assert.Equal(t, movements, f.movementCount(t))

	bill, err := f.orch.CreateSaleBill(ctx, "u1", saleRequest(0, line(prodRice, 1, 0)))
	require.NoError(t, err)
	assertDec(t, 10, bill.Items[0].Price, "precio 0 toma el del producto")
}
