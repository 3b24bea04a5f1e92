package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
)

func ptr(s string) *string { return &s }

// ──────────────────────────────────────────────────────────────────────────────
// Tabla de reglas por tipo de movimiento
// ──────────────────────────────────────────────────────────────────────────────

func TestPlanMovement_Tabla(t *testing.T) {
	cases := []struct {
		name       string
		typ        string
		from, to   string
		wantDeltas []inventory.Delta
		wantAssign string
		onlyIfNone bool
		capacity   bool
	}{
		{"compra suma en destino", entity.MovementTypePurchase, "", "A",
			[]inventory.Delta{{StockID: "A", Amount: 5}}, "A", true, true},
		{"inicial suma en destino", entity.MovementTypeInitial, "", "A",
			[]inventory.Delta{{StockID: "A", Amount: 5}}, "A", true, false},
		{"venta resta en origen", entity.MovementTypeSale, "A", "",
			[]inventory.Delta{{StockID: "A", Amount: -5}}, "", false, false},
		{"traslado entre ubicaciones", entity.MovementTypeTransfer, "A", "B",
			[]inventory.Delta{{StockID: "A", Amount: -5}, {StockID: "B", Amount: 5}}, "B", false, false},
		{"traslado solo origen", entity.MovementTypeTransfer, "A", "",
			[]inventory.Delta{{StockID: "A", Amount: -5}}, "", false, false},
		{"traslado solo destino reasigna", entity.MovementTypeTransfer, "", "B",
			[]inventory.Delta{{StockID: "B", Amount: 5}}, "B", false, false},
		{"ajuste positivo", entity.MovementTypeAdjustment, "", "A",
			[]inventory.Delta{{StockID: "A", Amount: 5}}, "", false, true},
		{"ajuste negativo", entity.MovementTypeAdjustment, "A", "",
			[]inventory.Delta{{StockID: "A", Amount: -5}}, "", false, false},
		{"devolución de venta", entity.MovementTypeReturn, "", "A",
			[]inventory.Delta{{StockID: "A", Amount: 5}}, "", false, false},
		{"devolución de compra", entity.MovementTypeReturn, "A", "",
			[]inventory.Delta{{StockID: "A", Amount: -5}}, "", false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			eff, err := inventory.PlanMovement(tc.typ, tc.from, tc.to, 5)
			require.NoError(t, err)
			assert.Equal(t, tc.wantDeltas, eff.Deltas)
			assert.Equal(t, tc.wantAssign, eff.AssignStock)
			assert.Equal(t, tc.onlyIfNone, eff.AssignOnlyIfUnassigned)
			assert.Equal(t, tc.capacity, eff.CheckCapacity)
		})
	}
}

func TestPlanMovement_Rechazos(t *testing.T) {
	cases := []struct {
		name     string
		typ      string
		from, to string
		qty      int64
		want     error
	}{
		{"cantidad cero", entity.MovementTypePurchase, "", "A", 0, domain.ErrInvalidQuantity},
		{"cantidad negativa", entity.MovementTypeSale, "A", "", -1, domain.ErrInvalidQuantity},
		{"sin ubicaciones", entity.MovementTypeTransfer, "", "", 1, domain.ErrInvalidInput},
		{"origen igual a destino", entity.MovementTypeTransfer, "A", "A", 1, domain.ErrInvalidInput},
		{"compra sin destino", entity.MovementTypePurchase, "A", "", 1, domain.ErrInvalidInput},
		{"venta con destino", entity.MovementTypeSale, "A", "B", 1, domain.ErrInvalidInput},
		{"ajuste con ambos lados", entity.MovementTypeAdjustment, "A", "B", 1, domain.ErrInvalidInput},
		{"tipo desconocido", "gift", "", "A", 1, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := inventory.PlanMovement(tc.typ, tc.from, tc.to, tc.qty)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Fold del ledger
// ──────────────────────────────────────────────────────────────────────────────

func TestFold_SumaDestinosRestaOrigenes(t *testing.T) {
	movs := []*entity.StockMovement{
		{ProductID: "p1", ToStockID: ptr("A"), Quantity: 50},
		{ProductID: "p1", FromStockID: ptr("A"), ToStockID: ptr("B"), Quantity: 20},
		{ProductID: "p1", FromStockID: ptr("B"), Quantity: 15},
		{ProductID: "p2", ToStockID: ptr("A"), Quantity: 99},
	}
	assert.Equal(t, int64(30), inventory.Fold(movs, "p1", "A"))
	assert.Equal(t, int64(5), inventory.Fold(movs, "p1", "B"))
	assert.Equal(t, int64(0), inventory.Fold(movs, "p1", "C"))
	assert.Equal(t, int64(99), inventory.Fold(movs, "p2", "A"))
}

func TestCostCalculator_PromedioPonderado(t *testing.T) {
	got := inventory.CostCalculator(10, decimal.NewFromInt(100), 10, decimal.NewFromInt(200))
	assert.True(t, decimal.NewFromInt(150).Equal(got))

	got = inventory.CostCalculator(0, decimal.Zero, 5, decimal.NewFromInt(80))
	assert.True(t, decimal.NewFromInt(80).Equal(got), "sin stock previo el costo es el de entrada")

	got = inventory.CostCalculator(-3, decimal.NewFromInt(10), 5, decimal.NewFromInt(80))
	assert.True(t, decimal.NewFromInt(80).Equal(got), "un saldo negativo no pondera")
}
