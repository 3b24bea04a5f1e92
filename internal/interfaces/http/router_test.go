package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/jhoicas/stock-ledger/internal/application/billing"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/invalidation"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/cache"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/stock-ledger/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type envelope struct {
	Success    bool              `json:"success"`
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Data       json.RawMessage   `json:"data"`
	Pagination *dto.Pagination   `json:"pagination"`
	Errors     map[string]string `json:"errors"`
}

// buildApp arma la API completa sobre el almacenamiento y la caché en memoria, sin JWT.
func buildApp(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()
	c := cache.NewMemoryCache()
	log := zerolog.Nop()
	inv := invalidation.NewRouter(c, log)
	ttl := inventory.QueryTTL{Stocks: 5 * time.Minute, StockProducts: 10 * time.Minute, Product: 15 * time.Minute}

	ledger := inventory.NewLedgerUseCase(store, repos, inv, false)
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Ledger:        ledger,
		Query:         inventory.NewQueryUseCase(repos, c, ttl, log),
		Replenishment: inventory.NewReplenishmentUseCase(repos.Products),
		LocationUC:    usecase.NewLocationUseCase(store, repos, inv),
		ProductUC:     usecase.NewProductUseCase(repos.Products, inv),
		Orchestrator:  billing.NewOrchestrator(store, repos, ledger, inv),
		Counterparty:  billing.NewCounterpartyUseCase(repos.Customers, repos.Suppliers, inv),
		MoneyBoxUC:    billing.NewMoneyBoxUseCase(store, repos.MoneyBoxes, inv),
		VoucherUC:     billing.NewVoucherUseCase(repos.Vouchers, repos.Bills, pdf.NewMarotoVoucherRenderer("Stock Ledger", language.Spanish)),
		Logger:        log,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path string, body any) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func dataID(t *testing.T, env envelope) string {
	t.Helper()
	var v struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &v))
	require.NotEmpty(t, v.ID)
	return v.ID
}

type seeded struct {
	locationID string
	productID  string
	customerID string
	boxID      string
}

// seed crea una ubicación principal con 10 unidades de un producto, un cliente y una caja.
func seed(t *testing.T, app *fiber.App) seeded {
	t.Helper()
	var s seeded

	status, env := call(t, app, http.MethodPost, "/api/stocks", map[string]any{"code": "MAIN", "name": "Bodega", "is_main": true})
	require.Equal(t, fiber.StatusCreated, status, env.Message)
	s.locationID = dataID(t, env)

	status, env = call(t, app, http.MethodPost, "/api/products", map[string]any{"sku": "RICE", "name": "Arroz", "price": "10"})
	require.Equal(t, fiber.StatusCreated, status, env.Message)
	s.productID = dataID(t, env)

	status, env = call(t, app, http.MethodPost, "/api/stock-movements", map[string]any{
		"movement_type": "initial", "to_stock_id": s.locationID, "product_id": s.productID, "quantity": 10, "unit_cost": "4",
	})
	require.Equal(t, fiber.StatusCreated, status, env.Message)

	status, env = call(t, app, http.MethodPost, "/api/customers", map[string]any{"name": "Cliente"})
	require.Equal(t, fiber.StatusCreated, status, env.Message)
	s.customerID = dataID(t, env)

	status, env = call(t, app, http.MethodPost, "/api/money-boxes", map[string]any{"name": "Caja 1"})
	require.Equal(t, fiber.StatusCreated, status, env.Message)
	s.boxID = dataID(t, env)
	return s
}

func currentStock(t *testing.T, app *fiber.App, s seeded) int64 {
	t.Helper()
	status, env := call(t, app, http.MethodGet, "/api/stock-movements/current?product_id="+s.productID+"&stock_id="+s.locationID, nil)
	require.Equal(t, fiber.StatusOK, status, env.Message)
	var cur dto.CurrentStockResponse
	require.NoError(t, json.Unmarshal(env.Data, &cur))
	return cur.Quantity
}

func saleBody(s seeded, qty int64, paid string) map[string]any {
	return map[string]any{
		"billData": map[string]any{
			"customer_id": s.customerID, "stock_id": s.locationID, "paid_amount": paid, "create_voucher": true,
		},
		"items":      []map[string]any{{"product_id": s.productID, "quantity": qty, "price": "10"}},
		"moneyBoxId": s.boxID,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_MovimientoYStockActual(t *testing.T) {
	app := buildApp(t)
	s := seed(t, app)
	assert.Equal(t, int64(10), currentStock(t, app, s))

	status, env := call(t, app, http.MethodGet, "/api/stock-movements?product_id="+s.productID, nil)
	require.Equal(t, fiber.StatusOK, status)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 1, env.Pagination.Total)
	assert.Equal(t, 20, env.Pagination.Limit)
}

func TestRouter_VentaConPagoYComprobantePDF(t *testing.T) {
	app := buildApp(t)
	s := seed(t, app)

	status, env := call(t, app, http.MethodPost, "/api/bills/sale", saleBody(s, 4, "40"))
	require.Equal(t, fiber.StatusCreated, status, env.Message)
	var bill dto.BillResponse
	require.NoError(t, json.Unmarshal(env.Data, &bill))
	assert.Equal(t, "paid", bill.PaymentStatus)
	require.Len(t, bill.Vouchers, 1)
	assert.Equal(t, int64(6), currentStock(t, app, s))

	req := httptest.NewRequest(http.MethodGet, "/api/vouchers/"+bill.Vouchers[0].ID+"/pdf", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestRouter_StockInsuficienteNoModificaNada(t *testing.T) {
	app := buildApp(t)
	s := seed(t, app)

	status, env := call(t, app, http.MethodPost, "/api/bills/sale", saleBody(s, 11, "0"))
	assert.Equal(t, fiber.StatusConflict, status)
	assert.False(t, env.Success)
	assert.Equal(t, "INSUFFICIENT_STOCK", env.Code)
	assert.Equal(t, int64(10), currentStock(t, app, s))

	status, env = call(t, app, http.MethodGet, "/api/bills/sale", nil)
	require.Equal(t, fiber.StatusOK, status)
	require.NotNil(t, env.Pagination)
	assert.Zero(t, env.Pagination.Total)
}

func TestRouter_ValidacionDevuelveCampos(t *testing.T) {
	app := buildApp(t)

	status, env := call(t, app, http.MethodPost, "/api/stock-movements", map[string]any{
		"movement_type": "teleport", "product_id": "p", "quantity": 0,
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", env.Code)
	assert.Equal(t, "oneof", env.Errors["movement_type"])
	assert.Equal(t, "required", env.Errors["quantity"])

	status, env = call(t, app, http.MethodPost, "/api/bills/sale", map[string]any{"billData": map[string]any{}, "items": []any{}})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, env.Errors, "items")
}

func TestRouter_TipoDeFacturaDesconocido(t *testing.T) {
	app := buildApp(t)
	status, env := call(t, app, http.MethodGet, "/api/bills/quote/123", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, env.Errors, "kind")
}

func TestRouter_RecursoInexistente(t *testing.T) {
	app := buildApp(t)
	status, env := call(t, app, http.MethodGet, "/api/products/no-existe", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", env.Code)
}

func TestRouter_ReversaUnica(t *testing.T) {
	app := buildApp(t)
	s := seed(t, app)

	status, env := call(t, app, http.MethodPost, "/api/stock-movements", map[string]any{
		"movement_type": "adjustment", "from_stock_id": s.locationID, "product_id": s.productID, "quantity": 3,
	})
	require.Equal(t, fiber.StatusCreated, status, env.Message)
	id := dataID(t, env)
	assert.Equal(t, int64(7), currentStock(t, app, s))

	status, _ = call(t, app, http.MethodPost, "/api/stock-movements/"+id+"/reverse", map[string]any{"notes": "error de conteo"})
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, int64(10), currentStock(t, app, s))

	status, env = call(t, app, http.MethodPost, "/api/stock-movements/"+id+"/reverse", nil)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "ALREADY_REVERSED", env.Code)
}

func TestRouter_NoSeEliminaUbicacionPrincipal(t *testing.T) {
	app := buildApp(t)
	s := seed(t, app)
	status, env := call(t, app, http.MethodDelete, "/api/stocks/"+s.locationID, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "MAIN_LOCATION", env.Code)
}
