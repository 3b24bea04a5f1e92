package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger/internal/application/billing"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger        *inventory.LedgerUseCase
	Query         *inventory.QueryUseCase
	Replenishment *inventory.ReplenishmentUseCase
	LocationUC    *usecase.LocationUseCase
	ProductUC     *usecase.ProductUseCase
	Orchestrator  *billing.Orchestrator
	Counterparty  *billing.CounterpartyUseCase
	MoneyBoxUC    *billing.MoneyBoxUseCase
	VoucherUC     *billing.VoucherUseCase
	Logger        zerolog.Logger
	// JWTSecret vacío deja la API sin autenticación (desarrollo).
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(RequestLogger(deps.Logger))

	api := app.Group("/api")
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	protected := api
	if deps.JWTSecret != "" {
		protected = api.Group("/", AuthMiddleware(deps.JWTSecret))
	}

	// Ledger de movimientos
	inventoryHandler := NewInventoryHandler(deps.Ledger, deps.Replenishment)
	movements := protected.Group("/stock-movements")
	movements.Post("/", inventoryHandler.RecordMovement)
	movements.Get("/", inventoryHandler.ListMovements)
	movements.Get("/current", inventoryHandler.CurrentStock)
	movements.Post("/:id/reverse", inventoryHandler.ReverseMovement)
	protected.Get("/inventory/replenishment-list", inventoryHandler.GetReplenishmentList)

	// Ubicaciones
	locationHandler := NewLocationHandler(deps.LocationUC, deps.Query)
	stocks := protected.Group("/stocks")
	stocks.Post("/", locationHandler.Create)
	stocks.Get("/", locationHandler.List)
	stocks.Get("/:id", locationHandler.GetByID)
	stocks.Put("/:id", locationHandler.Update)
	stocks.Delete("/:id", locationHandler.Delete)
	stocks.Get("/:id/products", locationHandler.Products)
	stocks.Put("/:id/main", locationHandler.SetMain)

	// Productos
	productHandler := NewProductHandler(deps.ProductUC, deps.Query)
	products := protected.Group("/products")
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)

	// Facturas y comprobantes
	billHandler := NewBillHandler(deps.Orchestrator, deps.VoucherUC)
	bills := protected.Group("/bills")
	bills.Post("/sale", billHandler.CreateSale)
	bills.Post("/purchase", billHandler.CreatePurchase)
	bills.Post("/return", billHandler.CreateReturn)
	bills.Get("/:kind", billHandler.List)
	bills.Get("/:kind/:id", billHandler.GetByID)
	bills.Put("/:kind/:id/payment", billHandler.UpdatePayment)
	bills.Delete("/:kind/:id", billHandler.Delete)
	bills.Get("/:kind/:id/vouchers", billHandler.ListVouchers)
	vouchers := protected.Group("/vouchers")
	vouchers.Get("/:id", billHandler.GetVoucher)
	vouchers.Get("/:id/pdf", billHandler.DownloadVoucherPDF)

	// Clientes y proveedores
	counterpartyHandler := NewCounterpartyHandler(deps.Counterparty)
	customers := protected.Group("/customers")
	customers.Post("/", counterpartyHandler.CreateCustomer)
	customers.Get("/", counterpartyHandler.ListCustomers)
	customers.Get("/:id", counterpartyHandler.GetCustomer)
	suppliers := protected.Group("/suppliers")
	suppliers.Post("/", counterpartyHandler.CreateSupplier)
	suppliers.Get("/", counterpartyHandler.ListSuppliers)
	suppliers.Get("/:id", counterpartyHandler.GetSupplier)

	// Cajas
	moneyBoxHandler := NewMoneyBoxHandler(deps.MoneyBoxUC)
	boxes := protected.Group("/money-boxes")
	boxes.Post("/", moneyBoxHandler.Create)
	boxes.Get("/", moneyBoxHandler.List)
	boxes.Get("/:id", moneyBoxHandler.GetByID)
	boxes.Get("/:id/transactions", moneyBoxHandler.Transactions)
}
