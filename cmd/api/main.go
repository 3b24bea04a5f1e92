package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/swaggo/swag"
	"golang.org/x/text/language"

	"github.com/jhoicas/stock-ledger/docs"
	"github.com/jhoicas/stock-ledger/internal/application/billing"
	"github.com/jhoicas/stock-ledger/internal/application/invalidation"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/ports"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/cache"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/stock-ledger/internal/infrastructure/pdf"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/stock-ledger/internal/interfaces/http"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// @title        Stock Ledger API
// @version      1.0
// @description  Ledger de movimientos de stock y facturación transaccional.
// @BasePath     /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("storage", cfg.Ledger.StorageDriver).
		Str("cache", cfg.Cache.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// ── Almacenamiento ────────────────────────────────────────────────────────
	var (
		txRunner ports.TxRunner
		repos    repository.Repos
		pool     *pgxpool.Pool
	)
	switch cfg.Ledger.StorageDriver {
	case config.DriverMemory:
		store := memory.NewStore()
		txRunner, repos = store, store.Repos()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		pool, err = postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		txRunner, repos = postgres.NewTxRunner(pool), postgres.NewRepos(pool)
	}

	// ── Caché ─────────────────────────────────────────────────────────────────
	var (
		appCache ports.Cache
		rdb      *redis.Client
	)
	switch cfg.Cache.Driver {
	case config.DriverRedis:
		rdb, err = cache.NewRedisClient(ctx, cfg.Cache.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		appCache = cache.NewRedisCache(rdb, cfg.Cache.Prefix)
	default:
		appCache = cache.NewMemoryCache()
	}

	zl := log.Zerolog()
	invalidator := invalidation.NewRouter(appCache, zl)

	// ── Casos de uso ──────────────────────────────────────────────────────────
	ledgerUC := inventory.NewLedgerUseCase(txRunner, repos, invalidator, cfg.Ledger.AllowNegativeStock)
	queryUC := inventory.NewQueryUseCase(repos, appCache, inventory.QueryTTL{
		Stocks:        cfg.Cache.StocksTTL,
		StockProducts: cfg.Cache.StockProductsTTL,
		Product:       cfg.Cache.ProductTTL,
	}, zl)
	replenishmentUC := inventory.NewReplenishmentUseCase(repos.Products)
	locationUC := usecase.NewLocationUseCase(txRunner, repos, invalidator)
	productUC := usecase.NewProductUseCase(repos.Products, invalidator)
	orchestrator := billing.NewOrchestrator(txRunner, repos, ledgerUC, invalidator)
	counterpartyUC := billing.NewCounterpartyUseCase(repos.Customers, repos.Suppliers, invalidator)
	moneyBoxUC := billing.NewMoneyBoxUseCase(txRunner, repos.MoneyBoxes, invalidator)

	pdfLang, err := language.Parse(cfg.PDF.Language)
	if err != nil {
		log.Warn().Err(err).Str("language", cfg.PDF.Language).Msg("idioma de PDF inválido, se usa es")
		pdfLang = language.Spanish
	}
	voucherUC := billing.NewVoucherUseCase(repos.Vouchers, repos.Bills, infrapdf.NewMarotoVoucherRenderer(cfg.PDF.Issuer, pdfLang))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs (requiere swag init)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Stock Ledger API",
		}))
	}
	app.Get("/docs/doc.json", func(c *fiber.Ctx) error {
		doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(doc)
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		status := fiber.Map{"status": "ok", "service": cfg.App.Name}
		if pool != nil {
			if err := pool.Ping(c.UserContext()); err != nil {
				status["status"] = "degraded"
				status["database"] = err.Error()
			}
		}
		if rdb != nil {
			if err := rdb.Ping(c.UserContext()).Err(); err != nil {
				status["status"] = "degraded"
				status["cache"] = err.Error()
			}
		}
		return c.JSON(status)
	})

	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: la API queda sin autenticación")
	}
	httpRouter.Router(app, httpRouter.RouterDeps{
		Ledger:        ledgerUC,
		Query:         queryUC,
		Replenishment: replenishmentUC,
		LocationUC:    locationUC,
		ProductUC:     productUC,
		Orchestrator:  orchestrator,
		Counterparty:  counterpartyUC,
		MoneyBoxUC:    moneyBoxUC,
		VoucherUC:     voucherUC,
		Logger:        log.Component("http"),
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
