// Command reconcile compara los saldos materializados contra el fold del ledger.
// Pensado para ejecutarse desde un cron externo; termina con código 1 si encuentra diferencias.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/invalidation"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/cache"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

const (
	exitOK    = 0
	exitDrift = 1
	exitError = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	repair := flag.Bool("repair", false, "reescribe saldos, current_stock y capacidad usada desde el ledger")
	timeout := flag.Duration("timeout", 5*time.Minute, "tiempo máximo de la reconciliación")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "reconcile"})

	if cfg.Ledger.StorageDriver != config.DriverPostgres {
		log.Error().Str("storage", cfg.Ledger.StorageDriver).Msg("la reconciliación requiere STORAGE_DRIVER=postgres")
		return exitError
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("conexión a PostgreSQL")
		return exitError
	}
	defer pool.Close()

	// Solo Redis comparte caché con la API; la caché en memoria es local a cada proceso.
	var invalidator invalidation.Invalidator = invalidation.Nop{}
	if *repair && cfg.Cache.Driver == config.DriverRedis {
		rdb, err := cache.NewRedisClient(ctx, cfg.Cache.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("Redis no disponible, no se invalidará la caché")
		} else {
			defer rdb.Close()
			invalidator = invalidation.NewRouter(cache.NewRedisCache(rdb, cfg.Cache.Prefix), log.Zerolog())
		}
	}

	ledger := inventory.NewLedgerUseCase(postgres.NewTxRunner(pool), postgres.NewRepos(pool), invalidator, cfg.Ledger.AllowNegativeStock)
	report, err := ledger.Reconcile(ctx, *repair)
	if err != nil {
		log.Error().Err(err).Msg("reconciliación fallida")
		return exitError
	}

	for _, d := range report.BalanceDrifts {
		log.Warn().Str("product_id", d.ProductID).Str("stock_id", d.StockID).
			Int64("materialized", d.Materialized).Int64("derived", d.Derived).Msg("saldo distinto del ledger")
	}
	for _, d := range report.ProductDrifts {
		log.Warn().Str("product_id", d.ProductID).Str("stock_id", d.StockID).
			Int64("cached", d.Cached).Int64("derived", d.Derived).Msg("current_stock distinto del ledger")
	}
	for _, d := range report.CapacityDrifts {
		log.Warn().Str("stock_id", d.StockID).
			Int64("cached", d.Cached).Int64("derived", d.Derived).Msg("capacidad usada distinta del ledger")
	}

	log.Info().
		Int("pairs", report.Pairs).
		Int("balance_drifts", len(report.BalanceDrifts)).
		Int("product_drifts", len(report.ProductDrifts)).
		Int("capacity_drifts", len(report.CapacityDrifts)).
		Bool("repaired", report.Repaired).
		Msg("reconciliación terminada")

	if report.HasDrift() {
		return exitDrift
	}
	return exitOK
}
