package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.DriverPostgres, cfg.Ledger.StorageDriver)
	assert.Equal(t, config.DriverMemory, cfg.Cache.Driver)
	assert.Equal(t, 300*time.Second, cfg.Cache.StocksTTL)
	assert.Equal(t, 600*time.Second, cfg.Cache.StockProductsTTL)
	assert.Equal(t, 900*time.Second, cfg.Cache.ProductTTL)
	assert.False(t, cfg.Ledger.AllowNegativeStock)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_VariablesDeEntorno(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "Memory")
	t.Setenv("CACHE_DRIVER", "redis")
	t.Setenv("CACHE_STOCKS_TTL", "120")
	t.Setenv("ALLOW_NEGATIVE_STOCK", "true")
	t.Setenv("DB_MAX_CONNS", "20")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.DriverMemory, cfg.Ledger.StorageDriver)
	assert.Equal(t, config.DriverRedis, cfg.Cache.Driver)
	assert.Equal(t, 120*time.Second, cfg.Cache.StocksTTL)
	assert.True(t, cfg.Ledger.AllowNegativeStock)
	assert.Equal(t, int32(20), cfg.DB.MaxConns)
	assert.Equal(t, 9090, cfg.HTTP.Port)
}

func TestLoad_DriverInvalido(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	db := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/w", DBName: "ledger", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fw@db:5432/ledger?sslmode=disable", db.DSN())

	db.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", db.ConnectionString())
}
