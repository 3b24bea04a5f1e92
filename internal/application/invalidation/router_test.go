package invalidation_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/invalidation"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/cache"
)

// failingCache falla en cada borrado por prefijo.
type failingCache struct {
	mu       sync.Mutex
	prefixes []string
}

func (f *failingCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (f *failingCache) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}
func (f *failingCache) Delete(context.Context, string) error { return nil }
func (f *failingCache) DeleteByPrefix(_ context.Context, prefix string) error {
	f.mu.Lock()
	f.prefixes = append(f.prefixes, prefix)
	f.mu.Unlock()
	return errors.New("redis caído")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tablas estáticas
// ──────────────────────────────────────────────────────────────────────────────

func TestTypesFor_OperacionesDeFacturacion(t *testing.T) {
	sale := invalidation.TypesFor(invalidation.OpCreateSale)
	assert.ElementsMatch(t, []invalidation.DataType{
		invalidation.Sales, invalidation.Inventory, invalidation.Movements,
		invalidation.Customers, invalidation.CashBox, invalidation.Vouchers,
	}, sale)

	purchase := invalidation.TypesFor(invalidation.OpCreatePurchase)
	assert.Contains(t, purchase, invalidation.Suppliers)
	assert.NotContains(t, purchase, invalidation.Customers)

	assert.Nil(t, invalidation.TypesFor("desconocida"))
}

func TestPrefixesFor_SinDuplicados(t *testing.T) {
	got := invalidation.PrefixesFor(invalidation.Inventory, invalidation.Stocks, invalidation.Products)
	seen := map[string]int{}
	for _, p := range got {
		seen[p]++
	}
	for p, n := range seen {
		assert.Equal(t, 1, n, "prefijo repetido: %s", p)
	}
	assert.Contains(t, got, invalidation.PrefixStockProducts)
	assert.Contains(t, got, invalidation.PrefixProduct)
}

// ──────────────────────────────────────────────────────────────────────────────
// Router
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_InvalidaSoloLosTiposAfectados(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemoryCache()
	require.NoError(t, c.Set(ctx, invalidation.StocksKey(), []byte("[]"), time.Minute))
	require.NoError(t, c.Set(ctx, invalidation.ProductKey("p1"), []byte("{}"), time.Minute))
	require.NoError(t, c.Set(ctx, invalidation.PrefixCustomers+"all", []byte("[]"), time.Minute))

	r := invalidation.NewRouter(c, zerolog.Nop())
	r.Invalidate(ctx, invalidation.OpRecordMovement)

	_, ok, _ := c.Get(ctx, invalidation.StocksKey())
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, invalidation.ProductKey("p1"))
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, invalidation.PrefixCustomers+"all")
	assert.True(t, ok, "un movimiento no toca la caché de clientes")
}

func TestRouter_FallosDeCacheSoloSeRegistran(t *testing.T) {
	var buf bytes.Buffer
	fc := &failingCache{}
	r := invalidation.NewRouter(fc, zerolog.New(&buf))

	assert.NotPanics(t, func() { r.Invalidate(context.Background(), invalidation.OpCreateSale) })
	assert.Equal(t,
		invalidation.PrefixesFor(invalidation.TypesFor(invalidation.OpCreateSale)...),
		fc.prefixes, "se intentan todos los prefijos aunque alguno falle")
	assert.Contains(t, buf.String(), "no se pudo invalidar la caché")
	assert.Contains(t, buf.String(), `"level":"warn"`)
}
