package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/ports"
)

var _ ports.Cache = (*MemoryCache)(nil)

type memEntry struct {
	value   []byte
	expires time.Time // cero = sin expiración
}

// MemoryCache caché en proceso con TTL por entrada. Es la opción por defecto (CACHE_DRIVER=memory).
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memEntry
	now     func() time.Time
}

// NewMemoryCache construye una caché vacía.
func NewMemoryCache() *MemoryCache {
	return NewMemoryCacheWithClock(time.Now)
}

// NewMemoryCacheWithClock permite inyectar el reloj (tests de expiración).
func NewMemoryCacheWithClock(now func() time.Time) *MemoryCache {
	return &MemoryCache{entries: make(map[string]memEntry), now: now}
}

// Get devuelve el valor si existe y no expiró; las entradas vencidas se eliminan al leerlas.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && !c.now().Before(e.expires) {
		c.mu.Lock()
		if cur, still := c.entries[key]; still && cur.expires.Equal(e.expires) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, true, nil
}

// Set guarda una copia del valor; ttl <= 0 significa sin expiración.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := memEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expires = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	return nil
}

// Delete elimina una clave.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// DeleteByPrefix elimina todas las claves con el prefijo dado.
func (c *MemoryCache) DeleteByPrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	c.mu.Unlock()
	return nil
}

// Len devuelve el número de entradas (incluye vencidas aún no leídas).
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
