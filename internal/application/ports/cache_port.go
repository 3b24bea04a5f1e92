package ports

import (
	"context"
	"time"
)

// Cache define el puerto de salida para la caché de lecturas (memoria o Redis).
// Es solo consultiva: ninguna decisión de negocio se toma con valores de caché.
type Cache interface {
	// Get devuelve el valor y true si existe y no expiró.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// DeleteByPrefix elimina todas las claves que empiezan con prefix.
	DeleteByPrefix(ctx context.Context, prefix string) error
}
