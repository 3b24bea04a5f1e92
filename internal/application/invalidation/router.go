package invalidation

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger/internal/application/ports"
)

// Invalidator es lo que los casos de uso conocen del router: una llamada por mutación confirmada.
type Invalidator interface {
	Invalidate(ctx context.Context, op Operation)
}

// Router traduce operaciones a prefijos de caché y los elimina.
// Los fallos de la caché se registran y nunca se propagan al flujo de negocio.
type Router struct {
	cache ports.Cache
	log   zerolog.Logger
}

var _ Invalidator = (*Router)(nil)

// NewRouter construye el router sobre la caché inyectada.
func NewRouter(cache ports.Cache, log zerolog.Logger) *Router {
	return &Router{cache: cache, log: log.With().Str("component", "invalidation").Logger()}
}

// Invalidate elimina todas las entradas de los tipos afectados por op.
func (r *Router) Invalidate(ctx context.Context, op Operation) {
	types := TypesFor(op)
	if len(types) == 0 {
		r.log.Warn().Str("operation", string(op)).Msg("operación sin tipos de caché registrados")
		return
	}
	r.InvalidateTypes(ctx, types...)
}

// InvalidateTypes elimina las entradas de los tipos dados sin importar su TTL.
func (r *Router) InvalidateTypes(ctx context.Context, types ...DataType) {
	for _, prefix := range PrefixesFor(types...) {
		if err := r.cache.DeleteByPrefix(ctx, prefix); err != nil {
			r.log.Warn().Err(err).Str("prefix", prefix).Msg("no se pudo invalidar la caché")
		}
	}
}

// Nop no invalida nada (herramientas de línea de comandos sin caché).
type Nop struct{}

// Invalidate no hace nada.
func (Nop) Invalidate(context.Context, Operation) {}
