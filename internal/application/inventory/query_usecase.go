package inventory

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/invalidation"
	"github.com/jhoicas/stock-ledger/internal/application/ports"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// QueryTTL vigencia de cada lectura cacheada.
type QueryTTL struct {
	Stocks        time.Duration
	StockProducts time.Duration
	Product       time.Duration
}

// QueryUseCase lecturas de alto tráfico con caché read-through: se consulta la caché, si no
// está se recalcula desde los repositorios y se guarda con TTL acotado. La caché nunca decide
// nada de negocio; un error de caché solo se registra.
type QueryUseCase struct {
	repos repository.Repos
	cache ports.Cache
	ttl   QueryTTL
	log   zerolog.Logger
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(repos repository.Repos, cache ports.Cache, ttl QueryTTL, log zerolog.Logger) *QueryUseCase {
	return &QueryUseCase{repos: repos, cache: cache, ttl: ttl, log: log.With().Str("component", "query").Logger()}
}

// ListLocations lista las ubicaciones con cantidad de productos y unidades.
func (uc *QueryUseCase) ListLocations(ctx context.Context) ([]dto.LocationResponse, error) {
	var out []dto.LocationResponse
	if uc.fromCache(ctx, invalidation.StocksKey(), &out) {
		return out, nil
	}
	locations, err := uc.repos.Locations.List(ctx)
	if err != nil {
		return nil, err
	}
	out = make([]dto.LocationResponse, 0, len(locations))
	for _, l := range locations {
		resp := dto.ToLocationResponse(l)
		if err := uc.fillUsage(ctx, &resp); err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	uc.toCache(ctx, invalidation.StocksKey(), out, uc.ttl.Stocks)
	return out, nil
}

func (uc *QueryUseCase) fillUsage(ctx context.Context, resp *dto.LocationResponse) error {
	balances, err := uc.repos.Balances.ListByStock(ctx, resp.ID)
	if err != nil {
		return err
	}
	for _, b := range balances {
		resp.TotalQuantity += b.Quantity
	}
	n, err := uc.repos.Products.CountByStock(ctx, resp.ID)
	if err != nil {
		return err
	}
	resp.ProductCount = n
	return nil
}

// LocationProducts devuelve los productos con saldo en la ubicación o asignados a ella.
func (uc *QueryUseCase) LocationProducts(ctx context.Context, stockID string) (*dto.LocationProductsResponse, error) {
	key := invalidation.StockProductsKey(stockID)
	var out dto.LocationProductsResponse
	if uc.fromCache(ctx, key, &out) {
		return &out, nil
	}
	loc, err := uc.repos.Locations.GetByID(ctx, stockID)
	if err != nil {
		return nil, err
	}
	out.Location = dto.ToLocationResponse(loc)
	if err := uc.fillUsage(ctx, &out.Location); err != nil {
		return nil, err
	}

	balances, err := uc.repos.Balances.ListByStock(ctx, stockID)
	if err != nil {
		return nil, err
	}
	qty := make(map[string]int64, len(balances))
	order := make([]string, 0, len(balances))
	for _, b := range balances {
		if b.Quantity == 0 {
			continue
		}
		qty[b.ProductID] = b.Quantity
		order = append(order, b.ProductID)
	}
	assigned, _, err := uc.repos.Products.List(ctx, repository.ProductFilter{StockID: stockID})
	if err != nil {
		return nil, err
	}
	for _, p := range assigned {
		if _, ok := qty[p.ID]; !ok {
			qty[p.ID] = 0
			order = append(order, p.ID)
		}
	}

	out.Items = make([]dto.LocationProductResponse, 0, len(order))
	for _, id := range order {
		p, err := uc.repos.Products.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		out.Items = append(out.Items, dto.LocationProductResponse{Product: dto.ToProductResponse(p), Quantity: qty[id]})
	}
	uc.toCache(ctx, key, out, uc.ttl.StockProducts)
	return &out, nil
}

// ProductDetail devuelve el producto con sus saldos por ubicación.
func (uc *QueryUseCase) ProductDetail(ctx context.Context, productID string) (*dto.ProductDetailResponse, error) {
	key := invalidation.ProductKey(productID)
	var out dto.ProductDetailResponse
	if uc.fromCache(ctx, key, &out) {
		return &out, nil
	}
	p, err := uc.repos.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	balances, err := uc.repos.Balances.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	out.ProductResponse = dto.ToProductResponse(p)
	out.Balances = dto.ToBalanceResponses(balances)
	uc.toCache(ctx, key, out, uc.ttl.Product)
	return &out, nil
}

func (uc *QueryUseCase) fromCache(ctx context.Context, key string, dest any) bool {
	raw, ok, err := uc.cache.Get(ctx, key)
	if err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("lectura de caché fallida")
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("entrada de caché corrupta")
		return false
	}
	return true
}

func (uc *QueryUseCase) toCache(ctx context.Context, key string, v any, ttl time.Duration) {
	raw, err := json.Marshal(v)
	if err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("no se pudo serializar para caché")
		return
	}
	if err := uc.cache.Set(ctx, key, raw, ttl); err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("escritura de caché fallida")
	}
}
