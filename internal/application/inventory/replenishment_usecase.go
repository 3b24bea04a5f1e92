package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// ReplenishmentUseCase genera la lista de reposición: productos cuyo stock en la ubicación
// asignada está por debajo de su mínimo, con la cantidad sugerida de pedido.
type ReplenishmentUseCase struct {
	productRepo repository.ProductRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(productRepo repository.ProductRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{productRepo: productRepo}
}

// GenerateReplenishmentList devuelve los productos bajo mínimo ordenados por mayor déficit.
// stockID puede ser vacío para considerar todas las ubicaciones.
// Cantidad sugerida = MinStock*1.5 − CurrentStock, redondeada hacia arriba a cajas completas.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context, stockID string) ([]dto.LowStockItemDTO, error) {
	products, _, err := uc.productRepo.List(ctx, repository.ProductFilter{StockID: stockID})
	if err != nil {
		return nil, err
	}
	out := make([]dto.LowStockItemDTO, 0)
	for _, p := range products {
		if !p.BelowMinimum() {
			continue
		}
		ideal := decimal.NewFromInt(p.MinStock).Mul(decimal.NewFromFloat(1.5)).Ceil().IntPart()
		suggested := ideal - p.CurrentStock
		if suggested < 0 {
			suggested = 0
		}
		if p.UnitsPerBox > 1 && suggested%p.UnitsPerBox != 0 {
			suggested += p.UnitsPerBox - suggested%p.UnitsPerBox
		}
		out = append(out, dto.LowStockItemDTO{
			ProductID:          p.ID,
			SKU:                p.SKU,
			ProductName:        p.Name,
			StockID:            p.StockID,
			CurrentStock:       p.CurrentStock,
			MinStock:           p.MinStock,
			SuggestedOrderQty:  suggested,
			UnitCost:           p.Cost,
			EstimatedOrderCost: p.Cost.Mul(decimal.NewFromInt(suggested)).Round(2),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MinStock-out[i].CurrentStock > out[j].MinStock-out[j].CurrentStock
	})
	return out, nil
}
