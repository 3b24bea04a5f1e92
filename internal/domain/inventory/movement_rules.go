package inventory

import (
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// Delta es el cambio de cantidad que un movimiento aplica sobre una ubicación.
type Delta struct {
	StockID string
	Amount  int64
}

// Effect describe qué hace un movimiento sobre saldos, capacidad y asignación del producto.
type Effect struct {
	Deltas []Delta
	// AssignStock: ubicación que pasa a ser la del producto ("" = no cambia).
	AssignStock string
	// AssignOnlyIfUnassigned: solo asignar si el producto no tenía ubicación.
	AssignOnlyIfUnassigned bool
	// CheckCapacity: validar capacidad de la ubicación destino.
	CheckCapacity bool
}

// Decrements indica la ubicación que se descuenta ("" si ninguna).
func (e Effect) Decrements() (string, int64) {
	for _, d := range e.Deltas {
		if d.Amount < 0 {
			return d.StockID, -d.Amount
		}
	}
	return "", 0
}

// Increments indica la ubicación que se incrementa ("" si ninguna).
func (e Effect) Increments() (string, int64) {
	for _, d := range e.Deltas {
		if d.Amount > 0 {
			return d.StockID, d.Amount
		}
	}
	return "", 0
}

// PlanMovement aplica la tabla de reglas por tipo de movimiento.
//
//	purchase   suma en to; asigna to si el producto no tenía ubicación
//	sale       resta en from
//	transfer   from+to: resta from, suma to y reasigna a to
//	           solo from: resta from
//	           solo to: ubica la cantidad no asignada en to y reasigna a to
//	adjustment suma o resta en el único lado informado
//	initial    suma en to (primer abastecimiento)
//	return     inverso de la venta/compra original: suma en to o resta en from
func PlanMovement(movementType, from, to string, quantity int64) (Effect, error) {
	if quantity <= 0 {
		return Effect{}, domain.ErrInvalidQuantity
	}
	if from == "" && to == "" {
		return Effect{}, domain.NewValidationError("to_stock_id", "se requiere al menos una ubicación (origen o destino)")
	}
	if from != "" && from == to {
		return Effect{}, domain.NewValidationError("to_stock_id", "origen y destino no pueden ser la misma ubicación")
	}

	var eff Effect
	switch movementType {
	case entity.MovementTypePurchase, entity.MovementTypeInitial:
		if to == "" || from != "" {
			return Effect{}, domain.NewValidationError("to_stock_id", "el movimiento "+movementType+" requiere solo ubicación destino")
		}
		eff.Deltas = []Delta{{StockID: to, Amount: quantity}}
		eff.AssignStock = to
		eff.AssignOnlyIfUnassigned = true
		eff.CheckCapacity = movementType == entity.MovementTypePurchase
	case entity.MovementTypeSale:
		if from == "" || to != "" {
			return Effect{}, domain.NewValidationError("from_stock_id", "la venta requiere solo ubicación origen")
		}
		eff.Deltas = []Delta{{StockID: from, Amount: -quantity}}
	case entity.MovementTypeTransfer:
		switch {
		case from != "" && to != "":
			eff.Deltas = []Delta{{StockID: from, Amount: -quantity}, {StockID: to, Amount: quantity}}
			eff.AssignStock = to
		case from != "":
			eff.Deltas = []Delta{{StockID: from, Amount: -quantity}}
		default:
			eff.Deltas = []Delta{{StockID: to, Amount: quantity}}
			eff.AssignStock = to
		}
	case entity.MovementTypeAdjustment, entity.MovementTypeReturn:
		if from != "" && to != "" {
			return Effect{}, domain.NewValidationError("to_stock_id", "el movimiento "+movementType+" admite un solo lado (origen o destino)")
		}
		if to != "" {
			eff.Deltas = []Delta{{StockID: to, Amount: quantity}}
			eff.CheckCapacity = movementType == entity.MovementTypeAdjustment
		} else {
			eff.Deltas = []Delta{{StockID: from, Amount: -quantity}}
		}
	default:
		return Effect{}, domain.NewValidationError("movement_type", "tipo de movimiento desconocido")
	}
	return eff, nil
}

// Fold calcula stock(producto, ubicación) = Σ(cantidad con to = ubicación) − Σ(cantidad con from = ubicación).
func Fold(movements []*entity.StockMovement, productID, stockID string) int64 {
	var total int64
	for _, m := range movements {
		if m.ProductID != productID {
			continue
		}
		if m.To() == stockID {
			total += m.Quantity
		}
		if m.From() == stockID {
			total -= m.Quantity
		}
	}
	return total
}
