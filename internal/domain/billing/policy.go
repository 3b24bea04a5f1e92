package billing

import "github.com/jhoicas/stock-ledger/internal/domain/entity"

// Direction indica hacia dónde se mueve el inventario por cada línea.
type Direction int

const (
	// DirectionOut descuenta de la ubicación de la línea (from).
	DirectionOut Direction = iota
	// DirectionIn suma en la ubicación de la línea (to).
	DirectionIn
)

// Inverse devuelve la dirección contraria (devoluciones).
func (d Direction) Inverse() Direction {
	if d == DirectionOut {
		return DirectionIn
	}
	return DirectionOut
}

// Counterparty tipo de contraparte que acumula el saldo de la factura.
type Counterparty int

const (
	CounterpartyCustomer Counterparty = iota
	CounterpartySupplier
)

// KindPolicy agrupa lo que distingue a una venta de una compra; el resto del flujo es común.
type KindPolicy struct {
	Kind                 entity.BillKind
	MovementType         string
	ReferenceType        string
	Direction            Direction
	Counterparty         Counterparty
	CashDirection        string // dirección del dinero cobrado/pagado
	DefaultPaymentMethod string
	NumberPrefix         string
}

var policies = map[entity.BillKind]KindPolicy{
	entity.BillKindSale: {
		Kind:                 entity.BillKindSale,
		MovementType:         entity.MovementTypeSale,
		ReferenceType:        entity.ReferenceTypeSale,
		Direction:            DirectionOut,
		Counterparty:         CounterpartyCustomer,
		CashDirection:        entity.CashDirectionIn,
		DefaultPaymentMethod: "cash",
		NumberPrefix:         "S-",
	},
	entity.BillKindPurchase: {
		Kind:                 entity.BillKindPurchase,
		MovementType:         entity.MovementTypePurchase,
		ReferenceType:        entity.ReferenceTypePurchase,
		Direction:            DirectionIn,
		Counterparty:         CounterpartySupplier,
		CashDirection:        entity.CashDirectionOut,
		DefaultPaymentMethod: "cash",
		NumberPrefix:         "P-",
	},
}

// PolicyFor devuelve la política de una venta o compra.
func PolicyFor(kind entity.BillKind) (KindPolicy, bool) {
	p, ok := policies[kind]
	return p, ok
}

// ReturnPolicy deriva la política de una devolución a partir del tipo de la factura original:
// movimiento "return" en dirección inversa, misma contraparte y caja en sentido contrario.
func ReturnPolicy(original entity.BillKind) (KindPolicy, bool) {
	p, ok := policies[original]
	if !ok {
		return KindPolicy{}, false
	}
	cash := entity.CashDirectionIn
	if p.CashDirection == entity.CashDirectionIn {
		cash = entity.CashDirectionOut
	}
	return KindPolicy{
		Kind:                 entity.BillKindReturn,
		MovementType:         entity.MovementTypeReturn,
		ReferenceType:        entity.ReferenceTypeReturn,
		Direction:            p.Direction.Inverse(),
		Counterparty:         p.Counterparty,
		CashDirection:        cash,
		DefaultPaymentMethod: p.DefaultPaymentMethod,
		NumberPrefix:         "R-",
	}, true
}

// PolicyForBill devuelve la política que gobierna una factura ya persistida.
func PolicyForBill(b *entity.Bill) (KindPolicy, bool) {
	if b.Kind == entity.BillKindReturn {
		return ReturnPolicy(b.OriginalKind)
	}
	return PolicyFor(b.Kind)
}

// CashReversal devuelve la dirección contraria para deshacer el efecto en caja.
func CashReversal(direction string) string {
	if direction == entity.CashDirectionIn {
		return entity.CashDirectionOut
	}
	return entity.CashDirectionIn
}
