package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound              = errors.New("recurso no encontrado")
	ErrInvalidInput          = errors.New("entrada inválida")
	ErrInvalidQuantity       = errors.New("la cantidad debe ser mayor que cero")
	ErrDuplicate             = errors.New("recurso duplicado")
	ErrUnauthorized          = errors.New("no autorizado")
	ErrForbidden             = errors.New("acceso denegado")
	ErrConflict              = errors.New("conflicto con el estado actual")
	ErrInsufficientStock     = errors.New("stock insuficiente")
	ErrCapacityExceeded      = errors.New("capacidad de la ubicación excedida")
	ErrLocationNotFound      = errors.New("ubicación no encontrada")
	ErrLocationInactive      = errors.New("la ubicación está inactiva")
	ErrProductNotFound       = errors.New("producto no encontrado")
	ErrBillNotFound          = errors.New("factura no encontrada")
	ErrCounterpartyNotFound  = errors.New("cliente o proveedor no encontrado")
	ErrMovementNotFound      = errors.New("movimiento no encontrado")
	ErrMoneyBoxNotFound      = errors.New("caja no encontrada")
	ErrVoucherNotFound       = errors.New("comprobante no encontrado")
	ErrReturnExceedsOriginal = errors.New("la devolución excede la cantidad original")
	ErrAlreadyReversed       = errors.New("el movimiento ya fue revertido")
	ErrBillHasReturns        = errors.New("la factura tiene devoluciones asociadas")
	ErrBillCancelled         = errors.New("la factura está anulada")
	ErrMainLocation          = errors.New("no se puede eliminar la ubicación principal")
	ErrLocationInUse         = errors.New("la ubicación tiene productos asignados")
)

// ErrorKind clasifica los errores según la taxonomía expuesta al cliente.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindConstraint
	KindUnauthorized
	KindForbidden
)

// KindOf devuelve la categoría de un error (errors.Is sobre los sentinelas).
func KindOf(err error) ErrorKind {
	var vErr *ValidationError
	switch {
	case err == nil:
		return KindInternal
	case errors.As(err, &vErr),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrInvalidQuantity),
		errors.Is(err, ErrLocationInactive):
		return KindValidation
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrLocationNotFound),
		errors.Is(err, ErrProductNotFound),
		errors.Is(err, ErrBillNotFound),
		errors.Is(err, ErrCounterpartyNotFound),
		errors.Is(err, ErrMovementNotFound),
		errors.Is(err, ErrMoneyBoxNotFound),
		errors.Is(err, ErrVoucherNotFound):
		return KindNotFound
	case errors.Is(err, ErrDuplicate),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrInsufficientStock),
		errors.Is(err, ErrCapacityExceeded),
		errors.Is(err, ErrReturnExceedsOriginal),
		errors.Is(err, ErrAlreadyReversed),
		errors.Is(err, ErrBillCancelled):
		return KindConflict
	case errors.Is(err, ErrBillHasReturns),
		errors.Is(err, ErrMainLocation),
		errors.Is(err, ErrLocationInUse):
		return KindConstraint
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	}
	return KindInternal
}

// ValidationError agrupa errores por campo; se detecta antes de cualquier escritura.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError construye el error con un primer campo.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// Add agrega un campo y devuelve el mismo error para encadenar.
func (e *ValidationError) Add(field, msg string) *ValidationError {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = msg
	return e
}

// Empty indica si no se registró ningún campo inválido.
func (e *ValidationError) Empty() bool { return e == nil || len(e.Fields) == 0 }

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "datos inválidos: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// InsufficientStockError detalla disponible vs solicitado.
type InsufficientStockError struct {
	ProductID  string
	LocationID string
	Available  int64
	Requested  int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para el producto %s en la ubicación %s: disponible %d, solicitado %d",
		e.ProductID, e.LocationID, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// CapacityExceededError detalla la capacidad de la ubicación.
type CapacityExceededError struct {
	LocationID string
	Capacity   int64
	Used       int64
	Requested  int64
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("capacidad excedida en la ubicación %s: capacidad %d, ocupado %d, solicitado %d (disponible %d)",
		e.LocationID, e.Capacity, e.Used, e.Requested, e.Capacity-e.Used)
}

func (e *CapacityExceededError) Unwrap() error { return ErrCapacityExceeded }

// ReturnExceedsError detalla la cantidad retornable de una línea.
type ReturnExceedsError struct {
	ProductID       string
	ItemID          string
	Original        int64
	AlreadyReturned int64
	Requested       int64
}

func (e *ReturnExceedsError) Error() string {
	return fmt.Sprintf("la devolución del producto %s excede lo facturado: original %d, ya devuelto %d, disponible %d, solicitado %d",
		e.ProductID, e.Original, e.AlreadyReturned, e.Original-e.AlreadyReturned, e.Requested)
}

func (e *ReturnExceedsError) Unwrap() error { return ErrReturnExceedsOriginal }
