package entity

import "time"

// Location representa una bodega, tienda o punto lógico donde se almacena inventario ("stock").
// Capacity 0 = ilimitada. CurrentCapacityUsed es informativo y se puede recalcular desde el ledger.
type Location struct {
	ID                  string
	Code                string // único
	Name                string
	Capacity            int64
	CurrentCapacityUsed int64
	IsMain              bool // solo una ubicación principal; lo garantiza el caso de uso
	IsActive            bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// HasCapacityLimit indica si la ubicación valida capacidad.
func (l *Location) HasCapacityLimit() bool { return l.Capacity > 0 }

// Available devuelve el espacio libre (solo tiene sentido si HasCapacityLimit).
func (l *Location) Available() int64 { return l.Capacity - l.CurrentCapacityUsed }
