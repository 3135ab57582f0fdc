package entity

import "time"

// MovementKind tipo de movimiento, derivado una sola vez en el ledger.
type MovementKind string

const (
	MovementKindIn         MovementKind = "in"         // entrada
	MovementKindOut        MovementKind = "out"        // salida
	MovementKindAdjustment MovementKind = "adjustment" // corrección marcada por quien llama
)

// Movement registro inmutable de un cambio de stock.
// NewStock == PreviousStock + Quantity y NewStock >= 0 siempre.
type Movement struct {
	ID            string
	ProductID     string
	UserID        string
	Kind          MovementKind
	Quantity      int64 // con signo, nunca 0
	PreviousStock int64
	NewStock      int64
	Reason        string
	Notes         string
	Reference     string // orden de compra, factura, etc.
	Sequence      int64  // versión del producto que produjo este movimiento
	CreatedAt     time.Time
}

// Magnitude devuelve |Quantity|.
func (m *Movement) Magnitude() int64 {
	if m.Quantity < 0 {
		return -m.Quantity
	}
	return m.Quantity
}
