// Package inventory contiene las reglas puras del ledger de stock: validación de
// cantidades, derivación del tipo de movimiento y clasificación de stock bajo.
// Nada aquí hace I/O.
package inventory

import (
	"fmt"
	"strings"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// Límites de texto de un movimiento.
const (
	MaxReasonLength = 255
	MaxNotesLength  = 1000
)

// KindFor deriva el tipo de movimiento desde la cantidad con signo.
// Una corrección explícita siempre es adjustment; si no, el signo decide.
// qty debe estar validada (distinta de 0).
func KindFor(qty int64, correction bool) entity.MovementKind {
	switch {
	case correction:
		return entity.MovementKindAdjustment
	case qty > 0:
		return entity.MovementKindIn
	default:
		return entity.MovementKindOut
	}
}

// ValidateQuantity rechaza cantidades en cero.
func ValidateQuantity(qty int64) error {
	if qty == 0 {
		return domain.Errorf(domain.ErrValidation, "la cantidad debe ser distinta de cero")
	}
	return nil
}

// NormalizeReason recorta espacios y valida que el motivo no quede vacío.
func NormalizeReason(reason string) (string, error) {
	r := strings.TrimSpace(reason)
	if r == "" {
		return "", domain.Errorf(domain.ErrValidation, "el motivo es obligatorio")
	}
	if len([]rune(r)) > MaxReasonLength {
		return "", domain.Errorf(domain.ErrValidation, "el motivo supera 255 caracteres")
	}
	return r, nil
}

// ValidateNotes valida la longitud de las notas opcionales.
func ValidateNotes(notes string) error {
	if len([]rune(notes)) > MaxNotesLength {
		return domain.Errorf(domain.ErrValidation, "las notas superan 1000 caracteres")
	}
	return nil
}

// NextStock calcula el stock resultante; falla con ErrInsufficientStock si quedaría negativo.
func NextStock(current, qty int64) (int64, error) {
	next := current + qty
	if next < 0 {
		return current, domain.Errorf(domain.ErrInsufficientStock,
			fmt.Sprintf("el stock quedaría negativo: disponible %d, solicitado %d", current, qty))
	}
	return next, nil
}

// IsLowStock true si CurrentStock <= MinStock.
func IsLowStock(p *entity.Product) bool {
	return p.CurrentStock <= p.MinStock
}

// OutOfStock true si CurrentStock == 0.
func OutOfStock(p *entity.Product) bool {
	return p.CurrentStock == 0
}
