package inventory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Commit si fn devuelve nil, Rollback en cualquier otro caso (incluido ctx cancelado).
// Un conflicto de serialización del motor se devuelve envuelto en domain.ErrConflict.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		ctx context.Context,
		productRepo repository.ProductRepository,
		movRepo repository.MovementRepository,
	) error) error
}

// MovementLine fila del reporte de historial con el nombre del actor ya resuelto.
type MovementLine struct {
	Movement  *entity.Movement
	ActorName string
}

// MovementPDFGenerator genera el kardex PDF de un producto.
type MovementPDFGenerator interface {
	GenerateMovementReport(ctx context.Context, product *entity.Product, lines []MovementLine) ([]byte, error)
}

// MovementPublisher difunde un movimiento ya confirmado. Un fallo aquí nunca deshace el movimiento.
type MovementPublisher interface {
	PublishMovementRecorded(ctx context.Context, movement *entity.Movement, product *entity.Product) error
}
