package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// MovementRepository puerto append-only de movimientos de stock: no hay Update ni Delete.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	// ListByProduct devuelve los movimientos del producto del más nuevo al más antiguo.
	ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.Movement, error)
	// ListByProductBefore igual que ListByProduct pero solo con sequence < beforeSeq (paginación por clave).
	ListByProductBefore(ctx context.Context, productID string, beforeSeq int64, limit int) ([]*entity.Movement, error)
	// ListRecent últimos movimientos de todos los productos.
	ListRecent(ctx context.Context, limit int) ([]*entity.Movement, error)
}
