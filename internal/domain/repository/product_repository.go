package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ProductFilter filtros de listado de productos.
type ProductFilter struct {
	IncludeInactive bool
	LowStockOnly    bool // current_stock <= min_stock
	Limit           int
	Offset          int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los campos descriptivos los escribe el colaborador de productos; current_stock y version
// solo se escriben con UpdateStock, que usa el ledger.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	SetStatus(ctx context.Context, id string, status entity.ProductStatus) error
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	// UpdateStock escribe current_stock si la versión sigue siendo expectedVersion e
	// incrementa version. Devuelve false si otra escritura ganó la carrera.
	UpdateStock(ctx context.Context, id string, newStock, expectedVersion int64, at time.Time) (bool, error)
}
