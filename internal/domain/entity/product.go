package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductStatus estado del ciclo de vida del producto. Un producto inactivo sigue
// teniendo historial válido y admite movimientos.
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// Valid indica si s es uno de los estados conocidos.
func (s ProductStatus) Valid() bool {
	return s == ProductStatusActive || s == ProductStatusInactive
}

// Product representa un producto o SKU del inventario.
// CurrentStock es una caché autoritativa mantenida solo por el ledger; Version es el
// marcador de concurrencia optimista que se incrementa en cada escritura de stock.
type Product struct {
	ID             string
	SKU            string  // código único
	Barcode        *string // opcional, único
	Name           string
	Description    string
	Price          decimal.Decimal // precio de venta
	Cost           decimal.Decimal // costo unitario
	CurrentStock   int64
	MinStock       int64
	MaxStock       *int64
	UnitMeasure    string
	Location       string
	CategoryID     *string
	SupplierID     *string
	Status         ProductStatus
	Version        int64
	StockUpdatedAt time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsActive indica si el producto aparece en los listados por defecto.
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}
