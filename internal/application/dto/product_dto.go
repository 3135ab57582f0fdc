package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
// InitialStock > 0 se registra como un movimiento de entrada más del ledger.
type CreateProductRequest struct {
	SKU          string          `json:"sku" validate:"required,min=1,max=100"`
	Barcode      *string         `json:"barcode" validate:"omitempty,max=100"`
	Name         string          `json:"name" validate:"required,min=1,max=200"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Cost         decimal.Decimal `json:"cost"`
	MinStock     int64           `json:"min_stock" validate:"min=0"`
	MaxStock     *int64          `json:"max_stock"`
	UnitMeasure  string          `json:"unit_measure"`
	Location     string          `json:"location"`
	CategoryID   *string         `json:"category_id"`
	SupplierID   *string         `json:"supplier_id"`
	InitialStock int64           `json:"initial_stock" validate:"min=0"`
}

// UpdateProductRequest entrada para actualizar un producto (sin stock: se maneja vía movimientos).
type UpdateProductRequest struct {
	Name          *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Barcode       *string          `json:"barcode"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	Cost          *decimal.Decimal `json:"cost"`
	MinStock      *int64           `json:"min_stock"`
	MaxStock      *int64           `json:"max_stock"`
	// ClearMaxStock quita el stock máximo; no se puede combinar con max_stock.
	ClearMaxStock bool             `json:"clear_max_stock"`
	UnitMeasure   *string          `json:"unit_measure"`
	Location      *string          `json:"location"`
	CategoryID    *string          `json:"category_id"`
	SupplierID    *string          `json:"supplier_id"`
}

// ProductResponse salida de un producto, con el stock denormalizado.
type ProductResponse struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Barcode      *string         `json:"barcode,omitempty"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Cost         decimal.Decimal `json:"cost"`
	CurrentStock int64           `json:"current_stock"`
	MinStock     int64           `json:"min_stock"`
	MaxStock     *int64          `json:"max_stock,omitempty"`
	UnitMeasure  string          `json:"unit_measure"`
	Location     string          `json:"location"`
	CategoryID   *string         `json:"category_id,omitempty"`
	SupplierID   *string         `json:"supplier_id,omitempty"`
	Status       string          `json:"status"`
	LowStock     bool            `json:"low_stock"`
	OutOfStock   bool            `json:"out_of_stock"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
