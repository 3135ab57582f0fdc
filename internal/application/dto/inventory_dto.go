package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockAdjustmentRequest body para POST /api/products/:id/stock-adjustments.
// Quantity con signo: positivo entra, negativo sale. Correction marca el movimiento como ajuste.
type StockAdjustmentRequest struct {
	Quantity   int64  `json:"quantity" validate:"required,ne=0"`
	Reason     string `json:"reason" validate:"required,max=255"`
	Notes      string `json:"notes,omitempty" validate:"max=1000"`
	Reference  string `json:"reference,omitempty" validate:"max=100"`
	Correction bool   `json:"correction,omitempty"`
}

// StockAdjustmentResponse resultado de un ajuste confirmado.
type StockAdjustmentResponse struct {
	MovementID    string    `json:"movement_id"`
	ProductID     string    `json:"product_id"`
	Kind          string    `json:"kind"`
	Quantity      int64     `json:"quantity"`   // con signo
	Adjustment    int64     `json:"adjustment"` // magnitud
	PreviousStock int64     `json:"previous_stock"`
	NewStock      int64     `json:"new_stock"`
	CreatedAt     time.Time `json:"created_at"`
	Warnings      []string  `json:"warnings,omitempty"`
}

// MovementResponse salida de un movimiento del historial.
type MovementResponse struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	UserID        string    `json:"user_id"`
	Kind          string    `json:"kind"`
	Quantity      int64     `json:"quantity"`
	PreviousStock int64     `json:"previous_stock"`
	NewStock      int64     `json:"new_stock"`
	Reason        string    `json:"reason"`
	Notes         string    `json:"notes,omitempty"`
	Reference     string    `json:"reference,omitempty"`
	Sequence      int64     `json:"sequence"`
	CreatedAt     time.Time `json:"created_at"`
}

// MovementListResponse historial paginado (más reciente primero).
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un SKU en o bajo su stock mínimo.
type ReplenishmentSuggestionDTO struct {
	ProductID          string          `json:"product_id"`
	SKU                string          `json:"sku"`
	ProductName        string          `json:"product_name"`
	CurrentStock       int64           `json:"current_stock"`
	MinStock           int64           `json:"min_stock"`
	TargetStock        int64           `json:"target_stock"`        // MaxStock o ceil(MinStock * 1.5)
	SuggestedOrderQty  int64           `json:"suggested_order_qty"` // TargetStock - CurrentStock
	UnitCost           decimal.Decimal `json:"unit_cost"`
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"`
	Priority           int             `json:"priority"` // 1 = más urgente
}
