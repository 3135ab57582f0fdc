package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	ActiveProducts  int             `json:"active_products"`
	LowStockCount   int             `json:"low_stock_count"`
	OutOfStockCount int             `json:"out_of_stock_count"`
	TotalValuation  decimal.Decimal `json:"total_valuation"` // Σ stock × precio sobre activos

	// Últimos movimientos de cualquier producto (más reciente primero)
	RecentMovements []MovementResponse `json:"recent_movements"`

	GeneratedAt time.Time `json:"generated_at"`
}
