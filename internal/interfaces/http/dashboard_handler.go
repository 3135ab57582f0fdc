package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/inventario-ledger/internal/application/analytics"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// DashboardHandler maneja los endpoints del módulo de Dashboard.
type DashboardHandler struct {
	uc  *appanalytics.DashboardUseCase
	log *logger.Logger
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{uc: uc, log: log}
}

// GetSummary devuelve el estado del inventario y los últimos movimientos.
// GET /api/dashboard/summary
//
// Respuesta: DashboardSummaryDTO (active_products, low_stock_count, out_of_stock_count,
// total_valuation, recent_movements).
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.Context())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(summary)
}
