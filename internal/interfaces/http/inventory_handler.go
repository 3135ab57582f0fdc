package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

const publishTimeout = 5 * time.Second

// InventoryHandler maneja ajustes de stock, historial y reportes de inventario (protegido).
type InventoryHandler struct {
	ledger        *inventory.StockLedger
	query         *inventory.MovementQueryService
	replenishment *inventory.ReplenishmentUseCase
	report        *inventory.MovementReportUseCase
	publisher     inventory.MovementPublisher // nil = eventos deshabilitados
	log           *logger.Logger
}

// NewInventoryHandler construye el handler. publisher puede ser nil.
func NewInventoryHandler(
	ledger *inventory.StockLedger,
	query *inventory.MovementQueryService,
	replenishment *inventory.ReplenishmentUseCase,
	report *inventory.MovementReportUseCase,
	publisher inventory.MovementPublisher,
	log *logger.Logger,
) *InventoryHandler {
	return &InventoryHandler{
		ledger:        ledger,
		query:         query,
		replenishment: replenishment,
		report:        report,
		publisher:     publisher,
		log:           log,
	}
}

// AdjustStock godoc
// @Summary      Ajustar stock de un producto
// @Description  quantity con signo: positivo entra, negativo sale. correction=true registra el movimiento como ajuste.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.StockAdjustmentRequest  true  "quantity, reason, notes, reference, correction"
// @Success      201   {object}  dto.StockAdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/stock-adjustments [post]
func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	var in dto.StockAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, res, err := h.ledger.AdjustStockFromRequest(c.Context(), c.Params("id"), GetUserID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	h.publish(c.Context(), res)
	return c.Status(fiber.StatusCreated).JSON(out)
}

// publish emite el evento del movimiento ya confirmado; un fallo solo se registra.
func (h *InventoryHandler) publish(ctx context.Context, res *inventory.AdjustStockResult) {
	if h.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := h.publisher.PublishMovementRecorded(ctx, res.Movement, res.Product); err != nil {
		h.log.Warn().Err(err).
			Str("product_id", res.Movement.ProductID).
			Str("movement_id", res.Movement.ID).
			Msg("no se pudo publicar el evento de movimiento")
	}
}

// ListMovements godoc
// @Summary      Historial de movimientos de un producto
// @Description  Más reciente primero.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	list, err := h.query.ListMovements(c.Context(), c.Params("id"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.MovementListResponse{
		Items: dto.ToMovementResponses(list),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// DownloadMovementReport godoc
// @Summary      Kardex PDF de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/movements/report [get]
func (h *InventoryHandler) DownloadMovementReport(c *fiber.Ctx) error {
	pdf, filename, err := h.report.DownloadMovementReport(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}

// LowStock godoc
// @Summary      Productos activos en o bajo su stock mínimo
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	list, err := h.query.LowStock(c.Context())
	if err != nil {
		return respondError(c, h.log, err)
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *dto.ToProductResponse(p))
	}
	return c.JSON(items)
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición
// @Description  SKUs activos en o bajo su stock mínimo con la cantidad sugerida de pedido,
//
//	ordenados por mayor déficit.
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.ReplenishmentSuggestionDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventory/replenishment-list [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	list, err := h.replenishment.GenerateReplenishmentList(c.Context())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"total":          len(list),
		"replenishments": list,
	})
}
