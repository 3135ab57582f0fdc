package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/inventario-ledger/internal/application/analytics"
	"github.com/jhoicas/inventario-ledger/internal/application/auth"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	UserUC        *usecase.UserUseCase
	ProductUC     *usecase.ProductUseCase
	Ledger        *inventory.StockLedger
	Query         *inventory.MovementQueryService
	Replenishment *inventory.ReplenishmentUseCase
	Report        *inventory.MovementReportUseCase
	DashboardUC   *appanalytics.DashboardUseCase
	Publisher     inventory.MovementPublisher // opcional
	Logger        *logger.Logger
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC, log)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)

	productHandler := NewProductHandler(deps.ProductUC, log)
	inventoryHandler := NewInventoryHandler(deps.Ledger, deps.Query, deps.Replenishment, deps.Report, deps.Publisher, log)

	products := protected.Group("/products")
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Deactivate)
	products.Post("/:id/activate", productHandler.Activate)

	// Ledger: solo admin y bodeguero mueven stock
	products.Post("/:id/stock-adjustments",
		RequireRole(entity.RoleAdmin, entity.RoleBodeguero),
		inventoryHandler.AdjustStock,
	)
	products.Get("/:id/movements", inventoryHandler.ListMovements)
	products.Get("/:id/movements/report", inventoryHandler.DownloadMovementReport)

	invGroup := protected.Group("/inventory")
	invGroup.Get("/low-stock", inventoryHandler.LowStock)
	invGroup.Get("/replenishment-list", inventoryHandler.GetReplenishmentList)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC, log)
	protected.Get("/dashboard/summary", dashboardHandler.GetSummary)
}
