package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Ventas-api/internal/application/analytics"
	"github.com/jhoicas/Ventas-api/internal/application/cash"
	"github.com/jhoicas/Ventas-api/internal/application/catalog"
	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/sales"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Sales       *sales.CreateSaleUseCase
	Sessions    *cash.SessionManager
	Catalog     *catalog.UseCase
	DashboardUC *appanalytics.DashboardUseCase
	JWTSecret   string
	// StoreDriver y Ping alimentan /health. Ping puede ser nil.
	StoreDriver string
	Ping        func(ctx context.Context) error
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", healthHandler(deps))

	// Todas las rutas /api requieren Bearer Token con un rol conocido.
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret),
		RequireRole(entity.RoleAdmin, entity.RoleSupervisor, entity.RoleCashier))
	adminOnly := RequireRole(entity.RoleAdmin)
	managers := RequireRole(entity.RoleAdmin, entity.RoleSupervisor)

	// Ventas
	salesHandler := NewSalesHandler(deps.Sales)
	salesGroup := api.Group("/sales")
	salesGroup.Post("/", salesHandler.Create)
	salesGroup.Get("/", salesHandler.List)
	salesGroup.Get("/:id", salesHandler.GetByID)

	// Sesiones de caja
	cashHandler := NewCashHandler(deps.Sessions)
	sessions := api.Group("/cash-sessions")
	sessions.Post("/", cashHandler.Open)
	sessions.Get("/", cashHandler.List)
	sessions.Get("/current", cashHandler.Current)
	sessions.Get("/:id", cashHandler.GetByID)
	sessions.Post("/:id/close", cashHandler.Close)
	sessions.Post("/:id/withdrawals", cashHandler.Withdraw)
	sessions.Get("/:id/report", cashHandler.Report)

	// Catálogo: lectura para todos los roles, escritura solo admin.
	catalogHandler := NewCatalogHandler(deps.Catalog)
	products := api.Group("/products")
	products.Get("/", catalogHandler.ListProducts)
	products.Get("/barcode/:code", catalogHandler.GetByBarcode)
	products.Get("/:id", catalogHandler.GetProduct)
	products.Post("/", adminOnly, catalogHandler.CreateProduct)
	products.Patch("/:id", adminOnly, catalogHandler.UpdateProduct)

	branchProducts := api.Group("/branch-products", adminOnly)
	branchProducts.Put("/", catalogHandler.UpsertBranchProduct)
	branchProducts.Patch("/:id", catalogHandler.UpdateBranchProduct)

	settings := api.Group("/settings")
	settings.Get("/tax-rate", catalogHandler.GetTaxRate)
	settings.Put("/tax-rate", adminOnly, catalogHandler.SetTaxRate)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	api.Get("/dashboard/stats", managers, dashboardHandler.GetStats)
}

func healthHandler(deps RouterDeps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Ping != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := deps.Ping(ctx); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(dto.HealthResponse{Status: "unavailable", Store: deps.StoreDriver})
			}
		}
		return c.JSON(dto.HealthResponse{Status: "ok", Store: deps.StoreDriver})
	}
}
