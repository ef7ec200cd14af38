package server

import (
	"strings"

	"inventario-backend/internal/admin"
	"inventario-backend/internal/audit"
	"inventario-backend/internal/auth"
	"inventario-backend/internal/inventory"
	"inventario-backend/internal/logger"
	"inventario-backend/internal/material"
	"inventario-backend/internal/models"
	"inventario-backend/internal/report"
	"inventario-backend/internal/supplier"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func New(d *Deps) *fiber.App {
	cfg := d.Config

	app := fiber.New(fiber.Config{
		AppName:      "inventario-backend",
		ErrorHandler: ErrorHandler,
		UnescapePath: true,
		BodyLimit:    10 * 1024 * 1024,
	})

	app.Use(d.Metrics.Middleware())
	app.Use(logger.Middleware(d.Log))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  strings.Join(cfg.Origins(), ","),
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowMethods:  "GET,POST,PUT,DELETE,OPTIONS",
		ExposeHeaders: "Content-Disposition, X-Request-ID",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", d.Metrics.Handler())

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register", auth.RegisterHandler(d.Users))
	api.Post("/auth/login", auth.LoginHandler(cfg, d.Users))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg.JWTSecret, d.Users))

	protected.Get("/auth/me", auth.MeHandler(d.Users))
	protected.Put("/auth/me/password", auth.ChangePasswordHandler(d.Users, d.Audit))

	// Inventario
	protected.Get("/productos", inventory.ListProductsHandler(d.Inventory))
	protected.Post("/productos", inventory.CreateProductHandler(d.Inventory, d.Audit))
	protected.Put("/productos/:name", inventory.UpdateProductHandler(d.Inventory, d.Audit))
	protected.Delete("/productos/:name", inventory.DeleteProductsHandler(d.Inventory, d.Audit))
	protected.Delete("/productos", inventory.DeleteProductsHandler(d.Inventory, d.Audit))

	// Entradas y salidas
	protected.Get("/movimientos", inventory.ListMovementsHandler(d.Inventory))
	protected.Post("/movimientos", inventory.CreateMovementHandler(d.Inventory, d.Audit))
	protected.Post("/movimientos/importar", inventory.ImportStockHandler(d.Inventory, d.Audit))

	protected.Get("/alertas", inventory.ListAlertsHandler(d.Inventory, cfg.AlertWindowDays))

	// Lotes
	protected.Get("/lotes", inventory.ListBatchesHandler(d.Batches))
	protected.Get("/lotes/proximos-vencer", inventory.ExpiringBatchesHandler(d.Batches))
	protected.Get("/lotes/vencidos", inventory.ExpiredBatchesHandler(d.Batches))
	protected.Post("/lotes/actualizar-estados", inventory.RefreshBatchStatesHandler(d.Batches))
	protected.Post("/lotes", inventory.CreateBatchHandler(d.Batches, d.Audit))
	protected.Put("/lotes/:id", inventory.UpdateBatchHandler(d.Batches, d.Audit))
	protected.Delete("/lotes/:id", inventory.DeleteBatchesHandler(d.Batches, d.Audit))
	protected.Delete("/lotes", inventory.DeleteBatchesHandler(d.Batches, d.Audit))

	// Ordenes
	protected.Get("/ordenes", inventory.ListOrdersHandler(d.Orders))
	protected.Get("/ordenes/resumen", inventory.OrderSummaryHandler(d.Orders))
	protected.Post("/ordenes", inventory.CreateOrderHandler(d.Orders, d.Audit))
	protected.Put("/ordenes/:id", inventory.UpdateOrderHandler(d.Orders, d.Audit))
	protected.Delete("/ordenes/:id", inventory.DeleteOrdersHandler(d.Orders, d.Audit))
	protected.Delete("/ordenes", inventory.DeleteOrdersHandler(d.Orders, d.Audit))

	// Proveedores
	protected.Get("/proveedores", supplier.ListProvidersHandler(d.Providers))
	protected.Post("/proveedores", supplier.CreateProviderHandler(d.Providers, d.Audit))
	protected.Put("/proveedores/:index", supplier.UpdateProviderHandler(d.Providers, d.Audit))
	protected.Delete("/proveedores", supplier.DeleteProvidersHandler(d.Providers, d.Audit))
	protected.Get("/proveedores/:index/informe", report.ProviderReportHandler(d.Providers, d.Inventory))

	// Materiales
	editors := auth.RequireRole(models.RoleAdmin, models.RoleSupervisor, models.RoleModerator)
	managers := auth.RequireRole(models.RoleAdmin, models.RoleSupervisor)
	protected.Get("/materiales", material.ListMaterialsHandler(d.Materials))
	protected.Get("/materiales/tipos", material.ListTypesHandler(d.Materials))
	protected.Get("/materiales/:id", material.GetMaterialHandler(d.Materials))
	protected.Get("/materiales/:id/usuarios-asignados", material.AssignedUsersHandler(d.Materials))
	protected.Post("/materiales", editors, material.CreateMaterialHandler(d.Materials, d.Audit))
	protected.Put("/materiales/:id", editors, material.UpdateMaterialHandler(d.Materials, d.Audit))
	protected.Post("/materiales/:id/asignar/:userId", editors, material.AssignMaterialHandler(d.Materials, d.Audit))
	protected.Delete("/materiales/:id", managers, material.DeleteMaterialsHandler(d.Materials, d.Audit))
	protected.Delete("/materiales", managers, material.DeleteMaterialsHandler(d.Materials, d.Audit))

	// Reportes
	protected.Get("/reportes", report.ListReportHandler(d.Inventory))
	protected.Get("/reportes/exportar", report.ExportReportHandler(d.Inventory))
	protected.Get("/reportes/historial", report.HistoryHandler(d.Audit))
	protected.Get("/reportes/historial/exportar", report.ExportHistoryHandler(d.Audit))

	// Auditoría
	protected.Get("/auditoria", auth.RequireRole(models.RoleAdmin, models.RoleSupervisor), audit.ListAuditLogsHandler(d.Audit))

	// Gestión de usuarios (admin)
	adminRoutes := protected.Group("/usuarios")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	adminRoutes.Get("/", admin.ListUsersHandler(d.Users))
	adminRoutes.Post("/", admin.CreateUserHandler(d.Users, d.Audit))
	adminRoutes.Put("/:id", admin.UpdateUserHandler(d.Users, d.Audit))
	adminRoutes.Delete("/", admin.DeleteUsersHandler(d.Users, d.Audit))

	return app
}
