package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-admin/internal/application/inventory"
	"github.com/jhoicas/inventario-admin/internal/application/ports"
	"github.com/jhoicas/inventario-admin/internal/application/supplier"
	"github.com/jhoicas/inventario-admin/pkg/jwt"
	"github.com/jhoicas/inventario-admin/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	HistoryUC  *inventory.HistoryUseCase
	Resolver   *inventory.TransactionResolver
	StockUC    *inventory.StockUseCase
	SupplierUC *supplier.UseCase
	Bus        ports.ReloadBus
	Log        *logger.Logger
	JWTSecret  string
	JWTIssuer  string
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	auth := AuthMiddleware(deps.JWTSecret, deps.JWTIssuer)

	anyRole := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero, jwt.RoleVendedor)
	stockRoles := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero)
	adminOnly := RequireRole(jwt.RoleAdmin)

	// EventSource no envía headers: el token puede llegar como ?access_token=.
	events := NewEventsHandler(deps.Bus, deps.Log)
	api.Get("/events/:view", bearerFromQuery, auth, anyRole, events.Stream)

	protected := api.Group("/", auth)

	// Historial, detalle y stock
	inv := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.HistoryUC, deps.Resolver, deps.StockUC)
	inv.Get("/history", anyRole, inventoryHandler.History)
	inv.Get("/history/export", anyRole, inventoryHandler.ExportHistory)
	inv.Get("/history/versions/:ref", anyRole, inventoryHandler.Versions)
	inv.Delete("/history/deleted", adminOnly, inventoryHandler.PurgeDeleted)
	inv.Get("/products/:id/history", anyRole, inventoryHandler.ProductHistory)
	inv.Post("/transactions/resolve", anyRole, inventoryHandler.Resolve)
	inv.Get("/stock/warehouses", anyRole, inventoryHandler.WarehouseStock)
	inv.Get("/stock/branches", anyRole, inventoryHandler.BranchStock)
	inv.Patch("/:id/confirm", stockRoles, inventoryHandler.ConfirmInventory)

	// Órdenes a proveedor
	orders := protected.Group("/supplier-orders", stockRoles)
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	orders.Get("/", supplierHandler.List)
	orders.Post("/", supplierHandler.Create)
	orders.Post("/totals", supplierHandler.Totals)
	orders.Post("/product-options", supplierHandler.ProductOptions)
	orders.Post("/catalog/refresh", adminOnly, supplierHandler.RefreshCatalog)
	orders.Get("/:id", supplierHandler.GetByID)
	orders.Put("/:id", supplierHandler.Update)
	orders.Delete("/:id", supplierHandler.Delete)
	orders.Get("/:id/pdf", supplierHandler.PDF)
}

func bearerFromQuery(c *fiber.Ctx) error {
	if c.Get(fiber.HeaderAuthorization) == "" {
		if tok := c.Query("access_token"); tok != "" {
			c.Request().Header.Set(fiber.HeaderAuthorization, "Bearer "+tok)
		}
	}
	return c.Next()
}
