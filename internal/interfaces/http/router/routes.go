package router

import (
	"github.com/gin-gonic/gin"
	"github.com/inventario/backend/internal/interfaces/http/handler"
)

// Handlers bundles every handler mounted by RegisterAPI
type Handlers struct {
	Auth      *handler.AuthHandler
	Product   *handler.ProductHandler
	Warehouse *handler.WarehouseHandler
	Supplier  *handler.SupplierHandler
	Order     *handler.OrderHandler
	Sale      *handler.SaleHandler
	Export    *handler.ExportHandler
	Return    *handler.ReturnHandler
	Dashboard *handler.DashboardHandler
	System    *handler.SystemHandler
}

// APIConfig carries the middleware that distinguishes public from guarded routes
type APIConfig struct {
	// Authenticate guards every non-public route
	Authenticate gin.HandlerFunc
	// AuthRateLimit throttles the credential endpoints; nil disables it
	AuthRateLimit gin.HandlerFunc
}

// RegisterAPI mounts the inventory API on r and the bare health probe on
// the engine, then calls Setup.
func RegisterAPI(r *Router, h Handlers, cfg APIConfig) {
	r.engine.GET("/health", h.System.Health)

	authRoutes := NewDomainGroup("auth", "").Use(cfg.AuthRateLimit)
	authRoutes.POST("/register", h.Auth.Register)
	authRoutes.POST("/token", h.Auth.Login)
	authRoutes.POST("/token/refresh", h.Auth.RefreshToken)

	systemRoutes := NewDomainGroup("system", "")
	systemRoutes.GET("/health", h.System.Health)
	systemRoutes.GET("/system/info", h.System.Info)

	sessionRoutes := NewDomainGroup("session", "")
	sessionRoutes.POST("/logout", h.Auth.Logout)

	productRoutes := NewDomainGroup("products", "/products")
	productRoutes.GET("/low_stock", h.Product.LowStock)
	productRoutes.POST("/:id/adjust_stock", h.Product.AdjustStock)
	productRoutes.CRUD(h.Product)

	warehouseRoutes := NewDomainGroup("warehouses", "/warehouses")
	warehouseRoutes.GET("/:id/productos", h.Product.ListByWarehouse)
	warehouseRoutes.CRUD(h.Warehouse)

	supplierRoutes := NewDomainGroup("suppliers", "/suppliers").CRUD(h.Supplier)

	orderRoutes := NewDomainGroup("orders", "/orders")
	orderRoutes.POST("/:id/complete_order", h.Order.Complete)
	orderRoutes.PUT("/:id/payment_status", h.Order.UpdatePaymentStatus)
	orderRoutes.CRUD(h.Order)

	saleRoutes := NewDomainGroup("sales", "/sales")
	saleRoutes.GET("/sales_report", h.Sale.SalesReport)
	saleRoutes.CRUD(h.Sale)

	exportRoutes := NewDomainGroup("exports", "/exports").CRUD(h.Export)
	returnRoutes := NewDomainGroup("returns", "/returns").CRUD(h.Return)

	dashboardRoutes := NewDomainGroup("dashboard", "/dashboard")
	dashboardRoutes.GET("", h.Dashboard.Get)

	if cfg.Authenticate != nil {
		r.Use(cfg.Authenticate)
	}

	r.RegisterPublic(authRoutes).
		RegisterPublic(systemRoutes)

	r.Register(sessionRoutes).
		Register(productRoutes).
		Register(warehouseRoutes).
		Register(supplierRoutes).
		Register(orderRoutes).
		Register(saleRoutes).
		Register(exportRoutes).
		Register(returnRoutes).
		Register(dashboardRoutes)

	r.Setup()
}
