// Package http expone la API REST del punto de venta sobre Fiber: handlers,
// middleware de autenticación y registro de rutas.
package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Caja-api/internal/application/auth"
	"github.com/jhoicas/Caja-api/internal/application/checkout"
	"github.com/jhoicas/Caja-api/internal/application/inventory"
	"github.com/jhoicas/Caja-api/internal/application/sales"
	"github.com/jhoicas/Caja-api/internal/application/usecase"
	"github.com/jhoicas/Caja-api/internal/domain/money"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC          *auth.UseCase
	ProductUC       *usecase.ProductUseCase
	CategoryUC      *usecase.CategoryUseCase
	CheckoutUC      *checkout.UseCase
	Ledger          *inventory.Ledger
	Reports         *inventory.ReportService
	Recorder        *sales.Recorder
	DefaultCurrency string
	Rates           money.ExchangeRates
	JWTSecret       string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido; borrado solo admin)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", RequireAdmin(), productHandler.Delete)

	// Categories (protegido)
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Post("/", categoryHandler.Create)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Put("/:id", categoryHandler.Update)
	categories.Delete("/:id", RequireAdmin(), categoryHandler.Delete)

	// Checkout (protegido)
	checkoutGroup := protected.Group("/checkout")
	checkoutHandler := NewCheckoutHandler(deps.CheckoutUC, deps.DefaultCurrency, deps.Rates)
	checkoutGroup.Post("/", checkoutHandler.Checkout)
	checkoutGroup.Get("/currencies", checkoutHandler.Currencies)

	// Inventory (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Ledger, deps.Reports, deps.ProductUC)
	invGroup.Get("/stock", inventoryHandler.StockLevel)
	invGroup.Get("/availability", inventoryHandler.CheckAvailability)
	invGroup.Post("/products/:id/stock", inventoryHandler.AddStock)
	invGroup.Put("/products/:id/reorder-level", inventoryHandler.SetReorderLevel)
	invGroup.Get("/report", inventoryHandler.Report)
	invGroup.Get("/low-stock", inventoryHandler.LowStock)
	invGroup.Get("/value-by-category", inventoryHandler.ValueByCategory)
	invGroup.Get("/export.csv", inventoryHandler.ExportCSV)

	// Sales (protegido, solo lecturas: las ventas son inmutables)
	salesGroup := protected.Group("/sales")
	salesHandler := NewSalesHandler(deps.Recorder)
	salesGroup.Get("/daily", salesHandler.Daily)
	salesGroup.Get("/impact-summary", salesHandler.ImpactSummary)
	salesGroup.Get("/", salesHandler.List)
	salesGroup.Get("/:id", salesHandler.GetByID)
}
