package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/stock-ledger/internal/application/analytics"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/notify"
	"github.com/jhoicas/stock-ledger/pkg/jwt"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CategoryUC    *usecase.CategoryUseCase
	SupplierUC    *usecase.SupplierUseCase
	WarehouseUC   *usecase.WarehouseUseCase
	ProductUC     *usecase.ProductUseCase
	InventoryUC   *inventory.InventoryUseCase
	RecordTx      *inventory.RecordTransactionUseCase
	TransactionUC *usecase.TransactionUseCase
	SalesUC       *usecase.SalesRecordUseCase
	ReportUC      *usecase.ReportUseCase
	DashboardUC   *appanalytics.DashboardUseCase
	Hub           *notify.Hub // nil desactiva /ws
	DB            Pinger      // nil con almacenamiento en memoria
	Storage       string
	JWTSecret     string
	Log           *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}

	app.Get("/health", NewHealthHandler(deps.DB, deps.Storage).Check)
	if deps.Hub != nil {
		app.Get("/ws", WSUpgrade(deps.JWTSecret), WSStream(deps.Hub))
	}

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	categories := api.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC, log)
	categories.Post("/", categoryHandler.Create)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Put("/:id", categoryHandler.Update)
	categories.Delete("/:id", categoryHandler.Delete)

	suppliers := api.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC, log)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", supplierHandler.Update)
	suppliers.Delete("/:id", supplierHandler.Delete)

	warehouses := api.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC, log)
	warehouses.Post("/", warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", warehouseHandler.Update)
	warehouses.Delete("/:id", warehouseHandler.Delete)

	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, log)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	invGroup := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.InventoryUC, log)
	invGroup.Post("/", inventoryHandler.Create)
	invGroup.Get("/", inventoryHandler.List)
	invGroup.Get("/:id", inventoryHandler.GetByID)
	invGroup.Put("/:id", inventoryHandler.Adjust)
	invGroup.Delete("/:id", inventoryHandler.Delete)

	transactions := api.Group("/transactions")
	transactionHandler := NewTransactionHandler(deps.RecordTx, deps.TransactionUC, log)
	transactions.Post("/", transactionHandler.Record)
	transactions.Get("/", transactionHandler.List)
	transactions.Get("/:id", transactionHandler.GetByID)
	transactions.Put("/:id", transactionHandler.Update)
	transactions.Delete("/:id", RequireRole(jwt.RoleAdmin, jwt.RoleManager), transactionHandler.Delete)

	sales := api.Group("/sales")
	salesHandler := NewSalesHandler(deps.SalesUC, log)
	sales.Get("/", salesHandler.List)
	sales.Get("/:product_id", salesHandler.GetByProduct)

	reports := api.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC, log)
	reports.Post("/", reportHandler.Create)
	reports.Get("/", reportHandler.List)
	reports.Get("/:id", reportHandler.GetByID)

	dashboard := api.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.DashboardUC, log)
	dashboard.Get("/stats", dashboardHandler.GetStats)
}
