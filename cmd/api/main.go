package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	appanalytics "github.com/jhoicas/stock-ledger/internal/application/analytics"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/notify"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/stock-ledger/internal/interfaces/http"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// repos juego de repositorios del backend elegido.
type repos struct {
	categories   repository.CategoryRepository
	suppliers    repository.SupplierRepository
	warehouses   repository.WarehouseRepository
	products     repository.ProductRepository
	inventory    repository.InventoryRepository
	transactions repository.TransactionRepository
	sales        repository.SalesRecordRepository
	reports      repository.ReportRepository
	analytics    repository.AnalyticsRepository
	txRunner     inventory.TxRunner
	db           httpRouter.Pinger
	close        func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("storage", cfg.Inventory.Storage).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	r, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	defer r.close()

	// Notificaciones: log + websocket. El hub corre hasta el apagado.
	hub := notify.NewHub(log.Named("ws"))
	go hub.Run(ctx)
	notifier := notify.Fanout{
		notify.NewLogNotifier(log),
		notify.NewHubNotifier(hub),
	}

	invCfg := inventory.Config{
		DefaultWarehouseID: cfg.Inventory.DefaultWarehouseID,
		ReturnPolicy:       entity.ReturnPolicy(cfg.Inventory.ReturnPolicy),
	}
	invLog := log.Named("inventory")
	recordUC := inventory.NewRecordTransactionUseCase(r.txRunner, r.warehouses, notifier, invCfg, invLog)
	inventoryUC := inventory.NewInventoryUseCase(r.txRunner, r.inventory, r.warehouses, notifier, invLog)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en http://localhost:<port>/docs cuando existe docs/swagger.json.
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Stock Ledger API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		CategoryUC:    usecase.NewCategoryUseCase(r.categories),
		SupplierUC:    usecase.NewSupplierUseCase(r.suppliers),
		WarehouseUC:   usecase.NewWarehouseUseCase(r.warehouses),
		ProductUC:     usecase.NewProductUseCase(r.products, r.categories, r.suppliers),
		InventoryUC:   inventoryUC,
		RecordTx:      recordUC,
		TransactionUC: usecase.NewTransactionUseCase(r.transactions),
		SalesUC:       usecase.NewSalesRecordUseCase(r.sales),
		ReportUC:      usecase.NewReportUseCase(r.txRunner, r.reports),
		DashboardUC:   appanalytics.NewDashboardUseCase(r.analytics, r.transactions, r.reports),
		Hub:           hub,
		DB:            r.db,
		Storage:       cfg.Inventory.Storage,
		JWTSecret:     cfg.JWT.Secret,
		Log:           log.Named("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	stop()

	log.Info().Msg("aplicación detenida")
}

// openStorage construye los repositorios según INVENTORY_STORAGE.
func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*repos, error) {
	if cfg.Inventory.Storage == config.StorageMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		store := memory.NewStore()
		m := store.Repos()
		return &repos{
			categories:   m.Categories,
			suppliers:    m.Suppliers,
			warehouses:   m.Warehouses,
			products:     m.Products,
			inventory:    m.Inventory,
			transactions: m.Transactions,
			sales:        m.Sales,
			reports:      m.Reports,
			analytics:    m.Analytics,
			txRunner:     memory.NewTxRunner(store),
			close:        func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &repos{
		categories:   postgres.NewCategoryRepository(pool),
		suppliers:    postgres.NewSupplierRepository(pool),
		warehouses:   postgres.NewWarehouseRepository(pool),
		products:     postgres.NewProductRepository(pool),
		inventory:    postgres.NewInventoryRepository(pool),
		transactions: postgres.NewTransactionRepository(pool),
		sales:        postgres.NewSalesRecordRepository(pool),
		reports:      postgres.NewReportRepository(pool),
		analytics:    postgres.NewAnalyticsRepository(pool),
		txRunner:     postgres.NewTxRunner(pool),
		db:           pool,
		close:        pool.Close,
	}, nil
}
