package router

import (
	"context"

	"jaymapos/internal/config"
	"jaymapos/internal/gateway"
	"jaymapos/internal/handler"
	"jaymapos/internal/infra"
	"jaymapos/internal/middleware"
	"jaymapos/internal/model"
	"jaymapos/internal/repository"
	"jaymapos/internal/service"
	"jaymapos/internal/worker"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// New wires all dependencies and returns the configured Gin engine together
// with the sync scheduler (started and stopped by the caller).
// Dependency graph: Handler ← Service ← Repository ← DB / Gateway
func New(cfg *config.Config, db *gorm.DB, breaker *infra.CircuitBreaker) (*gin.Engine, *worker.Scheduler) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())

	// ── Repositories ─────────────────────────────────────────────────────────
	productRepo := repository.NewProductRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	draftRepo := repository.NewDraftRepository(db)
	posDataRepo := repository.NewPosDataRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	syncStatusRepo := repository.NewSyncStatusRepository(db)

	// ── Remote gateway ───────────────────────────────────────────────────────
	// The settings repo doubles as the base URL provider so a domain change
	// takes effect on the next request, no restart.
	gw := gateway.NewClient(settingsRepo, cfg.DefaultBaseURL, cfg.HTTPTimeout)

	// ── Services ─────────────────────────────────────────────────────────────
	pageSize := cfg.ProductsPerPage
	if v, ok, err := settingsRepo.GetInt(context.Background(), model.SettingProductsPerPage); err == nil && ok && v > 0 {
		pageSize = v
	}
	catalogSvc := service.NewCatalogSyncService(gw, productRepo, syncStatusRepo, pageSize, cfg.MaxConsecutiveFailures, cfg.MaxCatalogPages)
	uploadSvc := service.NewSaleUploadService(saleRepo, syncStatusRepo, gw)
	draftSvc := service.NewDraftService(draftRepo, syncStatusRepo, gw)
	setupSvc := service.NewSetupService(gw, posDataRepo, settingsRepo, catalogSvc)

	sched := worker.NewScheduler(cfg.Sync(), catalogSvc, uploadSvc, draftSvc, saleRepo, settingsRepo, syncStatusRepo, breaker)

	cartSvc := service.NewCartService(productRepo, saleRepo, settingsRepo, sched)

	// ── Handlers ─────────────────────────────────────────────────────────────
	cartH := handler.NewCartHandler(cartSvc)
	productsH := handler.NewProductsHandler(productRepo)
	salesH := handler.NewSalesHandler(saleRepo, gw, cfg.BusinessName, cfg.ReceiptStoragePath)
	syncH := handler.NewSyncHandler(sched)
	setupH := handler.NewSetupHandler(setupSvc, settingsRepo, posDataRepo)
	draftsH := handler.NewDraftsHandler(draftSvc, cartSvc)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/health", handler.Health(db, breaker))

	v1 := r.Group("/v1")
	{
		setup := v1.Group("/setup")
		{
			setup.POST("/run", setupH.Run)
			setup.GET("/base-url", setupH.GetBaseURL)
			setup.PUT("/base-url", setupH.SetBaseURL)
			setup.PUT("/defaults", setupH.SetDefaults)
		}

		v1.GET("/clients", setupH.ListClients)
		v1.POST("/clients", setupH.CreateClient)
		v1.GET("/warehouses", setupH.ListWarehouses)
		v1.GET("/payment-methods", setupH.ListPaymentMethods)
		v1.GET("/categories", setupH.ListCategories)
		v1.GET("/brands", setupH.ListBrands)

		v1.GET("/products", productsH.List)
		v1.GET("/products/:id", productsH.GetByID)
		v1.GET("/products/barcode/:barcode", productsH.GetByBarcode)

		cart := v1.Group("/cart")
		{
			cart.GET("", cartH.Get)
			cart.DELETE("", cartH.Clear)
			cart.POST("/items", cartH.AddItem)
			cart.PUT("/items/:productId", cartH.UpdateItem)
			cart.DELETE("/items/:productId", cartH.RemoveItem)
			cart.PUT("/adjustments", cartH.SetAdjustments)
			cart.PUT("/client", cartH.SelectClient)
			cart.PUT("/warehouse", cartH.SelectWarehouse)
			cart.POST("/checkout", cartH.Checkout)
		}

		v1.GET("/sales", salesH.List)
		v1.GET("/sales/remote", salesH.ListRemote)
		v1.GET("/sales/:id", salesH.GetByLocalID)
		v1.GET("/sales/:id/receipt", salesH.Receipt)

		drafts := v1.Group("/drafts")
		{
			drafts.POST("", draftsH.SaveFromCart)
			drafts.GET("", draftsH.List)
			drafts.GET("/remote", draftsH.ListRemote)
			drafts.DELETE("/:id", draftsH.Delete)
		}

		sync := v1.Group("/sync")
		{
			sync.GET("/status", syncH.Status)
			sync.POST("/products", syncH.TriggerProducts)
			sync.POST("/sales", syncH.TriggerSales)
			sync.POST("/drafts", syncH.TriggerDrafts)
			sync.POST("/cancel", syncH.Cancel)
		}
	}

	return r, sched
}
