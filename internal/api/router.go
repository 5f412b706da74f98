package api

import (
	"github.com/gin-gonic/gin"

	"github.com/ybertrand/shopseo/internal/api/handler"
	"github.com/ybertrand/shopseo/internal/api/middleware"
	"github.com/ybertrand/shopseo/internal/config"
	"github.com/ybertrand/shopseo/internal/logger"
	"github.com/ybertrand/shopseo/internal/repository"
	"github.com/ybertrand/shopseo/internal/search"
	"github.com/ybertrand/shopseo/internal/service"
)

// Services groups everything the router hands to the handlers.
type Services struct {
	Diagnostics    *service.DiagnosticService
	Resolver       *service.Resolver
	Sync           *service.SyncService
	Search         *search.Client
	DiagnosticRepo *repository.DiagnosticRepository
	ResolutionRepo *repository.ResolutionRepository
	JobRepo        *repository.JobRepository
	ProductRepo    *repository.ProductRepository
	ShopRepo       *repository.ShopRepository
}

// SetupRouter configures the Gin router with all routes
func SetupRouter(svcs *Services, cfg *config.ServerConfig, log *logger.Logger) *gin.Engine {
	// Set Gin mode
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	// Add middleware
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(log))
	r.Use(middleware.CORS(cfg.CORS))

	// Create handlers
	healthHandler := handler.NewHealthHandler()
	analyzeHandler := handler.NewAnalyzeHandler()
	diagnosticHandler := handler.NewDiagnosticHandler(svcs.Diagnostics, svcs.Resolver, svcs.DiagnosticRepo, svcs.ResolutionRepo)
	jobHandler := handler.NewJobHandler(svcs.JobRepo, svcs.ProductRepo)
	productHandler := handler.NewProductHandler(svcs.Sync)
	shopHandler := handler.NewShopHandler(svcs.ShopRepo, svcs.Sync)
	searchHandler := handler.NewSearchHandler(svcs.Search)

	// Health check
	r.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// Ad-hoc content analysis
		v1.POST("/analyze", analyzeHandler.Analyze)

		// Diagnostics and resolution
		v1.POST("/diagnostics/run", diagnosticHandler.Run)
		v1.GET("/diagnostics/:id", diagnosticHandler.Get)
		v1.POST("/diagnostics/:id/resolve", diagnosticHandler.Resolve)
		v1.GET("/resolutions/:id", diagnosticHandler.GetResolution)

		// Generation jobs
		v1.POST("/jobs/bulk", jobHandler.Bulk)
		v1.GET("/jobs", jobHandler.List)
		v1.GET("/jobs/:id", jobHandler.Get)

		// Shops
		v1.POST("/shops", shopHandler.Create)
		v1.GET("/shops", shopHandler.List)
		v1.GET("/shops/:id/overview", shopHandler.Overview)

		// Catalog
		v1.POST("/products/sync", productHandler.Sync)
		v1.POST("/products/refresh", productHandler.Refresh)

		// Rankings
		v1.GET("/search/rankings", searchHandler.Rankings)
	}

	return r
}
