package router

import (
	"context"
	"time"

	"github.com/NuttWarunyu/PlantPick-Backend/internal/config"
	"github.com/NuttWarunyu/PlantPick-Backend/internal/handler"
	"github.com/NuttWarunyu/PlantPick-Backend/internal/infra"
	"github.com/NuttWarunyu/PlantPick-Backend/internal/middleware"
	"github.com/NuttWarunyu/PlantPick-Backend/internal/repository"
	"github.com/NuttWarunyu/PlantPick-Backend/internal/service"
	"github.com/NuttWarunyu/PlantPick-Backend/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine together
// with the worker handlers and retry-cron config built on the same service
// graph, so main can start background processing against identical wiring.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(ctx context.Context, cfg *config.Config, db *gorm.DB, rdb *redis.Client, genCB *infra.CircuitBreaker) (*gin.Engine, worker.Handlers, worker.RetryCronConfig, error) {
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
	r.Use(middleware.RateLimiter(300, time.Minute)) // 300 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	store, err := infra.NewObjectStore(ctx, cfg)
	if err != nil {
		return nil, worker.Handlers{}, worker.RetryCronConfig{}, err
	}
	openai := infra.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIMiniModel)
	replicate := infra.NewReplicateClient(cfg.ReplicateAPIToken, cfg.ReplicateModelVersion)
	shopee := infra.NewShopeeClient(cfg.ShopeeAppID, cfg.ShopeeSecretKey, cfg.ShopeeAPIURL)
	mailer := infra.NewMailer(cfg)

	// ── Repositories ─────────────────────────────────────────────────────────
	catalogRepo := repository.NewCatalogRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	historyRepo := repository.NewHistoryRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	bomSvc := service.NewBOMService(catalogRepo, historyRepo, shopee, dispatcher, cfg.DefaultBudget, cfg.PDFStoragePath)
	quotaSvc := service.NewQuotaService(rdb, cfg.DailyGenerationLimit)
	gardenSvc := service.NewGardenService(requestRepo, historyRepo, bomSvc, quotaSvc, store, replicate, openai, genCB, dispatcher, cfg.DefaultBudget)
	plantSvc := service.NewPlantService(catalogRepo, openai, shopee)
	catalogSvc := service.NewCatalogService(catalogRepo)
	affiliateSvc := service.NewAffiliateService(shopee)

	// ── Handlers ─────────────────────────────────────────────────────────────
	gardenH := handler.NewGardenHandler(gardenSvc, quotaSvc)
	bomH := handler.NewBOMHandler(bomSvc)
	plantsH := handler.NewPlantHandler(plantSvc)
	catalogH := handler.NewCatalogHandler(catalogSvc)
	affiliateH := handler.NewAffiliateHandler(affiliateSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb, genCB))

	v1 := r.Group("/v1")
	{
		garden := v1.Group("/garden")
		{
			// Uploads are the expensive entry point — tighter per-IP limit
			garden.POST("/generate", middleware.RateLimiter(10, time.Minute), gardenH.Generate)
			garden.POST("/analyze", gardenH.Analyze)
			garden.GET("/quota", gardenH.Quota)
			garden.GET("/:request_id", gardenH.Status)
		}

		bom := v1.Group("/bom")
		{
			bom.POST("/assemble", bomH.Assemble)
			bom.GET("/:history_id", bomH.Get)
			bom.GET("/:history_id/pdf", bomH.ExportPDF)
			bom.POST("/:history_id/email", bomH.Email)
		}

		plants := v1.Group("/plants")
		{
			plants.POST("/identify", plantsH.Identify)
			plants.POST("/diagnose", plantsH.Diagnose)
			plants.GET("/search", plantsH.Search)
			plants.GET("/lookup", plantsH.Lookup)
			plants.GET("/diseases", plantsH.ListDiseases)
			plants.GET("/diseases/:id", plantsH.GetDisease)
			plants.GET("/diseases/:id/products", plantsH.DiseaseProducts)
		}

		materials := v1.Group("/materials")
		{
			materials.POST("", catalogH.CreateMaterial)
			materials.GET("", catalogH.ListMaterials)
			materials.GET("/:id", catalogH.GetMaterial)
			materials.PUT("/:id", catalogH.UpdateMaterial)
			materials.DELETE("/:id", catalogH.DeleteMaterial)
		}

		v1.POST("/vendors", catalogH.CreateVendor)
		v1.GET("/vendors", catalogH.ListVendors)
		v1.POST("/listings", catalogH.CreateListing)

		v1.POST("/affiliate/search", affiliateH.Search)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handlers := worker.Handlers{
		Generation: worker.NewGenerationWorker(gardenSvc, requestRepo, rdb),
		Email:      worker.NewEmailWorker(mailer),
	}
	cron := worker.RetryCronConfig{
		RequestRepo: requestRepo,
		Dispatcher:  dispatcher,
		CB:          genCB,
	}
	return r, handlers, cron, nil
}
