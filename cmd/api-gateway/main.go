package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/idrissziadi/formation-api/api/swagger"
	"github.com/idrissziadi/formation-api/internal/handler"
	"github.com/idrissziadi/formation-api/internal/middleware"
	"github.com/idrissziadi/formation-api/internal/repository"
	"github.com/idrissziadi/formation-api/internal/service"
	"github.com/idrissziadi/formation-api/pkg/cache"
	"github.com/idrissziadi/formation-api/pkg/config"
	"github.com/idrissziadi/formation-api/pkg/database"
	"github.com/idrissziadi/formation-api/pkg/logger"
	corsmiddleware "github.com/idrissziadi/formation-api/pkg/middleware/cors"
	reqidmiddleware "github.com/idrissziadi/formation-api/pkg/middleware/requestid"
	"github.com/idrissziadi/formation-api/pkg/storage"
)

// @title Formation API
// @version 0.1.0
// @description Training institution management platform
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, visibility caching disabled", "error", err)
		redisClient = nil
	}

	documentStore, err := storage.NewLocalStorage(cfg.Documents.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init document storage", "error", err)
	}
	exportStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init export storage", "error", err)
	}
	documentSigner := storage.NewSignedURLSigner(cfg.Documents.SignedURLSecret, cfg.Documents.SignedURLTTL)
	exportSigner := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	etabRepo := repository.NewEtablissementRepository(db)
	stagiaireRepo := repository.NewStagiaireRepository(db)
	enseignantRepo := repository.NewEnseignantRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	offreRepo := repository.NewOffreRepository(db)
	inscriptionRepo := repository.NewInscriptionRepository(db)
	coursRepo := repository.NewCoursRepository(db)
	memoireRepo := repository.NewMemoireRepository(db)
	programmeRepo := repository.NewProgrammeRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(userRepo, cfg.JWT, validate, logr)
	catalogSvc := service.NewCatalogService(catalogRepo, validate, logr)

	var visibilityCache service.VisibilityCache
	if cfg.Visibility.CacheEnabled && redisClient != nil {
		visibilityCache = cacheRepo
	}
	visibilitySvc := service.NewVisibilityService(
		inscriptionRepo,
		offreRepo,
		catalogRepo,
		coursRepo,
		programmeRepo,
		stagiaireRepo,
		enseignantRepo,
		visibilityCache,
		cfg.Visibility.CacheTTL,
		logr,
	)

	offreSvc := service.NewOffreService(offreRepo, catalogRepo, visibilitySvc, validate, logr)
	inscriptionSvc := service.NewInscriptionService(inscriptionRepo, offreRepo, stagiaireRepo, visibilitySvc, validate, logr)
	coursSvc := service.NewCoursService(coursRepo, catalogRepo, enseignantRepo, validate, logr)
	memoireSvc := service.NewMemoireService(memoireRepo, stagiaireRepo, enseignantRepo, validate, logr)
	programmeSvc := service.NewProgrammeService(programmeRepo, catalogRepo, validate, logr)
	documentSvc := service.NewDocumentService(documentStore, documentSigner, cfg.Documents.MaxFileSizeBytes, logr)
	exportDocSvc := service.NewDocumentService(exportStore, exportSigner, cfg.Documents.MaxFileSizeBytes, logr)
	exportSvc := service.NewExportService(stagiaireRepo, inscriptionRepo, etabRepo, exportStore, exportSigner, logr)

	handlers := handler.Handlers{
		Auth:         handler.NewAuthHandler(authSvc),
		Catalog:      handler.NewCatalogHandler(catalogSvc),
		Offres:       handler.NewOffreHandler(offreSvc),
		Inscriptions: handler.NewInscriptionHandler(inscriptionSvc, stagiaireRepo),
		Visibility:   handler.NewVisibilityHandler(visibilitySvc, stagiaireRepo, enseignantRepo),
		Cours:        handler.NewCoursHandler(coursSvc, documentSvc, enseignantRepo),
		Memoires:     handler.NewMemoireHandler(memoireSvc, documentSvc, stagiaireRepo, enseignantRepo),
		Programmes:   handler.NewProgrammeHandler(programmeSvc),
		Exports:      handler.NewExportHandler(exportSvc),
		Documents:    handler.NewDownloadHandler(documentSvc),
		ExportFiles:  handler.NewDownloadHandler(exportDocSvc),
		Metrics:      handler.NewMetricsHandler(metricsSvc),
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", handlers.Metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r, cfg.APIPrefix, authSvc, handlers)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
