package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/sbskhp/edu-portal-api/api/swagger"
	"github.com/sbskhp/edu-portal-api/internal/handler"
	"github.com/sbskhp/edu-portal-api/internal/middleware"
	"github.com/sbskhp/edu-portal-api/internal/render"
	"github.com/sbskhp/edu-portal-api/internal/repository"
	"github.com/sbskhp/edu-portal-api/internal/service"
	"github.com/sbskhp/edu-portal-api/pkg/cache"
	"github.com/sbskhp/edu-portal-api/pkg/config"
	"github.com/sbskhp/edu-portal-api/pkg/database"
	"github.com/sbskhp/edu-portal-api/pkg/logger"
	corsmiddleware "github.com/sbskhp/edu-portal-api/pkg/middleware/cors"
	reqidmiddleware "github.com/sbskhp/edu-portal-api/pkg/middleware/requestid"
)

// @title Edu Portal API
// @version 1.0.0
// @description Course catalog, application intake and back-office API
// @BasePath /
// @schemes http

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
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	// Redis is optional: without it the sheet passthrough simply skips
	// its cache layer.
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, passthrough cache disabled", zap.Error(err))
		redisClient = nil
	}

	metricsSvc := service.NewMetricsService()
	sheetRepo := repository.NewSheetRepository(cfg.Sheet, metricsSvc, logr)
	appRepo := repository.NewApplicationRepository(db)
	userRepo := repository.NewUserRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close()

	mailSvc := service.NewMailService(cfg.Mail, logr)
	catalogSvc := service.NewCatalogService(sheetRepo, logr)
	appSvc := service.NewApplicationService(appRepo, mailSvc, nil, logr)
	authSvc := service.NewAuthService(userRepo, nil, logr, cfg.JWT)

	var exportSvc *service.ExportService
	if cfg.Exports.Enabled {
		exportSvc = service.NewExportService(appRepo, logr)
	}

	renderer, err := render.New(logr)
	if err != nil {
		logr.Fatal("failed to parse templates", zap.Error(err))
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

	router := handler.NewRouter(
		handler.NewPageHandler(catalogSvc, renderer, logr),
		handler.NewLegacyHandler(sheetRepo, cacheRepo, appSvc, metricsSvc, cfg.Sheet, logr),
		handler.NewCatalogHandler(catalogSvc, cacheRepo, logr),
		handler.NewApplicationHandler(appSvc, exportSvc, metricsSvc),
		handler.NewAuthHandler(authSvc),
		authSvc,
		metricsSvc,
		cfg,
	)
	router.Register(r)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
