package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/hxat/annotation-api/api/swagger"
	"github.com/hxat/annotation-api/internal/handler"
	"github.com/hxat/annotation-api/internal/middleware"
	"github.com/hxat/annotation-api/internal/repository"
	"github.com/hxat/annotation-api/internal/service"
	"github.com/hxat/annotation-api/pkg/cache"
	"github.com/hxat/annotation-api/pkg/config"
	"github.com/hxat/annotation-api/pkg/database"
	"github.com/hxat/annotation-api/pkg/logger"
	corsmiddleware "github.com/hxat/annotation-api/pkg/middleware/cors"
	reqidmiddleware "github.com/hxat/annotation-api/pkg/middleware/requestid"
)

// @title HxAT Annotation API
// @version 1.0.0
// @description LTI annotation tool backend proxying an external annotation store
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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	validate := validator.New()

	courseRepo := repository.NewCourseRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	targetRepo := repository.NewTargetRepository(db)
	sessionRepo := repository.NewSessionRepository(redisClient, cfg.Session.TTL)

	metricsSvc := service.NewMetricsService()
	tokenSvc := service.NewTokenService(cfg.Store.TokenTTL)
	manifestSvc := service.NewManifestService(cfg.Store.ManifestTimeout, logr)
	storeClient := service.NewStoreClient(cfg.Store.RequestTimeout, metricsSvc, logr)
	passback := service.NewLogGradeSender(logr)

	annotationSvc := service.NewAnnotationService(assignmentRepo, tokenSvc, storeClient, passback, cfg.Store.PermissionFilter, logr)
	transferSvc := service.NewTransferService(courseRepo, assignmentRepo, targetRepo, manifestSvc, storeClient, tokenSvc, validate, logr)
	gradeSvc := service.NewGradeService(assignmentRepo, tokenSvc, storeClient, passback, logr)
	targetSvc := service.NewTargetService(assignmentRepo, targetRepo, manifestSvc, logr)
	exportSvc := service.NewExportService(annotationSvc, validate, logr)

	storeHandler := handler.NewStoreHandler(annotationSvc)
	transferHandler := handler.NewTransferHandler(transferSvc)
	gradeHandler := handler.NewGradeHandler(gradeSvc)
	targetHandler := handler.NewTargetHandler(targetSvc)
	exportHandler := handler.NewExportHandler(exportSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.LaunchSession(sessionRepo))
	{
		api.GET("/store", storeHandler.Root)
		api.POST("/store", storeHandler.Root)
		api.GET("/store/search", storeHandler.Search)
		api.POST("/store/create", storeHandler.Create)
		// Text clients update with PUT, image clients with POST; both
		// land on the same upstream call.
		api.PUT("/store/update/:id", storeHandler.Update)
		api.POST("/store/update/:id", storeHandler.Update)
		api.DELETE("/store/delete/:id", storeHandler.Delete)
		api.GET("/store/:id", storeHandler.Root)
		api.PUT("/store/:id", storeHandler.Root)
		api.DELETE("/store/:id", storeHandler.Root)

		api.POST("/transfer", transferHandler.Transfer)
		api.POST("/transfer/:instructor_only", transferHandler.Transfer)
		api.GET("/grade_me", gradeHandler.GradeMe)

		api.GET("/assignments/:id/targets/:object_id", targetHandler.Detail)

		if cfg.Exports.Enabled {
			api.GET("/export/annotations", exportHandler.Export)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
