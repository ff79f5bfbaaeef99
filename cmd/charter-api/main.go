package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/ntc490/seating-charter/api/swagger"
	"github.com/ntc490/seating-charter/internal/handler"
	"github.com/ntc490/seating-charter/internal/middleware"
	"github.com/ntc490/seating-charter/internal/repository"
	"github.com/ntc490/seating-charter/internal/service"
	"github.com/ntc490/seating-charter/pkg/cache"
	"github.com/ntc490/seating-charter/pkg/config"
	"github.com/ntc490/seating-charter/pkg/database"
	"github.com/ntc490/seating-charter/pkg/logger"
	corsmiddleware "github.com/ntc490/seating-charter/pkg/middleware/cors"
	reqidmiddleware "github.com/ntc490/seating-charter/pkg/middleware/requestid"
	"github.com/ntc490/seating-charter/pkg/storage"
)

// @title Seating Charter API
// @version 1.0.0
// @description Constraint-aware classroom seating chart generator
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	var db *sqlx.DB
	var chartRepo *repository.ChartRepository
	if cfg.Database.Enabled {
		db, err = database.NewPostgres(cfg.Database)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to database", "error", err)
		}
		if err := database.ApplySchema(db); err != nil {
			logr.Sugar().Fatalw("failed to apply schema", "error", err)
		}
		chartRepo = repository.NewChartRepository(db)
	}
	if db != nil {
		defer db.Close() //nolint:errcheck
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, continuing without cache", "error", err)
			redisClient = nil
		}
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	var seatingSvc *service.SeatingService
	if chartRepo != nil {
		seatingSvc = service.NewSeatingService(chartRepo, cacheRepo, metricsSvc, cfg.Seating, validate, logr)
	} else {
		seatingSvc = service.NewSeatingService(nil, cacheRepo, metricsSvc, cfg.Seating, validate, logr)
	}

	var exportSvc *service.ExportService
	if cfg.Exports.Enabled {
		files, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to prepare export storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportSvc = service.NewExportService(seatingSvc, files, signer, metricsSvc, service.ExportConfig{
			APIPrefix:       cfg.APIPrefix,
			ResultTTL:       cfg.Exports.SignedURLTTL,
			JobTTL:          cfg.Exports.JobTTL,
			CleanupInterval: cfg.Exports.CleanupInterval,
			Workers:         cfg.Exports.WorkerConcurrency,
			Retries:         cfg.Exports.WorkerRetries,
		}, validate, logr, nil, nil)
		exportSvc.Start(ctx)
		defer exportSvc.Stop()
	}

	seatingHandler := handler.NewSeatingHandler(seatingSvc)
	var exportHandler *handler.ExportHandler
	if exportSvc != nil {
		exportHandler = handler.NewExportHandler(exportSvc)
	} else {
		exportHandler = handler.NewExportHandler(nil)
	}
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if db != nil {
			pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(pingCtx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": "database unreachable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	{
		seating := api.Group("/seating")
		{
			seating.POST("/charts", seatingHandler.Generate)
			seating.POST("/charts/preview", seatingHandler.Preview)
			seating.GET("/charts", seatingHandler.List)
			seating.GET("/charts/:id", seatingHandler.Get)
			seating.DELETE("/charts/:id", seatingHandler.Delete)
			seating.GET("/charts/:id/text", seatingHandler.Text)
			seating.POST("/charts/:id/exports", exportHandler.Create)
			seating.GET("/exports/:jobId", exportHandler.Status)
		}
		api.GET("/export/:token", exportHandler.Download)
		api.GET("/stats", metricsHandler.Stats)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env,
			"history", cfg.Database.Enabled, "cache", cfg.Redis.Enabled, "exports", cfg.Exports.Enabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("shutdown incomplete", "error", err)
	}
}
