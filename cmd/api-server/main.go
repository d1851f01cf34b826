package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	_ "go.uber.org/automaxprocs"

	"bookreview/database"
	"bookreview/internal/cache"
	"bookreview/internal/config"
	"bookreview/internal/handler"
	"bookreview/internal/logger"
	"bookreview/internal/middleware"
	"bookreview/internal/repository"
	"bookreview/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	zl, cleanup := logger.New(cfg.LogLevel, cfg.LogFormat == "json", cfg.LogFile)
	defer cleanup()

	db, err := database.ConnectDB(cfg, zl)
	if err != nil {
		zl.Fatal("database connection failed", zap.Error(err))
	}

	c := cache.New(cfg.RedisAddr, cfg.RedisPassword)
	if err := c.RDB.Ping(context.Background()).Err(); err != nil {
		// The catalog works without Redis; featured reads just skip the cache.
		zl.Warn("redis unreachable, running without cache", zap.Error(err))
		c = nil
	}

	// Repositories
	bookRepo := repository.NewBookRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Services
	catalogService := service.NewCatalogService(bookRepo, c, cfg.CacheTTL)
	reviewService := service.NewReviewService(reviewRepo, bookRepo)
	authService := service.NewAuthService(userRepo, cfg)

	// Handlers
	bookHandler := handler.NewBookHandler(catalogService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	userHandler := handler.NewUserHandler(authService)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.EnableJsonDecoderDisallowUnknownFields()

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(ginzap.Ginzap(zl, time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(zl, true))
	r.Use(middleware.Metrics())
	r.Use(middleware.RateLimit(100, 200))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authn := middleware.Authenticate(authService)
	api := r.Group("/api")
	bookHandler.RegisterRoutes(api.Group("/books"), authn)
	reviewHandler.RegisterRoutes(api.Group("/reviews"), authn)
	userHandler.RegisterRoutes(api.Group("/users"), authn)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		zl.Info("server listening", zap.Int("port", cfg.HTTPPort), zap.String("env", cfg.GoEnv))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zl.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zl.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zl.Error("forced shutdown", zap.Error(err))
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	zl.Info("server exited")
}
