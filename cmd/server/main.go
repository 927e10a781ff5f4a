package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"click-tracker/internal/config"
	"click-tracker/internal/handler"
	"click-tracker/internal/metrics"
	"click-tracker/internal/middleware"
	"click-tracker/internal/store"
	"click-tracker/internal/token"
	"click-tracker/pkg/database"
	"click-tracker/pkg/logger"

	_ "click-tracker/docs"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Click Tracker API
// @version 1.0
// @description Signed-link click tracker for outbound envios.
// @BasePath /
func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = config.DefaultPath
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	if err := logger.InitLogger(cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Logger.Sync()
	}()
	sugaredLogger := logger.Sugar

	if cfg.Tracker.UsesDefaultSecret() {
		sugaredLogger.Warn("⚠️ TRACKER_SECRET not set, verifying links with the built-in default secret")
	}

	db, err := database.Open(cfg.Database.URL, database.Pool{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetimeMinutes) * time.Minute,
	}, logger.Logger)
	if err != nil {
		sugaredLogger.Fatalf("database init failed: %v", err)
	}
	sugaredLogger.Infof("✅ database pool ready (%s)", db.Dialector.Name())
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	location, err := cfg.Tracker.Location()
	if err != nil {
		sugaredLogger.Fatalf("tracker timezone: %v", err)
	}

	clickHandler := handler.NewClickHandler(
		store.NewClickStore(db),
		token.NewSigner(cfg.Tracker.Secret),
		location,
		handler.Timeouts{
			Record: cfg.Tracker.RecordTimeout(),
			Status: cfg.Tracker.StatusTimeout(),
		},
		logger.Logger,
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.GinZapRecovery(logger.Logger, true))
	router.Use(middleware.GinZapLogger(logger.Logger.Named("http")))

	registerRoutes(router, clickHandler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		sugaredLogger.Infof("🚀 click tracker listening on http://0.0.0.0:%d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugaredLogger.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	sugaredLogger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		sugaredLogger.Errorf("graceful shutdown failed: %v", err)
	}
}

func registerRoutes(router *gin.Engine, clickHandler *handler.ClickHandler) {
	router.GET("/", clickHandler.IndexPage)
	router.GET("/status", clickHandler.Status)
	router.GET("/click", clickHandler.Click)

	router.GET("/metrics", metrics.Handler())
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
