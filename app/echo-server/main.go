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

	"tutorMarket/app/echo-server/metrics"
	"tutorMarket/app/echo-server/router"
	"tutorMarket/internal/bootstrap"
	"tutorMarket/internal/middleware"
	"tutorMarket/internal/rest"
	"tutorMarket/pkg/config"
	"tutorMarket/pkg/logger"
	pkgmetrics "tutorMarket/pkg/metrics"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	defer logger.Sync()
	logger.Info("Starting Tutor Market recommender", "version", cfg.App.Version)

	pkgmetrics.Init()

	svc, err := bootstrap.New(cfg)
	if err != nil {
		logger.Fatal("Failed to initialise recommender", "error", err)
	}

	// Init handler
	recommendationHandler := rest.NewRecommendationHandler(svc.Orchestrator, cfg.Server.RequestTimeout)
	adminHandler := rest.NewRecommenderAdminHandler(svc.Configs)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.TraceMiddleware())
	e.Use(metrics.Middleware())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderXRequestID},
	}))

	// Setup routes
	router.SetMetricsRoute(e)
	api := e.Group("/api/v1")
	router.SetRecommendationRoutes(api, recommendationHandler)
	router.SetRecommenderAdminRoutes(api, adminHandler)

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	// pending request-log writes
	if err := svc.Orchestrator.Drain(ctx); err != nil {
		logger.Warn("Interaction log drain incomplete", "error", err)
	}

	if err := svc.Close(); err != nil {
		logger.Error("Failed to close connections", "error", err)
	}

	logger.Info("Server stopped")
}
