package router

import (
	"tutorMarket/internal/middleware"
	"tutorMarket/internal/rest"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetRecommendationRoutes(api *echo.Group, handler *rest.RecommendationHandler) {
	reco := api.Group("/recommendations", middleware.AuthMiddleware())
	reco.GET("/educators", handler.Educators)
	reco.POST("/track", handler.Track)
	reco.POST("/track-search", handler.TrackSearch)
	reco.GET("/metrics", handler.Metrics)
	reco.GET("/features/:id", handler.Features, middleware.SelfOrAdmin())
}

func SetRecommenderAdminRoutes(api *echo.Group, handler *rest.RecommenderAdminHandler) {
	admin := api.Group("/admin/recommender", middleware.AuthMiddleware(), middleware.AdminOnly())
	admin.GET("/config", handler.GetConfig)
	admin.PUT("/config", handler.UpsertConfig)
}

func SetMetricsRoute(e *echo.Echo) {
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
