package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yanqian/surf-forecast/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestID(),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(handler.logger),
	)

	router.GET("/health", handler.Health)
	router.GET("/healthz", handler.Liveness)
	router.GET("/readyz", handler.Readiness)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1", rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger))
	{
		api.GET("/locations", handler.ListLocations)
		api.GET("/locations/nearest", handler.NearestLocations)
		api.GET("/locations/search", handler.SearchLocations)
		api.GET("/forecast/mock", handler.MockForecast)
		api.GET("/forecast/search", handler.GetForecastByName)
		api.GET("/forecast/path/:country/:state/:city", handler.GetForecastByPath)
		api.GET("/forecast/path/:country/:state/:city/:spot", handler.GetForecastByPath)
		api.GET("/forecast/:id", handler.GetForecast)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        withRetry(router, cfg.HTTP.Retry, handler.logger),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
