package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yanqian/daily-briefing/internal/domain/auth"
	"github.com/yanqian/daily-briefing/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, authSvc auth.Service) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.CORS.AllowedOrigins),
		errorHandlingMiddleware(handler.logger),
	)

	router.GET("/healthz", handler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	api.Use(rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger))
	{
		api.POST("/auth/register", handler.Register)
		api.POST("/auth/login", handler.Login)
		api.POST("/auth/refresh", handler.Refresh)
		api.GET("/catalog", handler.Catalog)
		api.GET("/weather", handler.Weather)
		api.GET("/weather/raw", handler.WeatherRaw)
	}

	secured := api.Group("")
	secured.Use(authMiddleware(authSvc))
	{
		secured.GET("/auth/me", handler.Me)
		secured.GET("/profile", handler.Profile)
		secured.POST("/onboarding", handler.StartOnboarding)
		secured.GET("/onboarding/:id", handler.GetOnboarding)
		secured.PUT("/onboarding/:id/answer", handler.AnswerOnboarding)
		secured.POST("/onboarding/:id/back", handler.BackOnboarding)
		secured.POST("/onboarding/:id/next", handler.NextOnboarding)
		secured.POST("/onboarding/:id/complete", handler.CompleteOnboarding)
		secured.GET("/briefing", handler.Briefing)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
