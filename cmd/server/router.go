package main

import (
	"context"

	"contacts_api/internal/config"
	"contacts_api/internal/handler"
	"contacts_api/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type routerDeps struct {
	auth     *handler.AuthHandler
	contacts *handler.ContactHandler
	users    *handler.UserHandler
	health   *handler.HealthHandler
	authMW   gin.HandlerFunc
	registry *prometheus.Registry
}

func newRouter(ctx context.Context, cfg *config.Config, deps routerDeps) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.MetricsMiddleware(),
		middleware.SecurityHeadersMiddleware(),
		middleware.CORSMiddleware(cfg.CORS),
	)

	limiter := middleware.NewRateLimiter(ctx, cfg.RateLimit.Requests, cfg.RateLimit.Window)

	apiGroup := router.Group("/api")
	deps.auth.RegisterAuthRoutes(apiGroup, deps.authMW)
	deps.contacts.RegisterContactRoutes(apiGroup, deps.authMW, limiter.Middleware())
	deps.users.RegisterUserRoutes(apiGroup, deps.authMW, limiter.Middleware(), middleware.StaffMiddleware())

	router.GET("/health", deps.health.Health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.registry, promhttp.HandlerOpts{})))

	return router
}
