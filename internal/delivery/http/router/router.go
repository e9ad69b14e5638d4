// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"geowatch/config"
	"geowatch/internal/delivery/http/middleware"
	"geowatch/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	Config          *config.Config
	IngestHandler   *handler.IngestHandler
	LogQueryHandler *handler.LogQueryHandler
	TestHandler     *handler.TestHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	cfg             *config.Config
	ingestHandler   *handler.IngestHandler
	logQueryHandler *handler.LogQueryHandler
	testHandler     *handler.TestHandler
	authMiddleware  *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		cfg:             params.Config,
		ingestHandler:   params.IngestHandler,
		logQueryHandler: params.LogQueryHandler,
		testHandler:     params.TestHandler,
		authMiddleware:  params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Ingest routes. Trackers authenticate at the network edge, not with
	// JWTs, so these stay open here.
	ingestGroup := e.Group("/ingest")
	{
		ingestGroup.POST("/devices/:device/location", r.ingestHandler.IngestLocation)
		ingestGroup.POST("/devices/:device/relay", r.ingestHandler.IngestRelay)
	}

	// Log query routes that require authentication
	logGroup := e.Group("/logs")
	logGroup.Use(r.authMiddleware.Authenticate)
	{
		logGroup.GET("/devices/:deviceId", r.logQueryHandler.ListLogs)
		logGroup.GET("/devices/:deviceId/stats", r.logQueryHandler.GetStats)
	}

	// Manual trigger routes, mounted only when explicitly enabled
	if r.cfg.TestRoutes != nil && r.cfg.TestRoutes.Enabled {
		testGroup := e.Group("/test")
		testGroup.Use(r.authMiddleware.Authenticate)
		{
			testGroup.POST("/relay", r.testHandler.TriggerRelay)
			testGroup.POST("/location", r.testHandler.TriggerLocation)
		}
	}
}
