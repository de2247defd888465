package router

import (
	"errors"
	"time"

	handlers "github.com/RakshakAI/ScamShield/pkg/handlers/http"
	wsHandlers "github.com/RakshakAI/ScamShield/pkg/handlers/websocket"
	"github.com/RakshakAI/ScamShield/pkg/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

const (
	HealthPath    = "/health"
	VersionPath   = "/version"
	WebsocketPath = "/ws/screen"
)

var ErrInvalidHandlerTransport = errors.New("invalid handler transport")

type apiRouter struct {
	middlewareTransport *middleware.Transport
	handlerTransport    handlers.HandlerTransport
	wsHandlerTransport  wsHandlers.HandlerTransport
}

func NewAPIRouter(
	middlewareTransport *middleware.Transport,
	handlerTransport handlers.HandlerTransport,
	wsHandlerTransport wsHandlers.HandlerTransport,
) ServerRouter {
	return &apiRouter{
		middlewareTransport: middlewareTransport,
		handlerTransport:    handlerTransport,
		wsHandlerTransport:  wsHandlerTransport,
	}
}

func (r *apiRouter) BuildRoutes(router *fiber.App) error {

	wsHandlerTransport, ok := r.wsHandlerTransport.GetTransport().(*wsHandlers.HandlerTransportDTO)
	if !ok {
		return ErrInvalidHandlerTransport
	}

	router.Static("/swagger.json", "./docs/swagger.json")

	router.Get("/docs/*", swagger.New(swagger.Config{
		URL: "/swagger.json",
	}))

	// Health and version sit outside the middleware chain so probes stay
	// out of the request metrics.
	router.Get(HealthPath, r.handlerTransport.HealthHandler.Handle)
	router.Get(VersionPath, r.handlerTransport.GetVersionHandler.Handle)

	router.Use(r.middlewareTransport.PanicRecoverMiddleware.Middleware())
	router.Use(r.middlewareTransport.RequestIDMiddleware.Middleware())
	router.Use(r.middlewareTransport.CORSMiddleware.Middleware())
	router.Use(r.middlewareTransport.MetricsMiddleware.Middleware())

	v1 := router.Group("/api/v1")
	{
		v1.Post("/analyze", r.handlerTransport.AnalyzeHandler.Handle)
		v1.Post("/batch-analyze", r.handlerTransport.BatchAnalyzeHandler.Handle)
		v1.Get("/rules", r.handlerTransport.ListRulesHandler.Handle)
		v1.Get("/stats", r.handlerTransport.GetStatsHandler.Handle)

		admin := v1.Group("/admin")
		{
			admin.Use(r.middlewareTransport.AdminAuthMiddleware.Middleware())
			admin.Post("/invalidate-cache", r.handlerTransport.InvalidateCacheHandler.Handle)
		}
	}

	router.Use(r.middlewareTransport.WebsocketMiddleware.Middleware())

	router.Get(WebsocketPath, websocket.New(
		wsHandlerTransport.ScreenHandler.Handle,
		websocket.Config{
			HandshakeTimeout: 15 * time.Second,
			ReadBufferSize:   1024,
			WriteBufferSize:  1024,
		},
	))

	return nil
}
