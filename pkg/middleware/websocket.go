package middleware

import (
	"context"
	"strings"

	"github.com/RakshakAI/ScamShield/pkg/common"
	infra "github.com/RakshakAI/ScamShield/pkg/infra/websocket"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type websocketMiddleware struct {
	logger    *logrus.Logger
	semaphore *infra.Semaphore
}

// NewWebsocketMiddleware gates upgrade requests on the screening socket. A
// bounded semaphore keeps one misbehaving extension build from exhausting
// the connection budget for everyone.
func NewWebsocketMiddleware(logger *logrus.Logger, maxConnections int) Middleware {
	if maxConnections <= 0 {
		maxConnections = 1024
	}
	return &websocketMiddleware{
		logger:    logger,
		semaphore: infra.NewSemaphore(maxConnections),
	}
}

func (m *websocketMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !strings.HasPrefix(c.Path(), "/ws") {
			return c.Next()
		}
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		if !m.semaphore.Acquire() {
			m.logger.Warn("maximum websocket connections reached, rejecting connection")
			return fiber.ErrTooManyRequests
		}
		c.Locals("ws_semaphore", m.semaphore)

		sessionID := uuid.New().String()
		c.Locals(string(common.RequestIdContextKey), sessionID)
		//nolint
		ctx := context.WithValue(c.Context(), common.RequestIdContextKey, sessionID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}
