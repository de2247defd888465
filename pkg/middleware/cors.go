package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

type corsMiddleware struct {
	allowOrigins []string
}

// NewCORSMiddleware answers preflights for the browser extension. Scoring
// endpoints are called from content scripts on arbitrary pages, so the
// default configuration allows any origin; deployments can pin a list.
func NewCORSMiddleware(allowOrigins []string) Middleware {
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"*"}
	}
	return &corsMiddleware{allowOrigins: allowOrigins}
}

func (m *corsMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		origin := c.Get("Origin")
		if origin == "" {
			return c.Next()
		}

		if !m.originAllowed(origin) {
			return c.Next()
		}

		c.Set("Vary", "Origin")
		if m.hasStar() {
			c.Set("Access-Control-Allow-Origin", "*")
		} else {
			c.Set("Access-Control-Allow-Origin", origin)
		}

		if c.Method() == fiber.MethodOptions {
			c.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			c.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-Id")
			c.Set("Access-Control-Max-Age", "86400")
			return c.SendStatus(fiber.StatusNoContent)
		}

		return c.Next()
	}
}

func (m *corsMiddleware) originAllowed(origin string) bool {
	for _, o := range m.allowOrigins {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

func (m *corsMiddleware) hasStar() bool {
	for _, o := range m.allowOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}
