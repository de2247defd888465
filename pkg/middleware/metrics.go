package middleware

import (
	"fmt"
	"strconv"

	"github.com/RakshakAI/ScamShield/pkg/infra/prometheus"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type metricsMiddleware struct {
	logger *logrus.Logger
}

func NewMetricsMiddleware(logger *logrus.Logger) Middleware {
	return &metricsMiddleware{logger: logger}
}

// Middleware counts requests per route pattern, method and status class.
// Route patterns rather than raw paths keep the label cardinality bounded.
func (m *metricsMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		endpoint := c.Route().Path
		if endpoint == "" {
			endpoint = "unmatched"
		}
		prometheus.RequestTotal.WithLabelValues(
			endpoint,
			c.Method(),
			GetStatusClass(strconv.Itoa(c.Response().StatusCode())),
		).Inc()

		return err
	}
}

// GetStatusClass collapses a status code to its class (e.g. "2xx").
func GetStatusClass(status string) string {
	code, err := strconv.Atoi(status)
	if err != nil {
		return "5xx"
	}
	return fmt.Sprintf("%dxx", code/100)
}
