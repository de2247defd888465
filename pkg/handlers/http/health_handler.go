package http

import (
	"time"

	"github.com/RakshakAI/ScamShield/pkg/app/classify"
	"github.com/RakshakAI/ScamShield/pkg/common"
	"github.com/RakshakAI/ScamShield/pkg/version"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type healthHandler struct {
	logger     *logrus.Logger
	classifier classify.Classifier
	startedAt  time.Time
}

func NewHealthHandler(logger *logrus.Logger, classifier classify.Classifier) Handler {
	return &healthHandler{
		logger:     logger,
		classifier: classifier,
		startedAt:  time.Now(),
	}
}

// Handle @Summary Health check
// @Description Liveness probe with uptime and contextual stage availability
// @Tags Introspection
// @Produce json
// @Success 200 {object} map[string]interface{} "Health status"
// @Router /health [get]
func (h *healthHandler) Handle(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":               "healthy",
		"service":              common.ServiceName,
		"version":              version.Version,
		"uptime_seconds":       int64(time.Since(h.startedAt).Seconds()),
		"contextual_available": h.classifier.ContextualAvailable(),
		"time":                 time.Now().Format(time.RFC3339),
	})
}
