package http

import (
	"github.com/RakshakAI/ScamShield/pkg/app/classify"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type getStatsHandler struct {
	logger     *logrus.Logger
	classifier classify.Classifier
}

func NewGetStatsHandler(logger *logrus.Logger, classifier classify.Classifier) Handler {
	return &getStatsHandler{
		logger:     logger,
		classifier: classifier,
	}
}

// Handle @Summary Service statistics
// @Description Request counters, cache hit rate and contextual stage availability
// @Tags Introspection
// @Produce json
// @Success 200 {object} classify.Stats "Operational snapshot"
// @Router /api/v1/stats [get]
func (h *getStatsHandler) Handle(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(h.classifier.Stats())
}
