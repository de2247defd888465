package http

import (
	"github.com/RakshakAI/ScamShield/pkg/app/classify"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type invalidateCacheHandler struct {
	logger     *logrus.Logger
	classifier classify.Classifier
}

func NewInvalidateCacheHandler(logger *logrus.Logger, classifier classify.Classifier) Handler {
	return &invalidateCacheHandler{
		logger:     logger,
		classifier: classifier,
	}
}

// Handle @Summary Purge the verdict cache
// @Description Drops every cached classification so the next queries rescore. Admin only.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Confirmation"
// @Failure 401 {object} map[string]interface{} "Missing or invalid token"
// @Router /api/v1/admin/invalidate-cache [post]
func (h *invalidateCacheHandler) Handle(c *fiber.Ctx) error {
	h.logger.Info("invalidating verdict cache")
	h.classifier.PurgeCache()
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "cache invalidated successfully",
	})
}
