package http

import (
	"errors"

	"github.com/RakshakAI/ScamShield/pkg/app/classify"
	"github.com/RakshakAI/ScamShield/pkg/handlers/http/request"
	"github.com/RakshakAI/ScamShield/pkg/infra/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type analyzeHandler struct {
	logger     *logrus.Logger
	classifier classify.Classifier
	worker     metrics.Worker
}

func NewAnalyzeHandler(
	logger *logrus.Logger,
	classifier classify.Classifier,
	worker metrics.Worker,
) Handler {
	return &analyzeHandler{
		logger:     logger,
		classifier: classifier,
		worker:     worker,
	}
}

// Handle @Summary Analyze a message for phishing risk
// @Description Scores a single text through the hybrid pattern + contextual pipeline
// @Tags Scoring
// @Accept json
// @Produce json
// @Param request body request.AnalyzeRequest true "Message to score"
// @Success 200 {object} risk.ClassificationResult "Classification verdict"
// @Failure 400 {object} map[string]interface{} "Empty or oversize text"
// @Router /api/v1/analyze [post]
func (h *analyzeHandler) Handle(c *fiber.Ctx) error {
	var req request.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.WithError(err).Debug("failed to bind analyze request")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := h.classifier.Classify(c.UserContext(), req.Text)
	if err != nil {
		if errors.Is(err, classify.ErrTextTooLong) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		h.logger.WithError(err).Error("classification failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "classification failed"})
	}

	recordClassification(h.worker, c, result)

	return c.Status(fiber.StatusOK).JSON(result)
}
