package http

import (
	"errors"

	"github.com/RakshakAI/ScamShield/pkg/app/classify"
	"github.com/RakshakAI/ScamShield/pkg/handlers/http/request"
	"github.com/RakshakAI/ScamShield/pkg/handlers/http/response"
	"github.com/RakshakAI/ScamShield/pkg/infra/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type batchAnalyzeHandler struct {
	logger     *logrus.Logger
	classifier classify.Classifier
	worker     metrics.Worker
}

func NewBatchAnalyzeHandler(
	logger *logrus.Logger,
	classifier classify.Classifier,
	worker metrics.Worker,
) Handler {
	return &batchAnalyzeHandler{
		logger:     logger,
		classifier: classifier,
		worker:     worker,
	}
}

// Handle @Summary Analyze a batch of messages
// @Description Scores each text independently; result order matches input order
// @Tags Scoring
// @Accept json
// @Produce json
// @Param request body request.BatchAnalyzeRequest true "Messages to score"
// @Success 200 {object} response.BatchAnalyzeOutput "Per-message verdicts"
// @Failure 400 {object} map[string]interface{} "Empty batch or batch over the size cap"
// @Router /api/v1/batch-analyze [post]
func (h *batchAnalyzeHandler) Handle(c *fiber.Ctx) error {
	var req request.BatchAnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.WithError(err).Debug("failed to bind batch analyze request")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	results, err := h.classifier.ClassifyBatch(c.UserContext(), req.Texts)
	if err != nil {
		if errors.Is(err, classify.ErrBatchTooLarge) || errors.Is(err, classify.ErrTextTooLong) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		h.logger.WithError(err).Error("batch classification failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "classification failed"})
	}

	for _, result := range results {
		recordClassification(h.worker, c, result)
	}

	return c.Status(fiber.StatusOK).JSON(response.BatchAnalyzeOutput{
		Results: results,
		Count:   len(results),
	})
}
