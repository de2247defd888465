package http

import (
	"github.com/RakshakAI/ScamShield/pkg/app/classify"
	"github.com/RakshakAI/ScamShield/pkg/handlers/http/response"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type listRulesHandler struct {
	logger     *logrus.Logger
	classifier classify.Classifier
}

func NewListRulesHandler(logger *logrus.Logger, classifier classify.Classifier) Handler {
	return &listRulesHandler{
		logger:     logger,
		classifier: classifier,
	}
}

// Handle @Summary List loaded pattern rules
// @Description Read-only summaries of the rule catalog loaded at boot
// @Tags Introspection
// @Produce json
// @Success 200 {object} response.ListRulesOutput "Rule summaries"
// @Router /api/v1/rules [get]
func (h *listRulesHandler) Handle(c *fiber.Ctx) error {
	summaries := h.classifier.Rules()
	return c.Status(fiber.StatusOK).JSON(response.ListRulesOutput{
		Rules: summaries,
		Count: len(summaries),
	})
}
