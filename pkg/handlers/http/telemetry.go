package http

import (
	"time"

	"github.com/RakshakAI/ScamShield/pkg/domain/risk"
	"github.com/RakshakAI/ScamShield/pkg/domain/telemetry"
	"github.com/RakshakAI/ScamShield/pkg/infra/metrics"
	"github.com/RakshakAI/ScamShield/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

const fingerprintPrefixLen = 12

// recordClassification ships one audit event per verdict to the telemetry
// worker. Runs after the response is decided; must never block the handler.
func recordClassification(worker metrics.Worker, c *fiber.Ctx, result *risk.ClassificationResult) {
	if worker == nil || result == nil {
		return
	}

	evt := &telemetry.ClassificationEvent{
		RequestID:         result.RequestID,
		FingerprintPrefix: fingerprintPrefix(result.Fingerprint),
		OverallRisk:       result.OverallRisk,
		Severity:          string(result.Severity),
		Method:            string(result.Method),
		Language:          result.Language,
		Cached:            result.Cached,
		ContextualInvoked: result.ContextualInvoked,
		ContextualFailed:  result.ContextualFailed,
		MatchCount:        len(result.Threats),
		ProcessingTimeMs:  result.ProcessingTimeMs,
		Timestamp:         time.Now().UTC(),
	}

	if ua := utils.ParseUserAgent(c.Get(fiber.HeaderUserAgent)); ua != nil {
		evt.ClientDevice = ua.Device
		evt.ClientOS = ua.OS
		evt.ClientBrowser = ua.Browser
	}

	worker.Record(evt)
}

func fingerprintPrefix(fingerprint string) string {
	if len(fingerprint) <= fingerprintPrefixLen {
		return fingerprint
	}
	return fingerprint[:fingerprintPrefixLen]
}
