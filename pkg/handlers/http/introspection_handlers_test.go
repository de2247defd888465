package http

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/RakshakAI/ScamShield/pkg/app/classify"
	"github.com/RakshakAI/ScamShield/pkg/domain/rule"
	"github.com/RakshakAI/ScamShield/pkg/handlers/http/response"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListRulesHandler(t *testing.T) {
	classifier := &stubClassifier{
		rules: []rule.Summary{
			{ID: "otp-ask", Matcher: "otp batao", Kind: "phrase", Category: rule.CategoryCredentialRequest, BaseRisk: 85},
			{ID: "kyc-expire", Matcher: "kyc expire", Kind: "phrase", Category: rule.CategoryKYC, BaseRisk: 50},
		},
	}
	handler := NewListRulesHandler(testLogger(), classifier)

	app := fiber.New()
	app.Get("/api/v1/rules", handler.Handle)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/rules", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out response.ListRulesOutput
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, 2, out.Count)
	require.Len(t, out.Rules, 2)
	assert.Equal(t, "otp-ask", out.Rules[0].ID)
	assert.Equal(t, "phrase", out.Rules[0].Kind)
}

func TestGetStatsHandler(t *testing.T) {
	classifier := &stubClassifier{
		stats: classify.Stats{
			TotalRequests:       42,
			CacheHitRatePercent: 50,
			PatternCount:        12,
			ContextualAvailable: true,
		},
	}
	handler := NewGetStatsHandler(testLogger(), classifier)

	app := fiber.New()
	app.Get("/api/v1/stats", handler.Handle)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/stats", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out classify.Stats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, uint64(42), out.TotalRequests)
	assert.InDelta(t, 50.0, out.CacheHitRatePercent, 0.01)
	assert.Equal(t, 12, out.PatternCount)
	assert.True(t, out.ContextualAvailable)
}

func TestHealthHandler(t *testing.T) {
	handler := NewHealthHandler(testLogger(), &stubClassifier{available: true})

	app := fiber.New()
	app.Get("/health", handler.Handle)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "healthy", out["status"])
	assert.Equal(t, true, out["contextual_available"])
	assert.NotEmpty(t, out["version"])
}

func TestInvalidateCacheHandler(t *testing.T) {
	classifier := &stubClassifier{}
	handler := NewInvalidateCacheHandler(testLogger(), classifier)

	app := fiber.New()
	app.Post("/api/v1/admin/invalidate-cache", handler.Handle)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/api/v1/admin/invalidate-cache", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, classifier.purgeCalls)

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "cache invalidated successfully", out["message"])
}
