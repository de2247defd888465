package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/RakshakAI/ScamShield/pkg/app/classify"
	"github.com/RakshakAI/ScamShield/pkg/domain/risk"
	"github.com/RakshakAI/ScamShield/pkg/domain/rule"
	"github.com/RakshakAI/ScamShield/pkg/domain/telemetry"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClassifier struct {
	result     *risk.ClassificationResult
	batch      []*risk.ClassificationResult
	err        error
	rules      []rule.Summary
	stats      classify.Stats
	available  bool
	purgeCalls int
}

func (s *stubClassifier) Classify(_ context.Context, _ string) (*risk.ClassificationResult, error) {
	return s.result, s.err
}

func (s *stubClassifier) ClassifyBatch(_ context.Context, _ []string) ([]*risk.ClassificationResult, error) {
	return s.batch, s.err
}

func (s *stubClassifier) Rules() []rule.Summary      { return s.rules }
func (s *stubClassifier) Stats() classify.Stats      { return s.stats }
func (s *stubClassifier) ContextualAvailable() bool  { return s.available }
func (s *stubClassifier) PurgeCache()                { s.purgeCalls++ }

type captureWorker struct {
	mu     sync.Mutex
	events []*telemetry.ClassificationEvent
}

func (w *captureWorker) Shutdown()        {}
func (w *captureWorker) StartWorkers(int) {}

func (w *captureWorker) Record(evt *telemetry.ClassificationEvent) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.events = append(w.events, evt)
}

func (w *captureWorker) recorded() []*telemetry.ClassificationEvent {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]*telemetry.ClassificationEvent(nil), w.events...)
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func sampleResult() *risk.ClassificationResult {
	genai := 88
	return &risk.ClassificationResult{
		OverallRisk: 85,
		Severity:    risk.SeverityHigh,
		Method:      risk.MethodHybrid,
		MLScore:     75,
		GenAIScore:  &genai,
		Threats: []risk.Threat{
			{
				Match:       risk.Match{RuleID: "otp-ask", Phrase: "otp batao", Category: rule.CategoryCredentialRequest, Risk: 85},
				Explanation: "OTP kabhi share na karein.",
			},
		},
		Language:    "mixed",
		Fingerprint: "a1b2c3d4e5f6a7b8c9d0",
	}
}

func TestAnalyzeHandler_Success(t *testing.T) {
	classifier := &stubClassifier{result: sampleResult()}
	worker := &captureWorker{}
	handler := NewAnalyzeHandler(testLogger(), classifier, worker)

	app := fiber.New()
	app.Post("/api/v1/analyze", handler.Handle)

	body, err := json.Marshal(fiber.Map{"text": "otp batao turant"})
	require.NoError(t, err)
	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/analyze", bytes.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set(fiber.HeaderUserAgent, "Mozilla/5.0 (X11; Linux x86_64) Chrome/126.0")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out risk.ClassificationResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, 85, out.OverallRisk)
	assert.Equal(t, risk.SeverityHigh, out.Severity)
	require.NotNil(t, out.GenAIScore)
	assert.Equal(t, 88, *out.GenAIScore)

	events := worker.recorded()
	require.Len(t, events, 1)
	assert.Equal(t, 85, events[0].OverallRisk)
	assert.Equal(t, "a1b2c3d4e5f6", events[0].FingerprintPrefix)
	assert.Equal(t, 1, events[0].MatchCount)
}

func TestAnalyzeHandler_EmptyText(t *testing.T) {
	classifier := &stubClassifier{result: sampleResult()}
	handler := NewAnalyzeHandler(testLogger(), classifier, &captureWorker{})

	app := fiber.New()
	app.Post("/api/v1/analyze", handler.Handle)

	body, _ := json.Marshal(fiber.Map{"text": "   "})
	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/analyze", bytes.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAnalyzeHandler_MalformedBody(t *testing.T) {
	handler := NewAnalyzeHandler(testLogger(), &stubClassifier{}, &captureWorker{})

	app := fiber.New()
	app.Post("/api/v1/analyze", handler.Handle)

	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/analyze", bytes.NewReader([]byte("{not json")))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAnalyzeHandler_TextTooLong(t *testing.T) {
	classifier := &stubClassifier{err: classify.ErrTextTooLong}
	handler := NewAnalyzeHandler(testLogger(), classifier, &captureWorker{})

	app := fiber.New()
	app.Post("/api/v1/analyze", handler.Handle)

	body, _ := json.Marshal(fiber.Map{"text": "long message"})
	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/analyze", bytes.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
