package contextual

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/RakshakAI/ScamShield/pkg/config"
	"github.com/RakshakAI/ScamShield/pkg/infra/providers"
	"github.com/RakshakAI/ScamShield/pkg/normalizer"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	mu         sync.Mutex
	calls      int
	lastConfig *providers.Config
	ask        func(ctx context.Context, cfg *providers.Config, prompt string) (*providers.CompletionResponse, error)
}

func (s *stubProvider) Ask(
	ctx context.Context,
	cfg *providers.Config,
	prompt string,
) (*providers.CompletionResponse, error) {
	s.mu.Lock()
	s.calls++
	s.lastConfig = cfg
	s.mu.Unlock()
	return s.ask(ctx, cfg, prompt)
}

func (s *stubProvider) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func testContextualConfig() *config.ContextualConfig {
	return &config.ContextualConfig{
		Enabled:        true,
		Provider:       "openai",
		Model:          "gpt-4o-mini",
		APIKey:         "test-key",
		TimeoutSeconds: 1,
		MaxTokens:      500,
		Temperature:    0.3,
		Breaker: config.BreakerConfig{
			MaxFailures:         2,
			ResetTimeoutSeconds: 1,
		},
	}
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestAnalyze_Success(t *testing.T) {
	stub := &stubProvider{
		ask: func(ctx context.Context, cfg *providers.Config, prompt string) (*providers.CompletionResponse, error) {
			assert.Contains(t, prompt, "otp bhejo warna account block")
			return &providers.CompletionResponse{
				ID:       "cmpl-1",
				Model:    cfg.Model,
				Response: `{"is_phishing": true, "risk_score": 88, "explanation": "Coerces the victim into sharing an OTP.", "tactics": ["urgency"], "confidence": 0.9}`,
			}, nil
		},
	}
	gateway := NewAnalyzer(testContextualConfig(), stub, testLogger())
	require.True(t, gateway.Available())

	verdict, err := gateway.Analyze(context.Background(), "otp bhejo warna account block ho jayega", normalizer.ScriptMixed)
	require.NoError(t, err)
	assert.Equal(t, 88, verdict.Score)
	assert.True(t, verdict.IsPhishing)
	assert.Equal(t, normalizer.ScriptMixed, verdict.Language)
	assert.Equal(t, 1, stub.callCount())
}

func TestAnalyze_SystemPromptFollowsLanguage(t *testing.T) {
	verdictJSON := `{"is_phishing": false, "risk_score": 5}`
	stub := &stubProvider{
		ask: func(ctx context.Context, cfg *providers.Config, prompt string) (*providers.CompletionResponse, error) {
			return &providers.CompletionResponse{ID: "cmpl-2", Response: verdictJSON}, nil
		},
	}
	gateway := NewAnalyzer(testContextualConfig(), stub, testLogger())

	_, err := gateway.Analyze(context.Background(), "namaste", normalizer.ScriptMixed)
	require.NoError(t, err)
	assert.Contains(t, stub.lastConfig.SystemPrompt, "Hinglish")

	_, err = gateway.Analyze(context.Background(), "नमस्ते", normalizer.ScriptHindi)
	require.NoError(t, err)
	assert.Contains(t, stub.lastConfig.SystemPrompt, "Hindi")
}

func TestAnalyze_NilClientIsDisabled(t *testing.T) {
	gateway := NewAnalyzer(testContextualConfig(), nil, testLogger())

	assert.False(t, gateway.Available())

	verdict, err := gateway.Analyze(context.Background(), "koi bhi text", normalizer.ScriptMixed)
	assert.Nil(t, verdict)
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestAnalyze_ProviderErrorIsUnavailable(t *testing.T) {
	stub := &stubProvider{
		ask: func(ctx context.Context, cfg *providers.Config, prompt string) (*providers.CompletionResponse, error) {
			return nil, fmt.Errorf("connection refused")
		},
	}
	gateway := NewAnalyzer(testContextualConfig(), stub, testLogger())

	verdict, err := gateway.Analyze(context.Background(), "otp bhejo", normalizer.ScriptMixed)
	assert.Nil(t, verdict)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestAnalyze_DeadlineMapsToTimeout(t *testing.T) {
	stub := &stubProvider{
		ask: func(ctx context.Context, cfg *providers.Config, prompt string) (*providers.CompletionResponse, error) {
			return nil, fmt.Errorf("request aborted: %w", context.DeadlineExceeded)
		},
	}
	gateway := NewAnalyzer(testContextualConfig(), stub, testLogger())

	verdict, err := gateway.Analyze(context.Background(), "otp bhejo", normalizer.ScriptMixed)
	assert.Nil(t, verdict)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestAnalyze_MalformedVerdict(t *testing.T) {
	stub := &stubProvider{
		ask: func(ctx context.Context, cfg *providers.Config, prompt string) (*providers.CompletionResponse, error) {
			return &providers.CompletionResponse{ID: "cmpl-3", Response: "this message is definitely a scam"}, nil
		},
	}
	gateway := NewAnalyzer(testContextualConfig(), stub, testLogger())

	verdict, err := gateway.Analyze(context.Background(), "otp bhejo", normalizer.ScriptMixed)
	assert.Nil(t, verdict)
	assert.ErrorIs(t, err, ErrBadVerdict)
}

func TestAnalyze_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	stub := &stubProvider{
		ask: func(ctx context.Context, cfg *providers.Config, prompt string) (*providers.CompletionResponse, error) {
			return nil, fmt.Errorf("provider down")
		},
	}
	gateway := NewAnalyzer(testContextualConfig(), stub, testLogger())

	for i := 0; i < 2; i++ {
		_, err := gateway.Analyze(context.Background(), "otp bhejo", normalizer.ScriptMixed)
		assert.ErrorIs(t, err, ErrUnavailable)
	}
	assert.Equal(t, 2, stub.callCount())

	// Circuit is open now, the provider must not be invoked again.
	_, err := gateway.Analyze(context.Background(), "otp bhejo", normalizer.ScriptMixed)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 2, stub.callCount())
}
