package contextual

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RakshakAI/ScamShield/pkg/common"
	"github.com/RakshakAI/ScamShield/pkg/config"
	"github.com/RakshakAI/ScamShield/pkg/domain/risk"
	"github.com/RakshakAI/ScamShield/pkg/infra/httpx"
	"github.com/RakshakAI/ScamShield/pkg/infra/providers"
	"github.com/RakshakAI/ScamShield/pkg/normalizer"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

const systemPromptTemplate = `You are an expert cybersecurity analyst specializing in detecting phishing, scams, and malicious messages in %s.

Analyze the provided message carefully and respond with a JSON object containing:
1. is_phishing (boolean): true if phishing or a scam is detected
2. risk_score (int 0-100): severity of the threat
3. explanation (string): clear, concise explanation of why it is suspicious, in English
4. explanation_hinglish (string): the same explanation in conversational Hinglish
5. tactics (array of strings): manipulation tactics detected (urgency, fear, greed, authority, credential harvesting, etc.)
6. confidence (float 0.0-1.0): how confident you are in the assessment

For safe messages, set is_phishing=false with risk_score below 30 and explain why the message is safe.
For suspicious messages, be specific about what makes them dangerous.`

var verdictInstructions = []string{
	"Respond with a single JSON object and nothing else",
	"Do not wrap the JSON in markdown fences",
	"Keep each explanation under three sentences",
}

type analyzer struct {
	client  providers.Client
	breaker httpx.CircuitBreaker
	logger  *logrus.Logger
	cfg     *config.ContextualConfig
	timeout time.Duration
}

// NewAnalyzer builds a Gateway over the given provider client. A nil client
// yields a permanently unavailable gateway, which callers treat as the
// contextual stage being switched off.
func NewAnalyzer(cfg *config.ContextualConfig, client providers.Client, logger *logrus.Logger) Gateway {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = common.DefaultContextualTimeout
	}
	maxFailures := cfg.Breaker.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}
	resetTimeout := time.Duration(cfg.Breaker.ResetTimeoutSeconds) * time.Second
	if resetTimeout <= 0 {
		resetTimeout = 30 * time.Second
	}
	return &analyzer{
		client:  client,
		breaker: httpx.NewCircuitBreaker("contextual-analyzer", resetTimeout, maxFailures),
		logger:  logger,
		cfg:     cfg,
		timeout: timeout,
	}
}

func (a *analyzer) Available() bool {
	return a.client != nil
}

func (a *analyzer) Analyze(ctx context.Context, text, language string) (*risk.ContextualResult, error) {
	if !a.Available() {
		return nil, ErrDisabled
	}

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	prompt := fmt.Sprintf("Analyze this message for phishing and scams:\n\n%q\n\nProvide your security assessment as JSON.", text)
	providerCfg := a.providerConfig(languageLabel(language))

	start := time.Now()
	var completion *providers.CompletionResponse
	err := a.breaker.Execute(func() error {
		resp, askErr := a.client.Ask(callCtx, providerCfg, prompt)
		if askErr != nil {
			return askErr
		}
		completion = resp
		return nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: circuit open", ErrUnavailable)
		}
		if errors.Is(err, context.DeadlineExceeded) || callCtx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w after %s", ErrTimeout, a.timeout)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	verdict, err := parseVerdict(completion.Response)
	if err != nil {
		a.logger.WithError(err).WithField("completion_id", completion.ID).Warn("discarding contextual verdict")
		return nil, err
	}
	verdict.Language = language

	a.logger.WithFields(logrus.Fields{
		"completion_id": completion.ID,
		"model":         completion.Model,
		"score":         verdict.Score,
		"total_tokens":  completion.Usage.TotalTokens,
		"latency_ms":    time.Since(start).Milliseconds(),
	}).Debug("contextual verdict accepted")

	return verdict, nil
}

func (a *analyzer) providerConfig(language string) *providers.Config {
	providerCfg := &providers.Config{
		Credentials:  providers.Credentials{ApiKey: a.cfg.APIKey},
		Model:        a.cfg.Model,
		MaxTokens:    a.cfg.MaxTokens,
		Temperature:  a.cfg.Temperature,
		SystemPrompt: fmt.Sprintf(systemPromptTemplate, language),
		Instructions: verdictInstructions,
	}
	if a.cfg.Azure.Endpoint != "" || a.cfg.Azure.UseIdentity {
		providerCfg.Credentials.Azure = &providers.AzureCredentials{
			Endpoint:    a.cfg.Azure.Endpoint,
			ApiVersion:  a.cfg.Azure.APIVersion,
			UseIdentity: a.cfg.Azure.UseIdentity,
		}
	}
	if a.cfg.AWS.Region != "" || a.cfg.AWS.AccessKey != "" {
		providerCfg.Credentials.AwsBedrock = &providers.BedrockCredentials{
			Region:    a.cfg.AWS.Region,
			AccessKey: a.cfg.AWS.AccessKey,
			SecretKey: a.cfg.AWS.SecretKey,
		}
	}
	return providerCfg
}

func languageLabel(script string) string {
	switch script {
	case normalizer.ScriptHindi:
		return "Hindi"
	case normalizer.ScriptMixed:
		return "code-mixed Hindi-English (Hinglish)"
	default:
		return "English"
	}
}
