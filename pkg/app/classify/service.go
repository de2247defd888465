package classify

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/RakshakAI/ScamShield/pkg/common"
	"github.com/RakshakAI/ScamShield/pkg/config"
	"github.com/RakshakAI/ScamShield/pkg/contextual"
	"github.com/RakshakAI/ScamShield/pkg/domain/risk"
	"github.com/RakshakAI/ScamShield/pkg/domain/rule"
	"github.com/RakshakAI/ScamShield/pkg/infra/cache"
	"github.com/RakshakAI/ScamShield/pkg/infra/prometheus"
	"github.com/RakshakAI/ScamShield/pkg/matcher"
	"github.com/RakshakAI/ScamShield/pkg/normalizer"
	"github.com/RakshakAI/ScamShield/pkg/scorer"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var (
	ErrTextTooLong   = errors.New("text exceeds maximum length")
	ErrBatchTooLarge = errors.New("batch exceeds maximum size")
)

const batchConcurrency = 8

// Service runs the full scoring pipeline: normalize, cache lookup, pattern
// match, gate, contextual analysis, fusion, cache write. The contextual stage
// is advisory; every failure past the gate degrades to the pattern verdict.
type Service struct {
	matcher   *matcher.Matcher
	scorer    *scorer.Scorer
	cache     *cache.ResultCache
	mirror    *cache.VerdictMirror
	gateway   contextual.Gateway
	logger    *logrus.Logger
	summaries []rule.Summary

	maxTextLength int
	maxBatchSize  int
	gateLow       int
	gateHigh      int
	provider      string

	totalRequests atomic.Uint64
	totalMicros   atomic.Uint64
}

// Stats is the operational snapshot served by the stats endpoint.
type Stats struct {
	TotalRequests       uint64      `json:"total_requests"`
	AvgResponseTimeMs   float64     `json:"avg_response_time_ms"`
	CacheSize           int         `json:"cache_size"`
	CacheHitRatePercent float64     `json:"cache_hit_rate_percent"`
	PatternCount        int         `json:"pattern_count"`
	ContextualAvailable bool        `json:"contextual_available"`
	Cache               cache.Stats `json:"cache_detail"`
}

func NewService(
	catalog *rule.Catalog,
	m *matcher.Matcher,
	sc *scorer.Scorer,
	resultCache *cache.ResultCache,
	mirror *cache.VerdictMirror,
	gateway contextual.Gateway,
	logger *logrus.Logger,
	cfg *config.Config,
) *Service {
	summaries := make([]rule.Summary, 0, len(catalog.Rules))
	for i := range catalog.Rules {
		summaries = append(summaries, catalog.Rules[i].Summary())
	}

	s := &Service{
		matcher:       m,
		scorer:        sc,
		cache:         resultCache,
		mirror:        mirror,
		gateway:       gateway,
		logger:        logger,
		summaries:     summaries,
		maxTextLength: cfg.Engine.MaxTextLength,
		maxBatchSize:  cfg.Engine.MaxBatchSize,
		gateLow:       cfg.Engine.GateLow,
		gateHigh:      cfg.Engine.GateHigh,
		provider:      cfg.Contextual.Provider,
	}
	if s.maxTextLength <= 0 {
		s.maxTextLength = common.DefaultMaxTextLength
	}
	if s.maxBatchSize <= 0 {
		s.maxBatchSize = common.DefaultMaxBatchSize
	}
	if s.gateHigh <= 0 {
		s.gateHigh = 100
	}
	return s
}

// Classify scores one text. The only error callers can see is input
// validation; once the pipeline starts, degraded stages fall back instead of
// failing the request.
func (s *Service) Classify(ctx context.Context, text string) (*risk.ClassificationResult, error) {
	start := time.Now()

	if utf8.RuneCountInString(text) > s.maxTextLength {
		return nil, fmt.Errorf("%w (%d characters)", ErrTextTooLong, s.maxTextLength)
	}

	norm := normalizer.Normalize(text)
	requestID := requestIDFromContext(ctx)

	if norm.Empty() {
		defer s.recordRequest(start)
		return s.finish(&risk.ClassificationResult{
			RequestID:   requestID,
			Severity:    risk.SeveritySafe,
			Method:      risk.MethodPatternOnly,
			Threats:     []risk.Threat{},
			Language:    norm.Script,
			Fingerprint: norm.Fingerprint,
		}, start), nil
	}

	if hit, ok := s.cache.Get(norm.Fingerprint); ok {
		prometheus.CacheEvents.WithLabelValues("local", "hit").Inc()
		defer s.recordRequest(start)
		hit.RequestID = requestID
		hit.Cached = true
		hit.Fingerprint = norm.Fingerprint
		hit.ContextualInvoked = false
		hit.ContextualFailed = false
		return s.finish(hit, start), nil
	}
	prometheus.CacheEvents.WithLabelValues("local", "miss").Inc()
	if s.mirror != nil {
		s.mirror.Fill(norm.Fingerprint)
	}

	matches := s.matcher.Match(norm.Folded)
	pattern := s.scorer.Score(matches)

	overall := pattern.Score
	method := risk.MethodPatternOnly
	var genaiScore *int
	var contextualExplanation string
	var contextualInvoked, contextualFailed bool

	switch s.gateDecision(pattern.Score) {
	case "invoked":
		contextualInvoked = true
		verdict, err := s.gateway.Analyze(ctx, norm.Canonical, norm.Script)
		prometheus.ContextualCalls.WithLabelValues(s.provider, contextualOutcome(err)).Inc()
		if err != nil {
			contextualFailed = true
			s.logger.WithError(err).WithFields(logrus.Fields{
				"request_id":    requestID,
				"pattern_score": pattern.Score,
			}).Warn("contextual stage failed, serving pattern verdict")
		} else {
			sc := verdict.Score
			genaiScore = &sc
			overall = s.scorer.Fuse(pattern.Score, verdict.Score)
			method = risk.MethodHybrid
			contextualExplanation = verdict.ExplanationHinglish
			if contextualExplanation == "" {
				contextualExplanation = verdict.Explanation
			}
		}
	}

	threats := s.buildThreats(matches)
	result := &risk.ClassificationResult{
		RequestID:   requestID,
		OverallRisk: overall,
		Severity:    risk.SeverityForScore(overall),
		Method:      method,
		MLScore:     pattern.Score,
		GenAIScore:  genaiScore,
		Threats:     threats,
		Explanation: pickExplanation(threats, contextualExplanation),
		Language:    norm.Script,

		Fingerprint:       norm.Fingerprint,
		ContextualInvoked: contextualInvoked,
		ContextualFailed:  contextualFailed,
	}

	// Never publish a verdict for a request the caller already abandoned.
	if ctx.Err() == nil {
		s.cache.Put(norm.Fingerprint, result)
		if s.mirror != nil {
			s.mirror.Publish(norm.Fingerprint, result)
		}
	}

	s.logger.WithFields(logrus.Fields{
		"request_id":  requestID,
		"fingerprint": norm.Fingerprint[:12],
		"method":      method,
		"overall":     overall,
		"matches":     len(matches),
	}).Debug("classification complete")

	defer s.recordRequest(start)
	return s.finish(result, start), nil
}

// ClassifyBatch scores each text independently with bounded concurrency.
// Slot i of the output always corresponds to texts[i].
func (s *Service) ClassifyBatch(ctx context.Context, texts []string) ([]*risk.ClassificationResult, error) {
	if len(texts) > s.maxBatchSize {
		return nil, fmt.Errorf("%w (%d texts)", ErrBatchTooLarge, s.maxBatchSize)
	}

	results := make([]*risk.ClassificationResult, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)

	for i, text := range texts {
		g.Go(func() error {
			res, err := s.Classify(gctx, text)
			if err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Rules returns the loaded catalog summaries, in load order.
func (s *Service) Rules() []rule.Summary {
	return s.summaries
}

func (s *Service) Stats() Stats {
	cacheStats := s.cache.Stats()
	total := s.totalRequests.Load()
	avg := 0.0
	if total > 0 {
		avg = float64(s.totalMicros.Load()) / float64(total) / 1000
		avg = math.Round(avg*100) / 100
	}
	return Stats{
		TotalRequests:       total,
		AvgResponseTimeMs:   avg,
		CacheSize:           cacheStats.Size,
		CacheHitRatePercent: cacheStats.HitRatePercent,
		PatternCount:        s.matcher.RuleCount(),
		ContextualAvailable: s.ContextualAvailable(),
		Cache:               cacheStats,
	}
}

func (s *Service) ContextualAvailable() bool {
	return s.gateway != nil && s.gateway.Available()
}

// PurgeCache empties the verdict cache. Admin surface only.
func (s *Service) PurgeCache() {
	s.cache.Purge()
	s.logger.Info("result cache purged")
}

func (s *Service) gateDecision(patternScore int) string {
	decision := "invoked"
	switch {
	case s.gateway == nil || !s.gateway.Available():
		decision = "disabled"
	case patternScore < s.gateLow || patternScore > s.gateHigh:
		decision = "skipped"
	}
	prometheus.GateDecisions.WithLabelValues(decision).Inc()
	return decision
}

func (s *Service) buildThreats(matches []risk.Match) []risk.Threat {
	threats := make([]risk.Threat, 0, len(matches))
	for _, m := range matches {
		threats = append(threats, risk.Threat{
			Match:       m,
			Explanation: scorer.ExplanationFor(m.Category),
		})
	}
	return threats
}

// pickExplanation prefers the contextual verdict's wording; without it the
// highest-risk threat explains the score.
func pickExplanation(threats []risk.Threat, contextualExplanation string) string {
	if contextualExplanation != "" {
		return contextualExplanation
	}
	if len(threats) == 0 {
		return ""
	}
	top := threats[0]
	for _, th := range threats[1:] {
		if th.Risk > top.Risk {
			top = th
		}
	}
	return top.Explanation
}

func (s *Service) finish(result *risk.ClassificationResult, start time.Time) *risk.ClassificationResult {
	elapsed := float64(time.Since(start).Microseconds()) / 1000
	result.ProcessingTimeMs = math.Round(elapsed*100) / 100
	return result
}

func (s *Service) recordRequest(start time.Time) {
	s.totalRequests.Add(1)
	s.totalMicros.Add(uint64(time.Since(start).Microseconds()))
}

func contextualOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, contextual.ErrTimeout):
		return "timeout"
	case errors.Is(err, contextual.ErrBadVerdict):
		return "bad_verdict"
	case errors.Is(err, contextual.ErrUnavailable):
		return "unavailable"
	case errors.Is(err, contextual.ErrDisabled):
		return "disabled"
	default:
		return "error"
	}
}

func requestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(common.RequestIdContextKey).(string); ok {
		return v
	}
	return ""
}
