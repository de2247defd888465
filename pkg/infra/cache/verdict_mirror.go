package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/RakshakAI/ScamShield/pkg/config"
	"github.com/RakshakAI/ScamShield/pkg/domain/risk"
	"github.com/RakshakAI/ScamShield/pkg/infra/prometheus"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// VerdictMirror shares verdicts across replicas through redis. The local
// ResultCache stays authoritative for the request path: Fill never blocks a
// classification, it repairs the local cache in the background so the next
// identical query hits locally. Unreadable payloads count as a miss.
type VerdictMirror struct {
	client    redis.Cmdable
	local     *ResultCache
	logger    *logrus.Logger
	keyPrefix string
	ttl       time.Duration
}

const mirrorOpTimeout = 2 * time.Second

func NewVerdictMirror(
	cfg *config.Config,
	local *ResultCache,
	logger *logrus.Logger,
) *VerdictMirror {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	return NewVerdictMirrorWithClient(client, cfg, local, logger)
}

func NewVerdictMirrorWithClient(
	client redis.Cmdable,
	cfg *config.Config,
	local *ResultCache,
	logger *logrus.Logger,
) *VerdictMirror {
	return &VerdictMirror{
		client:    client,
		local:     local,
		logger:    logger,
		keyPrefix: cfg.Cache.Distributed.KeyPrefix,
		ttl:       time.Duration(cfg.Cache.TTLSeconds) * time.Second,
	}
}

// Publish pushes a freshly computed verdict to redis, fire and forget.
func (m *VerdictMirror) Publish(fingerprint string, result *risk.ClassificationResult) {
	if fingerprint == "" || result == nil {
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		m.logger.WithError(err).Warn("failed to marshal verdict for mirror")
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mirrorOpTimeout)
		defer cancel()
		if err := m.client.Set(ctx, m.keyPrefix+fingerprint, payload, m.ttl).Err(); err != nil {
			m.logger.WithError(err).Debug("verdict mirror write failed")
		}
	}()
}

// Fill asynchronously looks the fingerprint up in redis after a local miss
// and, when another replica already scored it, repairs the local cache.
func (m *VerdictMirror) Fill(fingerprint string) {
	if fingerprint == "" {
		return
	}
	go func() {
		result, err := m.Lookup(context.Background(), fingerprint)
		if err != nil || result == nil {
			prometheus.CacheEvents.WithLabelValues("redis", "miss").Inc()
			return
		}
		prometheus.CacheEvents.WithLabelValues("redis", "hit").Inc()
		m.local.Put(fingerprint, result)
	}()
}

// Lookup fetches and decodes a mirrored verdict. A payload that cannot be
// deserialized is deleted and reported as a miss, never an error to callers.
func (m *VerdictMirror) Lookup(ctx context.Context, fingerprint string) (*risk.ClassificationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, mirrorOpTimeout)
	defer cancel()

	payload, err := m.client.Get(ctx, m.keyPrefix+fingerprint).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("verdict mirror read failed: %w", err)
	}

	var result risk.ClassificationResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		m.logger.WithError(err).WithField("fingerprint", fingerprint).
			Warn("corrupt verdict in mirror, dropping")
		m.client.Del(ctx, m.keyPrefix+fingerprint)
		return nil, nil
	}
	return &result, nil
}
