package cache

import (
	"container/list"
	"math"
	"sync"
	"time"

	"github.com/RakshakAI/ScamShield/pkg/common"
	"github.com/RakshakAI/ScamShield/pkg/domain/risk"
)

// ResultCache is the bounded, time-expiring verdict store keyed by text
// fingerprint. Two orthogonal eviction policies apply: least-recently-used
// once capacity is exceeded, and a fixed TTL from insertion regardless of
// access pattern. A single mutex makes get, put and eviction atomic with
// respect to each other; recency bumps happen under the same lock.
type ResultCache struct {
	mu        sync.Mutex
	entries   map[string]*list.Element
	order     *list.List
	ttl       time.Duration
	maxSize   int
	hits      uint64
	misses    uint64
	evictions uint64
}

type cacheEntry struct {
	fingerprint string
	result      *risk.ClassificationResult
	expiresAt   time.Time
}

type Stats struct {
	Size           int     `json:"size"`
	MaxSize        int     `json:"max_size"`
	TTLSeconds     int     `json:"ttl_seconds"`
	Hits           uint64  `json:"hits"`
	Misses         uint64  `json:"misses"`
	Evictions      uint64  `json:"evictions"`
	TotalRequests  uint64  `json:"total_requests"`
	HitRatePercent float64 `json:"hit_rate_percent"`
}

func NewResultCache(maxSize int, ttl time.Duration) *ResultCache {
	if maxSize <= 0 {
		maxSize = common.DefaultCacheMaxSize
	}
	if ttl <= 0 {
		ttl = common.DefaultCacheTTL
	}
	return &ResultCache{
		entries: make(map[string]*list.Element),
		order:   list.New(),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get returns a deep copy of the cached result. An expired entry behaves as a
// miss and is removed on the spot.
func (c *ResultCache) Get(fingerprint string) (*risk.ClassificationResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[fingerprint]
	if !ok {
		c.misses++
		return nil, false
	}

	entry, ok := el.Value.(*cacheEntry)
	if !ok || time.Now().After(entry.expiresAt) {
		c.removeElement(el)
		c.misses++
		return nil, false
	}

	c.order.MoveToFront(el)
	c.hits++
	return entry.result.Clone(), true
}

// Put stores a copy of the result, evicting the least-recently-used entry
// when the capacity bound is hit. Re-putting a fingerprint refreshes both the
// value and its TTL.
func (c *ResultCache) Put(fingerprint string, result *risk.ClassificationResult) {
	if fingerprint == "" || result == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := time.Now().Add(c.ttl)

	if el, ok := c.entries[fingerprint]; ok {
		entry, castOk := el.Value.(*cacheEntry)
		if castOk {
			entry.result = result.Clone()
			entry.expiresAt = expiresAt
			c.order.MoveToFront(el)
			return
		}
		c.removeElement(el)
	}

	if c.order.Len() >= c.maxSize {
		c.evictOldest()
	}

	el := c.order.PushFront(&cacheEntry{
		fingerprint: fingerprint,
		result:      result.Clone(),
		expiresAt:   expiresAt,
	})
	c.entries[fingerprint] = el
}

func (c *ResultCache) evictOldest() {
	el := c.order.Back()
	if el == nil {
		return
	}
	c.removeElement(el)
	c.evictions++
}

func (c *ResultCache) removeElement(el *list.Element) {
	entry, ok := el.Value.(*cacheEntry)
	if ok {
		delete(c.entries, entry.fingerprint)
	}
	c.order.Remove(el)
}

// Purge drops every entry. Counters are kept, size resets to zero.
func (c *ResultCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*list.Element)
	c.order.Init()
}

func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *ResultCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.hits + c.misses
	rate := 0.0
	if total > 0 {
		rate = math.Round(float64(c.hits)/float64(total)*10000) / 100
	}
	return Stats{
		Size:           c.order.Len(),
		MaxSize:        c.maxSize,
		TTLSeconds:     int(c.ttl.Seconds()),
		Hits:           c.hits,
		Misses:         c.misses,
		Evictions:      c.evictions,
		TotalRequests:  total,
		HitRatePercent: rate,
	}
}
