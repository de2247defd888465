package common

import "time"

const (
	ServiceName    = "scamshield-engine"
	ServiceVersion = "1.2.0"

	RequestIDHeader = "X-Request-Id"

	DefaultCacheTTL     = 60 * time.Second
	DefaultCacheMaxSize = 1000

	DefaultMaxTextLength = 5000
	DefaultMaxBatchSize  = 50

	DefaultContextualTimeout = 8 * time.Second
)
