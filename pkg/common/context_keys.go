package common

type contextKey string

const (
	RequestIdContextKey   contextKey = "request_id"
	FingerprintContextKey contextKey = "fingerprint"
	LatencyContextKey     contextKey = "__execution_time"
)
