package telemetry

import "time"

// ClassificationEvent is the audit record emitted once per scored message.
// Fingerprints are truncated so raw text can never be reconstructed from it.
type ClassificationEvent struct {
	RequestID          string    `json:"request_id"`
	FingerprintPrefix  string    `json:"fingerprint_prefix"`
	OverallRisk        int       `json:"overall_risk"`
	Severity           string    `json:"severity"`
	Method             string    `json:"method"`
	Language           string    `json:"language"`
	Cached             bool      `json:"cached"`
	ContextualInvoked  bool      `json:"contextual_invoked"`
	ContextualFailed   bool      `json:"contextual_failed"`
	MatchCount         int       `json:"match_count"`
	ProcessingTimeMs   float64   `json:"processing_time_ms"`
	ClientDevice       string    `json:"client_device,omitempty"`
	ClientOS           string    `json:"client_os,omitempty"`
	ClientBrowser      string    `json:"client_browser,omitempty"`
	Timestamp          time.Time `json:"timestamp"`
}
