package websocket

import "github.com/RakshakAI/ScamShield/pkg/domain/risk"

// ScreenRequest is one inbound frame on the screening socket. ID is a
// caller-chosen correlation token echoed back verbatim on the response,
// so clients may pipeline frames without waiting for verdicts.
type ScreenRequest struct {
	Session *Session `json:"session,omitempty"`
	ID      string   `json:"id"`
	Text    string   `json:"text"`
}

// ScreenResponse carries the verdict for a single screened frame. Exactly
// one of Result or Error is set.
type ScreenResponse struct {
	Session *Session                   `json:"session,omitempty"`
	ID      string                     `json:"id"`
	Result  *risk.ClassificationResult `json:"result,omitempty"`
	Error   string                     `json:"error,omitempty"`
}

// Session identifies one screening connection; the UUID is assigned at
// upgrade time and attached to every response frame.
type Session struct {
	UUID string `json:"uuid"`
}
