package contextual

import (
	"context"
	"errors"

	"github.com/RakshakAI/ScamShield/pkg/domain/risk"
)

var (
	// ErrDisabled means no provider is configured for contextual analysis.
	ErrDisabled = errors.New("contextual analysis disabled")
	// ErrTimeout means the provider did not answer within the per-call budget.
	ErrTimeout = errors.New("contextual analysis timed out")
	// ErrUnavailable covers provider failures and an open circuit breaker.
	ErrUnavailable = errors.New("contextual analysis unavailable")
	// ErrBadVerdict means the provider answered with an unusable verdict.
	ErrBadVerdict = errors.New("malformed contextual verdict")
)

//go:generate mockery --name=Gateway --dir=. --output=./mocks --filename=gateway_mock.go --case=underscore --with-expecter

// Gateway grades a message with an external reasoning service. Implementations
// own their provider transport, timeout and failure isolation; callers decide
// when the call is worth its cost and how to degrade when it fails.
type Gateway interface {
	Analyze(ctx context.Context, text, language string) (*risk.ContextualResult, error)
	Available() bool
}
