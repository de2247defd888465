package classify

import (
	"context"

	"github.com/RakshakAI/ScamShield/pkg/domain/risk"
	"github.com/RakshakAI/ScamShield/pkg/domain/rule"
)

//go:generate mockery --name=Classifier --dir=. --output=./mocks --filename=classifier_mock.go --case=underscore --with-expecter

// Classifier is the scoring capability the transport layer consumes. Service
// is the only production implementation; handlers depend on this interface so
// they can be exercised against stubs.
type Classifier interface {
	Classify(ctx context.Context, text string) (*risk.ClassificationResult, error)
	ClassifyBatch(ctx context.Context, texts []string) ([]*risk.ClassificationResult, error)
	Rules() []rule.Summary
	Stats() Stats
	ContextualAvailable() bool
	PurgeCache()
}
