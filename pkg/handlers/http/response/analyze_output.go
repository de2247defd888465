package response

import (
	"github.com/RakshakAI/ScamShield/pkg/domain/risk"
	"github.com/RakshakAI/ScamShield/pkg/domain/rule"
)

type BatchAnalyzeOutput struct {
	Results []*risk.ClassificationResult `json:"results"`
	Count   int                          `json:"count"`
}

type ListRulesOutput struct {
	Rules []rule.Summary `json:"rules"`
	Count int            `json:"count"`
}
