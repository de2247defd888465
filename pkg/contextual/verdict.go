package contextual

import (
	"fmt"
	"math"
	"strings"

	"github.com/RakshakAI/ScamShield/pkg/domain/risk"
	"github.com/valyala/fastjson"
)

// parseVerdict extracts and validates the JSON verdict from a provider
// completion. Providers occasionally wrap the object in prose or markdown, so
// parsing starts at the first '{' and ends at the last '}'. A verdict must
// carry a boolean is_phishing and a numeric risk_score within [0,100];
// anything else is rejected as ErrBadVerdict.
func parseVerdict(response string) (*risk.ContextualResult, error) {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: no JSON object in response", ErrBadVerdict)
	}

	v, err := fastjson.Parse(response[start : end+1])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadVerdict, err)
	}

	phishingVal := v.Get("is_phishing")
	if phishingVal == nil {
		return nil, fmt.Errorf("%w: missing is_phishing", ErrBadVerdict)
	}
	isPhishing, err := phishingVal.Bool()
	if err != nil {
		return nil, fmt.Errorf("%w: is_phishing is not a boolean", ErrBadVerdict)
	}

	scoreVal := v.Get("risk_score")
	if scoreVal == nil {
		return nil, fmt.Errorf("%w: missing risk_score", ErrBadVerdict)
	}
	scoreF, err := scoreVal.Float64()
	if err != nil {
		return nil, fmt.Errorf("%w: risk_score is not numeric", ErrBadVerdict)
	}
	score := int(math.Round(scoreF))
	if score < 0 || score > 100 {
		return nil, fmt.Errorf("%w: risk_score %d out of range", ErrBadVerdict, score)
	}

	confidence := 0.5
	if confVal := v.Get("confidence"); confVal != nil {
		confidence, err = confVal.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: confidence is not numeric", ErrBadVerdict)
		}
		if confidence < 0 || confidence > 1 {
			return nil, fmt.Errorf("%w: confidence %.2f out of range", ErrBadVerdict, confidence)
		}
	}

	result := &risk.ContextualResult{
		Score:               score,
		IsPhishing:          isPhishing,
		Explanation:         string(v.GetStringBytes("explanation")),
		ExplanationHinglish: string(v.GetStringBytes("explanation_hinglish")),
		Confidence:          confidence,
	}
	for _, tactic := range v.GetArray("tactics") {
		if b, terr := tactic.StringBytes(); terr == nil && len(b) > 0 {
			result.Tactics = append(result.Tactics, string(b))
		}
	}
	return result, nil
}
