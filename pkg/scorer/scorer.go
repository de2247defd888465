package scorer

import (
	"math"

	"github.com/RakshakAI/ScamShield/pkg/domain/risk"
	"github.com/RakshakAI/ScamShield/pkg/domain/rule"
)

const (
	// Fusion constants. A contextual score diverging from the pattern score by
	// more than fusionTrustGap wins outright; otherwise the two are blended.
	fusionTrustGap      = 30
	fusionContextWeight = 0.7
	fusionPatternWeight = 0.3

	DefaultCategoryBoost    = 5
	DefaultCategoryBoostCap = 15
)

// Scorer aggregates pattern matches into a single score. Boost policy is set
// once at construction and immutable afterwards.
type Scorer struct {
	categoryBoost    int
	categoryBoostCap int
}

func New(categoryBoost, categoryBoostCap int) *Scorer {
	if categoryBoost <= 0 {
		categoryBoost = DefaultCategoryBoost
	}
	if categoryBoostCap <= 0 {
		categoryBoostCap = DefaultCategoryBoostCap
	}
	return &Scorer{
		categoryBoost:    categoryBoost,
		categoryBoostCap: categoryBoostCap,
	}
}

// Score takes the maximum single-match risk and adds a bounded boost per
// additional distinct category, so multi-signal messages (urgency plus a
// credential ask) outrank a phrase repeated ten times.
func (s *Scorer) Score(matches []risk.Match) risk.PatternResult {
	if len(matches) == 0 {
		return risk.PatternResult{Score: 0, Severity: risk.SeveritySafe}
	}

	maxRisk := 0
	categories := make(map[string]struct{})
	for _, m := range matches {
		if m.Risk > maxRisk {
			maxRisk = m.Risk
		}
		categories[m.Category] = struct{}{}
	}

	boost := (len(categories) - 1) * s.categoryBoost
	if boost > s.categoryBoostCap {
		boost = s.categoryBoostCap
	}

	score := maxRisk + boost
	if score > 100 {
		score = 100
	}

	return risk.PatternResult{
		Score:    score,
		Matches:  matches,
		Severity: risk.SeverityForScore(score),
	}
}

// Fuse combines the pattern and contextual scores into the overall risk.
// Called only when the contextual stage ran and succeeded.
func (s *Scorer) Fuse(patternScore, contextualScore int) int {
	diff := patternScore - contextualScore
	if diff < 0 {
		diff = -diff
	}
	if diff > fusionTrustGap {
		return clampScore(contextualScore)
	}
	blended := math.Round(fusionContextWeight*float64(contextualScore) + fusionPatternWeight*float64(patternScore))
	return clampScore(int(blended))
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// categoryExplanations are the vernacular one-liners shown to end users.
// Kept in Hinglish deliberately, the audience is code-mixed messaging users.
var categoryExplanations = map[string]string{
	rule.CategoryCredentialRequest: "Yeh message aapse OTP, password ya PIN maang raha hai. Asli bank ya company kabhi yeh nahi maangti.",
	rule.CategoryUrgency:           "Jaldbaazi ka dabav daalna scam ki sabse badi nishani hai. Ruk kar sochiye.",
	rule.CategoryFinancial:         "Paise transfer karne ko kaha ja raha hai. Bina confirm kiye kabhi payment na karein.",
	rule.CategoryImpersonation:     "Jaani-maani company ya bank ke naam ki milti-julti spelling hai. Asli website se check karein.",
	rule.CategoryLottery:           "Bina kisi lottery me hissa liye inaam nahi milta. Yeh lalach ka jaal hai.",
	rule.CategoryKYC:               "KYC update ke naam par dhokha aam hai. Bank kabhi link bhej kar KYC nahi karwata.",
	rule.CategoryGenericGreeting:   "Aam greeting ke saath aaya anjaan message phishing ki shuruaat ho sakti hai.",
	rule.CategoryLinkLure:          "Chhota ya ajeeb link hai. Bina jaanche kisi link par click na karein.",
	rule.CategoryFearTactics:       "Darane wali baatein jaise account band ya legal action scam ka tareeka hai.",
	rule.CategoryTooGoodToBeTrue:   "Itna accha offer sach nahi ho sakta. Free me kuch nahi milta.",
}

const genericExplanation = "Yeh message phishing jaisa lag raha hai. Saavdhan rahein."

// ExplanationFor returns the vernacular explanation for a match category.
func ExplanationFor(category string) string {
	if e, ok := categoryExplanations[category]; ok {
		return e
	}
	return genericExplanation
}
