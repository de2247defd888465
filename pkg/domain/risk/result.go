package risk

type Method string

const (
	MethodPatternOnly Method = "pattern_only"
	MethodHybrid      Method = "hybrid"
)

// Match records a single rule firing against the canonical text.
type Match struct {
	RuleID   string `json:"rule_id"`
	Phrase   string `json:"phrase"`
	Category string `json:"category"`
	Risk     int    `json:"risk"`
	Position int    `json:"position"`
	Length   int    `json:"length"`
}

// Threat is a Match enriched with a human-readable explanation for API consumers.
type Threat struct {
	Match
	Explanation string `json:"explanation"`
}

// PatternResult is the output of the deterministic scoring stage.
type PatternResult struct {
	Score    int      `json:"score"`
	Matches  []Match  `json:"matches"`
	Severity Severity `json:"severity"`
}

// ContextualResult is the verdict returned by the external reasoning stage.
type ContextualResult struct {
	Score               int      `json:"score"`
	IsPhishing          bool     `json:"is_phishing"`
	Explanation         string   `json:"explanation"`
	ExplanationHinglish string   `json:"explanation_hinglish,omitempty"`
	Tactics             []string `json:"tactics,omitempty"`
	Confidence          float64  `json:"confidence"`
	Language            string   `json:"language,omitempty"`
}

// ClassificationResult is the externally visible artifact of a classification.
// The Contextual* flags are per-request diagnostics for telemetry; they are
// never serialized and a contextual failure never fails the request itself.
type ClassificationResult struct {
	RequestID        string   `json:"request_id,omitempty"`
	OverallRisk      int      `json:"overall_risk"`
	Severity         Severity `json:"severity"`
	Method           Method   `json:"method"`
	MLScore          int      `json:"ml_score"`
	GenAIScore       *int     `json:"genai_score"`
	Threats          []Threat `json:"threats"`
	Explanation      string   `json:"explanation,omitempty"`
	Language         string   `json:"language"`
	ProcessingTimeMs float64  `json:"processing_time_ms"`
	Cached           bool     `json:"cached"`

	Fingerprint       string `json:"-"`
	ContextualInvoked bool   `json:"-"`
	ContextualFailed  bool   `json:"-"`
}

// Clone returns a deep copy so cached results are never shared with callers.
func (r *ClassificationResult) Clone() *ClassificationResult {
	if r == nil {
		return nil
	}
	cp := *r
	if r.GenAIScore != nil {
		v := *r.GenAIScore
		cp.GenAIScore = &v
	}
	if r.Threats != nil {
		cp.Threats = make([]Threat, len(r.Threats))
		copy(cp.Threats, r.Threats)
	}
	return &cp
}
