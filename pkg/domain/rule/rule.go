package rule

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	CategoryCredentialRequest = "credential_request"
	CategoryUrgency           = "urgency"
	CategoryFinancial         = "financial"
	CategoryImpersonation     = "impersonation"
	CategoryLottery           = "lottery"
	CategoryKYC               = "kyc"
	CategoryGenericGreeting   = "generic_greeting"
	CategoryLinkLure          = "link_lure"
	CategoryFearTactics       = "fear_tactics"
	CategoryTooGoodToBeTrue   = "too_good_to_be_true"
)

var knownCategories = map[string]struct{}{
	CategoryCredentialRequest: {},
	CategoryUrgency:           {},
	CategoryFinancial:         {},
	CategoryImpersonation:     {},
	CategoryLottery:           {},
	CategoryKYC:               {},
	CategoryGenericGreeting:   {},
	CategoryLinkLure:          {},
	CategoryFearTactics:       {},
	CategoryTooGoodToBeTrue:   {},
}

func IsKnownCategory(name string) bool {
	_, ok := knownCategories[name]
	return ok
}

// Rule is one entry of the immutable pattern catalog. Either Phrase or Regex
// must be set; Phrase rules fire on case-insensitive substring containment,
// Regex rules on a match of the compiled expression.
type Rule struct {
	ID            string   `json:"id"`
	Phrase        string   `json:"phrase,omitempty"`
	Regex         string   `json:"regex,omitempty"`
	Category      string   `json:"category"`
	BaseRisk      int      `json:"base_risk"`
	LanguageHints []string `json:"language_hints,omitempty"`
	Description   string   `json:"description,omitempty"`
}

// Summary is the read-only projection exposed by the rules endpoint.
type Summary struct {
	ID            string   `json:"id"`
	Matcher       string   `json:"matcher"`
	Kind          string   `json:"kind"`
	Category      string   `json:"category"`
	BaseRisk      int      `json:"base_risk"`
	LanguageHints []string `json:"language_hints,omitempty"`
}

func (r *Rule) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("rule has empty id")
	}
	if strings.TrimSpace(r.Phrase) == "" && strings.TrimSpace(r.Regex) == "" {
		return fmt.Errorf("rule %s: empty matcher", r.ID)
	}
	if r.Regex != "" {
		if _, err := regexp.Compile(r.Regex); err != nil {
			return fmt.Errorf("rule %s: invalid regex: %w", r.ID, err)
		}
	}
	if r.BaseRisk < 0 || r.BaseRisk > 100 {
		return fmt.Errorf("rule %s: base_risk %d out of range [0,100]", r.ID, r.BaseRisk)
	}
	if !IsKnownCategory(r.Category) {
		return fmt.Errorf("rule %s: unknown category %q", r.ID, r.Category)
	}
	return nil
}

func (r *Rule) Summary() Summary {
	s := Summary{
		ID:            r.ID,
		Category:      r.Category,
		BaseRisk:      r.BaseRisk,
		LanguageHints: r.LanguageHints,
	}
	if r.Regex != "" {
		s.Matcher = r.Regex
		s.Kind = "regex"
	} else {
		s.Matcher = r.Phrase
		s.Kind = "phrase"
	}
	return s
}
