package matcher

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/RakshakAI/ScamShield/pkg/domain/risk"
	"github.com/RakshakAI/ScamShield/pkg/domain/rule"
	"github.com/RakshakAI/ScamShield/pkg/utils"
)

// Matcher evaluates folded text against the compiled catalog. It holds no
// mutable state after construction and is safe for unbounded concurrent use.
type Matcher struct {
	phrases []phraseRule
	regexes []regexRule
	brands  []rule.Brand
	count   int
}

type phraseRule struct {
	src    rule.Rule
	phrase string
}

type regexRule struct {
	src rule.Rule
	re  *regexp.Regexp
}

// New compiles the catalog. Regex rules are compiled case-insensitively once;
// a rule that fails to compile fails the whole construction.
func New(catalog *rule.Catalog) (*Matcher, error) {
	if err := catalog.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	m := &Matcher{count: len(catalog.Rules)}
	for _, r := range catalog.Rules {
		if r.Regex != "" {
			re, err := regexp.Compile("(?i)" + r.Regex)
			if err != nil {
				return nil, fmt.Errorf("rule %s: %w", r.ID, err)
			}
			m.regexes = append(m.regexes, regexRule{src: r, re: re})
			continue
		}
		m.phrases = append(m.phrases, phraseRule{src: r, phrase: strings.ToLower(r.Phrase)})
	}
	m.brands = append(m.brands, catalog.Brands...)
	return m, nil
}

// RuleCount reports the number of catalog rules, excluding the brand table.
func (m *Matcher) RuleCount() int {
	return m.count
}

// Match returns every rule firing against the folded text. Overlapping spans
// from different rules are all kept; only exact (rule_id, span) duplicates
// are dropped.
func (m *Matcher) Match(folded string) []risk.Match {
	if folded == "" {
		return nil
	}

	var matches []risk.Match
	seen := make(map[string]struct{})

	add := func(id, phrase, category string, riskScore, pos, length int) {
		key := fmt.Sprintf("%s:%d:%d", id, pos, length)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		matches = append(matches, risk.Match{
			RuleID:   id,
			Phrase:   phrase,
			Category: category,
			Risk:     riskScore,
			Position: pos,
			Length:   length,
		})
	}

	for _, pr := range m.phrases {
		for pos := strings.Index(folded, pr.phrase); pos != -1; {
			add(pr.src.ID, pr.src.Phrase, pr.src.Category, pr.src.BaseRisk, pos, len(pr.phrase))
			next := strings.Index(folded[pos+len(pr.phrase):], pr.phrase)
			if next == -1 {
				break
			}
			pos = pos + len(pr.phrase) + next
		}
	}

	for _, rr := range m.regexes {
		for _, span := range rr.re.FindAllStringIndex(folded, -1) {
			add(rr.src.ID, folded[span[0]:span[1]], rr.src.Category, rr.src.BaseRisk, span[0], span[1]-span[0])
		}
	}

	matches = append(matches, m.matchBrandLookalikes(folded, seen)...)

	return matches
}

// matchBrandLookalikes flags tokens one edit away from a guarded brand name.
// Exact brand mentions are legitimate and never fire on their own.
func (m *Matcher) matchBrandLookalikes(folded string, seen map[string]struct{}) []risk.Match {
	if len(m.brands) == 0 {
		return nil
	}

	var matches []risk.Match
	pos := 0
	for _, token := range strings.FieldsFunc(folded, isTokenBoundary) {
		tokenPos := strings.Index(folded[pos:], token) + pos
		pos = tokenPos + len(token)

		if len(token) < 3 || m.isExactBrand(token) {
			continue
		}
		for _, b := range m.brands {
			if utils.LevenshteinDistance(token, b.Name) != 1 {
				continue
			}
			id := "lookalike_" + b.Name
			key := fmt.Sprintf("%s:%d:%d", id, tokenPos, len(token))
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			matches = append(matches, risk.Match{
				RuleID:   id,
				Phrase:   token,
				Category: rule.CategoryImpersonation,
				Risk:     b.Risk,
				Position: tokenPos,
				Length:   len(token),
			})
		}
	}
	return matches
}

func (m *Matcher) isExactBrand(token string) bool {
	for _, b := range m.brands {
		if strings.EqualFold(token, b.Name) {
			return true
		}
	}
	return false
}

func isTokenBoundary(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
