package matcher

import (
	"testing"

	"github.com/RakshakAI/ScamShield/pkg/domain/rule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() *rule.Catalog {
	return &rule.Catalog{
		Rules: []rule.Rule{
			{ID: "otp-share", Phrase: "otp bhejo", Category: rule.CategoryCredentialRequest, BaseRisk: 85},
			{ID: "urgent-act", Phrase: "turant", Category: rule.CategoryUrgency, BaseRisk: 40},
			{ID: "account-block", Phrase: "account block", Category: rule.CategoryFearTactics, BaseRisk: 70},
			{ID: "shortlink", Regex: `https?://(bit\.ly|tinyurl\.com)/\S+`, Category: rule.CategoryLinkLure, BaseRisk: 60},
			{ID: "lottery-win", Regex: `\b(lottery|lucky draw)\b`, Category: rule.CategoryLottery, BaseRisk: 75},
		},
		Brands: []rule.Brand{
			{Name: "paytm", Risk: 70},
			{Name: "sbi", Risk: 70},
		},
	}
}

func newTestMatcher(t *testing.T) *Matcher {
	m, err := New(testCatalog())
	require.NoError(t, err)
	return m
}

func TestNew_InvalidCatalog(t *testing.T) {
	_, err := New(&rule.Catalog{})
	assert.ErrorContains(t, err, "invalid catalog")
}

func TestMatch_PhraseSubstring(t *testing.T) {
	m := newTestMatcher(t)

	matches := m.Match("bhai turant otp bhejo warna account block ho jayega")
	require.Len(t, matches, 3)

	byID := make(map[string]int)
	for _, match := range matches {
		byID[match.RuleID]++
	}
	assert.Equal(t, 1, byID["otp-share"])
	assert.Equal(t, 1, byID["urgent-act"])
	assert.Equal(t, 1, byID["account-block"])
}

func TestMatch_NoHits(t *testing.T) {
	m := newTestMatcher(t)
	assert.Empty(t, m.Match("shaam ko chai peene aana"))
	assert.Empty(t, m.Match(""))
}

func TestMatch_RegexRule(t *testing.T) {
	m := newTestMatcher(t)

	matches := m.Match("claim prize here http://bit.ly/xy12z")
	require.Len(t, matches, 1)
	assert.Equal(t, "shortlink", matches[0].RuleID)
	assert.Equal(t, rule.CategoryLinkLure, matches[0].Category)
	assert.Equal(t, 60, matches[0].Risk)
}

func TestMatch_RepeatedPhraseDistinctSpans(t *testing.T) {
	m := newTestMatcher(t)

	matches := m.Match("turant karo, turant!")
	require.Len(t, matches, 2)
	assert.Equal(t, matches[0].RuleID, matches[1].RuleID)
	assert.NotEqual(t, matches[0].Position, matches[1].Position)
}

func TestMatch_OverlappingRulesAllFire(t *testing.T) {
	catalog := testCatalog()
	catalog.Rules = append(catalog.Rules, rule.Rule{
		ID: "block-warning", Phrase: "block ho jayega", Category: rule.CategoryFearTactics, BaseRisk: 55,
	})
	m, err := New(catalog)
	require.NoError(t, err)

	matches := m.Match("account block ho jayega")
	ids := make(map[string]bool)
	for _, match := range matches {
		ids[match.RuleID] = true
	}
	assert.True(t, ids["account-block"])
	assert.True(t, ids["block-warning"], "overlapping spans from different rules must both fire")
}

func TestMatch_SpanPositions(t *testing.T) {
	m := newTestMatcher(t)

	matches := m.Match("turant otp bhejo")
	require.Len(t, matches, 2)
	for _, match := range matches {
		switch match.RuleID {
		case "urgent-act":
			assert.Equal(t, 0, match.Position)
			assert.Equal(t, len("turant"), match.Length)
		case "otp-share":
			assert.Equal(t, 7, match.Position)
			assert.Equal(t, len("otp bhejo"), match.Length)
		}
	}
}

func TestMatch_BrandLookalike(t *testing.T) {
	m := newTestMatcher(t)

	t.Run("near miss fires", func(t *testing.T) {
		matches := m.Match("paytam cashback jeeto abhi")
		require.Len(t, matches, 1)
		assert.Equal(t, "lookalike_paytm", matches[0].RuleID)
		assert.Equal(t, rule.CategoryImpersonation, matches[0].Category)
		assert.Equal(t, "paytam", matches[0].Phrase)
		assert.Equal(t, 70, matches[0].Risk)
	})

	t.Run("exact brand mention is clean", func(t *testing.T) {
		assert.Empty(t, m.Match("paytm se payment kar do"))
	})

	t.Run("short tokens ignored", func(t *testing.T) {
		assert.Empty(t, m.Match("sb me paisa hai"))
	})
}

func TestMatch_Deterministic(t *testing.T) {
	m := newTestMatcher(t)
	text := "turant otp bhejo, lottery jeet gaye, http://bit.ly/abc"

	first := m.Match(text)
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, m.Match(text))
	}
}

func TestRuleCount(t *testing.T) {
	m := newTestMatcher(t)
	assert.Equal(t, 5, m.RuleCount())
}
