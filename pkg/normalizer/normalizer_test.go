package normalizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_CollapsesWhitespace(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"runs of spaces", "a  b   c", "a b c"},
		{"tabs and newlines", "a\tb\nc", "a b c"},
		{"leading and trailing", "  hello world  ", "hello world"},
		{"already canonical", "hello world", "hello world"},
		{"empty", "", ""},
		{"whitespace only", " \t\n ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := Normalize(tt.input)
			assert.Equal(t, tt.expected, n.Canonical)
		})
	}
}

func TestNormalize_FingerprintStability(t *testing.T) {
	a := Normalize("a  b")
	b := Normalize("a b")
	assert.Equal(t, a.Fingerprint, b.Fingerprint, "whitespace-only differences must share a fingerprint")

	upper := Normalize("A   b")
	assert.NotEqual(t, upper.Fingerprint, b.Fingerprint, "case differences must fingerprint differently")

	other := Normalize("a c")
	assert.NotEqual(t, a.Fingerprint, other.Fingerprint)
}

func TestNormalize_FingerprintDeterministic(t *testing.T) {
	text := "aapka account block ho jayega, OTP bhejo"
	first := Normalize(text)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first.Fingerprint, Normalize(text).Fingerprint)
	}
	assert.Len(t, first.Fingerprint, 64)
}

func TestNormalize_FoldedLowercases(t *testing.T) {
	n := Normalize("URGENT: Verify Your KYC")
	assert.Equal(t, "urgent: verify your kyc", n.Folded)
	assert.Equal(t, "URGENT: Verify Your KYC", n.Canonical)
}

func TestNormalize_ScriptDetection(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"english only", "your account is blocked", ScriptEnglish},
		{"hindi only", "आपका खाता बंद हो जाएगा", ScriptHindi},
		{"code mixed", "aapka खाता block ho jayega", ScriptMixed},
		{"digits and punctuation", "1234 !!", ScriptUnknown},
		{"empty", "", ScriptUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input).Script)
		})
	}
}

func TestNormalize_EmptyInput(t *testing.T) {
	n := Normalize("   ")
	assert.True(t, n.Empty())
	assert.Equal(t, "", n.Folded)
}

func TestNormalize_LongInput(t *testing.T) {
	long := strings.Repeat("lottery jeet gaye ", 300)
	n := Normalize(long)
	assert.False(t, n.Empty())
	assert.Len(t, n.Fingerprint, 64)
}
