package normalizer

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const (
	ScriptHindi   = "hindi"
	ScriptEnglish = "english"
	ScriptMixed   = "mixed"
	ScriptUnknown = "unknown"
)

// Normalized carries every derived view of one input text. Canonical keeps the
// original casing so the fingerprint distinguishes "OTP" from "otp"; Folded is
// what the matcher consumes.
type Normalized struct {
	Raw         string
	Canonical   string
	Folded      string
	Fingerprint string
	Script      string
}

// Normalize canonicalizes raw input and derives its cache fingerprint.
// Canonicalization is NFC followed by collapsing whitespace runs to single
// spaces and trimming. The fingerprint is the SHA-256 of the canonical form,
// so texts differing only in incidental whitespace share a fingerprint while
// any casing or content difference yields a distinct one. Pure, no I/O.
func Normalize(raw string) Normalized {
	canonical := collapseWhitespace(norm.NFC.String(raw))

	sum := sha256.Sum256([]byte(canonical))

	return Normalized{
		Raw:         raw,
		Canonical:   canonical,
		Folded:      strings.ToLower(canonical),
		Fingerprint: hex.EncodeToString(sum[:]),
		Script:      detectScript(canonical),
	}
}

func (n Normalized) Empty() bool {
	return n.Canonical == ""
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// detectScript classifies the writing system of the text. Devanagari runes
// mark Hindi, basic Latin marks English, both together mark code-mixed text.
func detectScript(s string) string {
	var devanagari, latin bool
	for _, r := range s {
		switch {
		case unicode.Is(unicode.Devanagari, r):
			devanagari = true
		case unicode.Is(unicode.Latin, r):
			latin = true
		}
		if devanagari && latin {
			return ScriptMixed
		}
	}
	switch {
	case devanagari:
		return ScriptHindi
	case latin:
		return ScriptEnglish
	default:
		return ScriptUnknown
	}
}
