package normalize

import (
	"regexp"
	"strings"
)

// canonical ABO/Rh codes accepted by the rest of the system.
var bloodGroups = map[string]struct{}{
	"A+": {}, "A-": {}, "B+": {}, "B-": {},
	"AB+": {}, "AB-": {}, "O+": {}, "O-": {},
}

// bloodSynonyms maps spelled-out and fused forms to canonical codes.
// Keys are matched after collapsing "+"/"-" to " POS"/" NEG" tokens.
var bloodSynonyms = map[string]string{
	"A POS": "A+", "A POSITIVE": "A+", "A PLUS": "A+",
	"A NEG": "A-", "A NEGATIVE": "A-",
	"B POS": "B+", "B POSITIVE": "B+",
	"B NEG": "B-", "B NEGATIVE": "B-",
	"AB POS": "AB+", "AB POSITIVE": "AB+",
	"AB NEG": "AB-", "AB NEGATIVE": "AB-",
	"O POS": "O+", "O POSITIVE": "O+", "O PLUS": "O+",
	"O NEG": "O-", "O NEGATIVE": "O-",
	"APOS": "A+", "ANEG": "A-", "BPOS": "B+", "BNEG": "B-",
	"ABPOS": "AB+", "ABNEG": "AB-", "OPOS": "O+", "ONEG": "O-",
}

var (
	spaceRun      = regexp.MustCompile(`\s+`)
	nonBloodChars = regexp.MustCompile(`[^A-Z+-]`)
)

// BloodType canonicalizes free-form blood-group text ("o pos",
// "AB Negative", "b +") into one of the eight ABO/Rh codes. It reports
// false when the input cannot be resolved; callers must then treat the
// field as still missing. Canonical input passes through unchanged.
func BloodType(raw string) (string, bool) {
	if strings.TrimSpace(raw) == "" {
		return "", false
	}
	upper := strings.ToUpper(raw)

	// Exact match once whitespace is gone.
	t := stripSpaces(strings.TrimSpace(upper))
	if _, ok := bloodGroups[t]; ok {
		return t, true
	}

	// Re-space around the sign words and symbols, then collapse.
	respaced := strings.NewReplacer(
		"POSITIVE", " POSITIVE",
		"NEGATIVE", " NEGATIVE",
		"+", " +",
		"-", " -",
	).Replace(upper)
	t = stripSpaces(respaced)
	if _, ok := bloodGroups[t]; ok {
		return t, true
	}

	// Synonym table with signs rewritten as POS/NEG tokens.
	tokens := strings.ReplaceAll(strings.ReplaceAll(upper, "-", " NEG"), "+", " POS")
	tokens = strings.TrimSpace(spaceRun.ReplaceAllString(tokens, " "))
	if code, ok := bloodSynonyms[tokens]; ok {
		return code, true
	}

	// Last resort: drop everything that cannot be part of a code.
	t = nonBloodChars.ReplaceAllString(upper, "")
	if _, ok := bloodGroups[t]; ok {
		return t, true
	}
	return "", false
}

func stripSpaces(s string) string {
	return spaceRun.ReplaceAllString(s, "")
}
