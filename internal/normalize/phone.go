package normalize

import "strings"

// Phone reduces a phone number to bare digits. Numbers with ten or
// more digits keep only the last ten (national-number heuristic for a
// single-country deployment); shorter inputs are returned as-is. It
// reports false when no digits survive.
func Phone(raw string) (string, bool) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if d == "" {
		return "", false
	}
	if len(d) >= 10 {
		return d[len(d)-10:], true
	}
	return d, true
}
