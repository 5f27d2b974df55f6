package normalize

import (
	"strings"
	"unicode"
)

// gazetteer is the fixed list of city names used for fuzzy
// correction of misspelled inputs.
var gazetteer = []string{
	"Mumbai", "Delhi", "Bengaluru", "Bangalore", "Hyderabad", "Ahmedabad", "Chennai", "Kolkata", "Surat", "Pune",
	"Jaipur", "Lucknow", "Kanpur", "Nagpur", "Indore", "Thane", "Bhopal", "Visakhapatnam", "Patna", "Vadodara",
	"Ghaziabad", "Ludhiana", "Agra", "Nashik", "Faridabad", "Meerut", "Rajkot", "Kalyan", "Vasai", "Srinagar",
	"Aurangabad", "Dhanbad", "Amritsar", "Navi Mumbai", "Allahabad", "Prayagraj", "Ranchi", "Howrah", "Coimbatore",
	"Jabalpur", "Gwalior", "Vijayawada", "Jodhpur", "Madurai", "Raipur", "Kota", "Chandigarh", "Guwahati",
	"Solapur", "Hubli", "Dharwad", "Bareilly", "Moradabad", "Mysuru", "Mysore", "Gurugram", "Gurgaon",
	"Aligarh", "Jalandhar", "Tiruchirappalli", "Bhubaneswar", "Salem", "Warangal", "Mira Bhayandar", "Thiruvananthapuram",
	"Trivandrum", "Bhiwandi", "Saharanpur", "Gorakhpur", "Bikaner", "Amravati", "Noida", "Jamshedpur", "Bhilai",
	"Cuttack", "Firozabad", "Kochi", "Ernakulam", "Nellore", "Bhavnagar", "Dehradun", "Durgapur", "Asansol",
	"Rourkela", "Nanded", "Kolhapur", "Ajmer", "Akola", "Gulbarga", "Belgaum", "Jamnagar", "Ujjain", "Loni",
	"Siliguri", "Jhansi", "Ulhasnagar", "Jammu", "Sangli", "Mangalore", "Erode", "Tirunelveli", "Muzaffarpur", "Udaipur",
	"Rohtak", "Karnal", "Panipat", "Rohini", "Dwarka", "Greater Noida",
}

// cityAliases maps common alternate spellings to the canonical
// administrative name. Lookups are case-insensitive.
var cityAliases = map[string]string{
	"bangalore":  "Bengaluru",
	"gurgaon":    "Gurugram",
	"trivandrum": "Thiruvananthapuram",
	"prayagraj":  "Prayagraj",
}

const cityMatchCutoff = 0.75

// City resolves free-form city text to a canonical name. Resolution
// tiers: alias table hit, then fuzzy match against the gazetteer with
// a similarity cutoff, then a title-cased pass-through of the input.
// Unlike blood-type normalization this never fails: an unrecognized
// city still becomes a usable, if unverified, value.
func City(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if canonical, ok := cityAliases[strings.ToLower(s)]; ok {
		return canonical
	}
	if match, ok := closestCity(s); ok {
		// The gazetteer keeps alternate spellings so that typos of
		// those still resolve; fold them to the canonical name.
		if canonical, ok := cityAliases[strings.ToLower(match)]; ok {
			return canonical
		}
		return match
	}
	return titleCase(s)
}

// closestCity returns the best gazetteer entry scoring at or above the
// cutoff, comparing case-insensitively.
func closestCity(s string) (string, bool) {
	lower := strings.ToLower(s)
	best := ""
	bestScore := 0.0
	for _, city := range gazetteer {
		score := similarity(lower, strings.ToLower(city))
		if score >= cityMatchCutoff && score > bestScore {
			best = city
			bestScore = score
		}
	}
	return best, best != ""
}

// similarity computes the matching-blocks ratio 2*M/T, where M is the
// number of characters covered by recursively taken longest common
// substrings and T the combined length.
func similarity(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	m := matchingChars(a, b)
	return 2 * float64(m) / float64(len(a)+len(b))
}

func matchingChars(a, b string) int {
	ai, bi, size := longestCommonSubstring(a, b)
	if size == 0 {
		return 0
	}
	return size +
		matchingChars(a[:ai], b[:bi]) +
		matchingChars(a[ai+size:], b[bi+size:])
}

func longestCommonSubstring(a, b string) (ai, bi, size int) {
	// lengths[j] holds the run length ending at a[i-1], b[j-1].
	lengths := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		prev := 0
		for j := 1; j <= len(b); j++ {
			cur := lengths[j]
			if a[i-1] == b[j-1] {
				lengths[j] = prev + 1
				if lengths[j] > size {
					size = lengths[j]
					ai = i - size
					bi = j - size
				}
			} else {
				lengths[j] = 0
			}
			prev = cur
		}
	}
	return ai, bi, size
}

// titleCase upper-cases the first letter of each space-separated word
// and lower-cases the rest.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
