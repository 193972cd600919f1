package entities

import "strings"

var onesWords = []string{
	"zero", "one", "two", "three", "four", "five", "six", "seven", "eight",
	"nine", "ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen",
	"sixteen", "seventeen", "eighteen", "nineteen",
}

var tensWords = []string{
	"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy",
	"eighty", "ninety",
}

// NumberToWords renders a non-negative count the way officers write it on
// paper sheets, e.g. 210 -> "two hundred and ten".
func NumberToWords(n int64) string {
	if n < 0 {
		return ""
	}
	if n < 20 {
		return onesWords[n]
	}
	if n < 100 {
		word := tensWords[n/10]
		if n%10 != 0 {
			word += "-" + onesWords[n%10]
		}
		return word
	}
	if n < 1000 {
		word := onesWords[n/100] + " hundred"
		if n%100 != 0 {
			word += " and " + NumberToWords(n%100)
		}
		return word
	}
	for _, scale := range []struct {
		value int64
		name  string
	}{
		{1_000_000_000, "billion"},
		{1_000_000, "million"},
		{1_000, "thousand"},
	} {
		if n >= scale.value {
			word := NumberToWords(n/scale.value) + " " + scale.name
			rest := n % scale.value
			if rest == 0 {
				return word
			}
			if rest < 100 {
				return word + " and " + NumberToWords(rest)
			}
			return word + " " + NumberToWords(rest)
		}
	}
	return onesWords[0]
}

// WordsMatch compares a hand-written tally against the numeric count,
// tolerating case, hyphenation, "and" joiners and extra whitespace.
// Empty words are not a mismatch; the cross-check is optional.
func WordsMatch(words string, votes int64) bool {
	if strings.TrimSpace(words) == "" {
		return true
	}
	return normalizeWords(words) == normalizeWords(NumberToWords(votes))
}

func normalizeWords(words string) string {
	words = strings.ToLower(words)
	words = strings.ReplaceAll(words, "-", " ")
	fields := strings.Fields(words)
	kept := fields[:0]
	for _, field := range fields {
		if field == "and" {
			continue
		}
		kept = append(kept, field)
	}
	return strings.Join(kept, " ")
}
