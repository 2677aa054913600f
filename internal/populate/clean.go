package populate

import (
	"regexp"
	"strings"
)

// concentrationPhrases are stripped from incoming names, longest first so
// "eau de parfum" is removed before "parfum" could leave "eau de" behind.
//
//nolint:gochecknoglobals
var concentrationPhrases = []string{
	"eau de toilette", "eau de parfum", "eau de cologne", "extrait de parfum",
	"parfum", "cologne", "elixir", "edt", "edp", "edc",
}

//nolint:gochecknoglobals
var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// CleanName strips redundancy from an externally-sourced product name:
// the brand as a leading or trailing phrase, embedded release years, and
// concentration markers. External catalogs ship names like
// "Dior Sauvage Eau de Toilette 2015"; locally we store "Sauvage" and keep
// brand, year, and concentration in their own fields.
//
// Returns the original name when cleaning would leave nothing, since a name
// consisting only of the brand ("Chanel" by Chanel) is still a valid name.
func CleanName(name, brand string) string {
	cleaned := strings.TrimSpace(name)
	if cleaned == "" {
		return cleaned
	}

	lower := strings.ToLower(cleaned)
	b := strings.ToLower(strings.TrimSpace(brand))

	if b != "" {
		if strings.HasPrefix(lower, b+" ") {
			cleaned = strings.TrimSpace(cleaned[len(b):])
		} else if strings.HasSuffix(lower, " "+b) {
			cleaned = strings.TrimSpace(cleaned[:len(cleaned)-len(b)])
		}
	}

	cleaned = yearPattern.ReplaceAllString(cleaned, " ")

	lower = strings.ToLower(cleaned)
	for _, phrase := range concentrationPhrases {
		idx := phraseIndex(lower, phrase)
		if idx < 0 {
			continue
		}
		cleaned = cleaned[:idx] + " " + cleaned[idx+len(phrase):]
		lower = strings.ToLower(cleaned)
	}

	cleaned = strings.Join(strings.Fields(cleaned), " ")
	cleaned = strings.Trim(cleaned, "-– ")

	if cleaned == "" {
		return strings.TrimSpace(name)
	}
	return cleaned
}

// phraseIndex finds phrase in s at word boundaries, -1 if absent.
// Plain strings.Index would butcher words: "edt" is inside "meditation".
func phraseIndex(s, phrase string) int {
	start := 0
	for {
		idx := strings.Index(s[start:], phrase)
		if idx < 0 {
			return -1
		}
		idx += start

		boundedLeft := idx == 0 || s[idx-1] == ' '
		end := idx + len(phrase)
		boundedRight := end == len(s) || s[end] == ' '
		if boundedLeft && boundedRight {
			return idx
		}
		start = idx + 1
	}
}
