package categorize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Words that appear in bank descriptions but never identify a merchant.
var noiseWords = map[string]struct{}{
	"payment": {}, "transaction": {}, "ref": {}, "reference": {}, "id": {},
	"nr": {}, "number": {}, "store": {}, "shop": {}, "market": {},
	"supermarket": {}, "retail": {}, "online": {}, "purchase": {}, "sale": {},
	"buy": {}, "order": {}, "invoice": {}, "bill": {}, "debit": {},
	"credit": {}, "card": {}, "terminal": {}, "pos": {},
	"the": {}, "and": {}, "or": {}, "at": {}, "in": {}, "on": {}, "to": {},
	"from": {}, "for": {},
	"ab": {}, "ltd": {}, "inc": {}, "llc": {}, "corp": {}, "co": {},
	"company": {}, "kortköp": {},
}

var (
	dateRe    = regexp.MustCompile(`\d+[-/]\d+[-/]\d+`)
	timeRe    = regexp.MustCompile(`\d+:\d+`)
	digitsRe  = regexp.MustCompile(`\d+`)
	// Letters beyond ASCII must survive; Go's \w would drop "ö" and friends.
	symbolsRe = regexp.MustCompile(`[^\p{L}\p{N}\s-]`)
	spacesRe  = regexp.MustCompile(`\s+`)
)

// maxFallbackLen caps the fallback keyword taken from the raw description.
const maxFallbackLen = 20

// SuggestPattern extracts a single representative keyword from a transaction
// description, typically the merchant name. It is a pure function of its
// input: the same description always yields the same keyword.
func SuggestPattern(description string) string {
	cleaned := strings.ToLower(description)
	cleaned = dateRe.ReplaceAllString(cleaned, "")
	cleaned = timeRe.ReplaceAllString(cleaned, "")
	cleaned = digitsRe.ReplaceAllString(cleaned, "")
	cleaned = symbolsRe.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(spacesRe.ReplaceAllString(cleaned, " "))

	for _, word := range strings.Split(cleaned, " ") {
		if utf8.RuneCountInString(word) < 3 {
			continue
		}
		if _, noisy := noiseWords[word]; noisy {
			continue
		}
		return word
	}

	// Nothing survived filtering; fall back to the first raw token.
	fields := strings.FieldsFunc(description, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsDigit(r)
	})
	if len(fields) == 0 {
		return ""
	}
	first := strings.ToLower(fields[0])
	if runes := []rune(first); len(runes) > maxFallbackLen {
		first = string(runes[:maxFallbackLen])
	}
	return first
}
