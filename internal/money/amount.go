// Package money normalizes locale-ambiguous monetary strings into canonical
// float values.
//
// Bank exports disagree on whether "," or "." is the decimal separator.
// ParseAmount resolves the ambiguity heuristically: when both separators are
// present, the one appearing last in the string is the decimal point; when
// only a comma is present, a short fractional tail means it is the decimal
// point, otherwise all commas are thousands grouping. A comma followed by a
// 3-digit tail is inherently ambiguous between European decimals ("1,234" as
// one point two three four) and US grouping (one thousand two hundred
// thirty-four); the heuristic picks the decimal reading. This is a documented
// limitation, not a bug to fix silently.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hearthfin/hearth/internal/common"
)

// currencyRunes are stripped before parsing. "k" and "r" cover the Nordic
// krona/krone notations (kr, SEK-style suffixes).
const currencyRunes = "$£€¥₹kKrR"

// ParseAmount converts a raw monetary string such as "1.234,56 kr" or
// "$1,234.56" into its signed numeric value. It fails with
// common.ErrInvalidAmount when no parseable number remains after
// normalization.
func ParseAmount(raw string) (float64, error) {
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(currencyRunes, r) {
			return -1
		}
		return r
	}, raw)
	cleaned = strings.Join(strings.Fields(cleaned), "")

	hasComma := strings.Contains(cleaned, ",")
	hasPeriod := strings.Contains(cleaned, ".")

	switch {
	case hasComma && hasPeriod:
		// The separator appearing last is the decimal point; the other is
		// thousands grouping.
		if strings.LastIndex(cleaned, ",") > strings.LastIndex(cleaned, ".") {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case hasComma:
		parts := strings.Split(cleaned, ",")
		if len(parts) == 2 && len(parts[1]) <= 3 {
			// Likely a decimal separator: 3418,00
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			// Likely thousands grouping: 1,234,567
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", common.ErrInvalidAmount, raw)
	}

	f, _ := d.Float64()
	return f, nil
}
