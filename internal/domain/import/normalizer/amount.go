// Package normalizer converts locale-formatted statement cells into canonical values:
// decimal amounts, calendar dates and cleaned descriptions.
package normalizer

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Currency marks that appear glued to amounts in statement exports.
var currencyMarks = []string{"MNT", "төг", "₮", "$", "€", "£", "₽", "¥", "USD", "EUR"}

var numericCell = regexp.MustCompile(`^[\d,.\s]+$`)

// ParseAmount parses "20,000.00" style amounts. Thousands commas, whitespace
// (including NBSP) and currency marks are dropped. Empty or malformed input
// yields zero; this never fails.
func ParseAmount(s string) decimal.Decimal {
	d, err := ParseAmountStrict(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseAmountStrict is ParseAmount but reports malformed input.
func ParseAmountStrict(s string) (decimal.Decimal, error) {
	cleaned := cleanAmount(s)
	if cleaned == "" {
		return decimal.Zero, errEmptyAmount
	}
	return decimal.NewFromString(cleaned)
}

func cleanAmount(s string) string {
	for _, mark := range currencyMarks {
		s = strings.ReplaceAll(s, mark, "")
	}
	return strings.Map(func(r rune) rune {
		if r == ',' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// IsNumeric reports whether a cell holds only digits, separators and spaces.
func IsNumeric(s string) bool {
	return numericCell.MatchString(s)
}
