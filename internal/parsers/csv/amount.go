package csv

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

var currencySuffix = regexp.MustCompile(`(USD|ARS)$`)

// ParseAmount parses a locale-formatted amount.
// Handles "10,50", "1.234,56", "1234.56" and "US$ 1.234,56". The export uses ',' as the
// decimal separator, so a lone ',' is always decimal and a lone '.' followed by exactly
// three digits is a thousands separator.
func ParseAmount(value string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty amount value")
	}

	cleaned = strings.Map(func(r rune) rune {
		if r == '$' || r == ' ' || r == '\u00A0' {
			return -1
		}
		return r
	}, strings.ToUpper(cleaned))
	cleaned = currencySuffix.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimPrefix(cleaned, "US")
	cleaned = strings.TrimPrefix(cleaned, "U")

	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("no numeric value found")
	}

	lastDot := strings.LastIndex(cleaned, ".")
	lastComma := strings.LastIndex(cleaned, ",")

	switch {
	case lastComma > lastDot:
		// 1.234,56 -> comma is decimal
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	case lastDot > lastComma && lastComma >= 0:
		// 1,234.56
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	case lastDot >= 0 && strings.Count(cleaned, ".") > 1:
		// 1.234.567
		cleaned = strings.ReplaceAll(cleaned, ".", "")
	case lastDot >= 0 && len(cleaned)-lastDot-1 == 3:
		// 1.234
		cleaned = strings.ReplaceAll(cleaned, ".", "")
	}

	hasDigit := false
	for _, r := range cleaned {
		if unicode.IsDigit(r) {
			hasDigit = true
			break
		}
	}
	if !hasDigit {
		return decimal.Zero, fmt.Errorf("no digits found in %q", value)
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount format %q: %w", value, err)
	}
	return d, nil
}

// FormatAmount formats an amount with ',' as decimal separator (e.g. 1299.5 -> "1299,50")
func FormatAmount(d decimal.Decimal) string {
	return strings.ReplaceAll(d.StringFixed(2), ".", ",")
}

// parseLeadingInt mimics a lenient integer parse: leading digits are used and the rest is
// ignored ("30 dias" -> 30). ok is false when there is no leading digit.
func parseLeadingInt(value string) (n int, ok bool) {
	s := strings.TrimSpace(value)
	neg := false
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		neg = s[0] == '-'
		s = s[1:]
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
		ok = true
	}
	if neg {
		n = -n
	}
	return n, ok
}
