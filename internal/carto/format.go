package carto

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatGrouped formats v with thousands separators and at most one decimal,
// dropping a trailing ".0" (e.g. 25000 -> "25,000", 1234.56 -> "1,234.6").
func FormatGrouped(v float64) string {
	s := printer.Sprintf("%.1f", v)
	return strings.TrimSuffix(s, ".0")
}

// FormatFixed formats v with exactly n decimals and no grouping.
func FormatFixed(v float64, n int) string {
	return strconv.FormatFloat(v, 'f', n, 64)
}
