package services

import (
	"fmt"
	"strings"
)

// FormatCurrency formats an amount for display in the document currency,
// e.g. $1,234,567.89 or C$1,234.56. The result always carries exactly 2
// decimal places.
func FormatCurrency(amount float64, currency Currency) string {
	negative := false
	if amount < 0 {
		negative = true
		amount = -amount
	}

	raw := fmt.Sprintf("%.2f", amount)
	parts := strings.SplitN(raw, ".", 2)
	intPart := parts[0]
	decPart := parts[1]

	symbol := "$"
	if currency == CurrencyCAD {
		symbol = "C$"
	}

	result := symbol + groupThousands(intPart) + "." + decPart
	if negative {
		result = "-" + result
	}
	return result
}

// FormatLineAmount renders one computed line's amount. Included-in-scope
// lines show the literal word INCLUDED instead of a currency value.
func FormatLineAmount(line ComputedLine, currency Currency) string {
	if line.IsIncluded {
		return "INCLUDED"
	}
	return FormatCurrency(line.Price, currency)
}

// groupThousands inserts commas every 3 digits from the right.
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	result := s[n-3:]
	remaining := s[:n-3]
	for len(remaining) > 3 {
		result = remaining[len(remaining)-3:] + "," + result
		remaining = remaining[:len(remaining)-3]
	}
	return remaining + "," + result
}
