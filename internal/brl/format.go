package brl

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Placeholder is shown in place of amounts that cannot be displayed.
const Placeholder = "—"

// nbsp separates the currency symbol from the digits.
const nbsp = "\u00a0"

// Format renders v as "R$ 1.234,56". NaN and infinities render as
// Placeholder.
func Format(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Placeholder
	}

	// Round the exact binary value, not its shortest representation, so
	// 1.005 (stored as 1.00499...) becomes 1,00.
	d, err := decimal.NewFromString(strconv.FormatFloat(v, 'f', 20, 64))
	if err != nil {
		return Placeholder
	}
	d = d.Round(2)

	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	whole, frac, _ := strings.Cut(d.StringFixed(2), ".")
	return sign + currencySymbol + nbsp + group(whole) + "," + frac
}

// FormatRate renders a percentage with a decimal comma: 0.65 -> "0,65%".
func FormatRate(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Placeholder
	}
	s := decimal.NewFromFloat(v).String()
	return strings.Replace(s, ".", ",", 1) + "%"
}

func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
