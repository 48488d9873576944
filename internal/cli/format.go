// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"math"
	"strconv"

	"github.com/theirongolddev/iceplan/internal/budget"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatMoney formats a currency amount with grouping and two decimals.
// e.g., 18450.75 -> "$18,450.75"
func FormatMoney(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "$0.00"
	}
	if v < 0 {
		return "-" + FormatMoney(-v)
	}
	return printer.Sprintf("$%.2f", v)
}

// FormatAmount formats a plain numeric input, dropping a zero fraction.
// e.g., 50 -> "50", 42.5 -> "42.5", 1200 -> "1,200"
func FormatAmount(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return FormatNumber(int64(v))
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatPercent formats percentage points, e.g. 2 -> "2%", 2.9 -> "2.9%".
func FormatPercent(points float64) string {
	return strconv.FormatFloat(points, 'f', -1, 64) + "%"
}

// FieldFormatter picks how a budget field's value is displayed.
func FieldFormatter(f budget.Field) func(float64) string {
	switch f {
	case budget.FieldIceCost, budget.FieldCoachCost, budget.FieldJerseyCost, budget.FieldFixedFee:
		return FormatMoney
	case budget.FieldFeePercent:
		return FormatPercent
	default:
		return FormatAmount
	}
}
