// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when the configured code is unknown.
const DefaultCurrency = "ZAR"

// FormatAmount renders a decimal amount in the given ISO currency,
// e.g. 1234.5 USD -> "$1,234.50". Unknown codes fall back to DefaultCurrency.
func FormatAmount(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(strings.ToUpper(currency))
	if cur == nil {
		cur = money.GetCurrency(DefaultCurrency)
	}

	factor := decimal.New(1, int32(cur.Fraction))
	minor := amount.Mul(factor).Round(0)
	return money.New(minor.IntPart(), cur.Code).Display()
}

// FormatDay renders a day of the month as an ordinal, e.g. 3 -> "3rd".
// Zero means no day and renders as "-".
func FormatDay(day int) string {
	if day <= 0 {
		return "-"
	}
	return humanize.Ordinal(day)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}

// FormatAge renders how long ago t was, e.g. "3 minutes ago".
// The zero time renders as "never".
func FormatAge(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.0f%%", f*100)
}

// shortIDLen is the default number of id characters shown.
const shortIDLen = 8

// ShortID returns the first 8 characters of an id, enough to address it.
func ShortID(id string) string {
	return ShortIDWidth(id, shortIDLen)
}

// ShortIDWidth returns the first w characters of an id.
func ShortIDWidth(id string, w int) string {
	if len(id) <= w {
		return id
	}
	return id[:w]
}

// IDWidth returns the shortest prefix length, never below 8, at which every
// id in ids is distinct.
func IDWidth(ids []string) int {
	longest := 0
	for _, id := range ids {
		longest = max(longest, len(id))
	}

	for w := shortIDLen; w < longest; w++ {
		seen := make(map[string]bool, len(ids))
		distinct := true
		for _, id := range ids {
			p := ShortIDWidth(id, w)
			if seen[p] {
				distinct = false
				break
			}
			seen[p] = true
		}
		if distinct {
			return w
		}
	}
	return max(longest, shortIDLen)
}

// UsedRatio returns used/amount. A zero amount counts as fully used when
// anything was spent.
func UsedRatio(used, amount decimal.Decimal) float64 {
	if !amount.IsPositive() {
		if used.IsPositive() {
			return 1
		}
		return 0
	}
	return used.Div(amount).InexactFloat64()
}

// UsedFraction is UsedRatio clamped to [0, 1].
func UsedFraction(used, amount decimal.Decimal) float64 {
	f := UsedRatio(used, amount)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
