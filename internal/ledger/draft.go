package ledger

import (
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyName     = errors.New("empty name")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDay    = errors.New("invalid day of month")
)

// Draft is the user input for a new expense. DueDay applies to future and past
// entries, Used only to budgeted ones.
type Draft struct {
	Name   string
	Amount decimal.Decimal
	DueDay int
	Used   decimal.Decimal
}

// Validate reports the first reason Add would decline the draft.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrEmptyName
	}
	if d.Amount.IsNegative() || d.Used.IsNegative() {
		return ErrInvalidAmount
	}
	if d.DueDay < 0 || d.DueDay > 31 {
		return ErrInvalidDay
	}
	return nil
}

// ParseDraft builds a Draft from raw text fields. Empty day and used fields
// fall back to their defaults; an empty amount is an error.
func ParseDraft(name, amount, day, used string) (Draft, error) {
	d := Draft{Name: strings.TrimSpace(name)}

	amt, err := ParseAmount(amount)
	if err != nil {
		return d, err
	}
	d.Amount = amt

	if d.DueDay, err = ParseDay(day); err != nil {
		return d, err
	}

	if strings.TrimSpace(used) != "" {
		if d.Used, err = ParseAmount(used); err != nil {
			return d, err
		}
	}

	return d, d.Validate()
}

// ParseAmount parses a non-negative decimal amount. Both "12.50" and "12,50"
// are accepted.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.Count(s, ".") > 1 {
		return decimal.Zero, ErrInvalidAmount
	}
	v, err := decimal.NewFromString(s)
	if err != nil || v.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}
	return v, nil
}

// ParseBalance parses an available balance. Unlike amounts it may be
// negative, for an overdrawn account.
func ParseBalance(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	v, err := ParseAmount(strings.TrimPrefix(s, "-"))
	if err != nil {
		return decimal.Zero, err
	}
	if neg {
		v = v.Neg()
	}
	return v, nil
}

// ParseDay parses a day of the month. An empty string means unspecified (0).
func ParseDay(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	d, err := strconv.Atoi(s)
	if err != nil || d < 1 || d > 31 {
		return 0, ErrInvalidDay
	}
	return d, nil
}
