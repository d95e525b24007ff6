// Package ledger holds the budget model: the three expense collections, the
// available balance, and the derived actual balance.
package ledger

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind selects one of the three expense collections.
type Kind int

const (
	Future Kind = iota
	Budget
	Past
)

// Kinds lists every collection in display order.
var Kinds = []Kind{Future, Budget, Past}

func (k Kind) String() string {
	switch k {
	case Future:
		return "future"
	case Budget:
		return "budget"
	case Past:
		return "past"
	}
	return "unknown"
}

// Title is the heading used when a collection is rendered.
func (k Kind) Title() string {
	switch k {
	case Future:
		return "Future Expenses"
	case Budget:
		return "Budgeted Expenses"
	case Past:
		return "Past Expenses"
	}
	return ""
}

// Payable reports whether entries of this kind can be marked as paid.
func (k Kind) Payable() bool {
	return k == Future || k == Budget
}

// ErrUnknownKind is returned by ParseKind for anything but future, budget or past.
var ErrUnknownKind = errors.New("unknown expense kind")

// ParseKind maps a user-supplied collection name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "future":
		return Future, nil
	case "budget", "budgeted":
		return Budget, nil
	case "past":
		return Past, nil
	}
	return 0, ErrUnknownKind
}

// Expense is the shape shared by every collection.
type Expense struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// FutureExpense is an upcoming obligation due on a day of the month.
type FutureExpense struct {
	Expense
	DueDay int  `json:"dueDay"`
	Paid   bool `json:"paid"`
}

// Settle turns a paid future expense into its past record. The id is kept.
func (f FutureExpense) Settle() PastExpense {
	return PastExpense{
		Expense: f.Expense,
		DueDay:  f.DueDay,
		Paid:    true,
	}
}

// BudgetedExpense is an allowance that is spent down through Used.
type BudgetedExpense struct {
	Expense
	Used decimal.Decimal `json:"used"`
	Paid bool            `json:"paid"`
}

// Remaining is amount minus used. It goes negative when the budget is overspent.
func (b BudgetedExpense) Remaining() decimal.Decimal {
	return b.Amount.Sub(b.Used)
}

// PastExpense is a historical record, already reflected in the available balance.
type PastExpense struct {
	Expense
	DueDay int  `json:"dueDay,omitempty"`
	Paid   bool `json:"paid,omitempty"`
}
