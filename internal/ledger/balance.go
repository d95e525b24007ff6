package ledger

import "github.com/shopspring/decimal"

// ActualBalance is what is left of available once unpaid future expenses and
// the unspent part of unpaid budgets are set aside. Past expenses are already
// part of available and do not count.
func ActualBalance(available decimal.Decimal, future []FutureExpense, budget []BudgetedExpense) decimal.Decimal {
	return available.Sub(UnpaidFuture(future)).Sub(RemainingBudget(budget))
}

// UnpaidFuture sums the amounts of future expenses not yet paid.
func UnpaidFuture(future []FutureExpense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range future {
		if !e.Paid {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// RemainingBudget sums amount minus used over budgets not yet paid.
func RemainingBudget(budget []BudgetedExpense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range budget {
		if !e.Paid {
			total = total.Add(e.Remaining())
		}
	}
	return total
}

// Breakdown holds the terms of the actual balance for display.
type Breakdown struct {
	Available       decimal.Decimal
	UnpaidFuture    decimal.Decimal
	RemainingBudget decimal.Decimal
	Actual          decimal.Decimal
}

// Breakdown computes the actual balance of s together with its terms.
func (s State) Breakdown() Breakdown {
	b := Breakdown{
		Available:       s.AvailableBalance,
		UnpaidFuture:    UnpaidFuture(s.FutureExpenses),
		RemainingBudget: RemainingBudget(s.BudgetedExpenses),
	}
	b.Actual = b.Available.Sub(b.UnpaidFuture).Sub(b.RemainingBudget)
	return b
}

// Breakdown is recomputed from the current state on every call.
func (l *Ledger) Breakdown() Breakdown {
	return l.s.Breakdown()
}

// ActualBalance is a shorthand for Breakdown().Actual.
func (l *Ledger) ActualBalance() decimal.Decimal {
	return ActualBalance(l.s.AvailableBalance, l.s.FutureExpenses, l.s.BudgetedExpenses)
}

// Standing classifies the actual balance.
type Standing int

const (
	// Behind means obligations meet or exceed the available balance.
	Behind Standing = iota
	// Ahead means money is left over after every obligation.
	Ahead
)

// StandingOf maps an actual balance to a Standing. Zero counts as behind.
func StandingOf(actual decimal.Decimal) Standing {
	if actual.IsPositive() {
		return Ahead
	}
	return Behind
}

// Message is the banner shown above the balance.
func (s Standing) Message() string {
	if s == Ahead {
		return "You're doing a great job!"
	}
	return "Slow down. Don't spend money."
}
