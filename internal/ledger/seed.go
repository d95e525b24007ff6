package ledger

import "github.com/shopspring/decimal"

// Seed returns the demonstration state used on first run.
func Seed() State {
	d := decimal.NewFromInt
	return State{
		AvailableBalance: d(2000),
		FutureExpenses: []FutureExpense{
			{Expense: Expense{ID: newID(), Name: "Dog Walker", Amount: d(500)}, DueDay: 3},
			{Expense: Expense{ID: newID(), Name: "Insurance", Amount: d(500)}, DueDay: 15},
		},
		BudgetedExpenses: []BudgetedExpense{
			{Expense: Expense{ID: newID(), Name: "New Shoes", Amount: d(500)}, Used: decimal.Zero},
		},
		PastExpenses: []PastExpense{
			{Expense: Expense{ID: newID(), Name: "Groceries", Amount: d(1000)}, DueDay: 10},
		},
	}
}

// Empty returns a state with no expenses and a zero balance.
func Empty() State {
	return State{
		AvailableBalance: decimal.Zero,
		FutureExpenses:   []FutureExpense{},
		BudgetedExpenses: []BudgetedExpense{},
		PastExpenses:     []PastExpense{},
	}
}
