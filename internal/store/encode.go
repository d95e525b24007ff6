package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/theirongolddev/moneymike/internal/ledger"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// ErrMalformed is returned by DecodeState for blobs that are not a ledger.
var ErrMalformed = errors.New("malformed ledger state")

// wireState mirrors ledger.State but also reads the legacy "date" field,
// which older saves used for the due day.
type wireState struct {
	AvailableBalance *decimal.Decimal `json:"availableBalance"`
	FutureExpenses   []wireExpense    `json:"futureExpenses"`
	BudgetedExpenses []wireExpense    `json:"budgetedExpenses"`
	PastExpenses     []wireExpense    `json:"pastExpenses"`
}

type wireExpense struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	DueDay *int            `json:"dueDay"`
	Date   *int            `json:"date"`
	Used   decimal.Decimal `json:"used"`
	Paid   bool            `json:"paid"`
}

func (w wireExpense) day() int {
	switch {
	case w.DueDay != nil:
		return *w.DueDay
	case w.Date != nil:
		return *w.Date
	}
	return 0
}

func (w wireExpense) base() ledger.Expense {
	return ledger.Expense{ID: w.ID, Name: w.Name, Amount: w.Amount}
}

// EncodeState serializes the whole ledger as one JSON object.
func EncodeState(s ledger.State) ([]byte, error) {
	s = s.Clone() // nil collections encode as []
	return json.Marshal(s)
}

// DecodeState parses a blob written by EncodeState or by older versions.
func DecodeState(data []byte) (ledger.State, error) {
	var w wireState
	if err := json.Unmarshal(data, &w); err != nil {
		return ledger.State{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if w.AvailableBalance == nil {
		return ledger.State{}, fmt.Errorf("%w: missing availableBalance", ErrMalformed)
	}

	s := ledger.Empty()
	s.AvailableBalance = *w.AvailableBalance

	for _, e := range w.FutureExpenses {
		day := e.day()
		if day == 0 {
			day = 1
		}
		s.FutureExpenses = append(s.FutureExpenses, ledger.FutureExpense{Expense: e.base(), DueDay: day, Paid: e.Paid})
	}
	for _, e := range w.BudgetedExpenses {
		s.BudgetedExpenses = append(s.BudgetedExpenses, ledger.BudgetedExpense{Expense: e.base(), Used: e.Used, Paid: e.Paid})
	}
	for _, e := range w.PastExpenses {
		s.PastExpenses = append(s.PastExpenses, ledger.PastExpense{Expense: e.base(), DueDay: e.day(), Paid: e.Paid})
	}

	l := ledger.New(s)
	for _, k := range ledger.Kinds {
		seen := make(map[string]struct{}, l.Len(k))
		for _, id := range l.IDs(k) {
			if id == "" {
				return ledger.State{}, fmt.Errorf("%w: %s expense without id", ErrMalformed, k)
			}
			if _, dup := seen[id]; dup {
				return ledger.State{}, fmt.Errorf("%w: duplicate %s id %s", ErrMalformed, k, id)
			}
			seen[id] = struct{}{}
		}
	}
	return s, nil
}
