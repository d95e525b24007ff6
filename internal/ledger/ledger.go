package ledger

import (
	"errors"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// newID is swapped in tests that need deterministic ids.
var newID = uuid.NewString

var (
	ErrNoMatch   = errors.New("no matching expense")
	ErrAmbiguous = errors.New("ambiguous expense id")
)

// State is the full ledger: what gets persisted and what readers see.
type State struct {
	AvailableBalance decimal.Decimal   `json:"availableBalance"`
	FutureExpenses   []FutureExpense   `json:"futureExpenses"`
	BudgetedExpenses []BudgetedExpense `json:"budgetedExpenses"`
	PastExpenses     []PastExpense     `json:"pastExpenses"`
}

// Clone returns a copy that shares no slices with s.
func (s State) Clone() State {
	return State{
		AvailableBalance: s.AvailableBalance,
		FutureExpenses:   append([]FutureExpense{}, s.FutureExpenses...),
		BudgetedExpenses: append([]BudgetedExpense{}, s.BudgetedExpenses...),
		PastExpenses:     append([]PastExpense{}, s.PastExpenses...),
	}
}

// Equal compares two states field by field, using numeric equality for amounts.
func (s State) Equal(o State) bool {
	if !s.AvailableBalance.Equal(o.AvailableBalance) {
		return false
	}
	return slices.EqualFunc(s.FutureExpenses, o.FutureExpenses, func(a, b FutureExpense) bool {
		return sameExpense(a.Expense, b.Expense) && a.DueDay == b.DueDay && a.Paid == b.Paid
	}) && slices.EqualFunc(s.BudgetedExpenses, o.BudgetedExpenses, func(a, b BudgetedExpense) bool {
		return sameExpense(a.Expense, b.Expense) && a.Used.Equal(b.Used) && a.Paid == b.Paid
	}) && slices.EqualFunc(s.PastExpenses, o.PastExpenses, func(a, b PastExpense) bool {
		return sameExpense(a.Expense, b.Expense) && a.DueDay == b.DueDay && a.Paid == b.Paid
	})
}

func sameExpense(a, b Expense) bool {
	return a.ID == b.ID && a.Name == b.Name && a.Amount.Equal(b.Amount)
}

// Ledger owns the expense collections. It is not safe for concurrent use;
// callers mutate it from a single goroutine.
type Ledger struct {
	s State
}

// New returns a ledger initialized from a copy of s.
func New(s State) *Ledger {
	return &Ledger{s: s.Clone()}
}

// Snapshot returns a deep copy of the current state.
func (l *Ledger) Snapshot() State {
	return l.s.Clone()
}

// SetAvailable replaces the recorded bank balance.
func (l *Ledger) SetAvailable(v decimal.Decimal) {
	l.s.AvailableBalance = v
}

// Len returns the number of entries in a collection.
func (s State) Len(k Kind) int {
	switch k {
	case Future:
		return len(s.FutureExpenses)
	case Budget:
		return len(s.BudgetedExpenses)
	case Past:
		return len(s.PastExpenses)
	}
	return 0
}

// Len returns the number of entries in a collection.
func (l *Ledger) Len(k Kind) int {
	return l.s.Len(k)
}

// IDs returns the ids of a collection in display order.
func (s State) IDs(k Kind) []string {
	var ids []string
	switch k {
	case Future:
		for _, e := range s.FutureExpenses {
			ids = append(ids, e.ID)
		}
	case Budget:
		for _, e := range s.BudgetedExpenses {
			ids = append(ids, e.ID)
		}
	case Past:
		for _, e := range s.PastExpenses {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// IDs returns the ids of a collection in display order.
func (l *Ledger) IDs(k Kind) []string {
	return l.s.IDs(k)
}

// Add appends a new entry built from d to the collection k and returns its id.
// Invalid drafts are declined without touching the state.
func (l *Ledger) Add(k Kind, d Draft) (string, bool) {
	if d.Validate() != nil {
		return "", false
	}

	base := Expense{
		ID:     l.freshID(k),
		Name:   strings.TrimSpace(d.Name),
		Amount: d.Amount,
	}

	switch k {
	case Future:
		day := d.DueDay
		if day == 0 {
			day = 1
		}
		l.s.FutureExpenses = append(l.s.FutureExpenses, FutureExpense{Expense: base, DueDay: day})
	case Budget:
		l.s.BudgetedExpenses = append(l.s.BudgetedExpenses, BudgetedExpense{Expense: base, Used: d.Used})
	case Past:
		l.s.PastExpenses = append(l.s.PastExpenses, PastExpense{Expense: base, DueDay: d.DueDay})
	default:
		return "", false
	}
	return base.ID, true
}

func (l *Ledger) freshID(k Kind) string {
	taken := l.IDs(k)
	for {
		id := newID()
		if !slices.Contains(taken, id) {
			return id
		}
	}
}

// MarkPaid settles the entry id in collection k. A future expense moves to the
// past collection in one step; a budgeted expense is flagged in place. Past
// entries cannot be paid. Reports whether an entry was found.
func (l *Ledger) MarkPaid(k Kind, id string) bool {
	switch k {
	case Future:
		return l.payFuture(id)
	case Budget:
		i := slices.IndexFunc(l.s.BudgetedExpenses, func(e BudgetedExpense) bool { return e.ID == id })
		if i < 0 {
			return false
		}
		l.s.BudgetedExpenses[i].Paid = true
		return true
	}
	return false
}

func (l *Ledger) payFuture(id string) bool {
	i := slices.IndexFunc(l.s.FutureExpenses, func(e FutureExpense) bool { return e.ID == id })
	if i < 0 {
		return false
	}
	past := l.s.FutureExpenses[i].Settle()

	future := slices.Delete(slices.Clone(l.s.FutureExpenses), i, i+1)
	pastExpenses := l.s.PastExpenses
	if !slices.ContainsFunc(pastExpenses, func(e PastExpense) bool { return e.ID == id }) {
		pastExpenses = append(slices.Clone(pastExpenses), past)
	}

	// Both collections are swapped together so no reader sees a half move.
	l.s.FutureExpenses, l.s.PastExpenses = future, pastExpenses
	return true
}

// UpdateUsed sets how much of budgeted expense id has been spent. Negative
// values are declined; values above the budget are kept as given.
func (l *Ledger) UpdateUsed(id string, used decimal.Decimal) bool {
	if used.IsNegative() {
		return false
	}
	i := slices.IndexFunc(l.s.BudgetedExpenses, func(e BudgetedExpense) bool { return e.ID == id })
	if i < 0 {
		return false
	}
	l.s.BudgetedExpenses[i].Used = used
	return true
}

// Remove deletes entry id from collection k. Reports whether it was present.
func (l *Ledger) Remove(k Kind, id string) bool {
	n := l.Len(k)
	switch k {
	case Future:
		l.s.FutureExpenses = slices.DeleteFunc(l.s.FutureExpenses, func(e FutureExpense) bool { return e.ID == id })
	case Budget:
		l.s.BudgetedExpenses = slices.DeleteFunc(l.s.BudgetedExpenses, func(e BudgetedExpense) bool { return e.ID == id })
	case Past:
		l.s.PastExpenses = slices.DeleteFunc(l.s.PastExpenses, func(e PastExpense) bool { return e.ID == id })
	}
	return l.Len(k) != n
}

// Resolve expands an id prefix to the full id of an entry in collection k.
func (l *Ledger) Resolve(k Kind, prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", ErrNoMatch
	}
	var match string
	for _, id := range l.IDs(k) {
		if id == prefix {
			return id, nil
		}
		if strings.HasPrefix(id, prefix) {
			if match != "" {
				return "", ErrAmbiguous
			}
			match = id
		}
	}
	if match == "" {
		return "", ErrNoMatch
	}
	return match, nil
}
