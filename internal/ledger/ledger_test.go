package ledger

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// scenarioLedger is 2000 available, one unpaid future expense of 500 and one
// unpaid budget of 500 with nothing used.
func scenarioLedger(t *testing.T) (*Ledger, string, string) {
	t.Helper()
	l := New(Empty())
	l.SetAvailable(dec(2000))
	fid, ok := l.Add(Future, Draft{Name: "Rent", Amount: dec(500), DueDay: 3})
	require.True(t, ok)
	bid, ok := l.Add(Budget, Draft{Name: "Groceries", Amount: dec(500)})
	require.True(t, ok)
	return l, fid, bid
}

func TestActualBalanceScenarios(t *testing.T) {
	l, _, bid := scenarioLedger(t)
	assert.True(t, l.ActualBalance().Equal(dec(1000)), "got %s", l.ActualBalance())

	require.True(t, l.UpdateUsed(bid, dec(500)))
	assert.True(t, l.ActualBalance().Equal(dec(1500)), "after used=500 got %s", l.ActualBalance())

	l2, fid2, _ := scenarioLedger(t)
	require.True(t, l2.MarkPaid(Future, fid2))
	assert.Equal(t, 0, l2.Len(Future))
	assert.True(t, l2.Breakdown().UnpaidFuture.IsZero())
	assert.True(t, l2.ActualBalance().Equal(dec(1500)), "after pay got %s", l2.ActualBalance())
}

func TestActualBalanceIsPure(t *testing.T) {
	s := Seed()
	before := s.Clone()

	a := ActualBalance(s.AvailableBalance, s.FutureExpenses, s.BudgetedExpenses)
	b := ActualBalance(s.AvailableBalance, s.FutureExpenses, s.BudgetedExpenses)

	assert.True(t, a.Equal(b))
	assert.True(t, s.Equal(before))
	// 2000 - (500 + 500) - 500
	assert.True(t, a.Equal(dec(500)), "got %s", a)
}

func TestActualBalanceSkipsPaidBudgetsAndPast(t *testing.T) {
	s := State{
		AvailableBalance: dec(1000),
		FutureExpenses: []FutureExpense{
			{Expense: Expense{ID: "f1", Amount: dec(100)}, Paid: true},
			{Expense: Expense{ID: "f2", Amount: dec(200)}},
		},
		BudgetedExpenses: []BudgetedExpense{
			{Expense: Expense{ID: "b1", Amount: dec(300)}, Used: dec(100)},
			{Expense: Expense{ID: "b2", Amount: dec(400)}, Paid: true},
		},
		PastExpenses: []PastExpense{
			{Expense: Expense{ID: "p1", Amount: dec(9999)}},
		},
	}
	b := s.Breakdown()
	assert.True(t, b.UnpaidFuture.Equal(dec(200)))
	assert.True(t, b.RemainingBudget.Equal(dec(200)))
	assert.True(t, b.Actual.Equal(dec(600)), "got %s", b.Actual)
}

func TestOverspentBudgetRaisesBalance(t *testing.T) {
	l, _, bid := scenarioLedger(t)
	require.True(t, l.UpdateUsed(bid, dec(700)))
	// remaining budget is -200
	assert.True(t, l.ActualBalance().Equal(dec(1700)), "got %s", l.ActualBalance())
}

func TestAddGrowsCollectionWithDistinctIDs(t *testing.T) {
	for _, k := range Kinds {
		t.Run(k.String(), func(t *testing.T) {
			l := New(Seed())
			seen := map[string]bool{}
			for _, id := range l.IDs(k) {
				seen[id] = true
			}
			for i := 0; i < 20; i++ {
				n := l.Len(k)
				id, ok := l.Add(k, Draft{Name: fmt.Sprintf("item %d", i), Amount: dec(int64(i))})
				require.True(t, ok)
				assert.Equal(t, n+1, l.Len(k))
				assert.False(t, seen[id], "id %s reused", id)
				seen[id] = true
				ids := l.IDs(k)
				assert.Equal(t, id, ids[len(ids)-1], "new entry must be appended")
			}
		})
	}
}

func TestAddRegeneratesCollidingID(t *testing.T) {
	ids := []string{"dup", "dup", "fresh"}
	orig := newID
	newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}
	defer func() { newID = orig }()

	l := New(Empty())
	first, ok := l.Add(Budget, Draft{Name: "a", Amount: dec(1)})
	require.True(t, ok)
	second, ok := l.Add(Budget, Draft{Name: "b", Amount: dec(1)})
	require.True(t, ok)
	assert.Equal(t, "dup", first)
	assert.Equal(t, "fresh", second)
}

func TestAddDefaults(t *testing.T) {
	l := New(Empty())
	fid, ok := l.Add(Future, Draft{Name: "  Phone  ", Amount: dec(80)})
	require.True(t, ok)
	bid, ok := l.Add(Budget, Draft{Name: "Fuel", Amount: dec(300), Used: dec(40)})
	require.True(t, ok)

	s := l.Snapshot()
	require.Len(t, s.FutureExpenses, 1)
	f := s.FutureExpenses[0]
	assert.Equal(t, fid, f.ID)
	assert.Equal(t, "Phone", f.Name)
	assert.Equal(t, 1, f.DueDay)
	assert.False(t, f.Paid)

	require.Len(t, s.BudgetedExpenses, 1)
	b := s.BudgetedExpenses[0]
	assert.Equal(t, bid, b.ID)
	assert.True(t, b.Used.Equal(dec(40)))
	assert.False(t, b.Paid)
}

func TestAddDeclinesInvalidDrafts(t *testing.T) {
	cases := []Draft{
		{Name: "", Amount: dec(10)},
		{Name: "   ", Amount: dec(10)},
		{Name: "x", Amount: dec(-1)},
		{Name: "x", Amount: dec(1), Used: dec(-1)},
		{Name: "x", Amount: dec(1), DueDay: 32},
	}
	for _, d := range cases {
		l := New(Seed())
		before := l.Snapshot()
		for _, k := range Kinds {
			id, ok := l.Add(k, d)
			assert.False(t, ok, "draft %+v accepted into %s", d, k)
			assert.Empty(t, id)
		}
		assert.True(t, l.Snapshot().Equal(before))
	}
}

func TestMarkPaidFutureIsIdempotent(t *testing.T) {
	l, fid, _ := scenarioLedger(t)

	require.True(t, l.MarkPaid(Future, fid))
	assert.NotContains(t, l.IDs(Future), fid)
	assert.False(t, l.MarkPaid(Future, fid))

	s := l.Snapshot()
	count := 0
	for _, p := range s.PastExpenses {
		if p.ID == fid {
			count++
			assert.True(t, p.Paid)
			assert.Equal(t, 3, p.DueDay)
			assert.Equal(t, "Rent", p.Name)
		}
	}
	assert.Equal(t, 1, count)
}

func TestMarkPaidFutureDoesNotDuplicateExistingPast(t *testing.T) {
	s := Empty()
	s.FutureExpenses = []FutureExpense{{Expense: Expense{ID: "x", Name: "Gym", Amount: dec(50)}, DueDay: 2}}
	s.PastExpenses = []PastExpense{{Expense: Expense{ID: "x", Name: "Gym", Amount: dec(50)}}}
	l := New(s)

	require.True(t, l.MarkPaid(Future, "x"))
	assert.Equal(t, 0, l.Len(Future))
	assert.Equal(t, 1, l.Len(Past))
}

func TestMarkPaidBudgetStaysInPlace(t *testing.T) {
	l, _, bid := scenarioLedger(t)
	require.True(t, l.MarkPaid(Budget, bid))

	s := l.Snapshot()
	require.Len(t, s.BudgetedExpenses, 1)
	assert.True(t, s.BudgetedExpenses[0].Paid)
	assert.Empty(t, s.PastExpenses)
	// 2000 - 500, the paid budget no longer counts
	assert.True(t, l.ActualBalance().Equal(dec(1500)))
}

func TestMarkPaidRejectsPastAndUnknown(t *testing.T) {
	l := New(Seed())
	before := l.Snapshot()
	pastID := before.PastExpenses[0].ID

	assert.False(t, l.MarkPaid(Past, pastID))
	assert.False(t, l.MarkPaid(Future, "missing"))
	assert.False(t, l.MarkPaid(Budget, "missing"))
	assert.True(t, l.Snapshot().Equal(before))
}

func TestUpdateUsed(t *testing.T) {
	l, fid, bid := scenarioLedger(t)

	assert.False(t, l.UpdateUsed("missing", dec(1)))
	assert.False(t, l.UpdateUsed(fid, dec(1)), "future entries have no used field")
	assert.False(t, l.UpdateUsed(bid, dec(-5)))
	assert.True(t, l.Snapshot().BudgetedExpenses[0].Used.IsZero())

	require.True(t, l.UpdateUsed(bid, decimal.RequireFromString("120.50")))
	assert.Equal(t, "120.5", l.Snapshot().BudgetedExpenses[0].Used.String())
}

func TestRemove(t *testing.T) {
	for _, k := range Kinds {
		t.Run(k.String(), func(t *testing.T) {
			l := New(Seed())
			before := l.Snapshot()

			assert.False(t, l.Remove(k, "not-there"))
			assert.True(t, l.Snapshot().Equal(before))

			id := l.IDs(k)[0]
			assert.True(t, l.Remove(k, id))
			assert.NotContains(t, l.IDs(k), id)
			assert.Equal(t, len(before.FutureExpenses)+len(before.BudgetedExpenses)+len(before.PastExpenses)-1,
				l.Len(Future)+l.Len(Budget)+l.Len(Past))
		})
	}
}

func TestSnapshotIsIsolated(t *testing.T) {
	l := New(Seed())
	s := l.Snapshot()
	s.FutureExpenses[0].Name = "changed"
	s.AvailableBalance = dec(1)

	again := l.Snapshot()
	assert.Equal(t, "Dog Walker", again.FutureExpenses[0].Name)
	assert.True(t, again.AvailableBalance.Equal(dec(2000)))
}

func TestResolve(t *testing.T) {
	s := Empty()
	s.PastExpenses = []PastExpense{
		{Expense: Expense{ID: "abc123"}},
		{Expense: Expense{ID: "abd456"}},
	}
	l := New(s)

	id, err := l.Resolve(Past, "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc123", id)

	_, err = l.Resolve(Past, "ab")
	assert.ErrorIs(t, err, ErrAmbiguous)

	_, err = l.Resolve(Past, "zz")
	assert.ErrorIs(t, err, ErrNoMatch)

	_, err = l.Resolve(Future, "abc")
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestStanding(t *testing.T) {
	assert.Equal(t, Ahead, StandingOf(dec(1)))
	assert.Equal(t, Behind, StandingOf(dec(0)))
	assert.Equal(t, Behind, StandingOf(dec(-10)))
	assert.NotEqual(t, Ahead.Message(), Behind.Message())
}

func TestSeed(t *testing.T) {
	s := Seed()
	assert.True(t, s.AvailableBalance.Equal(dec(2000)))
	require.Len(t, s.FutureExpenses, 2)
	assert.Equal(t, 3, s.FutureExpenses[0].DueDay)
	assert.Equal(t, 15, s.FutureExpenses[1].DueDay)
	require.Len(t, s.BudgetedExpenses, 1)
	assert.True(t, s.BudgetedExpenses[0].Used.IsZero())
	require.Len(t, s.PastExpenses, 1)
	assert.True(t, s.PastExpenses[0].Amount.Equal(dec(1000)))
}
