package tracker

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theirongolddev/moneymike/internal/ledger"
	"github.com/theirongolddev/moneymike/internal/log"
)

// memPort is an in-memory Port. When gate is non-nil every Save waits on it.
type memPort struct {
	mu      sync.Mutex
	stored  *ledger.State
	loadErr error
	saveErr error
	saved   []ledger.State
	gate    chan struct{}
	started chan struct{}
}

func (p *memPort) Load(context.Context) (ledger.State, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loadErr != nil {
		return ledger.State{}, false, p.loadErr
	}
	if p.stored == nil {
		return ledger.State{}, false, nil
	}
	return p.stored.Clone(), true, nil
}

func (p *memPort) Save(_ context.Context, s ledger.State) error {
	if p.started != nil {
		select {
		case p.started <- struct{}{}:
		default:
		}
	}
	if p.gate != nil {
		<-p.gate
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.saveErr != nil {
		return p.saveErr
	}
	c := s.Clone()
	p.stored = &c
	p.saved = append(p.saved, c)
	return nil
}

func (p *memPort) savedStates() []ledger.State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ledger.State{}, p.saved...)
}

func closeTracker(t *testing.T, tr *Tracker) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, tr.Close(ctx))
}

func TestOpenSeedsAndPersistsFirstRun(t *testing.T) {
	port := &memPort{}
	tr := Open(context.Background(), port, Options{Seed: true})
	assert.True(t, tr.Fresh())
	assert.True(t, tr.State().AvailableBalance.Equal(decimal.NewFromInt(2000)))
	closeTracker(t, tr)

	saved := port.savedStates()
	require.Len(t, saved, 1)
	assert.True(t, saved[0].Equal(tr.State()))
}

func TestOpenEmptyWithoutSeed(t *testing.T) {
	tr := Open(context.Background(), &memPort{}, Options{})
	defer closeTracker(t, tr)
	assert.True(t, tr.State().Equal(ledger.Empty()))
}

func TestOpenLoadsStoredState(t *testing.T) {
	stored := ledger.Seed()
	stored.AvailableBalance = decimal.NewFromInt(42)
	port := &memPort{stored: &stored}

	tr := Open(context.Background(), port, Options{Seed: true})
	assert.False(t, tr.Fresh())
	assert.True(t, tr.State().Equal(stored))
	closeTracker(t, tr)
	assert.Empty(t, port.savedStates(), "loading alone must not write")
}

func TestOpenLoadErrorFallsBackAndLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.Config{Output: &buf})
	port := &memPort{loadErr: errors.New("disk on fire")}

	tr := Open(context.Background(), port, Options{Seed: true, Logger: logger})
	assert.True(t, tr.Fresh())
	assert.Len(t, tr.State().FutureExpenses, 2)
	assert.Contains(t, buf.String(), "disk on fire")
	closeTracker(t, tr)
	assert.Empty(t, port.savedStates(), "a failed load must not overwrite the slot")
}

func TestOpenLoadErrorSavesOnlyAfterMutation(t *testing.T) {
	port := &memPort{loadErr: errors.New("database is locked")}

	tr := Open(context.Background(), port, Options{})
	tr.SetAvailable(decimal.NewFromInt(10))
	closeTracker(t, tr)

	saved := port.savedStates()
	require.Len(t, saved, 1)
	assert.True(t, saved[0].AvailableBalance.Equal(decimal.NewFromInt(10)))
}

func TestMutationsPersist(t *testing.T) {
	port := &memPort{}
	tr := Open(context.Background(), port, Options{})

	fid, ok := tr.Add(ledger.Future, ledger.Draft{Name: "Rent", Amount: decimal.NewFromInt(500), DueDay: 1})
	require.True(t, ok)
	bid, ok := tr.Add(ledger.Budget, ledger.Draft{Name: "Food", Amount: decimal.NewFromInt(500)})
	require.True(t, ok)
	tr.SetAvailable(decimal.NewFromInt(2000))
	assert.True(t, tr.Breakdown().Actual.Equal(decimal.NewFromInt(1000)))

	require.True(t, tr.UpdateUsed(bid, decimal.NewFromInt(500)))
	require.True(t, tr.MarkPaid(ledger.Future, fid))
	assert.True(t, tr.Breakdown().Actual.Equal(decimal.NewFromInt(2000)))
	assert.Equal(t, ledger.Ahead, tr.Standing())

	closeTracker(t, tr)
	saved := port.savedStates()
	require.NotEmpty(t, saved)
	assert.True(t, saved[len(saved)-1].Equal(tr.State()))
}

func TestNoOpMutationsDoNotSave(t *testing.T) {
	stored := ledger.Seed()
	port := &memPort{stored: &stored}
	tr := Open(context.Background(), port, Options{})

	_, ok := tr.Add(ledger.Future, ledger.Draft{Name: ""})
	assert.False(t, ok)
	assert.False(t, tr.MarkPaid(ledger.Past, stored.PastExpenses[0].ID))
	assert.False(t, tr.UpdateUsed("missing", decimal.NewFromInt(1)))
	assert.False(t, tr.Remove(ledger.Budget, "missing"))

	closeTracker(t, tr)
	assert.Empty(t, port.savedStates())
}

func TestSaveFailureIsSwallowed(t *testing.T) {
	var buf bytes.Buffer
	port := &memPort{saveErr: errors.New("quota exceeded")}
	tr := Open(context.Background(), port, Options{Logger: log.New(log.Config{Output: &buf})})

	_, ok := tr.Add(ledger.Past, ledger.Draft{Name: "Taxi", Amount: decimal.NewFromInt(90)})
	require.True(t, ok)
	assert.Equal(t, 1, len(tr.State().PastExpenses), "in-memory state must reflect the mutation")

	closeTracker(t, tr)
	assert.Error(t, tr.LastSaveErr())
	assert.Equal(t, 0, tr.Saves())
	assert.Contains(t, buf.String(), "quota exceeded")
	assert.Len(t, tr.State().PastExpenses, 1)
}

func TestMutationDoesNotWaitForSave(t *testing.T) {
	port := &memPort{gate: make(chan struct{}), started: make(chan struct{}, 1)}
	tr := Open(context.Background(), port, Options{Seed: true})

	// the first-run save is now blocked inside the port
	select {
	case <-port.started:
	case <-time.After(5 * time.Second):
		t.Fatal("writer never started")
	}
	assert.True(t, tr.Busy())

	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			tr.SetAvailable(decimal.NewFromInt(int64(i)))
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("mutations blocked on a pending save")
	}
	assert.True(t, tr.State().AvailableBalance.Equal(decimal.NewFromInt(4)))

	close(port.gate)
	closeTracker(t, tr)
	assert.False(t, tr.Busy())

	saved := port.savedStates()
	// first-run save plus at most one coalesced write per wake-up
	assert.LessOrEqual(t, len(saved), 3)
	assert.True(t, saved[len(saved)-1].AvailableBalance.Equal(decimal.NewFromInt(4)))
}

func TestCloseHonoursContext(t *testing.T) {
	port := &memPort{gate: make(chan struct{})}
	tr := Open(context.Background(), port, Options{Seed: true})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, tr.Close(ctx), context.DeadlineExceeded)

	close(port.gate)
	closeTracker(t, tr)
}
