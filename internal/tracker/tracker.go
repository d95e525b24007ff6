// Package tracker hosts the ledger for a running session. Mutations are
// applied to memory first; persistence is requested afterwards and carried
// out by a background writer whose failures are logged, never returned.
package tracker

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/theirongolddev/moneymike/internal/ledger"
	"github.com/theirongolddev/moneymike/internal/log"
)

// Port is the persistence collaborator.
type Port interface {
	// Load returns ok=false when nothing usable is stored.
	Load(ctx context.Context) (ledger.State, bool, error)
	Save(ctx context.Context, s ledger.State) error
}

// Options configures Open.
type Options struct {
	// Seed starts from the demonstration state when nothing is stored.
	// Otherwise the ledger starts empty.
	Seed        bool
	Logger      *log.Logger
	SaveTimeout time.Duration
}

// Tracker owns the ledger for one session. Its mutating methods must be
// called from a single goroutine.
type Tracker struct {
	ledger      *ledger.Ledger
	port        Port
	log         *log.Logger
	saveTimeout time.Duration
	fresh       bool

	mu      sync.Mutex
	pending *ledger.State
	writing bool
	lastErr error
	saves   int

	wake      chan struct{}
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// Open loads the ledger through port, falling back to defaults when nothing
// is stored or the load fails, and starts the background writer. Defaults are
// persisted right away only when the slot is known to be empty; after a failed
// load the slot is left alone until the first mutation.
func Open(ctx context.Context, port Port, opts Options) *Tracker {
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentTracker)

	if opts.SaveTimeout <= 0 {
		opts.SaveTimeout = 5 * time.Second
	}

	state, ok, err := port.Load(ctx)
	if err != nil {
		logger.Error("loading ledger failed, starting from defaults", log.FieldError, err)
	}
	fresh := err != nil || !ok
	if fresh {
		if opts.Seed {
			state = ledger.Seed()
		} else {
			state = ledger.Empty()
		}
	}

	t := &Tracker{
		ledger:      ledger.New(state),
		port:        port,
		log:         logger,
		saveTimeout: opts.SaveTimeout,
		fresh:       fresh,
		wake:        make(chan struct{}, 1),
		quit:        make(chan struct{}),
		done:        make(chan struct{}),
	}
	go t.run()

	if fresh && err == nil {
		t.requestSave()
	}
	return t
}

// Fresh reports whether the session started from defaults rather than stored state.
func (t *Tracker) Fresh() bool {
	return t.fresh
}

// State returns a copy of the current ledger state.
func (t *Tracker) State() ledger.State {
	return t.ledger.Snapshot()
}

// Breakdown returns the actual balance and its terms.
func (t *Tracker) Breakdown() ledger.Breakdown {
	return t.ledger.Breakdown()
}

// Standing classifies the current actual balance.
func (t *Tracker) Standing() ledger.Standing {
	return ledger.StandingOf(t.ledger.ActualBalance())
}

// Resolve expands an id prefix within collection k.
func (t *Tracker) Resolve(k ledger.Kind, prefix string) (string, error) {
	return t.ledger.Resolve(k, prefix)
}

// Add appends a new expense. See ledger.Ledger.Add.
func (t *Tracker) Add(k ledger.Kind, d ledger.Draft) (string, bool) {
	id, ok := t.ledger.Add(k, d)
	if ok {
		t.log.Debug("expense added", log.FieldOperation, log.OpAdd, log.FieldKind, k.String(), log.FieldID, id)
		t.requestSave()
	}
	return id, ok
}

// MarkPaid settles an expense. See ledger.Ledger.MarkPaid.
func (t *Tracker) MarkPaid(k ledger.Kind, id string) bool {
	ok := t.ledger.MarkPaid(k, id)
	if ok {
		t.log.Debug("expense paid", log.FieldOperation, log.OpPay, log.FieldKind, k.String(), log.FieldID, id)
		t.requestSave()
	}
	return ok
}

// UpdateUsed records spending against a budget. See ledger.Ledger.UpdateUsed.
func (t *Tracker) UpdateUsed(id string, used decimal.Decimal) bool {
	ok := t.ledger.UpdateUsed(id, used)
	if ok {
		t.log.Debug("budget usage updated", log.FieldOperation, log.OpUse, log.FieldID, id)
		t.requestSave()
	}
	return ok
}

// Remove deletes an expense. See ledger.Ledger.Remove.
func (t *Tracker) Remove(k ledger.Kind, id string) bool {
	ok := t.ledger.Remove(k, id)
	if ok {
		t.log.Debug("expense removed", log.FieldOperation, log.OpRm, log.FieldKind, k.String(), log.FieldID, id)
		t.requestSave()
	}
	return ok
}

// SetAvailable records a new bank balance.
func (t *Tracker) SetAvailable(v decimal.Decimal) {
	t.ledger.SetAvailable(v)
	t.log.Debug("available balance set", log.FieldOperation, log.OpSetBl)
	t.requestSave()
}

// LastSaveErr returns the error of the most recent save, or nil.
func (t *Tracker) LastSaveErr() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastErr
}

// Saves returns how many snapshots were written successfully.
func (t *Tracker) Saves() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.saves
}

// Busy reports whether a snapshot is waiting or being written.
func (t *Tracker) Busy() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending != nil || t.writing
}

// requestSave hands the current state to the writer. Only the newest pending
// snapshot is kept; the call never blocks.
func (t *Tracker) requestSave() {
	snap := t.ledger.Snapshot()

	t.mu.Lock()
	t.pending = &snap
	t.mu.Unlock()

	select {
	case t.wake <- struct{}{}:
	default:
	}
}

func (t *Tracker) run() {
	defer close(t.done)
	for {
		select {
		case <-t.wake:
			t.flush()
		case <-t.quit:
			t.flush()
			return
		}
	}
}

func (t *Tracker) flush() {
	t.mu.Lock()
	snap := t.pending
	t.pending = nil
	t.writing = snap != nil
	t.mu.Unlock()

	if snap == nil {
		return
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), t.saveTimeout)
	err := t.port.Save(ctx, *snap)
	cancel()

	t.mu.Lock()
	t.writing = false
	t.lastErr = err
	if err == nil {
		t.saves++
	}
	t.mu.Unlock()

	if err != nil {
		t.log.Error("saving ledger failed", log.FieldOperation, log.OpSave, log.FieldError, err)
		return
	}
	t.log.Debug("ledger persisted", log.FieldOperation, log.OpSave,
		log.FieldDuration, time.Since(start).Milliseconds())
}

// Close writes any pending snapshot and stops the writer. It returns
// ctx.Err() if ctx ends first; the write still completes in the background.
func (t *Tracker) Close(ctx context.Context) error {
	t.closeOnce.Do(func() { close(t.quit) })
	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
