package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/theirongolddev/moneymike/internal/ledger"
	"github.com/theirongolddev/moneymike/internal/log"
)

// LedgerSlot persists the ledger state as a single blob under a fixed key.
type LedgerSlot struct {
	store *Store
	key   string
	log   *log.Logger
}

// NewLedgerSlot binds the ledger to key in s.
func NewLedgerSlot(s *Store, key string, logger *log.Logger) *LedgerSlot {
	if logger == nil {
		logger = log.Discard()
	}
	return &LedgerSlot{
		store: s,
		key:   key,
		log:   logger.WithComponent(log.ComponentStorage).With(log.FieldKey, key),
	}
}

// Key returns the storage key.
func (ls *LedgerSlot) Key() string {
	return ls.key
}

// Load reads the stored ledger. A missing or unreadable blob reports ok=false
// with a nil error; only database failures are returned as errors.
func (ls *LedgerSlot) Load(ctx context.Context) (ledger.State, bool, error) {
	data, ok, err := ls.store.Get(ctx, ls.key)
	if err != nil {
		return ledger.State{}, false, fmt.Errorf("reading slot %s: %w", ls.key, err)
	}
	if !ok {
		return ledger.State{}, false, nil
	}

	s, err := DecodeState(data)
	if errors.Is(err, ErrMalformed) {
		ls.log.Warn("ignoring malformed ledger state", log.FieldError, err)
		return ledger.State{}, false, nil
	}
	if err != nil {
		return ledger.State{}, false, err
	}
	return s, true, nil
}

// Save overwrites the slot with s.
func (ls *LedgerSlot) Save(ctx context.Context, s ledger.State) error {
	data, err := EncodeState(s)
	if err != nil {
		return fmt.Errorf("encoding ledger: %w", err)
	}
	if err := ls.store.Put(ctx, ls.key, data); err != nil {
		return fmt.Errorf("writing slot %s: %w", ls.key, err)
	}
	ls.log.Debug("ledger saved", log.FieldOperation, log.OpSave, "bytes", len(data))
	return nil
}
