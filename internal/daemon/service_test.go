package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theirongolddev/moneymike/internal/ledger"
)

type fakeSource struct {
	state ledger.State
	ok    bool
	err   error
	loads int
}

func (f *fakeSource) Load(context.Context) (ledger.State, bool, error) {
	f.loads++
	return f.state.Clone(), f.ok, f.err
}

func TestDiffSnapshots(t *testing.T) {
	prev := Snapshot{
		Available: decimal.NewFromInt(2000),
		Actual:    decimal.NewFromInt(500),
		Future:    2,
		Budget:    1,
		Past:      1,
	}
	curr := Snapshot{
		Available: decimal.NewFromInt(2000),
		Actual:    decimal.NewFromInt(1000),
		Future:    1,
		Budget:    1,
		Past:      2,
	}

	delta := diffSnapshots(prev, curr)
	if !delta.Available.IsZero() {
		t.Fatalf("Available delta = %s, want 0", delta.Available)
	}
	if !delta.Actual.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("Actual delta = %s, want 500", delta.Actual)
	}
	if delta.Future != -1 {
		t.Fatalf("Future delta = %d, want -1", delta.Future)
	}
	if delta.Past != 1 {
		t.Fatalf("Past delta = %d, want 1", delta.Past)
	}
	if delta.isZero() {
		t.Fatal("delta unexpectedly reported as zero")
	}
	if !diffSnapshots(curr, curr).isZero() {
		t.Fatal("self delta should be zero")
	}
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{
		Interval:     10 * time.Second,
		EventsBuffer: 2,
	})

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func TestPollPublishesSnapshotThenDeltas(t *testing.T) {
	src := &fakeSource{state: ledger.Seed(), ok: true}
	s := New(Config{Source: src})
	ctx := context.Background()

	s.pollOnce(ctx)
	s.pollOnce(ctx)

	s.mu.RLock()
	require.Len(t, s.events, 1)
	first := s.events[0]
	s.mu.RUnlock()

	assert.Equal(t, EventSnapshot, first.Type)
	assert.True(t, first.Snapshot.Present)
	assert.True(t, first.Snapshot.Actual.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, "ahead", first.Snapshot.Standing)
	assert.Equal(t, 2, first.Snapshot.Future)

	// pay the first future expense out of band
	l := ledger.New(src.state)
	require.True(t, l.MarkPaid(ledger.Future, src.state.FutureExpenses[0].ID))
	src.state = l.Snapshot()
	s.pollOnce(ctx)

	s.mu.RLock()
	defer s.mu.RUnlock()
	require.Len(t, s.events, 2)
	ev := s.events[1]
	assert.Equal(t, EventBalanceDelta, ev.Type)
	assert.True(t, ev.Delta.Actual.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, -1, ev.Delta.Future)
	assert.Equal(t, 1, ev.Delta.Past)
	assert.Equal(t, int64(3), s.pollCount)
}

func TestPollRecordsErrors(t *testing.T) {
	src := &fakeSource{err: errors.New("disk on fire")}
	s := New(Config{Source: src})

	s.pollOnce(context.Background())

	st := s.snapshotStatus()
	assert.Equal(t, "disk on fire", st.LastError)
	assert.Equal(t, int64(1), st.PollCount)
	assert.Zero(t, st.EventCount)

	src.err = nil
	s.pollOnce(context.Background())
	assert.Empty(t, s.snapshotStatus().LastError)
}

func TestPollAbsentSlot(t *testing.T) {
	s := New(Config{Source: &fakeSource{}})
	s.pollOnce(context.Background())

	st := s.snapshotStatus()
	assert.False(t, st.Summary.Present)
	assert.Equal(t, "behind", st.Summary.Standing)
}

func TestStatusEndpoint(t *testing.T) {
	s := New(Config{
		Source:     &fakeSource{state: ledger.Seed(), ok: true},
		StorageKey: "money-mike-state",
	})
	s.pollOnce(context.Background())

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/status")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var st Status
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
	assert.Equal(t, "money-mike-state", st.StorageKey)
	assert.True(t, st.Summary.Actual.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, 1, st.EventCount)

	health, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	_ = health.Body.Close()
	assert.Equal(t, http.StatusOK, health.StatusCode)
}

func TestRunPollsUntilCanceled(t *testing.T) {
	s := New(Config{
		Source: &fakeSource{state: ledger.Seed(), ok: true},
		Addr:   "127.0.0.1:0",
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool {
		return s.snapshotStatus().PollCount >= 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
