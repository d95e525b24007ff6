// Package daemon provides the long-running read-only balance monitor service.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/theirongolddev/moneymike/internal/ledger"
	"github.com/theirongolddev/moneymike/internal/log"
	"golang.org/x/sync/errgroup"
)

// Event types.
const (
	EventSnapshot     = "snapshot"
	EventBalanceDelta = "balance_delta"
)

// Source reads the persisted ledger. The daemon never writes through it.
type Source interface {
	Load(ctx context.Context) (ledger.State, bool, error)
}

// Config controls the daemon runtime behavior.
type Config struct {
	Source       Source
	DBPath       string
	StorageKey   string
	Interval     time.Duration
	Addr         string
	EventsBuffer int
	Logger       *log.Logger
}

// Snapshot is a compact balance state for status/event payloads.
type Snapshot struct {
	At              time.Time       `json:"at"`
	Present         bool            `json:"present"`
	Available       decimal.Decimal `json:"available"`
	UnpaidFuture    decimal.Decimal `json:"unpaid_future"`
	RemainingBudget decimal.Decimal `json:"remaining_budget"`
	Actual          decimal.Decimal `json:"actual"`
	Standing        string          `json:"standing"`
	Future          int             `json:"future"`
	Budget          int             `json:"budget"`
	Past            int             `json:"past"`
}

// Delta captures snapshot deltas between polls.
type Delta struct {
	Available decimal.Decimal `json:"available"`
	Actual    decimal.Decimal `json:"actual"`
	Future    int             `json:"future"`
	Budget    int             `json:"budget"`
	Past      int             `json:"past"`
}

func (d Delta) isZero() bool {
	return d.Available.IsZero() &&
		d.Actual.IsZero() &&
		d.Future == 0 &&
		d.Budget == 0 &&
		d.Past == 0
}

// Event is emitted whenever the balance snapshot changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	DBPath          string    `json:"db_path"`
	StorageKey      string    `json:"storage_key"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg Config
	log *log.Logger

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service with the provided config.
func New(cfg Config) *Service {
	if cfg.Interval < time.Second {
		cfg.Interval = 5 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8788"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Discard()
	}

	return &Service{
		cfg:       cfg,
		log:       logger.WithComponent(log.ComponentDaemon),
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/events", s.handleEvents)
	mux.HandleFunc("/v1/stream", s.handleStream)
	return mux
}

// Run starts HTTP endpoints and polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("daemon http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		s.log.Info("daemon started", "addr", s.cfg.Addr, "interval", s.cfg.Interval.String())

		// Seed initial snapshot so status is useful immediately.
		s.pollOnce(gctx)

		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				s.pollOnce(gctx)
			}
		}
	})

	return g.Wait()
}

func (s *Service) pollOnce(ctx context.Context) {
	if s.cfg.Source == nil {
		s.recordError(errors.New("no ledger source configured"))
		return
	}

	state, ok, err := s.cfg.Source.Load(ctx)
	if err != nil {
		s.recordError(err)
		return
	}

	now := time.Now()
	snap := snapshotFromState(state, ok, now)

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""

	if !prevExists {
		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      EventSnapshot,
			Timestamp: now,
			Snapshot:  snap,
		}
		publish = true
	} else {
		delta := diffSnapshots(prev, snap)
		if !delta.isZero() {
			s.nextEventID++
			ev = Event{
				ID:        s.nextEventID,
				Type:      EventBalanceDelta,
				Timestamp: now,
				Snapshot:  snap,
				Delta:     delta,
			}
			publish = true
		}
	}
	s.mu.Unlock()

	if publish {
		s.log.Debug("publish event", "type", ev.Type, "actual", snap.Actual.String())
		s.publishEvent(ev)
	}
}

func (s *Service) recordError(err error) {
	s.mu.Lock()
	s.lastError = err.Error()
	s.lastPollAt = time.Now()
	s.pollCount++
	s.mu.Unlock()
	s.log.Error("poll failed", log.FieldOperation, log.OpPoll, log.FieldError, err)
}

func snapshotFromState(st ledger.State, present bool, at time.Time) Snapshot {
	b := st.Breakdown()
	return Snapshot{
		At:              at,
		Present:         present,
		Available:       b.Available,
		UnpaidFuture:    b.UnpaidFuture,
		RemainingBudget: b.RemainingBudget,
		Actual:          b.Actual,
		Standing:        standingName(ledger.StandingOf(b.Actual)),
		Future:          len(st.FutureExpenses),
		Budget:          len(st.BudgetedExpenses),
		Past:            len(st.PastExpenses),
	}
}

func standingName(s ledger.Standing) string {
	if s == ledger.Ahead {
		return "ahead"
	}
	return "behind"
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Available: curr.Available.Sub(prev.Available),
		Actual:    curr.Actual.Sub(prev.Actual),
		Future:    curr.Future - prev.Future,
		Budget:    curr.Budget - prev.Budget,
		Past:      curr.Past - prev.Past,
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		DBPath:          s.cfg.DBPath,
		StorageKey:      s.cfg.StorageKey,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.snapshotStatus())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	current := Event{
		Type:      EventSnapshot,
		Timestamp: time.Now(),
		Snapshot:  s.snapshotStatus().Summary,
	}
	writeSSE(w, current)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
