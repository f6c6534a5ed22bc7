// Package services holds the application services driven by the HTTP layer.
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gestor/internal/core"
	"gestor/internal/ledger"
	applog "gestor/internal/log"
)

// Clock returns the current instant. Tests inject a fixed one.
type Clock func() time.Time

// SubmitResult reports the outcome of one submission.
type SubmitResult struct {
	Accepted    bool
	Error       core.ErrorKind
	Err         error
	Transaction core.Transaction
}

// Message returns the toast text for the result.
func (r SubmitResult) Message() string {
	if r.Accepted {
		if r.Transaction.Kind == core.Income {
			return "Ingreso guardado"
		}
		return "Gasto guardado"
	}
	return r.Error.Message()
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithClock overrides time.Now.
func WithClock(c Clock) TrackerOption {
	return func(t *Tracker) { t.now = c }
}

// WithLocation evaluates calendar days in loc instead of the clock's own zone.
func WithLocation(loc *time.Location) TrackerOption {
	return func(t *Tracker) { t.loc = loc }
}

// WithPeriod sets the initially selected period.
func WithPeriod(p core.Period) TrackerOption {
	return func(t *Tracker) {
		if p.Valid() {
			t.period = p
		}
	}
}

// WithLogger attaches a logger. Without it records go to the default slog handler.
func WithLogger(l *applog.Logger) TrackerOption {
	return func(t *Tracker) { t.log = applog.NewStructuredLogger(l) }
}

// Tracker owns the state of one session: its ledger, the initial balance and
// the selected period. Aggregates are recomputed on demand from a snapshot,
// and subscribers are told whenever a recomputation would give a new result.
type Tracker struct {
	store   ledger.Ledger
	initial core.Money
	now     Clock
	loc     *time.Location
	log     *applog.StructuredLogger

	mu     sync.RWMutex
	period core.Period
	subs   map[int]chan struct{}
	nextID int
}

func NewTracker(store ledger.Ledger, initial core.Money, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		store:   store,
		initial: initial,
		now:     time.Now,
		period:  core.DefaultPeriod,
		subs:    map[int]chan struct{}{},
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.log == nil {
		t.log = applog.NewStructuredLogger(applog.FromContext(context.Background()))
	}
	return t
}

func (t *Tracker) clock() time.Time {
	now := t.now()
	if t.loc != nil {
		now = now.In(t.loc)
	}
	return now
}

// Today returns the local calendar day of the tracker's clock.
func (t *Tracker) Today() core.Date {
	return core.Today(t.clock())
}

// Submit validates in against the current clock and, on success, prepends the
// transaction. A rejected submission never touches the store.
func (t *Tracker) Submit(ctx context.Context, in core.FormInput) SubmitResult {
	tx, err := core.ValidateAndBuild(in, t.clock())
	if err != nil {
		kind := core.ClassifyError(err)
		t.log.LogTransactionRejected(ctx, kind, err)
		return SubmitResult{Error: kind, Err: err}
	}
	if err := t.store.Prepend(ctx, tx); err != nil {
		err = fmt.Errorf("store transaction: %w", err)
		t.log.LogTransactionRejected(ctx, core.InvalidInput, err)
		return SubmitResult{Error: core.InvalidInput, Err: err}
	}
	t.log.LogTransactionAccepted(ctx, tx, t.store.Len())
	t.notify()
	return SubmitResult{Accepted: true, Transaction: tx}
}

// Aggregates computes the derived values for p at the current instant. It
// does not change the selected period.
func (t *Tracker) Aggregates(ctx context.Context, p core.Period) (core.Aggregates, error) {
	txs, err := t.store.Snapshot(ctx)
	if err != nil {
		return core.Aggregates{}, fmt.Errorf("snapshot ledger: %w", err)
	}
	return core.Aggregate(txs, t.initial, p, t.clock()), nil
}

// Current computes the aggregates for the selected period.
func (t *Tracker) Current(ctx context.Context) (core.Aggregates, error) {
	return t.Aggregates(ctx, t.Period())
}

func (t *Tracker) Period() core.Period {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.period
}

// SetPeriod changes the selected period. Unknown periods are rejected.
func (t *Tracker) SetPeriod(p core.Period) error {
	if !p.Valid() {
		return fmt.Errorf("set period: unknown period %q", p)
	}
	t.mu.Lock()
	changed := t.period != p
	t.period = p
	t.mu.Unlock()
	if changed {
		t.notify()
	}
	return nil
}

// InitialBalance returns the opening balance the running balance starts from.
func (t *Tracker) InitialBalance() core.Money {
	return t.initial
}

// Len returns the number of stored transactions.
func (t *Tracker) Len() int {
	return t.store.Len()
}

// Subscribe returns a channel that receives a value after every mutation or
// period change. Notifications coalesce: a slow reader sees at most one
// pending signal. The returned func unsubscribes and closes the channel.
func (t *Tracker) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	t.mu.Lock()
	id := t.nextID
	t.nextID++
	t.subs[id] = ch
	t.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.subs, id)
			t.mu.Unlock()
			close(ch)
		})
	}
}

func (t *Tracker) notify() {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, ch := range t.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
