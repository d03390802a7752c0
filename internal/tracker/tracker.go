// Package tracker turns a picked date into a projection row: it resolves the
// next draw, fetches the draw-date price, projects the stake against the
// current reference price and keeps the resulting table in memory.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"DrawSentinel/internal/calculator"
	"DrawSentinel/internal/collector"
	"DrawSentinel/internal/draw"
	"DrawSentinel/internal/metrics"
	"DrawSentinel/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultCooldown keeps submits locked for a moment after a request settles.
const DefaultCooldown = 700 * time.Millisecond

const invalidDateMessage = "the informed date is invalid, pick a valid date and try again"

// Tracker orchestrates submits. At most one submit is processed at a time.
type Tracker struct {
	fetcher  collector.Fetcher
	schedule draw.Schedule
	stake    decimal.Decimal
	cooldown time.Duration
	loc      *time.Location
	now      func() time.Time

	mu        sync.Mutex
	current   *model.PricePoint
	rows      []model.Row
	busy      bool
	listeners []func(model.Row)
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithCooldown sets how long submits stay locked after a request settles.
func WithCooldown(d time.Duration) Option {
	return func(t *Tracker) { t.cooldown = d }
}

// WithLocation sets the zone user input is read in.
func WithLocation(loc *time.Location) Option {
	return func(t *Tracker) {
		if loc != nil {
			t.loc = loc
		}
	}
}

// New creates a Tracker over fetcher with the fixed draw schedule and stake.
func New(fetcher collector.Fetcher, opts ...Option) *Tracker {
	t := &Tracker{
		fetcher:  fetcher,
		schedule: draw.DefaultSchedule(),
		stake:    model.Stake,
		cooldown: DefaultCooldown,
		loc:      time.Local,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tracker) Schedule() draw.Schedule  { return t.schedule }
func (t *Tracker) Stake() decimal.Decimal   { return t.stake }
func (t *Tracker) Location() *time.Location { return t.loc }
func (t *Tracker) Now() time.Time           { return t.now().In(t.loc) }
func (t *Tracker) FetcherName() string      { return t.fetcher.Name() }
func (t *Tracker) Cooldown() time.Duration  { return t.cooldown }

// ParseInput reads a user-typed date in the tracker's location.
func (t *Tracker) ParseInput(s string) (time.Time, error) {
	in, err := draw.ParseInstant(s, t.loc)
	if err != nil {
		return time.Time{}, &draw.InvalidInputError{Reason: invalidDateMessage}
	}
	return in, nil
}

// NextDraw resolves the next draw for input without fetching anything.
func (t *Tracker) NextDraw(input time.Time) (time.Time, error) {
	return t.schedule.NextDraw(input)
}

// RefreshCurrentPrice fetches the reference price. An empty answer clears it;
// a transport failure keeps the previous value.
func (t *Tracker) RefreshCurrentPrice(ctx context.Context) error {
	p, err := t.fetcher.FetchCurrentPrice(ctx)
	if err != nil {
		if errors.Is(err, collector.ErrNoPriceData) {
			t.mu.Lock()
			t.current = nil
			t.mu.Unlock()
		}
		return err
	}

	t.mu.Lock()
	t.current = p
	t.mu.Unlock()
	log.Printf("[INFO] reference price updated: %s %s (%s)", p.Amount.StringFixed(2), p.Currency, p.Source)
	return nil
}

// CurrentPrice returns a copy of the reference price, or nil when unavailable.
func (t *Tracker) CurrentPrice() *model.PricePoint {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return nil
	}
	p := *t.current
	return &p
}

// Submit resolves the next draw after input and appends its projection row.
func (t *Tracker) Submit(ctx context.Context, input time.Time) (*model.Row, error) {
	if err := draw.ValidateInstant(input); err != nil {
		metrics.ObserveProjection(metrics.ResultInvalid)
		return nil, &draw.InvalidInputError{Reason: invalidDateMessage}
	}
	if !t.acquire() {
		metrics.ObserveProjection(metrics.ResultBusy)
		return nil, ErrBusy
	}
	defer t.release()

	row, err := t.project(ctx, input)
	if err != nil {
		var unavailable *UnavailablePriceError
		if errors.As(err, &unavailable) {
			metrics.ObserveProjection(metrics.ResultUnavailable)
		} else {
			metrics.ObserveProjection(metrics.ResultError)
		}
		return nil, err
	}
	metrics.ObserveProjection(metrics.ResultSuccess)

	t.mu.Lock()
	t.rows = append(t.rows, *row)
	listeners := append([]func(model.Row){}, t.listeners...)
	t.mu.Unlock()

	for _, fn := range listeners {
		fn(*row)
	}
	return row, nil
}

func (t *Tracker) project(ctx context.Context, input time.Time) (*model.Row, error) {
	drawAt, err := t.schedule.NextDraw(input)
	if err != nil {
		return nil, err
	}
	ref := t.CurrentPrice()

	hist, err := t.fetcher.FetchHistoricalPrice(ctx, drawAt)
	if errors.Is(err, collector.ErrNoPriceData) {
		return nil, &UnavailablePriceError{Draw: drawAt, Err: err}
	}
	if err != nil {
		return nil, fmt.Errorf("fetch price for draw: %w", err)
	}
	if ref == nil {
		return nil, &UnavailablePriceError{Draw: drawAt, Err: collector.ErrNoPriceData}
	}

	return &model.Row{
		ID:              uuid.New(),
		InputAt:         input,
		Draw:            drawAt,
		ReferencePrice:  *ref,
		HistoricalPrice: *hist,
		Stake:           t.stake,
		Projected:       calculator.Project(ref.Amount, hist.Amount, t.stake),
		CreatedAt:       t.now(),
	}, nil
}

func (t *Tracker) acquire() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.busy {
		return false
	}
	t.busy = true
	return true
}

// release unlocks submits once the cooldown has passed.
func (t *Tracker) release() {
	unlock := func() {
		t.mu.Lock()
		t.busy = false
		t.mu.Unlock()
	}
	if t.cooldown <= 0 {
		unlock()
		return
	}
	time.AfterFunc(t.cooldown, unlock)
}

// Busy reports whether submits are currently locked.
func (t *Tracker) Busy() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.busy
}

// Rows returns the table in insertion order.
func (t *Tracker) Rows() []model.Row {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]model.Row(nil), t.rows...)
}

// Empty reports whether the "no records" indicator should show.
func (t *Tracker) Empty() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.rows) == 0
}

// OnRow registers fn to be called after each appended row.
func (t *Tracker) OnRow(fn func(model.Row)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, fn)
}
