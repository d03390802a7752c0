package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"DrawSentinel/internal/collector"
	"DrawSentinel/internal/tracker"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu   sync.Mutex
	msgs []string
}

func (f *fakeSender) Send(_ context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, text)
	return nil
}

func (f *fakeSender) messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.msgs...)
}

var wednesdayDraw = time.Date(2022, 8, 3, 20, 0, 0, 0, time.UTC)

func newTestScheduler(t *testing.T, n Sender) (*Scheduler, *collector.MockFetcher) {
	t.Helper()
	f := &collector.MockFetcher{
		Current:           decimal.NewFromInt(1000),
		DefaultHistorical: decimal.NewFromInt(100),
	}
	tr := tracker.New(f,
		tracker.WithCooldown(0),
		tracker.WithLocation(time.UTC),
		tracker.WithClock(func() time.Time { return wednesdayDraw.Add(20 * time.Millisecond) }),
	)
	s := NewScheduler(context.Background(), tr, n)
	s.RefreshNow()
	return s, f
}

func TestRegisterAll(t *testing.T) {
	s, _ := newTestScheduler(t, nil)
	require.NoError(t, s.RegisterAll("0 */10 * * * *"))
	assert.Len(t, s.Cron.Entries(), 2)

	s2, _ := newTestScheduler(t, nil)
	assert.Error(t, s2.RegisterAll("not a cron"))
}

func TestHandleCommand_Draw(t *testing.T) {
	s, _ := newTestScheduler(t, nil)

	reply := s.HandleCommand(context.Background(), "/draw 05-08-2022 19:30")
	assert.Contains(t, reply, "Draw 06-08-2022 20:00")
	assert.Contains(t, reply, "€1,000.00")
	assert.Len(t, s.Tracker.Rows(), 1)

	reply = s.HandleCommand(context.Background(), "/draw yesterday")
	assert.Equal(t, "the informed date is invalid, pick a valid date and try again", reply)
}

func TestHandleCommand_DrawPushedByListener(t *testing.T) {
	sender := &fakeSender{}
	s, _ := newTestScheduler(t, sender)

	reply := s.HandleCommand(context.Background(), "/draw 2022-08-05T19:30")
	assert.Empty(t, reply)
	assert.Eventually(t, func() bool { return len(sender.messages()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Contains(t, sender.messages()[0], "Draw 06-08-2022 20:00")
}

func TestHandleCommand_DrawUnavailable(t *testing.T) {
	s, f := newTestScheduler(t, nil)
	f.DefaultHistorical = decimal.Zero

	reply := s.HandleCommand(context.Background(), "/draw 05-08-2022 19:30")
	assert.Equal(t, "no bitcoin price found for the next draw date: 06-08-2022 20:00", reply)
	assert.Empty(t, s.Tracker.Rows())
}

func TestHandleCommand_Next(t *testing.T) {
	s, _ := newTestScheduler(t, nil)

	reply := s.HandleCommand(context.Background(), "/next 03-08-2022 20:00")
	assert.Equal(t, "Next draw after 03-08-2022 20:00: <b>10-08-2022 20:00</b>", reply)

	reply = s.HandleCommand(context.Background(), "/next")
	assert.Contains(t, reply, "<b>10-08-2022 20:00</b>")
}

func TestHandleCommand_RowsPriceHelp(t *testing.T) {
	s, _ := newTestScheduler(t, nil)

	assert.Equal(t, "No records found", s.HandleCommand(context.Background(), "/rows"))
	assert.Contains(t, s.HandleCommand(context.Background(), "/price"), "€1,000.00")
	assert.Contains(t, s.HandleCommand(context.Background(), "hello"), "Available commands")
}

func TestDrawTask(t *testing.T) {
	sender := &fakeSender{}
	s, f := newTestScheduler(t, sender)
	f.Current = decimal.NewFromInt(23000)

	s.drawTask()

	msgs := sender.messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "Draw time</b> | 03-08-2022 20:00")
	assert.Contains(t, msgs[0], "€23,000.00")
	assert.Contains(t, msgs[0], "Next draw: 10-08-2022 20:00")
}

func TestDrawTask_WithoutNotifier(t *testing.T) {
	s, f := newTestScheduler(t, nil)
	before := f.CurrentCalls
	s.drawTask()
	assert.Equal(t, before+1, f.CurrentCalls)
}

func TestDrawTask_SkipsOutsideDrawTime(t *testing.T) {
	sender := &fakeSender{}
	f := &collector.MockFetcher{Current: decimal.NewFromInt(1000)}
	tr := tracker.New(f,
		tracker.WithLocation(time.UTC),
		tracker.WithClock(func() time.Time { return time.Date(2022, 8, 4, 20, 0, 0, 0, time.UTC) }),
	)
	s := NewScheduler(context.Background(), tr, sender)

	s.drawTask()

	assert.Equal(t, 1, f.CurrentCalls, "the price is still refreshed")
	assert.Empty(t, sender.messages())
}
