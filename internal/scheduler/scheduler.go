package scheduler

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"strings"
	"time"

	"DrawSentinel/internal/collector"
	"DrawSentinel/internal/model"
	"DrawSentinel/internal/notifier"
	"DrawSentinel/internal/tracker"

	"github.com/robfig/cron/v3"
)

// Sender delivers a chat message.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// Scheduler manages the cron tasks and the bot commands.
type Scheduler struct {
	Cron     *cron.Cron
	Tracker  *tracker.Tracker
	Notifier Sender // nil when Telegram is disabled
	Ctx      context.Context
}

// NewScheduler creates a new Scheduler. With a notifier, every new row is
// also pushed to the chat.
func NewScheduler(ctx context.Context, tr *tracker.Tracker, n Sender) *Scheduler {
	s := &Scheduler{
		Cron:     cron.New(cron.WithSeconds(), cron.WithLocation(tr.Location())),
		Tracker:  tr,
		Notifier: n,
		Ctx:      ctx,
	}
	if n != nil {
		tr.OnRow(func(row model.Row) {
			go s.trySend(notifier.FormatRow(row))
		})
	}
	return s
}

// RegisterAll registers the price refresh and the draw-time tasks.
func (s *Scheduler) RegisterAll(priceRefreshCron string) error {
	if _, err := s.Cron.AddFunc(priceRefreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register price refresh task: %w", err)
	}
	if _, err := s.Cron.AddFunc(s.Tracker.Schedule().CronSpec(), s.drawTask); err != nil {
		return fmt.Errorf("register draw task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RefreshNow fetches the reference price immediately.
func (s *Scheduler) RefreshNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	if err := s.Tracker.RefreshCurrentPrice(s.Ctx); err != nil {
		log.Printf("[ERROR] refresh current price: %v", err)
	}
}

func (s *Scheduler) drawTask() {
	log.Println("[INFO] running draw task")
	s.refreshTask()

	drawAt := s.Tracker.Now().Truncate(time.Minute)
	if !s.Tracker.Schedule().IsDrawTime(drawAt) {
		log.Printf("[WARN] draw task fired at %s, not a draw time; skipping announcement", drawAt.Format(time.RFC3339))
		return
	}
	next, err := s.Tracker.NextDraw(drawAt)
	if err != nil {
		log.Printf("[ERROR] resolve next draw: %v", err)
		return
	}
	log.Printf("[INFO] draw at %s, next draw %s", drawAt.Format(time.RFC3339), next.Format(time.RFC3339))
	s.trySend(notifier.FormatDrawAnnouncement(drawAt, next, s.Tracker.CurrentPrice()))
}

// HandleCommand processes a bot command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	name, arg, _ := strings.Cut(strings.TrimSpace(command), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case "/draw":
		input, err := s.Tracker.ParseInput(arg)
		if err != nil {
			return html.EscapeString(err.Error())
		}
		row, err := s.Tracker.Submit(ctx, input)
		if err != nil {
			return describeError(err)
		}
		if s.Notifier != nil {
			// The row listener already pushes it to the chat.
			return ""
		}
		return notifier.FormatRow(*row)
	case "/next":
		input := s.Tracker.Now()
		if arg != "" {
			in, err := s.Tracker.ParseInput(arg)
			if err != nil {
				return html.EscapeString(err.Error())
			}
			input = in
		}
		next, err := s.Tracker.NextDraw(input)
		if err != nil {
			return html.EscapeString(err.Error())
		}
		return notifier.FormatNextDraw(input, next)
	case "/rows":
		return notifier.FormatTable(s.Tracker.Rows())
	case "/price":
		return notifier.FormatPrice(s.Tracker.CurrentPrice())
	default:
		return notifier.FormatHelp()
	}
}

func describeError(err error) string {
	var unavailable *tracker.UnavailablePriceError
	switch {
	case errors.As(err, &unavailable), errors.Is(err, tracker.ErrBusy):
		return html.EscapeString(err.Error())
	case errors.Is(err, collector.ErrNoPriceData):
		return "No bitcoin price available"
	default:
		log.Printf("[ERROR] bot projection: %v", err)
		return "❌ Failed to fetch the bitcoin price, try again later"
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.Send(s.Ctx, text); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
