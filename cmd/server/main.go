package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"DrawSentinel/internal/collector"
	"DrawSentinel/internal/config"
	"DrawSentinel/internal/notifier"
	"DrawSentinel/internal/recorder"
	"DrawSentinel/internal/scheduler"
	"DrawSentinel/internal/tracker"
	"DrawSentinel/internal/version"
	"DrawSentinel/internal/web"

	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("[INFO] DrawSentinel %s starting...", version.String())

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[WARN] load .env: %v", err)
	}

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}
	defer rec.Close()

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.DataSource.Mock {
		fetcher = collector.NewDevMockFetcher()
	} else {
		fetcher = collector.NewCoinGeckoFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy,
			cfg.RateLimit(), cfg.Timeout())
	}
	fetcher = collector.NewCachedFetcher(fetcher, rec)
	log.Printf("[INFO] data source: %s", fetcher.Name())

	tr := tracker.New(fetcher,
		tracker.WithLocation(cfg.Location()),
		tracker.WithCooldown(cfg.Cooldown()),
	)
	log.Printf("[INFO] draws: %s (%s)", tr.Schedule(), tr.Location())

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Init Telegram notifier; a typed nil would make the Sender non-nil.
	var tn *notifier.TelegramNotifier
	var sender scheduler.Sender
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		sender = tn
	}

	sched := scheduler.NewScheduler(ctx, tr, sender)
	if err := sched.RegisterAll(cfg.Schedule.PriceRefreshCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()
	go sched.RefreshNow()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	log.Println("[INFO] DrawSentinel is running. Press Ctrl+C to stop.")
	srv := web.NewServer(tr)
	if err := srv.ListenAndServe(ctx, cfg.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("[ERROR] http server: %v", err)
	}

	log.Println("[INFO] DrawSentinel stopped")
}
