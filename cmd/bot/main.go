package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"NewsSentinel/internal/classifier"
	"NewsSentinel/internal/config"
	"NewsSentinel/internal/market"
	"NewsSentinel/internal/news"
	"NewsSentinel/internal/notifier"
	"NewsSentinel/internal/portfolio"
	"NewsSentinel/internal/recorder"
	"NewsSentinel/internal/runner"
	"NewsSentinel/internal/scheduler"
	"NewsSentinel/internal/strategy"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] NewsSentinel starting...")

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

	// Init news fetcher
	var fetcher news.Fetcher
	switch cfg.News.Mode {
	case "local":
		fetcher, err = news.NewLocalFetcher(cfg.News.SampleFile)
	default:
		fetcher, err = news.NewNewsAPIFetcher(cfg.News.APIKey, cfg.News.Endpoint,
			cfg.News.Language, cfg.News.PageSize, cfg.SymbolQueries, cfg.Proxy)
	}
	if err != nil {
		log.Fatalf("[FATAL] init news fetcher: %v", err)
	}
	log.Printf("[INFO] news source: %s", fetcher.Name())

	// Init sentiment classifier
	cls, err := classifier.NewFinBERTClient(cfg.Classifier.BaseURL, cfg.Classifier.RequestsPerSec)
	if err != nil {
		log.Fatalf("[FATAL] init classifier: %v", err)
	}

	// Init market price source
	prices := market.NewYahooSource(cfg.Proxy)
	log.Printf("[INFO] price source: %s", prices.Name())

	// Init portfolio ledger
	trades := portfolio.NewCSVTradeStore(cfg.Portfolio.TradesFile)
	history := portfolio.NewCSVEquityStore(cfg.Portfolio.HistoryFile)
	ledger := portfolio.NewLedger(trades, history, prices,
		cfg.Portfolio.InitialCash, cfg.Portfolio.MaxTradeFraction, nil)

	// Init Telegram notifier
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	if !tn.Enabled() {
		log.Println("[WARN] Telegram credentials missing, notifications disabled")
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
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	run := &runner.Runner{
		News:       fetcher,
		Classifier: cls,
		Ledger:     ledger,
		Recorder:   rec,
		Watchlist:  cfg.Watchlist,
		Thresholds: strategy.Thresholds{
			Buy:  cfg.Signals.BuyThreshold,
			Sell: cfg.Signals.SellThreshold,
		},
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, run, tn)
	if err := sched.Register(cfg.Schedule.RunCron); err != nil {
		log.Fatalf("[FATAL] register cron task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Println("[INFO] Telegram polling started")

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing pipeline now")
		go sched.RunNow()
	}

	log.Println("[INFO] NewsSentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] NewsSentinel stopped")
}
