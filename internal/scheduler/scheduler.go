package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"

	"NewsSentinel/internal/model"
	"NewsSentinel/internal/notifier"
	"NewsSentinel/internal/runner"

	"github.com/robfig/cron/v3"
)

// Scheduler drives periodic pipeline runs and serves manual commands.
type Scheduler struct {
	Cron     *cron.Cron
	Runner   *runner.Runner
	Notifier *notifier.TelegramNotifier
	Ctx      context.Context

	mu          sync.Mutex
	lastSignals []model.TradingSignal
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, r *runner.Runner, tn *notifier.TelegramNotifier) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Runner:   r,
		Notifier: tn,
		Ctx:      ctx,
	}
}

// Register registers the periodic run task.
func (s *Scheduler) Register(runCron string) error {
	if _, err := s.Cron.AddFunc(runCron, s.runTask); err != nil {
		return fmt.Errorf("register run task: %w", err)
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
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes the pipeline immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.runTask()
}

func (s *Scheduler) runTask() {
	log.Println("[INFO] running sentiment pipeline")
	res, err := s.Runner.RunOnce(s.Ctx)
	if err != nil {
		log.Printf("[ERROR] pipeline run: %v", err)
		s.trySend(fmt.Sprintf("❌ Pipeline run failed: %v", err))
		return
	}

	s.mu.Lock()
	s.lastSignals = res.Signals
	s.mu.Unlock()

	s.trySend(notifier.FormatRunReport(res.Signals, res.Snapshot))
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/run":
		go s.runTask()
		return "Run started."
	case "/portfolio":
		snap, err := s.Runner.Ledger.Snapshot()
		if err != nil {
			return fmt.Sprintf("Snapshot failed: %v", err)
		}
		return notifier.FormatPortfolioStatus(snap)
	case "/signals":
		s.mu.Lock()
		signals := s.lastSignals
		s.mu.Unlock()
		return notifier.FormatSignalList(signals)
	default:
		return "Available commands:\n• /run\n• /portfolio\n• /signals"
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
