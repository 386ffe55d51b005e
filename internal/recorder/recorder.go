package recorder

import "NewsSentinel/internal/model"

// SignalRecord holds one generated signal plus the aggregated summary it
// was derived from.
type SignalRecord struct {
	Signal  model.TradingSignal
	Summary *model.SentimentSummary // nil when no articles were available
}

// RunRecord holds the portfolio outcome of one full watchlist run.
type RunRecord struct {
	Snapshot  *model.PortfolioSnapshot
	Signals   []model.TradingSignal
	BuyCount  int
	SellCount int
}

// Recorder persists run history for later analysis. Recorder failures must
// never fail a run: callers log the error and continue.
type Recorder interface {
	RecordSignal(rec *SignalRecord) error
	RecordRun(rec *RunRecord) error
	Close() error
}
