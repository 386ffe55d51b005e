package runner

import (
	"context"
	"fmt"
	"log"
	"strings"

	"NewsSentinel/internal/classifier"
	"NewsSentinel/internal/model"
	"NewsSentinel/internal/news"
	"NewsSentinel/internal/portfolio"
	"NewsSentinel/internal/recorder"
	"NewsSentinel/internal/sentiment"
	"NewsSentinel/internal/strategy"
)

// Runner executes one full pipeline pass: for every watchlist symbol it
// fetches articles, classifies them, aggregates sentiment, generates a
// signal, and finally applies all signals to the portfolio ledger.
type Runner struct {
	News       news.Fetcher
	Classifier classifier.Classifier
	Ledger     *portfolio.Ledger
	Recorder   recorder.Recorder
	Watchlist  []string
	Thresholds strategy.Thresholds
}

// Result is the outcome of one run.
type Result struct {
	Signals  []model.TradingSignal
	Snapshot *model.PortfolioSnapshot
}

// buildText combines an article's title and description into the classifier
// input. Returns "" for articles with no usable text; those are skipped.
func buildText(a model.NewsArticle) string {
	text := strings.TrimSpace(a.Title)
	if desc := strings.TrimSpace(a.Description); desc != "" {
		if text != "" {
			text += ". " + desc
		} else {
			text = desc
		}
	}
	return text
}

// analyzeSymbol produces the signal for a single symbol. Classifier
// failures degrade to the no-data signal so the run continues for the rest
// of the watchlist; only news-source configuration errors propagate.
func (r *Runner) analyzeSymbol(ctx context.Context, symbol string) (model.TradingSignal, *model.SentimentSummary, error) {
	articles, err := r.News.FetchArticles(ctx, symbol)
	if err != nil {
		return model.TradingSignal{}, nil, fmt.Errorf("fetch articles for %s: %w", symbol, err)
	}

	var kept []model.NewsArticle
	var texts []string
	for _, a := range articles {
		if text := buildText(a); text != "" {
			kept = append(kept, a)
			texts = append(texts, text)
		}
	}

	var results []model.ArticleSentiment
	if len(texts) > 0 {
		results, err = r.Classifier.Classify(ctx, texts)
		if err != nil {
			log.Printf("[WARN] classify %s failed, treating as no data: %v", symbol, err)
			results = nil
		}
	}

	// Attach article metadata to each classifier result.
	for i := range results {
		if i < len(kept) {
			results[i].Title = kept[i].Title
			results[i].Source = kept[i].Source
			results[i].PublishedAt = kept[i].PublishedAt
			results[i].URL = kept[i].URL
		}
	}

	summary := sentiment.Aggregate(results, r.Thresholds.Buy, r.Thresholds.Sell)
	sig := strategy.Generate(symbol, summary, r.Thresholds)
	return sig, summary, nil
}

// RunOnce analyzes the whole watchlist and applies the resulting signals to
// the portfolio.
func (r *Runner) RunOnce(ctx context.Context) (*Result, error) {
	signals := make([]model.TradingSignal, 0, len(r.Watchlist))

	for _, symbol := range r.Watchlist {
		sig, summary, err := r.analyzeSymbol(ctx, symbol)
		if err != nil {
			return nil, err
		}
		log.Printf("[INFO] %s: signal=%s score=%.4f articles=%d confidence=%s",
			sig.Symbol, sig.Action, sig.FinalScore, sig.ArticleCount, sig.Confidence)

		if err := r.Recorder.RecordSignal(&recorder.SignalRecord{Signal: sig, Summary: summary}); err != nil {
			log.Printf("[ERROR] record signal for %s: %v", sig.Symbol, err)
		}
		signals = append(signals, sig)
	}

	snap, err := r.Ledger.Apply(signals)
	if err != nil {
		return nil, fmt.Errorf("apply signals: %w", err)
	}

	var buys, sells int
	for _, sig := range signals {
		switch sig.Action {
		case model.ActionBuy:
			buys++
		case model.ActionSell:
			sells++
		}
	}
	if err := r.Recorder.RecordRun(&recorder.RunRecord{
		Snapshot: snap, Signals: signals, BuyCount: buys, SellCount: sells,
	}); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}

	log.Printf("[INFO] run complete: equity=%.2f cash=%.2f realized=%.2f unrealized=%.2f positions=%d",
		snap.Equity, snap.Cash, snap.RealizedPnL, snap.UnrealizedPnL, len(snap.Positions))
	return &Result{Signals: signals, Snapshot: snap}, nil
}
