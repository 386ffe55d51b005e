package strategy

import (
	"fmt"
	"strings"

	"NewsSentinel/internal/model"
)

// Default decision thresholds on the aggregated final score.
const (
	DefaultBuyThreshold  = 0.02
	DefaultSellThreshold = -0.02
)

// confidenceMargin is how far beyond a threshold the score must land for a
// signal to be upgraded from medium to high confidence.
const confidenceMargin = 0.15

// Thresholds are the decision cut-offs for one generation call. They are not
// validated: buy < sell produces an always-BUY-or-SELL regime on purpose.
type Thresholds struct {
	Buy  float64
	Sell float64
}

// DefaultThresholds returns the configured default cut-offs.
func DefaultThresholds() Thresholds {
	return Thresholds{Buy: DefaultBuyThreshold, Sell: DefaultSellThreshold}
}

// Generate converts an aggregated sentiment summary into a trading signal.
// A nil summary (or ArticleCount == 0) yields HOLD with low confidence: "no
// information", as opposed to the medium-confidence HOLD of the neutral
// band, which is "information says nothing actionable".
//
// Pure function: identical inputs always yield an identical signal.
func Generate(symbol string, summary *model.SentimentSummary, thr Thresholds) model.TradingSignal {
	sig := model.TradingSignal{
		Symbol:     strings.ToUpper(symbol),
		Action:     model.ActionHold,
		Confidence: model.ConfidenceLow,
		View:       model.ViewMixed,
	}

	if summary == nil || summary.ArticleCount == 0 {
		sig.Reason = "No recent news articles available."
		return sig
	}

	sig.FinalScore = summary.FinalScore
	sig.View = summary.View
	sig.ArticleCount = summary.ArticleCount
	sig.BullishRatio = summary.BullishRatio
	sig.BearishRatio = summary.BearishRatio

	var reasons []string
	reasons = append(reasons, fmt.Sprintf(
		"%d news articles analyzed. Overall sentiment is %s with score %.2f.",
		summary.ArticleCount, strings.ToUpper(string(summary.View)), summary.FinalScore))
	reasons = append(reasons, fmt.Sprintf(
		"Bullish articles: %.0f%%, Bearish articles: %.0f%%.",
		summary.BullishRatio*100, summary.BearishRatio*100))

	switch {
	case summary.FinalScore >= thr.Buy:
		sig.Action = model.ActionBuy
		sig.Confidence = model.ConfidenceMedium
		if summary.FinalScore >= thr.Buy+confidenceMargin {
			sig.Confidence = model.ConfidenceHigh
		}
		reasons = append(reasons, "Overall news tone is positive, suggesting upside potential.")
	case summary.FinalScore <= thr.Sell:
		sig.Action = model.ActionSell
		sig.Confidence = model.ConfidenceMedium
		if summary.FinalScore <= thr.Sell-confidenceMargin {
			sig.Confidence = model.ConfidenceHigh
		}
		reasons = append(reasons, "Overall news tone is negative, indicating downside risk.")
	default:
		sig.Action = model.ActionHold
		sig.Confidence = model.ConfidenceMedium
		reasons = append(reasons, "Sentiment is close to neutral. Waiting for clearer news direction.")
	}

	sig.Reason = strings.Join(reasons, " ")
	return sig
}
