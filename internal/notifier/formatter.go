package notifier

import (
	"fmt"
	"strings"
	"time"

	"NewsSentinel/internal/model"
)

// FormatRunReport builds the post-run alert: actionable signals first, then
// the paper-trading portfolio status.
func FormatRunReport(signals []model.TradingSignal, snap *model.PortfolioSnapshot) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📰 <b>NewsSentinel Run</b> | %s\n\n", time.Now().Format("2006-01-02 15:04")))

	var actionable []model.TradingSignal
	for _, s := range signals {
		if s.Action == model.ActionBuy || s.Action == model.ActionSell {
			actionable = append(actionable, s)
		}
	}

	if len(actionable) == 0 {
		b.WriteString("No actionable signals (all HOLD).\n")
	} else {
		b.WriteString("<b>Signals:</b>\n")
		for _, s := range actionable {
			b.WriteString(fmt.Sprintf("• %s: %s | score=%+.2f, view=%s, conf=%s\n",
				s.Symbol, s.Action, s.FinalScore, s.View, s.Confidence))
		}
	}

	b.WriteString("\n")
	b.WriteString(FormatPortfolioStatus(snap))
	return b.String()
}

// FormatPortfolioStatus formats the current portfolio snapshot for display.
func FormatPortfolioStatus(snap *model.PortfolioSnapshot) string {
	var b strings.Builder
	b.WriteString("💼 <b>Portfolio (paper trading)</b>\n")
	b.WriteString(fmt.Sprintf("Equity: %.2f\n", snap.Equity))
	b.WriteString(fmt.Sprintf("Cash: %.2f\n", snap.Cash))
	b.WriteString(fmt.Sprintf("Realized PnL: %+.2f\n", snap.RealizedPnL))
	b.WriteString(fmt.Sprintf("Unrealized PnL: %+.2f\n", snap.UnrealizedPnL))

	if len(snap.Positions) > 0 {
		b.WriteString("\n<b>Open positions:</b>\n")
		for _, p := range snap.Positions {
			b.WriteString(fmt.Sprintf("• %s: %d @ %.2f (last %.2f, PnL %+.2f)\n",
				p.Symbol, p.Qty, p.AvgCost, p.LastPrice, p.UnrealizedPnL))
		}
	}
	return b.String()
}

// FormatSignalList formats every signal of a run, including HOLDs.
func FormatSignalList(signals []model.TradingSignal) string {
	if len(signals) == 0 {
		return "No signals in the last run."
	}
	var b strings.Builder
	b.WriteString("📊 <b>Latest signals</b>\n")
	for _, s := range signals {
		b.WriteString(fmt.Sprintf("• %s: %s (score=%+.2f, articles=%d, conf=%s)\n",
			s.Symbol, s.Action, s.FinalScore, s.ArticleCount, s.Confidence))
	}
	return b.String()
}
