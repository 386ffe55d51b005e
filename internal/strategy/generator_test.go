package strategy

import (
	"testing"

	"NewsSentinel/internal/model"
)

func summaryWithScore(score float64, count int) *model.SentimentSummary {
	view := model.ViewMixed
	if score > DefaultBuyThreshold {
		view = model.ViewBullish
	} else if score < DefaultSellThreshold {
		view = model.ViewBearish
	}
	return &model.SentimentSummary{
		ArticleCount: count,
		FinalScore:   score,
		BullishRatio: 0.4,
		BearishRatio: 0.2,
		NeutralRatio: 0.4,
		View:         view,
	}
}

func TestGenerate_NoData(t *testing.T) {
	for _, summary := range []*model.SentimentSummary{nil, {ArticleCount: 0}} {
		sig := Generate("tsla", summary, DefaultThresholds())
		if sig.Action != model.ActionHold {
			t.Errorf("expected HOLD for no data, got %s", sig.Action)
		}
		if sig.Confidence != model.ConfidenceLow {
			t.Errorf("expected low confidence for no data, got %s", sig.Confidence)
		}
		if sig.Symbol != "TSLA" {
			t.Errorf("expected upper-cased symbol, got %q", sig.Symbol)
		}
		if sig.Reason != "No recent news articles available." {
			t.Errorf("unexpected reason: %q", sig.Reason)
		}
	}
}

func TestGenerate_Boundaries(t *testing.T) {
	thr := DefaultThresholds()
	tests := []struct {
		name       string
		score      float64
		action     model.Action
		confidence model.Confidence
	}{
		{"exactly buy threshold", 0.02, model.ActionBuy, model.ConfidenceMedium},
		{"just below high-confidence buy", 0.169, model.ActionBuy, model.ConfidenceMedium},
		{"exactly high-confidence buy", 0.17, model.ActionBuy, model.ConfidenceHigh},
		{"strong buy", 0.6, model.ActionBuy, model.ConfidenceHigh},
		{"exactly sell threshold", -0.02, model.ActionSell, model.ConfidenceMedium},
		{"just above high-confidence sell", -0.169, model.ActionSell, model.ConfidenceMedium},
		{"exactly high-confidence sell", -0.17, model.ActionSell, model.ConfidenceHigh},
		{"strong sell", -0.6, model.ActionSell, model.ConfidenceHigh},
		{"neutral band positive side", 0.019, model.ActionHold, model.ConfidenceMedium},
		{"neutral band negative side", -0.019, model.ActionHold, model.ConfidenceMedium},
		{"zero score with articles", 0.0, model.ActionHold, model.ConfidenceMedium},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := Generate("XYZ", summaryWithScore(tt.score, 5), thr)
			if sig.Action != tt.action {
				t.Errorf("score %.3f: expected %s, got %s", tt.score, tt.action, sig.Action)
			}
			if sig.Confidence != tt.confidence {
				t.Errorf("score %.3f: expected confidence %s, got %s", tt.score, tt.confidence, sig.Confidence)
			}
		})
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	summary := summaryWithScore(0.25, 7)
	thr := DefaultThresholds()
	a := Generate("AAPL", summary, thr)
	b := Generate("AAPL", summary, thr)
	if a != b {
		t.Errorf("identical inputs produced different signals:\n%+v\n%+v", a, b)
	}
	if a.Reason == "" {
		t.Error("expected non-empty reason")
	}
}

func TestGenerate_InvertedThresholds(t *testing.T) {
	// buy < sell is not validated: any score then matches BUY first.
	thr := Thresholds{Buy: -0.5, Sell: 0.5}
	sig := Generate("XYZ", summaryWithScore(0.0, 3), thr)
	if sig.Action != model.ActionBuy {
		t.Errorf("inverted thresholds should yield BUY at score 0, got %s", sig.Action)
	}
}

func TestGenerate_CarriesSummaryFields(t *testing.T) {
	summary := summaryWithScore(0.3, 9)
	sig := Generate("INFY", summary, DefaultThresholds())
	if sig.FinalScore != summary.FinalScore ||
		sig.ArticleCount != summary.ArticleCount ||
		sig.View != summary.View ||
		sig.BullishRatio != summary.BullishRatio ||
		sig.BearishRatio != summary.BearishRatio {
		t.Errorf("summary fields not carried through: %+v", sig)
	}
}
