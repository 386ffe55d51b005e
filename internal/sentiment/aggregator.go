package sentiment

import "NewsSentinel/internal/model"

// Aggregate reduces the classifier results for one symbol's articles into a
// single summary. Returns nil when articles is empty: callers must treat nil
// as "insufficient information", not as zero sentiment.
//
// Means are plain unweighted arithmetic means over all articles, with no
// recency decay and no deduplication of near-identical headlines. The
// categorical view uses strict inequality against the default thresholds;
// the discrete BUY/SELL/HOLD decision downstream may use different,
// caller-supplied thresholds and so may disagree with the view.
func Aggregate(articles []model.ArticleSentiment, buyThr, sellThr float64) *model.SentimentSummary {
	if len(articles) == 0 {
		return nil
	}

	n := len(articles)
	var sumScore, sumPos, sumNeg, sumNeu float64
	var posCount, negCount, neuCount int

	for _, a := range articles {
		sumScore += a.Score
		sumPos += a.Positive
		sumNeg += a.Negative
		sumNeu += a.Neutral

		switch a.Label {
		case model.LabelPositive:
			posCount++
		case model.LabelNegative:
			negCount++
		default:
			neuCount++
		}
	}

	fn := float64(n)
	summary := &model.SentimentSummary{
		ArticleCount: n,
		FinalScore:   sumScore / fn,
		AvgPositive:  sumPos / fn,
		AvgNegative:  sumNeg / fn,
		AvgNeutral:   sumNeu / fn,
		BullishRatio: float64(posCount) / fn,
		BearishRatio: float64(negCount) / fn,
		NeutralRatio: float64(neuCount) / fn,
	}

	switch {
	case summary.FinalScore > buyThr:
		summary.View = model.ViewBullish
	case summary.FinalScore < sellThr:
		summary.View = model.ViewBearish
	default:
		summary.View = model.ViewMixed
	}

	return summary
}
