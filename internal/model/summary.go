package model

// SentimentView is the categorical interpretation of an aggregated score.
type SentimentView string

const (
	ViewBullish SentimentView = "bullish"
	ViewBearish SentimentView = "bearish"
	ViewMixed   SentimentView = "mixed/neutral"
)

// SentimentSummary aggregates article-level sentiment for one symbol in one
// run. When ArticleCount > 0 the three ratios are non-negative and sum to 1.
type SentimentSummary struct {
	ArticleCount int
	FinalScore   float64
	AvgPositive  float64
	AvgNegative  float64
	AvgNeutral   float64
	BullishRatio float64
	BearishRatio float64
	NeutralRatio float64
	View         SentimentView
}
