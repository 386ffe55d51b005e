package model

// NewsArticle is a single article record returned by a news source.
type NewsArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Source      string `json:"source"`
	PublishedAt string `json:"published_at"`
	URL         string `json:"url"`
}

// SentimentLabel is the majority label assigned to one article.
type SentimentLabel string

const (
	LabelPositive SentimentLabel = "positive"
	LabelNegative SentimentLabel = "negative"
	LabelNeutral  SentimentLabel = "neutral"
)

// ArticleSentiment holds the classifier output for a single article.
// Score = Positive - Negative, in [-1, 1]. The probabilities need not sum
// exactly to 1 due to upstream rounding.
type ArticleSentiment struct {
	Title       string
	Source      string
	PublishedAt string
	URL         string

	Positive float64
	Negative float64
	Neutral  float64
	Score    float64
	Label    SentimentLabel
}
