package model

// Action is the discrete trading recommendation for one symbol in one run.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionHold Action = "HOLD"
)

// Confidence is the tier attached to a signal. Low is reserved for the
// no-data case; a neutral-band HOLD is medium.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// TradingSignal is the final output of the signal generator. Created once
// per symbol per run; immutable thereafter.
type TradingSignal struct {
	Symbol     string
	Action     Action
	Confidence Confidence
	Reason     string

	// Carried through from the aggregated summary.
	FinalScore   float64
	View         SentimentView
	ArticleCount int
	BullishRatio float64
	BearishRatio float64
}
