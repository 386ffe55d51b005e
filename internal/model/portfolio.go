package model

import "time"

// Side of a ledger trade.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Trade is one row of the append-only trade log. Rows are never mutated or
// deleted; the portfolio is always replayed from the full history.
type Trade struct {
	Timestamp time.Time
	Symbol    string
	Side      Side
	Qty       int
	Price     float64
	Value     float64
}

// Position is an open lot derived by replay. The model supports a single
// open lot per symbol; AvgCost is the price of the BUY that opened it, not
// a weighted average across buys.
type Position struct {
	Symbol  string
	Qty     int
	AvgCost float64
}

// PositionView is an open position enriched with the latest market price.
type PositionView struct {
	Symbol        string
	Qty           int
	AvgCost       float64
	LastPrice     float64
	MarketValue   float64
	UnrealizedPnL float64
}

// PortfolioSnapshot is the point-in-time portfolio state. Recomputed fully
// on every call; the trade log is the only persistent state.
type PortfolioSnapshot struct {
	Cash          float64
	Equity        float64
	RealizedPnL   float64
	UnrealizedPnL float64
	Positions     []PositionView
}

// EquityPoint is one row of the write-only equity-history log.
type EquityPoint struct {
	Timestamp     time.Time
	Equity        float64
	Cash          float64
	RealizedPnL   float64
	UnrealizedPnL float64
}
