package portfolio

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"NewsSentinel/internal/market"
	"NewsSentinel/internal/model"
)

// Ledger owns the append-only trade log and derives the live portfolio by
// replaying it from scratch on every call. Nothing is cached across calls;
// the log is the single source of truth.
//
// Apply is the only operation with external side effects. The mutex guards
// the load-replay-append sequence within one process; concurrent processes
// sharing one log file are not supported.
type Ledger struct {
	mu      sync.Mutex
	store   TradeStore
	history EquityStore
	prices  market.PriceSource

	initialCash   float64
	tradeFraction float64
	now           func() time.Time
}

// NewLedger creates a Ledger. tradeFraction is the maximum share of
// approximate equity committed to a single new BUY, in (0, 1]. The clock is
// injectable for deterministic replay tests; nil means time.Now.
func NewLedger(store TradeStore, history EquityStore, prices market.PriceSource, initialCash, tradeFraction float64, now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{
		store:         store,
		history:       history,
		prices:        prices,
		initialCash:   initialCash,
		tradeFraction: tradeFraction,
		now:           now,
	}
}

// Replay reconstructs cash, open positions, and cumulative realized P&L
// from a trade list. Trades are processed in timestamp order with input
// order breaking ties (stable sort), starting from the initial cash balance.
//
// A BUY unconditionally overwrites any open lot for the symbol, discarding
// the earlier lot's cost basis rather than averaging. That quirk is kept
// deliberately: replays of existing logs must not change result. A SELL
// with no open lot is ignored; otherwise it liquidates the full lot.
func (l *Ledger) Replay(trades []model.Trade) (cash float64, positions map[string]model.Position, realizedPnL float64) {
	cash = l.initialCash
	positions = make(map[string]model.Position)

	sorted := make([]model.Trade, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	for _, t := range sorted {
		switch t.Side {
		case model.SideBuy:
			cash -= float64(t.Qty) * t.Price
			positions[t.Symbol] = model.Position{Symbol: t.Symbol, Qty: t.Qty, AvgCost: t.Price}
		case model.SideSell:
			pos, ok := positions[t.Symbol]
			if !ok {
				continue
			}
			cash += float64(t.Qty) * t.Price
			realizedPnL += (t.Price - pos.AvgCost) * float64(t.Qty)
			delete(positions, t.Symbol)
		}
	}
	return cash, positions, realizedPnL
}

// Snapshot loads the trade log, replays it, and prices every open position
// at the latest market price. Idempotent: repeated calls without new trades
// return identical cash and realized P&L (equity may drift with the market).
func (l *Ledger) Snapshot() (*model.PortfolioSnapshot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	trades, err := l.store.Load()
	if err != nil {
		return nil, fmt.Errorf("load trade log: %w", err)
	}
	return l.snapshotFromTrades(trades), nil
}

// snapshotFromTrades replays and enriches without touching the store. When
// the price source has no usable price (≤0), the lot is priced at cost, so
// its unrealized P&L reads exactly 0 instead of erroring.
func (l *Ledger) snapshotFromTrades(trades []model.Trade) *model.PortfolioSnapshot {
	cash, positions, realizedPnL := l.Replay(trades)

	snap := &model.PortfolioSnapshot{
		Cash:        cash,
		Equity:      cash,
		RealizedPnL: realizedPnL,
	}

	symbols := make([]string, 0, len(positions))
	for sym := range positions {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	for _, sym := range symbols {
		pos := positions[sym]
		lastPrice := l.prices.LatestPrice(sym)
		if lastPrice <= 0 {
			lastPrice = pos.AvgCost
		}
		marketValue := float64(pos.Qty) * lastPrice
		uPnL := float64(pos.Qty) * (lastPrice - pos.AvgCost)

		snap.Equity += marketValue
		snap.UnrealizedPnL += uPnL
		snap.Positions = append(snap.Positions, model.PositionView{
			Symbol:        sym,
			Qty:           pos.Qty,
			AvgCost:       pos.AvgCost,
			LastPrice:     lastPrice,
			MarketValue:   marketValue,
			UnrealizedPnL: uPnL,
		})
	}
	return snap
}

// Apply executes BUY/SELL signals against the portfolio, appends the
// resulting trades to the log, records an equity-history point, and returns
// a fresh snapshot at live prices.
//
// Sizing uses equity approximated at cost basis (cheaper than a full
// market-priced snapshot, and sufficient for a budget cap). Rules, per
// signal in input order:
//   - BUY with no open lot: budget = min(tradeFraction × approxEquity,
//     cash), qty = floor(budget / price); skipped without a trade when the
//     price is unusable or qty floors to 0.
//   - BUY with an open lot: no-op. One open lot per symbol, enforced here.
//   - SELL with an open lot: liquidates the full quantity.
//   - SELL with no lot, or HOLD: no-op.
func (l *Ledger) Apply(signals []model.TradingSignal) (*model.PortfolioSnapshot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	trades, err := l.store.Load()
	if err != nil {
		return nil, fmt.Errorf("load trade log: %w", err)
	}
	cash, positions, realizedPnL := l.Replay(trades)

	approxEquity := cash
	for _, pos := range positions {
		approxEquity += float64(pos.Qty) * pos.AvgCost
	}

	var newTrades []model.Trade
	now := l.now()

	for _, sig := range signals {
		sym := sig.Symbol
		switch sig.Action {
		case model.ActionBuy:
			if _, open := positions[sym]; open {
				// Never add to or re-price an existing lot.
				continue
			}
			price := l.prices.LatestPrice(sym)
			if price <= 0 {
				log.Printf("[WARN] skipping BUY for %s: no price data", sym)
				continue
			}
			budget := l.tradeFraction * approxEquity
			if cash < budget {
				budget = cash
			}
			qty := int(budget / price)
			if qty <= 0 {
				log.Printf("[WARN] skipping BUY for %s: insufficient cash for one share at %.2f", sym, price)
				continue
			}
			value := float64(qty) * price
			cash -= value
			positions[sym] = model.Position{Symbol: sym, Qty: qty, AvgCost: price}
			newTrades = append(newTrades, model.Trade{
				Timestamp: now, Symbol: sym, Side: model.SideBuy,
				Qty: qty, Price: price, Value: value,
			})

		case model.ActionSell:
			pos, open := positions[sym]
			if !open {
				continue
			}
			price := l.prices.LatestPrice(sym)
			if price <= 0 {
				log.Printf("[WARN] skipping SELL for %s: no price data", sym)
				continue
			}
			value := float64(pos.Qty) * price
			cash += value
			realizedPnL += (price - pos.AvgCost) * float64(pos.Qty)
			delete(positions, sym)
			newTrades = append(newTrades, model.Trade{
				Timestamp: now, Symbol: sym, Side: model.SideSell,
				Qty: pos.Qty, Price: price, Value: value,
			})
		}
	}

	if len(newTrades) > 0 {
		if err := l.store.Append(newTrades); err != nil {
			return nil, fmt.Errorf("append trades: %w", err)
		}
		trades = append(trades, newTrades...)
	}

	snap := l.snapshotFromTrades(trades)

	if l.history != nil {
		point := model.EquityPoint{
			Timestamp:     l.now(),
			Equity:        snap.Equity,
			Cash:          snap.Cash,
			RealizedPnL:   snap.RealizedPnL,
			UnrealizedPnL: snap.UnrealizedPnL,
		}
		if err := l.history.Append(point); err != nil {
			log.Printf("[ERROR] append equity history: %v", err)
		}
	}

	return snap, nil
}
