package portfolio

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"NewsSentinel/internal/market"
	"NewsSentinel/internal/model"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestLedger(t *testing.T, prices map[string]float64) (*Ledger, *CSVTradeStore) {
	t.Helper()
	dir := t.TempDir()
	store := NewCSVTradeStore(filepath.Join(dir, "trades.csv"))
	history := NewCSVEquityStore(filepath.Join(dir, "history.csv"))
	src := &market.MockSource{Prices: prices}
	now := fixedClock(time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC))
	return NewLedger(store, history, src, 100000.0, 0.25, now), store
}

func buySignal(symbol string) model.TradingSignal {
	return model.TradingSignal{Symbol: symbol, Action: model.ActionBuy, Confidence: model.ConfidenceMedium}
}

func sellSignal(symbol string) model.TradingSignal {
	return model.TradingSignal{Symbol: symbol, Action: model.ActionSell, Confidence: model.ConfidenceMedium}
}

func TestApply_OpeningBuy(t *testing.T) {
	l, store := newTestLedger(t, map[string]float64{"XYZ": 50.0})

	snap, err := l.Apply([]model.TradingSignal{buySignal("XYZ")})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	// budget = min(0.25*100000, 100000) = 25000 → qty = 500
	if snap.Cash != 75000.0 {
		t.Errorf("expected cash 75000, got %.2f", snap.Cash)
	}
	if len(snap.Positions) != 1 {
		t.Fatalf("expected 1 position, got %d", len(snap.Positions))
	}
	pos := snap.Positions[0]
	if pos.Symbol != "XYZ" || pos.Qty != 500 || pos.AvgCost != 50.0 {
		t.Errorf("unexpected position: %+v", pos)
	}

	trades, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(trades) != 1 {
		t.Fatalf("expected 1 appended trade, got %d", len(trades))
	}
	tr := trades[0]
	if tr.Side != model.SideBuy || tr.Qty != 500 || tr.Price != 50.0 || tr.Value != 25000.0 {
		t.Errorf("unexpected trade row: %+v", tr)
	}
}

func TestApply_ClosingSell(t *testing.T) {
	l, store := newTestLedger(t, map[string]float64{"XYZ": 50.0})
	if _, err := l.Apply([]model.TradingSignal{buySignal("XYZ")}); err != nil {
		t.Fatalf("opening buy: %v", err)
	}

	// Price rises to 60 before the SELL.
	l.prices = &market.MockSource{Prices: map[string]float64{"XYZ": 60.0}}
	snap, err := l.Apply([]model.TradingSignal{sellSignal("XYZ")})
	if err != nil {
		t.Fatalf("apply sell: %v", err)
	}

	if snap.Cash != 105000.0 {
		t.Errorf("expected cash 105000, got %.2f", snap.Cash)
	}
	if snap.RealizedPnL != 5000.0 {
		t.Errorf("expected realized pnl 5000, got %.2f", snap.RealizedPnL)
	}
	if len(snap.Positions) != 0 {
		t.Errorf("expected position closed, got %+v", snap.Positions)
	}

	trades, _ := store.Load()
	if len(trades) != 2 {
		t.Fatalf("expected 2 trades in log, got %d", len(trades))
	}
	if trades[1].Side != model.SideSell || trades[1].Qty != 500 {
		t.Errorf("unexpected sell row: %+v", trades[1])
	}
}

func TestApply_BuyWithOpenPositionIsNoop(t *testing.T) {
	l, store := newTestLedger(t, map[string]float64{"XYZ": 50.0})
	first, err := l.Apply([]model.TradingSignal{buySignal("XYZ")})
	if err != nil {
		t.Fatalf("first buy: %v", err)
	}

	second, err := l.Apply([]model.TradingSignal{buySignal("XYZ")})
	if err != nil {
		t.Fatalf("second buy: %v", err)
	}

	if second.Cash != first.Cash {
		t.Errorf("repeated BUY changed cash: %.2f → %.2f", first.Cash, second.Cash)
	}
	trades, _ := store.Load()
	if len(trades) != 1 {
		t.Errorf("expected no second trade, log has %d rows", len(trades))
	}
}

func TestApply_SellWithoutPositionAndHoldAreNoops(t *testing.T) {
	l, store := newTestLedger(t, map[string]float64{"XYZ": 50.0})
	snap, err := l.Apply([]model.TradingSignal{
		sellSignal("XYZ"),
		{Symbol: "AAPL", Action: model.ActionHold},
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if snap.Cash != 100000.0 || snap.RealizedPnL != 0 {
		t.Errorf("no-op signals changed portfolio: %+v", snap)
	}
	trades, _ := store.Load()
	if len(trades) != 0 {
		t.Errorf("expected empty log, got %d rows", len(trades))
	}
}

func TestApply_SkipsBuyWithoutPrice(t *testing.T) {
	l, store := newTestLedger(t, map[string]float64{}) // no prices at all
	snap, err := l.Apply([]model.TradingSignal{buySignal("XYZ")})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if snap.Cash != 100000.0 || len(snap.Positions) != 0 {
		t.Errorf("priceless BUY should be skipped: %+v", snap)
	}
	trades, _ := store.Load()
	if len(trades) != 0 {
		t.Errorf("expected no trades, got %d", len(trades))
	}
}

func TestApply_QtyFloorsToZero(t *testing.T) {
	dir := t.TempDir()
	store := NewCSVTradeStore(filepath.Join(dir, "trades.csv"))
	src := &market.MockSource{Prices: map[string]float64{"BRK": 5000.0}}
	// Initial cash 1000 and 25% sizing: budget 250 buys zero shares at 5000.
	l := NewLedger(store, nil, src, 1000.0, 0.25, fixedClock(time.Unix(0, 0)))

	snap, err := l.Apply([]model.TradingSignal{buySignal("BRK")})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if snap.Cash != 1000.0 || len(snap.Positions) != 0 {
		t.Errorf("zero-qty BUY should be skipped: %+v", snap)
	}
}

func TestSnapshot_Idempotent(t *testing.T) {
	l, _ := newTestLedger(t, map[string]float64{"XYZ": 50.0})
	if _, err := l.Apply([]model.TradingSignal{buySignal("XYZ")}); err != nil {
		t.Fatalf("apply: %v", err)
	}

	a, err := l.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	b, err := l.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if a.Cash != b.Cash || a.RealizedPnL != b.RealizedPnL || a.Equity != b.Equity {
		t.Errorf("snapshots differ without intervening trades:\n%+v\n%+v", a, b)
	}
}

func TestSnapshot_PriceFallbackToCost(t *testing.T) {
	l, _ := newTestLedger(t, map[string]float64{"XYZ": 50.0})
	if _, err := l.Apply([]model.TradingSignal{buySignal("XYZ")}); err != nil {
		t.Fatalf("apply: %v", err)
	}

	// Price source fails afterwards: last price falls back to cost basis.
	l.prices = &market.MockSource{Prices: map[string]float64{"XYZ": 0.0}}
	snap, err := l.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	pos := snap.Positions[0]
	if pos.LastPrice != 50.0 {
		t.Errorf("expected fallback to avg cost 50, got %.2f", pos.LastPrice)
	}
	if pos.UnrealizedPnL != 0.0 {
		t.Errorf("expected unrealized pnl 0 on fallback, got %.2f", pos.UnrealizedPnL)
	}
	if snap.Equity != 100000.0 {
		t.Errorf("expected equity 100000 at cost, got %.2f", snap.Equity)
	}
}

func TestReplay_OrderIndependentAfterSort(t *testing.T) {
	l, _ := newTestLedger(t, nil)

	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(24 * time.Hour)
	t3 := t1.Add(48 * time.Hour)
	trades := []model.Trade{
		{Timestamp: t1, Symbol: "XYZ", Side: model.SideBuy, Qty: 100, Price: 50, Value: 5000},
		{Timestamp: t2, Symbol: "XYZ", Side: model.SideSell, Qty: 100, Price: 55, Value: 5500},
		{Timestamp: t3, Symbol: "AAPL", Side: model.SideBuy, Qty: 10, Price: 200, Value: 2000},
	}
	shuffled := []model.Trade{trades[2], trades[0], trades[1]}

	cash1, pos1, pnl1 := l.Replay(trades)
	cash2, pos2, pnl2 := l.Replay(shuffled)

	if cash1 != cash2 || pnl1 != pnl2 || len(pos1) != len(pos2) {
		t.Errorf("replay not order-independent: (%.2f,%.2f) vs (%.2f,%.2f)", cash1, pnl1, cash2, pnl2)
	}
	if math.Abs(pnl1-500.0) > 1e-9 {
		t.Errorf("expected realized pnl 500, got %.2f", pnl1)
	}
	if math.Abs(cash1-(100000+500-2000)) > 1e-9 {
		t.Errorf("unexpected cash %.2f", cash1)
	}
}

func TestReplay_RepeatedBuyOverwritesCostBasis(t *testing.T) {
	l, _ := newTestLedger(t, nil)

	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	trades := []model.Trade{
		{Timestamp: t1, Symbol: "XYZ", Side: model.SideBuy, Qty: 100, Price: 50, Value: 5000},
		{Timestamp: t1.Add(time.Hour), Symbol: "XYZ", Side: model.SideBuy, Qty: 10, Price: 80, Value: 800},
	}
	cash, positions, _ := l.Replay(trades)

	// Both buys debit cash, but the second lot replaces the first outright.
	if math.Abs(cash-(100000-5000-800)) > 1e-9 {
		t.Errorf("unexpected cash %.2f", cash)
	}
	pos := positions["XYZ"]
	if pos.Qty != 10 || pos.AvgCost != 80 {
		t.Errorf("expected overwritten lot {10, 80}, got %+v", pos)
	}
}

func TestReplay_SellWithoutPositionIgnored(t *testing.T) {
	l, _ := newTestLedger(t, nil)
	trades := []model.Trade{
		{Timestamp: time.Now(), Symbol: "XYZ", Side: model.SideSell, Qty: 100, Price: 50, Value: 5000},
	}
	cash, positions, pnl := l.Replay(trades)
	if cash != 100000.0 || pnl != 0 || len(positions) != 0 {
		t.Errorf("orphan SELL must be ignored: cash=%.2f pnl=%.2f positions=%v", cash, pnl, positions)
	}
}

func TestReplay_ZeroTimestampSortsFirst(t *testing.T) {
	l, _ := newTestLedger(t, nil)

	// The zero-time BUY (an unparseable row) must replay before the dated
	// SELL even though it appears later in the file.
	trades := []model.Trade{
		{Timestamp: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Symbol: "XYZ", Side: model.SideSell, Qty: 100, Price: 60, Value: 6000},
		{Timestamp: time.Time{}, Symbol: "XYZ", Side: model.SideBuy, Qty: 100, Price: 50, Value: 5000},
	}
	cash, positions, pnl := l.Replay(trades)
	if len(positions) != 0 {
		t.Errorf("expected SELL to close the zero-time lot, positions=%v", positions)
	}
	if math.Abs(pnl-1000.0) > 1e-9 {
		t.Errorf("expected realized pnl 1000, got %.2f", pnl)
	}
	if math.Abs(cash-101000.0) > 1e-9 {
		t.Errorf("expected cash 101000, got %.2f", cash)
	}
}

func TestApply_PersistsAcrossLedgers(t *testing.T) {
	dir := t.TempDir()
	tradesPath := filepath.Join(dir, "trades.csv")
	src := &market.MockSource{Prices: map[string]float64{"XYZ": 50.0}}

	l1 := NewLedger(NewCSVTradeStore(tradesPath), nil, src, 100000.0, 0.25, fixedClock(time.Unix(1700000000, 0)))
	if _, err := l1.Apply([]model.TradingSignal{buySignal("XYZ")}); err != nil {
		t.Fatalf("apply: %v", err)
	}

	// A fresh ledger over the same file reconstructs identical state.
	l2 := NewLedger(NewCSVTradeStore(tradesPath), nil, src, 100000.0, 0.25, fixedClock(time.Unix(1700000100, 0)))
	snap, err := l2.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.Cash != 75000.0 || len(snap.Positions) != 1 {
		t.Errorf("state not reconstructed from log: %+v", snap)
	}
}
