package market

// PriceSource returns the latest market price for a symbol.
//
// Implementations never return an error: any failure (network, unknown
// symbol, empty data) is reported as a non-positive price, and callers fall
// back to cost basis or skip the trade.
type PriceSource interface {
	LatestPrice(symbol string) float64
	Name() string
}

// MockSource returns controllable fixed prices for development and testing.
type MockSource struct {
	Prices map[string]float64
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) LatestPrice(symbol string) float64 {
	return m.Prices[symbol]
}
