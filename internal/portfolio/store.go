package portfolio

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"NewsSentinel/internal/model"
)

// TradeStore loads and appends trade-log rows.
type TradeStore interface {
	Load() ([]model.Trade, error)
	Append(trades []model.Trade) error
}

// EquityStore appends equity-history rows. Write-only from the ledger's
// perspective; the history is read by external charting tools.
type EquityStore interface {
	Append(p model.EquityPoint) error
}

var tradeHeader = []string{"timestamp", "symbol", "side", "qty", "price", "value"}

// CSVTradeStore persists the trade log as a CSV file with a header row, so
// the ledger stays human-inspectable with any spreadsheet tool.
type CSVTradeStore struct {
	Path string
}

// NewCSVTradeStore creates a store for the given file path.
func NewCSVTradeStore(path string) *CSVTradeStore {
	return &CSVTradeStore{Path: path}
}

// Load reads the full trade log. A missing file yields an empty log. Rows
// with an unparseable timestamp are kept with the zero time, so replay sorts
// them before all dated trades instead of failing.
func (s *CSVTradeStore) Load() ([]model.Trade, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open trade log: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read trade log: %w", err)
	}

	var trades []model.Trade
	for i, rec := range records {
		if i == 0 && len(rec) > 0 && rec[0] == "timestamp" {
			continue // header
		}
		if len(rec) < 6 {
			log.Printf("[WARN] trade log row %d: expected 6 fields, got %d, skipping", i+1, len(rec))
			continue
		}

		var ts time.Time
		if parsed, err := time.Parse(time.RFC3339, rec[0]); err == nil {
			ts = parsed
		} else {
			log.Printf("[WARN] trade log row %d: unparseable timestamp %q, treating as earliest", i+1, rec[0])
		}

		qty, err := strconv.Atoi(rec[3])
		if err != nil {
			log.Printf("[WARN] trade log row %d: bad qty %q, skipping", i+1, rec[3])
			continue
		}
		price, err := strconv.ParseFloat(rec[4], 64)
		if err != nil {
			log.Printf("[WARN] trade log row %d: bad price %q, skipping", i+1, rec[4])
			continue
		}
		value, err := strconv.ParseFloat(rec[5], 64)
		if err != nil {
			value = float64(qty) * price
		}

		trades = append(trades, model.Trade{
			Timestamp: ts,
			Symbol:    rec[1],
			Side:      model.Side(rec[2]),
			Qty:       qty,
			Price:     price,
			Value:     value,
		})
	}
	return trades, nil
}

// Append writes new trades to the end of the log, creating the file (with
// header) and parent directory on first use. Existing rows are never
// rewritten.
func (s *CSVTradeStore) Append(trades []model.Trade) error {
	if len(trades) == 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		return fmt.Errorf("create trade log dir: %w", err)
	}

	f, err := os.OpenFile(s.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open trade log: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat trade log: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(tradeHeader); err != nil {
			return fmt.Errorf("write trade log header: %w", err)
		}
	}
	for _, t := range trades {
		rec := []string{
			t.Timestamp.UTC().Format(time.RFC3339),
			t.Symbol,
			string(t.Side),
			strconv.Itoa(t.Qty),
			strconv.FormatFloat(t.Price, 'f', -1, 64),
			strconv.FormatFloat(t.Value, 'f', -1, 64),
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("write trade row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

var equityHeader = []string{"timestamp", "equity", "cash", "realized_pnl", "unrealized_pnl"}

// CSVEquityStore appends equity-curve points to a CSV file with a header.
type CSVEquityStore struct {
	Path string
}

// NewCSVEquityStore creates a store for the given file path.
func NewCSVEquityStore(path string) *CSVEquityStore {
	return &CSVEquityStore{Path: path}
}

// Append writes one equity-history row, creating the file on first use.
func (s *CSVEquityStore) Append(p model.EquityPoint) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}

	f, err := os.OpenFile(s.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open history file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat history file: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(equityHeader); err != nil {
			return fmt.Errorf("write history header: %w", err)
		}
	}
	rec := []string{
		p.Timestamp.UTC().Format(time.RFC3339),
		strconv.FormatFloat(p.Equity, 'f', 2, 64),
		strconv.FormatFloat(p.Cash, 'f', 2, 64),
		strconv.FormatFloat(p.RealizedPnL, 'f', 2, 64),
		strconv.FormatFloat(p.UnrealizedPnL, 'f', 2, 64),
	}
	if err := w.Write(rec); err != nil {
		return fmt.Errorf("write history row: %w", err)
	}
	w.Flush()
	return w.Error()
}
