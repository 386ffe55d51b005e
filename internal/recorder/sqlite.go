package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs
// migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while the bot writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS signals (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			symbol         TEXT NOT NULL,
			action         TEXT,
			confidence     TEXT,
			final_score    REAL,
			sentiment_view TEXT,
			article_count  INTEGER,
			bullish_ratio  REAL,
			bearish_ratio  REAL,
			avg_positive   REAL,
			avg_negative   REAL,
			avg_neutral    REAL,
			reason         TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_ts ON signals(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_symbol ON signals(symbol)`,

		`CREATE TABLE IF NOT EXISTS runs (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			equity         REAL,
			cash           REAL,
			realized_pnl   REAL,
			unrealized_pnl REAL,
			position_count INTEGER,
			signal_count   INTEGER,
			buy_count      INTEGER,
			sell_count     INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordSignal(rec *SignalRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sig := rec.Signal
	var avgPos, avgNeg, avgNeu float64
	if rec.Summary != nil {
		avgPos = rec.Summary.AvgPositive
		avgNeg = rec.Summary.AvgNegative
		avgNeu = rec.Summary.AvgNeutral
	}

	_, err := r.db.Exec(`INSERT INTO signals
		(timestamp, symbol, action, confidence, final_score, sentiment_view,
		 article_count, bullish_ratio, bearish_ratio,
		 avg_positive, avg_negative, avg_neutral, reason)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), sig.Symbol, string(sig.Action), string(sig.Confidence),
		sig.FinalScore, string(sig.View), sig.ArticleCount,
		sig.BullishRatio, sig.BearishRatio,
		avgPos, avgNeg, avgNeu, sig.Reason,
	)
	return err
}

func (r *SQLiteRecorder) RecordRun(rec *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := rec.Snapshot
	_, err := r.db.Exec(`INSERT INTO runs
		(timestamp, equity, cash, realized_pnl, unrealized_pnl,
		 position_count, signal_count, buy_count, sell_count)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), snap.Equity, snap.Cash, snap.RealizedPnL, snap.UnrealizedPnL,
		len(snap.Positions), len(rec.Signals), rec.BuyCount, rec.SellCount,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
