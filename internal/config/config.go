package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Watchlist     []string          `yaml:"watchlist"`
	SymbolQueries map[string]string `yaml:"symbol_queries"`
	News          struct {
		Mode       string `yaml:"mode"` // "api" or "local"
		APIKey     string `yaml:"api_key"`
		Endpoint   string `yaml:"endpoint"`
		Language   string `yaml:"language"`
		PageSize   int    `yaml:"page_size"`
		SampleFile string `yaml:"sample_file"`
	} `yaml:"news"`
	Classifier struct {
		BaseURL        string `yaml:"base_url"`
		RequestsPerSec int    `yaml:"requests_per_sec"`
	} `yaml:"classifier"`
	Signals struct {
		BuyThreshold  float64 `yaml:"buy_threshold"`
		SellThreshold float64 `yaml:"sell_threshold"`
	} `yaml:"signals"`
	Portfolio struct {
		InitialCash      float64 `yaml:"initial_cash"`
		MaxTradeFraction float64 `yaml:"max_trade_fraction"`
		TradesFile       string  `yaml:"trades_file"`
		HistoryFile      string  `yaml:"history_file"`
	} `yaml:"portfolio"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		RunCron string `yaml:"run_cron"`
	} `yaml:"schedule"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies .env and environment
// variable overrides, then defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("NEWSAPI_KEY"); v != "" {
		cfg.News.APIKey = v
	}
	if v := os.Getenv("NEWS_SOURCE_MODE"); v != "" {
		cfg.News.Mode = v
	}
	if v := os.Getenv("FINBERT_URL"); v != "" {
		cfg.Classifier.BaseURL = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("INITIAL_CASH"); v != "" {
		var cash float64
		if _, err := fmt.Sscanf(v, "%f", &cash); err == nil {
			cfg.Portfolio.InitialCash = cash
		}
	}
	if v := os.Getenv("RUN_CRON"); v != "" {
		cfg.Schedule.RunCron = v
	}

	// Defaults
	if len(cfg.Watchlist) == 0 {
		cfg.Watchlist = []string{"TSLA", "INFY", "AAPL", "HDFCBANK"}
	}
	if cfg.SymbolQueries == nil {
		cfg.SymbolQueries = map[string]string{
			"TSLA":     "Tesla",
			"INFY":     "Infosys",
			"AAPL":     "Apple Inc",
			"HDFCBANK": "HDFC Bank",
		}
	}
	if cfg.News.Mode == "" {
		cfg.News.Mode = "api"
	}
	if cfg.News.Endpoint == "" {
		cfg.News.Endpoint = "https://newsapi.org/v2/everything"
	}
	if cfg.News.Language == "" {
		cfg.News.Language = "en"
	}
	if cfg.News.PageSize == 0 {
		cfg.News.PageSize = 5
	}
	if cfg.News.SampleFile == "" {
		cfg.News.SampleFile = "data/sample_news.json"
	}
	if cfg.Classifier.RequestsPerSec == 0 {
		cfg.Classifier.RequestsPerSec = 2
	}
	if cfg.Signals.BuyThreshold == 0 {
		cfg.Signals.BuyThreshold = 0.02
	}
	if cfg.Signals.SellThreshold == 0 {
		cfg.Signals.SellThreshold = -0.02
	}
	if cfg.Portfolio.InitialCash == 0 {
		cfg.Portfolio.InitialCash = 100000.0
	}
	if cfg.Portfolio.MaxTradeFraction == 0 {
		cfg.Portfolio.MaxTradeFraction = 0.25
	}
	if cfg.Portfolio.TradesFile == "" {
		cfg.Portfolio.TradesFile = "data/portfolio_trades.csv"
	}
	if cfg.Portfolio.HistoryFile == "" {
		cfg.Portfolio.HistoryFile = "data/portfolio_history.csv"
	}
	if cfg.Schedule.RunCron == "" {
		cfg.Schedule.RunCron = "0 30 9 * * 1-5"
	}

	return cfg, nil
}

// Validate checks the core numeric settings. Collaborator credentials are
// deliberately not checked here: a missing credential fails at the
// construction of that collaborator only.
func (c *Config) Validate() error {
	if len(c.Watchlist) == 0 {
		return fmt.Errorf("watchlist must not be empty")
	}
	if c.Portfolio.InitialCash <= 0 {
		return fmt.Errorf("portfolio.initial_cash must be positive")
	}
	if c.Portfolio.MaxTradeFraction <= 0 || c.Portfolio.MaxTradeFraction > 1 {
		return fmt.Errorf("portfolio.max_trade_fraction must be in (0, 1]")
	}
	if c.News.Mode != "api" && c.News.Mode != "local" {
		return fmt.Errorf("news.mode must be %q or %q, got %q", "api", "local", c.News.Mode)
	}
	return nil
}
