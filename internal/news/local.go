package news

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"NewsSentinel/internal/model"
)

// LocalFetcher serves articles from a JSON sample file mapping symbol to an
// article list. Used for development runs without a NewsAPI key.
type LocalFetcher struct {
	Path string
}

// NewLocalFetcher loads the sample file once to validate it exists and
// parses, so a bad path fails at startup rather than mid-run.
func NewLocalFetcher(path string) (*LocalFetcher, error) {
	f := &LocalFetcher{Path: path}
	if _, err := f.load(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *LocalFetcher) Name() string { return "local" }

func (f *LocalFetcher) load() (map[string][]model.NewsArticle, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read sample news file: %w", err)
	}
	var bySymbol map[string][]model.NewsArticle
	if err := json.Unmarshal(data, &bySymbol); err != nil {
		return nil, fmt.Errorf("parse sample news file: %w", err)
	}
	return bySymbol, nil
}

func (f *LocalFetcher) FetchArticles(_ context.Context, symbol string) ([]model.NewsArticle, error) {
	bySymbol, err := f.load()
	if err != nil {
		return nil, err
	}
	return bySymbol[symbol], nil
}
