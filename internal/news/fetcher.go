package news

import (
	"context"

	"NewsSentinel/internal/model"
)

// Fetcher returns recent news articles for a stock symbol.
//
// Implementations swallow network failures and return an empty list, so one
// unreachable source never aborts a run. A returned error indicates a
// configuration problem (missing credential, missing sample file) and is
// surfaced to the orchestrator.
type Fetcher interface {
	FetchArticles(ctx context.Context, symbol string) ([]model.NewsArticle, error)
	Name() string
}

// MockFetcher returns controllable fixed articles for development and
// testing.
type MockFetcher struct {
	Articles map[string][]model.NewsArticle
	Err      error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchArticles(_ context.Context, symbol string) ([]model.NewsArticle, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Articles[symbol], nil
}
