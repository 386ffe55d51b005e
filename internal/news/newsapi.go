package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"

	"NewsSentinel/internal/model"
)

// NewsAPIFetcher fetches recent articles from the NewsAPI "everything"
// endpoint, newest first.
type NewsAPIFetcher struct {
	APIKey   string
	Endpoint string
	Language string
	PageSize int
	QueryMap map[string]string // maps symbol to a search query, e.g. TSLA → Tesla
	Client   *http.Client
}

// NewNewsAPIFetcher creates a fetcher. Returns an error when the API key is
// absent: that is a configuration problem, not a transient failure.
func NewNewsAPIFetcher(apiKey, endpoint, language string, pageSize int, queryMap map[string]string, proxyURL string) (*NewsAPIFetcher, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("news API key is not set (NEWSAPI_KEY)")
	}
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &NewsAPIFetcher{
		APIKey:   apiKey,
		Endpoint: endpoint,
		Language: language,
		PageSize: pageSize,
		QueryMap: queryMap,
		Client: &http.Client{
			Timeout:   20 * time.Second,
			Transport: transport,
		},
	}, nil
}

func (f *NewsAPIFetcher) Name() string { return "newsapi" }

func (f *NewsAPIFetcher) query(symbol string) string {
	if q, ok := f.QueryMap[symbol]; ok {
		return q
	}
	return symbol
}

// newsAPIResponse is the subset of the NewsAPI payload we consume.
type newsAPIResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
		PublishedAt string `json:"publishedAt"`
		URL         string `json:"url"`
	} `json:"articles"`
}

// FetchArticles returns the newest articles matching the symbol's query.
// Network errors and non-200 responses are retried with exponential backoff
// and, if they persist, reported as an empty list rather than an error.
func (f *NewsAPIFetcher) FetchArticles(ctx context.Context, symbol string) ([]model.NewsArticle, error) {
	params := url.Values{}
	params.Set("q", f.query(symbol))
	params.Set("language", f.Language)
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", strconv.Itoa(f.PageSize))
	params.Set("apiKey", f.APIKey)
	reqURL := f.Endpoint + "?" + params.Encode()

	var body []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := f.Client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("newsapi: status %d, body: %s", resp.StatusCode, string(body))
		}
		return nil
	}

	strategy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2), ctx)
	if err := backoff.Retry(operation, strategy); err != nil {
		log.Printf("[WARN] newsapi fetch for %s failed, returning no articles: %v", symbol, err)
		return nil, nil
	}

	var payload newsAPIResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Printf("[WARN] newsapi decode for %s failed, returning no articles: %v", symbol, err)
		return nil, nil
	}

	articles := make([]model.NewsArticle, 0, len(payload.Articles))
	for _, a := range payload.Articles {
		source := a.Source.Name
		if source == "" {
			source = "Unknown"
		}
		articles = append(articles, model.NewsArticle{
			Title:       a.Title,
			Description: a.Description,
			Source:      source,
			PublishedAt: a.PublishedAt,
			URL:         a.URL,
		})
	}
	return articles, nil
}
