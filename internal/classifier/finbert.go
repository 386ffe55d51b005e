package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"NewsSentinel/internal/model"
)

// FinBERTClient calls a FinBERT inference sidecar over HTTP. The sidecar
// wraps the pretrained financial-text model and exposes POST /classify
// taking {"texts": [...]} and returning one probability triple per text.
type FinBERTClient struct {
	BaseURL string
	Client  *http.Client
	limiter *rate.Limiter
}

// NewFinBERTClient creates a client for the sidecar at baseURL. Returns an
// error when the URL is absent: the classifier is mandatory and a missing
// endpoint is a configuration problem. requestsPerSec caps the request rate
// so batch runs do not overload the model server.
func NewFinBERTClient(baseURL string, requestsPerSec int) (*FinBERTClient, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("classifier base URL is not set (FINBERT_URL)")
	}
	if requestsPerSec <= 0 {
		requestsPerSec = 2
	}
	return &FinBERTClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 60 * time.Second},
		limiter: rate.NewLimiter(rate.Every(time.Second), requestsPerSec),
	}, nil
}

func (c *FinBERTClient) Name() string { return "finbert" }

type classifyRequest struct {
	Texts []string `json:"texts"`
}

type classifyResponse struct {
	Results []struct {
		Positive float64 `json:"positive"`
		Negative float64 `json:"negative"`
		Neutral  float64 `json:"neutral"`
	} `json:"results"`
}

// Classify scores the given texts. Blank texts are filtered out before the
// request, matching the contract that the model is never called with empty
// input. Score and label are derived client-side from the probabilities.
func (c *FinBERTClient) Classify(ctx context.Context, texts []string) ([]model.ArticleSentiment, error) {
	filtered := make([]string, 0, len(texts))
	for _, t := range texts {
		if strings.TrimSpace(t) != "" {
			filtered = append(filtered, strings.TrimSpace(t))
		}
	}
	if len(filtered) == 0 {
		return nil, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(classifyRequest{Texts: filtered})
	if err != nil {
		return nil, fmt.Errorf("marshal classify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/classify", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classifier request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("classifier read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("classifier: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	var payload classifyResponse
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return nil, fmt.Errorf("classifier decode: %w", err)
	}
	if len(payload.Results) != len(filtered) {
		return nil, fmt.Errorf("classifier: %d results for %d texts", len(payload.Results), len(filtered))
	}

	out := make([]model.ArticleSentiment, len(payload.Results))
	for i, r := range payload.Results {
		out[i] = model.ArticleSentiment{
			Positive: r.Positive,
			Negative: r.Negative,
			Neutral:  r.Neutral,
		}
		deriveScoreAndLabel(&out[i])
	}
	return out, nil
}
