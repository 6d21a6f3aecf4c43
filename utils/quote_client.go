package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// QuoteClient fetches one document from an upstream JSON quote API. It does
// not retry or cache; each call is exactly one outbound request.
type QuoteClient struct {
	url        string
	httpClient *http.Client
}

// NewQuoteClient returns a client for url. A zero timeout means none.
func NewQuoteClient(url string, timeout time.Duration) *QuoteClient {
	return &QuoteClient{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Fetch returns the upstream body as raw JSON. The upstream status code is
// not inspected: whatever JSON comes back is relayed.
func (q *QuoteClient) Fetch(ctx context.Context) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, q.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "imagegallery/1.0")

	resp, err := q.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quote request: %w", err)
	}
	defer resp.Body.Close()

	var body json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode quote response (status %d): %w", resp.StatusCode, err)
	}
	return body, nil
}
