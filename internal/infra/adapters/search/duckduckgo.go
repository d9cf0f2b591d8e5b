// File: internal/infra/adapters/search/duckduckgo.go
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"fedup-chat/internal/domain/ports/adapter"
	"fedup-chat/internal/infra/metrics"
)

var _ adapter.SearchAdapter = (*DuckDuckGo)(nil)

// DuckDuckGo queries the instant-answer API. No API key, which is the whole
// point: chat turns must never stall on a billing problem in a side channel.
type DuckDuckGo struct {
	baseURL string
	client  *http.Client
}

func NewDuckDuckGo(baseURL string, timeout time.Duration) *DuckDuckGo {
	if baseURL == "" {
		baseURL = "https://api.duckduckgo.com/"
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &DuckDuckGo{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type instantAnswer struct {
	AbstractText string `json:"AbstractText"`
	Definition   string `json:"Definition"`
	Answer       string `json:"Answer"`
}

// Search returns the best instant answer for the query or "" when the API
// has nothing. Callers treat an empty result as "no current information".
func (d *DuckDuckGo) Search(ctx context.Context, query string) (string, error) {
	info, err := d.lookup(ctx, query)
	switch {
	case err != nil:
		metrics.IncSearchLookup("error")
	case info == "":
		metrics.IncSearchLookup("miss")
	default:
		metrics.IncSearchLookup("hit")
	}
	return info, err
}

func (d *DuckDuckGo) lookup(ctx context.Context, query string) (string, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("no_html", "1")
	q.Set("skip_disambig", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("search request: %w", err)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("search: read body: %w", err)
	}
	var ia instantAnswer
	if err := json.Unmarshal(body, &ia); err != nil {
		return "", fmt.Errorf("search: decode: %w", err)
	}

	switch {
	case ia.AbstractText != "":
		return ia.AbstractText, nil
	case ia.Definition != "":
		return ia.Definition, nil
	case ia.Answer != "":
		return ia.Answer, nil
	}
	return "", nil
}
