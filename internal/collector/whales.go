package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"WhaleSentinel/internal/model"
)

const maxBodyBytes = 16 << 20

// WhalesFetcher implements Fetcher against the Unusual Whales REST API.
type WhalesFetcher struct {
	URL     string
	APIKey  string
	ListKey string // object key holding the list when the body is not a bare list
	Client  *http.Client
	limiter *rate.Limiter
}

// NewWhalesFetcher creates a fetcher with optional proxy support. Calls are
// spaced at least minGap apart.
func NewWhalesFetcher(endpoint, apiKey, listKey, proxyURL string, minGap time.Duration) *WhalesFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	limit := rate.Inf
	if minGap > 0 {
		limit = rate.Every(minGap)
	}
	return &WhalesFetcher{
		URL:     endpoint,
		APIKey:  apiKey,
		ListKey: listKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		limiter: rate.NewLimiter(limit, 1),
	}
}

func (f *WhalesFetcher) Name() string { return "unusualwhales" }

// Fetch performs one authenticated GET. The caller's context bounds the
// whole call, including the wait for the rate limiter.
func (f *WhalesFetcher) Fetch(ctx context.Context) (Page, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return Page{}, fmt.Errorf("%w: rate limit: %w", ErrSourceUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return Page{}, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return Page{}, fmt.Errorf("%w: fetch alerts: %w", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Page{}, fmt.Errorf("%w: read body: %w", ErrSourceUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return Page{}, fmt.Errorf("%w: status %d, body: %s", ErrSourceUnavailable, resp.StatusCode, truncate(body, 200))
	}

	page, err := DecodePage(body, f.ListKey)
	if err != nil {
		return Page{}, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	return page, nil
}

// DecodePage accepts either a top-level JSON list of alerts or an object
// carrying the list under listKey. Elements that do not decode as an alert
// are counted in Skipped rather than failing the page.
func DecodePage(body []byte, listKey string) (Page, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return Page{}, fmt.Errorf("empty payload")
	}

	var items []json.RawMessage
	switch body[0] {
	case '[':
		if err := json.Unmarshal(body, &items); err != nil {
			return Page{}, fmt.Errorf("decode alert list: %w", err)
		}
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(body, &obj); err != nil {
			return Page{}, fmt.Errorf("decode alert object: %w", err)
		}
		raw, ok := obj[listKey]
		if !ok {
			return Page{}, fmt.Errorf("payload has no %q field", listKey)
		}
		if err := json.Unmarshal(raw, &items); err != nil {
			return Page{}, fmt.Errorf("field %q is not a list: %w", listKey, err)
		}
	default:
		return Page{}, fmt.Errorf("unexpected payload shape")
	}

	page := Page{Alerts: make([]model.RawAlert, 0, len(items))}
	for _, item := range items {
		var a model.RawAlert
		if err := json.Unmarshal(item, &a); err != nil {
			page.Skipped++
			continue
		}
		page.Alerts = append(page.Alerts, a)
	}
	return page, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
