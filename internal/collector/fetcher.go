package collector

import (
	"context"
	"errors"

	"WhaleSentinel/internal/model"
)

// ErrSourceUnavailable wraps every fetch failure: transport errors,
// timeouts, non-OK statuses and payloads of an unexpected shape.
var ErrSourceUnavailable = errors.New("alert source unavailable")

// Page is one decoded response from the data source.
type Page struct {
	Alerts  []model.RawAlert
	Skipped int // list elements that could not be decoded as an alert
}

// Fetcher defines the interface for fetching raw alerts.
type Fetcher interface {
	Fetch(ctx context.Context) (Page, error)
	Name() string
}
