package collector

import (
	"context"
	"time"

	"WhaleSentinel/internal/logger"
	"WhaleSentinel/internal/model"
)

// Source tells where a batch of alerts came from.
type Source string

const (
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
)

// Batch is the outcome of one collection. Err is the fetch failure that
// caused a fallback, nil for live batches.
type Batch struct {
	Alerts    []model.RawAlert
	Source    Source
	Skipped   int
	Err       error
	FetchedAt time.Time
	Duration  time.Duration
}

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Alerts  []model.RawAlert
	Skipped int
	Err     error
	Calls   int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) Fetch(ctx context.Context) (Page, error) {
	m.Calls++
	if err := ctx.Err(); err != nil {
		return Page{}, err
	}
	if m.Err != nil {
		return Page{}, m.Err
	}
	return Page{Alerts: m.Alerts, Skipped: m.Skipped}, nil
}

// Collector fetches alerts and substitutes the fallback dataset whenever
// the source is unavailable. It never returns an error.
type Collector struct {
	Fetcher  Fetcher
	Fallback func() []model.RawAlert
	log      *logger.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, log *logger.Logger) *Collector {
	if log == nil {
		log = logger.Nop()
	}
	return &Collector{
		Fetcher:  fetcher,
		Fallback: FallbackAlerts,
		log:      log.WithField("source", fetcher.Name()),
	}
}

// Collect performs one fetch bounded by ctx.
func (c *Collector) Collect(ctx context.Context) Batch {
	start := time.Now()
	page, err := c.Fetcher.Fetch(ctx)
	batch := Batch{FetchedAt: start, Duration: time.Since(start)}

	if err != nil {
		c.log.WithError(err).Warn("alert fetch failed, using fallback dataset")
		batch.Source = SourceFallback
		batch.Err = err
		batch.Alerts = c.Fallback()
		return batch
	}

	if page.Skipped > 0 {
		c.log.WithField("skipped", page.Skipped).Warn("undecodable alert records skipped")
	}
	batch.Source = SourceLive
	batch.Alerts = page.Alerts
	batch.Skipped = page.Skipped
	return batch
}
