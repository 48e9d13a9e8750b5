package scanner

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"WhaleSentinel/internal/collector"
	"WhaleSentinel/internal/execution"
	"WhaleSentinel/internal/logger"
	"WhaleSentinel/internal/model"
	"WhaleSentinel/internal/recorder"
	"WhaleSentinel/internal/strategy"
)

var testNow = time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

type captureNotifier struct {
	mu   sync.Mutex
	msgs []string
}

func (c *captureNotifier) Send(_ context.Context, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, text)
	return nil
}

func (c *captureNotifier) last() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.msgs) == 0 {
		return ""
	}
	return c.msgs[len(c.msgs)-1]
}

type memRecorder struct {
	mu   sync.Mutex
	recs []recorder.CycleRecord
}

func (m *memRecorder) RecordCycle(r *recorder.CycleRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs = append(m.recs, *r)
	return nil
}

func (m *memRecorder) Close() error { return nil }

type fixture struct {
	scanner  *Scanner
	fetcher  *collector.MockFetcher
	notifier *captureNotifier
	recorder *memRecorder
}

func newFixture(fetcher *collector.MockFetcher, dryRun bool, log *logger.Logger) fixture {
	n := &captureNotifier{}
	rec := &memRecorder{}
	sim := execution.NewSimulator(dryRun, &execution.FixedSource{Draws: []float64{0.5}},
		execution.NewPlaceholderBroker(nil), nil)
	s := New(Config{
		Interval:     time.Hour,
		FetchTimeout: time.Second,
		Rules:        strategy.DefaultRules(),
	}, collector.NewCollector(fetcher, nil), sim, n, rec, log)
	s.SetClock(func() time.Time { return testNow })
	return fixture{scanner: s, fetcher: fetcher, notifier: n, recorder: rec}
}

func raw(ticker, exp, avg, premium, volume, oi string) model.RawAlert {
	return model.RawAlert{
		Ticker:       ticker,
		Side:         model.SideCall,
		Strike:       model.NewValue("100"),
		Expiration:   exp,
		AveragePrice: model.NewValue(avg),
		Premium:      model.NewValue(premium),
		Volume:       model.NewValue(volume),
		OpenInterest: model.NewValue(oi),
	}
}

func TestRunCycle_FallbackCompletes(t *testing.T) {
	f := newFixture(&collector.MockFetcher{Err: collector.ErrSourceUnavailable}, true, nil)

	rep := f.scanner.RunCycle(context.Background())

	assert.NotEmpty(t, rep.ID)
	assert.Equal(t, collector.SourceFallback, rep.Batch.Source)
	require.Len(t, rep.Result.Qualifying, 1)
	assert.Equal(t, "TSLA", rep.Result.Qualifying[0].Ticker())
	require.Len(t, rep.Outcomes, 1)
	require.NotNil(t, rep.Outcomes[0].Simulated)

	lines := strings.Split(f.notifier.last(), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "📊 Found 1 potential trades:", lines[0])
	assert.Equal(t, "✅ TSLA | CALL | Strike: 250 | Exp: 2025-12-20 | Premium: $210000 | DTE: 109 | Vol Ratio: 2.5", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "💡 Simulated Trade → TSLA"))

	stats := f.scanner.Stats()
	assert.Equal(t, 1, stats.Cycles)
	assert.Equal(t, 1, stats.FallbackCycles)
	assert.Equal(t, 3, stats.Fetched)
	assert.Equal(t, 2, stats.Rejected)
	assert.Equal(t, 1, stats.Simulated)

	require.Len(t, f.recorder.recs, 1)
	assert.Equal(t, "fallback", f.recorder.recs[0].Source)
	assert.NotEmpty(t, f.recorder.recs[0].FetchError)
	assert.Equal(t, 1, f.recorder.recs[0].Simulated)
}

func TestRunCycle_HeartbeatWhenNothingQualifies(t *testing.T) {
	f := newFixture(&collector.MockFetcher{Alerts: []model.RawAlert{}}, true, nil)

	rep := f.scanner.RunCycle(context.Background())

	assert.Equal(t, collector.SourceLive, rep.Batch.Source)
	assert.Empty(t, rep.Outcomes)
	assert.Equal(t, "[12:00:00] No valid alerts found.", f.notifier.last())
}

func TestRunCycle_MalformedRecordsAreLogged(t *testing.T) {
	var buf bytes.Buffer
	alerts := []model.RawAlert{
		raw("GOOD", "2025-12-20", "6", "200000", "300", "100"),
		raw("BAD", "not-a-date", "6", "200000", "300", "100"),
	}
	f := newFixture(&collector.MockFetcher{Alerts: alerts}, true, logger.New("info", "json", &buf))

	rep := f.scanner.RunCycle(context.Background())

	require.Len(t, rep.Result.Qualifying, 1)
	assert.Equal(t, "GOOD", rep.Result.Qualifying[0].Ticker())
	require.Len(t, rep.Result.Malformed, 1)
	assert.ErrorIs(t, rep.Result.Malformed[0].Err, strategy.ErrRecordMalformed)
	assert.Contains(t, buf.String(), "dropping malformed alert")
	assert.Contains(t, buf.String(), `"ticker":"BAD"`)
	assert.Equal(t, 1, f.scanner.Stats().Malformed)
}

func TestRunCycle_LiveMode(t *testing.T) {
	alerts := []model.RawAlert{raw("GOOD", "2025-12-20", "6", "200000", "300", "100")}
	f := newFixture(&collector.MockFetcher{Alerts: alerts}, false, nil)

	rep := f.scanner.RunCycle(context.Background())

	require.Len(t, rep.Outcomes, 1)
	require.NotNil(t, rep.Outcomes[0].Live)
	assert.NotEmpty(t, rep.Outcomes[0].Live.OrderRef)
	assert.Contains(t, f.notifier.last(), "🚀 Live Trade Executed for GOOD")
	assert.Equal(t, 1, f.scanner.Stats().LiveAttempts)
	assert.Equal(t, "LIVE", f.recorder.recs[0].Mode)
}

func TestRun_CancellationInterruptsWait(t *testing.T) {
	f := newFixture(&collector.MockFetcher{Err: errors.New("down")}, true, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- f.scanner.Run(ctx) }()

	require.Eventually(t, func() bool {
		return f.scanner.State() == StateWaiting && f.scanner.Stats().Cycles == 1
	}, 5*time.Second, 5*time.Millisecond)

	start := time.Now()
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, StateStopped, f.scanner.State())
	assert.Contains(t, f.notifier.msgs[0], "DRY-RUN")
}

func TestRun_LoopsOnInterval(t *testing.T) {
	f := newFixture(&collector.MockFetcher{Alerts: []model.RawAlert{}}, true, nil)
	f.scanner.cfg.Interval = time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _ = f.scanner.Run(ctx) }()

	require.Eventually(t, func() bool { return f.scanner.Stats().Cycles >= 3 }, 5*time.Second, 5*time.Millisecond)
}

func TestHandleCommand(t *testing.T) {
	f := newFixture(&collector.MockFetcher{}, true, nil)

	assert.Contains(t, f.scanner.HandleCommand("/status"), "State: idle")
	assert.Contains(t, f.scanner.HandleCommand("/rules"), "DTE ≥ 30")
	assert.Equal(t, "Mode: DRY_RUN", f.scanner.HandleCommand("/mode"))
	assert.Contains(t, f.scanner.HandleCommand("/help"), "/status")
}
