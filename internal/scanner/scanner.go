package scanner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"WhaleSentinel/internal/collector"
	"WhaleSentinel/internal/execution"
	"WhaleSentinel/internal/logger"
	"WhaleSentinel/internal/model"
	"WhaleSentinel/internal/notifier"
	"WhaleSentinel/internal/recorder"
	"WhaleSentinel/internal/strategy"
)

// Config holds the scan loop settings.
type Config struct {
	Interval     time.Duration
	FetchTimeout time.Duration
	Rules        strategy.Rules
}

// CycleReport is everything one cycle produced.
type CycleReport struct {
	ID        string
	StartedAt time.Time
	Batch     collector.Batch
	Result    strategy.Result
	Outcomes  []model.TradeOutcome
	Message   string
	Duration  time.Duration
}

// Scanner runs the fetch, filter, report and wait loop. Only one cycle
// runs at a time; state and stats may be read from other goroutines.
type Scanner struct {
	cfg       Config
	collector *collector.Collector
	sim       *execution.Simulator
	notifier  notifier.Notifier
	recorder  recorder.Recorder
	log       *logger.Logger
	now       func() time.Time

	mu    sync.RWMutex
	state State
	stats model.ScanStats
}

// New creates a Scanner. A nil recorder disables the cycle audit.
func New(cfg Config, col *collector.Collector, sim *execution.Simulator, n notifier.Notifier, rec recorder.Recorder, log *logger.Logger) *Scanner {
	if log == nil {
		log = logger.Nop()
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Scanner{
		cfg:       cfg,
		collector: col,
		sim:       sim,
		notifier:  n,
		recorder:  rec,
		log:       log,
		now:       time.Now,
	}
}

// SetClock overrides the clock used for expiry arithmetic and timestamps.
func (s *Scanner) SetClock(now func() time.Time) { s.now = now }

// Mode returns the execution mode.
func (s *Scanner) Mode() model.Mode { return s.sim.Mode() }

// Rules returns the active thresholds.
func (s *Scanner) Rules() strategy.Rules { return s.cfg.Rules }

// State returns the current state.
func (s *Scanner) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Stats returns a snapshot of the cumulative counters.
func (s *Scanner) Stats() model.ScanStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

func (s *Scanner) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// Run loops until ctx is cancelled. Cancellation is a normal shutdown
// and returns nil.
func (s *Scanner) Run(ctx context.Context) error {
	s.mu.Lock()
	s.stats.StartedAt = s.now()
	s.mu.Unlock()
	defer s.setState(StateStopped)

	s.log.WithFields(map[string]interface{}{
		"mode":     s.Mode(),
		"interval": s.cfg.Interval.String(),
		"rules":    s.cfg.Rules.String(),
	}).Info("scanner started")
	s.notify(ctx, notifier.FormatStartup(s.Mode()))

	for ctx.Err() == nil {
		s.RunCycle(ctx)
		if !s.wait(ctx) {
			break
		}
	}
	s.log.Info("scanner stopped")
	return nil
}

// RunCycle runs exactly one fetch, filter and report pass.
func (s *Scanner) RunCycle(ctx context.Context) CycleReport {
	rep := CycleReport{ID: uuid.NewString(), StartedAt: s.now()}
	log := s.log.WithField("cycle_id", rep.ID)

	s.setState(StateFetching)
	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	rep.Batch = s.collector.Collect(fetchCtx)
	cancel()

	s.setState(StateFiltering)
	rep.Result = strategy.Filter(rep.Batch.Alerts, s.now(), s.cfg.Rules)
	for _, m := range rep.Result.Malformed {
		log.WithError(m.Err).WithFields(map[string]interface{}{
			"index":  m.Index,
			"ticker": m.Ticker,
		}).Warn("dropping malformed alert")
	}
	for _, r := range rep.Result.Rejected {
		log.WithFields(map[string]interface{}{
			"ticker": r.Ticker,
			"rule":   r.Rule,
		}).Debug("alert rejected")
	}

	s.setState(StateReporting)
	for _, q := range rep.Result.Qualifying {
		rep.Outcomes = append(rep.Outcomes, s.sim.Execute(ctx, q))
	}
	rep.Message = notifier.FormatReport(rep.Outcomes, s.now())
	s.notify(ctx, rep.Message)

	rep.Duration = time.Since(rep.StartedAt)
	s.account(rep)
	s.record(rep, log)

	log.WithFields(map[string]interface{}{
		"source":      string(rep.Batch.Source),
		"fetched":     len(rep.Batch.Alerts),
		"skipped":     rep.Batch.Skipped,
		"malformed":   len(rep.Result.Malformed),
		"rejected":    len(rep.Result.Rejected),
		"qualifying":  len(rep.Result.Qualifying),
		"duration_ms": rep.Duration.Milliseconds(),
	}).Info("scan cycle complete")
	return rep
}

// wait sleeps for the interval. It returns false if ctx ended first.
func (s *Scanner) wait(ctx context.Context) bool {
	s.setState(StateWaiting)
	timer := time.NewTimer(s.cfg.Interval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (s *Scanner) notify(ctx context.Context, text string) {
	if s.notifier == nil || text == "" {
		return
	}
	if err := s.notifier.Send(ctx, text); err != nil && !errors.Is(err, context.Canceled) {
		s.log.WithError(err).Error("send notification")
	}
}

func (s *Scanner) account(rep CycleReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := &s.stats
	st.Cycles++
	st.LastCycleAt = rep.StartedAt
	if rep.Batch.Source == collector.SourceFallback {
		st.FallbackCycles++
	}
	st.Fetched += len(rep.Batch.Alerts)
	st.Skipped += rep.Batch.Skipped
	st.Malformed += len(rep.Result.Malformed)
	st.Rejected += len(rep.Result.Rejected)
	st.Qualifying += len(rep.Result.Qualifying)
	for _, o := range rep.Outcomes {
		switch {
		case o.Simulated != nil:
			st.Simulated++
			st.SimulatedPnL = strategy.Round2(st.SimulatedPnL + o.Simulated.PnL)
		case o.Live != nil:
			st.LiveAttempts++
			if o.Live.Err != nil {
				st.LiveFailures++
			}
		}
	}
}

func (s *Scanner) record(rep CycleReport, log *logger.Logger) {
	rec := &recorder.CycleRecord{
		CycleID:    rep.ID,
		StartedAt:  rep.StartedAt,
		Source:     string(rep.Batch.Source),
		Mode:       string(s.Mode()),
		Fetched:    len(rep.Batch.Alerts),
		Skipped:    rep.Batch.Skipped,
		Malformed:  len(rep.Result.Malformed),
		Rejected:   len(rep.Result.Rejected),
		Qualifying: len(rep.Result.Qualifying),
		Duration:   rep.Duration,
	}
	if rep.Batch.Err != nil {
		rec.FetchError = rep.Batch.Err.Error()
	}
	for _, o := range rep.Outcomes {
		if o.Simulated != nil {
			rec.Simulated++
		}
		if o.Live != nil {
			rec.LiveAttempts++
			if o.Live.Err != nil {
				rec.LiveFailures++
			}
		}
	}
	if err := s.recorder.RecordCycle(rec); err != nil {
		log.WithError(err).Error("record cycle")
	}
}

// HandleCommand answers operator commands. It only reads state.
func (s *Scanner) HandleCommand(command string) string {
	switch command {
	case "/status":
		return notifier.FormatStatus(s.State().String(), s.Mode(), s.Stats())
	case "/rules":
		return fmt.Sprintf("📏 Rules: %s", s.cfg.Rules)
	case "/mode":
		return fmt.Sprintf("Mode: %s", s.Mode())
	default:
		return "Available commands:\n• /status\n• /rules\n• /mode"
	}
}
