package execution

import (
	"context"
	"errors"

	"WhaleSentinel/internal/logger"
	"WhaleSentinel/internal/model"
	"WhaleSentinel/internal/strategy"
)

// Slippage and PnL bands for simulated fills, as fractions.
const (
	EntryLow  = 0.95
	EntryHigh = 1.05
	PnLLow    = -0.10
	PnLHigh   = 0.20
)

var errNoBroker = errors.New("no broker configured")

// Simulator acts on qualifying alerts: a fabricated fill in dry-run mode,
// a broker hand-off in live mode. It keeps no state between calls apart
// from advancing the random source.
type Simulator struct {
	mode   model.Mode
	rng    RandomSource
	broker Broker
	log    *logger.Logger
}

// NewSimulator creates a Simulator. broker may be nil in dry-run mode.
func NewSimulator(dryRun bool, rng RandomSource, broker Broker, log *logger.Logger) *Simulator {
	if log == nil {
		log = logger.Nop()
	}
	return &Simulator{
		mode:   model.ModeFor(dryRun),
		rng:    rng,
		broker: broker,
		log:    log,
	}
}

// Mode returns the execution mode.
func (s *Simulator) Mode() model.Mode { return s.mode }

// Execute acts on one alert. Failures are recorded on the outcome.
func (s *Simulator) Execute(ctx context.Context, alert model.QualifyingAlert) model.TradeOutcome {
	out := model.TradeOutcome{Alert: alert, Mode: s.mode}
	if s.mode == model.ModeDryRun {
		trade := Simulate(alert, s.rng)
		out.Simulated = &trade
		return out
	}

	attempt := &model.LiveAttempt{}
	out.Live = attempt
	if s.broker == nil {
		attempt.Err = errNoBroker
		s.log.WithField("ticker", alert.Ticker()).Error("live mode without a broker")
		return out
	}
	ack, err := s.broker.Submit(ctx, alert)
	if err != nil {
		attempt.Err = err
		s.log.WithError(err).WithFields(map[string]interface{}{
			"ticker": alert.Ticker(),
			"broker": s.broker.Name(),
		}).Error("live order submission failed")
		return out
	}
	attempt.OrderRef = ack.OrderRef
	attempt.SubmittedAt = ack.SubmittedAt
	return out
}

// Simulate fabricates a fill: the entry is the average price with uniform
// slippage, and PnL a uniform fraction of the entry rounded to cents. The
// entry draw is taken before the PnL draw.
func Simulate(alert model.QualifyingAlert, rng RandomSource) model.SimulatedTrade {
	entry := alert.AveragePrice * Uniform(rng, EntryLow, EntryHigh)
	pnl := strategy.Round2(Uniform(rng, PnLLow, PnLHigh) * entry)
	return model.SimulatedTrade{EntryPrice: entry, PnL: pnl}
}
