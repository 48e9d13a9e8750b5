package model

import "time"

// Mode selects how qualifying alerts are acted upon.
type Mode string

const (
	ModeDryRun Mode = "DRY_RUN"
	ModeLive   Mode = "LIVE"
)

// ModeFor maps the dry-run flag to a Mode.
func ModeFor(dryRun bool) Mode {
	if dryRun {
		return ModeDryRun
	}
	return ModeLive
}

// SimulatedTrade is a fabricated fill for a qualifying alert.
type SimulatedTrade struct {
	EntryPrice float64
	PnL        float64 // rounded to 2 decimals
}

// LiveAttempt records a hand-off to the execution collaborator.
type LiveAttempt struct {
	OrderRef    string
	SubmittedAt time.Time
	Err         error
}

// TradeOutcome is the result of acting on one qualifying alert. Exactly
// one of Simulated and Live is set, matching Mode.
type TradeOutcome struct {
	Alert     QualifyingAlert
	Mode      Mode
	Simulated *SimulatedTrade
	Live      *LiveAttempt
}
