package model

import "time"

// ScanStats accumulates counters across scan cycles.
type ScanStats struct {
	StartedAt      time.Time
	LastCycleAt    time.Time
	Cycles         int
	FallbackCycles int
	Fetched        int
	Skipped        int
	Malformed      int
	Rejected       int
	Qualifying     int
	Simulated      int
	LiveAttempts   int
	LiveFailures   int
	SimulatedPnL   float64
}
