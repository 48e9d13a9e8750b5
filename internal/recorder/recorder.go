package recorder

import "time"

// CycleRecord is the audit row for one scan cycle. It carries counts
// only; alert contents are not persisted.
type CycleRecord struct {
	CycleID      string
	StartedAt    time.Time
	Source       string // "live" or "fallback"
	Mode         string
	Fetched      int
	Skipped      int
	Malformed    int
	Rejected     int
	Qualifying   int
	Simulated    int
	LiveAttempts int
	LiveFailures int
	Duration     time.Duration
	FetchError   string
}

// Recorder persists the scan cycle audit trail.
type Recorder interface {
	RecordCycle(rec *CycleRecord) error
	Close() error
}
