package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"WhaleSentinel/internal/logger"
)

// SQLiteRecorder persists cycle records to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log *logger.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log *logger.Logger) (*SQLiteRecorder, error) {
	if log == nil {
		log = logger.Nop()
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets external readers query while the scanner writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.WithField("path", dbPath).Info("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scan_cycles (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp     INTEGER NOT NULL,
			cycle_id      TEXT NOT NULL,
			source        TEXT,
			mode          TEXT,
			fetched       INTEGER,
			skipped       INTEGER,
			malformed     INTEGER,
			rejected      INTEGER,
			qualifying    INTEGER,
			simulated     INTEGER,
			live_attempts INTEGER,
			live_failures INTEGER,
			duration_ms   INTEGER,
			fetch_error   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cycles_ts ON scan_cycles(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordCycle(rec *CycleRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO scan_cycles
		(timestamp, cycle_id, source, mode, fetched, skipped, malformed, rejected,
		 qualifying, simulated, live_attempts, live_failures, duration_ms, fetch_error)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		rec.StartedAt.Unix(), rec.CycleID, rec.Source, rec.Mode,
		rec.Fetched, rec.Skipped, rec.Malformed, rec.Rejected,
		rec.Qualifying, rec.Simulated, rec.LiveAttempts, rec.LiveFailures,
		rec.Duration.Milliseconds(), rec.FetchError,
	)
	if err != nil {
		return fmt.Errorf("insert cycle %s: %w", rec.CycleID, err)
	}
	return nil
}

// Recent returns up to limit cycle records, newest first.
func (r *SQLiteRecorder) Recent(limit int) ([]CycleRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT timestamp, cycle_id, source, mode, fetched, skipped,
		malformed, rejected, qualifying, simulated, live_attempts, live_failures,
		duration_ms, fetch_error
		FROM scan_cycles ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query cycles: %w", err)
	}
	defer rows.Close()

	var out []CycleRecord
	for rows.Next() {
		var (
			rec        CycleRecord
			ts, durMS  int64
			fetchError sql.NullString
		)
		if err := rows.Scan(&ts, &rec.CycleID, &rec.Source, &rec.Mode,
			&rec.Fetched, &rec.Skipped, &rec.Malformed, &rec.Rejected,
			&rec.Qualifying, &rec.Simulated, &rec.LiveAttempts, &rec.LiveFailures,
			&durMS, &fetchError); err != nil {
			return nil, fmt.Errorf("scan cycle row: %w", err)
		}
		rec.StartedAt = time.Unix(ts, 0)
		rec.Duration = time.Duration(durMS) * time.Millisecond
		rec.FetchError = fetchError.String
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info("closing sqlite recorder")
	return r.db.Close()
}
