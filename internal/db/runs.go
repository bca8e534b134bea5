package db

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/simulate"
)

// Run is a stored simulation summary.
type Run struct {
	RunID         string    `json:"run_id"`
	CreatedAt     time.Time `json:"created_at"`
	Label         string    `json:"label,omitempty"`
	Total         int       `json:"total_timestamps"`
	Hits          int       `json:"hit_count"`
	Misses        int       `json:"miss_count"`
	HitPercentage float64   `json:"hit_percentage"`
}

// RecordRun stores a simulation summary and its intervals in one
// transaction.
func (db *DB) RecordRun(s *simulate.Summary, label string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	created := s.StartedAt
	if created.IsZero() {
		created = time.Now()
	}
	if _, err := tx.Exec(
		`INSERT INTO simulation_runs (
			run_id, created_at, label, total_timestamps, hit_count, miss_count, hit_percentage
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.RunID, nanos(created), label, s.Total, s.Hits, s.Misses,
		math.Round(s.HitPercentage()*100)/100,
	); err != nil {
		return fmt.Errorf("failed to record run %s: %w", s.RunID, err)
	}

	stmt, err := tx.Prepare(`INSERT INTO simulation_intervals (
		run_id, seq, start_ts, end_ts, window_id, n_timestamps
	) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, iv := range s.Intervals {
		if _, err := stmt.Exec(s.RunID, i, iv.Start, iv.End, nullString(iv.WindowID), iv.NTimestamps); err != nil {
			return fmt.Errorf("failed to record interval %d of run %s: %w", i, s.RunID, err)
		}
	}
	return tx.Commit()
}

// Runs returns up to limit runs, newest first. A non-positive limit
// returns 50.
func (db *DB) Runs(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Query(`SELECT run_id, created_at, label, total_timestamps, hit_count, miss_count, hit_percentage
		FROM simulation_runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Run{}
	for rows.Next() {
		var (
			r       Run
			created int64
			label   sql.NullString
		)
		if err := rows.Scan(&r.RunID, &created, &label, &r.Total, &r.Hits, &r.Misses, &r.HitPercentage); err != nil {
			return nil, err
		}
		r.CreatedAt = fromNanos(created)
		r.Label = label.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// RunIntervals returns the stored intervals of a run in order.
func (db *DB) RunIntervals(runID string) ([]simulate.Interval, error) {
	rows, err := db.Query(`SELECT start_ts, end_ts, window_id, n_timestamps
		FROM simulation_intervals WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []simulate.Interval{}
	for rows.Next() {
		var (
			iv       simulate.Interval
			windowID sql.NullString
		)
		if err := rows.Scan(&iv.Start, &iv.End, &windowID, &iv.NTimestamps); err != nil {
			return nil, err
		}
		iv.WindowID = stringPtr(windowID)
		out = append(out, iv)
	}
	return out, rows.Err()
}

// DeleteRun removes a run; its intervals cascade.
func (db *DB) DeleteRun(runID string) error {
	res, err := db.Exec(`DELETE FROM simulation_runs WHERE run_id = ?`, runID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run %s not found", runID)
	}
	return nil
}
