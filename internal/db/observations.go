package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/hittest"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/service"
)

// Observation is one recorded sensor evaluation.
type Observation struct {
	ID           int64     `json:"id"`
	Time         time.Time `json:"time"`
	AzimuthDeg   float64   `json:"azimuth_deg"`
	ElevationDeg float64   `json:"elevation_deg"`
	IsHit        bool      `json:"is_hit"`
	WindowID     *string   `json:"window_id"`
	Reason       *string   `json:"reason"`
	NHitPoints   int       `json:"n_hit_points"`
}

// NewObservation captures sensor details taken at t.
func NewObservation(t time.Time, d service.Details) Observation {
	return Observation{
		Time:         t,
		AzimuthDeg:   d.SunAzimuth,
		ElevationDeg: d.SunElevation,
		IsHit:        d.IsHit,
		WindowID:     d.WindowID,
		Reason:       d.Reason,
		NHitPoints:   d.NHitPoints,
	}
}

// State maps the stored outcome back to a sensor state.
func (o Observation) State() service.State {
	switch {
	case o.IsHit:
		return service.StateDirectSun
	case o.Reason != nil && *o.Reason == string(hittest.ReasonSunBelowHorizon):
		return service.StateBelowHorizon
	default:
		return service.StateNoWindowPath
	}
}

// RecordObservation inserts o and returns its row id.
func (db *DB) RecordObservation(o Observation) (int64, error) {
	res, err := db.Exec(
		`INSERT INTO observations (
			observed_at, azimuth_deg, elevation_deg, is_hit, window_id, reason, n_hit_points
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		nanos(o.Time), o.AzimuthDeg, o.ElevationDeg, o.IsHit,
		nullString(o.WindowID), nullString(o.Reason), o.NHitPoints,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to record observation: %w", err)
	}
	return res.LastInsertId()
}

const observationColumns = `observation_id, observed_at, azimuth_deg, elevation_deg, is_hit, window_id, reason, n_hit_points`

type scanner interface {
	Scan(dest ...any) error
}

func scanObservation(s scanner) (Observation, error) {
	var (
		o        Observation
		at       int64
		windowID sql.NullString
		reason   sql.NullString
	)
	if err := s.Scan(&o.ID, &at, &o.AzimuthDeg, &o.ElevationDeg, &o.IsHit, &windowID, &reason, &o.NHitPoints); err != nil {
		return Observation{}, err
	}
	o.Time = fromNanos(at)
	o.WindowID = stringPtr(windowID)
	o.Reason = stringPtr(reason)
	return o, nil
}

// Observations returns up to limit observations, newest first. A
// non-positive limit returns 100.
func (db *DB) Observations(limit int) ([]Observation, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.Query(`SELECT `+observationColumns+` FROM observations
		ORDER BY observed_at DESC, observation_id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Observation{}
	for rows.Next() {
		o, err := scanObservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// ObservationsBetween returns observations in [from, to), oldest first.
func (db *DB) ObservationsBetween(from, to time.Time) ([]Observation, error) {
	rows, err := db.Query(`SELECT `+observationColumns+` FROM observations
		WHERE observed_at >= ? AND observed_at < ?
		ORDER BY observed_at, observation_id`, nanos(from), nanos(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Observation{}
	for rows.Next() {
		o, err := scanObservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// LastObservation returns the newest observation; ok is false when none
// has been recorded.
func (db *DB) LastObservation() (o Observation, ok bool, err error) {
	row := db.QueryRow(`SELECT ` + observationColumns + ` FROM observations
		ORDER BY observed_at DESC, observation_id DESC LIMIT 1`)
	o, err = scanObservation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Observation{}, false, nil
	}
	if err != nil {
		return Observation{}, false, err
	}
	return o, true, nil
}

// PruneObservations deletes observations older than before and returns the
// number removed.
func (db *DB) PruneObservations(before time.Time) (int64, error) {
	res, err := db.Exec(`DELETE FROM observations WHERE observed_at < ?`, nanos(before))
	if err != nil {
		return 0, fmt.Errorf("failed to prune observations: %w", err)
	}
	return res.RowsAffected()
}
