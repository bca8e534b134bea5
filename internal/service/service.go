// Package service answers automation-friendly sunlight questions from a
// cached site configuration. It backs the CLI, HTTP API and MQTT sensor.
package service

import (
	"fmt"
	"time"

	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/config"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/hittest"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/solar"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/timeutil"
)

// State is the one-word sensor state.
type State string

const (
	StateDirectSun    State = "direct_sun"
	StateBelowHorizon State = "below_horizon"
	StateNoWindowPath State = "no_window_path"
)

// StateOf maps a hit test result to a sensor state.
func StateOf(r hittest.Result) State {
	switch {
	case r.IsHit:
		return StateDirectSun
	case r.Reason == hittest.ReasonSunBelowHorizon:
		return StateBelowHorizon
	default:
		return StateNoWindowPath
	}
}

// Details summarizes one hit test for dashboards.
type Details struct {
	IsHit        bool    `json:"is_hit"`
	WindowID     *string `json:"window_id"`
	Reason       *string `json:"reason"`
	State        State   `json:"state"`
	SunAzimuth   float64 `json:"sun_azimuth"`
	SunElevation float64 `json:"sun_elevation"`
	NHitPoints   int     `json:"n_hit_points"`
	// Time is set when the sun position was computed rather than given.
	Time *time.Time `json:"time,omitempty"`
}

// NewDetails builds Details from a result and the sun angles that produced it.
func NewDetails(azimuthDeg, elevationDeg float64, r hittest.Result) Details {
	d := Details{
		IsHit:        r.IsHit,
		State:        StateOf(r),
		SunAzimuth:   azimuthDeg,
		SunElevation: elevationDeg,
		NHitPoints:   len(r.HitPoints),
	}
	if r.IsHit {
		id := r.WindowID
		d.WindowID = &id
	}
	if r.Reason != hittest.ReasonNone {
		reason := string(r.Reason)
		d.Reason = &reason
	}
	return d
}

// Sensor evaluates sun positions against the site held by a config cache.
type Sensor struct {
	cache *config.Cache
	clock timeutil.Clock
}

// NewSensor returns a Sensor reading the site from cache. A nil clock uses
// the real time.
func NewSensor(cache *config.Cache, clock timeutil.Clock) *Sensor {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &Sensor{cache: cache, clock: clock}
}

// Site returns the current site configuration.
func (s *Sensor) Site() (*config.Site, error) {
	return s.cache.Get()
}

// Cache exposes the underlying configuration cache.
func (s *Sensor) Cache() *config.Cache { return s.cache }

// Clock returns the sensor's time source.
func (s *Sensor) Clock() timeutil.Clock { return s.clock }

func (s *Sensor) check(azimuthDeg, elevationDeg float64) (hittest.Result, error) {
	site, err := s.cache.Get()
	if err != nil {
		return hittest.Result{}, err
	}
	return site.Check(azimuthDeg, elevationDeg), nil
}

// CheckSunlight reports whether the plant receives direct sun.
func (s *Sensor) CheckSunlight(azimuthDeg, elevationDeg float64) (bool, error) {
	r, err := s.check(azimuthDeg, elevationDeg)
	if err != nil {
		return false, err
	}
	return r.IsHit, nil
}

// Details runs the hit test and summarizes it.
func (s *Sensor) Details(azimuthDeg, elevationDeg float64) (Details, error) {
	r, err := s.check(azimuthDeg, elevationDeg)
	if err != nil {
		return Details{}, err
	}
	return NewDetails(azimuthDeg, elevationDeg, r), nil
}

// State returns direct_sun, below_horizon or no_window_path.
func (s *Sensor) State(azimuthDeg, elevationDeg float64) (State, error) {
	r, err := s.check(azimuthDeg, elevationDeg)
	if err != nil {
		return "", err
	}
	return StateOf(r), nil
}

// Now computes the sun position at the current time for the configured
// location. It returns config.ErrNoLocation when the site has none.
func (s *Sensor) Now() (solar.Position, error) {
	site, err := s.cache.Get()
	if err != nil {
		return solar.Position{}, err
	}
	return sunAt(site, s.clock.Now())
}

// DetailsNow computes the current sun position and tests it.
func (s *Sensor) DetailsNow() (Details, error) {
	site, err := s.cache.Get()
	if err != nil {
		return Details{}, err
	}
	pos, err := sunAt(site, s.clock.Now())
	if err != nil {
		return Details{}, err
	}
	d := NewDetails(pos.AzimuthDeg, pos.ElevationDeg, site.Check(pos.AzimuthDeg, pos.ElevationDeg))
	d.Time = &pos.Time
	return d, nil
}

func sunAt(site *config.Site, t time.Time) (solar.Position, error) {
	if site.Location == nil {
		return solar.Position{}, config.ErrNoLocation
	}
	pos, err := solar.Calculate(*site.Location, t, site.SunAlgorithm)
	if err != nil {
		return solar.Position{}, fmt.Errorf("compute sun position: %w", err)
	}
	return pos, nil
}
