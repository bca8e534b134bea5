package solar

import (
	"fmt"
	"math"
	"time"
)

// DayOptions bounds a DaySeries. Hours are local wall-clock hours.
type DayOptions struct {
	Interval  time.Duration
	StartHour int
	EndHour   int
	Algorithm Algorithm
}

// DefaultDayOptions samples every 30 minutes from 05:00 to 21:00.
func DefaultDayOptions() DayOptions {
	return DayOptions{Interval: 30 * time.Minute, StartHour: 5, EndHour: 21, Algorithm: NOAA}
}

// twilightElevation keeps samples slightly below the horizon.
const twilightElevation = -5.0

// DaySeries returns sun positions across one local day. Positions with
// elevation at or below -5 degrees are dropped; angles are rounded to 0.1.
func DaySeries(loc Location, year int, month time.Month, day int, opts DayOptions) ([]Position, error) {
	if opts.Interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %s", opts.Interval)
	}
	zone, err := loc.Zone()
	if err != nil {
		return nil, err
	}

	start := time.Date(year, month, day, opts.StartHour, 0, 0, 0, zone)
	end := time.Date(year, month, day, opts.EndHour, 0, 0, 0, zone)

	var out []Position
	for t := start; !t.After(end); t = t.Add(opts.Interval) {
		pos, err := Calculate(loc, t, opts.Algorithm)
		if err != nil {
			return nil, err
		}
		if pos.ElevationDeg <= twilightElevation {
			continue
		}
		pos.AzimuthDeg = round1(pos.AzimuthDeg)
		pos.ElevationDeg = round1(pos.ElevationDeg)
		out = append(out, pos)
	}
	return out, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// SunriseSunset searches the local day in 5 minute steps: forward from
// 04:00 for the first moment the sun is up, and backward from 20:55 for the
// last. A zero time means none was found, as in polar day or night.
func SunriseSunset(loc Location, year int, month time.Month, day int, alg Algorithm) (sunrise, sunset time.Time, err error) {
	zone, err := loc.Zone()
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	up := func(hour, minute int) (time.Time, bool, error) {
		t := time.Date(year, month, day, hour, minute, 0, 0, zone)
		pos, err := Calculate(loc, t, alg)
		if err != nil {
			return t, false, err
		}
		return t, pos.AboveHorizon(), nil
	}

search:
	for hour := 4; hour < 12; hour++ {
		for minute := 0; minute < 60; minute += 5 {
			t, ok, err := up(hour, minute)
			if err != nil {
				return time.Time{}, time.Time{}, err
			}
			if ok {
				sunrise = t
				break search
			}
		}
	}

searchSet:
	for hour := 20; hour > 12; hour-- {
		for minute := 55; minute >= 0; minute -= 5 {
			t, ok, err := up(hour, minute)
			if err != nil {
				return time.Time{}, time.Time{}, err
			}
			if ok {
				sunset = t
				break searchSet
			}
		}
	}
	return sunrise, sunset, nil
}
