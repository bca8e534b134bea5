package units

import (
	"fmt"
	"math"
	"time"
)

// IsTimezoneValid checks if the given timezone is valid by attempting to load it from the tz database
func IsTimezoneValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// FixedZone returns a location for a whole or fractional hour offset from UTC,
// e.g. -5 for EST or 5.5 for IST.
func FixedZone(offsetHours float64) *time.Location {
	seconds := int(math.Round(offsetHours * 3600))
	if seconds == 0 {
		return time.UTC
	}
	sign := "+"
	abs := seconds
	if abs < 0 {
		sign = "-"
		abs = -abs
	}
	name := fmt.Sprintf("UTC%s%02d:%02d", sign, abs/3600, (abs%3600)/60)
	return time.FixedZone(name, seconds)
}

// ResolveZone prefers a named tz database zone (so daylight saving is honoured)
// and falls back to the fixed hour offset when no name is configured.
func ResolveZone(name string, offsetHours float64) (*time.Location, error) {
	if name == "" {
		return FixedZone(offsetHours), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %s: %w", name, err)
	}
	return loc, nil
}

// OffsetHours returns the UTC offset of t in its own location, in hours.
func OffsetHours(t time.Time) float64 {
	_, offset := t.Zone()
	return float64(offset) / 3600.0
}
