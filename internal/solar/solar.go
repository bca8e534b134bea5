// Package solar computes where the sun is for a place and time.
package solar

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/units"
)

// DefaultTimezoneOffset is used when a location gives no offset (EST).
const DefaultTimezoneOffset = -5.0

// ErrUnknownAlgorithm is returned for an unrecognized algorithm name.
var ErrUnknownAlgorithm = errors.New("unknown sun position algorithm")

// Algorithm selects the sun position model.
type Algorithm string

const (
	// NOAA is the NOAA general solar position formula. It is the default.
	NOAA Algorithm = "noaa"
	// Meeus uses apparent equatorial coordinates and sidereal time from
	// Astronomical Algorithms.
	Meeus Algorithm = "meeus"
)

// ParseAlgorithm maps a name to an Algorithm; "" selects NOAA.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(strings.ToLower(strings.TrimSpace(s))) {
	case "", NOAA:
		return NOAA, nil
	case Meeus:
		return Meeus, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
	}
}

// Location is an observer on the ground.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	// TimezoneOffsetHours is used when TimezoneName is empty.
	TimezoneOffsetHours float64 `json:"timezone_offset"`
	TimezoneName        string  `json:"timezone_name,omitempty"`
}

// Zone resolves the location's time zone.
func (l Location) Zone() (*time.Location, error) {
	return units.ResolveZone(l.TimezoneName, l.TimezoneOffsetHours)
}

func (l Location) Validate() error {
	var errs []error
	if l.Latitude < -90 || l.Latitude > 90 {
		errs = append(errs, fmt.Errorf("latitude must be within [-90, 90], got %v", l.Latitude))
	}
	if l.Longitude < -180 || l.Longitude > 180 {
		errs = append(errs, fmt.Errorf("longitude must be within [-180, 180], got %v", l.Longitude))
	}
	if l.TimezoneOffsetHours < -14 || l.TimezoneOffsetHours > 14 {
		errs = append(errs, fmt.Errorf("timezone_offset must be within [-14, 14], got %v", l.TimezoneOffsetHours))
	}
	if l.TimezoneName != "" && !units.IsTimezoneValid(l.TimezoneName) {
		errs = append(errs, fmt.Errorf("invalid timezone_name %q", l.TimezoneName))
	}
	return errors.Join(errs...)
}

// Position is the sun's place in the sky at Time.
type Position struct {
	AzimuthDeg   float64   `json:"azimuth_deg"`
	ElevationDeg float64   `json:"elevation_deg"`
	Time         time.Time `json:"timestamp"`
}

// AboveHorizon reports whether the sun is up.
func (p Position) AboveHorizon() bool { return p.ElevationDeg > 0 }

// Calculate returns the sun position at t for loc.
func Calculate(loc Location, t time.Time, alg Algorithm) (Position, error) {
	zone, err := loc.Zone()
	if err != nil {
		return Position{}, err
	}
	local := t.In(zone)

	var az, el float64
	switch alg {
	case NOAA, "":
		az, el = noaa(loc.Latitude, loc.Longitude, local)
	case Meeus:
		az, el = meeus(loc.Latitude, loc.Longitude, local)
	default:
		return Position{}, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, alg)
	}
	return Position{AzimuthDeg: az, ElevationDeg: el, Time: local}, nil
}

func isLeapYear(y int) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}

// noaa evaluates the NOAA formula on local's wall clock and UTC offset.
func noaa(latitude, longitude float64, local time.Time) (azimuthDeg, elevationDeg float64) {
	lat := units.Radians(latitude)
	tz := units.OffsetHours(local)

	daysInYear := 365.0
	if isLeapYear(local.Year()) {
		daysInYear = 366
	}
	hour := float64(local.Hour())
	gamma := 2 * math.Pi / daysInYear * (float64(local.YearDay()-1) + (hour-12)/24)

	// minutes
	eqtime := 229.18 * (0.000075 +
		0.001868*math.Cos(gamma) -
		0.032077*math.Sin(gamma) -
		0.014615*math.Cos(2*gamma) -
		0.040849*math.Sin(2*gamma))

	decl := 0.006918 -
		0.399912*math.Cos(gamma) +
		0.070257*math.Sin(gamma) -
		0.006758*math.Cos(2*gamma) +
		0.000907*math.Sin(2*gamma) -
		0.002697*math.Cos(3*gamma) +
		0.00148*math.Sin(3*gamma)

	timeOffset := eqtime + 4*longitude - 60*tz
	tst := hour*60 + float64(local.Minute()) + float64(local.Second())/60 + timeOffset

	ha := tst/4 - 180
	haRad := units.Radians(ha)

	cosZenith := math.Sin(lat)*math.Sin(decl) + math.Cos(lat)*math.Cos(decl)*math.Cos(haRad)
	cosZenith = clamp(cosZenith)
	zenith := math.Acos(cosZenith)
	elevationDeg = 90 - units.Degrees(zenith)

	sinZenith := math.Sin(zenith)
	if math.Abs(sinZenith) < 1e-10 {
		return 180, elevationDeg
	}
	cosAz := clamp((math.Sin(lat)*cosZenith - math.Sin(decl)) / (math.Cos(lat) * sinZenith))
	fromSouth := units.Degrees(math.Acos(cosAz))
	if ha <= 0 {
		azimuthDeg = 180 - fromSouth
	} else {
		azimuthDeg = 180 + fromSouth
	}
	return azimuthDeg, elevationDeg
}

func clamp(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
