// Package units provides angle and time zone conversions.
package units

import "math"

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

// NormalizeAzimuth folds an azimuth in degrees into [0, 360).
func NormalizeAzimuth(deg float64) float64 {
	a := math.Mod(deg, 360.0)
	if a < 0 {
		a += 360.0
	}
	// math.Mod of a tiny negative value plus 360 rounds back up to 360
	if a >= 360.0 {
		a -= 360.0
	}
	return a
}

// compassPoints is the 16-wind rose starting at North, clockwise.
var compassPoints = []string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// CompassPoint returns the 16-wind compass label for an azimuth in degrees
// (clockwise from North).
func CompassPoint(azimuthDeg float64) string {
	idx := int(math.Floor(NormalizeAzimuth(azimuthDeg)/22.5+0.5)) % len(compassPoints)
	return compassPoints[idx]
}
