package solar

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/sidereal"
	msolar "github.com/soniakeys/meeus/v3/solar"

	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/units"
)

// meeus converts the sun's apparent right ascension and declination to
// horizontal coordinates for an observer. Longitude is positive east.
func meeus(latitude, longitude float64, t time.Time) (azimuthDeg, elevationDeg float64) {
	jd := julian.TimeToJD(t.UTC())
	ra, dec := msolar.ApparentEquatorial(jd)

	gast := sidereal.Apparent(jd).Angle().Rad()
	h := gast + units.Radians(longitude) - ra.Rad()

	lat := units.Radians(latitude)
	d := dec.Rad()

	sinEl := math.Sin(lat)*math.Sin(d) + math.Cos(lat)*math.Cos(d)*math.Cos(h)
	elevationDeg = units.Degrees(math.Asin(clamp(sinEl)))

	y := -math.Cos(d) * math.Sin(h)
	x := math.Sin(d)*math.Cos(lat) - math.Cos(d)*math.Sin(lat)*math.Cos(h)
	azimuthDeg = units.NormalizeAzimuth(units.Degrees(math.Atan2(y, x)))
	return azimuthDeg, elevationDeg
}
