// Package geom holds the angle and vector helpers shared by the hit test.
//
// All vectors are in an East-North-Up frame: X points east, Y points north
// and Z points up. Azimuths are degrees clockwise from North.
package geom

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/units"
)

// Epsilon is the length below which a vector is treated as zero.
const Epsilon = 1e-10

// SimplifiedReferenceAzimuth is the azimuth the reference wall's outward
// normal is pinned to in the simplified axis-aligned room frame.
const SimplifiedReferenceAzimuth = 180.0

// ErrZeroVector is returned when normalizing a vector shorter than Epsilon.
var ErrZeroVector = errors.New("cannot normalize zero-length vector")

// SunDirectionFromAngles returns the unit vector pointing from an observer
// toward the sun.
func SunDirectionFromAngles(azimuthDeg, elevationDeg float64) r3.Vec {
	az := units.Radians(azimuthDeg)
	el := units.Radians(elevationDeg)
	cosEl := math.Cos(el)
	return r3.Vec{
		X: cosEl * math.Sin(az),
		Y: cosEl * math.Cos(az),
		Z: math.Sin(el),
	}
}

// AnglesFromSunDirection is the inverse of SunDirectionFromAngles. The
// returned azimuth is in [0, 360).
func AnglesFromSunDirection(v r3.Vec) (azimuthDeg, elevationDeg float64) {
	elevationDeg = units.Degrees(math.Atan2(v.Z, math.Hypot(v.X, v.Y)))
	azimuthDeg = units.NormalizeAzimuth(units.Degrees(math.Atan2(v.X, v.Y)))
	return azimuthDeg, elevationDeg
}

// SunDirectionSimplified returns the sun direction in the simplified room
// frame, where the reference wall's outward normal is rotated onto due South.
// Everything that casts rays in room coordinates goes through here.
func SunDirectionSimplified(azimuthDeg, elevationDeg, referenceWallNormalDeg float64) r3.Vec {
	rotation := referenceWallNormalDeg - SimplifiedReferenceAzimuth
	return SunDirectionFromAngles(azimuthDeg-rotation, elevationDeg)
}

// Normalize returns v scaled to unit length.
func Normalize(v r3.Vec) (r3.Vec, error) {
	n := r3.Norm(v)
	if n < Epsilon {
		return r3.Vec{}, ErrZeroVector
	}
	return r3.Scale(1/n, v), nil
}

// Dot returns the dot product of a and b.
func Dot(a, b r3.Vec) float64 { return r3.Dot(a, b) }

// Cross returns a × b.
func Cross(a, b r3.Vec) r3.Vec { return r3.Cross(a, b) }

// AngleBetween returns the angle between a and b in degrees, in [0, 180].
func AngleBetween(a, b r3.Vec) (float64, error) {
	ua, err := Normalize(a)
	if err != nil {
		return 0, err
	}
	ub, err := Normalize(b)
	if err != nil {
		return 0, err
	}
	cos := math.Max(-1, math.Min(1, r3.Dot(ua, ub)))
	return units.Degrees(math.Acos(cos)), nil
}

// ProjectOntoPlane returns the component of v lying in the plane with the
// given normal. The normal does not need to be unit length.
func ProjectOntoPlane(v, planeNormal r3.Vec) (r3.Vec, error) {
	n, err := Normalize(planeNormal)
	if err != nil {
		return r3.Vec{}, err
	}
	return r3.Sub(v, r3.Scale(r3.Dot(v, n), n)), nil
}

// AzimuthToDirection2D returns the horizontal unit vector (east, north) for
// an azimuth.
func AzimuthToDirection2D(azimuthDeg float64) r2.Vec {
	az := units.Radians(azimuthDeg)
	return r2.Vec{X: math.Sin(az), Y: math.Cos(az)}
}

// HorizontalNormal lifts an azimuth into a horizontal 3D unit vector.
func HorizontalNormal(azimuthDeg float64) r3.Vec {
	d := AzimuthToDirection2D(azimuthDeg)
	return r3.Vec{X: d.X, Y: d.Y}
}
