// Package room models the static geometry of a room: rectangular wall
// openings (windows) and the cylindrical target they may illuminate.
//
// All types are plain values. Derived quantities such as normals, axes and
// corners are computed on every call so a copied or edited value never
// carries stale state.
package room

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/geom"
)

// Opening is a rectangular opening in a vertical wall. Center is on the
// inner wall face.
type Opening struct {
	ID     string
	Center r3.Vec
	Width  float64
	Height float64
	// NormalAzimuthDeg is the outward normal, degrees clockwise from North.
	NormalAzimuthDeg float64
	// WallThickness of 0 models an infinitely thin plane.
	WallThickness float64
	Axis          WallAxis
	WallID        string
	// PositionAlongWall is the distance from the room corner to the
	// opening's near edge, kept so user input round-trips.
	PositionAlongWall *float64
}

// Normal is the horizontal outward unit normal.
func (o Opening) Normal() r3.Vec {
	return geom.HorizontalNormal(o.NormalAzimuthDeg)
}

// HorizontalAxis is the in-plane "right" direction when facing the opening
// from outside.
func (o Opening) HorizontalAxis() r3.Vec {
	n := o.Normal()
	return r3.Vec{X: -n.Y, Y: n.X}
}

// VerticalAxis is always straight up.
func (o Opening) VerticalAxis() r3.Vec {
	return r3.Vec{Z: 1}
}

func (o Opening) ZBottom() float64 { return o.Center.Z - o.Height/2 }
func (o Opening) ZTop() float64    { return o.Center.Z + o.Height/2 }

// Corners returns bottom-left, bottom-right, top-right and top-left as seen
// from outside looking along the normal.
func (o Opening) Corners() [4]r3.Vec {
	h := r3.Scale(o.Width/2, o.HorizontalAxis())
	v := r3.Scale(o.Height/2, o.VerticalAxis())
	return [4]r3.Vec{
		r3.Sub(r3.Sub(o.Center, h), v),
		r3.Sub(r3.Add(o.Center, h), v),
		r3.Add(r3.Add(o.Center, h), v),
		r3.Add(r3.Sub(o.Center, h), v),
	}
}

// PlaneAxis resolves the wall the opening sits on. An explicit tag wins;
// untagged openings fall back to GuessAxis on the center.
func (o Opening) PlaneAxis() WallAxis {
	if o.Axis != AxisUnset {
		return o.Axis
	}
	axis, _ := GuessAxis(o.Center.X, o.Center.Y)
	return axis
}

// AxisAmbiguous reports whether an untagged opening sits where the legacy
// heuristic cannot tell the two walls apart.
func (o Opening) AxisAmbiguous() bool {
	if o.Axis != AxisUnset {
		return false
	}
	_, ambiguous := GuessAxis(o.Center.X, o.Center.Y)
	return ambiguous
}

// Validate checks the geometry is non-degenerate.
func (o Opening) Validate() error {
	var errs []error
	if o.ID == "" {
		errs = append(errs, errors.New("opening id must not be empty"))
	}
	if !(o.Width > 0) {
		errs = append(errs, fmt.Errorf("opening %s: width must be > 0, got %v", o.ID, o.Width))
	}
	if !(o.Height > 0) {
		errs = append(errs, fmt.Errorf("opening %s: height must be > 0, got %v", o.ID, o.Height))
	}
	if o.WallThickness < 0 {
		errs = append(errs, fmt.Errorf("opening %s: wall thickness must be >= 0, got %v", o.ID, o.WallThickness))
	}
	if math.IsNaN(o.NormalAzimuthDeg) || math.IsInf(o.NormalAzimuthDeg, 0) {
		errs = append(errs, fmt.Errorf("opening %s: normal azimuth must be finite", o.ID))
	}
	return errors.Join(errs...)
}
