package geom

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
)

// ErrParallelWalls is returned when two walls have (nearly) parallel normals,
// so distances from them cannot pin down a single point.
var ErrParallelWalls = errors.New("walls are parallel")

// InwardDirection returns the horizontal unit vector pointing into the room
// from a wall with the given outward normal azimuth.
func InwardDirection(wallNormalDeg float64) r2.Vec {
	return r2.Scale(-1, AzimuthToDirection2D(wallNormalDeg))
}

// PositionFromWallDistances converts perpendicular distances from two walls
// into x/y coordinates. corner is where the two walls meet.
func PositionFromWallDistances(dist1, dist2, wall1NormalDeg, wall2NormalDeg float64, corner r2.Vec) r2.Vec {
	p := r2.Add(corner, r2.Scale(dist1, InwardDirection(wall1NormalDeg)))
	return r2.Add(p, r2.Scale(dist2, InwardDirection(wall2NormalDeg)))
}

// WallDistancesFromPosition is the inverse of PositionFromWallDistances.
func WallDistancesFromPosition(p r2.Vec, wall1NormalDeg, wall2NormalDeg float64, corner r2.Vec) (dist1, dist2 float64, err error) {
	d1 := InwardDirection(wall1NormalDeg)
	d2 := InwardDirection(wall2NormalDeg)

	// [d1 | d2] * [dist1, dist2]^T = p - corner
	a := mat.NewDense(2, 2, []float64{
		d1.X, d2.X,
		d1.Y, d2.Y,
	})
	if math.Abs(mat.Det(a)) < 1e-9 {
		return 0, 0, ErrParallelWalls
	}
	offset := r2.Sub(p, corner)
	b := mat.NewVecDense(2, []float64{offset.X, offset.Y})

	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return 0, 0, fmt.Errorf("failed to solve wall distances: %w", err)
	}
	return x.AtVec(0), x.AtVec(1), nil
}
