// Package raycast tests rays cast from the target toward the sun against
// room openings.
package raycast

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/room"
)

// Epsilon is the tolerance for parallel rays and inclusive edge bounds.
const Epsilon = 1e-10

// Intersection describes where a ray meets an opening's plane.
// HasPoint is false when the ray never reaches the plane (parallel, wrong
// side or behind the origin); the geometric fields are then zero.
type Intersection struct {
	Hit      bool
	HasPoint bool
	Point    r3.Vec
	// T is the distance along the ray: Point = origin + T*dir.
	T float64
	// LocalH and LocalV are offsets from the opening center within its plane.
	LocalH float64
	LocalV float64
}

// Intersect reports whether the ray from origin along dir leaves the room
// through o. dir points toward the sun and should be unit length.
//
// Openings with a wall thickness are treated as a tunnel: the ray must clear
// both the inner and the outer face.
func Intersect(origin, dir r3.Vec, o room.Opening) Intersection {
	if o.WallThickness > 0 {
		return intersectTunnel(origin, dir, o)
	}
	return intersectPlane(origin, dir, o)
}

// Hits is Intersect(...).Hit.
func Hits(origin, dir r3.Vec, o room.Opening) bool {
	return Intersect(origin, dir, o).Hit
}

// FirstHit returns the id of the first opening, in slice order, the ray
// passes through.
func FirstHit(origin, dir r3.Vec, openings []room.Opening) (string, bool) {
	for _, o := range openings {
		if Hits(origin, dir, o) {
			return o.ID, true
		}
	}
	return "", false
}

func intersectPlane(origin, dir r3.Vec, o room.Opening) Intersection {
	n := o.Normal()
	denom := r3.Dot(dir, n)
	if math.Abs(denom) < Epsilon {
		return Intersection{}
	}
	// Ray heads back into the room.
	if denom <= 0 {
		return Intersection{}
	}
	t := r3.Dot(r3.Sub(o.Center, origin), n) / denom
	if t < 0 {
		return Intersection{}
	}

	p := r3.Add(origin, r3.Scale(t, dir))
	offset := r3.Sub(p, o.Center)
	localH := r3.Dot(offset, o.HorizontalAxis())
	localV := offset.Z

	return Intersection{
		Hit:      withinBounds(localH, localV, o),
		HasPoint: true,
		Point:    p,
		T:        t,
		LocalH:   localH,
		LocalV:   localV,
	}
}

func intersectTunnel(origin, dir r3.Vec, o room.Opening) Intersection {
	if r3.Dot(dir, o.Normal()) <= 0 {
		return Intersection{}
	}

	axis := o.PlaneAxis()
	inner := axis.PlaneCoord(o.Center)
	// Outside is the negative direction along the plane coordinate.
	outer := inner - o.WallThickness

	in := intersectAxisPlane(origin, dir, axis, inner, o)
	if !in.Hit {
		return Intersection{}
	}
	if out := intersectAxisPlane(origin, dir, axis, outer, o); !out.Hit {
		return Intersection{}
	}
	return in
}

// intersectAxisPlane meets the ray with the plane where axis's plane
// coordinate equals coord, then bounds the hit against o's extent.
func intersectAxisPlane(origin, dir r3.Vec, axis room.WallAxis, coord float64, o room.Opening) Intersection {
	d := axis.PlaneCoord(dir)
	if math.Abs(d) < Epsilon {
		return Intersection{}
	}
	t := (coord - axis.PlaneCoord(origin)) / d
	if t < 0 {
		return Intersection{}
	}

	p := r3.Add(origin, r3.Scale(t, dir))
	localH := axis.AlongCoord(p) - axis.AlongCoord(o.Center)
	localV := p.Z - o.Center.Z

	return Intersection{
		Hit:      withinBounds(localH, localV, o),
		HasPoint: true,
		Point:    p,
		T:        t,
		LocalH:   localH,
		LocalV:   localV,
	}
}

// withinBounds is inclusive: a ray landing exactly on an edge passes.
func withinBounds(localH, localV float64, o room.Opening) bool {
	return math.Abs(localH) <= o.Width/2+Epsilon &&
		math.Abs(localV) <= o.Height/2+Epsilon
}
