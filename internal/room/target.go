package room

import (
	"errors"
	"fmt"
	"iter"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Target is a vertical cylinder standing in the room.
type Target struct {
	CenterX float64
	CenterY float64
	Radius  float64
	ZMin    float64
	ZMax    float64
}

func (t Target) CenterXY() r2.Vec { return r2.Vec{X: t.CenterX, Y: t.CenterY} }
func (t Target) Height() float64  { return t.ZMax - t.ZMin }

// SampleCount is the number of points Samples yields.
func SampleCount(nAngular, nVertical int) int {
	if nAngular <= 0 || nVertical <= 0 {
		return 2
	}
	return nAngular*nVertical + 2
}

// Samples yields points on the cylinder surface: angular-major,
// vertical-minor, followed by the top-center and mid-height-center points.
// The order is fixed. Each call restarts from the first point.
func (t Target) Samples(nAngular, nVertical int) iter.Seq2[int, r3.Vec] {
	return func(yield func(int, r3.Vec) bool) {
		i := 0
		if nAngular > 0 && nVertical > 0 {
			for a := range nAngular {
				angle := 2 * math.Pi * float64(a) / float64(nAngular)
				x := t.CenterX + t.Radius*math.Cos(angle)
				y := t.CenterY + t.Radius*math.Sin(angle)
				for v := range nVertical {
					if !yield(i, r3.Vec{X: x, Y: y, Z: t.sampleZ(v, nVertical)}) {
						return
					}
					i++
				}
			}
		}
		if !yield(i, r3.Vec{X: t.CenterX, Y: t.CenterY, Z: t.ZMax}) {
			return
		}
		yield(i+1, r3.Vec{X: t.CenterX, Y: t.CenterY, Z: (t.ZMin + t.ZMax) / 2})
	}
}

func (t Target) sampleZ(j, nVertical int) float64 {
	if nVertical == 1 {
		return (t.ZMin + t.ZMax) / 2
	}
	return t.ZMin + (t.ZMax-t.ZMin)*float64(j)/float64(nVertical-1)
}

// SamplePoints collects Samples into a slice.
func (t Target) SamplePoints(nAngular, nVertical int) []r3.Vec {
	pts := make([]r3.Vec, 0, SampleCount(nAngular, nVertical))
	for _, p := range t.Samples(nAngular, nVertical) {
		pts = append(pts, p)
	}
	return pts
}

// Validate checks the cylinder is non-degenerate.
func (t Target) Validate() error {
	var errs []error
	if !(t.Radius > 0) {
		errs = append(errs, fmt.Errorf("target radius must be > 0, got %v", t.Radius))
	}
	if !(t.ZMax > t.ZMin) {
		errs = append(errs, fmt.Errorf("target z_max (%v) must be greater than z_min (%v)", t.ZMax, t.ZMin))
	}
	return errors.Join(errs...)
}
