// Package hittest decides whether direct sunlight reaches the target
// through any opening.
package hittest

import (
	"encoding/json"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/geom"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/raycast"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/room"
)

// Reason explains a miss.
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonSunBelowHorizon Reason = "sun_below_horizon"
	ReasonNoWindowPath    Reason = "no_window_path"
)

// Params controls sampling and the simplified-frame rotation.
type Params struct {
	NAngular  int
	NVertical int
	// ReferenceWallNormalDeg is the real-world outward normal of the wall
	// that the room frame pins to due South.
	ReferenceWallNormalDeg float64
}

// DefaultParams returns 8 angular by 3 vertical samples and a 210 degree
// reference wall.
func DefaultParams() Params {
	return Params{NAngular: 8, NVertical: 3, ReferenceWallNormalDeg: 210}
}

// Result is the outcome of one hit test.
type Result struct {
	IsHit bool
	// WindowID is the first opening, in list order, that lit any sample point.
	WindowID  string
	HitPoints []r3.Vec
	// SunDirection is in the room frame; HasDirection is false when the
	// test stopped at the horizon gate.
	SunDirection r3.Vec
	HasDirection bool
	Reason       Reason
}

// CheckHits casts one ray per target sample point toward the sun and tests
// it against every opening. Each point is credited to the first opening it
// passes through; later openings are not consulted for that point.
func CheckHits(azimuthDeg, elevationDeg float64, target room.Target, openings []room.Opening, p Params) Result {
	if elevationDeg <= 0 {
		return Result{Reason: ReasonSunBelowHorizon}
	}

	dir := geom.SunDirectionSimplified(azimuthDeg, elevationDeg, p.ReferenceWallNormalDeg)

	var (
		hitPoints []r3.Vec
		windowID  string
		credited  bool
	)
	for _, pt := range target.Samples(p.NAngular, p.NVertical) {
		id, ok := raycast.FirstHit(pt, dir, openings)
		if !ok {
			continue
		}
		hitPoints = append(hitPoints, pt)
		if !credited {
			windowID = id
			credited = true
		}
	}

	if len(hitPoints) == 0 {
		return Result{SunDirection: dir, HasDirection: true, Reason: ReasonNoWindowPath}
	}
	return Result{
		IsHit:        true,
		WindowID:     windowID,
		HitPoints:    hitPoints,
		SunDirection: dir,
		HasDirection: true,
	}
}

type resultJSON struct {
	IsHit        bool         `json:"is_hit"`
	WindowID     *string      `json:"window_id"`
	HitPoints    [][3]float64 `json:"hit_points"`
	SunDirection *[3]float64  `json:"sun_direction"`
	Reason       *string      `json:"reason"`
}

// MarshalJSON emits {is_hit, window_id, hit_points, sun_direction, reason}
// with nulls for absent values.
func (r Result) MarshalJSON() ([]byte, error) {
	out := resultJSON{
		IsHit:     r.IsHit,
		HitPoints: vecsToArrays(r.HitPoints),
	}
	if r.IsHit {
		id := r.WindowID
		out.WindowID = &id
	}
	if r.HasDirection {
		d := vecToArray(r.SunDirection)
		out.SunDirection = &d
	}
	out.Reason = r.Reason.ptr()
	return json.Marshal(out)
}

// ptr returns nil for ReasonNone so consumers see "reason": null on a hit.
func (r Reason) ptr() *string {
	if r == ReasonNone {
		return nil
	}
	s := string(r)
	return &s
}

func vecToArray(v r3.Vec) [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

func vecsToArrays(vs []r3.Vec) [][3]float64 {
	out := make([][3]float64, len(vs))
	for i, v := range vs {
		out[i] = vecToArray(v)
	}
	return out
}
