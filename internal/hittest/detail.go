package hittest

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/geom"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/raycast"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/room"
)

// OpeningTrace is one ray tested against one opening.
type OpeningTrace struct {
	WindowID          string      `json:"window_id"`
	Intersects        bool        `json:"intersects"`
	IntersectionPoint *[3]float64 `json:"intersection_point,omitempty"`
	T                 *float64    `json:"t,omitempty"`
	LocalH            *float64    `json:"local_h,omitempty"`
	LocalV            *float64    `json:"local_v,omitempty"`
}

// PointTrace is every opening tested from one sample point.
type PointTrace struct {
	Index    int            `json:"index"`
	Position [3]float64     `json:"position"`
	Windows  []OpeningTrace `json:"windows"`
}

// DetailReport lists every sample point against every opening. Unlike
// CheckHits, a point may intersect several openings here.
type DetailReport struct {
	IsHit           bool         `json:"is_hit"`
	WindowID        *string      `json:"window_id"`
	Reason          *string      `json:"reason"`
	SunAzimuthDeg   float64      `json:"sun_azimuth_deg"`
	SunElevationDeg float64      `json:"sun_elevation_deg"`
	SunDirection    *[3]float64  `json:"sun_direction"`
	NSamplePoints   int          `json:"n_sample_points"`
	NHitPoints      int          `json:"n_hit_points"`
	Points          []PointTrace `json:"points"`
}

// Detail traces the same rays as CheckHits, using the same room-frame sun
// direction, and keeps every intersection for debugging and rendering.
func Detail(azimuthDeg, elevationDeg float64, target room.Target, openings []room.Opening, p Params) DetailReport {
	rep := DetailReport{
		SunAzimuthDeg:   azimuthDeg,
		SunElevationDeg: elevationDeg,
		Points:          []PointTrace{},
	}
	if elevationDeg <= 0 {
		rep.Reason = ReasonSunBelowHorizon.ptr()
		return rep
	}

	dir := geom.SunDirectionSimplified(azimuthDeg, elevationDeg, p.ReferenceWallNormalDeg)
	d := vecToArray(dir)
	rep.SunDirection = &d

	for i, pt := range target.Samples(p.NAngular, p.NVertical) {
		trace := PointTrace{Index: i, Position: vecToArray(pt)}
		lit := false
		for _, o := range openings {
			res := raycast.Intersect(pt, dir, o)
			trace.Windows = append(trace.Windows, traceOf(o.ID, res))
			if !res.Hit {
				continue
			}
			lit = true
			if rep.WindowID == nil {
				id := o.ID
				rep.WindowID = &id
			}
		}
		if lit {
			rep.NHitPoints++
		}
		rep.Points = append(rep.Points, trace)
	}
	rep.NSamplePoints = len(rep.Points)
	rep.IsHit = rep.NHitPoints > 0
	if !rep.IsHit {
		rep.Reason = ReasonNoWindowPath.ptr()
	}
	return rep
}

func traceOf(id string, res raycast.Intersection) OpeningTrace {
	tr := OpeningTrace{WindowID: id, Intersects: res.Hit}
	if !res.HasPoint {
		return tr
	}
	p := vecToArray(res.Point)
	t, h, v := res.T, res.LocalH, res.LocalV
	tr.IntersectionPoint = &p
	tr.T = &t
	tr.LocalH = &h
	tr.LocalV = &v
	return tr
}

// LitPoints returns the positions of the lit sample points in a report.
func (r DetailReport) LitPoints() []r3.Vec {
	var out []r3.Vec
	for _, pt := range r.Points {
		for _, w := range pt.Windows {
			if w.Intersects {
				out = append(out, r3.Vec{X: pt.Position[0], Y: pt.Position[1], Z: pt.Position[2]})
				break
			}
		}
	}
	return out
}
