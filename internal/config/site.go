package config

import (
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/geom"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/hittest"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/room"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/solar"
)

// Coordinate system names.
const (
	CoordinatesENU        = "ENU"
	CoordinatesSimplified = "simplified"
)

// Fallback wall normals used when the plant is placed by wall distances and
// the walls cannot be found.
const (
	defaultWall1NormalDeg = 210.0
	defaultWall2NormalDeg = 307.0
)

// ErrNoLocation is returned when an operation needs a geographic location
// and the site has none.
var ErrNoLocation = errors.New("site configuration has no location")

// Sampling is the target surface sampling resolution.
type Sampling struct {
	Angular  int
	Vertical int
}

// DefaultSampling is 8 angular by 3 vertical points.
func DefaultSampling() Sampling { return Sampling{Angular: 8, Vertical: 3} }

// Site is a fully resolved room configuration.
type Site struct {
	CoordinateSystem string
	Units            string
	Corner           r2.Vec
	Walls            []room.Wall
	Openings         []room.Opening
	Target           room.Target
	Sampling         Sampling
	Location         *solar.Location
	// ReferenceWallNormalDeg is the real-world heading pinned to due South
	// in room coordinates.
	ReferenceWallNormalDeg float64
	SunAlgorithm           solar.Algorithm

	// Warnings collects suspicious but accepted input found while building.
	Warnings []string
}

// Simplified reports whether the room uses the axis-aligned frame.
func (s *Site) Simplified() bool {
	return strings.EqualFold(s.CoordinateSystem, CoordinatesSimplified)
}

// Params returns the hit test parameters for this site.
func (s *Site) Params() hittest.Params {
	return hittest.Params{
		NAngular:               s.Sampling.Angular,
		NVertical:              s.Sampling.Vertical,
		ReferenceWallNormalDeg: s.ReferenceWallNormalDeg,
	}
}

// Check runs the hit test for a sun position against this site.
func (s *Site) Check(azimuthDeg, elevationDeg float64) hittest.Result {
	return hittest.CheckHits(azimuthDeg, elevationDeg, s.Target, s.Openings, s.Params())
}

// Detail runs the per-ray trace for a sun position against this site.
func (s *Site) Detail(azimuthDeg, elevationDeg float64) hittest.DetailReport {
	return hittest.Detail(azimuthDeg, elevationDeg, s.Target, s.Openings, s.Params())
}

// Wall returns the wall with the given id.
func (s *Site) Wall(id string) (room.Wall, bool) {
	for _, w := range s.Walls {
		if w.ID == id {
			return w, true
		}
	}
	return room.Wall{}, false
}

// Validate checks the resolved site.
func (s *Site) Validate() error {
	var errs []error

	switch {
	case strings.EqualFold(s.CoordinateSystem, CoordinatesENU), s.Simplified():
	default:
		errs = append(errs, fmt.Errorf("coordinate_system must be %q or %q, got %q",
			CoordinatesENU, CoordinatesSimplified, s.CoordinateSystem))
	}

	wallIDs := make(map[string]bool, len(s.Walls))
	for _, w := range s.Walls {
		if err := w.Validate(); err != nil {
			errs = append(errs, err)
		}
		if wallIDs[w.ID] {
			errs = append(errs, fmt.Errorf("duplicate wall id %q", w.ID))
		}
		wallIDs[w.ID] = true
	}

	openingIDs := make(map[string]bool, len(s.Openings))
	for _, o := range s.Openings {
		if err := o.Validate(); err != nil {
			errs = append(errs, err)
		}
		if openingIDs[o.ID] {
			errs = append(errs, fmt.Errorf("duplicate window id %q", o.ID))
		}
		openingIDs[o.ID] = true
	}

	if err := s.Target.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("plant: %w", err))
	}
	if s.Sampling.Angular < 0 || s.Sampling.Vertical < 0 {
		errs = append(errs, fmt.Errorf("sample point counts must be non-negative, got %d/%d",
			s.Sampling.Angular, s.Sampling.Vertical))
	}
	if s.Location != nil {
		if err := s.Location.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("location: %w", err))
		}
	}
	return errors.Join(errs...)
}

// wallProps is what an opening can inherit from its wall.
type wallProps struct {
	normal    float64
	thickness float64
	axis      room.WallAxis
}

// set reports whether a legacy optional number was given a usable value;
// zero counts as absent, as older files wrote 0 for "not set".
func set(v *float64) bool { return v != nil && *v != 0 }

func firstSet(vs ...*float64) (float64, bool) {
	for _, v := range vs {
		if set(v) {
			return *v, true
		}
	}
	return 0, false
}

// Build resolves a File into a Site, applying legacy fallbacks, and
// validates the result.
func Build(f File) (*Site, error) {
	s := &Site{
		CoordinateSystem: f.CoordinateSystem,
		Units:            f.Units,
		Sampling:         DefaultSampling(),
	}
	if s.CoordinateSystem == "" {
		s.CoordinateSystem = CoordinatesENU
	}
	if s.Units == "" {
		s.Units = "meters"
	}
	if f.Corner != nil {
		s.Corner = r2.Vec{X: f.Corner.X, Y: f.Corner.Y}
	}

	var globalLength *float64
	if f.Visualization != nil {
		globalLength = f.Visualization.WallLength
	}

	props := make(map[string]wallProps, len(f.Walls))
	for _, wf := range f.Walls {
		w, err := buildWall(wf, globalLength)
		if err != nil {
			return nil, err
		}
		s.Walls = append(s.Walls, w)
		props[w.ID] = wallProps{normal: w.OutwardNormalAzimuthDeg, thickness: w.Thickness, axis: w.Axis}
	}

	for _, wf := range f.Windows {
		o, warn, err := buildOpening(wf, props, s.Corner)
		if err != nil {
			return nil, err
		}
		if warn != "" {
			s.Warnings = append(s.Warnings, warn)
		}
		s.Openings = append(s.Openings, o)
	}

	target, err := s.buildTarget(f.Plant, props)
	if err != nil {
		return nil, err
	}
	s.Target = target

	if f.Simulation != nil {
		if f.Simulation.SamplePointsAngular != nil {
			s.Sampling.Angular = *f.Simulation.SamplePointsAngular
		}
		if f.Simulation.SamplePointsVertical != nil {
			s.Sampling.Vertical = *f.Simulation.SamplePointsVertical
		}
	}

	if f.Location != nil {
		loc := solar.Location{
			Latitude:            f.Location.Latitude,
			Longitude:           f.Location.Longitude,
			TimezoneOffsetHours: solar.DefaultTimezoneOffset,
			TimezoneName:        f.Location.TimezoneName,
		}
		if f.Location.TimezoneOffset != nil {
			loc.TimezoneOffsetHours = *f.Location.TimezoneOffset
		}
		s.Location = &loc
	}

	s.ReferenceWallNormalDeg = s.resolveReferenceNormal(f.ReferenceWallNormalDeg)

	alg, err := solar.ParseAlgorithm(f.SunAlgorithm)
	if err != nil {
		return nil, err
	}
	s.SunAlgorithm = alg

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return s, nil
}

// resolveReferenceNormal picks the heading pinned to due South. An explicit
// value wins, then the first wall's normal, then the 210 degree default. The
// coordinate_system label does not change the rotation.
func (s *Site) resolveReferenceNormal(explicit *float64) float64 {
	if explicit != nil {
		return *explicit
	}
	if len(s.Walls) > 0 {
		return s.Walls[0].OutwardNormalAzimuthDeg
	}
	return hittest.DefaultParams().ReferenceWallNormalDeg
}

func buildWall(wf WallFile, globalLength *float64) (room.Wall, error) {
	if wf.OutwardNormalAzimuthDeg == nil {
		return room.Wall{}, fmt.Errorf("wall %q missing outward_normal_azimuth_deg", wf.ID)
	}
	axis, err := room.ParseWallAxis(wf.Axis)
	if err != nil {
		return room.Wall{}, fmt.Errorf("wall %q: %w", wf.ID, err)
	}

	w := room.Wall{
		ID:                      wf.ID,
		OutwardNormalAzimuthDeg: *wf.OutwardNormalAzimuthDeg,
		Axis:                    axis,
		DrawLength:              room.DefaultDrawLength,
	}
	if wf.Thickness != nil {
		w.Thickness = *wf.Thickness
	}

	var vizWall, vizDraw *float64
	if wf.Visualization != nil {
		vizWall, vizDraw = wf.Visualization.WallLength, wf.Visualization.DrawLength
	}
	if l, ok := firstSet(vizWall, vizDraw, wf.DrawLength, wf.WallLength, globalLength); ok {
		w.DrawLength = l
	}
	return w, nil
}

func buildOpening(wf WindowFile, props map[string]wallProps, corner r2.Vec) (room.Opening, string, error) {
	if wf.Width == nil || wf.Height == nil {
		return room.Opening{}, "", fmt.Errorf("window %q missing width/height", wf.ID)
	}
	width, height := *wf.Width, *wf.Height

	wall, hasWall := props[wf.WallID]
	var warn string
	if wf.WallID != "" && !hasWall {
		warn = fmt.Sprintf("window %q references unknown wall %q", wf.ID, wf.WallID)
	}

	var normal float64
	switch {
	case wf.WallNormalAzimuthDeg != nil:
		normal = *wf.WallNormalAzimuthDeg
	case hasWall:
		normal = wall.normal
	default:
		return room.Opening{}, "", fmt.Errorf("window %q missing wall_normal_azimuth information", wf.ID)
	}

	thickness := wall.thickness
	if set(wf.WallThickness) {
		thickness = *wf.WallThickness
	}

	axis, ambiguous, err := inferAxis(wf, wall, hasWall)
	if err != nil {
		return room.Opening{}, "", err
	}
	if ambiguous {
		warn = fmt.Sprintf("window %q: |x| and |y| of center are equal, wall axis guessed as %q; set \"axis\" explicitly", wf.ID, axis)
	}

	z, err := centerZ(wf)
	if err != nil {
		return room.Opening{}, "", err
	}

	pos := positionAlongWall(wf, axis, width, corner)

	var center r3.Vec
	switch {
	case axis != room.AxisUnset && pos != nil:
		along := *pos + width/2
		if axis == room.AxisX {
			center = r3.Vec{X: corner.X + along, Y: corner.Y, Z: z}
		} else {
			center = r3.Vec{X: corner.X, Y: corner.Y + along, Z: z}
		}
	case len(wf.Center) >= 2:
		center = r3.Vec{X: wf.Center[0], Y: wf.Center[1], Z: z}
	default:
		return room.Opening{}, "", fmt.Errorf("window %q must provide either center or axis-aligned position", wf.ID)
	}

	return room.Opening{
		ID:                wf.ID,
		Center:            center,
		Width:             width,
		Height:            height,
		NormalAzimuthDeg:  normal,
		WallThickness:     thickness,
		Axis:              axis,
		WallID:            wf.WallID,
		PositionAlongWall: pos,
	}, warn, nil
}

// inferAxis takes the window's tag, then its wall's, then guesses from the
// center. ambiguous is only set for a guess.
func inferAxis(wf WindowFile, wall wallProps, hasWall bool) (axis room.WallAxis, ambiguous bool, err error) {
	axis, err = room.ParseWallAxis(wf.Axis)
	if err != nil {
		return room.AxisUnset, false, fmt.Errorf("window %q: %w", wf.ID, err)
	}
	if axis != room.AxisUnset {
		return axis, false, nil
	}
	if hasWall && wall.axis != room.AxisUnset {
		return wall.axis, false, nil
	}
	if len(wf.Center) >= 2 {
		axis, ambiguous = room.GuessAxis(wf.Center[0], wf.Center[1])
		return axis, ambiguous, nil
	}
	return room.AxisUnset, false, nil
}

func centerZ(wf WindowFile) (float64, error) {
	if wf.ZBottom != nil && wf.ZTop != nil {
		return (*wf.ZBottom + *wf.ZTop) / 2, nil
	}
	if len(wf.Center) == 3 {
		return wf.Center[2], nil
	}
	return 0, fmt.Errorf("window %q must define z_bottom/z_top or center[2]", wf.ID)
}

func positionAlongWall(wf WindowFile, axis room.WallAxis, width float64, corner r2.Vec) *float64 {
	if axis == room.AxisUnset {
		return nil
	}
	if wf.PositionAlongWall != nil {
		p := *wf.PositionAlongWall
		return &p
	}
	legacy, cornerCoord, centerIdx := wf.XPosition, corner.X, 0
	if axis == room.AxisY {
		legacy, cornerCoord, centerIdx = wf.YPosition, corner.Y, 1
	}
	if legacy != nil {
		p := *legacy
		return &p
	}
	if len(wf.Center) > centerIdx {
		p := wf.Center[centerIdx] - width/2 - cornerCoord
		return &p
	}
	return nil
}

func (s *Site) buildTarget(pf PlantFile, props map[string]wallProps) (room.Target, error) {
	t := room.Target{Radius: pf.Radius, ZMin: pf.ZMin, ZMax: pf.ZMax}

	if pf.DistFromWall1 != nil && pf.DistFromWall2 != nil {
		d1, d2 := *pf.DistFromWall1, *pf.DistFromWall2
		if s.Simplified() {
			// Wall 1 runs along X, so its distance is y; wall 2 gives x.
			t.CenterX, t.CenterY = d2, d1
			return t, nil
		}

		wall1, wall2 := pf.Wall1ID, pf.Wall2ID
		if wall1 == "" && len(s.Walls) > 0 {
			wall1 = s.Walls[0].ID
		}
		if wall2 == "" && len(s.Walls) > 1 {
			wall2 = s.Walls[1].ID
		}
		n1, n2 := defaultWall1NormalDeg, defaultWall2NormalDeg
		if p, ok := props[wall1]; ok {
			n1 = p.normal
		}
		if p, ok := props[wall2]; ok {
			n2 = p.normal
		}
		c := geom.PositionFromWallDistances(d1, d2, n1, n2, s.Corner)
		t.CenterX, t.CenterY = c.X, c.Y
		return t, nil
	}

	if pf.CenterX == nil || pf.CenterY == nil {
		return room.Target{}, errors.New("plant center coordinates could not be determined; provide center_x/center_y or wall distances")
	}
	t.CenterX, t.CenterY = *pf.CenterX, *pf.CenterY
	return t, nil
}
