package room

import "fmt"

// DefaultDrawLength is the wall length used for rendering when the
// configuration gives none, in meters.
const DefaultDrawLength = 15.0

// Wall is a room wall. Openings may inherit normal, thickness and axis from
// the wall they reference.
type Wall struct {
	ID                      string
	OutwardNormalAzimuthDeg float64
	Thickness               float64
	Axis                    WallAxis
	DrawLength              float64
}

func (w Wall) Validate() error {
	if w.ID == "" {
		return fmt.Errorf("wall id must not be empty")
	}
	if w.Thickness < 0 {
		return fmt.Errorf("wall %s: thickness must be >= 0, got %v", w.ID, w.Thickness)
	}
	if w.DrawLength < 0 {
		return fmt.Errorf("wall %s: draw length must be >= 0, got %v", w.ID, w.DrawLength)
	}
	return nil
}
