package room

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// WallAxis identifies which of the two perpendicular room walls an opening
// sits on in the simplified axis-aligned frame.
type WallAxis int

const (
	// AxisUnset means the configuration did not tag the opening.
	AxisUnset WallAxis = iota
	// AxisX is a wall running along X; its plane is y = const.
	AxisX
	// AxisY is a wall running along Y; its plane is x = const.
	AxisY
)

// ambiguousAxisTolerance is how close |x| and |y| of an untagged center may
// be before GuessAxis reports the guess as unreliable.
const ambiguousAxisTolerance = 1e-6

// GuessAxis names the wall an untagged opening centered at (x, y) sits on:
// the X wall when |y| <= |x|, otherwise the Y wall. Exact ties go to X.
// ambiguous is set when |x| and |y| are within ambiguousAxisTolerance.
func GuessAxis(x, y float64) (axis WallAxis, ambiguous bool) {
	ax, ay := math.Abs(x), math.Abs(y)
	ambiguous = math.Abs(ax-ay) < ambiguousAxisTolerance
	if ay <= ax {
		return AxisX, ambiguous
	}
	return AxisY, ambiguous
}

// ParseWallAxis accepts "x", "y" or "" (case-insensitive).
func ParseWallAxis(s string) (WallAxis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return AxisUnset, nil
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	default:
		return AxisUnset, fmt.Errorf("invalid wall axis %q (expected x or y)", s)
	}
}

func (a WallAxis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	default:
		return ""
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a WallAxis) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *WallAxis) UnmarshalText(b []byte) error {
	v, err := ParseWallAxis(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// PlaneCoord returns the coordinate of p that is constant across the wall
// plane: Y for an X wall, X for a Y wall.
func (a WallAxis) PlaneCoord(p r3.Vec) float64 {
	if a == AxisX {
		return p.Y
	}
	return p.X
}

// AlongCoord returns the coordinate of p that runs along the wall.
func (a WallAxis) AlongCoord(p r3.Vec) float64 {
	if a == AxisX {
		return p.X
	}
	return p.Y
}

// WithPlaneCoord returns p with its plane coordinate replaced by v.
func (a WallAxis) WithPlaneCoord(p r3.Vec, v float64) r3.Vec {
	if a == AxisX {
		p.Y = v
	} else {
		p.X = v
	}
	return p
}
