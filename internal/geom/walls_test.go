package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestInwardDirection(t *testing.T) {
	d := InwardDirection(180)
	assert.InDelta(t, 0, d.X, 1e-12)
	assert.InDelta(t, 1, d.Y, 1e-12)
}

func TestPositionFromWallDistancesAxisAligned(t *testing.T) {
	// South wall (normal 180) and west wall (normal 270): distances map onto y and x.
	p := PositionFromWallDistances(1.5, 2.0, 180, 270, r2.Vec{})
	assert.InDelta(t, 2.0, p.X, 1e-12)
	assert.InDelta(t, 1.5, p.Y, 1e-12)

	p = PositionFromWallDistances(1.5, 2.0, 180, 270, r2.Vec{X: 10, Y: -1})
	assert.InDelta(t, 12.0, p.X, 1e-12)
	assert.InDelta(t, 0.5, p.Y, 1e-12)
}

func TestWallDistancesRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		n1, n2 float64
		d1, d2 float64
		corner r2.Vec
	}{
		{"axis aligned", 180, 270, 1.5, 2.0, r2.Vec{}},
		{"real room", 210, 307, 1.5, 2.0, r2.Vec{}},
		{"offset corner", 210, 307, 0.4, 3.1, r2.Vec{X: 2, Y: -3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := PositionFromWallDistances(tt.d1, tt.d2, tt.n1, tt.n2, tt.corner)
			d1, d2, err := WallDistancesFromPosition(p, tt.n1, tt.n2, tt.corner)
			require.NoError(t, err)
			assert.InDelta(t, tt.d1, d1, 1e-9)
			assert.InDelta(t, tt.d2, d2, 1e-9)
		})
	}
}

func TestWallDistancesParallelWalls(t *testing.T) {
	_, _, err := WallDistancesFromPosition(r2.Vec{X: 1, Y: 1}, 180, 0, r2.Vec{})
	assert.ErrorIs(t, err, ErrParallelWalls)
}
