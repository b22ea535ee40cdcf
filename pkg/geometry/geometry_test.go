package geometry_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nebulahq/hacknebula/pkg/geometry"
)

func unitSquare() geometry.Polygon {
	return geometry.NewPolygon(
		geometry.Point{X: 0, Y: 0},
		geometry.Point{X: 10, Y: 0},
		geometry.Point{X: 10, Y: 10},
		geometry.Point{X: 0, Y: 10},
	)
}

func TestSignedArea_Winding(t *testing.T) {
	t.Parallel()

	ccw := unitSquare()
	assert.InDelta(t, 100.0, ccw.SignedArea(), 1e-9)

	cw := geometry.NewPolygon(
		geometry.Point{X: 0, Y: 0},
		geometry.Point{X: 0, Y: 10},
		geometry.Point{X: 10, Y: 10},
		geometry.Point{X: 10, Y: 0},
	)
	assert.InDelta(t, -100.0, cw.SignedArea(), 1e-9)
	assert.InDelta(t, 100.0, cw.Area(), 1e-9)
}

func TestArea_DegenerateIsZero(t *testing.T) {
	t.Parallel()

	assert.Zero(t, geometry.NewPolygon().Area())
	assert.Zero(t, geometry.NewPolygon(geometry.Point{X: 1, Y: 1}).Area())
	assert.Zero(t, geometry.NewPolygon(
		geometry.Point{X: 0, Y: 0}, geometry.Point{X: 5, Y: 5},
	).Area())
}

func TestCentroid_Square(t *testing.T) {
	t.Parallel()

	c := unitSquare().Centroid()
	assert.InDelta(t, 5.0, c.X, 1e-9)
	assert.InDelta(t, 5.0, c.Y, 1e-9)
}

func TestCentroid_DegenerateFallsBackToAverage(t *testing.T) {
	t.Parallel()

	// Collinear points: zero area, centroid must still be finite.
	p := geometry.NewPolygon(
		geometry.Point{X: 0, Y: 0},
		geometry.Point{X: 4, Y: 0},
		geometry.Point{X: 8, Y: 0},
	)
	c := p.Centroid()
	require.False(t, math.IsNaN(c.X) || math.IsNaN(c.Y))
	assert.InDelta(t, 4.0, c.X, 1e-9)
	assert.InDelta(t, 0.0, c.Y, 1e-9)
}

func TestBoundingBox(t *testing.T) {
	t.Parallel()

	p := geometry.NewPolygon(
		geometry.Point{X: 3, Y: -2},
		geometry.Point{X: -1, Y: 7},
		geometry.Point{X: 5, Y: 4},
	)
	bb := p.BoundingBox()
	assert.Equal(t, geometry.Point{X: -1, Y: -2}, bb.Min)
	assert.Equal(t, geometry.Point{X: 5, Y: 7}, bb.Max)
	assert.InDelta(t, 6.0, bb.Width(), 1e-9)
	assert.InDelta(t, 9.0, bb.Height(), 1e-9)
	assert.Equal(t, geometry.Point{X: 2, Y: 2.5}, bb.Center())
}

func TestContains_RayCast(t *testing.T) {
	t.Parallel()

	sq := unitSquare()
	assert.True(t, sq.Contains(geometry.Point{X: 5, Y: 5}))
	assert.True(t, sq.Contains(geometry.Point{X: 0.001, Y: 9.999}))
	assert.False(t, sq.Contains(geometry.Point{X: -1, Y: 5}))
	assert.False(t, sq.Contains(geometry.Point{X: 5, Y: 11}))

	// Degenerate polygons contain nothing.
	line := geometry.NewPolygon(geometry.Point{}, geometry.Point{X: 5})
	assert.False(t, line.Contains(geometry.Point{X: 2}))
}

func TestContains_ConcavePolygon(t *testing.T) {
	t.Parallel()

	// A "U" shape: points inside the notch are outside the polygon.
	u := geometry.NewPolygon(
		geometry.Point{X: 0, Y: 0},
		geometry.Point{X: 10, Y: 0},
		geometry.Point{X: 10, Y: 10},
		geometry.Point{X: 7, Y: 10},
		geometry.Point{X: 7, Y: 3},
		geometry.Point{X: 3, Y: 3},
		geometry.Point{X: 3, Y: 10},
		geometry.Point{X: 0, Y: 10},
	)
	assert.True(t, u.Contains(geometry.Point{X: 1.5, Y: 8}))
	assert.True(t, u.Contains(geometry.Point{X: 5, Y: 1.5}))
	assert.False(t, u.Contains(geometry.Point{X: 5, Y: 8}), "notch interior is outside")
}

func TestDistanceToBoundary(t *testing.T) {
	t.Parallel()

	sq := unitSquare()

	// Center of a 10x10 square is 5 away from every edge.
	assert.InDelta(t, 5.0, sq.DistanceToBoundary(geometry.Point{X: 5, Y: 5}), 1e-9)

	// An exterior point measures to the nearest edge point.
	assert.InDelta(t, 3.0, sq.DistanceToBoundary(geometry.Point{X: -3, Y: 5}), 1e-9)

	// Beyond a corner, distance is to the corner itself.
	assert.InDelta(t, math.Sqrt(8), sq.DistanceToBoundary(geometry.Point{X: -2, Y: -2}), 1e-9)
}

func TestPointOps(t *testing.T) {
	t.Parallel()

	p := geometry.Point{X: 1, Y: 2}
	q := geometry.Point{X: 4, Y: 6}
	assert.Equal(t, geometry.Point{X: 5, Y: 8}, p.Add(q))
	assert.Equal(t, geometry.Point{X: -3, Y: -4}, p.Sub(q))
	assert.Equal(t, geometry.Point{X: 2, Y: 4}, p.Scale(2))
	assert.InDelta(t, 5.0, p.Distance(q), 1e-9)
}
