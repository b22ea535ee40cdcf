package layout

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nebulahq/hacknebula/pkg/geometry"
)

func TestGeneratePolygon_VertexCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		sides     int
		wantSides int
	}{
		{name: "minimum", sides: 6, wantSides: 6},
		{name: "maximum", sides: 12, wantSides: 12},
		{name: "in range", sides: 9, wantSides: 9},
		{name: "below minimum clamps up", sides: 3, wantSides: 6},
		{name: "zero clamps up", sides: 0, wantSides: 6},
		{name: "negative clamps up", sides: -5, wantSides: 6},
		{name: "above maximum clamps down", sides: 40, wantSides: 12},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rng := rand.New(rand.NewSource(1))
			poly := GeneratePolygon(rng, geometry.Point{X: 500, Y: 500}, 50, tt.sides, 0, Canvas{Width: 1000, Height: 1000, Padding: 20})
			assert.Equal(t, tt.wantSides, poly.Len())
		})
	}
}

func TestGeneratePolygon_AreaFixedByRadius(t *testing.T) {
	t.Parallel()

	center := geometry.Point{X: 500, Y: 500}
	baseRadius := 80.0
	// Canvas large enough that clamping cannot fire.
	canvas := Canvas{Width: 1000, Height: 1000, Padding: 20}
	wantArea := math.Pi * baseRadius * baseRadius

	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		sides := MinSides + rng.Intn(MaxSides-MinSides+1)
		poly := GeneratePolygon(rng, center, baseRadius, sides, rng.Float64(), canvas)

		assert.InDeltaf(t, wantArea, poly.Area(), 1e-6, "trial %d: area drifted from the radius target", trial)
		for i, v := range poly.Vertices {
			d := v.Distance(center)
			assert.LessOrEqualf(t, d, baseRadius*normalizedReach()+1e-9, "trial %d vertex %d too far", trial, i)
		}
	}
}

func TestGeneratePolygon_VerticesClampedToCanvas(t *testing.T) {
	t.Parallel()

	canvas := Canvas{Width: 200, Height: 200, Padding: 10}
	rng := rand.New(rand.NewSource(3))

	// Center near the corner with a radius that must overshoot.
	poly := GeneratePolygon(rng, geometry.Point{X: 15, Y: 15}, 100, 10, 0, canvas)

	for i, v := range poly.Vertices {
		assert.GreaterOrEqualf(t, v.X, 10.0, "vertex %d x below padding", i)
		assert.LessOrEqualf(t, v.X, 190.0, "vertex %d x beyond canvas", i)
		assert.GreaterOrEqualf(t, v.Y, 10.0, "vertex %d y below padding", i)
		assert.LessOrEqualf(t, v.Y, 190.0, "vertex %d y beyond canvas", i)
	}
}

func TestGeneratePolygon_DeterministicForSeed(t *testing.T) {
	t.Parallel()

	canvas := Canvas{Width: 1000, Height: 1000, Padding: 20}
	center := geometry.Point{X: 400, Y: 300}

	a := GeneratePolygon(rand.New(rand.NewSource(99)), center, 60, 9, 0.5, canvas)
	b := GeneratePolygon(rand.New(rand.NewSource(99)), center, 60, 9, 0.5, canvas)

	require.Equal(t, a.Len(), b.Len())
	assert.Equal(t, a.Vertices, b.Vertices)
}

func TestGeneratePolygon_HostileInputs(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(11))
	canvas := Canvas{Width: 500, Height: 500, Padding: 10}

	tests := []struct {
		name   string
		radius float64
	}{
		{name: "zero radius", radius: 0},
		{name: "negative radius", radius: -40},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			poly := GeneratePolygon(rng, geometry.Point{X: 250, Y: 250}, tt.radius, 8, 0, canvas)
			assert.GreaterOrEqual(t, poly.Len(), MinSides)
			for _, v := range poly.Vertices {
				assert.False(t, math.IsNaN(v.X), "NaN x coordinate")
				assert.False(t, math.IsNaN(v.Y), "NaN y coordinate")
			}
		})
	}
}
