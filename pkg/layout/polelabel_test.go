package layout

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nebulahq/hacknebula/pkg/geometry"
)

func TestFindLabelAnchor_InsideSimplePolygons(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		poly geometry.Polygon
	}{
		{
			name: "unit square",
			poly: geometry.NewPolygon(
				geometry.Point{X: 0, Y: 0}, geometry.Point{X: 10, Y: 0},
				geometry.Point{X: 10, Y: 10}, geometry.Point{X: 0, Y: 10},
			),
		},
		{
			name: "triangle",
			poly: geometry.NewPolygon(
				geometry.Point{X: 0, Y: 0}, geometry.Point{X: 20, Y: 0},
				geometry.Point{X: 10, Y: 15},
			),
		},
		{
			name: "wide rectangle",
			poly: geometry.NewPolygon(
				geometry.Point{X: 0, Y: 0}, geometry.Point{X: 100, Y: 0},
				geometry.Point{X: 100, Y: 10}, geometry.Point{X: 0, Y: 10},
			),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			anchor := FindLabelAnchor(tt.poly)
			assert.True(t, tt.poly.Contains(anchor), "anchor %v outside polygon", anchor)
		})
	}
}

func TestFindLabelAnchor_SquareFindsCenter(t *testing.T) {
	t.Parallel()

	square := geometry.NewPolygon(
		geometry.Point{X: 0, Y: 0}, geometry.Point{X: 10, Y: 0},
		geometry.Point{X: 10, Y: 10}, geometry.Point{X: 0, Y: 10},
	)
	anchor := FindLabelAnchor(square)

	// The centroid of a square is also its pole of inaccessibility.
	assert.InDelta(t, 5.0, anchor.X, 1e-9)
	assert.InDelta(t, 5.0, anchor.Y, 1e-9)
}

func TestFindLabelAnchor_ConcaveBeatsCentroid(t *testing.T) {
	t.Parallel()

	// A "U" whose centroid falls inside the notch, outside the shape.
	u := geometry.NewPolygon(
		geometry.Point{X: 0, Y: 0}, geometry.Point{X: 30, Y: 0},
		geometry.Point{X: 30, Y: 30}, geometry.Point{X: 20, Y: 30},
		geometry.Point{X: 20, Y: 10}, geometry.Point{X: 10, Y: 10},
		geometry.Point{X: 10, Y: 30}, geometry.Point{X: 0, Y: 30},
	)

	anchor := FindLabelAnchor(u)
	assert.True(t, u.Contains(anchor), "anchor %v fell outside the U", anchor)
}

func TestFindLabelAnchor_DegenerateFallsBackToBBoxCenter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		poly geometry.Polygon
		want geometry.Point
	}{
		{
			name: "empty polygon",
			poly: geometry.NewPolygon(),
			want: geometry.Point{},
		},
		{
			name: "two vertices",
			poly: geometry.NewPolygon(geometry.Point{X: 0, Y: 0}, geometry.Point{X: 10, Y: 0}),
			want: geometry.Point{X: 5, Y: 0},
		},
		{
			name: "collinear vertices",
			poly: geometry.NewPolygon(
				geometry.Point{X: 0, Y: 0}, geometry.Point{X: 5, Y: 0}, geometry.Point{X: 10, Y: 0},
			),
			want: geometry.Point{X: 5, Y: 0},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			anchor := FindLabelAnchor(tt.poly)
			assert.InDelta(t, tt.want.X, anchor.X, 1e-9)
			assert.InDelta(t, tt.want.Y, anchor.Y, 1e-9)
		})
	}
}

func TestFindLabelAnchor_GeneratedPolygons(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(21))
	canvas := Canvas{Width: 1000, Height: 1000, Padding: 20}

	for trial := 0; trial < 100; trial++ {
		sides := MinSides + rng.Intn(MaxSides-MinSides+1)
		poly := GeneratePolygon(rng, geometry.Point{X: 500, Y: 500}, 80, sides, rng.Float64(), canvas)

		anchor := FindLabelAnchor(poly)
		assert.Truef(t, poly.Contains(anchor), "trial %d: anchor %v outside generated polygon", trial, anchor)
	}
}
