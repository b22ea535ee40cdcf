package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nebulahq/hacknebula/pkg/geometry"
)

func anchorsAt(points ...geometry.Point) []Territory {
	ts := make([]Territory, len(points))
	for i, p := range points {
		ts[i] = Territory{LabelAnchor: p}
	}
	return ts
}

func TestResolveCollisions_SeparatedPairUntouched(t *testing.T) {
	t.Parallel()

	ts := anchorsAt(geometry.Point{X: 0, Y: 0}, geometry.Point{X: 100, Y: 0})
	ResolveCollisions(ts, 40)

	assert.Equal(t, geometry.Point{X: 0, Y: 0}, ts[0].LabelAnchor)
	assert.Equal(t, geometry.Point{X: 100, Y: 0}, ts[1].LabelAnchor)
}

func TestResolveCollisions_OverlappingPairPushedApart(t *testing.T) {
	t.Parallel()

	// 10px apart with a 40px minimum: each side moves 15px outward.
	ts := anchorsAt(geometry.Point{X: 100, Y: 100}, geometry.Point{X: 110, Y: 100})
	ResolveCollisions(ts, 40)

	d := ts[0].LabelAnchor.Distance(ts[1].LabelAnchor)
	assert.GreaterOrEqual(t, d, 39.99)

	// The push is symmetric: the midpoint does not move.
	mid := ts[0].LabelAnchor.Add(ts[1].LabelAnchor).Scale(0.5)
	assert.InDelta(t, 105.0, mid.X, 1e-9)
	assert.InDelta(t, 100.0, mid.Y, 1e-9)
}

func TestResolveCollisions_TwoBodyIdempotent(t *testing.T) {
	t.Parallel()

	ts := anchorsAt(geometry.Point{X: 0, Y: 0}, geometry.Point{X: 20, Y: 0})
	ResolveCollisions(ts, 50)

	a0, a1 := ts[0].LabelAnchor, ts[1].LabelAnchor
	require.GreaterOrEqual(t, a0.Distance(a1), 49.99)

	// Once separated, a second pass is a no-op.
	ResolveCollisions(ts, 50)
	assert.Equal(t, a0, ts[0].LabelAnchor)
	assert.Equal(t, a1, ts[1].LabelAnchor)
}

func TestResolveCollisions_ThreeBodyResidualOverlapAllowed(t *testing.T) {
	t.Parallel()

	// Three anchors in a tight cluster: a single sweep improves
	// separation but does not promise full convergence, because the
	// later pairs can push an anchor back toward an earlier one.
	ts := anchorsAt(
		geometry.Point{X: 100, Y: 100},
		geometry.Point{X: 105, Y: 100},
		geometry.Point{X: 102, Y: 104},
	)
	ResolveCollisions(ts, 60)

	grown := 0
	orig := []geometry.Point{{X: 100, Y: 100}, {X: 105, Y: 100}, {X: 102, Y: 104}}
	for i := 0; i < len(ts); i++ {
		for j := i + 1; j < len(ts); j++ {
			before := orig[i].Distance(orig[j])
			after := ts[i].LabelAnchor.Distance(ts[j].LabelAnchor)
			if after > before {
				grown++
			}
		}
	}
	assert.Greater(t, grown, 0, "sweep should separate at least one pair")
}

func TestResolveCollisions_CoincidentAnchors(t *testing.T) {
	t.Parallel()

	p := geometry.Point{X: 50, Y: 50}
	ts := anchorsAt(p, p)
	ResolveCollisions(ts, 30)

	d := ts[0].LabelAnchor.Distance(ts[1].LabelAnchor)
	assert.InDelta(t, 30.0, d, 1e-9)
	assert.NotEqual(t, ts[0].LabelAnchor, ts[1].LabelAnchor)
}

func TestResolveCollisions_EdgeCases(t *testing.T) {
	t.Parallel()

	t.Run("empty slice", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, ResolveCollisions(nil, 40))
	})

	t.Run("single territory", func(t *testing.T) {
		t.Parallel()
		ts := anchorsAt(geometry.Point{X: 1, Y: 2})
		ResolveCollisions(ts, 40)
		assert.Equal(t, geometry.Point{X: 1, Y: 2}, ts[0].LabelAnchor)
	})

	t.Run("non-positive min distance", func(t *testing.T) {
		t.Parallel()
		ts := anchorsAt(geometry.Point{X: 0, Y: 0}, geometry.Point{X: 1, Y: 0})
		ResolveCollisions(ts, 0)
		assert.Equal(t, geometry.Point{X: 1, Y: 0}, ts[1].LabelAnchor)
	})
}
