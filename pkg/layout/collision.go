package layout

import (
	"github.com/nebulahq/hacknebula/pkg/geometry"
)

// ─────────────────────────────────────────────────────────────────────────
// Label collision resolution
// ─────────────────────────────────────────────────────────────────────────

// ResolveCollisions separates label anchors that sit closer than minDistance
// to each other.  It runs exactly one pass over all pairs: for each pair
// closer than minDistance, both anchors are pushed apart symmetrically along
// the line connecting them, each by half the overlap.
//
// A single pass keeps the cost at a predictable O(n²) and makes the result
// deterministic for a given input order.  With three or more mutually
// overlapping labels one pass may leave residual overlap, since a later pair
// can push an anchor back toward an earlier one; in practice labels end up
// readable and the map stays stable frame to frame, which matters more here
// than exact separation.  Anchors that already satisfy minDistance are never
// moved.
//
// The input slice is modified in place and returned for chaining.  Resolved
// anchors may drift outside their own polygon; rendering treats the anchor
// as a label position, not a containment guarantee.
func ResolveCollisions(territories []Territory, minDistance float64) []Territory {
	if minDistance <= 0 || len(territories) < 2 {
		return territories
	}

	for i := 0; i < len(territories); i++ {
		for j := i + 1; j < len(territories); j++ {
			a, b := &territories[i], &territories[j]

			d := a.LabelAnchor.Distance(b.LabelAnchor)
			if d >= minDistance {
				continue
			}

			push := (minDistance - d) / 2
			var dir geometry.Point
			if d > 0 {
				dir = b.LabelAnchor.Sub(a.LabelAnchor).Scale(1 / d)
			} else {
				// Coincident anchors have no separating axis; pick a
				// fixed one so the pass stays deterministic.
				dir = geometry.Point{X: 1, Y: 0}
			}

			a.LabelAnchor = a.LabelAnchor.Sub(dir.Scale(push))
			b.LabelAnchor = b.LabelAnchor.Add(dir.Scale(push))
		}
	}
	return territories
}
