package layout

import (
	"github.com/nebulahq/hacknebula/pkg/geometry"
)

// ─────────────────────────────────────────────────────────────────────────
// Label anchor: pole of inaccessibility
// ─────────────────────────────────────────────────────────────────────────

// gridDivisions controls the coarse candidate grid used by FindLabelAnchor.
// The cell size is min(bboxWidth, bboxHeight) / gridDivisions, which keeps
// the search O(1) per polygon at the cost of a slightly off-pole anchor on
// very elongated shapes.
const gridDivisions = 4

// FindLabelAnchor returns a visually centered point inside the polygon for
// placing its label, approximating the pole of inaccessibility (the interior
// point farthest from any edge).
//
// The search seeds with the area-weighted centroid when it lies inside the
// polygon, then sweeps a coarse grid over the bounding box keeping the
// interior candidate with the greatest distance to the boundary.  If no
// candidate lands inside (thin or degenerate shapes), the bounding-box
// center is returned so every polygon gets an anchor.
func FindLabelAnchor(p geometry.Polygon) geometry.Point {
	bbox := p.BoundingBox()
	fallback := bbox.Center()

	if p.Len() < 3 {
		return fallback
	}
	w, h := bbox.Width(), bbox.Height()
	if w <= 0 || h <= 0 {
		return fallback
	}

	best := fallback
	bestDist := -1.0

	if c := p.Centroid(); p.Contains(c) {
		best = c
		bestDist = p.DistanceToBoundary(c)
	}

	cell := w
	if h < w {
		cell = h
	}
	cell /= gridDivisions

	for x := bbox.Min.X + cell/2; x <= bbox.Max.X; x += cell {
		for y := bbox.Min.Y + cell/2; y <= bbox.Max.Y; y += cell {
			candidate := geometry.Point{X: x, Y: y}
			if !p.Contains(candidate) {
				continue
			}
			if d := p.DistanceToBoundary(candidate); d > bestDist {
				best = candidate
				bestDist = d
			}
		}
	}

	return best
}
