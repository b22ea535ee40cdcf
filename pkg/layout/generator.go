package layout

import (
	"math"
	"math/rand"

	"github.com/nebulahq/hacknebula/pkg/geometry"
)

// ─────────────────────────────────────────────────────────────────────────
// Polygon generation
// ─────────────────────────────────────────────────────────────────────────

const (
	// MinSides and MaxSides bound the vertex count of a generated
	// territory.  Out-of-range requests are clamped, never rejected.
	MinSides = 6
	MaxSides = 12

	// minVariance and maxVariance bound the per-vertex radial jitter
	// factor that makes territories look organic instead of regular.
	minVariance = 0.7
	maxVariance = 1.3
)

// GeneratePolygon builds a jittered N-gon around center.  Vertices are laid
// out at equal angular steps starting from rotation, each pushed to a radius
// of baseRadius times a random factor in [minVariance, maxVariance].  The
// polygon is then rescaled about its center so its shoelace area equals
// pi*baseRadius^2 regardless of side count or jitter draw, and finally
// clamped into the drawable region of the canvas.  The jitter is purely
// cosmetic: area is a function of baseRadius alone.
//
// The function is total: sides is clamped into [MinSides, MaxSides], a
// non-positive or non-finite baseRadius degrades to a tiny positive radius,
// and all randomness comes from rng.
func GeneratePolygon(rng *rand.Rand, center geometry.Point, baseRadius float64, sides int, rotation float64, canvas Canvas) geometry.Polygon {
	if sides < MinSides {
		sides = MinSides
	} else if sides > MaxSides {
		sides = MaxSides
	}
	if baseRadius <= 0 || math.IsNaN(baseRadius) || math.IsInf(baseRadius, 0) {
		baseRadius = 1
	}
	if canvas.Width <= 0 || canvas.Height <= 0 {
		canvas = DefaultCanvas
	}

	step := 2 * math.Pi / float64(sides)

	vertices := make([]geometry.Point, sides)
	for i := 0; i < sides; i++ {
		angle := rotation + float64(i)*step
		variance := minVariance + rng.Float64()*(maxVariance-minVariance)
		r := baseRadius * variance

		vertices[i] = geometry.Point{
			X: center.X + r*math.Cos(angle),
			Y: center.Y + r*math.Sin(angle),
		}
	}

	target := math.Pi * baseRadius * baseRadius
	if area := geometry.NewPolygon(vertices...).Area(); area > 0 {
		scale := math.Sqrt(target / area)
		for i, v := range vertices {
			vertices[i] = center.Add(v.Sub(center).Scale(scale))
		}
	}

	inner := canvas.inner()
	for i := range vertices {
		vertices[i] = clampPoint(vertices[i], inner)
	}
	return geometry.NewPolygon(vertices...)
}

// normalizedReach bounds how far a vertex can sit from its center after
// area normalization, as a multiple of baseRadius.  The worst case is the
// smallest side count with every jitter draw at minVariance.
func normalizedReach() float64 {
	minArea := 0.5 * float64(MinSides) * math.Sin(2*math.Pi/float64(MinSides)) * minVariance * minVariance
	return maxVariance * math.Sqrt(math.Pi/minArea)
}

// clampPoint forces p into the rectangle r.
func clampPoint(p geometry.Point, r geometry.Rect) geometry.Point {
	if p.X < r.Min.X {
		p.X = r.Min.X
	} else if p.X > r.Max.X {
		p.X = r.Max.X
	}
	if p.Y < r.Min.Y {
		p.Y = r.Min.Y
	} else if p.Y > r.Max.Y {
		p.Y = r.Max.Y
	}
	return p
}
