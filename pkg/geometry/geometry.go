// Package geometry provides the 2D primitives used by the galaxy-map layout
// engine: points, closed polygons, shoelace area, area-weighted centroids,
// bounding boxes, ray-cast containment and point-to-segment distance.
// All coordinates are pixel-space float64; the package has no external
// dependencies and every function is total.
package geometry

import "math"

// Point is a 2D point in canvas pixel space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Scale returns p scaled by f.
func (p Point) Scale(f float64) Point {
	return Point{p.X * f, p.Y * f}
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Rect is an axis-aligned rectangle given by its min and max corners.
type Rect struct {
	Min Point
	Max Point
}

// Width returns the horizontal extent of r.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the vertical extent of r.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Center returns the center point of r.
func (r Rect) Center() Point {
	return Point{(r.Min.X + r.Max.X) / 2, (r.Min.Y + r.Max.Y) / 2}
}

// Contains reports whether p lies inside r (inclusive bounds).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Polygon is a closed polygon defined by its vertices in order.  The closing
// edge from the last vertex back to the first is implicit.
type Polygon struct {
	Vertices []Point
}

// NewPolygon creates a polygon from a list of vertices.
func NewPolygon(pts ...Point) Polygon {
	return Polygon{Vertices: pts}
}

// Len returns the number of vertices.
func (p Polygon) Len() int {
	return len(p.Vertices)
}

// IsDegenerate reports whether the polygon has fewer than 3 vertices.
func (p Polygon) IsDegenerate() bool {
	return len(p.Vertices) < 3
}

// SignedArea returns the signed area via the shoelace formula.  Positive for
// counterclockwise winding, negative for clockwise.
func (p Polygon) SignedArea() float64 {
	n := len(p.Vertices)
	if n < 3 {
		return 0
	}
	area := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += p.Vertices[i].X * p.Vertices[j].Y
		area -= p.Vertices[j].X * p.Vertices[i].Y
	}
	return area / 2
}

// Area returns the unsigned shoelace area.  Always computed from the true
// vertices, never estimated.
func (p Polygon) Area() float64 {
	return math.Abs(p.SignedArea())
}

// Centroid returns the area-weighted centroid.  For degenerate polygons
// (fewer than 3 vertices, or near-zero area) it falls back to the vertex
// average so callers always receive a finite point.
func (p Polygon) Centroid() Point {
	n := len(p.Vertices)
	if n == 0 {
		return Point{}
	}
	a := p.SignedArea()
	if n < 3 || math.Abs(a) < 1e-12 {
		sum := Point{}
		for _, v := range p.Vertices {
			sum = sum.Add(v)
		}
		return sum.Scale(1.0 / float64(n))
	}
	cx, cy := 0.0, 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := p.Vertices[i].X*p.Vertices[j].Y - p.Vertices[j].X*p.Vertices[i].Y
		cx += (p.Vertices[i].X + p.Vertices[j].X) * cross
		cy += (p.Vertices[i].Y + p.Vertices[j].Y) * cross
	}
	f := 1.0 / (6.0 * a)
	return Point{cx * f, cy * f}
}

// BoundingBox returns the axis-aligned bounding box of the polygon.
func (p Polygon) BoundingBox() Rect {
	if len(p.Vertices) == 0 {
		return Rect{}
	}
	r := Rect{Min: p.Vertices[0], Max: p.Vertices[0]}
	for _, v := range p.Vertices[1:] {
		if v.X < r.Min.X {
			r.Min.X = v.X
		}
		if v.Y < r.Min.Y {
			r.Min.Y = v.Y
		}
		if v.X > r.Max.X {
			r.Max.X = v.X
		}
		if v.Y > r.Max.Y {
			r.Max.Y = v.Y
		}
	}
	return r
}

// Contains reports whether pt lies inside the polygon, using ray casting.
// Returns false for degenerate polygons.
func (p Polygon) Contains(pt Point) bool {
	n := len(p.Vertices)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		vi := p.Vertices[i]
		vj := p.Vertices[j]
		if (vi.Y > pt.Y) != (vj.Y > pt.Y) &&
			pt.X < (vj.X-vi.X)*(pt.Y-vi.Y)/(vj.Y-vi.Y)+vi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

// DistanceToBoundary returns the minimum distance from pt to any edge of the
// polygon.  The sign of containment is not encoded; combine with Contains
// when the interior/exterior distinction matters.
func (p Polygon) DistanceToBoundary(pt Point) float64 {
	n := len(p.Vertices)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return pt.Distance(p.Vertices[0])
	}
	minSq := math.MaxFloat64
	j := n - 1
	for i := 0; i < n; i++ {
		d := segDistSq(pt, p.Vertices[i], p.Vertices[j])
		if d < minSq {
			minSq = d
		}
		j = i
	}
	return math.Sqrt(minSq)
}

// segDistSq returns the squared distance from pt to the segment a-b.
func segDistSq(pt, a, b Point) float64 {
	x, y := a.X, a.Y
	dx, dy := b.X-x, b.Y-y

	if dx != 0 || dy != 0 {
		t := ((pt.X-x)*dx + (pt.Y-y)*dy) / (dx*dx + dy*dy)
		if t > 1 {
			x, y = b.X, b.Y
		} else if t > 0 {
			x += dx * t
			y += dy * t
		}
	}

	dx = pt.X - x
	dy = pt.Y - y
	return dx*dx + dy*dy
}
