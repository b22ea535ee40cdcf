// Package layout implements the territory layout engine behind the galaxy
// map: it turns a list of teams with award scores into non-overlapping
// labeled organic polygons on a 2D canvas.
//
// The pipeline is a pure, single-pass transform run once per map request:
//
//	team scores → polygon generation → label-anchor search →
//	label collision resolution → renderable territories
//
// Randomness (the organic vertex jitter and center placement wobble) comes
// exclusively from an injected rand source so that a fixed seed yields a
// fixed map; no global RNG state is shared across concurrent renders.
package layout

import (
	"github.com/nebulahq/hacknebula/pkg/geometry"
)

// TeamScore is the immutable input for one team in a layout pass.
type TeamScore struct {
	ID          string
	DisplayName string
	Track       string
	AwardScore  float64
	IsMyTeam    bool
}

// Territory is one renderable unit of the galaxy map: a polygon, its label
// anchor and the display metadata for one team.  Territories are created by
// a single Assemble call and never mutated afterwards, except that
// ResolveCollisions may rewrite LabelAnchor during its one sweep.
type Territory struct {
	ID          string             `json:"id"`
	Polygon     geometry.Polygon   `json:"-"`
	Points      []geometry.Point   `json:"points"`
	LabelAnchor geometry.Point     `json:"label_anchor"`
	LabelSize   float64            `json:"label_size"`
	Area        float64            `json:"area"`
	Color       string             `json:"color"`
	TextColor   string             `json:"text_color"`
	DisplayName string             `json:"display_name"`
	IsMyTeam    bool               `json:"is_my_team"`
}

// Canvas describes the drawing surface.  Every generated vertex is clamped
// into [Padding, Width-Padding] x [Padding, Height-Padding].
type Canvas struct {
	Width   float64
	Height  float64
	Padding float64
}

// inner returns the drawable region of the canvas.
func (c Canvas) inner() geometry.Rect {
	return geometry.Rect{
		Min: geometry.Point{X: c.Padding, Y: c.Padding},
		Max: geometry.Point{X: c.Width - c.Padding, Y: c.Height - c.Padding},
	}
}

// DefaultCanvas is the canvas used when callers pass a zero-value Canvas.
var DefaultCanvas = Canvas{Width: 1200, Height: 800, Padding: 40}

// DefaultPalette is the fill-color cycle applied to territories in input
// order when no palette is supplied.
var DefaultPalette = []string{
	"#6366f1", "#8b5cf6", "#ec4899", "#f59e0b",
	"#10b981", "#06b6d4", "#f43f5e", "#84cc16",
}
