package layout

import (
	"math"
	"math/rand"
	"strconv"
	"strings"

	"github.com/nebulahq/hacknebula/pkg/geometry"
)

// ─────────────────────────────────────────────────────────────────────────
// Territory assembly
// ─────────────────────────────────────────────────────────────────────────

const (
	// maxScore is the score that maps to the largest territory radius.
	// Scores above it clamp rather than growing without bound.
	maxScore = 100

	// minRadiusFrac and maxRadiusFrac express the radius range as a
	// fraction of the shorter canvas dimension.
	minRadiusFrac = 0.05
	maxRadiusFrac = 0.16

	// truncateAreaThreshold is the territory area in square pixels below
	// which display names are shortened to keep labels inside the shape.
	truncateAreaThreshold = 3000

	// truncateRunes is the rune budget for shortened names, ellipsis
	// excluded.
	truncateRunes = 6

	// luminanceThreshold splits fills into "light" (dark text) and
	// "dark" (light text).
	luminanceThreshold = 0.5

	// goldenAngle in radians spreads territory centers evenly around the
	// canvas without clustering, the same trick sunflower seeds use.
	goldenAngle = 2.39996322972865332

	darkText  = "#0f172a"
	lightText = "#f8fafc"
)

// Assembler runs the full layout pipeline for one galaxy-map render.
type Assembler struct {
	canvas           Canvas
	palette          []string
	minLabelDistance float64
	rng              *rand.Rand
}

// AssemblerOption customizes an Assembler.
type AssemblerOption func(*Assembler)

// WithCanvas sets the drawing surface.
func WithCanvas(c Canvas) AssemblerOption {
	return func(a *Assembler) {
		if c.Width > 0 && c.Height > 0 {
			a.canvas = c
		}
	}
}

// WithPalette sets the fill-color cycle.
func WithPalette(colors []string) AssemblerOption {
	return func(a *Assembler) {
		if len(colors) > 0 {
			a.palette = colors
		}
	}
}

// WithMinLabelDistance sets the minimum separation enforced between label
// anchors.
func WithMinLabelDistance(d float64) AssemblerOption {
	return func(a *Assembler) {
		if d > 0 {
			a.minLabelDistance = d
		}
	}
}

// WithSeed makes the layout deterministic: the same seed and the same input
// produce byte-identical territories.
func WithSeed(seed int64) AssemblerOption {
	return func(a *Assembler) {
		a.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRand supplies the random source directly.
func WithRand(rng *rand.Rand) AssemblerOption {
	return func(a *Assembler) {
		if rng != nil {
			a.rng = rng
		}
	}
}

// NewAssembler builds an Assembler with sane defaults: the default canvas
// and palette, a 48px label separation and a time-seeded random source.
func NewAssembler(opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		canvas:           DefaultCanvas,
		palette:          DefaultPalette,
		minLabelDistance: 48,
		rng:              rand.New(rand.NewSource(rand.Int63())),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble turns team scores into renderable territories.  The pipeline per
// team: sanitize the score, map it to a radius, place a center on a
// golden-angle spiral, generate the jittered polygon, find its label anchor
// and attach display metadata.  A final single pass separates crowded label
// anchors.
//
// Assemble never panics on hostile input: NaN and negative scores clamp to
// zero, an empty input yields an empty (non-nil) slice.
func (a *Assembler) Assemble(teams []TeamScore) []Territory {
	territories := make([]Territory, 0, len(teams))

	for i, team := range teams {
		score := sanitizeScore(team.AwardScore)
		radius := a.scoreRadius(score)
		center := a.spiralCenter(i, len(teams))

		sides := MinSides + a.rng.Intn(MaxSides-MinSides+1)
		rotation := a.rng.Float64() * 2 * math.Pi

		poly := GeneratePolygon(a.rng, center, radius, sides, rotation, a.canvas)
		anchor := FindLabelAnchor(poly)
		area := poly.Area()

		fill := a.palette[i%len(a.palette)]

		territories = append(territories, Territory{
			ID:          team.ID,
			Polygon:     poly,
			Points:      poly.Vertices,
			LabelAnchor: anchor,
			LabelSize:   labelSize(area),
			Area:        area,
			Color:       fill,
			TextColor:   textColorFor(fill),
			DisplayName: displayName(team.DisplayName, area),
			IsMyTeam:    team.IsMyTeam,
		})
	}

	return ResolveCollisions(territories, a.minLabelDistance)
}

// sanitizeScore clamps hostile score values into [0, maxScore].
func sanitizeScore(score float64) float64 {
	if math.IsNaN(score) || score < 0 {
		return 0
	}
	if score > maxScore {
		return maxScore
	}
	return score
}

// scoreRadius maps a sanitized score to a polygon base radius.  The square
// root keeps territory AREA roughly proportional to score, so a team with
// twice the points reads as twice the land, not four times.
func (a *Assembler) scoreRadius(score float64) float64 {
	short := math.Min(a.canvas.Width, a.canvas.Height)
	minR := short * minRadiusFrac
	maxR := short * maxRadiusFrac
	return minR + (maxR-minR)*math.Sqrt(score/maxScore)
}

// spiralCenter places the i-th of n territory centers on a golden-angle
// spiral around the canvas center, with a small random wobble so repeated
// renders with different seeds do not look stamped.
func (a *Assembler) spiralCenter(i, n int) geometry.Point {
	inner := a.canvas.inner()
	c := inner.Center()
	if n <= 1 {
		return c
	}

	// Reserve the worst-case polygon reach, area normalization included,
	// so spiral placement alone never forces vertices into the canvas
	// clamp.  Clamping there would cut area and break the monotonic
	// score-to-area mapping.
	maxReach := math.Min(inner.Width(), inner.Height())/2 - a.scoreRadius(maxScore)*normalizedReach()
	if maxReach < 0 {
		maxReach = 0
	}

	// sqrt spacing gives uniform density over the disc.
	r := maxReach * math.Sqrt(float64(i)/float64(n-1))
	angle := float64(i)*goldenAngle + a.rng.Float64()*0.3

	return geometry.Point{
		X: c.X + r*math.Cos(angle),
		Y: c.Y + r*math.Sin(angle),
	}
}

// labelSize maps territory area to a font size in pixels, clamped so small
// shapes stay legible and large ones do not shout.
func labelSize(area float64) float64 {
	size := math.Sqrt(math.Max(area, 0)) / 6
	if size < 10 {
		size = 10
	} else if size > 24 {
		size = 24
	}
	return size
}

// displayName shortens names on small territories so the label does not
// spill past the polygon.
func displayName(name string, area float64) string {
	if area >= truncateAreaThreshold {
		return name
	}
	runes := []rune(name)
	if len(runes) <= truncateRunes {
		return name
	}
	return string(runes[:truncateRunes]) + "…"
}

// textColorFor picks dark or light text against a hex fill based on the
// fill's relative luminance.
func textColorFor(fill string) string {
	if relativeLuminance(fill) > luminanceThreshold {
		return darkText
	}
	return lightText
}

// relativeLuminance computes the perceived brightness of a "#rrggbb" color
// in [0, 1] using the Rec. 601 luma weights.  Unparseable colors count as
// dark, which yields light, readable text.
func relativeLuminance(hex string) float64 {
	s := strings.TrimPrefix(hex, "#")
	if len(s) != 6 {
		return 0
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0
	}
	r := float64(v>>16&0xff) / 255
	g := float64(v>>8&0xff) / 255
	b := float64(v&0xff) / 255
	return 0.299*r + 0.587*g + 0.114*b
}
