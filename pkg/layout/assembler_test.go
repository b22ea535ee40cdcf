package layout

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembler_ScoreOrderingReflectsArea(t *testing.T) {
	t.Parallel()

	a := NewAssembler(WithSeed(42))
	got := a.Assemble([]TeamScore{
		{ID: "t1", DisplayName: "Rustaceans", AwardScore: 10},
		{ID: "t2", DisplayName: "Gophers", AwardScore: 50},
		{ID: "t3", DisplayName: "Pythonistas", AwardScore: 90},
	})

	require.Len(t, got, 3)
	assert.Less(t, got[0].Area, got[1].Area, "score 10 should claim less land than score 50")
	assert.Less(t, got[1].Area, got[2].Area, "score 50 should claim less land than score 90")
}

func TestAssembler_AreaMonotonicAcrossSeeds(t *testing.T) {
	t.Parallel()

	// Side count and vertex jitter vary per seed; area must depend on the
	// score alone.
	for seed := int64(0); seed < 50; seed++ {
		a := NewAssembler(WithSeed(seed))
		got := a.Assemble([]TeamScore{
			{ID: "low", DisplayName: "Low", AwardScore: 10},
			{ID: "mid", DisplayName: "Mid", AwardScore: 50},
			{ID: "high", DisplayName: "High", AwardScore: 90},
		})

		require.Len(t, got, 3)
		assert.Lessf(t, got[0].Area, got[1].Area, "seed %d: area not increasing between scores 10 and 50", seed)
		assert.Lessf(t, got[1].Area, got[2].Area, "seed %d: area not increasing between scores 50 and 90", seed)
	}
}

func TestAssembler_HostileScores(t *testing.T) {
	t.Parallel()

	a := NewAssembler(WithSeed(7))
	got := a.Assemble([]TeamScore{
		{ID: "neg", DisplayName: "Negative", AwardScore: -5},
		{ID: "nan", DisplayName: "NotANumber", AwardScore: math.NaN()},
		{ID: "inf", DisplayName: "Infinite", AwardScore: math.Inf(1)},
	})

	require.Len(t, got, 3)
	for _, territory := range got {
		assert.Greater(t, territory.Area, 0.0, "territory %s has no area", territory.ID)
		assert.False(t, math.IsNaN(territory.LabelAnchor.X), "territory %s anchor x is NaN", territory.ID)
		assert.False(t, math.IsNaN(territory.LabelAnchor.Y), "territory %s anchor y is NaN", territory.ID)
		for _, v := range territory.Points {
			assert.False(t, math.IsNaN(v.X) || math.IsNaN(v.Y), "territory %s has NaN vertex", territory.ID)
		}
	}

	// Negative and NaN clamp to zero, infinity clamps to the cap.
	assert.Greater(t, got[2].Area, got[0].Area)
	assert.Greater(t, got[2].Area, got[1].Area)
}

func TestAssembler_DeterministicForSeed(t *testing.T) {
	t.Parallel()

	teams := []TeamScore{
		{ID: "a", DisplayName: "Alpha", AwardScore: 30},
		{ID: "b", DisplayName: "Beta", AwardScore: 60},
	}

	first := NewAssembler(WithSeed(1234)).Assemble(teams)
	second := NewAssembler(WithSeed(1234)).Assemble(teams)
	assert.Equal(t, first, second)

	third := NewAssembler(WithSeed(5678)).Assemble(teams)
	assert.NotEqual(t, first, third, "different seeds should shuffle the map")
}

func TestAssembler_EmptyInput(t *testing.T) {
	t.Parallel()

	got := NewAssembler(WithSeed(1)).Assemble(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAssembler_VerticesStayOnCanvas(t *testing.T) {
	t.Parallel()

	canvas := Canvas{Width: 600, Height: 400, Padding: 25}
	a := NewAssembler(WithSeed(9), WithCanvas(canvas))

	teams := make([]TeamScore, 12)
	for i := range teams {
		teams[i] = TeamScore{ID: string(rune('a' + i)), DisplayName: "Team", AwardScore: float64(i * 9)}
	}

	for _, territory := range a.Assemble(teams) {
		for _, v := range territory.Points {
			assert.GreaterOrEqual(t, v.X, canvas.Padding)
			assert.LessOrEqual(t, v.X, canvas.Width-canvas.Padding)
			assert.GreaterOrEqual(t, v.Y, canvas.Padding)
			assert.LessOrEqual(t, v.Y, canvas.Height-canvas.Padding)
		}
	}
}

func TestAssembler_MetadataAttached(t *testing.T) {
	t.Parallel()

	a := NewAssembler(WithSeed(3), WithPalette([]string{"#112233", "#eeeeee"}))
	got := a.Assemble([]TeamScore{
		{ID: "mine", DisplayName: "Home Team", AwardScore: 80, IsMyTeam: true, Track: "ai"},
		{ID: "other", DisplayName: "Away Team", AwardScore: 40},
	})

	require.Len(t, got, 2)
	assert.True(t, got[0].IsMyTeam)
	assert.Equal(t, "#112233", got[0].Color)
	assert.Equal(t, lightText, got[0].TextColor, "dark fill wants light text")
	assert.Equal(t, "#eeeeee", got[1].Color)
	assert.Equal(t, darkText, got[1].TextColor, "light fill wants dark text")
	assert.Greater(t, got[0].LabelSize, 0.0)
}

func TestDisplayName_Truncation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		area float64
		want string
	}{
		{name: "large territory keeps full name", in: "The Longest Team Name Ever", area: 5000, want: "The Longest Team Name Ever"},
		{name: "small territory truncates", in: "The Longest Team Name Ever", area: 1000, want: "The Lo…"},
		{name: "short name survives small territory", in: "Gophs", area: 100, want: "Gophs"},
		{name: "multibyte runes counted not bytes", in: "Команда Ракета", area: 500, want: "Команд…"},
		{name: "exactly at threshold keeps full name", in: "A Very Long Name", area: 3000, want: "A Very Long Name"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, displayName(tt.in, tt.area))
		})
	}
}

func TestRelativeLuminance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		hex  string
		want float64
	}{
		{name: "black", hex: "#000000", want: 0},
		{name: "white", hex: "#ffffff", want: 1},
		{name: "pure red", hex: "#ff0000", want: 0.299},
		{name: "pure green", hex: "#00ff00", want: 0.587},
		{name: "pure blue", hex: "#0000ff", want: 0.114},
		{name: "garbage counts as dark", hex: "not-a-color", want: 0},
		{name: "short hex counts as dark", hex: "#fff", want: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, relativeLuminance(tt.hex), 1e-6)
		})
	}
}

func TestScoreRadius_SqrtMapping(t *testing.T) {
	t.Parallel()

	a := NewAssembler(WithSeed(1))

	r0 := a.scoreRadius(0)
	r25 := a.scoreRadius(25)
	r100 := a.scoreRadius(100)

	assert.Greater(t, r25, r0)
	assert.Greater(t, r100, r25)

	// sqrt mapping: a quarter of the score buys half the radius range.
	assert.InDelta(t, r0+(r100-r0)/2, r25, 1e-9)
}
