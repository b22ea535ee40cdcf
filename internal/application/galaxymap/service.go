// Package galaxymap renders the territory map: it joins land points with
// judging standings and runs the layout engine over the result.
package galaxymap

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/nebulahq/hacknebula/internal/config"
	"github.com/nebulahq/hacknebula/internal/domain/judging"
	"github.com/nebulahq/hacknebula/internal/domain/planets"
	"github.com/nebulahq/hacknebula/internal/infrastructure/monitoring/logging"
	"github.com/nebulahq/hacknebula/internal/infrastructure/monitoring/prometheus"
	"github.com/nebulahq/hacknebula/pkg/errors"
	"github.com/nebulahq/hacknebula/pkg/layout"
	"github.com/nebulahq/hacknebula/pkg/types/common"
)

// mapCacheKey stores the rendered base map; viewer-specific flags are
// applied after the cache read.
const mapCacheKey = "galaxymap:v1"

// activityBonusCap limits how far land activity can inflate a territory
// beyond its judged score.
const activityBonusCap = 25.0

// ScoreSource supplies each land's accumulated points.
type ScoreSource interface {
	TeamScores(ctx context.Context) ([]planets.TeamPoints, error)
}

// StandingsSource supplies the judged leaderboard.
type StandingsSource interface {
	Standings(ctx context.Context) ([]judging.TeamStanding, error)
}

// Cache is the subset of the redis cache the map uses.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Service computes and caches the galaxy map.
type Service struct {
	scores    ScoreSource
	standings StandingsSource
	cache     Cache
	metrics   *prometheus.AppMetrics
	logger    logging.Logger
	eventID   string

	// mu guards the tunables, which Reconfigure swaps at runtime.
	mu               sync.RWMutex
	canvas           layout.Canvas
	minLabelDistance float64
	cacheTTL         time.Duration
}

// NewService wires the map service. eventID seeds the layout RNG so the
// map stays stable between data changes. cache and metrics may be nil.
func NewService(scores ScoreSource, standings StandingsSource, cache Cache, cfg config.GalaxyMapConfig, eventID string, metrics *prometheus.AppMetrics, log logging.Logger) *Service {
	if log == nil {
		log = logging.NewNop()
	}
	canvas, minLabel, ttl := tunables(cfg)
	return &Service{
		scores:           scores,
		standings:        standings,
		cache:            cache,
		metrics:          metrics,
		logger:           log,
		eventID:          eventID,
		canvas:           canvas,
		minLabelDistance: minLabel,
		cacheTTL:         ttl,
	}
}

func tunables(cfg config.GalaxyMapConfig) (layout.Canvas, float64, time.Duration) {
	canvas := layout.DefaultCanvas
	if cfg.CanvasWidth > 0 && cfg.CanvasHeight > 0 {
		canvas = layout.Canvas{Width: cfg.CanvasWidth, Height: cfg.CanvasHeight, Padding: cfg.CanvasPadding}
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	minLabel := cfg.MinLabelDistance
	if minLabel <= 0 {
		minLabel = 48
	}
	return canvas, minLabel, ttl
}

// Reconfigure applies new map tunables without a restart and drops the
// cached map so the next request renders with them.
func (s *Service) Reconfigure(ctx context.Context, cfg config.GalaxyMapConfig) {
	canvas, minLabel, ttl := tunables(cfg)

	s.mu.Lock()
	changed := canvas != s.canvas || minLabel != s.minLabelDistance || ttl != s.cacheTTL
	s.canvas = canvas
	s.minLabelDistance = minLabel
	s.cacheTTL = ttl
	s.mu.Unlock()

	if changed {
		s.InvalidateCache(ctx)
		s.logger.Info("galaxy map tunables reloaded",
			logging.Float64("canvas_width", canvas.Width),
			logging.Float64("canvas_height", canvas.Height),
			logging.Float64("min_label_distance", minLabel),
			logging.Duration("cache_ttl", ttl))
	}
}

// MapTeams returns the rendered territories with the viewer's team marked.
func (s *Service) MapTeams(ctx context.Context, viewerTeamID common.ID) ([]layout.Territory, error) {
	base, err := s.baseMap(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]layout.Territory, len(base))
	copy(out, base)
	if viewerTeamID != "" {
		for i := range out {
			out[i].IsMyTeam = out[i].ID == string(viewerTeamID)
		}
	}
	return out, nil
}

// InvalidateCache drops the cached map. Called by the activity worker
// whenever scores or lands change.
func (s *Service) InvalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, mapCacheKey); err != nil {
		s.logger.Warn("galaxy map cache invalidation failed", logging.Err(err))
	}
}

func (s *Service) baseMap(ctx context.Context) ([]layout.Territory, error) {
	if s.cache != nil {
		var cached []layout.Territory
		if err := s.cache.Get(ctx, mapCacheKey, &cached); err == nil {
			if s.metrics != nil {
				s.metrics.MapCacheHits.Inc()
			}
			return cached, nil
		}
		if s.metrics != nil {
			s.metrics.MapCacheMisses.Inc()
		}
	}

	teams, err := s.loadTeamScores(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	canvas, minLabel, ttl := s.canvas, s.minLabelDistance, s.cacheTTL
	s.mu.RUnlock()

	started := time.Now()
	assembler := layout.NewAssembler(
		layout.WithCanvas(canvas),
		layout.WithMinLabelDistance(minLabel),
		layout.WithSeed(seedFor(s.eventID)),
	)
	territories := assembler.Assemble(teams)
	if s.metrics != nil {
		s.metrics.ObserveLayout(len(territories), time.Since(started))
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, mapCacheKey, territories, ttl); err != nil {
			s.logger.Warn("galaxy map cache write failed", logging.Err(err))
		}
	}
	return territories, nil
}

// loadTeamScores joins land points with judging standings.  The judged
// award score carries the territory size; land activity adds a capped
// bonus so unjudged teams still grow visibly.
func (s *Service) loadTeamScores(ctx context.Context) ([]layout.TeamScore, error) {
	points, err := s.scores.TeamScores(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeMapUnavailable, "load land scores")
	}

	awards := map[common.ID]float64{}
	if s.standings != nil {
		standings, err := s.standings.Standings(ctx)
		if err != nil {
			// Map stays renderable on land points alone.
			s.logger.Warn("judging standings unavailable for map", logging.Err(err))
		} else {
			for _, st := range standings {
				awards[st.TeamID] = st.AwardScore
			}
		}
	}

	teams := make([]layout.TeamScore, 0, len(points))
	for _, tp := range points {
		bonus := float64(tp.Points) / 10
		if bonus > activityBonusCap {
			bonus = activityBonusCap
		}
		teams = append(teams, layout.TeamScore{
			ID:          string(tp.TeamID),
			DisplayName: tp.Name,
			AwardScore:  awards[tp.TeamID] + bonus,
		})
	}
	return teams, nil
}

// seedFor derives a stable RNG seed from the event identifier.
func seedFor(eventID string) int64 {
	if eventID == "" {
		eventID = "hacknebula"
	}
	h := fnv.New64a()
	h.Write([]byte(eventID))
	return int64(h.Sum64())
}
