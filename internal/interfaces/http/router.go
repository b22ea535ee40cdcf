// Package http assembles the gin router and the HTTP server around the
// handler set.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/nebulahq/hacknebula/internal/config"
	"github.com/nebulahq/hacknebula/internal/infrastructure/monitoring/logging"
	"github.com/nebulahq/hacknebula/internal/infrastructure/monitoring/prometheus"
	"github.com/nebulahq/hacknebula/internal/interfaces/http/handlers"
	"github.com/nebulahq/hacknebula/internal/interfaces/http/middleware"
	"github.com/nebulahq/hacknebula/pkg/types/common"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Health     *handlers.HealthHandler
	Team       *handlers.TeamHandler
	Submission *handlers.SubmissionHandler
	Judging    *handlers.JudgingHandler
	Planets    *handlers.PlanetsHandler
	Schedule   *handlers.ScheduleHandler
	Feed       *handlers.FeedHandler
}

// NewRouter builds the full route tree.  collector and metrics may be nil,
// which drops the /metrics endpoint and measurement middleware.
func NewRouter(cfg config.ServerConfig, h Handlers, log logging.Logger, collector *prometheus.Collector, metrics *prometheus.AppMetrics) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogging(log))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	if metrics != nil {
		r.Use(middleware.Metrics(metrics))
	}

	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)
	if collector != nil {
		r.GET("/metrics", gin.WrapH(collector.Handler()))
	}

	api := r.Group("/api/v1")
	api.Use(middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).Middleware())
	api.Use(middleware.RequireIdentity())

	teams := api.Group("/teams")
	{
		teams.GET("", h.Team.List)
		teams.POST("", h.Team.Create)
		teams.GET("/me", h.Team.Mine)
		teams.POST("/join", h.Team.Join)
		teams.POST("/leave", h.Team.Leave)
		teams.GET("/:teamID", h.Team.Get)
		teams.PUT("/:teamID", h.Team.Update)
		teams.POST("/:teamID/lock", h.Team.Lock)
		teams.DELETE("/:teamID/members/:userID", h.Team.Kick)
		teams.POST("/:teamID/transfer", h.Team.Transfer)
		teams.POST("/:teamID/invite-code", h.Team.RegenerateInviteCode)
	}

	submissions := api.Group("/submissions")
	{
		submissions.GET("", h.Submission.List)
		submissions.POST("", h.Submission.UpsertDraft)
		submissions.GET("/:id", h.Submission.Get)
		submissions.PUT("/:id", h.Submission.Update)
		submissions.POST("/:id/submit", h.Submission.Finalize)
		submissions.POST("/:id/withdraw", h.Submission.Withdraw)
		submissions.POST("/:id/assets", h.Submission.AttachAsset)
		submissions.DELETE("/:id/assets/:assetID", h.Submission.RemoveAsset)
		submissions.GET("/:id/assets/:assetID/url", h.Submission.AssetURL)
	}

	judging := api.Group("/judging")
	{
		judging.GET("/criteria", h.Judging.Criteria)
		judging.PUT("/scorecards", middleware.RequireRole(common.RoleJudge), h.Judging.Submit)
		judging.GET("/scorecards/mine", middleware.RequireRole(common.RoleJudge), h.Judging.MyScorecard)
		judging.GET("/teams/:teamID/score", h.Judging.TeamScore)
		judging.GET("/standings", h.Judging.Standings)
	}

	planets := api.Group("/planets")
	{
		planets.GET("/map/teams", h.Planets.Map)
		planets.GET("/lands", h.Planets.ListLands)
		planets.POST("/lands", h.Planets.CreateLand)
		planets.GET("/lands/:landID", h.Planets.GetLand)
		planets.GET("/lands/:landID/buildlogs", h.Planets.ListBuildLogs)
		planets.POST("/buildlogs", h.Planets.AddBuildLog)
		planets.POST("/chips", middleware.RequireRole(common.RoleInvestor), h.Planets.AllocateChips)
		planets.GET("/chips/balance", middleware.RequireRole(common.RoleInvestor), h.Planets.ChipBalance)
		planets.GET("/leaderboard", h.Planets.Leaderboard)
	}

	schedule := api.Group("/schedule")
	{
		schedule.GET("/sessions", h.Schedule.List)
		schedule.GET("/sessions/upcoming", h.Schedule.Upcoming)
		schedule.POST("/sessions", middleware.RequireRole(common.RoleOrganizer), h.Schedule.Create)
		schedule.PUT("/sessions/:id", middleware.RequireRole(common.RoleOrganizer), h.Schedule.Update)
		schedule.DELETE("/sessions/:id", middleware.RequireRole(common.RoleOrganizer), h.Schedule.Delete)
	}

	api.GET("/feed/posts", h.Feed.List)
	api.POST("/feed/posts", h.Feed.Publish)
	api.DELETE("/feed/posts/:id", h.Feed.Delete)
	api.GET("/search", h.Feed.Search)

	return r
}
