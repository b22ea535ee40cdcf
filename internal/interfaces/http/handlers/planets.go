package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nebulahq/hacknebula/internal/application/galaxymap"
	"github.com/nebulahq/hacknebula/internal/domain/planets"
	"github.com/nebulahq/hacknebula/internal/domain/team"
	"github.com/nebulahq/hacknebula/pkg/errors"
	"github.com/nebulahq/hacknebula/pkg/types/common"
)

// PlanetsHandler serves the /planets routes: lands, build logs, chips and
// the galaxy map.
type PlanetsHandler struct {
	planets *planets.Service
	teams   *team.Service
	maps    *galaxymap.Service
}

func NewPlanetsHandler(p *planets.Service, teams *team.Service, maps *galaxymap.Service) *PlanetsHandler {
	return &PlanetsHandler{planets: p, teams: teams, maps: maps}
}

type landDTO struct {
	ID          common.ID `json:"id"`
	TeamID      common.ID `json:"team_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Points      int       `json:"points"`
	CreatedAt   time.Time `json:"created_at"`
}

func toLandDTO(l *planets.Land) landDTO {
	return landDTO{
		ID:          l.ID,
		TeamID:      l.TeamID,
		Name:        l.Name,
		Description: l.Description,
		Points:      l.Points,
		CreatedAt:   l.CreatedAt,
	}
}

// Map handles GET /planets/map/teams.  The viewer's team gets IsMyTeam set
// so the client can highlight it.
func (h *PlanetsHandler) Map(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	var viewerTeam common.ID
	if t, err := h.teams.GetMine(c.Request.Context(), id.UserID); err == nil {
		viewerTeam = t.ID
	}

	territories, err := h.maps.MapTeams(c.Request.Context(), viewerTeam)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"territories": territories})
}

type createLandRequest struct {
	TeamID      common.ID `json:"team_id" binding:"required"`
	Name        string    `json:"name" binding:"required"`
	Description string    `json:"description"`
}

// CreateLand handles POST /planets/lands.
func (h *PlanetsHandler) CreateLand(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	var req createLandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.NewValidation(err.Error()))
		return
	}
	land, err := h.planets.CreateLand(c.Request.Context(), id.UserID, req.TeamID, req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toLandDTO(land))
}

// ListLands handles GET /planets/lands.
func (h *PlanetsHandler) ListLands(c *gin.Context) {
	p := pagination(c)
	lands, total, err := h.planets.ListLands(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	items := make([]landDTO, 0, len(lands))
	for _, l := range lands {
		items = append(items, toLandDTO(l))
	}
	respondList(c, items, total, p)
}

// GetLand handles GET /planets/lands/:landID.
func (h *PlanetsHandler) GetLand(c *gin.Context) {
	land, err := h.planets.GetLand(c.Request.Context(), common.ID(c.Param("landID")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toLandDTO(land))
}

type buildLogRequest struct {
	LandID  common.ID `json:"land_id" binding:"required"`
	Content string    `json:"content" binding:"required"`
}

type buildLogDTO struct {
	ID        common.ID     `json:"id"`
	LandID    common.ID     `json:"land_id"`
	AuthorID  common.UserID `json:"author_id"`
	Content   string        `json:"content"`
	Scored    bool          `json:"scored"`
	CreatedAt time.Time     `json:"created_at"`
}

func toBuildLogDTO(l *planets.BuildLog) buildLogDTO {
	return buildLogDTO{
		ID:        l.ID,
		LandID:    l.LandID,
		AuthorID:  l.AuthorID,
		Content:   l.Content,
		Scored:    l.Scored,
		CreatedAt: l.CreatedAt,
	}
}

// AddBuildLog handles POST /planets/buildlogs.
func (h *PlanetsHandler) AddBuildLog(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	var req buildLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.NewValidation(err.Error()))
		return
	}
	log, err := h.planets.AddBuildLog(c.Request.Context(), id.UserID, req.LandID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBuildLogDTO(log))
}

// ListBuildLogs handles GET /planets/lands/:landID/buildlogs.
func (h *PlanetsHandler) ListBuildLogs(c *gin.Context) {
	p := pagination(c)
	logs, total, err := h.planets.ListBuildLogs(c.Request.Context(), common.ID(c.Param("landID")), p)
	if err != nil {
		respondError(c, err)
		return
	}
	items := make([]buildLogDTO, 0, len(logs))
	for _, l := range logs {
		items = append(items, toBuildLogDTO(l))
	}
	respondList(c, items, total, p)
}

type allocateChipsRequest struct {
	LandID common.ID `json:"land_id" binding:"required"`
	Amount int       `json:"amount" binding:"required"`
}

// AllocateChips handles POST /planets/chips.  Investor role only, enforced
// by the router.
func (h *PlanetsHandler) AllocateChips(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	var req allocateChipsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.NewValidation(err.Error()))
		return
	}
	alloc, err := h.planets.AllocateChips(c.Request.Context(), id.UserID, req.LandID, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":          alloc.ID,
		"land_id":     alloc.LandID,
		"investor_id": alloc.InvestorID,
		"amount":      alloc.Amount,
		"day":         alloc.Day,
	})
}

// ChipBalance handles GET /planets/chips/balance.
func (h *PlanetsHandler) ChipBalance(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	remaining, err := h.planets.RemainingQuota(c.Request.Context(), id.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"quota":     planets.DailyChipQuota,
		"remaining": remaining,
		"day":       common.Today(),
	})
}

// Leaderboard handles GET /planets/leaderboard.
func (h *PlanetsHandler) Leaderboard(c *gin.Context) {
	scores, err := h.planets.TeamScores(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": scores})
}
