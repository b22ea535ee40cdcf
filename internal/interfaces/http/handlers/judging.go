package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nebulahq/hacknebula/internal/domain/judging"
	"github.com/nebulahq/hacknebula/pkg/errors"
	"github.com/nebulahq/hacknebula/pkg/types/common"
)

// JudgingHandler serves the /judging routes.
type JudgingHandler struct {
	judging *judging.Service
}

func NewJudgingHandler(j *judging.Service) *JudgingHandler {
	return &JudgingHandler{judging: j}
}

type scorecardDTO struct {
	ID        common.ID          `json:"id"`
	JudgeID   common.UserID      `json:"judge_id"`
	TeamID    common.ID          `json:"team_id"`
	Scores    map[string]float64 `json:"scores"`
	Comment   string             `json:"comment"`
	UpdatedAt time.Time          `json:"updated_at"`
}

func toScorecardDTO(card *judging.Scorecard) scorecardDTO {
	return scorecardDTO{
		ID:        card.ID,
		JudgeID:   card.JudgeID,
		TeamID:    card.TeamID,
		Scores:    card.Scores,
		Comment:   card.Comment,
		UpdatedAt: card.UpdatedAt,
	}
}

// Criteria handles GET /judging/criteria.
func (h *JudgingHandler) Criteria(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"criteria": h.judging.Criteria()})
}

type scorecardRequest struct {
	TeamID  common.ID          `json:"team_id" binding:"required"`
	Scores  map[string]float64 `json:"scores" binding:"required"`
	Comment string             `json:"comment"`
}

// Submit handles PUT /judging/scorecards.  Judge role only, enforced by
// the router.
func (h *JudgingHandler) Submit(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	var req scorecardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.NewValidation(err.Error()))
		return
	}
	card, err := h.judging.Submit(c.Request.Context(), judging.SubmitInput{
		JudgeID: id.UserID,
		TeamID:  req.TeamID,
		Scores:  req.Scores,
		Comment: req.Comment,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toScorecardDTO(card))
}

// MyScorecard handles GET /judging/scorecards/mine?team_id=...
func (h *JudgingHandler) MyScorecard(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	teamID := common.ID(c.Query("team_id"))
	if teamID == "" {
		respondError(c, errors.NewValidation("team_id query parameter is required"))
		return
	}
	card, err := h.judging.GetMine(c.Request.Context(), id.UserID, teamID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toScorecardDTO(card))
}

// TeamScore handles GET /judging/teams/:teamID/score.
func (h *JudgingHandler) TeamScore(c *gin.Context) {
	teamID := common.ID(c.Param("teamID"))
	cards, err := h.judging.ListByTeam(c.Request.Context(), teamID)
	if err != nil {
		respondError(c, err)
		return
	}
	items := make([]scorecardDTO, 0, len(cards))
	for _, card := range cards {
		items = append(items, toScorecardDTO(card))
	}
	c.JSON(http.StatusOK, gin.H{"team_id": teamID, "scorecards": items})
}

// Standings handles GET /judging/standings.
func (h *JudgingHandler) Standings(c *gin.Context) {
	standings, err := h.judging.Standings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"standings": standings})
}
