package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nebulahq/hacknebula/internal/domain/team"
	"github.com/nebulahq/hacknebula/pkg/errors"
	"github.com/nebulahq/hacknebula/pkg/types/common"
)

// TeamHandler serves the /teams routes.
type TeamHandler struct {
	teams *team.Service
}

func NewTeamHandler(teams *team.Service) *TeamHandler {
	return &TeamHandler{teams: teams}
}

type teamMemberDTO struct {
	UserID      common.UserID `json:"user_id"`
	DisplayName string        `json:"display_name"`
	Role        string        `json:"role"`
	JoinedAt    time.Time     `json:"joined_at"`
}

type teamDTO struct {
	ID          common.ID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Track       string          `json:"track"`
	InviteCode  string          `json:"invite_code,omitempty"`
	MemberLimit int             `json:"member_limit"`
	Locked      bool            `json:"locked"`
	Members     []teamMemberDTO `json:"members"`
	CreatedAt   time.Time       `json:"created_at"`
}

// toTeamDTO converts a team; the invite code is only exposed to members.
func toTeamDTO(t *team.Team, viewer common.UserID) teamDTO {
	dto := teamDTO{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Track:       t.Track,
		MemberLimit: t.MemberLimit,
		Locked:      t.Locked,
		Members:     make([]teamMemberDTO, 0, len(t.Members)),
		CreatedAt:   t.CreatedAt,
	}
	for _, m := range t.Members {
		if m.UserID == viewer {
			dto.InviteCode = t.InviteCode
		}
		dto.Members = append(dto.Members, teamMemberDTO{
			UserID:      m.UserID,
			DisplayName: m.DisplayName,
			Role:        string(m.Role),
			JoinedAt:    m.JoinedAt,
		})
	}
	return dto
}

type createTeamRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Track       string `json:"track"`
}

// Create handles POST /teams.
func (h *TeamHandler) Create(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	var req createTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.NewValidation(err.Error()))
		return
	}

	t, err := h.teams.Create(c.Request.Context(), team.CreateInput{
		Name:        req.Name,
		Description: req.Description,
		Track:       req.Track,
		CreatorID:   id.UserID,
		CreatorName: id.Name,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTeamDTO(t, id.UserID))
}

// List handles GET /teams.
func (h *TeamHandler) List(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	filter := team.ListFilter{
		Track:      c.Query("track"),
		NameQuery:  c.Query("q"),
		Pagination: pagination(c),
	}
	teams, total, err := h.teams.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	items := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		items = append(items, toTeamDTO(t, id.UserID))
	}
	respondList(c, items, total, filter.Pagination)
}

// Get handles GET /teams/:teamID.
func (h *TeamHandler) Get(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	t, err := h.teams.Get(c.Request.Context(), common.ID(c.Param("teamID")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTeamDTO(t, id.UserID))
}

// Mine handles GET /teams/me.
func (h *TeamHandler) Mine(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	t, err := h.teams.GetMine(c.Request.Context(), id.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTeamDTO(t, id.UserID))
}

type updateTeamRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Track       *string `json:"track"`
	Locked      *bool   `json:"locked"`
}

// Update handles PUT /teams/:teamID.
func (h *TeamHandler) Update(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	var req updateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.NewValidation(err.Error()))
		return
	}
	t, err := h.teams.Update(c.Request.Context(), id.UserID, common.ID(c.Param("teamID")), team.UpdateInput{
		Name:        req.Name,
		Description: req.Description,
		Track:       req.Track,
		Locked:      req.Locked,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTeamDTO(t, id.UserID))
}

// Lock handles POST /teams/:teamID/lock.
func (h *TeamHandler) Lock(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	locked := true
	t, err := h.teams.Update(c.Request.Context(), id.UserID, common.ID(c.Param("teamID")), team.UpdateInput{Locked: &locked})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTeamDTO(t, id.UserID))
}

type joinTeamRequest struct {
	InviteCode string `json:"invite_code" binding:"required"`
}

// Join handles POST /teams/join.
func (h *TeamHandler) Join(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	var req joinTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.NewValidation(err.Error()))
		return
	}
	t, err := h.teams.Join(c.Request.Context(), id.UserID, id.Name, req.InviteCode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTeamDTO(t, id.UserID))
}

// Leave handles POST /teams/leave.
func (h *TeamHandler) Leave(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	if err := h.teams.Leave(c.Request.Context(), id.UserID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Kick handles DELETE /teams/:teamID/members/:userID.
func (h *TeamHandler) Kick(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	err := h.teams.Kick(c.Request.Context(), id.UserID,
		common.ID(c.Param("teamID")), common.UserID(c.Param("userID")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type transferRequest struct {
	TargetID common.UserID `json:"target_id" binding:"required"`
}

// Transfer handles POST /teams/:teamID/transfer.
func (h *TeamHandler) Transfer(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.NewValidation(err.Error()))
		return
	}
	err := h.teams.TransferLeadership(c.Request.Context(), id.UserID,
		common.ID(c.Param("teamID")), req.TargetID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RegenerateInviteCode handles POST /teams/:teamID/invite-code.
func (h *TeamHandler) RegenerateInviteCode(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	t, err := h.teams.RegenerateInviteCode(c.Request.Context(), id.UserID, common.ID(c.Param("teamID")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTeamDTO(t, id.UserID))
}
