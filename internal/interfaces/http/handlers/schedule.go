package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nebulahq/hacknebula/internal/domain/schedule"
	"github.com/nebulahq/hacknebula/pkg/errors"
	"github.com/nebulahq/hacknebula/pkg/types/common"
)

// ScheduleHandler serves the /schedule routes.
type ScheduleHandler struct {
	schedule *schedule.Service
}

func NewScheduleHandler(s *schedule.Service) *ScheduleHandler {
	return &ScheduleHandler{schedule: s}
}

type sessionDTO struct {
	ID          common.ID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Kind        string     `json:"kind"`
	Location    string     `json:"location"`
	StartsAt    time.Time  `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
}

func toSessionDTO(i *schedule.Item) sessionDTO {
	dto := sessionDTO{
		ID:          i.ID,
		Title:       i.Title,
		Description: i.Description,
		Kind:        string(i.Kind),
		Location:    i.Location,
		StartsAt:    i.StartsAt,
	}
	if !i.EndsAt.IsZero() {
		ends := i.EndsAt
		dto.EndsAt = &ends
	}
	return dto
}

type sessionRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	Kind        string    `json:"kind" binding:"required"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"starts_at" binding:"required"`
	EndsAt      time.Time `json:"ends_at"`
}

func (r sessionRequest) toInput() schedule.Input {
	return schedule.Input{
		Title:       r.Title,
		Description: r.Description,
		Kind:        schedule.Kind(r.Kind),
		Location:    r.Location,
		StartsAt:    r.StartsAt,
		EndsAt:      r.EndsAt,
	}
}

// Create handles POST /schedule/sessions.  Organizer only.
func (h *ScheduleHandler) Create(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.NewValidation(err.Error()))
		return
	}
	item, err := h.schedule.Create(c.Request.Context(), id.UserID, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toSessionDTO(item))
}

// Update handles PUT /schedule/sessions/:id.  Organizer only.
func (h *ScheduleHandler) Update(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.NewValidation(err.Error()))
		return
	}
	item, err := h.schedule.Update(c.Request.Context(), id.UserID, common.ID(c.Param("id")), req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionDTO(item))
}

// Delete handles DELETE /schedule/sessions/:id.  Organizer only.
func (h *ScheduleHandler) Delete(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	if err := h.schedule.Delete(c.Request.Context(), id.UserID, common.ID(c.Param("id"))); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// List handles GET /schedule/sessions.
func (h *ScheduleHandler) List(c *gin.Context) {
	h.list(c, false)
}

// Upcoming handles GET /schedule/sessions/upcoming.
func (h *ScheduleHandler) Upcoming(c *gin.Context) {
	h.list(c, true)
}

func (h *ScheduleHandler) list(c *gin.Context, upcomingOnly bool) {
	items, err := h.schedule.List(c.Request.Context(), upcomingOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]sessionDTO, 0, len(items))
	for _, i := range items {
		out = append(out, toSessionDTO(i))
	}
	c.JSON(http.StatusOK, gin.H{"sessions": out})
}
