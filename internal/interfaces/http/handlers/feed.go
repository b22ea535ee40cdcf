package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nebulahq/hacknebula/internal/domain/feed"
	"github.com/nebulahq/hacknebula/internal/infrastructure/search/opensearch"
	"github.com/nebulahq/hacknebula/pkg/errors"
	"github.com/nebulahq/hacknebula/pkg/types/common"
)

// FeedHandler serves the /feed routes.
type FeedHandler struct {
	feed     *feed.Service
	searcher *opensearch.Searcher
}

// NewFeedHandler wires the feed routes. searcher may be nil; search then
// returns 503.
func NewFeedHandler(f *feed.Service, searcher *opensearch.Searcher) *FeedHandler {
	return &FeedHandler{feed: f, searcher: searcher}
}

type postDTO struct {
	ID         common.ID     `json:"id"`
	AuthorID   common.UserID `json:"author_id"`
	AuthorName string        `json:"author_name"`
	TeamID     common.ID     `json:"team_id,omitempty"`
	Kind       string        `json:"kind"`
	Content    string        `json:"content"`
	CreatedAt  time.Time     `json:"created_at"`
}

func toPostDTO(p *feed.Post) postDTO {
	return postDTO{
		ID:         p.ID,
		AuthorID:   p.AuthorID,
		AuthorName: p.AuthorName,
		TeamID:     p.TeamID,
		Kind:       string(p.Kind),
		Content:    p.Content,
		CreatedAt:  p.CreatedAt,
	}
}

type publishRequest struct {
	TeamID  common.ID `json:"team_id"`
	Kind    string    `json:"kind"`
	Content string    `json:"content" binding:"required"`
}

// Publish handles POST /feed/posts.  Announcements require the organizer
// role.
func (h *FeedHandler) Publish(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	var req publishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.NewValidation(err.Error()))
		return
	}
	kind := feed.Kind(req.Kind)
	if kind == feed.KindAnnouncement && !id.HasRole(common.RoleOrganizer) {
		respondError(c, errors.Forbidden("announcements require the organizer role"))
		return
	}

	post, err := h.feed.Publish(c.Request.Context(), feed.PublishInput{
		AuthorID:   id.UserID,
		AuthorName: id.Name,
		TeamID:     req.TeamID,
		Kind:       kind,
		Content:    req.Content,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toPostDTO(post))
}

// List handles GET /feed/posts.
func (h *FeedHandler) List(c *gin.Context) {
	p := pagination(c)
	posts, total, err := h.feed.List(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	items := make([]postDTO, 0, len(posts))
	for _, post := range posts {
		items = append(items, toPostDTO(post))
	}
	respondList(c, items, total, p)
}

// Delete handles DELETE /feed/posts/:id.
func (h *FeedHandler) Delete(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	if err := h.feed.Delete(c.Request.Context(), id.UserID, id.Roles, common.ID(c.Param("id"))); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Search handles GET /search?q=...&scope=teams,submissions,posts.
func (h *FeedHandler) Search(c *gin.Context) {
	if h.searcher == nil {
		respondError(c, errors.New(errors.ErrCodeServiceUnavailable, "search is not configured"))
		return
	}
	query := c.Query("q")
	var indexes []string
	if scope := c.Query("scope"); scope != "" {
		for _, s := range strings.Split(scope, ",") {
			if s = strings.TrimSpace(s); s != "" {
				indexes = append(indexes, s)
			}
		}
	}
	result, err := h.searcher.Search(c.Request.Context(), query, indexes, pagination(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
