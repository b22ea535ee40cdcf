package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nebulahq/hacknebula/internal/domain/submission"
	"github.com/nebulahq/hacknebula/pkg/errors"
	"github.com/nebulahq/hacknebula/pkg/types/common"
)

// SubmissionHandler serves the /submissions routes.
type SubmissionHandler struct {
	submissions *submission.Service
}

func NewSubmissionHandler(submissions *submission.Service) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions}
}

type assetDTO struct {
	ID          common.ID `json:"id"`
	Kind        string    `json:"kind"`
	FileName    string    `json:"file_name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

type submissionDTO struct {
	ID          common.ID  `json:"id"`
	TeamID      common.ID  `json:"team_id"`
	Title       string     `json:"title"`
	Summary     string     `json:"summary"`
	Description string     `json:"description"`
	RepoURL     string     `json:"repo_url"`
	DemoURL     string     `json:"demo_url"`
	VideoURL    string     `json:"video_url"`
	Track       string     `json:"track"`
	Status      string     `json:"status"`
	Assets      []assetDTO `json:"assets"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toSubmissionDTO(s *submission.Submission) submissionDTO {
	dto := submissionDTO{
		ID:          s.ID,
		TeamID:      s.TeamID,
		Title:       s.Title,
		Summary:     s.Summary,
		Description: s.Description,
		RepoURL:     s.RepoURL,
		DemoURL:     s.DemoURL,
		VideoURL:    s.VideoURL,
		Track:       s.Track,
		Status:      string(s.Status),
		Assets:      make([]assetDTO, 0, len(s.Assets)),
		SubmittedAt: s.SubmittedAt,
		UpdatedAt:   s.UpdatedAt,
	}
	for _, a := range s.Assets {
		dto.Assets = append(dto.Assets, assetDTO{
			ID:          a.ID,
			Kind:        string(a.Kind),
			FileName:    a.FileName,
			Size:        a.Size,
			ContentType: a.ContentType,
			UploadedAt:  a.UploadedAt,
		})
	}
	return dto
}

type draftRequest struct {
	TeamID      common.ID `json:"team_id" binding:"required"`
	Title       *string   `json:"title"`
	Summary     *string   `json:"summary"`
	Description *string   `json:"description"`
	RepoURL     *string   `json:"repo_url"`
	DemoURL     *string   `json:"demo_url"`
	VideoURL    *string   `json:"video_url"`
	Track       *string   `json:"track"`
}

// UpsertDraft handles POST /submissions.
func (h *SubmissionHandler) UpsertDraft(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	var req draftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.NewValidation(err.Error()))
		return
	}
	sub, err := h.submissions.UpsertDraft(c.Request.Context(), id.UserID, req.TeamID, submission.DraftInput{
		Title:       req.Title,
		Summary:     req.Summary,
		Description: req.Description,
		RepoURL:     req.RepoURL,
		DemoURL:     req.DemoURL,
		VideoURL:    req.VideoURL,
		Track:       req.Track,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSubmissionDTO(sub))
}

// Update handles PUT /submissions/:id.
func (h *SubmissionHandler) Update(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	sub, err := h.submissions.Get(c.Request.Context(), common.ID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	var req draftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.NewValidation(err.Error()))
		return
	}
	updated, err := h.submissions.UpsertDraft(c.Request.Context(), id.UserID, sub.TeamID, submission.DraftInput{
		Title:       req.Title,
		Summary:     req.Summary,
		Description: req.Description,
		RepoURL:     req.RepoURL,
		DemoURL:     req.DemoURL,
		VideoURL:    req.VideoURL,
		Track:       req.Track,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSubmissionDTO(updated))
}

// List handles GET /submissions.
func (h *SubmissionHandler) List(c *gin.Context) {
	filter := submission.ListFilter{
		Track:      c.Query("track"),
		Status:     submission.Status(c.Query("status")),
		Pagination: pagination(c),
	}
	subs, total, err := h.submissions.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	items := make([]submissionDTO, 0, len(subs))
	for _, s := range subs {
		items = append(items, toSubmissionDTO(s))
	}
	respondList(c, items, total, filter.Pagination)
}

// Get handles GET /submissions/:id.
func (h *SubmissionHandler) Get(c *gin.Context) {
	sub, err := h.submissions.Get(c.Request.Context(), common.ID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSubmissionDTO(sub))
}

// Finalize handles POST /submissions/:id/submit.
func (h *SubmissionHandler) Finalize(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	sub, err := h.submissions.Get(c.Request.Context(), common.ID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	final, err := h.submissions.Finalize(c.Request.Context(), id.UserID, sub.TeamID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSubmissionDTO(final))
}

// Withdraw handles POST /submissions/:id/withdraw.
func (h *SubmissionHandler) Withdraw(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	sub, err := h.submissions.Get(c.Request.Context(), common.ID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	withdrawn, err := h.submissions.Withdraw(c.Request.Context(), id.UserID, sub.TeamID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSubmissionDTO(withdrawn))
}

// AttachAsset handles POST /submissions/:id/assets (multipart form with a
// "file" part and an optional "kind" field).
func (h *SubmissionHandler) AttachAsset(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	sub, err := h.submissions.Get(c.Request.Context(), common.ID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, errors.NewValidation("missing file part"))
		return
	}
	kind := submission.AssetKind(c.PostForm("kind"))
	if kind == "" {
		kind = submission.AssetFile
	}

	f, err := fileHeader.Open()
	if err != nil {
		respondError(c, errors.Wrap(err, errors.ErrCodeBadRequest, "open uploaded file"))
		return
	}
	defer f.Close()

	asset, err := h.submissions.AttachAsset(c.Request.Context(), id.UserID, sub.TeamID,
		kind, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), fileHeader.Size, f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, assetDTO{
		ID:          asset.ID,
		Kind:        string(asset.Kind),
		FileName:    asset.FileName,
		Size:        asset.Size,
		ContentType: asset.ContentType,
		UploadedAt:  asset.UploadedAt,
	})
}

// RemoveAsset handles DELETE /submissions/:id/assets/:assetID.
func (h *SubmissionHandler) RemoveAsset(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	sub, err := h.submissions.Get(c.Request.Context(), common.ID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.submissions.RemoveAsset(c.Request.Context(), id.UserID, sub.TeamID, common.ID(c.Param("assetID"))); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AssetURL handles GET /submissions/:id/assets/:assetID/url.
func (h *SubmissionHandler) AssetURL(c *gin.Context) {
	url, err := h.submissions.AssetURL(c.Request.Context(),
		common.ID(c.Param("id")), common.ID(c.Param("assetID")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
