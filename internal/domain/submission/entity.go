// Package submission implements project submissions: one draft per team,
// linked assets in object storage and a final freeze at the deadline.
package submission

import (
	"net/url"
	"strings"
	"time"

	"github.com/nebulahq/hacknebula/pkg/types/common"
)

// Status tracks the submission lifecycle.
type Status string

const (
	// StatusDraft submissions are editable by the owning team.
	StatusDraft Status = "draft"
	// StatusFinal submissions are frozen for judging.
	StatusFinal Status = "final"
)

// AssetKind classifies uploaded files.
type AssetKind string

const (
	AssetImage AssetKind = "image"
	AssetDeck  AssetKind = "deck"
	AssetFile  AssetKind = "file"
)

const (
	maxTitleLength   = 120
	maxSummaryLength = 280
	maxBodyLength    = 8000
)

// Submission is a team's project entry.  Each team owns at most one.
type Submission struct {
	ID          common.ID
	TeamID      common.ID
	Title       string
	Summary     string
	Description string
	RepoURL     string
	DemoURL     string
	VideoURL    string
	Track       string
	Status      Status
	Assets      []Asset
	SubmittedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Asset is one uploaded file attached to a submission.  ObjectKey addresses
// the blob in object storage.
type Asset struct {
	ID          common.ID
	Kind        AssetKind
	ObjectKey   string
	FileName    string
	Size        int64
	ContentType string
	UploadedAt  time.Time
}

// NewDraft creates an empty draft for a team.
func NewDraft(teamID common.ID, track string) *Submission {
	now := time.Now().UTC()
	return &Submission{
		ID:        common.NewID(),
		TeamID:    teamID,
		Track:     track,
		Status:    StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsFrozen reports whether the submission can no longer be edited.
func (s *Submission) IsFrozen() bool {
	return s.Status == StatusFinal
}

// ReadyToFinalize reports whether the draft carries everything judging
// needs: a title, a summary and a repository link.
func (s *Submission) ReadyToFinalize() bool {
	return strings.TrimSpace(s.Title) != "" &&
		strings.TrimSpace(s.Summary) != "" &&
		strings.TrimSpace(s.RepoURL) != ""
}

// validURL accepts empty strings and absolute http(s) URLs.
func validURL(raw string) bool {
	if raw == "" {
		return true
	}
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
