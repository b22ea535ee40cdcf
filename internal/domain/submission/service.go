package submission

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/nebulahq/hacknebula/internal/domain/activity"
	"github.com/nebulahq/hacknebula/internal/infrastructure/monitoring/logging"
	"github.com/nebulahq/hacknebula/pkg/errors"
	"github.com/nebulahq/hacknebula/pkg/types/common"
)

// TeamMembership answers whether a user belongs to a team.  The team
// package provides the real implementation; keeping an interface here avoids
// a package cycle.
type TeamMembership interface {
	IsMember(ctx context.Context, teamID common.ID, userID common.UserID) (bool, error)
}

// Service implements submission rules on top of the repository and blob
// store.
type Service struct {
	repo         Repository
	blobs        BlobStore
	membership   TeamMembership
	publisher    activity.Publisher
	logger       logging.Logger
	maxAssetSize int64
	urlExpiry    time.Duration

	// deadline freezes all drafts once passed.  Zero means no deadline.
	deadline time.Time
}

// Options configures the submission service.
type Options struct {
	MaxAssetSize int64
	URLExpiry    time.Duration
	Deadline     time.Time
}

// NewService wires a submission service.
func NewService(repo Repository, blobs BlobStore, membership TeamMembership, publisher activity.Publisher, logger logging.Logger, opts Options) *Service {
	if publisher == nil {
		publisher = activity.NopPublisher{}
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if opts.MaxAssetSize <= 0 {
		opts.MaxAssetSize = 64 << 20
	}
	if opts.URLExpiry <= 0 {
		opts.URLExpiry = 15 * time.Minute
	}
	return &Service{
		repo:         repo,
		blobs:        blobs,
		membership:   membership,
		publisher:    publisher,
		logger:       logger,
		maxAssetSize: opts.MaxAssetSize,
		urlExpiry:    opts.URLExpiry,
		deadline:     opts.Deadline,
	}
}

// DraftInput carries editable submission fields.  Nil pointers leave the
// stored value untouched.
type DraftInput struct {
	Title       *string
	Summary     *string
	Description *string
	RepoURL     *string
	DemoURL     *string
	VideoURL    *string
	Track       *string
}

// UpsertDraft creates or updates the caller's team draft.
func (s *Service) UpsertDraft(ctx context.Context, actor common.UserID, teamID common.ID, in DraftInput) (*Submission, error) {
	if err := s.requireMember(ctx, teamID, actor); err != nil {
		return nil, err
	}

	sub, err := s.repo.GetByTeam(ctx, teamID)
	switch {
	case errors.IsNotFound(err):
		sub = NewDraft(teamID, deref(in.Track))
		if err := s.repo.Create(ctx, sub); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	}

	if sub.IsFrozen() {
		return nil, errors.New(errors.ErrCodeSubmissionFrozen, "submission is finalized and cannot be edited")
	}
	if s.deadlinePassed() {
		return nil, errors.New(errors.ErrCodeSubmissionFrozen, "submission deadline has passed")
	}

	if err := applyDraft(sub, in); err != nil {
		return nil, err
	}
	sub.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, sub); err != nil {
		return nil, err
	}

	s.publish(ctx, sub, actor, activity.EventSubmissionUpdated, "updated their submission")
	return sub, nil
}

// Finalize freezes the team's draft for judging.
func (s *Service) Finalize(ctx context.Context, actor common.UserID, teamID common.ID) (*Submission, error) {
	if err := s.requireMember(ctx, teamID, actor); err != nil {
		return nil, err
	}

	sub, err := s.repo.GetByTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if sub.IsFrozen() {
		return sub, nil
	}
	if s.deadlinePassed() {
		return nil, errors.New(errors.ErrCodeSubmissionFrozen, "submission deadline has passed")
	}
	if !sub.ReadyToFinalize() {
		return nil, errors.New(errors.ErrCodeSubmissionIncomplete,
			"submission needs a title, summary and repository link before finalizing")
	}

	now := time.Now().UTC()
	sub.Status = StatusFinal
	sub.SubmittedAt = &now
	sub.UpdatedAt = now
	if err := s.repo.Update(ctx, sub); err != nil {
		return nil, err
	}

	s.publish(ctx, sub, actor, activity.EventSubmissionFinal, "finalized their submission")
	s.logger.Info("submission finalized",
		logging.String("submission_id", sub.ID.String()),
		logging.String("team_id", sub.TeamID.String()))
	return sub, nil
}

// Withdraw returns a finalized submission to draft so the team can edit
// and resubmit.  Blocked once the deadline has passed.
func (s *Service) Withdraw(ctx context.Context, actor common.UserID, teamID common.ID) (*Submission, error) {
	if err := s.requireMember(ctx, teamID, actor); err != nil {
		return nil, err
	}

	sub, err := s.repo.GetByTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if !sub.IsFrozen() {
		return sub, nil
	}
	if s.deadlinePassed() {
		return nil, errors.New(errors.ErrCodeSubmissionFrozen, "submission deadline has passed")
	}

	sub.Status = StatusDraft
	sub.SubmittedAt = nil
	sub.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, sub); err != nil {
		return nil, err
	}

	s.publish(ctx, sub, actor, activity.EventSubmissionWithdrawn, "withdrew their submission")
	return sub, nil
}

// Get returns a submission by ID.
func (s *Service) Get(ctx context.Context, id common.ID) (*Submission, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByTeam returns the team's submission.
func (s *Service) GetByTeam(ctx context.Context, teamID common.ID) (*Submission, error) {
	return s.repo.GetByTeam(ctx, teamID)
}

// List returns submissions matching the filter plus the total match count.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Submission, int, error) {
	filter.Pagination = filter.Pagination.Normalize()
	return s.repo.List(ctx, filter)
}

// AttachAsset streams an upload into object storage and links it to the
// team draft.
func (s *Service) AttachAsset(ctx context.Context, actor common.UserID, teamID common.ID, kind AssetKind, fileName, contentType string, size int64, r io.Reader) (*Asset, error) {
	if err := s.requireMember(ctx, teamID, actor); err != nil {
		return nil, err
	}
	if size <= 0 || size > s.maxAssetSize {
		return nil, errors.New(errors.ErrCodeAssetTooLarge,
			fmt.Sprintf("asset size must be between 1 byte and %d bytes", s.maxAssetSize))
	}

	sub, err := s.repo.GetByTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if sub.IsFrozen() || s.deadlinePassed() {
		return nil, errors.New(errors.ErrCodeSubmissionFrozen, "submission is frozen")
	}

	a := Asset{
		ID:          common.NewID(),
		Kind:        kind,
		ObjectKey:   path.Join("submissions", sub.ID.String(), common.NewID().String()+"-"+sanitizeFileName(fileName)),
		FileName:    fileName,
		Size:        size,
		ContentType: contentType,
		UploadedAt:  time.Now().UTC(),
	}

	if err := s.blobs.Put(ctx, a.ObjectKey, r, size, contentType); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "store asset")
	}
	if err := s.repo.AddAsset(ctx, sub.ID, a); err != nil {
		// The blob is orphaned; best effort cleanup.
		if delErr := s.blobs.Delete(ctx, a.ObjectKey); delErr != nil {
			s.logger.Warn("orphaned asset blob",
				logging.String("object_key", a.ObjectKey),
				logging.Err(delErr))
		}
		return nil, err
	}
	return &a, nil
}

// RemoveAsset unlinks and deletes an uploaded asset.
func (s *Service) RemoveAsset(ctx context.Context, actor common.UserID, teamID, assetID common.ID) error {
	if err := s.requireMember(ctx, teamID, actor); err != nil {
		return err
	}

	sub, err := s.repo.GetByTeam(ctx, teamID)
	if err != nil {
		return err
	}
	if sub.IsFrozen() || s.deadlinePassed() {
		return errors.New(errors.ErrCodeSubmissionFrozen, "submission is frozen")
	}

	var target *Asset
	for i := range sub.Assets {
		if sub.Assets[i].ID == assetID {
			target = &sub.Assets[i]
			break
		}
	}
	if target == nil {
		return errors.New(errors.ErrCodeAssetNotFound, "asset not found")
	}

	if err := s.repo.RemoveAsset(ctx, sub.ID, assetID); err != nil {
		return err
	}
	if err := s.blobs.Delete(ctx, target.ObjectKey); err != nil {
		s.logger.Warn("asset blob delete failed",
			logging.String("object_key", target.ObjectKey),
			logging.Err(err))
	}
	return nil
}

// AssetURL returns a short-lived download URL for an asset.
func (s *Service) AssetURL(ctx context.Context, submissionID, assetID common.ID) (string, error) {
	sub, err := s.repo.GetByID(ctx, submissionID)
	if err != nil {
		return "", err
	}
	for _, a := range sub.Assets {
		if a.ID == assetID {
			u, err := s.blobs.PresignedGetURL(ctx, a.ObjectKey, s.urlExpiry)
			if err != nil {
				return "", errors.Wrap(err, errors.ErrCodeStorageError, "presign asset url")
			}
			return u, nil
		}
	}
	return "", errors.New(errors.ErrCodeAssetNotFound, "asset not found")
}

func (s *Service) requireMember(ctx context.Context, teamID common.ID, userID common.UserID) error {
	ok, err := s.membership.IsMember(ctx, teamID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New(errors.ErrCodeNotTeamMember, "only team members can manage the submission")
	}
	return nil
}

func (s *Service) deadlinePassed() bool {
	return !s.deadline.IsZero() && time.Now().UTC().After(s.deadline)
}

func (s *Service) publish(ctx context.Context, sub *Submission, actor common.UserID, t activity.EventType, summary string) {
	e := activity.NewEvent(t, actor, summary)
	e.TeamID = sub.TeamID
	e.RefID = sub.ID
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.Warn("activity publish failed",
			logging.String("type", string(t)),
			logging.Err(err))
	}
}

func applyDraft(sub *Submission, in DraftInput) error {
	if in.Title != nil {
		if len(*in.Title) > maxTitleLength {
			return errors.NewValidation("title too long")
		}
		sub.Title = strings.TrimSpace(*in.Title)
	}
	if in.Summary != nil {
		if len(*in.Summary) > maxSummaryLength {
			return errors.NewValidation("summary too long")
		}
		sub.Summary = strings.TrimSpace(*in.Summary)
	}
	if in.Description != nil {
		if len(*in.Description) > maxBodyLength {
			return errors.NewValidation("description too long")
		}
		sub.Description = strings.TrimSpace(*in.Description)
	}
	for _, link := range []struct {
		val  *string
		dst  *string
		name string
	}{
		{in.RepoURL, &sub.RepoURL, "repo_url"},
		{in.DemoURL, &sub.DemoURL, "demo_url"},
		{in.VideoURL, &sub.VideoURL, "video_url"},
	} {
		if link.val == nil {
			continue
		}
		if !validURL(*link.val) {
			return errors.NewValidation(link.name + " must be an absolute http(s) URL")
		}
		*link.dst = *link.val
	}
	if in.Track != nil {
		sub.Track = *in.Track
	}
	return nil
}

func sanitizeFileName(name string) string {
	name = path.Base(name)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, name)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
