// Package feed implements the event-wide activity feed: user posts plus
// projected platform activity, newest first.
package feed

import (
	"context"
	"strings"
	"time"

	"github.com/nebulahq/hacknebula/internal/domain/activity"
	"github.com/nebulahq/hacknebula/internal/infrastructure/monitoring/logging"
	"github.com/nebulahq/hacknebula/pkg/errors"
	"github.com/nebulahq/hacknebula/pkg/types/common"
)

// Kind distinguishes hand-written posts from projected activity.
type Kind string

const (
	KindPost         Kind = "post"
	KindAnnouncement Kind = "announcement"
	KindActivity     Kind = "activity"
)

const maxPostLength = 1000

// Post is one feed entry.
type Post struct {
	ID         common.ID
	AuthorID   common.UserID
	AuthorName string
	TeamID     common.ID
	Kind       Kind
	Content    string
	CreatedAt  time.Time
}

// Repository is the persistence contract for the feed.
type Repository interface {
	Create(ctx context.Context, p *Post) error
	GetByID(ctx context.Context, id common.ID) (*Post, error)
	// List returns posts newest first.
	List(ctx context.Context, pagination common.Pagination) ([]*Post, int, error)
	Delete(ctx context.Context, id common.ID) error
}

// Service implements feed rules.
type Service struct {
	repo      Repository
	publisher activity.Publisher
	logger    logging.Logger
}

// NewService wires a feed service.
func NewService(repo Repository, publisher activity.Publisher, logger logging.Logger) *Service {
	if publisher == nil {
		publisher = activity.NopPublisher{}
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{repo: repo, publisher: publisher, logger: logger}
}

// PublishInput carries a new post.
type PublishInput struct {
	AuthorID   common.UserID
	AuthorName string
	TeamID     common.ID
	Kind       Kind
	Content    string
}

// Publish stores a post.  Announcements are organizer-only, enforced by the
// HTTP layer.
func (s *Service) Publish(ctx context.Context, in PublishInput) (*Post, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, errors.New(errors.ErrCodePostEmpty, "post content must not be empty")
	}
	if len(content) > maxPostLength {
		return nil, errors.NewValidation("post too long")
	}
	kind := in.Kind
	if kind == "" {
		kind = KindPost
	}

	p := &Post{
		ID:         common.NewID(),
		AuthorID:   in.AuthorID,
		AuthorName: in.AuthorName,
		TeamID:     in.TeamID,
		Kind:       kind,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	e := activity.NewEvent(activity.EventPostPublished, in.AuthorID, "posted to the feed")
	e.TeamID = in.TeamID
	e.RefID = p.ID
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.Warn("activity publish failed", logging.Err(err))
	}
	return p, nil
}

// RecordActivity projects a platform activity event into the feed.  Called
// by the activity worker, not by HTTP handlers.
func (s *Service) RecordActivity(ctx context.Context, e activity.Event) error {
	if strings.TrimSpace(e.Summary) == "" {
		return errors.New(errors.ErrCodePostEmpty, "activity summary must not be empty")
	}
	p := &Post{
		ID:        common.NewID(),
		AuthorID:  e.ActorID,
		TeamID:    e.TeamID,
		Kind:      KindActivity,
		Content:   e.Summary,
		CreatedAt: e.OccurredAt,
	}
	return s.repo.Create(ctx, p)
}

// List pages through the feed, newest first.
func (s *Service) List(ctx context.Context, p common.Pagination) ([]*Post, int, error) {
	return s.repo.List(ctx, p.Normalize())
}

// Delete removes a post.  Authors delete their own posts; organizers delete
// anything.
func (s *Service) Delete(ctx context.Context, actor common.UserID, actorRoles []common.Role, id common.ID) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p.AuthorID != actor && !common.HasRole(actorRoles, common.RoleOrganizer) {
		return errors.Forbidden("only the author or an organizer can delete a post")
	}
	return s.repo.Delete(ctx, id)
}
