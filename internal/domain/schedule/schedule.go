// Package schedule implements the event agenda: workshops, deadlines,
// ceremonies and socials, maintained by organizers.
package schedule

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/nebulahq/hacknebula/internal/domain/activity"
	"github.com/nebulahq/hacknebula/internal/infrastructure/monitoring/logging"
	"github.com/nebulahq/hacknebula/pkg/errors"
	"github.com/nebulahq/hacknebula/pkg/types/common"
)

// Kind classifies agenda items.
type Kind string

const (
	KindWorkshop Kind = "workshop"
	KindDeadline Kind = "deadline"
	KindCeremony Kind = "ceremony"
	KindSocial   Kind = "social"
)

const maxTitleLength = 120

// Item is one agenda entry.
type Item struct {
	ID          common.ID
	Title       string
	Description string
	Kind        Kind
	Location    string
	StartsAt    time.Time
	EndsAt      time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Repository is the persistence contract for agenda items.
type Repository interface {
	Create(ctx context.Context, i *Item) error
	GetByID(ctx context.Context, id common.ID) (*Item, error)
	List(ctx context.Context) ([]*Item, error)
	Update(ctx context.Context, i *Item) error
	Delete(ctx context.Context, id common.ID) error
}

// Service implements agenda rules.
type Service struct {
	repo      Repository
	publisher activity.Publisher
	logger    logging.Logger
}

// NewService wires a schedule service.
func NewService(repo Repository, publisher activity.Publisher, logger logging.Logger) *Service {
	if publisher == nil {
		publisher = activity.NopPublisher{}
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{repo: repo, publisher: publisher, logger: logger}
}

// Input carries the fields of an agenda item.
type Input struct {
	Title       string
	Description string
	Kind        Kind
	Location    string
	StartsAt    time.Time
	EndsAt      time.Time
}

func (in Input) validate() error {
	title := strings.TrimSpace(in.Title)
	if title == "" || len(title) > maxTitleLength {
		return errors.NewValidation("title must be 1-120 characters")
	}
	switch in.Kind {
	case KindWorkshop, KindDeadline, KindCeremony, KindSocial:
	default:
		return errors.New(errors.ErrCodeSessionInvalid, "unknown schedule kind")
	}
	if in.StartsAt.IsZero() {
		return errors.NewValidation("starts_at is required")
	}
	if !in.EndsAt.IsZero() && in.EndsAt.Before(in.StartsAt) {
		return errors.New(errors.ErrCodeSessionInvalid, "ends_at precedes starts_at")
	}
	return nil
}

// Create adds an agenda item.  Organizer only, enforced by the HTTP layer.
func (s *Service) Create(ctx context.Context, actor common.UserID, in Input) (*Item, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	i := &Item{
		ID:          common.NewID(),
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Kind:        in.Kind,
		Location:    strings.TrimSpace(in.Location),
		StartsAt:    in.StartsAt.UTC(),
		EndsAt:      in.EndsAt.UTC(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, i); err != nil {
		return nil, err
	}
	s.announce(ctx, actor, "added "+i.Title+" to the schedule", i.ID)
	return i, nil
}

// Update rewrites an agenda item.
func (s *Service) Update(ctx context.Context, actor common.UserID, id common.ID, in Input) (*Item, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	i, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	i.Title = strings.TrimSpace(in.Title)
	i.Description = strings.TrimSpace(in.Description)
	i.Kind = in.Kind
	i.Location = strings.TrimSpace(in.Location)
	i.StartsAt = in.StartsAt.UTC()
	i.EndsAt = in.EndsAt.UTC()
	i.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, i); err != nil {
		return nil, err
	}
	s.announce(ctx, actor, "updated "+i.Title+" on the schedule", i.ID)
	return i, nil
}

// Delete removes an agenda item.
func (s *Service) Delete(ctx context.Context, actor common.UserID, id common.ID) error {
	i, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.announce(ctx, actor, "removed "+i.Title+" from the schedule", id)
	return nil
}

// Get returns one agenda item.
func (s *Service) Get(ctx context.Context, id common.ID) (*Item, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns the agenda in start order.  With upcomingOnly, items that
// already ended are dropped.
func (s *Service) List(ctx context.Context, upcomingOnly bool) ([]*Item, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if upcomingOnly {
		now := time.Now().UTC()
		kept := items[:0]
		for _, i := range items {
			end := i.EndsAt
			if end.IsZero() {
				end = i.StartsAt
			}
			if !end.Before(now) {
				kept = append(kept, i)
			}
		}
		items = kept
	}
	sort.Slice(items, func(a, b int) bool { return items[a].StartsAt.Before(items[b].StartsAt) })
	return items, nil
}

func (s *Service) announce(ctx context.Context, actor common.UserID, summary string, ref common.ID) {
	e := activity.NewEvent(activity.EventScheduleChanged, actor, summary)
	e.RefID = ref
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.Warn("activity publish failed", logging.Err(err))
	}
}
