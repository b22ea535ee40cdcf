package team

import (
	"context"
	"fmt"
	"strings"

	"github.com/nebulahq/hacknebula/internal/domain/activity"
	"github.com/nebulahq/hacknebula/internal/infrastructure/monitoring/logging"
	"github.com/nebulahq/hacknebula/pkg/errors"
	"github.com/nebulahq/hacknebula/pkg/types/common"
)

// Service implements team formation rules on top of the repository.
type Service struct {
	repo      Repository
	publisher activity.Publisher
	logger    logging.Logger
}

// NewService wires a team service.  A nil publisher or logger degrades to
// no-ops.
func NewService(repo Repository, publisher activity.Publisher, logger logging.Logger) *Service {
	if publisher == nil {
		publisher = activity.NopPublisher{}
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{repo: repo, publisher: publisher, logger: logger}
}

// CreateInput carries the fields for a new team.
type CreateInput struct {
	Name        string
	Description string
	Track       string
	CreatorID   common.UserID
	CreatorName string
}

// Create registers a new team with the creator as leader.  A user already
// on a team cannot create another one.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Team, error) {
	if !validateName(in.Name) {
		return nil, errors.NewValidation("team name must be 1-60 characters")
	}
	if len(in.Description) > maxDescriptionLength {
		return nil, errors.NewValidation("team description too long")
	}

	if existing, err := s.repo.GetByMember(ctx, in.CreatorID); err == nil && existing != nil {
		return nil, errors.New(errors.ErrCodeAlreadyOnTeam, "user already belongs to a team").
			WithDetail(fmt.Sprintf("team %s", existing.ID))
	} else if err != nil && !errors.IsNotFound(err) {
		return nil, err
	}

	if _, err := s.repo.GetByName(ctx, strings.TrimSpace(in.Name)); err == nil {
		return nil, errors.New(errors.ErrCodeTeamNameTaken, "team name already taken")
	} else if !errors.IsNotFound(err) {
		return nil, err
	}

	t := New(in.Name, in.Description, in.Track, in.CreatorID, in.CreatorName)
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	s.publish(ctx, eventFor(activity.EventTeamCreated, in.CreatorID, t, "created team "+t.Name))
	s.logger.Info("team created",
		logging.String("team_id", t.ID.String()),
		logging.String("name", t.Name))
	return t, nil
}

// Get returns a team by ID.
func (s *Service) Get(ctx context.Context, id common.ID) (*Team, error) {
	return s.repo.GetByID(ctx, id)
}

// GetMine returns the caller's team, or a TEAM_001 error when they have
// none.
func (s *Service) GetMine(ctx context.Context, userID common.UserID) (*Team, error) {
	return s.repo.GetByMember(ctx, userID)
}

// List returns teams matching the filter plus the total match count.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Team, int, error) {
	filter.Pagination = filter.Pagination.Normalize()
	return s.repo.List(ctx, filter)
}

// UpdateInput carries mutable team fields.  Nil pointers leave the current
// value untouched.
type UpdateInput struct {
	Name        *string
	Description *string
	Track       *string
	Locked      *bool
}

// Update applies leader-only edits to a team.
func (s *Service) Update(ctx context.Context, actor common.UserID, teamID common.ID, in UpdateInput) (*Team, error) {
	t, err := s.repo.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if !t.IsLeader(actor) {
		return nil, errors.New(errors.ErrCodeNotTeamMember, "only the team leader can edit the team")
	}

	if in.Name != nil && *in.Name != t.Name {
		if !validateName(*in.Name) {
			return nil, errors.NewValidation("team name must be 1-60 characters")
		}
		if _, err := s.repo.GetByName(ctx, strings.TrimSpace(*in.Name)); err == nil {
			return nil, errors.New(errors.ErrCodeTeamNameTaken, "team name already taken")
		} else if !errors.IsNotFound(err) {
			return nil, err
		}
		t.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		if len(*in.Description) > maxDescriptionLength {
			return nil, errors.NewValidation("team description too long")
		}
		t.Description = strings.TrimSpace(*in.Description)
	}
	if in.Track != nil {
		t.Track = *in.Track
	}
	if in.Locked != nil {
		t.Locked = *in.Locked
	}

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Join adds the caller to the team behind the invite code.
func (s *Service) Join(ctx context.Context, userID common.UserID, displayName, inviteCode string) (*Team, error) {
	if existing, err := s.repo.GetByMember(ctx, userID); err == nil && existing != nil {
		return nil, errors.New(errors.ErrCodeAlreadyOnTeam, "user already belongs to a team")
	} else if err != nil && !errors.IsNotFound(err) {
		return nil, err
	}

	t, err := s.repo.GetByInviteCode(ctx, strings.TrimSpace(inviteCode))
	if err != nil {
		return nil, err
	}
	if t.Locked {
		return nil, errors.New(errors.ErrCodeTeamLocked, "team is not accepting new members")
	}
	if t.IsFull() {
		return nil, errors.New(errors.ErrCodeTeamFull, "team is full")
	}

	m := Member{UserID: userID, DisplayName: displayName, Role: RoleMember, JoinedAt: nowUTC()}
	if err := s.repo.AddMember(ctx, t.ID, m); err != nil {
		return nil, err
	}
	t.Members = append(t.Members, m)

	s.publish(ctx, eventFor(activity.EventTeamMemberJoined, userID, t, displayName+" joined "+t.Name))
	return t, nil
}

// Leave removes the caller from their team.  A leader must transfer
// leadership first unless they are the last member, in which case the team
// disbands.
func (s *Service) Leave(ctx context.Context, userID common.UserID) error {
	t, err := s.repo.GetByMember(ctx, userID)
	if err != nil {
		return err
	}

	if t.IsLeader(userID) {
		if len(t.Members) > 1 {
			return errors.New(errors.ErrCodeLastLeaderLeaving, "transfer leadership before leaving")
		}
		if err := s.repo.Delete(ctx, t.ID); err != nil {
			return err
		}
		s.publish(ctx, eventFor(activity.EventTeamMemberLeft, userID, t, "team "+t.Name+" disbanded"))
		return nil
	}

	if err := s.repo.RemoveMember(ctx, t.ID, userID); err != nil {
		return err
	}
	s.publish(ctx, eventFor(activity.EventTeamMemberLeft, userID, t, "a member left "+t.Name))
	return nil
}

// Kick removes a member.  Leader only, and the leader cannot kick
// themselves.
func (s *Service) Kick(ctx context.Context, actor common.UserID, teamID common.ID, target common.UserID) error {
	t, err := s.repo.GetByID(ctx, teamID)
	if err != nil {
		return err
	}
	if !t.IsLeader(actor) {
		return errors.New(errors.ErrCodeNotTeamMember, "only the team leader can remove members")
	}
	if actor == target {
		return errors.NewValidation("leader cannot kick themselves, leave or transfer instead")
	}
	if !t.HasMember(target) {
		return errors.New(errors.ErrCodeNotTeamMember, "user is not on this team")
	}
	return s.repo.RemoveMember(ctx, teamID, target)
}

// TransferLeadership hands the leader role to another member.
func (s *Service) TransferLeadership(ctx context.Context, actor common.UserID, teamID common.ID, target common.UserID) error {
	t, err := s.repo.GetByID(ctx, teamID)
	if err != nil {
		return err
	}
	if !t.IsLeader(actor) {
		return errors.New(errors.ErrCodeNotTeamMember, "only the team leader can transfer leadership")
	}
	if !t.HasMember(target) {
		return errors.New(errors.ErrCodeNotTeamMember, "target user is not on this team")
	}
	if actor == target {
		return nil
	}

	if err := s.repo.SetMemberRole(ctx, teamID, actor, RoleMember); err != nil {
		return err
	}
	return s.repo.SetMemberRole(ctx, teamID, target, RoleLeader)
}

// RegenerateInviteCode rotates the join code.  Leader only.
func (s *Service) RegenerateInviteCode(ctx context.Context, actor common.UserID, teamID common.ID) (*Team, error) {
	t, err := s.repo.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if !t.IsLeader(actor) {
		return nil, errors.New(errors.ErrCodeNotTeamMember, "only the team leader can rotate the invite code")
	}
	t.InviteCode = NewInviteCode()
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) publish(ctx context.Context, e activity.Event) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.Warn("activity publish failed",
			logging.String("type", string(e.Type)),
			logging.Err(err))
	}
}

func eventFor(t activity.EventType, actor common.UserID, team *Team, summary string) activity.Event {
	e := activity.NewEvent(t, actor, summary)
	e.TeamID = team.ID
	e.RefID = team.ID
	return e
}
