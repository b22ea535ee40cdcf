package planets

import (
	"context"
	"fmt"
	"strings"

	"github.com/nebulahq/hacknebula/internal/domain/activity"
	"github.com/nebulahq/hacknebula/internal/infrastructure/monitoring/logging"
	"github.com/nebulahq/hacknebula/pkg/errors"
	"github.com/nebulahq/hacknebula/pkg/types/common"
)

// TeamMembership answers whether a user belongs to a team.  Mirrors the
// submission package's contract to avoid a cycle with the team package.
type TeamMembership interface {
	IsMember(ctx context.Context, teamID common.ID, userID common.UserID) (bool, error)
}

// Service implements land settlement, build logging and chip allocation.
type Service struct {
	repo       Repository
	quota      QuotaCounter
	membership TeamMembership
	publisher  activity.Publisher
	logger     logging.Logger
}

// NewService wires a planets service.
func NewService(repo Repository, quota QuotaCounter, membership TeamMembership, publisher activity.Publisher, logger logging.Logger) *Service {
	if publisher == nil {
		publisher = activity.NopPublisher{}
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{repo: repo, quota: quota, membership: membership, publisher: publisher, logger: logger}
}

// CreateLand settles the team's land.  One land per team; the creation
// bonus is applied exactly once.
func (s *Service) CreateLand(ctx context.Context, actor common.UserID, teamID common.ID, name, description string) (*Land, error) {
	if err := s.requireMember(ctx, teamID, actor); err != nil {
		return nil, err
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || len(trimmed) > maxLandNameLength {
		return nil, errors.NewValidation("land name must be 1-60 characters")
	}

	if existing, err := s.repo.GetLandByTeam(ctx, teamID); err == nil && existing != nil {
		return nil, errors.New(errors.ErrCodeLandExists, "team already settled a land")
	} else if err != nil && !errors.IsNotFound(err) {
		return nil, err
	}

	l := NewLand(teamID, name, description)
	if err := s.repo.CreateLand(ctx, l); err != nil {
		return nil, err
	}

	e := activity.NewEvent(activity.EventLandCreated, actor, "settled land "+l.Name)
	e.TeamID = teamID
	e.RefID = l.ID
	s.publish(ctx, e)
	return l, nil
}

// GetLand returns a land by ID.
func (s *Service) GetLand(ctx context.Context, id common.ID) (*Land, error) {
	return s.repo.GetLand(ctx, id)
}

// GetLandByTeam returns the team's land.
func (s *Service) GetLandByTeam(ctx context.Context, teamID common.ID) (*Land, error) {
	return s.repo.GetLandByTeam(ctx, teamID)
}

// ListLands pages through all settled lands.
func (s *Service) ListLands(ctx context.Context, p common.Pagination) ([]*Land, int, error) {
	return s.repo.ListLands(ctx, p.Normalize())
}

// AddBuildLog records a progress note on the caller's land.  The first
// MaxScoredLogsPerDay entries per UTC day score points; later entries are
// stored but unscored.
func (s *Service) AddBuildLog(ctx context.Context, actor common.UserID, landID common.ID, content string) (*BuildLog, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, errors.New(errors.ErrCodeBuildLogEmpty, "build log content must not be empty")
	}
	if len(trimmed) > maxLogLength {
		return nil, errors.NewValidation("build log too long")
	}

	l, err := s.repo.GetLand(ctx, landID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, l.TeamID, actor); err != nil {
		return nil, err
	}

	today := common.Today()
	scoredToday, err := s.repo.CountScoredLogs(ctx, landID, today)
	if err != nil {
		return nil, err
	}

	log := &BuildLog{
		ID:        common.NewID(),
		LandID:    landID,
		AuthorID:  actor,
		Content:   trimmed,
		Scored:    scoredToday < MaxScoredLogsPerDay,
		CreatedAt: nowUTC(),
	}
	if err := s.repo.AddBuildLog(ctx, log); err != nil {
		return nil, err
	}
	if log.Scored {
		if err := s.repo.AddPoints(ctx, landID, PointsPerBuildLog); err != nil {
			return nil, err
		}
	}

	e := activity.NewEvent(activity.EventBuildLogAdded, actor, "logged progress on "+l.Name)
	e.TeamID = l.TeamID
	e.RefID = landID
	s.publish(ctx, e)
	return log, nil
}

// ListBuildLogs pages through a land's progress notes, newest first.
func (s *Service) ListBuildLogs(ctx context.Context, landID common.ID, p common.Pagination) ([]*BuildLog, int, error) {
	if _, err := s.repo.GetLand(ctx, landID); err != nil {
		return nil, 0, err
	}
	return s.repo.ListBuildLogs(ctx, landID, p.Normalize())
}

// AllocateChips hands investor chips to a land.  Each investor spends at
// most DailyChipQuota chips per UTC day, and cannot invest in their own
// team's land.
func (s *Service) AllocateChips(ctx context.Context, investor common.UserID, landID common.ID, amount int) (*ChipAllocation, error) {
	if amount <= 0 || amount > DailyChipQuota {
		return nil, errors.New(errors.ErrCodeChipAmountInvalid,
			fmt.Sprintf("chip amount must be between 1 and %d", DailyChipQuota))
	}

	l, err := s.repo.GetLand(ctx, landID)
	if err != nil {
		return nil, err
	}
	if ok, err := s.membership.IsMember(ctx, l.TeamID, investor); err != nil {
		return nil, err
	} else if ok {
		return nil, errors.New(errors.ErrCodeSelfAllocation, "cannot allocate chips to your own team")
	}

	today := common.Today()
	spent, err := s.quota.Spend(ctx, investor, today, amount)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCacheError, "chip quota check")
	}
	if spent > DailyChipQuota {
		if err := s.quota.Refund(ctx, investor, today, amount); err != nil {
			s.logger.Warn("chip quota refund failed",
				logging.String("investor", string(investor)),
				logging.Err(err))
		}
		return nil, errors.New(errors.ErrCodeChipQuotaExceeded,
			fmt.Sprintf("daily quota of %d chips exhausted", DailyChipQuota))
	}

	a := &ChipAllocation{
		ID:         common.NewID(),
		LandID:     landID,
		InvestorID: investor,
		Amount:     amount,
		Day:        today,
		CreatedAt:  nowUTC(),
	}
	if err := s.repo.AddChipAllocation(ctx, a); err != nil {
		if refundErr := s.quota.Refund(ctx, investor, today, amount); refundErr != nil {
			s.logger.Warn("chip quota refund failed",
				logging.String("investor", string(investor)),
				logging.Err(refundErr))
		}
		return nil, err
	}
	if err := s.repo.AddPoints(ctx, landID, amount*PointsPerChip); err != nil {
		return nil, err
	}

	e := activity.NewEvent(activity.EventChipsAllocated, investor,
		fmt.Sprintf("invested %d chips in %s", amount, l.Name))
	e.TeamID = l.TeamID
	e.RefID = landID
	s.publish(ctx, e)
	return a, nil
}

// RemainingQuota returns how many chips the investor can still spend today.
func (s *Service) RemainingQuota(ctx context.Context, investor common.UserID) (int, error) {
	spent, err := s.quota.Spent(ctx, investor, common.Today())
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeCacheError, "chip quota read")
	}
	remaining := DailyChipQuota - spent
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// TeamScores returns every team's points for map rendering and the
// leaderboard.
func (s *Service) TeamScores(ctx context.Context) ([]TeamPoints, error) {
	return s.repo.TeamScores(ctx)
}

func (s *Service) requireMember(ctx context.Context, teamID common.ID, userID common.UserID) error {
	ok, err := s.membership.IsMember(ctx, teamID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New(errors.ErrCodeNotTeamMember, "caller is not on this team")
	}
	return nil
}

func (s *Service) publish(ctx context.Context, e activity.Event) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.Warn("activity publish failed",
			logging.String("type", string(e.Type)),
			logging.Err(err))
	}
}
