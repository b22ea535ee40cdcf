package judging

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/nebulahq/hacknebula/internal/domain/activity"
	"github.com/nebulahq/hacknebula/internal/infrastructure/monitoring/logging"
	"github.com/nebulahq/hacknebula/pkg/errors"
	"github.com/nebulahq/hacknebula/pkg/types/common"
)

// Window bounds the judging period.  Zero values leave that side open.
type Window struct {
	OpensAt  time.Time
	ClosesAt time.Time
}

// Open reports whether judging accepts scorecards at t.
func (w Window) Open(t time.Time) bool {
	if !w.OpensAt.IsZero() && t.Before(w.OpensAt) {
		return false
	}
	if !w.ClosesAt.IsZero() && t.After(w.ClosesAt) {
		return false
	}
	return true
}

// Service implements scorecard rules on top of the repository.
type Service struct {
	repo      Repository
	criteria  []Criterion
	window    Window
	publisher activity.Publisher
	logger    logging.Logger
	now       func() time.Time
}

// NewService wires a judging service with the given rubric.  An empty or
// unbalanced rubric falls back to DefaultCriteria.
func NewService(repo Repository, criteria []Criterion, window Window, publisher activity.Publisher, logger logging.Logger) *Service {
	if err := ValidateCriteria(criteria); err != nil {
		if logger != nil && len(criteria) > 0 {
			logger.Warn("rejecting configured rubric", logging.Err(err))
		}
		criteria = DefaultCriteria
	}
	if publisher == nil {
		publisher = activity.NopPublisher{}
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{
		repo:      repo,
		criteria:  criteria,
		window:    window,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// ValidateCriteria checks a rubric: every criterion needs a key and a
// positive weight, and the weights must sum to 1.
func ValidateCriteria(criteria []Criterion) error {
	if len(criteria) == 0 {
		return errors.NewValidation("rubric is empty")
	}
	var sum float64
	seen := make(map[string]struct{}, len(criteria))
	for _, c := range criteria {
		if c.Key == "" {
			return errors.NewValidation("criterion key is empty")
		}
		if _, dup := seen[c.Key]; dup {
			return errors.NewValidation(fmt.Sprintf("duplicate criterion %q", c.Key))
		}
		seen[c.Key] = struct{}{}
		if c.Weight <= 0 {
			return errors.NewValidation(fmt.Sprintf("criterion %q has non-positive weight", c.Key))
		}
		sum += c.Weight
	}
	if math.Abs(sum-1) > 1e-9 {
		return errors.NewValidation(fmt.Sprintf("criterion weights sum to %g, want 1", sum))
	}
	return nil
}

// Criteria returns the rubric in effect.
func (s *Service) Criteria() []Criterion {
	return s.criteria
}

// SubmitInput carries one scorecard submission.
type SubmitInput struct {
	JudgeID common.UserID
	TeamID  common.ID
	Scores  map[string]float64
	Comment string
}

// Submit validates and stores a scorecard, replacing the judge's earlier
// card for the team if one exists.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*Scorecard, error) {
	if !s.window.Open(s.now()) {
		return nil, errors.New(errors.ErrCodeJudgingClosed, "judging window is closed")
	}
	if err := s.validateScores(in.Scores); err != nil {
		return nil, err
	}
	if len(in.Comment) > maxCommentLength {
		return nil, errors.NewValidation("comment too long")
	}

	now := s.now()
	card := &Scorecard{
		ID:        common.NewID(),
		JudgeID:   in.JudgeID,
		TeamID:    in.TeamID,
		Scores:    in.Scores,
		Comment:   in.Comment,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if existing, err := s.repo.GetByJudgeAndTeam(ctx, in.JudgeID, in.TeamID); err == nil {
		card.ID = existing.ID
		card.CreatedAt = existing.CreatedAt
	} else if !errors.IsNotFound(err) {
		return nil, err
	}

	if err := s.repo.Upsert(ctx, card); err != nil {
		return nil, err
	}

	e := activity.NewEvent(activity.EventScorecardSubmitted, in.JudgeID, "a judge scored a team")
	e.TeamID = in.TeamID
	e.RefID = card.ID
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.Warn("activity publish failed", logging.Err(err))
	}
	return card, nil
}

// GetMine returns the judge's card for a team.
func (s *Service) GetMine(ctx context.Context, judgeID common.UserID, teamID common.ID) (*Scorecard, error) {
	return s.repo.GetByJudgeAndTeam(ctx, judgeID, teamID)
}

// ListByTeam returns all cards filed against one team.
func (s *Service) ListByTeam(ctx context.Context, teamID common.ID) ([]*Scorecard, error) {
	return s.repo.ListByTeam(ctx, teamID)
}

// ListByJudge returns everything one judge has filed.
func (s *Service) ListByJudge(ctx context.Context, judgeID common.UserID) ([]*Scorecard, error) {
	return s.repo.ListByJudge(ctx, judgeID)
}

// Standings returns the leaderboard, best team first.
func (s *Service) Standings(ctx context.Context) ([]TeamStanding, error) {
	return s.repo.Standings(ctx)
}

func (s *Service) validateScores(scores map[string]float64) error {
	if len(scores) == 0 {
		return errors.NewValidation("scores must not be empty")
	}
	known := make(map[string]bool, len(s.criteria))
	for _, c := range s.criteria {
		known[c.Key] = true
	}
	for key, v := range scores {
		if !known[key] {
			return errors.New(errors.ErrCodeCriteriaInvalid, fmt.Sprintf("unknown criterion %q", key))
		}
		if math.IsNaN(v) || v < MinScore || v > MaxScore {
			return errors.New(errors.ErrCodeScoreOutOfRange,
				fmt.Sprintf("score for %q must be between %d and %d", key, MinScore, MaxScore))
		}
	}
	for _, c := range s.criteria {
		if _, ok := scores[c.Key]; !ok {
			return errors.New(errors.ErrCodeCriteriaInvalid, fmt.Sprintf("missing criterion %q", c.Key))
		}
	}
	return nil
}
