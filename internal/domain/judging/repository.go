package judging

import (
	"context"

	"github.com/nebulahq/hacknebula/pkg/types/common"
)

// Repository is the persistence contract for scorecards.
type Repository interface {
	// Upsert stores the card, replacing any earlier card by the same
	// judge for the same team.
	Upsert(ctx context.Context, c *Scorecard) error
	GetByJudgeAndTeam(ctx context.Context, judgeID common.UserID, teamID common.ID) (*Scorecard, error)
	ListByTeam(ctx context.Context, teamID common.ID) ([]*Scorecard, error)
	ListByJudge(ctx context.Context, judgeID common.UserID) ([]*Scorecard, error)

	// Standings aggregates all cards into per-team averages, best first.
	Standings(ctx context.Context) ([]TeamStanding, error)
}
