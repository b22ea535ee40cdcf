package planets

import (
	"context"

	"github.com/nebulahq/hacknebula/pkg/types/common"
)

// TeamPoints is one team's accumulated score, the input to the galaxy map.
type TeamPoints struct {
	TeamID common.ID `json:"team_id"`
	LandID common.ID `json:"land_id"`
	Name   string    `json:"name"`
	Points int       `json:"points"`
}

// Repository is the persistence contract for lands, build logs and chip
// allocations.
type Repository interface {
	CreateLand(ctx context.Context, l *Land) error
	GetLand(ctx context.Context, id common.ID) (*Land, error)
	GetLandByTeam(ctx context.Context, teamID common.ID) (*Land, error)
	UpdateLand(ctx context.Context, l *Land) error
	ListLands(ctx context.Context, p common.Pagination) ([]*Land, int, error)

	AddBuildLog(ctx context.Context, log *BuildLog) error
	ListBuildLogs(ctx context.Context, landID common.ID, p common.Pagination) ([]*BuildLog, int, error)
	// CountScoredLogs returns how many scored entries the land already
	// has on the given day.
	CountScoredLogs(ctx context.Context, landID common.ID, day common.Day) (int, error)

	AddChipAllocation(ctx context.Context, a *ChipAllocation) error
	ListChipAllocations(ctx context.Context, landID common.ID) ([]*ChipAllocation, error)

	// AddPoints atomically adds delta to the land's point total.
	AddPoints(ctx context.Context, landID common.ID, delta int) error

	// TeamScores returns every land's points keyed by team.
	TeamScores(ctx context.Context) ([]TeamPoints, error)
}

// QuotaCounter tracks investor chip spend per UTC day.  The Redis
// implementation keys counters by investor and day with an expiry at
// midnight.
type QuotaCounter interface {
	// Spend atomically adds amount to the investor's counter for the day
	// and returns the new total.
	Spend(ctx context.Context, investorID common.UserID, day common.Day, amount int) (int, error)
	// Refund undoes a spend after a failed allocation.
	Refund(ctx context.Context, investorID common.UserID, day common.Day, amount int) error
	// Spent returns the amount used so far for the day.
	Spent(ctx context.Context, investorID common.UserID, day common.Day) (int, error)
}
