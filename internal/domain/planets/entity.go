// Package planets implements the progress game behind the galaxy map: each
// team settles a land, logs build progress and collects investor chips.
// The points a land accumulates become the team's award score on the map.
package planets

import (
	"strings"
	"time"

	"github.com/nebulahq/hacknebula/pkg/types/common"
)

const (
	// PointsLandCreated is granted once when a team settles its land.
	PointsLandCreated = 50

	// PointsPerBuildLog is granted per build log entry, at most
	// MaxScoredLogsPerDay times per day.
	PointsPerBuildLog   = 10
	MaxScoredLogsPerDay = 3

	// PointsPerChip is granted per investor chip allocated to the land.
	PointsPerChip = 1

	// DailyChipQuota caps how many chips one investor can hand out per
	// UTC day, across all lands.
	DailyChipQuota = 10

	maxLandNameLength = 60
	maxLogLength      = 1000
)

// Land is a team's settlement.  One per team.
type Land struct {
	ID          common.ID
	TeamID      common.ID
	Name        string
	Description string
	Points      int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BuildLog is one progress note on a land.  Scored reports whether the
// entry counted toward points, which stops after MaxScoredLogsPerDay
// entries in a day.
type BuildLog struct {
	ID        common.ID
	LandID    common.ID
	AuthorID  common.UserID
	Content   string
	Scored    bool
	CreatedAt time.Time
}

// ChipAllocation records one investor handing chips to a land.
type ChipAllocation struct {
	ID         common.ID
	LandID     common.ID
	InvestorID common.UserID
	Amount     int
	Day        common.Day
	CreatedAt  time.Time
}

func nowUTC() time.Time { return time.Now().UTC() }

// NewLand settles a land for a team with the creation bonus applied.
func NewLand(teamID common.ID, name, description string) *Land {
	now := time.Now().UTC()
	return &Land{
		ID:          common.NewID(),
		TeamID:      teamID,
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Points:      PointsLandCreated,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
