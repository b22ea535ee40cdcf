// Package judging implements scorecards and the award leaderboard.
package judging

import (
	"time"

	"github.com/nebulahq/hacknebula/pkg/types/common"
)

const (
	// MinScore and MaxScore bound each criterion score.
	MinScore = 0
	MaxScore = 10

	maxCommentLength = 2000
)

// Criterion is one judged dimension with its weight in the final score.
type Criterion struct {
	Key    string  `json:"key"`
	Label  string  `json:"label"`
	Weight float64 `json:"weight"`
}

// DefaultCriteria is the rubric applied when an event does not override it.
// Weights sum to 1.
var DefaultCriteria = []Criterion{
	{Key: "innovation", Label: "Innovation", Weight: 0.3},
	{Key: "execution", Label: "Execution", Weight: 0.3},
	{Key: "design", Label: "Design", Weight: 0.2},
	{Key: "presentation", Label: "Presentation", Weight: 0.2},
}

// Scorecard is one judge's evaluation of one team.  A judge keeps exactly
// one scorecard per team; resubmitting replaces the scores.
type Scorecard struct {
	ID        common.ID
	JudgeID   common.UserID
	TeamID    common.ID
	Scores    map[string]float64
	Comment   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WeightedTotal computes the 0-10 weighted score of one card against the
// rubric.  Criteria missing from the card count as zero.
func (c *Scorecard) WeightedTotal(criteria []Criterion) float64 {
	var total float64
	for _, crit := range criteria {
		total += c.Scores[crit.Key] * crit.Weight
	}
	return total
}

// TeamStanding is one row of the leaderboard.
type TeamStanding struct {
	TeamID     common.ID `json:"team_id"`
	TeamName   string    `json:"team_name"`
	Scorecards int       `json:"scorecards"`
	// AwardScore is the judge average scaled to 0-100.
	AwardScore float64 `json:"award_score"`
}
