package repositories

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/nebulahq/hacknebula/internal/domain/judging"
	"github.com/nebulahq/hacknebula/pkg/errors"
	"github.com/nebulahq/hacknebula/pkg/types/common"
)

// JudgingRepository implements judging.Repository on PostgreSQL.  Scores
// are stored as a JSONB column since the rubric is configurable.
type JudgingRepository struct {
	db *sql.DB
}

// NewJudgingRepository builds a judging repository.
func NewJudgingRepository(db *sql.DB) *JudgingRepository {
	return &JudgingRepository{db: db}
}

var errScorecardNotFound = errors.New(errors.ErrCodeScorecardNotFound, "scorecard not found")

func scanScorecard(s scanner) (*judging.Scorecard, error) {
	var c judging.Scorecard
	var judgeID string
	var scores []byte
	err := s.Scan(&c.ID, &judgeID, &c.TeamID, &scores, &c.Comment, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, mapScanError(err, errScorecardNotFound)
	}
	c.JudgeID = common.UserID(judgeID)
	if err := json.Unmarshal(scores, &c.Scores); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "decode scores")
	}
	return &c, nil
}

// Upsert stores the card, keyed on (judge_id, team_id).
func (r *JudgingRepository) Upsert(ctx context.Context, c *judging.Scorecard) error {
	scores, err := json.Marshal(c.Scores)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "encode scores")
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO scorecards (id, judge_id, team_id, scores, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (judge_id, team_id) DO UPDATE
		SET scores = EXCLUDED.scores, comment = EXCLUDED.comment, updated_at = EXCLUDED.updated_at`,
		c.ID, string(c.JudgeID), c.TeamID, scores, c.Comment, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "upsert scorecard")
	}
	return nil
}

// GetByJudgeAndTeam loads one judge's card for one team.
func (r *JudgingRepository) GetByJudgeAndTeam(ctx context.Context, judgeID common.UserID, teamID common.ID) (*judging.Scorecard, error) {
	return scanScorecard(r.db.QueryRowContext(ctx, `
		SELECT id, judge_id, team_id, scores, comment, created_at, updated_at
		FROM scorecards WHERE judge_id = $1 AND team_id = $2`,
		string(judgeID), teamID))
}

// ListByTeam returns every card filed against a team.
func (r *JudgingRepository) ListByTeam(ctx context.Context, teamID common.ID) ([]*judging.Scorecard, error) {
	return r.list(ctx, `
		SELECT id, judge_id, team_id, scores, comment, created_at, updated_at
		FROM scorecards WHERE team_id = $1 ORDER BY updated_at DESC`, teamID)
}

// ListByJudge returns everything one judge has filed.
func (r *JudgingRepository) ListByJudge(ctx context.Context, judgeID common.UserID) ([]*judging.Scorecard, error) {
	return r.list(ctx, `
		SELECT id, judge_id, team_id, scores, comment, created_at, updated_at
		FROM scorecards WHERE judge_id = $1 ORDER BY updated_at DESC`, string(judgeID))
}

// Standings aggregates weighted averages per team, best first.  The rubric
// weights live in application code, so aggregation happens here over the
// default rubric shape held in each row.
func (r *JudgingRepository) Standings(ctx context.Context) ([]judging.TeamStanding, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT s.team_id, t.name, COUNT(*) AS cards, AVG(
			COALESCE((s.scores->>'innovation')::float, 0) * 0.3 +
			COALESCE((s.scores->>'execution')::float, 0) * 0.3 +
			COALESCE((s.scores->>'design')::float, 0) * 0.2 +
			COALESCE((s.scores->>'presentation')::float, 0) * 0.2
		) * 10 AS award_score
		FROM scorecards s
		JOIN teams t ON t.id = s.team_id
		GROUP BY s.team_id, t.name
		ORDER BY award_score DESC`)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "aggregate standings")
	}
	defer rows.Close()

	var out []judging.TeamStanding
	for rows.Next() {
		var st judging.TeamStanding
		if err := rows.Scan(&st.TeamID, &st.TeamName, &st.Scorecards, &st.AwardScore); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "scan standing")
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (r *JudgingRepository) list(ctx context.Context, query string, arg any) ([]*judging.Scorecard, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "list scorecards")
	}
	defer rows.Close()

	var out []*judging.Scorecard
	for rows.Next() {
		c, err := scanScorecard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
