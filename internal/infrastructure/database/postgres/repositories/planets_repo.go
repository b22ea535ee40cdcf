package repositories

import (
	"context"
	"database/sql"

	"github.com/nebulahq/hacknebula/internal/domain/planets"
	"github.com/nebulahq/hacknebula/pkg/errors"
	"github.com/nebulahq/hacknebula/pkg/types/common"
)

// PlanetsRepository implements planets.Repository on PostgreSQL.
type PlanetsRepository struct {
	db *sql.DB
}

// NewPlanetsRepository builds a planets repository.
func NewPlanetsRepository(db *sql.DB) *PlanetsRepository {
	return &PlanetsRepository{db: db}
}

var errLandNotFound = errors.New(errors.ErrCodeLandNotFound, "land not found")

const landColumns = `id, team_id, name, description, points, created_at, updated_at`

func scanLand(s scanner) (*planets.Land, error) {
	var l planets.Land
	err := s.Scan(&l.ID, &l.TeamID, &l.Name, &l.Description, &l.Points, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, mapScanError(err, errLandNotFound)
	}
	return &l, nil
}

// CreateLand inserts a land.  The unique team_id constraint enforces one
// land per team even under concurrent settles.
func (r *PlanetsRepository) CreateLand(ctx context.Context, l *planets.Land) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO lands (id, team_id, name, description, points, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		l.ID, l.TeamID, l.Name, l.Description, l.Points, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.New(errors.ErrCodeLandExists, "team already settled a land")
		}
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "insert land")
	}
	return nil
}

// GetLand loads a land by ID.
func (r *PlanetsRepository) GetLand(ctx context.Context, id common.ID) (*planets.Land, error) {
	return scanLand(r.db.QueryRowContext(ctx,
		`SELECT `+landColumns+` FROM lands WHERE id = $1`, id))
}

// GetLandByTeam loads the team's land.
func (r *PlanetsRepository) GetLandByTeam(ctx context.Context, teamID common.ID) (*planets.Land, error) {
	return scanLand(r.db.QueryRowContext(ctx,
		`SELECT `+landColumns+` FROM lands WHERE team_id = $1`, teamID))
}

// UpdateLand rewrites the land row.
func (r *PlanetsRepository) UpdateLand(ctx context.Context, l *planets.Land) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE lands SET name = $2, description = $3, points = $4, updated_at = NOW()
		WHERE id = $1`,
		l.ID, l.Name, l.Description, l.Points)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "update land")
	}
	return requireRow(res, errLandNotFound)
}

// ListLands pages through lands, highest points first.
func (r *PlanetsRepository) ListLands(ctx context.Context, p common.Pagination) ([]*planets.Land, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM lands`).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "count lands")
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+landColumns+` FROM lands ORDER BY points DESC, created_at LIMIT $1 OFFSET $2`,
		p.PageSize, p.Offset())
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "list lands")
	}
	defer rows.Close()

	var out []*planets.Land
	for rows.Next() {
		l, err := scanLand(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, l)
	}
	return out, total, rows.Err()
}

// AddBuildLog inserts a progress note.
func (r *PlanetsRepository) AddBuildLog(ctx context.Context, log *planets.BuildLog) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO build_logs (id, land_id, author_id, content, scored, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		log.ID, log.LandID, string(log.AuthorID), log.Content, log.Scored, log.CreatedAt)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "insert build log")
	}
	return nil
}

// ListBuildLogs pages through a land's notes, newest first.
func (r *PlanetsRepository) ListBuildLogs(ctx context.Context, landID common.ID, p common.Pagination) ([]*planets.BuildLog, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM build_logs WHERE land_id = $1`, landID).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "count build logs")
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, land_id, author_id, content, scored, created_at
		FROM build_logs WHERE land_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		landID, p.PageSize, p.Offset())
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "list build logs")
	}
	defer rows.Close()

	var out []*planets.BuildLog
	for rows.Next() {
		var l planets.BuildLog
		var authorID string
		if err := rows.Scan(&l.ID, &l.LandID, &authorID, &l.Content, &l.Scored, &l.CreatedAt); err != nil {
			return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "scan build log")
		}
		l.AuthorID = common.UserID(authorID)
		out = append(out, &l)
	}
	return out, total, rows.Err()
}

// CountScoredLogs counts the land's scored entries on one UTC day.
func (r *PlanetsRepository) CountScoredLogs(ctx context.Context, landID common.ID, day common.Day) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM build_logs
		WHERE land_id = $1 AND scored AND to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') = $2`,
		landID, string(day)).Scan(&n)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "count scored logs")
	}
	return n, nil
}

// AddChipAllocation inserts one investor allocation.
func (r *PlanetsRepository) AddChipAllocation(ctx context.Context, a *planets.ChipAllocation) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO chip_allocations (id, land_id, investor_id, amount, day, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.LandID, string(a.InvestorID), a.Amount, string(a.Day), a.CreatedAt)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "insert chip allocation")
	}
	return nil
}

// ListChipAllocations returns a land's allocations, newest first.
func (r *PlanetsRepository) ListChipAllocations(ctx context.Context, landID common.ID) ([]*planets.ChipAllocation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, land_id, investor_id, amount, day, created_at
		FROM chip_allocations WHERE land_id = $1 ORDER BY created_at DESC`, landID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "list chip allocations")
	}
	defer rows.Close()

	var out []*planets.ChipAllocation
	for rows.Next() {
		var a planets.ChipAllocation
		var investorID, day string
		if err := rows.Scan(&a.ID, &a.LandID, &investorID, &a.Amount, &day, &a.CreatedAt); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "scan chip allocation")
		}
		a.InvestorID = common.UserID(investorID)
		a.Day = common.Day(day)
		out = append(out, &a)
	}
	return out, rows.Err()
}

// AddPoints atomically bumps a land's point total.
func (r *PlanetsRepository) AddPoints(ctx context.Context, landID common.ID, delta int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE lands SET points = points + $2, updated_at = NOW() WHERE id = $1`,
		landID, delta)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "add points")
	}
	return requireRow(res, errLandNotFound)
}

// TeamScores returns all lands' points keyed by team.
func (r *PlanetsRepository) TeamScores(ctx context.Context) ([]planets.TeamPoints, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT team_id, id, name, points FROM lands ORDER BY points DESC`)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "team scores")
	}
	defer rows.Close()

	var out []planets.TeamPoints
	for rows.Next() {
		var tp planets.TeamPoints
		if err := rows.Scan(&tp.TeamID, &tp.LandID, &tp.Name, &tp.Points); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "scan team score")
		}
		out = append(out, tp)
	}
	return out, rows.Err()
}
