package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/nebulahq/hacknebula/internal/domain/team"
	"github.com/nebulahq/hacknebula/pkg/errors"
	"github.com/nebulahq/hacknebula/pkg/types/common"
)

// TeamRepository implements team.Repository on PostgreSQL.
type TeamRepository struct {
	db *sql.DB
}

// NewTeamRepository builds a team repository.
func NewTeamRepository(db *sql.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

var errTeamNotFound = errors.New(errors.ErrCodeTeamNotFound, "team not found")

const teamColumns = `id, name, description, track, invite_code, member_limit, locked, created_at, updated_at`

func scanTeam(s scanner) (*team.Team, error) {
	var t team.Team
	err := s.Scan(&t.ID, &t.Name, &t.Description, &t.Track, &t.InviteCode,
		&t.MemberLimit, &t.Locked, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, mapScanError(err, errTeamNotFound)
	}
	return &t, nil
}

// Create inserts a team and its initial members in one transaction.
func (r *TeamRepository) Create(ctx context.Context, t *team.Team) error {
	return WithTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO teams (id, name, description, track, invite_code, member_limit, locked, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			t.ID, t.Name, t.Description, t.Track, t.InviteCode,
			t.MemberLimit, t.Locked, t.CreatedAt, t.UpdatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return errors.New(errors.ErrCodeTeamNameTaken, "team name already taken")
			}
			return errors.Wrap(err, errors.ErrCodeDatabaseError, "insert team")
		}
		for _, m := range t.Members {
			if err := insertMember(ctx, tx, t.ID, m); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetByID loads a team with its members.
func (r *TeamRepository) GetByID(ctx context.Context, id common.ID) (*team.Team, error) {
	return r.getOne(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = $1`, id)
}

// GetByName loads a team by exact name.
func (r *TeamRepository) GetByName(ctx context.Context, name string) (*team.Team, error) {
	return r.getOne(ctx, `SELECT `+teamColumns+` FROM teams WHERE name = $1`, name)
}

// GetByInviteCode loads a team by join code.
func (r *TeamRepository) GetByInviteCode(ctx context.Context, code string) (*team.Team, error) {
	return r.getOne(ctx, `SELECT `+teamColumns+` FROM teams WHERE invite_code = $1`, code)
}

// GetByMember loads the team a user belongs to.
func (r *TeamRepository) GetByMember(ctx context.Context, userID common.UserID) (*team.Team, error) {
	return r.getOne(ctx, `
		SELECT `+prefixedTeamColumns("t")+`
		FROM teams t
		JOIN team_members m ON m.team_id = t.id
		WHERE m.user_id = $1`, string(userID))
}

// List returns teams matching the filter plus the total match count.
func (r *TeamRepository) List(ctx context.Context, filter team.ListFilter) ([]*team.Team, int, error) {
	where := []string{"1=1"}
	args := []any{}
	if filter.Track != "" {
		args = append(args, filter.Track)
		where = append(where, fmt.Sprintf("track = $%d", len(args)))
	}
	if filter.NameQuery != "" {
		args = append(args, "%"+strings.ToLower(filter.NameQuery)+"%")
		where = append(where, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM teams WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "count teams")
	}

	args = append(args, filter.Pagination.PageSize, filter.Pagination.Offset())
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT %s FROM teams WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		teamColumns, cond, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "list teams")
	}
	defer rows.Close()

	var teams []*team.Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, 0, err
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "iterate teams")
	}

	for _, t := range teams {
		if err := r.loadMembers(ctx, t); err != nil {
			return nil, 0, err
		}
	}
	return teams, total, nil
}

// Update rewrites the team row.  Membership changes go through AddMember
// and friends.
func (r *TeamRepository) Update(ctx context.Context, t *team.Team) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE teams
		SET name = $2, description = $3, track = $4, invite_code = $5,
		    member_limit = $6, locked = $7, updated_at = NOW()
		WHERE id = $1`,
		t.ID, t.Name, t.Description, t.Track, t.InviteCode, t.MemberLimit, t.Locked)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.New(errors.ErrCodeTeamNameTaken, "team name already taken")
		}
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "update team")
	}
	return requireRow(res, errTeamNotFound)
}

// Delete removes the team; members cascade.
func (r *TeamRepository) Delete(ctx context.Context, id common.ID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "delete team")
	}
	return requireRow(res, errTeamNotFound)
}

// AddMember appends a member row.
func (r *TeamRepository) AddMember(ctx context.Context, teamID common.ID, m team.Member) error {
	return insertMember(ctx, r.db, teamID, m)
}

// RemoveMember drops a member row.
func (r *TeamRepository) RemoveMember(ctx context.Context, teamID common.ID, userID common.UserID) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM team_members WHERE team_id = $1 AND user_id = $2`,
		teamID, string(userID))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "remove member")
	}
	return requireRow(res, errors.New(errors.ErrCodeNotTeamMember, "user is not on this team"))
}

// SetMemberRole flips a member's role.
func (r *TeamRepository) SetMemberRole(ctx context.Context, teamID common.ID, userID common.UserID, role team.MemberRole) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE team_members SET role = $3 WHERE team_id = $1 AND user_id = $2`,
		teamID, string(userID), string(role))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "set member role")
	}
	return requireRow(res, errors.New(errors.ErrCodeNotTeamMember, "user is not on this team"))
}

func (r *TeamRepository) getOne(ctx context.Context, query string, arg any) (*team.Team, error) {
	t, err := scanTeam(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		return nil, err
	}
	if err := r.loadMembers(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TeamRepository) loadMembers(ctx context.Context, t *team.Team) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, display_name, role, joined_at
		FROM team_members WHERE team_id = $1
		ORDER BY joined_at`, t.ID)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "load members")
	}
	defer rows.Close()

	t.Members = t.Members[:0]
	for rows.Next() {
		var m team.Member
		var userID, role string
		if err := rows.Scan(&userID, &m.DisplayName, &role, &m.JoinedAt); err != nil {
			return errors.Wrap(err, errors.ErrCodeDatabaseError, "scan member")
		}
		m.UserID = common.UserID(userID)
		m.Role = team.MemberRole(role)
		t.Members = append(t.Members, m)
	}
	return rows.Err()
}

func insertMember(ctx context.Context, q queryExecutor, teamID common.ID, m team.Member) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO team_members (team_id, user_id, display_name, role, joined_at)
		VALUES ($1, $2, $3, $4, $5)`,
		teamID, string(m.UserID), m.DisplayName, string(m.Role), m.JoinedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.New(errors.ErrCodeAlreadyOnTeam, "user already belongs to a team")
		}
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "insert member")
	}
	return nil
}

func prefixedTeamColumns(alias string) string {
	cols := strings.Split(teamColumns, ", ")
	for i, c := range cols {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}
