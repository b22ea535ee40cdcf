package repositories

import (
	"context"
	"database/sql"

	"github.com/nebulahq/hacknebula/internal/domain/schedule"
	"github.com/nebulahq/hacknebula/pkg/errors"
	"github.com/nebulahq/hacknebula/pkg/types/common"
)

// ScheduleRepository implements schedule.Repository on PostgreSQL.
type ScheduleRepository struct {
	db *sql.DB
}

// NewScheduleRepository builds a schedule repository.
func NewScheduleRepository(db *sql.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

var errSessionNotFound = errors.New(errors.ErrCodeSessionNotFound, "schedule item not found")

const scheduleColumns = `id, title, description, kind, location, starts_at, ends_at, created_at, updated_at`

func scanItem(s scanner) (*schedule.Item, error) {
	var i schedule.Item
	var kind string
	var endsAt sql.NullTime
	err := s.Scan(&i.ID, &i.Title, &i.Description, &kind, &i.Location,
		&i.StartsAt, &endsAt, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, mapScanError(err, errSessionNotFound)
	}
	i.Kind = schedule.Kind(kind)
	if endsAt.Valid {
		i.EndsAt = endsAt.Time
	}
	return &i, nil
}

// Create inserts an agenda item.
func (r *ScheduleRepository) Create(ctx context.Context, i *schedule.Item) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO schedule_items (id, title, description, kind, location, starts_at, ends_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		i.ID, i.Title, i.Description, string(i.Kind), i.Location,
		i.StartsAt, zeroTimeNull(i.EndsAt), i.CreatedAt, i.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "insert schedule item")
	}
	return nil
}

// GetByID loads one agenda item.
func (r *ScheduleRepository) GetByID(ctx context.Context, id common.ID) (*schedule.Item, error) {
	return scanItem(r.db.QueryRowContext(ctx,
		`SELECT `+scheduleColumns+` FROM schedule_items WHERE id = $1`, id))
}

// List returns the whole agenda.
func (r *ScheduleRepository) List(ctx context.Context) ([]*schedule.Item, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+scheduleColumns+` FROM schedule_items ORDER BY starts_at`)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "list schedule")
	}
	defer rows.Close()

	var out []*schedule.Item
	for rows.Next() {
		i, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

// Update rewrites one agenda item.
func (r *ScheduleRepository) Update(ctx context.Context, i *schedule.Item) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE schedule_items
		SET title = $2, description = $3, kind = $4, location = $5,
		    starts_at = $6, ends_at = $7, updated_at = $8
		WHERE id = $1`,
		i.ID, i.Title, i.Description, string(i.Kind), i.Location,
		i.StartsAt, zeroTimeNull(i.EndsAt), i.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "update schedule item")
	}
	return requireRow(res, errSessionNotFound)
}

// Delete removes one agenda item.
func (r *ScheduleRepository) Delete(ctx context.Context, id common.ID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM schedule_items WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "delete schedule item")
	}
	return requireRow(res, errSessionNotFound)
}
