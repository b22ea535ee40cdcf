package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/nebulahq/hacknebula/internal/domain/submission"
	"github.com/nebulahq/hacknebula/pkg/errors"
	"github.com/nebulahq/hacknebula/pkg/types/common"
)

// SubmissionRepository implements submission.Repository on PostgreSQL.
type SubmissionRepository struct {
	db *sql.DB
}

// NewSubmissionRepository builds a submission repository.
func NewSubmissionRepository(db *sql.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

var errSubmissionNotFound = errors.New(errors.ErrCodeSubmissionNotFound, "submission not found")

const submissionColumns = `id, team_id, title, summary, description, repo_url, demo_url, video_url, track, status, submitted_at, created_at, updated_at`

func scanSubmission(s scanner) (*submission.Submission, error) {
	var sub submission.Submission
	var status string
	var submittedAt sql.NullTime
	err := s.Scan(&sub.ID, &sub.TeamID, &sub.Title, &sub.Summary, &sub.Description,
		&sub.RepoURL, &sub.DemoURL, &sub.VideoURL, &sub.Track, &status,
		&submittedAt, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return nil, mapScanError(err, errSubmissionNotFound)
	}
	sub.Status = submission.Status(status)
	if submittedAt.Valid {
		t := submittedAt.Time
		sub.SubmittedAt = &t
	}
	return &sub, nil
}

// Create inserts a new draft.
func (r *SubmissionRepository) Create(ctx context.Context, s *submission.Submission) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO submissions (id, team_id, title, summary, description, repo_url, demo_url, video_url, track, status, submitted_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		s.ID, s.TeamID, s.Title, s.Summary, s.Description,
		s.RepoURL, s.DemoURL, s.VideoURL, s.Track, string(s.Status),
		nullableTime(s.SubmittedAt), s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Conflict("team already has a submission")
		}
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "insert submission")
	}
	return nil
}

// GetByID loads a submission with its assets.
func (r *SubmissionRepository) GetByID(ctx context.Context, id common.ID) (*submission.Submission, error) {
	return r.getOne(ctx, `SELECT `+submissionColumns+` FROM submissions WHERE id = $1`, id)
}

// GetByTeam loads the team's submission with its assets.
func (r *SubmissionRepository) GetByTeam(ctx context.Context, teamID common.ID) (*submission.Submission, error) {
	return r.getOne(ctx, `SELECT `+submissionColumns+` FROM submissions WHERE team_id = $1`, teamID)
}

// List returns submissions matching the filter plus the total match count.
func (r *SubmissionRepository) List(ctx context.Context, filter submission.ListFilter) ([]*submission.Submission, int, error) {
	where := []string{"1=1"}
	args := []any{}
	if filter.Track != "" {
		args = append(args, filter.Track)
		where = append(where, fmt.Sprintf("track = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM submissions WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "count submissions")
	}

	args = append(args, filter.Pagination.PageSize, filter.Pagination.Offset())
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT %s FROM submissions WHERE %s ORDER BY updated_at DESC LIMIT $%d OFFSET $%d`,
		submissionColumns, cond, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "list submissions")
	}
	defer rows.Close()

	var subs []*submission.Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, 0, err
		}
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "iterate submissions")
	}

	for _, s := range subs {
		if err := r.loadAssets(ctx, s); err != nil {
			return nil, 0, err
		}
	}
	return subs, total, nil
}

// Update rewrites the submission row.
func (r *SubmissionRepository) Update(ctx context.Context, s *submission.Submission) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE submissions
		SET title = $2, summary = $3, description = $4, repo_url = $5,
		    demo_url = $6, video_url = $7, track = $8, status = $9,
		    submitted_at = $10, updated_at = $11
		WHERE id = $1`,
		s.ID, s.Title, s.Summary, s.Description, s.RepoURL,
		s.DemoURL, s.VideoURL, s.Track, string(s.Status),
		nullableTime(s.SubmittedAt), s.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "update submission")
	}
	return requireRow(res, errSubmissionNotFound)
}

// AddAsset links an uploaded asset.
func (r *SubmissionRepository) AddAsset(ctx context.Context, submissionID common.ID, a submission.Asset) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO submission_assets (id, submission_id, kind, object_key, file_name, size, content_type, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, submissionID, string(a.Kind), a.ObjectKey, a.FileName, a.Size, a.ContentType, a.UploadedAt)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "insert asset")
	}
	return nil
}

// RemoveAsset unlinks an asset.
func (r *SubmissionRepository) RemoveAsset(ctx context.Context, submissionID, assetID common.ID) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM submission_assets WHERE submission_id = $1 AND id = $2`,
		submissionID, assetID)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "delete asset")
	}
	return requireRow(res, errors.New(errors.ErrCodeAssetNotFound, "asset not found"))
}

func (r *SubmissionRepository) getOne(ctx context.Context, query string, arg any) (*submission.Submission, error) {
	s, err := scanSubmission(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		return nil, err
	}
	if err := r.loadAssets(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SubmissionRepository) loadAssets(ctx context.Context, s *submission.Submission) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, kind, object_key, file_name, size, content_type, uploaded_at
		FROM submission_assets WHERE submission_id = $1
		ORDER BY uploaded_at`, s.ID)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "load assets")
	}
	defer rows.Close()

	s.Assets = s.Assets[:0]
	for rows.Next() {
		var a submission.Asset
		var kind string
		if err := rows.Scan(&a.ID, &kind, &a.ObjectKey, &a.FileName, &a.Size, &a.ContentType, &a.UploadedAt); err != nil {
			return errors.Wrap(err, errors.ErrCodeDatabaseError, "scan asset")
		}
		a.Kind = submission.AssetKind(kind)
		s.Assets = append(s.Assets, a)
	}
	return rows.Err()
}

func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
