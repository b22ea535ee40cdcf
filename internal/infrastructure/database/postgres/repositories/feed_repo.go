package repositories

import (
	"context"
	"database/sql"

	"github.com/nebulahq/hacknebula/internal/domain/feed"
	"github.com/nebulahq/hacknebula/pkg/errors"
	"github.com/nebulahq/hacknebula/pkg/types/common"
)

// FeedRepository implements feed.Repository on PostgreSQL.
type FeedRepository struct {
	db *sql.DB
}

// NewFeedRepository builds a feed repository.
func NewFeedRepository(db *sql.DB) *FeedRepository {
	return &FeedRepository{db: db}
}

var errPostNotFound = errors.New(errors.ErrCodePostNotFound, "post not found")

const postColumns = `id, author_id, author_name, team_id, kind, content, created_at`

func scanPost(s scanner) (*feed.Post, error) {
	var p feed.Post
	var kind string
	var teamID sql.NullString
	err := s.Scan(&p.ID, &p.AuthorID, &p.AuthorName, &teamID, &kind, &p.Content, &p.CreatedAt)
	if err != nil {
		return nil, mapScanError(err, errPostNotFound)
	}
	p.Kind = feed.Kind(kind)
	if teamID.Valid {
		p.TeamID = common.ID(teamID.String)
	}
	return &p, nil
}

// Create inserts a post.
func (r *FeedRepository) Create(ctx context.Context, p *feed.Post) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO posts (id, author_id, author_name, team_id, kind, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.AuthorID, p.AuthorName, emptyStringNull(string(p.TeamID)),
		string(p.Kind), p.Content, p.CreatedAt)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "insert post")
	}
	return nil
}

// GetByID loads one post.
func (r *FeedRepository) GetByID(ctx context.Context, id common.ID) (*feed.Post, error) {
	return scanPost(r.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE id = $1`, id))
}

// List pages through posts, newest first.
func (r *FeedRepository) List(ctx context.Context, p common.Pagination) ([]*feed.Post, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "count posts")
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+postColumns+` FROM posts ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`,
		p.PageSize, p.Offset())
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "list posts")
	}
	defer rows.Close()

	var out []*feed.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, post)
	}
	return out, total, rows.Err()
}

// Delete removes a post.
func (r *FeedRepository) Delete(ctx context.Context, id common.ID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "delete post")
	}
	return requireRow(res, errPostNotFound)
}
