package submission

import (
	"context"
	"io"
	"time"

	"github.com/nebulahq/hacknebula/pkg/types/common"
)

// ListFilter narrows submission listings.
type ListFilter struct {
	Track      string
	Status     Status
	Pagination common.Pagination
}

// Repository is the persistence contract for submissions.
type Repository interface {
	Create(ctx context.Context, s *Submission) error
	GetByID(ctx context.Context, id common.ID) (*Submission, error)
	GetByTeam(ctx context.Context, teamID common.ID) (*Submission, error)
	List(ctx context.Context, filter ListFilter) ([]*Submission, int, error)
	Update(ctx context.Context, s *Submission) error

	AddAsset(ctx context.Context, submissionID common.ID, a Asset) error
	RemoveAsset(ctx context.Context, submissionID, assetID common.ID) error
}

// BlobStore abstracts the object storage backing submission assets.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	PresignedGetURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}
