package feed

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nebulahq/hacknebula/internal/domain/activity"
	"github.com/nebulahq/hacknebula/pkg/errors"
	"github.com/nebulahq/hacknebula/pkg/types/common"
)

type fakeRepo struct {
	posts map[common.ID]*Post
}

func newFakeRepo() *fakeRepo { return &fakeRepo{posts: map[common.ID]*Post{}} }

func (f *fakeRepo) Create(_ context.Context, p *Post) error {
	cp := *p
	f.posts[p.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id common.ID) (*Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return nil, errors.New(errors.ErrCodePostNotFound, "post not found")
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) List(_ context.Context, _ common.Pagination) ([]*Post, int, error) {
	var out []*Post
	for _, p := range f.posts {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, len(out), nil
}

func (f *fakeRepo) Delete(_ context.Context, id common.ID) error {
	delete(f.posts, id)
	return nil
}

func TestService_Publish(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := NewService(newFakeRepo(), nil, nil)

	p, err := svc.Publish(ctx, PublishInput{AuthorID: "alice", AuthorName: "Alice", Content: "we shipped!"})
	require.NoError(t, err)
	assert.Equal(t, KindPost, p.Kind)

	t.Run("empty content rejected", func(t *testing.T) {
		_, err := svc.Publish(ctx, PublishInput{AuthorID: "alice", Content: "   "})
		assert.True(t, errors.IsCode(err, errors.ErrCodePostEmpty))
	})
}

func TestService_RecordActivity(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo, nil, nil)

	e := activity.NewEvent(activity.EventLandCreated, "bob", "settled land Terra")
	require.NoError(t, svc.RecordActivity(ctx, e))

	posts, _, err := svc.List(ctx, common.Pagination{})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, KindActivity, posts[0].Kind)
	assert.Equal(t, "settled land Terra", posts[0].Content)
}

func TestService_Delete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := NewService(newFakeRepo(), nil, nil)

	p, err := svc.Publish(ctx, PublishInput{AuthorID: "alice", Content: "mine"})
	require.NoError(t, err)

	t.Run("stranger cannot delete", func(t *testing.T) {
		err := svc.Delete(ctx, "mallory", []common.Role{common.RoleParticipant}, p.ID)
		assert.True(t, errors.IsForbidden(err))
	})

	t.Run("organizer deletes anything", func(t *testing.T) {
		q, err := svc.Publish(ctx, PublishInput{AuthorID: "bob", Content: "spam"})
		require.NoError(t, err)
		require.NoError(t, svc.Delete(ctx, "moderator", []common.Role{common.RoleOrganizer}, q.ID))
	})

	t.Run("author deletes own post", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, "alice", nil, p.ID))
		_, _, err := svc.List(ctx, common.Pagination{})
		require.NoError(t, err)
	})
}
