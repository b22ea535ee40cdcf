package team

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nebulahq/hacknebula/pkg/errors"
	"github.com/nebulahq/hacknebula/pkg/types/common"
)

// fakeRepo is an in-memory Repository for service tests.
type fakeRepo struct {
	teams map[common.ID]*Team
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{teams: map[common.ID]*Team{}}
}

func (f *fakeRepo) Create(_ context.Context, t *Team) error {
	cp := *t
	f.teams[t.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id common.ID) (*Team, error) {
	t, ok := f.teams[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeTeamNotFound, "team not found")
	}
	cp := *t
	return &cp, nil
}

func (f *fakeRepo) GetByName(_ context.Context, name string) (*Team, error) {
	for _, t := range f.teams {
		if t.Name == name {
			cp := *t
			return &cp, nil
		}
	}
	return nil, errors.New(errors.ErrCodeTeamNotFound, "team not found")
}

func (f *fakeRepo) GetByInviteCode(_ context.Context, code string) (*Team, error) {
	for _, t := range f.teams {
		if t.InviteCode == code {
			cp := *t
			return &cp, nil
		}
	}
	return nil, errors.New(errors.ErrCodeTeamNotFound, "team not found")
}

func (f *fakeRepo) GetByMember(_ context.Context, userID common.UserID) (*Team, error) {
	for _, t := range f.teams {
		if t.HasMember(userID) {
			cp := *t
			return &cp, nil
		}
	}
	return nil, errors.New(errors.ErrCodeTeamNotFound, "team not found")
}

func (f *fakeRepo) List(_ context.Context, _ ListFilter) ([]*Team, int, error) {
	out := make([]*Team, 0, len(f.teams))
	for _, t := range f.teams {
		cp := *t
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Update(_ context.Context, t *Team) error {
	if _, ok := f.teams[t.ID]; !ok {
		return errors.New(errors.ErrCodeTeamNotFound, "team not found")
	}
	cp := *t
	f.teams[t.ID] = &cp
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id common.ID) error {
	delete(f.teams, id)
	return nil
}

func (f *fakeRepo) AddMember(_ context.Context, teamID common.ID, m Member) error {
	t, ok := f.teams[teamID]
	if !ok {
		return errors.New(errors.ErrCodeTeamNotFound, "team not found")
	}
	t.Members = append(t.Members, m)
	return nil
}

func (f *fakeRepo) RemoveMember(_ context.Context, teamID common.ID, userID common.UserID) error {
	t, ok := f.teams[teamID]
	if !ok {
		return errors.New(errors.ErrCodeTeamNotFound, "team not found")
	}
	for i, m := range t.Members {
		if m.UserID == userID {
			t.Members = append(t.Members[:i], t.Members[i+1:]...)
			return nil
		}
	}
	return errors.New(errors.ErrCodeNotTeamMember, "not a member")
}

func (f *fakeRepo) SetMemberRole(_ context.Context, teamID common.ID, userID common.UserID, role MemberRole) error {
	t, ok := f.teams[teamID]
	if !ok {
		return errors.New(errors.ErrCodeTeamNotFound, "team not found")
	}
	for i := range t.Members {
		if t.Members[i].UserID == userID {
			t.Members[i].Role = role
			return nil
		}
	}
	return errors.New(errors.ErrCodeNotTeamMember, "not a member")
}

func newTestService() (*Service, *fakeRepo) {
	repo := newFakeRepo()
	return NewService(repo, nil, nil), repo
}

func TestService_Create(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, _ := newTestService()
	created, err := svc.Create(ctx, CreateInput{
		Name: "Orbital Mechanics", Track: "space",
		CreatorID: "alice", CreatorName: "Alice",
	})
	require.NoError(t, err)
	assert.Len(t, created.Members, 1)
	assert.True(t, created.IsLeader("alice"))
	assert.Len(t, created.InviteCode, 8)

	t.Run("duplicate name rejected", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateInput{Name: "Orbital Mechanics", CreatorID: "bob"})
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrCodeTeamNameTaken))
	})

	t.Run("creator already on a team", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateInput{Name: "Second Team", CreatorID: "alice"})
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrCodeAlreadyOnTeam))
	})

	t.Run("blank name rejected", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateInput{Name: "   ", CreatorID: "carol"})
		require.Error(t, err)
		assert.True(t, errors.IsValidation(err))
	})
}

func TestService_Join(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, repo := newTestService()
	created, err := svc.Create(ctx, CreateInput{Name: "Gophers", CreatorID: "alice", CreatorName: "Alice"})
	require.NoError(t, err)

	joined, err := svc.Join(ctx, "bob", "Bob", created.InviteCode)
	require.NoError(t, err)
	assert.True(t, joined.HasMember("bob"))

	t.Run("bad code", func(t *testing.T) {
		_, err := svc.Join(ctx, "carol", "Carol", "deadbeef")
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("double join rejected", func(t *testing.T) {
		_, err := svc.Join(ctx, "bob", "Bob", created.InviteCode)
		assert.True(t, errors.IsCode(err, errors.ErrCodeAlreadyOnTeam))
	})

	t.Run("locked team rejects joins", func(t *testing.T) {
		repo.teams[created.ID].Locked = true
		_, err := svc.Join(ctx, "dave", "Dave", created.InviteCode)
		assert.True(t, errors.IsCode(err, errors.ErrCodeTeamLocked))
		repo.teams[created.ID].Locked = false
	})

	t.Run("full team rejects joins", func(t *testing.T) {
		repo.teams[created.ID].MemberLimit = 2
		_, err := svc.Join(ctx, "erin", "Erin", created.InviteCode)
		assert.True(t, errors.IsCode(err, errors.ErrCodeTeamFull))
	})
}

func TestService_Leave(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, repo := newTestService()
	created, err := svc.Create(ctx, CreateInput{Name: "Leavers", CreatorID: "alice", CreatorName: "Alice"})
	require.NoError(t, err)
	_, err = svc.Join(ctx, "bob", "Bob", created.InviteCode)
	require.NoError(t, err)

	t.Run("leader with members must transfer first", func(t *testing.T) {
		err := svc.Leave(ctx, "alice")
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrCodeLastLeaderLeaving))
	})

	t.Run("member leaves cleanly", func(t *testing.T) {
		require.NoError(t, svc.Leave(ctx, "bob"))
		assert.False(t, repo.teams[created.ID].HasMember("bob"))
	})

	t.Run("last leader disbands the team", func(t *testing.T) {
		require.NoError(t, svc.Leave(ctx, "alice"))
		_, err := svc.Get(ctx, created.ID)
		assert.True(t, errors.IsNotFound(err))
	})
}

func TestService_TransferLeadership(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, repo := newTestService()
	created, err := svc.Create(ctx, CreateInput{Name: "Handovers", CreatorID: "alice", CreatorName: "Alice"})
	require.NoError(t, err)
	_, err = svc.Join(ctx, "bob", "Bob", created.InviteCode)
	require.NoError(t, err)

	t.Run("non-leader cannot transfer", func(t *testing.T) {
		err := svc.TransferLeadership(ctx, "bob", created.ID, "bob")
		assert.True(t, errors.IsCode(err, errors.ErrCodeNotTeamMember))
	})

	t.Run("leader hands over", func(t *testing.T) {
		require.NoError(t, svc.TransferLeadership(ctx, "alice", created.ID, "bob"))
		assert.True(t, repo.teams[created.ID].IsLeader("bob"))
		assert.False(t, repo.teams[created.ID].IsLeader("alice"))
	})
}

func TestService_Kick(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, repo := newTestService()
	created, err := svc.Create(ctx, CreateInput{Name: "Bouncers", CreatorID: "alice", CreatorName: "Alice"})
	require.NoError(t, err)
	_, err = svc.Join(ctx, "bob", "Bob", created.InviteCode)
	require.NoError(t, err)

	t.Run("leader cannot kick self", func(t *testing.T) {
		err := svc.Kick(ctx, "alice", created.ID, "alice")
		assert.True(t, errors.IsValidation(err))
	})

	t.Run("member cannot kick", func(t *testing.T) {
		err := svc.Kick(ctx, "bob", created.ID, "alice")
		assert.True(t, errors.IsCode(err, errors.ErrCodeNotTeamMember))
	})

	t.Run("leader kicks member", func(t *testing.T) {
		require.NoError(t, svc.Kick(ctx, "alice", created.ID, "bob"))
		assert.False(t, repo.teams[created.ID].HasMember("bob"))
	})
}

func TestService_RegenerateInviteCode(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, _ := newTestService()
	created, err := svc.Create(ctx, CreateInput{Name: "Rotators", CreatorID: "alice", CreatorName: "Alice"})
	require.NoError(t, err)

	rotated, err := svc.RegenerateInviteCode(ctx, "alice", created.ID)
	require.NoError(t, err)
	assert.NotEqual(t, created.InviteCode, rotated.InviteCode)
	assert.Len(t, rotated.InviteCode, 8)
}
