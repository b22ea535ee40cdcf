package team

import (
	"context"

	"github.com/nebulahq/hacknebula/pkg/types/common"
)

// ListFilter narrows team listings.
type ListFilter struct {
	Track      string
	NameQuery  string
	Pagination common.Pagination
}

// Repository is the persistence contract for teams.  Implementations return
// a TEAM_001 not-found error when the requested team does not exist.
type Repository interface {
	Create(ctx context.Context, t *Team) error
	GetByID(ctx context.Context, id common.ID) (*Team, error)
	GetByName(ctx context.Context, name string) (*Team, error)
	GetByInviteCode(ctx context.Context, code string) (*Team, error)
	GetByMember(ctx context.Context, userID common.UserID) (*Team, error)
	List(ctx context.Context, filter ListFilter) ([]*Team, int, error)
	Update(ctx context.Context, t *Team) error
	Delete(ctx context.Context, id common.ID) error

	AddMember(ctx context.Context, teamID common.ID, m Member) error
	RemoveMember(ctx context.Context, teamID common.ID, userID common.UserID) error
	SetMemberRole(ctx context.Context, teamID common.ID, userID common.UserID, role MemberRole) error
}
