package main

import (
	"context"

	"github.com/nebulahq/hacknebula/internal/domain/team"
	"github.com/nebulahq/hacknebula/pkg/types/common"
)

// teamMembership answers membership checks for the submission and planets
// services off the team repository.
type teamMembership struct {
	teams team.Repository
}

func (a teamMembership) IsMember(ctx context.Context, teamID common.ID, userID common.UserID) (bool, error) {
	t, err := a.teams.GetByID(ctx, teamID)
	if err != nil {
		return false, err
	}
	return t.HasMember(userID), nil
}
