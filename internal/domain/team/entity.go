// Package team implements team formation: creation, invite-code joins,
// membership and leadership transfer.
package team

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/nebulahq/hacknebula/pkg/types/common"
)

const (
	// DefaultMemberLimit is the member cap applied when an event does not
	// override it.
	DefaultMemberLimit = 5

	maxNameLength        = 60
	maxDescriptionLength = 500
)

// MemberRole distinguishes the team leader from regular members.
type MemberRole string

const (
	RoleLeader MemberRole = "leader"
	RoleMember MemberRole = "member"
)

// Team is a hackathon team.
type Team struct {
	ID          common.ID
	Name        string
	Description string
	Track       string
	InviteCode  string
	MemberLimit int
	Locked      bool
	Members     []Member
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Member is one user's membership on a team.
type Member struct {
	UserID      common.UserID
	DisplayName string
	Role        MemberRole
	JoinedAt    time.Time
}

// New creates a team with the creator installed as leader and a fresh
// invite code.
func New(name, description, track string, creator common.UserID, creatorName string) *Team {
	now := time.Now().UTC()
	return &Team{
		ID:          common.NewID(),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Track:       track,
		InviteCode:  NewInviteCode(),
		MemberLimit: DefaultMemberLimit,
		Members: []Member{{
			UserID:      creator,
			DisplayName: creatorName,
			Role:        RoleLeader,
			JoinedAt:    now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewInviteCode returns an 8-hex-char join code.
func NewInviteCode() string {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand only fails when the OS entropy source is broken;
		// fall back to a time-derived code rather than crash a join flow.
		return hex.EncodeToString([]byte(time.Now().UTC().Format("150405")))[:8]
	}
	return hex.EncodeToString(b[:])
}

// Leader returns the leading member.
func (t *Team) Leader() (Member, bool) {
	for _, m := range t.Members {
		if m.Role == RoleLeader {
			return m, true
		}
	}
	return Member{}, false
}

// HasMember reports whether the user is on the team.
func (t *Team) HasMember(userID common.UserID) bool {
	for _, m := range t.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// IsLeader reports whether the user leads the team.
func (t *Team) IsLeader(userID common.UserID) bool {
	l, ok := t.Leader()
	return ok && l.UserID == userID
}

// IsFull reports whether the team reached its member cap.
func (t *Team) IsFull() bool {
	return len(t.Members) >= t.MemberLimit
}

func nowUTC() time.Time { return time.Now().UTC() }

// validateName checks a proposed team name.
func validateName(name string) bool {
	trimmed := strings.TrimSpace(name)
	return trimmed != "" && len(trimmed) <= maxNameLength
}
