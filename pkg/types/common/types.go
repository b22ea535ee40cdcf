// Package common holds shared identifier types, pagination and API envelope
// structures used across every HackNebula module.
package common

import (
	"time"

	"github.com/google/uuid"
)

// ID is a string alias for a UUID v4.
type ID string

// NewID returns a freshly generated ID.
func NewID() ID {
	return ID(uuid.NewString())
}

// String implements fmt.Stringer.
func (i ID) String() string {
	return string(i)
}

// UserID identifies a platform user. Roles are carried separately, so the
// same ID can act as participant, mentor, judge, organizer or investor.
type UserID string

// Role is a platform role attached to a user by the upstream identity proxy.
type Role string

const (
	RoleParticipant Role = "participant"
	RoleMentor      Role = "mentor"
	RoleJudge       Role = "judge"
	RoleOrganizer   Role = "organizer"
	RoleSponsor     Role = "sponsor"
	RoleInvestor    Role = "investor"
)

// HasRole reports whether roles contains r.
func HasRole(roles []Role, r Role) bool {
	for _, have := range roles {
		if have == r {
			return true
		}
	}
	return false
}

// Pagination defines parameters for paginated requests and responses.
type Pagination struct {
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total,omitempty"`
}

// Normalize clamps the pagination into sane bounds: page is at least 1,
// page size defaults to 20 and caps at 100.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	} else if p.PageSize > 100 {
		p.PageSize = 100
	}
	return p
}

// Offset returns the SQL offset for the page, treating page as 1-based.
func (p Pagination) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// ErrorDetail provides structured error information for API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIResponse is the generic wrapper for all API responses.
type APIResponse[T any] struct {
	Success    bool         `json:"success"`
	Data       T            `json:"data,omitempty"`
	Error      *ErrorDetail `json:"error,omitempty"`
	Pagination *Pagination  `json:"pagination,omitempty"`
	RequestID  string       `json:"request_id,omitempty"`
	Timestamp  time.Time    `json:"timestamp"`
}

// HealthStatus indicates the health of a component or service.
type HealthStatus string

const (
	HealthUp       HealthStatus = "up"
	HealthDown     HealthStatus = "down"
	HealthDegraded HealthStatus = "degraded"
)

// ComponentHealth provides health information for one infrastructure
// component, reported by the readiness endpoint.
type ComponentHealth struct {
	Name    string        `json:"name"`
	Status  HealthStatus  `json:"status"`
	Latency time.Duration `json:"latency"`
	Message string        `json:"message,omitempty"`
}

// Day is a UTC calendar day in YYYY-MM-DD form, used as the bucket key for
// daily chip quotas and build-log point caps.
type Day string

// DayOf returns the Day bucket for t in UTC.
func DayOf(t time.Time) Day {
	return Day(t.UTC().Format("2006-01-02"))
}

// Today returns the current UTC Day.
func Today() Day {
	return DayOf(time.Now())
}
