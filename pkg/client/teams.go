package client

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// TeamsClient covers the /teams routes.
type TeamsClient struct {
	client *Client
}

// TeamMember is one member of a team.
type TeamMember struct {
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	JoinedAt    time.Time `json:"joined_at"`
}

// Team is a hackathon team.  InviteCode is only populated when the caller
// is a member.
type Team struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Track       string       `json:"track"`
	InviteCode  string       `json:"invite_code,omitempty"`
	MemberLimit int          `json:"member_limit"`
	Locked      bool         `json:"locked"`
	Members     []TeamMember `json:"members"`
	CreatedAt   time.Time    `json:"created_at"`
}

// CreateTeamRequest creates a team with the caller as leader.
type CreateTeamRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Track       string `json:"track,omitempty"`
}

// TeamList is one page of teams.
type TeamList struct {
	Items []Team   `json:"items"`
	Meta  ListMeta `json:"meta"`
}

// ListTeamsOptions narrows and pages team listings.
type ListTeamsOptions struct {
	Track    string
	Query    string
	Page     int
	PageSize int
}

func (t *TeamsClient) Create(ctx context.Context, req CreateTeamRequest) (*Team, error) {
	var out Team
	if err := t.client.post(ctx, "/api/v1/teams", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *TeamsClient) Get(ctx context.Context, teamID string) (*Team, error) {
	var out Team
	if err := t.client.get(ctx, "/api/v1/teams/"+url.PathEscape(teamID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Mine returns the caller's team.
func (t *TeamsClient) Mine(ctx context.Context) (*Team, error) {
	var out Team
	if err := t.client.get(ctx, "/api/v1/teams/me", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *TeamsClient) List(ctx context.Context, opts ListTeamsOptions) (*TeamList, error) {
	q := url.Values{}
	if opts.Track != "" {
		q.Set("track", opts.Track)
	}
	if opts.Query != "" {
		q.Set("q", opts.Query)
	}
	if opts.Page > 0 {
		q.Set("page", fmt.Sprint(opts.Page))
	}
	if opts.PageSize > 0 {
		q.Set("page_size", fmt.Sprint(opts.PageSize))
	}
	path := "/api/v1/teams"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out TeamList
	if err := t.client.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Join adds the caller to the team owning the invite code.
func (t *TeamsClient) Join(ctx context.Context, inviteCode string) (*Team, error) {
	var out Team
	body := map[string]string{"invite_code": inviteCode}
	if err := t.client.post(ctx, "/api/v1/teams/join", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Leave removes the caller from their team.
func (t *TeamsClient) Leave(ctx context.Context) error {
	return t.client.post(ctx, "/api/v1/teams/leave", nil, nil)
}
