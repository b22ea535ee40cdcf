package client

import (
	"context"
	"time"
)

// ScheduleClient covers the /schedule routes.
type ScheduleClient struct {
	client *Client
}

// Session is one schedule entry.
type Session struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Kind        string     `json:"kind"`
	Location    string     `json:"location"`
	StartsAt    time.Time  `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
}

// List returns the full event schedule in chronological order.
func (s *ScheduleClient) List(ctx context.Context) ([]Session, error) {
	var out struct {
		Sessions []Session `json:"sessions"`
	}
	if err := s.client.get(ctx, "/api/v1/schedule/sessions", &out); err != nil {
		return nil, err
	}
	return out.Sessions, nil
}

// Upcoming returns only sessions that have not started yet.
func (s *ScheduleClient) Upcoming(ctx context.Context) ([]Session, error) {
	var out struct {
		Sessions []Session `json:"sessions"`
	}
	if err := s.client.get(ctx, "/api/v1/schedule/sessions/upcoming", &out); err != nil {
		return nil, err
	}
	return out.Sessions, nil
}
