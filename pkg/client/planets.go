package client

import (
	"context"
	"net/url"
	"time"
)

// PlanetsClient covers the /planets routes.
type PlanetsClient struct {
	client *Client
}

// Point is a 2D map coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Territory is one team's polygon on the galaxy map.
type Territory struct {
	ID          string  `json:"id"`
	Points      []Point `json:"points"`
	LabelAnchor Point   `json:"label_anchor"`
	LabelSize   float64 `json:"label_size"`
	Area        float64 `json:"area"`
	Color       string  `json:"color"`
	TextColor   string  `json:"text_color"`
	DisplayName string  `json:"display_name"`
	IsMyTeam    bool    `json:"is_my_team"`
}

// Land is a team's planet.
type Land struct {
	ID          string    `json:"id"`
	TeamID      string    `json:"team_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Points      int       `json:"points"`
	CreatedAt   time.Time `json:"created_at"`
}

// TeamPoints is one leaderboard row.
type TeamPoints struct {
	TeamID string `json:"team_id"`
	LandID string `json:"land_id"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// ChipBalance is the caller's remaining daily chip quota.
type ChipBalance struct {
	Quota     int    `json:"quota"`
	Remaining int    `json:"remaining"`
	Day       string `json:"day"`
}

// Map returns the rendered galaxy map with the caller's territory flagged.
func (p *PlanetsClient) Map(ctx context.Context) ([]Territory, error) {
	var out struct {
		Territories []Territory `json:"territories"`
	}
	if err := p.client.get(ctx, "/api/v1/planets/map/teams", &out); err != nil {
		return nil, err
	}
	return out.Territories, nil
}

func (p *PlanetsClient) GetLand(ctx context.Context, landID string) (*Land, error) {
	var out Land
	if err := p.client.get(ctx, "/api/v1/planets/lands/"+url.PathEscape(landID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddBuildLog appends a progress entry to a land.
func (p *PlanetsClient) AddBuildLog(ctx context.Context, landID, content string) error {
	body := map[string]string{"land_id": landID, "content": content}
	return p.client.post(ctx, "/api/v1/planets/buildlogs", body, nil)
}

// AllocateChips spends investor chips on a land.
func (p *PlanetsClient) AllocateChips(ctx context.Context, landID string, amount int) error {
	body := map[string]interface{}{"land_id": landID, "amount": amount}
	return p.client.post(ctx, "/api/v1/planets/chips", body, nil)
}

// ChipBalance returns the investor's remaining quota for today.
func (p *PlanetsClient) ChipBalance(ctx context.Context) (*ChipBalance, error) {
	var out ChipBalance
	if err := p.client.get(ctx, "/api/v1/planets/chips/balance", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Leaderboard returns teams ordered by points.
func (p *PlanetsClient) Leaderboard(ctx context.Context) ([]TeamPoints, error) {
	var out struct {
		Leaderboard []TeamPoints `json:"leaderboard"`
	}
	if err := p.client.get(ctx, "/api/v1/planets/leaderboard", &out); err != nil {
		return nil, err
	}
	return out.Leaderboard, nil
}
