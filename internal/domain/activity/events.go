// Package activity defines the event stream that fans platform actions out
// to the feed projector, the search indexer and the leaderboard rebuilder.
package activity

import (
	"context"
	"time"

	"github.com/nebulahq/hacknebula/pkg/types/common"
)

// EventType names one kind of platform activity.
type EventType string

const (
	EventTeamCreated         EventType = "team.created"
	EventTeamMemberJoined    EventType = "team.member_joined"
	EventTeamMemberLeft      EventType = "team.member_left"
	EventSubmissionUpdated   EventType = "submission.updated"
	EventSubmissionFinal     EventType = "submission.finalized"
	EventSubmissionWithdrawn EventType = "submission.withdrawn"
	EventScorecardSubmitted  EventType = "judging.scorecard_submitted"
	EventLandCreated         EventType = "planets.land_created"
	EventBuildLogAdded       EventType = "planets.build_log_added"
	EventChipsAllocated      EventType = "planets.chips_allocated"
	EventPostPublished       EventType = "feed.post_published"
	EventScheduleChanged     EventType = "schedule.changed"
)

// Event is one platform activity record.  RefID points at the primary
// entity the event concerns (team, submission, land, post).
type Event struct {
	ID         common.ID         `json:"id"`
	Type       EventType         `json:"type"`
	ActorID    common.UserID     `json:"actor_id"`
	TeamID     common.ID         `json:"team_id,omitempty"`
	RefID      common.ID         `json:"ref_id,omitempty"`
	Summary    string            `json:"summary"`
	Attributes map[string]string `json:"attributes,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// NewEvent stamps an event with a fresh ID and the current time.
func NewEvent(t EventType, actor common.UserID, summary string) Event {
	return Event{
		ID:         common.NewID(),
		Type:       t,
		ActorID:    actor,
		Summary:    summary,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher hands events to the activity stream.  Implementations must be
// safe for concurrent use; publish failures are logged and swallowed by
// callers, domain writes never roll back because the stream is down.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher drops every event.  Used in tests and by nebulactl commands
// that run without a broker.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
