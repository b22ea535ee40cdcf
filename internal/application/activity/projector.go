// Package activity projects the Kafka event stream into its read models:
// the feed, the search indexes and the galaxy map cache.
package activity

import (
	"context"

	domainactivity "github.com/nebulahq/hacknebula/internal/domain/activity"
	"github.com/nebulahq/hacknebula/internal/infrastructure/monitoring/logging"
	"github.com/nebulahq/hacknebula/internal/infrastructure/search/opensearch"
)

// FeedRecorder writes activity entries into the feed.
type FeedRecorder interface {
	RecordActivity(ctx context.Context, e domainactivity.Event) error
}

// Indexer mirrors documents into the search cluster.
type Indexer interface {
	IndexDocument(ctx context.Context, index, docID string, doc interface{}) error
	DeleteDocument(ctx context.Context, index, docID string) error
}

// MapInvalidator drops the cached galaxy map.
type MapInvalidator interface {
	InvalidateCache(ctx context.Context)
}

// Projector fans one activity event out to the read models.  It is the
// handler the worker's Kafka consumer runs.
type Projector struct {
	feed    FeedRecorder
	indexer Indexer
	maps    MapInvalidator
	logger  logging.Logger
}

// NewProjector wires a projector. Any dependency may be nil; the matching
// projection is skipped.
func NewProjector(feed FeedRecorder, indexer Indexer, maps MapInvalidator, log logging.Logger) *Projector {
	if log == nil {
		log = logging.NewNop()
	}
	return &Projector{feed: feed, indexer: indexer, maps: maps, logger: log}
}

// Handle processes one event.  Feed write failures propagate so the
// message is redelivered; search indexing is best effort.
func (p *Projector) Handle(ctx context.Context, e domainactivity.Event) error {
	if p.feed != nil && e.Type != domainactivity.EventPostPublished {
		// Posts are already in the feed; projecting them again would
		// duplicate entries.
		if err := p.feed.RecordActivity(ctx, e); err != nil {
			return err
		}
	}

	if p.indexer != nil {
		p.index(ctx, e)
	}

	if p.maps != nil && affectsMap(e.Type) {
		p.maps.InvalidateCache(ctx)
	}
	return nil
}

// affectsMap reports whether the event changes territory sizes or the set
// of lands.
func affectsMap(t domainactivity.EventType) bool {
	switch t {
	case domainactivity.EventLandCreated,
		domainactivity.EventBuildLogAdded,
		domainactivity.EventChipsAllocated,
		domainactivity.EventScorecardSubmitted:
		return true
	}
	return false
}

func (p *Projector) index(ctx context.Context, e domainactivity.Event) {
	var index, docID string
	switch e.Type {
	case domainactivity.EventTeamCreated:
		index, docID = opensearch.IndexTeams, string(e.TeamID)
	case domainactivity.EventSubmissionUpdated, domainactivity.EventSubmissionFinal,
		domainactivity.EventSubmissionWithdrawn:
		index, docID = opensearch.IndexSubmissions, string(e.RefID)
	case domainactivity.EventPostPublished:
		index, docID = opensearch.IndexPosts, string(e.RefID)
	default:
		return
	}
	if docID == "" {
		return
	}

	doc := map[string]interface{}{
		"summary":    e.Summary,
		"team_id":    e.TeamID,
		"created_at": e.OccurredAt,
	}
	for k, v := range e.Attributes {
		doc[k] = v
	}
	if err := p.indexer.IndexDocument(ctx, index, docID, doc); err != nil {
		p.logger.Warn("search projection failed",
			logging.String("index", index),
			logging.String("doc_id", docID),
			logging.Err(err),
		)
	}
}
