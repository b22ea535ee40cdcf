package opensearch

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/nebulahq/hacknebula/internal/infrastructure/monitoring/logging"
	"github.com/nebulahq/hacknebula/pkg/errors"
)

// Logical index names. The client prefixes them per deployment.
const (
	IndexTeams       = "teams"
	IndexSubmissions = "submissions"
	IndexPosts       = "posts"
)

// Indexer writes documents into the search indexes. The activity worker is
// its only writer.
type Indexer struct {
	client *Client
	logger logging.Logger
}

// NewIndexer builds an indexer on the shared client.
func NewIndexer(client *Client, log logging.Logger) *Indexer {
	if log == nil {
		log = logging.NewNop()
	}
	return &Indexer{client: client, logger: log}
}

// EnsureIndexes creates the platform indexes that do not exist yet.
func (i *Indexer) EnsureIndexes(ctx context.Context) error {
	for name, mapping := range indexMappings() {
		exists, err := i.indexExists(ctx, name)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if err := i.createIndex(ctx, name, mapping); err != nil {
			return err
		}
		i.logger.Info("search index created", logging.String("index", i.client.IndexName(name)))
	}
	return nil
}

// IndexDocument upserts one document.
func (i *Indexer) IndexDocument(ctx context.Context, index, docID string, doc interface{}) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "marshal search document")
	}
	req := opensearchapi.IndexRequest{
		Index:      i.client.IndexName(index),
		DocumentID: docID,
		Body:       bytes.NewReader(body),
	}
	resp, err := req.Do(ctx, i.client.Raw())
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSearchError, "index document")
	}
	defer resp.Body.Close()
	if resp.IsError() {
		return errors.New(errors.ErrCodeSearchError, "index document: "+resp.Status())
	}
	return nil
}

// DeleteDocument removes one document. Missing documents are not an error.
func (i *Indexer) DeleteDocument(ctx context.Context, index, docID string) error {
	req := opensearchapi.DeleteRequest{
		Index:      i.client.IndexName(index),
		DocumentID: docID,
	}
	resp, err := req.Do(ctx, i.client.Raw())
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSearchError, "delete document")
	}
	defer resp.Body.Close()
	if resp.IsError() && resp.StatusCode != 404 {
		return errors.New(errors.ErrCodeSearchError, "delete document: "+resp.Status())
	}
	return nil
}

func (i *Indexer) indexExists(ctx context.Context, name string) (bool, error) {
	req := opensearchapi.IndicesExistsRequest{Index: []string{i.client.IndexName(name)}}
	resp, err := req.Do(ctx, i.client.Raw())
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeSearchError, "check index")
	}
	defer resp.Body.Close()
	if resp.StatusCode == 404 {
		return false, nil
	}
	if resp.IsError() {
		return false, errors.New(errors.ErrCodeSearchError, "check index: "+resp.Status())
	}
	return true, nil
}

func (i *Indexer) createIndex(ctx context.Context, name string, mapping map[string]interface{}) error {
	body, err := json.Marshal(mapping)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "marshal index mapping")
	}
	req := opensearchapi.IndicesCreateRequest{
		Index: i.client.IndexName(name),
		Body:  bytes.NewReader(body),
	}
	resp, err := req.Do(ctx, i.client.Raw())
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSearchError, "create index")
	}
	defer resp.Body.Close()
	if resp.IsError() {
		return errors.New(errors.ErrCodeSearchError, "create index: "+resp.Status())
	}
	return nil
}

func indexMappings() map[string]map[string]interface{} {
	text := map[string]interface{}{"type": "text"}
	keyword := map[string]interface{}{"type": "keyword"}
	date := map[string]interface{}{"type": "date"}

	return map[string]map[string]interface{}{
		IndexTeams: {
			"mappings": map[string]interface{}{
				"properties": map[string]interface{}{
					"name":        text,
					"description": text,
					"tags":        keyword,
					"created_at":  date,
				},
			},
		},
		IndexSubmissions: {
			"mappings": map[string]interface{}{
				"properties": map[string]interface{}{
					"title":      text,
					"summary":    text,
					"team_id":    keyword,
					"status":     keyword,
					"created_at": date,
				},
			},
		},
		IndexPosts: {
			"mappings": map[string]interface{}{
				"properties": map[string]interface{}{
					"content":     text,
					"author_name": text,
					"kind":        keyword,
					"created_at":  date,
				},
			},
		},
	}
}
