package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/nebulahq/hacknebula/internal/infrastructure/monitoring/logging"
	"github.com/nebulahq/hacknebula/pkg/errors"
	"github.com/nebulahq/hacknebula/pkg/types/common"
)

const maxSearchSize = 50

// Hit is one search result.
type Hit struct {
	ID     string          `json:"id"`
	Index  string          `json:"index"`
	Score  float64         `json:"score"`
	Source json.RawMessage `json:"source"`
}

// Result is a page of hits.
type Result struct {
	Total int64 `json:"total"`
	Hits  []Hit `json:"hits"`
}

// Searcher runs full-text queries across the platform indexes.
type Searcher struct {
	client *Client
	logger logging.Logger
}

// NewSearcher builds a searcher on the shared client.
func NewSearcher(client *Client, log logging.Logger) *Searcher {
	if log == nil {
		log = logging.NewNop()
	}
	return &Searcher{client: client, logger: log}
}

// searchFields weights names and titles above body text.
var searchFields = []string{"name^3", "title^3", "summary^2", "description^2", "content", "author_name"}

// Search runs a multi-match query over the given logical indexes, or all of
// them when none are named.
func (s *Searcher) Search(ctx context.Context, query string, indexes []string, p common.Pagination) (*Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return &Result{Hits: []Hit{}}, nil
	}
	if len(indexes) == 0 {
		indexes = []string{IndexTeams, IndexSubmissions, IndexPosts}
	}
	p = p.Normalize()
	size := p.PageSize
	if size > maxSearchSize {
		size = maxSearchSize
	}

	body := map[string]interface{}{
		"from": p.Offset(),
		"size": size,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    searchFields,
				"fuzziness": "AUTO",
			},
		},
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "marshal search query")
	}

	full := make([]string, len(indexes))
	for i, name := range indexes {
		full[i] = s.client.IndexName(name)
	}
	req := opensearchapi.SearchRequest{
		Index: full,
		Body:  bytes.NewReader(raw),
	}
	resp, err := req.Do(ctx, s.client.Raw())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSearchError, "search request")
	}
	defer resp.Body.Close()
	if resp.IsError() {
		return nil, errors.New(errors.ErrCodeSearchError, "search: "+resp.Status())
	}

	var parsed struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Index  string          `json:"_index"`
				ID     string          `json:"_id"`
				Score  float64         `json:"_score"`
				Source json.RawMessage `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "decode search response")
	}

	result := &Result{Total: parsed.Hits.Total.Value, Hits: make([]Hit, 0, len(parsed.Hits.Hits))}
	for _, h := range parsed.Hits.Hits {
		result.Hits = append(result.Hits, Hit{
			ID:     h.ID,
			Index:  strings.TrimPrefix(h.Index, s.client.indexPrefix+"-"),
			Score:  h.Score,
			Source: h.Source,
		})
	}
	return result, nil
}
