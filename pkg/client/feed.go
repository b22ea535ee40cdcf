package client

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// FeedClient covers the /feed routes.
type FeedClient struct {
	client *Client
}

// Post is one activity feed entry.
type Post struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	TeamID     string    `json:"team_id,omitempty"`
	Kind       string    `json:"kind"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// PostList is one page of the feed.
type PostList struct {
	Items []Post   `json:"items"`
	Meta  ListMeta `json:"meta"`
}

// Publish writes a post.  Kind "announcement" requires the organizer role.
func (f *FeedClient) Publish(ctx context.Context, kind, content string) (*Post, error) {
	var out Post
	body := map[string]string{"kind": kind, "content": content}
	if err := f.client.post(ctx, "/api/v1/feed/posts", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// List pages through the feed, newest first.
func (f *FeedClient) List(ctx context.Context, page, pageSize int) (*PostList, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", fmt.Sprint(page))
	}
	if pageSize > 0 {
		q.Set("page_size", fmt.Sprint(pageSize))
	}
	path := "/api/v1/feed/posts"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out PostList
	if err := f.client.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
