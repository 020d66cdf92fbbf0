package github

import (
	"context"
	"encoding/json"
	"net/http"
)

// SearchOptions are shared by the search endpoints. Sort is ignored by
// code search upstream but passed through when set.
type SearchOptions struct {
	Query   string
	Sort    *string
	Order   *string
	Page    *int
	PerPage *int
}

func (o SearchOptions) params() Params {
	return Params{
		"q":        o.Query,
		"sort":     o.Sort,
		"order":    o.Order,
		"page":     o.Page,
		"per_page": o.PerPage,
	}
}

func (c *Client) search(ctx context.Context, kind string, opts SearchOptions) (json.RawMessage, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, URL: BuildURL(c.baseURL+"/search/"+kind, opts.params())})
}

func (c *Client) SearchRepositories(ctx context.Context, opts SearchOptions) (json.RawMessage, error) {
	return c.search(ctx, "repositories", opts)
}

func (c *Client) SearchCode(ctx context.Context, opts SearchOptions) (json.RawMessage, error) {
	return c.search(ctx, "code", opts)
}

func (c *Client) SearchIssues(ctx context.Context, opts SearchOptions) (json.RawMessage, error) {
	return c.search(ctx, "issues", opts)
}

func (c *Client) SearchUsers(ctx context.Context, opts SearchOptions) (json.RawMessage, error) {
	return c.search(ctx, "users", opts)
}
