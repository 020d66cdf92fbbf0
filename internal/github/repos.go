package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

type CreateRepositoryInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Private     *bool   `json:"private,omitempty"`
	AutoInit    *bool   `json:"auto_init,omitempty"`
}

func (c *Client) CreateRepository(ctx context.Context, in CreateRepositoryInput) (json.RawMessage, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, URL: c.baseURL + "/user/repos", Body: in})
}

// ForkRepository forks owner/repo, into organization when it is non-empty.
func (c *Client) ForkRepository(ctx context.Context, owner, repo, organization string) (json.RawMessage, error) {
	var org *string
	if organization != "" {
		org = &organization
	}
	u := BuildURL(c.repoURL(owner, repo, "forks"), Params{"organization": org})
	return c.Do(ctx, Request{Method: http.MethodPost, URL: u})
}

// ListCommits lists commits, optionally starting from sha.
func (c *Client) ListCommits(ctx context.Context, owner, repo string, sha *string, page, perPage *int) (json.RawMessage, error) {
	u := BuildURL(c.repoURL(owner, repo, "commits"), Params{
		"sha":      sha,
		"page":     page,
		"per_page": perPage,
	})
	return c.Do(ctx, Request{Method: http.MethodGet, URL: u})
}

// UserExists reports whether a user or organization login exists.
func (c *Client) UserExists(ctx context.Context, login string) (bool, error) {
	_, err := c.Do(ctx, Request{Method: http.MethodGet, URL: c.baseURL + "/users/" + url.PathEscape(login)})
	if err == nil {
		return true, nil
	}
	if IsNotFound(err) {
		return false, nil
	}
	return false, err
}
