package github

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
)

type CreateIssueInput struct {
	Title     string   `json:"title"`
	Body      *string  `json:"body,omitempty"`
	Assignees []string `json:"assignees,omitempty"`
	Milestone *int     `json:"milestone,omitempty"`
	Labels    []string `json:"labels,omitempty"`
}

type UpdateIssueInput struct {
	Title     *string  `json:"title,omitempty"`
	Body      *string  `json:"body,omitempty"`
	Assignees []string `json:"assignees,omitempty"`
	Milestone *int     `json:"milestone,omitempty"`
	Labels    []string `json:"labels,omitempty"`
	State     *string  `json:"state,omitempty"`
}

type ListIssuesOptions struct {
	Direction *string
	Labels    []string
	Page      *int
	PerPage   *int
	Since     *string
	Sort      *string
	State     *string
}

func (o ListIssuesOptions) params() Params {
	p := Params{
		"direction": o.Direction,
		"page":      o.Page,
		"per_page":  o.PerPage,
		"since":     o.Since,
		"sort":      o.Sort,
		"state":     o.State,
	}
	if len(o.Labels) > 0 {
		p["labels"] = o.Labels
	}
	return p
}

func (c *Client) CreateIssue(ctx context.Context, owner, repo string, in CreateIssueInput) (json.RawMessage, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, URL: c.repoURL(owner, repo, "issues"), Body: in})
}

func (c *Client) GetIssue(ctx context.Context, owner, repo string, number int) (json.RawMessage, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, URL: c.repoURL(owner, repo, "issues", strconv.Itoa(number))})
}

func (c *Client) ListIssues(ctx context.Context, owner, repo string, opts ListIssuesOptions) (json.RawMessage, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, URL: BuildURL(c.repoURL(owner, repo, "issues"), opts.params())})
}

func (c *Client) UpdateIssue(ctx context.Context, owner, repo string, number int, in UpdateIssueInput) (json.RawMessage, error) {
	return c.Do(ctx, Request{Method: http.MethodPatch, URL: c.repoURL(owner, repo, "issues", strconv.Itoa(number)), Body: in})
}

func (c *Client) AddIssueComment(ctx context.Context, owner, repo string, number int, body string) (json.RawMessage, error) {
	return c.Do(ctx, Request{
		Method: http.MethodPost,
		URL:    c.repoURL(owner, repo, "issues", strconv.Itoa(number), "comments"),
		Body:   map[string]string{"body": body},
	})
}
