package github

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
)

type CreatePullRequestInput struct {
	Title               string  `json:"title"`
	Head                string  `json:"head"`
	Base                string  `json:"base"`
	Body                *string `json:"body,omitempty"`
	Draft               *bool   `json:"draft,omitempty"`
	MaintainerCanModify *bool   `json:"maintainer_can_modify,omitempty"`
}

type ListPullRequestsOptions struct {
	State     *string
	Head      *string
	Base      *string
	Sort      *string
	Direction *string
	PerPage   *int
	Page      *int
}

type ReviewComment struct {
	Path     string `json:"path"`
	Position *int   `json:"position,omitempty"`
	Line     *int   `json:"line,omitempty"`
	Body     string `json:"body"`
}

type CreateReviewInput struct {
	CommitID *string         `json:"commit_id,omitempty"`
	Body     string          `json:"body"`
	Event    string          `json:"event"`
	Comments []ReviewComment `json:"comments,omitempty"`
}

type MergePullRequestInput struct {
	CommitTitle   *string `json:"commit_title,omitempty"`
	CommitMessage *string `json:"commit_message,omitempty"`
	MergeMethod   *string `json:"merge_method,omitempty"`
}

type updateBranchRequest struct {
	ExpectedHeadSHA string `json:"expected_head_sha,omitempty"`
}

func (c *Client) pullURL(owner, repo string, number int, parts ...string) string {
	return c.repoURL(owner, repo, append([]string{"pulls", strconv.Itoa(number)}, parts...)...)
}

func (c *Client) CreatePullRequest(ctx context.Context, owner, repo string, in CreatePullRequestInput) (json.RawMessage, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, URL: c.repoURL(owner, repo, "pulls"), Body: in})
}

// GetPullRequest returns the typed pull request used by composite steps.
func (c *Client) GetPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequest, error) {
	var pr PullRequest
	if err := c.get(ctx, c.pullURL(owner, repo, number), &pr); err != nil {
		return nil, err
	}
	return &pr, nil
}

// GetPullRequestRaw returns the full upstream pull request document.
func (c *Client) GetPullRequestRaw(ctx context.Context, owner, repo string, number int) (json.RawMessage, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, URL: c.pullURL(owner, repo, number)})
}

func (c *Client) ListPullRequests(ctx context.Context, owner, repo string, opts ListPullRequestsOptions) (json.RawMessage, error) {
	u := BuildURL(c.repoURL(owner, repo, "pulls"), Params{
		"state":     opts.State,
		"head":      opts.Head,
		"base":      opts.Base,
		"sort":      opts.Sort,
		"direction": opts.Direction,
		"per_page":  opts.PerPage,
		"page":      opts.Page,
	})
	return c.Do(ctx, Request{Method: http.MethodGet, URL: u})
}

func (c *Client) CreatePullRequestReview(ctx context.Context, owner, repo string, number int, in CreateReviewInput) (json.RawMessage, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, URL: c.pullURL(owner, repo, number, "reviews"), Body: in})
}

func (c *Client) MergePullRequest(ctx context.Context, owner, repo string, number int, in MergePullRequestInput) (json.RawMessage, error) {
	return c.Do(ctx, Request{Method: http.MethodPut, URL: c.pullURL(owner, repo, number, "merge"), Body: in})
}

func (c *Client) ListPullRequestFiles(ctx context.Context, owner, repo string, number int) (json.RawMessage, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, URL: c.pullURL(owner, repo, number, "files")})
}

func (c *Client) ListPullRequestComments(ctx context.Context, owner, repo string, number int) (json.RawMessage, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, URL: c.pullURL(owner, repo, number, "comments")})
}

func (c *Client) ListPullRequestReviews(ctx context.Context, owner, repo string, number int) (json.RawMessage, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, URL: c.pullURL(owner, repo, number, "reviews")})
}

// GetPullRequestStatus returns the combined commit status of the pull
// request's head.
func (c *Client) GetPullRequestStatus(ctx context.Context, owner, repo string, number int) (*CombinedStatus, error) {
	pr, err := c.GetPullRequest(ctx, owner, repo, number)
	if err != nil {
		return nil, err
	}
	var status CombinedStatus
	if err := c.get(ctx, c.repoURL(owner, repo, "commits", pr.Head.SHA, "status"), &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// UpdatePullRequestBranch merges the base branch into the pull request
// branch. The upstream response is not inspected.
func (c *Client) UpdatePullRequestBranch(ctx context.Context, owner, repo string, number int, expectedHeadSHA string) error {
	_, err := c.Do(ctx, Request{
		Method: http.MethodPut,
		URL:    c.pullURL(owner, repo, number, "update-branch"),
		Body:   updateBranchRequest{ExpectedHeadSHA: expectedHeadSHA},
	})
	return err
}
