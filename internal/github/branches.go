package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// BranchSHA returns the commit SHA at the head of branch.
func (c *Client) BranchSHA(ctx context.Context, owner, repo, branch string) (string, error) {
	ref, err := c.GetRef(ctx, owner, repo, headsRef(branch))
	if err != nil {
		return "", err
	}
	return ref.Object.SHA, nil
}

// DefaultBranchSHA resolves the head of "main", falling back to "master"
// only when main does not exist.
func (c *Client) DefaultBranchSHA(ctx context.Context, owner, repo string) (string, error) {
	sha, err := c.BranchSHA(ctx, owner, repo, "main")
	if err == nil {
		return sha, nil
	}
	if !IsNotFound(err) {
		return "", err
	}
	return c.BranchSHA(ctx, owner, repo, "master")
}

// CreateBranchFromRef creates newBranch at the head of fromBranch, or at the
// default branch head when fromBranch is empty.
func (c *Client) CreateBranchFromRef(ctx context.Context, owner, repo, newBranch, fromBranch string) (*Ref, error) {
	var (
		sha string
		err error
	)
	if fromBranch != "" {
		sha, err = c.BranchSHA(ctx, owner, repo, fromBranch)
	} else {
		sha, err = c.DefaultBranchSHA(ctx, owner, repo)
	}
	if err != nil {
		return nil, err
	}
	return c.CreateRef(ctx, owner, repo, fmt.Sprintf("refs/heads/%s", newBranch), sha)
}

// UpdateBranch force-moves branch to sha.
func (c *Client) UpdateBranch(ctx context.Context, owner, repo, branch, sha string) (*Ref, error) {
	return c.UpdateRef(ctx, owner, repo, headsRef(branch), sha, true)
}

// BranchExists reports whether branch exists. Only not_found maps to false;
// every other failure is returned.
func (c *Client) BranchExists(ctx context.Context, owner, repo, branch string) (bool, error) {
	_, err := c.Do(ctx, Request{Method: http.MethodGet, URL: c.repoURL(owner, repo, "branches", url.PathEscape(branch))})
	if err == nil {
		return true, nil
	}
	if IsNotFound(err) {
		return false, nil
	}
	return false, err
}
