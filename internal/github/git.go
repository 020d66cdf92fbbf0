package github

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// GetRef reads a reference. ref is relative to refs/, e.g. "heads/main".
func (c *Client) GetRef(ctx context.Context, owner, repo, ref string) (*Ref, error) {
	var out Ref
	if err := c.get(ctx, c.repoURL(owner, repo, "git/refs", escapeRef(ref)), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type createRefRequest struct {
	Ref string `json:"ref"`
	SHA string `json:"sha"`
}

// CreateRef creates fullRef (which must start with refs/) at sha.
func (c *Client) CreateRef(ctx context.Context, owner, repo, fullRef, sha string) (*Ref, error) {
	var out Ref
	if err := c.post(ctx, c.repoURL(owner, repo, "git/refs"), createRefRequest{Ref: fullRef, SHA: sha}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type updateRefRequest struct {
	SHA   string `json:"sha"`
	Force bool   `json:"force"`
}

// UpdateRef moves ref to sha. force permits non-fast-forward updates.
func (c *Client) UpdateRef(ctx context.Context, owner, repo, ref, sha string, force bool) (*Ref, error) {
	var out Ref
	if err := c.patch(ctx, c.repoURL(owner, repo, "git/refs", escapeRef(ref)), updateRefRequest{SHA: sha, Force: force}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type createTreeRequest struct {
	Tree     []TreeEntry `json:"tree"`
	BaseTree string      `json:"base_tree,omitempty"`
}

// CreateTree writes files as regular-file blobs layered over baseTree.
func (c *Client) CreateTree(ctx context.Context, owner, repo string, files []FileOperation, baseTree string) (*Tree, error) {
	entries := make([]TreeEntry, 0, len(files))
	for _, f := range files {
		entries = append(entries, TreeEntry{
			Path:    f.Path,
			Mode:    "100644",
			Type:    "blob",
			Content: f.Content,
		})
	}
	var out Tree
	if err := c.post(ctx, c.repoURL(owner, repo, "git/trees"), createTreeRequest{Tree: entries, BaseTree: baseTree}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type createCommitRequest struct {
	Message string   `json:"message"`
	Tree    string   `json:"tree"`
	Parents []string `json:"parents"`
}

func (c *Client) CreateCommit(ctx context.Context, owner, repo, message, treeSHA string, parents []string) (*GitCommit, error) {
	if parents == nil {
		parents = []string{}
	}
	var out GitCommit
	req := createCommitRequest{Message: message, Tree: treeSHA, Parents: parents}
	if err := c.post(ctx, c.repoURL(owner, repo, "git/commits"), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// escapeRef escapes each path segment of a ref so names with reserved
// characters survive, while keeping the separating slashes.
func escapeRef(ref string) string {
	parts := strings.Split(ref, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

func headsRef(branch string) string {
	return fmt.Sprintf("heads/%s", branch)
}
