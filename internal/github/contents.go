package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

func (c *Client) contentsURL(owner, repo, path string) string {
	return c.repoURL(owner, repo, "contents", escapeRef(strings.TrimPrefix(path, "/")))
}

// GetFileContents reads a file or directory. File content is returned as
// decoded text.
func (c *Client) GetFileContents(ctx context.Context, owner, repo, path, branch string) (*Contents, error) {
	var ref *string
	if branch != "" {
		ref = &branch
	}
	raw, err := c.Do(ctx, Request{
		Method: "GET",
		URL:    BuildURL(c.contentsURL(owner, repo, path), Params{"ref": ref}),
	})
	if err != nil {
		return nil, err
	}

	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '[' {
		var entries []FileContent
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, fmt.Errorf("decode directory listing: %w", err)
		}
		return &Contents{Entries: entries}, nil
	}

	var file FileContent
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode file contents: %w", err)
	}
	if file.Encoding == "base64" && file.Content != "" {
		decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(file.Content, "\n", ""))
		if err != nil {
			return nil, fmt.Errorf("decode base64 content of %s: %w", path, err)
		}
		file.Content = string(decoded)
		file.Encoding = "utf-8"
	}
	return &Contents{File: &file}, nil
}

type putContentsRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch"`
	SHA     string `json:"sha,omitempty"`
}

// CreateOrUpdateFile writes content to path on branch. When sha is empty
// the current blob SHA is looked up; a missing file or a directory at path
// means the file is created.
func (c *Client) CreateOrUpdateFile(ctx context.Context, owner, repo, path, content, message, branch, sha string) (*FileCommitResult, error) {
	if sha == "" {
		existing, err := c.GetFileContents(ctx, owner, repo, path, branch)
		switch {
		case err == nil:
			if !existing.IsDir() {
				sha = existing.File.SHA
			}
		case IsNotFound(err):
		default:
			return nil, err
		}
	}

	body := putContentsRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString([]byte(content)),
		Branch:  branch,
		SHA:     sha,
	}
	var out FileCommitResult
	if err := c.put(ctx, c.contentsURL(owner, repo, path), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PushFiles commits files to branch in a single commit:
// read head, create tree, create commit, move the ref. The first failing
// step aborts the sequence.
func (c *Client) PushFiles(ctx context.Context, owner, repo, branch string, files []FileOperation, message string) (*Ref, error) {
	head, err := c.BranchSHA(ctx, owner, repo, branch)
	if err != nil {
		return nil, err
	}
	tree, err := c.CreateTree(ctx, owner, repo, files, head)
	if err != nil {
		return nil, err
	}
	commit, err := c.CreateCommit(ctx, owner, repo, message, tree.SHA, []string{head})
	if err != nil {
		return nil, err
	}
	return c.UpdateBranch(ctx, owner, repo, branch, commit.SHA)
}
