package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/paulraju12/github-mcp1/internal/core"
	gh "github.com/paulraju12/github-mcp1/internal/github"
)

type createBranchArgs struct {
	repoArgs
	Branch     string  `json:"branch"`
	FromBranch *string `json:"from_branch"`
}

func (s *Server) createBranch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args createBranchArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}
	if err := args.validate(); err != nil {
		return nil, err
	}
	branch, err := branchArg("branch", args.Branch)
	if err != nil {
		return nil, err
	}
	from, err := optionalBranch("from_branch", args.FromBranch)
	if err != nil {
		return nil, err
	}

	ref, err := s.gh.CreateBranchFromRef(ctx, args.Owner, args.Repo, branch, from)
	if err != nil {
		return nil, err
	}
	return jsonResult(ref)
}

type listCommitsArgs struct {
	repoArgs
	SHA     *string `json:"sha"`
	Page    *int    `json:"page"`
	PerPage *int    `json:"per_page"`
}

func (s *Server) listCommits(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args listCommitsArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}
	if err := args.validate(); err != nil {
		return nil, err
	}
	if err := optionalPositive("page", args.Page); err != nil {
		return nil, err
	}
	if err := optionalPositive("per_page", args.PerPage); err != nil {
		return nil, err
	}

	commits, err := s.gh.ListCommits(ctx, args.Owner, args.Repo, args.SHA, args.Page, args.PerPage)
	if err != nil {
		return nil, err
	}
	return jsonResult(commits)
}

type createOrUpdateFileArgs struct {
	repoArgs
	Path    string  `json:"path"`
	Content string  `json:"content"`
	Message string  `json:"message"`
	Branch  string  `json:"branch"`
	SHA     *string `json:"sha"`
}

func (s *Server) createOrUpdateFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args createOrUpdateFileArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}
	if err := args.validate(); err != nil {
		return nil, err
	}
	if err := required("path", args.Path); err != nil {
		return nil, err
	}
	if err := required("message", args.Message); err != nil {
		return nil, err
	}
	branch, err := branchArg("branch", args.Branch)
	if err != nil {
		return nil, err
	}

	res, err := s.gh.CreateOrUpdateFile(ctx, args.Owner, args.Repo, args.Path, args.Content, args.Message, branch, deref(args.SHA))
	if err != nil {
		return nil, err
	}
	return jsonResult(res)
}

type getFileContentsArgs struct {
	repoArgs
	Path   string  `json:"path"`
	Branch *string `json:"branch"`
}

func (s *Server) getFileContents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args getFileContentsArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}
	if err := args.validate(); err != nil {
		return nil, err
	}
	branch, err := optionalBranch("branch", args.Branch)
	if err != nil {
		return nil, err
	}

	contents, err := s.gh.GetFileContents(ctx, args.Owner, args.Repo, args.Path, branch)
	if err != nil {
		return nil, err
	}
	if contents.IsDir() {
		return jsonResult(contents.Entries)
	}
	return jsonResult(contents.File)
}

type pushFilesArgs struct {
	repoArgs
	Branch  string             `json:"branch"`
	Files   []gh.FileOperation `json:"files"`
	Message string             `json:"message"`
}

func (s *Server) pushFiles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args pushFilesArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}
	if err := args.validate(); err != nil {
		return nil, err
	}
	branch, err := branchArg("branch", args.Branch)
	if err != nil {
		return nil, err
	}
	if len(args.Files) == 0 {
		return nil, core.Invalidf("files", "at least one file is required")
	}
	for i, f := range args.Files {
		if err := required("files", f.Path); err != nil {
			return nil, core.Invalidf("files", "entry %d has no path", i)
		}
	}
	if err := required("message", args.Message); err != nil {
		return nil, err
	}

	ref, err := s.gh.PushFiles(ctx, args.Owner, args.Repo, branch, args.Files, args.Message)
	if err != nil {
		return nil, err
	}
	return jsonResult(ref)
}

type createRepositoryArgs struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Private     *bool   `json:"private"`
	AutoInit    *bool   `json:"auto_init"`
}

func (s *Server) createRepository(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args createRepositoryArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}
	name, err := gh.ValidateRepositoryName(args.Name)
	if err != nil {
		return nil, core.Invalid("name", err)
	}

	repo, err := s.gh.CreateRepository(ctx, gh.CreateRepositoryInput{
		Name:        name,
		Description: args.Description,
		Private:     args.Private,
		AutoInit:    args.AutoInit,
	})
	if err != nil {
		return nil, err
	}
	return jsonResult(repo)
}

type forkRepositoryArgs struct {
	repoArgs
	Organization *string `json:"organization"`
}

func (s *Server) forkRepository(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args forkRepositoryArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}
	if err := args.validate(); err != nil {
		return nil, err
	}
	org := deref(args.Organization)
	if org != "" {
		if _, err := gh.ValidateOwnerName(org); err != nil {
			return nil, core.Invalid("organization", err)
		}
	}

	fork, err := s.gh.ForkRepository(ctx, args.Owner, args.Repo, org)
	if err != nil {
		return nil, err
	}
	return jsonResult(fork)
}
