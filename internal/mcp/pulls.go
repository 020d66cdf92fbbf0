package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/paulraju12/github-mcp1/internal/core"
	gh "github.com/paulraju12/github-mcp1/internal/github"
)

type pullArgs struct {
	repoArgs
	PullNumber int `json:"pull_number"`
}

func (a *pullArgs) validate() error {
	if err := a.repoArgs.validate(); err != nil {
		return err
	}
	return positive("pull_number", a.PullNumber)
}

type createPullRequestArgs struct {
	repoArgs
	Title               string  `json:"title"`
	Body                *string `json:"body"`
	Head                string  `json:"head"`
	Base                string  `json:"base"`
	Draft               *bool   `json:"draft"`
	MaintainerCanModify *bool   `json:"maintainer_can_modify"`
}

func (s *Server) createPullRequest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args createPullRequestArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}
	if err := args.validate(); err != nil {
		return nil, err
	}
	if err := required("title", args.Title); err != nil {
		return nil, err
	}
	// head may be "user:branch" for cross-repository pulls, so only base is
	// checked as a branch name.
	if err := required("head", args.Head); err != nil {
		return nil, err
	}
	base, err := branchArg("base", args.Base)
	if err != nil {
		return nil, err
	}

	pr, err := s.gh.CreatePullRequest(ctx, args.Owner, args.Repo, gh.CreatePullRequestInput{
		Title:               args.Title,
		Head:                args.Head,
		Base:                base,
		Body:                args.Body,
		Draft:               args.Draft,
		MaintainerCanModify: args.MaintainerCanModify,
	})
	if err != nil {
		return nil, err
	}
	return jsonResult(pr)
}

// pullReader adapts a single-number pull request read into a handler.
func (s *Server) pullReader(read func(ctx context.Context, owner, repo string, number int) (json.RawMessage, error)) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args pullArgs
		if err := bind(req, &args); err != nil {
			return nil, err
		}
		if err := args.validate(); err != nil {
			return nil, err
		}
		out, err := read(ctx, args.Owner, args.Repo, args.PullNumber)
		if err != nil {
			return nil, err
		}
		return jsonResult(out)
	}
}

func (s *Server) getPullRequest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.pullReader(s.gh.GetPullRequestRaw)(ctx, req)
}

func (s *Server) getPullRequestFiles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.pullReader(s.gh.ListPullRequestFiles)(ctx, req)
}

func (s *Server) getPullRequestComments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.pullReader(s.gh.ListPullRequestComments)(ctx, req)
}

func (s *Server) getPullRequestReviews(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.pullReader(s.gh.ListPullRequestReviews)(ctx, req)
}

type listPullRequestsArgs struct {
	repoArgs
	State     *string `json:"state"`
	Head      *string `json:"head"`
	Base      *string `json:"base"`
	Sort      *string `json:"sort"`
	Direction *string `json:"direction"`
	PerPage   *int    `json:"per_page"`
	Page      *int    `json:"page"`
}

func (s *Server) listPullRequests(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args listPullRequestsArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}
	if err := args.validate(); err != nil {
		return nil, err
	}
	for _, check := range []error{
		oneOf("state", args.State, "open", "closed", "all"),
		oneOf("sort", args.Sort, "created", "updated", "popularity", "long-running"),
		oneOf("direction", args.Direction, "asc", "desc"),
		optionalPositive("page", args.Page),
		optionalPositive("per_page", args.PerPage),
	} {
		if check != nil {
			return nil, check
		}
	}

	prs, err := s.gh.ListPullRequests(ctx, args.Owner, args.Repo, gh.ListPullRequestsOptions{
		State:     args.State,
		Head:      args.Head,
		Base:      args.Base,
		Sort:      args.Sort,
		Direction: args.Direction,
		PerPage:   args.PerPage,
		Page:      args.Page,
	})
	if err != nil {
		return nil, err
	}
	return jsonResult(prs)
}

type createReviewArgs struct {
	pullArgs
	CommitID *string            `json:"commit_id"`
	Body     string             `json:"body"`
	Event    string             `json:"event"`
	Comments []gh.ReviewComment `json:"comments"`
}

func (s *Server) createPullRequestReview(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args createReviewArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}
	if err := args.validate(); err != nil {
		return nil, err
	}
	if err := required("body", args.Body); err != nil {
		return nil, err
	}
	if err := oneOf("event", &args.Event, "APPROVE", "REQUEST_CHANGES", "COMMENT"); err != nil {
		return nil, err
	}
	for i, c := range args.Comments {
		if c.Path == "" || c.Body == "" {
			return nil, core.Invalidf("comments", "entry %d needs path and body", i)
		}
	}

	review, err := s.gh.CreatePullRequestReview(ctx, args.Owner, args.Repo, args.PullNumber, gh.CreateReviewInput{
		CommitID: args.CommitID,
		Body:     args.Body,
		Event:    args.Event,
		Comments: args.Comments,
	})
	if err != nil {
		return nil, err
	}
	return jsonResult(review)
}

type mergePullRequestArgs struct {
	pullArgs
	CommitTitle   *string `json:"commit_title"`
	CommitMessage *string `json:"commit_message"`
	MergeMethod   *string `json:"merge_method"`
}

func (s *Server) mergePullRequest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args mergePullRequestArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}
	if err := args.validate(); err != nil {
		return nil, err
	}
	if err := oneOf("merge_method", args.MergeMethod, "merge", "squash", "rebase"); err != nil {
		return nil, err
	}

	res, err := s.gh.MergePullRequest(ctx, args.Owner, args.Repo, args.PullNumber, gh.MergePullRequestInput{
		CommitTitle:   args.CommitTitle,
		CommitMessage: args.CommitMessage,
		MergeMethod:   args.MergeMethod,
	})
	if err != nil {
		return nil, err
	}
	return jsonResult(res)
}

func (s *Server) getPullRequestStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args pullArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}
	if err := args.validate(); err != nil {
		return nil, err
	}

	status, err := s.gh.GetPullRequestStatus(ctx, args.Owner, args.Repo, args.PullNumber)
	if err != nil {
		return nil, err
	}
	return jsonResult(status)
}

type updatePullBranchArgs struct {
	pullArgs
	ExpectedHeadSHA *string `json:"expected_head_sha"`
}

func (s *Server) updatePullRequestBranch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args updatePullBranchArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}
	if err := args.validate(); err != nil {
		return nil, err
	}

	if err := s.gh.UpdatePullRequestBranch(ctx, args.Owner, args.Repo, args.PullNumber, deref(args.ExpectedHeadSHA)); err != nil {
		return nil, err
	}
	return jsonResult(map[string]bool{"success": true})
}
