package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/paulraju12/github-mcp1/internal/core"
	gh "github.com/paulraju12/github-mcp1/internal/github"
)

type issueArgs struct {
	repoArgs
	IssueNumber int `json:"issue_number"`
}

func (a *issueArgs) validate() error {
	if err := a.repoArgs.validate(); err != nil {
		return err
	}
	return positive("issue_number", a.IssueNumber)
}

type createIssueArgs struct {
	repoArgs
	Title     string   `json:"title"`
	Body      *string  `json:"body"`
	Assignees []string `json:"assignees"`
	Milestone *int     `json:"milestone"`
	Labels    []string `json:"labels"`
}

func (s *Server) createIssue(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args createIssueArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}
	if err := args.validate(); err != nil {
		return nil, err
	}
	if err := core.ValidateIssueFields(&args.Title, args.Body, args.Labels); err != nil {
		return nil, err
	}

	issue, err := s.gh.CreateIssue(ctx, args.Owner, args.Repo, gh.CreateIssueInput{
		Title:     args.Title,
		Body:      args.Body,
		Assignees: args.Assignees,
		Milestone: args.Milestone,
		Labels:    args.Labels,
	})
	if err != nil {
		return nil, err
	}
	return jsonResult(issue)
}

func (s *Server) getIssue(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args issueArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}
	if err := args.validate(); err != nil {
		return nil, err
	}

	issue, err := s.gh.GetIssue(ctx, args.Owner, args.Repo, args.IssueNumber)
	if err != nil {
		return nil, err
	}
	return jsonResult(issue)
}

type listIssuesArgs struct {
	repoArgs
	State     *string  `json:"state"`
	Labels    []string `json:"labels"`
	Sort      *string  `json:"sort"`
	Direction *string  `json:"direction"`
	Since     *string  `json:"since"`
	Page      *int     `json:"page"`
	PerPage   *int     `json:"per_page"`
}

func (s *Server) listIssues(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args listIssuesArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}
	if err := args.validate(); err != nil {
		return nil, err
	}
	for _, check := range []error{
		oneOf("state", args.State, "open", "closed", "all"),
		oneOf("sort", args.Sort, "created", "updated", "comments"),
		oneOf("direction", args.Direction, "asc", "desc"),
		optionalPositive("page", args.Page),
		optionalPositive("per_page", args.PerPage),
	} {
		if check != nil {
			return nil, check
		}
	}

	issues, err := s.gh.ListIssues(ctx, args.Owner, args.Repo, gh.ListIssuesOptions{
		Direction: args.Direction,
		Labels:    args.Labels,
		Page:      args.Page,
		PerPage:   args.PerPage,
		Since:     args.Since,
		Sort:      args.Sort,
		State:     args.State,
	})
	if err != nil {
		return nil, err
	}
	return jsonResult(issues)
}

type updateIssueArgs struct {
	issueArgs
	Title     *string  `json:"title"`
	Body      *string  `json:"body"`
	State     *string  `json:"state"`
	Assignees []string `json:"assignees"`
	Milestone *int     `json:"milestone"`
	Labels    []string `json:"labels"`
}

func (s *Server) updateIssue(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args updateIssueArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}
	if err := args.validate(); err != nil {
		return nil, err
	}
	if err := oneOf("state", args.State, "open", "closed"); err != nil {
		return nil, err
	}
	if err := core.ValidateIssueFields(args.Title, args.Body, args.Labels); err != nil {
		return nil, err
	}

	issue, err := s.gh.UpdateIssue(ctx, args.Owner, args.Repo, args.IssueNumber, gh.UpdateIssueInput{
		Title:     args.Title,
		Body:      args.Body,
		Assignees: args.Assignees,
		Milestone: args.Milestone,
		Labels:    args.Labels,
		State:     args.State,
	})
	if err != nil {
		return nil, err
	}
	return jsonResult(issue)
}

type issueCommentArgs struct {
	issueArgs
	Body string `json:"body"`
}

func (s *Server) addIssueComment(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args issueCommentArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}
	if err := args.validate(); err != nil {
		return nil, err
	}
	if err := required("body", args.Body); err != nil {
		return nil, err
	}

	comment, err := s.gh.AddIssueComment(ctx, args.Owner, args.Repo, args.IssueNumber, args.Body)
	if err != nil {
		return nil, err
	}
	return jsonResult(comment)
}
