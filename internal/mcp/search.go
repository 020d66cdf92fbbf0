package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	gh "github.com/paulraju12/github-mcp1/internal/github"
)

type searchArgs struct {
	Q       string  `json:"q"`
	Sort    *string `json:"sort"`
	Order   *string `json:"order"`
	Page    *int    `json:"page"`
	PerPage *int    `json:"per_page"`
}

func (a searchArgs) options() (gh.SearchOptions, error) {
	if err := required("q", a.Q); err != nil {
		return gh.SearchOptions{}, err
	}
	for _, check := range []error{
		oneOf("order", a.Order, "asc", "desc"),
		optionalPositive("page", a.Page),
		optionalPositive("per_page", a.PerPage),
	} {
		if check != nil {
			return gh.SearchOptions{}, check
		}
	}
	return gh.SearchOptions{Query: a.Q, Sort: a.Sort, Order: a.Order, Page: a.Page, PerPage: a.PerPage}, nil
}

func (s *Server) searcher(search func(context.Context, gh.SearchOptions) (json.RawMessage, error)) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args searchArgs
		if err := bind(req, &args); err != nil {
			return nil, err
		}
		opts, err := args.options()
		if err != nil {
			return nil, err
		}
		out, err := search(ctx, opts)
		if err != nil {
			return nil, err
		}
		return jsonResult(out)
	}
}

func (s *Server) searchCode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.searcher(s.gh.SearchCode)(ctx, req)
}

func (s *Server) searchIssues(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.searcher(s.gh.SearchIssues)(ctx, req)
}

func (s *Server) searchUsers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.searcher(s.gh.SearchUsers)(ctx, req)
}

type searchRepositoriesArgs struct {
	Query   string `json:"query"`
	Page    *int   `json:"page"`
	PerPage *int   `json:"per_page"`
}

func (s *Server) searchRepositories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args searchRepositoriesArgs
	if err := bind(req, &args); err != nil {
		return nil, err
	}
	if err := required("query", args.Query); err != nil {
		return nil, err
	}
	opts, err := searchArgs{Q: args.Query, Page: args.Page, PerPage: args.PerPage}.options()
	if err != nil {
		return nil, err
	}

	repos, err := s.gh.SearchRepositories(ctx, opts)
	if err != nil {
		return nil, err
	}
	return jsonResult(repos)
}
