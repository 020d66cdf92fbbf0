package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

var (
	withOwner      = mcp.WithString("owner", mcp.Required(), mcp.Description("Repository owner (username or organization)"))
	withRepo       = mcp.WithString("repo", mcp.Required(), mcp.Description("Repository name"))
	withIssue      = mcp.WithNumber("issue_number", mcp.Required(), mcp.Description("Issue number"))
	withPull       = mcp.WithNumber("pull_number", mcp.Required(), mcp.Description("Pull request number"))
	withPage       = mcp.WithNumber("page", mcp.Description("Page number for pagination (1-based)"))
	withPerPage    = mcp.WithNumber("per_page", mcp.Description("Results per page (max 100)"))
	withDirection  = mcp.WithString("direction", mcp.Description("Sort direction"), mcp.Enum("asc", "desc"))
	withSearchQ    = mcp.WithString("q", mcp.Required(), mcp.Description("Search query in GitHub search syntax"))
	withOrder      = mcp.WithString("order", mcp.Description("Sort order"), mcp.Enum("asc", "desc"))
	withSearchSort = mcp.WithString("sort", mcp.Description("Sort field"))
	withLabels     = mcp.WithArray("labels", mcp.Description("Label names"), mcp.Items(map[string]any{"type": "string"}))
	withAssignees  = mcp.WithArray("assignees", mcp.Description("Usernames to assign"), mcp.Items(map[string]any{"type": "string"}))
	withMilestone  = mcp.WithNumber("milestone", mcp.Description("Milestone number"))
)

func newTool(name, description string, opts ...mcp.ToolOption) mcp.Tool {
	return mcp.NewTool(name, append([]mcp.ToolOption{mcp.WithDescription(description)}, opts...)...)
}

// tools pairs every tool definition with its handler.
func (s *Server) tools() []server.ServerTool {
	return []server.ServerTool{
		// branches, commits and files
		{Tool: newTool("create_branch", "Create a new branch in a GitHub repository",
			withOwner, withRepo,
			mcp.WithString("branch", mcp.Required(), mcp.Description("Name for the new branch")),
			mcp.WithString("from_branch", mcp.Description("Source branch to create from (defaults to the repository's default branch)")),
		), Handler: s.createBranch},
		{Tool: newTool("list_commits", "Get list of commits of a branch in a GitHub repository",
			withOwner, withRepo,
			mcp.WithString("sha", mcp.Description("Branch name or commit SHA to start listing from")),
			withPage, withPerPage,
		), Handler: s.listCommits},
		{Tool: newTool("create_or_update_file", "Create or update a single file in a GitHub repository",
			withOwner, withRepo,
			mcp.WithString("path", mcp.Required(), mcp.Description("Path where to create/update the file")),
			mcp.WithString("content", mcp.Required(), mcp.Description("Content of the file")),
			mcp.WithString("message", mcp.Required(), mcp.Description("Commit message")),
			mcp.WithString("branch", mcp.Required(), mcp.Description("Branch to create/update the file in")),
			mcp.WithString("sha", mcp.Description("SHA of the file being replaced; looked up when omitted")),
		), Handler: s.createOrUpdateFile},
		{Tool: newTool("get_file_contents", "Get the contents of a file or directory from a GitHub repository",
			withOwner, withRepo,
			mcp.WithString("path", mcp.Required(), mcp.Description("Path to the file or directory")),
			mcp.WithString("branch", mcp.Description("Branch to get contents from")),
		), Handler: s.getFileContents},
		{Tool: newTool("push_files", "Push multiple files to a GitHub repository in a single commit",
			withOwner, withRepo,
			mcp.WithString("branch", mcp.Required(), mcp.Description("Branch to push to")),
			mcp.WithArray("files", mcp.Required(), mcp.Description("Files to push"), mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"path":    map[string]any{"type": "string"},
					"content": map[string]any{"type": "string"},
				},
				"required": []string{"path", "content"},
			})),
			mcp.WithString("message", mcp.Required(), mcp.Description("Commit message")),
		), Handler: s.pushFiles},

		// issues
		{Tool: newTool("create_issue", "Create a new issue in a GitHub repository",
			withOwner, withRepo,
			mcp.WithString("title", mcp.Required(), mcp.Description("Issue title")),
			mcp.WithString("body", mcp.Description("Issue body")),
			withAssignees, withMilestone, withLabels,
		), Handler: s.createIssue},
		{Tool: newTool("get_issue", "Get details of a specific issue in a GitHub repository",
			withOwner, withRepo, withIssue,
		), Handler: s.getIssue},
		{Tool: newTool("list_issues", "List issues in a GitHub repository with filtering options",
			withOwner, withRepo,
			mcp.WithString("state", mcp.Description("Issue state"), mcp.Enum("open", "closed", "all")),
			withLabels,
			mcp.WithString("sort", mcp.Description("Sort field"), mcp.Enum("created", "updated", "comments")),
			withDirection,
			mcp.WithString("since", mcp.Description("Only issues updated at or after this ISO 8601 time")),
			withPage, withPerPage,
		), Handler: s.listIssues},
		{Tool: newTool("update_issue", "Update an existing issue in a GitHub repository",
			withOwner, withRepo, withIssue,
			mcp.WithString("title", mcp.Description("New title")),
			mcp.WithString("body", mcp.Description("New body")),
			mcp.WithString("state", mcp.Description("New state"), mcp.Enum("open", "closed")),
			withAssignees, withMilestone, withLabels,
		), Handler: s.updateIssue},
		{Tool: newTool("add_issue_comment", "Add a comment to an existing issue",
			withOwner, withRepo, withIssue,
			mcp.WithString("body", mcp.Required(), mcp.Description("Comment text")),
		), Handler: s.addIssueComment},

		// pull requests
		{Tool: newTool("create_pull_request", "Create a new pull request in a GitHub repository",
			withOwner, withRepo,
			mcp.WithString("title", mcp.Required(), mcp.Description("Pull request title")),
			mcp.WithString("body", mcp.Description("Pull request body/description")),
			mcp.WithString("head", mcp.Required(), mcp.Description("The name of the branch where your changes are implemented")),
			mcp.WithString("base", mcp.Required(), mcp.Description("The name of the branch you want the changes pulled into")),
			mcp.WithBoolean("draft", mcp.Description("Whether to create the pull request as a draft")),
			mcp.WithBoolean("maintainer_can_modify", mcp.Description("Whether maintainers can modify the pull request")),
		), Handler: s.createPullRequest},
		{Tool: newTool("get_pull_request", "Get details of a specific pull request",
			withOwner, withRepo, withPull,
		), Handler: s.getPullRequest},
		{Tool: newTool("list_pull_requests", "List and filter repository pull requests",
			withOwner, withRepo,
			mcp.WithString("state", mcp.Description("Pull request state"), mcp.Enum("open", "closed", "all")),
			mcp.WithString("head", mcp.Description("Filter by head user or branch (user:ref-name)")),
			mcp.WithString("base", mcp.Description("Filter by base branch")),
			mcp.WithString("sort", mcp.Description("Sort field"), mcp.Enum("created", "updated", "popularity", "long-running")),
			withDirection, withPerPage, withPage,
		), Handler: s.listPullRequests},
		{Tool: newTool("create_pull_request_review", "Create a review on a pull request",
			withOwner, withRepo, withPull,
			mcp.WithString("commit_id", mcp.Description("The SHA of the commit that needs a review")),
			mcp.WithString("body", mcp.Required(), mcp.Description("The body text of the review")),
			mcp.WithString("event", mcp.Required(), mcp.Description("The review action to perform"), mcp.Enum("APPROVE", "REQUEST_CHANGES", "COMMENT")),
			mcp.WithArray("comments", mcp.Description("Line comments to attach to the review"), mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"path":     map[string]any{"type": "string"},
					"position": map[string]any{"type": "number"},
					"line":     map[string]any{"type": "number"},
					"body":     map[string]any{"type": "string"},
				},
				"required": []string{"path", "body"},
			})),
		), Handler: s.createPullRequestReview},
		{Tool: newTool("merge_pull_request", "Merge a pull request",
			withOwner, withRepo, withPull,
			mcp.WithString("commit_title", mcp.Description("Title for the automatic commit message")),
			mcp.WithString("commit_message", mcp.Description("Extra detail to append to the commit message")),
			mcp.WithString("merge_method", mcp.Description("Merge method to use"), mcp.Enum("merge", "squash", "rebase")),
		), Handler: s.mergePullRequest},
		{Tool: newTool("get_pull_request_files", "Get the list of files changed in a pull request",
			withOwner, withRepo, withPull,
		), Handler: s.getPullRequestFiles},
		{Tool: newTool("get_pull_request_status", "Get the combined status of all status checks for a pull request",
			withOwner, withRepo, withPull,
		), Handler: s.getPullRequestStatus},
		{Tool: newTool("update_pull_request_branch", "Update a pull request branch with the latest changes from the base branch",
			withOwner, withRepo, withPull,
			mcp.WithString("expected_head_sha", mcp.Description("The expected SHA of the pull request's HEAD ref")),
		), Handler: s.updatePullRequestBranch},
		{Tool: newTool("get_pull_request_comments", "Get the review comments on a pull request",
			withOwner, withRepo, withPull,
		), Handler: s.getPullRequestComments},
		{Tool: newTool("get_pull_request_reviews", "Get the reviews on a pull request",
			withOwner, withRepo, withPull,
		), Handler: s.getPullRequestReviews},

		// repositories and search
		{Tool: newTool("create_repository", "Create a new GitHub repository in your account",
			mcp.WithString("name", mcp.Required(), mcp.Description("Repository name")),
			mcp.WithString("description", mcp.Description("Repository description")),
			mcp.WithBoolean("private", mcp.Description("Whether the repository should be private")),
			mcp.WithBoolean("auto_init", mcp.Description("Initialize with README.md")),
		), Handler: s.createRepository},
		{Tool: newTool("search_repositories", "Search for GitHub repositories",
			mcp.WithString("query", mcp.Required(), mcp.Description("Search query")),
			withPage, withPerPage,
		), Handler: s.searchRepositories},
		{Tool: newTool("fork_repository", "Fork a GitHub repository to your account or specified organization",
			withOwner, withRepo,
			mcp.WithString("organization", mcp.Description("Optional organization to fork to")),
		), Handler: s.forkRepository},
		{Tool: newTool("search_code", "Search for code across GitHub repositories",
			withSearchQ, withSearchSort, withOrder, withPage, withPerPage,
		), Handler: s.searchCode},
		{Tool: newTool("search_issues", "Search for issues and pull requests across GitHub repositories",
			withSearchQ, withSearchSort, withOrder, withPage, withPerPage,
		), Handler: s.searchIssues},
		{Tool: newTool("search_users", "Search for users on GitHub",
			withSearchQ, withSearchSort, withOrder, withPage, withPerPage,
		), Handler: s.searchUsers},
	}
}

// ToolDefinitions returns the tool catalogue without binding a client.
func ToolDefinitions() []mcp.Tool {
	s := &Server{}
	defs := make([]mcp.Tool, 0, 26)
	for _, t := range s.tools() {
		defs = append(defs, t.Tool)
	}
	return defs
}
