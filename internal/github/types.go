package github

// Ref is a git reference such as refs/heads/main.
type Ref struct {
	Ref    string    `json:"ref"`
	NodeID string    `json:"node_id,omitempty"`
	URL    string    `json:"url,omitempty"`
	Object RefObject `json:"object"`
}

type RefObject struct {
	SHA  string `json:"sha"`
	Type string `json:"type,omitempty"`
	URL  string `json:"url,omitempty"`
}

type TreeEntry struct {
	Path    string `json:"path"`
	Mode    string `json:"mode"`
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
	SHA     string `json:"sha,omitempty"`
	Size    int64  `json:"size,omitempty"`
	URL     string `json:"url,omitempty"`
}

type Tree struct {
	SHA       string      `json:"sha"`
	URL       string      `json:"url,omitempty"`
	Tree      []TreeEntry `json:"tree"`
	Truncated bool        `json:"truncated"`
}

type CommitAuthor struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Date  string `json:"date,omitempty"`
}

type GitCommit struct {
	SHA       string        `json:"sha"`
	NodeID    string        `json:"node_id,omitempty"`
	URL       string        `json:"url,omitempty"`
	Message   string        `json:"message"`
	Author    *CommitAuthor `json:"author,omitempty"`
	Committer *CommitAuthor `json:"committer,omitempty"`
	Tree      struct {
		SHA string `json:"sha"`
	} `json:"tree"`
	Parents []struct {
		SHA string `json:"sha"`
	} `json:"parents"`
}

// FileOperation is one file written by PushFiles.
type FileOperation struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

type ContentLinks struct {
	Self string `json:"self"`
	Git  string `json:"git,omitempty"`
	HTML string `json:"html,omitempty"`
}

// FileContent is a file or directory entry from the contents API. Content is
// decoded text for files fetched through GetFileContents.
type FileContent struct {
	Type        string        `json:"type"`
	Name        string        `json:"name"`
	Path        string        `json:"path"`
	SHA         string        `json:"sha"`
	Size        int64         `json:"size"`
	URL         string        `json:"url,omitempty"`
	HTMLURL     string        `json:"html_url,omitempty"`
	GitURL      string        `json:"git_url,omitempty"`
	DownloadURL *string       `json:"download_url,omitempty"`
	Content     string        `json:"content,omitempty"`
	Encoding    string        `json:"encoding,omitempty"`
	Links       *ContentLinks `json:"_links,omitempty"`
}

// Contents holds either a single file or a directory listing.
type Contents struct {
	File    *FileContent  `json:"file,omitempty"`
	Entries []FileContent `json:"entries,omitempty"`
}

// IsDir reports whether the contents are a directory listing.
func (c *Contents) IsDir() bool { return c.File == nil }

type FileCommitResult struct {
	Content *FileContent   `json:"content"`
	Commit  map[string]any `json:"commit"`
}

type User struct {
	Login   string `json:"login"`
	ID      int64  `json:"id"`
	HTMLURL string `json:"html_url,omitempty"`
}

type PullRequestRef struct {
	Label string `json:"label,omitempty"`
	Ref   string `json:"ref"`
	SHA   string `json:"sha"`
}

type PullRequest struct {
	Number    int            `json:"number"`
	Title     string         `json:"title"`
	State     string         `json:"state"`
	Draft     bool           `json:"draft"`
	HTMLURL   string         `json:"html_url"`
	Merged    bool           `json:"merged"`
	Mergeable *bool          `json:"mergeable,omitempty"`
	User      *User          `json:"user,omitempty"`
	Base      PullRequestRef `json:"base"`
	Head      PullRequestRef `json:"head"`
}

type StatusCheck struct {
	URL         string  `json:"url"`
	State       string  `json:"state"`
	Description *string `json:"description"`
	TargetURL   *string `json:"target_url"`
	Context     string  `json:"context"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// CombinedStatus is the rolled-up commit status of a ref.
type CombinedStatus struct {
	State      string        `json:"state"`
	SHA        string        `json:"sha"`
	TotalCount int           `json:"total_count"`
	Statuses   []StatusCheck `json:"statuses"`
}
