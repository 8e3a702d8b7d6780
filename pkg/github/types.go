package github

import "time"

// User is an account, as embedded in other resources or fetched directly.
type User struct {
	Login     string `json:"login"`
	ID        int64  `json:"id"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	Type      string `json:"type,omitempty"`
	HTMLURL   string `json:"html_url,omitempty"`
	Followers int    `json:"followers,omitempty"`
	Following int    `json:"following,omitempty"`
}

// Repository is a repository resource.
type Repository struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	FullName      string    `json:"full_name"`
	Owner         *User     `json:"owner,omitempty"`
	Private       bool      `json:"private"`
	Description   string    `json:"description,omitempty"`
	Fork          bool      `json:"fork"`
	DefaultBranch string    `json:"default_branch,omitempty"`
	Language      string    `json:"language,omitempty"`
	Stargazers    int       `json:"stargazers_count"`
	OpenIssues    int       `json:"open_issues_count"`
	Topics        []string  `json:"topics,omitempty"`
	HTMLURL       string    `json:"html_url,omitempty"`
	CreatedAt     time.Time `json:"created_at,omitzero"`
	UpdatedAt     time.Time `json:"updated_at,omitzero"`
	PushedAt      time.Time `json:"pushed_at,omitzero"`
}

// Branch is the head or base of a pull request.
type Branch struct {
	Label string      `json:"label,omitempty"`
	Ref   string      `json:"ref"`
	SHA   string      `json:"sha,omitempty"`
	Repo  *Repository `json:"repo,omitempty"`
}

// PullRequest is a pull request resource.
type PullRequest struct {
	ID        int64      `json:"id"`
	Number    int        `json:"number"`
	State     string     `json:"state"`
	Title     string     `json:"title"`
	Body      string     `json:"body,omitempty"`
	User      *User      `json:"user,omitempty"`
	Head      *Branch    `json:"head,omitempty"`
	Base      *Branch    `json:"base,omitempty"`
	Draft     bool       `json:"draft"`
	Merged    bool       `json:"merged,omitempty"`
	Mergeable *bool      `json:"mergeable,omitempty"`
	HTMLURL   string     `json:"html_url,omitempty"`
	CreatedAt time.Time  `json:"created_at,omitzero"`
	UpdatedAt time.Time  `json:"updated_at,omitzero"`
	MergedAt  *time.Time `json:"merged_at,omitempty"`
}

// Label is an issue label.
type Label struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Issue is an issue resource, as returned by issue listings and search.
// The search endpoint returns pull requests here too.
type Issue struct {
	ID        int64      `json:"id"`
	Number    int        `json:"number"`
	State     string     `json:"state"`
	Title     string     `json:"title"`
	Body      string     `json:"body,omitempty"`
	User      *User      `json:"user,omitempty"`
	Labels    []Label    `json:"labels,omitempty"`
	Comments  int        `json:"comments"`
	HTMLURL   string     `json:"html_url,omitempty"`
	CreatedAt time.Time  `json:"created_at,omitzero"`
	UpdatedAt time.Time  `json:"updated_at,omitzero"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
}

// PullRequestFile is one changed file in a pull request.
type PullRequestFile struct {
	SHA       string `json:"sha"`
	Filename  string `json:"filename"`
	Status    string `json:"status"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
	Changes   int    `json:"changes"`
	Patch     string `json:"patch,omitempty"`
}

// NewPullRequest is the request body for creating a pull request.
type NewPullRequest struct {
	Title string `json:"title"`
	Head  string `json:"head"`
	Base  string `json:"base"`
	Body  string `json:"body,omitempty"`
	Draft bool   `json:"draft,omitempty"`
}

// MergeOptions shapes a merge request.
type MergeOptions struct {
	CommitTitle   string `json:"commit_title,omitempty"`
	CommitMessage string `json:"commit_message,omitempty"`
	MergeMethod   string `json:"merge_method,omitempty"`
	SHA           string `json:"sha,omitempty"`
}

// MergeResult is the response to a merge request.
type MergeResult struct {
	SHA     string `json:"sha"`
	Merged  bool   `json:"merged"`
	Message string `json:"message"`
}

// NewRepository is the request body for creating a repository.
type NewRepository struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Private     bool   `json:"private,omitempty"`
	AutoInit    bool   `json:"auto_init,omitempty"`
}
