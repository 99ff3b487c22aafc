// Package github is a thin client over the GitHub REST API for the issue
// and pull-request operations the CLI needs.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ubounty/ubounty-cli/internal/auth"
	"github.com/ubounty/ubounty-cli/internal/config"
)

const defaultBaseURL = "https://api.github.com"

// ErrNoToken is returned when no GitHub token can be resolved from any
// source.
var ErrNoToken = fmt.Errorf("GitHub token not found. Run 'ubounty login' or set GITHUB_TOKEN")

// Client talks to the GitHub REST API as the authenticated user.
type Client struct {
	token   string
	baseURL string
	client  *http.Client
}

// NewClient creates a Client. baseURL is used for testing; pass empty
// string to use the real GitHub API.
func NewClient(token string, baseURL string) (*Client, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		token:   token,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// ResolveToken picks a GitHub token: explicit config override first, then
// the credential saved by `ubounty login`, then the GITHUB_TOKEN variable.
func ResolveToken(cfg *config.Config, store *auth.Store) string {
	if cfg != nil && cfg.GitHubToken != "" {
		return cfg.GitHubToken
	}
	if cred, ok := store.Read(); ok {
		return cred.Token
	}
	return os.Getenv("GITHUB_TOKEN")
}

// Issue is the subset of the GitHub issue payload the CLI consumes.
type Issue struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	State     string    `json:"state"`
	Body      string    `json:"body"`
	HTMLURL   string    `json:"html_url"`
	Comments  int       `json:"comments"`
	CreatedAt time.Time `json:"created_at"`
	User      Actor     `json:"user"`
	Labels    []Label   `json:"labels"`
	// PullRequest is set when the "issue" is actually a PR; list results
	// include both and callers usually want to skip these.
	PullRequest *struct{} `json:"pull_request,omitempty"`
}

type Actor struct {
	Login string `json:"login"`
}

type Label struct {
	Name string `json:"name"`
}

// Comment is a single issue comment.
type Comment struct {
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	User      Actor     `json:"user"`
}

// PullRequest is the subset of the created PR payload the CLI consumes.
type PullRequest struct {
	Number  int    `json:"number"`
	HTMLURL string `json:"html_url"`
}

// GetIssue fetches a single issue. repo is "owner/name".
func (c *Client) GetIssue(ctx context.Context, repo string, number int) (*Issue, error) {
	var issue Issue
	path := fmt.Sprintf("/repos/%s/issues/%d", repo, number)
	if err := c.do(ctx, http.MethodGet, path, nil, &issue); err != nil {
		return nil, fmt.Errorf("fetching issue #%d: %w", number, err)
	}
	return &issue, nil
}

// ListIssues fetches issues filtered by state ("open", "closed", "all")
// and labels. Pull requests are filtered out of the result.
func (c *Client) ListIssues(ctx context.Context, repo, state string, labels []string) ([]Issue, error) {
	query := url.Values{}
	if state != "" {
		query.Set("state", state)
	}
	if len(labels) > 0 {
		query.Set("labels", strings.Join(labels, ","))
	}
	query.Set("per_page", "100")

	var raw []Issue
	path := fmt.Sprintf("/repos/%s/issues?%s", repo, query.Encode())
	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, fmt.Errorf("listing issues: %w", err)
	}

	issues := make([]Issue, 0, len(raw))
	for _, issue := range raw {
		if issue.PullRequest == nil {
			issues = append(issues, issue)
		}
	}
	return issues, nil
}

// ListIssueComments fetches up to limit comments for an issue, oldest
// first. Pass limit <= 0 for all.
func (c *Client) ListIssueComments(ctx context.Context, repo string, number, limit int) ([]Comment, error) {
	var comments []Comment
	path := fmt.Sprintf("/repos/%s/issues/%d/comments", repo, number)
	if err := c.do(ctx, http.MethodGet, path, nil, &comments); err != nil {
		return nil, fmt.Errorf("fetching comments for issue #%d: %w", number, err)
	}
	if limit > 0 && len(comments) > limit {
		comments = comments[:limit]
	}
	return comments, nil
}

// AddIssueComment posts a comment to an issue.
func (c *Client) AddIssueComment(ctx context.Context, repo string, number int, body string) error {
	path := fmt.Sprintf("/repos/%s/issues/%d/comments", repo, number)
	payload := map[string]string{"body": body}
	if err := c.do(ctx, http.MethodPost, path, payload, nil); err != nil {
		return fmt.Errorf("adding comment to issue #%d: %w", number, err)
	}
	return nil
}

// CreateBranch creates branch from the head of base.
func (c *Client) CreateBranch(ctx context.Context, repo, branch, base string) error {
	var ref struct {
		Object struct {
			SHA string `json:"sha"`
		} `json:"object"`
	}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/repos/%s/git/ref/heads/%s", repo, base), nil, &ref); err != nil {
		return fmt.Errorf("resolving base branch %s: %w", base, err)
	}

	payload := map[string]string{
		"ref": "refs/heads/" + branch,
		"sha": ref.Object.SHA,
	}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/repos/%s/git/refs", repo), payload, nil); err != nil {
		return fmt.Errorf("creating branch %s: %w", branch, err)
	}
	return nil
}

// CreatePullRequest opens a PR from head into base and returns it.
func (c *Client) CreatePullRequest(ctx context.Context, repo, title, body, head, base string) (*PullRequest, error) {
	payload := map[string]string{
		"title": title,
		"body":  body,
		"head":  head,
		"base":  base,
	}
	var pr PullRequest
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/repos/%s/pulls", repo), payload, &pr); err != nil {
		return nil, fmt.Errorf("creating pull request: %w", err)
	}
	return &pr, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, target any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "ubounty-cli/"+config.Version())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Message string `json:"message"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Message != "" {
			return fmt.Errorf("github API error: %s (%s)", apiErr.Message, resp.Status)
		}
		return fmt.Errorf("github API error: %s", resp.Status)
	}

	if target == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(target)
}
