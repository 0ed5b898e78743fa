package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

// DefaultBaseURL is the public GitHub REST v3 endpoint.
const DefaultBaseURL = "https://api.github.com"

// Client is a thin wrapper around the GitHub REST v3 API. The token is the
// optional process-wide credential, injected at construction so the client
// stays testable without environment mutation.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient returns a client for the given API base URL. An empty baseURL
// selects the public endpoint. An empty token is allowed: requests then go
// out unauthenticated, which GitHub rate-limits much more aggressively.
func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if token == "" {
		logrus.Warn("No GitHub token configured; unauthenticated requests face stricter rate limits")
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		httpClient: http.DefaultClient,
	}
}

// Repository is the subset of repository metadata a briefing uses.
type Repository struct {
	FullName        string  `json:"full_name"`
	Description     *string `json:"description"`
	StargazersCount int     `json:"stargazers_count"`
	DefaultBranch   string  `json:"default_branch"`
}

// Content is a base64-encoded file payload, as returned by the readme and
// contents endpoints.
type Content struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// TreeEntry is one node of a recursive git tree listing.
type TreeEntry struct {
	Path string `json:"path"`
	Type string `json:"type"`
}

type treeResponse struct {
	Tree      []TreeEntry `json:"tree"`
	Truncated bool        `json:"truncated"`
}

// get performs one API read. Transport failures and 5xx statuses return an
// error; every status below 500 is returned to the caller to interpret, so
// secondary payloads can be treated as absent instead of fatal.
func (c *Client) get(ctx context.Context, path string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("executing request for %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("reading response for %s: %w", path, err)
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, resp.StatusCode, fmt.Errorf("GitHub API returned %d for %s: %s", resp.StatusCode, path, string(body))
	}
	return body, resp.StatusCode, nil
}

// fetchRepository returns decoded metadata on 200 and the raw status
// otherwise. The caller decides what a non-200 status means.
func (c *Client) fetchRepository(ctx context.Context, owner, name string) (*Repository, int, error) {
	body, status, err := c.get(ctx, fmt.Sprintf("/repos/%s/%s", owner, name))
	if err != nil {
		return nil, status, err
	}
	if status != http.StatusOK {
		return nil, status, nil
	}
	var repo Repository
	if err := json.Unmarshal(body, &repo); err != nil {
		return nil, status, fmt.Errorf("parsing repository metadata: %w", err)
	}
	return &repo, status, nil
}

func (c *Client) fetchLanguages(ctx context.Context, owner, name string) (map[string]int, error) {
	body, status, err := c.get(ctx, fmt.Sprintf("/repos/%s/%s/languages", owner, name))
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, nil
	}
	var langs map[string]int
	if err := json.Unmarshal(body, &langs); err != nil {
		return nil, fmt.Errorf("parsing language breakdown: %w", err)
	}
	return langs, nil
}

// fetchContent reads a base64 file payload. A non-200 status (typically a
// 404 for repositories without the file) yields a nil payload, no error.
func (c *Client) fetchContent(ctx context.Context, path string) (*Content, error) {
	body, status, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, nil
	}
	var content Content
	if err := json.Unmarshal(body, &content); err != nil {
		return nil, fmt.Errorf("parsing content payload for %s: %w", path, err)
	}
	return &content, nil
}

func (c *Client) fetchTree(ctx context.Context, owner, name, branch string) ([]TreeEntry, int, error) {
	body, status, err := c.get(ctx, fmt.Sprintf("/repos/%s/%s/git/trees/%s?recursive=1", owner, name, branch))
	if err != nil {
		return nil, status, err
	}
	if status != http.StatusOK {
		return nil, status, nil
	}
	var tree treeResponse
	if err := json.Unmarshal(body, &tree); err != nil {
		return nil, status, fmt.Errorf("parsing tree for branch %s: %w", branch, err)
	}
	if tree.Truncated {
		logrus.Warnf("GitHub truncated the recursive tree for %s/%s@%s", owner, name, branch)
	}
	return tree.Tree, status, nil
}
