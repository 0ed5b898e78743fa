package input

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// MockAPIKey short-circuits the whole pipeline: no network calls are made
// and a fixed mock briefing is emitted. Deployment health checks use it to
// prove the process is wired end to end without spending API quota.
const MockAPIKey = "mock-api-key"

// Input is the per-run request: which repository to brief and the key used
// for the AI completion call. The optional GitHub credential is process
// configuration, not run input.
type Input struct {
	RepoURL string `json:"repo_url"`
	APIKey  string `json:"api_key"`
}

// MissingFieldError reports a required input field that was absent or empty.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// ErrInvalidURL means the repository URL does not contain a
// github.com/<owner>/<repo> path.
var ErrInvalidURL = errors.New("invalid repository URL")

var repoURLPattern = regexp.MustCompile(`github\.com/([^/\s?#]+)/([^/\s?#]+)`)

// Validate checks that both required fields are present. It runs before
// any network activity, so a bad input never costs a request.
func (in Input) Validate() error {
	if strings.TrimSpace(in.RepoURL) == "" {
		return &MissingFieldError{Field: "repo_url"}
	}
	if strings.TrimSpace(in.APIKey) == "" {
		return &MissingFieldError{Field: "api_key"}
	}
	return nil
}

// IsMock reports whether the run should take the health-check bypass.
func (in Input) IsMock() bool {
	return in.APIKey == MockAPIKey
}

// ParseRepoURL extracts (owner, name) from a URL containing
// github.com/<owner>/<repo>. A trailing .git is trimmed from the name.
// Whether the repository actually exists is not checked here.
func ParseRepoURL(raw string) (owner, name string, err error) {
	m := repoURLPattern.FindStringSubmatch(raw)
	if m == nil {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	name = strings.TrimSuffix(m[2], ".git")
	if name == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	return m[1], name, nil
}
