package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"

	"repobrief/internal/github"
	"repobrief/internal/input"
	"repobrief/internal/models"
)

type fakeRunner struct {
	got input.Input
	b   *models.Briefing
	err error
}

func (f *fakeRunner) Run(_ context.Context, in input.Input) (*models.Briefing, error) {
	f.got = in
	if f.err != nil {
		return nil, f.err
	}
	return f.b, nil
}

func newTestRouter(f *fakeRunner) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return New(f)
}

func TestHealthz(t *testing.T) {
	mock := models.MockBriefing()
	f := &fakeRunner{b: &mock}
	router := newTestRouter(f)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "octocat/hello-world") {
		t.Errorf("body should carry the mock briefing: %s", w.Body.String())
	}
	if f.got.APIKey != input.MockAPIKey {
		t.Errorf("health check ran with key %q, want the mock key", f.got.APIKey)
	}
}

func TestHealthzDegraded(t *testing.T) {
	f := &fakeRunner{err: errors.New("wiring broken")}
	router := newTestRouter(f)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
}

func TestCreateBriefing(t *testing.T) {
	want := models.Briefing{
		Repo:        "octo/app",
		Description: "demo app",
		Stars:       12,
		Languages:   map[string]int{"Go": 1500},
		FileTree:    []string{"main.go"},
		Analysis: models.Analysis{
			Purpose:             "Demo.",
			TechStack:           "Go",
			ArchitectureSummary: "Flat.",
			ComplexityScore:     2,
		},
	}
	f := &fakeRunner{b: &want}
	router := newTestRouter(f)

	body := `{"repo_url":"https://github.com/octo/app","api_key":"sk-test"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/briefings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var got models.Briefing
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("briefing mismatch (-want +got):\n%s", diff)
	}
	if f.got.RepoURL != "https://github.com/octo/app" || f.got.APIKey != "sk-test" {
		t.Errorf("runner input = %+v", f.got)
	}
}

func TestCreateBriefingMalformedBody(t *testing.T) {
	f := &fakeRunner{}
	router := newTestRouter(f)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/briefings", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestCreateBriefingErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "missing field", err: &input.MissingFieldError{Field: "api_key"}, want: http.StatusBadRequest},
		{name: "invalid url", err: input.ErrInvalidURL, want: http.StatusBadRequest},
		{name: "repo not found", err: github.ErrRepositoryNotFound, want: http.StatusNotFound},
		{name: "upstream failure", err: errors.New("rate limited"), want: http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&fakeRunner{err: tt.err})

			body := `{"repo_url":"https://github.com/octo/app","api_key":"sk-test"}`
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/v1/briefings", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestRequestIDHeader(t *testing.T) {
	mock := models.MockBriefing()
	router := newTestRouter(&fakeRunner{b: &mock})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	router.ServeHTTP(w, req)
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("response missing generated X-Request-ID")
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "req-42")
	router.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != "req-42" {
		t.Errorf("X-Request-ID = %q, want caller-supplied id echoed", got)
	}
}
