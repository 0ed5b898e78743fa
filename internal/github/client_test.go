package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetSetsHeaders(t *testing.T) {
	var gotAccept, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok-123")
	if _, _, err := c.get(context.Background(), "/repos/o/r"); err != nil {
		t.Fatalf("get: %v", err)
	}
	if gotAccept != "application/vnd.github.v3+json" {
		t.Errorf("Accept = %q, want GitHub v3 media type", gotAccept)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
}

func TestGetWithoutToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	if _, _, err := c.get(context.Background(), "/repos/o/r"); err != nil {
		t.Fatalf("get: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("Authorization = %q, want unset for anonymous client", gotAuth)
	}
}

func TestGetServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	if _, _, err := c.get(context.Background(), "/repos/o/r"); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestGetTolerates404(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, status, err := c.get(context.Background(), "/repos/o/r/readme")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", status)
	}
}

func TestFetchRepository(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"full_name":"o/r","description":"demo","stargazers_count":7,"default_branch":"main"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	repo, status, err := c.fetchRepository(context.Background(), "o", "r")
	if err != nil {
		t.Fatalf("fetchRepository: %v", err)
	}
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if repo.FullName != "o/r" || repo.StargazersCount != 7 || repo.DefaultBranch != "main" {
		t.Errorf("unexpected metadata: %+v", repo)
	}
	if repo.Description == nil || *repo.Description != "demo" {
		t.Errorf("description = %v, want demo", repo.Description)
	}
}

func TestFetchRepositoryNullDescription(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"full_name":"o/r","description":null,"stargazers_count":0,"default_branch":"main"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	repo, _, err := c.fetchRepository(context.Background(), "o", "r")
	if err != nil {
		t.Fatalf("fetchRepository: %v", err)
	}
	if repo.Description != nil {
		t.Errorf("description = %v, want nil for JSON null", repo.Description)
	}
}

func TestFetchLanguagesAbsent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	langs, err := c.fetchLanguages(context.Background(), "o", "r")
	if err != nil {
		t.Fatalf("fetchLanguages: %v", err)
	}
	if langs != nil {
		t.Errorf("languages = %v, want nil when endpoint 404s", langs)
	}
}

func TestFetchContentAbsent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	content, err := c.fetchContent(context.Background(), "/repos/o/r/contents/package.json")
	if err != nil {
		t.Fatalf("fetchContent: %v", err)
	}
	if content != nil {
		t.Errorf("content = %+v, want nil when file is missing", content)
	}
}

func TestFetchTree(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("recursive") != "1" {
			t.Errorf("recursive = %q, want 1", r.URL.Query().Get("recursive"))
		}
		w.Write([]byte(`{"tree":[{"path":"main.go","type":"blob"},{"path":"internal","type":"tree"}],"truncated":false}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	tree, status, err := c.fetchTree(context.Background(), "o", "r", "main")
	if err != nil {
		t.Fatalf("fetchTree: %v", err)
	}
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if len(tree) != 2 || tree[0].Path != "main.go" || tree[1].Type != "tree" {
		t.Errorf("unexpected tree: %+v", tree)
	}
}
