package github

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fundtree/fundtree/pkg/integrations"
)

func TestFetchUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user" {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q, want bearer token", got)
		}
		json.NewEncoder(w).Encode(User{Login: "alice", Name: "Alice"})
	}))
	defer server.Close()

	c := testClient(t, server.URL, "test-token")

	user, err := c.FetchUser(context.Background())
	if err != nil {
		t.Fatalf("FetchUser() error: %v", err)
	}
	if user.Login != "alice" {
		t.Errorf("Login = %q, want %q", user.Login, "alice")
	}
}

func TestFetchUserInvalidToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c := testClient(t, server.URL, "bad-token")

	if _, err := c.FetchUser(context.Background()); !errors.Is(err, integrations.ErrUnauthorized) {
		t.Errorf("FetchUser() error = %v, want ErrUnauthorized", err)
	}
}

func TestFundingFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "application/vnd.github.v3.raw" {
			t.Errorf("Accept = %q, want raw media type", got)
		}
		switch r.URL.Path {
		case "/repos/owner/repo/contents/.github/FUNDING.yml":
			w.Write([]byte("github: alice\n"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	c := testClient(t, server.URL, "")

	content, found, err := c.FundingFile(context.Background(), "owner", "repo")
	if err != nil {
		t.Fatalf("FundingFile() error: %v", err)
	}
	if !found {
		t.Fatal("FundingFile() found = false, want true")
	}
	if content != "github: alice\n" {
		t.Errorf("content = %q", content)
	}
}

func TestFundingFileFallbackPaths(t *testing.T) {
	var requested []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = append(requested, r.URL.Path)
		if r.URL.Path == "/repos/owner/repo/contents/docs/FUNDING.yml" {
			w.Write([]byte("patreon: bob\n"))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := testClient(t, server.URL, "")

	content, found, err := c.FundingFile(context.Background(), "owner", "repo")
	if err != nil {
		t.Fatalf("FundingFile() error: %v", err)
	}
	if !found || content != "patreon: bob\n" {
		t.Errorf("FundingFile() = (%q, %v), want docs fallback content", content, found)
	}

	want := []string{
		"/repos/owner/repo/contents/.github/FUNDING.yml",
		"/repos/owner/repo/contents/FUNDING.yml",
		"/repos/owner/repo/contents/docs/FUNDING.yml",
	}
	if len(requested) != len(want) {
		t.Fatalf("requested %d paths, want %d: %v", len(requested), len(want), requested)
	}
	for i := range want {
		if requested[i] != want[i] {
			t.Errorf("request %d = %q, want %q", i, requested[i], want[i])
		}
	}
}

func TestFundingFileAbsent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := testClient(t, server.URL, "")

	content, found, err := c.FundingFile(context.Background(), "owner", "repo")
	if err != nil {
		t.Fatalf("FundingFile() error: %v", err)
	}
	if found || content != "" {
		t.Errorf("FundingFile() = (%q, %v), want absent", content, found)
	}
}

func TestFundingFileError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	c := testClient(t, server.URL, "")

	_, _, err := c.FundingFile(context.Background(), "owner", "repo")
	if !errors.Is(err, integrations.ErrRateLimited) {
		t.Errorf("FundingFile() error = %v, want ErrRateLimited", err)
	}
}

func testClient(t *testing.T, serverURL, token string) *Client {
	t.Helper()
	headers := map[string]string{"Accept": "application/vnd.github.v3+json"}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	return &Client{
		Client:  integrations.NewClient(headers, nil),
		baseURL: serverURL,
	}
}
