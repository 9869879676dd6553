package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fundtree/fundtree/pkg/httputil"
)

func TestNewClient(t *testing.T) {
	headers := map[string]string{"Authorization": "Bearer token"}
	client := NewClient(headers, nil)

	if client == nil {
		t.Fatal("NewClient() returned nil")
	}
	if client.http == nil {
		t.Error("NewClient() http client is nil")
	}
	if client.headers["Authorization"] != "Bearer token" {
		t.Error("NewClient() headers not set correctly")
	}
}

func TestClientGet(t *testing.T) {
	type response struct {
		Message string `json:"message"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		json.NewEncoder(w).Encode(response{Message: "hello"})
	}))
	defer server.Close()

	client := NewClient(nil, nil)

	var resp response
	if err := client.Get(context.Background(), server.URL, &resp); err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if resp.Message != "hello" {
		t.Errorf("Get() message = %q, want %q", resp.Message, "hello")
	}
}

func TestClientGetSendsHeaders(t *testing.T) {
	var gotDefault, gotOverride string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotDefault = r.Header.Get("Authorization")
		gotOverride = r.Header.Get("Accept")
		w.Write([]byte("raw content"))
	}))
	defer server.Close()

	client := NewClient(map[string]string{
		"Authorization": "Bearer token",
		"Accept":        "application/json",
	}, nil)

	body, err := client.GetText(context.Background(), server.URL, map[string]string{
		"Accept": "application/vnd.github.v3.raw",
	})
	if err != nil {
		t.Fatalf("GetText() error: %v", err)
	}
	if body != "raw content" {
		t.Errorf("GetText() = %q, want %q", body, "raw content")
	}
	if gotDefault != "Bearer token" {
		t.Errorf("default header = %q, want %q", gotDefault, "Bearer token")
	}
	if gotOverride != "application/vnd.github.v3.raw" {
		t.Errorf("request header = %q, want override %q", gotOverride, "application/vnd.github.v3.raw")
	}
}

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		headers   map[string]string
		want      error
		retryable bool
	}{
		{name: "ok", status: http.StatusOK, want: nil},
		{name: "not found", status: http.StatusNotFound, want: ErrNotFound},
		{name: "unauthorized", status: http.StatusUnauthorized, want: ErrUnauthorized},
		{name: "too many requests", status: http.StatusTooManyRequests, want: ErrRateLimited},
		{
			name:    "forbidden with exhausted rate limit",
			status:  http.StatusForbidden,
			headers: map[string]string{"X-RateLimit-Remaining": "0"},
			want:    ErrRateLimited,
		},
		{
			name:    "forbidden without rate limit header",
			status:  http.StatusForbidden,
			headers: map[string]string{"X-RateLimit-Remaining": "42"},
			want:    ErrNetwork,
		},
		{name: "server error", status: http.StatusInternalServerError, want: ErrNetwork, retryable: true},
		{name: "bad gateway", status: http.StatusBadGateway, want: ErrNetwork, retryable: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &http.Response{StatusCode: tt.status, Header: http.Header{}}
			for k, v := range tt.headers {
				resp.Header.Set(k, v)
			}

			err := checkStatus(resp)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("checkStatus() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("checkStatus() = %v, want %v", err, tt.want)
			}

			var retryable *httputil.RetryableError
			if got := errors.As(err, &retryable); got != tt.retryable {
				t.Errorf("retryable = %v, want %v", got, tt.retryable)
			}
		})
	}
}

func TestNormalizeRepoURL(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"https://github.com/owner/repo", "https://github.com/owner/repo"},
		{"https://github.com/owner/repo.git", "https://github.com/owner/repo"},
		{"git@github.com:owner/repo.git", "https://github.com/owner/repo"},
		{"git://github.com/owner/repo", "https://github.com/owner/repo"},
		{"git+https://github.com/owner/repo.git", "https://github.com/owner/repo"},
		{"  https://github.com/owner/repo  ", "https://github.com/owner/repo"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeRepoURL(tt.raw); got != tt.want {
			t.Errorf("NormalizeRepoURL(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
