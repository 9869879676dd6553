// Package github provides the slice of the GitHub REST API fundtree needs:
// validating the API token and fetching a repository's funding declaration
// file (FUNDING.yml).
package github

import (
	"context"
	"errors"
	"fmt"

	"github.com/fundtree/fundtree/pkg/integrations"
)

// fundingPaths are the locations GitHub recognizes for a repository's
// funding declaration, in lookup order.
var fundingPaths = []string{".github/FUNDING.yml", "FUNDING.yml", "docs/FUNDING.yml"}

// Client provides access to GitHub repository content.
// All methods are safe for concurrent use.
type Client struct {
	*integrations.Client
	baseURL string
}

// defaults for the GitHub secondary rate limits: the contents API tolerates
// short bursts but sustained traffic should stay well under 10 req/s.
const (
	requestsPerSecond = 8
	requestBurst      = 8
)

// NewClient creates a GitHub API client authenticated with the given token.
// The token is required: the contents API applies prohibitively low rate
// limits to anonymous requests.
func NewClient(token string) *Client {
	headers := map[string]string{
		"Accept":        "application/vnd.github.v3+json",
		"Authorization": "Bearer " + token,
	}
	return &Client{
		Client:  integrations.NewClient(headers, integrations.NewLimiter(requestsPerSecond, requestBurst)),
		baseURL: "https://api.github.com",
	}
}

// User is the authenticated GitHub user, as returned by [Client.FetchUser].
type User struct {
	Login string `json:"login"`
	Name  string `json:"name"`
}

// FetchUser retrieves the authenticated user's info. It doubles as the
// upfront token validation: [integrations.ErrUnauthorized] here means the
// token is invalid and no further calls should be attempted.
func (c *Client) FetchUser(ctx context.Context) (*User, error) {
	var user User
	err := c.Fetch(ctx, func() error {
		return c.Get(ctx, c.baseURL+"/user", &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FundingFile retrieves the raw contents of the repository's funding
// declaration, trying each recognized location in order. It returns
// found=false (and no error) when the repository declares no funding file;
// this is the common case. Errors are per-repository failures: auth,
// rate-limit, or transport problems.
func (c *Client) FundingFile(ctx context.Context, owner, repo string) (content string, found bool, err error) {
	for _, path := range fundingPaths {
		content, err = c.fetchRaw(ctx, owner, repo, path)
		if err == nil {
			return content, true, nil
		}
		if errors.Is(err, integrations.ErrNotFound) {
			continue
		}
		return "", false, err
	}
	return "", false, nil
}

// fetchRaw retrieves a file's raw content via the contents API.
// The raw media type avoids the base64 round trip of the JSON representation.
func (c *Client) fetchRaw(ctx context.Context, owner, repo, path string) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.baseURL, owner, repo, path)
	headers := map[string]string{"Accept": "application/vnd.github.v3.raw"}

	var content string
	err := c.Fetch(ctx, func() error {
		var err error
		content, err = c.GetText(ctx, url, headers)
		return err
	})
	return content, err
}
