// Package crates provides a minimal crates.io registry client used to
// recover repository URLs for crates enumerated from a Cargo.lock, which
// does not carry them.
package crates

import (
	"context"
	"errors"
	"fmt"

	"github.com/fundtree/fundtree/pkg/integrations"
)

// CrateInfo holds the registry metadata fundtree cares about for a crate.
type CrateInfo struct {
	Name       string // Crate name (e.g., "serde")
	Repository string // Repository URL (may be empty)
	HomePage   string // Homepage URL (may be empty)
}

// Client provides access to the crates.io package registry API.
// All methods are safe for concurrent use.
//
// Note: crates.io requires a User-Agent header; this client sets one
// automatically.
type Client struct {
	*integrations.Client
	baseURL string
}

// crates.io asks crawlers to stay at or below 1 req/s.
const requestsPerSecond = 1

// NewClient creates a crates.io client.
func NewClient() *Client {
	headers := map[string]string{
		"User-Agent": "fundtree/1.0 (https://github.com/fundtree/fundtree)",
	}
	return &Client{
		Client:  integrations.NewClient(headers, integrations.NewLimiter(requestsPerSecond, 1)),
		baseURL: "https://crates.io/api/v1",
	}
}

// FetchCrate retrieves registry metadata for a crate.
//
// Returns:
//   - [integrations.ErrNotFound] if the crate doesn't exist
//   - [integrations.ErrNetwork] for HTTP failures (timeout, 5xx, etc.)
//
// The returned CrateInfo pointer is never nil if err is nil.
func (c *Client) FetchCrate(ctx context.Context, crate string) (*CrateInfo, error) {
	var data crateResponse
	err := c.Fetch(ctx, func() error {
		return c.Get(ctx, fmt.Sprintf("%s/crates/%s", c.baseURL, integrations.URLEncode(crate)), &data)
	})
	if err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return nil, fmt.Errorf("%w: crate %s", err, crate)
		}
		return nil, err
	}

	return &CrateInfo{
		Name:       data.Crate.Name,
		Repository: data.Crate.Repository,
		HomePage:   data.Crate.HomePage,
	}, nil
}

type crateResponse struct {
	Crate struct {
		Name       string `json:"name"`
		Repository string `json:"repository"`
		HomePage   string `json:"homepage"`
	} `json:"crate"`
}
