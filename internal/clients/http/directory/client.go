// Package directory is the HTTP client for the remote user directory.
package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openmarket/orders/internal/domains/orders/ports"
)

// Client calls the user directory service.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient instantiates the directory client with sane defaults.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("directory base URL is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &Client{baseURL: baseURL, http: httpClient}, nil
}

// GetUser fetches a user by id. A 404 means the user does not exist and is
// reported as (nil, nil); any other failure is an error so the guarded call
// can count it.
func (c *Client) GetUser(ctx context.Context, id int64) (*ports.UserSummary, error) {
	if c == nil || c.http == nil {
		return nil, errors.New("directory client not configured")
	}
	url := fmt.Sprintf("%s/users/%d", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build directory request: %w", err)
	}
	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call user directory: %w", err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusOK:
		var user ports.UserSummary
		if err := json.NewDecoder(res.Body).Decode(&user); err != nil {
			return nil, fmt.Errorf("decode directory response: %w", err)
		}
		return &user, nil
	case res.StatusCode == http.StatusNotFound:
		return nil, nil
	default:
		return nil, fmt.Errorf("user directory returned status %d", res.StatusCode)
	}
}
