// Package catalog is the HTTP client for the remote product catalog.
package catalog

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

// Client calls the product catalog service.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient instantiates the catalog client with sane defaults.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("catalog base URL is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &Client{baseURL: baseURL, http: httpClient}, nil
}

// GetProduct fetches a product by id. A 404 is reported as (nil, nil).
func (c *Client) GetProduct(ctx context.Context, id int64) (*ports.ProductSummary, error) {
	if c == nil || c.http == nil {
		return nil, errors.New("catalog client not configured")
	}
	url := fmt.Sprintf("%s/products/%d", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call product catalog: %w", err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusOK:
		var product ports.ProductSummary
		if err := json.NewDecoder(res.Body).Decode(&product); err != nil {
			return nil, fmt.Errorf("decode catalog response: %w", err)
		}
		return &product, nil
	case res.StatusCode == http.StatusNotFound:
		return nil, nil
	default:
		return nil, fmt.Errorf("product catalog returned status %d", res.StatusCode)
	}
}
