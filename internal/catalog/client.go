// Package catalog reads the product menu from the remote
// business-management API. It is the parse boundary: prices and stock
// counts may arrive as JSON numbers or strings, and malformed values
// degrade to zero ("unavailable") so a bad catalog entry can never crash
// the cart.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ravnkild/eira/internal/domain"
)

// DefaultPageSize is used when a search does not specify one.
const DefaultPageSize = 20

// Config holds catalog client configuration.
type Config struct {
	// BaseURL is the root of the business-management API.
	BaseURL string

	// APIKey authenticates this storefront against the API.
	APIKey string

	// Timeout bounds each search request. Default 10s.
	Timeout time.Duration
}

// Client implements domain.CatalogService against the remote API.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

// NewClient creates a catalog client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Search performs a paged product search by text query and location.
func (c *Client) Search(ctx context.Context, params domain.SearchParams) (*domain.SearchResult, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = DefaultPageSize
	}

	q := url.Values{}
	q.Set("query", params.Query)
	q.Set("page", strconv.Itoa(params.Page))
	q.Set("page_size", strconv.Itoa(params.PageSize))
	q.Set("location_id", params.LocationID)

	endpoint := c.cfg.BaseURL + "/products?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, domain.Unavailable(err, "catalog.search", "Product catalog unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.Unavailable(err, "catalog.search", "Failed to read catalog response")
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("catalog search failed",
			"status", resp.StatusCode,
			"location_id", params.LocationID,
		)
		return nil, domain.Errorf(domain.EUNAVAILABLE, "catalog.search",
			"Product catalog error (status %d)", resp.StatusCode)
	}

	var payload searchPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, domain.Unavailable(err, "catalog.search", "Malformed catalog response")
	}

	items := make([]domain.Product, 0, len(payload.Items))
	for _, p := range payload.Items {
		items = append(items, p.toDomain())
	}

	return &domain.SearchResult{
		Items:   items,
		HasMore: payload.HasMore,
	}, nil
}
