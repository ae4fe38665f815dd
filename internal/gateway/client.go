// Package gateway submits finished carts to the order endpoint of the
// remote business-management API.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ravnkild/eira/internal/domain"
)

// Config holds order gateway client configuration.
type Config struct {
	// BaseURL is the root of the business-management API.
	BaseURL string

	// APIKey authenticates this storefront against the API.
	APIKey string

	// Timeout bounds each submission request. Default 30s.
	Timeout time.Duration
}

// Client implements domain.OrderGateway against the remote API.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

// NewClient creates an order gateway client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
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

// Submit posts the cart snapshot and returns the structured result. A
// transport failure returns an error; the caller must treat it exactly like
// an explicit error response. A body that decodes but carries an
// unrecognized responseType is returned as-is so the caller can treat it as
// a generic failure - it is never coerced into a success.
func (c *Client) Submit(ctx context.Context, snapshot domain.CartSnapshot) (*domain.SubmissionResult, error) {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cart snapshot: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/orders", bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	// Lets the backend deduplicate if the customer retries after a timeout.
	req.Header.Set("X-Client-Reference", uuid.New().String())
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, domain.Unavailable(err, "gateway.submit", "Order service unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.Unavailable(err, "gateway.submit", "Failed to read order response")
	}

	var result domain.SubmissionResult
	if err := json.Unmarshal(body, &result); err != nil {
		c.logger.Error("undecodable gateway response",
			"status", resp.StatusCode,
			"body_len", len(body),
		)
		return nil, domain.Errorf(domain.EUNAVAILABLE, "gateway.submit",
			"Order service returned an unreadable response (status %d)", resp.StatusCode)
	}

	return &result, nil
}

var _ domain.OrderGateway = (*Client)(nil)
