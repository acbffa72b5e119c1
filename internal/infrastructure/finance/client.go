// Package finance provides the HTTP client for the finance subsystem.
package finance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"stockcore/internal/domain/finance"
	"stockcore/pkg/logger"
)

// Compile-time check.
var _ finance.Recorder = (*Client)(nil)

// Config holds finance client configuration.
type Config struct {
	// BaseURL of the finance service, e.g. http://finance:8080
	BaseURL string

	// APIKey sent as a bearer token; empty disables the header
	APIKey string

	// Timeout bounds one expense call. Must stay well under the enclosing
	// transaction's statement timeout (default 10s).
	Timeout time.Duration
}

// Client records expenses over HTTP.
//
// Calls run inside the movement transaction, so the timeout above doubles
// as the upper bound on how long a purchase movement can hold its locks.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient creates a finance client.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// RecordExpense posts one expense to the finance service.
// Any non-2xx response is an error; the caller aborts the movement.
func (c *Client) RecordExpense(ctx context.Context, exp finance.Expense) error {
	body, err := json.Marshal(exp)
	if err != nil {
		return fmt.Errorf("encode expense: %w", err)
	}

	url := c.cfg.BaseURL + "/api/v1/expenses"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build expense request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("record expense: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("record expense: finance returned %d: %s", resp.StatusCode, snippet)
	}

	logger.Debug(ctx, "expense recorded",
		"reference", exp.Reference,
		"amount", exp.Amount.String(),
	)

	return nil
}

// Noop is a Recorder that accepts everything. Used when no finance service
// is configured (local development, seeding).
type Noop struct{}

var _ finance.Recorder = (*Noop)(nil)

// RecordExpense logs and succeeds.
func (Noop) RecordExpense(ctx context.Context, exp finance.Expense) error {
	logger.Info(ctx, "finance disabled, expense not recorded",
		"reference", exp.Reference,
		"amount", exp.Amount.String(),
	)
	return nil
}
