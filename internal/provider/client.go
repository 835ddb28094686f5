// Package provider talks to the external generative-media service. It sends
// prompts plus generation options and normalizes the provider's
// heterogeneous response shapes into one result type, tracking the cost of
// every call.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/domain"
	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/infra"
)

// Options controls how the provider client is configured.
type Options struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Client is a thin facade over the provider's HTTP API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *infra.Logger
}

// NewClient constructs a provider client with sane defaults. Callers may
// provide a nil HTTP client; a reusable one with a generation-sized timeout
// is created.
func NewClient(opts Options) *Client {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 120 * time.Second}
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.mediaforge.dev/v1"
	}

	logger := opts.Logger
	if logger == nil {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}

	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		httpClient: client,
		logger:     logger,
	}
}

type providerErrorResponse struct {
	Error struct {
		Code    int    `json:"code,omitempty"`
		Message string `json:"message,omitempty"`
	} `json:"error"`
}

// post sends a JSON payload and returns the raw response body. Transport
// failures and non-2xx statuses come back as retryable pipeline errors.
func (c *Client) post(ctx context.Context, path string, payload any) (json.RawMessage, error) {
	endpoint := c.baseURL + path
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.Retryable(fmt.Errorf("invoke provider: %w", err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.Retryable(fmt.Errorf("read provider response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr providerErrorResponse
		if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Error.Message != "" {
			return nil, domain.Retryable(fmt.Errorf("provider status %d: %s", resp.StatusCode, apiErr.Error.Message))
		}
		return nil, domain.Retryable(fmt.Errorf("provider status %d: %s", resp.StatusCode, strings.TrimSpace(string(data))))
	}

	return json.RawMessage(data), nil
}
