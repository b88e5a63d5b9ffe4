// Package client is a Go SDK for the reaction feasibility prediction API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	rtypes "github.com/turtacn/RxnFeasibility/pkg/types/reaction"
)

const defaultTimeout = 30 * time.Second

// Client talks to a running prediction server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// APIError is a decoded error response from the server.
type APIError struct {
	StatusCode int    `json:"status_code"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("rxnfeas: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
}

// IsClientError reports whether the server rejected the request itself, as
// opposed to failing internally.
func (e *APIError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// IsRateLimited reports whether the request was throttled.
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// NewClient validates baseURL and builds a client.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("rxnfeas: baseURL must not be empty")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("rxnfeas: invalid baseURL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("rxnfeas: baseURL scheme must be http or https")
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		userAgent:  "rxnfeas-go-client",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Predict scores one reaction string.
func (c *Client) Predict(ctx context.Context, reaction string) (*rtypes.PredictionDTO, error) {
	var pred rtypes.PredictionDTO
	err := c.do(ctx, http.MethodPost, "/api/v1/predictions",
		map[string]string{"reaction": reaction}, &pred)
	if err != nil {
		return nil, err
	}
	return &pred, nil
}

// BatchResult is the response of a batch prediction call.
type BatchResult struct {
	Items     []rtypes.BatchItemDTO `json:"items"`
	Total     int                   `json:"total"`
	Succeeded int                   `json:"succeeded"`
	Failed    int                   `json:"failed"`
}

// PredictBatch scores many reactions in one call.
func (c *Client) PredictBatch(ctx context.Context, reactions []string) (*BatchResult, error) {
	var result BatchResult
	err := c.do(ctx, http.MethodPost, "/api/v1/predictions/batch",
		map[string][]string{"reactions": reactions}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ModelInfo describes the model loaded by the server.
type ModelInfo struct {
	Threshold float64 `json:"threshold"`
}

// Model fetches the loaded model's description.
func (c *Client) Model(ctx context.Context) (*ModelInfo, error) {
	var info ModelInfo
	if err := c.do(ctx, http.MethodGet, "/api/v1/model", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Healthy reports whether the server's liveness probe answers 200.
func (c *Client) Healthy(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("rxnfeas: encoding request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("rxnfeas: building request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("rxnfeas: request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return fmt.Errorf("rxnfeas: reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if jsonErr := json.Unmarshal(data, apiErr); jsonErr != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("rxnfeas: decoding response: %w", err)
	}
	return nil
}
