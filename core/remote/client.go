package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"rental-manager/core/session"
)

// Client is an HTTP implementation of session.Syncer.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     *zap.Logger
}

// NewClient creates a client for the configured remote instance.
func NewClient(cfg Config, log *zap.Logger) *Client {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.ApiKey,
		http:    &http.Client{Timeout: time.Duration(timeout) * time.Second},
		log:     log,
	}
}

// Fetch loads the inventory resource for an event.
func (c *Client) Fetch(ctx context.Context, id uint) (*session.Resource, error) {
	return c.do(ctx, http.MethodGet, fmt.Sprintf("/inventories/%d", id), nil)
}

// Save persists a draft of the counted quantities.
func (c *Client) Save(ctx context.Context, id uint, quantities []session.QuantityPayload) (*session.Resource, error) {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/inventories/%d", id), quantities)
}

// Terminate closes the inventory.
func (c *Client) Terminate(ctx context.Context, id uint, quantities []session.QuantityPayload) (*session.Resource, error) {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/inventories/%d/terminate", id), quantities)
}

// errorPayload is the API error envelope: {"error":{"code":400,"details":{...}}}.
type errorPayload struct {
	Error struct {
		Code    int                 `json:"code"`
		Message string              `json:"message"`
		Details map[string][]string `json:"details"`
	} `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*session.Resource, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inventory api unreachable: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, c.mapError(method, path, resp.StatusCode, data)
	}

	var res session.Resource
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("failed to decode inventory resource: %w", err)
	}
	return &res, nil
}

// mapError translates an API error body into the session error model.
func (c *Client) mapError(method, path string, status int, data []byte) error {
	var payload errorPayload
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error.Code != 0 {
		if payload.Error.Code == http.StatusBadRequest {
			return &session.ValidationError{
				Code:    payload.Error.Code,
				Details: payload.Error.Details,
			}
		}
		c.log.Debug("inventory api error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("code", payload.Error.Code),
			zap.String("message", payload.Error.Message))
		return fmt.Errorf("inventory api error %d: %s", payload.Error.Code, payload.Error.Message)
	}
	return fmt.Errorf("inventory api returned status %d", status)
}
