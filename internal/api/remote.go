// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// =============================================================================
// REMOTE CLIENT
// =============================================================================

// maxResponseSize bounds response body reads (10MB).
const maxResponseSize = 10 * 1024 * 1024

// RemoteConfig holds configuration for the remote client.
type RemoteConfig struct {
	// BaseURL is the dashboard API root (default: http://localhost:8000)
	BaseURL string

	// Timeout is the per-request timeout (default: 60 seconds)
	Timeout time.Duration
}

// DefaultRemoteConfig returns the default remote configuration.
func DefaultRemoteConfig() RemoteConfig {
	return RemoteConfig{
		BaseURL: "http://localhost:8000",
		Timeout: 60 * time.Second,
	}
}

// RemoteClient talks to the dashboard service over HTTP. A single pooled
// http.Client is shared across all requests.
type RemoteClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewRemoteClient creates a remote client, filling zero-value config fields
// with defaults.
func NewRemoteClient(cfg RemoteConfig) *RemoteClient {
	def := DefaultRemoteConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = def.Timeout
	}

	return &RemoteClient{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Do implements Client.
func (c *RemoteClient) Do(ctx context.Context, req Request) ([]byte, error) {
	if req.Op == OpUploadFile {
		return c.doUpload(ctx, req)
	}

	method, path, err := req.resolve()
	if err != nil {
		return nil, &TransportError{Cause: err}
	}

	var body io.Reader
	contentType := ""
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, &TransportError{Cause: fmt.Errorf("marshal request: %w", err)}
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, &TransportError{Cause: err}
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json")

	return c.roundTrip(httpReq)
}

// doUpload sends a multipart file upload. File operations pass through the
// adapter opaquely; the wire field name matches the service contract.
func (c *RemoteClient) doUpload(ctx context.Context, req Request) ([]byte, error) {
	method, path, err := req.resolve()
	if err != nil {
		return nil, &TransportError{Cause: err}
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", req.FileName)
	if err != nil {
		return nil, &TransportError{Cause: err}
	}
	if _, err := part.Write(req.Upload); err != nil {
		return nil, &TransportError{Cause: err}
	}
	if err := w.Close(); err != nil {
		return nil, &TransportError{Cause: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, &TransportError{Cause: err}
	}
	httpReq.Header.Set("Content-Type", w.FormDataContentType())

	return c.roundTrip(httpReq)
}

// roundTrip executes the request and maps the response onto the adapter's
// error taxonomy: connection failures become TransportError, non-2xx
// statuses become StatusError with the raw body text preserved.
func (c *RemoteClient) roundTrip(httpReq *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Cause: err}
	}
	defer resp.Body.Close()

	// Bounded read protects against a misbehaving server
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &TransportError{Cause: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Body: string(data)}
	}

	return data, nil
}
