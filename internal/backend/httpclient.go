// Copyright (c) 2025 April
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	Op   string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s failed: %d %s", e.Op, e.Code, http.StatusText(e.Code))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// HTTP implements API over REST endpoints.
type HTTP struct {
	// baseURL is the base URL for all HTTP requests (e.g., "http://localhost:8000")
	baseURL string
	// endpoints contains the URL paths for the task service
	endpoints Endpoints
	// apiKey is sent as a bearer token
	apiKey string
	// client has no timeout: lint calls and log streams last as long as the model works
	client *http.Client
	log    *zap.Logger
}

// NewHTTP creates an HTTP client for baseURL.
func NewHTTP(baseURL, apiKey string, endpoints Endpoints, log *zap.Logger) *HTTP {
	if log == nil {
		log = zap.NewNop()
	}
	return &HTTP{
		baseURL:   strings.TrimRight(baseURL, "/"),
		endpoints: endpoints,
		apiKey:    apiKey,
		client:    &http.Client{},
		log:       log,
	}
}

// Lint calls POST {Lint} and returns the response body as is.
func (h *HTTP) Lint(ctx context.Context, req LintRequest) ([]byte, error) {
	resp, err := h.do(ctx, "lint", http.MethodPost, h.endpoints.Lint, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// SubmitDev calls POST {Dev} and returns the task_id of the reply.
func (h *HTTP) SubmitDev(ctx context.Context, req DevRequest) (string, error) {
	resp, err := h.do(ctx, "submit", http.MethodPost, h.endpoints.Dev, req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out struct {
		TaskID string `json:"task_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode submit response: %w", err)
	}
	if out.TaskID == "" {
		return "", errors.New("submit response has no task_id")
	}
	return out.TaskID, nil
}

// FollowDev calls GET {DevHistory}. The caller owns and must close the body.
func (h *HTTP) FollowDev(ctx context.Context, taskID string) (io.ReadCloser, error) {
	resp, err := h.do(ctx, "follow", http.MethodGet, withID(h.endpoints.DevHistory, taskID), nil)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// DevStatus calls GET {DevStatus}.
func (h *HTTP) DevStatus(ctx context.Context, taskID string) (TaskStatus, error) {
	resp, err := h.do(ctx, "status", http.MethodGet, withID(h.endpoints.DevStatus, taskID), nil)
	if err != nil {
		return TaskStatus{}, err
	}
	defer resp.Body.Close()

	var st TaskStatus
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return TaskStatus{}, fmt.Errorf("decode status response: %w", err)
	}
	return st, nil
}

// Close is a no-op for HTTP.
func (h *HTTP) Close() error { return nil }

// do sends one request and returns the response when the status is 2xx.
// On any other status the body is drained into a StatusError.
func (h *HTTP) do(ctx context.Context, op, method, path string, body any) (*http.Response, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, rd)
	if err != nil {
		return nil, err
	}
	reqID := uuid.NewString()
	req.Header.Set("Authorization", bearerPrefix+h.apiKey)
	req.Header.Set(requestIDHTTP, reqID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	h.log.Debug("backend request",
		zap.String("op", op),
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", reqID))

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		h.log.Debug("backend error",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
			zap.String("request_id", reqID))
		return nil, &StatusError{Op: op, Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	return resp, nil
}
