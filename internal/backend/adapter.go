// Copyright (c) 2025 April
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package backend provides the client side of the April task service.
// It defines the API contract the CLI depends on and two transports for it:
// JSON over HTTP and gRPC. Both carry the API key as a bearer token and a
// fresh request id on every call.
package backend

import (
	"context"
	"io"
)

// API defines backend operations the CLI depends on.
// Implementations may call the real service or provide fakes for tests.
type API interface {
	// Lint reviews one piece of code and returns the raw response envelope.
	// The envelope is decoded by the caller since its shape depends on the model backend.
	Lint(ctx context.Context, req LintRequest) ([]byte, error)
	// SubmitDev creates a dev task and returns its id.
	SubmitDev(ctx context.Context, req DevRequest) (taskID string, err error)
	// FollowDev opens the log of a dev task. The returned body yields raw bytes
	// in backend order and ends when the backend closes the stream.
	FollowDev(ctx context.Context, taskID string) (io.ReadCloser, error)
	// DevStatus fetches a snapshot of a dev task's state.
	DevStatus(ctx context.Context, taskID string) (TaskStatus, error)
	// Close releases transport resources.
	Close() error
}

// LintRequest is the body of a lint call.
type LintRequest struct {
	Project string `json:"project"`
	Code    string `json:"code"`
	Model   string `json:"model"`
}

// DevRequest is the body of a dev task submission.
type DevRequest struct {
	Repo   string `json:"repo"`
	Token  string `json:"token"`
	Prompt string `json:"prompt"`
	Model  string `json:"model"`
}

// TaskStatus is a snapshot of a dev task. State values are defined by the
// backend (PENDING, RUNNING, DONE, FAILED...). Patch is set once a patch exists.
type TaskStatus struct {
	State string  `json:"status"`
	Patch *string `json:"patch"`
}
