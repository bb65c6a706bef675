// Copyright (c) 2025 April
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package errors defines typed errors with categories for user-friendly reporting.
// Every failure that reaches the top of a command is an *E carrying a machine-readable
// Kind, so callers can decide how to present it without parsing messages.
//
// None of the kinds are retried by the CLI: task submission is not idempotent on the
// backend, and a dropped log stream is resumed only by an explicit `dev --follow`.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// SubmissionFailed indicates the backend did not accept a new dev task.
	SubmissionFailed Kind = "submission_failed"
	// StreamFailed indicates the task log stream could not be opened or broke mid-read.
	StreamFailed Kind = "stream_failed"
	// StatusFailed indicates a task status fetch failed.
	StatusFailed Kind = "status_failed"
	// RequestFailed indicates a lint request failed at the transport level.
	RequestFailed Kind = "request_failed"
	// MalformedResponse indicates a backend payload matched none of the known shapes.
	MalformedResponse Kind = "malformed_response"
	// NotVersionControlled indicates diff mode was used outside a git repository.
	NotVersionControlled Kind = "not_version_controlled"
	// MissingFileArgument indicates single-file mode was used without a file name.
	MissingFileArgument Kind = "missing_file_argument"
	// SourceRead indicates the code payload could not be read.
	SourceRead Kind = "source_read"
	// ArtifactNotReady is informational: the task has no patch yet.
	ArtifactNotReady Kind = "artifact_not_ready"
	// InvalidInput indicates bad user input such as an unknown model or a broken task file.
	InvalidInput Kind = "invalid_input"
)

// E wraps an error with kind and human-friendly message.
// Raw holds the offending payload for parse failures so it can be shown for diagnosis.
type E struct {
	Kind    Kind
	Message string
	Err     error
	Raw     string
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

// Is matches any *E of the same Kind, so errors.Is(err, New(kind, "")) works.
func (e *E) Is(target error) bool {
	t, ok := target.(*E)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// WithRaw attaches the raw payload that failed to parse.
func WithRaw(kind Kind, msg string, err error, raw string) *E {
	return &E{Kind: kind, Message: msg, Err: err, Raw: raw}
}

// KindOf returns the Kind of the first *E in err's chain, or "" when there is none.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// RawOf returns the raw payload attached to err, if any.
func RawOf(err error) string {
	var e *E
	if stderrors.As(err, &e) {
		return e.Raw
	}
	return ""
}
