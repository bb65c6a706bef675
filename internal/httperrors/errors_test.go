// Copyright (c) 2025 April
// Licensed under the MIT License. See LICENSE file in the project root for details.

package httperrors

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"testing"

	"april/cli/internal/backend"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestIsAuthError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"http 401", &backend.StatusError{Op: "lint", Code: http.StatusUnauthorized}, true},
		{"wrapped http 403", fmt.Errorf("submit: %w", &backend.StatusError{Op: "submit", Code: http.StatusForbidden}), true},
		{"grpc unauthenticated", status.Error(codes.Unauthenticated, "bad key"), true},
		{"http 500", &backend.StatusError{Op: "lint", Code: http.StatusInternalServerError}, false},
		{"plain", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isAuthError(tt.err); got != tt.want {
				t.Errorf("isAuthError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsServerError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"http 503", &backend.StatusError{Op: "lint", Code: http.StatusServiceUnavailable}, true},
		{"http 404", &backend.StatusError{Op: "status", Code: http.StatusNotFound}, false},
		{"grpc internal", status.Error(codes.Internal, "panic"), true},
		{"text", errors.New("502 Bad Gateway"), true},
		{"other", errors.New("no such host"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isServerError(tt.err); got != tt.want {
				t.Errorf("isServerError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNetClassifiers(t *testing.T) {
	dnsErr := &net.DNSError{Err: "no such host", Name: "april.invalid"}
	if !isDNSError(fmt.Errorf("dial: %w", dnsErr)) {
		t.Error("isDNSError() = false for a wrapped *net.DNSError")
	}
	if !isConnectionRefusedError(errors.New("dial tcp 127.0.0.1:8000: connect: connection refused")) {
		t.Error("isConnectionRefusedError() = false for a refused dial")
	}
	if !isTimeoutError(status.Error(codes.DeadlineExceeded, "context deadline exceeded")) {
		t.Error("isTimeoutError() = false for DeadlineExceeded")
	}
	if !isSSLError(errors.New("x509: certificate signed by unknown authority")) {
		t.Error("isSSLError() = false for a certificate error")
	}
}

func TestFormatNetworkErrorWraps(t *testing.T) {
	cause := &backend.StatusError{Op: "lint", Code: http.StatusUnauthorized}
	var buf bytes.Buffer
	err := FormatNetworkError(&buf, cause, "linting", "localhost:8000")
	var se *backend.StatusError
	if !errors.As(err, &se) {
		t.Fatalf("FormatNetworkError() = %v, want it to wrap the cause", err)
	}
	if !strings.Contains(buf.String(), "The API key was rejected while linting") {
		t.Errorf("FormatNetworkError() wrote %q", buf.String())
	}
	if FormatNetworkError(&buf, nil, "linting", "x") != nil {
		t.Error("FormatNetworkError(nil) should be nil")
	}
}

func TestFormatNetworkErrorAdvice(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{
			name: "refused",
			err:  errors.New("dial tcp 127.0.0.1:8000: connect: connection refused"),
			want: []string{"Connection refused while submitting the task", "Nothing is accepting connections at localhost:8000"},
		},
		{
			name: "dns",
			err:  &net.DNSError{Err: "no such host", Name: "april.invalid"},
			want: []string{"Cannot resolve server address", "Unable to look up localhost:8000"},
		},
		{
			name: "server",
			err:  &backend.StatusError{Op: "submit", Code: http.StatusBadGateway},
			want: []string{"Server error while submitting the task", "april dev --patch <task id>"},
		},
		{
			name: "unknown",
			err:  errors.New("something odd"),
			want: []string{"Cannot connect to the April service", "Whether localhost:8000 is accessible"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			_ = FormatNetworkError(&buf, tt.err, "submitting the task", "localhost:8000")
			for _, w := range tt.want {
				if !strings.Contains(buf.String(), w) {
					t.Errorf("output %q does not contain %q", buf.String(), w)
				}
			}
		})
	}
}

func TestExtractHostFromURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"http://localhost:8000", "localhost:8000"},
		{"grpcs://agent.example.com", "agent.example.com"},
		{"not a url", "server"},
	}
	for _, tt := range tests {
		if got := ExtractHostFromURL(tt.in); got != tt.want {
			t.Errorf("ExtractHostFromURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
