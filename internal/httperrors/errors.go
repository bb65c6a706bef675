// Copyright (c) 2025 April
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors explains backend connection failures to the user.
// It covers both transports: net errors from the HTTP client, gRPC status
// errors, and non-2xx answers from the REST API.
package httperrors

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"

	"april/cli/internal/backend"

	"github.com/pterm/pterm"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// maxDetails caps the technical details shown for unclassified failures.
const maxDetails = 100

// advice is what the user sees for one class of failure. Its texts may contain
// {context} and {host}.
type advice struct {
	match   func(error) bool
	title   string
	summary string
	hints   []string
	footer  string
}

// advices are checked in order; the first match wins.
var advices = []advice{
	{
		match:   isAuthError,
		title:   "🔑 The API key was rejected while {context}",
		summary: "Provide a valid key with one of:",
		hints:   []string{"april login", "--api-key flag", "API_KEY environment variable"},
	},
	{
		match:   isTimeoutError,
		title:   "⏱️  Connection timeout while {context}",
		summary: "The server took too long to respond. This could mean:",
		hints:   []string{"Slow internet connection", "Server is under heavy load", "Network firewall is blocking the connection"},
		footer:  "Please try again in a few moments.",
	},
	{
		match:   isDNSError,
		title:   "🌐 Cannot resolve server address while {context}",
		summary: "Unable to look up {host}. Please check:",
		hints:   []string{"Your internet connection is working", "DNS settings are correct", "The --api-url flag or API_URL environment variable"},
	},
	{
		match:   isConnectionRefusedError,
		title:   "🚫 Connection refused while {context}",
		summary: "Nothing is accepting connections at {host}. This could mean:",
		hints:   []string{"The April backend is not running", "Wrong server address or port", "A firewall is blocking the connection"},
	},
	{
		match:   isSSLError,
		title:   "🔒 Secure connection failed while {context}",
		summary: "Cannot establish a TLS connection to {host}. This could mean:",
		hints:   []string{"The certificate is not trusted by this system", "A proxy is intercepting HTTPS", "The system clock is wrong"},
	},
	{
		match:   isServerError,
		title:   "⚠️  Server error while {context}",
		summary: "The April server encountered an internal error. This is not a problem with your setup.",
		hints:   []string{"Please try again in a few minutes", "A dev task may still be running: check it with 'april dev --patch <task id>'"},
	},
}

var fallback = advice{
	title:   "❌ Cannot connect to the April service while {context}",
	summary: "Please check:",
	hints:   []string{"The --api-url flag or API_URL environment variable", "Whether {host} is accessible from your network"},
}

// FormatNetworkError writes an explanation of err to w and returns err wrapped.
// context says what was being done ("linting"), host names the backend.
func FormatNetworkError(w io.Writer, err error, context, host string) error {
	if err == nil {
		return nil
	}
	explain(w, adviceFor(err), err, context, host)
	return fmt.Errorf("network error: %w", err)
}

func adviceFor(err error) advice {
	for _, a := range advices {
		if a.match(err) {
			return a
		}
	}
	return fallback
}

func explain(w io.Writer, a advice, err error, context, host string) {
	fill := strings.NewReplacer("{context}", context, "{host}", host).Replace
	pterm.Fprintln(w, fill(a.title))
	pterm.Fprintln(w)
	pterm.Fprintln(w, fill(a.summary))
	for _, h := range a.hints {
		pterm.Fprintln(w, "  • "+fill(h))
	}
	pterm.Fprintln(w)
	if a.footer != "" {
		pterm.Fprintln(w, a.footer)
		pterm.Fprintln(w)
	}

	details := err.Error()
	if len(details) > maxDetails {
		details = details[:maxDetails] + "..."
	}
	pterm.Debug.WithWriter(w).Printfln("Technical details: %s", details)
}

func isTimeoutError(err error) bool {
	if status.Code(err) == codes.DeadlineExceeded {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "timeout") || strings.Contains(lower, "deadline exceeded")
}

// isAuthError reports whether the backend rejected the API key.
func isAuthError(err error) bool {
	var se *backend.StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusUnauthorized || se.Code == http.StatusForbidden
	}
	code := status.Code(err)
	return code == codes.Unauthenticated || code == codes.PermissionDenied
}

func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

func isConnectionRefusedError(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

func isSSLError(err error) bool {
	lower := strings.ToLower(err.Error())
	for _, s := range []string{"tls", "ssl", "x509", "certificate", "handshake"} {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

// isServerError reports a server-side problem: a 5xx answer, a gRPC
// Internal/Unavailable status, or a proxy error page.
func isServerError(err error) bool {
	var se *backend.StatusError
	if errors.As(err, &se) {
		return se.Code >= http.StatusInternalServerError
	}
	if code := status.Code(err); code == codes.Internal || code == codes.Unavailable {
		return true
	}
	lower := strings.ToLower(err.Error())
	for _, s := range []string{"500", "502", "503", "504", "internal server error", "bad gateway", "service unavailable", "gateway timeout"} {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

// ExtractHostFromURL extracts the hostname from a URL for error messages.
func ExtractHostFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return "server"
	}
	return u.Host
}
