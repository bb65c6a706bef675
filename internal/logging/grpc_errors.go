// Copyright (c) 2025 April
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
)

// GRPCErrorType represents the category of a stream error. Both transports
// are classified: gRPC status messages and HTTP chunked-body failures.
type GRPCErrorType int

const (
	GRPCErrorUnknown GRPCErrorType = iota
	GRPCErrorNetwork
	GRPCErrorAuth
	GRPCErrorTimeout
	GRPCErrorInternal
	GRPCErrorUnavailable
)

// ParseGRPCError categorizes a stream error message.
func ParseGRPCError(errMsg string) GRPCErrorType {
	lower := strings.ToLower(errMsg)

	switch {
	case containsAny(lower, "unauthenticated", "unauthorized", "permissiondenied", "401", "403"):
		return GRPCErrorAuth
	case containsAny(lower, "rst_stream", "connection reset", "unexpected eof", "broken pipe"):
		return GRPCErrorNetwork
	case containsAny(lower, "internal_error", "code = internal", "500 internal"):
		return GRPCErrorInternal
	case containsAny(lower, "unavailable", "502", "503"):
		return GRPCErrorUnavailable
	case containsAny(lower, "deadline", "timeout"):
		return GRPCErrorTimeout
	}
	return GRPCErrorUnknown
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// FormatStreamError formats a broken task log stream in a user-friendly way.
// taskID is used to suggest how to resume following the task.
func FormatStreamError(errMsg, taskID string) string {
	errType := ParseGRPCError(errMsg)

	var builder strings.Builder

	// Title
	builder.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Connection Lost"))
	builder.WriteString("\n\n")

	switch errType {
	case GRPCErrorNetwork:
		builder.WriteString("The connection to the April service was interrupted unexpectedly.\n")
		builder.WriteString("This usually happens when:\n")
		builder.WriteString("  • Your internet connection was disrupted\n")
		builder.WriteString("  • A firewall or proxy closed the long-running connection\n")

	case GRPCErrorInternal:
		builder.WriteString("An internal error occurred on the April service.\n")
		builder.WriteString("The task itself may still be running on the backend.\n")

	case GRPCErrorUnavailable:
		builder.WriteString("The April service is currently unavailable.\n")
		builder.WriteString("Possible reasons:\n")
		builder.WriteString("  • The service is under maintenance\n")
		builder.WriteString("  • The service is temporarily overloaded\n")

	case GRPCErrorTimeout:
		builder.WriteString("The connection to the April service timed out.\n")
		builder.WriteString("The task itself may still be running on the backend.\n")

	case GRPCErrorAuth:
		builder.WriteString("The April service rejected the API key.\n")
		builder.WriteString("To fix this:\n")
		builder.WriteString("  • Run 'april login' to store a valid key\n")
		builder.WriteString("  • Or pass it with --api-key / API_KEY\n")

	default:
		builder.WriteString("The task log stream was interrupted.\n")
	}

	builder.WriteString("\n")

	// Action to take
	switch {
	case errType == GRPCErrorAuth:
		builder.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint("→ Please run 'april login' and try again"))
	case taskID != "":
		builder.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint("→ Resume with 'april dev --follow " + taskID + "' or fetch the patch with 'april dev --patch " + taskID + "'"))
	default:
		builder.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint("→ Please try again"))
	}

	builder.WriteString("\n")

	// Technical details (optional, for debugging)
	if strings.TrimSpace(errMsg) != "" {
		builder.WriteString("\n")
		builder.WriteString(pterm.NewStyle(pterm.FgGray).Sprint("Technical details: " + Mask(errMsg)))
	}

	return builder.String()
}

// PresentStreamError displays a formatted stream error on w.
func PresentStreamError(w io.Writer, errMsg, taskID string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, FormatStreamError(errMsg, taskID))
	fmt.Fprintln(w)
}
