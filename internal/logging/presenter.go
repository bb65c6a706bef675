// Copyright (c) 2025 April
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	stderrors "errors"
	"fmt"

	apperrors "april/cli/internal/errors"
)

// PresentError formats an error for user display with masking. Typed errors
// show their message and cause without the machine-readable kind.
func PresentError(context string, err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	var e *apperrors.E
	if stderrors.As(err, &e) && e.Message != "" {
		msg = e.Message
		if e.Err != nil {
			msg += ": " + e.Err.Error()
		}
	}
	return fmt.Sprintf("%s: %s", context, Mask(msg))
}
