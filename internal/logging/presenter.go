// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	stderrors "errors"
	"fmt"
	"strings"

	apperr "tripdesk/cli/internal/errors"

	"github.com/pterm/pterm"
)

// PresentError formats an error for user display with masking.
func PresentError(context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Mask(err.Error())
	}
	return fmt.Sprintf("%s: %s", context, Mask(err.Error()))
}

// FormatAPIError renders an API client error by kind. Transport errors are left to
// httperrors, which knows how to diagnose the network.
func FormatAPIError(err error) string {
	var builder strings.Builder

	switch apperr.KindOf(err) {
	case apperr.KindUnauthenticated:
		builder.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Session ended"))
		builder.WriteString("\n\n")
		builder.WriteString("The server rejected your credentials, so the saved session was cleared.\n")
		builder.WriteString("\n")
		builder.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint("→ Please run 'tripdesk login' and try again"))
	case apperr.KindValidation:
		builder.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint(Mask(messageOf(err))))
	case apperr.KindAPI:
		status := apperr.StatusOf(err)
		builder.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprintf("Request failed (%d)", status))
		builder.WriteString("\n\n")
		builder.WriteString(Mask(messageOf(err)))
		if status >= 500 {
			builder.WriteString("\n\n")
			builder.WriteString(pterm.NewStyle(pterm.FgGray).Sprint("The booking service had a problem on its end. Try again in a few minutes."))
		}
	default:
		builder.WriteString(PresentError("", err))
	}

	return builder.String()
}

func messageOf(err error) string {
	var e *apperr.E
	if stderrors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return err.Error()
}
