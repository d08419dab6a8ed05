// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package logging provides the leveled logger and helpers for secure logging and
// error presentation. It includes functions for masking sensitive information in
// log messages and formatting errors for user-friendly display while protecting
// credentials.
//
// Session tokens travel in Authorization headers and auth_token cookies; both
// forms are masked before anything reaches the terminal.
package logging

import (
	"regexp"
)

var (
	rePassword = regexp.MustCompile(`(?i)("?password"?\s*[=:]\s*"?)([^\s;",}]+)`)
	reBearer   = regexp.MustCompile(`(?i)(bearer\s+)([A-Za-z0-9._~+/=-]+)`)
	reToken    = regexp.MustCompile(`(?i)((?:auth_)?token=)([^\s;&]+)`)
	reJSONTok  = regexp.MustCompile(`(?i)("token"\s*:\s*")([^"]+)`)
)

// Mask replaces sensitive values in the input string with "***".
func Mask(s string) string {
	out := s
	out = rePassword.ReplaceAllString(out, "${1}***")
	out = reBearer.ReplaceAllString(out, "${1}***")
	out = reToken.ReplaceAllString(out, "${1}***")
	out = reJSONTok.ReplaceAllString(out, "${1}***")
	return out
}

// TokenHint returns a short, non-reversible preview of a token for debug output.
func TokenHint(token string) string {
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "…" + token[len(token)-2:]
}
