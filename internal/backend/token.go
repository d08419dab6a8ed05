// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"net/http"
	"strings"
)

// parseBearerToken extracts the token from a value like "Bearer <token>", case-insensitively.
func parseBearerToken(value string) string {
	v := strings.TrimSpace(value)
	if len(v) < 7 || !strings.EqualFold(v[:6], "bearer") {
		return ""
	}
	if v[6] != ' ' && v[6] != '\t' {
		return ""
	}
	return strings.TrimSpace(v[6:])
}

// loginToken finds the session token in a login reply. The body's token field
// is preferred; some deployments only return it in the Authorization header or
// as the auth_token cookie.
func loginToken(bodyToken string, resp *http.Response) string {
	if t := strings.TrimSpace(bodyToken); t != "" {
		return t
	}
	if resp == nil {
		return ""
	}
	if t := parseBearerToken(resp.Header.Get("Authorization")); t != "" {
		return t
	}
	for _, c := range resp.Cookies() {
		if c.Name == CookieName && c.Value != "" {
			return c.Value
		}
	}
	return ""
}

// walkToken searches a decoded JSON document for a token-like string field.
// Used when the login reply nests the token, e.g. {"data": {"accessToken": "..."}}.
func walkToken(node any) string {
	switch v := node.(type) {
	case map[string]any:
		for k, vv := range v {
			lk := strings.ToLower(strings.ReplaceAll(k, "_", ""))
			if s, ok := vv.(string); ok {
				switch lk {
				case "token", "accesstoken", "authtoken":
					if t := strings.TrimSpace(s); t != "" {
						return t
					}
				case "authorization":
					if t := parseBearerToken(s); t != "" {
						return t
					}
				}
			}
		}
		for _, vv := range v {
			if t := walkToken(vv); t != "" {
				return t
			}
		}
	case []any:
		for _, e := range v {
			if t := walkToken(e); t != "" {
				return t
			}
		}
	}
	return ""
}
