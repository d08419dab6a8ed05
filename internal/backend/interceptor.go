// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"tripdesk/cli/internal/logging"
	"tripdesk/cli/internal/nav"

	"github.com/pterm/pterm"
)

// AuthMode selects how the session token travels to the API.
type AuthMode string

const (
	// AuthBearer sends "Authorization: Bearer <token>".
	AuthBearer AuthMode = "bearer"
	// AuthCookie sends the token as the auth_token cookie.
	AuthCookie AuthMode = "cookie"
)

// CookieName is the cookie carrying the token in AuthCookie mode.
const CookieName = "auth_token"

// DefaultLogoutStatuses are the response codes that end the local session.
var DefaultLogoutStatuses = []int{http.StatusUnauthorized, http.StatusForbidden}

// ParseAuthMode validates a configured auth mode. Empty means bearer.
func ParseAuthMode(s string) (AuthMode, error) {
	switch AuthMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", AuthBearer:
		return AuthBearer, nil
	case AuthCookie:
		return AuthCookie, nil
	default:
		return "", fmt.Errorf("unknown auth mode %q (want bearer or cookie)", s)
	}
}

// SessionStore is the slice of the session store the interceptor needs.
type SessionStore interface {
	Token() (string, bool)
	Clear() error
}

// Interceptor attaches the stored token to each request and ends the session
// when the API answers with one of the logout statuses. Responses are always
// handed back to the caller unchanged; nothing is retried.
type Interceptor struct {
	Next      http.RoundTripper
	Store     SessionStore
	Navigator nav.Navigator
	Mode      AuthMode
	// LogoutStatuses defaults to DefaultLogoutStatuses when empty.
	LogoutStatuses []int
	Log            *pterm.Logger
}

// RoundTrip implements http.RoundTripper.
func (i *Interceptor) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	if token, ok := i.Store.Token(); ok {
		switch i.Mode {
		case AuthCookie:
			r.AddCookie(&http.Cookie{Name: CookieName, Value: token})
		default:
			r.Header.Set("Authorization", "Bearer "+token)
		}
		if i.Log != nil {
			i.Log.Trace("attached session token", i.Log.Args("mode", string(i.modeOrDefault()), "token", logging.TokenHint(token)))
		}
	}

	next := i.Next
	if next == nil {
		next = http.DefaultTransport
	}
	resp, err := next.RoundTrip(r)
	if err != nil {
		return nil, err
	}

	if i.endsSession(resp.StatusCode) {
		if cerr := i.Store.Clear(); cerr != nil && i.Log != nil {
			i.Log.Warn("could not clear session", i.Log.Args("error", cerr.Error()))
		}
		if i.Log != nil {
			i.Log.Debug("session ended by server", i.Log.Args("status", resp.StatusCode, "path", r.URL.Path))
		}
		if i.Navigator != nil {
			i.Navigator.Navigate(nav.Login)
		}
	}
	return resp, nil
}

func (i *Interceptor) endsSession(status int) bool {
	statuses := i.LogoutStatuses
	if len(statuses) == 0 {
		statuses = DefaultLogoutStatuses
	}
	return slices.Contains(statuses, status)
}

func (i *Interceptor) modeOrDefault() AuthMode {
	if i.Mode == "" {
		return AuthBearer
	}
	return i.Mode
}
