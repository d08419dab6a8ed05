// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package backend provides the HTTP pipeline to the Tripdesk booking API.
//
// Two clients share one Transport. AuthClient calls the register and login
// endpoints and never touches the session. Client calls every other endpoint
// through an Interceptor that attaches the stored token and ends the session
// when the server rejects it.
package backend

import (
	"net/http"
	"time"

	"tripdesk/cli/internal/logging"
	"tripdesk/cli/internal/nav"

	"github.com/pterm/pterm"
)

// DefaultTimeout bounds every API call when no timeout is configured.
const DefaultTimeout = 15 * time.Second

// Options configures New.
type Options struct {
	APIBaseURL  string
	AuthBaseURL string
	Store       SessionStore
	Navigator   nav.Navigator
	Mode        AuthMode
	// LogoutStatuses lists the statuses that end the session; see DefaultLogoutStatuses.
	LogoutStatuses []int
	Timeout        time.Duration
	UserAgent      string
	// Base is the innermost round tripper, http.DefaultTransport when nil.
	Base http.RoundTripper
	Log  *pterm.Logger
}

// New wires the transport chain and returns the resource and auth clients.
func New(opts Options) (*Client, *AuthClient) {
	log := opts.Log
	if log == nil {
		log = logging.Discard()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	authBase := opts.AuthBaseURL
	if authBase == "" {
		authBase = opts.APIBaseURL
	}

	transport := &Transport{Base: opts.Base, UserAgent: opts.UserAgent, Log: log}
	interceptor := &Interceptor{
		Next:           transport,
		Store:          opts.Store,
		Navigator:      opts.Navigator,
		Mode:           opts.Mode,
		LogoutStatuses: opts.LogoutStatuses,
		Log:            log,
	}
	return NewClient(opts.APIBaseURL, interceptor, timeout, log),
		NewAuthClient(authBase, transport, timeout, log)
}
