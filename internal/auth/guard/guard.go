// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package guard decides whether a command may run for the current auth state.
package guard

import (
	"tripdesk/cli/internal/auth"
	"tripdesk/cli/internal/nav"
)

// Outcome is what the caller should do.
type Outcome int

const (
	// Render lets the command run.
	Render Outcome = iota
	// Redirect sends the user to Decision.Target instead.
	Redirect
	// Wait means the state is still loading; decide again once it settles.
	Wait
)

// Decision is the result of a guard check.
type Decision struct {
	Outcome Outcome
	Target  string
}

// GuestOnly admits anonymous users. Signed-in users are sent to the landing view.
func GuestOnly(s auth.State) Decision {
	switch s {
	case auth.Loading:
		return Decision{Outcome: Wait}
	case auth.Authenticated:
		return Decision{Outcome: Redirect, Target: nav.Landing}
	default:
		return Decision{Outcome: Render}
	}
}

// AuthenticatedOnly admits signed-in users. Everyone else is sent to login.
func AuthenticatedOnly(s auth.State) Decision {
	switch s {
	case auth.Loading:
		return Decision{Outcome: Wait}
	case auth.Authenticated:
		return Decision{Outcome: Render}
	default:
		return Decision{Outcome: Redirect, Target: nav.Login}
	}
}
