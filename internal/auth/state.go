// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package auth holds the in-memory authentication state of the running process.
// It is seeded from the persisted session at startup, moved by login, logout and
// server-forced sign-outs, and exposed to commands through snapshots and
// subscriptions.
package auth

import "tripdesk/cli/internal/model"

// State is the authentication phase.
type State int

const (
	// Loading means the persisted session has not been read yet.
	Loading State = iota
	// Authenticated means a token and a profile are present.
	Authenticated
	// Anonymous means there is no usable session.
	Anonymous
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Authenticated:
		return "authenticated"
	case Anonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Snapshot is an immutable view of the provider state.
type Snapshot struct {
	State State
	// User is a copy of the signed-in profile; nil unless Authenticated.
	User *model.UserProfile
}

// IsAuthenticated reports whether the snapshot is in the Authenticated state.
func (s Snapshot) IsAuthenticated() bool { return s.State == Authenticated }

// IsLoading reports whether the session is still being read.
func (s Snapshot) IsLoading() bool { return s.State == Loading }

func (s Snapshot) equal(o Snapshot) bool {
	if s.State != o.State {
		return false
	}
	if s.User == nil || o.User == nil {
		return s.User == o.User
	}
	return *s.User == *o.User
}
