// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package errors defines typed errors with categories for user-friendly reporting.
// Every failure that leaves the API clients carries a machine-readable Kind so the
// command layer can decide how to present it: transport failures get connectivity
// hints, validation failures are shown verbatim, authentication failures point the
// user back to `tripdesk login`, and other API errors surface the server's message.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// KindTransport indicates the request never produced an HTTP response.
	KindTransport Kind = "transport"
	// KindValidation indicates input was rejected before any network call.
	KindValidation Kind = "validation"
	// KindUnauthenticated indicates a 401/403 that forced the session to be cleared.
	KindUnauthenticated Kind = "unauthenticated"
	// KindAPI indicates any other non-2xx response.
	KindAPI Kind = "api"
	// KindStorage indicates the session storage backend failed.
	KindStorage Kind = "storage"
)

// E wraps an error with kind, HTTP status (when known) and a human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Status  int
	Err     error
}

func (e *E) Error() string {
	prefix := string(e.Kind)
	if e.Status != 0 {
		prefix = fmt.Sprintf("%s %d", e.Kind, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// HTTP builds an API error annotated with the response status. 401 and 403
// are reported as KindUnauthenticated.
func HTTP(status int, msg string) *E {
	kind := KindAPI
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		kind = KindUnauthenticated
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &E{Kind: kind, Message: msg, Status: status}
}

// KindOf returns the Kind of the first *E in err's chain, or "" when there is none.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var e *E
	if stderrors.As(err, &e) {
		return e.Status
	}
	return 0
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool { return KindOf(err) == kind }
