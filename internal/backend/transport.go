// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"net/http"
	"time"

	"tripdesk/cli/internal/logging"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
)

// HeaderRequestID carries the per-request correlation id.
const HeaderRequestID = "X-Request-ID"

// Transport stamps the standard headers on every outgoing request and logs the
// exchange at debug level. It sits at the bottom of both the auth and resource
// pipelines.
type Transport struct {
	// Base performs the actual round trip. http.DefaultTransport when nil.
	Base http.RoundTripper
	// UserAgent is sent unless the request already carries one.
	UserAgent string
	Log       *pterm.Logger
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	if r.Header.Get("User-Agent") == "" && t.UserAgent != "" {
		r.Header.Set("User-Agent", t.UserAgent)
	}
	if r.Header.Get("Accept") == "" {
		r.Header.Set("Accept", "application/json, */*")
	}
	if r.Header.Get(HeaderRequestID) == "" {
		r.Header.Set(HeaderRequestID, uuid.NewString())
	}

	start := time.Now()
	resp, err := t.base().RoundTrip(r)
	if log := t.Log; log != nil {
		args := []any{
			"method", r.Method,
			"url", logging.Mask(r.URL.Redacted()),
			"request_id", r.Header.Get(HeaderRequestID),
			"elapsed", time.Since(start).Round(time.Millisecond).String(),
		}
		if err != nil {
			log.Debug("request failed", log.Args(append(args, "error", logging.Mask(err.Error()))...))
		} else {
			log.Debug("request done", log.Args(append(args, "status", resp.StatusCode)...))
		}
	}
	return resp, err
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}
